package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestSealOpenRoundTrip(t *testing.T) {
	keyring.MockInit()
	svc, err := NewKeyringCrypto()
	require.NoError(t, err)

	plain := []byte(`{"settingsOfProvider":{}}`)
	sealed, err := svc.Seal(plain)
	require.NoError(t, err)
	assert.NotEqual(t, plain, sealed)

	opened, err := svc.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plain, opened)
}

func TestKeyPersistsAcrossInstances(t *testing.T) {
	keyring.MockInit()
	first, err := NewKeyringCrypto()
	require.NoError(t, err)
	second, err := NewKeyringCrypto()
	require.NoError(t, err)

	sealed, err := first.Seal([]byte("payload"))
	require.NoError(t, err)

	opened, err := second.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), opened)
}

func TestOpenRejectsTamperedBlob(t *testing.T) {
	keyring.MockInit()
	svc, err := NewKeyringCrypto()
	require.NoError(t, err)

	sealed, err := svc.Seal([]byte("payload"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xff

	_, err = svc.Open(sealed)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestOpenRejectsTruncatedBlob(t *testing.T) {
	keyring.MockInit()
	svc, err := NewKeyringCrypto()
	require.NoError(t, err)

	_, err = svc.Open([]byte("short"))
	assert.ErrorIs(t, err, ErrDecrypt)
}
