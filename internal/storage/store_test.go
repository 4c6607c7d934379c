package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"voidstate/internal/crypto"
	"voidstate/internal/models"
	"voidstate/internal/tests/mocks"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	keyring.MockInit()
	cryptoService, err := crypto.NewKeyringCrypto()
	require.NoError(t, err)
	return NewEncryptedStore(&mocks.StorageRecordRepositoryMock{}, cryptoService)
}

func TestLoad_AbsentKeyIsFirstRun(t *testing.T) {
	store := newTestStore(t)

	var doc models.SettingsDocument
	ok, err := store.Load(context.Background(), "never-written", &doc)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := models.DefaultSettingsDocument()
	doc.SettingsOfProvider[models.ProviderOpenAI] = models.ProviderSettings{
		Enabled: true,
		Models: []models.ModelInfo{
			{ModelName: "gpt-4o", IsDefault: true},
			{ModelName: "my-model", IsHidden: true},
		},
	}
	sel := &models.ModelSelection{ProviderName: models.ProviderOpenAI, ModelName: "gpt-4o"}
	doc.ModelSelectionOfFeature[models.FeatureChat] = sel

	require.NoError(t, store.Save(ctx, "doc", doc))

	var loaded models.SettingsDocument
	ok, err := store.Load(ctx, "doc", &loaded)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, doc, &loaded)
}

func TestLoad_UndecryptableRecordFails(t *testing.T) {
	keyring.MockInit()
	cryptoService, err := crypto.NewKeyringCrypto()
	require.NoError(t, err)
	records := &mocks.StorageRecordRepositoryMock{}
	store := NewEncryptedStore(records, cryptoService)
	ctx := context.Background()

	require.NoError(t, records.Put(ctx, "doc", []byte("not a sealed blob")))

	var out map[string]any
	_, err = store.Load(ctx, "doc", &out)
	assert.ErrorIs(t, err, crypto.ErrDecrypt)
}
