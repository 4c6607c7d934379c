package bridge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voidstate/internal/models"
	"voidstate/internal/services"
	"voidstate/internal/tests/mocks"
)

func newTestBridge(t *testing.T) (*Bridge, *services.Services) {
	t.Helper()
	svc := &services.Services{
		Settings:  services.NewSettingsService(mocks.NewMemoryStore()),
		Threads:   services.NewThreadService(&mocks.ThreadRepositoryMock{}),
		Sidebar:   services.NewSidebarService(),
		QuickEdit: services.NewQuickEditService(),
		Theme:     services.NewThemeService(),
	}
	svc.Refresh = services.NewRefreshModelService(svc.Settings)
	require.NoError(t, svc.Startup(context.Background()))
	return New(svc), svc
}

func TestSnapshotsBeforeInitializeAreBenignDefaults(t *testing.T) {
	b, _ := newTestBridge(t)

	assert.NotNil(t, b.SettingsSnapshot().Document)
	assert.Equal(t, models.DefaultSidebarState(), b.SidebarSnapshot())
	assert.Equal(t, models.QuickEditIdle, b.QuickEditSnapshot().Status)
	assert.Equal(t, models.DefaultThemeState(), b.ThemeSnapshot())
}

func TestServiceLookupBeforeInitializeFailsLoudly(t *testing.T) {
	b, _ := newTestBridge(t)

	_, err := b.Service(ServiceSettings)
	assert.ErrorIs(t, err, ErrNotInitialized)

	b.Initialize()
	svc, err := b.Service(ServiceSettings)
	require.NoError(t, err)
	_, ok := svc.(services.SettingsService)
	assert.True(t, ok)

	_, err = b.Service("no-such-service")
	assert.Error(t, err)
}

func TestInitializeIsIdempotent(t *testing.T) {
	b, _ := newTestBridge(t)

	first := b.Initialize()
	second := b.Initialize()

	assert.Same(t, first, second)
}

func TestBridgeMirrorsSettingsChanges(t *testing.T) {
	b, svc := newTestBridge(t)
	b.Initialize()
	ctx := context.Background()

	notified := 0
	sub, err := b.Subscribe(DomainSettings, "settings-pane", func() { notified++ })
	require.NoError(t, err)
	defer sub.Dispose()

	require.NoError(t, svc.Settings.SetSettingOfProvider(ctx, models.ProviderOpenAI, services.SettingEnabled, true))

	snap := b.SettingsSnapshot()
	assert.True(t, snap.Document.SettingsOfProvider[models.ProviderOpenAI].Enabled)
	assert.NotEmpty(t, snap.Options)
	assert.Equal(t, 1, notified)
}

func TestBridgeMirrorsSidebarAndTheme(t *testing.T) {
	b, svc := newTestBridge(t)
	b.Initialize()

	svc.Sidebar.Toggle()
	assert.False(t, b.SidebarSnapshot().IsOpen)

	require.NoError(t, svc.Theme.SetTheme("light"))
	assert.Equal(t, "light", b.ThemeSnapshot().Kind)
}

func TestSubscribeDuplicateKeyIsNoOp(t *testing.T) {
	b, svc := newTestBridge(t)
	b.Initialize()

	calls := 0
	_, err := b.Subscribe(DomainSidebar, "sidebar-pane", func() { calls++ })
	require.NoError(t, err)
	_, err = b.Subscribe(DomainSidebar, "sidebar-pane", func() { calls += 100 })
	require.NoError(t, err)

	svc.Sidebar.Toggle()
	assert.Equal(t, 1, calls)

	_, err = b.Subscribe("no-such-domain", "x", func() {})
	assert.Error(t, err)
}
