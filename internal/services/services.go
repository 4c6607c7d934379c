package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"voidstate/internal/crypto"
	"voidstate/internal/repositories"
	"voidstate/internal/storage"
)

// Services aggregates the state-sync domain services. Collaborators are
// wired here once, at construction, instead of looked up by key.
type Services struct {
	Settings  SettingsService
	Threads   *ThreadService
	Sidebar   *SidebarService
	QuickEdit *QuickEditService
	Theme     *ThemeService
	Refresh   *RefreshModelService
}

// NewServices constructs the service container using repositories backed by
// db and the injected crypto service.
func NewServices(db *gorm.DB, cryptoService crypto.Service) *Services {
	records := repositories.NewStorageRecordRepository(db)
	threadRepo := repositories.NewThreadRepository(db)
	store := storage.NewEncryptedStore(records, cryptoService)

	settings := NewSettingsService(store)
	return &Services{
		Settings:  settings,
		Threads:   NewThreadService(threadRepo),
		Sidebar:   NewSidebarService(),
		QuickEdit: NewQuickEditService(),
		Theme:     NewThemeService(),
		Refresh:   NewRefreshModelService(settings),
	}
}

// Startup brings the persisted domains online. The settings store fires its
// initial-state event here; in-memory-only services need no startup.
func (s *Services) Startup(ctx context.Context) error {
	if err := s.Settings.Startup(ctx); err != nil {
		return fmt.Errorf("settings startup: %w", err)
	}
	if err := s.Threads.Startup(ctx); err != nil {
		return fmt.Errorf("threads startup: %w", err)
	}
	return nil
}
