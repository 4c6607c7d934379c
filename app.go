package main

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"voidstate/internal/bridge"
	"voidstate/internal/config"
	"voidstate/internal/crypto"
	"voidstate/internal/models"
	"voidstate/internal/services"
)

// App wires the state-sync backend: database, crypto, domain services, and
// the reactive bridge the editor shell reads through.
type App struct {
	ctx      context.Context
	cfg      config.Config
	services *services.Services
	bridge   *bridge.Bridge
	handle   *bridge.Handle
	dbClose  func() error
}

func NewApp(cfg config.Config, db *gorm.DB, cryptoService crypto.Service) *App {
	svc := services.NewServices(db, cryptoService)
	app := &App{
		cfg:      cfg,
		services: svc,
		bridge:   bridge.New(svc),
	}
	if sqlDB, err := db.DB(); err == nil {
		app.dbClose = sqlDB.Close
	}
	return app
}

// startup loads persisted state, initializes the bridge, applies config
// endpoint overrides, and kicks off model discovery when enabled.
func (a *App) startup(ctx context.Context) error {
	a.ctx = ctx

	if err := a.services.Startup(ctx); err != nil {
		return fmt.Errorf("services startup: %w", err)
	}
	a.handle = a.bridge.Initialize()

	if err := a.applyEndpointOverrides(ctx); err != nil {
		return err
	}

	if a.services.Settings.State().FeatureFlagSettings[models.FlagAutoRefreshModels] {
		a.services.Refresh.RefreshAll(ctx)
	}
	return nil
}

func (a *App) applyEndpointOverrides(ctx context.Context) error {
	overrides := map[models.ProviderName]string{
		models.ProviderOllama:           a.cfg.Providers.OllamaEndpoint,
		models.ProviderOpenAICompatible: a.cfg.Providers.OpenAICompatibleEndpoint,
	}
	for provider, endpoint := range overrides {
		if endpoint == "" {
			continue
		}
		err := a.services.Settings.SetSettingOfProvider(ctx, provider, services.SettingEndpoint, endpoint)
		if err != nil {
			return fmt.Errorf("apply %s endpoint: %w", provider, err)
		}
	}
	return nil
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	a.bridge.Shutdown()

	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			log.Printf("failed to close database: %v", err)
		} else {
			log.Printf("database closed")
		}
		a.dbClose = nil
	}
}
