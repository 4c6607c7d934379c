package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voidstate/internal/models"
	"voidstate/internal/tests/mocks"
)

func TestRefreshProvider_Ollama(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3:8b"},{"name":"mistral:7b"}]}`))
	}))
	defer server.Close()

	settings := NewSettingsService(mocks.NewMemoryStore())
	require.NoError(t, settings.Startup(context.Background()))
	ctx := context.Background()
	require.NoError(t, settings.SetSettingOfProvider(ctx, models.ProviderOllama, SettingEndpoint, server.URL))

	refresh := NewRefreshModelService(settings)
	var statuses []models.RefreshStatus
	refresh.Subscribe(func(state models.RefreshState) {
		statuses = append(statuses, state.StateOfProvider[models.ProviderOllama])
	})

	require.NoError(t, refresh.RefreshProvider(ctx, models.ProviderOllama))

	list := settings.State().SettingsOfProvider[models.ProviderOllama].Models
	assert.Equal(t, []models.ModelInfo{
		{ModelName: "llama3:8b", IsDefault: true},
		{ModelName: "mistral:7b", IsDefault: true},
	}, list)
	assert.Equal(t, []models.RefreshStatus{models.RefreshInProgress, models.RefreshDone}, statuses)
}

func TestRefreshProvider_OpenAICompatible(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"local-7b"},{"id":"local-70b"}]}`))
	}))
	defer server.Close()

	settings := NewSettingsService(mocks.NewMemoryStore())
	require.NoError(t, settings.Startup(context.Background()))
	ctx := context.Background()
	require.NoError(t, settings.SetSettingOfProvider(ctx, models.ProviderOpenAICompatible, SettingEndpoint, server.URL))

	refresh := NewRefreshModelService(settings)
	require.NoError(t, refresh.RefreshProvider(ctx, models.ProviderOpenAICompatible))

	list := settings.State().SettingsOfProvider[models.ProviderOpenAICompatible].Models
	assert.Equal(t, []models.ModelInfo{
		{ModelName: "local-70b", IsDefault: true},
		{ModelName: "local-7b", IsDefault: true},
	}, list)
}

func TestRefreshProvider_ServerErrorPublishesErrorState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	settings := NewSettingsService(mocks.NewMemoryStore())
	require.NoError(t, settings.Startup(context.Background()))
	ctx := context.Background()
	require.NoError(t, settings.SetSettingOfProvider(ctx, models.ProviderOllama, SettingEndpoint, server.URL))

	refresh := NewRefreshModelService(settings)
	err := refresh.RefreshProvider(ctx, models.ProviderOllama)
	assert.Error(t, err)
	assert.Equal(t, models.RefreshError, refresh.State().StateOfProvider[models.ProviderOllama])
}

func TestRefreshProvider_RejectsNonDiscoverableProvider(t *testing.T) {
	settings := NewSettingsService(mocks.NewMemoryStore())
	require.NoError(t, settings.Startup(context.Background()))
	refresh := NewRefreshModelService(settings)

	assert.Error(t, refresh.RefreshProvider(context.Background(), models.ProviderAnthropic))
}
