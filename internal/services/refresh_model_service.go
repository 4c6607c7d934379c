package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"voidstate/internal/events"
	"voidstate/internal/models"
)

// RefreshModelService probes provider endpoints for their model lists and
// feeds discoveries into the settings store as default models. Only
// endpoint-backed providers (ollama, openAICompatible) are refreshable.
type RefreshModelService struct {
	settings   SettingsService
	httpClient *http.Client

	mu       sync.Mutex
	state    models.RefreshState
	onChange *events.Emitter[models.RefreshState]
}

func NewRefreshModelService(settings SettingsService) *RefreshModelService {
	return &RefreshModelService{
		settings: settings,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		state:    models.DefaultRefreshState(),
		onChange: events.NewEmitter[models.RefreshState](),
	}
}

func (s *RefreshModelService) State() models.RefreshState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *RefreshModelService) Subscribe(fn func(models.RefreshState)) *events.Subscription {
	return s.onChange.Subscribe(fn)
}

func refreshableProvider(provider models.ProviderName) bool {
	return provider == models.ProviderOllama || provider == models.ProviderOpenAICompatible
}

// RefreshAll sweeps every enabled refreshable provider sequentially.
func (s *RefreshModelService) RefreshAll(ctx context.Context) {
	doc := s.settings.State()
	for _, provider := range models.AllProviderNames() {
		if !refreshableProvider(provider) {
			continue
		}
		settings, ok := doc.SettingsOfProvider[provider]
		if !ok || !settings.Enabled || settings.Endpoint == "" {
			continue
		}
		// a failed provider must not abort the sweep
		_ = s.RefreshProvider(ctx, provider)
	}
}

// RefreshProvider lists the provider's models and rebuilds its defaults.
// Progress is published before and after the probe.
func (s *RefreshModelService) RefreshProvider(ctx context.Context, provider models.ProviderName) error {
	if !refreshableProvider(provider) {
		return fmt.Errorf("provider %q does not support model discovery", provider)
	}
	settings, ok := s.settings.State().SettingsOfProvider[provider]
	if !ok {
		return fmt.Errorf("unknown provider %q", provider)
	}
	if settings.Endpoint == "" {
		return fmt.Errorf("provider %q has no endpoint configured", provider)
	}

	s.publish(provider, models.RefreshInProgress)

	names, err := s.listModels(ctx, provider, settings.Endpoint)
	if err != nil {
		s.publish(provider, models.RefreshError)
		return fmt.Errorf("list models for %q: %w", provider, err)
	}
	sort.Strings(names)

	if err := s.settings.SetDefaultModels(ctx, provider, names); err != nil {
		s.publish(provider, models.RefreshError)
		return err
	}
	s.publish(provider, models.RefreshDone)
	return nil
}

func (s *RefreshModelService) publish(provider models.ProviderName, status models.RefreshStatus) {
	s.mu.Lock()
	s.state.StateOfProvider[provider] = status
	state := s.state.Clone()
	s.mu.Unlock()
	s.onChange.Fire(state)
}

func (s *RefreshModelService) listModels(ctx context.Context, provider models.ProviderName, endpoint string) ([]string, error) {
	switch provider {
	case models.ProviderOllama:
		return s.listOllamaModels(ctx, endpoint)
	default:
		return s.listOpenAICompatibleModels(ctx, endpoint)
	}
}

// listOllamaModels calls the Ollama tags endpoint.
func (s *RefreshModelService) listOllamaModels(ctx context.Context, endpoint string) ([]string, error) {
	body, err := s.get(ctx, endpoint+"/api/tags")
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	names := make([]string, 0, len(parsed.Models))
	for _, model := range parsed.Models {
		if model.Name != "" {
			names = append(names, model.Name)
		}
	}
	return names, nil
}

// listOpenAICompatibleModels calls the standard /v1/models endpoint.
func (s *RefreshModelService) listOpenAICompatibleModels(ctx context.Context, endpoint string) ([]string, error) {
	body, err := s.get(ctx, endpoint+"/v1/models")
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	names := make([]string, 0, len(parsed.Data))
	for _, model := range parsed.Data {
		if model.ID != "" {
			names = append(names, model.ID)
		}
	}
	return names, nil
}

func (s *RefreshModelService) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}
