package services

import (
	"fmt"
	"sync"

	"voidstate/internal/events"
	"voidstate/internal/models"
)

var validThemeKinds = map[string]bool{"light": true, "dark": true, "highContrast": true}

// ThemeService tracks the active color theme. The editor shell calls
// SetTheme when its theme-changed event fires; the bridge mirrors it out.
type ThemeService struct {
	mu       sync.Mutex
	state    models.ThemeState
	onChange *events.Emitter[models.ThemeState]
}

func NewThemeService() *ThemeService {
	return &ThemeService{
		state:    models.DefaultThemeState(),
		onChange: events.NewEmitter[models.ThemeState](),
	}
}

func (s *ThemeService) State() models.ThemeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *ThemeService) Subscribe(fn func(models.ThemeState)) *events.Subscription {
	return s.onChange.Subscribe(fn)
}

func (s *ThemeService) SetTheme(kind string) error {
	if !validThemeKinds[kind] {
		return fmt.Errorf("unknown theme kind %q", kind)
	}
	s.mu.Lock()
	s.state.Kind = kind
	state := s.state
	s.mu.Unlock()
	s.onChange.Fire(state)
	return nil
}
