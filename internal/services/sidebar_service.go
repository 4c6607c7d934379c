package services

import (
	"fmt"
	"sync"

	"voidstate/internal/events"
	"voidstate/internal/models"
)

var validSidebarTabs = map[string]bool{"chat": true, "settings": true, "history": true}

// SidebarService holds the sidebar pane state and publishes every change.
type SidebarService struct {
	mu       sync.Mutex
	state    models.SidebarState
	onChange *events.Emitter[models.SidebarState]
}

func NewSidebarService() *SidebarService {
	return &SidebarService{
		state:    models.DefaultSidebarState(),
		onChange: events.NewEmitter[models.SidebarState](),
	}
}

func (s *SidebarService) State() models.SidebarState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SidebarService) Subscribe(fn func(models.SidebarState)) *events.Subscription {
	return s.onChange.Subscribe(fn)
}

func (s *SidebarService) SetOpen(open bool) {
	s.mu.Lock()
	s.state.IsOpen = open
	state := s.state
	s.mu.Unlock()
	s.onChange.Fire(state)
}

func (s *SidebarService) Toggle() {
	s.mu.Lock()
	s.state.IsOpen = !s.state.IsOpen
	state := s.state
	s.mu.Unlock()
	s.onChange.Fire(state)
}

func (s *SidebarService) SetActiveTab(tab string) error {
	if !validSidebarTabs[tab] {
		return fmt.Errorf("unknown sidebar tab %q", tab)
	}
	s.mu.Lock()
	s.state.ActiveTab = tab
	state := s.state
	s.mu.Unlock()
	s.onChange.Fire(state)
	return nil
}
