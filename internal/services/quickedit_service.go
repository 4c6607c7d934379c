package services

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"voidstate/internal/events"
	"voidstate/internal/models"
)

// QuickEditService tracks the inline-edit session the editor widget binds
// to. At most one session is active at a time; accept and reject both return
// the state to idle.
type QuickEditService struct {
	mu       sync.Mutex
	state    models.QuickEditState
	onChange *events.Emitter[models.QuickEditState]
}

func NewQuickEditService() *QuickEditService {
	return &QuickEditService{
		state:    models.QuickEditState{Status: models.QuickEditIdle},
		onChange: events.NewEmitter[models.QuickEditState](),
	}
}

func (s *QuickEditService) State() models.QuickEditState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *QuickEditService) Subscribe(fn func(models.QuickEditState)) *events.Subscription {
	return s.onChange.Subscribe(fn)
}

// Begin starts a session and returns its id. Beginning while a session is
// active replaces it; the widget owns that decision.
func (s *QuickEditService) Begin(instructions string) string {
	s.mu.Lock()
	s.state = models.QuickEditState{
		SessionID:    uuid.NewString(),
		Status:       models.QuickEditEditing,
		Instructions: instructions,
	}
	state := s.state
	s.mu.Unlock()
	s.onChange.Fire(state)
	return state.SessionID
}

func (s *QuickEditService) UpdateInstructions(sessionID, instructions string) error {
	s.mu.Lock()
	if s.state.SessionID != sessionID || s.state.Status != models.QuickEditEditing {
		s.mu.Unlock()
		return fmt.Errorf("no editable session %q", sessionID)
	}
	s.state.Instructions = instructions
	state := s.state
	s.mu.Unlock()
	s.onChange.Fire(state)
	return nil
}

func (s *QuickEditService) Accept(sessionID string) error {
	return s.finish(sessionID, models.QuickEditApplying)
}

func (s *QuickEditService) Reject(sessionID string) error {
	return s.finish(sessionID, models.QuickEditIdle)
}

func (s *QuickEditService) finish(sessionID string, transition models.QuickEditStatus) error {
	s.mu.Lock()
	if s.state.SessionID != sessionID || s.state.Status != models.QuickEditEditing {
		s.mu.Unlock()
		return fmt.Errorf("no editable session %q", sessionID)
	}
	if transition == models.QuickEditApplying {
		// the apply pass is synchronous from this layer's point of view
		s.state.Status = models.QuickEditApplying
		applying := s.state
		s.mu.Unlock()
		s.onChange.Fire(applying)
		s.mu.Lock()
	}
	s.state = models.QuickEditState{Status: models.QuickEditIdle}
	state := s.state
	s.mu.Unlock()
	s.onChange.Fire(state)
	return nil
}
