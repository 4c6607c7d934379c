package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"voidstate/internal/events"
	"voidstate/internal/models"
	"voidstate/internal/repositories"
)

// ThreadService owns the chat-thread domain: threads live in the database,
// the current in-memory snapshot mirrors them for the bridge.
type ThreadService struct {
	repo repositories.ThreadRepository

	mu       sync.Mutex
	state    models.ThreadState
	onChange *events.Emitter[models.ThreadState]
}

func NewThreadService(repo repositories.ThreadRepository) *ThreadService {
	return &ThreadService{
		repo:     repo,
		onChange: events.NewEmitter[models.ThreadState](),
	}
}

// Startup seeds the snapshot from the database.
func (s *ThreadService) Startup(ctx context.Context) error {
	threads, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("load threads: %w", err)
	}
	s.mu.Lock()
	s.state.Threads = threads
	state := s.state
	s.mu.Unlock()
	s.onChange.Fire(state)
	return nil
}

func (s *ThreadService) State() models.ThreadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *ThreadService) Subscribe(fn func(models.ThreadState)) *events.Subscription {
	return s.onChange.Subscribe(fn)
}

func (s *ThreadService) CreateThread(ctx context.Context, title string) (*models.ChatThread, error) {
	if title == "" {
		title = "New thread"
	}
	thread := &models.ChatThread{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, thread); err != nil {
		return nil, fmt.Errorf("create thread: %w", err)
	}
	if err := s.reload(ctx, thread.ID); err != nil {
		return nil, err
	}
	return thread, nil
}

func (s *ThreadService) SetCurrentThread(ctx context.Context, id string) error {
	if id != "" {
		thread, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if thread == nil {
			return fmt.Errorf("thread %q not found", id)
		}
	}
	s.mu.Lock()
	s.state.CurrentThreadID = id
	state := s.state
	s.mu.Unlock()
	s.onChange.Fire(state)
	return nil
}

func (s *ThreadService) AppendMessage(ctx context.Context, threadID, role, content string) error {
	if role != "user" && role != "assistant" {
		return fmt.Errorf("unknown message role %q", role)
	}
	message := &models.ThreadMessage{Role: role, Content: content}
	if err := s.repo.AppendMessage(ctx, threadID, message); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return s.reload(ctx, "")
}

func (s *ThreadService) DeleteThread(ctx context.Context, id string) (bool, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if !removed {
		return false, nil
	}
	s.mu.Lock()
	if s.state.CurrentThreadID == id {
		s.state.CurrentThreadID = ""
	}
	s.mu.Unlock()
	return true, s.reload(ctx, "")
}

// reload refreshes the snapshot from the database and publishes it. A
// non-empty currentID also switches the current thread.
func (s *ThreadService) reload(ctx context.Context, currentID string) error {
	threads, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("reload threads: %w", err)
	}
	s.mu.Lock()
	s.state.Threads = threads
	if currentID != "" {
		s.state.CurrentThreadID = currentID
	}
	state := s.state
	s.mu.Unlock()
	s.onChange.Fire(state)
	return nil
}
