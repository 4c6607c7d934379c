package mocks

import (
	"context"

	"voidstate/internal/models"
)

type ThreadRepositoryMock struct {
	ListFunc          func(ctx context.Context) ([]models.ChatThread, error)
	GetFunc           func(ctx context.Context, id string) (*models.ChatThread, error)
	CreateFunc        func(ctx context.Context, thread *models.ChatThread) error
	AppendMessageFunc func(ctx context.Context, threadID string, message *models.ThreadMessage) error
	DeleteFunc        func(ctx context.Context, id string) (bool, error)
}

func (m *ThreadRepositoryMock) List(ctx context.Context) ([]models.ChatThread, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *ThreadRepositoryMock) Get(ctx context.Context, id string) (*models.ChatThread, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *ThreadRepositoryMock) Create(ctx context.Context, thread *models.ChatThread) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, thread)
	}
	return nil
}

func (m *ThreadRepositoryMock) AppendMessage(ctx context.Context, threadID string, message *models.ThreadMessage) error {
	if m.AppendMessageFunc != nil {
		return m.AppendMessageFunc(ctx, threadID, message)
	}
	return nil
}

func (m *ThreadRepositoryMock) Delete(ctx context.Context, id string) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}
