package mocks

import (
	"context"
	"sync"

	"voidstate/internal/models"
)

// StorageRecordRepositoryMock keeps records in a map unless overridden via
// the Func fields.
type StorageRecordRepositoryMock struct {
	GetFunc    func(ctx context.Context, key string) (*models.StorageRecord, error)
	PutFunc    func(ctx context.Context, key string, value []byte) error
	DeleteFunc func(ctx context.Context, key string) error

	mu      sync.Mutex
	records map[string][]byte
}

func (m *StorageRecordRepositoryMock) Get(ctx context.Context, key string) (*models.StorageRecord, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.records[key]
	if !ok {
		return nil, nil
	}
	return &models.StorageRecord{Key: key, Value: value}, nil
}

func (m *StorageRecordRepositoryMock) Put(ctx context.Context, key string, value []byte) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records == nil {
		m.records = make(map[string][]byte)
	}
	m.records[key] = value
	return nil
}

func (m *StorageRecordRepositoryMock) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}
