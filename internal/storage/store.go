// Package storage persists JSON documents as encrypted blobs in the
// application-scoped key-value store. One key maps to one document.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"voidstate/internal/crypto"
	"voidstate/internal/repositories"
)

// Store loads and saves one document per key. Absence of a key is reported
// through the ok result, not an error: it means first run.
type Store interface {
	Load(ctx context.Context, key string, out any) (bool, error)
	Save(ctx context.Context, key string, doc any) error
}

type encryptedStore struct {
	records repositories.StorageRecordRepository
	crypto  crypto.Service
}

// NewEncryptedStore wires the record repository with the crypto service.
// Both are constructor-injected; the store has no other collaborators.
func NewEncryptedStore(records repositories.StorageRecordRepository, cryptoService crypto.Service) Store {
	return &encryptedStore{records: records, crypto: cryptoService}
}

func (s *encryptedStore) Load(ctx context.Context, key string, out any) (bool, error) {
	record, err := s.records.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read record %q: %w", key, err)
	}
	if record == nil {
		return false, nil
	}

	plain, err := s.crypto.Open(record.Value)
	if err != nil {
		return false, fmt.Errorf("decrypt record %q: %w", key, err)
	}
	if err := json.Unmarshal(plain, out); err != nil {
		return false, fmt.Errorf("parse record %q: %w", key, err)
	}
	return true, nil
}

func (s *encryptedStore) Save(ctx context.Context, key string, doc any) error {
	plain, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal record %q: %w", key, err)
	}
	sealed, err := s.crypto.Seal(plain)
	if err != nil {
		return fmt.Errorf("encrypt record %q: %w", key, err)
	}
	if err := s.records.Put(ctx, key, sealed); err != nil {
		return fmt.Errorf("write record %q: %w", key, err)
	}
	return nil
}
