package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"voidstate/internal/models"
)

type StorageRecordRepository interface {
	Get(ctx context.Context, key string) (*models.StorageRecord, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type storageRecordRepository struct {
	db *gorm.DB
}

func NewStorageRecordRepository(db *gorm.DB) StorageRecordRepository {
	return &storageRecordRepository{db: db}
}

// Get returns nil without error when the key has never been written.
func (r *storageRecordRepository) Get(ctx context.Context, key string) (*models.StorageRecord, error) {
	if key == "" {
		return nil, fmt.Errorf("storage key is required")
	}
	var record models.StorageRecord
	if err := r.db.WithContext(ctx).Where("key = ?", key).Take(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *storageRecordRepository) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("storage key is required")
	}
	record := models.StorageRecord{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&record).Error
}

func (r *storageRecordRepository) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("storage key is required")
	}
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&models.StorageRecord{}).Error
}
