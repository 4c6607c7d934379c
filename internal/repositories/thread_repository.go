package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"voidstate/internal/models"
)

type ThreadRepository interface {
	List(ctx context.Context) ([]models.ChatThread, error)
	Get(ctx context.Context, id string) (*models.ChatThread, error)
	Create(ctx context.Context, thread *models.ChatThread) error
	AppendMessage(ctx context.Context, threadID string, message *models.ThreadMessage) error
	Delete(ctx context.Context, id string) (bool, error)
}

type threadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

func (r *threadRepository) List(ctx context.Context) ([]models.ChatThread, error) {
	var threads []models.ChatThread
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("updated_at DESC").
		Find(&threads).Error
	if err != nil {
		return nil, err
	}
	return threads, nil
}

func (r *threadRepository) Get(ctx context.Context, id string) (*models.ChatThread, error) {
	if id == "" {
		return nil, fmt.Errorf("thread id is required")
	}
	var thread models.ChatThread
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("id = ?", id).
		Take(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepository) Create(ctx context.Context, thread *models.ChatThread) error {
	if thread.ID == "" {
		return fmt.Errorf("thread id is required")
	}
	return r.db.WithContext(ctx).Create(thread).Error
}

func (r *threadRepository) AppendMessage(ctx context.Context, threadID string, message *models.ThreadMessage) error {
	if threadID == "" {
		return fmt.Errorf("thread id is required")
	}
	message.ThreadID = threadID
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.ThreadMessage{}).Where("thread_id = ?", threadID).Count(&count).Error; err != nil {
			return err
		}
		message.Position = int(count)
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&models.ChatThread{}).Where("id = ?", threadID).
			Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
	})
}

func (r *threadRepository) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("thread id is required")
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ChatThread{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
