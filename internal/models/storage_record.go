package models

import "time"

// StorageRecord is one row of the application-scoped key-value store. Value
// is an opaque encrypted blob; nothing below the storage layer can read it.
type StorageRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Key       string    `gorm:"size:255;not null;uniqueIndex"`
	Value     []byte    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
