package models

import "time"

// ChatThread is one persisted conversation in the sidebar.
type ChatThread struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	Title     string          `gorm:"size:255;not null" json:"title"`
	Messages  []ThreadMessage `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"messages"`
	CreatedAt time.Time       `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time       `gorm:"not null" json:"updatedAt"`
}

// ThreadMessage is one message within a thread, ordered by Position.
type ThreadMessage struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	ThreadID string `gorm:"size:36;not null;index:idx_message_thread" json:"-"`
	Role     string `gorm:"size:20;not null" json:"role"` // "user" | "assistant"
	Content  string `gorm:"not null" json:"content"`
	Position int    `gorm:"not null" json:"position"`
}
