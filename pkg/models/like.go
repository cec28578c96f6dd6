package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like has no soft delete: unlike removes the row so the unique
// (post_id, username) index admits a later like again.
type Like struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_likes_post_username,priority:1" json:"post_id"`
	Username  string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_likes_post_username,priority:2;index" json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}
