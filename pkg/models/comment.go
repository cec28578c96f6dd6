package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is immutable once stored.
type Comment struct {
	ID             string    `gorm:"type:uuid;primary_key" json:"id"`
	PostID         string    `gorm:"type:uuid;not null;index:idx_comments_post_created,priority:1" json:"post_id"`
	AuthorUsername string    `gorm:"type:varchar(64);not null" json:"author_username"`
	Body           string    `gorm:"type:text;not null" json:"body"`
	CreatedAt      time.Time `gorm:"index:idx_comments_post_created,priority:2" json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
