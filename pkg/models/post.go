package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID             string         `gorm:"type:uuid;primary_key" json:"id"`
	Body           string         `gorm:"type:text;not null" json:"body"`
	AuthorUsername string         `gorm:"type:varchar(64);not null;index" json:"author_username"`
	LikeCount      int            `gorm:"not null;default:0" json:"like_count"`
	CommentCount   int            `gorm:"not null;default:0" json:"comment_count"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
