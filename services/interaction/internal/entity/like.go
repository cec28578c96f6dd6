package entity

import (
	"fmt"
	"time"

	"social-monkeys/pkg/apperror"
)

var (
	ErrAlreadyLiked = fmt.Errorf("%w: post already liked", apperror.ErrConflict)
	ErrNotLiked     = fmt.Errorf("%w: post not liked", apperror.ErrConflict)
)

// Like records that Username likes PostID. There is at most one per pair.
type Like struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
