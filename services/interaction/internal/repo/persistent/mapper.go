package persistent

import (
	"social-monkeys/pkg/models"
	"social-monkeys/services/interaction/internal/entity"
)

func ToPostEntity(m *models.Post) *entity.Post {
	if m == nil {
		return nil
	}

	return &entity.Post{
		ID:             m.ID,
		Body:           m.Body,
		AuthorUsername: m.AuthorUsername,
		LikeCount:      m.LikeCount,
		CommentCount:   m.CommentCount,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func ToLikeEntity(m *models.Like) *entity.Like {
	if m == nil {
		return nil
	}

	return &entity.Like{
		ID:        m.ID,
		PostID:    m.PostID,
		Username:  m.Username,
		CreatedAt: m.CreatedAt,
	}
}

func ToLikeModel(e *entity.Like) *models.Like {
	if e == nil {
		return nil
	}

	return &models.Like{
		ID:        e.ID,
		PostID:    e.PostID,
		Username:  e.Username,
		CreatedAt: e.CreatedAt,
	}
}
