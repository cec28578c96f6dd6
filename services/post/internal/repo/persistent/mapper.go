package persistent

import (
	"social-monkeys/pkg/models"
	"social-monkeys/services/post/internal/entity"
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

func ToPostModel(e *entity.Post) *models.Post {
	if e == nil {
		return nil
	}

	return &models.Post{
		ID:             e.ID,
		Body:           e.Body,
		AuthorUsername: e.AuthorUsername,
		LikeCount:      e.LikeCount,
		CommentCount:   e.CommentCount,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func ToCommentEntity(m *models.Comment) entity.Comment {
	if m == nil {
		return entity.Comment{}
	}

	return entity.Comment{
		ID:             m.ID,
		PostID:         m.PostID,
		AuthorUsername: m.AuthorUsername,
		Body:           m.Body,
		CreatedAt:      m.CreatedAt,
	}
}

func ToCommentModel(e *entity.Comment) *models.Comment {
	if e == nil {
		return nil
	}

	return &models.Comment{
		ID:             e.ID,
		PostID:         e.PostID,
		AuthorUsername: e.AuthorUsername,
		Body:           e.Body,
		CreatedAt:      e.CreatedAt,
	}
}
