package persistent

import (
	"context"

	"social-monkeys/pkg/database"
	"social-monkeys/pkg/models"
	"social-monkeys/services/post/internal/entity"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	// ListByPost returns the comments of a post, newest first.
	ListByPost(ctx context.Context, postID string) ([]entity.Comment, error)
	CountByPost(ctx context.Context, postID string) (int, error)
}

type commentRepository struct {
	db *gorm.DB
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	commentModel := ToCommentModel(comment)
	if err := r.db.WithContext(ctx).Create(commentModel).Error; err != nil {
		return database.TranslateError(err, "comment")
	}
	*comment = ToCommentEntity(commentModel)
	return nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]entity.Comment, error) {
	var commentModels []models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&commentModels).Error
	if err != nil {
		return nil, database.TranslateError(err, "comments")
	}

	comments := make([]entity.Comment, len(commentModels))
	for i := range commentModels {
		comments[i] = ToCommentEntity(&commentModels[i])
	}
	return comments, nil
}

func (r *commentRepository) CountByPost(ctx context.Context, postID string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, database.TranslateError(err, "comments")
	}
	return int(count), nil
}
