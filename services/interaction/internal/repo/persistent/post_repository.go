package persistent

import (
	"context"

	"social-monkeys/pkg/apperror"
	"social-monkeys/pkg/database"
	"social-monkeys/pkg/models"
	"social-monkeys/services/interaction/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	// AdjustLikeCount adds delta to like_count in place, never going below zero.
	AdjustLikeCount(ctx context.Context, id string, delta int) error
	ListLikedBy(ctx context.Context, username string, limit, offset int) ([]*entity.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperror.NotFound("post not found")
	}

	var postModel models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&postModel).Error; err != nil {
		return nil, database.TranslateError(err, "post")
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) AdjustLikeCount(ctx context.Context, id string, delta int) error {
	result := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr(
			"CASE WHEN like_count + ? < 0 THEN 0 ELSE like_count + ? END", delta, delta,
		))
	if result.Error != nil {
		return database.TranslateError(result.Error, "post")
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("post not found")
	}
	return nil
}

func (r *postRepository) ListLikedBy(ctx context.Context, username string, limit, offset int) ([]*entity.Post, error) {
	var postModels []models.Post
	query := r.db.WithContext(ctx).Model(&models.Post{}).
		Select("posts.*").
		Joins("INNER JOIN likes ON posts.id = likes.post_id").
		Where("likes.username = ?", username).
		Order("likes.created_at DESC")

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	if err := query.Find(&postModels).Error; err != nil {
		return nil, database.TranslateError(err, "liked posts")
	}

	posts := make([]*entity.Post, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
	}
	return posts, nil
}
