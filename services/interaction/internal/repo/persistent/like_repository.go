package persistent

import (
	"context"
	"errors"

	"social-monkeys/pkg/database"
	"social-monkeys/pkg/models"
	"social-monkeys/services/interaction/internal/entity"

	"gorm.io/gorm"
)

type LikeRepository interface {
	// Find returns nil when the pair has no like.
	Find(ctx context.Context, postID, username string) (*entity.Like, error)
	// Insert fails with entity.ErrAlreadyLiked when the pair already has a like.
	Insert(ctx context.Context, like *entity.Like) error
	// Delete fails with entity.ErrNotLiked when there was nothing to delete.
	Delete(ctx context.Context, postID, username string) error
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Find(ctx context.Context, postID, username string) (*entity.Like, error) {
	var likeModels []models.Like
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND username = ?", postID, username).
		Limit(1).
		Find(&likeModels).Error
	if err != nil {
		return nil, database.TranslateError(err, "like")
	}
	if len(likeModels) == 0 {
		return nil, nil
	}
	return ToLikeEntity(&likeModels[0]), nil
}

func (r *likeRepository) Insert(ctx context.Context, like *entity.Like) error {
	likeModel := ToLikeModel(like)
	err := r.db.WithContext(ctx).Create(likeModel).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return entity.ErrAlreadyLiked
	}
	if err != nil {
		return database.TranslateError(err, "like")
	}

	*like = *ToLikeEntity(likeModel)
	return nil
}

func (r *likeRepository) Delete(ctx context.Context, postID, username string) error {
	result := r.db.WithContext(ctx).
		Where("post_id = ? AND username = ?", postID, username).
		Delete(&models.Like{})
	if result.Error != nil {
		return database.TranslateError(result.Error, "like")
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotLiked
	}
	return nil
}
