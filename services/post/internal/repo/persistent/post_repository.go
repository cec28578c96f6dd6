package persistent

import (
	"context"
	"iter"

	"social-monkeys/pkg/apperror"
	"social-monkeys/pkg/database"
	"social-monkeys/pkg/models"
	"social-monkeys/services/post/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	// GetByIDForUpdate is GetByID holding the row lock until the surrounding
	// transaction ends. Counter updates on the post wait for it.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Post, error)
	// Stream yields live posts newest first straight off a database cursor.
	Stream(ctx context.Context) iter.Seq2[*entity.Post, error]
	ListIDs(ctx context.Context) ([]string, error)
	DeleteByAuthor(ctx context.Context, id, author string) error
	IncrementCommentCount(ctx context.Context, id string, delta int) error
	SetCounters(ctx context.Context, id string, likes, comments int) error
	CountLikes(ctx context.Context, id string) (int, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	postModel := ToPostModel(post)
	postModel.LikeCount = 0
	postModel.CommentCount = 0

	if err := r.db.WithContext(ctx).Create(postModel).Error; err != nil {
		return database.TranslateError(err, "post")
	}

	*post = *ToPostEntity(postModel)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	return r.get(r.db.WithContext(ctx), id)
}

func (r *postRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Post, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *postRepository) get(db *gorm.DB, id string) (*entity.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperror.NotFound("post not found")
	}

	var postModel models.Post
	if err := db.Where("id = ?", id).First(&postModel).Error; err != nil {
		return nil, database.TranslateError(err, "post")
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) Stream(ctx context.Context) iter.Seq2[*entity.Post, error] {
	return func(yield func(*entity.Post, error) bool) {
		rows, err := r.db.WithContext(ctx).Model(&models.Post{}).Order("created_at DESC").Rows()
		if err != nil {
			yield(nil, database.TranslateError(err, "posts"))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var postModel models.Post
			if err := r.db.ScanRows(rows, &postModel); err != nil {
				yield(nil, database.TranslateError(err, "posts"))
				return
			}
			if !yield(ToPostEntity(&postModel), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, database.TranslateError(err, "posts"))
		}
	}
}

func (r *postRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Post{}).Order("created_at DESC").Pluck("id", &ids).Error
	if err != nil {
		return nil, database.TranslateError(err, "posts")
	}
	return ids, nil
}

// DeleteByAuthor soft deletes the post only while author still owns it.
func (r *postRepository) DeleteByAuthor(ctx context.Context, id, author string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND author_username = ?", id, author).
		Delete(&models.Post{})
	if result.Error != nil {
		return database.TranslateError(result.Error, "post")
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("post not found")
	}
	return nil
}

func (r *postRepository) IncrementCommentCount(ctx context.Context, id string, delta int) error {
	result := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", delta))
	if result.Error != nil {
		return database.TranslateError(result.Error, "post")
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("post not found")
	}
	return nil
}

func (r *postRepository) SetCounters(ctx context.Context, id string, likes, comments int) error {
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"like_count":    likes,
			"comment_count": comments,
		}).Error
	return database.TranslateError(err, "post")
}

func (r *postRepository) CountLikes(ctx context.Context, id string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", id).Count(&count).Error; err != nil {
		return 0, database.TranslateError(err, "likes")
	}
	return int(count), nil
}
