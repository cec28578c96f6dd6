package persistent

import (
	"context"

	"social-monkeys/pkg/apperror"
	"social-monkeys/pkg/database"
	"social-monkeys/pkg/models"
	"social-monkeys/services/auth/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	// Create fails with a Conflict when the username or email is taken.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsUsername(ctx context.Context, username string) (bool, error)
	ExistsEmail(ctx context.Context, email string) (bool, error)
	UpdateDetails(ctx context.Context, id string, details entity.Details) error
	UpdateImageURL(ctx context.Context, id, imageURL string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := ToUserModel(user)
	if err := r.db.WithContext(ctx).Create(userModel).Error; err != nil {
		return database.TranslateError(err, "user")
	}
	*user = *ToUserEntity(userModel)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperror.NotFound("user not found")
	}
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) first(ctx context.Context, query string, arg string) (*entity.User, error) {
	var userModel models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&userModel).Error; err != nil {
		return nil, database.TranslateError(err, "user")
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) ExistsUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *userRepository) ExistsEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *userRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, database.TranslateError(err, "user")
	}
	return count > 0, nil
}

func (r *userRepository) UpdateDetails(ctx context.Context, id string, details entity.Details) error {
	// A map keeps empty strings, which Updates would skip on a struct
	return r.update(ctx, id, map[string]interface{}{
		"bio":      details.Bio,
		"website":  details.Website,
		"location": details.Location,
	})
}

func (r *userRepository) UpdateImageURL(ctx context.Context, id, imageURL string) error {
	return r.update(ctx, id, map[string]interface{}{"image_url": imageURL})
}

func (r *userRepository) update(ctx context.Context, id string, values map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return database.TranslateError(result.Error, "user")
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("user not found")
	}
	return nil
}
