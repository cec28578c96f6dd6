package usecase

import (
	"context"
	"errors"
	"io"
	"path"
	"regexp"
	"strings"

	"social-monkeys/pkg/apperror"
	"social-monkeys/pkg/jwt"
	"social-monkeys/pkg/logger"
	"social-monkeys/services/auth/internal/entity"
	"social-monkeys/services/auth/internal/repo/persistent"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgEmpty            = "Must not be empty"
	msgInvalidEmail     = "Must be a valid Email Address"
	msgPasswordMismatch = "Passwords must match"
)

var emailPattern = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// ImageStore keeps profile images. pkg/s3.Client satisfies it.
type ImageStore interface {
	UploadFile(ctx context.Context, key string, body io.ReadSeeker, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
	ObjectURL(key string) string
}

type AuthUseCase interface {
	// Signup creates the user and returns a token for it.
	Signup(ctx context.Context, input entity.Signup) (string, error)
	Login(ctx context.Context, input entity.Credentials) (string, error)
	GetMe(ctx context.Context, userID string) (*entity.User, error)
	AddUserDetails(ctx context.Context, userID string, details entity.Details) (*entity.User, error)
	UploadImage(ctx context.Context, userID, filename, contentType string, body io.ReadSeeker) (*entity.User, error)
}

type authUseCase struct {
	userRepo   persistent.UserRepository
	jwtService *jwt.Service
	images     ImageStore
	logger     *logger.Logger
}

func NewAuthUseCase(
	userRepo persistent.UserRepository,
	jwtService *jwt.Service,
	images ImageStore,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:   userRepo,
		jwtService: jwtService,
		images:     images,
		logger:     logger,
	}
}

func isEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

func validateSignup(input entity.Signup) error {
	fields := apperror.FieldErrors{}

	switch {
	case isEmpty(input.Email):
		fields["email"] = msgEmpty
	case !emailPattern.MatchString(input.Email):
		fields["email"] = msgInvalidEmail
	}
	if isEmpty(input.Username) {
		fields["username"] = msgEmpty
	}
	if isEmpty(input.Password) {
		fields["password"] = msgEmpty
	}
	if input.Password != input.ConfirmPassword {
		fields["confirmPassword"] = msgPasswordMismatch
	}

	if len(fields) > 0 {
		return fields
	}
	return nil
}

func validateLogin(input entity.Credentials) error {
	fields := apperror.FieldErrors{}
	if isEmpty(input.Email) {
		fields["email"] = msgEmpty
	}
	if isEmpty(input.Password) {
		fields["password"] = msgEmpty
	}

	if len(fields) > 0 {
		return fields
	}
	return nil
}

// ReduceDetails trims the profile fields and gives a bare website an http
// scheme.
func ReduceDetails(details entity.Details) entity.Details {
	reduced := entity.Details{
		Bio:      strings.TrimSpace(details.Bio),
		Website:  strings.TrimSpace(details.Website),
		Location: strings.TrimSpace(details.Location),
	}
	if reduced.Website != "" && !strings.HasPrefix(reduced.Website, "http") {
		reduced.Website = "http://" + reduced.Website
	}
	return reduced
}

func (uc *authUseCase) Signup(ctx context.Context, input entity.Signup) (string, error) {
	if err := validateSignup(input); err != nil {
		return "", err
	}

	taken, err := uc.userRepo.ExistsUsername(ctx, input.Username)
	if err != nil {
		return "", err
	}
	if taken {
		return "", apperror.Conflict("This username is already taken")
	}

	inUse, err := uc.userRepo.ExistsEmail(ctx, input.Email)
	if err != nil {
		return "", err
	}
	if inUse {
		return "", apperror.Conflict("Email is already in use")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return "", err
	}

	user := &entity.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashedPassword),
		ImageURL: uc.images.ObjectURL(entity.DefaultImage),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return "", err
	}
	uc.logger.Info("User %s signed up", user.Username)

	return uc.jwtService.GenerateToken(user.ID, user.Username)
}

func (uc *authUseCase) Login(ctx context.Context, input entity.Credentials) (string, error) {
	if err := validateLogin(input); err != nil {
		return "", err
	}

	wrong := apperror.Unauthorized("Wrong credentials, please try again with valid credentials")

	user, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if errors.Is(err, apperror.ErrNotFound) {
		return "", wrong
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return "", wrong
	}

	return uc.jwtService.GenerateToken(user.ID, user.Username)
}

func (uc *authUseCase) GetMe(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *authUseCase) AddUserDetails(ctx context.Context, userID string, details entity.Details) (*entity.User, error) {
	if err := uc.userRepo.UpdateDetails(ctx, userID, ReduceDetails(details)); err != nil {
		return nil, err
	}
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *authUseCase) UploadImage(ctx context.Context, userID, filename, contentType string, body io.ReadSeeker) (*entity.User, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, apperror.Validation("Wrong file type submitted")
	}
	if e := strings.ToLower(path.Ext(filename)); e == ".jpeg" || e == ".jpg" || e == ".png" {
		ext = e
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := "profile-images/" + uuid.New().String() + ext
	imageURL, err := uc.images.UploadFile(ctx, key, body, contentType)
	if err != nil {
		return nil, apperror.StoreUnavailable("upload profile image", err)
	}

	if err := uc.userRepo.UpdateImageURL(ctx, user.ID, imageURL); err != nil {
		if delErr := uc.images.DeleteFile(ctx, key); delErr != nil {
			uc.logger.Warn("Failed to remove orphaned image %s: %v", key, delErr)
		}
		return nil, err
	}
	uc.logger.Info("User %s uploaded profile image %s", user.Username, key)

	user.ImageURL = imageURL
	return user, nil
}
