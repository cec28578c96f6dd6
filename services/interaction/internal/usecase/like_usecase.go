package usecase

import (
	"context"
	"fmt"

	"social-monkeys/pkg/apperror"
	"social-monkeys/pkg/lock"
	"social-monkeys/pkg/logger"
	"social-monkeys/pkg/queue"
	"social-monkeys/services/interaction/internal/entity"
	"social-monkeys/services/interaction/internal/repo/persistent"

	"github.com/google/uuid"
)

type LikeUseCase interface {
	// Like moves (postID, username) from not liked to liked and returns the
	// post with its updated like_count.
	Like(ctx context.Context, postID, username string) (*entity.Post, error)
	// Unlike is the reverse transition.
	Unlike(ctx context.Context, postID, username string) (*entity.Post, error)
	IsLiked(ctx context.Context, postID, username string) (bool, error)
	GetLikedPosts(ctx context.Context, username string, limit, offset int) ([]*entity.Post, error)
}

type likeUseCase struct {
	store    persistent.Store
	locker   lock.Locker
	notifier Notifier
	logger   *logger.Logger
}

// NewLikeUseCase accepts a nil notifier.
func NewLikeUseCase(store persistent.Store, locker lock.Locker, notifier Notifier, logger *logger.Logger) LikeUseCase {
	return &likeUseCase{
		store:    store,
		locker:   locker,
		notifier: notifier,
		logger:   logger,
	}
}

// canonicalPostID folds every spelling uuid.Parse accepts (upper case,
// braces, urn:uuid:) onto one form so a post has exactly one lock key.
// Anything else is left as is and fails the post lookup.
func canonicalPostID(postID string) string {
	if id, err := uuid.Parse(postID); err == nil {
		return id.String()
	}
	return postID
}

func lockKey(postID, username string) string {
	return fmt.Sprintf("like:%s:%s", postID, username)
}

// acquire serializes toggles of one (post, user) pair.
func (uc *likeUseCase) acquire(ctx context.Context, postID, username string) (func(), error) {
	key := lockKey(postID, username)
	release, err := uc.locker.Acquire(ctx, key)
	if err != nil {
		return nil, apperror.StoreUnavailable("acquire like lock", err)
	}
	return func() {
		if err := release(); err != nil {
			uc.logger.Warn("Failed to release lock %s: %v", key, err)
		}
	}, nil
}

func (uc *likeUseCase) Like(ctx context.Context, postID, username string) (*entity.Post, error) {
	if username == "" {
		return nil, apperror.Unauthorized("missing identity")
	}
	postID = canonicalPostID(postID)

	release, err := uc.acquire(ctx, postID, username)
	if err != nil {
		return nil, err
	}
	defer release()

	post, err := uc.store.Posts().GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	existing, err := uc.store.Likes().Find(ctx, post.ID, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, entity.ErrAlreadyLiked
	}

	// The unique (post_id, username) index rejects a racing insert, and the
	// counter only moves in the same transaction as a successful insert.
	err = uc.store.Atomically(ctx, func(tx persistent.Store) error {
		if err := tx.Likes().Insert(ctx, &entity.Like{PostID: post.ID, Username: username}); err != nil {
			return err
		}
		return tx.Posts().AdjustLikeCount(ctx, post.ID, 1)
	})
	if err != nil {
		return nil, err
	}

	updated, err := uc.store.Posts().GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	notify(ctx, uc.notifier, uc.logger, queue.Task{
		Type:      queue.TaskLike,
		PostID:    post.ID,
		Actor:     username,
		Recipient: post.AuthorUsername,
		Priority:  3,
	})
	return updated, nil
}

func (uc *likeUseCase) Unlike(ctx context.Context, postID, username string) (*entity.Post, error) {
	if username == "" {
		return nil, apperror.Unauthorized("missing identity")
	}
	postID = canonicalPostID(postID)

	release, err := uc.acquire(ctx, postID, username)
	if err != nil {
		return nil, err
	}
	defer release()

	post, err := uc.store.Posts().GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	existing, err := uc.store.Likes().Find(ctx, post.ID, username)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, entity.ErrNotLiked
	}

	err = uc.store.Atomically(ctx, func(tx persistent.Store) error {
		if err := tx.Likes().Delete(ctx, post.ID, username); err != nil {
			return err
		}
		return tx.Posts().AdjustLikeCount(ctx, post.ID, -1)
	})
	if err != nil {
		return nil, err
	}

	return uc.store.Posts().GetByID(ctx, post.ID)
}

func (uc *likeUseCase) IsLiked(ctx context.Context, postID, username string) (bool, error) {
	post, err := uc.store.Posts().GetByID(ctx, canonicalPostID(postID))
	if err != nil {
		return false, err
	}

	like, err := uc.store.Likes().Find(ctx, post.ID, username)
	if err != nil {
		return false, err
	}
	return like != nil, nil
}

func (uc *likeUseCase) GetLikedPosts(ctx context.Context, username string, limit, offset int) ([]*entity.Post, error) {
	if username == "" {
		return nil, apperror.Unauthorized("missing identity")
	}
	return uc.store.Posts().ListLikedBy(ctx, username, limit, offset)
}
