package usecase

import (
	"context"
	"strings"

	"social-monkeys/pkg/apperror"
	"social-monkeys/pkg/logger"
	"social-monkeys/pkg/queue"
	"social-monkeys/services/post/internal/entity"
	"social-monkeys/services/post/internal/repo/persistent"
)

type CommentUseCase interface {
	AddComment(ctx context.Context, postID, author, body string) (*entity.Comment, error)
	ListComments(ctx context.Context, postID string) ([]entity.Comment, error)
}

type commentUseCase struct {
	store    persistent.Store
	notifier Notifier
	logger   *logger.Logger
}

// NewCommentUseCase accepts a nil notifier.
func NewCommentUseCase(store persistent.Store, notifier Notifier, logger *logger.Logger) CommentUseCase {
	return &commentUseCase{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// AddComment bumps comment_count and then inserts the comment, both in one
// transaction.
func (uc *commentUseCase) AddComment(ctx context.Context, postID, author, body string) (*entity.Comment, error) {
	if author == "" {
		return nil, apperror.Unauthorized("missing identity")
	}
	if strings.TrimSpace(body) == "" {
		return nil, apperror.Validation("Body must not be empty")
	}

	var (
		comment   *entity.Comment
		recipient string
	)
	err := uc.store.Atomically(ctx, func(tx persistent.Store) error {
		post, err := tx.Posts().GetByID(ctx, postID)
		if err != nil {
			return err
		}

		if err := tx.Posts().IncrementCommentCount(ctx, post.ID, 1); err != nil {
			return err
		}

		c := &entity.Comment{
			PostID:         post.ID,
			AuthorUsername: author,
			Body:           body,
		}
		if err := tx.Comments().Create(ctx, c); err != nil {
			return err
		}

		comment = c
		recipient = post.AuthorUsername
		return nil
	})
	if err != nil {
		return nil, err
	}

	notify(ctx, uc.notifier, uc.logger, queue.Task{
		Type:      queue.TaskComment,
		PostID:    comment.PostID,
		Actor:     author,
		Recipient: recipient,
		Priority:  3,
	})
	return comment, nil
}

func (uc *commentUseCase) ListComments(ctx context.Context, postID string) ([]entity.Comment, error) {
	post, err := uc.store.Posts().GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return uc.store.Comments().ListByPost(ctx, post.ID)
}
