package usecase

import (
	"context"
	"iter"
	"strings"

	"social-monkeys/pkg/apperror"
	"social-monkeys/pkg/logger"
	"social-monkeys/pkg/stream"
	"social-monkeys/services/post/internal/entity"
	"social-monkeys/services/post/internal/repo/persistent"
)

type PostUseCase interface {
	CreatePost(ctx context.Context, author, body string) (*entity.Post, error)
	// GetPost returns the post with its comments, newest first.
	GetPost(ctx context.Context, postID string) (*entity.Post, error)
	// ListPosts yields every live post newest first. The sequence can be
	// ranged once.
	ListPosts(ctx context.Context) iter.Seq2[*entity.Post, error]
	DeletePost(ctx context.Context, postID, requester string) error
}

type postUseCase struct {
	store  persistent.Store
	logger *logger.Logger
}

func NewPostUseCase(store persistent.Store, logger *logger.Logger) PostUseCase {
	return &postUseCase{
		store:  store,
		logger: logger,
	}
}

func (uc *postUseCase) CreatePost(ctx context.Context, author, body string) (*entity.Post, error) {
	if author == "" {
		return nil, apperror.Unauthorized("missing identity")
	}
	if strings.TrimSpace(body) == "" {
		return nil, apperror.Validation("Body of post must not be empty")
	}

	post := &entity.Post{
		AuthorUsername: author,
		Body:           body,
	}
	if err := uc.store.Posts().Create(ctx, post); err != nil {
		return nil, err
	}

	uc.logger.Info("Post %s created by %s", post.ID, author)
	return post, nil
}

func (uc *postUseCase) GetPost(ctx context.Context, postID string) (*entity.Post, error) {
	post, err := uc.store.Posts().GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := uc.store.Comments().ListByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	post.Comments = comments
	return post, nil
}

func (uc *postUseCase) ListPosts(ctx context.Context) iter.Seq2[*entity.Post, error] {
	return stream.Once(uc.store.Posts().Stream(ctx))
}

func (uc *postUseCase) DeletePost(ctx context.Context, postID, requester string) error {
	if requester == "" {
		return apperror.Unauthorized("missing identity")
	}

	post, err := uc.store.Posts().GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorUsername != requester {
		return apperror.Forbidden("only the author can delete this post")
	}

	if err := uc.store.Posts().DeleteByAuthor(ctx, post.ID, requester); err != nil {
		return err
	}

	uc.logger.Info("Post %s deleted by %s", post.ID, requester)
	return nil
}
