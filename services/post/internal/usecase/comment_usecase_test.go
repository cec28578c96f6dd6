package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"social-monkeys/pkg/apperror"
	"social-monkeys/pkg/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddComment(t *testing.T) {
	store := newMemStore()
	posts := NewPostUseCase(store, testLogger())
	uc := NewCommentUseCase(store, nil, testLogger())
	ctx := context.Background()

	post, err := posts.CreatePost(ctx, "alice", "hello")
	require.NoError(t, err)

	comment, err := uc.AddComment(ctx, post.ID, "carol", "nice")
	require.NoError(t, err)
	assert.NotEmpty(t, comment.ID)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, "carol", comment.AuthorUsername)
	assert.Equal(t, "nice", comment.Body)
	assert.False(t, comment.CreatedAt.IsZero())

	got, err := posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CommentCount)
	assert.Len(t, got.Comments, 1)
}

func TestAddComment_EmptyBodyLeavesCounter(t *testing.T) {
	store := newMemStore()
	posts := NewPostUseCase(store, testLogger())
	uc := NewCommentUseCase(store, nil, testLogger())
	ctx := context.Background()

	post, err := posts.CreatePost(ctx, "alice", "hello")
	require.NoError(t, err)
	calls := store.storeCalls()

	_, err = uc.AddComment(ctx, post.ID, "carol", "   ")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, calls, store.storeCalls())

	got, err := posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CommentCount)
	assert.Empty(t, got.Comments)
}

func TestAddComment_PostNotFound(t *testing.T) {
	store := newMemStore()
	uc := NewCommentUseCase(store, nil, testLogger())

	_, err := uc.AddComment(context.Background(), "missing", "carol", "hi")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestAddComment_FailedInsertRollsBackCounter(t *testing.T) {
	store := newMemStore()
	posts := NewPostUseCase(store, testLogger())
	uc := NewCommentUseCase(store, nil, testLogger())
	ctx := context.Background()

	post, err := posts.CreatePost(ctx, "alice", "hello")
	require.NoError(t, err)

	store.failCommentCreate = apperror.StoreUnavailable("insert comment", errors.New("connection reset"))
	_, err = uc.AddComment(ctx, post.ID, "carol", "lost")
	assert.ErrorIs(t, err, apperror.ErrStoreUnavailable)

	store.failCommentCreate = nil
	got, err := posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CommentCount)
	assert.Empty(t, got.Comments)
}

func TestAddComment_NotifiesAuthor(t *testing.T) {
	store := newMemStore()
	notifier := newRecordingNotifier()
	posts := NewPostUseCase(store, testLogger())
	uc := NewCommentUseCase(store, notifier, testLogger())
	ctx := context.Background()

	post, err := posts.CreatePost(ctx, "alice", "hello")
	require.NoError(t, err)

	_, err = uc.AddComment(ctx, post.ID, "alice", "replying to myself")
	require.NoError(t, err)
	_, err = uc.AddComment(ctx, post.ID, "carol", "hi alice")
	require.NoError(t, err)

	select {
	case task := <-notifier.tasks:
		assert.Equal(t, queue.TaskComment, task.Type)
		assert.Equal(t, post.ID, task.PostID)
		assert.Equal(t, "carol", task.Actor)
		assert.Equal(t, "alice", task.Recipient)
	case <-time.After(time.Second):
		t.Fatal("expected a comment notification")
	}

	select {
	case task := <-notifier.tasks:
		t.Fatalf("unexpected notification %+v", task)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestListComments(t *testing.T) {
	store := newMemStore()
	posts := NewPostUseCase(store, testLogger())
	uc := NewCommentUseCase(store, nil, testLogger())
	ctx := context.Background()

	post, err := posts.CreatePost(ctx, "alice", "hello")
	require.NoError(t, err)
	_, err = uc.AddComment(ctx, post.ID, "bob", "one")
	require.NoError(t, err)
	_, err = uc.AddComment(ctx, post.ID, "carol", "two")
	require.NoError(t, err)

	comments, err := uc.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "two", comments[0].Body)

	_, err = uc.ListComments(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeletePost_DoesNotCascadeComments(t *testing.T) {
	store := newMemStore()
	posts := NewPostUseCase(store, testLogger())
	uc := NewCommentUseCase(store, nil, testLogger())
	ctx := context.Background()

	post, err := posts.CreatePost(ctx, "alice", "hello")
	require.NoError(t, err)
	_, err = uc.AddComment(ctx, post.ID, "bob", "orphan soon")
	require.NoError(t, err)

	require.NoError(t, posts.DeletePost(ctx, post.ID, "alice"))

	n, err := store.Comments().CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
