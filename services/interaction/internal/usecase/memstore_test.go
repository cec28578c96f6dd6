package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"social-monkeys/pkg/apperror"
	"social-monkeys/pkg/queue"
	"social-monkeys/services/interaction/internal/entity"
	"social-monkeys/services/interaction/internal/repo/persistent"

	"github.com/google/uuid"
)

type pair struct{ postID, username string }

// memStore is an in-memory persistent.Store with a unique (post, user) like
// constraint. Atomically restores a snapshot when fn fails.
type memStore struct {
	mu    sync.Mutex
	txMu  sync.Mutex
	posts map[string]*entity.Post
	likes map[pair]entity.Like
	seq   int
	base  time.Time
	calls int

	failAdjust error
}

func newMemStore() *memStore {
	return &memStore{
		posts: make(map[string]*entity.Post),
		likes: make(map[pair]entity.Like),
		base:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) seedPost(author string) *entity.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	p := &entity.Post{
		ID:             uuid.New().String(),
		AuthorUsername: author,
		Body:           "hello from " + author,
		CreatedAt:      s.base.Add(time.Duration(s.seq) * time.Second),
	}
	s.posts[p.ID] = p
	cp := *p
	return &cp
}

func (s *memStore) likeCount(postID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.posts[postID].LikeCount
}

func (s *memStore) likers(postID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for k := range s.likes {
		if k.postID == postID {
			out = append(out, k.username)
		}
	}
	sort.Strings(out)
	return out
}

func (s *memStore) storeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *memStore) Posts() persistent.PostRepository { return memPosts{s} }
func (s *memStore) Likes() persistent.LikeRepository { return memLikes{s} }

func (s *memStore) Atomically(ctx context.Context, fn func(persistent.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	posts := make(map[string]*entity.Post, len(s.posts))
	for id, p := range s.posts {
		cp := *p
		posts[id] = &cp
	}
	likes := make(map[pair]entity.Like, len(s.likes))
	for k, v := range s.likes {
		likes[k] = v
	}
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.posts = posts
		s.likes = likes
		s.mu.Unlock()
		return err
	}
	return nil
}

type memPosts struct{ s *memStore }

func (r memPosts) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.calls++

	p, ok := r.s.posts[id]
	if !ok {
		return nil, apperror.NotFound("post not found")
	}
	cp := *p
	return &cp, nil
}

func (r memPosts) AdjustLikeCount(ctx context.Context, id string, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.calls++

	if r.s.failAdjust != nil {
		return r.s.failAdjust
	}
	p, ok := r.s.posts[id]
	if !ok {
		return apperror.NotFound("post not found")
	}
	p.LikeCount = max(p.LikeCount+delta, 0)
	return nil
}

func (r memPosts) ListLikedBy(ctx context.Context, username string, limit, offset int) ([]*entity.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.calls++

	var likes []entity.Like
	for k, v := range r.s.likes {
		if k.username == username {
			likes = append(likes, v)
		}
	}
	sort.Slice(likes, func(i, j int) bool { return likes[i].CreatedAt.After(likes[j].CreatedAt) })

	var out []*entity.Post
	for _, l := range likes {
		if p, ok := r.s.posts[l.PostID]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	if offset >= len(out) {
		return []*entity.Post{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type memLikes struct{ s *memStore }

func (r memLikes) Find(ctx context.Context, postID, username string) (*entity.Like, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.calls++

	l, ok := r.s.likes[pair{postID, username}]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r memLikes) Insert(ctx context.Context, like *entity.Like) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.calls++

	key := pair{like.PostID, like.Username}
	if _, ok := r.s.likes[key]; ok {
		return entity.ErrAlreadyLiked
	}
	r.s.seq++
	like.ID = fmt.Sprintf("like-%d", r.s.seq)
	like.CreatedAt = r.s.base.Add(time.Duration(r.s.seq) * time.Second)
	r.s.likes[key] = *like
	return nil
}

func (r memLikes) Delete(ctx context.Context, postID, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.calls++

	key := pair{postID, username}
	if _, ok := r.s.likes[key]; !ok {
		return entity.ErrNotLiked
	}
	delete(r.s.likes, key)
	return nil
}

// passThroughLocker never blocks, leaving only the store to arbitrate.
type passThroughLocker struct{}

func (passThroughLocker) Acquire(ctx context.Context, key string) (func() error, error) {
	return func() error { return nil }, nil
}

type recordingLocker struct {
	mu         sync.Mutex
	keys       []string
	releaseErr error
}

func (l *recordingLocker) Acquire(ctx context.Context, key string) (func() error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys = append(l.keys, key)
	return func() error { return l.releaseErr }, nil
}

type failingLocker struct{}

func (failingLocker) Acquire(ctx context.Context, key string) (func() error, error) {
	return nil, errors.New("redis: connection refused")
}

type recordingNotifier struct {
	tasks chan queue.Task
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{tasks: make(chan queue.Task, 16)}
}

func (n *recordingNotifier) PublishNotificationTask(ctx context.Context, task queue.Task) error {
	n.tasks <- task
	return nil
}
