package usecase

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"sync"
	"time"

	"social-monkeys/pkg/apperror"
	"social-monkeys/pkg/queue"
	"social-monkeys/services/post/internal/entity"
	"social-monkeys/services/post/internal/repo/persistent"
)

// memStore is an in-memory persistent.Store. Atomically restores a snapshot
// when fn fails.
type memStore struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	posts    map[string]*entity.Post
	deleted  map[string]bool
	comments []entity.Comment
	likes    map[string]int
	seq      int
	base     time.Time
	calls    int
	// lockedReads counts GetByIDForUpdate calls made inside Atomically.
	lockedReads int
	inTx        bool

	failCommentCreate error
}

func newMemStore() *memStore {
	return &memStore{
		posts:   make(map[string]*entity.Post),
		deleted: make(map[string]bool),
		likes:   make(map[string]int),
		base:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) Posts() persistent.PostRepository       { return memPosts{s} }
func (s *memStore) Comments() persistent.CommentRepository { return memComments{s} }

func (s *memStore) Atomically(ctx context.Context, fn func(persistent.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	posts := make(map[string]*entity.Post, len(s.posts))
	for id, p := range s.posts {
		cp := *p
		posts[id] = &cp
	}
	comments := append([]entity.Comment(nil), s.comments...)
	s.inTx = true
	s.mu.Unlock()

	err := fn(s)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inTx = false
	if err != nil {
		s.posts = posts
		s.comments = comments
		return err
	}
	return nil
}

// tick returns a strictly increasing timestamp. Callers hold mu.
func (s *memStore) tick() time.Time {
	s.seq++
	return s.base.Add(time.Duration(s.seq) * time.Second)
}

func (s *memStore) storeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// addLikes plants like documents without touching like_count.
func (s *memStore) addLikes(postID string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likes[postID] += n
}

func (s *memStore) setCommentCount(postID string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[postID].CommentCount = n
}

type memPosts struct{ s *memStore }

func (r memPosts) live(id string) (*entity.Post, error) {
	p, ok := r.s.posts[id]
	if !ok || r.s.deleted[id] {
		return nil, apperror.NotFound("post not found")
	}
	return p, nil
}

func (r memPosts) Create(ctx context.Context, post *entity.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.calls++

	now := r.s.tick()
	stored := &entity.Post{
		ID:             fmt.Sprintf("post-%d", r.s.seq),
		Body:           post.Body,
		AuthorUsername: post.AuthorUsername,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.s.posts[stored.ID] = stored
	*post = *stored
	return nil
}

func (r memPosts) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.calls++

	p, err := r.live(id)
	if err != nil {
		return nil, err
	}
	cp := *p
	return &cp, nil
}

// GetByIDForUpdate needs no row lock here: Atomically already runs one
// transaction at a time.
func (r memPosts) GetByIDForUpdate(ctx context.Context, id string) (*entity.Post, error) {
	r.s.mu.Lock()
	if r.s.inTx {
		r.s.lockedReads++
	}
	r.s.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r memPosts) sorted() []*entity.Post {
	var out []*entity.Post
	for id, p := range r.s.posts {
		if !r.s.deleted[id] {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r memPosts) Stream(ctx context.Context) iter.Seq2[*entity.Post, error] {
	return func(yield func(*entity.Post, error) bool) {
		r.s.mu.Lock()
		r.s.calls++
		posts := r.sorted()
		r.s.mu.Unlock()

		for _, p := range posts {
			if !yield(p, nil) {
				return
			}
		}
	}
}

func (r memPosts) ListIDs(ctx context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.calls++

	var ids []string
	for _, p := range r.sorted() {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (r memPosts) DeleteByAuthor(ctx context.Context, id, author string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.calls++

	p, err := r.live(id)
	if err != nil || p.AuthorUsername != author {
		return apperror.NotFound("post not found")
	}
	r.s.deleted[id] = true
	return nil
}

func (r memPosts) IncrementCommentCount(ctx context.Context, id string, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.calls++

	p, err := r.live(id)
	if err != nil {
		return err
	}
	p.CommentCount += delta
	return nil
}

func (r memPosts) SetCounters(ctx context.Context, id string, likes, comments int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.calls++

	p, err := r.live(id)
	if err != nil {
		return err
	}
	p.LikeCount = likes
	p.CommentCount = comments
	return nil
}

func (r memPosts) CountLikes(ctx context.Context, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.calls++
	return r.s.likes[id], nil
}

type memComments struct{ s *memStore }

func (r memComments) Create(ctx context.Context, comment *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.calls++

	if r.s.failCommentCreate != nil {
		return r.s.failCommentCreate
	}
	comment.ID = fmt.Sprintf("comment-%d", r.s.seq+1)
	comment.CreatedAt = r.s.tick()
	r.s.comments = append(r.s.comments, *comment)
	return nil
}

func (r memComments) ListByPost(ctx context.Context, postID string) ([]entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.calls++

	out := []entity.Comment{}
	for _, c := range r.s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memComments) CountByPost(ctx context.Context, postID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.calls++

	n := 0
	for _, c := range r.s.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n, nil
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
