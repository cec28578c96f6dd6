package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"social-monkeys/pkg/apperror"
	"social-monkeys/pkg/queue"
	"social-monkeys/services/post/internal/entity"
	"social-monkeys/services/post/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCounterUseCase struct {
	mock.Mock
}

func (m *MockCounterUseCase) CheckCounters(ctx context.Context, postID string) (*entity.CounterReport, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CounterReport), args.Error(1)
}

func (m *MockCounterUseCase) RecomputeCounters(ctx context.Context, postID string) (*entity.CounterReport, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CounterReport), args.Error(1)
}

func (m *MockCounterUseCase) RecomputeAll(ctx context.Context) ([]*entity.CounterReport, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.CounterReport), args.Error(1)
}

var _ usecase.CounterUseCase = (*MockCounterUseCase)(nil)

type fakeBackend struct {
	counters    *MockCounterUseCase
	countersErr error
	migrations  []string
	tasks       []queue.Task
}

func (b *fakeBackend) Counters(ctx context.Context) (usecase.CounterUseCase, error) {
	if b.countersErr != nil {
		return nil, b.countersErr
	}
	return b.counters, nil
}

func (b *fakeBackend) Migrate(ctx context.Context, command string) error {
	b.migrations = append(b.migrations, command)
	return nil
}

func (b *fakeBackend) ConsumeEvents(ctx context.Context, handler func(queue.Task) error) error {
	for _, task := range b.tasks {
		if err := handler(task); err != nil {
			return err
		}
	}
	return nil
}

func (b *fakeBackend) Close() {}

func execute(backend Backend, args ...string) (string, error) {
	cmd := NewRootCommand(backend)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(&fakeBackend{})
	for _, name := range []string{"check", "reconcile", "migrate", "events"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestCheck_Clean(t *testing.T) {
	backend := &fakeBackend{counters: new(MockCounterUseCase)}
	backend.counters.On("CheckCounters", "post-1").Return(entity.NewCounterReport(&entity.Post{ID: "post-1", LikeCount: 2}, 2, 0), nil)

	out, err := execute(backend, "check", "post-1")

	require.NoError(t, err)
	assert.Contains(t, out, "post-1")
	assert.Contains(t, out, "ok")
}

func TestCheck_DriftExitCode(t *testing.T) {
	backend := &fakeBackend{counters: new(MockCounterUseCase)}
	backend.counters.On("CheckCounters", "post-1").Return(entity.NewCounterReport(&entity.Post{ID: "post-1", LikeCount: 3}, 2, 0), nil)
	backend.counters.On("CheckCounters", "post-2").Return(entity.NewCounterReport(&entity.Post{ID: "post-2"}, 0, 0), nil)

	out, err := execute(backend, "--format", "json", "check", "post-1", "post-2")

	require.Error(t, err)
	assert.Equal(t, ExitDrift, GetExitCode(err))

	var reports []entity.CounterReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 2)
	assert.True(t, reports[0].Drifted)
	assert.False(t, reports[1].Drifted)
}

func TestCheck_NotFound(t *testing.T) {
	backend := &fakeBackend{counters: new(MockCounterUseCase)}
	backend.counters.On("CheckCounters", "missing").Return(nil, apperror.NotFound("post not found"))

	_, err := execute(backend, "check", "missing")

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCheck_RequiresIDs(t *testing.T) {
	_, err := execute(&fakeBackend{}, "check")
	assert.Error(t, err)
}

func TestCheck_StoreDown(t *testing.T) {
	backend := &fakeBackend{countersErr: errors.New("failed to connect to postgres")}

	_, err := execute(backend, "check", "post-1")
	assert.ErrorContains(t, err, "failed to connect")
}

func TestReconcile(t *testing.T) {
	backend := &fakeBackend{counters: new(MockCounterUseCase)}
	repaired := entity.NewCounterReport(&entity.Post{ID: "post-1", LikeCount: 5}, 2, 0)
	repaired.Repaired = true
	backend.counters.On("RecomputeCounters", "post-1").Return(repaired, nil)

	out, err := execute(backend, "reconcile", "post-1")

	require.NoError(t, err)
	assert.Contains(t, out, "repaired")
	backend.counters.AssertExpectations(t)
}

func TestReconcile_All(t *testing.T) {
	backend := &fakeBackend{counters: new(MockCounterUseCase)}
	backend.counters.On("RecomputeAll").Return([]*entity.CounterReport{
		entity.NewCounterReport(&entity.Post{ID: "post-1"}, 0, 0),
		entity.NewCounterReport(&entity.Post{ID: "post-2"}, 0, 0),
	}, nil)

	out, err := execute(backend, "reconcile", "--all")

	require.NoError(t, err)
	assert.Contains(t, out, "post-1")
	assert.Contains(t, out, "post-2")
}

func TestReconcile_ArgsXorAll(t *testing.T) {
	_, err := execute(&fakeBackend{}, "reconcile")
	assert.Error(t, err)

	_, err = execute(&fakeBackend{}, "reconcile", "--all", "post-1")
	assert.Error(t, err)
}

func TestMigrate(t *testing.T) {
	backend := &fakeBackend{}

	_, err := execute(backend, "migrate", "up")
	require.NoError(t, err)
	assert.Equal(t, []string{"up"}, backend.migrations)

	_, err = execute(backend, "migrate", "sideways")
	assert.Error(t, err)
	assert.Equal(t, []string{"up"}, backend.migrations)
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(&fakeBackend{}, "--format", "yaml", "migrate", "up")
	assert.ErrorContains(t, err, "invalid format")
}

func TestEvents(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	backend := &fakeBackend{tasks: []queue.Task{
		{Type: queue.TaskLike, PostID: "post-1", Actor: "bob", Recipient: "alice", CreatedAt: at},
		{Type: queue.TaskComment, PostID: "post-1", Actor: "carol", Recipient: "alice", CreatedAt: at},
	}}

	out, err := execute(backend, "events")

	require.NoError(t, err)
	assert.Equal(t,
		"2024-05-01T12:00:00Z bob liked post post-1 by alice\n"+
			"2024-05-01T12:00:00Z carol commented on post post-1 by alice\n",
		out)
}
