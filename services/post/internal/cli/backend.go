package cli

import (
	"context"
	"fmt"
	"sync"

	"social-monkeys/pkg/config"
	"social-monkeys/pkg/database"
	"social-monkeys/pkg/logger"
	"social-monkeys/pkg/queue"
	"social-monkeys/services/post/internal/repo/persistent"
	"social-monkeys/services/post/internal/usecase"

	"gorm.io/gorm"
)

type serviceBackend struct {
	cfg *config.Config
	log *logger.Logger

	mu    sync.Mutex
	db    *gorm.DB
	queue *queue.Client
}

// NewBackend connects to the stores named in cfg on demand.
func NewBackend(cfg *config.Config, log *logger.Logger) Backend {
	return &serviceBackend{cfg: cfg, log: log}
}

func (b *serviceBackend) gormDB() (*gorm.DB, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		db, err := database.NewPostgresDB(b.cfg)
		if err != nil {
			return nil, err
		}
		b.db = db
	}
	return b.db, nil
}

func (b *serviceBackend) Counters(ctx context.Context) (usecase.CounterUseCase, error) {
	db, err := b.gormDB()
	if err != nil {
		return nil, err
	}
	return usecase.NewCounterUseCase(persistent.NewStore(db), b.log), nil
}

func (b *serviceBackend) Migrate(ctx context.Context, command string) error {
	sqlDB, err := database.OpenSQL(database.DSN(b.cfg))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := database.Migrate(sqlDB, command); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	b.log.Info("Migration %s completed", command)
	return nil
}

func (b *serviceBackend) ConsumeEvents(ctx context.Context, handler func(queue.Task) error) error {
	b.mu.Lock()
	if b.queue == nil {
		client, err := queue.NewRabbitMQClient(b.cfg, b.log)
		if err != nil {
			b.mu.Unlock()
			return err
		}
		b.queue = client
	}
	client := b.queue
	b.mu.Unlock()

	if waiting, err := client.GetQueueLength(); err == nil {
		b.log.Info("%d notification tasks waiting", waiting)
	}
	return client.ConsumeNotificationTasks(ctx, handler)
}

func (b *serviceBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db != nil {
		if sqlDB, err := b.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if b.queue != nil {
		b.queue.Close()
	}
}
