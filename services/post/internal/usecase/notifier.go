package usecase

import (
	"context"
	"time"

	"social-monkeys/pkg/logger"
	"social-monkeys/pkg/queue"
)

// Notifier delivers notification tasks. *queue.Client implements it.
type Notifier interface {
	PublishNotificationTask(ctx context.Context, task queue.Task) error
}

const publishTimeout = 5 * time.Second

// notify publishes in the background. The request outcome never depends on it.
func notify(ctx context.Context, n Notifier, log *logger.Logger, task queue.Task) {
	if n == nil || task.Actor == task.Recipient {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	go func() {
		defer cancel()
		if err := n.PublishNotificationTask(ctx, task); err != nil {
			log.Error("[NOTIFICATION QUEUE] Failed to publish %s task: %v (post_id=%s)", task.Type, err, task.PostID)
		}
	}()
}
