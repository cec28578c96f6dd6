package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"social-monkeys/pkg/config"
	"social-monkeys/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	NotificationQueueName = "notification_queue"
	NotificationExchange  = "notifications"
)

// Task types double as routing keys.
const (
	TaskLike    = "like"
	TaskComment = "comment"
)

const maxPriority = 10

// Task is a notification for Recipient about Actor's action on a post.
type Task struct {
	Type      string    `json:"type"`
	PostID    string    `json:"post_id"`
	Actor     string    `json:"actor"`
	Recipient string    `json:"recipient"`
	Priority  int       `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func URL(cfg *config.Config) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	conn, err := amqp.Dial(URL(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(channel); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func declareTopology(channel *amqp.Channel) error {
	err := channel.ExchangeDeclare(
		NotificationExchange, // name
		"direct",             // type
		true,                 // durable
		false,                // auto-deleted
		false,                // internal
		false,                // no-wait
		nil,                  // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		NotificationQueueName, // name
		true,                  // durable
		false,                 // delete when unused
		false,                 // exclusive
		false,                 // no-wait
		amqp.Table{
			"x-max-priority": maxPriority,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	for _, key := range []string{TaskLike, TaskComment} {
		if err := channel.QueueBind(NotificationQueueName, key, NotificationExchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue to %s: %w", key, err)
		}
	}
	return nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// PublishNotificationTask routes task by its Type.
func (c *Client) PublishNotificationTask(ctx context.Context, task Task) error {
	msg, err := newPublishing(task)
	if err != nil {
		return err
	}

	err = c.channel.PublishWithContext(ctx,
		NotificationExchange, // exchange
		task.Type,            // routing key
		false,                // mandatory
		false,                // immediate
		msg,
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish %s task for post %s: %v", task.Type, task.PostID, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published %s task for post %s to %s", task.Type, task.PostID, task.Recipient)
	return nil
}

func newPublishing(task Task) (amqp.Publishing, error) {
	if task.Type != TaskLike && task.Type != TaskComment {
		return amqp.Publishing{}, fmt.Errorf("unknown task type %q", task.Type)
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	task.Priority = clampPriority(task.Priority)

	body, err := json.Marshal(task)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal task: %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		Priority:     uint8(task.Priority),
		DeliveryMode: amqp.Persistent,
		Timestamp:    task.CreatedAt,
	}, nil
}

func clampPriority(p int) int {
	if p < 0 {
		return 0
	}
	if p > maxPriority {
		return maxPriority
	}
	return p
}

// ConsumeNotificationTasks hands each task to handler until ctx is done or the
// channel closes. Malformed messages are dropped, handler failures requeued.
func (c *Client) ConsumeNotificationTasks(ctx context.Context, handler func(Task) error) error {
	msgs, err := c.channel.ConsumeWithContext(ctx,
		NotificationQueueName, // queue
		"",                    // consumer
		false,                 // auto-ack
		false,                 // exclusive
		false,                 // no-local
		false,                 // no-wait
		nil,                   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from %s", NotificationQueueName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var task Task
			if err := json.Unmarshal(msg.Body, &task); err != nil {
				c.logger.Error("[RABBITMQ] Dropping malformed task: %v", err)
				msg.Nack(false, false)
				continue
			}
			if err := handler(task); err != nil {
				c.logger.Error("[RABBITMQ] Handler failed for %s task on post %s: %v", task.Type, task.PostID, err)
				msg.Nack(false, true)
				continue
			}
			msg.Ack(false)
		}
	}
}

// GetQueueLength returns the number of messages in the queue
func (c *Client) GetQueueLength() (int, error) {
	queue, err := c.channel.QueueInspect(NotificationQueueName)
	if err != nil {
		return 0, err
	}
	return queue.Messages, nil
}
