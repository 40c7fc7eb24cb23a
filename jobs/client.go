package jobs

import (
	"context"

	"github.com/hibiken/asynq"

	"github.com/proshop-store/proshop-api/internal/mail"
)

// Client submits mail jobs to the queue. It implements mail.Mailer so the
// API process can hand messages off without knowing about the transport.
// Failed deliveries are archived, not retried.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// Send enqueues the message for delivery by the worker.
func (c *Client) Send(ctx context.Context, msg mail.Message) error {
	task, err := NewSendEmailTask(msg)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(0))
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}

var _ mail.Mailer = (*Client)(nil)
