package queue

import (
	"context"
	"encoding/json"
	"time"

	"order-pipeline/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog"
)

// HandleFunc processes one delivered order. A nil return means the
// delivery reached a terminal outcome and the message can be deleted;
// an error leaves the message for redelivery.
type HandleFunc func(ctx context.Context, order *model.Order) error

// Consumer long-polls the work queue and hands each order to a handler.
type Consumer struct {
	client      SQSAPI
	queueURL    string
	handle      HandleFunc
	logger      zerolog.Logger
	waitTime    int32
	maxMessages int32
}

// ConsumerOption configures a Consumer.
type ConsumerOption func(*Consumer)

// WithWaitTime sets the long-poll wait in seconds.
func WithWaitTime(seconds int32) ConsumerOption {
	return func(c *Consumer) { c.waitTime = seconds }
}

// WithMaxMessages sets the per-receive batch size.
func WithMaxMessages(n int32) ConsumerOption {
	return func(c *Consumer) { c.maxMessages = n }
}

// NewConsumer creates a work queue consumer.
func NewConsumer(client SQSAPI, queueURL string, handle HandleFunc, logger zerolog.Logger, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		client:      client,
		queueURL:    queueURL,
		handle:      handle,
		logger:      logger.With().Str("consumer", "orders").Logger(),
		waitTime:    20,
		maxMessages: 10,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run polls the queue until ctx is cancelled. Each message is handled
// independently; a failed attempt stays on the queue for redelivery.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info().Str("queue_url", c.queueURL).Msg("consumer started")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("consumer stopped")
			return ctx.Err()
		default:
		}

		out, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:              aws.String(c.queueURL),
			MaxNumberOfMessages:   c.maxMessages,
			WaitTimeSeconds:       c.waitTime,
			MessageAttributeNames: []string{"All"},
		})
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info().Msg("consumer stopped")
				return ctx.Err()
			}
			c.logger.Error().Err(err).Msg("failed to receive messages")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		for _, msg := range out.Messages {
			c.handleMessage(ctx, msg)
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, msg types.Message) {
	var order model.Order
	if err := json.Unmarshal([]byte(aws.ToString(msg.Body)), &order); err != nil {
		c.logger.Error().
			Err(err).
			Str("message_id", aws.ToString(msg.MessageId)).
			Msg("dropping malformed message")
		c.deleteMessage(ctx, msg)
		return
	}

	if err := c.handle(ctx, &order); err != nil {
		c.logger.Error().
			Err(err).
			Str("order_id", order.OrderID).
			Msg("fulfillment attempt failed, leaving message for redelivery")
		return
	}

	c.deleteMessage(ctx, msg)
}

func (c *Consumer) deleteMessage(ctx context.Context, msg types.Message) {
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("message_id", aws.ToString(msg.MessageId)).
			Msg("failed to delete message")
	}
}
