package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"order-pipeline/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog"
)

// SQSAPI is the subset of the SQS client used by this package.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// sqsPublisher implements Publisher on an SQS queue.
type sqsPublisher struct {
	client   SQSAPI
	queueURL string
	logger   zerolog.Logger
}

// NewSQSPublisher creates an SQS-backed work queue publisher.
func NewSQSPublisher(client SQSAPI, queueURL string, logger zerolog.Logger) Publisher {
	return &sqsPublisher{
		client:   client,
		queueURL: queueURL,
		logger:   logger.With().Str("queue", "orders").Logger(),
	}
}

// PublishOrder sends the order tagged with order_id and customer_id
// message attributes for downstream routing.
func (p *sqsPublisher) PublishOrder(ctx context.Context, order *model.Order) error {
	body, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"order_id": {
				DataType:    aws.String("String"),
				StringValue: aws.String(order.OrderID),
			},
			"customer_id": {
				DataType:    aws.String("String"),
				StringValue: aws.String(order.CustomerID),
			},
		},
	})
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("order_id", order.OrderID).
			Msg("failed to queue order")
		return fmt.Errorf("failed to queue order: %w", err)
	}

	p.logger.Info().
		Str("order_id", order.OrderID).
		Msg("order queued for processing")

	return nil
}

// sqsDeadLetter implements DeadLetterPublisher on an SQS queue.
type sqsDeadLetter struct {
	client   SQSAPI
	queueURL string
	logger   zerolog.Logger
	now      func() time.Time
}

// NewSQSDeadLetter creates an SQS-backed dead-letter publisher.
func NewSQSDeadLetter(client SQSAPI, queueURL string, logger zerolog.Logger) DeadLetterPublisher {
	return &sqsDeadLetter{
		client:   client,
		queueURL: queueURL,
		logger:   logger.With().Str("queue", "dead-letter").Logger(),
		now:      time.Now,
	}
}

// PublishFailure forwards the order plus the failure reason and a
// failure timestamp.
func (p *sqsDeadLetter) PublishFailure(ctx context.Context, order *model.Order, reason string) error {
	body, err := json.Marshal(FailureMessage{
		Order:    order,
		Error:    reason,
		FailedAt: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal failure message: %w", err)
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("order_id", order.OrderID).
			Msg("failed to send order to dead-letter queue")
		return fmt.Errorf("failed to send order to dead-letter queue: %w", err)
	}

	p.logger.Info().
		Str("order_id", order.OrderID).
		Str("reason", reason).
		Msg("order sent to dead-letter queue")

	return nil
}
