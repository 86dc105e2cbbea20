// Package queue carries validated orders to the fulfillment stage and
// exhausted orders to a dead-letter destination.
package queue

import (
	"context"
	"time"

	"order-pipeline/internal/model"
)

// Publisher delivers validated orders to the fulfillment stage.
type Publisher interface {
	PublishOrder(ctx context.Context, order *model.Order) error
}

// DeadLetterPublisher forwards orders that exhausted fulfillment, along
// with the failure reason, for manual review.
type DeadLetterPublisher interface {
	PublishFailure(ctx context.Context, order *model.Order, reason string) error
}

// Record is a single entry of a queue delivery envelope. The body holds
// the order JSON.
type Record struct {
	Body string `json:"body"`
}

// FailureMessage is the dead-letter payload.
type FailureMessage struct {
	Order    *model.Order `json:"order"`
	Error    string       `json:"error"`
	FailedAt time.Time    `json:"failed_at"`
}
