package service

import (
	"context"
	"fmt"

	"order-pipeline/internal/model"
	"order-pipeline/internal/queue"
	"order-pipeline/internal/store"
	"order-pipeline/internal/validator"

	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	store  store.OrderStore
	queue  queue.Publisher
	logger zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(st store.OrderStore, q queue.Publisher, logger zerolog.Logger) OrderService {
	return &orderService{
		store:  st,
		queue:  q,
		logger: logger.With().Str("service", "order").Logger(),
	}
}

// ValidateOrder validates the raw payload, persists the normalized
// order and enqueues it for fulfillment. Validation errors are returned
// as-is; store and queue failures are wrapped and propagated.
func (s *orderService) ValidateOrder(ctx context.Context, input *model.OrderInput) (*model.Order, error) {
	order, err := validator.Validate(input)
	if err != nil {
		s.logger.Warn().Err(err).Msg("order validation failed")
		return nil, err
	}

	if err := s.store.Put(ctx, order); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.OrderID).
			Msg("failed to store order")
		return nil, fmt.Errorf("failed to store order: %w", err)
	}

	if err := s.queue.PublishOrder(ctx, order); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.OrderID).
			Msg("failed to queue order")
		return nil, fmt.Errorf("failed to queue order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.OrderID).
		Str("customer_id", order.CustomerID).
		Msg("order validated and queued")

	return order, nil
}
