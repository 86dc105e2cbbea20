package service

import (
	"context"
	"errors"
	"fmt"

	"order-pipeline/internal/model"
	"order-pipeline/internal/queue"
	"order-pipeline/internal/saga"
	"order-pipeline/internal/store"

	"github.com/rs/zerolog"
)

// fulfillmentService implements FulfillmentService.
type fulfillmentService struct {
	store      store.OrderStore
	deadLetter queue.DeadLetterPublisher
	inventory  saga.InventoryService
	payments   saga.PaymentService
	shipping   saga.ShipmentService
	logger     zerolog.Logger
}

// NewFulfillmentService creates a new fulfillment service.
func NewFulfillmentService(
	st store.OrderStore,
	deadLetter queue.DeadLetterPublisher,
	inventory saga.InventoryService,
	payments saga.PaymentService,
	shipping saga.ShipmentService,
	logger zerolog.Logger,
) FulfillmentService {
	return &fulfillmentService{
		store:      st,
		deadLetter: deadLetter,
		inventory:  inventory,
		payments:   payments,
		shipping:   shipping,
		logger:     logger.With().Str("service", "fulfillment").Logger(),
	}
}

// Fulfill runs the fulfillment saga. The PROCESSING transition is
// recorded before any step executes so observers always see progress.
//
// Nothing guards against a second attempt on an order that already
// fulfilled: re-running a completed saga can double-charge and
// double-ship. The queue is expected to deliver each order to at most
// one active attempt at a time.
func (s *fulfillmentService) Fulfill(ctx context.Context, order *model.Order) (*FulfillmentResult, error) {
	logger := s.logger.With().Str("order_id", order.OrderID).Logger()

	if err := s.store.UpdateStatus(ctx, order.OrderID, store.StatusUpdate{Status: model.StatusProcessing}); err != nil {
		return nil, s.markFailedBestEffort(ctx, order.OrderID, fmt.Errorf("failed to mark order processing: %w", err))
	}

	shipment := saga.NewShipmentStep(s.shipping, order)
	orchestrator := saga.NewOrchestrator(logger,
		saga.NewCheckInventoryStep(s.inventory, order.Items),
		saga.NewReserveInventoryStep(s.inventory, order.Items),
		saga.NewPaymentStep(s.payments, order),
		shipment,
	)

	err := orchestrator.Run(ctx)
	if err == nil {
		tracking := shipment.TrackingNumber()
		update := store.StatusUpdate{Status: model.StatusFulfilled, TrackingNumber: tracking}
		if uerr := s.store.UpdateStatus(ctx, order.OrderID, update); uerr != nil {
			return nil, s.markFailedBestEffort(ctx, order.OrderID, fmt.Errorf("failed to mark order fulfilled: %w", uerr))
		}

		logger.Info().Str("tracking_number", tracking).Msg("order fulfilled")
		return &FulfillmentResult{
			OrderID:        order.OrderID,
			Status:         model.StatusFulfilled,
			TrackingNumber: tracking,
		}, nil
	}

	var failure *saga.StepFailure
	if !errors.As(err, &failure) {
		return nil, s.markFailedBestEffort(ctx, order.OrderID, err)
	}

	update := store.StatusUpdate{Status: model.StatusFailed, ErrorMessage: failure.Message}
	if uerr := s.store.UpdateStatus(ctx, order.OrderID, update); uerr != nil {
		return nil, s.markFailedBestEffort(ctx, order.OrderID, fmt.Errorf("failed to mark order failed: %w", uerr))
	}

	if derr := s.deadLetter.PublishFailure(ctx, order, failure.Message); derr != nil {
		logger.Error().Err(derr).Msg("failed to forward order to dead-letter queue")
	}

	logger.Warn().
		Str("step", failure.Step).
		Str("reason", failure.Message).
		Msg("order fulfillment failed")

	return &FulfillmentResult{
		OrderID:      order.OrderID,
		Status:       model.StatusFailed,
		ErrorMessage: failure.Message,
	}, nil
}

// markFailedBestEffort attempts to record the failure on the order and
// returns the original error. The update's own failure is discarded:
// this is the single last-resort path with no further escalation.
func (s *fulfillmentService) markFailedBestEffort(ctx context.Context, orderID string, err error) error {
	update := store.StatusUpdate{Status: model.StatusFailed, ErrorMessage: err.Error()}
	if uerr := s.store.UpdateStatus(ctx, orderID, update); uerr != nil {
		s.logger.Error().
			Err(uerr).
			Str("order_id", orderID).
			Msg("last-resort status update failed")
	}
	return err
}
