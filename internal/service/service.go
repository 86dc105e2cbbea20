package service

import (
	"context"

	"order-pipeline/internal/model"
)

// OrderService validates incoming orders, persists them and hands them
// to the fulfillment stage.
type OrderService interface {
	// ValidateOrder validates and normalizes a raw order payload,
	// stores the resulting order and enqueues it for fulfillment.
	ValidateOrder(ctx context.Context, input *model.OrderInput) (*model.Order, error)
}

// FulfillmentService advances a validated order to a terminal state.
type FulfillmentService interface {
	// Fulfill runs the fulfillment saga for the order. A FAILED result
	// is a normal outcome, not an error; errors are infrastructural.
	Fulfill(ctx context.Context, order *model.Order) (*FulfillmentResult, error)
}

// FulfillmentResult is the outcome of one fulfillment attempt.
type FulfillmentResult struct {
	OrderID        string
	Status         model.OrderStatus
	TrackingNumber string
	ErrorMessage   string
}
