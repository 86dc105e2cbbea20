// Package store persists order records keyed by order ID.
package store

import (
	"context"

	"order-pipeline/internal/model"
)

// StatusUpdate describes a partial update of an order. Status is always
// applied; TrackingNumber and ErrorMessage are written only when
// non-empty. Every update refreshes updated_at.
type StatusUpdate struct {
	Status         model.OrderStatus
	TrackingNumber string
	ErrorMessage   string
}

// OrderStore defines persistence operations for orders.
type OrderStore interface {
	// Put creates a new order record.
	Put(ctx context.Context, order *model.Order) error

	// UpdateStatus applies a partial status update to an existing
	// order. The caller is expected to have created the order first;
	// write failures propagate to the caller.
	UpdateStatus(ctx context.Context, orderID string, update StatusUpdate) error
}
