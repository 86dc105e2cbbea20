package saga

import (
	"context"
	"fmt"

	"order-pipeline/internal/model"
)

// InventoryService checks feasibility and holds stock for an order's
// items. Reserve and Release act on the whole item list as a unit.
type InventoryService interface {
	Check(ctx context.Context, items []model.LineItem) error
	Reserve(ctx context.Context, items []model.LineItem) error
	Release(ctx context.Context, items []model.LineItem) error
}

// PaymentService charges and refunds order totals.
type PaymentService interface {
	Charge(ctx context.Context, order *model.Order) error
	Refund(ctx context.Context, order *model.Order) error
}

// ShipmentService allocates a shipment and returns its tracking number.
type ShipmentService interface {
	Create(ctx context.Context, order *model.Order) (string, error)
}

// CheckInventoryStep is the read-only feasibility check. It commits
// nothing, so its compensation is a no-op.
type CheckInventoryStep struct {
	inventory InventoryService
	items     []model.LineItem
}

// NewCheckInventoryStep creates the inventory check step.
func NewCheckInventoryStep(inventory InventoryService, items []model.LineItem) *CheckInventoryStep {
	return &CheckInventoryStep{inventory: inventory, items: items}
}

func (s *CheckInventoryStep) Name() string { return "check_inventory" }

func (s *CheckInventoryStep) Execute(ctx context.Context) error {
	if err := s.inventory.Check(ctx, s.items); err != nil {
		return &StepFailure{
			Step:    s.Name(),
			Message: fmt.Sprintf("Insufficient inventory: %v", err),
		}
	}
	return nil
}

func (s *CheckInventoryStep) Compensate(ctx context.Context) error { return nil }

// ReserveInventoryStep commits a hold on stock for all items as a
// unit; its compensation releases the hold.
type ReserveInventoryStep struct {
	inventory InventoryService
	items     []model.LineItem
}

// NewReserveInventoryStep creates the inventory reservation step.
func NewReserveInventoryStep(inventory InventoryService, items []model.LineItem) *ReserveInventoryStep {
	return &ReserveInventoryStep{inventory: inventory, items: items}
}

func (s *ReserveInventoryStep) Name() string { return "reserve_inventory" }

func (s *ReserveInventoryStep) Execute(ctx context.Context) error {
	if err := s.inventory.Reserve(ctx, s.items); err != nil {
		return &StepFailure{
			Step:    s.Name(),
			Message: fmt.Sprintf("Failed to reserve inventory: %v", err),
		}
	}
	return nil
}

func (s *ReserveInventoryStep) Compensate(ctx context.Context) error {
	return s.inventory.Release(ctx, s.items)
}

// PaymentStep charges the order total; its compensation refunds the
// charge.
type PaymentStep struct {
	payments PaymentService
	order    *model.Order
}

// NewPaymentStep creates the payment step.
func NewPaymentStep(payments PaymentService, order *model.Order) *PaymentStep {
	return &PaymentStep{payments: payments, order: order}
}

func (s *PaymentStep) Name() string { return "process_payment" }

func (s *PaymentStep) Execute(ctx context.Context) error {
	if err := s.payments.Charge(ctx, s.order); err != nil {
		return &StepFailure{
			Step:    s.Name(),
			Message: fmt.Sprintf("Payment failed: %v", err),
		}
	}
	return nil
}

func (s *PaymentStep) Compensate(ctx context.Context) error {
	return s.payments.Refund(ctx, s.order)
}

// ShipmentStep allocates a tracking number. It is the final step, so
// its compensation is a no-op.
type ShipmentStep struct {
	shipping       ShipmentService
	order          *model.Order
	trackingNumber string
}

// NewShipmentStep creates the shipment step.
func NewShipmentStep(shipping ShipmentService, order *model.Order) *ShipmentStep {
	return &ShipmentStep{shipping: shipping, order: order}
}

func (s *ShipmentStep) Name() string { return "create_shipment" }

func (s *ShipmentStep) Execute(ctx context.Context) error {
	tracking, err := s.shipping.Create(ctx, s.order)
	if err != nil {
		return &StepFailure{
			Step:    s.Name(),
			Message: fmt.Sprintf("Shipment creation failed: %v", err),
		}
	}
	s.trackingNumber = tracking
	return nil
}

func (s *ShipmentStep) Compensate(ctx context.Context) error { return nil }

// TrackingNumber returns the tracking number allocated by Execute.
func (s *ShipmentStep) TrackingNumber() string {
	return s.trackingNumber
}
