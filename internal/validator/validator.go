// Package validator turns raw order payloads into canonical order
// records. Validation is a pure transformation: persistence and
// queueing are the caller's responsibility.
package validator

import (
	"strings"
	"time"

	"order-pipeline/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// totalTolerance is the maximum accepted absolute difference between
// the declared total and the sum of line item totals.
var totalTolerance = decimal.RequireFromString("0.01")

// Validate checks a raw order payload and returns the normalized order.
// On failure the returned error is a *model.ValidationError carrying a
// field-level message. Each successful call assigns a fresh order ID.
func Validate(input *model.OrderInput) (*model.Order, error) {
	if input == nil {
		input = &model.OrderInput{}
	}

	if input.CustomerID == nil {
		return nil, model.NewMissingFieldError("customer_id")
	}
	if input.Items == nil {
		return nil, model.NewMissingFieldError("items")
	}
	if input.TotalAmount == nil {
		return nil, model.NewMissingFieldError("total_amount")
	}

	customerID := strings.TrimSpace(*input.CustomerID)
	if customerID == "" {
		return nil, model.ErrInvalidCustomerID
	}

	if len(input.Items) == 0 {
		return nil, model.ErrNoItems
	}

	items := make([]model.LineItem, 0, len(input.Items))
	calculated := decimal.Zero

	for _, raw := range input.Items {
		if raw.ProductID == nil || raw.Quantity == nil || raw.Price == nil {
			return nil, model.ErrIncompleteItem
		}

		quantity, err := raw.Quantity.Int64()
		if err != nil || quantity <= 0 {
			return nil, model.ErrNonPositiveQuantity
		}

		price, err := decimal.NewFromString(raw.Price.String())
		if err != nil || price.Sign() <= 0 {
			return nil, model.ErrNonPositivePrice
		}

		total := price.Mul(decimal.NewFromInt(quantity))
		calculated = calculated.Add(total)

		items = append(items, model.LineItem{
			ProductID: *raw.ProductID,
			Quantity:  int(quantity),
			Price:     price,
			Total:     total,
		})
	}

	declared, err := decimal.NewFromString(input.TotalAmount.String())
	if err != nil {
		return nil, model.ErrTotalMismatch
	}
	if calculated.Sub(declared).Abs().GreaterThan(totalTolerance) {
		return nil, model.ErrTotalMismatch
	}

	now := time.Now().UTC()
	return &model.Order{
		OrderID:     uuid.NewString(),
		CustomerID:  customerID,
		Items:       items,
		TotalAmount: calculated,
		Status:      model.StatusValidated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
