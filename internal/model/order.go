package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusValidated  OrderStatus = "VALIDATED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusFulfilled  OrderStatus = "FULFILLED"
	StatusFailed     OrderStatus = "FAILED"
)

// Order is the canonical order record produced by validation.
//
// Items, TotalAmount and CustomerID are immutable once validated; only
// Status, TrackingNumber, ErrorMessage and UpdatedAt change afterwards.
type Order struct {
	OrderID        string          `json:"order_id" dynamodbav:"order_id"`
	CustomerID     string          `json:"customer_id" dynamodbav:"customer_id"`
	Items          []LineItem      `json:"items" dynamodbav:"items"`
	TotalAmount    decimal.Decimal `json:"total_amount" dynamodbav:"total_amount"`
	Status         OrderStatus     `json:"status" dynamodbav:"status"`
	TrackingNumber string          `json:"tracking_number,omitempty" dynamodbav:"tracking_number,omitempty"`
	ErrorMessage   string          `json:"error_message,omitempty" dynamodbav:"error_message,omitempty"`
	CreatedAt      time.Time       `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" dynamodbav:"updated_at"`
}

// LineItem is a single position within an order. Total is computed once
// at validation time and never recomputed.
type LineItem struct {
	ProductID string          `json:"product_id" dynamodbav:"product_id"`
	Quantity  int             `json:"quantity" dynamodbav:"quantity"`
	Price     decimal.Decimal `json:"price" dynamodbav:"price"`
	Total     decimal.Decimal `json:"total" dynamodbav:"total"`
}
