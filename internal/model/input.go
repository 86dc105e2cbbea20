package model

import "encoding/json"

// OrderInput is the raw order payload before validation. Pointer fields
// distinguish an absent field from an empty one, and json.Number keeps
// quantities and prices exact until they are parsed.
type OrderInput struct {
	CustomerID  *string         `json:"customer_id"`
	Items       []LineItemInput `json:"items"`
	TotalAmount *json.Number    `json:"total_amount"`
}

// LineItemInput is a single raw line item.
type LineItemInput struct {
	ProductID *string      `json:"product_id"`
	Quantity  *json.Number `json:"quantity"`
	Price     *json.Number `json:"price"`
}
