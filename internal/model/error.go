package model

// ValidationError is a user-input defect detected during order
// validation. The message is field-level and safe to return to the
// caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NewMissingFieldError creates a validation error for an absent
// required field.
func NewMissingFieldError(field string) *ValidationError {
	return &ValidationError{Message: "Missing required field: " + field}
}

// Common validation errors
var (
	ErrInvalidCustomerID   = NewValidationError("Invalid customer_id")
	ErrNoItems             = NewValidationError("Order must contain at least one item")
	ErrIncompleteItem      = NewValidationError("Each item must have product_id, quantity, and price")
	ErrNonPositiveQuantity = NewValidationError("Item quantity must be positive")
	ErrNonPositivePrice    = NewValidationError("Item price must be positive")
	ErrTotalMismatch       = NewValidationError("Total amount does not match sum of items")
)
