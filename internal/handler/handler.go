package handler

import (
	"encoding/json"
	"net/http"

	"order-pipeline/internal/model"

	"github.com/rs/zerolog"
)

// Response status values used by the entry-point envelopes.
const (
	statusValidationFailed = "VALIDATION_FAILED"
	statusError            = "ERROR"
)

// ErrorResponse is the failure envelope shared by both entry points.
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// validationResponse is the success envelope of the validation entry
// point.
type validationResponse struct {
	Status  string       `json:"status"`
	Order   *model.Order `json:"order"`
	Message string       `json:"message"`
}

// fulfillmentResponse is the outcome envelope of the fulfillment entry
// point.
type fulfillmentResponse struct {
	Status         model.OrderStatus `json:"status"`
	OrderID        string            `json:"order_id"`
	TrackingNumber string            `json:"tracking_number,omitempty"`
	Error          string            `json:"error,omitempty"`
	Message        string            `json:"message"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encode failures after WriteHeader cannot be reported to the client.
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a failure envelope with the given HTTP status.
func writeError(w http.ResponseWriter, httpStatus int, resp ErrorResponse, logger zerolog.Logger) {
	logger.Error().
		Str("error", resp.Error).
		Int("status", httpStatus).
		Msg("handler error")
	writeJSON(w, httpStatus, resp)
}

// writeInternalError writes the generic 500 envelope. Internal detail
// is logged, never returned to the caller.
func writeInternalError(w http.ResponseWriter, err error, message string, logger zerolog.Logger) {
	logger.Error().Err(err).Msg("unexpected error")
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Status:  statusError,
		Error:   "Internal server error",
		Message: message,
	})
}
