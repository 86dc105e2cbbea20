package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"order-pipeline/internal/model"
	"order-pipeline/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order validation requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// validateRequest wraps the raw order payload.
type validateRequest struct {
	Order *model.OrderInput `json:"order"`
}

// Validate handles POST /api/orders requests.
func (h *OrderHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, ErrorResponse{
			Status:  statusValidationFailed,
			Error:   "method not allowed",
			Message: "Order validation failed",
		}, h.logger)
		return
	}

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{
			Status:  statusValidationFailed,
			Error:   "invalid request body",
			Message: "Order validation failed",
		}, h.logger)
		return
	}

	order, err := h.service.ValidateOrder(r.Context(), req.Order)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, ErrorResponse{
				Status:  statusValidationFailed,
				Error:   verr.Message,
				Message: "Order validation failed",
			}, h.logger)
			return
		}

		writeInternalError(w, err, "An unexpected error occurred", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, validationResponse{
		Status:  string(model.StatusValidated),
		Order:   order,
		Message: "Order validated and queued for processing",
	})
}
