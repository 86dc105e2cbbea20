package handler

import (
	"encoding/json"
	"net/http"

	"order-pipeline/internal/model"
	"order-pipeline/internal/queue"
	"order-pipeline/internal/service"

	"github.com/rs/zerolog"
)

// FulfillmentHandler handles order fulfillment requests.
type FulfillmentHandler struct {
	service service.FulfillmentService
	logger  zerolog.Logger
}

// NewFulfillmentHandler creates a new fulfillment handler.
func NewFulfillmentHandler(service service.FulfillmentService, logger zerolog.Logger) *FulfillmentHandler {
	return &FulfillmentHandler{
		service: service,
		logger:  logger.With().Str("handler", "fulfillment").Logger(),
	}
}

// fulfillRequest accepts either a direct order envelope or a
// queue-style delivery wrapping the order JSON in record bodies.
type fulfillRequest struct {
	Order   *model.Order   `json:"order"`
	Records []queue.Record `json:"Records"`
}

// Fulfill handles POST /api/fulfillments requests.
func (h *FulfillmentHandler) Fulfill(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, ErrorResponse{
			Status:  string(model.StatusFailed),
			Error:   "method not allowed",
			Message: "Order fulfillment failed",
		}, h.logger)
		return
	}

	var req fulfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{
			Status:  string(model.StatusFailed),
			Error:   "invalid request body",
			Message: "Order fulfillment failed",
		}, h.logger)
		return
	}

	order, err := extractOrder(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{
			Status:  string(model.StatusFailed),
			Error:   err.Error(),
			Message: "Order fulfillment failed",
		}, h.logger)
		return
	}

	result, err := h.service.Fulfill(r.Context(), order)
	if err != nil {
		writeInternalError(w, err, "An unexpected error occurred during fulfillment", h.logger)
		return
	}

	if result.Status == model.StatusFulfilled {
		writeJSON(w, http.StatusOK, fulfillmentResponse{
			Status:         result.Status,
			OrderID:        result.OrderID,
			TrackingNumber: result.TrackingNumber,
			Message:        "Order fulfilled successfully",
		})
		return
	}

	writeJSON(w, http.StatusBadRequest, fulfillmentResponse{
		Status:  result.Status,
		OrderID: result.OrderID,
		Error:   result.ErrorMessage,
		Message: "Order fulfillment failed",
	})
}

// extractOrder resolves the order from either request shape.
func extractOrder(req *fulfillRequest) (*model.Order, error) {
	order := req.Order
	if order == nil {
		if len(req.Records) == 0 {
			return nil, errRequestShape
		}
		if err := json.Unmarshal([]byte(req.Records[0].Body), &order); err != nil {
			return nil, errRecordBody
		}
	}
	if order == nil || order.OrderID == "" {
		return nil, errMissingOrderID
	}
	return order, nil
}

var (
	errRequestShape   = requestError("request must contain an order or queue records")
	errRecordBody     = requestError("invalid queue record body")
	errMissingOrderID = requestError("order_id is required")
)

type requestError string

func (e requestError) Error() string { return string(e) }
