package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"order-pipeline/internal/model"
	"order-pipeline/internal/queue"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, server http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestOrderPipeline_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	stack := SetupTestStack(t)
	server := stack.NewPipelineServer()

	// Validate and queue an order.
	w := postJSON(t, server, "/api/orders", `{
		"order": {
			"customer_id": "C1",
			"items": [{"product_id": "P1", "quantity": 2, "price": 29.99}],
			"total_amount": 59.98
		}
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var validated struct {
		Status string       `json:"status"`
		Order  *model.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &validated))
	assert.Equal(t, "VALIDATED", validated.Status)
	require.NotNil(t, validated.Order)
	orderID := validated.Order.OrderID
	require.NotEmpty(t, orderID)

	// The order is persisted before it is queued.
	assert.Equal(t, "VALIDATED", stack.GetOrderAttr(t, orderID, "status"))

	// The queued message carries the same order.
	body := stack.ReceiveOne(t, stack.OrderQueueURL)
	require.NotNil(t, body, "expected a message on the order queue")
	var queued model.Order
	require.NoError(t, json.Unmarshal([]byte(*body), &queued))
	assert.Equal(t, orderID, queued.OrderID)

	// Fulfill the queued order.
	orderJSON, err := json.Marshal(queued)
	require.NoError(t, err)
	w = postJSON(t, server, "/api/fulfillments", `{"order": `+string(orderJSON)+`}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var fulfilled struct {
		Status         string `json:"status"`
		OrderID        string `json:"order_id"`
		TrackingNumber string `json:"tracking_number"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fulfilled))
	assert.Equal(t, "FULFILLED", fulfilled.Status)
	assert.Equal(t, orderID, fulfilled.OrderID)
	assert.True(t, strings.HasPrefix(fulfilled.TrackingNumber, "TRK"))

	assert.Equal(t, "FULFILLED", stack.GetOrderAttr(t, orderID, "status"))
	assert.Equal(t, fulfilled.TrackingNumber, stack.GetOrderAttr(t, orderID, "tracking_number"))
}

func TestOrderPipeline_Integration_FulfillmentFailure(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	stack := SetupTestStack(t)
	server := stack.NewPipelineServer()

	// Quantity above the simulated inventory ceiling: validates fine,
	// fails at fulfillment.
	w := postJSON(t, server, "/api/orders", `{
		"order": {
			"customer_id": "C1",
			"items": [{"product_id": "P1", "quantity": 15, "price": 10.00}],
			"total_amount": 150.00
		}
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var validated struct {
		Order *model.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &validated))
	require.NotNil(t, validated.Order)
	orderID := validated.Order.OrderID

	orderJSON, err := json.Marshal(validated.Order)
	require.NoError(t, err)
	w = postJSON(t, server, "/api/fulfillments", `{"order": `+string(orderJSON)+`}`)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var failed struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &failed))
	assert.Equal(t, "FAILED", failed.Status)
	assert.Equal(t, "Insufficient inventory: Product P1 - requested 15, available 10", failed.Error)

	assert.Equal(t, "FAILED", stack.GetOrderAttr(t, orderID, "status"))
	assert.Equal(t, failed.Error, stack.GetOrderAttr(t, orderID, "error_message"))

	// The failed order lands on the dead-letter queue.
	body := stack.ReceiveOne(t, stack.DLQURL)
	require.NotNil(t, body, "expected a message on the dead-letter queue")
	var failure queue.FailureMessage
	require.NoError(t, json.Unmarshal([]byte(*body), &failure))
	require.NotNil(t, failure.Order)
	assert.Equal(t, orderID, failure.Order.OrderID)
	assert.Equal(t, failed.Error, failure.Error)
}

func TestOrderPipeline_Integration_ValidationFailureNotPersisted(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	stack := SetupTestStack(t)
	server := stack.NewPipelineServer()

	w := postJSON(t, server, "/api/orders", `{
		"order": {
			"customer_id": "C1",
			"items": [{"product_id": "P1", "quantity": 2, "price": 37.74}],
			"total_amount": 100.00
		}
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var resp struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_FAILED", resp.Status)
	assert.Equal(t, "Total amount does not match sum of items", resp.Error)

	// Nothing is queued for a rejected order.
	body := stack.ReceiveOne(t, stack.OrderQueueURL)
	assert.Nil(t, body)
}

func TestOrderPipeline_Integration_Worker(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	stack := SetupTestStack(t)
	orderService, fulfillmentService := stack.NewPipelineServices()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := queue.NewConsumer(stack.SQSClient, stack.OrderQueueURL,
		func(ctx context.Context, order *model.Order) error {
			_, err := fulfillmentService.Fulfill(ctx, order)
			return err
		},
		zerolog.Nop(),
		queue.WithWaitTime(1),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = consumer.Run(ctx)
	}()

	customer := "C1"
	product := "P1"
	qty := json.Number("2")
	price := json.Number("29.99")
	total := json.Number("59.98")
	order, err := orderService.ValidateOrder(ctx, &model.OrderInput{
		CustomerID: &customer,
		Items: []model.LineItemInput{
			{ProductID: &product, Quantity: &qty, Price: &price},
		},
		TotalAmount: &total,
	})
	require.NoError(t, err)

	// The worker picks the order up from the queue and fulfills it.
	// The poll must not fail the test itself, so read leniently.
	require.Eventually(t, func() bool {
		return stack.PeekOrderAttr(order.OrderID, "status") == "FULFILLED"
	}, 30*time.Second, 500*time.Millisecond)

	assert.True(t, strings.HasPrefix(stack.GetOrderAttr(t, order.OrderID, "tracking_number"), "TRK"))

	cancel()
	<-done
}
