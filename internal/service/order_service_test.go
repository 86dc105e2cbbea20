package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"order-pipeline/internal/model"
	"order-pipeline/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderStore is a mock implementation of store.OrderStore.
type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) Put(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderStore) UpdateStatus(ctx context.Context, orderID string, update store.StatusUpdate) error {
	args := m.Called(ctx, orderID, update)
	return args.Error(0)
}

// MockPublisher is a mock implementation of queue.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrder(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func strPtr(s string) *string {
	return &s
}

func numPtr(s string) *json.Number {
	n := json.Number(s)
	return &n
}

func validOrderInput() *model.OrderInput {
	return &model.OrderInput{
		CustomerID: strPtr("C1"),
		Items: []model.LineItemInput{
			{ProductID: strPtr("P1"), Quantity: numPtr("2"), Price: numPtr("29.99")},
		},
		TotalAmount: numPtr("59.98"),
	}
}

func TestOrderService_ValidateOrder_Success(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockOrderStore)
	mockQueue := new(MockPublisher)

	mockStore.On("Put", ctx, mock.AnythingOfType("*model.Order")).Return(nil)
	mockQueue.On("PublishOrder", ctx, mock.AnythingOfType("*model.Order")).Return(nil)

	svc := NewOrderService(mockStore, mockQueue, zerolog.Nop())
	order, err := svc.ValidateOrder(ctx, validOrderInput())

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.NotEmpty(t, order.OrderID)
	assert.Equal(t, model.StatusValidated, order.Status)

	// The stored and the queued order are the validated one.
	mockStore.AssertCalled(t, "Put", ctx, order)
	mockQueue.AssertCalled(t, "PublishOrder", ctx, order)
	mockStore.AssertExpectations(t)
	mockQueue.AssertExpectations(t)
}

func TestOrderService_ValidateOrder_ValidationFailure(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockOrderStore)
	mockQueue := new(MockPublisher)

	input := validOrderInput()
	input.CustomerID = nil

	svc := NewOrderService(mockStore, mockQueue, zerolog.Nop())
	order, err := svc.ValidateOrder(ctx, input)

	require.Error(t, err)
	assert.Nil(t, order)

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Missing required field: customer_id", verr.Message)

	// Rejected orders never reach the store or the queue.
	mockStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	mockQueue.AssertNotCalled(t, "PublishOrder", mock.Anything, mock.Anything)
}

func TestOrderService_ValidateOrder_StoreFailure(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockOrderStore)
	mockQueue := new(MockPublisher)

	storeErr := errors.New("table unavailable")
	mockStore.On("Put", ctx, mock.AnythingOfType("*model.Order")).Return(storeErr)

	svc := NewOrderService(mockStore, mockQueue, zerolog.Nop())
	order, err := svc.ValidateOrder(ctx, validOrderInput())

	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, storeErr)

	var verr *model.ValidationError
	assert.False(t, errors.As(err, &verr))
	mockQueue.AssertNotCalled(t, "PublishOrder", mock.Anything, mock.Anything)
}

func TestOrderService_ValidateOrder_QueueFailure(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockOrderStore)
	mockQueue := new(MockPublisher)

	queueErr := errors.New("queue unavailable")
	mockStore.On("Put", ctx, mock.AnythingOfType("*model.Order")).Return(nil)
	mockQueue.On("PublishOrder", ctx, mock.AnythingOfType("*model.Order")).Return(queueErr)

	svc := NewOrderService(mockStore, mockQueue, zerolog.Nop())
	order, err := svc.ValidateOrder(ctx, validOrderInput())

	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, queueErr)
}
