package store

import (
	"context"
	"fmt"
	"time"

	"order-pipeline/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"
)

// DynamoAPI is the subset of the DynamoDB client used by the store.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// dynamoStore implements OrderStore on a DynamoDB table keyed by
// order_id.
type dynamoStore struct {
	client DynamoAPI
	table  string
	logger zerolog.Logger
	now    func() time.Time
}

// NewDynamoStore creates a DynamoDB-backed order store.
func NewDynamoStore(client DynamoAPI, table string, logger zerolog.Logger) OrderStore {
	return &dynamoStore{
		client: client,
		table:  table,
		logger: logger.With().Str("store", "orders").Logger(),
		now:    time.Now,
	}
}

// Put creates a new order record.
func (s *dynamoStore) Put(ctx context.Context, order *model.Order) error {
	item, err := marshalOrder(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.OrderID).
			Msg("failed to store order")
		return fmt.Errorf("failed to store order: %w", err)
	}

	s.logger.Debug().
		Str("order_id", order.OrderID).
		Msg("order stored")

	return nil
}

// UpdateStatus applies a partial status update, always refreshing
// updated_at.
func (s *dynamoStore) UpdateStatus(ctx context.Context, orderID string, update StatusUpdate) error {
	set := expression.Set(expression.Name("status"), expression.Value(string(update.Status))).
		Set(expression.Name("updated_at"), expression.Value(s.now().UTC().Format(time.RFC3339Nano)))

	if update.TrackingNumber != "" {
		set = set.Set(expression.Name("tracking_number"), expression.Value(update.TrackingNumber))
	}
	if update.ErrorMessage != "" {
		set = set.Set(expression.Name("error_message"), expression.Value(update.ErrorMessage))
	}

	expr, err := expression.NewBuilder().WithUpdate(set).Build()
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       orderKey(orderID),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", orderID).
			Str("status", string(update.Status)).
			Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Debug().
		Str("order_id", orderID).
		Str("status", string(update.Status)).
		Msg("order status updated")

	return nil
}

// marshalOrder encodes an order into a DynamoDB item. Encoding
// marshalers are enabled so decimal amounts and timestamps round-trip
// as exact strings.
func marshalOrder(order *model.Order) (map[string]types.AttributeValue, error) {
	encoder := attributevalue.NewEncoder(func(o *attributevalue.EncoderOptions) {
		o.UseEncodingMarshalers = true
	})

	av, err := encoder.Encode(order)
	if err != nil {
		return nil, err
	}

	m, ok := av.(*types.AttributeValueMemberM)
	if !ok {
		return nil, fmt.Errorf("order did not encode to a map attribute")
	}
	return m.Value, nil
}

func orderKey(orderID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"order_id": &types.AttributeValueMemberS{Value: orderID},
	}
}
