package integration

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"order-pipeline/internal/handler"
	"order-pipeline/internal/queue"
	"order-pipeline/internal/router"
	"order-pipeline/internal/saga"
	"order-pipeline/internal/service"
	"order-pipeline/internal/store"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/docker/go-connections/nat"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go/modules/localstack"
)

const (
	testRegion = "us-east-1"
	testTable  = "orders"
)

// TestStack holds an AWS-compatible local stack plus the clients and
// resources the pipeline needs.
type TestStack struct {
	DynamoClient  *dynamodb.Client
	SQSClient     *sqs.Client
	Table         string
	OrderQueueURL string
	DLQURL        string
}

// SetupTestStack starts a LocalStack container, creates the orders
// table and both queues, and returns configured clients.
func SetupTestStack(t *testing.T) *TestStack {
	t.Helper()

	ctx := context.Background()

	container, err := localstack.Run(ctx, "localstack/localstack:3.8")
	if err != nil {
		t.Fatalf("failed to start localstack container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, nat.Port("4566/tcp"))
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}
	endpoint := fmt.Sprintf("http://%s:%s", host, port.Port())

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(testRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("test", "test", "test")),
	)
	if err != nil {
		t.Fatalf("failed to load aws config: %v", err)
	}

	dynamoClient := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	sqsClient := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	createOrdersTable(t, dynamoClient)
	orderQueueURL := createQueue(t, sqsClient, "orders")
	dlqURL := createQueue(t, sqsClient, "orders-dlq")

	return &TestStack{
		DynamoClient:  dynamoClient,
		SQSClient:     sqsClient,
		Table:         testTable,
		OrderQueueURL: orderQueueURL,
		DLQURL:        dlqURL,
	}
}

// createOrdersTable creates the single-key orders table and waits for
// it to become active.
func createOrdersTable(t *testing.T, client *dynamodb.Client) {
	t.Helper()

	ctx := context.Background()

	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(testTable),
		AttributeDefinitions: []dynamodbtypes.AttributeDefinition{
			{
				AttributeName: aws.String("order_id"),
				AttributeType: dynamodbtypes.ScalarAttributeTypeS,
			},
		},
		KeySchema: []dynamodbtypes.KeySchemaElement{
			{
				AttributeName: aws.String("order_id"),
				KeyType:       dynamodbtypes.KeyTypeHash,
			},
		},
		BillingMode: dynamodbtypes.BillingModePayPerRequest,
	})
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	err = waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(testTable),
	}, 30*time.Second)
	if err != nil {
		t.Fatalf("table did not become active: %v", err)
	}
}

func createQueue(t *testing.T, client *sqs.Client, name string) string {
	t.Helper()

	out, err := client.CreateQueue(context.Background(), &sqs.CreateQueueInput{
		QueueName: aws.String(name),
	})
	if err != nil {
		t.Fatalf("failed to create queue %s: %v", name, err)
	}
	return aws.ToString(out.QueueUrl)
}

// NewPipelineServices wires the real store, queues, and simulated
// providers into the two services.
func (s *TestStack) NewPipelineServices() (service.OrderService, service.FulfillmentService) {
	logger := zerolog.Nop()

	orderStore := store.NewDynamoStore(s.DynamoClient, s.Table, logger)
	publisher := queue.NewSQSPublisher(s.SQSClient, s.OrderQueueURL, logger)
	deadLetter := queue.NewSQSDeadLetter(s.SQSClient, s.DLQURL, logger)

	inventory := saga.NewSimulatedInventory(logger)
	payments := saga.NewSimulatedPayments(logger)
	shipping := saga.NewSimulatedShipping(logger)

	orderService := service.NewOrderService(orderStore, publisher, logger)
	fulfillmentService := service.NewFulfillmentService(orderStore, deadLetter, inventory, payments, shipping, logger)
	return orderService, fulfillmentService
}

// NewPipelineServer builds the HTTP handler stack on top of the
// pipeline services.
func (s *TestStack) NewPipelineServer() http.Handler {
	logger := zerolog.Nop()

	orderService, fulfillmentService := s.NewPipelineServices()
	orderHandler := handler.NewOrderHandler(orderService, logger)
	fulfillmentHandler := handler.NewFulfillmentHandler(fulfillmentService, logger)
	return router.New(orderHandler, fulfillmentHandler, logger)
}

// GetOrderAttr reads one string attribute of a stored order.
func (s *TestStack) GetOrderAttr(t *testing.T, orderID, name string) string {
	t.Helper()

	out, err := s.DynamoClient.GetItem(context.Background(), &dynamodb.GetItemInput{
		TableName: aws.String(s.Table),
		Key: map[string]dynamodbtypes.AttributeValue{
			"order_id": &dynamodbtypes.AttributeValueMemberS{Value: orderID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to get order %s: %v", orderID, err)
	}
	if out.Item == nil {
		return ""
	}
	attr, ok := out.Item[name].(*dynamodbtypes.AttributeValueMemberS)
	if !ok {
		return ""
	}
	return attr.Value
}

// PeekOrderAttr reads one string attribute of a stored order, returning
// an empty string on any error. Safe to call from polling goroutines.
func (s *TestStack) PeekOrderAttr(orderID, name string) string {
	out, err := s.DynamoClient.GetItem(context.Background(), &dynamodb.GetItemInput{
		TableName: aws.String(s.Table),
		Key: map[string]dynamodbtypes.AttributeValue{
			"order_id": &dynamodbtypes.AttributeValueMemberS{Value: orderID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil || out.Item == nil {
		return ""
	}
	attr, ok := out.Item[name].(*dynamodbtypes.AttributeValueMemberS)
	if !ok {
		return ""
	}
	return attr.Value
}

// ReceiveOne receives a single message from the given queue, waiting
// up to a few seconds.
func (s *TestStack) ReceiveOne(t *testing.T, queueURL string) *string {
	t.Helper()

	out, err := s.SQSClient.ReceiveMessage(context.Background(), &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(queueURL),
		MaxNumberOfMessages: 1,
		WaitTimeSeconds:     5,
	})
	if err != nil {
		t.Fatalf("failed to receive message: %v", err)
	}
	if len(out.Messages) == 0 {
		return nil
	}
	return out.Messages[0].Body
}
