package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"order-pipeline/internal/config"
	"order-pipeline/internal/model"
	"order-pipeline/internal/queue"
	"order-pipeline/internal/saga"
	"order-pipeline/internal/service"
	"order-pipeline/internal/store"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger, "worker")
	logger.Info().Msg("starting order fulfillment worker")

	// Stop on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load AWS configuration and build service clients
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	dynamoClient := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.AWS.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
		}
	})
	sqsClient := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.AWS.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
		}
	})

	// Initialize collaborators
	orderStore := store.NewDynamoStore(dynamoClient, cfg.AWS.OrdersTable, logger)
	deadLetter := queue.NewSQSDeadLetter(sqsClient, cfg.AWS.DeadLetterQueueURL, logger)

	// Initialize simulated fulfillment providers
	inventory := saga.NewSimulatedInventory(logger)
	payments := saga.NewSimulatedPayments(logger)
	shipping := saga.NewSimulatedShipping(logger)

	fulfillmentService := service.NewFulfillmentService(orderStore, deadLetter, inventory, payments, shipping, logger)

	// A FAILED result is a terminal outcome; only infrastructure
	// errors leave the message on the queue for redelivery.
	handle := func(ctx context.Context, order *model.Order) error {
		_, err := fulfillmentService.Fulfill(ctx, order)
		return err
	}

	consumer := queue.NewConsumer(
		sqsClient,
		cfg.AWS.OrderQueueURL,
		handle,
		logger,
		queue.WithWaitTime(int32(cfg.Worker.WaitTimeSeconds)),
		queue.WithMaxMessages(int32(cfg.Worker.MaxMessages)),
	)

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("consumer error: %w", err)
	}

	logger.Info().Msg("worker shutdown completed")
	return nil
}
