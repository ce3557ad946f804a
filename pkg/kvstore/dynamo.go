package kvstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/JaimeStill/intake/pkg/lifecycle"
)

type dynamo struct {
	client  *dynamodb.Client
	table   string
	keyAttr string
	logger  *slog.Logger
}

// NewDynamo creates a DynamoDB-backed store. No network calls are made
// until Start or the first operation.
func NewDynamo(cfg *Config, awsCfg aws.Config, logger *slog.Logger) System {
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &dynamo{
		client:  client,
		table:   cfg.Table,
		keyAttr: cfg.KeyAttribute,
		logger:  logger.With("system", "kvstore", "provider", ProviderDynamoDB),
	}
}

func (d *dynamo) Start(lc *lifecycle.Coordinator) error {
	d.logger.Info("starting metadata store")

	lc.OnStartup(func() {
		if err := d.Ping(lc.Context()); err != nil {
			d.logger.Error("metadata table check failed", "table", d.table, "error", err)
			return
		}
		d.logger.Info("metadata table ready", "table", d.table)
	})

	return nil
}

func (d *dynamo) Put(ctx context.Context, key string, item any) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	av[d.keyAttr] = &types.AttributeValueMemberS{Value: key}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("put item %s: %w", key, err)
	}

	return nil
}

func (d *dynamo) Get(ctx context.Context, key string, out any) error {
	resp, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]types.AttributeValue{
			d.keyAttr: &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return fmt.Errorf("get item %s: %w", key, err)
	}

	if len(resp.Item) == 0 {
		return ErrNotFound
	}

	if err := attributevalue.UnmarshalMap(resp.Item, out); err != nil {
		return fmt.Errorf("unmarshal item %s: %w", key, err)
	}

	return nil
}

func (d *dynamo) Ping(ctx context.Context) error {
	_, err := d.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(d.table),
	})
	if err != nil {
		return fmt.Errorf("describe table %s: %w", d.table, err)
	}
	return nil
}
