package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const HISTORY_PARTITION_KEY = "storage_key"

// DynamoDBAPI is the part of *dynamodb.Client the history table needs.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

type historyRecord struct {
	StorageKey string `dynamodbav:"storage_key"`
	History    string `dynamodbav:"history"`
	UpdatedAt  int64  `dynamodbav:"updated_at"`
}

// HistoryTable keeps the serialized history as one item per storage key.
type HistoryTable struct {
	client    DynamoDBAPI
	tableName string
	key       string
	now       func() time.Time
}

func NewHistoryTable(client DynamoDBAPI, tableName, key string) *HistoryTable {
	return &HistoryTable{
		client:    client,
		tableName: tableName,
		key:       key,
		now:       time.Now,
	}
}

func (h *HistoryTable) itemKey() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		HISTORY_PARTITION_KEY: &types.AttributeValueMemberS{Value: h.key},
	}
}

func (h *HistoryTable) Load(ctx context.Context) ([]byte, error) {
	out, err := h.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(h.tableName),
		Key:            h.itemKey(),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] Failed to get history: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var record historyRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		slog.Error("[DynamoDB] Unable to unmarshal history item", slog.String("error", err.Error()))
		return nil, fmt.Errorf("[DynamoDB] Failed to unmarshal history: %w", err)
	}
	return []byte(record.History), nil
}

func (h *HistoryTable) Save(ctx context.Context, data []byte) error {
	item, err := attributevalue.MarshalMap(historyRecord{
		StorageKey: h.key,
		History:    string(data),
		UpdatedAt:  h.now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to marshal history: %w", err)
	}

	if _, err := h.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(h.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("[DynamoDB] Failed to put history: %w", err)
	}

	slog.Debug("[DynamoDB] Successfully stored history", slog.String("key", h.key))
	return nil
}

func (h *HistoryTable) Delete(ctx context.Context) error {
	if _, err := h.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(h.tableName),
		Key:       h.itemKey(),
	}); err != nil {
		return fmt.Errorf("[DynamoDB] Failed to delete history: %w", err)
	}
	return nil
}
