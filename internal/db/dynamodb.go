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
	"github.com/cenkalti/backoff/v4"
	"github.com/spacesedan/sentify/internal/models"
)

const (
	ANALYSIS_RESULTS_TABLE_NAME = "AnalysisResults"
	DYNAMODB_BATCH_SIZE         = 25
	DYNAMODB_MAX_RETRIES        = 3
)

type dynamoAPI interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DynamoStore writes records keyed by product_brand (partition) and
// created_at (sort).
type DynamoStore struct {
	client     dynamoAPI
	tableName  string
	newBackoff func() backoff.BackOff
}

func NewDynamoStore(client dynamoAPI, tableName string) *DynamoStore {
	if tableName == "" {
		tableName = ANALYSIS_RESULTS_TABLE_NAME
	}
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		newBackoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			return backoff.WithMaxRetries(b, DYNAMODB_MAX_RETRIES)
		},
	}
}

func (s *DynamoStore) Save(ctx context.Context, records ...models.AnalysisRecord) error {
	for i := 0; i < len(records); i += DYNAMODB_BATCH_SIZE {
		if err := ctx.Err(); err != nil {
			slog.Warn("[DynamoDB] context canceled")
			return err
		}

		end := min(i+DYNAMODB_BATCH_SIZE, len(records))
		writeRequests := make([]types.WriteRequest, 0, end-i)
		for _, record := range records[i:end] {
			item, err := marshalRecord(record)
			if err != nil {
				return fmt.Errorf("[DynamoDB] Failed to marshal record %s: %w", record.ID, err)
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		if err := s.writeBatch(ctx, writeRequests); err != nil {
			return err
		}
	}

	slog.Info("[DynamoDB] Successfully stored analysis results",
		slog.Int("count", len(records)))
	return nil
}

// marshalRecord stores created_at in a fixed-width layout because it is the
// table's sort key and DynamoDB compares strings byte by byte.
func marshalRecord(record models.AnalysisRecord) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, err
	}
	item["created_at"] = &types.AttributeValueMemberS{
		Value: record.CreatedAt.UTC().Format(models.SORTABLE_TIME_LAYOUT),
	}
	return item, nil
}

// writeBatch retries unprocessed items with exponential backoff.
func (s *DynamoStore) writeBatch(ctx context.Context, writeRequests []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{s.tableName: writeRequests}
	attempt := 0

	op := func() error {
		attempt++
		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: pending,
		})
		if err != nil {
			return backoff.Permanent(fmt.Errorf("[DynamoDB] Failed to batch write results: %w", err))
		}
		if len(out.UnprocessedItems) == 0 {
			return nil
		}

		pending = out.UnprocessedItems
		slog.Warn("[DynamoDB] Retrying unprocessed items...",
			slog.Int("retry_attempt", attempt),
			slog.Int("remaining_items", len(pending[s.tableName])))
		return fmt.Errorf("[DynamoDB] %d items were not written", len(pending[s.tableName]))
	}

	if err := backoff.Retry(op, backoff.WithContext(s.newBackoff(), ctx)); err != nil {
		slog.Error("[DynamoDB] Some items were not written even after retries",
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

func (s *DynamoStore) History(ctx context.Context, product, brand string, limit int) ([]models.AnalysisRecord, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("product_brand = :pb"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pb": &types.AttributeValueMemberS{Value: models.ProductBrandKey(product, brand)},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	out, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] Query for history failed: %w", err)
	}

	var records []models.AnalysisRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, fmt.Errorf("[DynamoDB] Unable to unmarshal history: %w", err)
	}
	return records, nil
}

func (s *DynamoStore) Close() error {
	return nil
}
