package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orgchart-backend/domain/chart"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const (
	entityTypeChart = "CHART"
	documentSK      = "DOCUMENT"
)

// chartItem represents the DynamoDB item holding the chart document
type chartItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	Data       string `dynamodbav:"Data"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
}

// ChartStore keeps the chart document as one DynamoDB item
type ChartStore struct {
	client    Client
	tableName string
	key       string
	logger    *zap.Logger
	now       func() time.Time
}

// NewChartStore creates a store for the document named key
func NewChartStore(client Client, tableName, key string, logger *zap.Logger) *ChartStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChartStore{
		client:    client,
		tableName: tableName,
		key:       key,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *ChartStore) itemKey() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("CHART#%s", s.key)},
		"SK": &types.AttributeValueMemberS{Value: documentSK},
	}
}

// Read fetches the document. Missing or unreadable documents read as the
// empty collection.
func (s *ChartStore) Read(ctx context.Context) chart.Collection {
	c, err := s.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to read chart document", zap.String("key", s.key), zap.Error(err))
		return chart.Collection{}
	}
	return c
}

// Load fetches the document with a consistent read
func (s *ChartStore) Load(ctx context.Context) (chart.Collection, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            s.itemKey(),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get chart document: %w", err)
	}
	if out.Item == nil {
		return chart.Collection{}, nil
	}

	var item chartItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chart item: %w", err)
	}

	c, err := chart.Decode([]byte(item.Data))
	if err != nil {
		return nil, fmt.Errorf("stored chart is unreadable: %w", err)
	}
	return c, nil
}

// Write replaces the document in a single UpdateItem call
func (s *ChartStore) Write(ctx context.Context, c chart.Collection) error {
	doc, err := chart.Encode(c)
	if err != nil {
		return err
	}

	update := expression.
		Set(expression.Name("Data"), expression.Value(string(doc))).
		Set(expression.Name("UpdatedAt"), expression.Value(s.now().UTC().Format(time.RFC3339Nano))).
		Set(expression.Name("EntityType"), expression.Value(entityTypeChart))
	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       s.itemKey(),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return fmt.Errorf("failed to write chart document: %w", err)
	}

	s.logger.Debug("Chart document written", zap.String("key", s.key), zap.Int("nodes", len(c)))
	return nil
}

// Reset deletes the document
func (s *ChartStore) Reset(ctx context.Context) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       s.itemKey(),
	})
	if err != nil {
		return fmt.Errorf("failed to delete chart document: %w", err)
	}
	return nil
}

// Initialize writes the seed chart unless the item already exists
func (s *ChartStore) Initialize(ctx context.Context) error {
	doc, err := chart.Encode(chart.Seed())
	if err != nil {
		return err
	}

	item := chartItem{
		PK:         fmt.Sprintf("CHART#%s", s.key),
		SK:         documentSK,
		EntityType: entityTypeChart,
		Data:       string(doc),
		UpdatedAt:  s.now().UTC().Format(time.RFC3339Nano),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal chart item: %w", err)
	}

	cond, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build condition expression: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.tableName),
		Item:                     av,
		ConditionExpression:      cond.Condition(),
		ExpressionAttributeNames: cond.Names(),
	})
	if err != nil {
		var conditionalCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionalCheckFailed) {
			s.logger.Debug("Chart document already initialized", zap.String("key", s.key))
			return nil
		}
		return fmt.Errorf("failed to seed chart document: %w", err)
	}

	s.logger.Info("Chart document seeded", zap.String("key", s.key))
	return nil
}
