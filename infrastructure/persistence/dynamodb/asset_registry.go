package dynamodb

import (
	"context"
	"fmt"
	"sort"

	"orgchart-backend/domain/assets"
	"orgchart-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const (
	entityTypeAsset = "ASSET"
	assetSK         = "METADATA"
	assetIndex      = "EntityTypeIndex"
)

// assetItem represents the DynamoDB item for an uploaded file reference
type assetItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	assets.Asset
}

// AssetRegistry stores asset references in the same table as the chart
type AssetRegistry struct {
	client    Client
	tableName string
	logger    *zap.Logger
}

// NewAssetRegistry creates a new AssetRegistry
func NewAssetRegistry(client Client, tableName string, logger *zap.Logger) *AssetRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetRegistry{client: client, tableName: tableName, logger: logger}
}

// Register persists an asset reference
func (r *AssetRegistry) Register(ctx context.Context, asset assets.Asset) error {
	av, err := attributevalue.MarshalMap(assetItem{
		PK:         fmt.Sprintf("ASSET#%s", asset.ID),
		SK:         assetSK,
		EntityType: entityTypeAsset,
		Asset:      asset,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal asset: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to register asset: %w", err)
	}
	return nil
}

// Get retrieves one asset reference
func (r *AssetRegistry) Get(ctx context.Context, id string) (assets.Asset, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("ASSET#%s", id)},
			"SK": &types.AttributeValueMemberS{Value: assetSK},
		},
	})
	if err != nil {
		return assets.Asset{}, fmt.Errorf("failed to get asset: %w", err)
	}
	if out.Item == nil {
		return assets.Asset{}, errors.NewNotFoundError("asset not found")
	}

	var item assetItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return assets.Asset{}, fmt.Errorf("failed to unmarshal asset: %w", err)
	}
	return item.Asset, nil
}

// List queries every asset through the entity type index, oldest first
func (r *AssetRegistry) List(ctx context.Context) ([]assets.Asset, error) {
	keyCond := expression.Key("EntityType").Equal(expression.Value(entityTypeAsset))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build key condition: %w", err)
	}

	var result []assets.Asset
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			IndexName:                 aws.String(assetIndex),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list assets: %w", err)
		}

		var items []assetItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal assets: %w", err)
		}
		for _, item := range items {
			result = append(result, item.Asset)
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}
