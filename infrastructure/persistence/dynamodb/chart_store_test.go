package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"orgchart-backend/application/commands"
	"orgchart-backend/application/commands/handlers"
	"orgchart-backend/domain/assets"
	"orgchart-backend/domain/chart"
	apperrors "orgchart-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestChartStore_ReadMissingIsEmpty(t *testing.T) {
	client := newFakeClient()
	s := NewChartStore(client, "orgchart", chart.DefaultKey, zap.NewNop())

	c := s.Read(context.Background())

	assert.NotNil(t, c)
	assert.Empty(t, c)
	require.Len(t, client.gets, 1)
	assert.True(t, aws.ToBool(client.gets[0].ConsistentRead))
}

func TestChartStore_InitializeSeedsOnce(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	s := NewChartStore(client, "orgchart", chart.DefaultKey, zap.NewNop())

	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Write(ctx, chart.Seed()[:2]))
	require.NoError(t, s.Initialize(ctx), "an existing document is not an error")

	assert.Len(t, s.Read(ctx), 2)
	item := client.items["CHART#orgchart_data|DOCUMENT"]
	require.NotNil(t, item)
	assert.Equal(t, "CHART", item["EntityType"].(*types.AttributeValueMemberS).Value)
}

func TestChartStore_WriteRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	s := NewChartStore(client, "orgchart", chart.DefaultKey, zap.NewNop())
	s.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	require.NoError(t, s.Initialize(ctx))
	before := client.items["CHART#orgchart_data|DOCUMENT"]["Data"].(*types.AttributeValueMemberS).Value

	require.NoError(t, s.Write(ctx, s.Read(ctx)))

	item := client.items["CHART#orgchart_data|DOCUMENT"]
	assert.Equal(t, before, item["Data"].(*types.AttributeValueMemberS).Value)
	assert.Equal(t, "2024-01-02T03:04:05Z", item["UpdatedAt"].(*types.AttributeValueMemberS).Value)
	require.Len(t, client.updates, 1)
}

func TestChartStore_WriteFailure(t *testing.T) {
	client := newFakeClient()
	client.failNext = errors.New("ProvisionedThroughputExceededException")
	s := NewChartStore(client, "orgchart", chart.DefaultKey, zap.NewNop())

	err := s.Write(context.Background(), chart.Seed())

	assert.Error(t, err)
}

func TestChartStore_ReadFailureIsEmpty(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	s := NewChartStore(client, "orgchart", chart.DefaultKey, zap.NewNop())
	require.NoError(t, s.Initialize(ctx))
	client.failNext = errors.New("network down")

	assert.Empty(t, s.Read(ctx))
}

func TestChartStore_LoadReportsFailure(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	s := NewChartStore(client, "orgchart", chart.DefaultKey, zap.NewNop())

	c, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, c)

	require.NoError(t, s.Initialize(ctx))
	client.failNext = errors.New("network down")
	_, err = s.Load(ctx)
	assert.Error(t, err)
}

func TestChartStore_FailedReadDoesNotReplaceChart(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	s := NewChartStore(client, "orgchart", chart.DefaultKey, zap.NewNop())
	require.NoError(t, s.Initialize(ctx))
	require.Len(t, s.Read(ctx), 3)
	h := handlers.NewAddNodeHandler(s, nil, "orgchart_data", zap.NewNop())
	node, err := chart.ParseNode([]byte(`{"id":"4","pid":"1"}`))
	require.NoError(t, err)

	client.failNext = errors.New("ProvisionedThroughputExceededException")
	_, err = h.Handle(ctx, commands.AddNodeCommand{Node: node})

	require.Error(t, err)
	assert.True(t, apperrors.IsPersistence(err))
	assert.Empty(t, client.updates)
	assert.Len(t, s.Read(ctx), 3)
}

func TestChartStore_CorruptDocumentIsEmpty(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	client.items["CHART#orgchart_data|DOCUMENT"] = map[string]types.AttributeValue{
		"PK":   &types.AttributeValueMemberS{Value: "CHART#orgchart_data"},
		"SK":   &types.AttributeValueMemberS{Value: "DOCUMENT"},
		"Data": &types.AttributeValueMemberS{Value: "{not json"},
	}
	s := NewChartStore(client, "orgchart", chart.DefaultKey, zap.NewNop())

	assert.Empty(t, s.Read(ctx))
}

func TestChartStore_Reset(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	s := NewChartStore(client, "orgchart", chart.DefaultKey, zap.NewNop())
	require.NoError(t, s.Initialize(ctx))

	require.NoError(t, s.Reset(ctx))

	assert.Empty(t, s.Read(ctx))
	require.NoError(t, s.Initialize(ctx))
	assert.Len(t, s.Read(ctx), 3, "reset store can be seeded again")
}

func TestAssetRegistry_RegisterGetList(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	r := NewAssetRegistry(client, "orgchart", zap.NewNop())
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, r.Register(ctx, assets.Asset{ID: "a2", URL: "http://x/a2.png", CreatedAt: created.Add(time.Hour)}))
	require.NoError(t, r.Register(ctx, assets.Asset{ID: "a1", URL: "http://x/a1.png", ContentType: "image/png", Size: 10, CreatedAt: created}))

	got, err := r.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "image/png", got.ContentType)
	assert.Equal(t, 10, got.Size)
	assert.True(t, created.Equal(got.CreatedAt))

	_, err = r.Get(ctx, "nope")
	assert.True(t, apperrors.IsNotFound(err))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a1", list[0].ID)
	assert.Equal(t, "a2", list[1].ID)
}
