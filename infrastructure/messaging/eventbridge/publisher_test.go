package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"orgchart-backend/domain/events"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockEventBridge struct {
	mock.Mock
}

func (m *mockEventBridge) PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*eventbridge.PutEventsOutput)
	return out, args.Error(1)
}

func nodeAdded(id string) events.DomainEvent {
	return events.NewNodeAdded("orgchart_data", id, "1", 4, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestPublisher_Publish(t *testing.T) {
	client := new(mockEventBridge)
	client.On("PutEvents", mock.Anything, mock.Anything).Return(&eventbridge.PutEventsOutput{}, nil).Once()
	p := NewPublisher(client, "orgchart-bus", zap.NewNop())

	require.NoError(t, p.Publish(context.Background(), nodeAdded("4")))

	in := client.Calls[0].Arguments.Get(1).(*eventbridge.PutEventsInput)
	require.Len(t, in.Entries, 1)
	entry := in.Entries[0]
	assert.Equal(t, "orgchart-bus", aws.ToString(entry.EventBusName))
	assert.Equal(t, events.SourceOrgChart, aws.ToString(entry.Source))
	assert.Equal(t, events.TypeNodeAdded, aws.ToString(entry.DetailType))

	var detail map[string]any
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail))
	assert.Equal(t, "4", detail["node_id"])
}

func TestPublisher_Batches(t *testing.T) {
	client := new(mockEventBridge)
	client.On("PutEvents", mock.Anything, mock.Anything).Return(&eventbridge.PutEventsOutput{}, nil)
	p := NewPublisher(client, "orgchart-bus", zap.NewNop())

	batch := make([]events.DomainEvent, 0, 23)
	for i := 0; i < 23; i++ {
		batch = append(batch, nodeAdded("x"))
	}

	require.NoError(t, p.PublishBatch(context.Background(), batch))
	client.AssertNumberOfCalls(t, "PutEvents", 3)
}

func TestPublisher_RetriesTransientErrors(t *testing.T) {
	client := new(mockEventBridge)
	client.On("PutEvents", mock.Anything, mock.Anything).Return(nil, errors.New("throttled")).Once()
	client.On("PutEvents", mock.Anything, mock.Anything).Return(&eventbridge.PutEventsOutput{}, nil).Once()
	p := NewPublisher(client, "orgchart-bus", zap.NewNop())

	require.NoError(t, p.Publish(context.Background(), nodeAdded("4")))
	client.AssertNumberOfCalls(t, "PutEvents", 2)
}

func TestPublisher_FailedEntries(t *testing.T) {
	client := new(mockEventBridge)
	client.On("PutEvents", mock.Anything, mock.Anything).Return(&eventbridge.PutEventsOutput{
		FailedEntryCount: 1,
		Entries:          []types.PutEventsResultEntry{{ErrorCode: aws.String("InternalFailure")}},
	}, nil)
	p := NewPublisher(client, "orgchart-bus", zap.NewNop())

	err := p.Publish(context.Background(), nodeAdded("4"))

	assert.EqualError(t, err, "1 events failed to publish")
}

func TestPublisher_EmptyBatch(t *testing.T) {
	client := new(mockEventBridge)
	p := NewPublisher(client, "orgchart-bus", zap.NewNop())

	assert.NoError(t, p.PublishBatch(context.Background(), nil))
	client.AssertNotCalled(t, "PutEvents", mock.Anything, mock.Anything)
}
