package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockCloudWatch struct {
	mock.Mock
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	args := m.Called(ctx, params)
	return &cloudwatch.PutMetricDataOutput{}, args.Error(0)
}

func TestMetrics_RecordCommandExecution(t *testing.T) {
	client := new(mockCloudWatch)
	client.On("PutMetricData", mock.Anything, mock.MatchedBy(func(in *cloudwatch.PutMetricDataInput) bool {
		return aws.ToString(in.Namespace) == "OrgChart" && len(in.MetricData) == 2
	})).Return(nil).Once()

	m := NewMetrics("OrgChart", client, zap.NewNop())
	m.RecordCommandExecution(context.Background(), "AddNodeCommand", 15*time.Millisecond, nil)

	client.AssertExpectations(t)
	in := client.Calls[0].Arguments.Get(1).(*cloudwatch.PutMetricDataInput)
	require.Len(t, in.MetricData[0].Dimensions, 2)
	assert.Equal(t, "success", aws.ToString(in.MetricData[0].Dimensions[1].Value))
}

func TestMetrics_ClientErrorIsSwallowed(t *testing.T) {
	client := new(mockCloudWatch)
	client.On("PutMetricData", mock.Anything, mock.Anything).Return(errors.New("throttled"))

	m := NewMetrics("OrgChart", client, zap.NewNop())

	assert.NotPanics(t, func() {
		m.RecordUpload(context.Background(), 1024, errors.New("unsupported"))
		m.RecordError(context.Background(), "PERSISTENCE")
	})
	client.AssertNumberOfCalls(t, "PutMetricData", 2)
}

func TestMetrics_NoClientIsNoop(t *testing.T) {
	var nilMetrics *Metrics
	assert.NotPanics(t, func() {
		NewMetrics("OrgChart", nil, nil).RecordError(context.Background(), "INTERNAL")
		nilMetrics.RecordCommandExecution(context.Background(), "x", time.Second, nil)
	})
}

func TestTracer_DisabledRunsFunction(t *testing.T) {
	tracer := NewTracer("orgchart", false)
	called := false

	err := tracer.TraceFunction(context.Background(), "op", func(ctx context.Context) error {
		called = true
		return errors.New("boom")
	})

	assert.True(t, called)
	assert.EqualError(t, err, "boom")
	assert.False(t, tracer.Enabled())
}

func TestTracer_EnabledWithoutSegmentRunsFunction(t *testing.T) {
	tracer := NewTracer("orgchart", true)

	err := tracer.TraceFunction(context.Background(), "op", func(ctx context.Context) error { return nil })

	assert.NoError(t, err)
}
