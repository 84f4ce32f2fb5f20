package bus

import (
	"context"
	"errors"
	"testing"

	"orgchart-backend/domain/chart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingCommand struct {
	valid bool
}

func (c pingCommand) Validate() error {
	if !c.valid {
		return errors.New("invalid ping")
	}
	return nil
}

func TestCommandBus_Send(t *testing.T) {
	b := NewCommandBus(LoggingMiddleware(zap.NewNop()))
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) (chart.Collection, error) {
		return chart.Seed(), nil
	})))

	c, err := b.Send(context.Background(), pingCommand{valid: true})

	require.NoError(t, err)
	assert.Len(t, c, 3)
}

func TestCommandBus_ValidationStopsDispatch(t *testing.T) {
	called := false
	b := NewCommandBus()
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) (chart.Collection, error) {
		called = true
		return nil, nil
	})))

	_, err := b.Send(context.Background(), pingCommand{})

	assert.EqualError(t, err, "invalid ping")
	assert.False(t, called)
}

func TestCommandBus_UnknownCommand(t *testing.T) {
	b := NewCommandBus()

	_, err := b.Send(context.Background(), pingCommand{valid: true})

	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestCommandBus_DuplicateRegistration(t *testing.T) {
	b := NewCommandBus()
	h := CommandHandlerFunc(func(ctx context.Context, cmd Command) (chart.Collection, error) { return nil, nil })

	require.NoError(t, b.Register(pingCommand{}, h))
	assert.Error(t, b.Register(pingCommand{}, h))
}

func TestPipeline_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) (chart.Collection, error) {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}
	h := NewPipeline(mw("outer"), mw("inner")).Execute(CommandHandlerFunc(func(ctx context.Context, cmd Command) (chart.Collection, error) {
		order = append(order, "handler")
		return nil, nil
	}))

	_, err := h.Handle(context.Background(), pingCommand{valid: true})

	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
