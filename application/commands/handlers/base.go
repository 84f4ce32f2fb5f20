package handlers

import (
	"context"
	"fmt"
	"time"

	"orgchart-backend/application/commands"
	"orgchart-backend/application/ports"
	"orgchart-backend/domain/chart"
	"orgchart-backend/domain/events"
	"orgchart-backend/pkg/errors"

	"go.uber.org/zap"
)

// ChartKey names the stored chart document in emitted events.
type ChartKey string

// chartWriter holds what every mutation handler needs to persist the
// collection and announce the change.
type chartWriter struct {
	store     ports.ChartStore
	publisher ports.EventPublisher
	chartKey  ChartKey
	logger    *zap.Logger
	now       func() time.Time
}

func newChartWriter(store ports.ChartStore, publisher ports.EventPublisher, key ChartKey, logger *zap.Logger) chartWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return chartWriter{
		store:     store,
		publisher: publisher,
		chartKey:  key,
		logger:    logger,
		now:       time.Now,
	}
}

// load reads the collection a mutation starts from. A failed read stops the
// mutation so the stored chart is never overwritten from a partial view.
func (w chartWriter) load(ctx context.Context) (chart.Collection, error) {
	c, err := w.store.Load(ctx)
	if err != nil {
		return nil, errors.NewPersistenceError(commands.MsgLoadFailed, err)
	}
	return c, nil
}

// save replaces the stored document with c.
func (w chartWriter) save(ctx context.Context, c chart.Collection) error {
	if err := w.store.Write(ctx, c); err != nil {
		return errors.NewPersistenceError(commands.MsgSaveFailed, err)
	}
	return nil
}

// publish announces a change. A failed publish never fails the mutation.
func (w chartWriter) publish(ctx context.Context, event events.DomainEvent) {
	if w.publisher == nil {
		return
	}
	if err := w.publisher.Publish(ctx, event); err != nil {
		w.logger.Warn("Failed to publish chart event",
			zap.String("eventType", event.GetEventType()),
			zap.String("chartKey", string(w.chartKey)),
			zap.Error(err),
		)
	}
}

func unexpected(cmd interface{}) error {
	return errors.NewInternalError(fmt.Sprintf("unexpected command %T", cmd))
}
