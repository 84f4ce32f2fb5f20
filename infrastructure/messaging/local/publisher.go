package local

import (
	"context"
	"sync"

	"orgchart-backend/domain/events"

	"go.uber.org/zap"
)

// Publisher logs events and keeps the most recent ones in memory. It stands
// in for EventBridge when ENABLE_EVENTS is off.
type Publisher struct {
	mu     sync.Mutex
	recent []events.DomainEvent
	limit  int
	logger *zap.Logger
}

// NewPublisher creates a publisher remembering up to limit events
func NewPublisher(limit int, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{limit: limit, logger: logger}
}

// Publish records one event
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch records every event in order
func (p *Publisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range evts {
		p.logger.Debug("Domain event",
			zap.String("eventType", e.GetEventType()),
			zap.String("aggregateID", e.GetAggregateID()),
		)
		p.recent = append(p.recent, e)
	}
	if p.limit > 0 && len(p.recent) > p.limit {
		p.recent = append([]events.DomainEvent(nil), p.recent[len(p.recent)-p.limit:]...)
	}
	return nil
}

// Recent returns a copy of the remembered events, oldest first
func (p *Publisher) Recent() []events.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.DomainEvent(nil), p.recent...)
}
