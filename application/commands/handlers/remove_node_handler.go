package handlers

import (
	"context"

	"orgchart-backend/application/commands"
	"orgchart-backend/application/commands/bus"
	"orgchart-backend/application/ports"
	"orgchart-backend/domain/chart"
	"orgchart-backend/domain/events"
	"orgchart-backend/pkg/errors"

	"go.uber.org/zap"
)

// RemoveNodeHandler deletes nodes from the chart
type RemoveNodeHandler struct {
	chartWriter
}

// NewRemoveNodeHandler creates a new remove node handler
func NewRemoveNodeHandler(
	store ports.ChartStore,
	publisher ports.EventPublisher,
	key ChartKey,
	logger *zap.Logger,
) *RemoveNodeHandler {
	return &RemoveNodeHandler{chartWriter: newChartWriter(store, publisher, key, logger)}
}

// Handle drops every node with a matching id. Children are left in place
// with a parent id that no longer resolves.
func (h *RemoveNodeHandler) Handle(ctx context.Context, cmd bus.Command) (chart.Collection, error) {
	remove, ok := cmd.(commands.RemoveNodeCommand)
	if !ok {
		return nil, unexpected(cmd)
	}

	current, err := h.load(ctx)
	if err != nil {
		return nil, err
	}
	next := current.Without(remove.NodeID)
	if len(next) == len(current) {
		return nil, errors.NewNotFoundError(commands.MsgNodeNotFoundRemove)
	}

	if err := h.save(ctx, next); err != nil {
		return nil, err
	}

	var orphaned []string
	for _, n := range next {
		if chart.SameID(n.ParentID(), remove.NodeID) {
			orphaned = append(orphaned, n.ID())
		}
	}
	if len(orphaned) > 0 {
		h.logger.Info("Removed node left children without a parent",
			zap.String("nodeID", remove.NodeID),
			zap.Strings("orphaned", orphaned),
		)
	}

	h.publish(ctx, events.NewNodeRemoved(string(h.chartKey), remove.NodeID, len(current)-len(next), orphaned, h.now()))
	return next, nil
}
