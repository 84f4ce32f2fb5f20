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

// UpdateNodeHandler merges edits into existing nodes
type UpdateNodeHandler struct {
	chartWriter
}

// NewUpdateNodeHandler creates a new update node handler
func NewUpdateNodeHandler(
	store ports.ChartStore,
	publisher ports.EventPublisher,
	key ChartKey,
	logger *zap.Logger,
) *UpdateNodeHandler {
	return &UpdateNodeHandler{chartWriter: newChartWriter(store, publisher, key, logger)}
}

// Handle shallow-merges the patch into the first node with a matching id.
// Fields absent from the patch keep their stored values.
func (h *UpdateNodeHandler) Handle(ctx context.Context, cmd bus.Command) (chart.Collection, error) {
	update, ok := cmd.(commands.UpdateNodeCommand)
	if !ok {
		return nil, unexpected(cmd)
	}

	current, err := h.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := current.IndexOf(update.Patch.ID())
	if idx < 0 {
		return nil, errors.NewNotFoundError(commands.MsgNodeNotFoundUpdate)
	}

	next := current.Replace(idx, current[idx].Merge(update.Patch))
	if err := h.save(ctx, next); err != nil {
		return nil, err
	}

	h.publish(ctx, events.NewNodeUpdated(string(h.chartKey), update.Patch.ID(), update.Patch.Keys(), h.now()))
	return next, nil
}
