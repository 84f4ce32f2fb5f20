package handlers

import (
	"context"

	"orgchart-backend/application/commands"
	"orgchart-backend/application/commands/bus"
	"orgchart-backend/application/ports"
	"orgchart-backend/domain/chart"
	"orgchart-backend/domain/events"

	"go.uber.org/zap"
)

// AddNodeHandler appends new nodes to the chart
type AddNodeHandler struct {
	chartWriter
}

// NewAddNodeHandler creates a new add node handler
func NewAddNodeHandler(
	store ports.ChartStore,
	publisher ports.EventPublisher,
	key ChartKey,
	logger *zap.Logger,
) *AddNodeHandler {
	return &AddNodeHandler{chartWriter: newChartWriter(store, publisher, key, logger)}
}

// Handle appends the node verbatim. An existing node with the same id is not
// an error; the chart then holds both.
func (h *AddNodeHandler) Handle(ctx context.Context, cmd bus.Command) (chart.Collection, error) {
	add, ok := cmd.(commands.AddNodeCommand)
	if !ok {
		return nil, unexpected(cmd)
	}

	current, err := h.load(ctx)
	if err != nil {
		return nil, err
	}
	if current.IndexOf(add.Node.ID()) >= 0 {
		h.logger.Debug("Adding node with an id already in the chart", zap.String("nodeID", add.Node.ID()))
	}

	next := current.Append(add.Node)
	if err := h.save(ctx, next); err != nil {
		return nil, err
	}

	h.publish(ctx, events.NewNodeAdded(string(h.chartKey), add.Node.ID(), add.Node.ParentID(), len(next), h.now()))
	return next, nil
}
