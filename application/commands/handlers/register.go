package handlers

import (
	"orgchart-backend/application/commands"
	"orgchart-backend/application/commands/bus"
	"orgchart-backend/application/ports"

	"go.uber.org/zap"
)

// RegisterChartHandlers wires the add, update and remove handlers into b
func RegisterChartHandlers(
	b *bus.CommandBus,
	store ports.ChartStore,
	publisher ports.EventPublisher,
	key ChartKey,
	logger *zap.Logger,
) error {
	if err := b.Register(commands.AddNodeCommand{}, NewAddNodeHandler(store, publisher, key, logger)); err != nil {
		return err
	}
	if err := b.Register(commands.UpdateNodeCommand{}, NewUpdateNodeHandler(store, publisher, key, logger)); err != nil {
		return err
	}
	return b.Register(commands.RemoveNodeCommand{}, NewRemoveNodeHandler(store, publisher, key, logger))
}
