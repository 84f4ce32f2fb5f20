package di

import (
	"context"

	"orgchart-backend/application/commands/bus"
	"orgchart-backend/application/ports"
	querybus "orgchart-backend/application/queries/bus"
	"orgchart-backend/application/services"
	"orgchart-backend/infrastructure/config"
	"orgchart-backend/interfaces/http/rest"
	"orgchart-backend/pkg/auth"
	"orgchart-backend/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	ChartStore     ports.ChartStore
	AssetRegistry  ports.AssetRegistry
	EventPublisher ports.EventPublisher
	MediaSink      ports.MediaSink
	CommandBus     *bus.CommandBus
	QueryBus       *querybus.QueryBus
	Processor      *services.MutationProcessor
	Uploads        *services.UploadService
	Metrics        *observability.Metrics
	Tracer         *observability.Tracer
	TokenGenerator *auth.JWTGenerator
	TokenValidator *auth.JWTValidator
	Router         *rest.Router
}

// Start prepares the chart document. With seeding enabled an absent document
// is created with the default chart; an existing one is left alone.
func (c *Container) Start(ctx context.Context) error {
	if !c.Config.SeedOnInit {
		return nil
	}
	return c.Seed(ctx)
}

// Seed writes the default chart unless a document already exists
func (c *Container) Seed(ctx context.Context) error {
	return c.ChartStore.Initialize(ctx)
}

// Reset deletes the chart document. The next read is empty and a later
// Seed or Start writes the default chart again.
func (c *Container) Reset(ctx context.Context) error {
	if err := c.ChartStore.Reset(ctx); err != nil {
		return err
	}
	c.Logger.Info("Chart document deleted", zap.String("chart", c.Config.ChartKey))
	return nil
}

// Close flushes the logger
func (c *Container) Close() {
	_ = c.Logger.Sync()
}
