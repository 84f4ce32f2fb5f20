package di

import (
	"context"
	"fmt"
	"time"

	"orgchart-backend/application/commands/bus"
	"orgchart-backend/application/commands/handlers"
	"orgchart-backend/application/ports"
	querybus "orgchart-backend/application/queries/bus"
	queryhandlers "orgchart-backend/application/queries/handlers"
	"orgchart-backend/application/services"
	"orgchart-backend/infrastructure/config"
	"orgchart-backend/infrastructure/media"
	"orgchart-backend/infrastructure/messaging/eventbridge"
	"orgchart-backend/infrastructure/messaging/local"
	"orgchart-backend/infrastructure/persistence/dynamodb"
	"orgchart-backend/infrastructure/persistence/memory"
	"orgchart-backend/interfaces/http/rest"
	"orgchart-backend/pkg/auth"
	"orgchart-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// recentEventLimit bounds the local publisher's history
const recentEventLimit = 100

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zapCfg.Level = level

	return zapCfg.Build()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideChartStore selects the chart document store
func ProvideChartStore(cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) ports.ChartStore {
	if cfg.StoreBackend == config.StoreDynamoDB {
		return dynamodb.NewChartStore(client, cfg.DynamoDBTable, cfg.ChartKey, logger)
	}
	return memory.NewChartStore(logger)
}

// ProvideAssetRegistry selects where upload metadata is recorded
func ProvideAssetRegistry(cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) ports.AssetRegistry {
	if cfg.StoreBackend == config.StoreDynamoDB {
		return dynamodb.NewAssetRegistry(client, cfg.DynamoDBTable, logger)
	}
	return memory.NewAssetRegistry()
}

// ProvideEventPublisher publishes to EventBridge when events are enabled and
// keeps a local history otherwise
func ProvideEventPublisher(cfg *config.Config, client *awseventbridge.Client, logger *zap.Logger) ports.EventPublisher {
	if cfg.EnableEvents {
		return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
	}
	return local.NewPublisher(recentEventLimit, logger)
}

// ProvideMetrics creates metrics instance
func ProvideMetrics(cfg *config.Config, client *awscloudwatch.Client, logger *zap.Logger) *observability.Metrics {
	namespace := fmt.Sprintf("OrgChart/%s", cfg.Environment)
	if !cfg.EnableMetrics {
		return observability.NewMetrics(namespace, nil, logger)
	}
	return observability.NewMetrics(namespace, client, logger)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	name := cfg.LambdaFunctionName
	if name == "" {
		name = "orgchart-backend"
	}
	return observability.NewTracer(name, cfg.EnableTracing)
}

// ProvideMediaSink creates the avatar upload sink
func ProvideMediaSink(cfg *config.Config, logger *zap.Logger) (ports.MediaSink, error) {
	return media.NewFilesystemSink(cfg.MediaDir, cfg.MediaBaseURL, cfg.MaxUploadBytes, logger)
}

// ProvideCommandBus creates a command bus with the chart handlers registered
func ProvideCommandBus(
	cfg *config.Config,
	store ports.ChartStore,
	publisher ports.EventPublisher,
	tracer *observability.Tracer,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(logger),
		bus.TracingMiddleware(tracer),
		bus.MetricsMiddleware(metrics),
	)

	if err := handlers.RegisterChartHandlers(commandBus, store, publisher, handlers.ChartKey(cfg.ChartKey), logger); err != nil {
		return nil, fmt.Errorf("failed to register chart handlers: %w", err)
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with the chart and asset queries registered
func ProvideQueryBus(store ports.ChartStore, registry ports.AssetRegistry, logger *zap.Logger) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(logger)
	if err := queryhandlers.RegisterQueryHandlers(queryBus, store, registry, logger); err != nil {
		return nil, fmt.Errorf("failed to register query handlers: %w", err)
	}
	return queryBus, nil
}

// ProvideMutationProcessor creates the mutation processor
func ProvideMutationProcessor(commandBus *bus.CommandBus, logger *zap.Logger) *services.MutationProcessor {
	return services.NewMutationProcessor(commandBus, logger)
}

// ProvideUploadService creates the upload service
func ProvideUploadService(
	sink ports.MediaSink,
	registry ports.AssetRegistry,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *services.UploadService {
	return services.NewUploadService(sink, registry, publisher, metrics, logger)
}

// ProvideJWTConfig derives token settings from the configuration
func ProvideJWTConfig(cfg *config.Config) auth.JWTConfig {
	return auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		Audience:  auth.EditorAudience,
		TTL:       time.Duration(cfg.TokenTTLHours) * time.Hour,
	}
}

// ProvideJWTValidator creates the editor token validator
func ProvideJWTValidator(jwtCfg auth.JWTConfig) (*auth.JWTValidator, error) {
	return auth.NewJWTValidator(jwtCfg)
}

// ProvideJWTGenerator creates the editor token generator
func ProvideJWTGenerator(jwtCfg auth.JWTConfig) (*auth.JWTGenerator, error) {
	return auth.NewJWTGenerator(jwtCfg)
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	cfg *config.Config,
	processor *services.MutationProcessor,
	uploads *services.UploadService,
	queryBus *querybus.QueryBus,
	tokens *auth.JWTGenerator,
	validator *auth.JWTValidator,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(cfg, processor, uploads, queryBus, tokens, validator, tracer, logger)
}
