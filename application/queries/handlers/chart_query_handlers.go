package handlers

import (
	"context"
	"sort"

	"orgchart-backend/application/ports"
	"orgchart-backend/application/queries"
	"orgchart-backend/application/queries/bus"
	"orgchart-backend/pkg/common"
	"orgchart-backend/pkg/errors"

	"go.uber.org/zap"
)

// GetChartHandler reads the stored chart
type GetChartHandler struct {
	store ports.ChartStore
}

// NewGetChartHandler creates a new handler
func NewGetChartHandler(store ports.ChartStore) *GetChartHandler {
	return &GetChartHandler{store: store}
}

// Handle returns the stored chart.Collection
func (h *GetChartHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	return h.store.Read(ctx), nil
}

// ListAssetsHandler pages through the asset registry
type ListAssetsHandler struct {
	registry ports.AssetRegistry
	logger   *zap.Logger
}

// NewListAssetsHandler creates a new handler
func NewListAssetsHandler(registry ports.AssetRegistry, logger *zap.Logger) *ListAssetsHandler {
	return &ListAssetsHandler{registry: registry, logger: logger}
}

// Handle returns a queries.AssetPage
func (h *ListAssetsHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.ListAssetsQuery)
	if !ok {
		return nil, errors.NewInternalError("unexpected query type")
	}

	all, err := h.registry.List(ctx)
	if err != nil {
		h.logger.Error("Failed to list assets", zap.Error(err))
		return nil, errors.NewPersistenceError("failed to list assets", err)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	items, info := common.Paginate(all, query.Page)
	return queries.AssetPage{Items: items, Pagination: info}, nil
}

// GetAssetHandler reads one asset reference
type GetAssetHandler struct {
	registry ports.AssetRegistry
}

// NewGetAssetHandler creates a new handler
func NewGetAssetHandler(registry ports.AssetRegistry) *GetAssetHandler {
	return &GetAssetHandler{registry: registry}
}

// Handle returns an assets.Asset
func (h *GetAssetHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.GetAssetQuery)
	if !ok {
		return nil, errors.NewInternalError("unexpected query type")
	}
	return h.registry.Get(ctx, query.ID)
}

// RegisterQueryHandlers wires the chart and asset queries into b
func RegisterQueryHandlers(b *bus.QueryBus, store ports.ChartStore, registry ports.AssetRegistry, logger *zap.Logger) error {
	if err := b.Register(queries.GetChartQuery{}, NewGetChartHandler(store)); err != nil {
		return err
	}
	if err := b.Register(queries.ListAssetsQuery{}, NewListAssetsHandler(registry, logger)); err != nil {
		return err
	}
	return b.Register(queries.GetAssetQuery{}, NewGetAssetHandler(registry))
}
