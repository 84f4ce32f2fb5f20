package memory

import (
	"context"
	"sort"
	"sync"

	"orgchart-backend/domain/assets"
	"orgchart-backend/pkg/errors"
)

// AssetRegistry keeps asset references in memory
type AssetRegistry struct {
	mu     sync.RWMutex
	assets map[string]assets.Asset
}

// NewAssetRegistry creates an empty registry
func NewAssetRegistry() *AssetRegistry {
	return &AssetRegistry{assets: make(map[string]assets.Asset)}
}

// Register stores or replaces an asset reference
func (r *AssetRegistry) Register(ctx context.Context, asset assets.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets[asset.ID] = asset
	return nil
}

// Get returns one asset reference
func (r *AssetRegistry) Get(ctx context.Context, id string) (assets.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assets[id]
	if !ok {
		return assets.Asset{}, errors.NewNotFoundError("asset not found")
	}
	return a, nil
}

// List returns every asset, oldest first
func (r *AssetRegistry) List(ctx context.Context) ([]assets.Asset, error) {
	r.mu.RLock()
	out := make([]assets.Asset, 0, len(r.assets))
	for _, a := range r.assets {
		out = append(out, a)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
