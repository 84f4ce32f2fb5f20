package queries

import (
	"orgchart-backend/domain/assets"
	"orgchart-backend/pkg/common"
	"orgchart-backend/pkg/errors"
)

// GetChartQuery reads the chart as the page hydrates it
type GetChartQuery struct{}

// Validate implements bus.Query
func (q GetChartQuery) Validate() error { return nil }

// ListAssetsQuery lists uploaded avatars, newest first
type ListAssetsQuery struct {
	Page common.PageParams
}

// Validate implements bus.Query
func (q ListAssetsQuery) Validate() error {
	if q.Page.Page < 1 || q.Page.PageSize < 1 || q.Page.PageSize > common.MaxPageSize {
		return errors.NewValidationError("invalid page parameters")
	}
	return nil
}

// GetAssetQuery reads one uploaded avatar's metadata
type GetAssetQuery struct {
	ID string
}

// Validate implements bus.Query
func (q GetAssetQuery) Validate() error {
	if q.ID == "" {
		return errors.NewValidationError("asset id is required")
	}
	return nil
}

// AssetPage is the result of ListAssetsQuery
type AssetPage struct {
	Items      []assets.Asset  `json:"items"`
	Pagination common.PageInfo `json:"pagination"`
}
