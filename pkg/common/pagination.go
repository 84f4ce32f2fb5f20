package common

import (
	"net/http"
	"strconv"
)

// Page size bounds for listings
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageParams selects one page of a listing
type PageParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// DefaultPageParams returns the first page with the default size
func DefaultPageParams() PageParams {
	return PageParams{Page: 1, PageSize: DefaultPageSize}
}

// ExtractPageParams reads page and page_size from the query string. Invalid
// values fall back to the defaults; oversized pages are clamped.
func ExtractPageParams(r *http.Request) PageParams {
	params := DefaultPageParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}

	if pageSize := r.URL.Query().Get("page_size"); pageSize != "" {
		if ps, err := strconv.Atoi(pageSize); err == nil && ps > 0 {
			params.PageSize = min(ps, MaxPageSize)
		}
	}

	return params
}

// Offset is the index of the first item on the page
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageInfo describes where a page sits in the full listing
type PageInfo struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// TotalPages calculates total number of pages
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// NewPageInfo builds pagination metadata
func NewPageInfo(p PageParams, total int) PageInfo {
	pages := TotalPages(total, p.PageSize)
	return PageInfo{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: pages,
		HasNext:    p.Page < pages,
		HasPrev:    p.Page > 1,
	}
}

// Paginate returns the items on page p. A page past the end is empty.
func Paginate[T any](items []T, p PageParams) ([]T, PageInfo) {
	info := NewPageInfo(p, len(items))

	start := p.Offset()
	if start >= len(items) || start < 0 {
		return []T{}, info
	}
	end := min(start+p.PageSize, len(items))
	return items[start:end], info
}
