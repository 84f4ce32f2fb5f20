package common

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPageParams(t *testing.T) {
	tests := []struct {
		query string
		want  PageParams
	}{
		{query: "", want: PageParams{Page: 1, PageSize: DefaultPageSize}},
		{query: "?page=3&page_size=5", want: PageParams{Page: 3, PageSize: 5}},
		{query: "?page=-1&page_size=abc", want: PageParams{Page: 1, PageSize: DefaultPageSize}},
		{query: "?page_size=1000", want: PageParams{Page: 1, PageSize: MaxPageSize}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v2/assets"+tt.query, nil)
			assert.Equal(t, tt.want, ExtractPageParams(r))
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, info := Paginate(items, PageParams{Page: 2, PageSize: 2})
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, PageInfo{Page: 2, PageSize: 2, Total: 5, TotalPages: 3, HasNext: true, HasPrev: true}, info)

	page, info = Paginate(items, PageParams{Page: 3, PageSize: 2})
	assert.Equal(t, []int{5}, page)
	assert.False(t, info.HasNext)

	page, _ = Paginate(items, PageParams{Page: 9, PageSize: 2})
	assert.Empty(t, page)
	assert.NotNil(t, page)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(10, 0))
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
}
