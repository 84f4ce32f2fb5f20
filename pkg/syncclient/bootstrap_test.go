package syncclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"orgchart-backend/domain/chart"
	"orgchart-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<!DOCTYPE html>
<html><head><script src="https://balkan.app/js/OrgChart.js"></script></head>
<body><div id="tree"></div>
<script id="orgchart-bootstrap" type="application/json"> {"mutationUrl":"/api/v2/chart/mutations","uploadUrl":"/api/v2/assets","authToken":"tok","initialData":[{"id":1,"pid":"","name":"Jack Hill"},{"id":2,"pid":1,"name":"Ann <Smith>"}]} </script>
</body></html>`

func TestExtractBootstrap(t *testing.T) {
	b, err := ExtractBootstrap([]byte(testPage))
	require.NoError(t, err)

	assert.Equal(t, "/api/v2/chart/mutations", b.MutationURL)
	assert.Equal(t, "/api/v2/assets", b.UploadURL)
	assert.Equal(t, "tok", b.AuthToken)
	require.Len(t, b.InitialData, 2)
	assert.Equal(t, "Ann <Smith>", b.InitialData[1].Field("name"))
}

func TestExtractBootstrap_Errors(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{name: "missing element", page: `<html><body><script>var x = 1;</script></body></html>`},
		{name: "empty element", page: `<script id="orgchart-bootstrap" type="application/json"></script>`},
		{name: "bad json", page: `<script id="orgchart-bootstrap" type="application/json">{nope</script>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractBootstrap([]byte(tt.page))
			assert.Error(t, err)
		})
	}
}

func TestFetchBootstrap_ResolvesEndpoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(testPage))
	}))
	defer srv.Close()

	b, err := FetchBootstrap(context.Background(), srv.Client(), srv.URL+"/chart")
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/api/v2/chart/mutations", b.MutationURL)
	assert.Equal(t, srv.URL+"/api/v2/assets", b.UploadURL)
}

func TestFetchBootstrap_BadStatusIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := FetchBootstrap(context.Background(), srv.Client(), srv.URL+"/chart")
	assert.True(t, errors.IsTransport(err))
}

func TestHydrate(t *testing.T) {
	shown := Hydrate(nil)
	require.Len(t, shown, 1)
	assert.Equal(t, "1", shown[0].ID())
	assert.Equal(t, "Click to Edit", shown[0].Field(chart.FieldTitle))

	seed := chart.Seed()
	assert.Equal(t, seed, Hydrate(seed))
}
