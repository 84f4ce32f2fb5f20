package handlers

import (
	"html/template"
	"net/http"

	"orgchart-backend/application/queries"
	querybus "orgchart-backend/application/queries/bus"
	"orgchart-backend/domain/chart"
	"orgchart-backend/pkg/errors"

	"go.uber.org/zap"
)

// BootstrapElementID is the id of the script element holding the bootstrap blob
const BootstrapElementID = "orgchart-bootstrap"

// Bootstrap is embedded in the chart page. It is the only read path for the
// chart; the client never fetches it again.
type Bootstrap struct {
	MutationURL string           `json:"mutationUrl"`
	UploadURL   string           `json:"uploadUrl"`
	AuthToken   string           `json:"authToken"`
	InitialData chart.Collection `json:"initialData"`
}

// TokenIssuer issues editor tokens
type TokenIssuer interface {
	GenerateToken(chartKey string) (string, error)
}

var pageTemplate = template.Must(template.New("chart").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://balkan.app/js/OrgChart.js"></script>
</head>
<body>
<div id="tree"></div>
<script id="` + BootstrapElementID + `" type="application/json">{{.Bootstrap}}</script>
</body>
</html>
`))

// PageHandler renders the chart page with the current chart and a fresh token
type PageHandler struct {
	queryBus    *querybus.QueryBus
	tokens      TokenIssuer
	chartKey    string
	mutationURL string
	uploadURL   string
	errHandler  *errors.ErrorHandler
	logger      *zap.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(
	queryBus *querybus.QueryBus,
	tokens TokenIssuer,
	chartKey, mutationURL, uploadURL string,
	errHandler *errors.ErrorHandler,
	logger *zap.Logger,
) *PageHandler {
	return &PageHandler{
		queryBus:    queryBus,
		tokens:      tokens,
		chartKey:    chartKey,
		mutationURL: mutationURL,
		uploadURL:   uploadURL,
		errHandler:  errHandler,
		logger:      logger,
	}
}

// Render handles GET /chart
func (h *PageHandler) Render(w http.ResponseWriter, r *http.Request) {
	token, err := h.tokens.GenerateToken(h.chartKey)
	if err != nil {
		h.errHandler.Handle(w, r, errors.NewInternalError("failed to issue editor token").WithCause(err))
		return
	}

	res, err := h.queryBus.Ask(r.Context(), queries.GetChartQuery{})
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}
	initial, _ := res.(chart.Collection)

	data := struct {
		Title     string
		Bootstrap Bootstrap
	}{
		Title: "Org Chart",
		Bootstrap: Bootstrap{
			MutationURL: h.mutationURL,
			UploadURL:   h.uploadURL,
			AuthToken:   token,
			InitialData: initial,
		},
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTemplate.Execute(w, data); err != nil {
		h.logger.Error("Failed to render chart page", zap.Error(err))
	}
}
