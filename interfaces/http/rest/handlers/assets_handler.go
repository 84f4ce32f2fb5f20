package handlers

import (
	"net/http"

	"orgchart-backend/application/queries"
	querybus "orgchart-backend/application/queries/bus"
	"orgchart-backend/pkg/common"
	"orgchart-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AssetsHandler serves uploaded avatar metadata
type AssetsHandler struct {
	queryBus   *querybus.QueryBus
	errHandler *errors.ErrorHandler
	logger     *zap.Logger
}

// NewAssetsHandler creates a new assets handler
func NewAssetsHandler(queryBus *querybus.QueryBus, errHandler *errors.ErrorHandler, logger *zap.Logger) *AssetsHandler {
	return &AssetsHandler{queryBus: queryBus, errHandler: errHandler, logger: logger}
}

// List handles GET /api/v2/assets
func (h *AssetsHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.queryBus.Ask(r.Context(), queries.ListAssetsQuery{Page: common.ExtractPageParams(r)})
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, res)
}

// Get handles GET /api/v2/assets/{assetID}
func (h *AssetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.queryBus.Ask(r.Context(), queries.GetAssetQuery{ID: chi.URLParam(r, "assetID")})
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, res)
}
