package v1

import (
	"net/http"

	"orgchart-backend/application/services"
	"orgchart-backend/domain/chart"
	"orgchart-backend/interfaces/http/rest/handlers"
	"orgchart-backend/interfaces/http/rest/middleware"
	"orgchart-backend/pkg/auth"
	"orgchart-backend/pkg/errors"
	"orgchart-backend/pkg/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Legacy AJAX endpoint and the actions it dispatches on
const (
	AjaxPath     = "/wp-admin/admin-ajax.php"
	ActionUpdate = "orgchart_update"
	ActionUpload = "upload_image_to_media"
	NonceField   = "nonce"
)

// legacyMutationForm mirrors the fields posted by the original widget glue
type legacyMutationForm struct {
	ActionType string `validate:"max=32"`
	Data       string `validate:"max=262144"`
	NodeID     string `validate:"max=256"`
}

// LegacyMutationResponse is the original mutation reply shape
type LegacyMutationResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	NewData *chart.Collection `json:"new_data,omitempty"`
}

// LegacyUploadResponse is the original upload reply shape
type LegacyUploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewRouter creates the legacy admin-ajax router. Requests are routed on the
// action form field; the editor token travels in the nonce field.
func NewRouter(
	processor *services.MutationProcessor,
	uploadHandler *handlers.UploadHandler,
	validator *auth.JWTValidator,
	chartKey string,
	errHandler *errors.ErrorHandler,
	logger *zap.Logger,
) *mux.Router {
	router := mux.NewRouter()
	ajax := router.Path(AjaxPath).Methods(http.MethodPost).Subrouter()

	ajax.Use(middleware.Authenticate(validator, chartKey, NonceField, errHandler, logger))
	ajax.Use(versionHeaders)

	ajax.MatcherFunc(actionIs(ActionUpdate)).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		form := legacyMutationForm{
			ActionType: r.FormValue("action_type"),
			Data:       r.FormValue("data"),
			NodeID:     r.FormValue("node_id"),
		}
		if err := utils.ValidateStruct(form); err != nil {
			errHandler.Handle(w, r, err)
			return
		}

		outcome := processor.Apply(r.Context(), services.Mutation{
			Operation: form.ActionType,
			Payload:   []byte(form.Data),
			NodeID:    form.NodeID,
		})

		resp := LegacyMutationResponse{Success: outcome.Success, Message: outcome.Message}
		if outcome.Success {
			c := outcome.UpdatedCollection
			resp.NewData = &c
		}
		respondJSON(w, logger, resp)
	})

	ajax.MatcherFunc(actionIs(ActionUpload)).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receipt, err := uploadHandler.Receive(r, "file")
		if err != nil {
			respondJSON(w, logger, LegacyUploadResponse{Success: false, Error: errors.MessageOf(err)})
			return
		}
		respondJSON(w, logger, LegacyUploadResponse{Success: true, URL: receipt.ReferenceURL, ID: receipt.AssetID})
	})

	// Unknown actions get the same bare "0" reply WordPress gives
	router.Path(AjaxPath).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("0"))
	})

	return router
}

// actionIs matches requests whose action form field equals action
func actionIs(action string) mux.MatcherFunc {
	return func(r *http.Request, _ *mux.RouteMatch) bool {
		if err := middleware.ParseForm(r); err != nil {
			return false
		}
		return r.FormValue("action") == action
	}
}

// versionHeaders adds API version headers to responses
func versionHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-API-Version", "legacy")
		w.Header().Set("X-API-Deprecated", "true")
		next.ServeHTTP(w, r)
	})
}
