package rest

import (
	"net/http"
	"strings"

	"orgchart-backend/application/queries"
	querybus "orgchart-backend/application/queries/bus"
	"orgchart-backend/application/services"
	"orgchart-backend/infrastructure/config"
	"orgchart-backend/interfaces/http/rest/handlers"
	"orgchart-backend/interfaces/http/rest/middleware"
	v1 "orgchart-backend/interfaces/http/rest/v1"
	"orgchart-backend/pkg/auth"
	"orgchart-backend/pkg/errors"
	"orgchart-backend/pkg/observability"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Public paths of the current API
const (
	MutationPath = "/api/v2/chart/mutations"
	UploadPath   = "/api/v2/assets"
	ChartPage    = "/chart"
	MediaPrefix  = "/media/"
)

// formSlack is allowed on top of the upload limit for the other form fields
const formSlack = 1 << 20

// Router creates and configures the HTTP router
type Router struct {
	cfg        *config.Config
	processor  *services.MutationProcessor
	uploads    *services.UploadService
	queryBus   *querybus.QueryBus
	tokens     *auth.JWTGenerator
	validator  *auth.JWTValidator
	tracer     *observability.Tracer
	errHandler *errors.ErrorHandler
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	processor *services.MutationProcessor,
	uploads *services.UploadService,
	queryBus *querybus.QueryBus,
	tokens *auth.JWTGenerator,
	validator *auth.JWTValidator,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:        cfg,
		processor:  processor,
		uploads:    uploads,
		queryBus:   queryBus,
		tokens:     tokens,
		validator:  validator,
		tracer:     tracer,
		errHandler: errors.NewErrorHandler(logger, cfg.IsDevelopment()),
		logger:     logger,
	}
}

// Setup configures all routes and middleware, wrapped in an X-Ray segment
// when tracing is enabled
func (rt *Router) Setup() http.Handler {
	router := rt.Routes()
	if rt.tracer.Enabled() {
		return xray.Handler(xray.NewFixedSegmentNamer(rt.tracer.SegmentName()), router)
	}
	return router
}

// Routes builds the chi mux without the tracing wrapper. Lambda uses it
// directly since the function runtime owns the root segment.
func (rt *Router) Routes() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	if rt.cfg.TrustProxyHeaders {
		router.Use(chimiddleware.RealIP)
	}
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(versionMiddleware)

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	pageHandler := handlers.NewPageHandler(rt.queryBus, rt.tokens, rt.cfg.ChartKey, MutationPath, UploadPath, rt.errHandler, rt.logger)
	router.Get(ChartPage, pageHandler.Render)

	mediaDir := http.Dir(rt.cfg.MediaDir)
	router.Handle(MediaPrefix+"*", http.StripPrefix(MediaPrefix, http.FileServer(mediaDir)))

	mutationHandler := handlers.NewMutationHandler(rt.processor, rt.errHandler, rt.logger)
	uploadHandler := handlers.NewUploadHandler(rt.uploads, rt.logger)
	assetsHandler := handlers.NewAssetsHandler(rt.queryBus, rt.errHandler, rt.logger)
	limiter := auth.NewIPRateLimiter(rt.cfg.RateLimitPerMinute)
	authenticate := middleware.Authenticate(rt.validator, rt.cfg.ChartKey, middleware.TokenField, rt.errHandler, rt.logger)

	// Editor routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter, rt.errHandler))
		r.Use(middleware.BodyLimit(rt.cfg.MaxUploadBytes + formSlack))

		r.With(authenticate).Post(MutationPath, mutationHandler.Apply)
		r.With(authenticate).Post(UploadPath, uploadHandler.Upload)
		r.With(authenticate).Get(UploadPath, assetsHandler.List)
		r.With(authenticate).Get(UploadPath+"/{assetID}", assetsHandler.Get)

		r.Handle(v1.AjaxPath, v1.NewRouter(rt.processor, uploadHandler, rt.validator, rt.cfg.ChartKey, rt.errHandler, rt.logger))
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports ready once the chart can be read
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	if _, err := rt.queryBus.Ask(req.Context(), queries.GetChartQuery{}); err != nil {
		rt.errHandler.Handle(w, req, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// versionMiddleware adds API version headers to all responses
func versionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/v2") {
			w.Header().Set("X-API-Version", "v2")
		}
		w.Header().Set("X-API-Latest", "v2")
		next.ServeHTTP(w, r)
	})
}
