package remote

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/pokkur/layr/docs/swagger" // swagger docs

	"github.com/pokkur/layr/adapters/hasher"
	"github.com/pokkur/layr/adapters/metrics"
	"github.com/pokkur/layr/core/component"
	"github.com/pokkur/layr/ports"
)

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse reports the server build and protocol versions.
type VersionResponse struct {
	Service  string `json:"service" example:"layrd"`
	Version  string `json:"version" example:"1.0.0"`
	Protocol int    `json:"protocol" example:"1"`
}

// Handler answers wire queries over HTTP.
type Handler struct {
	service *Service
	logger  zerolog.Logger
}

// NewHandler creates a query handler for the service.
func NewHandler(service *Service, logger zerolog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// ServeHTTP decodes one request envelope and executes it.
//
//	@Summary		Execute a query
//	@Description	Runs one wire query against the served registry
//	@Tags			Query
//	@Accept			json
//	@Produce		json
//	@Param			request	body		remote.Request			true	"Query envelope"
//	@Success		200		{object}	remote.Result			"Query result"
//	@Failure		400		{object}	remote.ErrorResponse	"Malformed envelope, unknown query or version mismatch"
//	@Failure		401		{object}	remote.ErrorResponse	"Invalid or missing bearer token"
//	@Security		BearerAuth
//	@Router			/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request envelope")
		return
	}

	result, err := h.service.Execute(req)
	if err != nil {
		status, code := statusFor(err)
		if status >= 500 {
			h.logger.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("query failed")
		}
		writeError(w, status, code, err.Error())
		return
	}

	writeResult(w, result)
}

// statusFor maps a query error to its HTTP status and wire code.
func statusFor(err error) (int, string) {
	var mismatch *component.VersionMismatchError
	if errors.As(err, &mismatch) {
		return http.StatusBadRequest, "version_mismatch"
	}
	var unknown *UnknownQueryError
	if errors.As(err, &unknown) {
		return http.StatusBadRequest, "bad_request"
	}
	return http.StatusInternalServerError, "internal"
}

// writeError writes the error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// writeResult writes the success envelope.
func writeResult(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Result{Result: result})
}

// Health returns a simple liveness check.
//
//	@Summary		Liveness check
//	@Description	Returns OK if the service is running
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	remote.HealthResponse	"status: ok"
//	@Router			/healthz [get]
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// NewVersionHandler reports the build version and protocol version.
//
//	@Summary		Get service version
//	@Description	Returns the build version and the wire protocol version
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	remote.VersionResponse	"Version information"
//	@Router			/version [get]
func NewVersionHandler(version string) http.HandlerFunc {
	if version == "" {
		version = "dev"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(VersionResponse{
			Service:  "layrd",
			Version:  version,
			Protocol: ProtocolVersion,
		})
	}
}

// RouterConfig enables the router's optional surfaces.
type RouterConfig struct {
	// Metrics enables query metrics and the /metrics endpoint.
	Metrics *metrics.Collector

	// EnableSwagger mounts the swagger UI at /swagger/.
	EnableSwagger bool

	// TokenHash is the bcrypt hash queries must authenticate against.
	// Empty disables authentication.
	TokenHash []byte

	// Hasher compares presented tokens against TokenHash. Nil falls
	// back to bcrypt at the default cost.
	Hasher ports.Hasher

	// Version is reported by the /version endpoint.
	Version string
}

// NewRouter creates the server router.
func NewRouter(handler *Handler, logger zerolog.Logger, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	if cfg.Metrics != nil {
		r.Use(NewMetricsMiddleware(cfg.Metrics))
	}

	// Health and version endpoints (no auth required)
	r.Get("/healthz", Health)
	r.Get("/version", NewVersionHandler(cfg.Version))

	if cfg.Metrics != nil {
		r.Handle("/metrics", promhttp.Handler())
	}

	if cfg.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	query := http.Handler(handler)
	if len(cfg.TokenHash) > 0 {
		h := cfg.Hasher
		if h == nil {
			h = hasher.NewBcrypt(0)
		}
		query = NewAuthMiddleware(cfg.TokenHash, h, cfg.Metrics)(query)
	}
	r.Method(http.MethodPost, "/", query)

	return r
}

// NewAuthMiddleware rejects requests whose bearer token does not match
// the configured hash.
func NewAuthMiddleware(hash []byte, h ports.Hasher, m *metrics.Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				if m != nil {
					m.AuthFailures.WithLabelValues("missing_token").Inc()
				}
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}
			if !h.Compare(hash, token) {
				if m != nil {
					m.AuthFailures.WithLabelValues("invalid_token").Inc()
				}
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid bearer token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the bearer token from the request.
func extractToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimPrefix(auth, "Bearer ")
		}
	}
	return ""
}

// NewMetricsMiddleware tracks queries in flight. Durations and counts
// are recorded per query by the service itself.
func NewMetricsMiddleware(m *metrics.Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" {
				next.ServeHTTP(w, r)
				return
			}

			m.QueriesInFlight.Inc()
			defer m.QueriesInFlight.Dec()

			next.ServeHTTP(w, r)
		})
	}
}

// NewLoggingMiddleware creates a new logging middleware.
func NewLoggingMiddleware(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			// Skip logging for health checks and metrics
			if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
				return
			}

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}
