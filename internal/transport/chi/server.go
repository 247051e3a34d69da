package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/osvector/internal/component"
	"github.com/kailas-cloud/osvector/internal/component/opensearch"
	"github.com/kailas-cloud/osvector/internal/domain"
	healthuc "github.com/kailas-cloud/osvector/internal/usecase/health"
	"github.com/kailas-cloud/osvector/internal/usecase/invoke"
)

// DefaultMaxBodyBytes limits request bodies when no limit is configured.
const DefaultMaxBodyBytes = 32 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the vector store node over HTTP.
type Server struct {
	invoke        *invoke.Service
	health        *healthuc.Service
	legacy        *opensearch.LegacyComponent
	maxBodyBytes  int64
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. maxBodyBytes <= 0 selects DefaultMaxBodyBytes.
func NewServer(
	invoker *invoke.Service,
	health *healthuc.Service,
	legacy *opensearch.LegacyComponent,
	maxBodyBytes int64,
	logger *zap.Logger,
) *Server {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{
		invoke:       invoker,
		health:       health,
		legacy:       legacy,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
	// Order matters: a build failure may wrap a provider error.
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidConfig, http.StatusBadRequest, ErrorCodeValidationFailed, true),
		sentinelHandler(domain.ErrUnknownEmbedding, http.StatusBadRequest, ErrorCodeUnknownEmbedding, true),
		sentinelHandler(domain.ErrBuildFailed, http.StatusBadGateway, ErrorCodeBuildFailed, true),
		sentinelHandler(domain.ErrEmbeddingProviderError,
			http.StatusBadGateway, ErrorCodeEmbeddingProviderError, false),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/components", func(r chi.Router) {
		r.Get("/", s.ListComponents)
		r.Get("/opensearch/inputs", s.GetInputs)
		r.Post("/opensearch/build", s.Build)
		r.Post("/opensearch/search", s.Search)
		r.Get("/opensearch-legacy/config", s.GetLegacyConfig)
		r.Post("/opensearch-legacy/build", s.LegacyBuild)
	})
}

// ListComponents handles GET /components.
func (s *Server) ListComponents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ComponentsResponse{
		Items: []component.Descriptor{opensearch.Descriptor, opensearch.LegacyDescriptor},
	})
}

// GetInputs handles GET /components/opensearch/inputs.
func (s *Server) GetInputs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, InputsResponse{
		Component: opensearch.Descriptor,
		Inputs:    opensearch.Inputs(),
	})
}

// GetLegacyConfig handles GET /components/opensearch-legacy/config.
func (s *Server) GetLegacyConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, LegacyConfigResponse{
		Component:   opensearch.LegacyDescriptor,
		BuildConfig: s.legacy.BuildConfig(),
	})
}

// Build handles POST /components/opensearch/build.
func (s *Server) Build(w http.ResponseWriter, r *http.Request) {
	var req invoke.Request
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.invoke.Build(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Search handles POST /components/opensearch/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req invoke.Request
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.invoke.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// LegacyBuild handles POST /components/opensearch-legacy/build.
func (s *Server) LegacyBuild(w http.ResponseWriter, r *http.Request) {
	var req invoke.LegacyRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.invoke.LegacyBuild(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, ErrorCodeRequestTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return false
	}
	writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns the sentinel message so provider internals are not exposed.
func safeDomainMessage(err error, sentinel error) string {
	if errors.Is(err, sentinel) {
		return sentinel.Error()
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// With verbose set the full error chain is returned to the client.
func sentinelHandler(sentinel error, status int, code ErrorCode, verbose bool) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := safeDomainMessage(err, sentinel)
		if verbose {
			msg = err.Error()
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
