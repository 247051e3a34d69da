package chi

import (
	"github.com/kailas-cloud/osvector/internal/component"
)

// ErrorCode is the machine-readable error code in an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest             ErrorCode = "bad_request"
	ErrorCodeRequestTooLarge        ErrorCode = "request_too_large"
	ErrorCodeUnauthorized           ErrorCode = "unauthorized"
	ErrorCodeValidationFailed       ErrorCode = "validation_failed"
	ErrorCodeUnknownEmbedding       ErrorCode = "unknown_embedding"
	ErrorCodeBuildFailed            ErrorCode = "build_failed"
	ErrorCodeEmbeddingProviderError ErrorCode = "embedding_provider_error"
	ErrorCodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ComponentsResponse is the body of GET /components.
type ComponentsResponse struct {
	Items []component.Descriptor `json:"items"`
}

// InputsResponse is the body of GET /components/opensearch/inputs.
type InputsResponse struct {
	Component component.Descriptor `json:"component"`
	Inputs    []component.Input    `json:"inputs"`
}

// LegacyConfigResponse is the body of GET /components/opensearch-legacy/config.
type LegacyConfigResponse struct {
	Component   component.Descriptor             `json:"component"`
	BuildConfig map[string]component.FieldConfig `json:"build_config"`
}
