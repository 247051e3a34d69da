package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/osvector/internal/component/opensearch"
	"github.com/kailas-cloud/osvector/internal/domain"
	healthuc "github.com/kailas-cloud/osvector/internal/usecase/health"
	"github.com/kailas-cloud/osvector/internal/usecase/invoke"
)

// --- Mocks ---

type mockVectorStore struct {
	index     string
	docs      []domain.Document
	searchErr error
}

func (m *mockVectorStore) IndexName() string { return m.index }

func (m *mockVectorStore) SimilaritySearch(_ context.Context, _ string, k int) ([]domain.Document, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.docs[:min(k, len(m.docs))], nil
}

type mockBuilder struct {
	store *mockVectorStore
	err   error
	docs  []domain.Document
}

func (m *mockBuilder) FromDocuments(
	_ context.Context, _ domain.Embedder, _, index string, docs []domain.Document, _ domain.BasicAuth,
) (domain.VectorStore, error) {
	m.docs = docs
	if m.err != nil {
		return nil, m.err
	}
	m.store.index = index
	return m.store, nil
}

type mockResolver struct{}

func (mockResolver) Get(name string) (domain.Embedder, error) {
	if name != "" && name != "default" {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrUnknownEmbedding)
	}
	return stubEmbedder{}, nil
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: []float32{1}}, nil
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(_ context.Context) error { return m.err }

type mockChecker struct{ err error }

func (m mockChecker) HealthCheck(_ context.Context) error { return m.err }

type testEnv struct {
	builder *mockBuilder
	router  http.Handler
}

func newTestEnv(t *testing.T, health *healthuc.Service, maxBody int64) *testEnv {
	t.Helper()
	mb := &mockBuilder{store: &mockVectorStore{docs: []domain.Document{
		domain.NewDocument("first", map[string]any{"n": 1.0}),
		domain.NewDocument("second", nil),
	}}}
	if health == nil {
		health = healthuc.New(nil, nil, mockChecker{})
	}
	srv := NewServer(invoke.New(mb, mockResolver{}), health, opensearch.NewLegacy(mb), maxBody, zap.NewNop())

	r := chi.NewRouter()
	srv.Register(r)
	return &testEnv{builder: mb, router: r}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

const buildBody = `{
	"opensearch_url": "http://localhost:9200",
	"index_name": "docs",
	"ingest_data": [{"data": {"text": "hello", "lang": "en"}}, {"page_content": "raw", "metadata": {}}]
}`

// --- Schema ---

func TestListComponents(t *testing.T) {
	env := newTestEnv(t, nil, 0)

	rr := env.do(t, http.MethodGet, "/components", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rr.Code)
	}
	var resp ComponentsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 2 || resp.Items[0].Name != "OpenSearch" || resp.Items[1].Name != "OpenSearchLegacy" {
		t.Errorf("unexpected components %+v", resp.Items)
	}
}

func TestGetInputs(t *testing.T) {
	env := newTestEnv(t, nil, 0)

	rr := env.do(t, http.MethodGet, "/components/opensearch/inputs", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rr.Code)
	}
	var resp InputsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Component.DisplayName != "OpenSearchVector" {
		t.Errorf("unexpected component %+v", resp.Component)
	}
	if len(resp.Inputs) != len(opensearch.Inputs()) {
		t.Errorf("got %d inputs, want %d", len(resp.Inputs), len(opensearch.Inputs()))
	}
}

func TestGetLegacyConfig(t *testing.T) {
	env := newTestEnv(t, nil, 0)

	rr := env.do(t, http.MethodGet, "/components/opensearch-legacy/config", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rr.Code)
	}
	var resp LegacyConfigResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.BuildConfig["index_name"].Value != "your_index" {
		t.Errorf("unexpected index_name config %+v", resp.BuildConfig["index_name"])
	}
}

// --- Build ---

func TestBuild_OK(t *testing.T) {
	env := newTestEnv(t, nil, 0)

	rr := env.do(t, http.MethodPost, "/components/opensearch/build", buildBody)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var resp invoke.BuildResult
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.IndexName != "docs" || resp.DocumentsIngested != 2 {
		t.Errorf("unexpected response %+v", resp)
	}
	if len(env.builder.docs) != 2 || env.builder.docs[0].PageContent != "hello" {
		t.Errorf("unexpected ingested docs %+v", env.builder.docs)
	}
	if env.builder.docs[0].Metadata["lang"] != "en" {
		t.Errorf("record metadata lost: %+v", env.builder.docs[0].Metadata)
	}
}

func TestBuild_InvalidBody(t *testing.T) {
	env := newTestEnv(t, nil, 0)

	rr := env.do(t, http.MethodPost, "/components/opensearch/build", "{not json")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != ErrorCodeBadRequest {
		t.Errorf("got code %s, want %s", resp.Code, ErrorCodeBadRequest)
	}
}

func TestBuild_BodyTooLarge(t *testing.T) {
	env := newTestEnv(t, nil, 16)

	rr := env.do(t, http.MethodPost, "/components/opensearch/build", buildBody)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("got %d, want 413", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != ErrorCodeRequestTooLarge {
		t.Errorf("got code %s, want %s", resp.Code, ErrorCodeRequestTooLarge)
	}
}

func TestBuild_ValidationFailed(t *testing.T) {
	env := newTestEnv(t, nil, 0)

	rr := env.do(t, http.MethodPost, "/components/opensearch/build", `{"index_name": "docs"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rr.Code)
	}
	resp := decodeError(t, rr)
	if resp.Code != ErrorCodeValidationFailed {
		t.Errorf("got code %s, want %s", resp.Code, ErrorCodeValidationFailed)
	}
	if !strings.Contains(resp.Message, "opensearch_url") {
		t.Errorf("message should name the field, got %q", resp.Message)
	}
}

func TestBuild_UnknownEmbedding(t *testing.T) {
	env := newTestEnv(t, nil, 0)

	body := `{"opensearch_url": "http://x", "index_name": "docs", "embedding": "nope"}`
	rr := env.do(t, http.MethodPost, "/components/opensearch/build", body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != ErrorCodeUnknownEmbedding {
		t.Errorf("got code %s, want %s", resp.Code, ErrorCodeUnknownEmbedding)
	}
}

func TestBuild_Failure(t *testing.T) {
	env := newTestEnv(t, nil, 0)
	env.builder.err = fmt.Errorf("embed documents: %w", domain.ErrEmbeddingProviderError)

	rr := env.do(t, http.MethodPost, "/components/opensearch/build", buildBody)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("got %d, want 502", rr.Code)
	}
	resp := decodeError(t, rr)
	if resp.Code != ErrorCodeBuildFailed {
		t.Errorf("got code %s, want %s", resp.Code, ErrorCodeBuildFailed)
	}
	if !strings.HasPrefix(resp.Message, "failed to build OpenSearchVector: ") ||
		!strings.Contains(resp.Message, "embed documents") {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

// --- Search ---

func TestSearch_OK(t *testing.T) {
	env := newTestEnv(t, nil, 0)

	body := strings.Replace(buildBody, `"index_name": "docs",`,
		`"index_name": "docs", "search_query": "hi", "number_of_results": 1,`, 1)
	rr := env.do(t, http.MethodPost, "/components/opensearch/search", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Results []domain.Data `json:"results"`
		Status  []domain.Data `json:"status"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 1 || len(resp.Status) != 1 {
		t.Fatalf("expected one result mirrored in status, got %+v", resp)
	}
	if resp.Results[0].Data["text"] != "first" || resp.Results[0].Data["n"] != 1.0 {
		t.Errorf("unexpected record %+v", resp.Results[0])
	}
}

func TestSearch_BlankQuery(t *testing.T) {
	env := newTestEnv(t, nil, 0)

	rr := env.do(t, http.MethodPost, "/components/opensearch/search", buildBody)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rr.Code)
	}
	var resp struct {
		Results []domain.Data `json:"results"`
		Status  any           `json:"status"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Errorf("expected empty results array, got %v", resp.Results)
	}
	if resp.Status != nil {
		t.Errorf("expected null status, got %v", resp.Status)
	}
	if len(env.builder.docs) != 2 {
		t.Error("blank query must still build the store")
	}
}

func TestSearch_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
		wantHTTP int
	}{
		{"provider", fmt.Errorf("embed query: %w", domain.ErrEmbeddingProviderError),
			ErrorCodeEmbeddingProviderError, http.StatusBadGateway},
		{"other", errors.New("cluster exploded"), ErrorCodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil, 0)
			env.builder.store.searchErr = tt.err

			body := strings.Replace(buildBody, `"index_name": "docs",`,
				`"index_name": "docs", "search_query": "hi",`, 1)
			rr := env.do(t, http.MethodPost, "/components/opensearch/search", body)
			if rr.Code != tt.wantHTTP {
				t.Fatalf("got %d, want %d", rr.Code, tt.wantHTTP)
			}
			resp := decodeError(t, rr)
			if resp.Code != tt.wantCode {
				t.Errorf("got code %s, want %s", resp.Code, tt.wantCode)
			}
			if strings.Contains(resp.Message, "exploded") || strings.Contains(resp.Message, "embed query") {
				t.Errorf("internal details leaked: %q", resp.Message)
			}
		})
	}
}

// --- Legacy ---

func TestLegacyBuild(t *testing.T) {
	env := newTestEnv(t, nil, 0)

	body := `{
		"opensearch_url": "http://localhost:9200",
		"index_name": "your_index",
		"documents": [{"page_content": "a", "metadata": {"k": "v"}}]
	}`
	rr := env.do(t, http.MethodPost, "/components/opensearch-legacy/build", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var resp invoke.BuildResult
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.IndexName != "your_index" || resp.DocumentsIngested != 1 {
		t.Errorf("unexpected response %+v", resp)
	}
	if env.builder.docs[0].Metadata["k"] != "v" {
		t.Errorf("unexpected docs %+v", env.builder.docs)
	}
}

func TestLegacyBuild_Failure(t *testing.T) {
	env := newTestEnv(t, nil, 0)
	env.builder.err = errors.New("connection refused")

	rr := env.do(t, http.MethodPost, "/components/opensearch-legacy/build",
		`{"opensearch_url": "http://x", "index_name": "i"}`)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("got %d, want 502", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != ErrorCodeBuildFailed {
		t.Errorf("got code %s, want %s", resp.Code, ErrorCodeBuildFailed)
	}
}

// --- Health ---

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		svc        *healthuc.Service
		wantHTTP   int
		wantStatus string
	}{
		{"healthy", healthuc.New(mockPinger{}, nil, mockChecker{}), http.StatusOK, "ok"},
		{"degraded", healthuc.New(mockPinger{err: errors.New("down")}, nil, mockChecker{}),
			http.StatusServiceUnavailable, "degraded"},
		{"unhealthy", healthuc.New(nil, nil, mockChecker{err: errors.New("down")}),
			http.StatusServiceUnavailable, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.svc, 0)

			rr := env.do(t, http.MethodGet, "/health", "")
			if rr.Code != tt.wantHTTP {
				t.Fatalf("got %d, want %d", rr.Code, tt.wantHTTP)
			}
			var resp HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("got status %q, want %q", resp.Status, tt.wantStatus)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil, 0)

	rr := env.do(t, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rr.Code)
	}
}
