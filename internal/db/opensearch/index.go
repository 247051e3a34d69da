package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"

	"github.com/kailas-cloud/osvector/internal/db"
)

// CreateIndex creates a k-NN index from def.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	body, err := buildCreateBody(def)
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}

	_, err = s.client.Indices.Create(ctx, opensearchapi.IndicesCreateReq{
		Index: def.Name,
		Body:  bytes.NewReader(body),
	})
	if err != nil {
		if isOpenSearchErr(err, http.StatusBadRequest, "resource_already_exists_exception") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// IndexExists reports whether the index exists.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	resp, err := s.client.Indices.Exists(ctx, opensearchapi.IndicesExistsReq{Indices: []string{name}})
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusOK:
			return true, nil
		case http.StatusNotFound:
			return false, nil
		}
	}
	if err != nil {
		return false, &db.Error{Op: db.OpIndexExists, Err: err}
	}
	return false, &db.Error{Op: db.OpIndexExists, Err: errors.New("unexpected empty response")}
}

// Refresh makes recently indexed documents searchable.
func (s *Store) Refresh(ctx context.Context, name string) error {
	_, err := s.client.Indices.Refresh(ctx, &opensearchapi.IndicesRefreshReq{Indices: []string{name}})
	if err != nil {
		return &db.Error{Op: db.OpRefresh, Err: err}
	}
	return nil
}

// buildCreateBody renders settings and mappings for indices.create.
func buildCreateBody(def *db.IndexDefinition) ([]byte, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("validate index: %w", err)
	}

	index := map[string]any{"knn": true}
	if def.EFSearch > 0 {
		index["knn.algo_param.ef_search"] = def.EFSearch
	}

	props := make(map[string]any, len(def.Fields))
	for i := range def.Fields {
		m, err := buildFieldMapping(&def.Fields[i])
		if err != nil {
			return nil, err
		}
		props[def.Fields[i].Name] = m
	}

	body := map[string]any{
		"settings": map[string]any{"index": index},
		"mappings": map[string]any{"properties": props},
	}
	return json.Marshal(body)
}

func buildFieldMapping(f *db.IndexField) (map[string]any, error) {
	switch f.Type {
	case db.IndexFieldText:
		return map[string]any{"type": "text"}, nil
	case db.IndexFieldObject:
		return map[string]any{"type": "object"}, nil
	case db.IndexFieldVector:
		return map[string]any{
			"type":      "knn_vector",
			"dimension": f.VectorDim,
			"method": map[string]any{
				"name":       "hnsw",
				"space_type": string(f.VectorSpace),
				"engine":     string(f.VectorEngine),
				"parameters": map[string]any{
					"ef_construction": f.VectorEFConstruct,
					"m":               f.VectorM,
				},
			},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported field type %d for %q", f.Type, f.Name)
	}
}
