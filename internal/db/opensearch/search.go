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

// SearchKNN runs an approximate k-NN query against q.VectorField.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, errors.New("index name is required")
	}
	if q.VectorField == "" {
		return nil, errors.New("vector field is required")
	}
	if q.K <= 0 {
		return nil, errors.New("k must be positive")
	}

	body, err := buildKNNBody(q)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	resp, err := s.client.Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{q.IndexName},
		Body:    bytes.NewReader(body),
	})
	if err != nil {
		if isOpenSearchErr(err, http.StatusNotFound, "index_not_found_exception") {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	result := &db.SearchResult{
		Total:   resp.Hits.Total.Value,
		Entries: make([]db.SearchEntry, 0, len(resp.Hits.Hits)),
	}
	for _, hit := range resp.Hits.Hits {
		var source map[string]any
		if len(hit.Source) > 0 {
			if err := json.Unmarshal(hit.Source, &source); err != nil {
				return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("decode hit %s: %w", hit.ID, err)}
			}
		}
		result.Entries = append(result.Entries, db.SearchEntry{
			ID:     hit.ID,
			Score:  float64(hit.Score),
			Source: source,
		})
	}
	return result, nil
}

func buildKNNBody(q *db.KNNQuery) ([]byte, error) {
	body := map[string]any{
		"size": q.K,
		"query": map[string]any{
			"knn": map[string]any{
				q.VectorField: map[string]any{
					"vector": q.Vector,
					"k":      q.K,
				},
			},
		},
	}
	if len(q.SourceFields) > 0 {
		body["_source"] = q.SourceFields
	} else {
		body["_source"] = map[string]any{"excludes": []string{q.VectorField}}
	}
	return json.Marshal(body)
}
