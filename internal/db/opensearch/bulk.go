package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"

	"github.com/kailas-cloud/osvector/internal/db"
)

// BulkIndex writes items with one bulk request. Any per-item failure fails
// the whole call with db.ErrBulkFailed describing the first item error.
func (s *Store) BulkIndex(ctx context.Context, index string, items []db.BulkItem) error {
	if len(items) == 0 {
		return nil
	}

	body, err := buildBulkBody(index, items)
	if err != nil {
		return &db.Error{Op: db.OpBulk, Err: err}
	}

	resp, err := s.client.Bulk(ctx, opensearchapi.BulkReq{Body: bytes.NewReader(body)})
	if err != nil {
		return &db.Error{Op: db.OpBulk, Err: err}
	}
	if !resp.Errors {
		return nil
	}

	for _, entry := range resp.Items {
		for action, item := range entry {
			if item.Error != nil {
				return &db.Error{Op: db.OpBulk, Err: fmt.Errorf("%w: %s %s: %s: %s",
					db.ErrBulkFailed, action, item.ID, item.Error.Type, item.Error.Reason)}
			}
		}
	}
	return &db.Error{Op: db.OpBulk, Err: db.ErrBulkFailed}
}

// buildBulkBody renders the NDJSON payload: an action line and a source line
// per item.
func buildBulkBody(index string, items []db.BulkItem) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range items {
		action := map[string]any{"index": map[string]any{"_index": index, "_id": items[i].ID}}
		if err := enc.Encode(action); err != nil {
			return nil, fmt.Errorf("encode action %d: %w", i, err)
		}
		if err := enc.Encode(items[i].Source); err != nil {
			return nil, fmt.Errorf("encode source %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}
