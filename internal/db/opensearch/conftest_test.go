package opensearch

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeCluster emulates the handful of OpenSearch endpoints the store uses.
type fakeCluster struct {
	mu       sync.Mutex
	indices  map[string]map[string]any // index -> create body
	docs     map[string][]fakeDoc      // index -> docs in insertion order
	bulkFail bool
	requests []string

	lastSearch map[string]any
	auth       string
}

type fakeDoc struct {
	ID     string
	Source map[string]any
}

func newFakeCluster() *fakeCluster {
	return &fakeCluster{
		indices: map[string]map[string]any{},
		docs:    map[string][]fakeDoc{},
	}
}

func (f *fakeCluster) start(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return srv
}

func (f *fakeCluster) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	if u, _, ok := r.BasicAuth(); ok {
		f.auth = u
	}
	body, _ := io.ReadAll(r.Body)
	path := strings.Trim(r.URL.Path, "/")
	parts := strings.Split(path, "/")

	switch {
	case path == "":
		writeJSON(w, http.StatusOK, map[string]any{"version": map[string]any{"number": "2.17.0"}})
	case path == "_bulk":
		f.bulk(w, body)
	case len(parts) == 2 && parts[1] == "_refresh":
		writeJSON(w, http.StatusOK, map[string]any{"_shards": map[string]any{"total": 1, "successful": 1, "failed": 0}})
	case len(parts) == 2 && parts[1] == "_search":
		f.search(w, parts[0], body)
	case len(parts) == 1 && r.Method == http.MethodHead:
		if _, ok := f.indices[parts[0]]; ok {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case len(parts) == 1 && r.Method == http.MethodPut:
		f.create(w, parts[0], body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeCluster) create(w http.ResponseWriter, index string, body []byte) {
	if _, ok := f.indices[index]; ok {
		writeError(w, http.StatusBadRequest, "resource_already_exists_exception", "index ["+index+"] already exists")
		return
	}
	var def map[string]any
	_ = json.Unmarshal(body, &def)
	f.indices[index] = def
	writeJSON(w, http.StatusOK, map[string]any{
		"acknowledged": true, "shards_acknowledged": true, "index": index,
	})
}

func (f *fakeCluster) bulk(w http.ResponseWriter, body []byte) {
	sc := bufio.NewScanner(bytes.NewReader(body))
	sc.Buffer(make([]byte, 1024*1024), 16*1024*1024)

	var items []map[string]any
	for sc.Scan() {
		var action map[string]map[string]any
		if err := json.Unmarshal(sc.Bytes(), &action); err != nil {
			writeError(w, http.StatusBadRequest, "parse_exception", err.Error())
			return
		}
		if !sc.Scan() {
			writeError(w, http.StatusBadRequest, "parse_exception", "missing source line")
			return
		}
		var source map[string]any
		_ = json.Unmarshal(sc.Bytes(), &source)

		meta := action["index"]
		index, _ := meta["_index"].(string)
		id, _ := meta["_id"].(string)

		if f.bulkFail {
			items = append(items, map[string]any{"index": map[string]any{
				"_index": index, "_id": id, "status": 400,
				"error": map[string]any{"type": "mapper_parsing_exception", "reason": "failed to parse"},
			}})
			continue
		}
		f.docs[index] = append(f.docs[index], fakeDoc{ID: id, Source: source})
		items = append(items, map[string]any{"index": map[string]any{
			"_index": index, "_id": id, "status": 201, "result": "created",
		}})
	}
	writeJSON(w, http.StatusOK, map[string]any{"took": 1, "errors": f.bulkFail, "items": items})
}

func (f *fakeCluster) search(w http.ResponseWriter, index string, body []byte) {
	if _, ok := f.indices[index]; !ok {
		writeError(w, http.StatusNotFound, "index_not_found_exception", "no such index ["+index+"]")
		return
	}
	var req map[string]any
	_ = json.Unmarshal(body, &req)
	f.lastSearch = req

	size := len(f.docs[index])
	if s, ok := req["size"].(float64); ok && int(s) < size {
		size = int(s)
	}

	hits := make([]map[string]any, 0, size)
	for i := 0; i < size; i++ {
		d := f.docs[index][i]
		src := make(map[string]any, len(d.Source))
		for k, v := range d.Source {
			if k != "vector_field" {
				src[k] = v
			}
		}
		hits = append(hits, map[string]any{
			"_index": index, "_id": d.ID, "_score": 1.0 / float64(i+1), "_source": src,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"took": 1, "timed_out": false,
		"_shards": map[string]any{"total": 1, "successful": 1, "skipped": 0, "failed": 0},
		"hits": map[string]any{
			"total":     map[string]any{"value": len(hits), "relation": "eq"},
			"max_score": 1.0,
			"hits":      hits,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errType, reason string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"root_cause": []map[string]any{{"type": errType, "reason": reason}},
			"type":       errType,
			"reason":     reason,
		},
		"status": status,
	})
}

func newTestStore(t *testing.T) (*Store, *fakeCluster) {
	t.Helper()
	f := newFakeCluster()
	srv := f.start(t)
	s, err := NewStore(Config{URL: srv.URL, Username: "admin", Password: "secret"})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s, f
}
