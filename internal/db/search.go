package db

// KNNQuery is the input for approximate k-NN search.
type KNNQuery struct {
	IndexName    string
	VectorField  string
	Vector       []float32
	K            int
	SourceFields []string // empty means the whole _source minus the vector
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit.
type SearchEntry struct {
	ID     string
	Score  float64
	Source map[string]any
}
