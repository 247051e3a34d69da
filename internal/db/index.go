package db

import (
	"errors"
	"strconv"
	"strings"
)

// SpaceType is the k-NN distance function of a vector field.
type SpaceType string

const (
	// SpaceL2 is Euclidean distance.
	SpaceL2 SpaceType = "l2"
	// SpaceCosine is cosine similarity.
	SpaceCosine SpaceType = "cosinesimil"
	// SpaceInnerProduct is inner product.
	SpaceInnerProduct SpaceType = "innerproduct"
)

// Engine is the k-NN library backing a vector field.
type Engine string

const (
	// EngineNmslib is the non-metric space library (OpenSearch < 3 default).
	EngineNmslib Engine = "nmslib"
	// EngineFaiss is Facebook AI similarity search.
	EngineFaiss Engine = "faiss"
	// EngineLucene is Lucene's native HNSW.
	EngineLucene Engine = "lucene"
)

// IndexFieldType enumerates supported mapping field types.
type IndexFieldType int

const (
	// IndexFieldText is an analyzed text field.
	IndexFieldText IndexFieldType = iota
	// IndexFieldObject is a dynamic object field.
	IndexFieldObject
	// IndexFieldVector is a knn_vector field.
	IndexFieldVector
)

// IndexField describes a single field in the index mapping.
type IndexField struct {
	Name string
	Type IndexFieldType

	// knn_vector options
	VectorDim         int
	VectorEngine      Engine
	VectorSpace       SpaceType
	VectorM           int // HNSW m: max edges per node
	VectorEFConstruct int // HNSW ef_construction
}

// IndexDefinition is a complete k-NN index definition used by indices.create.
type IndexDefinition struct {
	Name     string
	EFSearch int // index.knn.algo_param.ef_search, 0 leaves the cluster default
	Fields   []IndexField
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIndexName(idx.Name) {
		return errors.New("index name must be lowercase and must not contain \\ / * ? \" < > | , # : or spaces")
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]bool)
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Name == "" {
			return errors.New("field name is required at index " + strconv.Itoa(i))
		}
		if seen[f.Name] {
			return errors.New("duplicate field name: " + f.Name)
		}
		seen[f.Name] = true

		if f.Type == IndexFieldVector && f.VectorDim <= 0 {
			return errors.New("vector field requires positive dimension")
		}
	}

	return nil
}

// IsValidIndexName reports whether s is accepted by OpenSearch as an index name.
func IsValidIndexName(s string) bool {
	if s == "" || len(s) > 255 || s == "." || s == ".." {
		return false
	}
	if strings.ContainsAny(s[:1], "_-+") {
		return false
	}
	if strings.ContainsAny(s, "\\/*?\"<>|,#: ") {
		return false
	}
	return strings.ToLower(s) == s
}
