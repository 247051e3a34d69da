package db

// Default HNSW parameters, matching the values the OpenSearch vector store
// integrations ship with.
const (
	DefaultEFSearch       = 512
	DefaultEFConstruction = 512
	DefaultM              = 16
)

// IndexBuilder is a fluent builder for k-NN index definitions.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts building an index definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name}}
}

// EFSearch sets index.knn.algo_param.ef_search.
func (b *IndexBuilder) EFSearch(ef int) *IndexBuilder {
	b.def.EFSearch = ef
	return b
}

// Text adds an analyzed text field.
func (b *IndexBuilder) Text(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Type: IndexFieldText})
	return b
}

// Object adds a dynamic object field.
func (b *IndexBuilder) Object(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Type: IndexFieldObject})
	return b
}

// HNSWVector adds a knn_vector field using the hnsw method. Zero m or
// efConstruct fall back to DefaultM and DefaultEFConstruction.
func (b *IndexBuilder) HNSWVector(
	name string, dim int, engine Engine, space SpaceType, m, efConstruct int,
) *IndexBuilder {
	if m <= 0 {
		m = DefaultM
	}
	if efConstruct <= 0 {
		efConstruct = DefaultEFConstruction
	}
	if engine == "" {
		engine = EngineNmslib
	}
	if space == "" {
		space = SpaceL2
	}
	b.def.Fields = append(b.def.Fields, IndexField{
		Name:              name,
		Type:              IndexFieldVector,
		VectorDim:         dim,
		VectorEngine:      engine,
		VectorSpace:       space,
		VectorM:           m,
		VectorEFConstruct: efConstruct,
	})
	return b
}

// Build validates and returns the definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	def := b.def
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}
