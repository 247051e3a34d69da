package domain

// Document is the vector-store document: the text that gets embedded plus
// free-form metadata stored next to the vector.
type Document struct {
	PageContent string         `json:"page_content"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// NewDocument creates a Document with a copy of the metadata map.
func NewDocument(content string, metadata map[string]any) Document {
	return Document{PageContent: content, Metadata: cloneMap(metadata)}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
