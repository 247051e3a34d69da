package osvector

import "github.com/kailas-cloud/osvector/internal/domain"

// DefaultTextKey is the Data key holding the record text.
const DefaultTextKey = domain.DefaultTextKey

// Document is a text with metadata.
type Document struct {
	PageContent string
	Metadata    map[string]any
}

// Data is a record: a bag of values with one key designated as the text.
// An empty TextKey selects DefaultTextKey.
type Data struct {
	TextKey      string
	Values       map[string]any
	DefaultValue string
}

// Text returns the record text, or DefaultValue when the text key is absent.
func (d Data) Text() string {
	in := d.toDomain()
	return in.Text()
}

func (d Data) toDomain() domain.Data {
	key := d.TextKey
	if key == "" {
		key = domain.DefaultTextKey
	}
	return domain.Data{TextKey: key, Data: d.Values, DefaultValue: d.DefaultValue}
}

func dataFromDomain(d domain.Data) Data {
	return Data{TextKey: d.TextKey, Values: d.Data, DefaultValue: d.DefaultValue}
}

// Item is one element to ingest: a record or a document.
type Item struct {
	inner domain.IngestItem
}

// Text creates a record item holding only text.
func Text(s string) Item {
	return Record(Data{Values: map[string]any{DefaultTextKey: s}})
}

// Record creates an item from a record. The text key becomes the page
// content and the remaining values become metadata.
func Record(d Data) Item {
	return Item{inner: domain.RecordItem(d.toDomain())}
}

// Doc creates an item from a document, ingested as-is.
func Doc(d Document) Item {
	return Item{inner: domain.DocumentItem(domain.NewDocument(d.PageContent, d.Metadata))}
}

func toIngest(items []Item) []domain.IngestItem {
	out := make([]domain.IngestItem, len(items))
	for i, it := range items {
		out[i] = it.inner
	}
	return out
}

// BuildResult describes a completed build.
type BuildResult struct {
	IndexName         string
	DocumentsIngested int
}
