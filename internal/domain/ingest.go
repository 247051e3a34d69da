package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// IngestKind tags the variant held by an IngestItem.
type IngestKind int

const (
	// IngestRecord is a host framework Data record.
	IngestRecord IngestKind = iota
	// IngestDocument is an already wrapped Document.
	IngestDocument
)

// IngestItem is one element of a component's ingest list: either a host
// record or a library document. Use RecordItem / DocumentItem to build one.
type IngestItem struct {
	kind   IngestKind
	record Data
	doc    Document
}

// RecordItem wraps a host record.
func RecordItem(d Data) IngestItem {
	return IngestItem{kind: IngestRecord, record: d}
}

// DocumentItem wraps a library document.
func DocumentItem(doc Document) IngestItem {
	return IngestItem{kind: IngestDocument, doc: doc}
}

// Kind returns the variant tag.
func (it IngestItem) Kind() IngestKind { return it.kind }

// Document returns the item as a Document, converting host records.
func (it IngestItem) Document() Document {
	if it.kind == IngestRecord {
		return it.record.ToDocument()
	}
	return it.doc
}

// NormalizeIngest converts a mixed ingest list into documents, preserving order.
func NormalizeIngest(items []IngestItem) []Document {
	docs := make([]Document, 0, len(items))
	for _, it := range items {
		docs = append(docs, it.Document())
	}
	return docs
}

// MarshalJSON encodes the wrapped value as-is.
func (it IngestItem) MarshalJSON() ([]byte, error) {
	if it.kind == IngestDocument {
		return json.Marshal(it.doc)
	}
	return json.Marshal(it.record)
}

// UnmarshalJSON decodes an object carrying "page_content" as a Document and
// anything else as a Data record. Only an object whose keys are all Data
// envelope keys with an object "data" is read as an envelope; any other
// object is the record map itself.
func (it *IngestItem) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return fmt.Errorf("ingest item must be an object: %w", err)
	}
	if fields == nil {
		return errors.New("ingest item must not be null")
	}

	if _, ok := fields["page_content"]; ok {
		var doc Document
		if err := json.Unmarshal(b, &doc); err != nil {
			return fmt.Errorf("decode document: %w", err)
		}
		*it = DocumentItem(doc)
		return nil
	}

	if isDataEnvelope(fields) {
		var d Data
		if err := json.Unmarshal(b, &d); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
		if d.TextKey == "" {
			d.TextKey = DefaultTextKey
		}
		*it = RecordItem(d)
		return nil
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	*it = RecordItem(NewData(m))
	return nil
}

// dataEnvelopeKeys are the JSON keys of Data.
var dataEnvelopeKeys = map[string]bool{"data": true, "text_key": true, "default_value": true}

func isDataEnvelope(obj map[string]json.RawMessage) bool {
	raw, ok := obj["data"]
	if !ok || !isJSONObject(raw) {
		return false
	}
	for k := range obj {
		if !dataEnvelopeKeys[k] {
			return false
		}
	}
	return true
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
