package domain

import (
	"encoding/json"
	"fmt"
)

// DefaultTextKey is the Data key holding the record text.
const DefaultTextKey = "text"

// Data is the host framework's generic record: a bag of values with one key
// designated as the text.
type Data struct {
	TextKey      string         `json:"text_key,omitempty"`
	Data         map[string]any `json:"data"`
	DefaultValue string         `json:"default_value,omitempty"`
}

// NewData creates a record with the default text key.
func NewData(data map[string]any) Data {
	return Data{TextKey: DefaultTextKey, Data: data}
}

// textKey returns the configured text key or DefaultTextKey.
func (d *Data) textKey() string {
	if d.TextKey == "" {
		return DefaultTextKey
	}
	return d.TextKey
}

// Text returns the record text, or DefaultValue when the text key is absent.
func (d *Data) Text() string {
	v, ok := d.Data[d.textKey()]
	if !ok {
		return d.DefaultValue
	}
	return stringify(v)
}

// ToDocument converts the record into a Document. The text key is removed
// from the copied map and becomes the page content; the remaining keys are
// metadata. Non-string text values are stringified.
func (d *Data) ToDocument() Document {
	meta := cloneMap(d.Data)
	if meta == nil {
		meta = map[string]any{}
	}
	key := d.textKey()

	content := d.DefaultValue
	if v, ok := meta[key]; ok {
		content = stringify(v)
		delete(meta, key)
	}
	return Document{PageContent: content, Metadata: meta}
}

// DataFromDocument converts a Document into a record: the metadata plus the
// page content under DefaultTextKey.
func DataFromDocument(doc Document) Data {
	data := make(map[string]any, len(doc.Metadata)+1)
	for k, v := range doc.Metadata {
		data[k] = v
	}
	data[DefaultTextKey] = doc.PageContent
	return Data{TextKey: DefaultTextKey, Data: data}
}

// DocsToData converts documents into records, preserving order.
func DocsToData(docs []Document) []Data {
	out := make([]Data, len(docs))
	for i, doc := range docs {
		out[i] = DataFromDocument(doc)
	}
	return out
}

// stringify renders a non-string text value. Null and booleans use the
// host's spelling: None, True, False.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return "None"
	case bool:
		if t {
			return "True"
		}
		return "False"
	case fmt.Stringer:
		return t.String()
	case float64, float32, int, int64, int32:
		return fmt.Sprint(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
