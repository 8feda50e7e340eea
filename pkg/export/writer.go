package export

import (
	"encoding/json"
	"io"
)

// JSONWriter serializes clean-encoded entries as one JSON array.
type JSONWriter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONWriter creates a new JSON writer.
func NewJSONWriter(pretty bool) *JSONWriter {
	return &JSONWriter{Pretty: pretty}
}

// Marshal returns entries as a JSON array. An empty or nil slice is written
// as "[]", never "null". Object keys are sorted by encoding/json.
func (w *JSONWriter) Marshal(entries []map[string]any) ([]byte, error) {
	if len(entries) == 0 {
		return []byte("[]"), nil
	}
	if w.Pretty {
		return json.MarshalIndent(entries, "", "  ")
	}
	return json.Marshal(entries)
}

// Write marshals entries and writes them to out.
func (w *JSONWriter) Write(entries []map[string]any, out io.Writer) error {
	data, err := w.Marshal(entries)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
