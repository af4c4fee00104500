package report

import (
	"encoding/json"
	"io"
)

// jsonMarshalIndent is replaceable in tests.
var jsonMarshalIndent = json.MarshalIndent

// JSONRenderer renders summaries as JSON.
type JSONRenderer struct {
	pretty bool
}

// NewJSONRenderer creates a JSON renderer. When pretty is true,
// output is indented for readability.
func NewJSONRenderer(pretty bool) *JSONRenderer {
	return &JSONRenderer{pretty: pretty}
}

// JSON encodes a summary.
func (r *JSONRenderer) JSON(s *Summary) ([]byte, error) {
	if r.pretty {
		return jsonMarshalIndent(s, "", "  ")
	}
	return jsonMarshal(s)
}

// Render implements Renderer.
func (r *JSONRenderer) Render(w io.Writer, s *Summary) error {
	data, err := r.JSON(s)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Extension implements Renderer.
func (r *JSONRenderer) Extension() string { return "json" }
