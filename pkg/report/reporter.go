// Package report turns finished play into durable records: a JSON
// lines history of results and per-game summaries rendered as JSON,
// Markdown or HTML.
package report

import (
	"io"
)

// Renderer writes a summary in one output format.
type Renderer interface {
	// Render writes the summary to w.
	Render(w io.Writer, s *Summary) error

	// Extension is the file extension used by SaveSummary,
	// without the dot.
	Extension() string
}
