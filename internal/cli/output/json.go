package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter formats data as JSON, indented unless Compact is set.
// Result files written for CI use the indented form so diffs stay readable.
type JSONFormatter struct {
	Compact bool
}

// Format writes data followed by a newline.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if !f.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(data)
}
