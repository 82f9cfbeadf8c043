package output

import (
	"encoding/json"
	"io"

	"go.yaml.in/yaml/v3"
)

// Format selects how command results render.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formatter renders one value to a writer.
type Formatter interface {
	Format(w io.Writer, data any) error
}

type formatterFunc func(io.Writer, any) error

func (f formatterFunc) Format(w io.Writer, data any) error { return f(w, data) }

// NewFormatter returns the formatter for a format name. Unknown names
// render as tables, matching the --output flag default.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return formatterFunc(renderJSON)
	case FormatYAML:
		return formatterFunc(renderYAML)
	default:
		return formatterFunc(renderTable)
	}
}

func renderJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func renderYAML(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// renderTable renders Table values. Anything else falls back to JSON so
// structured results stay visible under the default format.
func renderTable(w io.Writer, data any) error {
	switch t := data.(type) {
	case *Table:
		return t.Render(w)
	case Table:
		return t.Render(w)
	default:
		return renderJSON(w, data)
	}
}
