// Package presenter renders engine results for the command line: summaries in
// text, JSON or YAML, and figures through pkg/chart.
package presenter

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Write encodes v in the given format. Text output is produced by text.
func Write(w io.Writer, format string, v any, text func(io.Writer) error) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		return text(w)
	default:
		return fmt.Errorf("presenter: unknown format %q", format)
	}
}
