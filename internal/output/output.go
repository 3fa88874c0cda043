// Package output renders invocation reports for humans and machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/samvad-hq/http-methods/internal/app"
)

// Renderer writes a report to w.
type Renderer interface {
	Render(w io.Writer, rep app.Report) error
}

// New returns the renderer for format ("console" or "json").
func New(format string, noColor bool) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONRenderer{}, nil
	case "", "console":
		return ConsoleRenderer{NoColor: noColor}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// JSONRenderer writes the report as indented JSON.
type JSONRenderer struct{}

func (JSONRenderer) Render(w io.Writer, rep app.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
