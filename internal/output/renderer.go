// Package output renders parsed entries for the terminal or for other
// programs.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/cyra/apachelogs/internal/parser"
	"github.com/itchyny/timefmt-go"
)

// Renderer writes parsed entries to an output stream.
type Renderer interface {
	Render(e *parser.Entry) error
}

// Options tune what a renderer prints.
type Options struct {
	// TimeFormat is a strftime layout for timestamps. JSON output uses
	// RFC 3339 and text output Apache's %t layout when it is empty.
	TimeFormat string
	// Fields restricts output to the named top-level fields, in order.
	Fields []string
	// Directives adds the value of every directive to JSON output under
	// "_directives".
	Directives bool
}

// New returns the renderer called name, "json" or "text".
func New(name string, w io.Writer, opts Options) (Renderer, error) {
	switch name {
	case "", "json":
		return NewJSONRenderer(w, opts), nil
	case "text":
		return NewTextRenderer(w, opts), nil
	}
	return nil, fmt.Errorf("unknown output format %q", name)
}

func formatTime(t time.Time, layout, fallback string) string {
	if layout == "" {
		return t.Format(fallback)
	}
	return timefmt.Format(t, layout)
}
