package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/cyra/apachelogs/internal/parser"
)

// JSONRenderer prints each entry as a single JSON object per line. Byte
// strings become text, zones "+HHMM" offsets, dates "YYYY-MM-DD" and clocks
// "HH:MM:SS".
type JSONRenderer struct {
	enc  *json.Encoder
	opts Options
}

// NewJSONRenderer returns a Renderer that writes JSON lines to w.
func NewJSONRenderer(w io.Writer, opts Options) *JSONRenderer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONRenderer{enc: enc, opts: opts}
}

func (r *JSONRenderer) Render(e *parser.Entry) error {
	names := r.opts.Fields
	if len(names) == 0 {
		names = e.Names()
	}
	rec := make(map[string]any, len(names)+1)
	for _, name := range names {
		if v, ok := e.Get(name); ok {
			rec[name] = r.value(v)
		}
	}
	if r.opts.Directives {
		dirs := e.Directives()
		for k, v := range dirs {
			dirs[k] = r.value(v)
		}
		rec["_directives"] = dirs
	}
	return r.enc.Encode(rec)
}

func (r *JSONRenderer) value(v any) any {
	switch v := v.(type) {
	case time.Time:
		return formatTime(v, r.opts.TimeFormat, time.RFC3339Nano)
	case *parser.Group:
		m := v.Map()
		for k, x := range m {
			m[k] = r.value(x)
		}
		return m
	}
	return parser.PlainValue(v)
}
