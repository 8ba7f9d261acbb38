package parser

import (
	"fmt"
	"reflect"
	"testing"
	"time"
)

type fields map[string]any

// normalize maps values to comparable forms: times keep their offset.
func normalize(v any) any {
	switch v := v.(type) {
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case int:
		return int64(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, x := range v {
			out[k] = normalize(x)
		}
		return out
	case fields:
		return normalize(map[string]any(v))
	case *Group:
		return normalize(v.Map())
	}
	return PlainValue(v)
}

func checkEntry(t *testing.T, e *Entry, want fields) {
	t.Helper()
	for name, w := range want {
		got, ok := e.Get(name)
		if !ok {
			t.Errorf("field %q missing; have %v", name, e.Names())
			continue
		}
		if g, w := normalize(got), normalize(w); !reflect.DeepEqual(g, w) {
			t.Errorf("field %q = %#v, want %#v", name, g, w)
		}
	}
}

func checkDirectives(t *testing.T, e *Entry, want fields) {
	t.Helper()
	got := e.Directives()
	if len(got) != len(want) {
		t.Errorf("Directives() has %d keys, want %d: %v", len(got), len(want), got)
	}
	for d, w := range want {
		g, ok := got[d]
		if !ok {
			t.Errorf("directive %q missing", d)
			continue
		}
		if g, w := normalize(g), normalize(w); !reflect.DeepEqual(g, w) {
			t.Errorf("directive %q = %#v, want %#v", d, g, w)
		}
	}
}

func utc(y int, mo time.Month, d, h, mi, s, ns int) time.Time {
	return time.Date(y, mo, d, h, mi, s, ns, time.UTC)
}

func strconvQuote(s string) string { return fmt.Sprintf("%q", s) }
