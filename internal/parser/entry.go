package parser

import (
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/cyra/apachelogs/internal/timeutil"
)

// Group is a keyed container of directive values such as headers_in. Keys
// keep the case they were first seen with; a case-insensitive group also
// finds them under any other case. Iteration follows first-seen order.
type Group struct {
	noCase bool
	keys   []string
	index  map[string]int
	values []any
}

func newGroup(noCase bool) *Group {
	return &Group{noCase: noCase, index: make(map[string]int)}
}

func (g *Group) norm(key string) string {
	if g.noCase {
		return strings.ToLower(key)
	}
	return key
}

// set stores v under key unless a non-nil value is already there.
func (g *Group) set(key string, v any) {
	if i, ok := g.index[g.norm(key)]; ok {
		if g.values[i] == nil {
			g.values[i] = v
		}
		return
	}
	g.index[g.norm(key)] = len(g.keys)
	g.keys = append(g.keys, key)
	g.values = append(g.values, v)
}

// Get returns the value stored under key. The second result reports whether
// the key exists; its value may still be nil.
func (g *Group) Get(key string) (any, bool) {
	if g == nil {
		return nil, false
	}
	i, ok := g.index[g.norm(key)]
	if !ok {
		return nil, false
	}
	return g.values[i], true
}

// CaseInsensitive reports whether lookups ignore case.
func (g *Group) CaseInsensitive() bool { return g != nil && g.noCase }

// Keys returns the keys in first-seen order.
func (g *Group) Keys() []string {
	if g == nil {
		return nil
	}
	return slices.Clone(g.keys)
}

// Len returns the number of keys.
func (g *Group) Len() int {
	if g == nil {
		return 0
	}
	return len(g.keys)
}

// Map returns a copy of the group keyed by original-case keys.
func (g *Group) Map() map[string]any {
	m := make(map[string]any, g.Len())
	for i, k := range g.Keys() {
		m[k] = g.values[i]
	}
	return m
}

func (g *Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(plainMap(g.Map()))
}

// Entry is one parsed log line. Values are reachable by field name, by
// container and key, or by the exact directive that produced them.
type Entry struct {
	// Line is the matched line without its trailing line terminator.
	Line string
	// Format is the log format the line was parsed with.
	Format string

	fields     map[string]any
	order      []string
	directives map[string]any
}

// Get returns the value of a top-level field. Groups are returned as *Group.
func (e *Entry) Get(name string) (any, bool) {
	v, ok := e.fields[name]
	return v, ok
}

// Has reports whether the format produced the named field.
func (e *Entry) Has(name string) bool {
	_, ok := e.fields[name]
	return ok
}

// Int returns an integer field. Unsigned values that fit are converted.
func (e *Entry) Int(name string) (int64, bool) {
	switch v := e.fields[name].(type) {
	case int64:
		return v, true
	case uint64:
		if v <= 1<<63-1 {
			return int64(v), true
		}
	}
	return 0, false
}

// Str returns a string field, whether decoded or kept as bytes.
func (e *Entry) Str(name string) (string, bool) {
	switch v := e.fields[name].(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	}
	return "", false
}

// Time returns a timestamp field such as request_time.
func (e *Entry) Time(name string) (time.Time, bool) {
	t, ok := e.fields[name].(time.Time)
	return t, ok
}

// Group returns the named container, or nil.
func (e *Entry) Group(name string) *Group {
	g, _ := e.fields[name].(*Group)
	return g
}

// Names returns the top-level field names in the order the format first
// produced them, followed by any assembled request_time fields.
func (e *Entry) Names() []string {
	return slices.Clone(e.order)
}

// Fields returns a shallow copy of the top-level fields.
func (e *Entry) Fields() map[string]any {
	return maps.Clone(e.fields)
}

// Directive returns the value captured by the directive spelled exactly as
// in the format, e.g. "%>s" or "%{Referer}i". A %{...}t with several
// conversions is split into one directive per conversion.
func (e *Entry) Directive(spelling string) (any, bool) {
	v, ok := e.directives[spelling]
	return v, ok
}

// Directives returns a copy of the directive map.
func (e *Entry) Directives() map[string]any {
	return maps.Clone(e.directives)
}

func (e *Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(plainMap(e.fields))
}

// PlainValue converts a field value to one encoding/json renders readably:
// byte strings become text, zones become +HHMM offsets and groups become
// maps. Other values are returned unchanged.
func PlainValue(v any) any {
	switch v := v.(type) {
	case []byte:
		return string(v)
	case *time.Location:
		_, off := time.Date(2000, time.January, 1, 0, 0, 0, 0, v).Zone()
		return timeutil.FormatOffset(off)
	case *Group:
		return plainMap(v.Map())
	}
	return v
}

func plainMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = PlainValue(v)
	}
	return out
}

var (
	redirectPrefixes = []string{originalPrefix, "", finalPrefix}
	timeScopes       = []string{"begin_", "", "end_"}
)

// entryBuilder collects converted captures and materializes an Entry once all
// of them are known.
type entryBuilder struct {
	assembler timeutil.Assembler
	entry     *Entry
}

func newEntryBuilder(line, format string, asm timeutil.Assembler) *entryBuilder {
	return &entryBuilder{
		assembler: asm,
		entry: &Entry{
			Line:       line,
			Format:     format,
			fields:     make(map[string]any),
			directives: make(map[string]any),
		},
	}
}

// add stores v at path. The first non-nil value for a field wins; the
// directive map always records the latest value per spelling.
func (b *entryBuilder) add(path Path, directive string, v any) {
	e := b.entry
	e.directives[directive] = v
	name := path[0]
	cur, exists := e.fields[name]
	if !exists {
		e.order = append(e.order, name)
	}
	if len(path) == 1 {
		if cur == nil {
			e.fields[name] = v
		}
		return
	}
	g, ok := cur.(*Group)
	if !ok {
		g = newGroup(isCaseInsensitive(name))
		e.fields[name] = g
	}
	g.set(path[1], v)
}

func (b *entryBuilder) build() (*Entry, error) {
	e := b.entry
	for _, prefix := range redirectPrefixes {
		for _, scope := range timeScopes {
			target := prefix + scope + "request_time"
			g := e.Group(target + "_fields")
			if g.Len() == 0 {
				continue
			}
			t, err := b.assembler.Assemble(timeutil.Fields(g.Map()))
			switch {
			case errors.Is(err, timeutil.ErrIncomplete):
				e.fields[target] = nil
			case err != nil:
				return nil, err
			default:
				e.fields[target] = t
			}
			e.order = append(e.order, target)
		}
	}
	return e, nil
}
