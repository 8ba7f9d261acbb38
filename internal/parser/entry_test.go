package parser

import (
	"slices"
	"testing"
	"time"
)

func TestGroupSet(t *testing.T) {
	g := newGroup(false)
	g.set("a", nil)
	g.set("b", "one")
	g.set("a", "two")
	g.set("b", "three")
	g.set("A", "four")

	if got := g.Keys(); !slices.Equal(got, []string{"a", "b", "A"}) {
		t.Errorf("Keys() = %v", got)
	}
	for key, want := range map[string]any{"a": "two", "b": "one", "A": "four"} {
		if v, ok := g.Get(key); !ok || v != want {
			t.Errorf("Get(%q) = %v, %v; want %v", key, v, ok, want)
		}
	}
	if _, ok := g.Get("c"); ok {
		t.Errorf("Get(%q) found a value", "c")
	}
}

func TestNilGroup(t *testing.T) {
	var g *Group
	if v, ok := g.Get("x"); v != nil || ok {
		t.Errorf("Get on nil group = %v, %v", v, ok)
	}
	if g.Len() != 0 || g.Keys() != nil || g.CaseInsensitive() {
		t.Errorf("nil group is not empty")
	}
	if m := g.Map(); len(m) != 0 {
		t.Errorf("Map() = %v", m)
	}
}

func TestEntryAccessors(t *testing.T) {
	e, err := Parse(`%h %{tid}P %{pid}P %>s %{X-Id}i %{%z}t`, `host 18446744073709551615 42 200 abc +0130`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []string{"remote_host", "tid", "pid", "final_status", "headers_in", "request_time_fields", "request_time"}
	if got := e.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if _, ok := e.Int("tid"); ok {
		t.Errorf("Int(tid) succeeded for a value beyond int64")
	}
	if v, ok := e.Int("pid"); !ok || v != 42 {
		t.Errorf("Int(pid) = %d, %v", v, ok)
	}
	if _, ok := e.Str("pid"); ok {
		t.Errorf("Str(pid) succeeded")
	}
	if !e.Has("request_time") || e.Has("remote_user") {
		t.Errorf("Has() reports the wrong fields")
	}
	if v, _ := e.Get("request_time"); v != nil {
		t.Errorf("request_time = %v, want nil for a zone alone", v)
	}
	if e.Group("remote_host") != nil {
		t.Errorf("Group() returned a leaf field")
	}

	fs := e.Fields()
	delete(fs, "pid")
	if !e.Has("pid") {
		t.Errorf("Fields() does not return a copy")
	}
	tz, _ := e.Group("request_time_fields").Get("timezone")
	if got := PlainValue(tz); got != "+0130" {
		t.Errorf("PlainValue(timezone) = %v", got)
	}
}

func TestPlainValue(t *testing.T) {
	now := time.Now()
	tests := []struct {
		in, want any
	}{
		{[]byte("abc"), "abc"},
		{time.UTC, "+0000"},
		{time.FixedZone("", -(9*3600 + 30*60)), "-0930"},
		{int64(7), int64(7)},
		{nil, nil},
		{now, now},
	}
	for _, tt := range tests {
		if got := PlainValue(tt.in); got != tt.want {
			t.Errorf("PlainValue(%#v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
