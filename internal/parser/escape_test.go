package parser

import (
	"bytes"
	"testing"
)

func TestUnescape(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{``, []byte{}},
		{`plain text`, []byte("plain text")},
		{`\"quoted\"`, []byte(`"quoted"`)},
		{`back\\slash`, []byte(`back\slash`)},
		{`\t\n\r\b\v\f`, []byte("\t\n\r\b\v\f")},
		{`Gh0st\xad`, []byte("Gh0st\xad")},
		{`t\xc3\xa9st`, []byte("tést")},
		{`\xF0\x9D\x8C\x86`, []byte("\U0001D306")},
		{`\q`, []byte("q")},
		{`\xzz`, []byte("xzz")},
		{`\x4`, []byte("x4")},
		{`trailing\`, []byte(`trailing\`)},
		{"keep\\\nnewline", []byte("keep\\\nnewline")},
	}
	for _, tt := range tests {
		if got := Unescape(tt.in); !bytes.Equal(got, tt.want) {
			t.Errorf("Unescape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("GET / HTTP/1.1"), "GET / HTTP/1.1"},
		{[]byte(`say "hi"`), `say \"hi\"`},
		{[]byte(`a\b`), `a\\b`},
		{[]byte("\t\n\r\b\v"), `\t\n\r\b\v`},
		{[]byte("\f\x00\x7f"), `\x0c\x00\x7f`},
		{[]byte("tést"), `t\xc3\xa9st`},
	}
	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	for _, in := range [][]byte{all, []byte(`}__test|O:21:"J":3:{s:4:"\0\0\0a"`), nil} {
		if got := Unescape(Escape(in)); !bytes.Equal(got, in) {
			t.Errorf("Unescape(Escape(%q)) = %q", in, got)
		}
	}
}
