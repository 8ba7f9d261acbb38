// Package parser compiles Apache mod_log_config format strings into matchers
// and parses access log lines into Entry values.
package parser

import (
	"fmt"
	"iter"
	"regexp"
	"strings"
	"time"

	"github.com/cyra/apachelogs/internal/timeutil"
)

type options struct {
	bytes    bool
	encoding string
	errors   string
	locale   *timeutil.Locale
	naive    *time.Location
}

// Option configures a Parser.
type Option func(*options)

// WithBytes keeps unescaped string fields as []byte.
func WithBytes() Option {
	return func(o *options) { o.bytes = true }
}

// WithEncoding decodes unescaped string fields with the named IANA charset,
// e.g. "iso-8859-1" or "utf-8". The name "bytes" is the same as WithBytes.
func WithEncoding(name string) Option {
	return func(o *options) { o.encoding = name }
}

// WithDecodeErrors selects how invalid byte sequences are handled when
// decoding: DecodeStrict fails the line, DecodeReplace substitutes U+FFFD.
func WithDecodeErrors(mode string) Option {
	return func(o *options) { o.errors = mode }
}

// WithLocale adds month and weekday names recognized besides English.
func WithLocale(l *timeutil.Locale) Option {
	return func(o *options) { o.locale = l }
}

// WithNaiveLocation sets the zone of assembled times that carry no zone
// information of their own. The default is UTC.
func WithNaiveLocation(loc *time.Location) Option {
	return func(o *options) { o.naive = loc }
}

// Parser matches log lines against a compiled log format. It is safe for
// concurrent use.
type Parser struct {
	format   string
	captures []Capture
	re       *regexp.Regexp
	decode   decoder
	asm      timeutil.Assembler
}

// New compiles format. It fails with *InvalidDirectiveError or
// *UnknownDirectiveError when the format is not usable.
func New(format string, opts ...Option) (*Parser, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	captures, pattern, err := compileFormat(format, ApacheTables, false)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("compile log format %q: %w", format, err)
	}
	if re.NumSubexp() != len(captures) {
		return nil, fmt.Errorf("compile log format %q: %d groups for %d captures", format, re.NumSubexp(), len(captures))
	}
	dec, err := newDecoder(o.encoding, o.errors, o.bytes)
	if err != nil {
		return nil, err
	}

	return &Parser{
		format:   format,
		captures: captures,
		re:       re,
		decode:   dec,
		asm:      timeutil.Assembler{Naive: o.naive, Locale: o.locale},
	}, nil
}

// MustNew is like New but panics if the format does not compile.
func MustNew(format string, opts ...Option) *Parser {
	p, err := New(format, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Format returns the log format the parser was compiled from.
func (p *Parser) Format() string { return p.format }

// Pattern returns the anchored regular expression the format compiled to.
func (p *Parser) Pattern() string { return p.re.String() }

// Captures returns the capture descriptions in pattern order.
func (p *Parser) Captures() []Capture {
	out := make([]Capture, len(p.captures))
	copy(out, p.captures)
	return out
}

// Parse matches a single line. Trailing carriage returns and newlines are
// removed first. A line that does not match, or whose captured text cannot
// be converted, yields *InvalidEntryError.
func (p *Parser) Parse(line string) (*Entry, error) {
	line = strings.TrimRight(line, "\r\n")
	m := p.re.FindStringSubmatchIndex(line)
	if m == nil {
		return nil, &InvalidEntryError{Entry: line, Format: p.format}
	}

	b := newEntryBuilder(line, p.format, p.asm)
	for i, c := range p.captures {
		start, end := m[2+2*i], m[3+2*i]
		var v any
		if start >= 0 {
			var err error
			if v, err = c.Convert(line[start:end]); err != nil {
				return nil, p.invalid(line, fmt.Errorf("%s: %w", c.Directive, err))
			}
			if raw, ok := v.([]byte); ok {
				if v, err = p.decode(raw); err != nil {
					return nil, p.invalid(line, fmt.Errorf("%s: %w", c.Directive, err))
				}
			}
		}
		b.add(c.Path, c.Directive, v)
	}

	e, err := b.build()
	if err != nil {
		return nil, p.invalid(line, err)
	}
	return e, nil
}

func (p *Parser) invalid(line string, err error) error {
	return &InvalidEntryError{Entry: line, Format: p.format, Err: err}
}

// ParseLines parses each line of seq in a single pass. Lines that fail are
// skipped when ignoreInvalid is set; otherwise the error is yielded and the
// sequence ends.
func (p *Parser) ParseLines(seq iter.Seq[string], ignoreInvalid bool) iter.Seq2[*Entry, error] {
	return func(yield func(*Entry, error) bool) {
		for line := range seq {
			e, err := p.Parse(line)
			if err != nil {
				if ignoreInvalid {
					continue
				}
				yield(nil, err)
				return
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

// Parse compiles format and parses a single line with it.
func Parse(format, line string, opts ...Option) (*Entry, error) {
	p, err := New(format, opts...)
	if err != nil {
		return nil, err
	}
	return p.Parse(line)
}

// ParseLines compiles format and returns the parsed sequence of lines.
func ParseLines(format string, seq iter.Seq[string], ignoreInvalid bool, opts ...Option) (iter.Seq2[*Entry, error], error) {
	p, err := New(format, opts...)
	if err != nil {
		return nil, err
	}
	return p.ParseLines(seq, ignoreInvalid), nil
}
