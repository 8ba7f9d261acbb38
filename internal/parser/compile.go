package parser

import (
	"regexp"
	"strings"
)

const (
	originalPrefix = "original_"
	finalPrefix    = "final_"
)

// Capture describes one capturing group of a compiled format.
type Capture struct {
	// Path is where the converted value is stored. Empty for directives
	// that are matched but not stored.
	Path Path
	// Directive is the exact directive text that produced the capture.
	Directive string
	Convert   Converter
}

// directive is one lexed %-directive.
type directive struct {
	text     string
	pos      int
	mods1    string
	mods2    string
	param    string
	hasParam bool
	code     string
}

func isModifier(c byte) bool {
	return '0' <= c && c <= '9' || c == ',' || c == '!' || c == '<' || c == '>'
}

func isCodeChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '%'
}

// lexDirective reads the directive starting at format[pos], which must be
// '%'. The grammar is
//
//	% modifiers [ "{" param "}" ] modifiers code
//
// where modifiers are drawn from [0-9,!<>] and code is one letter or "%",
// or "^" followed by two such characters.
func lexDirective(format string, pos int) (directive, bool) {
	d := directive{pos: pos}
	i := pos + 1
	start := i
	for i < len(format) && isModifier(format[i]) {
		i++
	}
	d.mods1 = format[start:i]
	if i < len(format) && format[i] == '{' {
		end := strings.IndexByte(format[i+1:], '}')
		if end < 0 {
			return d, false
		}
		d.param = format[i+1 : i+1+end]
		d.hasParam = true
		i += end + 2
	}
	start = i
	for i < len(format) && isModifier(format[i]) {
		i++
	}
	d.mods2 = format[start:i]
	switch {
	case i+2 < len(format) && format[i] == '^' && isCodeChar(format[i+1]) && isCodeChar(format[i+2]):
		d.code = format[i : i+3]
		i += 3
	case i < len(format) && isCodeChar(format[i]):
		d.code = format[i : i+1]
		i++
	default:
		return d, false
	}
	d.text = format[pos:i]
	return d, true
}

// compileFormat translates format into a regular expression fragment with
// one capturing group per stored directive. In simple mode directives may
// carry neither modifiers nor a parameter.
func compileFormat(format string, tables Tables, simple bool) ([]Capture, string, error) {
	var (
		captures []Capture
		pattern  strings.Builder
		literal  strings.Builder
	)
	flush := func() {
		if literal.Len() > 0 {
			pattern.WriteString(regexp.QuoteMeta(literal.String()))
			literal.Reset()
		}
	}

	for i := 0; i < len(format); {
		if format[i] != '%' {
			literal.WriteByte(format[i])
			i++
			continue
		}
		d, ok := lexDirective(format, i)
		if !ok {
			return nil, "", &InvalidDirectiveError{Format: format, Pos: i}
		}
		i += len(d.text)
		flush()

		caps, frag, err := compileDirective(format, d, tables, simple)
		if err != nil {
			return nil, "", err
		}
		pattern.WriteString(frag)
		captures = append(captures, caps...)
	}
	flush()
	return captures, pattern.String(), nil
}

func compileDirective(format string, d directive, tables Tables, simple bool) ([]Capture, string, error) {
	mods := d.mods1 + d.mods2
	if simple && (mods != "" || d.hasParam) {
		return nil, "", &InvalidDirectiveError{Format: format, Pos: d.pos}
	}
	conditioned := strings.ContainsAny(mods, "0123456789")
	unknown := &UnknownDirectiveError{Directive: d.text}

	var leaf Spec
	if d.hasParam {
		spec, ok := tables.Parameterized[d.code]
		if !ok {
			return nil, "", unknown
		}
		switch spec.kind {
		case kindTable:
			if leaf, ok = spec.lookup(d.param); !ok {
				return nil, "", unknown
			}
		case kindGroup:
			leaf = NestedLeaf(Path{spec.path[0], d.param}, spec.ftype)
		case kindDelegate:
			sub, frag, err := spec.sub(d.param)
			if err != nil {
				return nil, "", err
			}
			for i := range sub {
				sub[i].Directive = "%" + d.mods1 + "{" + sub[i].Directive + "}" + d.mods2 + d.code
			}
			if conditioned {
				frag = `(?:` + frag + `|-)`
			}
			redirect(sub, mods)
			return sub, frag, nil
		default:
			leaf = spec
		}
	} else {
		spec, ok := tables.Plain[d.code]
		if !ok || spec.kind != kindLeaf {
			return nil, "", unknown
		}
		leaf = spec
	}

	if len(leaf.path) == 0 {
		return nil, `(?:` + leaf.ftype.Pattern + `)`, nil
	}
	ft := leaf.ftype
	if conditioned {
		ft = CLF(ft)
	}
	caps := []Capture{{
		Path:      append(Path(nil), leaf.path...),
		Directive: d.text,
		Convert:   ft.Convert,
	}}
	redirect(caps, mods)
	return caps, `(` + ft.Pattern + `)`, nil
}

// redirect applies the last "<" or ">" modifier to the first path element.
func redirect(caps []Capture, mods string) {
	i := strings.LastIndexAny(mods, "<>")
	if i < 0 {
		return
	}
	prefix := originalPrefix
	if mods[i] == '>' {
		prefix = finalPrefix
	}
	for j := range caps {
		p := append(Path(nil), caps[j].Path...)
		p[0] = prefix + p[0]
		caps[j].Path = p
	}
}
