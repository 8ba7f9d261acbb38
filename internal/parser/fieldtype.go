package parser

import (
	"strconv"
	"strings"
)

// Converter turns the text matched for a directive into a typed value. It is
// never called for a capture that did not participate in the match.
type Converter func(s string) (any, error)

// FieldType pairs a regular expression fragment with the converter for the
// text it matches. Fragments contain no capturing groups.
type FieldType struct {
	Pattern string
	Convert Converter
}

// CLF widens ft to also accept a lone "-", which converts to nil.
func CLF(ft FieldType) FieldType {
	return FieldType{
		Pattern: `(?:` + ft.Pattern + `|-)`,
		Convert: func(s string) (any, error) {
			if s == "-" {
				return nil, nil
			}
			return ft.Convert(s)
		},
	}
}

const (
	ipByte = `(?:[1-9]?[0-9]|1[0-9][0-9]|2[0-4][0-9]|25[0-5])`
	hextet = `[0-9A-Fa-f]{1,4}`
	ipv4   = ipByte + `(?:\.` + ipByte + `){3}`

	escAtom   = `(?:[ !\x23-\x5B\x5D-\x7E]|\\x[0-9A-Fa-f]{2}|\\.)`
	wordAtom  = `(?:[!\x23-\x5B\x5D-\x7E]|\\x[0-9A-Fa-f]{2}|\\.)`
	crumbAtom = `(?:[!\x23-\x3A\x3C-\x5B\x5D-\x7E]|\\x[0-9A-Fa-f]{2}|\\.)`
)

func ipPattern() string {
	h := hextet
	alts := []string{
		ipv4,
		`(?:` + h + `:){7}(?:` + h + `|:)`,
		`(?:` + h + `:){6}(?::` + h + `|` + ipv4 + `|:)`,
		`(?:` + h + `:){5}(?:(?::` + h + `){1,2}|:` + ipv4 + `|:)`,
		`(?:` + h + `:){4}(?:(?::` + h + `){1,3}|(?::` + h + `)?:` + ipv4 + `|:)`,
		`(?:` + h + `:){3}(?:(?::` + h + `){1,4}|(?::` + h + `){0,2}:` + ipv4 + `|:)`,
		`(?:` + h + `:){2}(?:(?::` + h + `){1,5}|(?::` + h + `){0,3}:` + ipv4 + `|:)`,
		`(?:` + h + `:){1}(?:(?::` + h + `){1,6}|(?::` + h + `){0,4}:` + ipv4 + `|:)`,
		`:(?:(?::` + h + `){1,7}|(?::` + h + `){0,5}:` + ipv4 + `|:)`,
	}
	return `(?:` + strings.Join(alts, "|") + `)`
}

func asString(s string) (any, error) { return s, nil }

func asBytes(s string) (any, error) { return Unescape(s), nil }

func asInt(s string) (any, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func asUint(s string) (any, error) {
	return strconv.ParseUint(s, 10, 64)
}

func asHexUint(s string) (any, error) {
	return strconv.ParseUint(s, 16, 64)
}

// Field types shared by the directive tables. String-like types that carry
// Apache escapes convert to []byte; the parser decodes them afterwards.
var (
	IPAddress  = FieldType{Pattern: ipPattern(), Convert: asString}
	Integer    = FieldType{Pattern: `(?:0|-?[1-9][0-9]*)`, Convert: asInt}
	UInteger   = FieldType{Pattern: `(?:0|[1-9][0-9]*)`, Convert: asUint}
	StatusCode = FieldType{Pattern: `[0-9]{3}`, Convert: asInt}
	EscString  = FieldType{Pattern: escAtom + `*?`, Convert: asBytes}
	EscWord    = FieldType{Pattern: wordAtom + `*?`, Convert: asBytes}
	CLFString  = CLF(EscString)
	CLFWord    = CLF(EscWord)

	// RemoteUser is CLFString that also accepts "" for an empty name.
	RemoteUser = FieldType{
		Pattern: `(?:` + CLFString.Pattern + `|"")`,
		Convert: func(s string) (any, error) {
			if s == `""` {
				s = ""
			}
			return CLFString.Convert(s)
		},
	}

	// CookieValue has no leading or trailing spaces and no semicolons.
	CookieValue = CLF(FieldType{
		Pattern: crumbAtom + `(?:(?:` + crumbAtom + `|[ ])*` + crumbAtom + `)?`,
		Convert: asBytes,
	})

	logID    = CLF(FieldType{Pattern: `[-@/+A-Za-z0-9]+`, Convert: asString})
	anyText  = CLF(FieldType{Pattern: `.+?`, Convert: asString})
	hexTID   = FieldType{Pattern: `[0-9A-Fa-f]+`, Convert: asHexUint}
	connStat = FieldType{Pattern: `[-+X]`, Convert: asString}
	query    = FieldType{
		Pattern: `(?:\?(?:[!\x24-\x5B\x5D-\x7E]|\\x[0-9A-Fa-f]{2}|\\.)*?)?`,
		Convert: asBytes,
	}
)
