package parser

import "strings"

// Path is where a captured value is stored in an Entry: a single field name,
// or a container name followed by a key within it.
type Path []string

type specKind int

const (
	kindLeaf specKind = iota
	kindGroup
	kindTable
	kindDelegate
)

// SubCompiler compiles the parameter of a directive such as %{...}t into
// captures and a pattern of its own.
type SubCompiler func(param string) ([]Capture, string, error)

// Spec describes how one directive code is matched and stored.
type Spec struct {
	kind     specKind
	path     Path
	ftype    FieldType
	table    map[string]Spec
	foldKeys bool
	sub      SubCompiler
}

// Leaf stores the value under a single field name.
func Leaf(name string, ft FieldType) Spec {
	return Spec{kind: kindLeaf, path: Path{name}, ftype: ft}
}

// NestedLeaf stores the value at a fixed path.
func NestedLeaf(path Path, ft FieldType) Spec {
	return Spec{kind: kindLeaf, path: path, ftype: ft}
}

// Discard matches text that is not stored anywhere, as for "%%".
func Discard(ft FieldType) Spec {
	return Spec{kind: kindLeaf, ftype: ft}
}

// Container stores the value in the named container under the directive's
// parameter, as %{Referer}i does with headers_in.
func Container(container string, ft FieldType) Spec {
	return Spec{kind: kindGroup, path: Path{container}, ftype: ft}
}

// Table selects a leaf by the directive's parameter from a fixed vocabulary.
// With fold set the parameter is compared case-insensitively.
func Table(fold bool, entries map[string]Spec) Spec {
	t := make(map[string]Spec, len(entries))
	for k, v := range entries {
		if fold {
			k = strings.ToLower(k)
		}
		t[k] = v
	}
	return Spec{kind: kindTable, table: t, foldKeys: fold}
}

// Delegate hands the directive's parameter to another compiler.
func Delegate(sub SubCompiler) Spec {
	return Spec{kind: kindDelegate, sub: sub}
}

func (s Spec) lookup(param string) (Spec, bool) {
	if s.foldKeys {
		param = strings.ToLower(param)
	}
	leaf, ok := s.table[param]
	return leaf, ok
}

// Tables is a directive vocabulary: codes used bare, and codes used with a
// {parameter}.
type Tables struct {
	Plain         map[string]Spec
	Parameterized map[string]Spec
}

// ApacheTables is the vocabulary of mod_log_config, mod_logio and mod_ssl.
var ApacheTables = Tables{
	Plain: map[string]Spec{
		"%": Discard(FieldType{Pattern: `%`}),
		"a": Leaf("remote_address", IPAddress),
		"A": Leaf("local_address", IPAddress),
		"b": Leaf("bytes_sent", CLF(Integer)),
		"B": Leaf("bytes_sent", Integer),
		"D": Leaf("request_duration_microseconds", Integer),
		"f": Leaf("request_file", CLFString),
		"h": Leaf("remote_host", EscString),
		"H": Leaf("request_protocol", CLFString),
		"k": Leaf("requests_on_connection", Integer),
		"l": Leaf("remote_logname", CLFWord),
		"L": Leaf("request_log_id", logID),
		"m": Leaf("request_method", CLFWord),
		"p": Leaf("server_port", Integer),
		"P": Leaf("pid", Integer),
		"q": Leaf("request_query", query),
		"r": Leaf("request_line", CLFString),
		"R": Leaf("handler", CLFString),
		"s": Leaf("status", CLF(StatusCode)),
		"t": NestedLeaf(Path{"request_time_fields", "timestamp"}, apacheTimestamp),
		"T": Leaf("request_duration_seconds", Integer),
		"u": Leaf("remote_user", RemoteUser),
		"U": Leaf("request_uri", CLFString),
		"v": Leaf("virtual_host", EscString),
		"V": Leaf("server_name", EscString),
		"X": Leaf("connection_status", connStat),

		"I":   Leaf("bytes_in", Integer),
		"O":   Leaf("bytes_out", Integer),
		"S":   Leaf("bytes_combined", Integer),
		"^FB": Leaf("ttfb", CLF(Integer)),
	},
	Parameterized: map[string]Spec{
		"a": Table(false, map[string]Spec{
			"c": Leaf("remote_client_address", IPAddress),
		}),
		"C": Container("cookies", CookieValue),
		"e": Container("env_vars", CLFString),
		"h": Table(false, map[string]Spec{
			"c": Leaf("remote_underlying_host", EscString),
		}),
		"i": Container("headers_in", CLFString),
		"L": Table(false, map[string]Spec{
			"c": Leaf("connection_log_id", logID),
		}),
		"n": Container("notes", CLFString),
		"o": Container("headers_out", CLFString),
		"p": Table(true, map[string]Spec{
			"canonical": Leaf("server_port", Integer),
			"local":     Leaf("local_port", Integer),
			"remote":    Leaf("remote_port", Integer),
		}),
		"P": Table(true, map[string]Spec{
			"pid":    Leaf("pid", Integer),
			"tid":    Leaf("tid", UInteger),
			"hextid": Leaf("tid", hexTID),
		}),
		"t": Delegate(compileStrftime),
		"T": Table(true, map[string]Spec{
			"ms": Leaf("request_duration_milliseconds", Integer),
			"us": Leaf("request_duration_microseconds", Integer),
			"s":  Leaf("request_duration_seconds", Integer),
		}),
		"^ti": Container("trailers_in", CLFString),
		"^to": Container("trailers_out", CLFString),

		"c": Container("cryptography", anyText),
		"x": Container("variables", anyText),
	},
}

// caseInsensitiveGroups are containers whose keys Apache itself looks up
// without regard to case.
var caseInsensitiveGroups = map[string]bool{
	"cookies":      true,
	"cryptography": true,
	"env_vars":     true,
	"headers_in":   true,
	"headers_out":  true,
	"notes":        true,
	"trailers_in":  true,
	"trailers_out": true,
	"variables":    true,
}

func isCaseInsensitive(container string) bool {
	for _, prefix := range []string{originalPrefix, finalPrefix} {
		container = strings.TrimPrefix(container, prefix)
	}
	return caseInsensitiveGroups[container]
}
