package parser

import (
	"slices"
	"strings"
)

// Predefined log formats, as shipped in Apache and Debian configurations.
const (
	Common         = `%h %l %u %t "%r" %>s %b`
	CommonDebian   = `%h %l %u %t "%r" %>s %O`
	VhostCommon    = `%v %h %l %u %t "%r" %>s %b`
	Combined       = `%h %l %u %t "%r" %>s %b "%{Referer}i" "%{User-Agent}i"`
	CombinedDebian = `%h %l %u %t "%r" %>s %O "%{Referer}i" "%{User-Agent}i"`
	VhostCombined  = `%v:%p %h %l %u %t "%r" %>s %O "%{Referer}i" "%{User-Agent}i"`
	Referer        = `%{Referer}i -> %U`
	Agent          = `%{User-Agent}i`
)

var formats = map[string]string{
	"COMMON":          Common,
	"COMMON_DEBIAN":   CommonDebian,
	"VHOST_COMMON":    VhostCommon,
	"COMBINED":        Combined,
	"COMBINED_DEBIAN": CombinedDebian,
	"VHOST_COMBINED":  VhostCombined,
	"REFERER":         Referer,
	"AGENT":           Agent,
}

// LookupFormat returns the predefined format with the given name, compared
// case-insensitively.
func LookupFormat(name string) (string, bool) {
	f, ok := formats[strings.ToUpper(name)]
	return f, ok
}

// ResolveFormat returns the predefined format called s, or s itself.
func ResolveFormat(s string) string {
	if f, ok := LookupFormat(s); ok {
		return f
	}
	return s
}

// Formats returns the names of the predefined formats in sorted order.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
