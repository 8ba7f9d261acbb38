package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/cyra/apachelogs/internal/timeutil"
)

const (
	strYear    = `[0-9]{4,}`
	strMonth   = `(?:0[1-9]|1[012])`
	strMday    = `(?:[ 0][1-9]|[12][0-9]|3[01])`
	strHour    = `(?:[ 01][0-9]|2[0-3])`
	strHour12  = `(?:[ 0][1-9]|1[0-2])`
	strMinute  = `[ 0-5][0-9]`
	strSecond  = `(?:[0-5][0-9]|60)`
	strWeeknum = `(?:[0-4][0-9]|5[0-3])`
	strISOWeek = `(?:0[1-9]|[1-4][0-9]|5[0-3])`
	strSpace   = `[\t\n\v\f\r ]*`
)

var (
	word  = FieldType{Pattern: `[\pL\pN_]+`, Convert: asString}
	word0 = FieldType{Pattern: `[\pL\pN_]*`, Convert: asString}

	apacheTimestamp = FieldType{
		Pattern: `\[[^\]]+\]`,
		Convert: func(s string) (any, error) { return timeutil.ParseApacheTimestamp(s) },
	}
)

func num(pattern string) FieldType {
	return FieldType{Pattern: pattern, Convert: asInt}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func asDate(s string) (any, error) {
	var y, m, d int
	if strings.Count(s, "/") == 2 {
		// %D is %m/%d/%y
		parts := strings.Split(s, "/")
		m, d, y = atoi(parts[0]), atoi(parts[1]), atoi(parts[2])
		if y < 69 {
			y += 2000
		} else {
			y += 1900
		}
	} else {
		i := strings.LastIndexByte(s, '-')
		j := strings.LastIndexByte(s[:i], '-')
		y, m, d = atoi(s[:j]), atoi(s[j+1:i]), atoi(s[i+1:])
	}
	return timeutil.NewDate(y, time.Month(m), d)
}

func asClock(s string) (any, error) {
	parts := strings.Split(s, ":")
	sec := 0
	if len(parts) == 3 {
		sec = atoi(parts[2])
	}
	return timeutil.NewClock(atoi(parts[0]), atoi(parts[1]), sec)
}

func asOffset(s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	return timeutil.ParseOffset(s)
}

// strftimeTables covers the POSIX strftime conversions whose output can be
// parsed back. The locale-dependent composites %c, %r, %x and %X and the E
// and O modifiers are not supported.
var strftimeTables = Tables{
	Plain: map[string]Spec{
		"%": Discard(FieldType{Pattern: `%`}),
		"a": Leaf(timeutil.KeyAbbrevWday, word),
		"A": Leaf(timeutil.KeyFullWday, word),
		"b": Leaf(timeutil.KeyAbbrevMon, word),
		"B": Leaf(timeutil.KeyFullMon, word),
		"C": Leaf(timeutil.KeyCentury, num(`[0-9]{2,}`)),
		"d": Leaf(timeutil.KeyMday, num(strMday)),
		"D": Leaf(timeutil.KeyDate, FieldType{Pattern: strMonth + `/` + strMday + `/[0-9][0-9]`, Convert: asDate}),
		"e": Leaf(timeutil.KeyMday, num(strMday)),
		"F": Leaf(timeutil.KeyDate, FieldType{Pattern: strYear + `-` + strMonth + `-` + strMday, Convert: asDate}),
		"g": Leaf(timeutil.KeyAbbrevISOYear, num(`[0-9][0-9]`)),
		"G": Leaf(timeutil.KeyISOYear, num(strYear)),
		"h": Leaf(timeutil.KeyAbbrevMon, word),
		"H": Leaf(timeutil.KeyHour, num(strHour)),
		"I": Leaf(timeutil.KeyHour12, num(strHour12)),
		"j": Leaf(timeutil.KeyYday, num(`(?:0(?:0[1-9]|[1-9][0-9])|[12][0-9][0-9]|3(?:[0-5][0-9]|6[0-6]))`)),
		"m": Leaf(timeutil.KeyMon, num(strMonth)),
		"M": Leaf(timeutil.KeyMin, num(strMinute)),
		"n": Discard(FieldType{Pattern: strSpace}),
		// %p is empty in some locales.
		"p": Leaf(timeutil.KeyAMPM, word0),
		"R": Leaf(timeutil.KeyHourMin, FieldType{Pattern: strHour + `:` + strMinute, Convert: asClock}),
		"s": Leaf(timeutil.KeyEpoch, Integer),
		"S": Leaf(timeutil.KeySec, num(strSecond)),
		"t": Discard(FieldType{Pattern: strSpace}),
		"T": Leaf(timeutil.KeyTime, FieldType{Pattern: strHour + `:` + strMinute + `:` + strSecond, Convert: asClock}),
		"u": Leaf(timeutil.KeyISOWday, num(`[1-7]`)),
		"U": Leaf(timeutil.KeySundayWeeknum, num(strWeeknum)),
		"V": Leaf(timeutil.KeyISOWeeknum, num(strISOWeek)),
		"w": Leaf(timeutil.KeyWday, num(`[0-6]`)),
		"W": Leaf(timeutil.KeyMondayWeeknum, num(strWeeknum)),
		"y": Leaf(timeutil.KeyAbbrevYear, num(`[0-9][0-9]`)),
		"Y": Leaf(timeutil.KeyYear, num(strYear)),
		"z": Leaf(timeutil.KeyTimezone, FieldType{Pattern: `(?:[-+](?:[01][0-9]|2[0-3])[0-5][0-9])?`, Convert: asOffset}),
		"Z": Leaf(timeutil.KeyTZName, word0),
	},
}

// specialTimeParams are %{...}t parameters that are not strftime formats.
var specialTimeParams = map[string]Spec{
	"":          Leaf(timeutil.KeyTimestamp, apacheTimestamp),
	"sec":       Leaf(timeutil.KeyEpoch, Integer),
	"msec":      Leaf(timeutil.KeyMilliEpoch, Integer),
	"usec":      Leaf(timeutil.KeyMicroEpoch, Integer),
	"msec_frac": Leaf(timeutil.KeyMsecFrac, num(`[0-9]{3}`)),
	"usec_frac": Leaf(timeutil.KeyUsecFrac, num(`[0-9]{6}`)),
}

const timeFieldsName = "request_time_fields"

// compileStrftime compiles the parameter of a %{...}t directive. A leading
// "begin:" or "end:" routes the values to begin_request_time_fields or
// end_request_time_fields.
func compileStrftime(param string) ([]Capture, string, error) {
	var prefix, modifier string
	for _, scope := range []string{"begin", "end"} {
		if param == scope || strings.HasPrefix(param, scope+":") {
			prefix = scope + "_"
			modifier = param[:min(len(param), len(scope)+1)]
			param = param[len(modifier):]
			break
		}
	}
	container := prefix + timeFieldsName

	if spec, ok := specialTimeParams[param]; ok {
		return []Capture{{
			Path:      Path{container, spec.path[0]},
			Directive: modifier + param,
			Convert:   spec.ftype.Convert,
		}}, `(` + spec.ftype.Pattern + `)`, nil
	}

	caps, pattern, err := compileFormat(param, strftimeTables, true)
	if err != nil {
		return nil, "", err
	}
	for i := range caps {
		caps[i].Path = Path{container, caps[i].Path[0]}
		caps[i].Directive = modifier + caps[i].Directive
	}
	return caps, pattern, nil
}
