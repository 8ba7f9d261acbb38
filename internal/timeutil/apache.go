package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ApacheLayout is the layout of the default %t timestamp without brackets.
const ApacheLayout = "02/Jan/2006:15:04:05 -0700"

var apacheTimestampRe = regexp.MustCompile(
	`^\[?([0-9]{2})/([\pL\pN_]{3})/([0-9]{4,}):([0-9]{2}):([0-9]{2}):([0-9]{2})[\t\n\v\f\r ]*([-+])([0-9]{2})([0-9]{2})\]?$`,
)

// ParseApacheTimestamp parses a timestamp in Apache's default format, e.g.
// "[19/Mar/2019:12:34:56 -0400]". The surrounding brackets are optional. The
// result carries a fixed zone for the offset, or time.UTC for +0000.
func ParseApacheTimestamp(s string) (time.Time, error) {
	m := apacheTimestampRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: apache timestamp %q", ErrMalformed, s)
	}
	month, ok := English.lookupMonth(m[2], true)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: month %q in apache timestamp", ErrMalformed, m[2])
	}
	n := make([]int, 0, 8)
	for _, part := range []string{m[1], m[3], m[4], m[5], m[6], m[8], m[9]} {
		v, err := strconv.Atoi(part)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: apache timestamp %q", ErrMalformed, s)
		}
		n = append(n, v)
	}
	day, year, hour, minute, second := n[0], n[1], n[2], n[3], n[4]
	if err := checkDate(year, month, day); err != nil {
		return time.Time{}, err
	}
	if _, err := NewClock(hour, minute, second); err != nil {
		return time.Time{}, err
	}
	offset := n[5]*3600 + n[6]*60
	if m[7] == "-" {
		offset = -offset
	}
	return time.Date(year, month, day, hour, minute, second, 0, FixedOffset(offset)), nil
}
