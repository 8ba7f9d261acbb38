// Package timeutil holds the time-of-request value types and the logic that
// turns a bag of partial strftime fields into a single time.Time.
package timeutil

import (
	"fmt"
	"strconv"
	"time"
)

// Keys of the time-field bag. Each strftime directive stores its value under
// one of these names.
const (
	KeyTimestamp     = "timestamp"
	KeyEpoch         = "epoch"
	KeyMilliEpoch    = "milliepoch"
	KeyMicroEpoch    = "microepoch"
	KeyMsecFrac      = "msec_frac"
	KeyUsecFrac      = "usec_frac"
	KeyAbbrevWday    = "abbrev_wday"
	KeyFullWday      = "full_wday"
	KeyAbbrevMon     = "abbrev_mon"
	KeyFullMon       = "full_mon"
	KeyCentury       = "century"
	KeyMday          = "mday"
	KeyDate          = "date"
	KeyAbbrevISOYear = "abbrev_iso_year"
	KeyISOYear       = "iso_year"
	KeyHour          = "hour"
	KeyHour12        = "hour12"
	KeyYday          = "yday"
	KeyMon           = "mon"
	KeyMin           = "min"
	KeyAMPM          = "am_pm"
	KeyHourMin       = "hour_min"
	KeySec           = "sec"
	KeyTime          = "time"
	KeyISOWday       = "iso_wday"
	KeySundayWeeknum = "sunday_weeknum"
	KeyISOWeeknum    = "iso_weeknum"
	KeyWday          = "wday"
	KeyMondayWeeknum = "monday_weeknum"
	KeyAbbrevYear    = "abbrev_year"
	KeyYear          = "year"
	KeyTimezone      = "timezone"
	KeyTZName        = "tzname"
)

// Fields is a bag of partially-specified time components keyed by the Key*
// constants. A nil value is treated the same as an absent key.
type Fields map[string]any

// Int returns the integer stored under key.
func (f Fields) Int(key string) (int, bool) {
	switch v := f[key].(type) {
	case int64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// Str returns the non-empty string stored under key.
func (f Fields) Str(key string) (string, bool) {
	s, ok := f[key].(string)
	return s, ok && s != ""
}

// Date is a calendar date with no time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate validates the components and returns the date.
func NewDate(year int, month time.Month, day int) (Date, error) {
	if err := checkDate(year, month, day); err != nil {
		return Date{}, err
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText renders the date as YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Clock is a time of day with no date or zone.
type Clock struct {
	Hour   int
	Minute int
	Second int
}

// NewClock validates the components and returns the time of day.
func NewClock(hour, minute, second int) (Clock, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return Clock{}, fmt.Errorf("%w: time %02d:%02d:%02d", ErrOutOfRange, hour, minute, second)
	}
	return Clock{Hour: hour, Minute: minute, Second: second}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// MarshalText renders the clock as HH:MM:SS.
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// FixedOffset returns the zone for an offset east of UTC in seconds. A zero
// offset yields time.UTC.
func FixedOffset(seconds int) *time.Location {
	if seconds == 0 {
		return time.UTC
	}
	return time.FixedZone(FormatOffset(seconds), seconds)
}

// FormatOffset renders seconds east of UTC as +HHMM.
func FormatOffset(seconds int) string {
	sign := byte('+')
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("%c%02d%02d", sign, seconds/3600, seconds/60%60)
}

// ParseOffset parses a +HHMM or -HHMM UTC offset into a zone.
func ParseOffset(s string) (*time.Location, error) {
	if len(s) != 5 || (s[0] != '+' && s[0] != '-') {
		return nil, fmt.Errorf("%w: offset %q", ErrMalformed, s)
	}
	hh, err := strconv.Atoi(s[1:3])
	if err != nil {
		return nil, fmt.Errorf("%w: offset %q", ErrMalformed, s)
	}
	mm, err := strconv.Atoi(s[3:5])
	if err != nil {
		return nil, fmt.Errorf("%w: offset %q", ErrMalformed, s)
	}
	secs := hh*3600 + mm*60
	if s[0] == '-' {
		secs = -secs
	}
	return FixedOffset(secs), nil
}

func checkDate(year int, month time.Month, day int) error {
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: year %d", ErrOutOfRange, year)
	}
	if month < time.January || month > time.December {
		return fmt.Errorf("%w: month %d", ErrOutOfRange, int(month))
	}
	if day < 1 || day > daysIn(year, month) {
		return fmt.Errorf("%w: day %d of %04d-%02d", ErrOutOfRange, day, year, int(month))
	}
	return nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
