package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// Assembler builds a time.Time from a Fields bag.
type Assembler struct {
	// Naive is the zone given to results whose fields carry no zone
	// information. Nil means UTC.
	Naive *time.Location
	// Locale is consulted for month and weekday names after English.
	Locale *Locale
	// Local supplies the zone names that %Z may refer to besides GMT and
	// UTC. Nil means time.Local.
	Local *time.Location
}

// Assemble is Assembler{}.Assemble.
func Assemble(f Fields) (time.Time, error) {
	return Assembler{}.Assemble(f)
}

// Assemble combines the fields into a single instant. A complete timestamp
// wins over epoch values, which win over calendar components. ErrIncomplete
// is returned when the calendar components do not determine a date and time.
func (a Assembler) Assemble(f Fields) (time.Time, error) {
	tz := a.zone(f)

	if ts, ok := f[KeyTimestamp].(time.Time); ok {
		return ts, nil
	}
	if v, ok := f.Int(KeyMicroEpoch); ok {
		return time.UnixMicro(int64(v)).In(orUTC(tz)), nil
	}
	if v, ok := f.Int(KeyMilliEpoch); ok {
		return time.UnixMilli(int64(v)).In(orUTC(tz)), nil
	}
	if v, ok := f.Int(KeyEpoch); ok {
		return time.Unix(int64(v), 0).In(orUTC(tz)), nil
	}

	isoWday, haveWday := a.isoWeekday(f)

	var (
		year    int
		thedate Date
		hasDate bool
	)
	d, dateOK := f[KeyDate].(Date)
	switch {
	case has(f, KeyYear):
		year, _ = f.Int(KeyYear)
	case dateOK:
		year = d.Year
	case has(f, KeyAbbrevYear):
		yy, _ := f.Int(KeyAbbrevYear)
		if cc, ok := f.Int(KeyCentury); ok {
			year = cc*100 + yy
		} else {
			year = pivotYear(yy)
		}
	case has(f, KeyISOYear) && has(f, KeyISOWeeknum) && haveWday:
		iy, _ := f.Int(KeyISOYear)
		iw, _ := f.Int(KeyISOWeeknum)
		t, err := FromISOCalendar(iy, iw, isoWday)
		if err != nil {
			return time.Time{}, err
		}
		thedate, hasDate = dateOf(t), true
		year = thedate.Year
	case has(f, KeyAbbrevISOYear) && has(f, KeyISOWeeknum) && haveWday:
		iy, _ := f.Int(KeyAbbrevISOYear)
		iw, _ := f.Int(KeyISOWeeknum)
		t, err := FromISOCalendar(pivotYear(iy), iw, isoWday)
		if err != nil {
			return time.Time{}, err
		}
		thedate, hasDate = dateOf(t), true
		year = thedate.Year
	default:
		return time.Time{}, ErrIncomplete
	}

	if !hasDate {
		switch {
		case dateOK:
			thedate, hasDate = d, true
		case has(f, KeyYday):
			yday, _ := f.Int(KeyYday)
			if err := checkDate(year, time.January, 1); err != nil {
				return time.Time{}, err
			}
			thedate, hasDate = dateOf(time.Date(year, time.January, yday, 0, 0, 0, 0, time.UTC)), true
		case has(f, KeySundayWeeknum) && haveWday:
			wk, _ := f.Int(KeySundayWeeknum)
			thedate, hasDate = dateOf(weekNumberDate(year, wk, isoWday, false)), true
		case has(f, KeyMondayWeeknum) && haveWday:
			wk, _ := f.Int(KeyMondayWeeknum)
			thedate, hasDate = dateOf(weekNumberDate(year, wk, isoWday, true)), true
		}
	}

	var month time.Month
	if m, ok := f.Int(KeyMon); ok {
		month = time.Month(m)
	} else if hasDate {
		month = thedate.Month
	} else if m, ok := a.monthByName(f); ok {
		month = m
	} else {
		return time.Time{}, ErrIncomplete
	}

	var day int
	if v, ok := f.Int(KeyMday); ok {
		day = v
	} else if hasDate {
		day = thedate.Day
	} else {
		return time.Time{}, ErrIncomplete
	}

	t, hasTime := f[KeyTime].(Clock)
	hm, hasHM := f[KeyHourMin].(Clock)

	var hour int
	if v, ok := f.Int(KeyHour); ok {
		hour = v
	} else if hasTime {
		hour = t.Hour
	} else if hasHM {
		hour = hm.Hour
	} else if h12, ok := f.Int(KeyHour12); ok && isAMPM(f) {
		hour = h12 % 12
		if ampm, _ := f.Str(KeyAMPM); strings.ToUpper(ampm) == "PM" {
			hour += 12
		}
	} else {
		return time.Time{}, ErrIncomplete
	}

	var minute int
	if v, ok := f.Int(KeyMin); ok {
		minute = v
	} else if hasTime {
		minute = t.Minute
	} else if hasHM {
		minute = hm.Minute
	} else {
		return time.Time{}, ErrIncomplete
	}

	var second int
	if v, ok := f.Int(KeySec); ok {
		second = v
	} else if hasTime {
		second = t.Second
	} else {
		return time.Time{}, ErrIncomplete
	}

	micro := 0
	if v, ok := f.Int(KeyUsecFrac); ok {
		micro = v
	} else if v, ok := f.Int(KeyMsecFrac); ok {
		micro = v * 1000
	}

	if err := checkDate(year, month, day); err != nil {
		return time.Time{}, err
	}
	if _, err := NewClock(hour, minute, second); err != nil {
		return time.Time{}, err
	}
	if micro < 0 || micro > 999999 {
		return time.Time{}, fmt.Errorf("%w: microsecond %d", ErrOutOfRange, micro)
	}

	loc := tz
	if loc == nil {
		loc = a.Naive
	}
	return time.Date(year, month, day, hour, minute, second, micro*1000, orUTC(loc)), nil
}

// FromISOCalendar returns the date of the given ISO year, week and weekday
// (Monday=1 .. Sunday=7).
func FromISOCalendar(year, week, wday int) (time.Time, error) {
	if year < 1 || year > 9999 {
		return time.Time{}, fmt.Errorf("%w: ISO year %d", ErrOutOfRange, year)
	}
	if wday < 1 || wday > 7 {
		return time.Time{}, fmt.Errorf("%w: ISO weekday %d", ErrOutOfRange, wday)
	}
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	if _, last := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek(); week < 1 || week > last {
		return time.Time{}, fmt.Errorf("%w: ISO week %d of %d", ErrOutOfRange, week, year)
	}
	monday := jan4.AddDate(0, 0, -((int(jan4.Weekday()) + 6) % 7))
	return monday.AddDate(0, 0, 7*(week-1)+wday-1), nil
}

// weekNumberDate resolves a %U (Sunday-first) or %W (Monday-first) week number
// and ISO weekday within year.
func weekNumberDate(year, week, isoWday int, mondayFirst bool) time.Time {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	first := (int(jan1.Weekday()) + 6) % 7
	dow := isoWday - 1
	if !mondayFirst {
		first = (first + 1) % 7
		dow = (dow + 1) % 7
	}
	var julian int
	if week == 0 {
		julian = 1 + dow - first
	} else {
		julian = 1 + (7-first)%7 + 7*(week-1) + dow
	}
	return jan1.AddDate(0, 0, julian-1)
}

func (a Assembler) isoWeekday(f Fields) (int, bool) {
	if v, ok := f.Int(KeyISOWday); ok {
		return v, true
	}
	if v, ok := f.Int(KeyWday); ok {
		if v == 0 {
			return 7, true
		}
		return v, true
	}
	for _, abbrev := range []bool{false, true} {
		key := KeyFullWday
		if abbrev {
			key = KeyAbbrevWday
		}
		name, ok := f.Str(key)
		if !ok {
			continue
		}
		for _, l := range a.locales() {
			if w, ok := l.lookupWeekday(name, abbrev); ok {
				return w, true
			}
		}
	}
	return 0, false
}

func (a Assembler) monthByName(f Fields) (time.Month, bool) {
	for _, abbrev := range []bool{false, true} {
		key := KeyFullMon
		if abbrev {
			key = KeyAbbrevMon
		}
		name, ok := f.Str(key)
		if !ok {
			continue
		}
		for _, l := range a.locales() {
			if m, ok := l.lookupMonth(name, abbrev); ok {
				return m, true
			}
		}
	}
	return 0, false
}

func (a Assembler) locales() []*Locale {
	if a.Locale == nil || a.Locale == English {
		return []*Locale{English}
	}
	return []*Locale{English, a.Locale}
}

// zone resolves the explicit %z offset, falling back to a %Z name that is
// GMT, UTC or one of the local zone's names. Nil means no zone is known.
func (a Assembler) zone(f Fields) *time.Location {
	if loc, ok := f[KeyTimezone].(*time.Location); ok && loc != nil {
		return loc
	}
	name, ok := f.Str(KeyTZName)
	if !ok {
		return nil
	}
	if name == "GMT" || name == "UTC" {
		return time.UTC
	}
	local := a.Local
	if local == nil {
		local = time.Local
	}
	year := time.Now().Year()
	for _, m := range []time.Month{time.January, time.July} {
		if zn, off := time.Date(year, m, 1, 12, 0, 0, 0, local).Zone(); zn == name {
			return time.FixedZone(zn, off)
		}
	}
	return nil
}

func has(f Fields, key string) bool {
	_, ok := f.Int(key)
	return ok
}

func isAMPM(f Fields) bool {
	s, ok := f.Str(KeyAMPM)
	if !ok {
		return false
	}
	s = strings.ToUpper(s)
	return s == "AM" || s == "PM"
}

// pivotYear expands a two-digit year the way strptime's %y does.
func pivotYear(yy int) int {
	if yy < 69 {
		return 2000 + yy
	}
	return 1900 + yy
}

func dateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
