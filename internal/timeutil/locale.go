package timeutil

import "time"

// Locale supplies month and weekday names for matching %a, %A, %b and %B.
// Weekdays are listed Monday first.
type Locale struct {
	Months         [12]string
	MonthAbbrevs   [12]string
	Weekdays       [7]string
	WeekdayAbbrevs [7]string
}

// English is the C locale. It is always consulted before any other locale.
var English = &Locale{
	Months: [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	MonthAbbrevs: [12]string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	},
	Weekdays: [7]string{
		"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
	},
	WeekdayAbbrevs: [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
}

func (l *Locale) lookupMonth(name string, abbrev bool) (time.Month, bool) {
	names := l.Months
	if abbrev {
		names = l.MonthAbbrevs
	}
	for i, n := range names {
		if n != "" && n == name {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// lookupWeekday returns the ISO weekday (Monday=1 .. Sunday=7).
func (l *Locale) lookupWeekday(name string, abbrev bool) (int, bool) {
	names := l.Weekdays
	if abbrev {
		names = l.WeekdayAbbrevs
	}
	for i, n := range names {
		if n != "" && n == name {
			return i + 1, true
		}
	}
	return 0, false
}
