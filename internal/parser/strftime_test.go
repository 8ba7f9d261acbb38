package parser

import (
	"testing"
	"time"

	"github.com/cyra/apachelogs/internal/timeutil"
	"github.com/itchyny/timefmt-go"
)

func TestStrftimeRoundTrip(t *testing.T) {
	edt := time.FixedZone("", -4*3600)
	ist := time.FixedZone("", 5*3600+30*60)
	instants := []time.Time{
		time.Date(2019, 5, 6, 12, 9, 43, 0, time.UTC),
		time.Date(2020, 1, 1, 0, 0, 0, 0, edt),
		time.Date(2018, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2021, 1, 3, 7, 8, 9, 0, ist),
		time.Date(2024, 2, 29, 13, 0, 0, 0, edt),
	}

	tests := []struct {
		name     string
		strftime string
		logfmt   string
		withFrac bool
	}{
		{name: "numeric", strftime: "%Y-%m-%d %H:%M:%S %z"},
		{name: "compact", strftime: "%Y%m%d%H%M%S%z"},
		{name: "iso date and time", strftime: "%F %T %z"},
		{name: "rfc 2822", strftime: "%a, %d %b %Y %H:%M:%S %z"},
		{name: "names and 12-hour clock", strftime: "%A %B %e %Y %I:%M:%S %p %z"},
		{name: "short date", strftime: "%D %R:%S %z"},
		{name: "century", strftime: "%C%y-%m-%d %T %z"},
		{name: "iso week date", strftime: "%G-W%V-%u %T %z"},
		{name: "day of year", strftime: "%Y %j %T %z"},
		{name: "sunday weeks", strftime: "%Y %U %w %T %z"},
		{name: "monday weeks", strftime: "%Y %W %u %T %z"},
		{name: "tabs and newlines", strftime: "%Y-%m-%d%t%T%n%z"},
		{name: "epoch", strftime: "%s"},
		{
			name:     "microseconds",
			strftime: "%F %T.%f %z",
			logfmt:   "%{%F %T}t.%{usec_frac}t %{%z}t",
			withFrac: true,
		},
	}

	for _, tt := range tests {
		logfmt := tt.logfmt
		if logfmt == "" {
			logfmt = "%{" + tt.strftime + "}t"
		}
		p, err := New(logfmt)
		if err != nil {
			t.Fatalf("New(%q) error = %v", logfmt, err)
		}
		for _, want := range instants {
			if tt.withFrac {
				want = want.Add(123456 * time.Microsecond)
			}
			line := timefmt.Format(want, tt.strftime)
			t.Run(tt.name+"/"+line, func(t *testing.T) {
				e, err := p.Parse(line)
				if err != nil {
					t.Fatalf("Parse(%q) error = %v", line, err)
				}
				got, ok := e.Time("request_time")
				if !ok {
					t.Fatalf("request_time missing: %v", e.Fields())
				}
				if !got.Equal(want) {
					t.Errorf("request_time = %v, want %v", got, want)
				}
				if tt.strftime == "%s" {
					return
				}
				_, gotOff := got.Zone()
				_, wantOff := want.Zone()
				if gotOff != wantOff {
					t.Errorf("offset = %d, want %d", gotOff, wantOff)
				}
			})
		}
	}
}

func TestStrftimeZoneNames(t *testing.T) {
	want := time.Date(2019, 5, 6, 12, 9, 43, 0, time.UTC)
	for _, zone := range []string{"UTC", "GMT"} {
		line := timefmt.Format(want, "%Y-%m-%d %H:%M:%S ") + zone
		e, err := Parse("%{%Y-%m-%d %H:%M:%S %Z}t", line)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", line, err)
		}
		got, _ := e.Time("request_time")
		if !got.Equal(want) || got.Location() != time.UTC {
			t.Errorf("request_time = %v, want %v in UTC", got, want)
		}
		if v, _ := e.Group("request_time_fields").Get("tzname"); v != zone {
			t.Errorf("tzname = %v, want %s", v, zone)
		}
	}
}

func TestStrftimeWithoutZoneIsNaive(t *testing.T) {
	e, err := Parse("%{%d/%b/%Y:%T}t", "06/May/2019:12:09:43")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	got, _ := e.Time("request_time")
	if want := utc(2019, 5, 6, 12, 9, 43, 0); !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("request_time = %v, want %v", got, want)
	}
}

func TestStrftimeFieldValues(t *testing.T) {
	e, err := Parse("%{%D %R %p %Z %j}t", "05/06/19 12:09 PM EST 126")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if v, _ := e.Get("request_time"); v != nil {
		t.Errorf("request_time = %v, want nil without seconds", v)
	}
	checkEntry(t, e, fields{
		"request_time_fields": map[string]any{
			"date":     timeutil.Date{Year: 2019, Month: time.May, Day: 6},
			"hour_min": timeutil.Clock{Hour: 12, Minute: 9},
			"am_pm":    "PM",
			"tzname":   "EST",
			"yday":     126,
		},
	})
	if d, _ := e.Directive("%{%D}t"); d == nil {
		t.Errorf("%%{%%D}t not recorded")
	}
}
