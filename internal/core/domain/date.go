package domain

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrMalformedDate = errors.New("malformed date (must be YYYY-MM-DD)")
)

const DateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day and no location.
// Two Dates are equal iff they name the same day, so Date can be used as a map key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the calendar day of now as seen from loc.
func Today(now time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now.In(loc))
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return DateOf(t), nil
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) Before(o Date) bool {
	return d.Time().Before(o.Time())
}

func (d Date) After(o Date) bool {
	return d.Time().After(o.Time())
}

// DaysUntil returns the number of days from d to o (negative if o is earlier).
func (d Date) DaysUntil(o Date) int {
	return int(o.Time().Sub(d.Time()).Hours() / 24)
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// ISOWeekday numbers days Monday=0 .. Sunday=6.
func (d Date) ISOWeekday() int {
	return ISOWeekdayFromSunday(int(d.Weekday()))
}

// StartOfWeek returns the Monday of the week containing d.
func (d Date) StartOfWeek() Date {
	return d.AddDays(-d.ISOWeekday())
}

// Label formats the day the way chart axes show it ("Jan 2").
func (d Date) Label() string {
	return d.Time().Format("Jan 2")
}

func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

// ISOWeekdayFromSunday remaps a Sunday=0 weekday index to Monday=0.
func ISOWeekdayFromSunday(raw int) int {
	return ((raw%7)+7+6) % 7
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*d = Date{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrMalformedDate, s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		parsed, err := parseStoredDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := parseStoredDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrMalformedDate, src)
	}
}

// parseStoredDate accepts the DATE text form and timestamp forms some drivers return.
func parseStoredDate(s string) (Date, error) {
	if len(s) > len(DateLayout) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return DateOf(t), nil
		}
		s = s[:len(DateLayout)]
	}
	return ParseDate(s)
}
