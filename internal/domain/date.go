package domain

import (
	"fmt"
	"strings"
	"time"
)

// Date is a civil calendar date with no time of day or zone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// MonthKey identifies one calendar month. Calibration is computed and cached
// per MonthKey.
type MonthKey struct {
	Year  int
	Month time.Month
}

// NewDate builds a Date, rejecting values that do not exist on the calendar
// (e.g. February 30).
func NewDate(year int, month time.Month, day int) (Date, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, fmt.Errorf("%w: no such date %04d-%02d-%02d", ErrInvalidInput, year, int(month), day)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// DateOf returns the civil date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, s)
	}
	return DateOf(t), nil
}

// ParseMonth parses YYYY-MM.
func ParseMonth(s string) (MonthKey, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return MonthKey{}, fmt.Errorf("%w: month %q must be YYYY-MM", ErrInvalidInput, s)
	}
	return MonthKey{Year: t.Year(), Month: t.Month()}, nil
}

// Key returns the month containing d.
func (d Date) Key() MonthKey {
	return MonthKey{Year: d.Year, Month: d.Month}
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// MarshalText encodes the date as YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses YYYY-MM-DD.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalText encodes the month as YYYY-MM.
func (k MonthKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses YYYY-MM.
func (k *MonthKey) UnmarshalText(b []byte) error {
	parsed, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// DaysIn returns the number of days in the month.
func (k MonthKey) DaysIn() int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(k.Year, k.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Dates lists every day of the month in order.
func (k MonthKey) Dates() []Date {
	n := k.DaysIn()
	out := make([]Date, n)
	for i := range out {
		out[i] = Date{Year: k.Year, Month: k.Month, Day: i + 1}
	}
	return out
}
