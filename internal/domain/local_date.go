package domain

import (
	"fmt"
	"time"
)

// LocalDate is a calendar day with no time-of-day and no timezone attached.
// Snapshot-day boundaries are resolved in the device's local timezone, so a
// LocalDate must only ever be derived through LocalDateOf with the client's
// zone — never from UTC wall-clock time.
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// LocalDateOf resolves the calendar day of t in the given location.
func LocalDateOf(t time.Time, loc *time.Location) LocalDate {
	y, m, d := t.In(loc).Date()
	return LocalDate{Year: y, Month: m, Day: d}
}

// ParseLocalDate parses a date in ISO "2006-01-02" form.
func ParseLocalDate(s string) (LocalDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return LocalDate{}, fmt.Errorf("%w: %q is not a calendar date", ErrInvalidFormat, s)
	}
	y, m, d := t.Date()
	return LocalDate{Year: y, Month: m, Day: d}, nil
}

// String renders the date in ISO "2006-01-02" form.
func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// IsZero reports whether the date is the zero value.
func (d LocalDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns midnight of the date in UTC. Used for date arithmetic and for
// storing the date in a DATE column; the UTC anchor carries no day-boundary
// meaning.
func (d LocalDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n calendar days after d (n may be negative).
func (d LocalDate) AddDays(n int) LocalDate {
	y, m, day := d.Time().AddDate(0, 0, n).Date()
	return LocalDate{Year: y, Month: m, Day: day}
}

// DaysSince returns the number of calendar days from other to d.
// Positive when d is later than other.
func (d LocalDate) DaysSince(other LocalDate) int {
	return int(d.Time().Sub(other.Time()).Hours() / 24)
}

// Equal reports whether two dates name the same calendar day.
func (d LocalDate) Equal(other LocalDate) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}
