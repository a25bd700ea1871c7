package jscal

import (
	"fmt"
	"time"
)

// ErrMalformedDateTime is returned when a string does not match the
// JSCalendar LocalDateTime grammar (YYYY-MM-DDTHH:mm:ss, no offset).
var ErrMalformedDateTime = fmt.Errorf("malformed local date-time")

const localDateTimeLayout = "2006-01-02T15:04:05"

// LocalDateTime is a wall-clock date-time with no UTC offset, as used for
// JSCalendar start, due, until and recurrence-override keys (RFC 8984 §1.4.4).
// The zero value is not a valid date.
type LocalDateTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// ParseLocalDateTime parses s in the form YYYY-MM-DDTHH:mm:ss. Calendar-invalid
// dates (e.g. February 30th) are rejected.
func ParseLocalDateTime(s string) (LocalDateTime, error) {
	t, err := time.Parse(localDateTimeLayout, s)
	if err != nil {
		return LocalDateTime{}, fmt.Errorf("%w: %q", ErrMalformedDateTime, s)
	}
	return FromTime(t), nil
}

// FromTime extracts the wall-clock fields of t, discarding its location.
func FromTime(t time.Time) LocalDateTime {
	return LocalDateTime{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// String returns the canonical YYYY-MM-DDTHH:mm:ss form. Lexicographic order
// on this form equals chronological order, which the expansion engine relies
// on for all of its key comparisons.
func (t LocalDateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d",
		t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second)
}

// In interprets the wall-clock fields in the given location.
func (t LocalDateTime) In(loc *time.Location) time.Time {
	return time.Date(t.Year, time.Month(t.Month), t.Day, t.Hour, t.Minute, t.Second, 0, loc)
}

// Compare returns -1, 0 or 1 depending on whether t is before, equal to or
// after u.
func (t LocalDateTime) Compare(u LocalDateTime) int {
	a, b := t.String(), u.String()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// IsZero reports whether t is the zero value.
func (t LocalDateTime) IsZero() bool {
	return t == LocalDateTime{}
}

// AddDate returns t shifted by the given number of years, months and days,
// normalizing overflow the same way time.Time.AddDate does.
func (t LocalDateTime) AddDate(years, months, days int) LocalDateTime {
	return FromTime(time.Date(t.Year+years, time.Month(t.Month+months), t.Day+days,
		t.Hour, t.Minute, t.Second, 0, time.UTC))
}

// Add returns t shifted by the given number of hours, minutes and seconds,
// carrying overflow into the date.
func (t LocalDateTime) Add(hours, minutes, seconds int) LocalDateTime {
	return FromTime(time.Date(t.Year, time.Month(t.Month), t.Day,
		t.Hour+hours, t.Minute+minutes, t.Second+seconds, 0, time.UTC))
}

// Weekday returns the day of the week of t's date.
func (t LocalDateTime) Weekday() time.Weekday {
	return t.In(time.UTC).Weekday()
}

// YearDay returns the 1-based day of the year of t's date.
func (t LocalDateTime) YearDay() int {
	return t.In(time.UTC).YearDay()
}

// WeekStart returns t moved back to the most recent weekStart day, keeping the
// time of day.
func (t LocalDateTime) WeekStart(weekStart time.Weekday) LocalDateTime {
	offset := (int(t.Weekday()) - int(weekStart) + 7) % 7
	if offset == 0 {
		return t
	}
	return t.AddDate(0, 0, -offset)
}

// WeekNumber returns the ISO-8601-style week-numbering year and week of t's
// date, generalized to an arbitrary first day of the week: week 1 of a year is
// the week containing January 4th.
func (t LocalDateTime) WeekNumber(weekStart time.Weekday) (year, week int) {
	ws := t.WeekStart(weekStart)
	// The 4th day of the week decides which year the week belongs to.
	year = ws.AddDate(0, 0, 3).Year
	week1 := LocalDateTime{Year: year, Month: 1, Day: 4}.WeekStart(weekStart)
	week = (dayNumber(ws.Year, ws.Month, ws.Day)-dayNumber(week1.Year, week1.Month, week1.Day))/7 + 1
	return year, week
}

// WeeksInYear returns the number of weeks in the given week-numbering year
// (52 or 53) for the given first day of the week.
func WeeksInYear(year int, weekStart time.Weekday) int {
	a := LocalDateTime{Year: year, Month: 1, Day: 4}.WeekStart(weekStart)
	b := LocalDateTime{Year: year + 1, Month: 1, Day: 4}.WeekStart(weekStart)
	return (dayNumber(b.Year, b.Month, b.Day) - dayNumber(a.Year, a.Month, a.Day)) / 7
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns 365 or 366.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

var monthLengths = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the number of days in the given month of the given year.
func DaysInMonth(year, month int) int {
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return monthLengths[month]
}

// dayNumber counts days from an arbitrary fixed origin, so that differences
// between two dates give exact day distances.
func dayNumber(year, month, day int) int {
	y := year - 1
	leaps := y/4 - y/100 + y/400
	yd := int(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).YearDay())
	return y*365 + leaps + yd
}
