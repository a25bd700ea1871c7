package jscal

import (
	"fmt"
	"time"
)

// Frequency is a RecurrenceRule frequency (RFC 8984 §4.3.3).
type Frequency string

const (
	FreqYearly   Frequency = "yearly"
	FreqMonthly  Frequency = "monthly"
	FreqWeekly   Frequency = "weekly"
	FreqDaily    Frequency = "daily"
	FreqHourly   Frequency = "hourly"
	FreqMinutely Frequency = "minutely"
	FreqSecondly Frequency = "secondly"
)

// Valid reports whether f is one of the seven defined frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FreqYearly, FreqMonthly, FreqWeekly, FreqDaily, FreqHourly, FreqMinutely, FreqSecondly:
		return true
	}
	return false
}

// SkipAction says how calendar-invalid dates produced by a rule are handled.
type SkipAction string

const (
	SkipOmit     SkipAction = "omit"
	SkipForward  SkipAction = "forward"
	SkipBackward SkipAction = "backward"
)

// NDay is a byDay entry: a weekday, optionally restricted to the nth such
// weekday of the period (negative counts from the end).
type NDay struct {
	Day         string `json:"day"`
	NthOfPeriod int    `json:"nthOfPeriod,omitempty"`
}

// RecurrenceRule describes how a calendar object recurs (RFC 8984 §4.3.3).
// Optional list fields left nil mean "not set"; the recurrence package fills
// the implicit defaults before expansion.
type RecurrenceRule struct {
	Type           string     `json:"@type,omitempty"`
	Frequency      Frequency  `json:"frequency"`
	Interval       int        `json:"interval,omitempty"`
	RScale         string     `json:"rscale,omitempty"`
	Skip           SkipAction `json:"skip,omitempty"`
	FirstDayOfWeek string     `json:"firstDayOfWeek,omitempty"`
	ByDay          []NDay     `json:"byDay,omitempty"`
	ByMonthDay     []int      `json:"byMonthDay,omitempty"`
	ByMonth        []string   `json:"byMonth,omitempty"`
	ByYearDay      []int      `json:"byYearDay,omitempty"`
	ByWeekNo       []int      `json:"byWeekNo,omitempty"`
	ByHour         []int      `json:"byHour,omitempty"`
	ByMinute       []int      `json:"byMinute,omitempty"`
	BySecond       []int      `json:"bySecond,omitempty"`
	BySetPosition  []int      `json:"bySetPosition,omitempty"`
	Count          int        `json:"count,omitempty"`
	Until          string     `json:"until,omitempty"`
}

// Clone returns a deep copy of the rule.
func (r RecurrenceRule) Clone() RecurrenceRule {
	out := r
	out.ByDay = append([]NDay(nil), r.ByDay...)
	out.ByMonthDay = append([]int(nil), r.ByMonthDay...)
	out.ByMonth = append([]string(nil), r.ByMonth...)
	out.ByYearDay = append([]int(nil), r.ByYearDay...)
	out.ByWeekNo = append([]int(nil), r.ByWeekNo...)
	out.ByHour = append([]int(nil), r.ByHour...)
	out.ByMinute = append([]int(nil), r.ByMinute...)
	out.BySecond = append([]int(nil), r.BySecond...)
	out.BySetPosition = append([]int(nil), r.BySetPosition...)
	return out
}

var weekdayCodes = map[string]time.Weekday{
	"mo": time.Monday,
	"tu": time.Tuesday,
	"we": time.Wednesday,
	"th": time.Thursday,
	"fr": time.Friday,
	"sa": time.Saturday,
	"su": time.Sunday,
}

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "mo",
	time.Tuesday:   "tu",
	time.Wednesday: "we",
	time.Thursday:  "th",
	time.Friday:    "fr",
	time.Saturday:  "sa",
	time.Sunday:    "su",
}

// ParseWeekday converts a JSCalendar two-letter weekday code ("mo".."su").
func ParseWeekday(code string) (time.Weekday, error) {
	if wd, ok := weekdayCodes[code]; ok {
		return wd, nil
	}
	return 0, fmt.Errorf("invalid weekday code %q", code)
}

// WeekdayCode converts a time.Weekday to its JSCalendar two-letter code.
func WeekdayCode(wd time.Weekday) string {
	return weekdayNames[wd]
}
