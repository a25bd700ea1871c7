// Package query filters JSCalendar objects by text content and date range,
// the in-process equivalent of a CalDAV calendar-query.
package query

import (
	"strings"

	"github.com/cyp0633/libjscalendar/jscal"
)

// TextMatch describes a free-text constraint.
type TextMatch struct {
	MatchType     string // "equals" or "contains" (default)
	Negate        bool
	CaseSensitive bool
	Value         string
}

// TimeRange describes a date-range constraint over an object's start (or, for
// tasks without a start, due). Nil ends are open.
type TimeRange struct {
	Start *jscal.LocalDateTime
	End   *jscal.LocalDateTime
}

// Filter combines the supported constraints; zero-value fields match
// everything.
type Filter struct {
	Types     []string // "@type" values to keep, empty = all
	Text      *TextMatch
	TimeRange *TimeRange
}

// textFields are the properties free-text search looks at.
var textFields = []string{"title", "description", "uid"}

// Matches reports whether the object satisfies every constraint of the filter.
func (f Filter) Matches(obj jscal.CalendarObject) bool {
	if len(f.Types) > 0 && !containsString(f.Types, obj.Type()) {
		return false
	}
	if f.Text != nil && !f.Text.matches(obj) {
		return false
	}
	if f.TimeRange != nil && !f.TimeRange.matches(obj) {
		return false
	}
	return true
}

// Apply returns the items matching the filter, preserving input order.
func Apply(f Filter, items []jscal.CalendarObject) []jscal.CalendarObject {
	var out []jscal.CalendarObject
	for _, item := range items {
		if f.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}

func (m *TextMatch) matches(obj jscal.CalendarObject) bool {
	matched := false
	for _, field := range textFields {
		if m.matchValue(obj.GetString(field)) {
			matched = true
			break
		}
	}
	if m.Negate {
		return !matched
	}
	return matched
}

func (m *TextMatch) matchValue(v string) bool {
	if v == "" {
		return false
	}
	want := m.Value
	if !m.CaseSensitive {
		v = strings.ToLower(v)
		want = strings.ToLower(want)
	}
	if m.MatchType == "equals" {
		return v == want
	}
	return strings.Contains(v, want)
}

func (r *TimeRange) matches(obj jscal.CalendarObject) bool {
	anchorStr := obj.GetString("start")
	if anchorStr == "" {
		anchorStr = obj.GetString("due")
	}
	if anchorStr == "" {
		return false
	}
	anchor, err := jscal.ParseLocalDateTime(anchorStr)
	if err != nil {
		return false
	}
	if r.Start != nil && anchor.Compare(*r.Start) < 0 {
		return false
	}
	if r.End != nil && anchor.Compare(*r.End) >= 0 {
		return false
	}
	return true
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
