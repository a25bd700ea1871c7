package recurrence

import (
	"github.com/cyp0633/libjscalendar/jscal"
)

// dateCandidate is one calendar date a period may produce. Dates past the end
// of their month (e.g. February 30th) carry valid=false and survive until
// either skip remediation rewrites them or a filter stage drops them.
type dateCandidate struct {
	year  int
	month int
	day   int
	valid bool
}

func (d dateCandidate) date(hour, minute, second int) jscal.LocalDateTime {
	return jscal.LocalDateTime{
		Year: d.year, Month: d.month, Day: d.day,
		Hour: hour, Minute: minute, Second: second,
	}
}

// periodCandidates enumerates every date the period starting at start may
// contain, before any BY* filtering.
func periodCandidates(rule compiledRule, start jscal.LocalDateTime) []dateCandidate {
	switch rule.freq {
	case jscal.FreqYearly:
		var out []dateCandidate
		for month := 1; month <= 12; month++ {
			out = append(out, monthCandidates(rule, start.Year, month)...)
		}
		return out
	case jscal.FreqMonthly:
		return monthCandidates(rule, start.Year, start.Month)
	case jscal.FreqWeekly:
		out := make([]dateCandidate, 0, 7)
		d := start
		for i := 0; i < 7; i++ {
			out = append(out, dateCandidate{year: d.Year, month: d.Month, day: d.Day, valid: true})
			d = d.AddDate(0, 0, 1)
		}
		return out
	default:
		// daily and finer: the single date of the period start. Time-of-day
		// fields are crossed in later by the instant materializer.
		return []dateCandidate{{year: start.Year, month: start.Month, day: start.Day, valid: true}}
	}
}

func monthCandidates(rule compiledRule, year, month int) []dateCandidate {
	actual := jscal.DaysInMonth(year, month)
	last := actual
	if rule.monthDayOverflow() {
		last = 31
	}
	out := make([]dateCandidate, 0, last)
	for day := 1; day <= last; day++ {
		out = append(out, dateCandidate{year: year, month: month, day: day, valid: day <= actual})
	}
	return out
}
