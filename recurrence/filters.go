package recurrence

import (
	"github.com/cyp0633/libjscalendar/jscal"
)

// filterCandidates runs the BY* stages in their fixed order: byMonth,
// byWeekNo, byYearDay, byMonthDay (with skip remediation), byDay. Absent
// fields are no-ops. If byMonthDay remediation did not run, a final pass drops
// any calendar-invalid dates that are still around.
func filterCandidates(rule compiledRule, period jscal.LocalDateTime, cands []dateCandidate) []dateCandidate {
	cands = applyByMonth(rule, cands)
	cands = applyByWeekNo(rule, cands)
	cands = applyByYearDay(rule, cands)
	cands, remediated := applyByMonthDay(rule, cands)
	cands = applyByDay(rule, period, cands)

	if !remediated {
		kept := cands[:0]
		for _, c := range cands {
			if c.valid {
				kept = append(kept, c)
			}
		}
		cands = kept
	}
	return cands
}

func applyByMonth(rule compiledRule, cands []dateCandidate) []dateCandidate {
	if len(rule.byMonth) == 0 {
		return cands
	}
	kept := cands[:0]
	for _, c := range cands {
		if containsInt(rule.byMonth, c.month) {
			kept = append(kept, c)
		}
	}
	return kept
}

func applyByWeekNo(rule compiledRule, cands []dateCandidate) []dateCandidate {
	if len(rule.byWeekNo) == 0 {
		return cands
	}
	kept := cands[:0]
	for _, c := range cands {
		if !c.valid {
			continue
		}
		wyear, week := c.date(0, 0, 0).WeekNumber(rule.weekStart)
		for _, n := range rule.byWeekNo {
			target := n
			if n < 0 {
				target = jscal.WeeksInYear(wyear, rule.weekStart) + n + 1
			}
			if week == target {
				kept = append(kept, c)
				break
			}
		}
	}
	return kept
}

func applyByYearDay(rule compiledRule, cands []dateCandidate) []dateCandidate {
	if len(rule.byYearDay) == 0 {
		return cands
	}
	kept := cands[:0]
	for _, c := range cands {
		if !c.valid {
			continue
		}
		yd := c.date(0, 0, 0).YearDay()
		for _, n := range rule.byYearDay {
			target := n
			if n < 0 {
				target = jscal.DaysInYear(c.year) + n + 1
			}
			if yd == target {
				kept = append(kept, c)
				break
			}
		}
	}
	return kept
}

// applyByMonthDay narrows by day-of-month and, when the rule's skip action is
// forward or backward, rewrites calendar-invalid days to the first day of the
// next month or the last day of the current one. The second return value
// reports whether remediation ran.
func applyByMonthDay(rule compiledRule, cands []dateCandidate) ([]dateCandidate, bool) {
	if len(rule.byMonthDay) == 0 {
		return cands, false
	}
	kept := cands[:0]
	for _, c := range cands {
		actual := jscal.DaysInMonth(c.year, c.month)
		for _, n := range rule.byMonthDay {
			target := n
			if n < 0 {
				target = actual + n + 1
			}
			if c.day == target {
				kept = append(kept, c)
				break
			}
		}
	}

	if rule.skip == jscal.SkipOmit {
		valid := kept[:0]
		for _, c := range kept {
			if c.valid {
				valid = append(valid, c)
			}
		}
		return valid, false
	}

	out := make([]dateCandidate, 0, len(kept))
	seen := make(map[dateCandidate]struct{}, len(kept))
	for _, c := range kept {
		if !c.valid {
			if rule.skip == jscal.SkipForward {
				next := c.date(0, 0, 0)
				next.Day = 1
				next = next.AddDate(0, 1, 0)
				c = dateCandidate{year: next.Year, month: next.Month, day: 1, valid: true}
			} else {
				c = dateCandidate{year: c.year, month: c.month, day: jscal.DaysInMonth(c.year, c.month), valid: true}
			}
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, true
}

func applyByDay(rule compiledRule, period jscal.LocalDateTime, cands []dateCandidate) []dateCandidate {
	if len(rule.byDay) == 0 {
		return cands
	}
	kept := cands[:0]
	for _, c := range cands {
		if byDayMatches(rule, period, c) {
			kept = append(kept, c)
		}
	}
	return kept
}

func byDayMatches(rule compiledRule, period jscal.LocalDateTime, c dateCandidate) bool {
	wd := c.date(0, 0, 0).Weekday()
	for _, e := range rule.byDay {
		// nthOfPeriod is only meaningful for monthly and yearly rules.
		if e.nth == 0 || (rule.freq != jscal.FreqMonthly && rule.freq != jscal.FreqYearly) {
			if wd == e.weekday {
				return true
			}
			continue
		}
		picked, ok := nthWeekdayOfPeriod(rule, period, e)
		if ok && picked.year == c.year && picked.month == c.month && picked.day == c.day {
			return true
		}
	}
	return false
}

// nthWeekdayOfPeriod resolves e.g. "second Tuesday of the period" against the
// period's month (monthly) or year (yearly).
func nthWeekdayOfPeriod(rule compiledRule, period jscal.LocalDateTime, e nday) (dateCandidate, bool) {
	var first jscal.LocalDateTime
	var count int
	if rule.freq == jscal.FreqMonthly {
		first = jscal.LocalDateTime{Year: period.Year, Month: period.Month, Day: 1}
		count = jscal.DaysInMonth(period.Year, period.Month)
	} else {
		first = jscal.LocalDateTime{Year: period.Year, Month: 1, Day: 1}
		count = jscal.DaysInYear(period.Year)
	}

	offset := (int(e.weekday) - int(first.Weekday()) + 7) % 7
	total := (count - offset + 6) / 7
	if total <= 0 {
		return dateCandidate{}, false
	}

	idx := e.nth - 1
	if e.nth < 0 {
		idx = total + e.nth
	}
	if idx < 0 || idx >= total {
		return dateCandidate{}, false
	}

	d := first.AddDate(0, 0, offset+idx*7)
	return dateCandidate{year: d.Year, month: d.Month, day: d.Day, valid: true}, true
}

func containsInt(set []int, n int) bool {
	for _, v := range set {
		if v == n {
			return true
		}
	}
	return false
}
