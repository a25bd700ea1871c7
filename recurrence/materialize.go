package recurrence

import (
	"sort"

	"github.com/cyp0633/libjscalendar/jscal"
)

// instantsForPeriod produces the full sorted list of candidate instant keys
// for one period: generate dates, run the BY* filters, cross with
// byHour/byMinute/bySecond, then apply bySetPosition over the whole sorted
// set.
func instantsForPeriod(rule compiledRule, period jscal.LocalDateTime) []string {
	cands := filterCandidates(rule, period, periodCandidates(rule, period))
	if len(cands) == 0 {
		return nil
	}

	hours := orDefault(rule.byHour, period.Hour)
	minutes := orDefault(rule.byMinute, period.Minute)
	seconds := orDefault(rule.bySecond, period.Second)

	instants := make([]string, 0, len(cands)*len(hours)*len(minutes)*len(seconds))
	for _, c := range cands {
		for _, h := range hours {
			for _, m := range minutes {
				for _, s := range seconds {
					instants = append(instants, c.date(h, m, s).String())
				}
			}
		}
	}
	sort.Strings(instants)

	if len(rule.bySetPos) == 0 {
		return instants
	}
	return selectPositions(instants, rule.bySetPos)
}

// selectPositions keeps only the 1-based positions named by bySetPosition,
// evaluated against the period's full sorted instant set. Negative positions
// count from the end; out-of-bounds positions are dropped.
func selectPositions(instants []string, positions []int) []string {
	chosen := make(map[int]struct{}, len(positions))
	for _, n := range positions {
		idx := n - 1
		if n < 0 {
			idx = len(instants) + n
		}
		if idx >= 0 && idx < len(instants) {
			chosen[idx] = struct{}{}
		}
	}
	out := make([]string, 0, len(chosen))
	for i, inst := range instants {
		if _, ok := chosen[i]; ok {
			out = append(out, inst)
		}
	}
	return out
}

func orDefault(set []int, fallback int) []int {
	if len(set) == 0 {
		return []int{fallback}
	}
	return set
}
