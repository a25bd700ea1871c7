package recurrence

import (
	"fmt"
	"sort"
	"time"

	"github.com/cyp0633/libjscalendar/jscal"
)

// window is the query range projected into an object's wall-clock frame: the
// instant boundaries converted through the object's time zone (or UTC for
// floating time) and rendered as canonical keys, so that every comparison in
// the engine is a plain string comparison.
type window struct {
	from string
	to   string
}

func newWindow(within Range, timeZone string) (window, error) {
	loc := time.UTC
	if timeZone != "" {
		l, err := time.LoadLocation(timeZone)
		if err != nil {
			return window{}, fmt.Errorf("invalid timeZone %q: %w", timeZone, err)
		}
		loc = l
	}
	return window{
		from: jscal.FromTime(within.From.In(loc)).String(),
		to:   jscal.FromTime(within.To.In(loc)).String(),
	}, nil
}

func (w window) contains(key string) bool {
	return key >= w.from && key <= w.to
}

// expandRule runs the period state machine for one rule and returns the keys
// it emits inside the window, in ascending order. The anchor is always merged
// into the first period's candidates: a rule's series contains its own anchor
// even when the BY* filters would not produce it.
func expandRule(rule compiledRule, anchor jscal.LocalDateTime, win window) []string {
	anchorKey := anchor.String()
	var out []string

	period := initialPeriod(rule, anchor)
	generated := 0
	first := true

	for periodFloor(period) <= win.to {
		instants := instantsForPeriod(rule, period)
		if first {
			instants = mergeAnchor(instants, anchorKey)
			first = false
		}
		for _, key := range instants {
			if rule.until != "" && key > rule.until {
				return out
			}
			if key < anchorKey {
				continue
			}
			generated++
			if rule.count > 0 && generated > rule.count {
				return out
			}
			if win.contains(key) {
				out = append(out, key)
			}
		}
		period = nextPeriod(rule, period)
	}
	return out
}

// periodFloor is the period's first possible instant: byHour and friends can
// place instants earlier in the day than the period start's own time, so the
// halt check compares against the date at midnight.
func periodFloor(period jscal.LocalDateTime) string {
	return jscal.LocalDateTime{Year: period.Year, Month: period.Month, Day: period.Day}.String()
}

// initialPeriod aligns the anchor to its frequency boundary, keeping the
// anchor's time of day.
func initialPeriod(rule compiledRule, anchor jscal.LocalDateTime) jscal.LocalDateTime {
	switch rule.freq {
	case jscal.FreqYearly:
		return jscal.LocalDateTime{Year: anchor.Year, Month: 1, Day: 1,
			Hour: anchor.Hour, Minute: anchor.Minute, Second: anchor.Second}
	case jscal.FreqMonthly:
		return jscal.LocalDateTime{Year: anchor.Year, Month: anchor.Month, Day: 1,
			Hour: anchor.Hour, Minute: anchor.Minute, Second: anchor.Second}
	case jscal.FreqWeekly:
		return anchor.WeekStart(rule.weekStart)
	default:
		return anchor
	}
}

func nextPeriod(rule compiledRule, period jscal.LocalDateTime) jscal.LocalDateTime {
	switch rule.freq {
	case jscal.FreqYearly:
		return period.AddDate(rule.interval, 0, 0)
	case jscal.FreqMonthly:
		return period.AddDate(0, rule.interval, 0)
	case jscal.FreqWeekly:
		return period.AddDate(0, 0, 7*rule.interval)
	case jscal.FreqDaily:
		return period.AddDate(0, 0, rule.interval)
	case jscal.FreqHourly:
		return period.Add(rule.interval, 0, 0)
	case jscal.FreqMinutely:
		return period.Add(0, rule.interval, 0)
	default:
		return period.Add(0, 0, rule.interval)
	}
}

func mergeAnchor(instants []string, anchorKey string) []string {
	i := sort.SearchStrings(instants, anchorKey)
	if i < len(instants) && instants[i] == anchorKey {
		return instants
	}
	instants = append(instants, "")
	copy(instants[i+1:], instants[i:])
	instants[i] = anchorKey
	return instants
}
