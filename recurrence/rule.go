package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cyp0633/libjscalendar/jscal"
)

// nday is a parsed byDay entry.
type nday struct {
	weekday time.Weekday
	nth     int
}

// compiledRule is a normalized rule with all string fields parsed and all
// defaults resolved, so the expansion pipeline never branches on "is this
// field present".
type compiledRule struct {
	freq      jscal.Frequency
	interval  int
	count     int    // 0 = unbounded
	until     string // "" = unbounded
	skip      jscal.SkipAction
	weekStart time.Weekday

	byMonth    []int
	byMonthDay []int
	byYearDay  []int
	byWeekNo   []int
	byDay      []nday
	byHour     []int
	byMinute   []int
	bySecond   []int
	bySetPos   []int
}

// compileRule validates and parses a normalized rule. rscale values other than
// gregorian fail with ErrUnsupportedRScale before any expansion happens.
func compileRule(rule jscal.RecurrenceRule) (compiledRule, error) {
	if rule.RScale != "" && !strings.EqualFold(rule.RScale, "gregorian") {
		return compiledRule{}, fmt.Errorf("%w: %q", ErrUnsupportedRScale, rule.RScale)
	}
	if !rule.Frequency.Valid() {
		return compiledRule{}, fmt.Errorf("invalid frequency %q", rule.Frequency)
	}

	c := compiledRule{
		freq:       rule.Frequency,
		interval:   rule.Interval,
		count:      rule.Count,
		skip:       rule.Skip,
		weekStart:  time.Monday,
		byMonthDay: rule.ByMonthDay,
		byYearDay:  rule.ByYearDay,
		byWeekNo:   rule.ByWeekNo,
		byHour:     rule.ByHour,
		byMinute:   rule.ByMinute,
		bySecond:   rule.BySecond,
		bySetPos:   rule.BySetPosition,
	}
	if c.interval < 1 {
		c.interval = 1
	}
	if c.skip == "" {
		c.skip = jscal.SkipOmit
	}
	if rule.FirstDayOfWeek != "" {
		wd, err := jscal.ParseWeekday(rule.FirstDayOfWeek)
		if err != nil {
			return compiledRule{}, err
		}
		c.weekStart = wd
	}
	if rule.Until != "" {
		until, err := jscal.ParseLocalDateTime(rule.Until)
		if err != nil {
			return compiledRule{}, err
		}
		c.until = until.String()
	}
	for _, m := range rule.ByMonth {
		n, err := strconv.Atoi(m)
		if err != nil || n < 1 || n > 12 {
			return compiledRule{}, fmt.Errorf("invalid byMonth value %q", m)
		}
		c.byMonth = append(c.byMonth, n)
	}
	for _, d := range rule.ByDay {
		wd, err := jscal.ParseWeekday(d.Day)
		if err != nil {
			return compiledRule{}, err
		}
		c.byDay = append(c.byDay, nday{weekday: wd, nth: d.NthOfPeriod})
	}
	return c, nil
}

// monthDayOverflow reports whether the candidate generator should produce the
// full 1..31 day range per month, marking days past the month's end invalid so
// that skip remediation can act on them.
func (c compiledRule) monthDayOverflow() bool {
	return c.skip != jscal.SkipOmit && len(c.byMonthDay) > 0
}
