package ical

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/cyp0633/libjscalendar/jscal"
)

var frequencies = map[jscal.Frequency]rrule.Frequency{
	jscal.FreqYearly:   rrule.YEARLY,
	jscal.FreqMonthly:  rrule.MONTHLY,
	jscal.FreqWeekly:   rrule.WEEKLY,
	jscal.FreqDaily:    rrule.DAILY,
	jscal.FreqHourly:   rrule.HOURLY,
	jscal.FreqMinutely: rrule.MINUTELY,
	jscal.FreqSecondly: rrule.SECONDLY,
}

var rruleWeekdays = map[string]rrule.Weekday{
	"mo": rrule.MO,
	"tu": rrule.TU,
	"we": rrule.WE,
	"th": rrule.TH,
	"fr": rrule.FR,
	"sa": rrule.SA,
	"su": rrule.SU,
}

// RRuleString serializes a JSCalendar RecurrenceRule to an iCalendar RRULE
// property value. Skip actions other than omit are expressed through the
// RFC 7529 RSCALE/SKIP extension parameters.
func RRuleString(rule jscal.RecurrenceRule) (string, error) {
	freq, ok := frequencies[rule.Frequency]
	if !ok {
		return "", fmt.Errorf("invalid frequency %q", rule.Frequency)
	}

	opt := rrule.ROption{
		Freq:       freq,
		Interval:   rule.Interval,
		Count:      rule.Count,
		Bymonthday: rule.ByMonthDay,
		Byyearday:  rule.ByYearDay,
		Byweekno:   rule.ByWeekNo,
		Byhour:     rule.ByHour,
		Byminute:   rule.ByMinute,
		Bysecond:   rule.BySecond,
		Bysetpos:   rule.BySetPosition,
	}
	if rule.Until != "" {
		until, err := jscal.ParseLocalDateTime(rule.Until)
		if err != nil {
			return "", err
		}
		opt.Until = until.In(time.UTC)
	}
	if rule.FirstDayOfWeek != "" {
		wd, ok := rruleWeekdays[rule.FirstDayOfWeek]
		if !ok {
			return "", fmt.Errorf("invalid firstDayOfWeek %q", rule.FirstDayOfWeek)
		}
		opt.Wkst = wd
	}
	for _, m := range rule.ByMonth {
		n, err := strconv.Atoi(m)
		if err != nil {
			return "", fmt.Errorf("invalid byMonth value %q", m)
		}
		opt.Bymonth = append(opt.Bymonth, n)
	}
	for _, d := range rule.ByDay {
		wd, ok := rruleWeekdays[d.Day]
		if !ok {
			return "", fmt.Errorf("invalid byDay value %q", d.Day)
		}
		if d.NthOfPeriod != 0 {
			wd = wd.Nth(d.NthOfPeriod)
		}
		opt.Byweekday = append(opt.Byweekday, wd)
	}

	value := opt.RRuleString()
	switch rule.Skip {
	case jscal.SkipForward, jscal.SkipBackward:
		value += ";RSCALE=GREGORIAN;SKIP=" + strings.ToUpper(string(rule.Skip))
	}
	return value, nil
}
