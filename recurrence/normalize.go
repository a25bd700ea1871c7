package recurrence

import (
	"strconv"

	"github.com/cyp0633/libjscalendar/jscal"
)

// Normalize fills the implicit BY* defaults of a rule from its anchor, per the
// RFC 5545 defaulting rules RFC 8984 inherits. The result is a fixed point:
// normalizing an already-normalized rule changes nothing. Only absent fields
// are filled; explicit fields are never touched.
func Normalize(rule jscal.RecurrenceRule, anchor jscal.LocalDateTime) jscal.RecurrenceRule {
	out := rule.Clone()

	if out.Frequency != jscal.FreqSecondly && len(out.BySecond) == 0 {
		out.BySecond = []int{anchor.Second}
	}
	if out.Frequency != jscal.FreqSecondly && out.Frequency != jscal.FreqMinutely &&
		len(out.ByMinute) == 0 {
		out.ByMinute = []int{anchor.Minute}
	}
	if out.Frequency != jscal.FreqSecondly && out.Frequency != jscal.FreqMinutely &&
		out.Frequency != jscal.FreqHourly && len(out.ByHour) == 0 {
		out.ByHour = []int{anchor.Hour}
	}

	anchorDay := jscal.NDay{Day: jscal.WeekdayCode(anchor.Weekday())}

	switch out.Frequency {
	case jscal.FreqWeekly:
		if len(out.ByDay) == 0 {
			out.ByDay = []jscal.NDay{anchorDay}
		}
	case jscal.FreqMonthly:
		if len(out.ByDay) == 0 && len(out.ByMonthDay) == 0 {
			out.ByMonthDay = []int{anchor.Day}
		}
	case jscal.FreqYearly:
		if len(out.ByYearDay) == 0 {
			if len(out.ByMonth) == 0 && len(out.ByWeekNo) == 0 &&
				(len(out.ByMonthDay) > 0 || len(out.ByDay) == 0) {
				out.ByMonth = []string{strconv.Itoa(anchor.Month)}
			}
			if len(out.ByMonthDay) == 0 && len(out.ByWeekNo) == 0 && len(out.ByDay) == 0 {
				out.ByMonthDay = []int{anchor.Day}
			}
			if len(out.ByWeekNo) > 0 && len(out.ByMonthDay) == 0 && len(out.ByDay) == 0 {
				out.ByDay = []jscal.NDay{anchorDay}
			}
		}
	}

	return out
}
