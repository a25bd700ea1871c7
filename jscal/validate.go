package jscal

import (
	"fmt"
)

// Validate checks the structural invariants this library relies on: a known
// @type, a uid, well-formed LocalDateTime fields and well-formed recurrence
// rules. It does not attempt full RFC 8984 schema validation.
func Validate(o CalendarObject) error {
	switch o.Type() {
	case "Event", "Task", "Group":
	case "":
		return fmt.Errorf("missing @type")
	default:
		return fmt.Errorf("unknown @type %q", o.Type())
	}
	if o.UID() == "" {
		return fmt.Errorf("missing uid")
	}
	if o.Type() == "Event" && o.GetString("start") == "" {
		return fmt.Errorf("event has no start")
	}
	for _, field := range []string{"start", "due"} {
		if s := o.GetString(field); s != "" {
			if _, err := ParseLocalDateTime(s); err != nil {
				return fmt.Errorf("invalid %s: %w", field, err)
			}
		}
	}
	for _, field := range []string{"recurrenceRules", "excludedRecurrenceRules"} {
		rules, err := o.rulesAt(field)
		if err != nil {
			return err
		}
		for i, rule := range rules {
			if err := validateRule(rule); err != nil {
				return fmt.Errorf("%s[%d]: %w", field, i, err)
			}
		}
	}
	overrides, err := o.RecurrenceOverrides()
	if err != nil {
		return err
	}
	for key := range overrides {
		if _, err := ParseLocalDateTime(key); err != nil {
			return fmt.Errorf("invalid recurrenceOverrides key: %w", err)
		}
	}
	return nil
}

func validateRule(r RecurrenceRule) error {
	if !r.Frequency.Valid() {
		return fmt.Errorf("invalid frequency %q", r.Frequency)
	}
	if r.Interval < 0 {
		return fmt.Errorf("negative interval %d", r.Interval)
	}
	if r.Count < 0 {
		return fmt.Errorf("negative count %d", r.Count)
	}
	if r.Count > 0 && r.Until != "" {
		return fmt.Errorf("count and until are mutually exclusive")
	}
	if r.Until != "" {
		if _, err := ParseLocalDateTime(r.Until); err != nil {
			return fmt.Errorf("invalid until: %w", err)
		}
	}
	switch r.Skip {
	case "", SkipOmit, SkipForward, SkipBackward:
	default:
		return fmt.Errorf("invalid skip %q", r.Skip)
	}
	if r.FirstDayOfWeek != "" {
		if _, err := ParseWeekday(r.FirstDayOfWeek); err != nil {
			return fmt.Errorf("invalid firstDayOfWeek: %w", err)
		}
	}
	for _, nd := range r.ByDay {
		if _, err := ParseWeekday(nd.Day); err != nil {
			return fmt.Errorf("invalid byDay: %w", err)
		}
	}
	return nil
}
