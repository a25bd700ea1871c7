package jscal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const utcDateTimeLayout = "2006-01-02T15:04:05Z"

// CalendarObject is a JSCalendar Event, Task or Group, kept as a JSON-shaped
// map so that arbitrary vendor properties and recurrence-override patches
// survive round trips. Typed accessors cover the fields the library itself
// needs; everything else is treated opaquely.
type CalendarObject map[string]any

// NewEvent creates an Event with a fresh uid and creation timestamps.
func NewEvent() CalendarObject {
	return newObject("Event")
}

// NewTask creates a Task with a fresh uid and creation timestamps.
func NewTask() CalendarObject {
	return newObject("Task")
}

// NewGroup creates a Group with a fresh uid and an empty entries list.
func NewGroup() CalendarObject {
	o := newObject("Group")
	o["entries"] = []any{}
	return o
}

func newObject(typ string) CalendarObject {
	now := time.Now().UTC().Format(utcDateTimeLayout)
	return CalendarObject{
		"@type":   typ,
		"uid":     uuid.NewString(),
		"created": now,
		"updated": now,
	}
}

// Type returns the "@type" property ("Event", "Task" or "Group").
func (o CalendarObject) Type() string {
	return o.GetString("@type")
}

// UID returns the "uid" property.
func (o CalendarObject) UID() string {
	return o.GetString("uid")
}

// GetString returns the named property if it is a non-empty string.
func (o CalendarObject) GetString(key string) string {
	s, _ := o[key].(string)
	return s
}

// TimeZone returns the IANA time zone name the object's wall-clock times are
// anchored in, or "" for floating time.
func (o CalendarObject) TimeZone() string {
	return o.GetString("timeZone")
}

// Excluded reports whether the object (typically an override instance) is
// marked as excluded from its series.
func (o CalendarObject) Excluded() bool {
	b, _ := o["excluded"].(bool)
	return b
}

// RecurrenceRules returns the decoded "recurrenceRules" property.
func (o CalendarObject) RecurrenceRules() ([]RecurrenceRule, error) {
	return o.rulesAt("recurrenceRules")
}

// ExcludedRecurrenceRules returns the decoded "excludedRecurrenceRules"
// property.
func (o CalendarObject) ExcludedRecurrenceRules() ([]RecurrenceRule, error) {
	return o.rulesAt("excludedRecurrenceRules")
}

// rulesAt decodes a rule list that may be held either as typed rules (set by
// Go code) or as raw JSON shapes (set by json.Unmarshal).
func (o CalendarObject) rulesAt(key string) ([]RecurrenceRule, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return nil, nil
	}
	if rules, ok := v.([]RecurrenceRule); ok {
		return rules, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	var rules []RecurrenceRule
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return rules, nil
}

// RecurrenceOverrides returns the "recurrenceOverrides" property as a map from
// LocalDateTime key to patch.
func (o CalendarObject) RecurrenceOverrides() (map[string]map[string]any, error) {
	v, ok := o["recurrenceOverrides"]
	if !ok || v == nil {
		return nil, nil
	}
	switch m := v.(type) {
	case map[string]map[string]any:
		return m, nil
	case map[string]any:
		out := make(map[string]map[string]any, len(m))
		for key, pv := range m {
			pm, ok := pv.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("invalid recurrenceOverrides: value for %q is not an object", key)
			}
			out[key] = pm
		}
		return out, nil
	default:
		return nil, fmt.Errorf("invalid recurrenceOverrides: not an object")
	}
}

// Clone returns a deep copy of the object.
func (o CalendarObject) Clone() CalendarObject {
	if o == nil {
		return nil
	}
	out := make(CalendarObject, len(o))
	for k, v := range o {
		out[k] = deepCopyValue(v)
	}
	return out
}

// DeepCopyValue deep-copies a JSON-shaped value, including the typed values
// this package stores inside objects.
func DeepCopyValue(v any) any {
	return deepCopyValue(v)
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case CalendarObject:
		return val.Clone()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = deepCopyValue(e)
		}
		return out
	case map[string]map[string]any:
		out := make(map[string]map[string]any, len(val))
		for k, e := range val {
			c := make(map[string]any, len(e))
			for ik, iv := range e {
				c[ik] = deepCopyValue(iv)
			}
			out[k] = c
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = deepCopyValue(e)
		}
		return out
	case []RecurrenceRule:
		out := make([]RecurrenceRule, len(val))
		for i, r := range val {
			out[i] = r.Clone()
		}
		return out
	case []NDay:
		return append([]NDay(nil), val...)
	default:
		// Scalars (string, bool, float64, int, nil) are immutable.
		return v
	}
}
