// Package ical serializes JSCalendar objects to iCalendar text (RFC 5545) and
// xCal XML (RFC 6321).
package ical

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/emersion/go-ical"

	"github.com/cyp0633/libjscalendar/jscal"
	"github.com/cyp0633/libjscalendar/jscal/patch"
)

const (
	prodID         = "-//libjscalendar//Go JSCalendar//EN"
	icalDateTime   = "20060102T150405"
	propRecurrence = "RECURRENCE-ID"
)

// Encode serializes one Event or Task to iCalendar text. Recurrence rules
// become RRULE properties, excluded rules EXRULE, overrides either child
// components carrying RECURRENCE-ID or, for excluded instances, EXDATE
// entries on the master component.
func Encode(obj jscal.CalendarObject) (string, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)

	master, err := buildComponent(obj)
	if err != nil {
		return "", err
	}
	cal.Children = append(cal.Children, master)

	children, err := overrideComponents(obj, master)
	if err != nil {
		return "", err
	}
	cal.Children = append(cal.Children, children...)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return "", fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.String(), nil
}

func buildComponent(obj jscal.CalendarObject) (*ical.Component, error) {
	var name string
	switch obj.Type() {
	case "Event":
		name = ical.CompEvent
	case "Task":
		name = ical.CompToDo
	default:
		return nil, fmt.Errorf("cannot export @type %q to iCalendar", obj.Type())
	}

	comp := &ical.Component{Name: name, Props: make(ical.Props)}
	comp.Props.SetText(ical.PropUID, obj.UID())
	comp.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())

	for jsProp, icalProp := range map[string]string{
		"title":       ical.PropSummary,
		"description": ical.PropDescription,
	} {
		if v := obj.GetString(jsProp); v != "" {
			comp.Props.SetText(icalProp, v)
		}
	}

	start, err := dateProp(obj, "start", ical.PropDateTimeStart)
	if err != nil {
		return nil, err
	}
	if start != nil {
		comp.Props.Set(start)
	}
	if obj.Type() == "Task" {
		due, err := dateProp(obj, "due", ical.PropDue)
		if err != nil {
			return nil, err
		}
		if due != nil {
			comp.Props.Set(due)
		}
	}
	if v := obj.GetString("duration"); v != "" {
		comp.Props.SetText(ical.PropDuration, v)
	}

	rules, err := obj.RecurrenceRules()
	if err != nil {
		return nil, err
	}
	for _, rule := range rules {
		value, err := RRuleString(rule)
		if err != nil {
			return nil, err
		}
		prop := ical.NewProp(ical.PropRecurrenceRule)
		prop.Value = value
		comp.Props.Add(prop)
	}
	exRules, err := obj.ExcludedRecurrenceRules()
	if err != nil {
		return nil, err
	}
	for _, rule := range exRules {
		value, err := RRuleString(rule)
		if err != nil {
			return nil, err
		}
		prop := ical.NewProp("EXRULE")
		prop.Value = value
		comp.Props.Add(prop)
	}

	return comp, nil
}

// dateProp resolves a LocalDateTime property to an iCalendar date-time
// property, tagged with the object's time zone when it has one. Absent fields
// resolve to nil.
func dateProp(obj jscal.CalendarObject, jsProp, icalProp string) (*ical.Prop, error) {
	value := obj.GetString(jsProp)
	if value == "" {
		return nil, nil
	}
	ldt, err := jscal.ParseLocalDateTime(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", jsProp, err)
	}
	prop := ical.NewProp(icalProp)
	prop.Value = ldt.In(time.UTC).Format(icalDateTime)
	if tz := obj.TimeZone(); tz != "" {
		prop.Params.Set("TZID", tz)
	}
	return prop, nil
}

// overrideComponents renders recurrence overrides: excluded instances turn
// into EXDATE entries on the master, everything else becomes a full component
// with the patch applied and RECURRENCE-ID set.
func overrideComponents(obj jscal.CalendarObject, master *ical.Component) ([]*ical.Component, error) {
	overrides, err := obj.RecurrenceOverrides()
	if err != nil {
		return nil, err
	}
	if len(overrides) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out []*ical.Component
	for _, key := range keys {
		ldt, err := jscal.ParseLocalDateTime(key)
		if err != nil {
			return nil, fmt.Errorf("invalid recurrenceOverrides key: %w", err)
		}
		formatted := ldt.In(time.UTC).Format(icalDateTime)

		if excluded, _ := overrides[key]["excluded"].(bool); excluded {
			prop := ical.NewProp(ical.PropExceptionDates)
			prop.Value = formatted
			if tz := obj.TimeZone(); tz != "" {
				prop.Params.Set("TZID", tz)
			}
			master.Props.Add(prop)
			continue
		}

		inst, err := patch.Apply(obj, overrides[key])
		if err != nil {
			return nil, fmt.Errorf("override %s: %w", key, err)
		}
		delete(inst, "recurrenceRules")
		delete(inst, "excludedRecurrenceRules")
		delete(inst, "recurrenceOverrides")
		if inst.GetString("start") == "" {
			inst["start"] = key
		}

		comp, err := buildComponent(inst)
		if err != nil {
			return nil, err
		}
		recID := ical.NewProp(propRecurrence)
		recID.Value = formatted
		if tz := obj.TimeZone(); tz != "" {
			recID.Params.Set("TZID", tz)
		}
		comp.Props.Set(recID)
		out = append(out, comp)
	}
	return out, nil
}
