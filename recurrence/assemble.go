package recurrence

import (
	"fmt"
	"sort"

	"github.com/cyp0633/libjscalendar/jscal"
	"github.com/cyp0633/libjscalendar/jscal/patch"
)

// expandObject produces every occurrence of one calendar object inside the
// range, sorted by key. Malformed anchors, malformed override keys, rules with
// a non-gregorian rscale and patch failures abort the whole object.
func (e *Engine) expandObject(obj jscal.CalendarObject, within Range) ([]jscal.CalendarObject, error) {
	anchorField := "start"
	anchorStr := obj.GetString("start")
	if anchorStr == "" && obj.Type() == "Task" {
		anchorField = "due"
		anchorStr = obj.GetString("due")
	}
	if anchorStr == "" {
		// A task with neither start nor due recurs at no point in time.
		return nil, nil
	}

	anchor, err := jscal.ParseLocalDateTime(anchorStr)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", anchorField, err)
	}
	anchorKey := anchor.String()

	win, err := newWindow(within, obj.TimeZone())
	if err != nil {
		return nil, err
	}

	rules, err := obj.RecurrenceRules()
	if err != nil {
		return nil, err
	}
	exRules, err := obj.ExcludedRecurrenceRules()
	if err != nil {
		return nil, err
	}
	overrides, err := obj.RecurrenceOverrides()
	if err != nil {
		return nil, err
	}

	// Compile everything up front: an unsupported rscale must fail before any
	// occurrence is produced.
	compiled := make([]compiledRule, len(rules))
	for i, rule := range rules {
		if compiled[i], err = compileRule(Normalize(rule, anchor)); err != nil {
			return nil, fmt.Errorf("recurrenceRules[%d]: %w", i, err)
		}
	}
	exCompiled := make([]compiledRule, len(exRules))
	for i, rule := range exRules {
		if exCompiled[i], err = compileRule(Normalize(rule, anchor)); err != nil {
			return nil, fmt.Errorf("excludedRecurrenceRules[%d]: %w", i, err)
		}
	}

	if len(rules) == 0 && len(overrides) == 0 {
		if win.contains(anchorKey) {
			return []jscal.CalendarObject{obj.Clone()}, nil
		}
		return nil, nil
	}

	keys := make(map[string]struct{})
	if len(rules) == 0 {
		if win.contains(anchorKey) {
			keys[anchorKey] = struct{}{}
		}
	}
	for _, rule := range compiled {
		for _, key := range expandRule(rule, anchor, win) {
			keys[key] = struct{}{}
		}
	}
	for _, rule := range exCompiled {
		for _, key := range expandRule(rule, anchor, win) {
			delete(keys, key)
		}
	}
	for rawKey := range overrides {
		key, err := jscal.ParseLocalDateTime(rawKey)
		if err != nil {
			return nil, fmt.Errorf("invalid recurrenceOverrides key: %w", err)
		}
		if win.contains(key.String()) {
			keys[key.String()] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(keys))
	for key := range keys {
		sorted = append(sorted, key)
	}
	sort.Strings(sorted)

	occurrences := make([]jscal.CalendarObject, 0, len(sorted))
	for _, key := range sorted {
		// Without rules the object itself is the anchor's occurrence, same as
		// when it has no overrides at all. An override targeting the anchor
		// key takes the materialized path instead.
		if len(rules) == 0 && key == anchorKey {
			if _, ok := overrides[key]; !ok {
				occurrences = append(occurrences, obj.Clone())
				continue
			}
		}
		inst, err := e.materialize(obj, key, overrides[key], anchorField)
		if err != nil {
			return nil, err
		}
		if inst != nil {
			occurrences = append(occurrences, inst)
		}
	}

	e.logger.Debug("expanded calendar object",
		"uid", obj.UID(), "occurrences", len(occurrences))
	return occurrences, nil
}

// materialize builds one occurrence instance: apply the override patch, drop
// excluded instances, rewrite the anchor field to the key, strip the series
// description and stamp the recurrence id.
func (e *Engine) materialize(obj jscal.CalendarObject, key string, override map[string]any, anchorField string) (jscal.CalendarObject, error) {
	var inst jscal.CalendarObject
	if override != nil {
		var err error
		if inst, err = patch.Apply(obj, override); err != nil {
			return nil, fmt.Errorf("override %s: %w", key, err)
		}
	} else {
		inst = obj.Clone()
	}

	if inst.Excluded() {
		return nil, nil
	}

	if _, set := override[anchorField]; !set {
		inst[anchorField] = key
	}

	delete(inst, "recurrenceRules")
	delete(inst, "excludedRecurrenceRules")
	delete(inst, "recurrenceOverrides")

	inst["recurrenceId"] = key
	if tz := obj.TimeZone(); tz != "" {
		inst["recurrenceIdTimeZone"] = tz
	}
	return inst, nil
}
