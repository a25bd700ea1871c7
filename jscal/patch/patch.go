// Package patch applies JSCalendar PatchObjects (RFC 8984 §1.4.9): maps from
// JSON pointers to replacement values, where a null value removes the pointed
// property. It is consumed by the recurrence engine to build per-occurrence
// override instances but has no dependency on it.
package patch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cyp0633/libjscalendar/jscal"
)

// PointerError describes why a patch pointer could not be applied.
type PointerError struct {
	Pointer string
	Reason  string
}

func (e *PointerError) Error() string {
	return fmt.Sprintf("patch pointer %q: %s", e.Pointer, e.Reason)
}

// Apply returns a deep copy of base with all patch entries applied. It fails
// with a *PointerError when a pointer traverses a missing path, addresses an
// array element, or is a prefix of another pointer in the same patch. The base
// object is never mutated.
func Apply(base jscal.CalendarObject, patch map[string]any) (jscal.CalendarObject, error) {
	if err := checkPrefixConflicts(patch); err != nil {
		return nil, err
	}

	out := base.Clone()

	// Deterministic application order; entries are disjoint so the order
	// cannot change the result, but it keeps error reporting stable.
	pointers := make([]string, 0, len(patch))
	for ptr := range patch {
		pointers = append(pointers, ptr)
	}
	sort.Strings(pointers)

	for _, ptr := range pointers {
		if err := applyOne(out, ptr, patch[ptr]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func applyOne(obj jscal.CalendarObject, pointer string, value any) error {
	segments, err := splitPointer(pointer)
	if err != nil {
		return err
	}

	cur := map[string]any(obj)
	for _, seg := range segments[:len(segments)-1] {
		next, ok := cur[seg]
		if !ok {
			return &PointerError{Pointer: pointer, Reason: "path does not exist"}
		}
		switch nv := next.(type) {
		case map[string]any:
			cur = nv
		case jscal.CalendarObject:
			cur = map[string]any(nv)
		case []any:
			return &PointerError{Pointer: pointer, Reason: "cannot address an array element"}
		default:
			return &PointerError{Pointer: pointer, Reason: "path does not exist"}
		}
	}

	leaf := segments[len(segments)-1]
	if value == nil {
		if _, ok := cur[leaf]; !ok {
			return &PointerError{Pointer: pointer, Reason: "cannot remove a property that does not exist"}
		}
		delete(cur, leaf)
		return nil
	}
	cur[leaf] = jscal.DeepCopyValue(value)
	return nil
}

// splitPointer decodes a JSON pointer into its segments, unescaping ~1 and ~0
// per RFC 6901. JSCalendar patch pointers are relative, so no leading slash.
func splitPointer(pointer string) ([]string, error) {
	if pointer == "" {
		return nil, &PointerError{Pointer: pointer, Reason: "empty pointer"}
	}
	raw := strings.Split(pointer, "/")
	segments := make([]string, len(raw))
	for i, seg := range raw {
		seg = strings.ReplaceAll(seg, "~1", "/")
		seg = strings.ReplaceAll(seg, "~0", "~")
		segments[i] = seg
	}
	return segments, nil
}

// checkPrefixConflicts rejects patches where one pointer is a path prefix of
// another: applying both would make the result depend on application order.
// Every ancestor path of every pointer is tested against the patch itself, so
// a prefix pair is caught even when other keys sort between the two.
func checkPrefixConflicts(patch map[string]any) error {
	pointers := make([]string, 0, len(patch))
	for ptr := range patch {
		pointers = append(pointers, ptr)
	}
	sort.Strings(pointers)
	for _, ptr := range pointers {
		for i := len(ptr) - 1; i > 0; i-- {
			if ptr[i] != '/' {
				continue
			}
			if _, ok := patch[ptr[:i]]; ok {
				return &PointerError{Pointer: ptr, Reason: fmt.Sprintf("conflicts with pointer %q", ptr[:i])}
			}
		}
	}
	return nil
}
