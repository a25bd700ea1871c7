package recurrence

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/mo"

	"github.com/cyp0633/libjscalendar/jscal"
)

// Iterator is a pull-driven merge of every item's occurrence stream, ordered
// by occurrence key with input order breaking ties. It is finite and
// restartable: a fresh Expand call re-evaluates everything, and a consumer may
// simply stop calling Next at any point.
type Iterator struct {
	engine  *Engine
	items   []jscal.CalendarObject
	within  Range
	streams []occurrenceStream
	inited  bool
	err     error
	cur     jscal.CalendarObject
	curKey  string
}

type occurrenceStream struct {
	occurrences []jscal.CalendarObject
	pos         int
}

// Expand lazily expands every item over the given range. Errors surface
// through Err after Next returns false; the first failing item aborts the
// whole iteration, so callers wanting partial results across objects should
// expand them individually.
func (e *Engine) Expand(items []jscal.CalendarObject, within Range) *Iterator {
	return &Iterator{engine: e, items: items, within: within}
}

// Next advances to the next occurrence. It returns false when the sequence is
// exhausted or an error occurred.
func (it *Iterator) Next() bool {
	if it.err != nil {
		return false
	}
	if !it.inited {
		it.inited = true
		it.streams = make([]occurrenceStream, len(it.items))
		for i, item := range it.items {
			occs, err := it.engine.expandObject(item, it.within)
			if err != nil {
				it.err = fmt.Errorf("item %d: %w", i, err)
				return false
			}
			it.streams[i] = occurrenceStream{occurrences: occs}
		}
	}

	best := -1
	var bestKey string
	for i := range it.streams {
		s := &it.streams[i]
		if s.pos >= len(s.occurrences) {
			continue
		}
		key := sortKey(s.occurrences[s.pos])
		if best == -1 || key < bestKey {
			best, bestKey = i, key
		}
	}
	if best == -1 {
		return false
	}

	s := &it.streams[best]
	it.cur = s.occurrences[s.pos]
	it.curKey = bestKey
	s.pos++
	return true
}

// Occurrence returns the occurrence Next advanced to.
func (it *Iterator) Occurrence() jscal.CalendarObject {
	return it.cur
}

// Key returns the sort key of the current occurrence, "" when it has none.
func (it *Iterator) Key() string {
	return it.curKey
}

// Err returns the error that stopped iteration, if any.
func (it *Iterator) Err() error {
	return it.err
}

// Collect drains the iterator into a slice.
func (it *Iterator) Collect() ([]jscal.CalendarObject, error) {
	var out []jscal.CalendarObject
	for it.Next() {
		out = append(out, it.Occurrence())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// sortKey is the merge key of an occurrence: its recurrence id, or the
// object's own start or due when it never got one.
func sortKey(occ jscal.CalendarObject) string {
	if key := occ.GetString("recurrenceId"); key != "" {
		return key
	}
	if key := occ.GetString("start"); key != "" {
		return key
	}
	return occ.GetString("due")
}

// ExpandPaged expands items and returns one page of at most opts.Limit
// occurrences. With a cursor set, occurrences already covered by earlier pages
// (and occurrences without a key) are skipped. The next cursor is present only
// when more occurrences remain past the page.
//
// The cursor carries the last emitted key plus the number of entries already
// emitted at that key, so a page boundary falling inside a run of tied keys
// (different items, same occurrence key) resumes mid-run instead of dropping
// the rest of the tie.
func (e *Engine) ExpandPaged(items []jscal.CalendarObject, within Range, opts PageOptions) (PagedResult, error) {
	res := PagedResult{NextCursor: mo.None[string]()}
	if opts.Limit == 0 {
		return res, nil
	}

	cursorKey, cursorEmitted := decodeCursor(opts.Cursor)
	skip := cursorEmitted

	lastKey, emittedAtKey := cursorKey, max(cursorEmitted, 0)
	it := e.Expand(items, within)
	for it.Next() {
		key := it.Key()
		if opts.Cursor != "" {
			if key == "" || key < cursorKey {
				continue
			}
			if key == cursorKey {
				if cursorEmitted < 0 {
					// Bare-key cursor: skip the whole tie.
					continue
				}
				if skip > 0 {
					skip--
					continue
				}
			}
		}
		if uint(len(res.Items)) == opts.Limit {
			res.NextCursor = mo.Some(encodeCursor(lastKey, emittedAtKey))
			return res, nil
		}
		if key == lastKey {
			emittedAtKey++
		} else {
			lastKey, emittedAtKey = key, 1
		}
		res.Items = append(res.Items, it.Occurrence())
	}
	if err := it.Err(); err != nil {
		return PagedResult{}, err
	}
	return res, nil
}

func encodeCursor(key string, emitted int) string {
	return fmt.Sprintf("%s@%d", key, emitted)
}

// decodeCursor splits a cursor into its key and emitted-at-key count.
// Occurrence keys never contain '@'. A bare key (no '@' suffix, or one that
// does not parse) is accepted too and reported as count -1, meaning every
// entry at that key has been emitted.
func decodeCursor(cursor string) (key string, emitted int) {
	i := strings.LastIndexByte(cursor, '@')
	if i < 0 {
		return cursor, -1
	}
	n, err := strconv.Atoi(cursor[i+1:])
	if err != nil || n < 0 {
		return cursor, -1
	}
	return cursor[:i], n
}
