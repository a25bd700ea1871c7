package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyp0633/libjscalendar/jscal"
)

func TestExpandPaged_ContinuityAcrossPages(t *testing.T) {
	a := event("2026-01-01T09:00:00", jscal.RecurrenceRule{Frequency: jscal.FreqDaily, Count: 7})
	b := event("2026-01-03T12:00:00", jscal.RecurrenceRule{Frequency: jscal.FreqDaily, Count: 4})
	items := []jscal.CalendarObject{a, b}
	within := yearRange(t, "2026")

	full, err := NewEngine().Expand(items, within).Collect()
	require.NoError(t, err)
	require.Len(t, full, 11)

	var paged []jscal.CalendarObject
	cursor := ""
	for {
		page, err := NewEngine().ExpandPaged(items, within, PageOptions{Limit: 3, Cursor: cursor})
		require.NoError(t, err)
		paged = append(paged, page.Items...)
		next, ok := page.NextCursor.Get()
		if !ok {
			break
		}
		cursor = next
	}
	assert.Equal(t, full, paged)
}

func TestExpandPaged_CursorSkipsUpToAndIncludingKey(t *testing.T) {
	obj := event("2026-01-01T09:00:00", jscal.RecurrenceRule{Frequency: jscal.FreqDaily, Count: 3})

	page, err := NewEngine().ExpandPaged([]jscal.CalendarObject{obj}, yearRange(t, "2026"),
		PageOptions{Limit: 10, Cursor: "2026-01-01T09:00:00"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "2026-01-02T09:00:00", page.Items[0].GetString("recurrenceId"))
	assert.False(t, page.NextCursor.IsPresent())
}

func TestExpandPaged_ExhaustedStreamHasNoCursor(t *testing.T) {
	obj := event("2026-01-01T09:00:00", jscal.RecurrenceRule{Frequency: jscal.FreqDaily, Count: 3})

	page, err := NewEngine().ExpandPaged([]jscal.CalendarObject{obj}, yearRange(t, "2026"),
		PageOptions{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.False(t, page.NextCursor.IsPresent())
}

func TestExpandPaged_FullPageReportsLastKey(t *testing.T) {
	obj := event("2026-01-01T09:00:00", jscal.RecurrenceRule{Frequency: jscal.FreqDaily, Count: 5})

	page, err := NewEngine().ExpandPaged([]jscal.CalendarObject{obj}, yearRange(t, "2026"),
		PageOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	next, ok := page.NextCursor.Get()
	require.True(t, ok)
	assert.Equal(t, "2026-01-02T09:00:00@1", next)
}

func TestExpandPaged_ContinuityAcrossTiedKeys(t *testing.T) {
	// Two objects share every occurrence key; pages of one must still cover
	// both sides of each tie.
	a := event("2026-01-05T09:00:00", jscal.RecurrenceRule{Frequency: jscal.FreqDaily, Count: 2})
	a["title"] = "a"
	b := event("2026-01-05T09:00:00", jscal.RecurrenceRule{Frequency: jscal.FreqDaily, Count: 2})
	b["title"] = "b"
	items := []jscal.CalendarObject{a, b}
	within := yearRange(t, "2026")

	full, err := NewEngine().Expand(items, within).Collect()
	require.NoError(t, err)
	require.Len(t, full, 4)

	var paged []jscal.CalendarObject
	cursor := ""
	for {
		page, err := NewEngine().ExpandPaged(items, within, PageOptions{Limit: 1, Cursor: cursor})
		require.NoError(t, err)
		paged = append(paged, page.Items...)
		next, ok := page.NextCursor.Get()
		if !ok {
			break
		}
		cursor = next
	}
	assert.Equal(t, full, paged)
}

func TestExpandPaged_EmptyPage(t *testing.T) {
	page, err := NewEngine().ExpandPaged(nil, yearRange(t, "2026"), PageOptions{Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.NextCursor.IsPresent())
}

func TestIterator_Restartable(t *testing.T) {
	obj := event("2026-01-01T09:00:00", jscal.RecurrenceRule{Frequency: jscal.FreqDaily, Count: 4})
	within := yearRange(t, "2026")
	engine := NewEngine()

	first, err := engine.Expand([]jscal.CalendarObject{obj}, within).Collect()
	require.NoError(t, err)

	// Early termination needs no cleanup; a fresh call starts over.
	it := engine.Expand([]jscal.CalendarObject{obj}, within)
	require.True(t, it.Next())

	second, err := engine.Expand([]jscal.CalendarObject{obj}, within).Collect()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
