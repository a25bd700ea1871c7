package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyp0633/libjscalendar/jscal"
)

func object(typ, title, start string) jscal.CalendarObject {
	var obj jscal.CalendarObject
	switch typ {
	case "Task":
		obj = jscal.NewTask()
	default:
		obj = jscal.NewEvent()
	}
	obj["title"] = title
	if start != "" {
		obj["start"] = start
	}
	return obj
}

func TestFilter_Text(t *testing.T) {
	obj := object("Event", "Weekly Standup", "2026-01-07T10:00:00")

	tests := []struct {
		name  string
		match TextMatch
		want  bool
	}{
		{"contains case-insensitive", TextMatch{Value: "standup"}, true},
		{"contains case-sensitive miss", TextMatch{Value: "standup", CaseSensitive: true}, false},
		{"equals", TextMatch{MatchType: "equals", Value: "weekly standup"}, true},
		{"equals miss", TextMatch{MatchType: "equals", Value: "standup"}, false},
		{"negated", TextMatch{Value: "retro", Negate: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Filter{Text: &tt.match}
			assert.Equal(t, tt.want, f.Matches(obj))
		})
	}
}

func TestFilter_TimeRange(t *testing.T) {
	start, err := jscal.ParseLocalDateTime("2026-01-01T00:00:00")
	require.NoError(t, err)
	end, err := jscal.ParseLocalDateTime("2026-02-01T00:00:00")
	require.NoError(t, err)
	f := Filter{TimeRange: &TimeRange{Start: &start, End: &end}}

	assert.True(t, f.Matches(object("Event", "in range", "2026-01-15T09:00:00")))
	assert.False(t, f.Matches(object("Event", "too late", "2026-02-01T00:00:00")))
	assert.False(t, f.Matches(object("Event", "too early", "2025-12-31T23:59:59")))

	task := jscal.NewTask()
	task["due"] = "2026-01-20T17:00:00"
	assert.True(t, f.Matches(task))
}

func TestFilter_TypesAndApply(t *testing.T) {
	items := []jscal.CalendarObject{
		object("Event", "standup", "2026-01-07T10:00:00"),
		object("Task", "write report", ""),
		object("Event", "retro", "2026-01-09T15:00:00"),
	}

	got := Apply(Filter{Types: []string{"Event"}}, items)
	require.Len(t, got, 2)
	assert.Equal(t, "standup", got[0].GetString("title"))
	assert.Equal(t, "retro", got[1].GetString("title"))

	got = Apply(Filter{Text: &TextMatch{Value: "report"}}, items)
	require.Len(t, got, 1)
	assert.Equal(t, "Task", got[0].Type())
}
