package jscal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewObjects(t *testing.T) {
	ev := NewEvent()
	assert.Equal(t, "Event", ev.Type())
	assert.NotEmpty(t, ev.UID())
	assert.NotEmpty(t, ev.GetString("created"))

	task := NewTask()
	assert.Equal(t, "Task", task.Type())

	group := NewGroup()
	assert.Equal(t, "Group", group.Type())
	assert.Contains(t, group, "entries")

	// Each object gets its own uid.
	assert.NotEqual(t, ev.UID(), task.UID())
}

func TestRecurrenceRules_TypedAndJSONShapes(t *testing.T) {
	typed := NewEvent()
	typed["recurrenceRules"] = []RecurrenceRule{
		{Frequency: FreqWeekly, ByDay: []NDay{{Day: "we", NthOfPeriod: 2}}},
	}

	raw := `{
		"@type": "Event",
		"uid": "abc",
		"start": "2026-01-07T10:00:00",
		"recurrenceRules": [
			{"@type": "RecurrenceRule", "frequency": "weekly", "byDay": [{"day": "we", "nthOfPeriod": 2}]}
		]
	}`
	var decoded CalendarObject
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))

	for name, obj := range map[string]CalendarObject{"typed": typed, "json": decoded} {
		t.Run(name, func(t *testing.T) {
			rules, err := obj.RecurrenceRules()
			require.NoError(t, err)
			require.Len(t, rules, 1)
			assert.Equal(t, FreqWeekly, rules[0].Frequency)
			require.Len(t, rules[0].ByDay, 1)
			assert.Equal(t, "we", rules[0].ByDay[0].Day)
			assert.Equal(t, 2, rules[0].ByDay[0].NthOfPeriod)
		})
	}
}

func TestRecurrenceOverrides_Decode(t *testing.T) {
	obj := NewEvent()
	obj["recurrenceOverrides"] = map[string]any{
		"2026-01-14T10:00:00": map[string]any{"title": "moved"},
	}

	overrides, err := obj.RecurrenceOverrides()
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	assert.Equal(t, "moved", overrides["2026-01-14T10:00:00"]["title"])

	obj["recurrenceOverrides"] = map[string]any{"2026-01-14T10:00:00": "not an object"}
	_, err = obj.RecurrenceOverrides()
	assert.Error(t, err)
}

func TestClone_IsDeep(t *testing.T) {
	obj := NewEvent()
	obj["start"] = "2026-01-07T10:00:00"
	obj["locations"] = map[string]any{
		"main": map[string]any{"@type": "Location", "name": "office"},
	}
	obj["recurrenceRules"] = []RecurrenceRule{{Frequency: FreqWeekly, ByHour: []int{9}}}

	clone := obj.Clone()
	clone["start"] = "2027-01-01T00:00:00"
	clone["locations"].(map[string]any)["main"].(map[string]any)["name"] = "offsite"
	clone["recurrenceRules"].([]RecurrenceRule)[0].ByHour[0] = 17

	assert.Equal(t, "2026-01-07T10:00:00", obj.GetString("start"))
	assert.Equal(t, "office", obj["locations"].(map[string]any)["main"].(map[string]any)["name"])
	rules, err := obj.RecurrenceRules()
	require.NoError(t, err)
	assert.Equal(t, []int{9}, rules[0].ByHour)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(CalendarObject)
		wantErr string
	}{
		{
			name:   "valid event",
			mutate: func(o CalendarObject) { o["start"] = "2026-01-07T10:00:00" },
		},
		{
			name:    "event without start",
			mutate:  func(o CalendarObject) {},
			wantErr: "no start",
		},
		{
			name: "bad start grammar",
			mutate: func(o CalendarObject) {
				o["start"] = "2026-01-07 10:00:00"
			},
			wantErr: "invalid start",
		},
		{
			name: "bad frequency",
			mutate: func(o CalendarObject) {
				o["start"] = "2026-01-07T10:00:00"
				o["recurrenceRules"] = []RecurrenceRule{{Frequency: "fortnightly"}}
			},
			wantErr: "invalid frequency",
		},
		{
			name: "count and until together",
			mutate: func(o CalendarObject) {
				o["start"] = "2026-01-07T10:00:00"
				o["recurrenceRules"] = []RecurrenceRule{
					{Frequency: FreqWeekly, Count: 3, Until: "2026-06-01T00:00:00"},
				}
			},
			wantErr: "mutually exclusive",
		},
		{
			name: "bad override key",
			mutate: func(o CalendarObject) {
				o["start"] = "2026-01-07T10:00:00"
				o["recurrenceOverrides"] = map[string]any{"not-a-date": map[string]any{}}
			},
			wantErr: "recurrenceOverrides key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := NewEvent()
			tt.mutate(obj)
			err := Validate(obj)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
