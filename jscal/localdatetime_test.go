package jscal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocalDateTime(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    LocalDateTime
		wantErr bool
	}{
		{
			name: "valid",
			in:   "2026-02-02T09:30:05",
			want: LocalDateTime{Year: 2026, Month: 2, Day: 2, Hour: 9, Minute: 30, Second: 5},
		},
		{
			name:    "calendar-invalid day",
			in:      "2026-02-30T09:00:00",
			wantErr: true,
		},
		{
			name:    "missing seconds",
			in:      "2026-02-02T09:30",
			wantErr: true,
		},
		{
			name:    "utc suffix not allowed",
			in:      "2026-02-02T09:30:05Z",
			wantErr: true,
		},
		{
			name:    "empty",
			in:      "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocalDateTime(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedDateTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestLocalDateTime_Ordering(t *testing.T) {
	a, err := ParseLocalDateTime("2026-02-02T09:00:00")
	require.NoError(t, err)
	b, err := ParseLocalDateTime("2026-02-02T09:00:01")
	require.NoError(t, err)

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	// String order must equal chronological order.
	assert.Less(t, a.String(), b.String())
}

func TestLocalDateTime_Arithmetic(t *testing.T) {
	d := LocalDateTime{Year: 2026, Month: 1, Day: 31, Hour: 9}

	assert.Equal(t, "2026-02-01T09:00:00", d.AddDate(0, 0, 1).String())
	assert.Equal(t, "2027-01-31T09:00:00", d.AddDate(1, 0, 0).String())
	assert.Equal(t, "2026-02-01T01:00:00", d.Add(16, 0, 0).String())
	assert.Equal(t, time.Saturday, d.Weekday())
	assert.Equal(t, 31, d.YearDay())
}

func TestWeekStart(t *testing.T) {
	// 2026-06-18 is a Thursday.
	d := LocalDateTime{Year: 2026, Month: 6, Day: 18, Hour: 8}

	assert.Equal(t, "2026-06-15T08:00:00", d.WeekStart(time.Monday).String())
	assert.Equal(t, "2026-06-14T08:00:00", d.WeekStart(time.Sunday).String())
	assert.Equal(t, "2026-06-18T08:00:00", d.WeekStart(time.Thursday).String())
}

func TestWeekNumber(t *testing.T) {
	tests := []struct {
		date     string
		wantYear int
		wantWeek int
	}{
		// Matches ISO 8601 for a Monday week start.
		{"2026-01-01T00:00:00", 2026, 1},
		{"2026-01-05T00:00:00", 2026, 2},
		{"2026-12-28T00:00:00", 2026, 53},
		{"2027-01-01T00:00:00", 2026, 53},
		{"2024-12-30T00:00:00", 2025, 1},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := ParseLocalDateTime(tt.date)
			require.NoError(t, err)
			year, week := d.WeekNumber(time.Monday)
			assert.Equal(t, tt.wantYear, year)
			assert.Equal(t, tt.wantWeek, week)

			// Sanity check against the standard library.
			wantYear, wantWeek := d.In(time.UTC).ISOWeek()
			assert.Equal(t, wantYear, year)
			assert.Equal(t, wantWeek, week)
		})
	}
}

func TestWeeksInYear(t *testing.T) {
	assert.Equal(t, 53, WeeksInYear(2026, time.Monday))
	assert.Equal(t, 52, WeeksInYear(2025, time.Monday))
	assert.Equal(t, 53, WeeksInYear(2020, time.Monday))
}

func TestCalendarLengths(t *testing.T) {
	assert.True(t, IsLeapYear(2024))
	assert.False(t, IsLeapYear(2026))
	assert.False(t, IsLeapYear(1900))
	assert.True(t, IsLeapYear(2000))

	assert.Equal(t, 29, DaysInMonth(2024, 2))
	assert.Equal(t, 28, DaysInMonth(2026, 2))
	assert.Equal(t, 31, DaysInMonth(2026, 12))
	assert.Equal(t, 30, DaysInMonth(2026, 4))

	assert.Equal(t, 366, DaysInYear(2024))
	assert.Equal(t, 365, DaysInYear(2026))
}
