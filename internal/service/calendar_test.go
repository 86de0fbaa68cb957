package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentra/ems-api/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthGridCoversFullWeeks(t *testing.T) {
	months := []struct {
		year  int
		month time.Month
	}{
		{2024, time.January},
		{2024, time.February}, // leap year
		{2024, time.March},
		{2023, time.February}, // 28 days
		{2025, time.June},     // starts on Sunday
		{2024, time.August},   // ends on Saturday
	}

	for _, tc := range months {
		grid := MonthGrid(tc.year, tc.month, time.UTC)
		require.NotEmpty(t, grid)

		assert.Zero(t, len(grid)%7, "grid length must be a multiple of 7 for %v %d", tc.month, tc.year)
		assert.Equal(t, time.Sunday, grid[0].Weekday())
		assert.Equal(t, time.Saturday, grid[len(grid)-1].Weekday())

		// every date of the month appears exactly once
		seen := map[int]bool{}
		for _, d := range grid {
			if d.Month() == tc.month && d.Year() == tc.year {
				assert.False(t, seen[d.Day()])
				seen[d.Day()] = true
			}
		}
		last := day(tc.year, tc.month, 1).AddDate(0, 1, -1)
		assert.Len(t, seen, last.Day())

		// consecutive days
		for i := 1; i < len(grid); i++ {
			assert.Equal(t, grid[i-1].AddDate(0, 0, 1), grid[i])
		}
	}
}

func TestMonthGridMarch2024(t *testing.T) {
	grid := MonthGrid(2024, time.March, time.UTC)

	// March 2024 starts on a Friday and ends on a Sunday, so the grid runs
	// from Feb 25 through Apr 6.
	require.Len(t, grid, 42)
	assert.Equal(t, day(2024, time.February, 25), grid[0])
	assert.Equal(t, day(2024, time.April, 6), grid[len(grid)-1])
}

func TestSameCalendarDayAcrossZones(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)

	// 2024-03-05T23:30 UTC is already 2024-03-06 in WIB.
	utcEvening := time.Date(2024, time.March, 5, 23, 30, 0, 0, time.UTC)
	localDay := time.Date(2024, time.March, 6, 0, 0, 0, 0, jakarta)

	assert.True(t, SameCalendarDay(localDay, utcEvening))

	// comparison happens in the viewer's zone: midnight Mar 6 WIB is still
	// Mar 5 for a UTC viewer
	assert.False(t, SameCalendarDay(day(2024, time.March, 6), localDay))
}

func TestMatchRecordByCalendarDate(t *testing.T) {
	records := []models.AttendanceRecord{
		{ID: "a", Date: time.Date(2024, time.March, 5, 9, 5, 0, 0, time.UTC), Status: models.AttendanceStatusPresent},
		{ID: "b", Date: day(2024, time.March, 6), Status: models.AttendanceStatusLate},
		{ID: "bad"}, // zero date, never matches
	}

	match := MatchRecord(day(2024, time.March, 5), records)
	require.NotNil(t, match)
	assert.Equal(t, "a", match.ID)
	assert.True(t, SameCalendarDay(day(2024, time.March, 5), match.Date))

	assert.Nil(t, MatchRecord(day(2024, time.March, 7), records))
	assert.Nil(t, MatchRecord(day(2024, time.January, 1), records))
}

func TestClassifyCellPastUnrecorded(t *testing.T) {
	today := day(2024, time.March, 10)
	record := &models.AttendanceRecord{Status: models.AttendanceStatusAbsent}

	tests := []struct {
		name   string
		cell   time.Time
		record *models.AttendanceRecord
		want   bool
	}{
		{"past weekday without record", day(2024, time.March, 7), nil, true},
		{"past weekday with absent record", day(2024, time.March, 7), record, false},
		{"weekend", day(2024, time.March, 9), nil, false}, // Saturday
		{"today", day(2024, time.March, 10), nil, false},
		{"future weekday", day(2024, time.March, 11), nil, false},
		{"out-of-month weekday", day(2024, time.February, 28), nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cell := ClassifyCell(tc.cell, 2024, time.March, today, tc.record)
			assert.Equal(t, tc.want, cell.PastUnrecorded)
		})
	}
}

func TestClassifyCellFlags(t *testing.T) {
	today := day(2024, time.March, 10)

	cell := ClassifyCell(day(2024, time.March, 10), 2024, time.March, today, nil)
	assert.True(t, cell.Today)
	assert.True(t, cell.Weekend) // March 10 2024 is a Sunday
	assert.True(t, cell.InViewMonth)
	assert.False(t, cell.PastUnrecorded)

	overflow := ClassifyCell(day(2024, time.February, 25), 2024, time.March, today, nil)
	assert.False(t, overflow.InViewMonth)
	assert.False(t, overflow.PastUnrecorded)
}

func TestSummarizeCountsDisplayedTilesOnly(t *testing.T) {
	records := []models.AttendanceRecord{
		{Status: models.AttendanceStatusPresent},
		{Status: models.AttendanceStatusPresent},
		{Status: models.AttendanceStatusLate},
		{Status: models.AttendanceStatusHalfDay},
		{Status: models.AttendanceStatusOnLeave},
		{Status: models.AttendanceStatusAbsent},  // not a displayed tile
		{Status: models.AttendanceStatusUnknown}, // excluded
	}

	s := Summarize(records)
	assert.Equal(t, 2, s.Present)
	assert.Equal(t, 1, s.Late)
	assert.Equal(t, 1, s.HalfDay)
	assert.Equal(t, 1, s.OnLeave)

	total := s.Present + s.Late + s.HalfDay + s.OnLeave
	assert.LessOrEqual(t, total, len(records))
}

func TestBuildCalendarMarch2024Scenario(t *testing.T) {
	checkIn := time.Date(2024, time.March, 5, 9, 5, 0, 0, time.UTC)
	records := []models.AttendanceRecord{
		{ID: "r1", Date: day(2024, time.March, 5), Status: models.AttendanceStatusPresent, CheckIn: &checkIn},
		{ID: "r2", Date: day(2024, time.March, 6), Status: models.AttendanceStatusLate},
	}
	today := day(2024, time.March, 10)

	cells := BuildCalendar(records, 2024, time.March, today)
	require.Len(t, cells, 42)

	byDay := map[string]models.CalendarCell{}
	for _, c := range cells {
		byDay[c.Date.Format("2006-01-02")] = c
	}

	mar5 := byDay["2024-03-05"]
	require.NotNil(t, mar5.Record)
	assert.Equal(t, models.AttendanceStatusPresent, mar5.Record.Status)
	require.NotNil(t, mar5.Record.CheckIn)
	assert.Equal(t, "09:05", mar5.Record.CheckIn.UTC().Format("15:04"))

	mar6 := byDay["2024-03-06"]
	require.NotNil(t, mar6.Record)
	assert.Equal(t, models.AttendanceStatusLate, mar6.Record.Status)

	// weekdays before today with no record carry the implied-absence flag
	assert.True(t, byDay["2024-03-07"].PastUnrecorded)
	assert.True(t, byDay["2024-03-08"].PastUnrecorded)

	// Saturday and today (Sunday) stay unflagged
	assert.False(t, byDay["2024-03-09"].PastUnrecorded)
	assert.False(t, byDay["2024-03-10"].PastUnrecorded)
	assert.True(t, byDay["2024-03-10"].Today)

	// days from adjacent months never carry the flag
	assert.False(t, byDay["2024-02-26"].PastUnrecorded)
	assert.False(t, byDay["2024-04-01"].PastUnrecorded)
}

func TestParseAttendanceStatusFallback(t *testing.T) {
	assert.Equal(t, models.AttendanceStatusLate, models.ParseAttendanceStatus("late"))
	assert.Equal(t, models.AttendanceStatusUnknown, models.ParseAttendanceStatus("LATE"))
	assert.Equal(t, models.AttendanceStatusUnknown, models.ParseAttendanceStatus("wfh"))
	assert.Equal(t, models.AttendanceStatusUnknown, models.ParseAttendanceStatus(""))
}
