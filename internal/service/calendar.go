package service

import (
	"time"

	"github.com/talentra/ems-api/internal/models"
)

// Calendar derivation is pure and stateless: given the month's records, the
// viewed month and "today", it produces the full render state for the month
// view. Callers recompute it on every navigation or refresh.

// MonthGrid returns the ordered dates covering complete Sunday–Saturday weeks
// that fully contain the given month. The result length is always a multiple
// of seven. Week boundaries are fixed, not locale-driven.
func MonthGrid(year int, month time.Month, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	days := make([]time.Time, 0, 42)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// SameCalendarDay compares the (year, month, day) triple of two instants
// after converting b into a's location. Timestamps that only differ by
// time-of-day or zone representation still match.
func SameCalendarDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// MatchRecord returns the record whose calendar date equals day, or nil.
// Records with a zero date (e.g. an upstream value that failed to parse)
// never match.
func MatchRecord(day time.Time, records []models.AttendanceRecord) *models.AttendanceRecord {
	for i := range records {
		if records[i].Date.IsZero() {
			continue
		}
		if SameCalendarDay(day, records[i].Date) {
			return &records[i]
		}
	}
	return nil
}

// ClassifyCell computes the render flags for a single grid cell.
//
// PastUnrecorded marks the "implied absence" case: a weekday strictly before
// today, inside the viewed month, with no record of any status. Days holding
// an explicit absent record are already recorded and are not flagged.
func ClassifyCell(day time.Time, viewYear int, viewMonth time.Month, today time.Time, record *models.AttendanceRecord) models.CalendarCell {
	y, m, _ := day.Date()
	inMonth := y == viewYear && m == viewMonth
	weekend := day.Weekday() == time.Saturday || day.Weekday() == time.Sunday
	isToday := SameCalendarDay(day, today)
	past := beforeCalendarDay(day, today)

	return models.CalendarCell{
		Date:           day,
		InViewMonth:    inMonth,
		Weekend:        weekend,
		Today:          isToday,
		PastUnrecorded: past && inMonth && !weekend && record == nil,
		Record:         record,
	}
}

// Summarize counts the four displayed summary tiles by exact status match.
// Absent and unrecognised statuses are excluded from the tile set.
func Summarize(records []models.AttendanceRecord) models.AttendanceSummary {
	var s models.AttendanceSummary
	for _, r := range records {
		switch r.Status {
		case models.AttendanceStatusPresent:
			s.Present++
		case models.AttendanceStatusLate:
			s.Late++
		case models.AttendanceStatusHalfDay:
			s.HalfDay++
		case models.AttendanceStatusOnLeave:
			s.OnLeave++
		}
	}
	return s
}

// BuildCalendar derives the full cell set for a viewed month. The viewer's
// calendar reference is today's location.
func BuildCalendar(records []models.AttendanceRecord, year int, month time.Month, today time.Time) []models.CalendarCell {
	grid := MonthGrid(year, month, today.Location())
	cells := make([]models.CalendarCell, 0, len(grid))
	for _, day := range grid {
		record := MatchRecord(day, records)
		cells = append(cells, ClassifyCell(day, year, month, today, record))
	}
	return cells
}

// beforeCalendarDay reports whether a's calendar date is strictly before b's,
// ignoring time-of-day.
func beforeCalendarDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
