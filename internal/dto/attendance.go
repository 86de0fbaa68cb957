package dto

import (
	"github.com/talentra/ems-api/internal/models"
)

// MonthViewResponse is the month attendance payload: the raw records, the
// summary tiles and the derived calendar cells.
type MonthViewResponse struct {
	Year    int                       `json:"year"`
	Month   int                       `json:"month"`
	Records []models.AttendanceRecord `json:"records"`
	Summary models.AttendanceSummary  `json:"summary"`
	Cells   []models.CalendarCell     `json:"cells"`
}

// TodayResponse reports today's attendance state for the dashboard.
type TodayResponse struct {
	State models.TodayState       `json:"state"`
	Today *models.TodayAttendance `json:"today,omitempty"`
}
