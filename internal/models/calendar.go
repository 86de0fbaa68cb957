package models

import "time"

// CalendarCell is the derived per-day render state for the month view. It is
// recomputed in full on every navigation or refresh, never persisted.
type CalendarCell struct {
	Date           time.Time         `json:"date"`
	InViewMonth    bool              `json:"in_view_month"`
	Weekend        bool              `json:"weekend"`
	Today          bool              `json:"today"`
	PastUnrecorded bool              `json:"past_unrecorded"`
	Record         *AttendanceRecord `json:"record,omitempty"`
}
