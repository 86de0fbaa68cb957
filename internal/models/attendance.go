package models

import "time"

// AttendanceStatus is the closed set of recorded attendance statuses.
// Wire values are lowercase-hyphenated and case-sensitive.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusLate    AttendanceStatus = "late"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusHalfDay AttendanceStatus = "half-day"
	AttendanceStatusOnLeave AttendanceStatus = "on-leave"
	// AttendanceStatusUnknown is the fallback bucket for unrecognised wire
	// values. The raw value is preserved alongside on the record.
	AttendanceStatusUnknown AttendanceStatus = "unknown"
)

// Valid returns true when the status is a supported recorded value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusLate, AttendanceStatusAbsent,
		AttendanceStatusHalfDay, AttendanceStatusOnLeave:
		return true
	default:
		return false
	}
}

// ParseAttendanceStatus maps a wire value onto the closed enum. Unrecognised
// values classify as unknown rather than failing the caller.
func ParseAttendanceStatus(raw string) AttendanceStatus {
	s := AttendanceStatus(raw)
	if s.Valid() {
		return s
	}
	return AttendanceStatusUnknown
}

// DateKey canonicalises a moment to the storage key for its calendar date:
// midnight UTC of the date as observed in t's location. Every write and
// every date-keyed query must go through this so the same local day always
// maps to the same stored instant.
func DateKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AttendanceRecord is a single per-employee per-day attendance row. At most
// one record exists per employee per calendar date.
type AttendanceRecord struct {
	ID         string           `db:"id" json:"id"`
	EmployeeID string           `db:"employee_id" json:"employee_id"`
	Date       time.Time        `db:"date" json:"date"`
	Status     AttendanceStatus `db:"status" json:"status"`
	RawStatus  string           `db:"-" json:"-"`
	CheckIn    *time.Time       `db:"check_in" json:"check_in,omitempty"`
	CheckOut   *time.Time       `db:"check_out" json:"check_out,omitempty"`
	Note       *string          `db:"note" json:"note,omitempty"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// AttendanceSummary counts the four displayed status tiles for a month.
// Absent and unknown records are intentionally excluded from the tile set.
type AttendanceSummary struct {
	Present int `db:"present_count" json:"present_count"`
	Late    int `db:"late_count" json:"late_count"`
	HalfDay int `db:"half_day_count" json:"half_day_count"`
	OnLeave int `db:"leave_count" json:"leave_count"`
}

// TodayState captures the dashboard check-in/out state machine.
type TodayState string

const (
	TodayStateNotCheckedIn TodayState = "not-checked-in"
	TodayStateOpen         TodayState = "checked-in-open"
	TodayStateClosed       TodayState = "checked-in-closed"
	// TodayStateOnLeave is entered directly from an approved leave record and
	// is terminal for the day.
	TodayStateOnLeave TodayState = "on-leave"
)

// TodayAttendance is the state of today's record for one employee.
type TodayAttendance struct {
	Status    AttendanceStatus `json:"status"`
	CheckedIn bool             `json:"checked_in"`
	CheckIn   *time.Time       `json:"check_in,omitempty"`
	CheckOut  *time.Time       `json:"check_out,omitempty"`
	Note      *string          `json:"note,omitempty"`
}

// State derives the machine state from the record fields.
func (t *TodayAttendance) State() TodayState {
	if t == nil {
		return TodayStateNotCheckedIn
	}
	if t.Status == AttendanceStatusOnLeave {
		return TodayStateOnLeave
	}
	switch {
	case t.CheckIn != nil && t.CheckOut != nil:
		return TodayStateClosed
	case t.CheckIn != nil:
		return TodayStateOpen
	default:
		return TodayStateNotCheckedIn
	}
}

// AttendanceFilter scopes month queries.
type AttendanceFilter struct {
	EmployeeID string
	Year       int
	Month      time.Month
}
