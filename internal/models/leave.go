package models

import "time"

// LeaveStatus tracks the approval workflow of a leave request.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
	LeaveStatusCancelled LeaveStatus = "cancelled"
)

// Valid reports whether the status is a supported value.
func (s LeaveStatus) Valid() bool {
	switch s {
	case LeaveStatusPending, LeaveStatusApproved, LeaveStatusRejected, LeaveStatusCancelled:
		return true
	default:
		return false
	}
}

// LeaveRequest is a single leave application.
type LeaveRequest struct {
	ID            string      `db:"id" json:"id"`
	EmployeeID    string      `db:"employee_id" json:"employee_id"`
	EmployeeName  *string     `db:"employee_name" json:"employee_name,omitempty"`
	LeaveTypeID   string      `db:"leave_type_id" json:"leave_type_id"`
	LeaveTypeName *string     `db:"leave_type_name" json:"leave_type_name,omitempty"`
	StartDate     time.Time   `db:"start_date" json:"start_date"`
	EndDate       time.Time   `db:"end_date" json:"end_date"`
	Reason        string      `db:"reason" json:"reason"`
	Status        LeaveStatus `db:"status" json:"status"`
	DecidedBy     *string     `db:"decided_by" json:"decided_by,omitempty"`
	DecidedAt     *time.Time  `db:"decided_at" json:"decided_at,omitempty"`
	DecisionNote  *string     `db:"decision_note" json:"decision_note,omitempty"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// LeaveFilter scopes leave listings.
type LeaveFilter struct {
	EmployeeID string
	Status     *LeaveStatus
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
