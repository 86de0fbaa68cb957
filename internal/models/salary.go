package models

import "time"

// SalaryRecord is one month's salary history entry.
type SalaryRecord struct {
	ID          string     `db:"id" json:"id"`
	EmployeeID  string     `db:"employee_id" json:"employee_id"`
	Year        int        `db:"year" json:"year"`
	Month       int        `db:"month" json:"month"`
	BasicAmount float64    `db:"basic_amount" json:"basic_amount"`
	Allowances  float64    `db:"allowances" json:"allowances"`
	Deductions  float64    `db:"deductions" json:"deductions"`
	NetAmount   float64    `db:"net_amount" json:"net_amount"`
	PaidAt      *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// PayslipJobStatus tracks asynchronous slip generation.
type PayslipJobStatus string

const (
	PayslipJobQueued    PayslipJobStatus = "queued"
	PayslipJobRunning   PayslipJobStatus = "running"
	PayslipJobCompleted PayslipJobStatus = "completed"
	PayslipJobFailed    PayslipJobStatus = "failed"
)

// PayslipJob records a requested PDF payslip export.
type PayslipJob struct {
	ID          string           `db:"id" json:"id"`
	EmployeeID  string           `db:"employee_id" json:"employee_id"`
	Year        int              `db:"year" json:"year"`
	Month       int              `db:"month" json:"month"`
	Status      PayslipJobStatus `db:"status" json:"status"`
	FilePath    *string          `db:"file_path" json:"file_path,omitempty"`
	Error       *string          `db:"error" json:"error,omitempty"`
	RequestedBy string           `db:"requested_by" json:"requested_by"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}
