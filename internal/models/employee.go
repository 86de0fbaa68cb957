package models

import "time"

// Employee is the master personnel row.
type Employee struct {
	ID             string     `db:"id" json:"id"`
	EmployeeNo     string     `db:"employee_no" json:"employee_no"`
	FullName       string     `db:"full_name" json:"full_name"`
	Email          string     `db:"email" json:"email"`
	Phone          *string    `db:"phone" json:"phone,omitempty"`
	DepartmentID   string     `db:"department_id" json:"department_id"`
	DepartmentName *string    `db:"department_name" json:"department_name,omitempty"`
	DesignationID  string     `db:"designation_id" json:"designation_id"`
	Designation    *string    `db:"designation_name" json:"designation,omitempty"`
	EmployeeTypeID string     `db:"employee_type_id" json:"employee_type_id"`
	SupervisorID   *string    `db:"supervisor_id" json:"supervisor_id,omitempty"`
	JoinedAt       time.Time  `db:"joined_at" json:"joined_at"`
	Active         bool       `db:"active" json:"active"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
	DeactivatedAt  *time.Time `db:"deactivated_at" json:"deactivated_at,omitempty"`
}

// EmployeeFilter captures roster listing criteria.
type EmployeeFilter struct {
	DepartmentID string
	Search       string
	Active       *bool
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
