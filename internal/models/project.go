package models

import "time"

// ProjectStatus tracks project lifecycle.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on-hold"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// Project groups employees under a deliverable.
type Project struct {
	ID          string        `db:"id" json:"id"`
	Name        string        `db:"name" json:"name"`
	Description *string       `db:"description" json:"description,omitempty"`
	Status      ProjectStatus `db:"status" json:"status"`
	StartDate   time.Time     `db:"start_date" json:"start_date"`
	EndDate     *time.Time    `db:"end_date" json:"end_date,omitempty"`
	LeadID      *string       `db:"lead_id" json:"lead_id,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// ProjectMember assigns an employee to a project with a role label.
type ProjectMember struct {
	ProjectID  string    `db:"project_id" json:"project_id"`
	EmployeeID string    `db:"employee_id" json:"employee_id"`
	RoleLabel  string    `db:"role_label" json:"role_label"`
	AssignedAt time.Time `db:"assigned_at" json:"assigned_at"`
}

// ProjectFilter scopes project listings.
type ProjectFilter struct {
	EmployeeID string
	Status     *ProjectStatus
	Page       int
	PageSize   int
}
