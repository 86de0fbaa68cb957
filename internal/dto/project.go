package dto

// CreateProjectRequest opens a new project.
type CreateProjectRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	LeadID      *string `json:"lead_id" validate:"omitempty,uuid4"`
}

// UpdateProjectRequest rewrites mutable project fields.
type UpdateProjectRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Status      string  `json:"status" validate:"required,oneof=active on-hold completed"`
	EndDate     *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	LeadID      *string `json:"lead_id" validate:"omitempty,uuid4"`
}

// AddProjectMemberRequest assigns an employee to a project.
type AddProjectMemberRequest struct {
	EmployeeID string `json:"employee_id" validate:"required,uuid4"`
	RoleLabel  string `json:"role_label" validate:"required,max=60"`
}
