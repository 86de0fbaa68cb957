package dto

// CreateEmployeeRequest registers a new employee on the roster.
type CreateEmployeeRequest struct {
	EmployeeNo     string  `json:"employee_no" validate:"required,max=20"`
	FullName       string  `json:"full_name" validate:"required,max=120"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	DepartmentID   string  `json:"department_id" validate:"required,uuid4"`
	DesignationID  string  `json:"designation_id" validate:"required,uuid4"`
	EmployeeTypeID string  `json:"employee_type_id" validate:"required,uuid4"`
	SupervisorID   *string `json:"supervisor_id" validate:"omitempty,uuid4"`
	JoinedAt       string  `json:"joined_at" validate:"required,datetime=2006-01-02"`
}

// UpdateEmployeeRequest rewrites the mutable profile fields.
type UpdateEmployeeRequest struct {
	FullName       string  `json:"full_name" validate:"required,max=120"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	DepartmentID   string  `json:"department_id" validate:"required,uuid4"`
	DesignationID  string  `json:"designation_id" validate:"required,uuid4"`
	EmployeeTypeID string  `json:"employee_type_id" validate:"required,uuid4"`
	SupervisorID   *string `json:"supervisor_id" validate:"omitempty,uuid4"`
}
