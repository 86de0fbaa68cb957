package dto

import "github.com/talentra/ems-api/internal/models"

// CreateDepartmentRequest adds an organisational unit.
type CreateDepartmentRequest struct {
	Name string `json:"name" validate:"required,max=80"`
}

// CreateDesignationRequest adds a job title.
type CreateDesignationRequest struct {
	Name         string  `json:"name" validate:"required,max=80"`
	DepartmentID *string `json:"department_id" validate:"omitempty,uuid4"`
}

// CreateEmployeeTypeRequest adds an employment arrangement.
type CreateEmployeeTypeRequest struct {
	Name string `json:"name" validate:"required,max=80"`
}

// CreateLeaveTypeRequest adds a leave category.
type CreateLeaveTypeRequest struct {
	Name        string `json:"name" validate:"required,max=80"`
	AnnualQuota int    `json:"annual_quota" validate:"required,min=0,max=366"`
}

// RefdataBundle is the combined reference data payload consumed by form
// dropdowns, fetched once and cached.
type RefdataBundle struct {
	Departments   []models.Department   `json:"departments"`
	Designations  []models.Designation  `json:"designations"`
	EmployeeTypes []models.EmployeeType `json:"employee_types"`
	LeaveTypes    []models.LeaveType    `json:"leave_types"`
}
