package dto

// CreateLeaveRequest submits a new leave application.
type CreateLeaveRequest struct {
	LeaveTypeID string `json:"leave_type_id" validate:"required,uuid4"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason      string `json:"reason" validate:"required,max=500"`
}

// DecideLeaveRequest carries an optional note for an approval or rejection.
type DecideLeaveRequest struct {
	Note *string `json:"note" validate:"omitempty,max=500"`
}
