package models

import "time"

// Skill is a self-declared proficiency on an employee profile.
type Skill struct {
	ID         string    `db:"id" json:"id"`
	EmployeeID string    `db:"employee_id" json:"employee_id"`
	Name       string    `db:"name" json:"name"`
	Level      int       `db:"level" json:"level"` // 1..5
	YearsUsed  *float64  `db:"years_used" json:"years_used,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
