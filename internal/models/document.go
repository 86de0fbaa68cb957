package models

import "time"

// Document is stored file metadata belonging to an employee.
type Document struct {
	ID         string    `db:"id" json:"id"`
	EmployeeID string    `db:"employee_id" json:"employee_id"`
	Title      string    `db:"title" json:"title"`
	Category   string    `db:"category" json:"category"`
	FileName   string    `db:"file_name" json:"file_name"`
	MIMEType   string    `db:"mime_type" json:"mime_type"`
	SizeBytes  int64     `db:"size_bytes" json:"size_bytes"`
	UploadedBy string    `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
