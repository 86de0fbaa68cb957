package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/talentra/ems-api/internal/models"
)

// DocumentRepository handles persistence for employee document metadata.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository constructs the repository.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// ListByEmployee returns document metadata for one employee, newest first.
func (r *DocumentRepository) ListByEmployee(ctx context.Context, employeeID string) ([]models.Document, error) {
	documents := []models.Document{}
	query := `SELECT id, employee_id, title, category, file_name, mime_type, size_bytes, uploaded_by, created_at
        FROM documents WHERE employee_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &documents, query, employeeID)
	return documents, err
}

// FindByID fetches one document's metadata.
func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*models.Document, error) {
	var document models.Document
	query := `SELECT id, employee_id, title, category, file_name, mime_type, size_bytes, uploaded_by, created_at
        FROM documents WHERE id = $1`
	if err := r.db.GetContext(ctx, &document, query, id); err != nil {
		return nil, err
	}
	return &document, nil
}

// Create inserts document metadata after the file has been stored.
func (r *DocumentRepository) Create(ctx context.Context, document *models.Document) error {
	query := `INSERT INTO documents (id, employee_id, title, category, file_name, mime_type, size_bytes, uploaded_by, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		document.ID, document.EmployeeID, document.Title, document.Category,
		document.FileName, document.MIMEType, document.SizeBytes, document.UploadedBy, document.CreatedAt)
	return err
}

// Delete removes document metadata.
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	return execExpectingRow(ctx, r.db, "DELETE FROM documents WHERE id = $1", id)
}
