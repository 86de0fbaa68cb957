package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/talentra/ems-api/internal/models"
)

// ProjectRepository handles persistence for projects and their members.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository constructs the repository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// List returns projects matching the filter plus a total count. When
// EmployeeID is set only projects the employee is assigned to are returned.
func (r *ProjectRepository) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, int, error) {
	base := "FROM projects p"
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.EmployeeID != "" {
		base += " JOIN project_members pm ON pm.project_id = p.id"
		where = append(where, fmt.Sprintf("pm.employee_id = $%d", len(args)+1))
		args = append(args, filter.EmployeeID)
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("p.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	countQuery := fmt.Sprintf("SELECT COUNT(DISTINCT p.id) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT DISTINCT p.id, p.name, p.description, p.status, p.start_date, p.end_date,
        p.lead_id, p.created_at, p.updated_at
        %s WHERE %s ORDER BY p.name ASC LIMIT %d OFFSET %d`, base, whereClause, size, offset)

	projects := []models.Project{}
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// FindByID fetches a single project.
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	query := `SELECT id, name, description, status, start_date, end_date, lead_id, created_at, updated_at
        FROM projects WHERE id = $1`
	var project models.Project
	if err := r.db.GetContext(ctx, &project, query, id); err != nil {
		return nil, err
	}
	return &project, nil
}

// Create inserts a new project.
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `INSERT INTO projects (id, name, description, status, start_date, end_date, lead_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		project.ID, project.Name, project.Description, project.Status,
		project.StartDate, project.EndDate, project.LeadID, project.CreatedAt, project.UpdatedAt)
	return err
}

// Update rewrites the mutable project fields.
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := `UPDATE projects SET name = $1, description = $2, status = $3, start_date = $4,
        end_date = $5, lead_id = $6, updated_at = $7 WHERE id = $8`
	return execExpectingRow(ctx, r.db, query,
		project.Name, project.Description, project.Status, project.StartDate,
		project.EndDate, project.LeadID, project.UpdatedAt, project.ID)
}

// Members lists project assignments.
func (r *ProjectRepository) Members(ctx context.Context, projectID string) ([]models.ProjectMember, error) {
	members := []models.ProjectMember{}
	err := r.db.SelectContext(ctx, &members,
		"SELECT project_id, employee_id, role_label, assigned_at FROM project_members WHERE project_id = $1", projectID)
	return members, err
}

// AddMember assigns an employee to a project.
func (r *ProjectRepository) AddMember(ctx context.Context, member *models.ProjectMember) error {
	query := `INSERT INTO project_members (project_id, employee_id, role_label, assigned_at)
        VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, member.ProjectID, member.EmployeeID, member.RoleLabel, member.AssignedAt)
	return err
}

// RemoveMember drops an assignment.
func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, employeeID string) error {
	return execExpectingRow(ctx, r.db,
		"DELETE FROM project_members WHERE project_id = $1 AND employee_id = $2", projectID, employeeID)
}
