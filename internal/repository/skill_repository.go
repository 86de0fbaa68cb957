package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/talentra/ems-api/internal/models"
)

// SkillRepository handles persistence for employee skills.
type SkillRepository struct {
	db *sqlx.DB
}

// NewSkillRepository constructs the repository.
func NewSkillRepository(db *sqlx.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// ListByEmployee returns all skills for one employee.
func (r *SkillRepository) ListByEmployee(ctx context.Context, employeeID string) ([]models.Skill, error) {
	skills := []models.Skill{}
	query := `SELECT id, employee_id, name, level, years_used, created_at, updated_at
        FROM skills WHERE employee_id = $1 ORDER BY name ASC`
	err := r.db.SelectContext(ctx, &skills, query, employeeID)
	return skills, err
}

// Upsert inserts or updates a skill keyed by (employee_id, name).
func (r *SkillRepository) Upsert(ctx context.Context, skill *models.Skill) error {
	query := `INSERT INTO skills (id, employee_id, name, level, years_used, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (employee_id, name)
        DO UPDATE SET level = EXCLUDED.level, years_used = EXCLUDED.years_used, updated_at = EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		skill.ID, skill.EmployeeID, skill.Name, skill.Level, skill.YearsUsed, skill.CreatedAt, skill.UpdatedAt)
	return err
}

// Delete removes a skill.
func (r *SkillRepository) Delete(ctx context.Context, id string) error {
	return execExpectingRow(ctx, r.db, "DELETE FROM skills WHERE id = $1", id)
}
