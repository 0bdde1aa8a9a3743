package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/campusgrid/timetable-api/internal/models"
)

// PeriodTemplateRepository persists period templates and their slot lists.
type PeriodTemplateRepository struct {
	db *sqlx.DB
}

// NewPeriodTemplateRepository creates a new period template repository.
func NewPeriodTemplateRepository(db *sqlx.DB) *PeriodTemplateRepository {
	return &PeriodTemplateRepository{db: db}
}

// List returns all templates, newest first.
func (r *PeriodTemplateRepository) List(ctx context.Context) ([]models.PeriodTemplate, error) {
	const query = `SELECT id, name, is_active, slots, created_at, updated_at FROM period_templates ORDER BY created_at DESC`
	var templates []models.PeriodTemplate
	if err := r.db.SelectContext(ctx, &templates, query); err != nil {
		return nil, fmt.Errorf("list period templates: %w", err)
	}
	return templates, nil
}

// FindByID loads a template by id.
func (r *PeriodTemplateRepository) FindByID(ctx context.Context, id string) (*models.PeriodTemplate, error) {
	const query = `SELECT id, name, is_active, slots, created_at, updated_at FROM period_templates WHERE id = $1`
	var tpl models.PeriodTemplate
	if err := r.db.GetContext(ctx, &tpl, query, id); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// FindActive returns the currently active template. sql.ErrNoRows means the
// system has no schedulable grid.
func (r *PeriodTemplateRepository) FindActive(ctx context.Context) (*models.PeriodTemplate, error) {
	const query = `SELECT id, name, is_active, slots, created_at, updated_at FROM period_templates WHERE is_active = TRUE ORDER BY updated_at DESC LIMIT 1`
	var tpl models.PeriodTemplate
	if err := r.db.GetContext(ctx, &tpl, query); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Create stores a new template. Templates are never created active.
func (r *PeriodTemplateRepository) Create(ctx context.Context, tpl *models.PeriodTemplate) error {
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	if len(tpl.Slots) == 0 {
		tpl.Slots = types.JSONText(`[]`)
	}
	now := time.Now().UTC()
	if tpl.CreatedAt.IsZero() {
		tpl.CreatedAt = now
	}
	tpl.UpdatedAt = now

	const query = `INSERT INTO period_templates (id, name, is_active, slots, created_at, updated_at) VALUES (:id, :name, :is_active, :slots, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, tpl); err != nil {
		return fmt.Errorf("create period template: %w", err)
	}
	return nil
}

// SetActive activates the given template and deactivates every other one in
// a single statement, so the system is never left with two active templates
// mid-flight.
func (r *PeriodTemplateRepository) SetActive(ctx context.Context, id string) error {
	const query = `UPDATE period_templates SET is_active = (id = $1), updated_at = $2`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("activate period template: %w", err)
	}
	return nil
}

// ReplaceSlots rewrites the full slot list of a template.
func (r *PeriodTemplateRepository) ReplaceSlots(ctx context.Context, id string, slots types.JSONText) error {
	const query = `UPDATE period_templates SET slots = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, slots, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("replace period template slots: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("period template rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a template by id.
func (r *PeriodTemplateRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM period_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete period template: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("period template rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
