package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusgrid/timetable-api/internal/models"
)

// TimetableVersionRepository persists the version lifecycle per batch.
type TimetableVersionRepository struct {
	db *sqlx.DB
}

// NewTimetableVersionRepository constructs the repository.
func NewTimetableVersionRepository(db *sqlx.DB) *TimetableVersionRepository {
	return &TimetableVersionRepository{db: db}
}

// FindLatestDraft returns the most recently created draft for a batch.
// Duplicate drafts from a creation race are tolerated by always preferring
// the newest row.
func (r *TimetableVersionRepository) FindLatestDraft(ctx context.Context, batchID string) (*models.TimetableVersion, error) {
	const query = `SELECT id, batch_id, status, name, created_at, published_at FROM timetable_versions
WHERE batch_id = $1 AND status = $2 ORDER BY created_at DESC LIMIT 1`
	var version models.TimetableVersion
	if err := r.db.GetContext(ctx, &version, query, batchID, models.VersionStatusDraft); err != nil {
		return nil, err
	}
	return &version, nil
}

// FindLatestPublished returns the most recently published version for a batch.
func (r *TimetableVersionRepository) FindLatestPublished(ctx context.Context, batchID string) (*models.TimetableVersion, error) {
	const query = `SELECT id, batch_id, status, name, created_at, published_at FROM timetable_versions
WHERE batch_id = $1 AND status = $2 ORDER BY published_at DESC LIMIT 1`
	var version models.TimetableVersion
	if err := r.db.GetContext(ctx, &version, query, batchID, models.VersionStatusPublished); err != nil {
		return nil, err
	}
	return &version, nil
}

// FindByID loads a version by id.
func (r *TimetableVersionRepository) FindByID(ctx context.Context, id string) (*models.TimetableVersion, error) {
	const query = `SELECT id, batch_id, status, name, created_at, published_at FROM timetable_versions WHERE id = $1`
	var version models.TimetableVersion
	if err := r.db.GetContext(ctx, &version, query, id); err != nil {
		return nil, err
	}
	return &version, nil
}

// Create stores a new version record.
func (r *TimetableVersionRepository) Create(ctx context.Context, version *models.TimetableVersion) error {
	if version.ID == "" {
		version.ID = uuid.NewString()
	}
	if version.Status == "" {
		version.Status = models.VersionStatusDraft
	}
	if version.Name == "" {
		version.Name = "Draft"
	}
	if version.CreatedAt.IsZero() {
		version.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO timetable_versions (id, batch_id, status, name, created_at, published_at)
VALUES (:id, :batch_id, :status, :name, :created_at, :published_at)`
	if _, err := r.db.NamedExecContext(ctx, query, version); err != nil {
		return fmt.Errorf("create timetable version: %w", err)
	}
	return nil
}

// ArchivePublished marks any published version of the batch as archived.
// Re-running against an already-archived or absent version is a no-op, which
// keeps the publish sequence retryable.
func (r *TimetableVersionRepository) ArchivePublished(ctx context.Context, batchID string) error {
	const query = `UPDATE timetable_versions SET status = $1 WHERE batch_id = $2 AND status = $3`
	if _, err := r.db.ExecContext(ctx, query, models.VersionStatusArchived, batchID, models.VersionStatusPublished); err != nil {
		return fmt.Errorf("archive published version: %w", err)
	}
	return nil
}

// PromoteDraft flips a draft to published and stamps published_at. Returns
// sql.ErrNoRows when the version is missing or no longer a draft.
func (r *TimetableVersionRepository) PromoteDraft(ctx context.Context, id string, publishedAt time.Time) error {
	const query = `UPDATE timetable_versions SET status = $1, published_at = $2 WHERE id = $3 AND status = $4`
	result, err := r.db.ExecContext(ctx, query, models.VersionStatusPublished, publishedAt, id, models.VersionStatusDraft)
	if err != nil {
		return fmt.Errorf("promote draft version: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable version rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
