package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusgrid/timetable-api/internal/models"
)

// OfferingRepository reads course offerings. Offerings are reference data
// owned by the administrative layer; this engine never mutates them.
type OfferingRepository struct {
	db *sqlx.DB
}

// NewOfferingRepository constructs the repository.
func NewOfferingRepository(db *sqlx.DB) *OfferingRepository {
	return &OfferingRepository{db: db}
}

const offeringDetailColumns = `o.id, o.batch_id, o.subject_id, o.faculty_id, o.default_room_id, o.created_at,
s.code AS subject_code, s.name AS subject_name, s.type AS subject_type,
f.name AS faculty_name, r.room_number AS default_room_name`

const offeringDetailJoins = `FROM course_offerings o
JOIN subjects s ON s.id = o.subject_id
LEFT JOIN faculty f ON f.id = o.faculty_id
LEFT JOIN rooms r ON r.id = o.default_room_id`

// ListByBatch returns the placeable offerings of a batch with display labels.
func (r *OfferingRepository) ListByBatch(ctx context.Context, batchID string) ([]models.OfferingDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE o.batch_id = $1 ORDER BY s.code ASC`, offeringDetailColumns, offeringDetailJoins)
	var offerings []models.OfferingDetail
	if err := r.db.SelectContext(ctx, &offerings, query, batchID); err != nil {
		return nil, fmt.Errorf("list offerings by batch: %w", err)
	}
	return offerings, nil
}

// FindByID loads a single offering with display labels.
func (r *OfferingRepository) FindByID(ctx context.Context, id string) (*models.OfferingDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE o.id = $1`, offeringDetailColumns, offeringDetailJoins)
	var offering models.OfferingDetail
	if err := r.db.GetContext(ctx, &offering, query, id); err != nil {
		return nil, err
	}
	return &offering, nil
}
