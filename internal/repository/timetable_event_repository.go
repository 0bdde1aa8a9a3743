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

// TimetableEventRepository persists committed placements.
type TimetableEventRepository struct {
	db *sqlx.DB
}

// NewTimetableEventRepository constructs the repository.
func NewTimetableEventRepository(db *sqlx.DB) *TimetableEventRepository {
	return &TimetableEventRepository{db: db}
}

const eventDetailColumns = `e.id, e.version_id, e.offering_id, e.day_of_week, e.start_time, e.end_time, e.room_id, e.created_at,
o.batch_id, o.subject_id, s.code AS subject_code, s.name AS subject_name, s.type AS subject_type,
o.faculty_id, f.name AS faculty_name, r.room_number`

const eventDetailJoins = `FROM timetable_events e
JOIN course_offerings o ON o.id = e.offering_id
JOIN subjects s ON s.id = o.subject_id
LEFT JOIN faculty f ON f.id = o.faculty_id
LEFT JOIN rooms r ON r.id = e.room_id`

// ListDetailsByVersion returns all events of a version, each resolved to its
// offering, subject, faculty and room. This is the read path every conflict
// check relies on, so it always hits the store directly.
func (r *TimetableEventRepository) ListDetailsByVersion(ctx context.Context, versionID string) ([]models.EventDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE e.version_id = $1 ORDER BY e.day_of_week ASC, e.start_time ASC`, eventDetailColumns, eventDetailJoins)
	var events []models.EventDetail
	if err := r.db.SelectContext(ctx, &events, query, versionID); err != nil {
		return nil, fmt.Errorf("list timetable events: %w", err)
	}
	return events, nil
}

// FindDetailByID loads a single event of a version with its resolved labels.
func (r *TimetableEventRepository) FindDetailByID(ctx context.Context, versionID, eventID string) (*models.EventDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE e.id = $1 AND e.version_id = $2`, eventDetailColumns, eventDetailJoins)
	var event models.EventDetail
	if err := r.db.GetContext(ctx, &event, query, eventID, versionID); err != nil {
		return nil, err
	}
	return &event, nil
}

// Upsert writes a placement keyed on the (version, day, start) cell. A
// placement into an occupied cell replaces the occupant in one statement, so
// a cell is never held by two rows.
func (r *TimetableEventRepository) Upsert(ctx context.Context, event *models.TimetableEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO timetable_events (id, version_id, offering_id, day_of_week, start_time, end_time, room_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (version_id, day_of_week, start_time)
DO UPDATE SET offering_id = EXCLUDED.offering_id, end_time = EXCLUDED.end_time, room_id = EXCLUDED.room_id
RETURNING id`
	if err := r.db.GetContext(ctx, &event.ID, query,
		event.ID, event.VersionID, event.OfferingID, event.DayOfWeek,
		event.StartTime, event.EndTime, event.RoomID, event.CreatedAt,
	); err != nil {
		return fmt.Errorf("upsert timetable event: %w", err)
	}
	return nil
}

// UpdateRoom reassigns the room of an event, keeping its identity.
func (r *TimetableEventRepository) UpdateRoom(ctx context.Context, versionID, eventID string, roomID *string) error {
	const query = `UPDATE timetable_events SET room_id = $1 WHERE id = $2 AND version_id = $3`
	result, err := r.db.ExecContext(ctx, query, roomID, eventID, versionID)
	if err != nil {
		return fmt.Errorf("update timetable event room: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable event rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an event, freeing its cell. No cascading side effects.
func (r *TimetableEventRepository) Delete(ctx context.Context, versionID, eventID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM timetable_events WHERE id = $1 AND version_id = $2`, eventID, versionID)
	if err != nil {
		return fmt.Errorf("delete timetable event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable event rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
