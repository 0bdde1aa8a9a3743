package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusgrid/timetable-api/internal/models"
)

// RoomRepository reads the room registry.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs the repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns rooms, optionally filtered by department.
func (r *RoomRepository) List(ctx context.Context, departmentID string) ([]models.Room, error) {
	var rooms []models.Room
	if departmentID != "" {
		const query = `SELECT id, room_number, department_id FROM rooms WHERE department_id = $1 ORDER BY room_number ASC`
		if err := r.db.SelectContext(ctx, &rooms, query, departmentID); err != nil {
			return nil, fmt.Errorf("list rooms by department: %w", err)
		}
		return rooms, nil
	}
	const query = `SELECT id, room_number, department_id FROM rooms ORDER BY room_number ASC`
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// FindByID loads a room by id.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	const query = `SELECT id, room_number, department_id FROM rooms WHERE id = $1`
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}
