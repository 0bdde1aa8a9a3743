package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/campusgrid/timetable-api/internal/models"
	appErrors "github.com/campusgrid/timetable-api/pkg/errors"
)

type roomRepository interface {
	List(ctx context.Context, departmentID string) ([]models.Room, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

// RoomService exposes the room registry for placement pickers.
type RoomService struct {
	repo roomRepository
}

// NewRoomService instantiates RoomService.
func NewRoomService(repo roomRepository) *RoomService {
	return &RoomService{repo: repo}
}

// List returns rooms, optionally filtered by department.
func (s *RoomService) List(ctx context.Context, departmentID string) ([]models.Room, error) {
	rooms, err := s.repo.List(ctx, departmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, nil
}

// Get returns a single room by id.
func (s *RoomService) Get(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	return room, nil
}
