package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusgrid/timetable-api/internal/models"
	appErrors "github.com/campusgrid/timetable-api/pkg/errors"
)

type eventRepository interface {
	ListDetailsByVersion(ctx context.Context, versionID string) ([]models.EventDetail, error)
	FindDetailByID(ctx context.Context, versionID, eventID string) (*models.EventDetail, error)
	Upsert(ctx context.Context, event *models.TimetableEvent) error
	UpdateRoom(ctx context.Context, versionID, eventID string, roomID *string) error
	Delete(ctx context.Context, versionID, eventID string) error
}

type offeringReader interface {
	ListByBatch(ctx context.Context, batchID string) ([]models.OfferingDetail, error)
	FindByID(ctx context.Context, id string) (*models.OfferingDetail, error)
}

type versionReader interface {
	FindByID(ctx context.Context, id string) (*models.TimetableVersion, error)
}

type activeTemplateReader interface {
	Active(ctx context.Context) (*models.PeriodTemplate, []models.Slot, error)
}

type placementMetrics interface {
	RecordPlacement(outcome string)
}

// PlaceEventRequest describes the target cell for an offering.
type PlaceEventRequest struct {
	OfferingID string  `json:"offering_id" validate:"required"`
	DayOfWeek  int     `json:"day_of_week" validate:"min=0,max=5"`
	StartTime  string  `json:"start_time" validate:"required"`
	RoomID     *string `json:"room_id"`
}

// UpdateEventRoomRequest reassigns the room of a placed event.
type UpdateEventRoomRequest struct {
	RoomID *string `json:"room_id"`
}

// PlacementService is the conflict-checked core: it validates a target cell
// against the active period template and the version's committed events, then
// commits or rejects the placement.
type PlacementService struct {
	events    eventRepository
	offerings offeringReader
	versions  versionReader
	templates activeTemplateReader
	metrics   placementMetrics
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPlacementService instantiates PlacementService. Metrics may be nil.
func NewPlacementService(
	events eventRepository,
	offerings offeringReader,
	versions versionReader,
	templates activeTemplateReader,
	metrics placementMetrics,
	validate *validator.Validate,
	logger *zap.Logger,
) *PlacementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlacementService{
		events:    events,
		offerings: offerings,
		versions:  versions,
		templates: templates,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// EventsForVersion returns all committed events of a version with their
// resolved labels. Always a fresh read: the conflict checks depend on it
// reflecting every prior write.
func (s *PlacementService) EventsForVersion(ctx context.Context, versionID string) ([]models.EventDetail, error) {
	events, err := s.events.ListDetailsByVersion(ctx, versionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable events")
	}
	return events, nil
}

// Place maps an offering onto a (day, slot) cell of a draft version.
//
// Replace semantics: a placement into a cell already held by another offering
// overwrites the occupant in a single upsert, so a cell is never held by two
// rows. Conflicts on the room or faculty dimension, and spillover occupancy
// from an event spanning into the target window, are rejected with distinct
// error kinds and never retried here.
func (s *PlacementService) Place(ctx context.Context, versionID string, req PlaceEventRequest) (*models.EventDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		s.recordPlacement("invalid")
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid placement payload")
	}

	version, err := s.versions.FindByID(ctx, versionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable version not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable version")
	}
	if version.Status != models.VersionStatusDraft {
		return nil, appErrors.Clone(appErrors.ErrVersionNotReady, "placements are only allowed on a draft version")
	}

	_, slots, err := s.templates.Active(ctx)
	if err != nil {
		return nil, err
	}

	start := models.NormalizeTime(req.StartTime)
	slotIdx := -1
	for i, slot := range slots {
		if slot.StartTime == start {
			slotIdx = i
			break
		}
	}
	if slotIdx < 0 {
		s.recordPlacement("invalid_slot")
		return nil, appErrors.Clone(appErrors.ErrInvalidSlot, fmt.Sprintf("no slot starts at %s in the active period template", start))
	}
	slot := slots[slotIdx]
	if slot.IsBreak {
		s.recordPlacement("break_slot")
		return nil, appErrors.Clone(appErrors.ErrBreakSlot, fmt.Sprintf("slot %q is a break", slot.Name))
	}

	offering, err := s.offerings.FindByID(ctx, req.OfferingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course offering not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course offering")
	}
	if offering.BatchID != version.BatchID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "offering does not belong to the version's batch")
	}

	// Labs span two consecutive teaching periods; the event covers both.
	end := slot.EndTime
	if offering.SubjectType == models.SubjectTypeLab {
		if slotIdx+1 >= len(slots) {
			s.recordPlacement("invalid_slot")
			return nil, appErrors.Clone(appErrors.ErrInvalidSlot, "lab requires two consecutive periods; no period after this slot")
		}
		next := slots[slotIdx+1]
		if next.IsBreak {
			s.recordPlacement("break_slot")
			return nil, appErrors.Clone(appErrors.ErrBreakSlot, "lab requires two consecutive periods; the next slot is a break")
		}
		end = next.EndTime
	}

	existing, err := s.events.ListDetailsByVersion(ctx, versionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check timetable conflicts")
	}

	if err := s.checkConflicts(existing, offering, req.DayOfWeek, start, end, req.RoomID); err != nil {
		return nil, err
	}

	event := models.TimetableEvent{
		VersionID:  versionID,
		OfferingID: offering.ID,
		DayOfWeek:  req.DayOfWeek,
		StartTime:  start,
		EndTime:    end, // always the slot definition's end, never client input
		RoomID:     req.RoomID,
	}
	if err := s.events.Upsert(ctx, &event); err != nil {
		s.recordPlacement("error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to place offering")
	}

	s.recordPlacement("placed")
	s.logger.Info("offering placed",
		zap.String("version_id", versionID),
		zap.String("offering_id", offering.ID),
		zap.Int("day_of_week", req.DayOfWeek),
		zap.String("start_time", start),
	)

	detail, err := s.events.FindDetailByID(ctx, versionID, event.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to re-read placed event")
	}
	return detail, nil
}

// DeleteEvent removes a placement unconditionally, freeing its cell.
func (s *PlacementService) DeleteEvent(ctx context.Context, versionID, eventID string) error {
	if err := s.events.Delete(ctx, versionID, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable event")
	}
	return nil
}

// UpdateEventRoom reassigns the room of an event, keeping its identity. The
// room and faculty rules are re-validated against every other event in the
// version before committing.
func (s *PlacementService) UpdateEventRoom(ctx context.Context, versionID, eventID string, req UpdateEventRoomRequest) (*models.EventDetail, error) {
	event, err := s.events.FindDetailByID(ctx, versionID, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable event")
	}

	if req.RoomID != nil {
		existing, err := s.events.ListDetailsByVersion(ctx, versionID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check timetable conflicts")
		}
		for i := range existing {
			other := &existing[i]
			if other.ID == event.ID {
				continue
			}
			if other.DayOfWeek != event.DayOfWeek || !overlaps(other.StartTime, other.EndTime, event.StartTime, event.EndTime) {
				continue
			}
			if other.RoomID != nil && *other.RoomID == *req.RoomID {
				s.recordPlacement("room_conflict")
				return nil, s.conflictError(appErrors.ErrRoomConflict, "ROOM", other,
					fmt.Sprintf("room already booked by %s at this slot", other.SubjectCode))
			}
			if event.FacultyID != nil && other.FacultyID != nil && *other.FacultyID == *event.FacultyID {
				s.recordPlacement("faculty_conflict")
				return nil, s.conflictError(appErrors.ErrFacultyConflict, "FACULTY", other,
					fmt.Sprintf("faculty already scheduled for %s at this slot", other.SubjectCode))
			}
		}
	}

	if err := s.events.UpdateRoom(ctx, versionID, eventID, req.RoomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event room")
	}

	updated, err := s.events.FindDetailByID(ctx, versionID, eventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to re-read updated event")
	}
	return updated, nil
}

// checkConflicts walks the version's committed events and rejects the
// placement on the first violated dimension. An event held by the same
// offering at the exact target cell is skipped: re-placing is idempotent and
// the upsert will replace it.
func (s *PlacementService) checkConflicts(existing []models.EventDetail, offering *models.OfferingDetail, day int, start, end string, roomID *string) error {
	for i := range existing {
		other := &existing[i]
		if other.DayOfWeek != day || !overlaps(other.StartTime, other.EndTime, start, end) {
			continue
		}

		sameCell := other.StartTime == start
		if sameCell && other.OfferingID == offering.ID {
			continue
		}

		if !sameCell {
			// Spillover from an event spanning into the target window (or a
			// lab target whose second period is taken). Replace semantics
			// only apply to the exact cell; the caller resolves this one.
			s.recordPlacement("slot_occupied")
			return s.conflictError(appErrors.ErrSlotOccupied, "SLOT", other,
				fmt.Sprintf("slot already occupied by %s", other.SubjectCode))
		}

		if roomID != nil && other.RoomID != nil && *other.RoomID == *roomID {
			s.recordPlacement("room_conflict")
			return s.conflictError(appErrors.ErrRoomConflict, "ROOM", other,
				fmt.Sprintf("room already booked by %s at this slot", other.SubjectCode))
		}
		if offering.FacultyID != nil && other.FacultyID != nil && *other.FacultyID == *offering.FacultyID {
			s.recordPlacement("faculty_conflict")
			return s.conflictError(appErrors.ErrFacultyConflict, "FACULTY", other,
				fmt.Sprintf("faculty already scheduled for %s at this slot", other.SubjectCode))
		}
	}
	return nil
}

func (s *PlacementService) conflictError(kind *appErrors.Error, dimension string, other *models.EventDetail, message string) error {
	conflict := models.PlacementConflict{
		EventID:     other.ID,
		OfferingID:  other.OfferingID,
		SubjectCode: other.SubjectCode,
		DayOfWeek:   other.DayOfWeek,
		StartTime:   other.StartTime,
		FacultyID:   other.FacultyID,
		FacultyName: other.FacultyName,
		RoomID:      other.RoomID,
		RoomNumber:  other.RoomNumber,
		Dimension:   dimension,
	}
	domainErr := &models.PlacementConflictError{Dimension: dimension, Message: message, Conflict: conflict}
	return appErrors.Wrap(domainErr, kind.Code, kind.Status, message)
}

func (s *PlacementService) recordPlacement(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordPlacement(outcome)
	}
}

// overlaps reports whether two [start, end) windows intersect. Canonical
// HH:MM:SS strings compare correctly as text.
func overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && aEnd > bStart
}
