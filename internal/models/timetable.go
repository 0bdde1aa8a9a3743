package models

import "time"

// VersionStatus represents lifecycle phases for timetable versions.
type VersionStatus string

const (
	VersionStatusDraft     VersionStatus = "draft"
	VersionStatusPublished VersionStatus = "published"
	VersionStatusArchived  VersionStatus = "archived"
)

// TimetableVersion is one full snapshot of placements for a batch. A batch
// has at most one draft and at most one published version at a time;
// archived versions accumulate.
type TimetableVersion struct {
	ID          string        `db:"id" json:"id"`
	BatchID     string        `db:"batch_id" json:"batch_id"`
	Status      VersionStatus `db:"status" json:"status"`
	Name        string        `db:"name" json:"name"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	PublishedAt *time.Time    `db:"published_at" json:"published_at,omitempty"`
}

// Workspace pairs the draft and published version ids for a batch so the UI
// can toggle between the two modes.
type Workspace struct {
	BatchID            string  `json:"batch_id"`
	DraftVersionID     string  `json:"draft_version_id"`
	PublishedVersionID *string `json:"published_version_id,omitempty"`
}

// TimetableEvent is one committed placement of an offering into a day/slot
// cell of a version. Within a version the (day_of_week, start_time) pair is
// unique.
type TimetableEvent struct {
	ID         string    `db:"id" json:"id"`
	VersionID  string    `db:"version_id" json:"version_id"`
	OfferingID string    `db:"offering_id" json:"offering_id"`
	DayOfWeek  int       `db:"day_of_week" json:"day_of_week"`
	StartTime  string    `db:"start_time" json:"start_time"`
	EndTime    string    `db:"end_time" json:"end_time"`
	RoomID     *string   `db:"room_id" json:"room_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// EventDetail is an event joined to its offering, subject, faculty and room
// for display and conflict resolution.
type EventDetail struct {
	TimetableEvent
	BatchID     string  `db:"batch_id" json:"batch_id"`
	SubjectID   string  `db:"subject_id" json:"subject_id"`
	SubjectCode string  `db:"subject_code" json:"subject_code"`
	SubjectName string  `db:"subject_name" json:"subject_name"`
	SubjectType string  `db:"subject_type" json:"subject_type"`
	FacultyID   *string `db:"faculty_id" json:"faculty_id,omitempty"`
	FacultyName *string `db:"faculty_name" json:"faculty_name,omitempty"`
	RoomNumber  *string `db:"room_number" json:"room_number,omitempty"`
}

// CellKey returns the canonical occupancy key for the event's cell.
func (e *EventDetail) CellKey() string {
	return CellKey(e.DayOfWeek, e.StartTime)
}

// PlacementConflict identifies the existing event that blocks a placement.
type PlacementConflict struct {
	EventID     string  `json:"event_id"`
	OfferingID  string  `json:"offering_id"`
	SubjectCode string  `json:"subject_code"`
	DayOfWeek   int     `json:"day_of_week"`
	StartTime   string  `json:"start_time"`
	FacultyID   *string `json:"faculty_id,omitempty"`
	FacultyName *string `json:"faculty_name,omitempty"`
	RoomID      *string `json:"room_id,omitempty"`
	RoomNumber  *string `json:"room_number,omitempty"`
	Dimension   string  `json:"dimension"`
}

// PlacementConflictError is returned when a placement collides with an
// existing event on the room, faculty or occupancy dimension.
type PlacementConflictError struct {
	Dimension string            `json:"dimension"`
	Message   string            `json:"message"`
	Conflict  PlacementConflict `json:"conflict"`
}

// Error implements the error interface for conflict errors.
func (e *PlacementConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
