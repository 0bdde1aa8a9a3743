package models

import "time"

// SubjectType distinguishes single-slot lectures from double-slot labs.
const (
	SubjectTypeLecture = "LECTURE"
	SubjectTypeLab     = "LAB"
)

// Subject is reference data supplied by the administrative layer.
type Subject struct {
	ID   string `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
	Type string `db:"type" json:"type"`
}

// Faculty is reference data supplied by the administrative layer.
type Faculty struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Room is reference data supplied by the administrative layer.
type Room struct {
	ID           string `db:"id" json:"id"`
	RoomNumber   string `db:"room_number" json:"room_number"`
	DepartmentID string `db:"department_id" json:"department_id"`
}

// CourseOffering ties a subject to a batch with an optional faculty and
// default room. The scheduling engine reads offerings but never mutates them.
type CourseOffering struct {
	ID            string    `db:"id" json:"id"`
	BatchID       string    `db:"batch_id" json:"batch_id"`
	SubjectID     string    `db:"subject_id" json:"subject_id"`
	FacultyID     *string   `db:"faculty_id" json:"faculty_id,omitempty"`
	DefaultRoomID *string   `db:"default_room_id" json:"default_room_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// OfferingDetail joins an offering to its subject, faculty and default room
// labels for the sidebar list.
type OfferingDetail struct {
	CourseOffering
	SubjectCode     string  `db:"subject_code" json:"subject_code"`
	SubjectName     string  `db:"subject_name" json:"subject_name"`
	SubjectType     string  `db:"subject_type" json:"subject_type"`
	FacultyName     *string `db:"faculty_name" json:"faculty_name,omitempty"`
	DefaultRoomName *string `db:"default_room_name" json:"default_room_name,omitempty"`
	Placed          bool    `db:"-" json:"placed"`
}
