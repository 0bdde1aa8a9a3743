package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/timetable-api/internal/models"
)

func newEventRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func eventDetailRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "version_id", "offering_id", "day_of_week", "start_time", "end_time", "room_id", "created_at",
		"batch_id", "subject_id", "subject_code", "subject_name", "subject_type",
		"faculty_id", "faculty_name", "room_number",
	})
}

func TestTimetableEventRepositoryListDetailsByVersion(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewTimetableEventRepository(db)

	rows := eventDetailRows().
		AddRow("e1", "v1", "off-1", 0, "09:00:00", "10:00:00", nil, time.Now(),
			"batch-1", "sub-1", "CS101", "Intro to CS", "LECTURE", "fac-1", "Dr. Rao", nil)
	mock.ExpectQuery("SELECT (.+) FROM timetable_events e").
		WithArgs("v1").
		WillReturnRows(rows)

	events, err := repo.ListDetailsByVersion(context.Background(), "v1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "CS101", events[0].SubjectCode)
	assert.Equal(t, "0|09:00:00", events[0].CellKey())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableEventRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewTimetableEventRepository(db)

	mock.ExpectQuery("INSERT INTO timetable_events").
		WithArgs(sqlmock.AnyArg(), "v1", "off-1", 0, "09:00:00", "10:00:00", nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("existing-id"))

	event := models.TimetableEvent{
		VersionID:  "v1",
		OfferingID: "off-1",
		DayOfWeek:  0,
		StartTime:  "09:00:00",
		EndTime:    "10:00:00",
	}
	require.NoError(t, repo.Upsert(context.Background(), &event))
	assert.Equal(t, "existing-id", event.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableEventRepositoryUpdateRoomMissing(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewTimetableEventRepository(db)

	roomID := "room-1"
	mock.ExpectExec("UPDATE timetable_events SET room_id =").
		WithArgs(&roomID, "gone", "v1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateRoom(context.Background(), "v1", "gone", &roomID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableEventRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewTimetableEventRepository(db)

	mock.ExpectExec("DELETE FROM timetable_events WHERE id =").
		WithArgs("e1", "v1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "v1", "e1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
