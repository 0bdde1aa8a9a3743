package handler

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/timetable-api/internal/models"
	"github.com/campusgrid/timetable-api/internal/service"
)

type versionRepoMock struct {
	versions map[string]models.TimetableVersion
	seq      int
}

func newVersionRepoMock(versions ...models.TimetableVersion) *versionRepoMock {
	m := &versionRepoMock{versions: map[string]models.TimetableVersion{}}
	for _, version := range versions {
		m.versions[version.ID] = version
	}
	return m
}

func (m *versionRepoMock) findLatest(batchID string, status models.VersionStatus) (*models.TimetableVersion, error) {
	for _, version := range m.versions {
		if version.BatchID == batchID && version.Status == status {
			v := version
			return &v, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *versionRepoMock) FindLatestDraft(ctx context.Context, batchID string) (*models.TimetableVersion, error) {
	return m.findLatest(batchID, models.VersionStatusDraft)
}

func (m *versionRepoMock) FindLatestPublished(ctx context.Context, batchID string) (*models.TimetableVersion, error) {
	return m.findLatest(batchID, models.VersionStatusPublished)
}

func (m *versionRepoMock) FindByID(ctx context.Context, id string) (*models.TimetableVersion, error) {
	if version, ok := m.versions[id]; ok {
		return &version, nil
	}
	return nil, sql.ErrNoRows
}

func (m *versionRepoMock) Create(ctx context.Context, version *models.TimetableVersion) error {
	if version.ID == "" {
		m.seq++
		version.ID = fmt.Sprintf("v-%d", m.seq)
	}
	m.versions[version.ID] = *version
	return nil
}

func (m *versionRepoMock) ArchivePublished(ctx context.Context, batchID string) error {
	for id, version := range m.versions {
		if version.BatchID == batchID && version.Status == models.VersionStatusPublished {
			version.Status = models.VersionStatusArchived
			m.versions[id] = version
		}
	}
	return nil
}

func (m *versionRepoMock) PromoteDraft(ctx context.Context, id string, publishedAt time.Time) error {
	version, ok := m.versions[id]
	if !ok || version.Status != models.VersionStatusDraft {
		return sql.ErrNoRows
	}
	version.Status = models.VersionStatusPublished
	version.PublishedAt = &publishedAt
	m.versions[id] = version
	return nil
}

type eventRepoMock struct {
	events map[string]models.EventDetail
	seq    int
}

func newEventRepoMock() *eventRepoMock {
	return &eventRepoMock{events: map[string]models.EventDetail{}}
}

func (m *eventRepoMock) ListDetailsByVersion(ctx context.Context, versionID string) ([]models.EventDetail, error) {
	var result []models.EventDetail
	for _, event := range m.events {
		if event.VersionID == versionID {
			result = append(result, event)
		}
	}
	return result, nil
}

func (m *eventRepoMock) FindDetailByID(ctx context.Context, versionID, eventID string) (*models.EventDetail, error) {
	if event, ok := m.events[eventID]; ok && event.VersionID == versionID {
		return &event, nil
	}
	return nil, sql.ErrNoRows
}

func (m *eventRepoMock) Upsert(ctx context.Context, event *models.TimetableEvent) error {
	if event.ID == "" {
		m.seq++
		event.ID = fmt.Sprintf("evt-%d", m.seq)
	}
	m.events[event.ID] = models.EventDetail{TimetableEvent: *event}
	return nil
}

func (m *eventRepoMock) UpdateRoom(ctx context.Context, versionID, eventID string, roomID *string) error {
	event, ok := m.events[eventID]
	if !ok || event.VersionID != versionID {
		return sql.ErrNoRows
	}
	event.RoomID = roomID
	m.events[eventID] = event
	return nil
}

func (m *eventRepoMock) Delete(ctx context.Context, versionID, eventID string) error {
	event, ok := m.events[eventID]
	if !ok || event.VersionID != versionID {
		return sql.ErrNoRows
	}
	delete(m.events, eventID)
	return nil
}

type offeringRepoMock struct {
	items map[string]models.OfferingDetail
}

func (m *offeringRepoMock) ListByBatch(ctx context.Context, batchID string) ([]models.OfferingDetail, error) {
	var result []models.OfferingDetail
	for _, off := range m.items {
		if off.BatchID == batchID {
			result = append(result, off)
		}
	}
	return result, nil
}

func (m *offeringRepoMock) FindByID(ctx context.Context, id string) (*models.OfferingDetail, error) {
	if off, ok := m.items[id]; ok {
		return &off, nil
	}
	return nil, sql.ErrNoRows
}

type activeTemplateMock struct {
	slots []models.Slot
}

func (m *activeTemplateMock) Active(ctx context.Context) (*models.PeriodTemplate, []models.Slot, error) {
	return &models.PeriodTemplate{ID: "tpl-1", Name: "Standard Day", IsActive: true}, m.slots, nil
}

func roomPtr(value string) *string { return &value }

func newTimetableFixture() (*TimetableHandler, *eventRepoMock, *versionRepoMock) {
	versionRepo := newVersionRepoMock(models.TimetableVersion{
		ID: "v-draft", BatchID: "batch-1", Name: "Draft", Status: models.VersionStatusDraft,
	})
	eventRepo := newEventRepoMock()
	offerings := &offeringRepoMock{items: map[string]models.OfferingDetail{
		"off-1": {
			CourseOffering: models.CourseOffering{ID: "off-1", BatchID: "batch-1", SubjectID: "sub-1"},
			SubjectCode:    "CS101", SubjectType: models.SubjectTypeLecture,
		},
		"off-2": {
			CourseOffering: models.CourseOffering{ID: "off-2", BatchID: "batch-1", SubjectID: "sub-2"},
			SubjectCode:    "MA201", SubjectType: models.SubjectTypeLecture,
		},
	}}
	templates := &activeTemplateMock{slots: []models.Slot{
		{ID: "s1", PeriodNumber: 1, Name: "Period 1", StartTime: "09:00:00", EndTime: "10:00:00"},
		{ID: "s2", PeriodNumber: 2, Name: "Period 2", StartTime: "10:00:00", EndTime: "11:00:00"},
	}}

	versionSvc := service.NewVersionService(versionRepo, nil, nil, nil)
	placementSvc := service.NewPlacementService(eventRepo, offerings, versionRepo, templates, nil, nil, nil)
	gridSvc := service.NewGridService(eventRepo, offerings, versionSvc, nil, time.Minute, nil, nil)
	handler := NewTimetableHandler(versionSvc, placementSvc, gridSvc, nil)
	return handler, eventRepo, versionRepo
}

func TestTimetableHandlerWorkspace(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, _ := newTimetableFixture()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/batches/batch-1/workspace", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "batchId", Value: "batch-1"}}

	handler.Workspace(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "v-draft")
}

func TestTimetableHandlerPublishMissingVersionID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, _ := newTimetableFixture()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/batches/batch-1/publish", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "batchId", Value: "batch-1"}}

	handler.Publish(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableHandlerPublish(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, versionRepo := newTimetableFixture()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/batches/batch-1/publish", bytes.NewReader([]byte(`{"version_id":"v-draft"}`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "batchId", Value: "batch-1"}}

	handler.Publish(c)

	require.Equal(t, http.StatusOK, w.Code)
	published, err := versionRepo.FindLatestPublished(context.Background(), "batch-1")
	require.NoError(t, err)
	assert.Equal(t, "v-draft", published.ID)
}

func TestTimetableHandlerPlaceEvent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, _ := newTimetableFixture()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := []byte(`{"offering_id":"off-1","day_of_week":0,"start_time":"09:00"}`)
	req, _ := http.NewRequest(http.MethodPost, "/versions/v-draft/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "v-draft"}}

	handler.PlaceEvent(c)

	require.Equal(t, http.StatusCreated, w.Code)
}

func TestTimetableHandlerPlaceEventRoomConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, eventRepo, _ := newTimetableFixture()
	eventRepo.events["e1"] = models.EventDetail{TimetableEvent: models.TimetableEvent{
		ID: "e1", VersionID: "v-draft", OfferingID: "off-1",
		DayOfWeek: 0, StartTime: "09:00:00", EndTime: "10:00:00", RoomID: roomPtr("room-1"),
	}}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := []byte(`{"offering_id":"off-2","day_of_week":0,"start_time":"09:00","room_id":"room-1"}`)
	req, _ := http.NewRequest(http.MethodPost, "/versions/v-draft/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "v-draft"}}

	handler.PlaceEvent(c)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ROOM_CONFLICT")
}

func TestTimetableHandlerDeleteEvent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, eventRepo, _ := newTimetableFixture()
	eventRepo.events["e1"] = models.EventDetail{TimetableEvent: models.TimetableEvent{
		ID: "e1", VersionID: "v-draft", OfferingID: "off-1",
		DayOfWeek: 0, StartTime: "09:00:00", EndTime: "10:00:00",
	}}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/versions/v-draft/events/e1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "v-draft"}, {Key: "eventId", Value: "e1"}}

	handler.DeleteEvent(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, eventRepo.events)
}

func TestTimetableHandlerDeleteEventMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, _ := newTimetableFixture()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/versions/v-draft/events/ghost", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "v-draft"}, {Key: "eventId", Value: "ghost"}}

	handler.DeleteEvent(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimetableHandlerGridNoPublished(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, _ := newTimetableFixture()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/batches/batch-1/grid", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "batchId", Value: "batch-1"}}

	handler.Grid(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}
