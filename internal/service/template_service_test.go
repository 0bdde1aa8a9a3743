package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/timetable-api/internal/models"
	appErrors "github.com/campusgrid/timetable-api/pkg/errors"
)

type templateRepoStub struct {
	templates map[string]models.PeriodTemplate
	seq       int
	err       error
}

func newTemplateRepoStub() *templateRepoStub {
	return &templateRepoStub{templates: map[string]models.PeriodTemplate{}}
}

func (s *templateRepoStub) List(ctx context.Context) ([]models.PeriodTemplate, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := make([]models.PeriodTemplate, 0, len(s.templates))
	for _, tpl := range s.templates {
		result = append(result, tpl)
	}
	return result, nil
}

func (s *templateRepoStub) FindByID(ctx context.Context, id string) (*models.PeriodTemplate, error) {
	if s.err != nil {
		return nil, s.err
	}
	if tpl, ok := s.templates[id]; ok {
		return &tpl, nil
	}
	return nil, sql.ErrNoRows
}

func (s *templateRepoStub) FindActive(ctx context.Context) (*models.PeriodTemplate, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, tpl := range s.templates {
		if tpl.IsActive {
			t := tpl
			return &t, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *templateRepoStub) Create(ctx context.Context, tpl *models.PeriodTemplate) error {
	if s.err != nil {
		return s.err
	}
	s.seq++
	if tpl.ID == "" {
		tpl.ID = "tpl-" + string(rune('0'+s.seq))
	}
	if len(tpl.Slots) == 0 {
		tpl.Slots = types.JSONText(`[]`)
	}
	s.templates[tpl.ID] = *tpl
	return nil
}

func (s *templateRepoStub) SetActive(ctx context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	for key, tpl := range s.templates {
		tpl.IsActive = key == id
		s.templates[key] = tpl
	}
	return nil
}

func (s *templateRepoStub) ReplaceSlots(ctx context.Context, id string, slots types.JSONText) error {
	if s.err != nil {
		return s.err
	}
	tpl, ok := s.templates[id]
	if !ok {
		return sql.ErrNoRows
	}
	tpl.Slots = slots
	s.templates[id] = tpl
	return nil
}

func (s *templateRepoStub) Delete(ctx context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.templates[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.templates, id)
	return nil
}

func mustSlots(t *testing.T, raw types.JSONText) []models.Slot {
	t.Helper()
	var slots []models.Slot
	require.NoError(t, json.Unmarshal(raw, &slots))
	return slots
}

func TestTemplateServiceCreateNormalizesSlots(t *testing.T) {
	repo := newTemplateRepoStub()
	svc := NewTemplateService(repo, nil, nil)

	tpl, err := svc.Create(context.Background(), CreateTemplateRequest{
		Name: "Standard Day",
		Slots: []models.Slot{
			{PeriodNumber: 2, StartTime: "10:00", EndTime: "11:00"},
			{PeriodNumber: 1, StartTime: "09:00", EndTime: "10:00"},
		},
	})
	require.NoError(t, err)
	assert.False(t, tpl.IsActive)

	slots := mustSlots(t, tpl.Slots)
	require.Len(t, slots, 2)
	assert.Equal(t, 1, slots[0].PeriodNumber)
	assert.Equal(t, "09:00:00", slots[0].StartTime)
	assert.NotEmpty(t, slots[0].ID)
}

func TestTemplateServiceCreateRejectsBadTimes(t *testing.T) {
	svc := NewTemplateService(newTemplateRepoStub(), nil, nil)

	_, err := svc.Create(context.Background(), CreateTemplateRequest{
		Name:  "Broken",
		Slots: []models.Slot{{StartTime: "25:99", EndTime: "26:00"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTemplateServiceDuplicateRegeneratesSlotIDs(t *testing.T) {
	repo := newTemplateRepoStub()
	svc := NewTemplateService(repo, nil, nil)

	source, err := svc.Create(context.Background(), CreateTemplateRequest{
		Name:  "Source",
		Slots: []models.Slot{{PeriodNumber: 1, StartTime: "09:00", EndTime: "10:00"}},
	})
	require.NoError(t, err)

	copyTpl, err := svc.Duplicate(context.Background(), source.ID, DuplicateTemplateRequest{Name: "Copy"})
	require.NoError(t, err)
	assert.Equal(t, "Copy", copyTpl.Name)
	assert.False(t, copyTpl.IsActive)

	sourceSlots := mustSlots(t, source.Slots)
	copySlots := mustSlots(t, copyTpl.Slots)
	require.Len(t, copySlots, 1)
	assert.NotEqual(t, sourceSlots[0].ID, copySlots[0].ID)
	assert.Equal(t, sourceSlots[0].StartTime, copySlots[0].StartTime)
}

func TestTemplateServiceSetActiveUnknown(t *testing.T) {
	svc := NewTemplateService(newTemplateRepoStub(), nil, nil)

	err := svc.SetActive(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTemplateServiceSetActiveSwitches(t *testing.T) {
	repo := newTemplateRepoStub()
	svc := NewTemplateService(repo, nil, nil)

	first, err := svc.Create(context.Background(), CreateTemplateRequest{Name: "First"})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), CreateTemplateRequest{Name: "Second"})
	require.NoError(t, err)

	require.NoError(t, svc.SetActive(context.Background(), first.ID))
	require.NoError(t, svc.SetActive(context.Background(), second.ID))

	assert.False(t, repo.templates[first.ID].IsActive)
	assert.True(t, repo.templates[second.ID].IsActive)
}

func TestTemplateServiceReplaceSlotsPreservesIDs(t *testing.T) {
	repo := newTemplateRepoStub()
	svc := NewTemplateService(repo, nil, nil)

	tpl, err := svc.Create(context.Background(), CreateTemplateRequest{
		Name:  "Standard Day",
		Slots: []models.Slot{{PeriodNumber: 1, StartTime: "09:00", EndTime: "10:00"}},
	})
	require.NoError(t, err)
	original := mustSlots(t, tpl.Slots)

	updated, err := svc.ReplaceSlots(context.Background(), tpl.ID, ReplaceSlotsRequest{
		Slots: []models.Slot{
			{ID: original[0].ID, PeriodNumber: 1, StartTime: "09:00", EndTime: "09:45"},
			{PeriodNumber: 2, StartTime: "09:45", EndTime: "10:30"},
		},
	})
	require.NoError(t, err)

	slots := mustSlots(t, updated.Slots)
	require.Len(t, slots, 2)
	assert.Equal(t, original[0].ID, slots[0].ID)
	assert.Equal(t, "09:45:00", slots[0].EndTime)
	assert.NotEmpty(t, slots[1].ID)
}

func TestTemplateServiceDeleteActiveRejected(t *testing.T) {
	repo := newTemplateRepoStub()
	svc := NewTemplateService(repo, nil, nil)

	tpl, err := svc.Create(context.Background(), CreateTemplateRequest{Name: "Standard Day"})
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(context.Background(), tpl.ID))

	err = svc.Delete(context.Background(), tpl.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrTemplateActive.Code, appErrors.FromError(err).Code)
	assert.Contains(t, repo.templates, tpl.ID)
}

func TestTemplateServiceActiveErrors(t *testing.T) {
	repo := newTemplateRepoStub()
	svc := NewTemplateService(repo, nil, nil)

	_, _, err := svc.Active(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoActiveTemplate.Code, appErrors.FromError(err).Code)

	tpl, err := svc.Create(context.Background(), CreateTemplateRequest{Name: "Empty"})
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(context.Background(), tpl.ID))

	_, _, err = svc.Active(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEmptyTemplate.Code, appErrors.FromError(err).Code)
}
