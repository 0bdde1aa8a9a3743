package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/campusgrid/timetable-api/internal/models"
	appErrors "github.com/campusgrid/timetable-api/pkg/errors"
)

type templateRepository interface {
	List(ctx context.Context) ([]models.PeriodTemplate, error)
	FindByID(ctx context.Context, id string) (*models.PeriodTemplate, error)
	FindActive(ctx context.Context) (*models.PeriodTemplate, error)
	Create(ctx context.Context, tpl *models.PeriodTemplate) error
	SetActive(ctx context.Context, id string) error
	ReplaceSlots(ctx context.Context, id string, slots types.JSONText) error
	Delete(ctx context.Context, id string) error
}

// CreateTemplateRequest describes payload for creating a period template.
type CreateTemplateRequest struct {
	Name  string        `json:"name" validate:"required"`
	Slots []models.Slot `json:"slots"`
}

// ReplaceSlotsRequest carries the full replacement slot list for a template.
type ReplaceSlotsRequest struct {
	Slots []models.Slot `json:"slots" validate:"required"`
}

// DuplicateTemplateRequest names the copy of an existing template.
type DuplicateTemplateRequest struct {
	Name string `json:"name" validate:"required"`
}

// TemplateService owns the period template store: the canonical ordered slot
// grid and the single system-wide active template.
type TemplateService struct {
	repo      templateRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTemplateService instantiates TemplateService.
func NewTemplateService(repo templateRepository, validate *validator.Validate, logger *zap.Logger) *TemplateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateService{repo: repo, validator: validate, logger: logger}
}

// List returns all templates, newest first.
func (s *TemplateService) List(ctx context.Context) ([]models.PeriodTemplate, error) {
	templates, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list period templates")
	}
	return templates, nil
}

// Get returns a single template by id.
func (s *TemplateService) Get(ctx context.Context, id string) (*models.PeriodTemplate, error) {
	tpl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period template")
	}
	return tpl, nil
}

// Create stores a new, inactive template with a normalized slot list.
func (s *TemplateService) Create(ctx context.Context, req CreateTemplateRequest) (*models.PeriodTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload")
	}
	if err := validateSlotTimes(req.Slots); err != nil {
		return nil, err
	}

	encoded, err := models.EncodeSlots(req.Slots)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot list")
	}

	tpl := models.PeriodTemplate{Name: req.Name, IsActive: false, Slots: encoded}
	if err := s.repo.Create(ctx, &tpl); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create period template")
	}
	s.logger.Info("period template created", zap.String("template_id", tpl.ID), zap.String("name", tpl.Name))
	return &tpl, nil
}

// Duplicate copies an existing template's slots into a new, inactive one.
// Slot ids are regenerated so the copy owns its own cell identities.
func (s *TemplateService) Duplicate(ctx context.Context, sourceID string, req DuplicateTemplateRequest) (*models.PeriodTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid duplicate payload")
	}

	source, err := s.repo.FindByID(ctx, sourceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period template")
	}

	slots, err := source.DecodeSlots()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode template slots")
	}
	for i := range slots {
		slots[i].ID = ""
	}
	encoded, err := models.EncodeSlots(slots)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode template slots")
	}

	copyTpl := models.PeriodTemplate{Name: req.Name, IsActive: false, Slots: encoded}
	if err := s.repo.Create(ctx, &copyTpl); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to duplicate period template")
	}
	return &copyTpl, nil
}

// SetActive activates the given template and deactivates every other one.
func (s *TemplateService) SetActive(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "period template not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period template")
	}
	if err := s.repo.SetActive(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate period template")
	}
	s.logger.Info("period template activated", zap.String("template_id", id))
	return nil
}

// ReplaceSlots validates, normalizes and rewrites the full slot list of a
// template. Existing slot ids are preserved so grid cells keep their identity.
func (s *TemplateService) ReplaceSlots(ctx context.Context, id string, req ReplaceSlotsRequest) (*models.PeriodTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slots payload")
	}
	if err := validateSlotTimes(req.Slots); err != nil {
		return nil, err
	}

	tpl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period template")
	}

	encoded, err := models.EncodeSlots(req.Slots)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot list")
	}

	if err := s.repo.ReplaceSlots(ctx, id, encoded); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace template slots")
	}

	tpl.Slots = encoded
	return tpl, nil
}

// Delete removes a template. Deleting the active template is rejected so the
// system cannot lose its schedulable grid by accident.
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	tpl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "period template not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period template")
	}
	if tpl.IsActive {
		return appErrors.Clone(appErrors.ErrTemplateActive, "")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete period template")
	}
	return nil
}

// Active resolves the currently active template and its normalized slots.
// Callers must treat NO_ACTIVE_TEMPLATE and EMPTY_TEMPLATE as "no schedulable
// grid" rather than crash.
func (s *TemplateService) Active(ctx context.Context) (*models.PeriodTemplate, []models.Slot, error) {
	tpl, err := s.repo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNoActiveTemplate, "")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active period template")
	}
	slots, err := tpl.DecodeSlots()
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode active template slots")
	}
	if len(slots) == 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrEmptyTemplate, "")
	}
	return tpl, slots, nil
}

func validateSlotTimes(slots []models.Slot) error {
	for _, slot := range slots {
		start := models.NormalizeTime(slot.StartTime)
		end := models.NormalizeTime(slot.EndTime)
		if slot.StartTime != "" && !isCanonicalTime(start) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid slot start time %q", slot.StartTime))
		}
		if slot.EndTime != "" && !isCanonicalTime(end) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid slot end time %q", slot.EndTime))
		}
		if isCanonicalTime(start) && isCanonicalTime(end) && end <= start {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slot end time %q must be after start time %q", end, start))
		}
	}
	return nil
}

func isCanonicalTime(value string) bool {
	if len(value) != 8 {
		return false
	}
	_, err := time.Parse("15:04:05", value)
	return err == nil
}
