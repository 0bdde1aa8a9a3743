package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusgrid/timetable-api/internal/models"
	"github.com/campusgrid/timetable-api/internal/service"
	appErrors "github.com/campusgrid/timetable-api/pkg/errors"
	"github.com/campusgrid/timetable-api/pkg/response"
)

// TemplateHandler exposes period template endpoints.
type TemplateHandler struct {
	templates *service.TemplateService
}

// NewTemplateHandler constructs TemplateHandler.
func NewTemplateHandler(templates *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// activeTemplatePayload pairs the active template with its decoded slot list.
type activeTemplatePayload struct {
	Template *models.PeriodTemplate `json:"template"`
	Slots    []models.Slot          `json:"slots"`
}

// List godoc
// @Summary List period templates
// @Tags PeriodTemplates
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /period-templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.templates.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, templates, nil)
}

// Active godoc
// @Summary Get the active period template with its slots
// @Tags PeriodTemplates
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /period-templates/active [get]
func (h *TemplateHandler) Active(c *gin.Context) {
	tpl, slots, err := h.templates.Active(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activeTemplatePayload{Template: tpl, Slots: slots}, nil)
}

// Get godoc
// @Summary Get period template detail
// @Tags PeriodTemplates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} response.Envelope
// @Router /period-templates/{id} [get]
func (h *TemplateHandler) Get(c *gin.Context) {
	tpl, err := h.templates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tpl, nil)
}

// Create godoc
// @Summary Create a period template
// @Tags PeriodTemplates
// @Accept json
// @Produce json
// @Param payload body service.CreateTemplateRequest true "Template payload"
// @Success 201 {object} response.Envelope
// @Router /period-templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	var req service.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	tpl, err := h.templates.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tpl)
}

// Duplicate godoc
// @Summary Duplicate a period template
// @Tags PeriodTemplates
// @Accept json
// @Produce json
// @Param id path string true "Source template ID"
// @Param payload body service.DuplicateTemplateRequest true "Duplicate payload"
// @Success 201 {object} response.Envelope
// @Router /period-templates/{id}/duplicate [post]
func (h *TemplateHandler) Duplicate(c *gin.Context) {
	var req service.DuplicateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	tpl, err := h.templates.Duplicate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tpl)
}

// Activate godoc
// @Summary Mark a period template as the active one
// @Tags PeriodTemplates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} response.Envelope
// @Router /period-templates/{id}/activate [post]
func (h *TemplateHandler) Activate(c *gin.Context) {
	if err := h.templates.SetActive(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	tpl, err := h.templates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tpl, nil)
}

// ReplaceSlots godoc
// @Summary Replace the slot list of a period template
// @Tags PeriodTemplates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param payload body service.ReplaceSlotsRequest true "Slot list"
// @Success 200 {object} response.Envelope
// @Router /period-templates/{id}/slots [put]
func (h *TemplateHandler) ReplaceSlots(c *gin.Context) {
	var req service.ReplaceSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	tpl, err := h.templates.ReplaceSlots(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tpl, nil)
}

// Delete godoc
// @Summary Delete a period template
// @Tags PeriodTemplates
// @Produce json
// @Param id path string true "Template ID"
// @Success 204
// @Router /period-templates/{id} [delete]
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.templates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
