package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusgrid/timetable-api/internal/service"
	appErrors "github.com/campusgrid/timetable-api/pkg/errors"
	"github.com/campusgrid/timetable-api/pkg/response"
)

// PublishRequest names the draft version to promote.
type PublishRequest struct {
	VersionID string `json:"version_id" binding:"required"`
}

// TimetableHandler exposes the version lifecycle, placement, and grid
// endpoints.
type TimetableHandler struct {
	versions   *service.VersionService
	placements *service.PlacementService
	grids      *service.GridService
	exports    *service.ExportService
}

// NewTimetableHandler constructs TimetableHandler.
func NewTimetableHandler(versions *service.VersionService, placements *service.PlacementService, grids *service.GridService, exports *service.ExportService) *TimetableHandler {
	return &TimetableHandler{versions: versions, placements: placements, grids: grids, exports: exports}
}

// Workspace godoc
// @Summary Get the draft and published version ids for a batch
// @Tags Timetables
// @Produce json
// @Param batchId path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /batches/{batchId}/workspace [get]
func (h *TimetableHandler) Workspace(c *gin.Context) {
	ws, err := h.versions.Workspace(c.Request.Context(), c.Param("batchId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ws, nil)
}

// Publish godoc
// @Summary Publish a draft timetable version
// @Tags Timetables
// @Accept json
// @Produce json
// @Param batchId path string true "Batch ID"
// @Param payload body PublishRequest true "Draft version to publish"
// @Success 200 {object} response.Envelope
// @Router /batches/{batchId}/publish [post]
func (h *TimetableHandler) Publish(c *gin.Context) {
	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	version, err := h.versions.Publish(c.Request.Context(), c.Param("batchId"), req.VersionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, version, nil)
}

// Offerings godoc
// @Summary List course offerings of a batch with placement status
// @Tags Timetables
// @Produce json
// @Param batchId path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /batches/{batchId}/offerings [get]
func (h *TimetableHandler) Offerings(c *gin.Context) {
	offerings, err := h.grids.Offerings(c.Request.Context(), c.Param("batchId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offerings, nil)
}

// Grid godoc
// @Summary Get the published timetable grid of a batch
// @Tags Timetables
// @Produce json
// @Param batchId path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /batches/{batchId}/grid [get]
func (h *TimetableHandler) Grid(c *gin.Context) {
	grid, err := h.grids.PublishedGrid(c.Request.Context(), c.Param("batchId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// ExportPDF godoc
// @Summary Download the published timetable of a batch as PDF
// @Tags Timetables
// @Produce application/pdf
// @Param batchId path string true "Batch ID"
// @Success 200 {file} binary
// @Router /batches/{batchId}/export/pdf [get]
func (h *TimetableHandler) ExportPDF(c *gin.Context) {
	payload, filename, err := h.exports.PublishedPDF(c.Request.Context(), c.Param("batchId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", payload)
}

// ExportCSV godoc
// @Summary Download the published timetable of a batch as CSV
// @Tags Timetables
// @Produce text/csv
// @Param batchId path string true "Batch ID"
// @Success 200 {file} binary
// @Router /batches/{batchId}/export/csv [get]
func (h *TimetableHandler) ExportCSV(c *gin.Context) {
	payload, filename, err := h.exports.PublishedCSV(c.Request.Context(), c.Param("batchId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/csv", payload)
}

// ListEvents godoc
// @Summary List committed events of a timetable version
// @Tags Events
// @Produce json
// @Param id path string true "Version ID"
// @Success 200 {object} response.Envelope
// @Router /versions/{id}/events [get]
func (h *TimetableHandler) ListEvents(c *gin.Context) {
	events, err := h.placements.EventsForVersion(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// PlaceEvent godoc
// @Summary Place an offering into a timetable cell
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Version ID"
// @Param payload body service.PlaceEventRequest true "Placement payload"
// @Success 201 {object} response.Envelope
// @Router /versions/{id}/events [post]
func (h *TimetableHandler) PlaceEvent(c *gin.Context) {
	var req service.PlaceEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	event, err := h.placements.Place(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// DeleteEvent godoc
// @Summary Remove an event from a timetable version
// @Tags Events
// @Produce json
// @Param id path string true "Version ID"
// @Param eventId path string true "Event ID"
// @Success 204
// @Router /versions/{id}/events/{eventId} [delete]
func (h *TimetableHandler) DeleteEvent(c *gin.Context) {
	if err := h.placements.DeleteEvent(c.Request.Context(), c.Param("id"), c.Param("eventId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UpdateEventRoom godoc
// @Summary Reassign the room of a placed event
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Version ID"
// @Param eventId path string true "Event ID"
// @Param payload body service.UpdateEventRoomRequest true "Room payload"
// @Success 200 {object} response.Envelope
// @Router /versions/{id}/events/{eventId}/room [patch]
func (h *TimetableHandler) UpdateEventRoom(c *gin.Context) {
	var req service.UpdateEventRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	event, err := h.placements.UpdateEventRoom(c.Request.Context(), c.Param("id"), c.Param("eventId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}
