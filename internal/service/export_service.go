package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/campusgrid/timetable-api/internal/models"
	appErrors "github.com/campusgrid/timetable-api/pkg/errors"
	"github.com/campusgrid/timetable-api/pkg/export"
)

type publishedResolver interface {
	GetPublished(ctx context.Context, batchID string) (*models.TimetableVersion, error)
}

type gridRenderer interface {
	Render(grid export.Grid) ([]byte, error)
}

var exportDayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// ExportService renders the published timetable of a batch into downloadable
// documents.
type ExportService struct {
	versions  publishedResolver
	templates activeTemplateReader
	events    eventRepository
	pdf       gridRenderer
	csv       gridRenderer
	enabled   bool
	logger    *zap.Logger
}

// NewExportService wires the export pipeline.
func NewExportService(versions publishedResolver, templates activeTemplateReader, events eventRepository, pdf gridRenderer, csv gridRenderer, enabled bool, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		versions:  versions,
		templates: templates,
		events:    events,
		pdf:       pdf,
		csv:       csv,
		enabled:   enabled,
		logger:    logger,
	}
}

// PublishedPDF renders the batch's published timetable as a PDF. The second
// return value is a suggested filename.
func (s *ExportService) PublishedPDF(ctx context.Context, batchID string) ([]byte, string, error) {
	grid, version, err := s.publishedGrid(ctx, batchID)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.pdf.Render(grid)
	if err != nil {
		s.logger.Error("render timetable pdf", zap.String("batch_id", batchID), zap.Error(err))
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable export")
	}
	return payload, exportFilename(version, "pdf"), nil
}

// PublishedCSV renders the batch's published timetable as CSV.
func (s *ExportService) PublishedCSV(ctx context.Context, batchID string) ([]byte, string, error) {
	grid, version, err := s.publishedGrid(ctx, batchID)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.csv.Render(grid)
	if err != nil {
		s.logger.Error("render timetable csv", zap.String("batch_id", batchID), zap.Error(err))
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable export")
	}
	return payload, exportFilename(version, "csv"), nil
}

func (s *ExportService) publishedGrid(ctx context.Context, batchID string) (export.Grid, *models.TimetableVersion, error) {
	if !s.enabled {
		return export.Grid{}, nil, appErrors.Clone(appErrors.ErrValidation, "export is disabled")
	}
	version, err := s.versions.GetPublished(ctx, batchID)
	if err != nil {
		return export.Grid{}, nil, err
	}
	if version == nil {
		return export.Grid{}, nil, appErrors.Clone(appErrors.ErrNotFound, "no published timetable for this batch")
	}
	_, slots, err := s.templates.Active(ctx)
	if err != nil {
		return export.Grid{}, nil, err
	}
	events, err := s.events.ListDetailsByVersion(ctx, version.ID)
	if err != nil {
		return export.Grid{}, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list published events")
	}

	cells := make(map[string]models.EventDetail, len(events))
	for _, event := range events {
		cells[event.CellKey()] = event
	}

	grid := export.Grid{
		Title: version.Name,
		Days:  exportDayNames,
		Rows:  make([]export.GridRow, 0, len(slots)),
	}
	for _, slot := range slots {
		row := export.GridRow{
			Label:    slot.Name,
			TimeBand: fmt.Sprintf("%s - %s", shortTime(slot.StartTime), shortTime(slot.EndTime)),
			IsBreak:  slot.IsBreak,
		}
		if !slot.IsBreak {
			row.Cells = make([]string, len(exportDayNames))
			for day := range exportDayNames {
				if event, ok := cells[models.CellKey(day, slot.StartTime)]; ok {
					row.Cells[day] = formatCell(event)
				}
			}
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid, version, nil
}

func formatCell(event models.EventDetail) string {
	parts := []string{fmt.Sprintf("%s %s", event.SubjectCode, event.SubjectName)}
	if event.FacultyName != nil && *event.FacultyName != "" {
		parts = append(parts, *event.FacultyName)
	}
	if event.RoomNumber != nil && *event.RoomNumber != "" {
		parts = append(parts, "Room "+*event.RoomNumber)
	}
	return strings.Join(parts, "\n")
}

func shortTime(value string) string {
	if len(value) >= 5 {
		return value[:5]
	}
	return value
}

func exportFilename(version *models.TimetableVersion, ext string) string {
	name := strings.ToLower(strings.ReplaceAll(version.Name, " ", "-"))
	if name == "" {
		name = "timetable"
	}
	return fmt.Sprintf("%s-%s.%s", name, version.BatchID, ext)
}
