package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Grid describes a weekly timetable laid out as period rows by day columns.
type Grid struct {
	Title string
	Days  []string
	Rows  []GridRow
}

// GridRow is a single period across the week. Cells align with Grid.Days.
type GridRow struct {
	Label    string
	TimeBand string
	IsBreak  bool
	Cells    []string
}

// PDFExporter renders timetable grids into a landscape PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with the grid laid out one row per period.
func (e *PDFExporter) Render(grid Grid) ([]byte, error) {
	if len(grid.Days) == 0 {
		return nil, fmt.Errorf("pdf requires at least one day column")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if grid.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(grid.Title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	labelWidth := 42.0
	colWidth := (277.0 - labelWidth) / float64(len(grid.Days))

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(labelWidth, 8, "Period", "1", 0, "C", true, 0, "")
	for _, day := range grid.Days {
		pdf.CellFormat(colWidth, 8, day, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	for _, row := range grid.Rows {
		label := row.Label
		if row.TimeBand != "" {
			label = fmt.Sprintf("%s (%s)", row.Label, row.TimeBand)
		}
		if row.IsBreak {
			pdf.SetFont("Arial", "I", 9)
			pdf.SetFillColor(245, 245, 245)
			pdf.CellFormat(labelWidth, 9, label, "1", 0, "C", true, 0, "")
			pdf.CellFormat(colWidth*float64(len(grid.Days)), 9, "Break", "1", 0, "C", true, 0, "")
			pdf.Ln(-1)
			continue
		}
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(labelWidth, 9, label, "1", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 8)
		for i := range grid.Days {
			value := ""
			if i < len(row.Cells) {
				value = row.Cells[i]
			}
			pdf.CellFormat(colWidth, 9, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
