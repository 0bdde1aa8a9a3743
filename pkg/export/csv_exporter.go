package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders timetable grids into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the grid, one row per period.
func (e *CSVExporter) Render(grid Grid) ([]byte, error) {
	if len(grid.Days) == 0 {
		return nil, fmt.Errorf("csv requires at least one day column")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	header := append([]string{"Period", "Time"}, grid.Days...)
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range grid.Rows {
		record := make([]string, 0, len(header))
		record = append(record, row.Label, row.TimeBand)
		for i := range grid.Days {
			if row.IsBreak {
				record = append(record, "Break")
				continue
			}
			value := ""
			if i < len(row.Cells) {
				value = row.Cells[i]
			}
			record = append(record, value)
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
