package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

// Slot is one row of a period template: a teaching period or a break.
type Slot struct {
	ID           string `json:"id"`
	PeriodNumber int    `json:"period_number"`
	Name         string `json:"name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	IsBreak      bool   `json:"is_break"`
}

// PeriodTemplate is the named, ordered set of slots shared by all timetables
// using it. At most one template is active system-wide.
type PeriodTemplate struct {
	ID        string         `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	IsActive  bool           `db:"is_active" json:"is_active"`
	Slots     types.JSONText `db:"slots" json:"slots"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// DecodeSlots unmarshals and normalizes the stored slot list.
func (t *PeriodTemplate) DecodeSlots() ([]Slot, error) {
	if len(t.Slots) == 0 {
		return nil, nil
	}
	var slots []Slot
	if err := json.Unmarshal(t.Slots, &slots); err != nil {
		return nil, fmt.Errorf("decode template slots: %w", err)
	}
	return NormalizeSlots(slots), nil
}

// EncodeSlots normalizes and marshals the slot list for storage.
func EncodeSlots(slots []Slot) (types.JSONText, error) {
	normalized := NormalizeSlots(slots)
	raw, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("encode template slots: %w", err)
	}
	return types.JSONText(raw), nil
}

var (
	timeHHMM   = regexp.MustCompile(`^\d{2}:\d{2}$`)
	timeHHMMSS = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)
)

// NormalizeTime canonicalizes a time-of-day string to HH:MM:SS. Inputs arrive
// in both HH:MM and HH:MM:SS granularities; anything else passes through
// unchanged so slot resolution can reject it.
func NormalizeTime(value string) string {
	trimmed := strings.TrimSpace(value)
	if timeHHMM.MatchString(trimmed) {
		return trimmed + ":00"
	}
	if timeHHMMSS.MatchString(trimmed) {
		return trimmed
	}
	return trimmed
}

// NormalizeSlots applies defaults, canonicalizes times, assigns ids to new
// slots and sorts by period number. Existing slot ids are preserved so grid
// cell identity stays stable across edits.
func NormalizeSlots(slots []Slot) []Slot {
	normalized := make([]Slot, 0, len(slots))
	for idx, s := range slots {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if s.PeriodNumber <= 0 {
			s.PeriodNumber = idx + 1
		}
		if s.Name == "" {
			s.Name = fmt.Sprintf("Period %d", s.PeriodNumber)
		}
		if s.StartTime == "" {
			s.StartTime = "09:00:00"
		}
		if s.EndTime == "" {
			s.EndTime = "10:00:00"
		}
		s.StartTime = NormalizeTime(s.StartTime)
		s.EndTime = NormalizeTime(s.EndTime)
		normalized = append(normalized, s)
	}
	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].PeriodNumber < normalized[j].PeriodNumber
	})
	return normalized
}

// CellKey derives the canonical lookup key for a grid cell.
func CellKey(dayOfWeek int, startTime string) string {
	return fmt.Sprintf("%d|%s", dayOfWeek, NormalizeTime(startTime))
}
