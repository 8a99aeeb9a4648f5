package models

import (
	"fmt"
	"time"
)

// Grid dimensions: one row per hour, one column per weekday starting Monday.
const (
	HoursPerDay = 24
	DaysPerWeek = 7
)

// GridEntry is one event occurrence placed in a week grid cell.
type GridEntry struct {
	EventID      string           `json:"event_id"`
	Time         time.Time        `json:"time"`
	Setpoint     Setpoint         `json:"setpoint"`
	OutstationID string           `json:"outstation_id"`
	Colour       Colour           `json:"colour"`
	ZoneID       string           `json:"zone_id"`
	ScheduleName string           `json:"schedule_name"`
	Recurrence   []RecurrenceRule `json:"recurrence,omitempty"`
}

// WeekGrid maps (hour, weekday) cells to the occurrences active in one displayed week.
type WeekGrid struct {
	WeekStart time.Time                              `json:"week_start"`
	Cells     [HoursPerDay][DaysPerWeek][]GridEntry `json:"cells"`
}

// Cell returns the entries at hour (0-23) and day (0 = Monday).
func (g *WeekGrid) Cell(hour, day int) []GridEntry {
	if hour < 0 || hour >= HoursPerDay || day < 0 || day >= DaysPerWeek {
		return nil
	}
	return g.Cells[hour][day]
}

// Count returns the number of placed occurrences.
func (g *WeekGrid) Count() int {
	n := 0
	for h := range g.Cells {
		for d := range g.Cells[h] {
			n += len(g.Cells[h][d])
		}
	}
	return n
}

// Entries returns every placed occurrence, row by row.
func (g *WeekGrid) Entries() []GridEntry {
	out := make([]GridEntry, 0, g.Count())
	for h := range g.Cells {
		for d := range g.Cells[h] {
			out = append(out, g.Cells[h][d]...)
		}
	}
	return out
}

// DayHeaders returns the column labels, e.g. "Mon\n06/05".
func (g *WeekGrid) DayHeaders() []string {
	out := make([]string, DaysPerWeek)
	for i := range out {
		day := g.WeekStart.AddDate(0, 0, i)
		out[i] = day.Format("Mon") + "\n" + day.Format("02/01")
	}
	return out
}

// HourHeaders returns the row labels "00:00" through "23:00".
func HourHeaders() []string {
	out := make([]string, HoursPerDay)
	for i := range out {
		out[i] = fmt.Sprintf("%02d:00", i)
	}
	return out
}
