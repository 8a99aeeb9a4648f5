// Package grid places schedule events onto the 24x7 hour-by-weekday grid of one displayed week.
package grid

import (
	"sort"
	"time"

	"building_scheduler/internal/models"
	"building_scheduler/internal/recurrence"
)

// WeekStart returns the Monday of the week containing date.
func WeekStart(date time.Time) time.Time {
	return recurrence.WeekStart(date)
}

// Project computes the week grid for the week starting weekStart over the given schedules.
// weekStart must be a Monday at midnight. Events whose rules cannot be expanded are skipped
// and reported; the rest of the projection is unaffected. Inputs are never modified.
func Project(weekStart time.Time, schedules ...models.ScheduleRecord) (models.WeekGrid, []models.RecordIssue, error) {
	if !recurrence.IsWeekStart(weekStart) {
		return models.WeekGrid{}, nil, models.Invalid(models.ReasonInvalidWeekStart,
			"%s is not a Monday at 00:00", weekStart.Format("2006-01-02 15:04"))
	}
	start := recurrence.Minute(weekStart)
	g := models.WeekGrid{WeekStart: start}

	var issues []models.RecordIssue
	for _, s := range schedules {
		for _, z := range s.Zones {
			for _, ev := range z.Events {
				instants, err := eventInstants(ev, start)
				if err != nil {
					issues = append(issues, models.RecordIssue{
						Schedule: s.Name,
						Zone:     z.ID,
						Event:    ev.ID,
						Reason:   err.Error(),
					})
					continue
				}
				for _, t := range instants {
					place(&g, newEntry(s, z, ev, t))
				}
			}
		}
	}

	for h := range g.Cells {
		for d := range g.Cells[h] {
			sortCell(g.Cells[h][d])
		}
	}
	return g, issues, nil
}

// eventInstants returns the distinct instants at which ev occurs in the week.
func eventInstants(ev models.EventRecord, start time.Time) ([]time.Time, error) {
	end := start.AddDate(0, 0, models.DaysPerWeek)
	trigger := recurrence.Minute(ev.TriggerTime)

	if len(ev.Recurrence) == 0 {
		if trigger.Before(start) || !trigger.Before(end) {
			return nil, nil
		}
		return []time.Time{trigger}, nil
	}

	seen := make(map[time.Time]bool)
	var out []time.Time
	for _, rule := range ev.Recurrence {
		if rule.Kind == models.KindTimeSpecifier && rule.Time != nil && !recurrence.OccursInWeek(rule, start) {
			continue
		}
		occ, err := recurrence.Occurrences(rule, trigger, start)
		if err != nil {
			return nil, err
		}
		for _, t := range occ {
			if seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out, nil
}

func newEntry(s models.ScheduleRecord, z models.ZoneRecord, ev models.EventRecord, at time.Time) models.GridEntry {
	var rules []models.RecurrenceRule
	if len(ev.Recurrence) > 0 {
		rules = make([]models.RecurrenceRule, len(ev.Recurrence))
		copy(rules, ev.Recurrence)
	}
	return models.GridEntry{
		EventID:      ev.ID,
		Time:         at,
		Setpoint:     ev.Setpoint,
		OutstationID: ev.OutstationID,
		Colour:       ev.Colour,
		ZoneID:       z.ID,
		ScheduleName: s.Name,
		Recurrence:   rules,
	}
}

func place(g *models.WeekGrid, e models.GridEntry) {
	h, d := e.Time.Hour(), models.ColumnOf(e.Time)
	g.Cells[h][d] = append(g.Cells[h][d], e)
}

// sortCell orders a cell by occurrence time, then event id, zone and schedule.
func sortCell(entries []models.GridEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Time.Equal(b.Time) {
			return a.Time.Before(b.Time)
		}
		if a.EventID != b.EventID {
			return a.EventID < b.EventID
		}
		if a.ZoneID != b.ZoneID {
			return a.ZoneID < b.ZoneID
		}
		return a.ScheduleName < b.ScheduleName
	})
}
