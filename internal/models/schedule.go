package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the minute-precision wire format of trigger and excluded times.
const TimeLayout = "200601021504"

// Comparison is the setpoint operator an outstation enforces.
type Comparison string

const (
	LessThan    Comparison = "lt"
	EqualTo     Comparison = "eq"
	GreaterThan Comparison = "gt"
)

// ParseComparison accepts the persisted codes lt, eq and gt.
func ParseComparison(code string) (Comparison, error) {
	switch c := Comparison(strings.ToLower(strings.TrimSpace(code))); c {
	case LessThan, EqualTo, GreaterThan:
		return c, nil
	default:
		return "", &ParseError{Field: "setpoint type", Value: code}
	}
}

// Label returns the human name shown in event details.
func (c Comparison) Label() string {
	switch c {
	case LessThan:
		return "Less Than"
	case EqualTo:
		return "Equal To"
	case GreaterThan:
		return "Greater Than"
	}
	return ""
}

// Setpoint is the target an event asks its outstation to hold.
// Value keeps the numeric literal exactly as entered.
type Setpoint struct {
	Value      string     `json:"value" yaml:"value"`
	Comparison Comparison `json:"type" yaml:"type"`
}

// Float returns the numeric value of the setpoint.
func (s Setpoint) Float() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s.Value), 64)
}

// Colour is the RGB display colour of an event.
type Colour struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

// White is the colour given to events created without one.
var White = Colour{R: 255, G: 255, B: 255}

// String renders the persisted form, e.g. "(255, 0, 0)".
func (c Colour) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.R, c.G, c.B)
}

// Hex renders the colour as #rrggbb.
func (c Colour) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColour reads a textual RGB triple such as "(255, 0, 0)".
func ParseColour(s string) (Colour, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimSuffix(strings.TrimPrefix(trimmed, "("), ")")
	parts := strings.Split(trimmed, ",")
	if len(parts) != 3 {
		return Colour{}, &ParseError{Field: "colour", Value: s}
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return Colour{}, &ParseError{Field: "colour", Value: s, Err: err}
		}
		rgb[i] = uint8(v)
	}
	return Colour{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

// EventRecord is one scheduled setpoint action.
type EventRecord struct {
	ID           string           `json:"id" yaml:"id"`
	TriggerTime  time.Time        `json:"trigger_time" yaml:"trigger_time"`
	Setpoint     Setpoint         `json:"setpoint" yaml:"setpoint"`
	OutstationID string           `json:"outstation_id" yaml:"outstation_id"`
	Colour       Colour           `json:"colour" yaml:"colour"`
	Recurrence   []RecurrenceRule `json:"recurrence,omitempty" yaml:"recurrence,omitempty"`
}

// ZoneRecord is a named subdivision of a building holding events.
type ZoneRecord struct {
	ID          string        `json:"id" yaml:"id"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Events      []EventRecord `json:"events" yaml:"events"`
}

// Event returns the event with the given id.
func (z *ZoneRecord) Event(id string) (*EventRecord, bool) {
	for i := range z.Events {
		if z.Events[i].ID == id {
			return &z.Events[i], true
		}
	}
	return nil, false
}

// ScheduleRecord is the top-level container bound to exactly one building.
type ScheduleRecord struct {
	Name       string       `json:"name" yaml:"name"`
	BuildingID string       `json:"building_id" yaml:"building_id"`
	Zones      []ZoneRecord `json:"zones" yaml:"zones"`
}

// Zone returns the zone with the given id.
func (s *ScheduleRecord) Zone(id string) (*ZoneRecord, bool) {
	for i := range s.Zones {
		if s.Zones[i].ID == id {
			return &s.Zones[i], true
		}
	}
	return nil, false
}

// ScheduleSummary is one entry of the schedule selector.
type ScheduleSummary struct {
	Name        string `json:"name"`
	BuildingID  string `json:"building_id"`
	DisplayName string `json:"display_name"`
	Key         string `json:"key"`
}

// NewScheduleSummary formats the display name as "{name} - {buildingId}".
func NewScheduleSummary(key, name, buildingID string) ScheduleSummary {
	return ScheduleSummary{
		Name:        name,
		BuildingID:  buildingID,
		DisplayName: fmt.Sprintf("%s - %s", name, buildingID),
		Key:         key,
	}
}

// EventRef addresses one event inside a schedule.
type EventRef struct {
	Schedule string `json:"schedule"`
	Zone     string `json:"zone"`
	Event    string `json:"event"`
}

// RecordIssue describes a persisted record skipped because it could not be read.
type RecordIssue struct {
	Schedule string `json:"schedule"`
	Zone     string `json:"zone,omitempty"`
	Event    string `json:"event,omitempty"`
	Reason   string `json:"reason"`
}

// ChangeResult tells the caller which week to re-project after a mutation.
type ChangeResult struct {
	Schedule  string    `json:"schedule"`
	WeekStart time.Time `json:"week_start"`
}
