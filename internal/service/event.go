package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"building_scheduler/internal/logger"
	"building_scheduler/internal/models"
	"building_scheduler/internal/recurrence"
	"building_scheduler/internal/repository"
)

// EventInput carries the values entered for a new or edited event.
type EventInput struct {
	Schedule     string
	Zone         string
	ID           string
	TriggerTime  time.Time
	Setpoint     models.Setpoint
	OutstationID string
	// Colour defaults to white when nil.
	Colour     *models.Colour
	Recurrence []models.RecurrenceRule
}

// RuleDescription is a recurrence rule rendered for the event information view.
type RuleDescription struct {
	Kind     models.RuleKind `json:"kind"`
	Summary  string          `json:"summary"`
	Excluded []string        `json:"excluded,omitempty"`
}

// EventDetails is one event with human-readable rule text.
type EventDetails struct {
	Schedule      string             `json:"schedule"`
	Zone          string             `json:"zone"`
	Event         models.EventRecord `json:"event"`
	SetpointLabel string             `json:"setpoint_label"`
	Rules         []RuleDescription  `json:"rules"`
}

type EventService struct {
	repo       repository.Schedules
	changes    *changeRecorder
	atomicEdit bool
	log        *logger.Logger
	now        func() time.Time
}

func NewEventService(repo repository.Schedules, changes *changeRecorder, atomicEdit bool, log *logger.Logger) *EventService {
	return &EventService{repo: repo, changes: changes, atomicEdit: atomicEdit, log: logger.OrNop(log), now: time.Now}
}

// buildEvent validates in field by field, in the order the entry form is checked,
// and returns the normalised record. It never touches storage.
func buildEvent(in EventInput) (models.EventRecord, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return models.EventRecord{}, models.Invalid(models.ReasonEmptyName, "event name is required")
	}

	value := strings.TrimSpace(in.Setpoint.Value)
	if value == "" {
		return models.EventRecord{}, models.Invalid(models.ReasonEmptySetpointValue, "setpoint value is required")
	}
	sp := models.Setpoint{Value: value, Comparison: in.Setpoint.Comparison}
	if f, err := sp.Float(); err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return models.EventRecord{}, models.Invalid(models.ReasonNotNumeric, "setpoint value %q is not a number", value)
	}

	if strings.TrimSpace(string(in.Setpoint.Comparison)) == "" {
		return models.EventRecord{}, models.Invalid(models.ReasonNoSetpointType, "setpoint type is required")
	}
	cmp, err := models.ParseComparison(string(in.Setpoint.Comparison))
	if err != nil {
		return models.EventRecord{}, models.Invalid(models.ReasonNoSetpointType, "unknown setpoint type %q", in.Setpoint.Comparison)
	}
	sp.Comparison = cmp

	if strings.TrimSpace(in.Zone) == "" {
		return models.EventRecord{}, models.Invalid(models.ReasonNoZone, "a zone must be selected")
	}

	outstation := strings.TrimSpace(in.OutstationID)
	if outstation == "" {
		return models.EventRecord{}, models.Invalid(models.ReasonEmptyOutstation, "outstation id is required")
	}

	rules := make([]models.RecurrenceRule, 0, len(in.Recurrence))
	for i, r := range in.Recurrence {
		v, err := recurrence.Validate(r)
		if err != nil {
			return models.EventRecord{}, fmt.Errorf("recurrence rule %d: %w", i+1, err)
		}
		rules = append(rules, v)
	}
	if len(rules) == 0 {
		rules = nil
	}

	colour := models.White
	if in.Colour != nil {
		colour = *in.Colour
	}

	return models.EventRecord{
		ID:           id,
		TriggerTime:  recurrence.Minute(in.TriggerTime),
		Setpoint:     sp,
		OutstationID: outstation,
		Colour:       colour,
		Recurrence:   rules,
	}, nil
}

func eventMeta(zone, event string) map[string]string {
	return map[string]string{"zone": zone, "event": event}
}

func (s *EventService) CreateEvent(ctx context.Context, in EventInput) (models.ChangeResult, error) {
	res, err := s.create(ctx, in)
	s.changes.record(ctx, models.ChangeEventCreated, in.Schedule,
		fmt.Sprintf("event %q created in zone %q", in.ID, in.Zone), eventMeta(in.Zone, in.ID), err)
	return res, err
}

func (s *EventService) create(ctx context.Context, in EventInput) (models.ChangeResult, error) {
	if strings.TrimSpace(in.Schedule) == "" {
		return models.ChangeResult{}, models.NotFound(models.KindSchedule, in.Schedule)
	}
	ev, err := buildEvent(in)
	if err != nil {
		return models.ChangeResult{}, err
	}
	if err := s.repo.InsertEvent(ctx, in.Schedule, in.Zone, ev); err != nil {
		s.log.Infow("event_create_rejected", "schedule", in.Schedule, "zone", in.Zone, "event", ev.ID, "err", err)
		return models.ChangeResult{}, err
	}
	s.log.Infow("event_created", "schedule", in.Schedule, "zone", in.Zone, "event", ev.ID,
		"trigger_time", recurrence.FormatTime(ev.TriggerTime), "rules", len(ev.Recurrence))
	return changeResult(in.Schedule, ev.TriggerTime), nil
}

// EditEvent replaces orig with the values in in. The event may move to another zone or schedule.
func (s *EventService) EditEvent(ctx context.Context, orig models.EventRef, in EventInput) (models.ChangeResult, error) {
	var (
		res models.ChangeResult
		err error
	)
	if s.atomicEdit {
		res, err = s.editAtomic(ctx, orig, in)
	} else {
		res, err = s.editDeleteFirst(ctx, orig, in)
	}
	s.changes.record(ctx, models.ChangeEventEdited, in.Schedule,
		fmt.Sprintf("event %s/%s/%s replaced by %q in zone %q", orig.Schedule, orig.Zone, orig.Event, in.ID, in.Zone),
		map[string]string{
			"from_schedule": orig.Schedule, "from_zone": orig.Zone, "from_event": orig.Event,
			"zone": in.Zone, "event": in.ID,
		}, err)
	return res, err
}

func (s *EventService) editAtomic(ctx context.Context, orig models.EventRef, in EventInput) (models.ChangeResult, error) {
	if strings.TrimSpace(in.Schedule) == "" {
		return models.ChangeResult{}, models.NotFound(models.KindSchedule, in.Schedule)
	}
	ev, err := buildEvent(in)
	if err != nil {
		return models.ChangeResult{}, err
	}
	if err := s.repo.ReplaceEvent(ctx, orig, in.Schedule, in.Zone, ev); err != nil {
		s.log.Infow("event_edit_rejected", "schedule", orig.Schedule, "zone", orig.Zone, "event", orig.Event, "err", err)
		return models.ChangeResult{}, err
	}
	s.log.Infow("event_edited", "schedule", in.Schedule, "zone", in.Zone, "event", ev.ID,
		"from_zone", orig.Zone, "from_event", orig.Event)
	return changeResult(in.Schedule, ev.TriggerTime), nil
}

// editDeleteFirst removes the original and then creates the replacement. If the replacement
// is rejected the original stays deleted.
func (s *EventService) editDeleteFirst(ctx context.Context, orig models.EventRef, in EventInput) (models.ChangeResult, error) {
	if err := s.repo.DeleteEvent(ctx, orig); err != nil {
		return models.ChangeResult{}, err
	}
	res, err := s.create(ctx, in)
	if err != nil {
		s.log.Warnw("event_edit_original_lost",
			"schedule", orig.Schedule, "zone", orig.Zone, "event", orig.Event, "err", err)
		s.changes.record(ctx, models.ChangeEventDeleted, orig.Schedule,
			fmt.Sprintf("event %q deleted from zone %q by a failed edit", orig.Event, orig.Zone),
			eventMeta(orig.Zone, orig.Event), nil)
		return models.ChangeResult{}, err
	}
	return res, nil
}

// DeleteEvent removes one event. A missing zone or event is a NotFoundError and nothing changes.
func (s *EventService) DeleteEvent(ctx context.Context, ref models.EventRef) (models.ChangeResult, error) {
	res, err := s.delete(ctx, ref)
	s.changes.record(ctx, models.ChangeEventDeleted, ref.Schedule,
		fmt.Sprintf("event %q deleted from zone %q", ref.Event, ref.Zone), eventMeta(ref.Zone, ref.Event), err)
	return res, err
}

func (s *EventService) delete(ctx context.Context, ref models.EventRef) (models.ChangeResult, error) {
	if strings.TrimSpace(ref.Schedule) == "" {
		return models.ChangeResult{}, models.NotFound(models.KindSchedule, ref.Schedule)
	}
	rec, _, err := s.repo.Get(ctx, ref.Schedule)
	if err != nil {
		return models.ChangeResult{}, err
	}
	// Undecodable events can still be deleted; they report the current week.
	trigger := s.now()
	if z, ok := rec.Zone(ref.Zone); ok {
		if ev, ok := z.Event(ref.Event); ok {
			trigger = ev.TriggerTime
		}
	}
	if err := s.repo.DeleteEvent(ctx, ref); err != nil {
		return models.ChangeResult{}, err
	}
	s.log.Infow("event_deleted", "schedule", ref.Schedule, "zone", ref.Zone, "event", ref.Event)
	return changeResult(ref.Schedule, trigger), nil
}

// GetEvent returns one event with its rules described.
func (s *EventService) GetEvent(ctx context.Context, ref models.EventRef) (EventDetails, error) {
	if strings.TrimSpace(ref.Schedule) == "" {
		return EventDetails{}, models.NotFound(models.KindSchedule, ref.Schedule)
	}
	rec, issues, err := s.repo.Get(ctx, ref.Schedule)
	if err != nil {
		return EventDetails{}, err
	}
	reportIssues(s.log, "get", issues)

	z, ok := rec.Zone(ref.Zone)
	if !ok {
		return EventDetails{}, models.NotFound(models.KindZone, ref.Zone)
	}
	ev, ok := z.Event(ref.Event)
	if !ok {
		return EventDetails{}, models.NotFound(models.KindEvent, ref.Event)
	}

	out := EventDetails{
		Schedule:      rec.Name,
		Zone:          z.ID,
		Event:         *ev,
		SetpointLabel: ev.Setpoint.Comparison.Label(),
		Rules:         make([]RuleDescription, 0, len(ev.Recurrence)),
	}
	for _, r := range ev.Recurrence {
		summary, excluded := recurrence.Describe(r)
		out.Rules = append(out.Rules, RuleDescription{Kind: r.Kind, Summary: summary, Excluded: excluded})
	}
	return out, nil
}

func changeResult(schedule string, trigger time.Time) models.ChangeResult {
	return models.ChangeResult{Schedule: schedule, WeekStart: recurrence.WeekStart(trigger)}
}
