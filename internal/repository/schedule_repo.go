package repository

import (
	"context"
	"strings"

	"building_scheduler/internal/models"
)

// ScheduleRepo enforces cross-record invariants on top of a Store. It keeps no cache:
// every call re-reads the records it needs.
type ScheduleRepo struct {
	store Store
}

func NewScheduleRepo(store Store) *ScheduleRepo { return &ScheduleRepo{store: store} }

// Ensure implementation of Schedules interface at compile time.
var _ Schedules = (*ScheduleRepo)(nil)

func (r *ScheduleRepo) load(ctx context.Context, key string) (*document, error) {
	data, err := r.store.ReadOne(ctx, key)
	if err != nil {
		return nil, err
	}
	return decodeDocument(key, data)
}

func (r *ScheduleRepo) save(ctx context.Context, d *document) error {
	data, err := d.encode()
	if err != nil {
		return err
	}
	return r.store.WriteOne(ctx, d.key, data)
}

// loadAll decodes every readable record; unreadable ones are returned as issues.
func (r *ScheduleRepo) loadAll(ctx context.Context) ([]*document, []models.RecordIssue, error) {
	recs, err := r.store.ReadAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	docs := make([]*document, 0, len(recs))
	var issues []models.RecordIssue
	for _, rec := range recs {
		if rec.Err != nil {
			issues = append(issues, models.RecordIssue{Schedule: rec.Key, Reason: rec.Err.Error()})
			continue
		}
		d, err := decodeDocument(rec.Key, rec.Data)
		if err != nil {
			issues = append(issues, models.RecordIssue{Schedule: rec.Key, Reason: err.Error()})
			continue
		}
		docs = append(docs, d)
	}
	return docs, issues, nil
}

// List returns one summary per readable record. Corrupt records are skipped and reported.
func (r *ScheduleRepo) List(ctx context.Context) ([]models.ScheduleSummary, []models.RecordIssue, error) {
	docs, issues, err := r.loadAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	out := make([]models.ScheduleSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.NewScheduleSummary(d.key, d.name(), d.buildingID()))
	}
	return out, issues, nil
}

// Get reads a schedule. Events that fail to decode are omitted and reported.
func (r *ScheduleRepo) Get(ctx context.Context, key string) (models.ScheduleRecord, []models.RecordIssue, error) {
	d, err := r.load(ctx, key)
	if err != nil {
		return models.ScheduleRecord{}, nil, err
	}
	rec, issues := d.record()
	return rec, issues, nil
}

// GetAll reads every schedule, for projections over the union of all buildings.
func (r *ScheduleRepo) GetAll(ctx context.Context) ([]models.ScheduleRecord, []models.RecordIssue, error) {
	docs, issues, err := r.loadAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	out := make([]models.ScheduleRecord, 0, len(docs))
	for _, d := range docs {
		rec, evIssues := d.record()
		issues = append(issues, evIssues...)
		out = append(out, rec)
	}
	return out, issues, nil
}

func (r *ScheduleRepo) Exists(ctx context.Context, key string) (bool, error) {
	return r.store.Exists(ctx, key)
}

// FindBuildingIDOwner scans all records for one bound to buildingID and returns its name.
func (r *ScheduleRepo) FindBuildingIDOwner(ctx context.Context, buildingID string) (string, bool, error) {
	return r.findBuildingIDOwner(ctx, buildingID, "")
}

func (r *ScheduleRepo) findBuildingIDOwner(ctx context.Context, buildingID, exceptKey string) (string, bool, error) {
	docs, _, err := r.loadAll(ctx)
	if err != nil {
		return "", false, err
	}
	for _, d := range docs {
		if d.key == exceptKey {
			continue
		}
		if d.buildingID() == buildingID {
			return d.name(), true, nil
		}
	}
	return "", false, nil
}

// Create writes a new empty schedule bound to buildingID. An existing record with the same name
// is only overwritten when replace is set.
func (r *ScheduleRepo) Create(ctx context.Context, name, buildingID string, replace bool) (models.ScheduleRecord, error) {
	name = strings.TrimSpace(name)
	buildingID = strings.TrimSpace(buildingID)
	if name == "" {
		return models.ScheduleRecord{}, models.Invalid(models.ReasonEmptyName, "schedule name is required")
	}
	if buildingID == "" {
		return models.ScheduleRecord{}, models.Invalid(models.ReasonEmptyBuildingID, "building id is required")
	}
	if err := ValidateKey(name); err != nil {
		return models.ScheduleRecord{}, models.Invalid(models.ReasonEmptyName, "%v", err)
	}

	// a record being replaced may keep its own building id
	owner, found, err := r.findBuildingIDOwner(ctx, buildingID, name)
	if err != nil {
		return models.ScheduleRecord{}, err
	}
	if found {
		return models.ScheduleRecord{}, models.Duplicate(models.ReasonDuplicateBuildingID, owner,
			"building id %q already belongs to schedule %q", buildingID, owner)
	}

	exists, err := r.store.Exists(ctx, name)
	if err != nil {
		return models.ScheduleRecord{}, err
	}
	if exists && !replace {
		return models.ScheduleRecord{}, models.Duplicate(models.ReasonReplaceConfirmationRequired, name,
			"schedule %q already exists", name)
	}

	d := newDocument(name, name, buildingID)
	if err := r.save(ctx, d); err != nil {
		return models.ScheduleRecord{}, err
	}
	rec, _ := d.record()
	return rec, nil
}

func (r *ScheduleRepo) Delete(ctx context.Context, key string) error {
	return r.store.DeleteOne(ctx, key)
}

// CreateZone adds an empty zone to a schedule.
func (r *ScheduleRepo) CreateZone(ctx context.Context, key, zoneID, description string) (models.ZoneRecord, error) {
	zoneID = strings.TrimSpace(zoneID)
	if zoneID == "" {
		return models.ZoneRecord{}, models.Invalid(models.ReasonEmptyName, "zone name is required")
	}
	d, err := r.load(ctx, key)
	if err != nil {
		return models.ZoneRecord{}, err
	}
	if d.zone(zoneID) != nil {
		return models.ZoneRecord{}, models.Duplicate(models.ReasonDuplicateZoneID, zoneID,
			"zone %q already exists in schedule %q", zoneID, key)
	}
	d.addZone(zoneID, strings.TrimSpace(description))
	if err := r.save(ctx, d); err != nil {
		return models.ZoneRecord{}, err
	}
	return models.ZoneRecord{ID: zoneID, Description: strings.TrimSpace(description), Events: []models.EventRecord{}}, nil
}

// InsertEvent appends ev to a zone after the outstation and event id checks.
func (r *ScheduleRepo) InsertEvent(ctx context.Context, key, zoneID string, ev models.EventRecord) error {
	d, err := r.load(ctx, key)
	if err != nil {
		return err
	}
	if err := insertInto(d, zoneID, ev); err != nil {
		return err
	}
	return r.save(ctx, d)
}

// DeleteEvent removes one event from a zone.
func (r *ScheduleRepo) DeleteEvent(ctx context.Context, ref models.EventRef) error {
	d, err := r.load(ctx, ref.Schedule)
	if err != nil {
		return err
	}
	if err := removeFrom(d, ref.Zone, ref.Event); err != nil {
		return err
	}
	return r.save(ctx, d)
}

// ReplaceEvent removes orig and inserts ev into key/zoneID as one step: both changes are staged
// and checked before anything is written. When the event moves between schedules the target is
// written first, then the source.
func (r *ScheduleRepo) ReplaceEvent(ctx context.Context, orig models.EventRef, key, zoneID string, ev models.EventRecord) error {
	src, err := r.load(ctx, orig.Schedule)
	if err != nil {
		return err
	}
	if err := removeFrom(src, orig.Zone, orig.Event); err != nil {
		return err
	}

	if key == orig.Schedule {
		if err := insertInto(src, zoneID, ev); err != nil {
			return err
		}
		return r.save(ctx, src)
	}

	dst, err := r.load(ctx, key)
	if err != nil {
		return err
	}
	if err := insertInto(dst, zoneID, ev); err != nil {
		return err
	}
	if err := r.save(ctx, dst); err != nil {
		return err
	}
	return r.save(ctx, src)
}

func insertInto(d *document, zoneID string, ev models.EventRecord) error {
	z := d.zone(zoneID)
	if z == nil {
		return models.NotFound(models.KindZone, zoneID)
	}
	if owner, found := d.outstationOwner(ev.OutstationID, zoneID); found {
		return models.Duplicate(models.ReasonDuplicateOutstationID, owner,
			"outstation %q is already used in zone %q", ev.OutstationID, owner)
	}
	if z.event(ev.ID) >= 0 {
		return models.Duplicate(models.ReasonDuplicateEventID, ev.ID,
			"event %q already exists in zone %q", ev.ID, zoneID)
	}
	z.Events = append(z.Events, encodeEvent(ev))
	return nil
}

func removeFrom(d *document, zoneID, eventID string) error {
	z := d.zone(zoneID)
	if z == nil {
		return models.NotFound(models.KindZone, zoneID)
	}
	if !z.removeEvent(eventID) {
		return models.NotFound(models.KindEvent, eventID)
	}
	return nil
}

