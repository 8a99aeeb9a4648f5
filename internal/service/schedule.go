package service

import (
	"context"
	"fmt"
	"strings"

	"building_scheduler/internal/logger"
	"building_scheduler/internal/models"
	"building_scheduler/internal/repository"
)

// CreateScheduleInput describes a new schedule. Replace must be set to overwrite an existing record.
type CreateScheduleInput struct {
	Name       string
	BuildingID string
	Replace    bool
}

type ScheduleService struct {
	repo    repository.Schedules
	changes *changeRecorder
	log     *logger.Logger
}

func NewScheduleService(repo repository.Schedules, changes *changeRecorder, log *logger.Logger) *ScheduleService {
	return &ScheduleService{repo: repo, changes: changes, log: logger.OrNop(log)}
}

// ListSchedules returns the selector entries. Unreadable records are logged and skipped.
func (s *ScheduleService) ListSchedules(ctx context.Context) ([]models.ScheduleSummary, error) {
	list, issues, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	reportIssues(s.log, "list", issues)
	return list, nil
}

func (s *ScheduleService) GetSchedule(ctx context.Context, name string) (models.ScheduleRecord, error) {
	if strings.TrimSpace(name) == "" {
		return models.ScheduleRecord{}, models.NotFound(models.KindSchedule, name)
	}
	rec, issues, err := s.repo.Get(ctx, name)
	if err != nil {
		return models.ScheduleRecord{}, err
	}
	reportIssues(s.log, "get", issues)
	return rec, nil
}

func (s *ScheduleService) CreateSchedule(ctx context.Context, in CreateScheduleInput) (models.ScheduleRecord, error) {
	name := strings.TrimSpace(in.Name)
	typ := models.ChangeScheduleCreated
	if name != "" && in.Replace {
		if exists, err := s.repo.Exists(ctx, name); err == nil && exists {
			typ = models.ChangeScheduleReplaced
		}
	}

	rec, err := s.repo.Create(ctx, in.Name, in.BuildingID, in.Replace)
	s.changes.record(ctx, typ, rec.Name,
		fmt.Sprintf("schedule %q bound to building %q", rec.Name, rec.BuildingID),
		map[string]string{"building_id": rec.BuildingID}, err)
	if err != nil {
		s.log.Infow("schedule_create_rejected", "name", in.Name, "building_id", in.BuildingID, "err", err)
		return models.ScheduleRecord{}, err
	}
	s.log.Infow("schedule_created", "name", rec.Name, "building_id", rec.BuildingID, "replaced", typ == models.ChangeScheduleReplaced)
	return rec, nil
}

func (s *ScheduleService) DeleteSchedule(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return models.NotFound(models.KindSchedule, name)
	}
	err := s.repo.Delete(ctx, name)
	s.changes.record(ctx, models.ChangeScheduleDeleted, name, fmt.Sprintf("schedule %q deleted", name), nil, err)
	if err != nil {
		return err
	}
	s.log.Infow("schedule_deleted", "name", name)
	return nil
}

func (s *ScheduleService) CreateZone(ctx context.Context, schedule, zoneID, description string) (models.ZoneRecord, error) {
	if strings.TrimSpace(schedule) == "" {
		return models.ZoneRecord{}, models.NotFound(models.KindSchedule, schedule)
	}
	zone, err := s.repo.CreateZone(ctx, schedule, zoneID, description)
	s.changes.record(ctx, models.ChangeZoneCreated, schedule, fmt.Sprintf("zone %q created", zone.ID),
		map[string]string{"zone": zone.ID}, err)
	if err != nil {
		return models.ZoneRecord{}, err
	}
	s.log.Infow("zone_created", "schedule", schedule, "zone", zone.ID)
	return zone, nil
}

func (s *ScheduleService) ListZones(ctx context.Context, schedule string) ([]models.ZoneRecord, error) {
	rec, err := s.GetSchedule(ctx, schedule)
	if err != nil {
		return nil, err
	}
	return rec.Zones, nil
}
