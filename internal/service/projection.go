package service

import (
	"context"
	"time"

	"building_scheduler/internal/grid"
	"building_scheduler/internal/logger"
	"building_scheduler/internal/metrics"
	"building_scheduler/internal/models"
	"building_scheduler/internal/recurrence"
	"building_scheduler/internal/repository"
)

// ProjectionService re-reads storage on every call and projects the result.
type ProjectionService struct {
	repo repository.Schedules
	log  *logger.Logger
}

func NewProjectionService(repo repository.Schedules, log *logger.Logger) *ProjectionService {
	return &ProjectionService{repo: repo, log: logger.OrNop(log)}
}

// ProjectWeek projects one schedule.
func (s *ProjectionService) ProjectWeek(ctx context.Context, schedule string, weekStart time.Time) (g models.WeekGrid, err error) {
	started := time.Now()
	defer func() { metrics.ObserveProjection(err, time.Since(started)) }()

	if err := checkWeekStart(weekStart); err != nil {
		return models.WeekGrid{}, err
	}
	rec, issues, err := s.repo.Get(ctx, schedule)
	if err != nil {
		return models.WeekGrid{}, err
	}
	return s.project(weekStart, issues, rec)
}

// ProjectAll projects the union of every readable schedule.
func (s *ProjectionService) ProjectAll(ctx context.Context, weekStart time.Time) (g models.WeekGrid, err error) {
	started := time.Now()
	defer func() { metrics.ObserveProjection(err, time.Since(started)) }()

	if err := checkWeekStart(weekStart); err != nil {
		return models.WeekGrid{}, err
	}
	recs, issues, err := s.repo.GetAll(ctx)
	if err != nil {
		return models.WeekGrid{}, err
	}
	return s.project(weekStart, issues, recs...)
}

func (s *ProjectionService) project(weekStart time.Time, readIssues []models.RecordIssue, recs ...models.ScheduleRecord) (models.WeekGrid, error) {
	g, issues, err := grid.Project(weekStart, recs...)
	if err != nil {
		return models.WeekGrid{}, err
	}
	reportIssues(s.log, "projection", append(readIssues, issues...))
	s.log.Debugw("week_projected", "week_start", weekStart.Format("2006-01-02"), "schedules", len(recs), "entries", g.Count())
	return g, nil
}

func checkWeekStart(t time.Time) error {
	if !recurrence.IsWeekStart(t) {
		return models.Invalid(models.ReasonInvalidWeekStart, "%s is not a Monday at 00:00", t.Format("2006-01-02 15:04"))
	}
	return nil
}
