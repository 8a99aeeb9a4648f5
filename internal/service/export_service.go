package service

import (
	"context"
	"time"

	"building_scheduler/internal/export"
	"building_scheduler/internal/logger"
	"building_scheduler/internal/metrics"
	"building_scheduler/internal/repository"
)

type ExportService struct {
	repo       repository.Schedules
	projection Projection
	log        *logger.Logger
}

func NewExportService(repo repository.Schedules, projection Projection, log *logger.Logger) *ExportService {
	return &ExportService{repo: repo, projection: projection, log: logger.OrNop(log)}
}

// ExportWeek projects the schedule's week and renders it as ics, xlsx or pdf.
func (s *ExportService) ExportWeek(ctx context.Context, schedule string, weekStart time.Time, format string) (f export.File, err error) {
	started := time.Now()
	defer func() { metrics.ObserveExport(format, err, time.Since(started)) }()

	fmtKind, err := export.ParseFormat(format)
	if err != nil {
		return export.File{}, err
	}
	g, err := s.projection.ProjectWeek(ctx, schedule, weekStart)
	if err != nil {
		return export.File{}, err
	}
	f, err = export.Week(fmtKind, schedule, g)
	if err != nil {
		s.log.Errorw("week_export_failed", "schedule", schedule, "format", format, "err", err)
		return export.File{}, err
	}
	s.log.Infow("week_exported", "schedule", schedule, "format", format, "bytes", len(f.Body))
	return f, nil
}

// ExportSchedule renders the whole schedule tree as YAML.
func (s *ExportService) ExportSchedule(ctx context.Context, schedule string) (f export.File, err error) {
	started := time.Now()
	defer func() { metrics.ObserveExport(string(export.FormatYAML), err, time.Since(started)) }()

	rec, issues, err := s.repo.Get(ctx, schedule)
	if err != nil {
		return export.File{}, err
	}
	reportIssues(s.log, "export", issues)
	return export.Schedule(rec)
}
