package service

import (
	"context"
	"time"

	"building_scheduler/internal/export"
	"building_scheduler/internal/logger"
	"building_scheduler/internal/models"
	"building_scheduler/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Schedules manages schedule records and their zones.
type Schedules interface {
	ListSchedules(ctx context.Context) ([]models.ScheduleSummary, error)
	GetSchedule(ctx context.Context, name string) (models.ScheduleRecord, error)
	CreateSchedule(ctx context.Context, in CreateScheduleInput) (models.ScheduleRecord, error)
	DeleteSchedule(ctx context.Context, name string) error
	CreateZone(ctx context.Context, schedule, zoneID, description string) (models.ZoneRecord, error)
	ListZones(ctx context.Context, schedule string) ([]models.ZoneRecord, error)
}

// Events validates and commits event mutations. Each returns the week the caller should re-project.
type Events interface {
	CreateEvent(ctx context.Context, in EventInput) (models.ChangeResult, error)
	EditEvent(ctx context.Context, orig models.EventRef, in EventInput) (models.ChangeResult, error)
	DeleteEvent(ctx context.Context, ref models.EventRef) (models.ChangeResult, error)
	GetEvent(ctx context.Context, ref models.EventRef) (EventDetails, error)
}

// Projection resolves schedules into week grids. weekStart must be a Monday at 00:00.
type Projection interface {
	ProjectWeek(ctx context.Context, schedule string, weekStart time.Time) (models.WeekGrid, error)
	ProjectAll(ctx context.Context, weekStart time.Time) (models.WeekGrid, error)
}

// Export renders projected weeks and schedules as files.
type Export interface {
	ExportWeek(ctx context.Context, schedule string, weekStart time.Time, format string) (export.File, error)
	ExportSchedule(ctx context.Context, schedule string) (export.File, error)
}

// Journal exposes the append-only change journal with filtering access.
type Journal interface {
	ListChanges(ctx context.Context, f models.ChangeFilter) ([]models.ChangeEntry, error)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Schedules
	Events
	Projection
	Export
	Journal
	Authorization
}

// Options carries the settings services take from configuration.
type Options struct {
	// AtomicEdit stages edits and writes once. When false the original event is deleted first.
	AtomicEdit bool
	SigningKey string
	TokenTTL   time.Duration
	Log        *logger.Logger
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, opts Options) *Service {
	log := logger.OrNop(opts.Log)
	changes := newChangeRecorder(repos.Journal, log)
	projection := NewProjectionService(repos.Schedules, log)
	return &Service{
		Schedules:     NewScheduleService(repos.Schedules, changes, log),
		Events:        NewEventService(repos.Schedules, changes, opts.AtomicEdit, log),
		Projection:    projection,
		Export:        NewExportService(repos.Schedules, projection, log),
		Journal:       NewJournalService(repos.Journal),
		Authorization: NewAuthService(repos.Operators, opts.SigningKey, opts.TokenTTL),
	}
}
