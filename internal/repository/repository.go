package repository

import (
	"context"
	"database/sql"

	"building_scheduler/internal/models"
)

type Operators interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.Operator, error)
}

type Schedules interface {
	List(ctx context.Context) ([]models.ScheduleSummary, []models.RecordIssue, error)
	Get(ctx context.Context, key string) (models.ScheduleRecord, []models.RecordIssue, error)
	GetAll(ctx context.Context) ([]models.ScheduleRecord, []models.RecordIssue, error)
	Exists(ctx context.Context, key string) (bool, error)
	FindBuildingIDOwner(ctx context.Context, buildingID string) (string, bool, error)
	Create(ctx context.Context, name, buildingID string, replace bool) (models.ScheduleRecord, error)
	Delete(ctx context.Context, key string) error
	CreateZone(ctx context.Context, key, zoneID, description string) (models.ZoneRecord, error)
	InsertEvent(ctx context.Context, key, zoneID string, ev models.EventRecord) error
	DeleteEvent(ctx context.Context, ref models.EventRef) error
	ReplaceEvent(ctx context.Context, orig models.EventRef, key, zoneID string, ev models.EventRecord) error
}

type Journal interface {
	Append(ctx context.Context, e models.ChangeEntry) error
	List(ctx context.Context, f models.ChangeFilter) ([]models.ChangeEntry, error)
}

type Repository struct {
	Schedules Schedules
	Journal   Journal
	Operators Operators
}

// NewRepository wires the schedule repository over store and the SQL-backed journal and operators over db.
func NewRepository(db *sql.DB, store Store) *Repository {
	return &Repository{
		Schedules: NewScheduleRepo(store),
		Journal:   NewJournalSQLite(db),
		Operators: NewOperatorRepository(db),
	}
}
