package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"building_scheduler/internal/models"
)

// SQLiteStore keeps schedule records as XML blobs in the schedule_records table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore { return &SQLiteStore{db: db} }

// Ensure implementation of Store interface at compile time.
var _ Store = (*SQLiteStore)(nil)

const (
	selectAllRecordsSQL = `SELECT key, body FROM schedule_records ORDER BY key ASC`
	selectRecordSQL     = `SELECT body FROM schedule_records WHERE key = ?`
	upsertRecordSQL     = `INSERT INTO schedule_records (key, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`
	deleteRecordSQL = `DELETE FROM schedule_records WHERE key = ?`
	existsRecordSQL = `SELECT COUNT(1) FROM schedule_records WHERE key = ?`
)

func (s *SQLiteStore) ReadAll(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, selectAllRecordsSQL)
	if err != nil {
		return nil, &models.IOError{Op: "list", Key: "schedule_records", Err: err}
	}
	defer rows.Close()

	out := make([]Record, 0, 16)
	for rows.Next() {
		var (
			key  string
			body []byte
		)
		if err := rows.Scan(&key, &body); err != nil {
			return nil, &models.IOError{Op: "list", Key: "schedule_records", Err: err}
		}
		out = append(out, Record{Key: key, Data: body})
	}
	if err := rows.Err(); err != nil {
		return nil, &models.IOError{Op: "list", Key: "schedule_records", Err: err}
	}
	return out, nil
}

func (s *SQLiteStore) ReadOne(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, selectRecordSQL, key).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFound(models.KindSchedule, key)
		}
		return nil, &models.IOError{Op: "read", Key: key, Err: err}
	}
	return body, nil
}

func (s *SQLiteStore) WriteOne(ctx context.Context, key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return &models.IOError{Op: "write", Key: key, Err: err}
	}
	_, err := s.db.ExecContext(ctx, upsertRecordSQL, key, data, time.Now().UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return &models.IOError{Op: "write", Key: key, Err: err}
	}
	return nil
}

func (s *SQLiteStore) DeleteOne(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, deleteRecordSQL, key)
	if err != nil {
		return &models.IOError{Op: "delete", Key: key, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &models.IOError{Op: "delete", Key: key, Err: err}
	}
	if n == 0 {
		return models.NotFound(models.KindSchedule, key)
	}
	return nil
}

func (s *SQLiteStore) Exists(ctx context.Context, key string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, existsRecordSQL, key).Scan(&n); err != nil {
		return false, &models.IOError{Op: "stat", Key: key, Err: err}
	}
	return n > 0, nil
}
