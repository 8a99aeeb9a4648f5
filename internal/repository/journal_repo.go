package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"building_scheduler/internal/models"

	"github.com/google/uuid"
)

// JournalSQLite is the append-only change log of committed schedule mutations.
type JournalSQLite struct {
	db *sql.DB
}

func NewJournalSQLite(db *sql.DB) *JournalSQLite { return &JournalSQLite{db: db} }

// Ensure implementation of Journal interface at compile time.
var _ Journal = (*JournalSQLite)(nil)

const (
	insertChangeSQL = `INSERT INTO change_log (id, occurred_at, type, schedule, message, meta) VALUES (?, ?, ?, ?, ?, ?)`
	selectChangeSQL = `SELECT id, occurred_at, type, schedule, message, meta FROM change_log`
)

// Append inserts a new entry. Empty ID and zero OccurredAt are filled in.
func (r *JournalSQLite) Append(ctx context.Context, e models.ChangeEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}

	var metaPtr *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, insertChangeSQL,
		e.ID,
		e.OccurredAt.Format("2006-01-02 15:04:05"),
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.Schedule,
		e.Description,
		metaPtr,
	)
	if err != nil {
		return fmt.Errorf("append change %s: %w", e.ID, err)
	}
	return nil
}

// List returns entries filtered by [from, to] (inclusive), type and schedule, oldest first.
func (r *JournalSQLite) List(ctx context.Context, f models.ChangeFilter) ([]models.ChangeEntry, error) {
	var (
		conds []string
		args  []any
	)

	if !f.From.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, f.From.UTC().Format("2006-01-02 15:04:05"))
	}
	if !f.To.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, f.To.UTC().Format("2006-01-02 15:04:05"))
	}
	if typ := strings.ToUpper(strings.TrimSpace(f.Type)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}
	if s := strings.TrimSpace(f.Schedule); s != "" {
		conds = append(conds, "schedule = ?")
		args = append(args, s)
	}

	q := selectChangeSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list changes: %w", err)
	}
	defer rows.Close()

	out := make([]models.ChangeEntry, 0, 64)
	for rows.Next() {
		var (
			e       models.ChangeEntry
			metaStr sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.OccurredAt, &e.Type, &e.Schedule, &e.Description, &metaStr); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		e.OccurredAt = e.OccurredAt.UTC()

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				e.Metadata = v
			} else {
				e.Metadata = metaStr.String
			}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate changes: %w", err)
	}
	return out, nil
}
