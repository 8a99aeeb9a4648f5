package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"building_scheduler/internal/models"
)

// ErrUsernameTaken is returned by Create when the username is already registered.
var ErrUsernameTaken = errors.New("username already registered")

type OperatorRepository struct {
	db *sql.DB
}

func NewOperatorRepository(db *sql.DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

// Ensure implementation of Operators interface at compile time.
var _ Operators = (*OperatorRepository)(nil)

const (
	insertOperatorSQL           = `INSERT INTO operators (username, password_hash) VALUES (?, ?)`
	selectOperatorByUsernameSQL = `SELECT id, username, password_hash FROM operators WHERE username = ?`
)

// Create inserts a new operator and returns its ID.
func (r *OperatorRepository) Create(ctx context.Context, username, passwordHash string) (int, error) {
	res, err := r.db.ExecContext(ctx, insertOperatorSQL, username, passwordHash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, fmt.Errorf("insert operator %q: %w", username, ErrUsernameTaken)
		}
		return 0, fmt.Errorf("insert operator %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for operator %q: %w", username, err)
	}
	return int(lastID), nil
}

// GetByUsername fetches an operator by username. Returns (nil, nil) if not found.
func (r *OperatorRepository) GetByUsername(ctx context.Context, username string) (*models.Operator, error) {
	var op models.Operator
	err := r.db.QueryRowContext(ctx, selectOperatorByUsernameSQL, username).Scan(&op.ID, &op.Username, &op.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select operator %q: %w", username, err)
	}
	return &op, nil
}
