package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"eventsphere/internal/model"
)

const userColumns = `id, email, password_hash, full_name, department, phone, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, u *model.User) error {
	return row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Department, &u.Phone,
		&u.CreatedAt, &u.UpdatedAt,
	)
}

func (r *repository) CreateUser(ctx context.Context, u *model.User) (string, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	query := `
		INSERT INTO users (id, email, password_hash, full_name, department, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	row := r.db.QueryRowContext(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.Department, u.Phone,
	)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return "", ErrDuplicateEmail
		}
		return "", fmt.Errorf("failed to insert user: %w", err)
	}
	return u.ID, nil
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var u model.User
	if err := scanUser(r.db.QueryRowContext(ctx, query, email), &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *repository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u model.User
	if err := scanUser(r.db.QueryRowContext(ctx, query, id), &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// UpsertProfile writes the mutable profile fields, creating the row when the
// account exists only with the identity provider side of the data.
func (r *repository) UpsertProfile(ctx context.Context, u *model.User) (*model.User, error) {
	query := `
		INSERT INTO users (id, email, password_hash, full_name, department, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET full_name = EXCLUDED.full_name,
		    department = EXCLUDED.department,
		    phone = EXCLUDED.phone,
		    updated_at = NOW()
		RETURNING ` + userColumns

	var out model.User
	row := r.db.QueryRowContext(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.Department, u.Phone,
	)
	if err := scanUser(row, &out); err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return &out, nil
}
