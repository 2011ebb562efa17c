package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"eventsphere/internal/model"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrEventFull          = errors.New("event is at full capacity")
	ErrRegistrationClosed = errors.New("registration deadline has passed")
	ErrNoFields           = errors.New("no fields to update")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

type Repository interface {
	CreateEvent(ctx context.Context, e *model.Event) (string, error)
	GetEventByID(ctx context.Context, id string) (*model.Event, error)
	GetAllEvents(ctx context.Context) ([]model.Event, error)
	UpdateEvent(ctx context.Context, id string, fields map[string]any) (*model.Event, error)
	DeleteEvent(ctx context.Context, id string) error

	RegisterAttendeeTx(ctx context.Context, reg *model.Registration) (string, error)
	CountRegistrations(ctx context.Context, eventID string) (int, error)
	ListRegistrationsWithEvents(ctx context.Context) ([]model.RegistrationWithEvent, error)
	DeleteRegistration(ctx context.Context, id string, userID string) error

	CreateUser(ctx context.Context, u *model.User) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpsertProfile(ctx context.Context, u *model.User) (*model.User, error)

	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) MigrateUp(migrationsDir string) error {
	return r.applyMigrations(migrationsDir, "*.up.sql")
}

func (r *repository) MigrateDown(migrationsDir string) error {
	return r.applyMigrations(migrationsDir, "*.down.sql")
}

func (r *repository) applyMigrations(migrationsDir, pattern string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, pattern))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("migrations (%s) applied from %s", pattern, migrationsDir)
	return nil
}

func (r *repository) CreateEvent(ctx context.Context, e *model.Event) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = model.EventStatusUpcoming
	}

	query := `
		INSERT INTO events (id, title, description, date, registration_end_date,
		                    location, capacity, category, organizer, image_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	row := r.db.QueryRowContext(ctx, query,
		e.ID, e.Title, e.Description, e.Date, e.RegistrationEndDate,
		e.Location, e.Capacity, e.Category, e.Organizer, e.ImageURL, e.Status,
	)
	if err := row.Scan(&e.CreatedAt, &e.UpdatedAt); err != nil {
		return "", fmt.Errorf("failed to insert event: %w", err)
	}
	return e.ID, nil
}

const eventColumns = `id, title, description, date, registration_end_date,
		       location, capacity, category, organizer, image_url, status,
		       created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }, e *model.Event) error {
	return row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.RegistrationEndDate,
		&e.Location, &e.Capacity, &e.Category, &e.Organizer, &e.ImageURL, &e.Status,
		&e.CreatedAt, &e.UpdatedAt,
	)
}

func (r *repository) GetEventByID(ctx context.Context, id string) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var e model.Event
	if err := scanEvent(row, &e); err != nil {
		return nil, ErrEventNotFound
	}
	return &e, nil
}

func (r *repository) GetAllEvents(ctx context.Context) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY date ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// eventPatchColumns is the whitelist of columns a partial update may touch.
var eventPatchColumns = map[string]bool{
	"title":                 true,
	"description":           true,
	"date":                  true,
	"registration_end_date": true,
	"location":              true,
	"capacity":              true,
	"category":              true,
	"organizer":             true,
	"image_url":             true,
	"status":                true,
}

// buildEventUpdate turns a column->value patch into a SET clause and its
// ordered arguments. Unknown columns are ignored; the id placeholder comes
// after the last SET argument.
func buildEventUpdate(fields map[string]any) (string, []any, error) {
	cols := make([]string, 0, len(fields))
	for col := range fields {
		if eventPatchColumns[col] {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return "", nil, ErrNoFields
	}
	sort.Strings(cols)

	set := ""
	args := make([]any, 0, len(cols))
	for i, col := range cols {
		if i > 0 {
			set += ", "
		}
		set += fmt.Sprintf("%s = $%d", col, i+1)
		args = append(args, fields[col])
	}
	set += ", updated_at = NOW()"
	return set, args, nil
}

func (r *repository) UpdateEvent(ctx context.Context, id string, fields map[string]any) (*model.Event, error) {
	set, args, err := buildEventUpdate(fields)
	if err != nil {
		return nil, err
	}
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
		RETURNING `+eventColumns, set, len(args))

	var e model.Event
	if err := scanEvent(r.db.QueryRowContext(ctx, query, args...), &e); err != nil {
		return nil, ErrEventNotFound
	}
	return &e, nil
}

func (r *repository) DeleteEvent(ctx context.Context, id string) error {
	// registrations go with the event via ON DELETE CASCADE
	if _, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// RegisterAttendeeTx commits one registration while holding a row lock on
// the event, so the capacity check and the insert are a single atomic step.
// Returns the event title for notification purposes.
func (r *repository) RegisterAttendeeTx(ctx context.Context, reg *model.Registration) (string, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var (
		title    string
		capacity int
		regEnd   *time.Time
	)
	err = tx.QueryRowContext(ctx, `
		SELECT title, capacity, registration_end_date
		FROM events
		WHERE id = $1
		FOR UPDATE
	`, reg.EventID).Scan(&title, &capacity, &regEnd)
	if err != nil {
		_ = tx.Rollback()
		return "", ErrEventNotFound
	}

	if regEnd != nil && regEnd.Before(time.Now()) {
		_ = tx.Rollback()
		return "", ErrRegistrationClosed
	}

	var count int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM registrations WHERE event_id = $1
	`, reg.EventID).Scan(&count)
	if err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("failed to count registrations: %w", err)
	}

	if count >= capacity {
		_ = tx.Rollback()
		return "", ErrEventFull
	}

	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	reg.Status = model.RegistrationStatusRegistered
	err = tx.QueryRowContext(ctx, `
		INSERT INTO registrations (id, event_id, student_name, student_email, student_id, user_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, reg.ID, reg.EventID, reg.StudentName, reg.StudentEmail, reg.StudentID, reg.UserID, reg.Status).Scan(&reg.CreatedAt)
	if err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("failed to create registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return title, nil
}

func (r *repository) CountRegistrations(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM registrations WHERE event_id = $1
	`, eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}

func (r *repository) ListRegistrationsWithEvents(ctx context.Context) ([]model.RegistrationWithEvent, error) {
	query := `
		SELECT r.id, r.event_id, r.student_name, r.student_email, r.student_id,
		       r.user_id, r.status, r.created_at, e.title, e.date
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		ORDER BY r.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.RegistrationWithEvent
	for rows.Next() {
		var reg model.RegistrationWithEvent
		if err := rows.Scan(
			&reg.ID, &reg.EventID, &reg.StudentName, &reg.StudentEmail, &reg.StudentID,
			&reg.UserID, &reg.Status, &reg.CreatedAt, &reg.EventTitle, &reg.EventDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// DeleteRegistration removes a registration scoped to its owner. Deleting a
// row that is already gone is not an error.
func (r *repository) DeleteRegistration(ctx context.Context, id string, userID string) error {
	query := `DELETE FROM registrations WHERE id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, userID); err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	return nil
}
