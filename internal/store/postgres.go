// Package store provides storage backends for Habit Pulse.
//
// This file implements the PostgreSQL-backed store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/google/uuid"
	"github.com/habitpulse/habitpulse/internal/calendar"
	"github.com/habitpulse/habitpulse/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants.
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database.
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool.
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused.
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewPostgresStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run Postgres migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) GetUserByTelegramID(telegramID int64) (*models.User, error) {
	row := s.db.QueryRow(`SELECT id, telegram_id, first_name, last_name, username, language_code, reminder_hour, created_at, updated_at FROM users WHERE telegram_id = $1`, telegramID)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		slog.Debug("PostgresStore GetUserByTelegramID not found", "telegramID", telegramID)
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetUserByTelegramID failed", "error", err, "telegramID", telegramID)
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) CreateUser(u models.User) error {
	_, err := s.db.Exec(`INSERT INTO users (id, telegram_id, first_name, last_name, username, language_code, reminder_hour, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID.String(), u.TelegramID, u.FirstName, nilIfEmpty(u.LastName), nilIfEmpty(u.Username), nilIfEmpty(u.LanguageCode), u.ReminderHour, u.CreatedAt.Unix(), u.UpdatedAt.Unix())
	if err != nil {
		slog.Error("PostgresStore CreateUser failed", "error", err, "telegramID", u.TelegramID)
		return fmt.Errorf("failed to insert user: %w", err)
	}
	slog.Debug("PostgresStore CreateUser succeeded", "telegramID", u.TelegramID)
	return nil
}

func (s *PostgresStore) ListUsers() ([]models.User, error) {
	rows, err := s.db.Query(`SELECT id, telegram_id, first_name, last_name, username, language_code, reminder_hour, created_at, updated_at FROM users`)
	if err != nil {
		slog.Error("PostgresStore ListUsers query failed", "error", err)
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			slog.Error("PostgresStore ListUsers scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	slog.Debug("PostgresStore ListUsers succeeded", "count", len(users))
	return users, nil
}

func (s *PostgresStore) GetHabit(id uuid.UUID) (*models.Habit, error) {
	row := s.db.QueryRow(`SELECT id, user_id, name, enabled, target_per_month, target_per_year, created_at, updated_at FROM habits WHERE id = $1`, id.String())
	h, err := scanHabit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetHabit failed", "error", err, "habitID", id)
		return nil, fmt.Errorf("failed to query habit: %w", err)
	}
	return &h, nil
}

func (s *PostgresStore) GetHabitByName(userID uuid.UUID, name string) (*models.Habit, error) {
	row := s.db.QueryRow(`SELECT id, user_id, name, enabled, target_per_month, target_per_year, created_at, updated_at FROM habits WHERE user_id = $1 AND LOWER(name) = LOWER($2)`, userID.String(), name)
	h, err := scanHabit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetHabitByName failed", "error", err, "userID", userID, "name", name)
		return nil, fmt.Errorf("failed to query habit by name: %w", err)
	}
	return &h, nil
}

func (s *PostgresStore) ListHabits(userID uuid.UUID) ([]models.Habit, error) {
	rows, err := s.db.Query(`SELECT id, user_id, name, enabled, target_per_month, target_per_year, created_at, updated_at FROM habits WHERE user_id = $1 ORDER BY created_at`, userID.String())
	if err != nil {
		slog.Error("PostgresStore ListHabits query failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	return collectHabits(rows)
}

func (s *PostgresStore) ListEnabledHabits(userID uuid.UUID) ([]models.Habit, error) {
	rows, err := s.db.Query(`SELECT id, user_id, name, enabled, target_per_month, target_per_year, created_at, updated_at FROM habits WHERE user_id = $1 AND enabled ORDER BY created_at`, userID.String())
	if err != nil {
		slog.Error("PostgresStore ListEnabledHabits query failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to query enabled habits: %w", err)
	}
	return collectHabits(rows)
}

func (s *PostgresStore) CreateHabit(h models.Habit) error {
	if err := h.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(`INSERT INTO habits (id, user_id, name, enabled, target_per_month, target_per_year, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		h.ID.String(), h.UserID.String(), h.Name, h.Enabled, nilIfZero(h.TargetPerMonth), nilIfZero(h.TargetPerYear), h.CreatedAt.Unix(), h.UpdatedAt.Unix())
	if err != nil {
		slog.Error("PostgresStore CreateHabit failed", "error", err, "userID", h.UserID, "name", h.Name)
		return fmt.Errorf("failed to insert habit: %w", err)
	}
	slog.Debug("PostgresStore CreateHabit succeeded", "habitID", h.ID, "name", h.Name)
	return nil
}

func (s *PostgresStore) UpdateHabit(h models.Habit) error {
	res, err := s.db.Exec(`UPDATE habits SET name = $1, enabled = $2, target_per_month = $3, target_per_year = $4, updated_at = $5 WHERE id = $6`,
		h.Name, h.Enabled, nilIfZero(h.TargetPerMonth), nilIfZero(h.TargetPerYear), h.UpdatedAt.Unix(), h.ID.String())
	if err != nil {
		slog.Error("PostgresStore UpdateHabit failed", "error", err, "habitID", h.ID)
		return fmt.Errorf("failed to update habit: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrHabitNotFound
	}
	slog.Debug("PostgresStore UpdateHabit succeeded", "habitID", h.ID)
	return nil
}

func (s *PostgresStore) DeleteHabit(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM completions WHERE habit_id = $1`, id.String()); err != nil {
		slog.Error("PostgresStore DeleteHabit completions failed", "error", err, "habitID", id)
		return fmt.Errorf("failed to delete habit completions: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM habits WHERE id = $1`, id.String()); err != nil {
		slog.Error("PostgresStore DeleteHabit failed", "error", err, "habitID", id)
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	slog.Debug("PostgresStore DeleteHabit succeeded", "habitID", id)
	return nil
}

func (s *PostgresStore) AddCompletion(c models.CompletionRecord) error {
	_, err := s.db.Exec(`INSERT INTO completions (id, habit_id, user_id, timestamp, created_at) VALUES ($1, $2, $3, $4, $5)`,
		c.ID.String(), c.HabitID.String(), c.UserID.String(), c.Timestamp.Unix(), c.CreatedAt.Unix())
	if err != nil {
		slog.Error("PostgresStore AddCompletion failed", "error", err, "habitID", c.HabitID)
		return fmt.Errorf("failed to insert completion: %w", err)
	}
	slog.Debug("PostgresStore AddCompletion succeeded", "habitID", c.HabitID, "timestamp", c.Timestamp)
	return nil
}

func (s *PostgresStore) HasCompletionOnDay(habitID uuid.UUID, day time.Time) (bool, error) {
	start := calendar.DayStart(day)
	end := start.AddDate(0, 0, 1)
	var count int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM completions WHERE habit_id = $1 AND timestamp >= $2 AND timestamp < $3`,
		habitID.String(), start.Unix(), end.Unix()).Scan(&count)
	if err != nil {
		slog.Error("PostgresStore HasCompletionOnDay failed", "error", err, "habitID", habitID)
		return false, fmt.Errorf("failed to query completion existence: %w", err)
	}
	return count > 0, nil
}

func (s *PostgresStore) ListCompletions(habitID uuid.UUID) ([]models.CompletionRecord, error) {
	rows, err := s.db.Query(`SELECT id, habit_id, user_id, timestamp, created_at FROM completions WHERE habit_id = $1 ORDER BY timestamp DESC`, habitID.String())
	if err != nil {
		slog.Error("PostgresStore ListCompletions query failed", "error", err, "habitID", habitID)
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer rows.Close()

	var completions []models.CompletionRecord
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			slog.Error("PostgresStore ListCompletions scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan completion row: %w", err)
		}
		completions = append(completions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate completion rows: %w", err)
	}
	slog.Debug("PostgresStore ListCompletions succeeded", "habitID", habitID, "count", len(completions))
	return completions, nil
}

// Close closes the Postgres database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	return s.db.Close()
}
