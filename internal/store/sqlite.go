// Package store provides storage backends for Habit Pulse.
//
// This file implements the SQLite-backed store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	"github.com/google/uuid"
	"github.com/habitpulse/habitpulse/internal/calendar"
	"github.com/habitpulse/habitpulse/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given options.
// The DSN is a file path; its directory is created if missing.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn+"?_foreign_keys=on")
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run SQLite migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) GetUserByTelegramID(telegramID int64) (*models.User, error) {
	row := s.db.QueryRow(`SELECT id, telegram_id, first_name, last_name, username, language_code, reminder_hour, created_at, updated_at FROM users WHERE telegram_id = ?`, telegramID)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		slog.Debug("SQLiteStore GetUserByTelegramID not found", "telegramID", telegramID)
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetUserByTelegramID failed", "error", err, "telegramID", telegramID)
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

func (s *SQLiteStore) CreateUser(u models.User) error {
	_, err := s.db.Exec(`INSERT INTO users (id, telegram_id, first_name, last_name, username, language_code, reminder_hour, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID.String(), u.TelegramID, u.FirstName, nilIfEmpty(u.LastName), nilIfEmpty(u.Username), nilIfEmpty(u.LanguageCode), u.ReminderHour, u.CreatedAt.Unix(), u.UpdatedAt.Unix())
	if err != nil {
		slog.Error("SQLiteStore CreateUser failed", "error", err, "telegramID", u.TelegramID)
		return fmt.Errorf("failed to insert user: %w", err)
	}
	slog.Debug("SQLiteStore CreateUser succeeded", "telegramID", u.TelegramID)
	return nil
}

func (s *SQLiteStore) ListUsers() ([]models.User, error) {
	rows, err := s.db.Query(`SELECT id, telegram_id, first_name, last_name, username, language_code, reminder_hour, created_at, updated_at FROM users`)
	if err != nil {
		slog.Error("SQLiteStore ListUsers query failed", "error", err)
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			slog.Error("SQLiteStore ListUsers scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	slog.Debug("SQLiteStore ListUsers succeeded", "count", len(users))
	return users, nil
}

func (s *SQLiteStore) GetHabit(id uuid.UUID) (*models.Habit, error) {
	row := s.db.QueryRow(`SELECT id, user_id, name, enabled, target_per_month, target_per_year, created_at, updated_at FROM habits WHERE id = ?`, id.String())
	h, err := scanHabit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetHabit failed", "error", err, "habitID", id)
		return nil, fmt.Errorf("failed to query habit: %w", err)
	}
	return &h, nil
}

func (s *SQLiteStore) GetHabitByName(userID uuid.UUID, name string) (*models.Habit, error) {
	row := s.db.QueryRow(`SELECT id, user_id, name, enabled, target_per_month, target_per_year, created_at, updated_at FROM habits WHERE user_id = ? AND LOWER(name) = LOWER(?)`, userID.String(), name)
	h, err := scanHabit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetHabitByName failed", "error", err, "userID", userID, "name", name)
		return nil, fmt.Errorf("failed to query habit by name: %w", err)
	}
	return &h, nil
}

func (s *SQLiteStore) ListHabits(userID uuid.UUID) ([]models.Habit, error) {
	rows, err := s.db.Query(`SELECT id, user_id, name, enabled, target_per_month, target_per_year, created_at, updated_at FROM habits WHERE user_id = ? ORDER BY created_at`, userID.String())
	if err != nil {
		slog.Error("SQLiteStore ListHabits query failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	return collectHabits(rows)
}

func (s *SQLiteStore) ListEnabledHabits(userID uuid.UUID) ([]models.Habit, error) {
	rows, err := s.db.Query(`SELECT id, user_id, name, enabled, target_per_month, target_per_year, created_at, updated_at FROM habits WHERE user_id = ? AND enabled = 1 ORDER BY created_at`, userID.String())
	if err != nil {
		slog.Error("SQLiteStore ListEnabledHabits query failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to query enabled habits: %w", err)
	}
	return collectHabits(rows)
}

func (s *SQLiteStore) CreateHabit(h models.Habit) error {
	if err := h.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(`INSERT INTO habits (id, user_id, name, enabled, target_per_month, target_per_year, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID.String(), h.UserID.String(), h.Name, h.Enabled, nilIfZero(h.TargetPerMonth), nilIfZero(h.TargetPerYear), h.CreatedAt.Unix(), h.UpdatedAt.Unix())
	if err != nil {
		slog.Error("SQLiteStore CreateHabit failed", "error", err, "userID", h.UserID, "name", h.Name)
		return fmt.Errorf("failed to insert habit: %w", err)
	}
	slog.Debug("SQLiteStore CreateHabit succeeded", "habitID", h.ID, "name", h.Name)
	return nil
}

func (s *SQLiteStore) UpdateHabit(h models.Habit) error {
	res, err := s.db.Exec(`UPDATE habits SET name = ?, enabled = ?, target_per_month = ?, target_per_year = ?, updated_at = ? WHERE id = ?`,
		h.Name, h.Enabled, nilIfZero(h.TargetPerMonth), nilIfZero(h.TargetPerYear), h.UpdatedAt.Unix(), h.ID.String())
	if err != nil {
		slog.Error("SQLiteStore UpdateHabit failed", "error", err, "habitID", h.ID)
		return fmt.Errorf("failed to update habit: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrHabitNotFound
	}
	slog.Debug("SQLiteStore UpdateHabit succeeded", "habitID", h.ID)
	return nil
}

func (s *SQLiteStore) DeleteHabit(id uuid.UUID) error {
	// Completions go first so the cascade holds even with foreign key
	// enforcement disabled on older database files.
	if _, err := s.db.Exec(`DELETE FROM completions WHERE habit_id = ?`, id.String()); err != nil {
		slog.Error("SQLiteStore DeleteHabit completions failed", "error", err, "habitID", id)
		return fmt.Errorf("failed to delete habit completions: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM habits WHERE id = ?`, id.String()); err != nil {
		slog.Error("SQLiteStore DeleteHabit failed", "error", err, "habitID", id)
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	slog.Debug("SQLiteStore DeleteHabit succeeded", "habitID", id)
	return nil
}

func (s *SQLiteStore) AddCompletion(c models.CompletionRecord) error {
	_, err := s.db.Exec(`INSERT INTO completions (id, habit_id, user_id, timestamp, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID.String(), c.HabitID.String(), c.UserID.String(), c.Timestamp.Unix(), c.CreatedAt.Unix())
	if err != nil {
		slog.Error("SQLiteStore AddCompletion failed", "error", err, "habitID", c.HabitID)
		return fmt.Errorf("failed to insert completion: %w", err)
	}
	slog.Debug("SQLiteStore AddCompletion succeeded", "habitID", c.HabitID, "timestamp", c.Timestamp)
	return nil
}

func (s *SQLiteStore) HasCompletionOnDay(habitID uuid.UUID, day time.Time) (bool, error) {
	start := calendar.DayStart(day)
	end := start.AddDate(0, 0, 1)
	var count int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM completions WHERE habit_id = ? AND timestamp >= ? AND timestamp < ?`,
		habitID.String(), start.Unix(), end.Unix()).Scan(&count)
	if err != nil {
		slog.Error("SQLiteStore HasCompletionOnDay failed", "error", err, "habitID", habitID)
		return false, fmt.Errorf("failed to query completion existence: %w", err)
	}
	return count > 0, nil
}

func (s *SQLiteStore) ListCompletions(habitID uuid.UUID) ([]models.CompletionRecord, error) {
	rows, err := s.db.Query(`SELECT id, habit_id, user_id, timestamp, created_at FROM completions WHERE habit_id = ? ORDER BY timestamp DESC`, habitID.String())
	if err != nil {
		slog.Error("SQLiteStore ListCompletions query failed", "error", err, "habitID", habitID)
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer rows.Close()

	var completions []models.CompletionRecord
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			slog.Error("SQLiteStore ListCompletions scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan completion row: %w", err)
		}
		completions = append(completions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate completion rows: %w", err)
	}
	slog.Debug("SQLiteStore ListCompletions succeeded", "habitID", habitID, "count", len(completions))
	return completions, nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	return s.db.Close()
}

// nilIfEmpty returns nil if s is empty, otherwise s.
// Used for nullable database columns.
func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
