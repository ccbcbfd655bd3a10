package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/habitpulse/habitpulse/internal/models"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// nilIfZero returns nil for a nil target pointer so the column stores NULL
// rather than zero.
func nilIfZero(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// scanUser scans one users row.
func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	var id string
	var lastName, username, languageCode sql.NullString
	var createdAt, updatedAt int64
	err := row.Scan(&id, &u.TelegramID, &u.FirstName, &lastName, &username, &languageCode, &u.ReminderHour, &createdAt, &updatedAt)
	if err != nil {
		return u, err
	}
	u.ID, err = uuid.Parse(id)
	if err != nil {
		return u, fmt.Errorf("invalid user id %q: %w", id, err)
	}
	u.LastName = lastName.String
	u.Username = username.String
	u.LanguageCode = languageCode.String
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	u.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return u, nil
}

// scanHabit scans one habits row.
func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var id, userID string
	var targetMonth, targetYear sql.NullInt64
	var createdAt, updatedAt int64
	err := row.Scan(&id, &userID, &h.Name, &h.Enabled, &targetMonth, &targetYear, &createdAt, &updatedAt)
	if err != nil {
		return h, err
	}
	h.ID, err = uuid.Parse(id)
	if err != nil {
		return h, fmt.Errorf("invalid habit id %q: %w", id, err)
	}
	h.UserID, err = uuid.Parse(userID)
	if err != nil {
		return h, fmt.Errorf("invalid habit user id %q: %w", userID, err)
	}
	if targetMonth.Valid {
		v := int(targetMonth.Int64)
		h.TargetPerMonth = &v
	}
	if targetYear.Valid {
		v := int(targetYear.Int64)
		h.TargetPerYear = &v
	}
	h.CreatedAt = time.Unix(createdAt, 0).UTC()
	h.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return h, nil
}

// scanCompletion scans one completions row.
func scanCompletion(row rowScanner) (models.CompletionRecord, error) {
	var c models.CompletionRecord
	var id, habitID, userID string
	var timestamp, createdAt int64
	err := row.Scan(&id, &habitID, &userID, &timestamp, &createdAt)
	if err != nil {
		return c, err
	}
	c.ID, err = uuid.Parse(id)
	if err != nil {
		return c, fmt.Errorf("invalid completion id %q: %w", id, err)
	}
	c.HabitID, err = uuid.Parse(habitID)
	if err != nil {
		return c, fmt.Errorf("invalid completion habit id %q: %w", habitID, err)
	}
	c.UserID, err = uuid.Parse(userID)
	if err != nil {
		return c, fmt.Errorf("invalid completion user id %q: %w", userID, err)
	}
	c.Timestamp = time.Unix(timestamp, 0).UTC()
	c.CreatedAt = time.Unix(createdAt, 0).UTC()
	return c, nil
}

// collectHabits drains a habit query result set.
func collectHabits(rows *sql.Rows) ([]models.Habit, error) {
	defer rows.Close()
	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit row: %w", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habit rows: %w", err)
	}
	return habits, nil
}
