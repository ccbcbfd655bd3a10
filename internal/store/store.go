// Package store provides storage backends for Habit Pulse.
//
// It defines the collaborator interface the bot core reads and writes
// through, with SQLite, PostgreSQL, and in-memory implementations.
package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/habitpulse/habitpulse/internal/calendar"
	"github.com/habitpulse/habitpulse/internal/models"
)

// Store is the persistence contract for users, habits, and completions.
// Lookup methods return (nil, nil) when the entity does not exist; callers
// decide whether absence is an error.
type Store interface {
	// GetUserByTelegramID looks a user up by their transport identity.
	GetUserByTelegramID(telegramID int64) (*models.User, error)

	// CreateUser persists a new user.
	CreateUser(u models.User) error

	// ListUsers returns all registered users.
	ListUsers() ([]models.User, error)

	// GetHabit fetches one habit by id.
	GetHabit(id uuid.UUID) (*models.Habit, error)

	// GetHabitByName fetches a user's habit by case-insensitive name match.
	GetHabitByName(userID uuid.UUID, name string) (*models.Habit, error)

	// ListHabits returns all habits of a user.
	ListHabits(userID uuid.UUID) ([]models.Habit, error)

	// ListEnabledHabits returns the user's habits with the enabled flag set.
	ListEnabledHabits(userID uuid.UUID) ([]models.Habit, error)

	// CreateHabit persists a new habit.
	CreateHabit(h models.Habit) error

	// UpdateHabit overwrites a habit's mutable fields.
	UpdateHabit(h models.Habit) error

	// DeleteHabit removes a habit and all its completion records.
	DeleteHabit(id uuid.UUID) error

	// AddCompletion persists a new completion record.
	AddCompletion(c models.CompletionRecord) error

	// HasCompletionOnDay reports whether the habit has a completion within
	// the UTC calendar day starting at day.
	HasCompletionOnDay(habitID uuid.UUID, day time.Time) (bool, error)

	// ListCompletions returns a habit's completions sorted by timestamp
	// descending.
	ListCompletions(habitID uuid.UUID) ([]models.CompletionRecord, error)

	// Close releases backend resources.
	Close() error
}

// InMemoryStore is a mutex-guarded in-memory Store, used in tests and as a
// fallback when no database DSN is configured.
type InMemoryStore struct {
	mu          sync.RWMutex
	users       []models.User
	habits      []models.Habit
	completions []models.CompletionRecord
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) GetUserByTelegramID(telegramID int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].TelegramID == telegramID {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (s *InMemoryStore) CreateUser(u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
	return nil
}

func (s *InMemoryStore) ListUsers() ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *InMemoryStore) GetHabit(id uuid.UUID) (*models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.habits {
		if s.habits[i].ID == id {
			h := s.habits[i]
			return &h, nil
		}
	}
	return nil, nil
}

func (s *InMemoryStore) GetHabitByName(userID uuid.UUID, name string) (*models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.habits {
		if s.habits[i].UserID == userID && strings.EqualFold(s.habits[i].Name, name) {
			h := s.habits[i]
			return &h, nil
		}
	}
	return nil, nil
}

func (s *InMemoryStore) ListHabits(userID uuid.UUID) ([]models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Habit
	for _, h := range s.habits {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListEnabledHabits(userID uuid.UUID) ([]models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Habit
	for _, h := range s.habits {
		if h.UserID == userID && h.Enabled {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *InMemoryStore) CreateHabit(h models.Habit) error {
	if err := h.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.habits {
		if s.habits[i].UserID == h.UserID && strings.EqualFold(s.habits[i].Name, h.Name) {
			return models.ErrDuplicateHabit
		}
	}
	s.habits = append(s.habits, h)
	return nil
}

func (s *InMemoryStore) UpdateHabit(h models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.habits {
		if s.habits[i].ID == h.ID {
			s.habits[i] = h
			return nil
		}
	}
	return models.ErrHabitNotFound
}

func (s *InMemoryStore) DeleteHabit(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	habits := s.habits[:0]
	for _, h := range s.habits {
		if h.ID != id {
			habits = append(habits, h)
		}
	}
	s.habits = habits
	completions := s.completions[:0]
	for _, c := range s.completions {
		if c.HabitID != id {
			completions = append(completions, c)
		}
	}
	s.completions = completions
	return nil
}

func (s *InMemoryStore) AddCompletion(c models.CompletionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completions = append(s.completions, c)
	return nil
}

func (s *InMemoryStore) HasCompletionOnDay(habitID uuid.UUID, day time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := calendar.DayStart(day)
	for _, c := range s.completions {
		if c.HabitID == habitID && calendar.DayStart(c.Timestamp).Equal(start) {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) ListCompletions(habitID uuid.UUID) ([]models.CompletionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.CompletionRecord
	for _, c := range s.completions {
		if c.HabitID == habitID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}
