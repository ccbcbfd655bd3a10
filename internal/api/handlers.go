// Package api provides HTTP handlers for Habit Pulse endpoints.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/habitpulse/habitpulse/internal/calendar"
	"github.com/habitpulse/habitpulse/internal/models"
)

// createHabitRequest is the body of POST /habits.
type createHabitRequest struct {
	User           int64  `json:"user"` // telegram id
	Name           string `json:"name"`
	TargetPerMonth *int   `json:"target_per_month,omitempty"`
	TargetPerYear  *int   `json:"target_per_year,omitempty"`
}

// habitStats is one entry in the GET /stats result.
type habitStats struct {
	HabitID        uuid.UUID `json:"habit_id"`
	HabitName      string    `json:"habit_name"`
	Enabled        bool      `json:"enabled"`
	TotalLogs      int       `json:"total_logs"`
	TotalThisMonth int       `json:"total_this_month"`
	TotalThisYear  int       `json:"total_this_year"`
}

// resolveUser looks a user up by telegram id, mapping absence to the
// models.ErrUserNotFound sentinel.
func (s *Server) resolveUser(telegramID int64) (*models.User, error) {
	user, err := s.store.GetUserByTelegramID(telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

// resolveHabit looks a habit up by id, mapping absence to the
// models.ErrHabitNotFound sentinel.
func (s *Server) resolveHabit(id uuid.UUID) (*models.Habit, error) {
	habit, err := s.store.GetHabit(id)
	if err != nil {
		return nil, err
	}
	if habit == nil {
		return nil, models.ErrHabitNotFound
	}
	return habit, nil
}

// userFromQuery resolves the "user" query parameter (a telegram id) to a
// registered user. It writes the error response itself and returns nil when
// the caller should stop.
func (s *Server) userFromQuery(w http.ResponseWriter, r *http.Request) *models.User {
	raw := r.URL.Query().Get("user")
	if raw == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("user query parameter is required"))
		return nil
	}
	telegramID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("user must be a numeric telegram id"))
		return nil
	}
	user, err := s.resolveUser(telegramID)
	switch {
	case errors.Is(err, models.ErrUserNotFound):
		writeJSONResponse(w, http.StatusNotFound, models.Error("User not found"))
		return nil
	case err != nil:
		slog.Error("Server.userFromQuery: failed to look up user", "error", err, "telegram_id", telegramID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Internal server error"))
		return nil
	}
	return user
}

func (s *Server) habitsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.habitsHandler: processing request", "method", r.Method, "path", r.URL.Path)
	switch r.Method {
	case http.MethodGet:
		s.listHabits(w, r)
	case http.MethodPost:
		s.createHabit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		slog.Warn("Server.habitsHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	user := s.userFromQuery(w, r)
	if user == nil {
		return
	}
	habits, err := s.store.ListHabits(user.ID)
	if err != nil {
		slog.Error("Server.listHabits: failed to list habits", "error", err, "user_id", user.ID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Internal server error"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(habits))
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	var req createHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.createHabit: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if req.User == 0 {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("user is required"))
		return
	}
	user, err := s.resolveUser(req.User)
	switch {
	case errors.Is(err, models.ErrUserNotFound):
		writeJSONResponse(w, http.StatusNotFound, models.Error("User not found"))
		return
	case err != nil:
		slog.Error("Server.createHabit: failed to look up user", "error", err, "telegram_id", req.User)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Internal server error"))
		return
	}
	if (req.TargetPerMonth != nil && *req.TargetPerMonth <= 0) ||
		(req.TargetPerYear != nil && *req.TargetPerYear <= 0) {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("targets must be positive"))
		return
	}
	now := s.now()
	habit := models.Habit{
		ID:             uuid.New(),
		UserID:         user.ID,
		Name:           strings.TrimSpace(req.Name),
		Enabled:        true,
		TargetPerMonth: req.TargetPerMonth,
		TargetPerYear:  req.TargetPerYear,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := habit.Validate(); err != nil {
		slog.Warn("Server.createHabit: validation failed", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}
	existing, err := s.store.GetHabitByName(user.ID, habit.Name)
	if err != nil {
		slog.Error("Server.createHabit: failed to check for duplicate", "error", err, "user_id", user.ID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Internal server error"))
		return
	}
	if existing != nil {
		writeJSONResponse(w, http.StatusConflict, models.Error("Habit with this name already exists"))
		return
	}
	if err := s.store.CreateHabit(habit); err != nil {
		slog.Error("Server.createHabit: failed to create habit", "error", err, "user_id", user.ID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Internal server error"))
		return
	}
	slog.Info("Server.createHabit: habit created", "habit_id", habit.ID, "user_id", user.ID)
	writeJSONResponse(w, http.StatusCreated, models.Success(habit))
}

func (s *Server) logsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.logsHandler: processing request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		slog.Warn("Server.logsHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	raw := r.URL.Query().Get("habit")
	if raw == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("habit query parameter is required"))
		return
	}
	habitID, err := uuid.Parse(raw)
	if err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("habit must be a valid id"))
		return
	}
	switch _, err := s.resolveHabit(habitID); {
	case errors.Is(err, models.ErrHabitNotFound):
		writeJSONResponse(w, http.StatusNotFound, models.Error("Habit not found"))
		return
	case err != nil:
		slog.Error("Server.logsHandler: failed to look up habit", "error", err, "habit_id", habitID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Internal server error"))
		return
	}
	logs, err := s.store.ListCompletions(habitID)
	if err != nil {
		slog.Error("Server.logsHandler: failed to list completions", "error", err, "habit_id", habitID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Internal server error"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(logs))
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.statsHandler: processing request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		slog.Warn("Server.statsHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := s.userFromQuery(w, r)
	if user == nil {
		return
	}
	habits, err := s.store.ListHabits(user.ID)
	if err != nil {
		slog.Error("Server.statsHandler: failed to list habits", "error", err, "user_id", user.ID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Internal server error"))
		return
	}
	month := calendar.MonthOf(s.now())
	stats := make([]habitStats, 0, len(habits))
	for _, h := range habits {
		completions, err := s.store.ListCompletions(h.ID)
		if err != nil {
			slog.Error("Server.statsHandler: failed to list completions", "error", err, "habit_id", h.ID)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Internal server error"))
			return
		}
		entry := habitStats{
			HabitID:   h.ID,
			HabitName: h.Name,
			Enabled:   h.Enabled,
			TotalLogs: len(completions),
		}
		for _, c := range completions {
			ts := c.Timestamp.UTC()
			if month.Contains(ts) {
				entry.TotalThisMonth++
			}
			if ts.Year() == month.Year {
				entry.TotalThisYear++
			}
		}
		stats = append(stats, entry)
	}
	writeJSONResponse(w, http.StatusOK, models.Success(stats))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("healthy", map[string]time.Time{
		"time": s.now().UTC(),
	}))
}
