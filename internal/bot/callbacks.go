package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/habitpulse/habitpulse/internal/models"
)

// ActionKind identifies one button action handled by the callback router.
type ActionKind string

const (
	// ActionLogHabit selects a habit to log and asks for the date mode.
	ActionLogHabit ActionKind = "log"
	// ActionLogToday commits a completion for the current day.
	ActionLogToday ActionKind = "logdate_today"
	// ActionLogCustom asks for an explicit date.
	ActionLogCustom ActionKind = "logdate_custom"
	// ActionViewHabit shows the habit detail view.
	ActionViewHabit ActionKind = "view_habit"
	// ActionViewStats filters the stats view to one habit.
	ActionViewStats ActionKind = "view_stats"
	// ActionSetMonthlyTarget starts the monthly target edit.
	ActionSetMonthlyTarget ActionKind = "set_month_target"
	// ActionSetYearlyTarget starts the yearly target edit.
	ActionSetYearlyTarget ActionKind = "set_year_target"
	// ActionRemoveHabit deletes a habit and its completions.
	ActionRemoveHabit ActionKind = "remove_habit"
	// ActionStatsPrev jumps to the explicit month embedded in the button.
	ActionStatsPrev ActionKind = "stats_prev"
	// ActionStatsNext jumps to the explicit month embedded in the button.
	ActionStatsNext ActionKind = "stats_next"
	// ActionStatsToday resets the stats view to the current month.
	ActionStatsToday ActionKind = "stats_today"
	// ActionStatsHabit sets or clears the stats habit filter.
	ActionStatsHabit ActionKind = "stats_habit"
)

// Action is the decoded form of a button press. Handlers consume Actions;
// the delimited wire tokens exist only inside Encode and DecodeAction.
// The populated fields depend on Kind: habit-scoped actions carry HabitID,
// month jumps carry Year and the zero-based Month, and the habit filter
// carries either HabitID or AllHabits.
type Action struct {
	Kind      ActionKind
	HabitID   uuid.UUID
	AllHabits bool
	Year      int
	Month     int
}

// Encode renders the action as its wire token.
func (a Action) Encode() string {
	switch a.Kind {
	case ActionStatsToday:
		return string(ActionStatsToday)
	case ActionStatsPrev, ActionStatsNext:
		return fmt.Sprintf("%s_%d_%d", a.Kind, a.Year, a.Month)
	case ActionStatsHabit:
		if a.AllHabits {
			return string(ActionStatsHabit) + "_all"
		}
		return fmt.Sprintf("%s_%s", a.Kind, a.HabitID)
	default:
		return fmt.Sprintf("%s_%s", a.Kind, a.HabitID)
	}
}

// DecodeAction parses a wire token back into an Action. Unknown or malformed
// tokens map to models.ErrInvalidInput.
func DecodeAction(data string) (Action, error) {
	if data == string(ActionStatsToday) {
		return Action{Kind: ActionStatsToday}, nil
	}
	// Longer prefixes first: "log_" is a prefix of nothing, but "logdate_*"
	// must not be claimed by the "log" kind.
	for _, kind := range []ActionKind{
		ActionLogToday, ActionLogCustom, ActionLogHabit,
		ActionViewHabit, ActionViewStats,
		ActionSetMonthlyTarget, ActionSetYearlyTarget,
		ActionRemoveHabit,
	} {
		rest, ok := cutPrefix(data, string(kind)+"_")
		if !ok {
			continue
		}
		id, err := uuid.Parse(rest)
		if err != nil {
			return Action{}, fmt.Errorf("%w: bad habit id in action %q", models.ErrInvalidInput, data)
		}
		return Action{Kind: kind, HabitID: id}, nil
	}

	for _, kind := range []ActionKind{ActionStatsPrev, ActionStatsNext} {
		rest, ok := cutPrefix(data, string(kind)+"_")
		if !ok {
			continue
		}
		yearPart, monthPart, found := strings.Cut(rest, "_")
		year, yearErr := strconv.Atoi(yearPart)
		month, monthErr := strconv.Atoi(monthPart)
		if !found || yearErr != nil || monthErr != nil || month < 0 || month > 11 {
			return Action{}, fmt.Errorf("%w: bad month token in action %q", models.ErrInvalidInput, data)
		}
		return Action{Kind: kind, Year: year, Month: month}, nil
	}

	if rest, ok := cutPrefix(data, string(ActionStatsHabit)+"_"); ok {
		if rest == "all" {
			return Action{Kind: ActionStatsHabit, AllHabits: true}, nil
		}
		id, err := uuid.Parse(rest)
		if err != nil {
			return Action{}, fmt.Errorf("%w: bad habit id in action %q", models.ErrInvalidInput, data)
		}
		return Action{Kind: ActionStatsHabit, HabitID: id}, nil
	}

	return Action{}, fmt.Errorf("%w: unrecognized action token %q", models.ErrInvalidInput, data)
}

func cutPrefix(s, prefix string) (string, bool) {
	if !strings.HasPrefix(s, prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
