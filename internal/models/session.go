// Package models defines session state structures for Habit Pulse flows.
package models

import (
	"github.com/google/uuid"
)

// PendingKind tags the variant of an in-flight multi-step flow.
type PendingKind string

// Pending interaction variants. A user has at most one at any time.
const (
	PendingHabitName         PendingKind = "AWAITING_HABIT_NAME"
	PendingMonthlyTarget     PendingKind = "AWAITING_MONTHLY_TARGET"
	PendingYearlyTarget      PendingKind = "AWAITING_YEARLY_TARGET"
	PendingMonthlyTargetEdit PendingKind = "AWAITING_MONTHLY_TARGET_EDIT"
	PendingYearlyTargetEdit  PendingKind = "AWAITING_YEARLY_TARGET_EDIT"
	PendingLogSelection      PendingKind = "AWAITING_LOG_SELECTION"
	PendingLogCustomDate     PendingKind = "AWAITING_LOG_CUSTOM_DATE"
	PendingLogHabitName      PendingKind = "AWAITING_LOG_HABIT_NAME"
)

// PendingInteraction is the ephemeral record of which flow, and at which
// step, a user currently is. The populated fields depend on Kind:
// creation steps carry HabitName and the collected MonthlyTarget, edit and
// logging steps carry the HabitID they operate on.
type PendingInteraction struct {
	Kind          PendingKind
	HabitName     string
	MonthlyTarget *int
	HabitID       uuid.UUID
}

// StatsView is the per-user memory of which month and which habit filter
// the stats message currently shows. Month is zero-based (January = 0).
// AllHabits selects every habit; otherwise HabitID filters to one.
type StatsView struct {
	Year      int
	Month     int
	HabitID   uuid.UUID
	AllHabits bool
}
