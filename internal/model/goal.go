package model

import (
	"time"
)

const (
	GoalDuration3Months  = "3months"
	GoalDuration6Months  = "6months"
	GoalDuration12Months = "12months"
)

const (
	MinWeeklyFrequency = 1
	MaxWeeklyFrequency = 7
)

// Goal is one version of a user's training goal. Superseded versions are kept
// with Active=false.
type Goal struct {
	ID                       string    `db:"id" json:"id"`
	UserID                   string    `db:"user_id" json:"userId"`
	DurationCategory         string    `db:"duration_category" json:"durationCategory"`
	WeeklyFrequencyTarget    int       `db:"weekly_frequency_target" json:"weeklyFrequencyTarget"`
	ExerciseType             string    `db:"exercise_type" json:"exerciseType"`
	SessionTimeTargetMinutes int       `db:"session_time_target_minutes" json:"sessionTimeTargetMinutes"`
	Active                   bool      `db:"is_active" json:"active"`
	CreatedAt                time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt                time.Time `db:"updated_at" json:"updatedAt"`
}

func ValidDurationCategory(category string) bool {
	switch category {
	case GoalDuration3Months, GoalDuration6Months, GoalDuration12Months:
		return true
	}
	return false
}

const (
	GoalStateNeverSet = "never_set"
	GoalStateInactive = "inactive"
	GoalStateActive   = "active"
)

// GoalState separates "no goal was ever set" from "goals exist but none is active".
type GoalState struct {
	Kind   string `json:"kind"`
	Active *Goal  `json:"active,omitempty"`
}
