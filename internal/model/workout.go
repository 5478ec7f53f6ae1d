package model

import (
	"time"
)

const (
	WorkoutStatusInProgress = "in_progress"
	WorkoutStatusCompleted  = "completed"
	WorkoutStatusPaused     = "paused"
	WorkoutStatusCancelled  = "cancelled"
)

// DateLayout is the calendar-date format used for workout dates.
const DateLayout = "2006-01-02"

type WorkoutSession struct {
	ID              string     `db:"id" json:"id"`
	UserID          string     `db:"user_id" json:"userId"`
	Date            string     `db:"workout_date" json:"date"`
	StartTime       time.Time  `db:"start_time" json:"startTime"`
	EndTime         *time.Time `db:"end_time" json:"endTime,omitempty"`
	DurationSeconds *int64     `db:"duration_seconds" json:"durationSeconds,omitempty"`
	ExerciseType    string     `db:"exercise_type" json:"exerciseType"`
	Comment         *string    `db:"comment" json:"comment,omitempty"`
	Status          string     `db:"status" json:"status"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
}

func (s *WorkoutSession) InProgress() bool {
	return s.Status == WorkoutStatusInProgress
}

// Terminal reports whether the session can no longer change state.
func (s *WorkoutSession) Terminal() bool {
	return s.Status == WorkoutStatusCompleted || s.Status == WorkoutStatusCancelled
}

// Duration returns the recorded duration, or zero when the session has not ended.
func (s *WorkoutSession) Duration() time.Duration {
	if s.EndTime == nil {
		return 0
	}
	if s.DurationSeconds != nil {
		return time.Duration(*s.DurationSeconds) * time.Second
	}
	d := s.EndTime.Sub(s.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// InProgressView is what a user sees while a session runs.
type InProgressView struct {
	Session              *WorkoutSession `json:"session"`
	ExerciseLabel        string          `json:"exerciseLabel"`
	UserName             string          `json:"userName"`
	TargetSessionMinutes int             `json:"targetSessionMinutes"`
	ElapsedSeconds       int64           `json:"elapsedSeconds"`
	Elapsed              string          `json:"elapsed"`
}
