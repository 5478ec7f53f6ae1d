package model

import (
	"time"
)

const (
	MessageGoalAchieved = "goal achieved"
	MessageAlmostThere  = "almost there"
	MessageGoodPace     = "good pace"
	MessageKeepAtIt     = "keep at it"
	MessageGetStarted   = "get started this week"
	MessageGoalNotSet   = "goal not set"
)

type WeeklyProgress struct {
	UserID          string `json:"userId"`
	WeekStart       string `json:"weekStart"`
	WeekEnd         string `json:"weekEnd"`
	QualifyingDays  int    `json:"qualifyingDays"`
	TargetFrequency int    `json:"targetFrequency"`
	ProgressPercent int    `json:"progressPercent"`
	Message         string `json:"message"`
	GoalSet         bool   `json:"goalSet"`
}

type BuddyProgress struct {
	BuddyID   string `json:"buddyId"`
	BuddyName string `json:"buddyName"`
	WeeklyProgress
}

// WeekBounds returns Monday and Sunday of the UTC week containing ref.
func WeekBounds(ref time.Time) (time.Time, time.Time) {
	ref = ref.UTC()
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// SummarizeDailyDurations sums the durations of completed sessions per calendar date.
// Cancelled, paused and running sessions contribute nothing.
func SummarizeDailyDurations(sessions []*WorkoutSession) map[string]time.Duration {
	daily := make(map[string]time.Duration)
	for _, s := range sessions {
		if s.Status != WorkoutStatusCompleted || s.EndTime == nil {
			continue
		}
		daily[s.Date] += s.Duration()
	}
	return daily
}

// QualifyingDays counts days whose whole minutes strictly exceed targetMinutes.
func QualifyingDays(daily map[string]time.Duration, targetMinutes int) int {
	days := 0
	for _, d := range daily {
		if int(d/time.Minute) > targetMinutes {
			days++
		}
	}
	return days
}

func ProgressPercent(days, target int) int {
	if target <= 0 {
		return 0
	}
	return min(100, days*100/target)
}

func EncouragementMessage(percent int) string {
	switch {
	case percent >= 100:
		return MessageGoalAchieved
	case percent >= 80:
		return MessageAlmostThere
	case percent >= 50:
		return MessageGoodPace
	case percent >= 20:
		return MessageKeepAtIt
	default:
		return MessageGetStarted
	}
}
