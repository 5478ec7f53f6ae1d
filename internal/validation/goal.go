package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/templui/workoutbuddy/internal/model"
)

const (
	maxExerciseTypeLength  = 50
	maxSessionTimeMinutes  = 24 * 60
	maxWorkoutCommentRunes = 500
)

func ValidateDurationCategory(category string) error {
	if !model.ValidDurationCategory(category) {
		return fmt.Errorf("duration category must be one of %s, %s, %s",
			model.GoalDuration3Months, model.GoalDuration6Months, model.GoalDuration12Months)
	}
	return nil
}

func ValidateWeeklyFrequency(freq int) error {
	if freq < model.MinWeeklyFrequency {
		return errors.New("weekly frequency target must be at least 1")
	}
	if freq > model.MaxWeeklyFrequency {
		return errors.New("weekly frequency target cannot exceed 7")
	}
	return nil
}

func ValidateSessionTime(minutes int) error {
	if minutes < 1 {
		return errors.New("session time target must be at least 1 minute")
	}
	if minutes > maxSessionTimeMinutes {
		return errors.New("session time target cannot exceed 24 hours")
	}
	return nil
}

func ValidateExerciseType(exerciseType string) error {
	trimmed := strings.TrimSpace(exerciseType)

	if trimmed == "" {
		return errors.New("exercise type is required")
	}

	if utf8.RuneCountInString(trimmed) > maxExerciseTypeLength {
		return fmt.Errorf("exercise type is too long (max %d characters)", maxExerciseTypeLength)
	}

	return nil
}

func ValidateComment(comment string) error {
	if utf8.RuneCountInString(comment) > maxWorkoutCommentRunes {
		return fmt.Errorf("comment is too long (max %d characters)", maxWorkoutCommentRunes)
	}
	return nil
}
