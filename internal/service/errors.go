package service

import (
	"github.com/templui/workoutbuddy/internal/apperr"
)

var (
	ErrUserNotFound = apperr.NotFound("user_not_found", "user not found")
	ErrUserExists   = apperr.Duplicate("user_exists", "user already exists")

	ErrNoActiveGoal = apperr.NotFound("no_active_goal", "no active goal")

	ErrSessionNotFound          = apperr.NotFound("session_not_found", "workout session not found")
	ErrNoSessionInProgress      = apperr.NotFound("no_session_in_progress", "no workout session in progress")
	ErrSessionAlreadyInProgress = apperr.InvalidTransition("session_already_in_progress", "a workout session is already in progress")
	ErrInvalidTransition        = apperr.InvalidTransition("invalid_transition", "invalid state transition")

	ErrSelfRequest      = apperr.SelfReference("self_request", "cannot send a buddy request to yourself")
	ErrTargetNotFound   = apperr.NotFound("target_not_found", "requested user not found")
	ErrDuplicatePending = apperr.Duplicate("duplicate_pending", "a buddy request is already pending")
	ErrAlreadyBuddies   = apperr.Duplicate("already_buddies", "already buddies")
	ErrRelationNotFound = apperr.NotFound("relation_not_found", "buddy relation not found")

	ErrNotificationNotFound = apperr.NotFound("notification_not_found", "notification not found")
)

func validationError(field string, err error) error {
	return apperr.Validation("invalid_"+field, err.Error())
}
