package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/templui/workoutbuddy/internal/metrics"
	"github.com/templui/workoutbuddy/internal/model"
	"github.com/templui/workoutbuddy/internal/repository"
)

const defaultWorkoutMessage = "Great job!!"

// Dispatcher raises notifications for state transitions. Every method is
// best-effort: failures are logged and never returned.
type Dispatcher interface {
	FanOutWorkoutCompleted(ctx context.Context, session *model.WorkoutSession) int
	NotifyReaction(ctx context.Context, fromUserID, toUserID, sessionID, reactionType string) *model.Notification
	NotifyBuddyRequest(ctx context.Context, requesterID, requestedID string) *model.Notification
	NotifyBuddyAccepted(ctx context.Context, requesterID, requestedID string) *model.Notification
}

type NotificationService struct {
	repo  repository.NotificationRepository
	users repository.UserRepository
	now   func() time.Time
}

func NewNotificationService(repo repository.NotificationRepository, users repository.UserRepository) *NotificationService {
	return &NotificationService{
		repo:  repo,
		users: users,
		now:   time.Now,
	}
}

// Notify persists one notification. It returns nil when the record could not be stored.
func (s *NotificationService) Notify(ctx context.Context, notificationType model.NotificationType, fromUserID, toUserID, title, message string, payload model.Payload) *model.Notification {
	n := &model.Notification{
		ID:          uuid.New().String(),
		ToUserID:    toUserID,
		Type:        notificationType,
		Title:       title,
		Message:     message,
		RelatedData: payload,
		CreatedAt:   s.now().UTC(),
	}
	if fromUserID != "" {
		n.FromUserID = &fromUserID
	}
	if n.RelatedData == nil {
		n.RelatedData = model.Payload{}
	}

	err := s.repo.Create(ctx, n)
	if err != nil {
		slog.Error("failed to create notification",
			"error", err,
			"notification_type", notificationType,
			"to_user_id", toUserID,
		)
		metrics.Notification(string(notificationType), metrics.NotificationFailed)
		return nil
	}

	metrics.Notification(string(notificationType), metrics.NotificationCreated)
	return n
}

// actor loads the user a notification is about. A missing user skips the notification.
func (s *NotificationService) actor(ctx context.Context, notificationType model.NotificationType, userID string) *model.User {
	user, err := s.users.ByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		slog.Debug("notification actor missing, skipping", "notification_type", notificationType, "user_id", userID)
		metrics.Notification(string(notificationType), metrics.NotificationSkipped)
		return nil
	}
	if err != nil {
		slog.Warn("failed to load notification actor", "error", err, "notification_type", notificationType, "user_id", userID)
		metrics.Notification(string(notificationType), metrics.NotificationFailed)
		return nil
	}
	return user
}

func (s *NotificationService) NotifyWorkoutCompleted(ctx context.Context, session *model.WorkoutSession, buddyID string) *model.Notification {
	owner := s.actor(ctx, model.NotificationWorkoutCompleted, session.UserID)
	if owner == nil {
		return nil
	}
	return s.workoutCompleted(ctx, owner, session, buddyID)
}

func (s *NotificationService) workoutCompleted(ctx context.Context, owner *model.User, session *model.WorkoutSession, buddyID string) *model.Notification {
	comment := defaultWorkoutMessage
	if session.Comment != nil && *session.Comment != "" {
		comment = *session.Comment
	}

	var duration int64
	if session.DurationSeconds != nil {
		duration = *session.DurationSeconds
	}

	return s.Notify(ctx, model.NotificationWorkoutCompleted, owner.ID, buddyID,
		owner.Name+" finished a workout!",
		`"`+comment+`"`,
		model.Payload{
			"workoutId":       session.ID,
			"workoutUserId":   session.UserID,
			"exerciseType":    session.ExerciseType,
			"durationSeconds": duration,
			"liked":           false,
		},
	)
}

// FanOutWorkoutCompleted notifies each accepted buddy of the session owner once.
// It returns the number of notifications stored.
func (s *NotificationService) FanOutWorkoutCompleted(ctx context.Context, session *model.WorkoutSession) int {
	owner := s.actor(ctx, model.NotificationWorkoutCompleted, session.UserID)
	if owner == nil {
		return 0
	}

	buddies, err := s.users.Buddies(ctx, session.UserID)
	if err != nil {
		slog.Error("failed to load buddies for fan-out", "error", err, "user_id", session.UserID, "session_id", session.ID)
		metrics.Notification(string(model.NotificationWorkoutCompleted), metrics.NotificationFailed)
		return 0
	}

	delivered := 0
	for _, buddy := range buddies {
		if s.workoutCompleted(ctx, owner, session, buddy.ID) != nil {
			delivered++
		}
	}

	if delivered < len(buddies) {
		slog.Warn("partial workout fan-out", "session_id", session.ID, "delivered", delivered, "buddies", len(buddies))
	}
	return delivered
}

func (s *NotificationService) NotifyBuddyRequest(ctx context.Context, requesterID, requestedID string) *model.Notification {
	requester := s.actor(ctx, model.NotificationBuddyRequest, requesterID)
	if requester == nil {
		return nil
	}
	return s.Notify(ctx, model.NotificationBuddyRequest, requesterID, requestedID,
		"Buddy request",
		requester.Name+" sent you a buddy request",
		model.Payload{"requesterId": requesterID},
	)
}

func (s *NotificationService) NotifyBuddyAccepted(ctx context.Context, requesterID, requestedID string) *model.Notification {
	requested := s.actor(ctx, model.NotificationBuddyAccepted, requestedID)
	if requested == nil {
		return nil
	}
	return s.Notify(ctx, model.NotificationBuddyAccepted, requestedID, requesterID,
		"Buddy request accepted",
		requested.Name+" accepted your buddy request",
		model.Payload{"requestedId": requestedID},
	)
}

func (s *NotificationService) NotifyReaction(ctx context.Context, fromUserID, toUserID, sessionID, reactionType string) *model.Notification {
	from := s.actor(ctx, model.NotificationReaction, fromUserID)
	if from == nil {
		return nil
	}
	return s.Notify(ctx, model.NotificationReaction, fromUserID, toUserID,
		"New reaction",
		fmt.Sprintf("%s sent a %s to your workout", from.Name, reactionType),
		model.Payload{
			"workoutId":    sessionID,
			"fromUserId":   fromUserID,
			"reactionType": reactionType,
		},
	)
}

// MarkRead is a no-op when the notification is absent or not owned by userID.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	_, err := s.repo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *NotificationService) CheckNew(ctx context.Context, userID string) (*model.NotificationCheck, error) {
	count, err := s.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.NotificationCheck{HasNew: count > 0, Count: count}, nil
}

func (s *NotificationService) ListAll(ctx context.Context, userID string) ([]*model.Notification, error) {
	return s.list(ctx, userID, false)
}

func (s *NotificationService) ListUnread(ctx context.Context, userID string) ([]*model.Notification, error) {
	return s.list(ctx, userID, true)
}

func (s *NotificationService) list(ctx context.Context, userID string, unreadOnly bool) ([]*model.Notification, error) {
	notifications, err := s.repo.Notifications(ctx, userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) Get(ctx context.Context, notificationID, userID string) (*model.Notification, error) {
	n, err := s.repo.ByID(ctx, notificationID, userID)
	if errors.Is(err, repository.ErrNotificationNotFound) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load notification: %w", err)
	}
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, notificationID, userID string) error {
	err := s.repo.Delete(ctx, notificationID, userID)
	if errors.Is(err, repository.ErrNotificationNotFound) {
		return ErrNotificationNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}
