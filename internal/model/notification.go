package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type NotificationType string

const (
	NotificationWorkoutCompleted NotificationType = "workout_completed"
	NotificationBuddyRequest     NotificationType = "buddy_request"
	NotificationBuddyAccepted    NotificationType = "buddy_accepted"
	NotificationReaction         NotificationType = "reaction"
)

func (t NotificationType) Label() string {
	switch t {
	case NotificationWorkoutCompleted:
		return "Workout completed"
	case NotificationReaction:
		return "Reaction"
	case NotificationBuddyRequest:
		return "Buddy request"
	case NotificationBuddyAccepted:
		return "Buddy accepted"
	default:
		return "Other"
	}
}

func (t NotificationType) Icon() string {
	switch t {
	case NotificationWorkoutCompleted:
		return "🏃"
	case NotificationReaction:
		return "⭐"
	case NotificationBuddyRequest:
		return "👤"
	case NotificationBuddyAccepted:
		return "✅"
	default:
		return "🔔"
	}
}

// Payload is the structured related data carried by a notification.
// Stored as a JSON object.
type Payload map[string]any

func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return string(b), nil
}

func (p *Payload) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = Payload{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported payload type %T", src)
	}
	if len(raw) == 0 {
		*p = Payload{}
		return nil
	}
	out := Payload{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	*p = out
	return nil
}

// String returns the value stored under key, or "" when absent.
func (p Payload) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Notification is immutable except for IsRead.
type Notification struct {
	ID          string           `db:"id" json:"id"`
	FromUserID  *string          `db:"from_user_id" json:"fromUserId,omitempty"`
	ToUserID    string           `db:"to_user_id" json:"toUserId"`
	Type        NotificationType `db:"notification_type" json:"type"`
	Title       string           `db:"title" json:"title"`
	Message     string           `db:"message" json:"message"`
	RelatedData Payload          `db:"related_data" json:"relatedData"`
	IsRead      bool             `db:"is_read" json:"isRead"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
}

type NotificationCheck struct {
	HasNew bool `json:"hasNew"`
	Count  int  `json:"count"`
}
