package model

import (
	"time"
)

const (
	ReactionLike  = "like"
	ReactionGreat = "great"
	ReactionFire  = "fire"
)

func ValidReactionType(reactionType string) bool {
	switch reactionType {
	case ReactionLike, ReactionGreat, ReactionFire:
		return true
	}
	return false
}

// Reaction is append-only; a session's reactions are never edited in place.
type Reaction struct {
	ID           string    `db:"id" json:"id"`
	SessionID    string    `db:"session_id" json:"sessionId"`
	UserID       string    `db:"user_id" json:"userId"`
	ReactionType string    `db:"reaction_type" json:"reactionType"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
