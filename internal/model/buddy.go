package model

import (
	"time"
)

const (
	BuddyStatusPending  = "pending"
	BuddyStatusAccepted = "accepted"
	BuddyStatusRejected = "rejected"
)

type BuddyRelation struct {
	ID          string     `db:"id" json:"id"`
	RequesterID string     `db:"requester_id" json:"requesterId"`
	RequestedID string     `db:"requested_id" json:"requestedId"`
	PairKey     string     `db:"pair_key" json:"-"`
	Status      string     `db:"status" json:"status"`
	RequestedAt time.Time  `db:"requested_at" json:"requestedAt"`
	RespondedAt *time.Time `db:"responded_at" json:"respondedAt,omitempty"`
}

// PairKey identifies the unordered pair {a, b}.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// Other returns the member of the relation that is not userID.
func (r *BuddyRelation) Other(userID string) string {
	if r.RequesterID == userID {
		return r.RequestedID
	}
	return r.RequesterID
}
