package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/workoutbuddy/internal/model"
)

var (
	ErrRelationNotFound = errors.New("buddy relation not found")
	ErrRelationExists   = errors.New("buddy relation already exists for pair")
)

type BuddyRepository interface {
	Create(ctx context.Context, relation *model.BuddyRelation) error
	ByID(ctx context.Context, id string) (*model.BuddyRelation, error)
	// Live returns the pending or accepted relation between a and b, in either direction.
	Live(ctx context.Context, a, b string) (*model.BuddyRelation, error)
	Respond(ctx context.Context, id, status string, at time.Time) error
	DeleteAccepted(ctx context.Context, a, b string) error
	Accepted(ctx context.Context, userID string) ([]*model.BuddyRelation, error)
	PendingFor(ctx context.Context, userID string) ([]*model.BuddyRelation, error)
}

type buddyRepository struct {
	db *sqlx.DB
}

func NewBuddyRepository(db *sqlx.DB) BuddyRepository {
	return &buddyRepository{db: db}
}

func (r *buddyRepository) Create(ctx context.Context, rel *model.BuddyRelation) error {
	query := `INSERT INTO buddy_relations (id, requester_id, requested_id, pair_key, status, requested_at, responded_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		rel.ID,
		rel.RequesterID,
		rel.RequestedID,
		model.PairKey(rel.RequesterID, rel.RequestedID),
		rel.Status,
		rel.RequestedAt,
		rel.RespondedAt,
	)
	if isUniqueViolation(err) {
		return ErrRelationExists
	}
	return err
}

func (r *buddyRepository) ByID(ctx context.Context, id string) (*model.BuddyRelation, error) {
	rel := &model.BuddyRelation{}
	query := `SELECT * FROM buddy_relations WHERE id = $1`

	err := r.db.GetContext(ctx, rel, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrRelationNotFound
	}
	if err != nil {
		return nil, err
	}

	return rel, nil
}

func (r *buddyRepository) Live(ctx context.Context, a, b string) (*model.BuddyRelation, error) {
	rel := &model.BuddyRelation{}
	query := `SELECT * FROM buddy_relations WHERE pair_key = $1 AND status IN ($2, $3)`

	err := r.db.GetContext(ctx, rel, query, model.PairKey(a, b), model.BuddyStatusPending, model.BuddyStatusAccepted)
	if err == sql.ErrNoRows {
		return nil, ErrRelationNotFound
	}
	if err != nil {
		return nil, err
	}

	return rel, nil
}

// Respond moves a pending relation to status. Non-pending relations yield
// ErrInvalidStateTransition.
func (r *buddyRepository) Respond(ctx context.Context, id, status string, at time.Time) error {
	query := `UPDATE buddy_relations SET status = $1, responded_at = $2 WHERE id = $3 AND status = $4`

	result, err := r.db.ExecContext(ctx, query, status, at, id, model.BuddyStatusPending)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	_, err = r.ByID(ctx, id)
	if err != nil {
		return err
	}
	return ErrInvalidStateTransition
}

func (r *buddyRepository) DeleteAccepted(ctx context.Context, a, b string) error {
	query := `DELETE FROM buddy_relations WHERE pair_key = $1 AND status = $2`

	result, err := r.db.ExecContext(ctx, query, model.PairKey(a, b), model.BuddyStatusAccepted)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRelationNotFound
	}

	return nil
}

func (r *buddyRepository) Accepted(ctx context.Context, userID string) ([]*model.BuddyRelation, error) {
	var rels []*model.BuddyRelation
	query := `SELECT * FROM buddy_relations
	          WHERE (requester_id = $1 OR requested_id = $2) AND status = $3
	          ORDER BY responded_at DESC, id ASC`

	err := r.db.SelectContext(ctx, &rels, query, userID, userID, model.BuddyStatusAccepted)
	if err != nil {
		return nil, err
	}

	return rels, nil
}

// PendingFor returns pending requests addressed to userID, newest first.
func (r *buddyRepository) PendingFor(ctx context.Context, userID string) ([]*model.BuddyRelation, error) {
	var rels []*model.BuddyRelation
	query := `SELECT * FROM buddy_relations
	          WHERE requested_id = $1 AND status = $2
	          ORDER BY requested_at DESC, id DESC`

	err := r.db.SelectContext(ctx, &rels, query, userID, model.BuddyStatusPending)
	if err != nil {
		return nil, err
	}

	return rels, nil
}
