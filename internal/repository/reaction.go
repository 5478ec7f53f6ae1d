package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/templui/workoutbuddy/internal/model"
)

type ReactionRepository interface {
	Create(ctx context.Context, reaction *model.Reaction) error
	BySession(ctx context.Context, sessionID string) ([]*model.Reaction, error)
}

type reactionRepository struct {
	db *sqlx.DB
}

func NewReactionRepository(db *sqlx.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Create(ctx context.Context, reaction *model.Reaction) error {
	query := `INSERT INTO workout_reactions (id, session_id, user_id, reaction_type, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		reaction.ID,
		reaction.SessionID,
		reaction.UserID,
		reaction.ReactionType,
		reaction.CreatedAt,
	)
	return err
}

func (r *reactionRepository) BySession(ctx context.Context, sessionID string) ([]*model.Reaction, error) {
	var reactions []*model.Reaction
	query := `SELECT * FROM workout_reactions WHERE session_id = $1 ORDER BY created_at ASC, id ASC`

	err := r.db.SelectContext(ctx, &reactions, query, sessionID)
	if err != nil {
		return nil, err
	}

	return reactions, nil
}
