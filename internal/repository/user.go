package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/workoutbuddy/internal/model"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	Search(ctx context.Context, excludeID, term string, limit int) ([]*model.User, error)
	Buddies(ctx context.Context, userID string) ([]*model.User, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, name, created_at) VALUES ($1, $2, $3)`

	_, err := r.db.ExecContext(ctx, query, user.ID, user.Name, user.CreatedAt)
	if isUniqueViolation(err) {
		return ErrUserExists
	}
	return err
}

func (r *userRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Search matches an exact id or a case-insensitive name substring, never excludeID.
func (r *userRepository) Search(ctx context.Context, excludeID, term string, limit int) ([]*model.User, error) {
	var users []*model.User
	query := `SELECT * FROM users
	          WHERE id <> $1 AND (id = $2 OR LOWER(name) LIKE $3 ESCAPE '\')
	          ORDER BY name ASC, id ASC
	          LIMIT $4`

	err := r.db.SelectContext(ctx, &users, query, excludeID, term, likePattern(term), limit)
	if err != nil {
		return nil, err
	}

	return users, nil
}

// Buddies returns the users holding an accepted relation with userID, in either direction.
func (r *userRepository) Buddies(ctx context.Context, userID string) ([]*model.User, error) {
	var users []*model.User
	query := `SELECT u.* FROM users u
	          JOIN buddy_relations b
	            ON (b.requester_id = $1 AND u.id = b.requested_id)
	            OR (b.requested_id = $2 AND u.id = b.requester_id)
	          WHERE b.status = $3
	          ORDER BY u.name ASC, u.id ASC`

	err := r.db.SelectContext(ctx, &users, query, userID, userID, model.BuddyStatusAccepted)
	if err != nil {
		return nil, err
	}

	return users, nil
}
