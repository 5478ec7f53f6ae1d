package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/workoutbuddy/internal/metrics"
	"github.com/templui/workoutbuddy/internal/model"
	"github.com/templui/workoutbuddy/internal/repository"
)

const DefaultBuddySearchLimit = 20

type BuddyService struct {
	repo        repository.BuddyRepository
	users       repository.UserRepository
	notifier    Dispatcher
	locks       *KeyedMutex
	searchLimit int
	now         func() time.Time
}

func NewBuddyService(
	repo repository.BuddyRepository,
	users repository.UserRepository,
	notifier Dispatcher,
	searchLimit int,
) *BuddyService {
	if searchLimit <= 0 {
		searchLimit = DefaultBuddySearchLimit
	}
	return &BuddyService{
		repo:        repo,
		users:       users,
		notifier:    notifier,
		locks:       NewKeyedMutex(),
		searchLimit: searchLimit,
		now:         time.Now,
	}
}

// SendRequest creates a pending relation from requesterID to requestedID.
func (s *BuddyService) SendRequest(ctx context.Context, requesterID, requestedID string) (*model.BuddyRelation, error) {
	if requesterID == requestedID {
		metrics.BuddyRequest("self")
		return nil, ErrSelfRequest
	}

	_, err := s.users.ByID(ctx, requestedID)
	if errors.Is(err, repository.ErrUserNotFound) {
		metrics.BuddyRequest("target_not_found")
		return nil, ErrTargetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load requested user: %w", err)
	}

	unlock := s.locks.Lock(model.PairKey(requesterID, requestedID))
	defer unlock()

	err = s.liveConflict(ctx, requesterID, requestedID)
	if err != nil {
		return nil, err
	}

	rel := &model.BuddyRelation{
		ID:          uuid.New().String(),
		RequesterID: requesterID,
		RequestedID: requestedID,
		PairKey:     model.PairKey(requesterID, requestedID),
		Status:      model.BuddyStatusPending,
		RequestedAt: s.now().UTC(),
	}

	err = s.repo.Create(ctx, rel)
	if errors.Is(err, repository.ErrRelationExists) {
		// lost a race with another process; report what won
		if conflict := s.liveConflict(ctx, requesterID, requestedID); conflict != nil {
			return nil, conflict
		}
		return nil, ErrDuplicatePending
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create buddy request: %w", err)
	}

	metrics.BuddyRequest("sent")
	slog.Info("buddy request sent", "relation_id", rel.ID, "requester_id", requesterID, "requested_id", requestedID)

	s.notifier.NotifyBuddyRequest(ctx, requesterID, requestedID)
	return rel, nil
}

// liveConflict maps an existing pending or accepted relation to its error.
func (s *BuddyService) liveConflict(ctx context.Context, a, b string) error {
	live, err := s.repo.Live(ctx, a, b)
	if errors.Is(err, repository.ErrRelationNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check buddy relation: %w", err)
	}

	if live.Status == model.BuddyStatusAccepted {
		metrics.BuddyRequest("already_buddies")
		return ErrAlreadyBuddies
	}
	metrics.BuddyRequest("duplicate_pending")
	return ErrDuplicatePending
}

func (s *BuddyService) AcceptRequest(ctx context.Context, relationID string) (*model.BuddyRelation, error) {
	rel, err := s.relation(ctx, relationID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, rel, model.BuddyStatusAccepted)
}

func (s *BuddyService) RejectRequest(ctx context.Context, relationID string) (*model.BuddyRelation, error) {
	rel, err := s.relation(ctx, relationID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, rel, model.BuddyStatusRejected)
}

// AcceptRequestAs accepts on behalf of actorID, who must be the requested user.
func (s *BuddyService) AcceptRequestAs(ctx context.Context, actorID, relationID string) (*model.BuddyRelation, error) {
	rel, err := s.addressedTo(ctx, actorID, relationID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, rel, model.BuddyStatusAccepted)
}

func (s *BuddyService) RejectRequestAs(ctx context.Context, actorID, relationID string) (*model.BuddyRelation, error) {
	rel, err := s.addressedTo(ctx, actorID, relationID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, rel, model.BuddyStatusRejected)
}

func (s *BuddyService) relation(ctx context.Context, relationID string) (*model.BuddyRelation, error) {
	rel, err := s.repo.ByID(ctx, relationID)
	if errors.Is(err, repository.ErrRelationNotFound) {
		return nil, ErrRelationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load buddy relation: %w", err)
	}
	return rel, nil
}

// addressedTo hides relations that actorID may not respond to.
func (s *BuddyService) addressedTo(ctx context.Context, actorID, relationID string) (*model.BuddyRelation, error) {
	rel, err := s.relation(ctx, relationID)
	if err != nil {
		return nil, err
	}
	if rel.RequestedID != actorID {
		return nil, ErrRelationNotFound
	}
	return rel, nil
}

func (s *BuddyService) respond(ctx context.Context, rel *model.BuddyRelation, status string) (*model.BuddyRelation, error) {
	if rel.Status != model.BuddyStatusPending {
		return nil, ErrInvalidTransition
	}

	unlock := s.locks.Lock(model.PairKey(rel.RequesterID, rel.RequestedID))
	defer unlock()

	at := s.now().UTC()
	err := s.repo.Respond(ctx, rel.ID, status, at)
	switch {
	case errors.Is(err, repository.ErrInvalidStateTransition):
		return nil, ErrInvalidTransition
	case errors.Is(err, repository.ErrRelationNotFound):
		return nil, ErrRelationNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to respond to buddy request: %w", err)
	}

	rel.Status = status
	rel.RespondedAt = &at

	metrics.BuddyRequest(status)
	slog.Info("buddy request answered", "relation_id", rel.ID, "status", status)

	if status == model.BuddyStatusAccepted {
		s.notifier.NotifyBuddyAccepted(ctx, rel.RequesterID, rel.RequestedID)
	}
	return rel, nil
}

// RemoveBuddy deletes the accepted relation between the two users. The pair may
// send new requests afterwards.
func (s *BuddyService) RemoveBuddy(ctx context.Context, userID, otherUserID string) error {
	unlock := s.locks.Lock(model.PairKey(userID, otherUserID))
	defer unlock()

	err := s.repo.DeleteAccepted(ctx, userID, otherUserID)
	if errors.Is(err, repository.ErrRelationNotFound) {
		return ErrRelationNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to remove buddy: %w", err)
	}

	metrics.BuddyRequest("removed")
	slog.Info("buddy removed", "user_id", userID, "buddy_id", otherUserID)
	return nil
}

// ListAccepted returns the user's buddies.
func (s *BuddyService) ListAccepted(ctx context.Context, userID string) ([]*model.User, error) {
	users, err := s.users.Buddies(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list buddies: %w", err)
	}
	return users, nil
}

func (s *BuddyService) AcceptedRelations(ctx context.Context, userID string) ([]*model.BuddyRelation, error) {
	rels, err := s.repo.Accepted(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list buddy relations: %w", err)
	}
	return rels, nil
}

// ListPending returns requests waiting for userID's answer, newest first.
func (s *BuddyService) ListPending(ctx context.Context, userID string) ([]*model.BuddyRelation, error) {
	rels, err := s.repo.PendingFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	return rels, nil
}

func (s *BuddyService) AreBuddies(ctx context.Context, a, b string) (bool, error) {
	live, err := s.repo.Live(ctx, a, b)
	if errors.Is(err, repository.ErrRelationNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check buddy relation: %w", err)
	}
	return live.Status == model.BuddyStatusAccepted, nil
}

// Search finds other users by exact id or name substring.
func (s *BuddyService) Search(ctx context.Context, userID, term string) ([]*model.User, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []*model.User{}, nil
	}

	users, err := s.users.Search(ctx, userID, term, s.searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}
