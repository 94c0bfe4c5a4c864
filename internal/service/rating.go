package service

import (
	"context"
	"errors"
	"math"

	"github.com/robalyx/squadpledge/internal/database"
	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/robalyx/squadpledge/internal/payout"
	"go.uber.org/zap"
)

// MaxRating is the highest peer rating.
const MaxRating = 5.0

// RatingService records peer ratings and maintains reputation scores.
type RatingService struct {
	store  database.Store
	rules  *Rules
	logger *zap.Logger
}

// NewRating creates a new rating service.
func NewRating(store database.Store, rules *Rules, logger *zap.Logger) *RatingService {
	return &RatingService{
		store:  store,
		rules:  rules,
		logger: logger.Named("rating_service"),
	}
}

// Rate records the caller's rating of a fellow participant of a completed project and
// recomputes the ratee's reputation.
func (s *RatingService) Rate(
	ctx context.Context, caller string, projectID int64, ratee string, rating float64,
) (*types.PeerRating, error) {
	switch {
	case math.IsNaN(rating) || rating < 0 || rating > MaxRating:
		return nil, validation("rating must be between 0 and %.0f", MaxRating)
	case ratee == "":
		return nil, validation("ratee is required")
	case ratee == caller:
		return nil, validation("participants cannot rate themselves")
	}

	var (
		record *types.PeerRating
		score  float64
	)

	err := s.store.Update(ctx, projectID, func(ctx context.Context, tx database.Tx) error {
		if _, err := requireApproved(ctx, tx, caller); err != nil {
			return err
		}

		project, err := tx.Projects().Get(ctx, projectID)
		if err != nil {
			return err
		}

		if project.Status != enum.ProjectStatusCompleted {
			return invalidState("project %d is %s", project.ID, project.Status)
		}

		if !project.HasParticipant(caller) {
			return accessDenied("only participants of project %d may rate", project.ID)
		}

		if !project.HasParticipant(ratee) {
			return validation("%s did not take part in project %d", ratee, project.ID)
		}

		now := s.rules.now()
		if !payout.RatingWindow(project.CompletedAt, s.rules.RatingWindow).Contains(now) {
			return validation("the rating window of project %d has closed", project.ID)
		}

		record = &types.PeerRating{
			ProjectID: projectID,
			Rater:     caller,
			Ratee:     ratee,
			Rating:    rating,
			Timestamp: now,
		}
		if err := tx.Ratings().Insert(ctx, record); err != nil {
			return err
		}

		score, err = s.recompute(ctx, tx, ratee)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	s.logger.Info("Peer rated",
		zap.Int64("projectID", projectID),
		zap.String("rater", caller),
		zap.String("ratee", ratee),
		zap.Float64("rating", rating),
		zap.Float64("reputation", score))

	return record, nil
}

// recompute derives the ratee's reputation from every rating they received and stores it.
// The ratee's profile row is locked first so ratings committed by other projects are seen.
// Ratees without a profile keep no score.
func (s *RatingService) recompute(ctx context.Context, tx database.Tx, ratee string) (float64, error) {
	_, err := tx.Profiles().GetForUpdate(ctx, ratee)
	if err != nil {
		if errors.Is(err, types.ErrProfileNotFound) {
			return 0, nil
		}
		return 0, err
	}

	ratings, err := tx.Ratings().ListByRatee(ctx, ratee)
	if err != nil {
		return 0, err
	}

	windows := make(map[int64]payout.Window)
	mentors := make(map[string]bool)

	for _, rating := range ratings {
		if _, ok := windows[rating.ProjectID]; !ok {
			project, err := tx.Projects().Get(ctx, rating.ProjectID)
			if err != nil {
				return 0, err
			}
			if !project.CompletedAt.IsZero() {
				windows[rating.ProjectID] = payout.RatingWindow(project.CompletedAt, s.rules.RatingWindow)
			}
		}

		if _, ok := mentors[rating.Rater]; !ok {
			rater, err := tx.Profiles().Get(ctx, rating.Rater)
			switch {
			case err == nil:
				mentors[rating.Rater] = rater.IsMentor()
			case errors.Is(err, types.ErrProfileNotFound):
				mentors[rating.Rater] = false
			default:
				return 0, err
			}
		}
	}

	score := payout.Reputation(ratings, windows, mentors)[ratee]

	return score, tx.Profiles().SetReputation(ctx, ratee, score, s.rules.now())
}

// ListPeerRatings returns the ratings given within a project.
func (s *RatingService) ListPeerRatings(ctx context.Context, projectID int64) ([]*types.PeerRating, error) {
	var ratings []*types.PeerRating

	err := s.store.View(ctx, func(ctx context.Context, tx database.Tx) error {
		if _, err := tx.Projects().Get(ctx, projectID); err != nil {
			return err
		}

		var err error
		ratings, err = tx.Ratings().ListByProject(ctx, projectID)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	return ratings, nil
}
