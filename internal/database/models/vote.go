package models

import (
	"context"
	"fmt"

	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// VoteModel handles database operations for votes.
type VoteModel struct {
	db     bun.IDB
	logger *zap.Logger
}

// NewVote creates a VoteModel.
func NewVote(db bun.IDB, logger *zap.Logger) *VoteModel {
	return &VoteModel{
		db:     db,
		logger: logger.Named("db_vote"),
	}
}

// Insert appends a vote.
func (r *VoteModel) Insert(ctx context.Context, vote *types.Vote) error {
	_, err := r.db.NewInsert().
		Model(vote).
		Returning("id").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrVoteExists
		}

		return fmt.Errorf("failed to insert vote: %w", err)
	}

	return nil
}

// ListByTarget retrieves the votes of one kind cast on a target, oldest first.
func (r *VoteModel) ListByTarget(ctx context.Context, targetID int64, kind enum.VoteKind) ([]*types.Vote, error) {
	var votes []*types.Vote

	err := r.db.NewSelect().
		Model(&votes).
		Where("target_id = ?", targetID).
		Where("kind = ?", kind).
		Order("id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}

	return votes, nil
}

// RatingModel handles database operations for peer ratings.
type RatingModel struct {
	db     bun.IDB
	logger *zap.Logger
}

// NewRating creates a RatingModel.
func NewRating(db bun.IDB, logger *zap.Logger) *RatingModel {
	return &RatingModel{
		db:     db,
		logger: logger.Named("db_rating"),
	}
}

// Insert records a peer rating.
func (r *RatingModel) Insert(ctx context.Context, rating *types.PeerRating) error {
	_, err := r.db.NewInsert().
		Model(rating).
		Returning("id").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrRatingExists
		}

		return fmt.Errorf("failed to insert rating: %w", err)
	}

	return nil
}

// ListByProject retrieves the ratings given in a project.
func (r *RatingModel) ListByProject(ctx context.Context, projectID int64) ([]*types.PeerRating, error) {
	var ratings []*types.PeerRating

	err := r.db.NewSelect().
		Model(&ratings).
		Where("project_id = ?", projectID).
		Order("id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	return ratings, nil
}

// ListByRatee retrieves every rating received by an identity.
func (r *RatingModel) ListByRatee(ctx context.Context, ratee string) ([]*types.PeerRating, error) {
	var ratings []*types.PeerRating

	err := r.db.NewSelect().
		Model(&ratings).
		Where("ratee = ?", ratee).
		Order("id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	return ratings, nil
}
