package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ProfileModel handles database operations for member profiles.
type ProfileModel struct {
	db     bun.IDB
	logger *zap.Logger
}

// NewProfile creates a ProfileModel.
func NewProfile(db bun.IDB, logger *zap.Logger) *ProfileModel {
	return &ProfileModel{
		db:     db,
		logger: logger.Named("db_profile"),
	}
}

// Get retrieves a profile by identity.
func (r *ProfileModel) Get(ctx context.Context, identity string) (*types.UserProfile, error) {
	var profile types.UserProfile

	err := r.db.NewSelect().
		Model(&profile).
		Where("identity = ?", identity).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrProfileNotFound
		}

		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// GetForUpdate retrieves a profile and locks its row until the transaction ends.
func (r *ProfileModel) GetForUpdate(ctx context.Context, identity string) (*types.UserProfile, error) {
	var profile types.UserProfile

	err := r.db.NewSelect().
		Model(&profile).
		Where("identity = ?", identity).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrProfileNotFound
		}

		return nil, fmt.Errorf("failed to lock profile: %w", err)
	}

	return &profile, nil
}

// Insert registers a new profile.
func (r *ProfileModel) Insert(ctx context.Context, profile *types.UserProfile) error {
	_, err := r.db.NewInsert().
		Model(profile).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrProfileExists
		}

		return fmt.Errorf("failed to insert profile: %w", err)
	}

	r.logger.Debug("Registered profile", zap.String("identity", profile.Identity))

	return nil
}

// Update saves the editable profile fields. Counters and the reputation score are
// written only by AddTotals and SetReputation.
func (r *ProfileModel) Update(ctx context.Context, profile *types.UserProfile) error {
	result, err := r.db.NewUpdate().
		Model(profile).
		Column("display_name", "profile_picture", "participation_level", "participation_level_locked",
			"updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return types.ErrProfileNotFound
	}

	return nil
}

// AddTotals increments the hour counters in place so concurrent projects never lose an update.
func (r *ProfileModel) AddTotals(
	ctx context.Context, identity string, pledgedHH, earnedHH float64, updatedAt time.Time,
) error {
	result, err := r.db.NewUpdate().
		Model((*types.UserProfile)(nil)).
		Set("total_pledged_hh = total_pledged_hh + ?", pledgedHH).
		Set("total_earned_hh = total_earned_hh + ?", earnedHH).
		Set("updated_at = ?", updatedAt).
		Where("identity = ?", identity).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to add profile totals: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return types.ErrProfileNotFound
	}

	return nil
}

// SetReputation stores a recomputed reputation score.
func (r *ProfileModel) SetReputation(ctx context.Context, identity string, score float64, updatedAt time.Time) error {
	result, err := r.db.NewUpdate().
		Model((*types.UserProfile)(nil)).
		Set("overall_reputation_score = ?", score).
		Set("updated_at = ?", updatedAt).
		Where("identity = ?", identity).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set reputation: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return types.ErrProfileNotFound
	}

	return nil
}

// List retrieves every profile ordered by identity.
func (r *ProfileModel) List(ctx context.Context) ([]*types.UserProfile, error) {
	var profiles []*types.UserProfile

	err := r.db.NewSelect().
		Model(&profiles).
		Order("identity").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return profiles, nil
}
