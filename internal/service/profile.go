package service

import (
	"context"

	"github.com/robalyx/squadpledge/internal/database"
	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"go.uber.org/zap"
)

// ProfileService handles member registration and profile edits.
type ProfileService struct {
	store  database.Store
	rules  *Rules
	logger *zap.Logger
}

// NewProfile creates a new profile service.
func NewProfile(store database.Store, rules *Rules, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		store:  store,
		rules:  rules,
		logger: logger.Named("profile_service"),
	}
}

// Register creates the caller's profile. The participation level is locked afterwards
// and can only be changed by an administrator.
func (s *ProfileService) Register(
	ctx context.Context, caller, displayName string, squadRole enum.SquadRole, level enum.ParticipationLevel,
) (*types.UserProfile, error) {
	displayName = cleanText(displayName)
	if displayName == "" {
		return nil, validation("display name is required")
	}

	if !squadRole.IsASquadRole() || !level.IsAParticipationLevel() {
		return nil, validation("unknown squad role or participation level")
	}

	if !squadRole.Allows(level) {
		return nil, validation("participation level %s is not allowed for squad role %s",
			level, squadRole.DisplayName())
	}

	var profile *types.UserProfile

	err := s.store.Update(ctx, database.NoProject, func(ctx context.Context, tx database.Tx) error {
		if _, err := requireMember(ctx, tx, caller); err != nil {
			return err
		}

		now := s.rules.now()
		profile = &types.UserProfile{
			Identity:                 caller,
			DisplayName:              displayName,
			SquadRole:                squadRole,
			ParticipationLevel:       level,
			ParticipationLevelLocked: true,
			CreatedAt:                now,
			UpdatedAt:                now,
		}

		return tx.Profiles().Insert(ctx, profile)
	})
	if err != nil {
		return nil, classify(err)
	}

	s.logger.Info("Registered member",
		zap.String("identity", caller),
		zap.String("squadRole", squadRole.String()),
		zap.String("level", level.String()))

	return profile, nil
}

// UpdateProfile changes the caller's display name and picture. Levels and scores are untouched.
func (s *ProfileService) UpdateProfile(
	ctx context.Context, caller, displayName, profilePicture string,
) (*types.UserProfile, error) {
	displayName = cleanText(displayName)
	if displayName == "" {
		return nil, validation("display name is required")
	}

	var profile *types.UserProfile

	err := s.store.Update(ctx, database.NoProject, func(ctx context.Context, tx database.Tx) error {
		if _, err := requireMember(ctx, tx, caller); err != nil {
			return err
		}

		var err error
		profile, err = tx.Profiles().GetForUpdate(ctx, caller)
		if err != nil {
			return err
		}

		profile.DisplayName = displayName
		profile.ProfilePicture = cleanText(profilePicture)
		profile.UpdatedAt = s.rules.now()

		return tx.Profiles().Update(ctx, profile)
	})
	if err != nil {
		return nil, classify(err)
	}

	return profile, nil
}

// UpdateParticipationLevel changes a member's level. Administrator only.
func (s *ProfileService) UpdateParticipationLevel(
	ctx context.Context, caller, identity string, level enum.ParticipationLevel,
) (*types.UserProfile, error) {
	if !level.IsAParticipationLevel() {
		return nil, validation("unknown participation level")
	}

	var profile *types.UserProfile

	err := s.store.Update(ctx, database.NoProject, func(ctx context.Context, tx database.Tx) error {
		if _, err := requireAdmin(ctx, tx, caller); err != nil {
			return err
		}

		var err error
		profile, err = tx.Profiles().GetForUpdate(ctx, identity)
		if err != nil {
			return err
		}

		if !profile.SquadRole.Allows(level) {
			return validation("participation level %s is not allowed for squad role %s",
				level, profile.SquadRole.DisplayName())
		}

		profile.ParticipationLevel = level
		profile.ParticipationLevelLocked = true
		profile.UpdatedAt = s.rules.now()

		return tx.Profiles().Update(ctx, profile)
	})
	if err != nil {
		return nil, classify(err)
	}

	s.logger.Info("Participation level updated",
		zap.String("caller", caller),
		zap.String("identity", identity),
		zap.String("level", level.String()))

	return profile, nil
}

// GetProfile returns the profile of identity.
func (s *ProfileService) GetProfile(ctx context.Context, identity string) (*types.UserProfile, error) {
	var profile *types.UserProfile

	err := s.store.View(ctx, func(ctx context.Context, tx database.Tx) error {
		var err error
		profile, err = tx.Profiles().Get(ctx, identity)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	return profile, nil
}

// ListProfiles returns every profile. Administrator only.
func (s *ProfileService) ListProfiles(ctx context.Context, caller string) ([]*types.UserProfile, error) {
	var profiles []*types.UserProfile

	err := s.store.View(ctx, func(ctx context.Context, tx database.Tx) error {
		if _, err := requireAdmin(ctx, tx, caller); err != nil {
			return err
		}

		var err error
		profiles, err = tx.Profiles().List(ctx)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	return profiles, nil
}
