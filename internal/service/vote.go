package service

import (
	"context"

	"github.com/robalyx/squadpledge/internal/database"
	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"go.uber.org/zap"
)

// VoteService records weighted votes.
type VoteService struct {
	store  database.Store
	rules  *Rules
	logger *zap.Logger
}

// NewVote creates a new vote service.
func NewVote(store database.Store, rules *Rules, logger *zap.Logger) *VoteService {
	return &VoteService{
		store:  store,
		rules:  rules,
		logger: logger.Named("vote_service"),
	}
}

// Cast records the caller's vote of kind on targetID. Task proposal and challenge votes
// target tasks; final prize votes target projects. The vote carries the caller's voting
// power at the time it is cast.
func (s *VoteService) Cast(
	ctx context.Context, caller string, targetID int64, kind enum.VoteKind,
) (*types.Vote, error) {
	if !kind.IsAVoteKind() {
		return nil, validation("unknown vote kind %d", kind)
	}

	projectID := targetID
	if kind != enum.VoteKindFinalPrize {
		var err error
		projectID, err = projectOf(ctx, s.store, func(ctx context.Context, tx database.Tx) (int64, error) {
			task, err := tx.Tasks().Get(ctx, targetID)
			if err != nil {
				return 0, err
			}
			return task.ProjectID, nil
		})
		if err != nil {
			return nil, err
		}
	}

	var vote *types.Vote

	err := s.store.Update(ctx, projectID, func(ctx context.Context, tx database.Tx) error {
		if _, err := requireApproved(ctx, tx, caller); err != nil {
			return err
		}

		profile, err := requireProfile(ctx, tx, caller)
		if err != nil {
			return err
		}

		project, err := tx.Projects().Get(ctx, projectID)
		if err != nil {
			return err
		}

		if project.Status == enum.ProjectStatusArchived {
			return invalidState("project %d is archived", project.ID)
		}

		if !project.HasParticipant(caller) && !project.IsOwner(caller) {
			return accessDenied("only participants of project %d may vote", project.ID)
		}

		if err := s.checkTarget(ctx, tx, targetID, kind); err != nil {
			return err
		}

		vote = &types.Vote{
			TargetID:  targetID,
			Voter:     caller,
			Kind:      kind,
			Weight:    profile.VotingPower(),
			Timestamp: s.rules.now(),
		}

		return tx.Votes().Insert(ctx, vote)
	})
	if err != nil {
		return nil, classify(err)
	}

	s.logger.Info("Vote cast",
		zap.Int64("targetID", targetID),
		zap.String("kind", kind.String()),
		zap.String("voter", caller),
		zap.Int("weight", vote.Weight))

	return vote, nil
}

// checkTarget requires a task target to be in the status its vote kind applies to.
func (s *VoteService) checkTarget(ctx context.Context, tx database.Tx, targetID int64, kind enum.VoteKind) error {
	var want enum.TaskStatus

	switch kind {
	case enum.VoteKindTaskProposal:
		want = enum.TaskStatusProposed
	case enum.VoteKindChallenge:
		want = enum.TaskStatusPendingConfirmation
	case enum.VoteKindFinalPrize:
		return nil
	}

	task, err := tx.Tasks().Get(ctx, targetID)
	if err != nil {
		return err
	}

	if task.Status != want {
		return invalidState("task %d is %s", task.ID, task.Status)
	}

	return nil
}

// List returns the votes of kind cast on targetID.
func (s *VoteService) List(ctx context.Context, targetID int64, kind enum.VoteKind) ([]*types.Vote, error) {
	var votes []*types.Vote

	err := s.store.View(ctx, func(ctx context.Context, tx database.Tx) error {
		var err error
		votes, err = tx.Votes().ListByTarget(ctx, targetID, kind)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	return votes, nil
}
