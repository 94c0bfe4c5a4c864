package service

import (
	"context"

	"github.com/robalyx/squadpledge/internal/database"
	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"go.uber.org/zap"
)

// PledgeTarget selects what a pledge is made to: a task, or the project's pool.
type PledgeTarget struct {
	TaskID int64 `json:"taskId,omitempty"`
	Pool   bool  `json:"pool,omitempty"`
}

// PledgeService handles the pledge lifecycle.
type PledgeService struct {
	store  database.Store
	rules  *Rules
	logger *zap.Logger
}

// NewPledge creates a new pledge service.
func NewPledge(store database.Store, rules *Rules, logger *zap.Logger) *PledgeService {
	return &PledgeService{
		store:  store,
		rules:  rules,
		logger: logger.Named("pledge_service"),
	}
}

// Pledge reserves amount hours of the caller on a task or the pool of a pledging project.
func (s *PledgeService) Pledge(
	ctx context.Context, caller string, projectID int64, target PledgeTarget, amount float64,
) (*types.Pledge, error) {
	switch {
	case !validHours(amount):
		return nil, validation("pledge amount must be positive")
	case target.Pool == (target.TaskID != 0):
		return nil, validation("pledge to either a task or the pool")
	}

	var pledge *types.Pledge

	err := s.store.Update(ctx, projectID, func(ctx context.Context, tx database.Tx) error {
		if _, err := requireApproved(ctx, tx, caller); err != nil {
			return err
		}

		if _, err := requireProfile(ctx, tx, caller); err != nil {
			return err
		}

		project, err := tx.Projects().Get(ctx, projectID)
		if err != nil {
			return err
		}

		if project.Status != enum.ProjectStatusPledging {
			return invalidState("project %d is %s and no longer takes pledges", project.ID, project.Status)
		}

		taskID := target.TaskID
		if target.Pool {
			taskID = project.PoolTaskID
		}

		task, err := tx.Tasks().Get(ctx, taskID)
		if err != nil {
			return err
		}
		if task.ProjectID != projectID {
			return validation("task %d is not part of project %d", task.ID, projectID)
		}
		if task.Status.Terminal() {
			return invalidState("task %d is %s", task.ID, task.Status)
		}

		snap, err := snapshot(ctx, tx, project)
		if err != nil {
			return err
		}

		if err := snap.CheckPledge(taskID, amount); err != nil {
			return err
		}

		pledge = &types.Pledge{
			ProjectID: projectID,
			User:      caller,
			TaskID:    taskID,
			Amount:    amount,
			Status:    enum.PledgeStatusPending,
			CreatedAt: s.rules.now(),
		}
		if err := tx.Pledges().Insert(ctx, pledge); err != nil {
			return err
		}

		if project.AddParticipant(caller) {
			return tx.Projects().Update(ctx, project)
		}

		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	s.logger.Info("Pledge created",
		zap.Int64("projectID", projectID),
		zap.Int64("pledgeID", pledge.ID),
		zap.Int64("taskID", pledge.TaskID),
		zap.String("user", caller),
		zap.Float64("amount", amount))

	return pledge, nil
}

// Confirm commits a pending pledge. The pledger's pledged hours grow by its amount and,
// under threshold activation, the project may become active.
func (s *PledgeService) Confirm(ctx context.Context, caller string, pledgeID int64) (*types.Pledge, error) {
	var activated bool

	pledge, err := s.mutate(ctx, caller, pledgeID, func(
		ctx context.Context, tx database.Tx, project *types.Project, pledge *types.Pledge,
	) error {
		if pledge.Status != enum.PledgeStatusPending {
			return invalidState("pledge %d is %s", pledge.ID, pledge.Status)
		}

		now := s.rules.now()
		if pledge.IsExpiredAt(now, s.rules.PledgeExpiry) {
			return invalidState("pledge %d expired at %s", pledge.ID, pledge.ExpiresAt(s.rules.PledgeExpiry))
		}

		task, err := tx.Tasks().Get(ctx, pledge.TaskID)
		if err != nil {
			return err
		}
		if !task.IsPool && !task.Status.Confirmed() {
			return invalidState("task %d must be confirmed before its pledges", task.ID)
		}

		pledge.Status = enum.PledgeStatusConfirmed
		pledge.ConfirmedAt = now
		pledge.ConfirmedBy = caller
		if err := tx.Pledges().Update(ctx, pledge); err != nil {
			return err
		}

		if err := tx.Profiles().AddTotals(ctx, pledge.User, pledge.Amount, 0, now); err != nil {
			return err
		}

		activated, err = activateIfReady(ctx, tx, s.rules, project)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Pledge confirmed",
		zap.Int64("pledgeID", pledgeID),
		zap.String("user", pledge.User),
		zap.String("caller", caller),
		zap.Float64("amount", pledge.Amount))

	if activated {
		s.logger.Info("Project activated at threshold", zap.Int64("projectID", pledge.ProjectID))
	}

	return pledge, nil
}

// Reassign moves a confirmed pool pledge onto a regular task of the same project.
func (s *PledgeService) Reassign(
	ctx context.Context, caller string, pledgeID, taskID int64,
) (*types.Pledge, error) {
	pledge, err := s.mutate(ctx, caller, pledgeID, func(
		ctx context.Context, tx database.Tx, project *types.Project, pledge *types.Pledge,
	) error {
		if pledge.Status != enum.PledgeStatusConfirmed || pledge.TaskID != project.PoolTaskID {
			return invalidState("only confirmed pool pledges can be reassigned")
		}

		task, err := tx.Tasks().Get(ctx, taskID)
		if err != nil {
			return err
		}
		switch {
		case task.ProjectID != project.ID:
			return validation("task %d is not part of project %d", task.ID, project.ID)
		case task.IsPool:
			return validation("pledge already targets the pool")
		case task.Status.Terminal():
			return invalidState("task %d is %s", task.ID, task.Status)
		case !task.Status.Confirmed():
			return invalidState("task %d must be confirmed before pledges move onto it", task.ID)
		}

		snap, err := snapshot(ctx, tx, project)
		if err != nil {
			return err
		}

		if err := snap.CheckReassign(taskID, pledge.Amount); err != nil {
			return err
		}

		pledge.ReassignedFrom = pledge.TaskID
		pledge.TaskID = taskID
		pledge.Status = enum.PledgeStatusReassigned
		pledge.ReassignedAt = s.rules.now()

		return tx.Pledges().Update(ctx, pledge)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Pledge reassigned",
		zap.Int64("pledgeID", pledgeID),
		zap.Int64("taskID", taskID),
		zap.String("caller", caller))

	return pledge, nil
}

type pledgeMutation func(ctx context.Context, tx database.Tx, project *types.Project, pledge *types.Pledge) error

// mutate runs fn on a freshly read pledge under its project's lock. The caller must be
// the project creator or an admin and the project must accept changes.
func (s *PledgeService) mutate(
	ctx context.Context, caller string, pledgeID int64, fn pledgeMutation,
) (*types.Pledge, error) {
	projectID, err := projectOf(ctx, s.store, func(ctx context.Context, tx database.Tx) (int64, error) {
		pledge, err := tx.Pledges().Get(ctx, pledgeID)
		if err != nil {
			return 0, err
		}
		return pledge.ProjectID, nil
	})
	if err != nil {
		return nil, err
	}

	var pledge *types.Pledge

	err = s.store.Update(ctx, projectID, func(ctx context.Context, tx database.Tx) error {
		access, err := requireApproved(ctx, tx, caller)
		if err != nil {
			return err
		}

		project, err := tx.Projects().Get(ctx, projectID)
		if err != nil {
			return err
		}

		if err := requireOwner(access, project); err != nil {
			return err
		}

		if err := requireOpen(project); err != nil {
			return err
		}

		pledge, err = tx.Pledges().Get(ctx, pledgeID)
		if err != nil {
			return err
		}

		return fn(ctx, tx, project, pledge)
	})
	if err != nil {
		return nil, classify(err)
	}

	return pledge, nil
}

// Get returns a pledge.
func (s *PledgeService) Get(ctx context.Context, pledgeID int64) (*types.Pledge, error) {
	var pledge *types.Pledge

	err := s.store.View(ctx, func(ctx context.Context, tx database.Tx) error {
		var err error
		pledge, err = tx.Pledges().Get(ctx, pledgeID)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	return pledge, nil
}

// List returns every pledge of a project in creation order.
func (s *PledgeService) List(ctx context.Context, projectID int64) ([]*types.Pledge, error) {
	var pledges []*types.Pledge

	err := s.store.View(ctx, func(ctx context.Context, tx database.Tx) error {
		if _, err := tx.Projects().Get(ctx, projectID); err != nil {
			return err
		}

		var err error
		pledges, err = tx.Pledges().ListByProject(ctx, projectID)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	return pledges, nil
}

// expirePledges marks the project's pending pledges past their expiry as expired.
// Pledges in any other status are left alone.
func expirePledges(ctx context.Context, tx database.Tx, rules *Rules, projectID int64) (int, error) {
	pledges, err := tx.Pledges().ListByProject(ctx, projectID)
	if err != nil {
		return 0, err
	}

	now := rules.now()
	expired := 0

	for _, pledge := range pledges {
		if !pledge.IsExpiredAt(now, rules.PledgeExpiry) {
			continue
		}

		pledge.Status = enum.PledgeStatusExpired
		pledge.ExpiredAt = now
		if err := tx.Pledges().Update(ctx, pledge); err != nil {
			return expired, err
		}

		expired++
	}

	return expired, nil
}
