package service

import (
	"context"
	"math"
	"time"

	"github.com/robalyx/squadpledge/internal/database"
	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/robalyx/squadpledge/internal/ledger"
	"github.com/robalyx/squadpledge/internal/payout"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateProjectParams describes a new project.
type CreateProjectParams struct {
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	EstimatedTotalHH   float64         `json:"estimatedTotalHH"`
	FinalMonetaryValue decimal.Decimal `json:"finalMonetaryValue"`
	SharedResourceLink string          `json:"sharedResourceLink"`
	PoolHH             float64         `json:"otherTasksPoolHH"`
}

// ProjectService handles the project lifecycle.
type ProjectService struct {
	store  database.Store
	rules  *Rules
	logger *zap.Logger
}

// NewProject creates a new project service.
func NewProject(store database.Store, rules *Rules, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		store:  store,
		rules:  rules,
		logger: logger.Named("project_service"),
	}
}

// Create opens a new project in pledging together with its pool task.
func (s *ProjectService) Create(ctx context.Context, caller string, params CreateProjectParams) (*types.Project, error) {
	params.Title = cleanText(params.Title)

	switch {
	case params.Title == "":
		return nil, validation("title is required")
	case !validHours(params.EstimatedTotalHH):
		return nil, validation("estimated total HH must be positive")
	case params.FinalMonetaryValue.IsNegative():
		return nil, validation("final monetary value must not be negative")
	case params.PoolHH < 0 || math.IsNaN(params.PoolHH) || math.IsInf(params.PoolHH, 0):
		return nil, validation("pool HH must not be negative")
	case params.PoolHH > params.EstimatedTotalHH+ledger.Epsilon:
		return nil, validation("pool HH must not exceed estimated total HH")
	}

	var project *types.Project

	err := s.store.Update(ctx, database.NoProject, func(ctx context.Context, tx database.Tx) error {
		if _, err := requireApproved(ctx, tx, caller); err != nil {
			return err
		}

		now := s.rules.now()
		project = &types.Project{
			Title:              params.Title,
			Description:        cleanText(params.Description),
			Creator:            caller,
			Participants:       []string{},
			Status:             enum.ProjectStatusPledging,
			EstimatedTotalHH:   params.EstimatedTotalHH,
			FinalMonetaryValue: params.FinalMonetaryValue.Round(2),
			SharedResourceLink: cleanText(params.SharedResourceLink),
			CreatedAt:          now,
		}
		if err := tx.Projects().Insert(ctx, project); err != nil {
			return err
		}

		pool := &types.Task{
			ProjectID:    project.ID,
			Title:        types.PoolTaskTitle,
			HHBudget:     params.PoolHH,
			Status:       enum.TaskStatusTaskConfirmed,
			Dependencies: []int64{},
			IsPool:       true,
			CreatedAt:    now,
		}
		if err := tx.Tasks().Insert(ctx, pool); err != nil {
			return err
		}

		project.PoolTaskID = pool.ID

		return tx.Projects().Update(ctx, project)
	})
	if err != nil {
		return nil, classify(err)
	}

	s.logger.Info("Project created",
		zap.Int64("projectID", project.ID),
		zap.String("creator", caller),
		zap.Float64("capacity", project.EstimatedTotalHH),
		zap.Float64("poolHH", params.PoolHH))

	return project, nil
}

// Activate moves a project from pledging to active. Only available when projects are
// activated explicitly.
func (s *ProjectService) Activate(ctx context.Context, caller string, projectID int64) (*types.Project, error) {
	if s.rules.ActivationMode != enum.ActivationModeExplicit {
		return nil, invalidState("projects activate automatically once the pledge threshold is met")
	}

	var project *types.Project

	err := s.store.Update(ctx, projectID, func(ctx context.Context, tx database.Tx) error {
		access, err := requireApproved(ctx, tx, caller)
		if err != nil {
			return err
		}

		project, err = tx.Projects().Get(ctx, projectID)
		if err != nil {
			return err
		}

		if err := requireOwner(access, project); err != nil {
			return err
		}

		return s.transition(ctx, tx, project, enum.ProjectStatusActive)
	})
	if err != nil {
		return nil, classify(err)
	}

	s.logger.Info("Project activated", zap.Int64("projectID", projectID), zap.String("caller", caller))

	return project, nil
}

// Complete settles an active project: the prize is split over counted pledges and
// the payouts are recorded once.
func (s *ProjectService) Complete(
	ctx context.Context, caller string, projectID int64,
) (*types.Project, []*types.Payout, error) {
	var (
		project *types.Project
		payouts []*types.Payout
	)

	err := s.store.Update(ctx, projectID, func(ctx context.Context, tx database.Tx) error {
		access, err := requireApproved(ctx, tx, caller)
		if err != nil {
			return err
		}

		project, err = tx.Projects().Get(ctx, projectID)
		if err != nil {
			return err
		}

		if err := requireOwner(access, project); err != nil {
			return err
		}

		if err := s.transition(ctx, tx, project, enum.ProjectStatusCompleted); err != nil {
			return err
		}

		pledges, err := tx.Pledges().ListByProject(ctx, projectID)
		if err != nil {
			return err
		}

		shares := payout.Distribute(pledges, project.FinalMonetaryValue)
		payouts = make([]*types.Payout, 0, len(shares))
		for _, share := range shares {
			payouts = append(payouts, &types.Payout{
				ProjectID:   projectID,
				User:        share.User,
				ConfirmedHH: share.ConfirmedHH,
				Share:       share.Share,
				Amount:      share.Amount,
				CreatedAt:   project.CompletedAt,
			})
		}

		return tx.Payouts().InsertMany(ctx, payouts)
	})
	if err != nil {
		return nil, nil, classify(err)
	}

	s.logger.Info("Project completed",
		zap.Int64("projectID", projectID),
		zap.String("caller", caller),
		zap.Int("payouts", len(payouts)))

	return project, payouts, nil
}

// Archive retires a project from any state. Its tasks and challenges are removed;
// pledges, votes, ratings and payouts are kept. Administrator only.
func (s *ProjectService) Archive(ctx context.Context, caller string, projectID int64) (*types.Project, error) {
	var project *types.Project

	err := s.store.Update(ctx, projectID, func(ctx context.Context, tx database.Tx) error {
		if _, err := requireAdmin(ctx, tx, caller); err != nil {
			return err
		}

		var err error
		project, err = tx.Projects().Get(ctx, projectID)
		if err != nil {
			return err
		}

		if err := s.transition(ctx, tx, project, enum.ProjectStatusArchived); err != nil {
			return err
		}

		if err := tx.Challenges().DeleteByProject(ctx, projectID); err != nil {
			return err
		}

		return tx.Tasks().DeleteByProject(ctx, projectID)
	})
	if err != nil {
		return nil, classify(err)
	}

	s.logger.Info("Project archived", zap.Int64("projectID", projectID), zap.String("caller", caller))

	return project, nil
}

// transition moves the project to next and stamps the matching timestamp.
func (s *ProjectService) transition(
	ctx context.Context, tx database.Tx, project *types.Project, next enum.ProjectStatus,
) error {
	if !project.Status.CanTransitionTo(next) {
		return invalidState("project %d cannot move from %s to %s", project.ID, project.Status, next)
	}

	return applyTransition(ctx, tx, project, next, s.rules.now())
}

func applyTransition(
	ctx context.Context, tx database.Tx, project *types.Project, next enum.ProjectStatus, now time.Time,
) error {
	project.Status = next

	switch next {
	case enum.ProjectStatusActive:
		project.ActivatedAt = now
	case enum.ProjectStatusCompleted:
		project.CompletedAt = now
	case enum.ProjectStatusArchived:
		project.ArchivedAt = now
	case enum.ProjectStatusPledging:
	}

	return tx.Projects().Update(ctx, project)
}

// activateIfReady activates a pledging project when threshold activation is enabled and
// the confirmed hours reached the threshold. It reports whether the project was activated.
func activateIfReady(
	ctx context.Context, tx database.Tx, rules *Rules, project *types.Project,
) (bool, error) {
	if rules.ActivationMode != enum.ActivationModeThreshold || project.Status != enum.ProjectStatusPledging {
		return false, nil
	}

	snap, err := snapshot(ctx, tx, project)
	if err != nil {
		return false, err
	}

	if !snap.ActivationReady(rules.ActivationThreshold) {
		return false, nil
	}

	return true, applyTransition(ctx, tx, project, enum.ProjectStatusActive, rules.now())
}

// Get returns a project.
func (s *ProjectService) Get(ctx context.Context, projectID int64) (*types.Project, error) {
	var project *types.Project

	err := s.store.View(ctx, func(ctx context.Context, tx database.Tx) error {
		var err error
		project, err = tx.Projects().Get(ctx, projectID)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	return project, nil
}

// List returns every project.
func (s *ProjectService) List(ctx context.Context) ([]*types.Project, error) {
	var projects []*types.Project

	err := s.store.View(ctx, func(ctx context.Context, tx database.Tx) error {
		var err error
		projects, err = tx.Projects().List(ctx)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	return projects, nil
}

// Ledger returns the current budget snapshot of a project.
func (s *ProjectService) Ledger(ctx context.Context, projectID int64) (*ledger.Snapshot, error) {
	var snap *ledger.Snapshot

	err := s.store.View(ctx, func(ctx context.Context, tx database.Tx) error {
		project, err := tx.Projects().Get(ctx, projectID)
		if err != nil {
			return err
		}

		snap, err = snapshot(ctx, tx, project)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	return snap, nil
}

// ListPayouts returns the recorded settlement of a project.
func (s *ProjectService) ListPayouts(ctx context.Context, projectID int64) ([]*types.Payout, error) {
	var payouts []*types.Payout

	err := s.store.View(ctx, func(ctx context.Context, tx database.Tx) error {
		if _, err := tx.Projects().Get(ctx, projectID); err != nil {
			return err
		}

		var err error
		payouts, err = tx.Payouts().ListByProject(ctx, projectID)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	return payouts, nil
}
