package service

import (
	"context"
	"slices"

	"github.com/robalyx/squadpledge/internal/database"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"go.uber.org/zap"
)

// SweepResult counts what one project sweep changed.
type SweepResult struct {
	Expired   int  `json:"expired"`
	Resolved  int  `json:"resolved"`
	Activated bool `json:"activated"`
}

// Changed reports whether the sweep changed anything.
func (r SweepResult) Changed() bool {
	return r.Expired > 0 || r.Resolved > 0 || r.Activated
}

// Add accumulates other into r.
func (r *SweepResult) Add(other SweepResult) {
	r.Expired += other.Expired
	r.Resolved += other.Resolved
	r.Activated = r.Activated || other.Activated
}

// SweepService runs the time-driven transitions: pledge expiry, challenge resolution
// and threshold activation.
type SweepService struct {
	store  database.Store
	rules  *Rules
	logger *zap.Logger
}

// NewSweep creates a new sweep service.
func NewSweep(store database.Store, rules *Rules, logger *zap.Logger) *SweepService {
	return &SweepService{
		store:  store,
		rules:  rules,
		logger: logger.Named("sweep_service"),
	}
}

// ProjectsToSweep returns the IDs of projects that may have due transitions: every open
// project plus any project still holding an expirable pledge.
func (s *SweepService) ProjectsToSweep(ctx context.Context) ([]int64, error) {
	var ids []int64

	err := s.store.View(ctx, func(ctx context.Context, tx database.Tx) error {
		projects, err := tx.Projects().ListByStatus(ctx, enum.ProjectStatusPledging, enum.ProjectStatusActive)
		if err != nil {
			return err
		}

		seen := make(map[int64]struct{}, len(projects))
		for _, project := range projects {
			seen[project.ID] = struct{}{}
		}

		cutoff := s.rules.now().Add(-s.rules.PledgeExpiry)
		pledges, err := tx.Pledges().ListPendingBefore(ctx, cutoff)
		if err != nil {
			return err
		}

		for _, pledge := range pledges {
			seen[pledge.ProjectID] = struct{}{}
		}

		ids = make([]int64, 0, len(seen))
		for id := range seen {
			ids = append(ids, id)
		}
		slices.Sort(ids)

		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	return ids, nil
}

// SweepProject applies the due transitions of one project in a single transaction.
// Every record is re-read under the project lock so repeated sweeps change nothing.
func (s *SweepService) SweepProject(ctx context.Context, projectID int64) (SweepResult, error) {
	var result SweepResult

	err := s.store.Update(ctx, projectID, func(ctx context.Context, tx database.Tx) error {
		result = SweepResult{}

		var err error
		result.Expired, err = expirePledges(ctx, tx, s.rules, projectID)
		if err != nil {
			return err
		}

		project, err := tx.Projects().Get(ctx, projectID)
		if err != nil {
			return err
		}

		if project.Status == enum.ProjectStatusArchived {
			return nil
		}

		result.Resolved, err = resolveChallenges(ctx, tx, s.rules, projectID)
		if err != nil {
			return err
		}

		result.Activated, err = activateIfReady(ctx, tx, s.rules, project)
		return err
	})
	if err != nil {
		return SweepResult{}, classify(err)
	}

	if result.Changed() {
		s.logger.Info("Swept project",
			zap.Int64("projectID", projectID),
			zap.Int("expired", result.Expired),
			zap.Int("resolved", result.Resolved),
			zap.Bool("activated", result.Activated))
	}

	return result, nil
}

// Sweep sweeps every due project one after another. A failing project is logged and
// skipped; only a failure to list projects is returned.
func (s *SweepService) Sweep(ctx context.Context) (SweepResult, error) {
	ids, err := s.ProjectsToSweep(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	var total SweepResult
	for _, id := range ids {
		if ctx.Err() != nil {
			return total, ctx.Err()
		}

		result, err := s.SweepProject(ctx, id)
		if err != nil {
			s.logger.Error("Failed to sweep project", zap.Int64("projectID", id), zap.Error(err))
			continue
		}

		total.Add(result)
	}

	return total, nil
}
