package models

import (
	"context"
	"fmt"

	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// PayoutModel handles database operations for settled payouts.
type PayoutModel struct {
	db     bun.IDB
	logger *zap.Logger
}

// NewPayout creates a PayoutModel.
func NewPayout(db bun.IDB, logger *zap.Logger) *PayoutModel {
	return &PayoutModel{
		db:     db,
		logger: logger.Named("db_payout"),
	}
}

// InsertMany records the payouts of a project settlement.
func (r *PayoutModel) InsertMany(ctx context.Context, payouts []*types.Payout) error {
	if len(payouts) == 0 {
		return nil
	}

	_, err := r.db.NewInsert().
		Model(&payouts).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert payouts: %w", err)
	}

	r.logger.Debug("Recorded payouts",
		zap.Int64("projectID", payouts[0].ProjectID),
		zap.Int("count", len(payouts)))

	return nil
}

// ListByProject retrieves the payouts of a project ordered by user.
func (r *PayoutModel) ListByProject(ctx context.Context, projectID int64) ([]*types.Payout, error) {
	var payouts []*types.Payout

	err := r.db.NewSelect().
		Model(&payouts).
		Where("project_id = ?", projectID).
		OrderExpr("? ASC", bun.Ident("user")).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}

	return payouts, nil
}

// ListSettledProjects returns the IDs of projects with recorded payouts.
func (r *PayoutModel) ListSettledProjects(ctx context.Context) ([]int64, error) {
	var ids []int64

	err := r.db.NewSelect().
		Model((*types.Payout)(nil)).
		ColumnExpr("DISTINCT project_id").
		Order("project_id").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list settled projects: %w", err)
	}

	return ids, nil
}
