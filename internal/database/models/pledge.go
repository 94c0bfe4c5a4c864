package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// PledgeModel handles database operations for pledges.
type PledgeModel struct {
	db     bun.IDB
	logger *zap.Logger
}

// NewPledge creates a PledgeModel.
func NewPledge(db bun.IDB, logger *zap.Logger) *PledgeModel {
	return &PledgeModel{
		db:     db,
		logger: logger.Named("db_pledge"),
	}
}

// Insert creates a pledge and assigns its ID.
func (r *PledgeModel) Insert(ctx context.Context, pledge *types.Pledge) error {
	_, err := r.db.NewInsert().
		Model(pledge).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert pledge: %w", err)
	}

	return nil
}

// Get retrieves a pledge by ID.
func (r *PledgeModel) Get(ctx context.Context, id int64) (*types.Pledge, error) {
	var pledge types.Pledge

	err := r.db.NewSelect().
		Model(&pledge).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrPledgeNotFound
		}

		return nil, fmt.Errorf("failed to get pledge: %w", err)
	}

	return &pledge, nil
}

// Update saves the lifecycle fields of a pledge.
func (r *PledgeModel) Update(ctx context.Context, pledge *types.Pledge) error {
	result, err := r.db.NewUpdate().
		Model(pledge).
		Column("task_id", "reassigned_from", "status", "confirmed_at", "confirmed_by", "expired_at", "reassigned_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update pledge: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return types.ErrPledgeNotFound
	}

	return nil
}

// ListByProject retrieves the pledges of a project ordered by ID.
func (r *PledgeModel) ListByProject(ctx context.Context, projectID int64) ([]*types.Pledge, error) {
	var pledges []*types.Pledge

	err := r.db.NewSelect().
		Model(&pledges).
		Where("project_id = ?", projectID).
		Order("id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pledges: %w", err)
	}

	return pledges, nil
}

// ListPendingBefore retrieves pending pledges created before cutoff.
func (r *PledgeModel) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]*types.Pledge, error) {
	var pledges []*types.Pledge

	err := r.db.NewSelect().
		Model(&pledges).
		Where("status = ?", enum.PledgeStatusPending).
		Where("created_at < ?", cutoff).
		Order("project_id", "id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending pledges: %w", err)
	}

	return pledges, nil
}
