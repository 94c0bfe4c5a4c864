package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// AccessModel handles database operations for roles and approvals.
type AccessModel struct {
	db     bun.IDB
	logger *zap.Logger
}

// NewAccess creates an AccessModel.
func NewAccess(db bun.IDB, logger *zap.Logger) *AccessModel {
	return &AccessModel{
		db:     db,
		logger: logger.Named("db_access"),
	}
}

// GetRole returns the role of an identity, defaulting to guest.
func (r *AccessModel) GetRole(ctx context.Context, identity string) (enum.UserRole, error) {
	var role types.UserRole

	err := r.db.NewSelect().
		Model(&role).
		Where("identity = ?", identity).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return enum.UserRoleGuest, nil
		}

		return enum.UserRoleGuest, fmt.Errorf("failed to get role: %w", err)
	}

	return role.Role, nil
}

// SaveRole creates or replaces the role of an identity.
func (r *AccessModel) SaveRole(ctx context.Context, role *types.UserRole) error {
	_, err := r.db.NewInsert().
		Model(role).
		On("CONFLICT (identity) DO UPDATE").
		Set("role = EXCLUDED.role").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save role: %w", err)
	}

	r.logger.Debug("Saved role",
		zap.String("identity", role.Identity),
		zap.String("role", role.Role.String()))

	return nil
}

// CountAdmins returns the number of identities holding the admin role.
func (r *AccessModel) CountAdmins(ctx context.Context) (int, error) {
	count, err := r.db.NewSelect().
		Model((*types.UserRole)(nil)).
		Where("role = ?", enum.UserRoleAdmin).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}

	return count, nil
}

// GetApproval retrieves the approval record of an identity.
func (r *AccessModel) GetApproval(ctx context.Context, identity string) (*types.UserApproval, error) {
	var approval types.UserApproval

	err := r.db.NewSelect().
		Model(&approval).
		Where("identity = ?", identity).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrApprovalNotFound
		}

		return nil, fmt.Errorf("failed to get approval: %w", err)
	}

	return &approval, nil
}

// SaveApproval creates or replaces an approval record.
func (r *AccessModel) SaveApproval(ctx context.Context, approval *types.UserApproval) error {
	_, err := r.db.NewInsert().
		Model(approval).
		On("CONFLICT (identity) DO UPDATE").
		Set("status = EXCLUDED.status").
		Set("requested_at = EXCLUDED.requested_at").
		Set("decided_at = EXCLUDED.decided_at").
		Set("decided_by = EXCLUDED.decided_by").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save approval: %w", err)
	}

	return nil
}

// ListApprovals retrieves every approval record ordered by identity.
func (r *AccessModel) ListApprovals(ctx context.Context) ([]*types.UserApproval, error) {
	var approvals []*types.UserApproval

	err := r.db.NewSelect().
		Model(&approvals).
		Order("identity").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals: %w", err)
	}

	return approvals, nil
}
