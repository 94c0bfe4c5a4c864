package service

import (
	"context"
	"errors"

	"github.com/robalyx/squadpledge/internal/database"
	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"go.uber.org/zap"
)

// AccessService handles roles and approval requests.
type AccessService struct {
	store  database.Store
	rules  *Rules
	logger *zap.Logger
}

// NewAccess creates a new access service.
func NewAccess(store database.Store, rules *Rules, logger *zap.Logger) *AccessService {
	return &AccessService{
		store:  store,
		rules:  rules,
		logger: logger.Named("access_service"),
	}
}

// ResolveAccess returns the role, approval status and tier of identity.
func (s *AccessService) ResolveAccess(ctx context.Context, identity string) (*types.Access, error) {
	var access *types.Access

	err := s.store.View(ctx, func(ctx context.Context, tx database.Tx) error {
		var err error
		access, err = resolveAccess(ctx, tx, identity)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	return access, nil
}

// IsCallerAdmin reports whether identity holds the admin role.
func (s *AccessService) IsCallerAdmin(ctx context.Context, identity string) (bool, error) {
	access, err := s.ResolveAccess(ctx, identity)
	if err != nil {
		return false, err
	}

	return access.IsAdmin(), nil
}

// IsCallerApproved reports whether identity may use member operations.
func (s *AccessService) IsCallerApproved(ctx context.Context, identity string) (bool, error) {
	access, err := s.ResolveAccess(ctx, identity)
	if err != nil {
		return false, err
	}

	return access.IsApproved(), nil
}

// InitializeAccessControl gives identity its first role. The first caller while no
// administrator exists becomes admin and everyone after becomes a user. Callers that
// already hold a role are left unchanged.
func (s *AccessService) InitializeAccessControl(ctx context.Context, identity string) (*types.Access, error) {
	if identity == "" {
		return nil, accessDenied("missing caller identity")
	}

	var access *types.Access

	err := s.store.Update(ctx, database.NoProject, func(ctx context.Context, tx database.Tx) error {
		role, err := tx.Access().GetRole(ctx, identity)
		if err != nil {
			return err
		}

		if role == enum.UserRoleGuest {
			admins, err := tx.Access().CountAdmins(ctx)
			if err != nil {
				return err
			}

			role = enum.UserRoleUser
			if admins == 0 {
				role = enum.UserRoleAdmin
			}

			err = tx.Access().SaveRole(ctx, &types.UserRole{
				Identity:  identity,
				Role:      role,
				UpdatedAt: s.rules.now(),
			})
			if err != nil {
				return err
			}

			s.logger.Info("Initialized access",
				zap.String("identity", identity),
				zap.String("role", role.String()))
		}

		access, err = resolveAccess(ctx, tx, identity)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	return access, nil
}

// BootstrapAdmins grants the admin role to every listed identity.
func (s *AccessService) BootstrapAdmins(ctx context.Context, identities []string) error {
	if len(identities) == 0 {
		return nil
	}

	err := s.store.Update(ctx, database.NoProject, func(ctx context.Context, tx database.Tx) error {
		for _, identity := range identities {
			if identity == "" {
				continue
			}

			err := tx.Access().SaveRole(ctx, &types.UserRole{
				Identity:  identity,
				Role:      enum.UserRoleAdmin,
				UpdatedAt: s.rules.now(),
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return classify(err)
	}

	s.logger.Info("Bootstrapped administrators", zap.Int("count", len(identities)))

	return nil
}

// AssignRole sets the role of identity. Administrator only.
func (s *AccessService) AssignRole(ctx context.Context, caller, identity string, role enum.UserRole) error {
	if identity == "" {
		return validation("identity is required")
	}

	if role != enum.UserRoleUser && role != enum.UserRoleAdmin {
		return validation("role must be user or admin")
	}

	err := s.store.Update(ctx, database.NoProject, func(ctx context.Context, tx database.Tx) error {
		if _, err := requireAdmin(ctx, tx, caller); err != nil {
			return err
		}

		current, err := tx.Access().GetRole(ctx, identity)
		if err != nil {
			return err
		}

		if current == enum.UserRoleAdmin && role != enum.UserRoleAdmin {
			admins, err := tx.Access().CountAdmins(ctx)
			if err != nil {
				return err
			}

			if admins <= 1 {
				return invalidState("cannot remove the last administrator")
			}
		}

		return tx.Access().SaveRole(ctx, &types.UserRole{
			Identity:  identity,
			Role:      role,
			UpdatedAt: s.rules.now(),
		})
	})
	if err != nil {
		return classify(err)
	}

	s.logger.Info("Assigned role",
		zap.String("caller", caller),
		zap.String("identity", identity),
		zap.String("role", role.String()))

	return nil
}

// RequestApproval files an access request for a registered caller. A pending or approved
// request is returned as is with alreadyRequested set; a rejected one is filed again.
func (s *AccessService) RequestApproval(
	ctx context.Context, identity string,
) (approval *types.UserApproval, alreadyRequested bool, err error) {
	err = s.store.Update(ctx, database.NoProject, func(ctx context.Context, tx database.Tx) error {
		if _, err := requireMember(ctx, tx, identity); err != nil {
			return err
		}

		if _, err := tx.Profiles().Get(ctx, identity); err != nil {
			if errors.Is(err, types.ErrProfileNotFound) {
				return notFound("register a profile before requesting approval")
			}
			return err
		}

		existing, err := tx.Access().GetApproval(ctx, identity)
		switch {
		case err == nil && existing.Status != enum.ApprovalStatusRejected:
			approval = existing
			alreadyRequested = true

			return nil
		case err != nil && !errors.Is(err, types.ErrApprovalNotFound):
			return err
		}

		approval = &types.UserApproval{
			Identity:    identity,
			Status:      enum.ApprovalStatusPending,
			RequestedAt: s.rules.now(),
		}

		return tx.Access().SaveApproval(ctx, approval)
	})
	if err != nil {
		return nil, false, classify(err)
	}

	if !alreadyRequested {
		s.logger.Info("Approval requested", zap.String("identity", identity))
	}

	return approval, alreadyRequested, nil
}

// SetApproval records an administrator decision on an access request.
func (s *AccessService) SetApproval(
	ctx context.Context, caller, identity string, status enum.ApprovalStatus,
) (*types.UserApproval, error) {
	if status != enum.ApprovalStatusApproved && status != enum.ApprovalStatusRejected {
		return nil, validation("approval status must be approved or rejected")
	}

	var approval *types.UserApproval

	err := s.store.Update(ctx, database.NoProject, func(ctx context.Context, tx database.Tx) error {
		if _, err := requireAdmin(ctx, tx, caller); err != nil {
			return err
		}

		var err error
		approval, err = tx.Access().GetApproval(ctx, identity)
		if err != nil {
			return err
		}

		approval.Status = status
		approval.DecidedAt = s.rules.now()
		approval.DecidedBy = caller

		return tx.Access().SaveApproval(ctx, approval)
	})
	if err != nil {
		return nil, classify(err)
	}

	s.logger.Info("Approval decided",
		zap.String("caller", caller),
		zap.String("identity", identity),
		zap.String("status", status.String()))

	return approval, nil
}

// ListApprovals returns every access request. Administrator only.
func (s *AccessService) ListApprovals(ctx context.Context, caller string) ([]*types.UserApproval, error) {
	var approvals []*types.UserApproval

	err := s.store.View(ctx, func(ctx context.Context, tx database.Tx) error {
		if _, err := requireAdmin(ctx, tx, caller); err != nil {
			return err
		}

		var err error
		approvals, err = tx.Access().ListApprovals(ctx)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	return approvals, nil
}
