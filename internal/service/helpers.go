package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/robalyx/squadpledge/internal/database"
	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/robalyx/squadpledge/internal/ledger"
	"golang.org/x/text/unicode/norm"
)

// resolveAccess reads the role and approval of identity inside tx.
func resolveAccess(ctx context.Context, tx database.Tx, identity string) (*types.Access, error) {
	access := &types.Access{Identity: identity, Role: enum.UserRoleGuest}
	if identity == "" {
		return access, nil
	}

	role, err := tx.Access().GetRole(ctx, identity)
	if err != nil {
		return nil, err
	}
	access.Role = role

	approval, err := tx.Access().GetApproval(ctx, identity)
	switch {
	case err == nil:
		status := approval.Status
		access.Approval = &status
	case !errors.Is(err, types.ErrApprovalNotFound):
		return nil, err
	}

	access.Tier = types.ResolveTier(access.Role, access.Approval)

	return access, nil
}

// requireMember resolves the caller and rejects guests.
func requireMember(ctx context.Context, tx database.Tx, identity string) (*types.Access, error) {
	access, err := resolveAccess(ctx, tx, identity)
	if err != nil {
		return nil, err
	}

	if access.Role == enum.UserRoleGuest {
		return nil, accessDenied("caller has no role")
	}

	return access, nil
}

// requireApproved resolves the caller and requires approval or the admin role.
func requireApproved(ctx context.Context, tx database.Tx, identity string) (*types.Access, error) {
	access, err := requireMember(ctx, tx, identity)
	if err != nil {
		return nil, err
	}

	if !access.IsApproved() {
		return nil, accessDenied("caller is not approved")
	}

	return access, nil
}

// requireAdmin resolves the caller and requires the admin role.
func requireAdmin(ctx context.Context, tx database.Tx, identity string) (*types.Access, error) {
	access, err := resolveAccess(ctx, tx, identity)
	if err != nil {
		return nil, err
	}

	if !access.IsAdmin() {
		return nil, accessDenied("administrator role required")
	}

	return access, nil
}

// requireOwner requires the caller to be the project creator or an admin.
func requireOwner(access *types.Access, project *types.Project) error {
	if access.IsAdmin() || project.IsOwner(access.Identity) {
		return nil
	}

	return accessDenied("only the project creator or an administrator may do this")
}

// requireOpen requires the project to be pledging or active.
func requireOpen(project *types.Project) error {
	switch project.Status {
	case enum.ProjectStatusPledging, enum.ProjectStatusActive:
		return nil
	default:
		return invalidState("project %d is %s", project.ID, project.Status)
	}
}

// snapshot builds the ledger of a project inside tx.
func snapshot(ctx context.Context, tx database.Tx, project *types.Project) (*ledger.Snapshot, error) {
	tasks, err := tx.Tasks().ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	pledges, err := tx.Pledges().ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	return ledger.Build(project, tasks, pledges), nil
}

// isReviewer reports whether the caller may approve or reject tasks of the project.
func isReviewer(ctx context.Context, tx database.Tx, access *types.Access, project *types.Project) (bool, error) {
	if access.IsAdmin() || project.IsOwner(access.Identity) {
		return true, nil
	}

	profile, err := tx.Profiles().Get(ctx, access.Identity)
	if err != nil {
		if errors.Is(err, types.ErrProfileNotFound) {
			return false, nil
		}
		return false, err
	}

	if !profile.IsMentor() {
		return false, nil
	}

	pledges, err := tx.Pledges().ListByProject(ctx, project.ID)
	if err != nil {
		return false, err
	}

	for _, pledge := range pledges {
		if pledge.User == access.Identity && pledge.Status.Reserving() {
			return true, nil
		}
	}

	return false, nil
}

// projectOf looks up the project owning a record so its lock can be taken.
func projectOf(
	ctx context.Context, store database.Store, lookup func(ctx context.Context, tx database.Tx) (int64, error),
) (int64, error) {
	var projectID int64

	err := store.View(ctx, func(ctx context.Context, tx database.Tx) error {
		var err error
		projectID, err = lookup(ctx, tx)
		return err
	})
	if err != nil {
		return 0, classify(err)
	}

	return projectID, nil
}

// validHours reports whether v is a finite positive hour amount.
func validHours(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// cleanText trims surrounding whitespace and recombines characters into NFC
// so visually identical titles compare equal.
func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// requireProfile returns the caller's profile. Members without one cannot take part in projects.
func requireProfile(ctx context.Context, tx database.Tx, identity string) (*types.UserProfile, error) {
	profile, err := tx.Profiles().Get(ctx, identity)
	if err != nil {
		if errors.Is(err, types.ErrProfileNotFound) {
			return nil, invalidState("register a profile first")
		}
		return nil, err
	}

	return profile, nil
}
