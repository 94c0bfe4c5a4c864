package service_test

import (
	"testing"

	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/robalyx/squadpledge/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeAccessControl(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := t.Context()

	access, err := f.engine.Access().InitializeAccessControl(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, enum.UserRoleUser, access.Role)
	assert.Equal(t, enum.AccessTierUnapproved, access.Tier)

	again, err := f.engine.Access().InitializeAccessControl(ctx, adminID)
	require.NoError(t, err)
	assert.True(t, again.IsAdmin(), "existing roles are kept")

	_, err = f.engine.Access().InitializeAccessControl(ctx, "")
	requireKind(t, err, service.KindAccessDenied)
}

func TestApprovalFlow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := t.Context()
	access := f.engine.Access()

	_, err := access.InitializeAccessControl(ctx, "bob")
	require.NoError(t, err)

	_, _, err = access.RequestApproval(ctx, "bob")
	requireKind(t, err, service.KindNotFound)

	_, err = f.engine.Profile().Register(ctx, "bob", "Bob", enum.SquadRoleApprentice, enum.ParticipationLevelApprentice)
	require.NoError(t, err)

	approval, already, err := access.RequestApproval(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, already)
	assert.Equal(t, enum.ApprovalStatusPending, approval.Status)

	_, already, err = access.RequestApproval(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, already)

	resolved, err := access.ResolveAccess(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, enum.AccessTierPending, resolved.Tier)

	_, err = access.SetApproval(ctx, "bob", "bob", enum.ApprovalStatusApproved)
	requireKind(t, err, service.KindAccessDenied)

	_, err = access.SetApproval(ctx, adminID, "bob", enum.ApprovalStatusPending)
	requireKind(t, err, service.KindValidationError)

	_, err = access.SetApproval(ctx, adminID, "bob", enum.ApprovalStatusRejected)
	require.NoError(t, err)

	approval, already, err = access.RequestApproval(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, already, "a rejected request can be filed again")
	assert.Equal(t, enum.ApprovalStatusPending, approval.Status)

	_, err = access.SetApproval(ctx, adminID, "bob", enum.ApprovalStatusApproved)
	require.NoError(t, err)

	ok, err := access.IsCallerApproved(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, ok)

	approvals, err := access.ListApprovals(ctx, adminID)
	require.NoError(t, err)
	assert.Len(t, approvals, 1)

	_, err = access.ListApprovals(ctx, "bob")
	requireKind(t, err, service.KindAccessDenied)
}

func TestAssignRole(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := t.Context()
	access := f.engine.Access()

	f.member(t, "carol")

	err := access.AssignRole(ctx, "carol", "carol", enum.UserRoleAdmin)
	requireKind(t, err, service.KindAccessDenied)

	err = access.AssignRole(ctx, adminID, adminID, enum.UserRoleUser)
	requireKind(t, err, service.KindInvalidState)

	err = access.AssignRole(ctx, adminID, "carol", enum.UserRoleGuest)
	requireKind(t, err, service.KindValidationError)

	require.NoError(t, access.AssignRole(ctx, adminID, "carol", enum.UserRoleAdmin))
	require.NoError(t, access.AssignRole(ctx, "carol", adminID, enum.UserRoleUser))

	isAdmin, err := access.IsCallerAdmin(ctx, adminID)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestGateRejectsUnapprovedCallers(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := t.Context()

	_, err := f.engine.Profile().Register(ctx, "guest", "Guest", enum.SquadRoleApprentice, enum.ParticipationLevelApprentice)
	requireKind(t, err, service.KindAccessDenied)

	_, err = f.engine.Access().InitializeAccessControl(ctx, "dave")
	require.NoError(t, err)

	_, err = f.engine.Project().Create(ctx, "dave", service.CreateProjectParams{Title: "x", EstimatedTotalHH: 10})
	requireKind(t, err, service.KindAccessDenied)
}
