package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalyx/squadpledge/internal/database"
	"github.com/robalyx/squadpledge/internal/database/memory"
	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedProject(t *testing.T, store *memory.Store) *types.Project {
	t.Helper()

	project := &types.Project{Title: "p", Creator: "c", Participants: []string{}, EstimatedTotalHH: 10}
	err := store.Update(t.Context(), database.NoProject, func(ctx context.Context, tx database.Tx) error {
		return tx.Projects().Insert(ctx, project)
	})
	require.NoError(t, err)
	require.NotZero(t, project.ID)

	return project
}

func TestUpdateRollsBackOnError(t *testing.T) {
	t.Parallel()

	store := memory.New(zap.NewNop())
	project := seedProject(t, store)
	errBoom := errors.New("boom")

	err := store.Update(t.Context(), project.ID, func(ctx context.Context, tx database.Tx) error {
		if err := tx.Tasks().Insert(ctx, &types.Task{ProjectID: project.ID, Title: "t"}); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	err = store.View(t.Context(), func(ctx context.Context, tx database.Tx) error {
		tasks, err := tx.Tasks().ListByProject(ctx, project.ID)
		require.NoError(t, err)
		assert.Empty(t, tasks)
		return nil
	})
	require.NoError(t, err)
}

func TestUpdateUnknownProject(t *testing.T) {
	t.Parallel()

	store := memory.New(zap.NewNop())

	err := store.Update(t.Context(), 42, func(context.Context, database.Tx) error {
		t.Fatal("unit of work must not run")
		return nil
	})
	require.ErrorIs(t, err, types.ErrProjectNotFound)
}

func TestViewIsReadOnly(t *testing.T) {
	t.Parallel()

	store := memory.New(zap.NewNop())

	err := store.View(t.Context(), func(ctx context.Context, tx database.Tx) error {
		return tx.Projects().Insert(ctx, &types.Project{Title: "p"})
	})
	require.ErrorIs(t, err, memory.ErrReadOnly)
}

func TestRecordsAreCopied(t *testing.T) {
	t.Parallel()

	store := memory.New(zap.NewNop())
	project := seedProject(t, store)

	project.Participants = append(project.Participants, "mutated")

	err := store.View(t.Context(), func(ctx context.Context, tx database.Tx) error {
		got, err := tx.Projects().Get(ctx, project.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Participants)

		got.Title = "changed"
		again, err := tx.Projects().Get(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, "p", again.Title)
		return nil
	})
	require.NoError(t, err)
}

func TestUniqueRecords(t *testing.T) {
	t.Parallel()

	store := memory.New(zap.NewNop())
	project := seedProject(t, store)
	now := time.Now()

	tests := []struct {
		name   string
		insert func(ctx context.Context, tx database.Tx) error
		want   error
	}{
		{
			name: "profile",
			insert: func(ctx context.Context, tx database.Tx) error {
				return tx.Profiles().Insert(ctx, &types.UserProfile{Identity: "u", CreatedAt: now})
			},
			want: types.ErrProfileExists,
		},
		{
			name: "vote",
			insert: func(ctx context.Context, tx database.Tx) error {
				return tx.Votes().Insert(ctx, &types.Vote{TargetID: 1, Voter: "u", Kind: enum.VoteKindChallenge})
			},
			want: types.ErrVoteExists,
		},
		{
			name: "challenge",
			insert: func(ctx context.Context, tx database.Tx) error {
				return tx.Challenges().Insert(ctx, &types.Challenge{TaskID: 1, ProjectID: project.ID, Challenger: "u"})
			},
			want: types.ErrChallengeExists,
		},
		{
			name: "rating",
			insert: func(ctx context.Context, tx database.Tx) error {
				return tx.Ratings().Insert(ctx, &types.PeerRating{ProjectID: project.ID, Rater: "a", Ratee: "b"})
			},
			want: types.ErrRatingExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, store.Update(t.Context(), database.NoProject, tt.insert))

			err := store.Update(t.Context(), database.NoProject, tt.insert)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAccessDefaults(t *testing.T) {
	t.Parallel()

	store := memory.New(zap.NewNop())

	err := store.Update(t.Context(), database.NoProject, func(ctx context.Context, tx database.Tx) error {
		role, err := tx.Access().GetRole(ctx, "nobody")
		require.NoError(t, err)
		assert.Equal(t, enum.UserRoleGuest, role)

		_, err = tx.Access().GetApproval(ctx, "nobody")
		require.ErrorIs(t, err, types.ErrApprovalNotFound)

		require.NoError(t, tx.Access().SaveRole(ctx, &types.UserRole{Identity: "a", Role: enum.UserRoleAdmin}))
		require.NoError(t, tx.Access().SaveRole(ctx, &types.UserRole{Identity: "b", Role: enum.UserRoleUser}))

		admins, err := tx.Access().CountAdmins(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, admins)
		return nil
	})
	require.NoError(t, err)
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()

	store := memory.New(zap.NewNop())
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := store.View(ctx, func(context.Context, database.Tx) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestProfileUpdateKeepsScores(t *testing.T) {
	t.Parallel()

	store := memory.New(zap.NewNop())
	now := time.Unix(1_700_000_000, 0).UTC()

	var stale *types.UserProfile
	err := store.Update(t.Context(), database.NoProject, func(ctx context.Context, tx database.Tx) error {
		if err := tx.Profiles().Insert(ctx, &types.UserProfile{Identity: "u", DisplayName: "U", CreatedAt: now}); err != nil {
			return err
		}

		var err error
		stale, err = tx.Profiles().GetForUpdate(ctx, "u")
		return err
	})
	require.NoError(t, err)

	err = store.Update(t.Context(), database.NoProject, func(ctx context.Context, tx database.Tx) error {
		if err := tx.Profiles().SetReputation(ctx, "u", 4, now); err != nil {
			return err
		}
		return tx.Profiles().AddTotals(ctx, "u", 10, 5, now)
	})
	require.NoError(t, err)

	// A write based on a read taken before the score changed must not roll it back.
	stale.DisplayName = "Renamed"
	stale.ParticipationLevel = enum.ParticipationLevelMaster
	err = store.Update(t.Context(), database.NoProject, func(ctx context.Context, tx database.Tx) error {
		return tx.Profiles().Update(ctx, stale)
	})
	require.NoError(t, err)

	err = store.View(t.Context(), func(ctx context.Context, tx database.Tx) error {
		profile, err := tx.Profiles().Get(ctx, "u")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", profile.DisplayName)
		assert.Equal(t, enum.ParticipationLevelMaster, profile.ParticipationLevel)
		assert.InDelta(t, 4.0, profile.OverallReputationScore, 1e-9)
		assert.InDelta(t, 10.0, profile.TotalPledgedHH, 1e-9)
		assert.InDelta(t, 5.0, profile.TotalEarnedHH, 1e-9)
		return nil
	})
	require.NoError(t, err)

	err = store.Update(t.Context(), database.NoProject, func(ctx context.Context, tx database.Tx) error {
		return tx.Profiles().SetReputation(ctx, "missing", 1, now)
	})
	require.ErrorIs(t, err, types.ErrProfileNotFound)
}
