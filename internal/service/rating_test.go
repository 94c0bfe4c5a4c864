package service_test

import (
	"testing"
	"time"

	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/robalyx/squadpledge/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completedProject returns a completed project with participants u1, u2 and a mentor.
func completedProject(t *testing.T, f *fixture) *types.Project {
	t.Helper()

	f.member(t, "u1")
	f.member(t, "u2")
	f.memberAs(t, "mentor", enum.SquadRoleMentor, enum.ParticipationLevelMaster)

	project := f.project(t, 90, 0, 900)
	task := f.task(t, project.ID, 90, true)
	for _, user := range []string{"u1", "u2", "mentor"} {
		f.confirmedPledge(t, user, project.ID, task.ID, 30)
	}

	_, err := f.engine.Project().Activate(t.Context(), adminID, project.ID)
	require.NoError(t, err)

	project, _, err = f.engine.Project().Complete(t.Context(), adminID, project.ID)
	require.NoError(t, err)

	return project
}

func TestRatePeer(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := t.Context()
	project := completedProject(t, f)
	ratings := f.engine.Rating()

	_, err := ratings.Rate(ctx, "u1", project.ID, "u1", 5)
	requireKind(t, err, service.KindValidationError)

	_, err = ratings.Rate(ctx, "u1", project.ID, "u2", 6)
	requireKind(t, err, service.KindValidationError)

	_, err = ratings.Rate(ctx, "u1", project.ID, "stranger", 3)
	requireKind(t, err, service.KindValidationError)

	_, err = ratings.Rate(ctx, "u1", project.ID, "u2", 4)
	require.NoError(t, err)

	_, err = ratings.Rate(ctx, "u1", project.ID, "u2", 3)
	requireKind(t, err, service.KindConflict)

	profile, err := f.engine.Profile().GetProfile(ctx, "u2")
	require.NoError(t, err)
	assert.InDelta(t, 4.0, profile.OverallReputationScore, 1e-9)

	_, err = ratings.Rate(ctx, "mentor", project.ID, "u2", 2)
	require.NoError(t, err)

	profile, err = f.engine.Profile().GetProfile(ctx, "u2")
	require.NoError(t, err)
	assert.InDelta(t, (4.0+2.0*3)/4, profile.OverallReputationScore, 1e-9)

	renamed, err := f.engine.Profile().UpdateProfile(ctx, "u2", "Second", "")
	require.NoError(t, err)
	assert.Equal(t, "Second", renamed.DisplayName)
	assert.InDelta(t, (4.0+2.0*3)/4, renamed.OverallReputationScore, 1e-9)

	list, err := ratings.ListPeerRatings(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	f.clock.Advance(7*24*time.Hour + time.Minute)

	_, err = ratings.Rate(ctx, "u2", project.ID, "u1", 4)
	requireKind(t, err, service.KindValidationError)
}

func TestRateRequiresCompletedProject(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.member(t, "u1")
	f.member(t, "u2")

	project := f.project(t, 100, 10, 0)
	for _, user := range []string{"u1", "u2"} {
		_, err := f.engine.Pledge().Pledge(t.Context(), user, project.ID, service.PledgeTarget{Pool: true}, 1)
		require.NoError(t, err)
	}

	_, err := f.engine.Rating().Rate(t.Context(), "u1", project.ID, "u2", 3)
	requireKind(t, err, service.KindInvalidState)
}
