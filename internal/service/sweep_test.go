package service_test

import (
	"testing"
	"time"

	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/robalyx/squadpledge/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepExpiresPledges(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := t.Context()
	f.member(t, "u1")
	f.member(t, "u2")

	project := f.project(t, 100, 0, 0)
	task := f.task(t, project.ID, 100, true)

	confirmed := f.confirmedPledge(t, "u1", project.ID, task.ID, 10)
	stale, err := f.engine.Pledge().Pledge(ctx, "u2", project.ID, service.PledgeTarget{TaskID: task.ID}, 20)
	require.NoError(t, err)

	f.clock.Advance(13 * 24 * time.Hour)
	fresh, err := f.engine.Pledge().Pledge(ctx, "u2", project.ID, service.PledgeTarget{TaskID: task.ID}, 5)
	require.NoError(t, err)

	f.clock.Advance(24 * time.Hour)

	ids, err := f.engine.Sweep().ProjectsToSweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{project.ID}, ids)

	result, err := f.engine.Sweep().Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Expired)

	again, err := f.engine.Sweep().Sweep(ctx)
	require.NoError(t, err)
	assert.False(t, again.Changed())

	statuses := map[int64]enum.PledgeStatus{
		confirmed.ID: enum.PledgeStatusConfirmed,
		stale.ID:     enum.PledgeStatusExpired,
		fresh.ID:     enum.PledgeStatusPending,
	}
	for id, want := range statuses {
		got, err := f.engine.Pledge().Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status, "pledge %d", id)
	}

	snap, err := f.engine.Project().Ledger(ctx, project.ID)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, snap.Committed(), 1e-9)

	_, err = f.engine.Pledge().Confirm(ctx, adminID, stale.ID)
	requireKind(t, err, service.KindInvalidState)
}

func TestSweepActivatesAtThreshold(t *testing.T) {
	t.Parallel()

	f := newFixture(t, thresholdMode)
	ctx := t.Context()
	f.member(t, "u1")
	f.member(t, "u2")

	project := f.project(t, 100, 0, 0)
	task := f.task(t, project.ID, 100, true)

	_, err := f.engine.Pledge().Pledge(ctx, "u2", project.ID, service.PledgeTarget{TaskID: task.ID}, 5)
	require.NoError(t, err)
	f.confirmedPledge(t, "u1", project.ID, task.ID, 85)

	got, err := f.engine.Project().Get(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ProjectStatusPledging, got.Status, "pending pledges hold activation back")

	f.clock.Advance(15 * 24 * time.Hour)

	result, err := f.engine.Sweep().SweepProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Expired)
	assert.True(t, result.Activated)

	got, err = f.engine.Project().Get(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ProjectStatusActive, got.Status)

	_, err = f.engine.Sweep().SweepProject(ctx, 404)
	requireKind(t, err, service.KindNotFound)
}
