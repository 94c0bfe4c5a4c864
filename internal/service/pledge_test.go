package service_test

import (
	"sync"
	"testing"
	"time"

	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/robalyx/squadpledge/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskAllocationCap(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	project := f.project(t, 100, 10, 0)

	f.task(t, project.ID, 40, false)
	f.task(t, project.ID, 50, false)

	_, err := f.engine.Task().Create(t.Context(), adminID, project.ID, service.CreateTaskParams{
		Title:    "C",
		HHBudget: 20,
	})
	requireKind(t, err, service.KindBudgetExceeded)

	snap, err := f.engine.Project().Ledger(t.Context(), project.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, snap.Allocated(), 1e-9)
	assert.InDelta(t, 0.0, snap.Unallocated(), 1e-9)
}

func TestPledgeTaskCap(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := t.Context()
	f.member(t, "u1")

	project := f.project(t, 100, 10, 0)
	taskA := f.task(t, project.ID, 40, false)

	pledge, err := f.engine.Pledge().Pledge(ctx, "u1", project.ID, service.PledgeTarget{TaskID: taskA.ID}, 30)
	require.NoError(t, err)
	assert.Equal(t, enum.PledgeStatusPending, pledge.Status)

	_, err = f.engine.Pledge().Confirm(ctx, adminID, pledge.ID)
	requireKind(t, err, service.KindInvalidState)

	_, err = f.engine.Task().Confirm(ctx, adminID, taskA.ID)
	require.NoError(t, err)

	pledge, err = f.engine.Pledge().Confirm(ctx, adminID, pledge.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PledgeStatusConfirmed, pledge.Status)

	snap, err := f.engine.Project().Ledger(ctx, project.ID)
	require.NoError(t, err)
	usage, ok := snap.Task(taskA.ID)
	require.True(t, ok)
	assert.InDelta(t, 30.0, usage.Confirmed, 1e-9)

	_, err = f.engine.Pledge().Pledge(ctx, "u1", project.ID, service.PledgeTarget{TaskID: taskA.ID}, 15)
	requireKind(t, err, service.KindBudgetExceeded)

	_, err = f.engine.Pledge().Pledge(ctx, "u1", project.ID, service.PledgeTarget{TaskID: taskA.ID}, 10)
	require.NoError(t, err)

	profile, err := f.engine.Profile().GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.InDelta(t, 30.0, profile.TotalPledgedHH, 1e-9)
}

func TestPledgeValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := t.Context()
	f.member(t, "u1")

	project := f.project(t, 100, 10, 0)
	task := f.task(t, project.ID, 40, true)

	tests := []struct {
		name   string
		caller string
		target service.PledgeTarget
		amount float64
		kind   service.Kind
	}{
		{name: "zero amount", caller: "u1", target: service.PledgeTarget{TaskID: task.ID}, kind: service.KindValidationError},
		{name: "negative amount", caller: "u1", target: service.PledgeTarget{TaskID: task.ID}, amount: -1, kind: service.KindValidationError},
		{name: "no target", caller: "u1", amount: 1, kind: service.KindValidationError},
		{name: "unknown task", caller: "u1", target: service.PledgeTarget{TaskID: 999}, amount: 1, kind: service.KindNotFound},
		{name: "pool over budget", caller: "u1", target: service.PledgeTarget{Pool: true}, amount: 11, kind: service.KindBudgetExceeded},
		{name: "unapproved caller", caller: "nobody", target: service.PledgeTarget{Pool: true}, amount: 1, kind: service.KindAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Pledge().Pledge(ctx, tt.caller, project.ID, tt.target, tt.amount)
			requireKind(t, err, tt.kind)
		})
	}

	pledge, err := f.engine.Pledge().Pledge(ctx, "u1", project.ID, service.PledgeTarget{Pool: true}, 10)
	require.NoError(t, err)
	assert.Equal(t, project.PoolTaskID, pledge.TaskID)

	got, err := f.engine.Project().Get(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, got.HasParticipant("u1"))
}

func TestPledgeOnlyWhilePledging(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := t.Context()
	f.member(t, "u1")

	project := f.project(t, 100, 0, 0)
	task := f.task(t, project.ID, 50, true)

	_, err := f.engine.Project().Activate(ctx, adminID, project.ID)
	require.NoError(t, err)

	_, err = f.engine.Pledge().Pledge(ctx, "u1", project.ID, service.PledgeTarget{TaskID: task.ID}, 5)
	requireKind(t, err, service.KindInvalidState)
}

func TestConcurrentPledgesRespectCapacity(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := t.Context()

	users := []string{"u1", "u2", "u3", "u4"}
	for _, user := range users {
		f.member(t, user)
	}

	project := f.project(t, 100, 0, 0)
	task := f.task(t, project.ID, 100, true)

	var wg sync.WaitGroup
	errs := make([]error, len(users))
	for i, user := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.engine.Pledge().Pledge(ctx, user, project.ID, service.PledgeTarget{TaskID: task.ID}, 60)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		requireKind(t, err, service.KindBudgetExceeded)
	}
	assert.Equal(t, 1, succeeded)

	snap, err := f.engine.Project().Ledger(ctx, project.ID)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, snap.Committed(), 1e-9)
	require.NoError(t, snap.Validate())
}

func TestConfirmExpiredPledge(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := t.Context()
	f.member(t, "u1")

	project := f.project(t, 100, 0, 0)
	task := f.task(t, project.ID, 50, true)

	pledge, err := f.engine.Pledge().Pledge(ctx, "u1", project.ID, service.PledgeTarget{TaskID: task.ID}, 5)
	require.NoError(t, err)

	f.clock.Advance(14 * 24 * time.Hour)

	_, err = f.engine.Pledge().Confirm(ctx, adminID, pledge.ID)
	requireKind(t, err, service.KindInvalidState)

	got, err := f.engine.Pledge().Get(ctx, pledge.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PledgeStatusPending, got.Status, "a refused confirm writes nothing")

	_, err = f.engine.Pledge().Confirm(ctx, "u1", pledge.ID)
	requireKind(t, err, service.KindAccessDenied)
}

func TestReassignFromPool(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := t.Context()
	f.member(t, "u1")

	project := f.project(t, 100, 20, 0)
	task := f.task(t, project.ID, 30, true)
	proposed := f.task(t, project.ID, 30, false)

	pooled, err := f.engine.Pledge().Pledge(ctx, "u1", project.ID, service.PledgeTarget{Pool: true}, 20)
	require.NoError(t, err)

	_, err = f.engine.Pledge().Reassign(ctx, adminID, pooled.ID, task.ID)
	requireKind(t, err, service.KindInvalidState)

	_, err = f.engine.Pledge().Confirm(ctx, adminID, pooled.ID)
	require.NoError(t, err, "pool pledges need no task confirmation")

	_, err = f.engine.Pledge().Reassign(ctx, adminID, pooled.ID, project.PoolTaskID)
	requireKind(t, err, service.KindValidationError)

	_, err = f.engine.Pledge().Reassign(ctx, adminID, pooled.ID, proposed.ID)
	requireKind(t, err, service.KindInvalidState)

	moved, err := f.engine.Pledge().Reassign(ctx, adminID, pooled.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PledgeStatusReassigned, moved.Status)
	assert.Equal(t, task.ID, moved.TaskID)
	assert.Equal(t, project.PoolTaskID, moved.ReassignedFrom)

	snap, err := f.engine.Project().Ledger(ctx, project.ID)
	require.NoError(t, err)
	usage, _ := snap.Task(task.ID)
	pool, _ := snap.Task(project.PoolTaskID)
	assert.InDelta(t, 20.0, usage.Confirmed, 1e-9)
	assert.InDelta(t, 0.0, pool.Confirmed, 1e-9)
	assert.InDelta(t, 20.0, snap.Confirmed, 1e-9)

	_, err = f.engine.Pledge().Reassign(ctx, adminID, pooled.ID, task.ID)
	requireKind(t, err, service.KindInvalidState)
}
