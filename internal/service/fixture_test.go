package service_test

import (
	"sync"
	"testing"
	"time"

	"github.com/robalyx/squadpledge/internal/database/memory"
	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/robalyx/squadpledge/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const adminID = "admin"

// clock is a manually advanced time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	engine *service.Engine
	store  *memory.Store
	clock  *clock
}

// newFixture builds an engine over an empty memory store with a registered admin.
func newFixture(t *testing.T, opts ...func(*service.Rules)) *fixture {
	t.Helper()

	c := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	rules := service.DefaultRules()
	rules.Now = c.Now
	for _, opt := range opts {
		opt(&rules)
	}

	store := memory.New(zap.NewNop())
	f := &fixture{
		engine: service.New(store, rules, zap.NewNop()),
		store:  store,
		clock:  c,
	}

	access, err := f.engine.Access().InitializeAccessControl(t.Context(), adminID)
	require.NoError(t, err)
	require.True(t, access.IsAdmin())

	_, err = f.engine.Profile().Register(t.Context(), adminID, "Admin",
		enum.SquadRoleMasters, enum.ParticipationLevelMaster)
	require.NoError(t, err)

	return f
}

func thresholdMode(r *service.Rules) {
	r.ActivationMode = enum.ActivationModeThreshold
}

// member registers and approves a new member.
func (f *fixture) member(t *testing.T, identity string) {
	t.Helper()
	f.memberAs(t, identity, enum.SquadRoleJourneyman, enum.ParticipationLevelJourneyman)
}

func (f *fixture) memberAs(t *testing.T, identity string, role enum.SquadRole, level enum.ParticipationLevel) {
	t.Helper()
	ctx := t.Context()

	_, err := f.engine.Access().InitializeAccessControl(ctx, identity)
	require.NoError(t, err)

	_, err = f.engine.Profile().Register(ctx, identity, identity, role, level)
	require.NoError(t, err)

	_, _, err = f.engine.Access().RequestApproval(ctx, identity)
	require.NoError(t, err)

	_, err = f.engine.Access().SetApproval(ctx, adminID, identity, enum.ApprovalStatusApproved)
	require.NoError(t, err)
}

// project creates a project owned by the admin.
func (f *fixture) project(t *testing.T, capacity, pool float64, prize int64) *types.Project {
	t.Helper()

	project, err := f.engine.Project().Create(t.Context(), adminID, service.CreateProjectParams{
		Title:              "Squad project",
		EstimatedTotalHH:   capacity,
		FinalMonetaryValue: decimal.NewFromInt(prize),
		PoolHH:             pool,
	})
	require.NoError(t, err)

	return project
}

// task creates a task and optionally confirms it.
func (f *fixture) task(t *testing.T, projectID int64, budget float64, confirm bool, deps ...int64) *types.Task {
	t.Helper()

	task, err := f.engine.Task().Create(t.Context(), adminID, projectID, service.CreateTaskParams{
		Title:        "Task",
		HHBudget:     budget,
		Dependencies: deps,
	})
	require.NoError(t, err)

	if confirm {
		task, err = f.engine.Task().Confirm(t.Context(), adminID, task.ID)
		require.NoError(t, err)
	}

	return task
}

// confirmedPledge pledges amount to taskID and confirms it.
func (f *fixture) confirmedPledge(t *testing.T, user string, projectID, taskID int64, amount float64) *types.Pledge {
	t.Helper()

	pledge, err := f.engine.Pledge().Pledge(t.Context(), user, projectID, service.PledgeTarget{TaskID: taskID}, amount)
	require.NoError(t, err)

	pledge, err = f.engine.Pledge().Confirm(t.Context(), adminID, pledge.ID)
	require.NoError(t, err)

	return pledge
}

// auditedTask walks a fresh task to inAudit with assignee as the worker.
func (f *fixture) auditedTask(t *testing.T, projectID int64, budget float64, assignee string) *types.Task {
	t.Helper()

	task := f.task(t, projectID, budget, true)

	_, err := f.engine.Task().Accept(t.Context(), assignee, task.ID)
	require.NoError(t, err)

	task, err = f.engine.Task().Complete(t.Context(), assignee, task.ID)
	require.NoError(t, err)

	return task
}

func requireKind(t *testing.T, err error, kind service.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, service.KindOf(err), "unexpected error: %v", err)
}
