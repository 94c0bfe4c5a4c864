package ledger_test

import (
	"testing"

	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/robalyx/squadpledge/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProject(capacity float64) *types.Project {
	return &types.Project{ID: 1, EstimatedTotalHH: capacity, PoolTaskID: 10}
}

func poolTask(budget float64) *types.Task {
	return &types.Task{ID: 10, ProjectID: 1, Title: types.PoolTaskTitle, HHBudget: budget, IsPool: true}
}

func task(id int64, budget float64) *types.Task {
	return &types.Task{ID: id, ProjectID: 1, HHBudget: budget, Status: enum.TaskStatusTaskConfirmed}
}

func pledge(taskID int64, amount float64, status enum.PledgeStatus) *types.Pledge {
	return &types.Pledge{ProjectID: 1, TaskID: taskID, Amount: amount, Status: status}
}

func TestSnapshot_TaskAllocation(t *testing.T) {
	t.Parallel()

	project := newProject(100)
	tasks := []*types.Task{poolTask(10), task(11, 40), task(12, 50)}

	snapshot := ledger.Build(project, tasks, nil)
	assert.InDelta(t, 100, snapshot.Allocated(), ledger.Epsilon)
	assert.InDelta(t, 0, snapshot.Unallocated(), ledger.Epsilon)

	err := snapshot.CheckTaskBudget(20)
	require.ErrorIs(t, err, ledger.ErrBudgetExceeded)

	snapshot = ledger.Build(project, []*types.Task{poolTask(10), task(11, 40)}, nil)
	require.NoError(t, snapshot.CheckTaskBudget(50))
	require.ErrorIs(t, snapshot.CheckTaskBudget(50.5), ledger.ErrBudgetExceeded)
}

func TestSnapshot_CheckPledge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pledges []*types.Pledge
		taskID  int64
		amount  float64
		wantErr error
	}{
		{
			name:   "fits task budget",
			taskID: 11,
			amount: 30,
		},
		{
			name:    "exceeds remaining task budget",
			pledges: []*types.Pledge{pledge(11, 30, enum.PledgeStatusConfirmed)},
			taskID:  11,
			amount:  15,
			wantErr: ledger.ErrBudgetExceeded,
		},
		{
			name:    "pending pledges reserve task budget",
			pledges: []*types.Pledge{pledge(11, 30, enum.PledgeStatusPending)},
			taskID:  11,
			amount:  15,
			wantErr: ledger.ErrBudgetExceeded,
		},
		{
			name:    "expired pledges release budget",
			pledges: []*types.Pledge{pledge(11, 30, enum.PledgeStatusExpired)},
			taskID:  11,
			amount:  40,
		},
		{
			name:    "exact remainder fits",
			pledges: []*types.Pledge{pledge(11, 30, enum.PledgeStatusConfirmed)},
			taskID:  11,
			amount:  10,
		},
		{
			name:    "pool capped by pool budget",
			pledges: []*types.Pledge{pledge(10, 8, enum.PledgeStatusConfirmed)},
			taskID:  10,
			amount:  5,
			wantErr: ledger.ErrBudgetExceeded,
		},
		{
			name:    "unknown task",
			taskID:  99,
			amount:  1,
			wantErr: ledger.ErrUnknownTask,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snapshot := ledger.Build(newProject(100), []*types.Task{poolTask(10), task(11, 40), task(12, 50)}, tt.pledges)

			err := snapshot.CheckPledge(tt.taskID, tt.amount)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSnapshot_ProjectCapacity(t *testing.T) {
	t.Parallel()

	project := newProject(50)
	tasks := []*types.Task{poolTask(0), task(11, 25), task(12, 25)}
	pledges := []*types.Pledge{
		pledge(11, 25, enum.PledgeStatusConfirmed),
		pledge(12, 20, enum.PledgeStatusPending),
	}

	snapshot := ledger.Build(project, tasks, pledges)
	assert.InDelta(t, 45, snapshot.Committed(), ledger.Epsilon)
	assert.InDelta(t, 5, snapshot.Uncommitted(), ledger.Epsilon)

	require.NoError(t, snapshot.CheckPledge(12, 5))
	require.ErrorIs(t, snapshot.CheckPledge(12, 6), ledger.ErrBudgetExceeded)
	require.NoError(t, snapshot.Validate())
}

func TestSnapshot_Reassign(t *testing.T) {
	t.Parallel()

	pledges := []*types.Pledge{
		pledge(10, 10, enum.PledgeStatusConfirmed),
		pledge(11, 35, enum.PledgeStatusConfirmed),
	}
	snapshot := ledger.Build(newProject(100), []*types.Task{poolTask(10), task(11, 40), task(12, 50)}, pledges)

	require.ErrorIs(t, snapshot.CheckReassign(11, 10), ledger.ErrBudgetExceeded)
	require.NoError(t, snapshot.CheckReassign(12, 10))

	// Reassigned pledges keep counting toward their new target.
	pledges[0].TaskID = 12
	pledges[0].Status = enum.PledgeStatusReassigned
	snapshot = ledger.Build(newProject(100), []*types.Task{poolTask(10), task(11, 40), task(12, 50)}, pledges)

	usage, ok := snapshot.Task(12)
	require.True(t, ok)
	assert.InDelta(t, 10, usage.Confirmed, ledger.Epsilon)
	assert.InDelta(t, 45, snapshot.Confirmed, ledger.Epsilon)

	pool, ok := snapshot.Task(10)
	require.True(t, ok)
	assert.InDelta(t, 0, pool.Committed(), ledger.Epsilon)
}

func TestSnapshot_ActivationReady(t *testing.T) {
	t.Parallel()

	tasks := []*types.Task{poolTask(0), task(11, 100)}

	tests := []struct {
		name    string
		pledges []*types.Pledge
		want    bool
	}{
		{"below threshold", []*types.Pledge{pledge(11, 79, enum.PledgeStatusConfirmed)}, false},
		{"at threshold", []*types.Pledge{pledge(11, 80, enum.PledgeStatusConfirmed)}, true},
		{"pending blocks", []*types.Pledge{
			pledge(11, 85, enum.PledgeStatusConfirmed),
			pledge(11, 5, enum.PledgeStatusPending),
		}, false},
		{"expired ignored", []*types.Pledge{
			pledge(11, 90, enum.PledgeStatusConfirmed),
			pledge(11, 5, enum.PledgeStatusExpired),
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snapshot := ledger.Build(newProject(100), tasks, tt.pledges)
			assert.Equal(t, tt.want, snapshot.ActivationReady(0.8))
		})
	}
}
