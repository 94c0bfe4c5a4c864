package core_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/robalyx/squadpledge/internal/worker/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTest(t *testing.T) (*miniredis.Miniredis, rueidis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return mr, client
}

func TestMonitorStatuses(t *testing.T) {
	t.Parallel()

	mr, client := setupTest(t)
	monitor := core.NewMonitor(client, zap.NewNop())

	require.NoError(t, monitor.ReportStatus(t.Context(), core.Status{
		WorkerID:   "a",
		WorkerType: "sweep",
		IsHealthy:  true,
	}))
	require.NoError(t, monitor.ReportStatus(t.Context(), core.Status{
		WorkerID:    "b",
		WorkerType:  "sweep",
		CurrentTask: "Sweeping",
	}))

	statuses, err := monitor.GetAllStatuses(t.Context())
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	byID := map[string]core.Status{}
	for _, status := range statuses {
		byID[status.WorkerID] = status
	}
	assert.True(t, byID["a"].IsHealthy)
	assert.Equal(t, "Sweeping", byID["b"].CurrentTask)
	assert.True(t, byID["a"].Online(time.Now()))
	assert.False(t, byID["a"].Online(time.Now().Add(2*core.StaleThreshold)))

	// Heartbeats lapse after their TTL
	mr.FastForward(core.HeartbeatTTL + time.Second)

	statuses, err = monitor.GetAllStatuses(t.Context())
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestStatusReporter(t *testing.T) {
	t.Parallel()

	_, client := setupTest(t)
	reporter := core.NewStatusReporter(client, "sweep", zap.NewNop())

	reporter.UpdateStatus("Sweeping projects")
	reporter.RecordSweep()
	reporter.SetHealthy(false)

	snapshot := reporter.Snapshot()
	assert.Equal(t, reporter.GetWorkerID(), snapshot.WorkerID)
	assert.Equal(t, "Sweeping projects", snapshot.CurrentTask)
	assert.Equal(t, 1, snapshot.Sweeps)
	assert.False(t, snapshot.IsHealthy)

	reporter.Start(t.Context())
	defer reporter.Stop()

	monitor := core.NewMonitor(client, zap.NewNop())
	assert.Eventually(t, func() bool {
		statuses, err := monitor.GetAllStatuses(t.Context())
		return err == nil && len(statuses) == 1 && statuses[0].Sweeps == 1
	}, time.Second, 10*time.Millisecond)

	// Stop is idempotent
	reporter.Stop()
}

func TestLock(t *testing.T) {
	t.Parallel()

	mr, client := setupTest(t)
	lock := core.NewLock(client, "lock:sweep", time.Minute)

	token, ok, err := lock.Acquire(t.Context())
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = lock.Acquire(t.Context())
	require.NoError(t, err)
	assert.False(t, ok, "held lock must not be taken twice")

	// A stale token does not release someone else's lease
	require.NoError(t, lock.Release(t.Context(), "stale"))
	assert.True(t, mr.Exists("lock:sweep"))

	require.NoError(t, lock.Release(t.Context(), token))
	assert.False(t, mr.Exists("lock:sweep"))

	_, ok, err = lock.Acquire(t.Context())
	require.NoError(t, err)
	assert.True(t, ok)

	// An abandoned lease expires
	mr.FastForward(time.Minute + time.Second)

	_, ok, err = lock.Acquire(t.Context())
	require.NoError(t, err)
	assert.True(t, ok)
}
