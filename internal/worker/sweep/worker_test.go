package sweep_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/robalyx/squadpledge/internal/database/memory"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/robalyx/squadpledge/internal/service"
	"github.com/robalyx/squadpledge/internal/worker/core"
	"github.com/robalyx/squadpledge/internal/worker/sweep"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errBroken = errors.New("broken project")

// fakeSweeper records swept projects and fails the ones listed in failing.
type fakeSweeper struct {
	mu      sync.Mutex
	ids     []int64
	failing map[int64]bool
	swept   []int64
}

func (f *fakeSweeper) ProjectsToSweep(context.Context) ([]int64, error) {
	return f.ids, nil
}

func (f *fakeSweeper) SweepProject(_ context.Context, id int64) (service.SweepResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.swept = append(f.swept, id)
	if f.failing[id] {
		return service.SweepResult{}, errBroken
	}

	return service.SweepResult{Expired: 1}, nil
}

func TestRoundSkipsFailingProjects(t *testing.T) {
	t.Parallel()

	sweeper := &fakeSweeper{ids: []int64{1, 2, 3, 4}, failing: map[int64]bool{2: true}}
	w := sweep.New(sweeper, time.Minute, 2, zap.NewNop())

	result, err := w.Round(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Expired)
	assert.ElementsMatch(t, []int64{1, 2, 3, 4}, sweeper.swept)
}

func TestRoundHonoursLock(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	lock := core.NewLock(client, sweep.LockKey, time.Minute)
	reporter := core.NewStatusReporter(client, "sweep", zap.NewNop())
	sweeper := &fakeSweeper{ids: []int64{7}}
	w := sweep.New(sweeper, time.Minute, 1, zap.NewNop(), sweep.WithLock(lock), sweep.WithReporter(reporter))

	// Another worker holds the lock
	token, ok, err := lock.Acquire(t.Context())
	require.NoError(t, err)
	require.True(t, ok)

	result, err := w.Round(t.Context())
	require.NoError(t, err)
	assert.False(t, result.Changed())
	assert.Empty(t, sweeper.swept)
	assert.Equal(t, "Waiting for sweep lock", reporter.Snapshot().CurrentTask)

	require.NoError(t, lock.Release(t.Context(), token))

	result, err = w.Round(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Expired)
	assert.Equal(t, []int64{7}, sweeper.swept)
	assert.Equal(t, 1, reporter.Snapshot().Sweeps)
	assert.False(t, mr.Exists(sweep.LockKey), "lock is released after the round")
}

func TestRoundExpiresPledges(t *testing.T) {
	t.Parallel()

	var offset atomic.Int64
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rules := service.DefaultRules()
	rules.Now = func() time.Time { return base.Add(time.Duration(offset.Load())) }

	engine := service.New(memory.New(zap.NewNop()), rules, zap.NewNop())
	ctx := t.Context()

	_, err := engine.Access().InitializeAccessControl(ctx, "admin")
	require.NoError(t, err)
	_, err = engine.Profile().Register(ctx, "admin", "Admin", enum.SquadRoleMasters, enum.ParticipationLevelMaster)
	require.NoError(t, err)

	project, err := engine.Project().Create(ctx, "admin", service.CreateProjectParams{
		Title:              "Album",
		EstimatedTotalHH:   100,
		FinalMonetaryValue: decimal.NewFromInt(1000),
		PoolHH:             40,
	})
	require.NoError(t, err)

	pledge, err := engine.Pledge().Pledge(ctx, "admin", project.ID, service.PledgeTarget{Pool: true}, 10)
	require.NoError(t, err)

	w := sweep.New(engine.Sweep(), time.Minute, 4, zap.NewNop())

	result, err := w.Round(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Expired)

	offset.Store(int64(rules.PledgeExpiry + time.Hour))

	result, err = w.Round(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Expired)

	got, err := engine.Pledge().Get(ctx, pledge.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PledgeStatusExpired, got.Status)

	// A second round finds nothing left to do
	result, err = w.Round(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Expired)
}

func TestStartStopsOnCancel(t *testing.T) {
	t.Parallel()

	sweeper := &fakeSweeper{ids: []int64{1}}
	w := sweep.New(sweeper, 10*time.Millisecond, 1, zap.NewNop())

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		sweeper.mu.Lock()
		defer sweeper.mu.Unlock()
		return len(sweeper.swept) >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
