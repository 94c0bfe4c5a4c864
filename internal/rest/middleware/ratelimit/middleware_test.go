package ratelimit

import (
	"testing"
	"time"

	"github.com/robalyx/squadpledge/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCheck(t *testing.T) {
	t.Parallel()

	m := New(&config.RateLimit{
		RequestsPerSecond: 1,
		BurstSize:         2,
		StrikeLimit:       2,
		BlockDuration:     30,
	}, zap.NewNop())

	now := time.Now()

	for range 2 {
		allowed, _, _ := m.check("alice", now)
		assert.True(t, allowed)
	}

	allowed, retry, msg := m.check("alice", now)
	assert.False(t, allowed)
	assert.Positive(t, retry)
	assert.Equal(t, errRateLimit, msg)

	allowed, retry, msg = m.check("alice", now)
	assert.False(t, allowed)
	assert.Equal(t, 30*time.Second, retry)
	assert.Equal(t, errBlocked, msg)

	allowed, _, _ = m.check("bob", now)
	assert.True(t, allowed, "callers are limited independently")

	allowed, _, msg = m.check("alice", now.Add(10*time.Second))
	assert.False(t, allowed)
	assert.Equal(t, errBlocked, msg)

	allowed, _, _ = m.check("alice", now.Add(31*time.Second))
	assert.True(t, allowed)
}

func TestDisabled(t *testing.T) {
	t.Parallel()

	m := New(&config.RateLimit{}, zap.NewNop())
	for range 100 {
		allowed, _, _ := m.check("alice", time.Now())
		assert.True(t, allowed)
	}
}

func TestTTLMapExpires(t *testing.T) {
	t.Parallel()

	now := time.Now()
	m := newTTLMap[string, int](time.Minute)
	m.now = func() time.Time { return now }

	calls := 0
	create := func() int { calls++; return calls }

	assert.Equal(t, 1, m.GetOrCreate("a", create))
	assert.Equal(t, 1, m.GetOrCreate("a", create))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, m.GetOrCreate("a", create))

	m.GetOrCreate("b", create)
	now = now.Add(2 * time.Minute)
	m.GetOrCreate("c", create)
	assert.Equal(t, 1, m.Len())
}
