package payout_test

import (
	"testing"
	"time"

	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/robalyx/squadpledge/internal/payout"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counted(user string, amount float64) *types.Pledge {
	return &types.Pledge{User: user, Amount: amount, Status: enum.PledgeStatusConfirmed}
}

func TestDistribute(t *testing.T) {
	t.Parallel()

	t.Run("proportional shares", func(t *testing.T) {
		t.Parallel()

		pledges := []*types.Pledge{counted("bob", 70), counted("alice", 30)}
		shares := payout.Distribute(pledges, decimal.NewFromInt(1000))

		require.Len(t, shares, 2)
		assert.Equal(t, "alice", shares[0].User)
		assert.Equal(t, "300.00", shares[0].Amount.StringFixed(2))
		assert.InDelta(t, 0.3, shares[0].Share, 1e-9)
		assert.Equal(t, "bob", shares[1].User)
		assert.Equal(t, "700.00", shares[1].Amount.StringFixed(2))
	})

	t.Run("aggregates per user and skips uncounted pledges", func(t *testing.T) {
		t.Parallel()

		pledges := []*types.Pledge{
			counted("alice", 10),
			{User: "alice", Amount: 20, Status: enum.PledgeStatusReassigned},
			{User: "bob", Amount: 50, Status: enum.PledgeStatusPending},
			{User: "carol", Amount: 50, Status: enum.PledgeStatusExpired},
		}
		shares := payout.Distribute(pledges, decimal.NewFromInt(90))

		require.Len(t, shares, 1)
		assert.InDelta(t, 30, shares[0].ConfirmedHH, 1e-9)
		assert.Equal(t, "90.00", shares[0].Amount.StringFixed(2))
	})

	t.Run("zero total yields empty distribution", func(t *testing.T) {
		t.Parallel()

		shares := payout.Distribute([]*types.Pledge{
			{User: "alice", Amount: 10, Status: enum.PledgeStatusPending},
		}, decimal.NewFromInt(500))
		assert.Empty(t, shares)
	})

	t.Run("rounding sums exactly to prize", func(t *testing.T) {
		t.Parallel()

		pledges := []*types.Pledge{counted("a", 1), counted("b", 1), counted("c", 1)}
		prize := decimal.RequireFromString("100.00")
		shares := payout.Distribute(pledges, prize)

		require.Len(t, shares, 3)
		assert.True(t, payout.Total(shares).Equal(prize))
		assert.Equal(t, "33.34", shares[0].Amount.StringFixed(2))
		assert.Equal(t, "33.33", shares[1].Amount.StringFixed(2))
		assert.Equal(t, "33.33", shares[2].Amount.StringFixed(2))
	})

	t.Run("uneven fractions", func(t *testing.T) {
		t.Parallel()

		pledges := []*types.Pledge{counted("a", 2.5), counted("b", 4.25), counted("c", 7)}
		prize := decimal.RequireFromString("1234.57")
		shares := payout.Distribute(pledges, prize)

		assert.True(t, payout.Total(shares).Equal(prize))
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		pledges := []*types.Pledge{counted("z", 3), counted("y", 3), counted("x", 3)}
		first := payout.Distribute(pledges, decimal.NewFromInt(10))
		second := payout.Distribute([]*types.Pledge{pledges[2], pledges[0], pledges[1]}, decimal.NewFromInt(10))

		require.Len(t, first, 3)
		for i := range first {
			assert.Equal(t, first[i].User, second[i].User)
			assert.True(t, first[i].Amount.Equal(second[i].Amount))
		}
	})
}

func TestReputation(t *testing.T) {
	t.Parallel()

	completed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	windows := map[int64]payout.Window{
		1: payout.RatingWindow(completed, 7*24*time.Hour),
	}
	mentors := map[string]bool{"mentor": true}

	ratings := []*types.PeerRating{
		{ProjectID: 1, Rater: "mentor", Ratee: "alice", Rating: 5, Timestamp: completed.Add(time.Hour)},
		{ProjectID: 1, Rater: "bob", Ratee: "alice", Rating: 1, Timestamp: completed.Add(2 * time.Hour)},
		{ProjectID: 1, Rater: "carol", Ratee: "alice", Rating: 0, Timestamp: completed.Add(8 * 24 * time.Hour)},
		{ProjectID: 2, Rater: "carol", Ratee: "alice", Rating: 0, Timestamp: completed},
		{ProjectID: 1, Rater: "alice", Ratee: "bob", Rating: 4, Timestamp: completed.Add(7 * 24 * time.Hour)},
	}

	scores := payout.Reputation(ratings, windows, mentors)

	// (5*3 + 1*1) / 4
	assert.InDelta(t, 4.0, scores["alice"], 1e-9)
	assert.InDelta(t, 4.0, scores["bob"], 1e-9)
	_, ok := scores["carol"]
	assert.False(t, ok)
}
