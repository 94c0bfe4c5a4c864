// Package payout splits a completed project's prize among its contributors and
// aggregates peer ratings into reputation scores.
package payout

import (
	"cmp"
	"slices"

	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/shopspring/decimal"
)

// Share is one contributor's portion of a prize.
type Share struct {
	User        string          `json:"user"`
	ConfirmedHH float64         `json:"confirmedHH"`
	Share       float64         `json:"share"`
	Amount      decimal.Decimal `json:"amount"`
}

// Distribute splits prize across the counted pledges in proportion to hours.
// Amounts are rounded to cents with the largest remainder method so they sum to the
// rounded prize. Shares are ordered by user identity. A zero hour total yields no shares.
func Distribute(pledges []*types.Pledge, prize decimal.Decimal) []Share {
	hours := make(map[string]float64)
	for _, pledge := range pledges {
		if !pledge.Status.Counted() || pledge.Amount <= 0 {
			continue
		}
		hours[pledge.User] += pledge.Amount
	}

	var total float64
	users := make([]string, 0, len(hours))
	for user, hh := range hours {
		users = append(users, user)
		total += hh
	}

	if total <= 0 {
		return []Share{}
	}
	slices.Sort(users)

	totalDec := decimal.NewFromFloat(total)
	prizeCents := prize.Round(2).Shift(2)

	type remainder struct {
		index int
		frac  decimal.Decimal
	}

	shares := make([]Share, len(users))
	remainders := make([]remainder, len(users))
	allocated := decimal.Zero

	for i, user := range users {
		hh := decimal.NewFromFloat(hours[user])
		raw := prizeCents.Mul(hh).Div(totalDec)
		cents := raw.Floor()

		shares[i] = Share{
			User:        user,
			ConfirmedHH: hours[user],
			Share:       hours[user] / total,
			Amount:      cents,
		}
		remainders[i] = remainder{index: i, frac: raw.Sub(cents)}
		allocated = allocated.Add(cents)
	}

	// Hand out leftover cents to the largest fractional parts, ties by identity.
	slices.SortStableFunc(remainders, func(a, b remainder) int {
		if c := b.frac.Cmp(a.frac); c != 0 {
			return c
		}

		return cmp.Compare(a.index, b.index)
	})

	leftover := prizeCents.Sub(allocated).IntPart()
	for i := int64(0); i < leftover && len(remainders) > 0; i++ {
		idx := remainders[i%int64(len(remainders))].index
		shares[idx].Amount = shares[idx].Amount.Add(decimal.NewFromInt(1))
	}

	for i := range shares {
		shares[i].Amount = shares[i].Amount.Shift(-2)
	}

	return shares
}

// Total returns the sum of all share amounts.
func Total(shares []Share) decimal.Decimal {
	sum := decimal.Zero
	for _, share := range shares {
		sum = sum.Add(share.Amount)
	}

	return sum
}
