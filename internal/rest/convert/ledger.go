package convert

import (
	"cmp"
	"slices"

	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/ledger"
	restTypes "github.com/robalyx/squadpledge/internal/rest/types"
	"github.com/shopspring/decimal"
)

// Ledger converts a budget snapshot to its REST form with tasks ordered by ID.
func Ledger(snap *ledger.Snapshot) restTypes.Ledger {
	tasks := make([]restTypes.TaskUsage, 0, len(snap.Tasks))
	for _, usage := range snap.Tasks {
		tasks = append(tasks, restTypes.TaskUsage{
			TaskID:    usage.TaskID,
			IsPool:    usage.IsPool,
			Budget:    usage.Budget,
			Pending:   usage.Pending,
			Confirmed: usage.Confirmed,
			Remaining: usage.Remaining(),
		})
	}
	slices.SortFunc(tasks, func(a, b restTypes.TaskUsage) int { return cmp.Compare(a.TaskID, b.TaskID) })

	return restTypes.Ledger{
		ProjectID:   snap.ProjectID,
		Capacity:    snap.Capacity,
		Allocated:   snap.Allocated(),
		Unallocated: snap.Unallocated(),
		Pending:     snap.Pending,
		Confirmed:   snap.Confirmed,
		Uncommitted: snap.Uncommitted(),
		Tasks:       tasks,
	}
}

// Settlement converts stored payouts to the completion response.
func Settlement(projectID int64, payouts []*types.Payout) restTypes.CompleteProjectResponse {
	total := decimal.Zero
	out := make([]restTypes.Payout, 0, len(payouts))

	for _, p := range payouts {
		total = total.Add(p.Amount)
		out = append(out, restTypes.Payout{
			User:        p.User,
			ConfirmedHH: p.ConfirmedHH,
			Share:       p.Share,
			Amount:      p.Amount,
		})
	}

	return restTypes.CompleteProjectResponse{
		ProjectID: projectID,
		Total:     total.StringFixed(2),
		Payouts:   out,
	}
}
