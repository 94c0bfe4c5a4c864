package enum

import "strings"

// PledgeStatus represents the lifecycle stage of a pledge.
//
//go:generate go tool enumer -type=PledgeStatus -trimprefix=PledgeStatus -transform=lower -json
type PledgeStatus int

const (
	// PledgeStatusPending awaits confirmation by the project lead.
	PledgeStatusPending PledgeStatus = iota
	// PledgeStatusConfirmed counts toward budget, pledged hours and payout.
	PledgeStatusConfirmed
	// PledgeStatusExpired was not confirmed in time and counts toward nothing.
	PledgeStatusExpired
	// PledgeStatusReassigned was a confirmed pool pledge moved onto a task.
	PledgeStatusReassigned
)

// pledgeStatusApprovedAlias is the name older callers use for confirmed pledges.
const pledgeStatusApprovedAlias = "approved"

// ParsePledgeStatus parses a pledge status, accepting "approved" as confirmed.
func ParsePledgeStatus(s string) (PledgeStatus, error) {
	if strings.EqualFold(s, pledgeStatusApprovedAlias) {
		return PledgeStatusConfirmed, nil
	}

	return PledgeStatusString(s)
}

// Counted reports whether the pledge is a committed contribution.
func (s PledgeStatus) Counted() bool {
	return s == PledgeStatusConfirmed || s == PledgeStatusReassigned
}

// Reserving reports whether the pledge holds capacity in the ledger.
func (s PledgeStatus) Reserving() bool {
	return s == PledgeStatusPending || s.Counted()
}
