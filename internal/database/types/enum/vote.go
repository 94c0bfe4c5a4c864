package enum

// VoteKind represents what a vote is cast on.
//
//go:generate go tool enumer -type=VoteKind -trimprefix=VoteKind -transform=title-lower -json
type VoteKind int

const (
	// VoteKindFinalPrize targets a project's final prize distribution.
	VoteKindFinalPrize VoteKind = iota
	// VoteKindChallenge supports an outstanding challenge against a task.
	VoteKindChallenge
	// VoteKindTaskProposal supports a proposed task.
	VoteKindTaskProposal
)
