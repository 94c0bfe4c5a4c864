package types

import (
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/shopspring/decimal"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// SetApprovalRequest decides an access request.
type SetApprovalRequest struct {
	Status enum.ApprovalStatus `json:"status"`
}

// AssignRoleRequest changes a member's role.
type AssignRoleRequest struct {
	Role enum.UserRole `json:"role"`
}

// RequestApprovalResponse reports the caller's access request.
type RequestApprovalResponse struct {
	Status           enum.ApprovalStatus `json:"status"`
	AlreadyRequested bool                `json:"alreadyRequested"`
}

// RegisterRequest creates the caller's profile.
type RegisterRequest struct {
	DisplayName        string                  `json:"displayName"`
	SquadRole          enum.SquadRole          `json:"squadRole"`
	ParticipationLevel enum.ParticipationLevel `json:"participationLevel"`
}

// UpdateProfileRequest edits the caller's profile.
type UpdateProfileRequest struct {
	DisplayName    string `json:"displayName"`
	ProfilePicture string `json:"profilePicture"`
}

// UpdateLevelRequest changes a member's participation level.
type UpdateLevelRequest struct {
	ParticipationLevel enum.ParticipationLevel `json:"participationLevel"`
}

// PledgeRequest pledges hours to a task or the project pool.
type PledgeRequest struct {
	TaskID int64   `json:"taskId"`
	Pool   bool    `json:"pool"`
	Amount float64 `json:"amount"`
}

// ReassignRequest moves a pool pledge onto a task.
type ReassignRequest struct {
	TaskID int64 `json:"taskId"`
}

// ChallengeRequest raises a challenge against a task.
type ChallengeRequest struct {
	StakeHH float64 `json:"stakeHH"`
}

// VoteRequest casts a vote.
type VoteRequest struct {
	TargetID int64         `json:"targetId"`
	Kind     enum.VoteKind `json:"kind"`
}

// RatingRequest rates a fellow participant.
type RatingRequest struct {
	Ratee  string  `json:"ratee"`
	Rating float64 `json:"rating"`
}

// TaskUsage is the budget usage of one task.
type TaskUsage struct {
	TaskID    int64   `json:"taskId"`
	IsPool    bool    `json:"isPool"`
	Budget    float64 `json:"budget"`
	Pending   float64 `json:"pending"`
	Confirmed float64 `json:"confirmed"`
	Remaining float64 `json:"remaining"`
}

// Ledger is the budget view of a project.
type Ledger struct {
	ProjectID   int64       `json:"projectId"`
	Capacity    float64     `json:"capacity"`
	Allocated   float64     `json:"allocated"`
	Unallocated float64     `json:"unallocated"`
	Pending     float64     `json:"pending"`
	Confirmed   float64     `json:"confirmed"`
	Uncommitted float64     `json:"uncommitted"`
	Tasks       []TaskUsage `json:"tasks"`
}

// Payout is one member's settled share.
type Payout struct {
	User        string          `json:"user"`
	ConfirmedHH float64         `json:"confirmedHH"`
	Share       float64         `json:"share"`
	Amount      decimal.Decimal `json:"amount"`
}

// CompleteProjectResponse reports a completed project and its settlement.
type CompleteProjectResponse struct {
	ProjectID int64    `json:"projectId"`
	Total     string   `json:"total"`
	Payouts   []Payout `json:"payouts"`
}
