package types

import (
	"errors"
	"time"

	"github.com/robalyx/squadpledge/internal/database/types/enum"
)

var ErrApprovalNotFound = errors.New("approval not found")

// UserRole maps an identity to its coarse role. Identities without a row are guests.
type UserRole struct {
	Identity  string        `bun:",pk"      json:"identity"`
	Role      enum.UserRole `bun:",notnull" json:"role"`
	UpdatedAt time.Time     `bun:",notnull" json:"updatedAt"`
}

// UserApproval records an access request and the administrator decision on it.
type UserApproval struct {
	Identity    string              `bun:",pk"                 json:"identity"`
	Status      enum.ApprovalStatus `bun:",notnull"            json:"status"`
	RequestedAt time.Time           `bun:",notnull"            json:"requestedAt"`
	DecidedAt   time.Time           `bun:",nullzero"           json:"decidedAt"`
	DecidedBy   string              `bun:",notnull,default:''" json:"decidedBy,omitempty"`
}

// Access is the resolved access state of a caller.
type Access struct {
	Identity string               `json:"identity"`
	Role     enum.UserRole        `json:"role"`
	Approval *enum.ApprovalStatus `json:"approval,omitempty"`
	Tier     enum.AccessTier      `json:"tier"`
}

// IsAdmin reports whether the caller holds the administrator role.
func (a *Access) IsAdmin() bool {
	return a.Role == enum.UserRoleAdmin
}

// IsApproved reports whether the caller may use member operations.
func (a *Access) IsApproved() bool {
	return a.Tier == enum.AccessTierApproved || a.Tier == enum.AccessTierAdmin
}

// ResolveTier combines a role and an optional approval status into an access tier.
func ResolveTier(role enum.UserRole, approval *enum.ApprovalStatus) enum.AccessTier {
	if role == enum.UserRoleAdmin {
		return enum.AccessTierAdmin
	}

	if approval == nil {
		return enum.AccessTierUnapproved
	}

	switch *approval {
	case enum.ApprovalStatusApproved:
		return enum.AccessTierApproved
	case enum.ApprovalStatusPending:
		return enum.AccessTierPending
	case enum.ApprovalStatusRejected:
		return enum.AccessTierUnapproved
	default:
		return enum.AccessTierUnapproved
	}
}
