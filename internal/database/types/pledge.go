package types

import (
	"errors"
	"time"

	"github.com/robalyx/squadpledge/internal/database/types/enum"
)

var ErrPledgeNotFound = errors.New("pledge not found")

// Pledge is a member's promise of hours to a task or to the project pool.
// TaskID always names the current target; ReassignedFrom keeps the pool task once moved.
type Pledge struct {
	ID             int64             `bun:",pk,autoincrement"    json:"id"`
	ProjectID      int64             `bun:",notnull"             json:"projectId"`
	User           string            `bun:",notnull"             json:"user"`
	TaskID         int64             `bun:",notnull"             json:"taskId"`
	ReassignedFrom int64             `bun:",nullzero"            json:"reassignedFrom,omitempty"`
	Amount         float64           `bun:",notnull"             json:"amount"`
	Status         enum.PledgeStatus `bun:",notnull"             json:"status"`
	CreatedAt      time.Time         `bun:",notnull"             json:"createdAt"`
	ConfirmedAt    time.Time         `bun:",nullzero"            json:"confirmedAt"`
	ConfirmedBy    string            `bun:",notnull,default:''"  json:"confirmedBy,omitempty"`
	ExpiredAt      time.Time         `bun:",nullzero"            json:"expiredAt"`
	ReassignedAt   time.Time         `bun:",nullzero"            json:"reassignedAt"`
}

// ExpiresAt returns when a pending pledge lapses given the expiry period.
func (p *Pledge) ExpiresAt(ttl time.Duration) time.Time {
	return p.CreatedAt.Add(ttl)
}

// IsExpiredAt reports whether a pending pledge has passed its expiry at now.
func (p *Pledge) IsExpiredAt(now time.Time, ttl time.Duration) bool {
	return p.Status == enum.PledgeStatusPending && !now.Before(p.ExpiresAt(ttl))
}
