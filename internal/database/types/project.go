package types

import (
	"errors"
	"slices"
	"time"

	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/shopspring/decimal"
)

var ErrProjectNotFound = errors.New("project not found")

// Project is the unit of funding: a declared HH capacity, a prize pool and its tasks.
type Project struct {
	ID                 int64              `bun:",pk,autoincrement"                   json:"id"`
	Title              string             `bun:",notnull"                            json:"title"`
	Description        string             `bun:",notnull,default:''"                 json:"description"`
	Creator            string             `bun:",notnull"                            json:"creator"`
	Participants       []string           `bun:",array,notnull"                      json:"participants"`
	Status             enum.ProjectStatus `bun:",notnull"                            json:"status"`
	EstimatedTotalHH   float64            `bun:"estimated_total_hh,notnull"          json:"estimatedTotalHH"`
	FinalMonetaryValue decimal.Decimal    `bun:",type:numeric(20,2),notnull"         json:"finalMonetaryValue"`
	SharedResourceLink string             `bun:",notnull,default:''"                 json:"sharedResourceLink"`
	PoolTaskID         int64              `bun:",notnull"                            json:"poolTaskId"`
	CreatedAt          time.Time          `bun:",notnull"                            json:"createdAt"`
	ActivatedAt        time.Time          `bun:",nullzero"                           json:"activatedAt"`
	CompletedAt        time.Time          `bun:",nullzero"                           json:"completedAt"`
	ArchivedAt         time.Time          `bun:",nullzero"                           json:"archivedAt"`
}

// HasParticipant reports whether identity takes part in the project.
func (p *Project) HasParticipant(identity string) bool {
	return slices.Contains(p.Participants, identity)
}

// AddParticipant adds identity to the participant set. It reports whether the set changed.
func (p *Project) AddParticipant(identity string) bool {
	if p.HasParticipant(identity) {
		return false
	}
	p.Participants = append(p.Participants, identity)

	return true
}

// IsOwner reports whether identity created the project.
func (p *Project) IsOwner(identity string) bool {
	return p.Creator == identity
}

// Clone returns a deep copy of the project.
func (p *Project) Clone() *Project {
	c := *p
	c.Participants = slices.Clone(p.Participants)

	return &c
}
