package types

import (
	"errors"
	"time"

	"github.com/robalyx/squadpledge/internal/database/types/enum"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already registered")
)

// UserProfile stores a registered member and their accumulated scores.
type UserProfile struct {
	Identity                 string                  `bun:",pk"                      json:"identity"`
	DisplayName              string                  `bun:",notnull"                 json:"displayName"`
	ProfilePicture           string                  `bun:",notnull,default:''"      json:"profilePicture"`
	SquadRole                enum.SquadRole          `bun:",notnull"                 json:"squadRole"`
	ParticipationLevel       enum.ParticipationLevel `bun:",notnull"                 json:"participationLevel"`
	ParticipationLevelLocked bool                    `bun:",notnull,default:false"   json:"participationLevelLocked"`
	TotalPledgedHH           float64                 `bun:"total_pledged_hh,notnull" json:"totalPledgedHH"`
	TotalEarnedHH            float64                 `bun:"total_earned_hh,notnull"  json:"totalEarnedHH"`
	OverallReputationScore   float64                 `bun:",notnull"                 json:"overallReputationScore"`
	TotalEnablerPoints       int64                   `bun:",notnull"                 json:"totalEnablerPoints"`
	CreatedAt                time.Time               `bun:",notnull"                 json:"createdAt"`
	UpdatedAt                time.Time               `bun:",notnull"                 json:"updatedAt"`
}

// VotingPower returns the vote weight of the profile's current level.
func (p *UserProfile) VotingPower() int {
	return p.ParticipationLevel.VotingPower()
}

// IsMentor reports whether the member registered with the mentor squad role.
func (p *UserProfile) IsMentor() bool {
	return p.SquadRole == enum.SquadRoleMentor
}
