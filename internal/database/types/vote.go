package types

import (
	"errors"
	"time"

	"github.com/robalyx/squadpledge/internal/database/types/enum"
)

var (
	ErrVoteExists   = errors.New("vote already cast")
	ErrRatingExists = errors.New("peer already rated")
)

// Vote is an append-only weighted vote. Weight is the voter's power at cast time.
type Vote struct {
	ID        int64         `bun:",pk,autoincrement" json:"id"`
	TargetID  int64         `bun:",notnull"          json:"targetId"`
	Voter     string        `bun:",notnull"          json:"voter"`
	Kind      enum.VoteKind `bun:",notnull"          json:"kind"`
	Weight    int           `bun:",notnull"          json:"weight"`
	Timestamp time.Time     `bun:",notnull"          json:"timestamp"`
}

// PeerRating is one participant's rating of another after a project completes.
type PeerRating struct {
	ID        int64     `bun:",pk,autoincrement" json:"id"`
	ProjectID int64     `bun:",notnull"          json:"projectId"`
	Rater     string    `bun:",notnull"          json:"rater"`
	Ratee     string    `bun:",notnull"          json:"ratee"`
	Rating    float64   `bun:",notnull"          json:"rating"`
	Timestamp time.Time `bun:",notnull"          json:"timestamp"`
}
