// Package memory provides an in-process implementation of database.Store.
//
// Every Update works on a copy of the state that replaces the live state only when the
// unit of work succeeds. Stored records are never mutated in place: writes store fresh
// copies and reads hand out copies, so copying the indexes is enough to isolate a
// transaction.
package memory

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync/atomic"

	"github.com/robalyx/squadpledge/internal/database"
	"github.com/robalyx/squadpledge/internal/database/types"
	"go.uber.org/zap"
)

// ErrReadOnly is returned when a write is attempted inside View.
var ErrReadOnly = errors.New("write attempted in read-only transaction")

type sequences struct {
	project   int64
	task      int64
	pledge    int64
	challenge int64
	vote      int64
	rating    int64
}

type state struct {
	profiles   map[string]*types.UserProfile
	roles      map[string]*types.UserRole
	approvals  map[string]*types.UserApproval
	projects   map[int64]*types.Project
	tasks      map[int64]*types.Task
	pledges    map[int64]*types.Pledge
	challenges map[int64]*types.Challenge
	votes      []*types.Vote
	ratings    []*types.PeerRating
	payouts    []*types.Payout
	seq        sequences
}

func newState() *state {
	return &state{
		profiles:   make(map[string]*types.UserProfile),
		roles:      make(map[string]*types.UserRole),
		approvals:  make(map[string]*types.UserApproval),
		projects:   make(map[int64]*types.Project),
		tasks:      make(map[int64]*types.Task),
		pledges:    make(map[int64]*types.Pledge),
		challenges: make(map[int64]*types.Challenge),
	}
}

func (s *state) clone() *state {
	return &state{
		profiles:   maps.Clone(s.profiles),
		roles:      maps.Clone(s.roles),
		approvals:  maps.Clone(s.approvals),
		projects:   maps.Clone(s.projects),
		tasks:      maps.Clone(s.tasks),
		pledges:    maps.Clone(s.pledges),
		challenges: maps.Clone(s.challenges),
		votes:      slices.Clone(s.votes),
		ratings:    slices.Clone(s.ratings),
		payouts:    slices.Clone(s.payouts),
		seq:        s.seq,
	}
}

// Store is an in-memory database.Store. A single writer runs at a time and readers
// observe the last committed state without blocking.
type Store struct {
	writer  chan struct{}
	current atomic.Pointer[state]
	logger  *zap.Logger
}

// New creates an empty in-memory store.
func New(logger *zap.Logger) *Store {
	s := &Store{
		writer: make(chan struct{}, 1),
		logger: logger.Named("db_memory"),
	}
	s.current.Store(newState())

	return s
}

// Update implements database.Store.
func (s *Store) Update(
	ctx context.Context, projectID int64, fn func(ctx context.Context, tx database.Tx) error,
) error {
	select {
	case s.writer <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.writer }()

	current := s.current.Load()
	if projectID != database.NoProject {
		if _, ok := current.projects[projectID]; !ok {
			return types.ErrProjectNotFound
		}
	}

	work := current.clone()
	if err := fn(ctx, &tx{state: work, writable: true}); err != nil {
		return err
	}

	s.current.Store(work)

	return nil
}

// View implements database.Store.
func (s *Store) View(ctx context.Context, fn func(ctx context.Context, tx database.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return fn(ctx, &tx{state: s.current.Load()})
}

// Close implements database.Store.
func (s *Store) Close() error {
	s.logger.Debug("In-memory store closed")
	return nil
}
