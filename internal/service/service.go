// Package service implements the engine's operations on top of a database.Store.
//
// Every mutating operation resolves the caller's access, opens a transaction holding
// the target project's lock, validates against a fresh ledger snapshot and only then
// writes the transition.
package service

import (
	"github.com/robalyx/squadpledge/internal/database"
	"go.uber.org/zap"
)

// Engine provides access to all engine services.
type Engine struct {
	access  *AccessService
	profile *ProfileService
	project *ProjectService
	task    *TaskService
	pledge  *PledgeService
	vote    *VoteService
	rating  *RatingService
	sweep   *SweepService
}

// New creates an Engine over store.
func New(store database.Store, rules Rules, logger *zap.Logger) *Engine {
	r := &rules

	return &Engine{
		access:  NewAccess(store, r, logger),
		profile: NewProfile(store, r, logger),
		project: NewProject(store, r, logger),
		task:    NewTask(store, r, logger),
		pledge:  NewPledge(store, r, logger),
		vote:    NewVote(store, r, logger),
		rating:  NewRating(store, r, logger),
		sweep:   NewSweep(store, r, logger),
	}
}

// Access returns the access service.
func (e *Engine) Access() *AccessService {
	return e.access
}

// Profile returns the profile service.
func (e *Engine) Profile() *ProfileService {
	return e.profile
}

// Project returns the project service.
func (e *Engine) Project() *ProjectService {
	return e.project
}

// Task returns the task service.
func (e *Engine) Task() *TaskService {
	return e.task
}

// Pledge returns the pledge service.
func (e *Engine) Pledge() *PledgeService {
	return e.pledge
}

// Vote returns the vote service.
func (e *Engine) Vote() *VoteService {
	return e.vote
}

// Rating returns the rating service.
func (e *Engine) Rating() *RatingService {
	return e.rating
}

// Sweep returns the sweep service.
func (e *Engine) Sweep() *SweepService {
	return e.sweep
}
