package database

import (
	"context"
	"time"

	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
)

// NoProject is passed to Store.Update for mutations that are not scoped to a project,
// such as registration or role changes. Those updates are serialized with each other.
const NoProject int64 = 0

// Store runs transactional units of work against the engine's state.
type Store interface {
	// Update runs fn in a read-write transaction holding the exclusive lock of projectID.
	// Nothing fn wrote is visible if it returns an error.
	Update(ctx context.Context, projectID int64, fn func(ctx context.Context, tx Tx) error) error
	// View runs fn against a committed snapshot. Writes inside fn are not allowed.
	View(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Close releases the store's resources.
	Close() error
}

// Tx exposes the repositories available inside a transaction.
type Tx interface {
	Profiles() ProfileRepository
	Access() AccessRepository
	Projects() ProjectRepository
	Tasks() TaskRepository
	Pledges() PledgeRepository
	Challenges() ChallengeRepository
	Votes() VoteRepository
	Ratings() RatingRepository
	Payouts() PayoutRepository
}

// ProfileRepository stores registered member profiles.
type ProfileRepository interface {
	// Get returns types.ErrProfileNotFound when identity is not registered.
	Get(ctx context.Context, identity string) (*types.UserProfile, error)
	// GetForUpdate is Get that also holds the profile's row lock until the transaction ends.
	GetForUpdate(ctx context.Context, identity string) (*types.UserProfile, error)
	// Insert returns types.ErrProfileExists when identity is already registered.
	Insert(ctx context.Context, profile *types.UserProfile) error
	// Update writes the display fields and participation level only.
	Update(ctx context.Context, profile *types.UserProfile) error
	// AddTotals atomically adds to the pledged and earned hour counters.
	AddTotals(ctx context.Context, identity string, pledgedHH, earnedHH float64, updatedAt time.Time) error
	SetReputation(ctx context.Context, identity string, score float64, updatedAt time.Time) error
	List(ctx context.Context) ([]*types.UserProfile, error)
}

// AccessRepository stores roles and approval requests.
type AccessRepository interface {
	// GetRole returns enum.UserRoleGuest for identities without a role record.
	GetRole(ctx context.Context, identity string) (enum.UserRole, error)
	SaveRole(ctx context.Context, role *types.UserRole) error
	CountAdmins(ctx context.Context) (int, error)
	// GetApproval returns types.ErrApprovalNotFound when identity never requested access.
	GetApproval(ctx context.Context, identity string) (*types.UserApproval, error)
	SaveApproval(ctx context.Context, approval *types.UserApproval) error
	ListApprovals(ctx context.Context) ([]*types.UserApproval, error)
}

// ProjectRepository stores projects.
type ProjectRepository interface {
	// Insert assigns the project its ID.
	Insert(ctx context.Context, project *types.Project) error
	// Get returns types.ErrProjectNotFound for unknown IDs.
	Get(ctx context.Context, id int64) (*types.Project, error)
	Update(ctx context.Context, project *types.Project) error
	List(ctx context.Context) ([]*types.Project, error)
	ListByStatus(ctx context.Context, statuses ...enum.ProjectStatus) ([]*types.Project, error)
}

// TaskRepository stores tasks.
type TaskRepository interface {
	// Insert assigns the task its ID.
	Insert(ctx context.Context, task *types.Task) error
	// Get returns types.ErrTaskNotFound for unknown IDs.
	Get(ctx context.Context, id int64) (*types.Task, error)
	Update(ctx context.Context, task *types.Task) error
	ListByProject(ctx context.Context, projectID int64) ([]*types.Task, error)
	DeleteByProject(ctx context.Context, projectID int64) error
}

// PledgeRepository stores pledges. Pledges are never deleted.
type PledgeRepository interface {
	// Insert assigns the pledge its ID.
	Insert(ctx context.Context, pledge *types.Pledge) error
	// Get returns types.ErrPledgeNotFound for unknown IDs.
	Get(ctx context.Context, id int64) (*types.Pledge, error)
	Update(ctx context.Context, pledge *types.Pledge) error
	ListByProject(ctx context.Context, projectID int64) ([]*types.Pledge, error)
	// ListPendingBefore returns pending pledges created before cutoff.
	ListPendingBefore(ctx context.Context, cutoff time.Time) ([]*types.Pledge, error)
}

// ChallengeRepository stores audit challenges.
type ChallengeRepository interface {
	// Insert returns types.ErrChallengeExists when the challenger already challenged the task.
	Insert(ctx context.Context, challenge *types.Challenge) error
	Update(ctx context.Context, challenge *types.Challenge) error
	ListByTask(ctx context.Context, taskID int64) ([]*types.Challenge, error)
	DeleteByProject(ctx context.Context, projectID int64) error
}

// VoteRepository stores append-only votes.
type VoteRepository interface {
	// Insert returns types.ErrVoteExists when the voter already voted on the target with that kind.
	Insert(ctx context.Context, vote *types.Vote) error
	ListByTarget(ctx context.Context, targetID int64, kind enum.VoteKind) ([]*types.Vote, error)
}

// RatingRepository stores peer ratings.
type RatingRepository interface {
	// Insert returns types.ErrRatingExists on a second rating of the same ratee in a project.
	Insert(ctx context.Context, rating *types.PeerRating) error
	ListByProject(ctx context.Context, projectID int64) ([]*types.PeerRating, error)
	ListByRatee(ctx context.Context, ratee string) ([]*types.PeerRating, error)
}

// PayoutRepository stores settled payouts.
type PayoutRepository interface {
	InsertMany(ctx context.Context, payouts []*types.Payout) error
	ListByProject(ctx context.Context, projectID int64) ([]*types.Payout, error)
	// ListSettledProjects returns the IDs of projects that have payouts, in ascending order.
	ListSettledProjects(ctx context.Context) ([]int64, error)
}
