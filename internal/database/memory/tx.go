package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"time"

	"github.com/robalyx/squadpledge/internal/database"
	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
)

type tx struct {
	state    *state
	writable bool
}

func (t *tx) Profiles() database.ProfileRepository     { return profiles{t} }
func (t *tx) Access() database.AccessRepository        { return access{t} }
func (t *tx) Projects() database.ProjectRepository     { return projects{t} }
func (t *tx) Tasks() database.TaskRepository           { return tasks{t} }
func (t *tx) Pledges() database.PledgeRepository       { return pledges{t} }
func (t *tx) Challenges() database.ChallengeRepository { return challenges{t} }
func (t *tx) Votes() database.VoteRepository           { return votes{t} }
func (t *tx) Ratings() database.RatingRepository       { return ratings{t} }
func (t *tx) Payouts() database.PayoutRepository       { return payouts{t} }

func (t *tx) checkWritable() error {
	if !t.writable {
		return ErrReadOnly
	}
	return nil
}

// sortedValues returns copies of the map values ordered by key.
func sortedValues[K cmp.Ordered, V any](m map[K]*V, keep func(*V) bool) []*V {
	keys := make([]K, 0, len(m))
	for k, v := range m {
		if keep == nil || keep(v) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	out := make([]*V, 0, len(keys))
	for _, k := range keys {
		c := *m[k]
		out = append(out, &c)
	}

	return out
}

type profiles struct{ *tx }

func (r profiles) Get(_ context.Context, identity string) (*types.UserProfile, error) {
	profile, ok := r.state.profiles[identity]
	if !ok {
		return nil, types.ErrProfileNotFound
	}
	c := *profile

	return &c, nil
}

// GetForUpdate needs no row lock since writers are already serialized.
func (r profiles) GetForUpdate(ctx context.Context, identity string) (*types.UserProfile, error) {
	return r.Get(ctx, identity)
}

func (r profiles) Insert(_ context.Context, profile *types.UserProfile) error {
	if err := r.checkWritable(); err != nil {
		return err
	}

	if _, ok := r.state.profiles[profile.Identity]; ok {
		return types.ErrProfileExists
	}
	c := *profile
	r.state.profiles[profile.Identity] = &c

	return nil
}

func (r profiles) Update(_ context.Context, profile *types.UserProfile) error {
	if err := r.checkWritable(); err != nil {
		return err
	}

	current, ok := r.state.profiles[profile.Identity]
	if !ok {
		return types.ErrProfileNotFound
	}
	c := *current
	c.DisplayName = profile.DisplayName
	c.ProfilePicture = profile.ProfilePicture
	c.ParticipationLevel = profile.ParticipationLevel
	c.ParticipationLevelLocked = profile.ParticipationLevelLocked
	c.UpdatedAt = profile.UpdatedAt
	r.state.profiles[profile.Identity] = &c

	return nil
}

func (r profiles) AddTotals(_ context.Context, identity string, pledgedHH, earnedHH float64, updatedAt time.Time) error {
	if err := r.checkWritable(); err != nil {
		return err
	}

	profile, ok := r.state.profiles[identity]
	if !ok {
		return types.ErrProfileNotFound
	}
	c := *profile
	c.TotalPledgedHH += pledgedHH
	c.TotalEarnedHH += earnedHH
	c.UpdatedAt = updatedAt
	r.state.profiles[identity] = &c

	return nil
}

func (r profiles) SetReputation(_ context.Context, identity string, score float64, updatedAt time.Time) error {
	if err := r.checkWritable(); err != nil {
		return err
	}

	profile, ok := r.state.profiles[identity]
	if !ok {
		return types.ErrProfileNotFound
	}
	c := *profile
	c.OverallReputationScore = score
	c.UpdatedAt = updatedAt
	r.state.profiles[identity] = &c

	return nil
}

func (r profiles) List(_ context.Context) ([]*types.UserProfile, error) {
	return sortedValues(r.state.profiles, nil), nil
}

type access struct{ *tx }

func (r access) GetRole(_ context.Context, identity string) (enum.UserRole, error) {
	role, ok := r.state.roles[identity]
	if !ok {
		return enum.UserRoleGuest, nil
	}

	return role.Role, nil
}

func (r access) SaveRole(_ context.Context, role *types.UserRole) error {
	if err := r.checkWritable(); err != nil {
		return err
	}
	c := *role
	r.state.roles[role.Identity] = &c

	return nil
}

func (r access) CountAdmins(_ context.Context) (int, error) {
	count := 0
	for _, role := range r.state.roles {
		if role.Role == enum.UserRoleAdmin {
			count++
		}
	}

	return count, nil
}

func (r access) GetApproval(_ context.Context, identity string) (*types.UserApproval, error) {
	approval, ok := r.state.approvals[identity]
	if !ok {
		return nil, types.ErrApprovalNotFound
	}
	c := *approval

	return &c, nil
}

func (r access) SaveApproval(_ context.Context, approval *types.UserApproval) error {
	if err := r.checkWritable(); err != nil {
		return err
	}
	c := *approval
	r.state.approvals[approval.Identity] = &c

	return nil
}

func (r access) ListApprovals(_ context.Context) ([]*types.UserApproval, error) {
	return sortedValues(r.state.approvals, nil), nil
}

type projects struct{ *tx }

func (r projects) Insert(_ context.Context, project *types.Project) error {
	if err := r.checkWritable(); err != nil {
		return err
	}
	r.state.seq.project++
	project.ID = r.state.seq.project
	r.state.projects[project.ID] = project.Clone()

	return nil
}

func (r projects) Get(_ context.Context, id int64) (*types.Project, error) {
	project, ok := r.state.projects[id]
	if !ok {
		return nil, types.ErrProjectNotFound
	}

	return project.Clone(), nil
}

func (r projects) Update(_ context.Context, project *types.Project) error {
	if err := r.checkWritable(); err != nil {
		return err
	}

	if _, ok := r.state.projects[project.ID]; !ok {
		return types.ErrProjectNotFound
	}
	r.state.projects[project.ID] = project.Clone()

	return nil
}

func (r projects) List(_ context.Context) ([]*types.Project, error) {
	return r.list(nil), nil
}

func (r projects) ListByStatus(_ context.Context, statuses ...enum.ProjectStatus) ([]*types.Project, error) {
	return r.list(func(p *types.Project) bool {
		return slices.Contains(statuses, p.Status)
	}), nil
}

func (r projects) list(keep func(*types.Project) bool) []*types.Project {
	out := sortedValues(r.state.projects, keep)
	for i, project := range out {
		out[i] = project.Clone()
	}

	return out
}

type tasks struct{ *tx }

func (r tasks) Insert(_ context.Context, task *types.Task) error {
	if err := r.checkWritable(); err != nil {
		return err
	}
	r.state.seq.task++
	task.ID = r.state.seq.task
	r.state.tasks[task.ID] = task.Clone()

	return nil
}

func (r tasks) Get(_ context.Context, id int64) (*types.Task, error) {
	task, ok := r.state.tasks[id]
	if !ok {
		return nil, types.ErrTaskNotFound
	}

	return task.Clone(), nil
}

func (r tasks) Update(_ context.Context, task *types.Task) error {
	if err := r.checkWritable(); err != nil {
		return err
	}

	if _, ok := r.state.tasks[task.ID]; !ok {
		return types.ErrTaskNotFound
	}
	r.state.tasks[task.ID] = task.Clone()

	return nil
}

func (r tasks) ListByProject(_ context.Context, projectID int64) ([]*types.Task, error) {
	out := sortedValues(r.state.tasks, func(t *types.Task) bool { return t.ProjectID == projectID })
	for i, task := range out {
		out[i] = task.Clone()
	}

	return out, nil
}

func (r tasks) DeleteByProject(_ context.Context, projectID int64) error {
	if err := r.checkWritable(); err != nil {
		return err
	}

	maps.DeleteFunc(r.state.tasks, func(_ int64, t *types.Task) bool {
		return t.ProjectID == projectID
	})

	return nil
}

type pledges struct{ *tx }

func (r pledges) Insert(_ context.Context, pledge *types.Pledge) error {
	if err := r.checkWritable(); err != nil {
		return err
	}
	r.state.seq.pledge++
	pledge.ID = r.state.seq.pledge
	c := *pledge
	r.state.pledges[pledge.ID] = &c

	return nil
}

func (r pledges) Get(_ context.Context, id int64) (*types.Pledge, error) {
	pledge, ok := r.state.pledges[id]
	if !ok {
		return nil, types.ErrPledgeNotFound
	}
	c := *pledge

	return &c, nil
}

func (r pledges) Update(_ context.Context, pledge *types.Pledge) error {
	if err := r.checkWritable(); err != nil {
		return err
	}

	if _, ok := r.state.pledges[pledge.ID]; !ok {
		return types.ErrPledgeNotFound
	}
	c := *pledge
	r.state.pledges[pledge.ID] = &c

	return nil
}

func (r pledges) ListByProject(_ context.Context, projectID int64) ([]*types.Pledge, error) {
	return sortedValues(r.state.pledges, func(p *types.Pledge) bool { return p.ProjectID == projectID }), nil
}

func (r pledges) ListPendingBefore(_ context.Context, cutoff time.Time) ([]*types.Pledge, error) {
	return sortedValues(r.state.pledges, func(p *types.Pledge) bool {
		return p.Status == enum.PledgeStatusPending && p.CreatedAt.Before(cutoff)
	}), nil
}

type challenges struct{ *tx }

func (r challenges) Insert(_ context.Context, challenge *types.Challenge) error {
	if err := r.checkWritable(); err != nil {
		return err
	}

	for _, existing := range r.state.challenges {
		if existing.TaskID == challenge.TaskID && existing.Challenger == challenge.Challenger {
			return types.ErrChallengeExists
		}
	}

	r.state.seq.challenge++
	challenge.ID = r.state.seq.challenge
	c := *challenge
	r.state.challenges[challenge.ID] = &c

	return nil
}

func (r challenges) Update(_ context.Context, challenge *types.Challenge) error {
	if err := r.checkWritable(); err != nil {
		return err
	}
	c := *challenge
	r.state.challenges[challenge.ID] = &c

	return nil
}

func (r challenges) ListByTask(_ context.Context, taskID int64) ([]*types.Challenge, error) {
	return sortedValues(r.state.challenges, func(c *types.Challenge) bool { return c.TaskID == taskID }), nil
}

func (r challenges) DeleteByProject(_ context.Context, projectID int64) error {
	if err := r.checkWritable(); err != nil {
		return err
	}

	maps.DeleteFunc(r.state.challenges, func(_ int64, c *types.Challenge) bool {
		return c.ProjectID == projectID
	})

	return nil
}

type votes struct{ *tx }

func (r votes) Insert(_ context.Context, vote *types.Vote) error {
	if err := r.checkWritable(); err != nil {
		return err
	}

	for _, existing := range r.state.votes {
		if existing.TargetID == vote.TargetID && existing.Voter == vote.Voter && existing.Kind == vote.Kind {
			return types.ErrVoteExists
		}
	}

	r.state.seq.vote++
	vote.ID = r.state.seq.vote
	c := *vote
	r.state.votes = append(r.state.votes, &c)

	return nil
}

func (r votes) ListByTarget(_ context.Context, targetID int64, kind enum.VoteKind) ([]*types.Vote, error) {
	var out []*types.Vote
	for _, vote := range r.state.votes {
		if vote.TargetID == targetID && vote.Kind == kind {
			c := *vote
			out = append(out, &c)
		}
	}

	return out, nil
}

type ratings struct{ *tx }

func (r ratings) Insert(_ context.Context, rating *types.PeerRating) error {
	if err := r.checkWritable(); err != nil {
		return err
	}

	for _, existing := range r.state.ratings {
		if existing.ProjectID == rating.ProjectID && existing.Rater == rating.Rater && existing.Ratee == rating.Ratee {
			return types.ErrRatingExists
		}
	}

	r.state.seq.rating++
	rating.ID = r.state.seq.rating
	c := *rating
	r.state.ratings = append(r.state.ratings, &c)

	return nil
}

func (r ratings) ListByProject(_ context.Context, projectID int64) ([]*types.PeerRating, error) {
	return r.filter(func(pr *types.PeerRating) bool { return pr.ProjectID == projectID }), nil
}

func (r ratings) ListByRatee(_ context.Context, ratee string) ([]*types.PeerRating, error) {
	return r.filter(func(pr *types.PeerRating) bool { return pr.Ratee == ratee }), nil
}

func (r ratings) filter(keep func(*types.PeerRating) bool) []*types.PeerRating {
	var out []*types.PeerRating
	for _, rating := range r.state.ratings {
		if keep(rating) {
			c := *rating
			out = append(out, &c)
		}
	}

	return out
}

type payouts struct{ *tx }

func (r payouts) InsertMany(_ context.Context, rows []*types.Payout) error {
	if err := r.checkWritable(); err != nil {
		return err
	}

	for _, row := range rows {
		c := *row
		r.state.payouts = append(r.state.payouts, &c)
	}

	return nil
}

func (r payouts) ListByProject(_ context.Context, projectID int64) ([]*types.Payout, error) {
	var out []*types.Payout
	for _, row := range r.state.payouts {
		if row.ProjectID == projectID {
			c := *row
			out = append(out, &c)
		}
	}

	slices.SortFunc(out, func(a, b *types.Payout) int { return cmp.Compare(a.User, b.User) })

	return out, nil
}

func (r payouts) ListSettledProjects(_ context.Context) ([]int64, error) {
	seen := make(map[int64]struct{})
	for _, row := range r.state.payouts {
		seen[row.ProjectID] = struct{}{}
	}

	return slices.Sorted(maps.Keys(seen)), nil
}
