package service

import (
	"context"
	"strings"
	"time"

	"github.com/robalyx/squadpledge/internal/database"
	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"go.uber.org/zap"
)

// CreateTaskParams describes a new task.
type CreateTaskParams struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	HHBudget     float64 `json:"hhBudget"`
	Dependencies []int64 `json:"dependencies"`
}

// TaskService handles the task lifecycle and audit challenges.
type TaskService struct {
	store  database.Store
	rules  *Rules
	logger *zap.Logger
}

// NewTask creates a new task service.
func NewTask(store database.Store, rules *Rules, logger *zap.Logger) *TaskService {
	return &TaskService{
		store:  store,
		rules:  rules,
		logger: logger.Named("task_service"),
	}
}

// Create proposes a new task in a project.
func (s *TaskService) Create(
	ctx context.Context, caller string, projectID int64, params CreateTaskParams,
) (*types.Task, error) {
	params.Title = cleanText(params.Title)

	switch {
	case params.Title == "":
		return nil, validation("title is required")
	case strings.EqualFold(params.Title, types.PoolTaskTitle):
		return nil, validation("title %q is reserved", types.PoolTaskTitle)
	case !validHours(params.HHBudget):
		return nil, validation("HH budget must be positive")
	}

	var task *types.Task

	err := s.store.Update(ctx, projectID, func(ctx context.Context, tx database.Tx) error {
		access, err := requireApproved(ctx, tx, caller)
		if err != nil {
			return err
		}

		project, err := tx.Projects().Get(ctx, projectID)
		if err != nil {
			return err
		}

		if err := requireOpen(project); err != nil {
			return err
		}

		if !access.IsAdmin() && !project.IsOwner(caller) && !project.HasParticipant(caller) {
			return accessDenied("only participants may propose tasks")
		}

		tasks, err := tx.Tasks().ListByProject(ctx, projectID)
		if err != nil {
			return err
		}

		deps, err := checkDependencies(tasks, params.Dependencies)
		if err != nil {
			return err
		}

		snap, err := snapshot(ctx, tx, project)
		if err != nil {
			return err
		}

		if err := snap.CheckTaskBudget(params.HHBudget); err != nil {
			return err
		}

		task = &types.Task{
			ProjectID:    projectID,
			Title:        params.Title,
			Description:  cleanText(params.Description),
			HHBudget:     params.HHBudget,
			Status:       enum.TaskStatusProposed,
			Dependencies: deps,
			CreatedAt:    s.rules.now(),
		}

		return tx.Tasks().Insert(ctx, task)
	})
	if err != nil {
		return nil, classify(err)
	}

	s.logger.Info("Task proposed",
		zap.Int64("projectID", projectID),
		zap.Int64("taskID", task.ID),
		zap.String("caller", caller),
		zap.Float64("hhBudget", task.HHBudget))

	return task, nil
}

// checkDependencies requires every dependency to be a distinct regular task of the project.
func checkDependencies(tasks []*types.Task, deps []int64) ([]int64, error) {
	known := make(map[int64]*types.Task, len(tasks))
	for _, task := range tasks {
		known[task.ID] = task
	}

	result := make([]int64, 0, len(deps))
	seen := make(map[int64]struct{}, len(deps))

	for _, id := range deps {
		task, ok := known[id]
		if !ok {
			return nil, validation("dependency %d is not a task of this project", id)
		}
		if task.IsPool {
			return nil, validation("the pool task cannot be a dependency")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}

	return result, nil
}

// Confirm moves a proposed task to taskConfirmed so pledges on it can be confirmed.
func (s *TaskService) Confirm(ctx context.Context, caller string, taskID int64) (*types.Task, error) {
	task, err := s.mutate(ctx, caller, taskID, func(
		ctx context.Context, tx database.Tx, access *types.Access, project *types.Project, task *types.Task,
	) error {
		if err := requireOwner(access, project); err != nil {
			return err
		}

		if task.IsPool {
			return invalidState("the pool task cannot be confirmed")
		}

		if task.Status != enum.TaskStatusProposed {
			return invalidState("task %d is %s", task.ID, task.Status)
		}

		task.Status = enum.TaskStatusTaskConfirmed

		return tx.Tasks().Update(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Task confirmed", zap.Int64("taskID", taskID), zap.String("caller", caller))

	return task, nil
}

// Accept assigns a confirmed task to the caller.
func (s *TaskService) Accept(ctx context.Context, caller string, taskID int64) (*types.Task, error) {
	task, err := s.mutate(ctx, caller, taskID, func(
		ctx context.Context, tx database.Tx, _ *types.Access, project *types.Project, task *types.Task,
	) error {
		if task.IsPool {
			return invalidState("the pool task cannot be accepted")
		}

		if task.Assignee != "" {
			return conflict("task %d is already assigned", task.ID)
		}

		if !task.Status.Acceptable() {
			return invalidState("task %d is %s", task.ID, task.Status)
		}

		if _, err := requireProfile(ctx, tx, caller); err != nil {
			return err
		}

		for _, depID := range task.Dependencies {
			dep, err := tx.Tasks().Get(ctx, depID)
			if err != nil {
				return err
			}
			if dep.Status != enum.TaskStatusCompleted {
				return invalidState("dependency %d is %s", dep.ID, dep.Status)
			}
		}

		task.Assignee = caller
		task.Status = enum.TaskStatusInProgress
		if err := tx.Tasks().Update(ctx, task); err != nil {
			return err
		}

		if project.AddParticipant(caller) {
			return tx.Projects().Update(ctx, project)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Task accepted", zap.Int64("taskID", taskID), zap.String("assignee", caller))

	return task, nil
}

// Complete hands an in-progress task over to audit.
func (s *TaskService) Complete(ctx context.Context, caller string, taskID int64) (*types.Task, error) {
	task, err := s.mutate(ctx, caller, taskID, func(
		ctx context.Context, tx database.Tx, _ *types.Access, _ *types.Project, task *types.Task,
	) error {
		if task.Assignee != caller {
			return accessDenied("only the assignee may complete task %d", task.ID)
		}

		if task.Status != enum.TaskStatusInProgress {
			return invalidState("task %d is %s", task.ID, task.Status)
		}

		task.Status = enum.TaskStatusInAudit
		task.AuditStartTime = s.rules.now()

		return tx.Tasks().Update(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Task in audit", zap.Int64("taskID", taskID), zap.String("assignee", caller))

	return task, nil
}

// Challenge raises a stake-backed objection against a task during its audit window.
func (s *TaskService) Challenge(
	ctx context.Context, caller string, taskID int64, stakeHH float64,
) (*types.Challenge, error) {
	if !validHours(stakeHH) {
		return nil, validation("stake must be positive")
	}

	var challenge *types.Challenge

	_, err := s.mutate(ctx, caller, taskID, func(
		ctx context.Context, tx database.Tx, access *types.Access, project *types.Project, task *types.Task,
	) error {
		if !project.HasParticipant(caller) && !project.IsOwner(caller) && !access.IsAdmin() {
			return accessDenied("only participants may challenge tasks")
		}

		if task.Assignee == caller {
			return accessDenied("the assignee cannot challenge their own task")
		}

		if task.Status != enum.TaskStatusInAudit && task.Status != enum.TaskStatusPendingConfirmation {
			return invalidState("task %d is %s", task.ID, task.Status)
		}

		now := s.rules.now()
		if !now.Before(task.AuditStartTime.Add(s.rules.AuditWindow)) {
			return invalidState("the audit window of task %d has closed", task.ID)
		}

		challenge = &types.Challenge{
			TaskID:     task.ID,
			ProjectID:  project.ID,
			Challenger: caller,
			StakeHH:    stakeHH,
			Timestamp:  now,
		}
		if err := tx.Challenges().Insert(ctx, challenge); err != nil {
			return err
		}

		task.Status = enum.TaskStatusPendingConfirmation

		return tx.Tasks().Update(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Task challenged",
		zap.Int64("taskID", taskID),
		zap.String("challenger", caller),
		zap.Float64("stakeHH", stakeHH))

	return challenge, nil
}

// Approve completes an audited task and credits its assignee with the task budget.
func (s *TaskService) Approve(ctx context.Context, caller string, taskID int64) (*types.Task, error) {
	task, err := s.mutate(ctx, caller, taskID, func(
		ctx context.Context, tx database.Tx, access *types.Access, project *types.Project, task *types.Task,
	) error {
		ok, err := isReviewer(ctx, tx, access, project)
		if err != nil {
			return err
		}
		if !ok {
			return accessDenied("caller may not review tasks of project %d", project.ID)
		}

		if task.Status != enum.TaskStatusInAudit {
			return invalidState("task %d is %s", task.ID, task.Status)
		}

		now := s.rules.now()
		task.Status = enum.TaskStatusCompleted
		task.CompletionTime = now
		if err := tx.Tasks().Update(ctx, task); err != nil {
			return err
		}

		return tx.Profiles().AddTotals(ctx, task.Assignee, 0, task.HHBudget, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Task approved",
		zap.Int64("taskID", taskID),
		zap.String("reviewer", caller),
		zap.String("assignee", task.Assignee),
		zap.Float64("earnedHH", task.HHBudget))

	return task, nil
}

// Reject fails an audited or challenged task. Outstanding challenges are upheld.
func (s *TaskService) Reject(ctx context.Context, caller string, taskID int64) (*types.Task, error) {
	task, err := s.mutate(ctx, caller, taskID, func(
		ctx context.Context, tx database.Tx, access *types.Access, project *types.Project, task *types.Task,
	) error {
		ok, err := isReviewer(ctx, tx, access, project)
		if err != nil {
			return err
		}
		if !ok {
			return accessDenied("caller may not review tasks of project %d", project.ID)
		}

		if task.Status != enum.TaskStatusInAudit && task.Status != enum.TaskStatusPendingConfirmation {
			return invalidState("task %d is %s", task.ID, task.Status)
		}

		return rejectTask(ctx, tx, task, s.rules.now())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Task rejected", zap.Int64("taskID", taskID), zap.String("reviewer", caller))

	return task, nil
}

// rejectTask marks the task rejected and upholds its open challenges.
func rejectTask(ctx context.Context, tx database.Tx, task *types.Task, now time.Time) error {
	task.Status = enum.TaskStatusRejected
	task.CompletionTime = now
	if err := tx.Tasks().Update(ctx, task); err != nil {
		return err
	}

	return settleChallenges(ctx, tx, task.ID, true)
}

// settleChallenges resolves the open challenges of a task. Stakes stay on the
// challenge records as a measure of conviction and are not moved to any balance.
func settleChallenges(ctx context.Context, tx database.Tx, taskID int64, upheld bool) error {
	challenges, err := tx.Challenges().ListByTask(ctx, taskID)
	if err != nil {
		return err
	}

	for _, challenge := range challenges {
		if challenge.Resolved {
			continue
		}
		challenge.Resolved = true
		challenge.Upheld = upheld
		if err := tx.Challenges().Update(ctx, challenge); err != nil {
			return err
		}
	}

	return nil
}

// ResolveChallenges settles the challenged tasks of a project whose audit window elapsed.
// A task whose challenge votes reach the quorum is rejected; otherwise its challenges are
// dismissed and it returns to audit. It returns the number of tasks resolved.
func (s *TaskService) ResolveChallenges(ctx context.Context, projectID int64) (int, error) {
	var resolved int

	err := s.store.Update(ctx, projectID, func(ctx context.Context, tx database.Tx) error {
		var err error
		resolved, err = resolveChallenges(ctx, tx, s.rules, projectID)
		return err
	})
	if err != nil {
		return 0, classify(err)
	}

	if resolved > 0 {
		s.logger.Info("Resolved challenged tasks",
			zap.Int64("projectID", projectID),
			zap.Int("count", resolved))
	}

	return resolved, nil
}

func resolveChallenges(ctx context.Context, tx database.Tx, rules *Rules, projectID int64) (int, error) {
	tasks, err := tx.Tasks().ListByProject(ctx, projectID)
	if err != nil {
		return 0, err
	}

	now := rules.now()
	resolved := 0

	for _, task := range tasks {
		if task.Status != enum.TaskStatusPendingConfirmation {
			continue
		}
		if now.Before(task.AuditStartTime.Add(rules.AuditWindow)) {
			continue
		}

		votes, err := tx.Votes().ListByTarget(ctx, task.ID, enum.VoteKindChallenge)
		if err != nil {
			return resolved, err
		}

		weight := 0
		for _, vote := range votes {
			weight += vote.Weight
		}

		if weight >= rules.ChallengeQuorum {
			err = rejectTask(ctx, tx, task, now)
		} else {
			task.Status = enum.TaskStatusInAudit
			if err = tx.Tasks().Update(ctx, task); err == nil {
				err = settleChallenges(ctx, tx, task.ID, false)
			}
		}
		if err != nil {
			return resolved, err
		}

		resolved++
	}

	return resolved, nil
}

type taskMutation func(
	ctx context.Context, tx database.Tx, access *types.Access, project *types.Project, task *types.Task,
) error

// mutate runs fn on a freshly read task under its project's lock. The caller must be
// approved and the project must accept changes.
func (s *TaskService) mutate(ctx context.Context, caller string, taskID int64, fn taskMutation) (*types.Task, error) {
	projectID, err := projectOf(ctx, s.store, func(ctx context.Context, tx database.Tx) (int64, error) {
		task, err := tx.Tasks().Get(ctx, taskID)
		if err != nil {
			return 0, err
		}
		return task.ProjectID, nil
	})
	if err != nil {
		return nil, err
	}

	var task *types.Task

	err = s.store.Update(ctx, projectID, func(ctx context.Context, tx database.Tx) error {
		access, err := requireApproved(ctx, tx, caller)
		if err != nil {
			return err
		}

		project, err := tx.Projects().Get(ctx, projectID)
		if err != nil {
			return err
		}

		if err := requireOpen(project); err != nil {
			return err
		}

		task, err = tx.Tasks().Get(ctx, taskID)
		if err != nil {
			return err
		}

		return fn(ctx, tx, access, project, task)
	})
	if err != nil {
		return nil, classify(err)
	}

	return task, nil
}

// Get returns a task.
func (s *TaskService) Get(ctx context.Context, taskID int64) (*types.Task, error) {
	var task *types.Task

	err := s.store.View(ctx, func(ctx context.Context, tx database.Tx) error {
		var err error
		task, err = tx.Tasks().Get(ctx, taskID)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	return task, nil
}

// List returns the tasks of a project, pool task included.
func (s *TaskService) List(ctx context.Context, projectID int64) ([]*types.Task, error) {
	var tasks []*types.Task

	err := s.store.View(ctx, func(ctx context.Context, tx database.Tx) error {
		if _, err := tx.Projects().Get(ctx, projectID); err != nil {
			return err
		}

		var err error
		tasks, err = tx.Tasks().ListByProject(ctx, projectID)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	return tasks, nil
}

// ListChallenges returns the challenges raised against a task.
func (s *TaskService) ListChallenges(ctx context.Context, taskID int64) ([]*types.Challenge, error) {
	var challenges []*types.Challenge

	err := s.store.View(ctx, func(ctx context.Context, tx database.Tx) error {
		if _, err := tx.Tasks().Get(ctx, taskID); err != nil {
			return err
		}

		var err error
		challenges, err = tx.Challenges().ListByTask(ctx, taskID)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	return challenges, nil
}
