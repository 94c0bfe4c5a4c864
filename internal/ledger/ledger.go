// Package ledger computes the HH budget state of a project from its tasks and pledges.
//
// A Snapshot is built inside the project's transaction and every budget-affecting
// mutation is validated against it before anything is written.
package ledger

import (
	"errors"
	"fmt"

	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
)

// Epsilon absorbs floating point drift when comparing hour totals.
const Epsilon = 1e-9

var (
	// ErrBudgetExceeded is wrapped by every capacity violation.
	ErrBudgetExceeded = errors.New("budget exceeded")
	// ErrUnknownTask is returned when a task does not belong to the snapshot's project.
	ErrUnknownTask = errors.New("task not in project")
)

// TaskUsage tracks the pledge commitments against a single task.
type TaskUsage struct {
	TaskID    int64   `json:"taskId"`
	Budget    float64 `json:"budget"`
	Pending   float64 `json:"pending"`
	Confirmed float64 `json:"confirmed"`
	IsPool    bool    `json:"isPool"`
}

// Committed returns the hours reserved on the task by pending and counted pledges.
func (u TaskUsage) Committed() float64 {
	return u.Pending + u.Confirmed
}

// Remaining returns the task budget not yet reserved by pledges.
func (u TaskUsage) Remaining() float64 {
	return u.Budget - u.Committed()
}

// Snapshot is the budget state of one project at a point in time.
type Snapshot struct {
	ProjectID   int64               `json:"projectId"`
	Capacity    float64             `json:"capacity"`
	PoolTaskID  int64               `json:"poolTaskId"`
	PoolBudget  float64             `json:"poolBudget"`
	TaskBudgets float64             `json:"taskBudgets"`
	Pending     float64             `json:"pending"`
	Confirmed   float64             `json:"confirmed"`
	Tasks       map[int64]TaskUsage `json:"tasks"`
}

// Build aggregates a project's tasks and pledges into a snapshot.
// Pledges on tasks outside the given set still count toward project totals.
func Build(project *types.Project, tasks []*types.Task, pledges []*types.Pledge) *Snapshot {
	s := &Snapshot{
		ProjectID:  project.ID,
		Capacity:   project.EstimatedTotalHH,
		PoolTaskID: project.PoolTaskID,
		Tasks:      make(map[int64]TaskUsage, len(tasks)),
	}

	for _, task := range tasks {
		if task.ProjectID != project.ID {
			continue
		}

		if task.IsPool {
			s.PoolBudget = task.HHBudget
		} else {
			s.TaskBudgets += task.HHBudget
		}

		s.Tasks[task.ID] = TaskUsage{
			TaskID: task.ID,
			Budget: task.HHBudget,
			IsPool: task.IsPool,
		}
	}

	for _, pledge := range pledges {
		if pledge.ProjectID != project.ID || !pledge.Status.Reserving() {
			continue
		}

		usage := s.Tasks[pledge.TaskID]
		if pledge.Status == enum.PledgeStatusPending {
			s.Pending += pledge.Amount
			usage.Pending += pledge.Amount
		} else {
			s.Confirmed += pledge.Amount
			usage.Confirmed += pledge.Amount
		}

		if _, ok := s.Tasks[pledge.TaskID]; ok {
			s.Tasks[pledge.TaskID] = usage
		}
	}

	return s
}

// Allocated returns the hours assigned to task budgets including the pool.
func (s *Snapshot) Allocated() float64 {
	return s.TaskBudgets + s.PoolBudget
}

// Unallocated returns the capacity not yet assigned to any task budget.
func (s *Snapshot) Unallocated() float64 {
	return s.Capacity - s.Allocated()
}

// Committed returns the hours reserved by pending and counted pledges.
func (s *Snapshot) Committed() float64 {
	return s.Pending + s.Confirmed
}

// Uncommitted returns the capacity not yet reserved by pledges.
func (s *Snapshot) Uncommitted() float64 {
	return s.Capacity - s.Committed()
}

// Task returns the usage of a task in the project.
func (s *Snapshot) Task(taskID int64) (TaskUsage, bool) {
	usage, ok := s.Tasks[taskID]
	return usage, ok
}

// CheckTaskBudget validates that a new task with the given budget fits in the unallocated capacity.
func (s *Snapshot) CheckTaskBudget(hhBudget float64) error {
	if hhBudget > s.Unallocated()+Epsilon {
		return fmt.Errorf("%w: task budget %.2f exceeds unallocated capacity %.2f",
			ErrBudgetExceeded, hhBudget, s.Unallocated())
	}

	return nil
}

// CheckPledge validates that a new pledge fits both the project capacity and its target task.
func (s *Snapshot) CheckPledge(taskID int64, amount float64) error {
	usage, ok := s.Tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTask, taskID)
	}

	if amount > s.Uncommitted()+Epsilon {
		return fmt.Errorf("%w: pledge %.2f exceeds remaining project capacity %.2f",
			ErrBudgetExceeded, amount, s.Uncommitted())
	}

	if amount > usage.Remaining()+Epsilon {
		return fmt.Errorf("%w: pledge %.2f exceeds remaining task budget %.2f",
			ErrBudgetExceeded, amount, usage.Remaining())
	}

	return nil
}

// CheckReassign validates moving a counted pool pledge of amount hours onto taskID.
// Project totals are unchanged by a reassignment so only the target task is checked.
func (s *Snapshot) CheckReassign(taskID int64, amount float64) error {
	usage, ok := s.Tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTask, taskID)
	}

	if amount > usage.Remaining()+Epsilon {
		return fmt.Errorf("%w: reassigned %.2f exceeds remaining task budget %.2f",
			ErrBudgetExceeded, amount, usage.Remaining())
	}

	return nil
}

// ActivationReady reports whether counted hours reached threshold of capacity with nothing pending.
func (s *Snapshot) ActivationReady(threshold float64) bool {
	if s.Capacity <= 0 || s.Pending > Epsilon {
		return false
	}

	return s.Confirmed+Epsilon >= threshold*s.Capacity
}

// Validate checks the invariants a committed project state must satisfy.
func (s *Snapshot) Validate() error {
	if s.Allocated() > s.Capacity+Epsilon {
		return fmt.Errorf("%w: allocated %.2f over capacity %.2f", ErrBudgetExceeded, s.Allocated(), s.Capacity)
	}

	if s.Committed() > s.Capacity+Epsilon {
		return fmt.Errorf("%w: committed %.2f over capacity %.2f", ErrBudgetExceeded, s.Committed(), s.Capacity)
	}

	for _, usage := range s.Tasks {
		if usage.Committed() > usage.Budget+Epsilon {
			return fmt.Errorf("%w: task %d committed %.2f over budget %.2f",
				ErrBudgetExceeded, usage.TaskID, usage.Committed(), usage.Budget)
		}
	}

	return nil
}
