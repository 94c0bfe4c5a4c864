package enum

// TaskStatus represents the lifecycle stage of a task.
//
//go:generate go tool enumer -type=TaskStatus -trimprefix=TaskStatus -transform=title-lower -json
type TaskStatus int

const (
	// TaskStatusProposed is the initial state; pledges cannot be confirmed yet.
	TaskStatusProposed TaskStatus = iota
	// TaskStatusTaskConfirmed means the project lead accepted the proposal.
	TaskStatusTaskConfirmed
	// TaskStatusActive is a legacy status treated like TaskStatusTaskConfirmed.
	TaskStatusActive
	// TaskStatusInProgress has an assignee working on it.
	TaskStatusInProgress
	// TaskStatusInAudit was marked complete and is inside its audit window.
	TaskStatusInAudit
	// TaskStatusPendingConfirmation has an outstanding challenge.
	TaskStatusPendingConfirmation
	// TaskStatusCompleted was approved by a reviewer.
	TaskStatusCompleted
	// TaskStatusRejected lost a challenge or was rejected by a reviewer.
	TaskStatusRejected
)

// Acceptable reports whether a participant may self-assign a task in this status.
func (s TaskStatus) Acceptable() bool {
	return s == TaskStatusTaskConfirmed || s == TaskStatusActive
}

// Confirmed reports whether the task passed the confirmation step.
func (s TaskStatus) Confirmed() bool {
	return s != TaskStatusProposed
}

// Terminal reports whether the task can no longer change.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusRejected
}
