package types

import (
	"errors"
	"slices"
	"time"

	"github.com/robalyx/squadpledge/internal/database/types/enum"
)

// PoolTaskTitle is the reserved title of every project's general pool task.
const PoolTaskTitle = "Other Tasks"

var ErrTaskNotFound = errors.New("task not found")

// Task is a unit of work inside a project with its own HH budget.
type Task struct {
	ID             int64           `bun:",pk,autoincrement"       json:"id"`
	ProjectID      int64           `bun:",notnull"                json:"projectId"`
	Title          string          `bun:",notnull"                json:"title"`
	Description    string          `bun:",notnull,default:''"     json:"description"`
	HHBudget       float64         `bun:"hh_budget,notnull"       json:"hhBudget"`
	Status         enum.TaskStatus `bun:",notnull"                json:"status"`
	Assignee       string          `bun:",notnull,default:''"     json:"assignee,omitempty"`
	Dependencies   []int64         `bun:",array,notnull"          json:"dependencies"`
	IsPool         bool            `bun:",notnull,default:false"  json:"isPool"`
	AuditStartTime time.Time       `bun:",nullzero"               json:"auditStartTime"`
	CompletionTime time.Time       `bun:",nullzero"               json:"completionTime"`
	CreatedAt      time.Time       `bun:",notnull"                json:"createdAt"`
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.Dependencies = slices.Clone(t.Dependencies)

	return &c
}

// ErrChallengeExists is returned when a challenger already challenged a task.
var ErrChallengeExists = errors.New("challenge already raised")

// Challenge is a stake-backed objection raised against a task during its audit window.
type Challenge struct {
	ID         int64     `bun:",pk,autoincrement"      json:"id"`
	TaskID     int64     `bun:",notnull"               json:"taskId"`
	ProjectID  int64     `bun:",notnull"               json:"projectId"`
	Challenger string    `bun:",notnull"               json:"challenger"`
	StakeHH    float64   `bun:"stake_hh,notnull"       json:"stakeHH"`
	Timestamp  time.Time `bun:",notnull"               json:"timestamp"`
	Resolved   bool      `bun:",notnull,default:false" json:"resolved"`
	Upheld     bool      `bun:",notnull,default:false" json:"upheld"`
}
