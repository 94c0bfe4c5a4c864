package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// TaskModel handles database operations for tasks and their challenges.
type TaskModel struct {
	db     bun.IDB
	logger *zap.Logger
}

// NewTask creates a TaskModel.
func NewTask(db bun.IDB, logger *zap.Logger) *TaskModel {
	return &TaskModel{
		db:     db,
		logger: logger.Named("db_task"),
	}
}

// Insert creates a task and assigns its ID.
func (r *TaskModel) Insert(ctx context.Context, task *types.Task) error {
	if task.Dependencies == nil {
		task.Dependencies = []int64{}
	}

	_, err := r.db.NewInsert().
		Model(task).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	return nil
}

// Get retrieves a task by ID.
func (r *TaskModel) Get(ctx context.Context, id int64) (*types.Task, error) {
	var task types.Task

	err := r.db.NewSelect().
		Model(&task).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrTaskNotFound
		}

		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return &task, nil
}

// Update saves every mutable task field.
func (r *TaskModel) Update(ctx context.Context, task *types.Task) error {
	result, err := r.db.NewUpdate().
		Model(task).
		ExcludeColumn("id", "project_id", "is_pool", "created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return types.ErrTaskNotFound
	}

	return nil
}

// ListByProject retrieves the tasks of a project ordered by ID.
func (r *TaskModel) ListByProject(ctx context.Context, projectID int64) ([]*types.Task, error) {
	var tasks []*types.Task

	err := r.db.NewSelect().
		Model(&tasks).
		Where("project_id = ?", projectID).
		Order("id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// DeleteByProject removes every task of a project.
func (r *TaskModel) DeleteByProject(ctx context.Context, projectID int64) error {
	result, err := r.db.NewDelete().
		Model((*types.Task)(nil)).
		Where("project_id = ?", projectID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete tasks: %w", err)
	}

	affected, _ := result.RowsAffected()
	r.logger.Debug("Deleted project tasks",
		zap.Int64("projectID", projectID),
		zap.Int64("count", affected))

	return nil
}

// ChallengeModel handles database operations for audit challenges.
type ChallengeModel struct {
	db     bun.IDB
	logger *zap.Logger
}

// NewChallenge creates a ChallengeModel.
func NewChallenge(db bun.IDB, logger *zap.Logger) *ChallengeModel {
	return &ChallengeModel{
		db:     db,
		logger: logger.Named("db_challenge"),
	}
}

// Insert records a challenge and assigns its ID.
func (r *ChallengeModel) Insert(ctx context.Context, challenge *types.Challenge) error {
	_, err := r.db.NewInsert().
		Model(challenge).
		Returning("id").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrChallengeExists
		}

		return fmt.Errorf("failed to insert challenge: %w", err)
	}

	return nil
}

// Update saves the resolution of a challenge.
func (r *ChallengeModel) Update(ctx context.Context, challenge *types.Challenge) error {
	_, err := r.db.NewUpdate().
		Model(challenge).
		Column("resolved", "upheld").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update challenge: %w", err)
	}

	return nil
}

// ListByTask retrieves the challenges of a task ordered by ID.
func (r *ChallengeModel) ListByTask(ctx context.Context, taskID int64) ([]*types.Challenge, error) {
	var challenges []*types.Challenge

	err := r.db.NewSelect().
		Model(&challenges).
		Where("task_id = ?", taskID).
		Order("id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}

	return challenges, nil
}

// DeleteByProject removes every challenge raised in a project.
func (r *ChallengeModel) DeleteByProject(ctx context.Context, projectID int64) error {
	_, err := r.db.NewDelete().
		Model((*types.Challenge)(nil)).
		Where("project_id = ?", projectID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete challenges: %w", err)
	}

	return nil
}
