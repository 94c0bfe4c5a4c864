package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ProjectModel handles database operations for projects.
type ProjectModel struct {
	db     bun.IDB
	logger *zap.Logger
}

// NewProject creates a ProjectModel.
func NewProject(db bun.IDB, logger *zap.Logger) *ProjectModel {
	return &ProjectModel{
		db:     db,
		logger: logger.Named("db_project"),
	}
}

// Lock takes the row lock of a project for the rest of the transaction.
func (r *ProjectModel) Lock(ctx context.Context, id int64) error {
	var locked int64

	err := r.db.NewSelect().
		Model((*types.Project)(nil)).
		Column("id").
		Where("id = ?", id).
		For("UPDATE").
		Scan(ctx, &locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.ErrProjectNotFound
		}

		return fmt.Errorf("failed to lock project: %w", err)
	}

	return nil
}

// Insert creates a project and assigns its ID.
func (r *ProjectModel) Insert(ctx context.Context, project *types.Project) error {
	_, err := r.db.NewInsert().
		Model(project).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}

	r.logger.Debug("Created project", zap.Int64("projectID", project.ID))

	return nil
}

// Get retrieves a project by ID.
func (r *ProjectModel) Get(ctx context.Context, id int64) (*types.Project, error) {
	var project types.Project

	err := r.db.NewSelect().
		Model(&project).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrProjectNotFound
		}

		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// Update saves every mutable project field.
func (r *ProjectModel) Update(ctx context.Context, project *types.Project) error {
	result, err := r.db.NewUpdate().
		Model(project).
		ExcludeColumn("id", "creator", "created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return types.ErrProjectNotFound
	}

	return nil
}

// List retrieves every project ordered by ID.
func (r *ProjectModel) List(ctx context.Context) ([]*types.Project, error) {
	var projects []*types.Project

	err := r.db.NewSelect().
		Model(&projects).
		Order("id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

// ListByStatus retrieves projects in any of the given statuses ordered by ID.
func (r *ProjectModel) ListByStatus(ctx context.Context, statuses ...enum.ProjectStatus) ([]*types.Project, error) {
	var projects []*types.Project

	err := r.db.NewSelect().
		Model(&projects).
		Where("status IN (?)", bun.In(statuses)).
		Order("id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects by status: %w", err)
	}

	return projects, nil
}
