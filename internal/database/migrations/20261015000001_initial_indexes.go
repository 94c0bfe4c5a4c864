package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		statements := []string{
			// One challenge per challenger per task
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_challenges_task_challenger
			 ON challenges (task_id, challenger)`,
			// One vote per voter, target and kind
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_votes_target_voter_kind
			 ON votes (target_id, voter, kind)`,
			// One rating per rater and ratee in a project
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_peer_ratings_project_rater_ratee
			 ON peer_ratings (project_id, rater, ratee)`,
			`CREATE INDEX IF NOT EXISTS idx_peer_ratings_ratee ON peer_ratings (ratee)`,
			`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks (project_id)`,
			`CREATE INDEX IF NOT EXISTS idx_pledges_project ON pledges (project_id)`,
			// Expiry sweep scans pending pledges by age
			`CREATE INDEX IF NOT EXISTS idx_pledges_pending_created
			 ON pledges (created_at) WHERE status = 0`,
			`CREATE INDEX IF NOT EXISTS idx_challenges_project ON challenges (project_id)`,
			`CREATE INDEX IF NOT EXISTS idx_projects_status ON projects (status)`,
		}

		for _, stmt := range statements {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to create index: %w", err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			"idx_projects_status",
			"idx_challenges_project",
			"idx_pledges_pending_created",
			"idx_pledges_project",
			"idx_tasks_project",
			"idx_peer_ratings_ratee",
			"idx_peer_ratings_project_rater_ratee",
			"idx_votes_target_voter_kind",
			"idx_challenges_task_challenger",
		}

		for _, index := range indexes {
			if _, err := db.ExecContext(ctx, "DROP INDEX IF EXISTS "+index); err != nil {
				return fmt.Errorf("failed to drop index %s: %w", index, err)
			}
		}

		return nil
	})
}
