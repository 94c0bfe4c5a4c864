package migrations

import (
	"context"
	"fmt"

	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.UserProfile)(nil),
			(*types.UserRole)(nil),
			(*types.UserApproval)(nil),
			(*types.Project)(nil),
			(*types.Task)(nil),
			(*types.Pledge)(nil),
			(*types.Challenge)(nil),
			(*types.Vote)(nil),
			(*types.PeerRating)(nil),
			(*types.Payout)(nil),
		}

		for _, model := range models {
			_, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table %T: %w", model, err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.Payout)(nil),
			(*types.PeerRating)(nil),
			(*types.Vote)(nil),
			(*types.Challenge)(nil),
			(*types.Pledge)(nil),
			(*types.Task)(nil),
			(*types.Project)(nil),
			(*types.UserApproval)(nil),
			(*types.UserRole)(nil),
			(*types.UserProfile)(nil),
		}

		for _, model := range models {
			_, err := db.NewDropTable().
				Model(model).
				IfExists().
				Cascade().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to drop table %T: %w", model, err)
			}
		}

		return nil
	})
}
