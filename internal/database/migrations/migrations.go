package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds every registered schema migration.
var Migrations = migrate.NewMigrations()
