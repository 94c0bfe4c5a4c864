package sqlite_test

import (
	"path/filepath"
	"testing"

	"github.com/robalyx/squadpledge/internal/export/sqlite"
	"github.com/robalyx/squadpledge/internal/export/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	zsqlite "zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

func testSettlement() *types.Settlement {
	return &types.Settlement{
		Projects: []*types.ProjectRecord{{
			ID:                 1,
			Title:              "Album",
			EstimatedTotalHH:   100,
			FinalMonetaryValue: "1000.00",
			Distributed:        "1000.00",
			CompletedAt:        "2026-03-01T12:00:00Z",
		}},
		Tasks: []*types.TaskRecord{
			{ProjectID: 1, ID: 1, Title: "Other Tasks", Status: "taskConfirmed", HHBudget: 20, IsPool: true},
			{ProjectID: 1, ID: 2, Title: "Mixing", Status: "completed", HHBudget: 50, Assignee: "alice"},
		},
		Payouts: []*types.PayoutRecord{
			{ProjectID: 1, Member: "alice", ConfirmedHH: 30, Share: 0.3, Amount: "300.00"},
			{ProjectID: 1, Member: "bob", ConfirmedHH: 70, Share: 0.7, Amount: "700.00"},
		},
	}
}

func TestExporterExport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exporter := sqlite.New(dir)

	// Exporting twice replaces the previous database
	require.NoError(t, exporter.Export(testSettlement()))
	require.NoError(t, exporter.Export(testSettlement()))

	conn, err := zsqlite.OpenConn(filepath.Join(dir, sqlite.FileName), zsqlite.OpenReadOnly)
	require.NoError(t, err)
	defer conn.Close()

	var payouts []*types.PayoutRecord
	err = sqlitex.ExecuteTransient(conn, "SELECT member, confirmed_hh, amount FROM payouts ORDER BY member", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *zsqlite.Stmt) error {
			payouts = append(payouts, &types.PayoutRecord{
				Member:      stmt.ColumnText(0),
				ConfirmedHH: stmt.ColumnFloat(1),
				Amount:      stmt.ColumnText(2),
			})
			return nil
		},
	})
	require.NoError(t, err)
	require.Len(t, payouts, 2)
	assert.Equal(t, "alice", payouts[0].Member)
	assert.Equal(t, "300.00", payouts[0].Amount)
	assert.InDelta(t, 70.0, payouts[1].ConfirmedHH, 1e-9)

	var pools int64
	err = sqlitex.ExecuteTransient(conn, "SELECT COUNT(*) FROM tasks WHERE is_pool = 1", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *zsqlite.Stmt) error {
			pools = stmt.ColumnInt64(0)
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), pools)

	var distributed string
	err = sqlitex.ExecuteTransient(conn, "SELECT distributed FROM projects WHERE id = 1", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *zsqlite.Stmt) error {
			distributed = stmt.ColumnText(0)
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "1000.00", distributed)
}

func TestExporterExportEmpty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, sqlite.New(dir).Export(&types.Settlement{}))
	assert.FileExists(t, filepath.Join(dir, sqlite.FileName))
}
