package csv_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	exportCSV "github.com/robalyx/squadpledge/internal/export/csv"
	"github.com/robalyx/squadpledge/internal/export/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	return records
}

func TestExporterExport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	settlement := &types.Settlement{
		Projects: []*types.ProjectRecord{{
			ID:                 3,
			Title:              "Tour, part 1",
			EstimatedTotalHH:   12.5,
			FinalMonetaryValue: "10.00",
			Distributed:        "10.00",
			CompletedAt:        "2026-03-01T12:00:00Z",
		}},
		Tasks: []*types.TaskRecord{
			{ProjectID: 3, ID: 9, Title: "Other Tasks", Status: "taskConfirmed", HHBudget: 2.5, IsPool: true},
		},
		Payouts: []*types.PayoutRecord{
			{ProjectID: 3, Member: "alice", ConfirmedHH: 1, Share: 1.0 / 3, Amount: "3.34"},
		},
	}

	require.NoError(t, exportCSV.New(dir).Export(settlement))

	projects := readCSV(t, filepath.Join(dir, "projects.csv"))
	require.Len(t, projects, 2)
	assert.Equal(t, "id", projects[0][0])
	assert.Equal(t, []string{"3", "Tour, part 1", "12.5", "10.00", "10.00", "2026-03-01T12:00:00Z"}, projects[1])

	tasks := readCSV(t, filepath.Join(dir, "tasks.csv"))
	require.Len(t, tasks, 2)
	assert.Equal(t, []string{"3", "9", "Other Tasks", "taskConfirmed", "2.5", "", "true"}, tasks[1])

	payouts := readCSV(t, filepath.Join(dir, "payouts.csv"))
	require.Len(t, payouts, 2)
	assert.Equal(t, []string{"3", "alice", "1", "0.333333", "3.34"}, payouts[1])
}

func TestExporterExportEmpty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, exportCSV.New(dir).Export(&types.Settlement{}))

	payouts := readCSV(t, filepath.Join(dir, "payouts.csv"))
	assert.Len(t, payouts, 1, "only the header is written")
}
