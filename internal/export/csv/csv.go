package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/robalyx/squadpledge/internal/export/types"
)

// Exporter handles exporting settlements to csv files.
type Exporter struct {
	outDir string
}

// New creates a new csv exporter instance.
func New(outDir string) *Exporter {
	return &Exporter{outDir: outDir}
}

// Export writes projects, tasks and payouts to separate csv files.
func (e *Exporter) Export(settlement *types.Settlement) error {
	projects := make([][]string, 0, len(settlement.Projects))
	for _, p := range settlement.Projects {
		projects = append(projects, []string{
			strconv.FormatInt(p.ID, 10),
			p.Title,
			formatHH(p.EstimatedTotalHH),
			p.FinalMonetaryValue,
			p.Distributed,
			p.CompletedAt,
		})
	}

	tasks := make([][]string, 0, len(settlement.Tasks))
	for _, t := range settlement.Tasks {
		tasks = append(tasks, []string{
			strconv.FormatInt(t.ProjectID, 10),
			strconv.FormatInt(t.ID, 10),
			t.Title,
			t.Status,
			formatHH(t.HHBudget),
			t.Assignee,
			strconv.FormatBool(t.IsPool),
		})
	}

	payouts := make([][]string, 0, len(settlement.Payouts))
	for _, p := range settlement.Payouts {
		payouts = append(payouts, []string{
			strconv.FormatInt(p.ProjectID, 10),
			p.Member,
			formatHH(p.ConfirmedHH),
			strconv.FormatFloat(p.Share, 'f', 6, 64),
			p.Amount,
		})
	}

	files := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{"projects.csv", []string{"id", "title", "estimated_total_hh", "final_monetary_value", "distributed", "completed_at"}, projects},
		{"tasks.csv", []string{"project_id", "id", "title", "status", "hh_budget", "assignee", "is_pool"}, tasks},
		{"payouts.csv", []string{"project_id", "member", "confirmed_hh", "share", "amount"}, payouts},
	}

	for _, f := range files {
		if err := e.writeFile(f.name, f.header, f.rows); err != nil {
			return fmt.Errorf("failed to export %s: %w", f.name, err)
		}
	}

	return nil
}

// writeFile replaces filename with the header and rows.
func (e *Exporter) writeFile(filename string, header []string, rows [][]string) error {
	file, err := os.Create(filepath.Join(e.outDir, filename))
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}

	return nil
}

func formatHH(hh float64) string {
	return strconv.FormatFloat(hh, 'f', -1, 64)
}
