package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/robalyx/squadpledge/internal/export/types"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// FileName is the database written by the exporter.
const FileName = "settlement.db"

const schema = `
CREATE TABLE projects (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	estimated_total_hh REAL NOT NULL,
	final_monetary_value TEXT NOT NULL,
	distributed TEXT NOT NULL,
	completed_at TEXT NOT NULL
);
CREATE TABLE tasks (
	id INTEGER PRIMARY KEY,
	project_id INTEGER NOT NULL REFERENCES projects (id),
	title TEXT NOT NULL,
	status TEXT NOT NULL,
	hh_budget REAL NOT NULL,
	assignee TEXT NOT NULL,
	is_pool INTEGER NOT NULL
);
CREATE TABLE payouts (
	project_id INTEGER NOT NULL REFERENCES projects (id),
	member TEXT NOT NULL,
	confirmed_hh REAL NOT NULL,
	share REAL NOT NULL,
	amount TEXT NOT NULL,
	PRIMARY KEY (project_id, member)
);
`

// Exporter handles exporting settlements to a SQLite database.
type Exporter struct {
	outDir string
}

// New creates a new SQLite exporter instance.
func New(outDir string) *Exporter {
	return &Exporter{outDir: outDir}
}

// Export writes the settlement to a fresh database, replacing any previous one.
func (e *Exporter) Export(settlement *types.Settlement) (err error) {
	path := filepath.Join(e.outDir, FileName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing file %s: %w", FileName, err)
	}

	conn, err := sqlite.OpenConn(path, sqlite.OpenCreate|sqlite.OpenReadWrite)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}
	defer conn.Close()

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	defer sqlitex.Save(conn)(&err)

	for _, project := range settlement.Projects {
		err = sqlitex.Execute(conn,
			"INSERT INTO projects (id, title, estimated_total_hh, final_monetary_value, distributed, completed_at) "+
				"VALUES (?, ?, ?, ?, ?, ?)",
			&sqlitex.ExecOptions{Args: []any{
				project.ID, project.Title, project.EstimatedTotalHH,
				project.FinalMonetaryValue, project.Distributed, project.CompletedAt,
			}})
		if err != nil {
			return fmt.Errorf("failed to insert project %d: %w", project.ID, err)
		}
	}

	for _, task := range settlement.Tasks {
		err = sqlitex.Execute(conn,
			"INSERT INTO tasks (id, project_id, title, status, hh_budget, assignee, is_pool) VALUES (?, ?, ?, ?, ?, ?, ?)",
			&sqlitex.ExecOptions{Args: []any{
				task.ID, task.ProjectID, task.Title, task.Status, task.HHBudget, task.Assignee, boolInt(task.IsPool),
			}})
		if err != nil {
			return fmt.Errorf("failed to insert task %d: %w", task.ID, err)
		}
	}

	for _, payout := range settlement.Payouts {
		err = sqlitex.Execute(conn,
			"INSERT INTO payouts (project_id, member, confirmed_hh, share, amount) VALUES (?, ?, ?, ?, ?)",
			&sqlitex.ExecOptions{Args: []any{
				payout.ProjectID, payout.Member, payout.ConfirmedHH, payout.Share, payout.Amount,
			}})
		if err != nil {
			return fmt.Errorf("failed to insert payout: %w", err)
		}
	}

	return nil
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
