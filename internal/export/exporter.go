// Package export writes the settlement of completed projects to portable files.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/robalyx/squadpledge/internal/export/csv"
	"github.com/robalyx/squadpledge/internal/export/sqlite"
	"github.com/robalyx/squadpledge/internal/export/types"
	"github.com/robalyx/squadpledge/internal/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrUnsupportedFormat   = errors.New("unsupported export format")
	ErrUnsupportedHashType = errors.New("unsupported hash type")
	ErrProjectNotCompleted = errors.New("project is not completed")
)

// Format represents a supported export format.
type Format string

const (
	FormatSQLite Format = "sqlite"
	FormatCSV    Format = "csv"
)

// EngineVersion is bumped on breaking changes to the export layout.
const EngineVersion = "1.0.0"

// Config holds the configuration for exports.
type Config struct {
	ExportVersion string   `json:"exportVersion"`
	Description   string   `json:"description"`
	Salt          string   `json:"-"`
	HashType      HashType `json:"hashType"`
	Iterations    uint32   `json:"iterations,omitempty"`
	Memory        uint32   `json:"memory,omitempty"`
	Concurrency   int      `json:"-"`
	Formats       []Format `json:"formats"`
}

// Exporter exports completed projects with their tasks and payouts.
type Exporter struct {
	engine *service.Engine
	outDir string
	config *Config
	logger *zap.Logger
}

// New creates a new exporter instance.
func New(engine *service.Engine, outDir string, config *Config, logger *zap.Logger) (*Exporter, error) {
	if config.HashType == "" {
		config.HashType = HashTypeNone
	}
	if !config.HashType.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedHashType, config.HashType)
	}

	if len(config.Formats) == 0 {
		config.Formats = []Format{FormatSQLite, FormatCSV}
	}
	for _, format := range config.Formats {
		if format != FormatSQLite && format != FormatCSV {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
		}
	}

	return &Exporter{
		engine: engine,
		outDir: outDir,
		config: config,
		logger: logger.Named("exporter"),
	}, nil
}

// Export writes the given projects, or every completed project when ids is empty.
// Asking for a project that is not completed fails before anything is written.
func (e *Exporter) Export(ctx context.Context, ids []int64) (*types.Settlement, error) {
	e.logger.Info("Starting export",
		zap.String("hashType", string(e.config.HashType)),
		zap.String("outDir", e.outDir),
		zap.String("exportVersion", e.config.ExportVersion),
		zap.String("engineVersion", EngineVersion))

	settlement, err := e.collect(ctx, ids)
	if err != nil {
		return nil, err
	}

	e.pseudonymize(settlement)

	if err := os.MkdirAll(e.outDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := e.writeConfig(); err != nil {
		return nil, err
	}

	for _, format := range e.config.Formats {
		if err := e.export(format, settlement); err != nil {
			return nil, fmt.Errorf("failed to export %s format: %w", format, err)
		}
	}

	e.logger.Info("Export completed",
		zap.Int("projects", len(settlement.Projects)),
		zap.Int("payouts", len(settlement.Payouts)))

	return settlement, nil
}

// collect reads the records of every exported project.
func (e *Exporter) collect(ctx context.Context, ids []int64) (*types.Settlement, error) {
	if len(ids) == 0 {
		projects, err := e.engine.Project().List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list projects: %w", err)
		}

		for _, project := range projects {
			if project.Status == enum.ProjectStatusCompleted {
				ids = append(ids, project.ID)
			}
		}
	}

	settlement := &types.Settlement{}

	for _, id := range ids {
		project, err := e.engine.Project().Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get project %d: %w", id, err)
		}
		if project.Status != enum.ProjectStatusCompleted {
			return nil, fmt.Errorf("%w: %d is %s", ErrProjectNotCompleted, id, project.Status)
		}

		tasks, err := e.engine.Task().List(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks of project %d: %w", id, err)
		}

		payouts, err := e.engine.Project().ListPayouts(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to list payouts of project %d: %w", id, err)
		}

		distributed := decimal.Zero
		for _, payout := range payouts {
			distributed = distributed.Add(payout.Amount)
			settlement.Payouts = append(settlement.Payouts, &types.PayoutRecord{
				ProjectID:   id,
				Member:      payout.User,
				ConfirmedHH: payout.ConfirmedHH,
				Share:       payout.Share,
				Amount:      payout.Amount.StringFixed(2),
			})
		}

		for _, task := range tasks {
			settlement.Tasks = append(settlement.Tasks, &types.TaskRecord{
				ProjectID: id,
				ID:        task.ID,
				Title:     task.Title,
				Status:    task.Status.String(),
				HHBudget:  task.HHBudget,
				Assignee:  task.Assignee,
				IsPool:    task.IsPool,
			})
		}

		settlement.Projects = append(settlement.Projects, &types.ProjectRecord{
			ID:                 project.ID,
			Title:              project.Title,
			EstimatedTotalHH:   project.EstimatedTotalHH,
			FinalMonetaryValue: project.FinalMonetaryValue.StringFixed(2),
			Distributed:        distributed.StringFixed(2),
			CompletedAt:        project.CompletedAt.UTC().Format(time.RFC3339),
		})
	}

	return settlement, nil
}

// pseudonymize replaces member identities with their hashes.
func (e *Exporter) pseudonymize(settlement *types.Settlement) {
	if e.config.HashType == HashTypeNone {
		return
	}

	identities := make([]string, 0, len(settlement.Payouts)+len(settlement.Tasks))
	for _, payout := range settlement.Payouts {
		identities = append(identities, payout.Member)
	}
	for _, task := range settlement.Tasks {
		identities = append(identities, task.Assignee)
	}

	hashes := hashIdentities(identities, e.config)

	for i, payout := range settlement.Payouts {
		payout.Member = hashes[i]
	}
	offset := len(settlement.Payouts)
	for i, task := range settlement.Tasks {
		if task.Assignee != "" {
			task.Assignee = hashes[offset+i]
		}
	}
}

// writeConfig saves the export configuration next to the data files.
func (e *Exporter) writeConfig() error {
	jsonConfig := struct {
		*Config

		EngineVersion string `json:"engineVersion"`
	}{
		Config:        e.config,
		EngineVersion: EngineVersion,
	}

	configData, err := sonic.MarshalIndent(jsonConfig, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal export config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(e.outDir, "export_config.json"), configData, 0o600); err != nil {
		return fmt.Errorf("failed to write export config: %w", err)
	}

	return nil
}

// export handles exporting data in the specified format.
func (e *Exporter) export(format Format, settlement *types.Settlement) error {
	var exporter interface {
		Export(settlement *types.Settlement) error
	}

	switch format {
	case FormatSQLite:
		exporter = sqlite.New(e.outDir)
	case FormatCSV:
		exporter = csv.New(e.outDir)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	return exporter.Export(settlement)
}
