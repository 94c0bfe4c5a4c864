package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/robalyx/squadpledge/internal/export"
	"github.com/robalyx/squadpledge/internal/setup"
	"github.com/robalyx/squadpledge/internal/setup/telemetry"
	"github.com/urfave/cli/v3"
)

// ExportLogDir specifies where export log files are stored.
const ExportLogDir = "logs/export_logs"

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:      "export",
		Usage:     "Export the settlement of completed projects",
		ArgsUsage: "[PROJECT_ID...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "exports",
				Usage:   "Base output directory for export files",
			},
			&cli.StringSliceFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Formats to write (sqlite, csv). Defaults to all",
			},
			&cli.StringFlag{
				Name:    "export-version",
				Aliases: []string{"v"},
				Usage:   "Export version",
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "Export description",
			},
			&cli.StringFlag{
				Name:    "hash-type",
				Aliases: []string{"t"},
				Value:   string(export.HashTypeNone),
				Usage:   "Pseudonymize members with none, argon2id or sha256",
			},
			&cli.StringFlag{
				Name:    "salt",
				Aliases: []string{"s"},
				Usage:   "Salt for hashing identities",
			},
			&cli.IntFlag{
				Name:    "concurrency",
				Aliases: []string{"c"},
				Usage:   "Number of concurrent hash operations",
				Value:   1,
			},
			&cli.UintFlag{
				Name:    "iterations",
				Aliases: []string{"i"},
				Usage:   "Number of hash iterations",
				Value:   1,
			},
			&cli.UintFlag{
				Name:    "memory",
				Aliases: []string{"m"},
				Usage:   "Memory to use for Argon2id in MB",
				Value:   64,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			ids := make([]int64, 0, c.Args().Len())
			for _, arg := range c.Args().Slice() {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid project id %q: %w", arg, err)
				}
				ids = append(ids, id)
			}

			formats := make([]export.Format, 0, len(c.StringSlice("format")))
			for _, format := range c.StringSlice("format") {
				formats = append(formats, export.Format(format))
			}

			app, err := setup.InitializeApp(ctx, telemetry.ServiceCLI, setup.Options{LogDir: ExportLogDir})
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer app.Cleanup(ctx)

			outDir := filepath.Join(c.String("output"), time.Now().UTC().Format("2006-01-02_150405"))

			exporter, err := export.New(app.Engine, outDir, &export.Config{
				ExportVersion: c.String("export-version"),
				Description:   c.String("description"),
				Salt:          c.String("salt"),
				HashType:      export.HashType(c.String("hash-type")),
				Iterations:    uint32(c.Uint("iterations")), //nolint:gosec // flag values are small
				Memory:        uint32(c.Uint("memory")),     //nolint:gosec // flag values are small
				Concurrency:   int(c.Int("concurrency")),
				Formats:       formats,
			}, app.Logger)
			if err != nil {
				return err
			}

			settlement, err := exporter.Export(ctx, ids)
			if err != nil {
				return fmt.Errorf("failed to export data: %w", err)
			}

			fmt.Printf("Exported %d projects and %d payouts to %s\n",
				len(settlement.Projects), len(settlement.Payouts), outDir)
			return nil
		},
	}

	return app.Run(context.Background(), os.Args)
}
