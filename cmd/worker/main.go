package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robalyx/squadpledge/internal/setup"
	"github.com/robalyx/squadpledge/internal/setup/telemetry"
	"github.com/robalyx/squadpledge/internal/worker/core"
	"github.com/robalyx/squadpledge/internal/worker/sweep"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	// WorkerLogDir specifies where worker log files are stored.
	WorkerLogDir = "logs/worker_logs"

	// SweepWorker expires pledges, resolves challenges and activates projects.
	SweepWorker = "sweep"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "worker",
		Usage: "Start squadpledge background workers",
		Commands: []*cli.Command{
			{
				Name:  SweepWorker,
				Usage: "Start the sweep worker",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "Worker identifier used in log file names",
					},
					&cli.BoolFlag{
						Name:  "once",
						Usage: "Run a single sweep round and exit",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return runSweep(ctx, c.String("id"), c.Bool("once"))
				},
			},
			{
				Name:  "status",
				Usage: "List the heartbeats of running workers",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return printStatus(ctx)
				},
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

// runSweep runs the sweep worker until interrupted.
func runSweep(ctx context.Context, workerID string, once bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := setup.InitializeApp(ctx, telemetry.ServiceWorker, setup.Options{
		LogDir:    WorkerLogDir,
		WorkerID:  workerID,
		WithRedis: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(context.WithoutCancel(ctx))

	cfg := app.Config.Worker
	if cfg.StartupDelay > 0 {
		select {
		case <-time.After(time.Duration(cfg.StartupDelay) * time.Millisecond):
		case <-ctx.Done():
			return nil
		}
	}

	workerLogger := app.LogManager.GetWorkerLogger(SweepWorker + "_worker")
	lockTTL := time.Duration(max(cfg.Sweep.LockTTL, 1)) * time.Second

	worker := sweep.New(
		app.Engine.Sweep(),
		time.Duration(max(cfg.Sweep.Interval, 1))*time.Second,
		cfg.Sweep.Concurrency,
		workerLogger,
		sweep.WithLock(core.NewLock(app.LockClient, sweep.LockKey, lockTTL)),
		sweep.WithReporter(core.NewStatusReporter(app.StatusClient, SweepWorker, workerLogger)),
	)

	if once {
		result, err := worker.Round(ctx)
		if err != nil {
			return err
		}

		app.Logger.Info("Sweep finished",
			zap.Int("expired", result.Expired),
			zap.Int("resolved", result.Resolved),
			zap.Bool("activated", result.Activated))
		return nil
	}

	worker.Start(ctx)
	log.Println("Sweep worker has finished. Exiting.")

	return nil
}

// printStatus prints every stored worker heartbeat.
func printStatus(ctx context.Context) error {
	app, err := setup.InitializeApp(ctx, telemetry.ServiceCLI, setup.Options{
		LogDir:    WorkerLogDir,
		WithRedis: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(ctx)

	statuses, err := core.NewMonitor(app.StatusClient, app.Logger).GetAllStatuses(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, status := range statuses {
		state := "offline"
		if status.Online(now) {
			state = "online"
		}

		fmt.Printf("%s %s %s healthy=%t sweeps=%d task=%q last_seen=%s\n",
			status.WorkerType, status.WorkerID, state, status.IsHealthy,
			status.Sweeps, status.CurrentTask, status.LastSeen.Format(time.RFC3339))
	}

	return nil
}
