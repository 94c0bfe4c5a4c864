package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robalyx/squadpledge/internal/rest"
	"github.com/robalyx/squadpledge/internal/setup"
	"github.com/robalyx/squadpledge/internal/setup/telemetry"
	"github.com/robalyx/squadpledge/internal/worker/sweep"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RESTLogDir specifies where REST server log files are stored.
const RESTLogDir = "logs/rest_logs"

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "rest",
		Usage: "Start the squadpledge REST API",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "memory",
				Usage: "Keep all state in memory and sweep in-process",
			},
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "Apply pending database migrations on startup",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c.Bool("memory"), c.Bool("migrate"))
		},
	}

	return app.Run(context.Background(), os.Args)
}

// serve runs the HTTP server until SIGINT or SIGTERM.
func serve(ctx context.Context, inMemory, autoMigrate bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := setup.InitializeApp(ctx, telemetry.ServiceAPI, setup.Options{
		LogDir:      RESTLogDir,
		InMemory:    inMemory,
		AutoMigrate: autoMigrate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(context.WithoutCancel(ctx))

	serverCfg := app.Config.API.Server
	addr := fmt.Sprintf("%s:%d", serverCfg.Host, serverCfg.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           rest.NewServer(app.Engine, app.Logger, &app.Config.API),
		ReadTimeout:       time.Duration(serverCfg.ReadTimeout) * time.Millisecond,
		ReadHeaderTimeout: time.Duration(serverCfg.ReadTimeout) * time.Millisecond,
		WriteTimeout:      time.Duration(serverCfg.WriteTimeout) * time.Millisecond,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Logger.Info("REST server started", zap.String("addr", addr))
		log.Printf("REST server started on %s", addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})

	// A memory store is private to this process, so nothing else can sweep it
	if inMemory {
		sweepCfg := app.Config.Worker.Sweep
		worker := sweep.New(app.Engine.Sweep(), time.Duration(max(sweepCfg.Interval, 1))*time.Second,
			sweepCfg.Concurrency, app.Logger)

		g.Go(func() error {
			worker.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		app.Logger.Info("Shutting down REST server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx),
			time.Duration(serverCfg.ShutdownTimeout)*time.Millisecond)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Error("Server forced to shutdown", zap.Error(err))
			return err
		}

		app.Logger.Info("Server gracefully stopped")
		return nil
	})

	return g.Wait()
}
