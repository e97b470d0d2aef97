package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/niftyscreen/internal/api"
	"github.com/wonny/niftyscreen/internal/api/handlers"
	"github.com/wonny/niftyscreen/internal/scheduler"
	"github.com/wonny/niftyscreen/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API server",
	Long: `Starts the REST API server, optionally with the cache warm-up job.

Endpoints:
  GET  /health                   - Health check
  GET  /api/universe             - Constituent list
  GET  /api/strategies           - Strategies and criteria
  GET  /api/screen/{strategy}    - Run a screen (max_de, min_roe, limit, raw)
  GET  /api/stocks/{symbol}      - Stock detail and chart series (days)
  GET  /api/jobs                 - Background job statistics
  GET  /api/jobs/{name}/history  - Recent runs of a job (limit)
  POST /api/jobs/{name}/run      - Run a job now

Example:
  go run ./cmd/screener api
  go run ./cmd/screener api --port 8090 --warm`,
	Args: cobra.NoArgs,
	RunE: runAPIServer,
}

var (
	apiPort string
	apiWarm bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from PORT)")
	apiCmd.Flags().BoolVar(&apiWarm, "warm", false, "run the cache warm-up job (overrides WARM_ENABLED)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	jobsHandler := handlers.NewJobsHandler(nil)

	if a.cfg.Warm.Enabled || apiWarm {
		sched := scheduler.New(a.log)
		if err := sched.AddJob(jobs.NewWarmJob(a.runner, a.cfg.Warm.Schedule, a.log).WithPurger(a.fetcher)); err != nil {
			return fmt.Errorf("schedule warm job: %w", err)
		}
		sched.Start()
		defer sched.Stop()

		a.log.WithField("jobs", sched.GetAllJobs()).Info("Scheduler started")

		jobsHandler = handlers.NewJobsHandler(sched)
	}

	router := api.NewRouter(api.Handlers{
		Screen:   handlers.NewScreenHandler(a.runner, a.defaults, a.log),
		Stock:    handlers.NewStockHandler(a.runner, a.cfg.Universe.SymbolSuffix, a.log),
		Universe: handlers.NewUniverseHandler(a.runner),
		Jobs:     jobsHandler,
	}, a.log)

	server := api.New(a.cfg, a.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
