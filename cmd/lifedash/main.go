// Lifedash is a personal dashboard backend.
//
// It polls a fixed set of third-party sources (travel tracker, check-ins,
// commit activity, task boards, nutrition, calendars) on independent
// intervals, keeps the latest result of each poll in memory, and serves one
// merged snapshot endpoint plus one push-ingest endpoint for health metrics.
//
// Configuration is loaded from an optional YAML file and environment
// variables. See internal/config for details.
//
// Usage:
//
//	# Start with defaults
//	lifedash
//
//	# Configure via environment
//	SERVER_HTTP_PORT=8080 TRAVEL_USER=someone GITHUB_USER=someone lifedash
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lifedash/internal/config"
	"github.com/fyrsmithlabs/lifedash/internal/fetch"
	httpserver "github.com/fyrsmithlabs/lifedash/internal/http"
	"github.com/fyrsmithlabs/lifedash/internal/ingest"
	"github.com/fyrsmithlabs/lifedash/internal/poller"
	"github.com/fyrsmithlabs/lifedash/internal/snapshot"
	"github.com/fyrsmithlabs/lifedash/internal/sources"
	"github.com/fyrsmithlabs/lifedash/internal/store"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  lifedash           Start the dashboard backend\n")
			fmt.Fprintf(os.Stderr, "  lifedash version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("lifedash\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the dashboard backend and blocks until the context is
// cancelled.
//
// Initialization order:
//  1. Load and validate configuration
//  2. Initialize logger
//  3. Create the store, fetch client, and ingest/snapshot services
//  4. Build the refresh jobs and start the poller
//  5. Start the HTTP server (blocks)
//  6. Graceful shutdown: stop the poller, then the server
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Best-effort sync on shutdown
	}()

	logger.Info("Starting lifedash",
		zap.Int("port", cfg.Server.Port),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout),
		zap.Duration("job_timeout", cfg.Poller.JobTimeout))

	st := store.New()
	client := fetch.New(cfg.Fetch.Timeout, cfg.Fetch.RatePerSecond, cfg.Fetch.Burst, logger)

	ingestSvc, err := ingest.NewService(st, logger)
	if err != nil {
		return fmt.Errorf("failed to create ingest service: %w", err)
	}

	builder := snapshot.NewBuilder(st, snapshot.Config{
		MapsKey:           cfg.Site.MapsKey.Value(),
		ProfilePictureURL: cfg.Site.ProfilePictureURL,
		OffsetHours:       cfg.Clock.OffsetHours,
	})

	jobs, err := buildJobs(st, client, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build refresh jobs: %w", err)
	}

	sched, err := poller.NewScheduler(logger, jobs, poller.WithJobTimeout(cfg.Poller.JobTimeout))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	srv, err := httpserver.NewServer(st, builder, ingestSvc, logger, &httpserver.Config{
		Port:            cfg.Server.Port,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	// Metrics endpoint
	srv.Echo().GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	logger.Info("Server configured",
		zap.String("snapshot_endpoint", "/api.json"),
		zap.String("ingest_endpoint", "/activity"),
		zap.String("metrics_endpoint", "/metrics"),
		zap.Int("jobs", len(jobs)))

	// Start server (blocks until context cancellation)
	return srv.Start(ctx)
}

// buildJobs constructs the refresh jobs. Every always-on source gets a job
// even when its secrets are missing: the job then fails at each tick and is
// logged, which keeps a misconfigured source visible without taking the
// process down. Optional sources (mood, photos, calendar) are only
// scheduled when configured.
func buildJobs(st *store.Store, client *fetch.Client, cfg *config.Config, logger *zap.Logger) ([]poller.Job, error) {
	commits, err := sources.NewCommits(st, cfg.GitHub, logger)
	if err != nil {
		return nil, err
	}

	jobs := []poller.Job{
		sources.NewNomadList(st, client, cfg.Travel, logger),
		sources.NewSwarm(st, client, cfg.Checkin, logger),
		commits,
		sources.NewContributions(st, client, cfg.GitHub, logger),
		sources.NewTrello(st, client, cfg.Trello, logger),
		sources.NewMyFitnessPal(st, client, cfg.Nutrition, logger),
		sources.NewConferences(st, cfg.Site.Conferences, logger),
	}

	if len(cfg.Calendar.URLs) > 0 {
		jobs = append(jobs, sources.NewCalendar(st, client, cfg.Calendar, logger))
	}
	if cfg.Mood.URL != "" {
		jobs = append(jobs, sources.NewMood(st, client, cfg.Mood, logger))
	}
	if cfg.Photos.Token.IsSet() {
		jobs = append(jobs, sources.NewPhotos(st, client, cfg.Photos, logger))
	}

	return jobs, nil
}

// initLogger initializes the structured logger.
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Log.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
