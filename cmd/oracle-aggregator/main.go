package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/btcfi/oracle-aggregator/pkg/config"
	"github.com/btcfi/oracle-aggregator/pkg/logging"
	"github.com/btcfi/oracle-aggregator/pkg/metrics"
	"github.com/btcfi/oracle-aggregator/pkg/reporter"
	"github.com/btcfi/oracle-aggregator/pkg/reporter/binance"
	"github.com/btcfi/oracle-aggregator/pkg/server/aggregator"
	"github.com/btcfi/oracle-aggregator/pkg/server/api"
	"github.com/btcfi/oracle-aggregator/pkg/version"
)

const submitTimeout = 10 * time.Second

var (
	configFile   = flag.String("config", "config/config.yaml", "Path to configuration file")
	showVer      = flag.Bool("version", false, "Show version and exit")
	serverOnly   = flag.Bool("server", false, "Run aggregation server only")
	reporterOnly = flag.Bool("reporter", false, "Run reporter node only")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("oracle-aggregator version %s\n", version.Version)
		os.Exit(0)
	}

	// Optional .env for local development; config values reference it via
	// ${VAR} expansion.
	_ = godotenv.Load()

	// Load configuration; fall back to defaults when no file exists so a
	// bare binary still runs a local aggregator.
	cfg, err := config.Load(*configFile)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		cfg, err = config.Default()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Override mode based on flags
	if *serverOnly {
		cfg.Mode = config.ModeServer
	} else if *reporterOnly {
		cfg.Mode = config.ModeReporter
	}

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Info("Starting oracle-aggregator", "version", version.Version, "mode", cfg.Mode)

	if cfg.Metrics.Enabled {
		metrics.Init()
		go func() {
			logger.Info("Starting metrics server", "addr", cfg.Metrics.Addr)
			if err := metrics.ServeHTTP(cfg.Metrics.Addr); err != nil {
				logger.Error("Metrics server failed", "error", err)
			}
		}()
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 2)

	// The engine exists whenever the server runs; in "both" mode the reporter
	// submits to it directly instead of going over the network.
	var engine *aggregator.Engine
	var server *api.Server

	if cfg.IsServerMode() {
		engine = aggregator.NewEngine(logger.With("component", "aggregator"))
		server = api.NewServer(cfg.Server.HTTP.Addr, engine, logger.With("component", "api"))

		logger.Info("Starting in server mode", "addr", cfg.Server.HTTP.Addr)
		go func() {
			errChan <- server.Start()
		}()
	}

	if cfg.IsReporterMode() {
		reporterLogger := logger.With("component", "reporter")
		source := binance.NewClient(cfg.Reporter.Source.APIURL, cfg.Reporter.Source.Symbol, reporterLogger)

		var submitter reporter.Submitter
		if engine != nil {
			submitter = reporter.NewEngineSubmitter(engine)
		} else {
			submitter = reporter.NewHTTPSubmitter(cfg.Reporter.SubmitURL, submitTimeout)
		}

		node, err := reporter.New(cfg.Reporter.ID, source, submitter, cfg.Reporter.Schedule, reporterLogger)
		if err != nil {
			logger.Fatal("Failed to create reporter", "error", err)
		}

		logger.Info("Starting in reporter mode",
			"reporter", cfg.Reporter.ID,
			"symbol", cfg.Reporter.Source.Symbol,
			"schedule", cfg.Reporter.Schedule)
		go func() {
			errChan <- node.Start(ctx)
		}()
	}

	// Wait for shutdown signal or component failure
	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", "signal", sig.String())
	case err := <-errChan:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Component failed", "error", err)
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Info("Shutting down gracefully...")
	if server != nil {
		if err := server.Stop(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", "error", err)
		}
	}
	logger.Info("Shutdown complete")
}
