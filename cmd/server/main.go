package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/Johay90/HighlightedItems/internal/application"
	"github.com/Johay90/HighlightedItems/internal/config"
	"github.com/Johay90/HighlightedItems/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("highlighted-items", "Highlighted Items service - selects the best-fitting item combination for a stash grid")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	port := kingpinApp.Flag("port", "HTTP port exposed by the service").String()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()
	gridSize := kingpinApp.Flag("grid-size", "Grid dimensions as WIDTHxHEIGHT, e.g. 12x5").String()
	reservedCells := kingpinApp.Flag("reserved-cells", "Semicolon-separated reserved cells, e.g. 0,0;11,4").String()
	seedCandidatesFlag := kingpinApp.Flag("seed-candidates", "How many of the largest item groups seed placement trials").Default("0").Int()
	cacheTTLFlag := kingpinApp.Flag("cache-ttl", "Optimize result cache TTL (set 0 to disable)").Default("-1s").Duration()
	rateLimitRPSFlag := kingpinApp.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
	}

	if *port != "" {
		overrides.Port = port
	}

	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	if *gridSize != "" {
		overrides.GridSize = gridSize
	}

	if *reservedCells != "" {
		overrides.ReservedCells = reservedCells
	}

	if *seedCandidatesFlag > 0 {
		overrides.SeedCandidates = seedCandidatesFlag
	}

	if *cacheTTLFlag >= 0 {
		overrides.CacheTTL = cacheTTLFlag
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
