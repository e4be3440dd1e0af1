package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/herald/internal/app"
	"github.com/ternarybob/herald/internal/common"
	"github.com/ternarybob/herald/internal/interfaces"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	runOnce      = flag.String("run", "", "Run one cycle and exit: morning, midday, close, or digest")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")

	config *common.Config
	logger arbor.ILogger
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Herald version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Startup sequence: load config, initialize logger, print banner
	var err error

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("herald.toml"); err == nil {
			configFiles = append(configFiles, "herald.toml")
		} else if _, err := os.Stat("deployments/local/herald.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/herald.toml")
		}
	}

	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger = common.InitLogger(config)
	common.PrintBanner(common.GetFullVersion())

	logger.Info().
		Strs("config_files", configFiles).
		Str("environment", config.Environment).
		Str("log_level", config.Logging.Level).
		Msg("Application configuration loaded")

	// Collectors plug in here; with none configured the pipeline still runs
	// metric snapshots and the weekly digest.
	application, err := app.New(config, logger, nil, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	if *runOnce != "" {
		if err := runSingle(application, *runOnce); err != nil {
			logger.Fatal().Err(err).Str("cycle", *runOnce).Msg("Cycle failed")
		}
		return
	}

	if err := application.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	logger.Info().Msg("Herald running - Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Interrupt signal received, shutting down")
}

// runSingle executes one cycle immediately, bypassing the scheduler and
// the trading-day guard.
func runSingle(application *app.App, cycle string) error {
	ctx := context.Background()

	switch cycle {
	case "morning":
		_, err := application.PipelineService.RunCycle(ctx, interfaces.CycleMorning)
		return err
	case "midday":
		_, err := application.PipelineService.RunCycle(ctx, interfaces.CycleMidday)
		return err
	case "close":
		return application.PipelineService.SnapshotMetrics(ctx)
	case "digest":
		d := application.DigestService.BuildAndReset()
		logger.Info().
			Int("items", d.ItemCount).
			Int("metrics", len(d.Metrics)).
			Msg("Weekly digest assembled")
		return nil
	default:
		return fmt.Errorf("unknown cycle %q (expected morning, midday, close, or digest)", cycle)
	}
}
