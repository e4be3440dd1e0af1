package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/herald/internal/common"
	"github.com/ternarybob/herald/internal/interfaces"
	"github.com/ternarybob/herald/internal/services/digest"
	"github.com/ternarybob/herald/internal/services/ledger"
	"github.com/ternarybob/herald/internal/services/pipeline"
	"github.com/ternarybob/herald/internal/services/quotes"
	"github.com/ternarybob/herald/internal/services/rollup"
	"github.com/ternarybob/herald/internal/services/scheduler"
	"github.com/ternarybob/herald/internal/services/scoring"
	"github.com/ternarybob/herald/internal/storage/jsonfile"
)

// Job names registered with the scheduler.
const (
	JobMorningCycle = "morning-cycle"
	JobMiddayCycle  = "midday-cycle"
	JobMarketClose  = "market-close-snapshot"
	JobWeeklyDigest = "weekly-digest"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	LedgerService    interfaces.DeliveryLedger
	RollupService    interfaces.RollupStore
	PipelineService  *pipeline.Service
	DigestService    *digest.Service
	SchedulerService interfaces.SchedulerService
	QuotesClient     *quotes.Client
}

// New initializes the application with all dependencies. Collectors and the
// notifier are injected so the core stays free of channel specifics; pass a
// nil notifier to log deliveries instead of sending them anywhere.
func New(cfg *common.Config, logger arbor.ILogger, collectors []interfaces.Collector, notifier interfaces.Notifier) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if notifier == nil {
		notifier = pipeline.NewLogNotifier(logger)
	}

	if err := app.initServices(collectors, notifier); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.registerJobs(); err != nil {
		return nil, fmt.Errorf("failed to register jobs: %w", err)
	}

	logger.Info().
		Int("collectors", len(collectors)).
		Str("data_dir", cfg.Storage.DataDir).
		Msg("Application initialization complete")

	return app, nil
}

// initServices initializes all business services in dependency order.
func (a *App) initServices(collectors []interfaces.Collector, notifier interfaces.Notifier) error {
	ledgerPath := filepath.Join(a.Config.Storage.DataDir, a.Config.Storage.LedgerFile)
	rollupPath := filepath.Join(a.Config.Storage.DataDir, a.Config.Storage.RollupFile)

	a.LedgerService = ledger.NewService(jsonfile.NewLedgerStorage(ledgerPath, a.Logger), a.Logger)
	a.RollupService = rollup.NewService(jsonfile.NewRollupStorage(rollupPath, a.Logger), a.Logger)
	a.Logger.Debug().
		Str("ledger", ledgerPath).
		Str("rollup", rollupPath).
		Msg("Storage layer initialized")

	ruleset, err := scoring.LoadRuleset(a.Config.Scoring.RulesFile)
	if err != nil {
		// Scoring falls back to the built-in ruleset rather than blocking startup
		a.Logger.Warn().Err(err).
			Str("rules_file", a.Config.Scoring.RulesFile).
			Msg("Failed to load scoring rules, using defaults")
	}
	compiled := scoring.Compile(ruleset)
	a.Logger.Debug().Str("rules_file", a.Config.Scoring.RulesFile).Msg("Scoring ruleset compiled")

	if a.Config.Quotes.BaseURL != "" {
		a.QuotesClient = quotes.NewClient(
			a.Config.Quotes.BaseURL,
			a.Config.Quotes.APIKey,
			quotes.WithLogger(a.Logger),
			quotes.WithRateLimit(a.Config.Quotes.RateLimit),
		)
		a.Logger.Debug().Str("base_url", a.Config.Quotes.BaseURL).Msg("Quotes client initialized")
	} else {
		a.Logger.Warn().Msg("No quotes base URL configured, metric snapshots disabled")
	}

	var quoteProvider interfaces.QuoteProvider
	if a.QuotesClient != nil {
		quoteProvider = a.QuotesClient
	}

	a.PipelineService = pipeline.NewService(
		collectors,
		a.LedgerService,
		a.RollupService,
		notifier,
		quoteProvider,
		compiled,
		pipeline.Options{
			Concurrency:    a.Config.Pipeline.Concurrency,
			MorningMaxNews: a.Config.Pipeline.MorningMaxNews,
			MiddayMaxNews:  a.Config.Pipeline.MiddayMaxNews,
			MaxReports:     a.Config.Pipeline.MaxReports,
			MaxVideos:      a.Config.Pipeline.MaxVideos,
			MinScore:       a.Config.Scoring.MinScore,
			MaxPerCategory: a.Config.Storage.MaxPerCat,
			Symbols:        a.Config.Quotes.Symbols,
		},
		a.Logger,
	)
	a.Logger.Debug().Msg("Pipeline service initialized")

	a.DigestService = digest.NewService(a.RollupService, digest.Options{}, a.Logger)
	a.SchedulerService = scheduler.NewService(a.Logger)

	return nil
}

// registerJobs wires the collection cycles and the weekly digest into the
// scheduler. Content cycles skip weekends and configured market holidays.
func (a *App) registerJobs() error {
	holidays := a.Config.Schedule.Holidays

	jobs := []struct {
		name, schedule, description string
		handler                     func() error
	}{
		{
			name:        JobMorningCycle,
			schedule:    a.Config.Schedule.Morning,
			description: "Morning collection cycle",
			handler:     a.tradingDayOnly(holidays, a.runCycle(interfaces.CycleMorning)),
		},
		{
			name:        JobMiddayCycle,
			schedule:    a.Config.Schedule.Midday,
			description: "Midday news cycle",
			handler:     a.tradingDayOnly(holidays, a.runCycle(interfaces.CycleMidday)),
		},
		{
			name:        JobMarketClose,
			schedule:    a.Config.Schedule.MarketClose,
			description: "Market-close metric snapshot",
			handler:     a.tradingDayOnly(holidays, a.runMarketClose),
		},
		{
			name:        JobWeeklyDigest,
			schedule:    a.Config.Schedule.WeeklyDigest,
			description: "Weekly digest and rollup reset",
			handler:     a.runWeeklyDigest,
		},
	}

	for _, job := range jobs {
		if err := a.SchedulerService.RegisterJob(job.name, job.schedule, job.description, job.handler); err != nil {
			return fmt.Errorf("failed to register %s: %w", job.name, err)
		}
	}

	return nil
}

// tradingDayOnly wraps a handler so it becomes a no-op on weekends and
// configured holidays.
func (a *App) tradingDayOnly(holidays []string, handler func() error) func() error {
	return func() error {
		now := time.Now()
		if !common.IsTradingDay(now, holidays) {
			a.Logger.Info().
				Str("date", common.DateKey(now)).
				Msg("Not a trading day, skipping cycle")
			return nil
		}
		return handler()
	}
}

// cycleTimeout bounds one collection cycle end to end.
const cycleTimeout = 5 * time.Minute

func (a *App) cycleContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cycleTimeout)
}

func (a *App) runCycle(kind interfaces.CycleKind) func() error {
	return func() error {
		ctx, cancel := a.cycleContext()
		defer cancel()

		_, err := a.PipelineService.RunCycle(ctx, kind)
		return err
	}
}

// runMarketClose snapshots the day's market metrics into the weekly rollup.
func (a *App) runMarketClose() error {
	ctx, cancel := a.cycleContext()
	defer cancel()

	return a.PipelineService.SnapshotMetrics(ctx)
}

// runWeeklyDigest assembles the week's digest, logs its contents, and
// resets the rollup window for the next week.
func (a *App) runWeeklyDigest() error {
	d := a.DigestService.BuildAndReset()
	if d.IsEmpty() {
		a.Logger.Info().
			Str("week_start", d.WeekStart.Format(common.DateKeyFormat)).
			Msg("Weekly digest empty, nothing to report")
		return nil
	}

	for metric, trend := range d.Metrics {
		a.Logger.Info().
			Str("metric", metric).
			Float64("change", trend.Change).
			Float64("change_percent", trend.ChangePercent).
			Msg("Weekly metric trend")
	}
	for _, item := range d.TopNews {
		a.Logger.Info().
			Str("title", item.Title).
			Float64("score", item.ImportanceScore).
			Msg("Weekly top news")
	}

	return nil
}

// Start begins the scheduler.
func (a *App) Start() error {
	return a.SchedulerService.Start()
}

// Close stops the scheduler and flushes logs. Storage needs no explicit
// close since every mutation is persisted synchronously.
func (a *App) Close() error {
	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler service")
		}
	}
	return nil
}
