// Package pipeline orchestrates one collection cycle: collector fan-out,
// validation, delivery deduplication, relevance scoring, top-N selection,
// outbound hand-off, and weekly rollup archival.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/herald/internal/common"
	"github.com/ternarybob/herald/internal/interfaces"
	"github.com/ternarybob/herald/internal/models"
	"github.com/ternarybob/herald/internal/services/scoring"
)

// Options bounds each cycle. Zero values fall back to sensible defaults.
type Options struct {
	Concurrency    int      // Collector fan-out worker count
	MorningMaxNews int      // Top-N news for the morning cycle
	MiddayMaxNews  int      // Top-N news for the midday cycle
	MaxReports     int      // Top-N reports per cycle
	MaxVideos      int      // Top-N videos per cycle
	MinScore       float64  // Minimum importance score for news records
	MaxPerCategory int      // Ledger eviction cap
	Symbols        []string // Tracked market metrics for the close snapshot
}

func (o *Options) applyDefaults() {
	if o.Concurrency <= 0 {
		o.Concurrency = 4
	}
	if o.MorningMaxNews <= 0 {
		o.MorningMaxNews = 20
	}
	if o.MiddayMaxNews <= 0 {
		o.MiddayMaxNews = 15
	}
	if o.MaxReports <= 0 {
		o.MaxReports = 10
	}
	if o.MaxVideos <= 0 {
		o.MaxVideos = 10
	}
	if o.MaxPerCategory <= 0 {
		o.MaxPerCategory = 1000
	}
}

// Service wires the core components into the collection cycle. One instance
// exists per process; collectors fan out concurrently and converge on the
// ledger and scorer.
type Service struct {
	collectors []interfaces.Collector
	ledger     interfaces.DeliveryLedger
	rollup     interfaces.RollupStore
	notifier   interfaces.Notifier
	quotes     interfaces.QuoteProvider
	validate   *validator.Validate
	logger     arbor.ILogger
	opts       Options

	rulesMu sync.RWMutex
	rules   *scoring.CompiledRuleset
}

// NewService creates the pipeline service with an initial compiled ruleset.
func NewService(
	collectors []interfaces.Collector,
	ledger interfaces.DeliveryLedger,
	rollup interfaces.RollupStore,
	notifier interfaces.Notifier,
	quotes interfaces.QuoteProvider,
	rules *scoring.CompiledRuleset,
	opts Options,
	logger arbor.ILogger,
) *Service {
	opts.applyDefaults()
	return &Service{
		collectors: collectors,
		ledger:     ledger,
		rollup:     rollup,
		notifier:   notifier,
		quotes:     quotes,
		validate:   validator.New(),
		logger:     logger,
		opts:       opts,
		rules:      rules,
	}
}

// UpdateRuleset swaps in a newly compiled ruleset. Rule changes take effect
// on the next cycle without restart.
func (s *Service) UpdateRuleset(rules *scoring.CompiledRuleset) {
	s.rulesMu.Lock()
	defer s.rulesMu.Unlock()
	s.rules = rules
}

func (s *Service) compiledRules() *scoring.CompiledRuleset {
	s.rulesMu.RLock()
	defer s.rulesMu.RUnlock()
	return s.rules
}

// RunCycle executes one content cycle: collect, validate, dedup, score,
// select, deliver, mark, archive. A failing collector or notifier batch is
// logged and skipped; the cycle itself never aborts on one of them.
func (s *Service) RunCycle(ctx context.Context, kind interfaces.CycleKind) (*interfaces.CycleResult, error) {
	result := &interfaces.CycleResult{
		RunID:     common.NewRunID(),
		Kind:      kind,
		StartedAt: time.Now(),
		Delivered: make(map[models.Category]int),
	}

	s.logger.Info().
		Str("run_id", result.RunID).
		Str("kind", string(kind)).
		Int("collectors", len(s.collectors)).
		Msg("Collection cycle started")

	collected := s.collect(ctx)
	result.Collected = len(collected)

	fresh := make([]*models.Record, 0, len(collected))
	seen := make(map[string]struct{}, len(collected))
	for _, record := range collected {
		if err := s.validate.Struct(record); err != nil {
			result.Invalid++
			s.logger.Warn().
				Str("run_id", result.RunID).
				Str("url", record.URL).
				Err(err).
				Msg("Skipping malformed record")
			continue
		}
		if _, dup := seen[record.ID]; dup {
			result.Duplicates++
			continue
		}
		seen[record.ID] = struct{}{}
		if s.ledger.IsDelivered(record.ID, record.Category) {
			result.Duplicates++
			continue
		}
		fresh = append(fresh, record)
	}

	selected := s.scoreAndSelect(fresh, kind)
	result.Scored = len(fresh)

	archived := make([]*models.Record, 0)
	for category, records := range selected {
		if len(records) == 0 {
			continue
		}
		if err := s.notifier.SendBatch(ctx, category, records); err != nil {
			// Undelivered records stay out of the ledger so the next cycle
			// can retry them.
			s.logger.Error().
				Str("run_id", result.RunID).
				Str("category", string(category)).
				Err(err).
				Msg("Delivery failed, batch will be retried next cycle")
			continue
		}

		ids := make([]string, 0, len(records))
		for _, record := range records {
			ids = append(ids, record.ID)
		}
		s.ledger.MarkDeliveredMany(ids, category)
		result.Delivered[category] = len(records)
		archived = append(archived, records...)
	}

	s.ledger.EvictOld(s.opts.MaxPerCategory)

	result.Archived = s.rollup.AddItems(archived)
	result.Duration = time.Since(result.StartedAt)

	s.logger.Info().
		Str("run_id", result.RunID).
		Int("collected", result.Collected).
		Int("invalid", result.Invalid).
		Int("duplicates", result.Duplicates).
		Int("archived", result.Archived).
		Dur("duration", result.Duration).
		Msg("Collection cycle completed")

	return result, nil
}

// SnapshotMetrics fetches same-day quotes for the tracked symbols and
// appends them to the weekly rollup. The market-close job calls this.
func (s *Service) SnapshotMetrics(ctx context.Context) error {
	if s.quotes == nil || len(s.opts.Symbols) == 0 {
		s.logger.Debug().Msg("No quote provider configured, skipping metric snapshot")
		return nil
	}

	metrics, err := s.quotes.DailyQuotes(ctx, s.opts.Symbols)
	if err != nil {
		return fmt.Errorf("failed to fetch daily quotes: %w", err)
	}
	if len(metrics) == 0 {
		s.logger.Warn().Msg("Quote provider returned no metrics")
		return nil
	}

	s.rollup.AddMetricSnapshot(time.Now(), metrics)
	return nil
}

// collect fans collectors out across a bounded worker pool. A panicking or
// failing collector loses only its own batch.
func (s *Service) collect(ctx context.Context) []*models.Record {
	jobs := make(chan interfaces.Collector)
	var mu sync.Mutex
	var collected []*models.Record

	var wg sync.WaitGroup
	for i := 0; i < s.opts.Concurrency; i++ {
		wg.Add(1)
		common.SafeGo(s.logger, fmt.Sprintf("collector-worker-%d", i), func() {
			defer wg.Done()
			for collector := range jobs {
				records := s.runCollector(ctx, collector)
				if len(records) == 0 {
					continue
				}
				mu.Lock()
				collected = append(collected, records...)
				mu.Unlock()
			}
		})
	}

	for _, collector := range s.collectors {
		jobs <- collector
	}
	close(jobs)
	wg.Wait()

	return collected
}

func (s *Service) runCollector(ctx context.Context, collector interfaces.Collector) (records []*models.Record) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("collector", collector.Name()).
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("PANIC RECOVERED in collector")
			records = nil
		}
	}()

	records, err := collector.Collect(ctx)
	if err != nil {
		s.logger.Warn().
			Str("collector", collector.Name()).
			Err(err).
			Msg("Collector failed, skipping batch")
		return nil
	}

	s.logger.Debug().
		Str("collector", collector.Name()).
		Int("records", len(records)).
		Msg("Collector batch received")

	return records
}

// scoreAndSelect scores each category's records and keeps the cycle's top-N.
// News goes through the minimum-score filter; reports and videos keep their
// full ranking.
func (s *Service) scoreAndSelect(records []*models.Record, kind interfaces.CycleKind) map[models.Category][]*models.Record {
	rules := s.compiledRules()

	byCategory := make(map[models.Category][]*models.Record)
	for _, record := range records {
		byCategory[record.Category] = append(byCategory[record.Category], record)
	}

	selected := make(map[models.Category][]*models.Record, len(byCategory))
	for category, batch := range byCategory {
		var ranked []*models.Record
		if category == models.CategoryNews {
			ranked = scoring.FilterByImportance(batch, rules, s.opts.MinScore)
		} else {
			ranked = scoring.ScoreBatch(batch, rules)
			sort.SliceStable(ranked, func(i, j int) bool {
				return ranked[i].ImportanceScore > ranked[j].ImportanceScore
			})
		}

		limit := s.limitFor(category, kind)
		if len(ranked) > limit {
			ranked = ranked[:limit]
		}
		selected[category] = ranked
	}

	return selected
}

func (s *Service) limitFor(category models.Category, kind interfaces.CycleKind) int {
	switch category {
	case models.CategoryNews:
		if kind == interfaces.CycleMidday {
			return s.opts.MiddayMaxNews
		}
		return s.opts.MorningMaxNews
	case models.CategoryReport:
		// The midday cycle is news-only.
		if kind == interfaces.CycleMidday {
			return 0
		}
		return s.opts.MaxReports
	case models.CategoryVideo:
		// The midday cycle is news-only.
		if kind == interfaces.CycleMidday {
			return 0
		}
		return s.opts.MaxVideos
	}
	return 0
}
