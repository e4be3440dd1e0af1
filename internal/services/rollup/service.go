// Package rollup accumulates scored records and daily market metrics across
// a 5-business-day window for weekly digest generation.
package rollup

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/herald/internal/common"
	"github.com/ternarybob/herald/internal/interfaces"
	"github.com/ternarybob/herald/internal/models"
)

// Service implements interfaces.RollupStore. The current week is the unit of
// durability: no cross-week history is retained here. Mutations are
// serialized and followed by a full rewrite of the persisted document.
type Service struct {
	mu      sync.RWMutex
	doc     *interfaces.RollupDocument
	urls    map[string]struct{}
	storage interfaces.RollupStorage
	logger  arbor.ILogger
	now     func() time.Time
}

// NewService loads the persisted rollup and returns the service.
func NewService(storage interfaces.RollupStorage, logger arbor.ILogger) *Service {
	s := &Service{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}

	s.doc = storage.Load()
	s.urls = make(map[string]struct{}, len(s.doc.Items))
	for _, item := range s.doc.Items {
		s.urls[item.URL] = struct{}{}
	}

	logger.Info().
		Str("week_start", s.doc.WeekStart).
		Int("items", len(s.doc.Items)).
		Int("metric_days", len(s.doc.MetricHistory)).
		Msg("Weekly rollup loaded")

	return s
}

// AddItems appends records not already archived by URL and returns the count
// actually added.
func (s *Service) AddItems(records []*models.Record) int {
	if len(records) == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	added := 0
	for _, record := range records {
		if _, exists := s.urls[record.URL]; exists {
			continue
		}
		s.doc.Items = append(s.doc.Items, models.ArchiveRecord(record, now))
		s.urls[record.URL] = struct{}{}
		added++
	}

	if added > 0 {
		s.persistLocked()
		s.logger.Info().
			Int("added", added).
			Int("total", len(s.doc.Items)).
			Msg("Weekly rollup: items archived")
	}

	return added
}

// TopItems returns archived items sorted by importance score descending,
// optionally filtered by category. Ties preserve insertion order.
func (s *Service) TopItems(maxCount int, category models.Category) []models.ArchivedItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.ArchivedItem, 0, len(s.doc.Items))
	for _, item := range s.doc.Items {
		if category != "" && item.Category != category {
			continue
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ImportanceScore > items[j].ImportanceScore
	})

	if maxCount >= 0 && len(items) > maxCount {
		items = items[:maxCount]
	}
	return items
}

// AddMetricSnapshot upserts one day's metric values. A later write for the
// same day replaces the earlier one: the last snapshot of the day carries
// the settled end-of-day values.
func (s *Service) AddMetricSnapshot(date time.Time, metrics map[string]models.MetricQuote) {
	if len(metrics) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := common.DateKey(date)
	day, ok := s.doc.MetricHistory[key]
	if !ok {
		day = make(map[string]models.MetricQuote, len(metrics))
		s.doc.MetricHistory[key] = day
	}
	for name, quote := range metrics {
		day[name] = quote
	}

	s.persistLocked()
	s.logger.Info().
		Str("date", key).
		Int("metrics", len(metrics)).
		Msg("Weekly rollup: metric snapshot saved")
}

// MetricTrend scans the accumulated dates chronologically and computes the
// delta between the first and last date reporting the metric. Days without
// data are simply skipped, so a week with a mid-week outage still produces a
// valid trend.
func (s *Service) MetricTrend(metric string) (models.MetricTrend, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trendLocked(metric)
}

// WeeklySummary returns the trend for every metric that reported at least
// one datapoint this week.
func (s *Service) WeeklySummary() map[string]models.MetricTrend {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make(map[string]struct{})
	for _, day := range s.doc.MetricHistory {
		for name := range day {
			names[name] = struct{}{}
		}
	}

	summary := make(map[string]models.MetricTrend, len(names))
	for name := range names {
		if trend, err := s.trendLocked(name); err == nil {
			summary[name] = trend
		}
	}
	return summary
}

// ItemCount returns the number of archived items in the current window.
func (s *Service) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.doc.Items)
}

// WeekStart returns the Monday anchoring the current window.
func (s *Service) WeekStart() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, err := time.Parse(common.DateKeyFormat, s.doc.WeekStart)
	if err != nil {
		return common.WeekStart(s.now())
	}
	return start
}

// Reset clears items and metric history and advances the window to the
// upcoming Monday. The scheduler calls this right after the weekly digest.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	weekStart := common.DateKey(common.NextWeekStart(s.now()))
	s.doc = interfaces.NewRollupDocument(weekStart)
	s.urls = make(map[string]struct{})
	s.persistLocked()

	s.logger.Info().Str("week_start", weekStart).Msg("Weekly rollup reset")
}

func (s *Service) trendLocked(metric string) (models.MetricTrend, error) {
	dates := make([]string, 0, len(s.doc.MetricHistory))
	for date := range s.doc.MetricHistory {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var trend models.MetricTrend
	found := false
	for _, date := range dates {
		quote, ok := s.doc.MetricHistory[date][metric]
		if !ok {
			continue
		}
		if !found {
			trend.Start = quote.Value
			trend.StartDate = date
			found = true
		}
		trend.End = quote.Value
		trend.EndDate = date
	}

	if !found {
		return models.MetricTrend{}, interfaces.ErrNoData
	}

	trend.Change = round2(trend.End - trend.Start)
	if trend.Start != 0 {
		trend.ChangePercent = round2((trend.End - trend.Start) / trend.Start * 100)
	}
	return trend, nil
}

// persistLocked rewrites the whole document. Callers hold the write lock.
func (s *Service) persistLocked() {
	if err := s.storage.Save(s.doc); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist weekly rollup")
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
