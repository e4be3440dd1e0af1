// Package digest assembles the end-of-week summary from the rollup store:
// the week's top items per category plus the trend for every tracked metric.
package digest

import (
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/herald/internal/interfaces"
	"github.com/ternarybob/herald/internal/models"
)

// WeeklyDigest is the assembled end-of-week summary handed to the outbound
// channel before the rollup window resets.
type WeeklyDigest struct {
	WeekStart  time.Time                     `json:"week_start"`
	WeekEnd    time.Time                     `json:"week_end"`
	TopNews    []models.ArchivedItem         `json:"top_news"`
	TopReports []models.ArchivedItem         `json:"top_reports"`
	TopVideos  []models.ArchivedItem         `json:"top_videos"`
	Metrics    map[string]models.MetricTrend `json:"metrics"`
	ItemCount  int                           `json:"item_count"`
}

// IsEmpty reports whether the week produced neither content nor metrics.
func (d *WeeklyDigest) IsEmpty() bool {
	return d.ItemCount == 0 && len(d.Metrics) == 0
}

// Options bounds the number of items per digest section.
type Options struct {
	MaxNews    int
	MaxReports int
	MaxVideos  int
}

func (o *Options) applyDefaults() {
	if o.MaxNews <= 0 {
		o.MaxNews = 10
	}
	if o.MaxReports <= 0 {
		o.MaxReports = 5
	}
	if o.MaxVideos <= 0 {
		o.MaxVideos = 5
	}
}

// Service builds weekly digests from the rollup store.
type Service struct {
	rollup interfaces.RollupStore
	logger arbor.ILogger
	opts   Options
}

func NewService(rollup interfaces.RollupStore, opts Options, logger arbor.ILogger) *Service {
	opts.applyDefaults()
	return &Service{
		rollup: rollup,
		logger: logger,
		opts:   opts,
	}
}

// Build assembles the digest for the current rollup window. It reads only;
// the caller decides when to reset the window.
func (s *Service) Build() *WeeklyDigest {
	weekStart := s.rollup.WeekStart()
	digest := &WeeklyDigest{
		WeekStart:  weekStart,
		WeekEnd:    weekStart.AddDate(0, 0, 6),
		TopNews:    s.rollup.TopItems(s.opts.MaxNews, models.CategoryNews),
		TopReports: s.rollup.TopItems(s.opts.MaxReports, models.CategoryReport),
		TopVideos:  s.rollup.TopItems(s.opts.MaxVideos, models.CategoryVideo),
		Metrics:    s.rollup.WeeklySummary(),
		ItemCount:  s.rollup.ItemCount(),
	}

	s.logger.Info().
		Str("week_start", weekStart.Format("2006-01-02")).
		Int("items", digest.ItemCount).
		Int("metrics", len(digest.Metrics)).
		Msg("Weekly digest assembled")

	return digest
}

// BuildAndReset assembles the digest and then resets the rollup window,
// starting the next weekly cycle.
func (s *Service) BuildAndReset() *WeeklyDigest {
	digest := s.Build()
	s.rollup.Reset()
	return digest
}
