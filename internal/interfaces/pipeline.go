package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/herald/internal/models"
)

// Collector is the inbound boundary: a collection adapter that produces a
// batch of content records for one source. Adapters own their network
// retries, parsing, and rate limiting; the core only requires that returned
// records carry a non-empty id, title, url, and category.
type Collector interface {
	Name() string
	Category() models.Category
	Collect(ctx context.Context) ([]*models.Record, error)
}

// Notifier is the outbound boundary: it receives ranked records ready for
// presentation. The core has no knowledge of the target channel's format.
type Notifier interface {
	SendBatch(ctx context.Context, category models.Category, records []*models.Record) error
}

// QuoteProvider supplies end-of-day values for tracked market metrics.
type QuoteProvider interface {
	DailyQuotes(ctx context.Context, symbols []string) (map[string]models.MetricQuote, error)
}

// CycleKind selects which collection cycle is running; per-kind selection
// limits come from configuration.
type CycleKind string

const (
	CycleMorning     CycleKind = "morning"
	CycleMidday      CycleKind = "midday"
	CycleMarketClose CycleKind = "market_close"
)

// CycleResult summarizes one pipeline run.
type CycleResult struct {
	RunID      string
	Kind       CycleKind
	StartedAt  time.Time
	Duration   time.Duration
	Collected  int
	Invalid    int
	Duplicates int
	Scored     int
	Delivered  map[models.Category]int
	Archived   int
}
