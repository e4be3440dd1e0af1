package interfaces

import (
	"time"

	"github.com/ternarybob/herald/internal/models"
)

// LedgerDocument is the persisted form of the delivery ledger: per-category
// id lists in insertion order, plus a last-updated timestamp.
type LedgerDocument struct {
	Categories  map[string][]string `json:"categories"`
	LastUpdated *time.Time          `json:"last_updated,omitempty"`
}

// NewLedgerDocument returns an empty ledger document.
func NewLedgerDocument() *LedgerDocument {
	return &LedgerDocument{Categories: make(map[string][]string)}
}

// RollupDocument is the persisted form of the weekly rollup store.
// MetricHistory maps calendar date ("2006-01-02") to metric name to quote.
type RollupDocument struct {
	WeekStart     string                                   `json:"week_start"`
	Items         []models.ArchivedItem                    `json:"items"`
	MetricHistory map[string]map[string]models.MetricQuote `json:"metric_history"`
}

// NewRollupDocument returns an empty rollup document anchored at weekStart.
func NewRollupDocument(weekStart string) *RollupDocument {
	return &RollupDocument{
		WeekStart:     weekStart,
		Items:         []models.ArchivedItem{},
		MetricHistory: make(map[string]map[string]models.MetricQuote),
	}
}

// LedgerStorage persists the delivery ledger as a single JSON document.
// Load treats a missing or corrupt file as an empty ledger; Save rewrites
// the whole document.
type LedgerStorage interface {
	Load() *LedgerDocument
	Save(doc *LedgerDocument) error
}

// RollupStorage persists the weekly rollup as a single JSON document with
// the same degraded-to-empty load semantics as LedgerStorage.
type RollupStorage interface {
	Load() *RollupDocument
	Save(doc *RollupDocument) error
}
