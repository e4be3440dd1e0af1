package interfaces

import (
	"errors"
	"time"

	"github.com/ternarybob/herald/internal/models"
)

// ErrNoData is returned when a metric has no datapoints in the current window.
var ErrNoData = errors.New("no data for metric")

// RollupStore accumulates scored records and daily market metrics across a
// weekly cycle. It is queried once per cycle for a digest and then reset.
type RollupStore interface {
	// AddItems appends records not already present by URL; returns count added
	AddItems(records []*models.Record) int

	// TopItems returns archived items sorted by importance score descending.
	// Ties preserve insertion order. Category "" means all categories.
	TopItems(maxCount int, category models.Category) []models.ArchivedItem

	// AddMetricSnapshot upserts one day's metric values (last write wins per day)
	AddMetricSnapshot(date time.Time, metrics map[string]models.MetricQuote)

	// MetricTrend computes the first/last datapoint delta for a metric.
	// Returns ErrNoData when the metric has no datapoints.
	MetricTrend(metric string) (models.MetricTrend, error)

	// WeeklySummary returns the trend for every metric with data this week
	WeeklySummary() map[string]models.MetricTrend

	// ItemCount returns the number of archived items in the current window
	ItemCount() int

	// WeekStart returns the Monday anchoring the current window
	WeekStart() time.Time

	// Reset clears all state and advances the window to the upcoming Monday
	Reset()
}
