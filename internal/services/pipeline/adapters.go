package pipeline

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/herald/internal/interfaces"
	"github.com/ternarybob/herald/internal/models"
)

// StaticCollector serves a fixed batch of records. Useful for wiring checks
// and as the seam where feed-backed collectors plug in.
type StaticCollector struct {
	name     string
	category models.Category
	records  []*models.Record
}

// NewStaticCollector creates a collector that returns the given records on
// every Collect call.
func NewStaticCollector(name string, category models.Category, records []*models.Record) *StaticCollector {
	return &StaticCollector{
		name:     name,
		category: category,
		records:  records,
	}
}

func (c *StaticCollector) Name() string              { return c.name }
func (c *StaticCollector) Category() models.Category { return c.category }

func (c *StaticCollector) Collect(ctx context.Context) ([]*models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]*models.Record, len(c.records))
	copy(out, c.records)
	return out, nil
}

// LogNotifier writes each ranked batch to the log. It is the default
// outbound target when no delivery channel is configured.
type LogNotifier struct {
	logger arbor.ILogger
}

func NewLogNotifier(logger arbor.ILogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendBatch(ctx context.Context, category models.Category, records []*models.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for i, record := range records {
		n.logger.Info().
			Str("category", string(category)).
			Int("rank", i+1).
			Str("title", record.Title).
			Float64("score", record.ImportanceScore).
			Str("priority", string(record.Priority)).
			Msg("Record delivered")
	}
	return nil
}

var (
	_ interfaces.Collector = (*StaticCollector)(nil)
	_ interfaces.Notifier  = (*LogNotifier)(nil)
)
