package jsonfile

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/herald/internal/common"
	"github.com/ternarybob/herald/internal/interfaces"
	"github.com/ternarybob/herald/internal/models"
)

// RollupStorage implements interfaces.RollupStorage on a single JSON file.
type RollupStorage struct {
	path   string
	logger arbor.ILogger
}

// NewRollupStorage creates a rollup storage backed by the given file path.
func NewRollupStorage(path string, logger arbor.ILogger) interfaces.RollupStorage {
	return &RollupStorage{path: path, logger: logger}
}

// Load reads the persisted rollup. Missing or unparsable files return an
// empty document anchored at the current week's Monday.
func (s *RollupStorage) Load() *interfaces.RollupDocument {
	empty := func() *interfaces.RollupDocument {
		return interfaces.NewRollupDocument(common.DateKey(common.WeekStart(time.Now())))
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("Failed to read rollup file, starting empty")
		}
		return empty()
	}

	var doc interfaces.RollupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Corrupt rollup file, starting empty")
		return empty()
	}
	if doc.WeekStart == "" {
		doc.WeekStart = common.DateKey(common.WeekStart(time.Now()))
	}
	if doc.MetricHistory == nil {
		doc.MetricHistory = make(map[string]map[string]models.MetricQuote)
	}

	return &doc
}

// Save rewrites the whole rollup document.
func (s *RollupStorage) Save(doc *interfaces.RollupDocument) error {
	return writeDocument(s.path, doc)
}
