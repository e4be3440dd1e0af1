// Package ledger tracks delivered record ids for at-most-once delivery.
package ledger

import (
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/herald/internal/interfaces"
	"github.com/ternarybob/herald/internal/models"
)

// categoryState keeps a category's ids in insertion order with an index for
// constant-time membership checks.
type categoryState struct {
	order []string
	index map[string]struct{}
}

func newCategoryState(ids []string) *categoryState {
	state := &categoryState{
		order: make([]string, 0, len(ids)),
		index: make(map[string]struct{}, len(ids)),
	}
	for _, id := range ids {
		state.add(id)
	}
	return state
}

func (c *categoryState) add(id string) bool {
	if _, exists := c.index[id]; exists {
		return false
	}
	c.index[id] = struct{}{}
	c.order = append(c.order, id)
	return true
}

func (c *categoryState) trim(max int) bool {
	if max <= 0 || len(c.order) <= max {
		return false
	}
	evicted := c.order[:len(c.order)-max]
	for _, id := range evicted {
		delete(c.index, id)
	}
	c.order = append([]string(nil), c.order[len(c.order)-max:]...)
	return true
}

// Service implements interfaces.DeliveryLedger. All mutations are serialized
// behind a single writer lock and followed by a full synchronous rewrite of
// the persisted document; a failed write is logged and the in-memory state
// stays authoritative.
type Service struct {
	mu         sync.RWMutex
	categories map[models.Category]*categoryState
	storage    interfaces.LedgerStorage
	logger     arbor.ILogger
}

// NewService loads the persisted ledger and returns the service.
func NewService(storage interfaces.LedgerStorage, logger arbor.ILogger) *Service {
	s := &Service{
		categories: make(map[models.Category]*categoryState),
		storage:    storage,
		logger:     logger,
	}

	doc := storage.Load()
	total := 0
	for name, ids := range doc.Categories {
		s.categories[models.Category(name)] = newCategoryState(ids)
		total += len(ids)
	}

	logger.Info().
		Int("categories", len(s.categories)).
		Int("entries", total).
		Msg("Delivery ledger loaded")

	return s
}

// IsDelivered reports whether the id was already delivered in the category.
func (s *Service) IsDelivered(id string, category models.Category) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.categories[category]
	if !ok {
		return false
	}
	_, delivered := state.index[id]
	return delivered
}

// MarkDelivered records a single delivered id. Re-marking a present id is a
// no-op and skips the persistence write.
func (s *Service) MarkDelivered(id string, category models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state(category).add(id) {
		s.persistLocked()
	}
}

// MarkDeliveredMany records a batch with a single persistence write.
// Persistence dominates the cost of marking, so callers should prefer this
// over per-id calls.
func (s *Service) MarkDeliveredMany(ids []string, category models.Category) {
	if len(ids) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := false
	state := s.state(category)
	for _, id := range ids {
		if state.add(id) {
			added = true
		}
	}
	if added {
		s.persistLocked()
	}
}

// EvictOld keeps only the most recently inserted maxPerCategory ids per
// category. Insertion order, not timestamp, determines retention.
func (s *Service) EvictOld(maxPerCategory int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed := false
	for _, state := range s.categories {
		if state.trim(maxPerCategory) {
			trimmed = true
		}
	}
	if trimmed {
		s.persistLocked()
		s.logger.Info().Int("max_per_category", maxPerCategory).Msg("Ledger eviction completed")
	}
}

// SentCount returns the number of delivered ids in the category.
func (s *Service) SentCount(category models.Category) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.categories[category]
	if !ok {
		return 0
	}
	return len(state.order)
}

func (s *Service) state(category models.Category) *categoryState {
	state, ok := s.categories[category]
	if !ok {
		state = newCategoryState(nil)
		s.categories[category] = state
	}
	return state
}

// persistLocked rewrites the whole document. Callers hold the write lock.
func (s *Service) persistLocked() {
	doc := interfaces.NewLedgerDocument()
	for category, state := range s.categories {
		doc.Categories[string(category)] = append([]string(nil), state.order...)
	}
	now := time.Now()
	doc.LastUpdated = &now

	if err := s.storage.Save(doc); err != nil {
		// In-memory state remains authoritative; durability degrades until
		// the next successful write.
		s.logger.Error().Err(err).Msg("Failed to persist delivery ledger")
	}
}
