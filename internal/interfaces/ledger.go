package interfaces

import "github.com/ternarybob/herald/internal/models"

// DeliveryLedger tracks which record ids have already been delivered,
// partitioned by category. Membership checks and insertions are idempotent.
type DeliveryLedger interface {
	// IsDelivered reports whether the id was already delivered in the category
	IsDelivered(id string, category models.Category) bool

	// MarkDelivered records a single delivered id and persists the ledger
	MarkDelivered(id string, category models.Category)

	// MarkDeliveredMany records a batch of delivered ids with one persistence write
	MarkDeliveredMany(ids []string, category models.Category)

	// EvictOld keeps only the most recently inserted maxPerCategory ids per category
	EvictOld(maxPerCategory int)

	// SentCount returns the number of delivered ids in the category
	SentCount(category models.Category) int
}
