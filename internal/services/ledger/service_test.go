package ledger

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/herald/internal/common"
	"github.com/ternarybob/herald/internal/interfaces"
	"github.com/ternarybob/herald/internal/models"
	"github.com/ternarybob/herald/internal/storage/jsonfile"
)

// memStorage counts writes and keeps the last saved document.
type memStorage struct {
	mu     sync.Mutex
	doc    *interfaces.LedgerDocument
	saves  int
	failed bool
}

func (m *memStorage) Load() *interfaces.LedgerDocument {
	if m.doc == nil {
		return interfaces.NewLedgerDocument()
	}
	return m.doc
}

func (m *memStorage) Save(doc *interfaces.LedgerDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failed {
		return errors.New("disk full")
	}
	m.doc = doc
	m.saves++
	return nil
}

func newTestService(t *testing.T) (*Service, *memStorage) {
	t.Helper()
	storage := &memStorage{}
	return NewService(storage, common.GetLogger()), storage
}

func TestMarkDeliveredIdempotent(t *testing.T) {
	svc, storage := newTestService(t)

	svc.MarkDelivered("id1", models.CategoryNews)
	assert.True(t, svc.IsDelivered("id1", models.CategoryNews))
	assert.Equal(t, 1, storage.saves)
	assert.Len(t, storage.doc.Categories["news"], 1)

	// Second call is a no-op: still delivered, persisted size unchanged,
	// and no redundant write issued.
	svc.MarkDelivered("id1", models.CategoryNews)
	assert.True(t, svc.IsDelivered("id1", models.CategoryNews))
	assert.Equal(t, 1, storage.saves)
	assert.Len(t, storage.doc.Categories["news"], 1)
}

func TestCategoriesArePartitioned(t *testing.T) {
	svc, _ := newTestService(t)

	svc.MarkDelivered("id1", models.CategoryNews)

	assert.True(t, svc.IsDelivered("id1", models.CategoryNews))
	assert.False(t, svc.IsDelivered("id1", models.CategoryReport))
	assert.False(t, svc.IsDelivered("id1", models.CategoryVideo))
}

func TestMarkDeliveredManyBatchesOneWrite(t *testing.T) {
	svc, storage := newTestService(t)

	svc.MarkDeliveredMany([]string{"a", "b", "c"}, models.CategoryReport)

	assert.Equal(t, 1, storage.saves)
	assert.Equal(t, 3, svc.SentCount(models.CategoryReport))

	// Re-marking a fully duplicate batch writes nothing.
	svc.MarkDeliveredMany([]string{"a", "b"}, models.CategoryReport)
	assert.Equal(t, 1, storage.saves)
	assert.Equal(t, 3, svc.SentCount(models.CategoryReport))
}

func TestEvictOldKeepsMostRecentlyInserted(t *testing.T) {
	svc, _ := newTestService(t)

	svc.MarkDeliveredMany([]string{"a", "b", "c", "d", "e"}, models.CategoryNews)
	svc.EvictOld(3)

	assert.Equal(t, 3, svc.SentCount(models.CategoryNews))
	assert.False(t, svc.IsDelivered("a", models.CategoryNews))
	assert.False(t, svc.IsDelivered("b", models.CategoryNews))
	assert.True(t, svc.IsDelivered("c", models.CategoryNews))
	assert.True(t, svc.IsDelivered("e", models.CategoryNews))
}

func TestWriteFailureKeepsMemoryAuthoritative(t *testing.T) {
	svc, storage := newTestService(t)
	storage.failed = true

	svc.MarkDelivered("id1", models.CategoryNews)

	// Storage rejected the write but the pipeline keeps working against
	// the in-memory state.
	assert.True(t, svc.IsDelivered("id1", models.CategoryNews))
	assert.Equal(t, 0, storage.saves)
}

func TestConcurrentMarking(t *testing.T) {
	svc, _ := newTestService(t)

	var wg sync.WaitGroup
	ids := []string{"a", "b", "c", "d"}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, id := range ids {
				svc.MarkDelivered(id, models.CategoryNews)
				svc.IsDelivered(id, models.CategoryNews)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, len(ids), svc.SentCount(models.CategoryNews))
}

func TestSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_items.json")
	logger := common.GetLogger()

	first := NewService(jsonfile.NewLedgerStorage(path, logger), logger)
	first.MarkDeliveredMany([]string{"a", "b"}, models.CategoryVideo)

	second := NewService(jsonfile.NewLedgerStorage(path, logger), logger)
	assert.True(t, second.IsDelivered("a", models.CategoryVideo))
	assert.True(t, second.IsDelivered("b", models.CategoryVideo))
	require.Equal(t, 2, second.SentCount(models.CategoryVideo))
}
