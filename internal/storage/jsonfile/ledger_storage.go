// Package jsonfile persists application state as whole JSON documents.
// Each document is read fully on first use and rewritten fully on every
// mutation; a corrupt or missing file degrades to empty state rather than
// failing startup.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/herald/internal/interfaces"
)

// LedgerStorage implements interfaces.LedgerStorage on a single JSON file.
type LedgerStorage struct {
	path   string
	logger arbor.ILogger
}

// NewLedgerStorage creates a ledger storage backed by the given file path.
func NewLedgerStorage(path string, logger arbor.ILogger) interfaces.LedgerStorage {
	return &LedgerStorage{path: path, logger: logger}
}

// Load reads the persisted ledger. Missing or unparsable files return an
// empty document; corruption is never fatal.
func (s *LedgerStorage) Load() *interfaces.LedgerDocument {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("Failed to read ledger file, starting empty")
		}
		return interfaces.NewLedgerDocument()
	}

	var doc interfaces.LedgerDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Corrupt ledger file, starting empty")
		return interfaces.NewLedgerDocument()
	}
	if doc.Categories == nil {
		doc.Categories = make(map[string][]string)
	}

	return &doc
}

// Save rewrites the whole ledger document.
func (s *LedgerStorage) Save(doc *interfaces.LedgerDocument) error {
	return writeDocument(s.path, doc)
}

func writeDocument(path string, doc interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
