package common

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// RecordID derives a stable record identifier from a canonical URL.
// The same URL always yields the same id.
func RecordID(url string) string {
	sum := md5.Sum([]byte(strings.TrimSpace(url)))
	return hex.EncodeToString(sum[:])[:16]
}

// NewRunID generates a unique pipeline run id with the "run_" prefix
// Format: run_<uuid>
func NewRunID() string {
	return "run_" + uuid.New().String()
}
