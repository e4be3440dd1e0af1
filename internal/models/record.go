package models

import "time"

// Category identifies the kind of content a record carries.
type Category string

const (
	CategoryNews   Category = "news"
	CategoryReport Category = "report"
	CategoryVideo  Category = "video"
)

// Categories lists all known content categories in a stable order.
var Categories = []Category{CategoryNews, CategoryReport, CategoryVideo}

// IsValid reports whether the category is one of the known values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryNews, CategoryReport, CategoryVideo:
		return true
	}
	return false
}

// Priority is the discrete tier derived from a record's importance score.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority converts a string to a Priority, defaulting to medium.
func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	}
	return PriorityMedium
}

// RecordAttributes holds side-channel data written by independent pipeline
// stages. Each producer owns its own fields; writes are additive and
// order-agnostic.
type RecordAttributes struct {
	Journalist      string   `json:"journalist,omitempty"`       // matched priority journalist
	MatchedSource   string   `json:"matched_source,omitempty"`   // matched priority source/analyst entry
	MatchedKeywords []string `json:"matched_keywords,omitempty"` // keywords that contributed to the score
	Sector          string   `json:"sector,omitempty"`           // detected sector tag
	Summary         string   `json:"summary,omitempty"`          // written back by the external summarizer
	OneLineSummary  string   `json:"one_line_summary,omitempty"` // written back by the external summarizer
	ThumbnailURL    string   `json:"thumbnail_url,omitempty"`    // origin-provided thumbnail
}

// Record is the canonical unit of work flowing through the pipeline.
// The id is derived from the canonical URL and is immutable once assigned.
type Record struct {
	ID              string           `json:"id" validate:"required"`
	Title           string           `json:"title" validate:"required"`
	URL             string           `json:"url" validate:"required,url"`
	Source          string           `json:"source"`
	Category        Category         `json:"category" validate:"required,oneof=news report video"`
	PublishedAt     *time.Time       `json:"published_at,omitempty"`
	Description     string           `json:"description,omitempty"`
	ImportanceScore float64          `json:"importance_score"`
	Priority        Priority         `json:"priority"`
	Attributes      RecordAttributes `json:"attributes,omitempty"`
}

// DefaultImportanceScore is the score a record carries until it is scored.
const DefaultImportanceScore = 0.5

// NewRecord creates a record with defaulted score and priority.
func NewRecord(id, title, url, source string, category Category) *Record {
	return &Record{
		ID:              id,
		Title:           title,
		URL:             url,
		Source:          source,
		Category:        category,
		ImportanceScore: DefaultImportanceScore,
		Priority:        PriorityMedium,
	}
}

// ClampScore bounds the importance score to [0, 1].
func (r *Record) ClampScore() {
	if r.ImportanceScore < 0 {
		r.ImportanceScore = 0
	}
	if r.ImportanceScore > 1 {
		r.ImportanceScore = 1
	}
}

// ArchivedItem is the read-only snapshot of a record kept in the weekly
// rollup. It carries only the fields the digest needs.
type ArchivedItem struct {
	Title           string     `json:"title"`
	URL             string     `json:"url"`
	Source          string     `json:"source"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	ImportanceScore float64    `json:"importance_score"`
	Description     string     `json:"description,omitempty"`
	Category        Category   `json:"category"`
	ArchivedAt      time.Time  `json:"archived_at"`
}

// ArchiveRecord snapshots a record for the weekly rollup.
func ArchiveRecord(r *Record, now time.Time) ArchivedItem {
	source := r.Source
	if source == "" {
		source = "Unknown"
	}
	return ArchivedItem{
		Title:           r.Title,
		URL:             r.URL,
		Source:          source,
		PublishedAt:     r.PublishedAt,
		ImportanceScore: r.ImportanceScore,
		Description:     r.Description,
		Category:        r.Category,
		ArchivedAt:      now,
	}
}
