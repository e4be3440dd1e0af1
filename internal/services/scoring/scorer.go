package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/ternarybob/herald/internal/models"
)

// Score computes the importance score for a record against a compiled
// ruleset. The record's attributes are updated with the matched journalist,
// source entry, keywords, and sector for downstream audit and display; the
// score itself is returned and not written back (ScoreBatch does that).
//
// Signal model (additive):
//   - base 0.5
//   - high / medium / industry keyword lists: list weight added once on any match
//   - topic keywords: matched weights summed, capped at the topic cap
//   - journalist / source / report-source entries: best single match wins
//   - pre-scoring priority hint: high bonus or low penalty
//   - per-source reputation adjustment
//
// The result is clamped to [0, 1] and rounded to two decimals. A record with
// empty title and description scores base plus the priority and reputation
// adjustments only.
func Score(record *models.Record, rules *CompiledRuleset) float64 {
	score := BaseScore

	text := strings.ToLower(record.Title + " " + record.Description)
	var matchedKeywords []string

	if kw, ok := rules.high.Match(text); ok {
		score += rules.keywords.HighWeight
		matchedKeywords = append(matchedKeywords, kw)
	}

	if kw, ok := rules.medium.Match(text); ok {
		score += rules.keywords.MediumWeight
		matchedKeywords = append(matchedKeywords, kw)
	}

	if kw, ok := rules.industry.Match(text); ok {
		score += rules.keywords.IndustryWeight
		matchedKeywords = append(matchedKeywords, kw)
	}

	// Topic keywords stack, bounded by the cap so a keyword-stuffed title
	// cannot run the score away.
	topicSum := 0.0
	for _, topic := range rules.topics {
		if strings.Contains(text, topic.keyword) {
			topicSum += topic.weight
			matchedKeywords = append(matchedKeywords, topic.keyword)
		}
	}
	if topicSum > rules.topicCap {
		topicSum = rules.topicCap
	}
	score += topicSum

	// Priority entities record their identity even when the weight is zero.
	if entry, ok := bestMatch(rules.journalists, text); ok {
		score += entry.weight
		record.Attributes.Journalist = entry.name
	}

	sourceText := strings.ToLower(record.Source)
	if entry, ok := bestMatch(rules.sources, sourceText); ok {
		score += entry.weight
		record.Attributes.MatchedSource = entry.name
	}

	if record.Category == models.CategoryReport {
		if entry, ok := bestMatch(rules.reportSources, sourceText); ok {
			score += entry.weight
			if record.Attributes.MatchedSource == "" {
				record.Attributes.MatchedSource = entry.name
			}
		}
	}

	// Earlier-stage priority hints nudge the score without dominating it.
	switch record.Priority {
	case models.PriorityHigh:
		score += rules.priority.HighBonus
	case models.PriorityLow:
		score += rules.priority.LowPenalty
	}

	if adj, ok := rules.reputation[sourceText]; ok {
		score += adj
	}

	if len(matchedKeywords) > 0 {
		record.Attributes.MatchedKeywords = matchedKeywords
	}

	if sector, ok := detectSector(rules, text); ok {
		record.Attributes.Sector = sector
	}

	return roundScore(clampScore(score))
}

// Classify maps a final score to its priority tier.
func Classify(score float64, rules *CompiledRuleset) models.Priority {
	if score >= rules.thresholds.High {
		return models.PriorityHigh
	}
	if score >= rules.thresholds.Medium {
		return models.PriorityMedium
	}
	return models.PriorityLow
}

// ScoreBatch scores records in place, preserving order. Each record's
// importance score and priority are updated.
func ScoreBatch(records []*models.Record, rules *CompiledRuleset) []*models.Record {
	for _, record := range records {
		record.ImportanceScore = Score(record, rules)
		record.Priority = Classify(record.ImportanceScore, rules)
	}
	return records
}

// FilterByImportance scores a batch, drops records below minScore, and
// returns the survivors sorted by score descending (stable for ties).
func FilterByImportance(records []*models.Record, rules *CompiledRuleset, minScore float64) []*models.Record {
	scored := ScoreBatch(records, rules)

	filtered := make([]*models.Record, 0, len(scored))
	for _, record := range scored {
		if record.ImportanceScore >= minScore {
			filtered = append(filtered, record)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].ImportanceScore > filtered[j].ImportanceScore
	})

	return filtered
}

func detectSector(rules *CompiledRuleset, text string) (string, bool) {
	for _, sector := range rules.sectors {
		if _, ok := sector.matcher.Match(text); ok {
			return sector.name, true
		}
	}
	return "", false
}

func clampScore(score float64) float64 {
	return math.Max(0.0, math.Min(1.0, score))
}

func roundScore(score float64) float64 {
	return math.Round(score*100) / 100
}
