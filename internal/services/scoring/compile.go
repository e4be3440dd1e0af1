package scoring

import (
	"sort"
	"strings"
)

// keywordMatcher is a compiled, case-folded keyword list. Building one
// lowercases every keyword exactly once so the per-record match is a plain
// substring scan.
type keywordMatcher struct {
	keywords []string // lowercased, empties dropped
}

func newKeywordMatcher(list []string) *keywordMatcher {
	m := &keywordMatcher{keywords: make([]string, 0, len(list))}
	for _, kw := range list {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			m.keywords = append(m.keywords, kw)
		}
	}
	return m
}

// Match returns the first keyword contained in text. Text must already be
// lowercased by the caller.
func (m *keywordMatcher) Match(text string) (string, bool) {
	for _, kw := range m.keywords {
		if strings.Contains(text, kw) {
			return kw, true
		}
	}
	return "", false
}

// MatchAll returns every keyword contained in text, in list order.
func (m *keywordMatcher) MatchAll(text string) []string {
	var matched []string
	for _, kw := range m.keywords {
		if strings.Contains(text, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// compiledTopic pairs a lowercased topic keyword with its weight.
type compiledTopic struct {
	keyword string
	weight  float64
}

// compiledEntry pairs a priority entity with its lowercased match form.
type compiledEntry struct {
	name   string // original form, written into record attributes
	folded string
	weight float64
}

// compiledSector is one sector tag with its compiled keyword matcher.
type compiledSector struct {
	name    string
	matcher *keywordMatcher
}

// CompiledRuleset is a Ruleset with every keyword list compiled into a
// matcher. Construct one per configuration load and pass it explicitly into
// Score/ScoreBatch; per-record scoring never re-parses rule data.
type CompiledRuleset struct {
	high     *keywordMatcher
	medium   *keywordMatcher
	industry *keywordMatcher

	topicCap float64
	topics   []compiledTopic

	journalists   []compiledEntry
	sources       []compiledEntry
	reportSources []compiledEntry

	sectors []compiledSector // sorted by name for deterministic detection

	keywords   KeywordRules
	priority   PriorityRules
	thresholds Thresholds
	reputation map[string]float64 // keys lowercased
}

// Compile builds the compiled form of a ruleset. Empty or missing sections
// compile to matchers that never match.
func Compile(rules Ruleset) *CompiledRuleset {
	cr := &CompiledRuleset{
		high:       newKeywordMatcher(rules.Keywords.High),
		medium:     newKeywordMatcher(rules.Keywords.Medium),
		industry:   newKeywordMatcher(rules.Keywords.Industry),
		topicCap:   rules.Topics.Cap,
		keywords:   rules.Keywords,
		priority:   rules.Priority,
		thresholds: rules.Thresholds,
		reputation: make(map[string]float64, len(rules.Reputation)),
	}

	// Thresholds of zero would classify everything as high; fall back to
	// defaults so a ruleset without a thresholds section still classifies.
	if cr.thresholds.High == 0 {
		cr.thresholds.High = DefaultHighThreshold
	}
	if cr.thresholds.Medium == 0 {
		cr.thresholds.Medium = DefaultMediumThreshold
	}
	if cr.topicCap == 0 {
		cr.topicCap = DefaultTopicCap
	}

	for _, entry := range rules.Topics.Entries {
		kw := strings.ToLower(strings.TrimSpace(entry.Keyword))
		if kw != "" {
			cr.topics = append(cr.topics, compiledTopic{keyword: kw, weight: entry.Weight})
		}
	}

	cr.journalists = compileEntries(rules.Journalists)
	cr.sources = compileEntries(rules.Sources)
	cr.reportSources = compileEntries(rules.ReportSources)

	for name, keywords := range rules.Sectors {
		cr.sectors = append(cr.sectors, compiledSector{
			name:    name,
			matcher: newKeywordMatcher(keywords),
		})
	}
	sort.Slice(cr.sectors, func(i, j int) bool {
		return cr.sectors[i].name < cr.sectors[j].name
	})

	for source, adj := range rules.Reputation {
		cr.reputation[strings.ToLower(strings.TrimSpace(source))] = adj
	}

	return cr
}

func compileEntries(entries []WeightedEntry) []compiledEntry {
	compiled := make([]compiledEntry, 0, len(entries))
	for _, e := range entries {
		folded := strings.ToLower(strings.TrimSpace(e.Name))
		if folded == "" {
			continue
		}
		compiled = append(compiled, compiledEntry{name: e.Name, folded: folded, weight: e.Weight})
	}
	return compiled
}

// bestMatch selects the single highest-weight entry whose folded name is
// contained in text. Ties keep the first-declared entry.
func bestMatch(entries []compiledEntry, text string) (compiledEntry, bool) {
	var best compiledEntry
	found := false
	for _, e := range entries {
		if !strings.Contains(text, e.folded) {
			continue
		}
		if !found || e.weight > best.weight {
			best = e
			found = true
		}
	}
	return best, found
}
