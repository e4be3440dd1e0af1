// Package scoring provides pure calculation functions for content relevance
// scoring. Ruleset compilation is amortized at configuration-load time; the
// per-record scoring path performs no parsing and no I/O.
package scoring

// Default signal weights, carried from the operational ruleset history.
const (
	// BaseScore is the starting score for every record.
	BaseScore = 0.5

	DefaultHighKeywordWeight   = 0.15
	DefaultMediumKeywordWeight = 0.08
	DefaultIndustryWeight      = 0.20
	DefaultTopicCap            = 0.30

	DefaultHighPriorityBonus  = 0.10
	DefaultLowPriorityPenalty = -0.10
)

// Classification thresholds
const (
	DefaultHighThreshold   = 0.7
	DefaultMediumThreshold = 0.5
)

// WeightedEntry is a priority entity (journalist, analyst, source) with the
// bonus it contributes. Among matched entries the single highest weight wins;
// ties break by declaration order.
type WeightedEntry struct {
	Name   string  `toml:"name"`
	Weight float64 `toml:"weight"`
}

// TopicEntry is a preferred-topic keyword. Unlike the other keyword
// categories, matched topic weights are summed, capped at TopicRules.Cap.
type TopicEntry struct {
	Keyword string  `toml:"keyword"`
	Weight  float64 `toml:"weight"`
}

// KeywordRules holds the flat keyword lists. A record matching any keyword in
// a list earns that list's weight exactly once.
type KeywordRules struct {
	High           []string `toml:"high"`
	HighWeight     float64  `toml:"high_weight"`
	Medium         []string `toml:"medium"`
	MediumWeight   float64  `toml:"medium_weight"`
	Industry       []string `toml:"industry"`
	IndustryWeight float64  `toml:"industry_weight"`
}

// TopicRules holds the capped-sum topic keyword category.
type TopicRules struct {
	Cap     float64      `toml:"cap"`
	Entries []TopicEntry `toml:"entries"`
}

// PriorityRules adjusts the score from the record's pre-scoring priority
// hint, letting earlier-stage hints influence but not dominate the result.
type PriorityRules struct {
	HighBonus  float64 `toml:"high_bonus"`
	LowPenalty float64 `toml:"low_penalty"`
}

// Thresholds map a final score to a priority tier.
type Thresholds struct {
	High   float64 `toml:"high"`
	Medium float64 `toml:"medium"`
}

// Ruleset is the externally configured rule data consumed by the scorer.
// Missing sections contribute zero; they never fail compilation.
type Ruleset struct {
	Keywords      KeywordRules        `toml:"keywords"`
	Topics        TopicRules          `toml:"topics"`
	Journalists   []WeightedEntry     `toml:"journalists"`
	Sources       []WeightedEntry     `toml:"sources"`
	ReportSources []WeightedEntry     `toml:"report_sources"`
	Priority      PriorityRules       `toml:"priority"`
	Thresholds    Thresholds          `toml:"thresholds"`
	Reputation    map[string]float64  `toml:"reputation"`
	Sectors       map[string][]string `toml:"sectors"`
}

// DefaultRuleset returns a ruleset with the default weights and thresholds
// and no keyword data.
func DefaultRuleset() Ruleset {
	return Ruleset{
		Keywords: KeywordRules{
			HighWeight:     DefaultHighKeywordWeight,
			MediumWeight:   DefaultMediumKeywordWeight,
			IndustryWeight: DefaultIndustryWeight,
		},
		Topics: TopicRules{Cap: DefaultTopicCap},
		Priority: PriorityRules{
			HighBonus:  DefaultHighPriorityBonus,
			LowPenalty: DefaultLowPriorityPenalty,
		},
		Thresholds: Thresholds{
			High:   DefaultHighThreshold,
			Medium: DefaultMediumThreshold,
		},
	}
}
