package scoring

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRulesetMissingFileYieldsDefaults(t *testing.T) {
	rules, err := LoadRuleset(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadRuleset() error = %v, want nil for missing file", err)
	}
	if rules.Keywords.HighWeight != DefaultHighKeywordWeight {
		t.Errorf("HighWeight = %v, want default %v", rules.Keywords.HighWeight, DefaultHighKeywordWeight)
	}
	if len(rules.Keywords.High) != 0 {
		t.Errorf("High keywords = %v, want empty", rules.Keywords.High)
	}
}

func TestLoadRulesetParsesFile(t *testing.T) {
	content := `
[keywords]
high = ["기준금리", "FOMC"]
high_weight = 0.15
medium = ["전망"]
medium_weight = 0.08

[topics]
cap = 0.30

[[topics.entries]]
keyword = "커버드콜"
weight = 0.15

[[journalists]]
name = "김기자"
weight = 0.05

[thresholds]
high = 0.75
medium = 0.55

[reputation]
"Reuters" = 0.02
`
	path := filepath.Join(t.TempDir(), "rules.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRuleset(path)
	if err != nil {
		t.Fatalf("LoadRuleset() error = %v", err)
	}

	if len(rules.Keywords.High) != 2 {
		t.Errorf("High keywords = %v, want 2 entries", rules.Keywords.High)
	}
	if len(rules.Topics.Entries) != 1 || rules.Topics.Entries[0].Keyword != "커버드콜" {
		t.Errorf("Topics = %+v, want one 커버드콜 entry", rules.Topics.Entries)
	}
	if len(rules.Journalists) != 1 {
		t.Errorf("Journalists = %+v, want 1 entry", rules.Journalists)
	}
	if rules.Thresholds.High != 0.75 {
		t.Errorf("Thresholds.High = %v, want 0.75", rules.Thresholds.High)
	}
	if rules.Reputation["Reuters"] != 0.02 {
		t.Errorf("Reputation = %v, want Reuters 0.02", rules.Reputation)
	}

	// Sections absent from the file keep defaults rather than zeroing out.
	if rules.Priority.HighBonus != DefaultHighPriorityBonus {
		t.Errorf("Priority.HighBonus = %v, want default", rules.Priority.HighBonus)
	}
}

func TestLoadRulesetMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.toml")
	if err := os.WriteFile(path, []byte("[keywords\nbroken"), 0644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRuleset(path)
	if err == nil {
		t.Fatal("LoadRuleset() error = nil, want parse error")
	}
	// Fallback is still usable.
	if rules.Thresholds.High != DefaultHighThreshold {
		t.Errorf("fallback Thresholds.High = %v, want default", rules.Thresholds.High)
	}
}

func TestCompileMissingSectionsNeverMatch(t *testing.T) {
	compiled := Compile(Ruleset{})

	if _, ok := compiled.high.Match("기준금리 인상"); ok {
		t.Error("empty high matcher matched text")
	}
	if _, ok := bestMatch(compiled.journalists, "김기자"); ok {
		t.Error("empty journalist entries matched text")
	}
	// Zero-valued thresholds fall back to defaults so Classify still tiers.
	if compiled.thresholds.High != DefaultHighThreshold {
		t.Errorf("thresholds.High = %v, want default", compiled.thresholds.High)
	}
}

func TestCompileDropsBlankKeywords(t *testing.T) {
	m := newKeywordMatcher([]string{" ", "", "  FOMC  "})
	if len(m.keywords) != 1 {
		t.Fatalf("keywords = %v, want only FOMC", m.keywords)
	}
	if _, ok := m.Match("fomc 회의"); !ok {
		t.Error("trimmed keyword did not match")
	}
}
