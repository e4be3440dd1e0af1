package scoring

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// LoadRuleset reads a TOML ruleset file. A missing file yields the default
// ruleset (empty keyword data, default weights) without error, so a fresh
// deployment scores everything at base; a malformed file is an error the
// caller logs before falling back to DefaultRuleset.
func LoadRuleset(path string) (Ruleset, error) {
	rules := DefaultRuleset()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return rules, nil
		}
		return rules, fmt.Errorf("failed to read ruleset %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &rules); err != nil {
		return DefaultRuleset(), fmt.Errorf("failed to parse ruleset %s: %w", path, err)
	}

	return rules, nil
}
