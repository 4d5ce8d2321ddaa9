package config

import (
	"sort"

	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/arthur-debert/codeguard/pkg/rules"
	"github.com/arthur-debert/codeguard/pkg/types"
)

// mergeRules layers project rules, categories and overrides on the
// built-in rules.
func mergeRules(cfg *Config) ([]rules.PatternRule, error) {
	merged := rules.Defaults()
	index := make(map[string]int, len(merged))
	for i, r := range merged {
		index[r.ID] = i
	}

	for _, r := range cfg.Rules {
		if r.ID == "" {
			return nil, errors.New(errors.ErrConfigValid, "every [[rules]] entry needs an id")
		}
		pr := r.PatternRule()
		sev, err := types.ParseSeverity(r.Severity)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid, "rule %q", r.ID).WithDetail("rule", r.ID)
		}
		pr.Severity = sev

		if i, ok := index[r.ID]; ok {
			merged[i] = pr
			continue
		}
		index[r.ID] = len(merged)
		merged = append(merged, pr)
	}

	for _, name := range sortedKeys(cfg.Categories) {
		for i := range merged {
			if merged[i].Category != name {
				continue
			}
			if err := applyOverride(&merged[i], cfg.Categories[name]); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigValid, "category %q", name).WithDetail("category", name)
			}
		}
	}

	for _, id := range sortedKeys(cfg.Overrides) {
		i, ok := index[id]
		if !ok {
			return nil, errors.Newf(errors.ErrConfigValid, "override for unknown rule %q", id).WithDetail("rule", id)
		}
		if err := applyOverride(&merged[i], cfg.Overrides[id]); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid, "override %q", id).WithDetail("rule", id)
		}
	}

	return merged, nil
}

func applyOverride(rule *rules.PatternRule, o Override) error {
	if o.Severity != "" {
		sev, err := types.ParseSeverity(o.Severity)
		if err != nil {
			return err
		}
		rule.Severity = sev
	}
	if o.Enabled != nil {
		rule.Enabled = *o.Enabled
	}
	return nil
}

func sortedKeys(m map[string]Override) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
