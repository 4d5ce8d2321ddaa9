package rules

import (
	"encoding/json"
	"sort"

	"github.com/arthur-debert/codeguard/pkg/internal/hashutil"
	"github.com/arthur-debert/codeguard/pkg/matchers"
)

// fingerprintFormat is bumped when the canonical encoding changes
const fingerprintFormat = "codeguard-rules/1"

type canonicalRule struct {
	PatternRule
	MatcherVersion string `json:"matcher_version"`
}

type canonicalSet struct {
	Format string          `json:"format"`
	Kinds  []string        `json:"kinds"`
	Rules  []canonicalRule `json:"rules"`
}

// fingerprint digests the canonical encoding of the rule set. Rules are
// ordered by id so that reordering alone does not change the digest.
func fingerprint(ruleSet []PatternRule) (string, error) {
	set := canonicalSet{Format: fingerprintFormat}
	for _, kind := range matchers.Kinds() {
		set.Kinds = append(set.Kinds, kind+"@"+matchers.Version(kind))
	}
	for _, rule := range ruleSet {
		rule = cloneRule(rule)
		// Documentation fields never affect results.
		rule.Description, rule.Category = "", ""
		sort.Strings(rule.Exclude.FilePatterns)
		sort.Strings(rule.Exclude.Annotations)
		set.Rules = append(set.Rules, canonicalRule{
			PatternRule:    rule,
			MatcherVersion: matchers.Version(rule.Kind),
		})
	}
	sort.Slice(set.Rules, func(i, j int) bool {
		return set.Rules[i].ID < set.Rules[j].ID
	})

	// encoding/json sorts map keys, so boundary tables encode canonically.
	data, err := json.Marshal(set)
	if err != nil {
		return "", err
	}
	return hashutil.Sum(data), nil
}
