package config

import (
	"bytes"

	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Encode renders the effective configuration, rules included, as toml or yaml
func Encode(cfg *Config, format string) ([]byte, error) {
	effective := *cfg
	effective.Rules = make([]Rule, 0, len(cfg.resolved))
	for _, r := range cfg.resolved {
		effective.Rules = append(effective.Rules, FromPatternRule(r))
	}
	// Overrides and categories are already folded into the rules.
	effective.Overrides = nil
	effective.Categories = nil

	switch format {
	case "toml", "":
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(effective); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration as toml")
		}
		return buf.Bytes(), nil
	case "yaml":
		data, err := yaml.Marshal(effective)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration as yaml")
		}
		return data, nil
	}
	return nil, errors.Newf(errors.ErrInvalidInput, "unknown config format %q (want toml or yaml)", format)
}
