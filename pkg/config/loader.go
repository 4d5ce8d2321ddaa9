package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/arthur-debert/codeguard/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides, e.g. CODEGUARD_ANALYSIS_WORKERS
const EnvPrefix = "CODEGUARD_"

// ProjectFiles are the project configuration file names, in lookup order.
// Only the first one found is loaded.
var ProjectFiles = []string{".codeguard.toml", "codeguard.toml", ".codeguard.yaml", ".codeguard.yml"}

// LoadOptions adjust configuration loading
type LoadOptions struct {
	// File loads this file instead of looking up ProjectFiles.
	File string
	// SkipEnv ignores CODEGUARD_* variables.
	SkipEnv bool
}

// Load reads the configuration for the project rooted at root
func Load(root string, opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")

	base, err := parseBytes(defaultConfig, toml.Parser())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse embedded defaults")
	}

	cfg := &Config{Root: root}

	path := opts.File
	if path == "" {
		path = findProjectFile(root)
	} else if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", path).
			WithDetail("file", path)
	}
	if path != "" {
		project, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		mergeMaps(base, project)
		cfg.Sources = append(cfg.Sources, path)
		logger.Debug().Str("file", path).Msg("Loaded project configuration")
	}

	if !opts.SkipEnv {
		tempK := koanf.New(".")
		err := tempK.Load(env.Provider(EnvPrefix, ".", envKey), nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
		}
		if vars := tempK.Raw(); len(vars) > 0 {
			overrideMaps(base, vars)
			cfg.Sources = append(cfg.Sources, "env")
		}
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(base, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load merged config")
	}

	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}

	resolved, err := mergeRules(cfg)
	if err != nil {
		return nil, err
	}
	cfg.resolved = resolved

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	logger.Debug().
		Strs("sources", cfg.Sources).
		Int("rules", len(cfg.resolved)).
		Int("patterns", len(cfg.Paths.Patterns)).
		Msg("Configuration loaded")
	return cfg, nil
}

// Default returns the configuration without project file or environment
func Default() (*Config, error) {
	return Load("", LoadOptions{SkipEnv: true})
}

func findProjectFile(root string) string {
	if root == "" {
		return ""
	}
	for _, name := range ProjectFiles {
		path := filepath.Join(root, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func loadFile(path string) (map[string]interface{}, error) {
	var parser koanf.Parser = toml.Parser()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		code := errors.ErrConfigParse
		if _, statErr := os.Stat(path); statErr != nil {
			code = errors.ErrConfigLoad
		}
		return nil, errors.Wrapf(err, code, "failed to load config from %s", path).WithDetail("file", path)
	}
	return k.Raw(), nil
}

func parseBytes(data []byte, parser koanf.Parser) (map[string]interface{}, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: data}, parser); err != nil {
		return nil, err
	}
	return k.Raw(), nil
}

// envKey maps CODEGUARD_ANALYSIS_MAX_VIOLATIONS to analysis.max_violations.
// Only the first underscore separates the section from the key.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

// mergeMaps merges src into dest. Nested maps merge, lists append so that
// project patterns follow the defaults, other values overwrite.
func mergeMaps(dest, src map[string]interface{}) {
	for key, srcVal := range src {
		destVal, destOk := dest[key]
		if !destOk {
			dest[key] = srcVal
			continue
		}

		if srcMap, srcOk := srcVal.(map[string]interface{}); srcOk {
			if destMap, destOk := destVal.(map[string]interface{}); destOk {
				mergeMaps(destMap, srcMap)
				continue
			}
		}

		if isSlice(srcVal) && isSlice(destVal) {
			dest[key] = appendSlices(destVal, srcVal)
			continue
		}

		dest[key] = srcVal
	}
}

// overrideMaps merges src into dest replacing lists instead of appending
func overrideMaps(dest, src map[string]interface{}) {
	for key, srcVal := range src {
		if srcMap, ok := srcVal.(map[string]interface{}); ok {
			if destMap, ok := dest[key].(map[string]interface{}); ok {
				overrideMaps(destMap, srcMap)
				continue
			}
		}
		dest[key] = srcVal
	}
}

func isSlice(v interface{}) bool {
	switch v.(type) {
	case []interface{}, []string:
		return true
	default:
		return false
	}
}

func appendSlices(dest, src interface{}) interface{} {
	return append(toInterfaceSlice(dest), toInterfaceSlice(src)...)
}

func toInterfaceSlice(v interface{}) []interface{} {
	switch s := v.(type) {
	case []interface{}:
		return append([]interface{}(nil), s...)
	case []string:
		result := make([]interface{}, len(s))
		for i, v := range s {
			result[i] = v
		}
		return result
	default:
		return []interface{}{}
	}
}
