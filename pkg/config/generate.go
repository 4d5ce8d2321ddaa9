package config

import (
	"strings"
)

// exampleRules is appended to generated project files
const exampleRules = `
# Project rules. A rule whose id matches a built-in rule replaces it.
# [[rules]]
# id = "no_debug_print"
# kind = "literal"
# severity = "warning"
# pattern = '\bfmt\.Print(ln|f)?\('
# message = "Debug print left in code"
# [rules.exclude]
# in_tests = true
# file_patterns = ["cmd/**"]

# [[rules]]
# id = "layering"
# kind = "semantic"
# severity = "error"
# source_root = "internal"
# [rules.boundaries]
# api = ["internal/storage"]

# Adjust built-in rules without redefining them.
# [overrides.temporary_markers]
# severity = "error"

# Defaults for every rule in a category.
# [categories.incomplete]
# enabled = false
`

// GenerateConfigContent returns a starter project file: the defaults with
// every value commented out, followed by example rules.
func GenerateConfigContent() string {
	return commentOutConfigValues(DefaultsContent()) + exampleRules
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			result = append(result, line)
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Keep section headers (e.g., [paths], [cache]) as-is
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
