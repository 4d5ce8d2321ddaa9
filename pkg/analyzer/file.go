package analyzer

import (
	"fmt"

	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/arthur-debert/codeguard/pkg/rules"
	"github.com/arthur-debert/codeguard/pkg/types"
	"github.com/arthur-debert/codeguard/pkg/unit"
)

// fileResult is the complete outcome for one file
type fileResult struct {
	path     string
	result   rules.Result
	cacheHit bool
	skipped  bool
}

// analyzeFile never fails: read errors become a diagnostic for the file
func (a *Analyzer) analyzeFile(path string) fileResult {
	content, err := a.fs.ReadFile(path)
	if err != nil {
		readErr := errors.Wrapf(err, errors.ErrFileRead, "failed to read %s", path)
		a.logger.Warn().Err(readErr).Str("path", path).Msg("Skipping unreadable file")
		return fileResult{
			path:    path,
			skipped: true,
			result: rules.Result{Violations: []types.Violation{{
				RuleID:   types.DiagnosticFileRead,
				Severity: types.SeverityWarning,
				Path:     path,
				Message:  fmt.Sprintf("file could not be read: %v", err),
			}}},
		}
	}

	hash := unit.HashContent(content)
	fingerprint := a.engine.Fingerprint()

	if a.cache != nil {
		if res, ok := a.cache.Lookup(path, hash, fingerprint); ok {
			a.logger.Trace().Str("path", path).Msg("Cache hit")
			return fileResult{path: path, result: res, cacheHit: true}
		}
	}

	res := a.engine.Evaluate(unit.New(path, content, hash))
	if a.cache != nil {
		a.cache.Store(path, hash, fingerprint, res)
	}
	return fileResult{path: path, result: res}
}
