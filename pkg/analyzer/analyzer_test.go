// pkg/analyzer/analyzer_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Memory filesystem, rules engine, cache
// PURPOSE: Test parallel orchestration, determinism and stop conditions

package analyzer_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/arthur-debert/codeguard/pkg/analyzer"
	"github.com/arthur-debert/codeguard/pkg/cache"
	"github.com/arthur-debert/codeguard/pkg/filesystem"
	"github.com/arthur-debert/codeguard/pkg/rules"
	"github.com/arthur-debert/codeguard/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *rules.Engine {
	t.Helper()
	engine, err := rules.Compile(rules.Defaults())
	require.NoError(t, err)
	return engine
}

// writeTree creates n Go files, every third one carrying markers
func writeTree(t *testing.T, fs types.FS, n int) []string {
	t.Helper()
	require.NoError(t, fs.MkdirAll("/src/pkg", 0755))
	var files []string
	for i := 0; i < n; i++ {
		path := fmt.Sprintf("/src/pkg/file%03d.go", i)
		src := fmt.Sprintf("package pkg\n\nfunc F%d() int {\n\treturn %d\n}\n", i, i)
		switch i % 3 {
		case 0:
			src = fmt.Sprintf("package pkg\n\n// TODO: finish %d\n// HACK: temporary\nfunc F%d() error {\n\treturn nil\n}\n", i, i)
		case 1:
			src = fmt.Sprintf("package pkg\n\n// HACK: temporary %d\nfunc F%d() int {\n\treturn %d\n}\n", i, i, i)
		}
		require.NoError(t, fs.WriteFile(path, []byte(src), 0644))
		files = append(files, path)
	}
	return files
}

func marshal(t *testing.T, r *types.Report) string {
	t.Helper()
	data, err := json.Marshal(r)
	require.NoError(t, err)
	return string(data)
}

func TestRun_DeterministicAcrossWorkers(t *testing.T) {
	fs := filesystem.NewMemory()
	files := writeTree(t, fs, 100)
	engine := newEngine(t)

	one, err := analyzer.New(fs, engine).Run(context.Background(), files, analyzer.Options{Parallel: true, Workers: 1})
	require.NoError(t, err)

	// Shuffled input must not change the outcome.
	reversed := make([]string, len(files))
	for i, f := range files {
		reversed[len(files)-1-i] = f
	}
	eight, err := analyzer.New(fs, engine).Run(context.Background(), reversed, analyzer.Options{Parallel: true, Workers: 8})
	require.NoError(t, err)

	inline, err := analyzer.New(fs, engine).Run(context.Background(), files, analyzer.Options{Parallel: false})
	require.NoError(t, err)

	assert.Equal(t, 100, one.FilesAnalyzed)
	assert.Equal(t, one.Counts, eight.Counts)
	assert.Equal(t, one.Violations, eight.Violations)
	assert.Equal(t, marshal(t, one), marshal(t, inline))

	// 34 files with TODO + success-only return, 67 with HACK
	assert.Equal(t, 68, one.Counts.Error)
	assert.Equal(t, 67, one.Counts.Warning)
}

func TestRun_Idempotent(t *testing.T) {
	fs := filesystem.NewMemory()
	files := writeTree(t, fs, 20)
	a := analyzer.New(fs, newEngine(t))

	first, err := a.Run(context.Background(), files, analyzer.DefaultOptions())
	require.NoError(t, err)
	second, err := a.Run(context.Background(), files, analyzer.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, marshal(t, first), marshal(t, second))
}

func TestRun_CacheMatchesFullEvaluation(t *testing.T) {
	fs := filesystem.NewMemory()
	files := writeTree(t, fs, 30)
	engine := newEngine(t)
	c := cache.New(0)
	a := analyzer.New(fs, engine, analyzer.WithCache(c))

	cold, err := a.Run(context.Background(), files, analyzer.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, cold.CacheHits)

	warm, err := a.Run(context.Background(), files, analyzer.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 30, warm.CacheHits)
	assert.Equal(t, cold.Violations, warm.Violations)

	// Editing one file invalidates only that entry.
	require.NoError(t, fs.WriteFile(files[0], []byte("package pkg\n"), 0644))
	edited, err := a.Run(context.Background(), files, analyzer.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 29, edited.CacheHits)

	fresh, err := analyzer.New(fs, engine).Run(context.Background(), files, analyzer.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, fresh.Violations, edited.Violations)
}

func TestRun_SeverityChangeForcesReevaluation(t *testing.T) {
	fs := filesystem.NewMemory()
	files := writeTree(t, fs, 10)
	c := cache.New(0)

	_, err := analyzer.New(fs, newEngine(t), analyzer.WithCache(c)).Run(context.Background(), files, analyzer.DefaultOptions())
	require.NoError(t, err)

	changed := rules.Defaults()
	for i := range changed {
		if changed[i].ID == "temporary_markers" {
			changed[i].Severity = types.SeverityInfo
		}
	}
	engine, err := rules.Compile(changed)
	require.NoError(t, err)

	report, err := analyzer.New(fs, engine, analyzer.WithCache(c)).Run(context.Background(), files, analyzer.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, report.CacheHits)
	assert.Equal(t, 0, report.Counts.Warning)
	assert.Positive(t, report.Counts.Info)
}

func TestRun_FailFast(t *testing.T) {
	fs := filesystem.NewMemory()
	files := writeTree(t, fs, 30)

	report, err := analyzer.New(fs, newEngine(t)).Run(context.Background(), files, analyzer.Options{FailFast: true})
	require.NoError(t, err)

	assert.True(t, report.Aborted)
	assert.True(t, report.HasBlocking())
	// Inline evaluation stops right after the first file with an error.
	assert.Equal(t, 1, report.FilesAnalyzed)

	parallel, err := analyzer.New(fs, newEngine(t)).Run(context.Background(), files, analyzer.Options{Parallel: true, Workers: 4, FailFast: true})
	require.NoError(t, err)
	assert.True(t, parallel.Aborted)
	assert.Less(t, parallel.FilesAnalyzed, 30)
}

func TestRun_MaxViolations(t *testing.T) {
	fs := filesystem.NewMemory()
	files := writeTree(t, fs, 30)

	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers_%d", workers), func(t *testing.T) {
			report, err := analyzer.New(fs, newEngine(t)).Run(context.Background(), files,
				analyzer.Options{Parallel: true, Workers: workers, MaxViolations: 5})
			require.NoError(t, err)

			assert.True(t, report.Truncated)
			assert.GreaterOrEqual(t, len(report.Violations), 5)
			// The file crossing the cap is kept whole; nothing after it is listed.
			assert.LessOrEqual(t, len(report.Violations), 4+3)
			assert.Equal(t, len(report.Violations), report.Counts.Total())
			assert.Less(t, report.FilesAnalyzed, 30)
			assert.True(t, report.HasBlocking())
			assertWholeFiles(t, report)
		})
	}
}

func TestRun_MaxViolationsKeepsFirstFileWhole(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll("/src", 0755))
	require.NoError(t, fs.WriteFile("/src/a.go", []byte("package a\n\n// TODO: one\n// TODO: two\n// TODO: three\n"), 0644))
	require.NoError(t, fs.WriteFile("/src/b.go", []byte("package a\n\n// TODO: four\n"), 0644))

	report, err := analyzer.New(fs, newEngine(t)).Run(context.Background(),
		[]string{"/src/a.go", "/src/b.go"}, analyzer.Options{MaxViolations: 2})
	require.NoError(t, err)

	assert.True(t, report.Truncated)
	assert.Equal(t, 1, report.FilesAnalyzed)
	assert.Equal(t, []string{"/src/a.go"}, report.Files)
	assert.Equal(t, 3, report.Counts.Error)
	assert.True(t, report.HasBlocking())
}

// assertWholeFiles checks that each reported file carries its full set
func assertWholeFiles(t *testing.T, report *types.Report) {
	t.Helper()
	_, groups := report.ByPath()
	for path, vs := range groups {
		var want int
		fmt.Sscanf(path, "/src/pkg/file%03d.go", &want)
		switch want % 3 {
		case 0:
			assert.Len(t, vs, 3, path)
		case 1:
			assert.Len(t, vs, 1, path)
		}
	}
}

func TestRun_UnreadableFile(t *testing.T) {
	fs := filesystem.NewMemory()
	files := writeTree(t, fs, 3)
	require.NoError(t, fs.MkdirAll("/src/pkg/dir.go", 0755))
	files = append(files, "/src/pkg/dir.go", "/src/pkg/missing.go")

	report, err := analyzer.New(fs, newEngine(t)).Run(context.Background(), files, analyzer.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"/src/pkg/dir.go", "/src/pkg/missing.go"}, report.Skipped)
	assert.Equal(t, 5, report.FilesAnalyzed)

	var diagnostics []string
	for _, v := range report.Violations {
		if v.RuleID == types.DiagnosticFileRead {
			assert.Equal(t, types.SeverityWarning, v.Severity)
			diagnostics = append(diagnostics, v.Path)
		}
	}
	assert.Equal(t, []string{"/src/pkg/dir.go", "/src/pkg/missing.go"}, diagnostics)
}

func TestRun_PartialAnalysisListed(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll("/src", 0755))
	require.NoError(t, fs.WriteFile("/src/broken.go", []byte("package a\n\n// TODO: x\nfunc {\n"), 0644))

	report, err := analyzer.New(fs, newEngine(t)).Run(context.Background(), []string{"/src/broken.go"}, analyzer.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"/src/broken.go"}, report.Partial)
	ids := make([]string, 0, len(report.Violations))
	for _, v := range report.Violations {
		ids = append(ids, v.RuleID)
	}
	assert.Contains(t, ids, "todo_comments")
	assert.Contains(t, ids, types.DiagnosticPartialAnalysis)
}

func TestRun_Cancelled(t *testing.T) {
	fs := filesystem.NewMemory()
	files := writeTree(t, fs, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := analyzer.New(fs, newEngine(t)).Run(ctx, files, analyzer.DefaultOptions())
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Equal(t, 0, report.FilesAnalyzed)
}

func TestWorkers(t *testing.T) {
	assert.Equal(t, 1, analyzer.Workers(analyzer.Options{Parallel: false, Workers: 8}))
	assert.Equal(t, 3, analyzer.Workers(analyzer.Options{Parallel: true, Workers: 3}))
	assert.Positive(t, analyzer.Workers(analyzer.DefaultOptions()))
}
