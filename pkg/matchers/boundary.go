package matchers

import (
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/arthur-debert/codeguard/pkg/unit"
)

// AnyModule is the boundary key applying to every module under the source root
const AnyModule = "*"

type boundary struct {
	module    string
	forbidden []string
}

// ImportBoundary flags imports that cross a forbidden module prefix
type ImportBoundary struct {
	base  string
	table []boundary
}

// NewImportBoundary builds the matcher from a table of logical module prefix
// to forbidden import prefixes. Module prefixes are relative to sourceRoot,
// which is itself relative to projectRoot. An empty projectRoot means the
// working directory.
func NewImportBoundary(projectRoot, sourceRoot string, table map[string][]string) (*ImportBoundary, error) {
	if len(table) == 0 {
		return nil, errors.New(errors.ErrPatternCompile, "import boundary table is empty")
	}

	base, err := filepath.Abs(filepath.Join(projectRoot, filepath.FromSlash(cleanPrefix(sourceRoot))))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPathResolve, "cannot resolve source root %q", sourceRoot)
	}

	b := &ImportBoundary{base: base}
	for module, forbidden := range table {
		entry := boundary{module: cleanPrefix(module)}
		if module == AnyModule {
			entry.module = AnyModule
		}
		for _, prefix := range forbidden {
			if p := cleanPrefix(prefix); p != "" {
				entry.forbidden = append(entry.forbidden, p)
			}
		}
		if len(entry.forbidden) == 0 {
			return nil, errors.Newf(errors.ErrPatternCompile, "module %q has no forbidden import prefixes", module)
		}
		b.table = append(b.table, entry)
	}
	sort.Slice(b.table, func(i, j int) bool {
		return b.table[i].module < b.table[j].module
	})
	return b, nil
}

func newBoundaryFromSpec(spec Spec) (Matcher, error) {
	return NewImportBoundary(spec.ProjectRoot, spec.SourceRoot, spec.Boundaries)
}

// NeedsStructure is true: imports come from the structural tree
func (b *ImportBoundary) NeedsStructure() bool { return true }

// Match reports each import crossing a forbidden prefix for the file's module
func (b *ImportBoundary) Match(u *unit.FileUnit) ([]Match, error) {
	module, ok := b.ModuleOf(u.Path)
	if !ok || !u.HasStructure() {
		return nil, nil
	}
	tree, err := u.Structure()
	if err != nil {
		return nil, err
	}

	var out []Match
	for _, imp := range tree.Imports() {
		target := imp.Attr("path")
		if key, prefix, hit := b.forbiddenFor(module, target); hit {
			out = append(out, Match{
				Line:   imp.Span.Line,
				Column: imp.Span.Column,
				Text:   target,
				Attrs: map[string]string{
					"import":    target,
					"module":    module,
					"boundary":  key,
					"forbidden": prefix,
				},
				TestOnly:    imp.TestOnly,
				Annotations: imp.Annotations,
			})
		}
	}
	return out, nil
}

// ModuleOf returns the logical module of a file: its directory relative to
// the source root. Files outside the source root have no module.
func (b *ImportBoundary) ModuleOf(filePath string) (string, bool) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(b.base, abs)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}

	dir := path.Dir(rel)
	if dir == "." {
		return "", true
	}
	return dir, true
}

func (b *ImportBoundary) forbiddenFor(module, target string) (string, string, bool) {
	for _, entry := range b.table {
		if entry.module != AnyModule && !underPrefix(module, entry.module) {
			continue
		}
		for _, prefix := range entry.forbidden {
			if underPrefix(target, prefix) {
				return entry.module, prefix, true
			}
		}
	}
	return "", "", false
}

// underPrefix reports whether p equals prefix or lies below it on a
// segment boundary.
func underPrefix(p, prefix string) bool {
	if prefix == "" {
		return true
	}
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

func cleanPrefix(p string) string {
	p = strings.TrimSpace(filepath.ToSlash(p))
	p = strings.Trim(p, "/")
	if p == "." {
		return ""
	}
	return p
}
