package matchers

import (
	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/arthur-debert/codeguard/pkg/registry"
	"github.com/arthur-debert/codeguard/pkg/unit"
)

// Matcher kinds
const (
	KindLiteral    = "literal"
	KindStructural = "structural"
	KindSemantic   = "semantic"
)

// Match is one raw match location produced by a matcher
type Match struct {
	Line   int
	Column int
	Text   string
	// Attrs holds named values exposed to message templates.
	Attrs map[string]string
	// TestOnly is set when the matched node lives in test code.
	TestOnly bool
	// Annotations are the directive comments of the enclosing function.
	Annotations []string
}

// Matcher produces matches for one file
type Matcher interface {
	Match(u *unit.FileUnit) ([]Match, error)
	// NeedsStructure reports whether the matcher reads the structural tree.
	NeedsStructure() bool
}

// Spec is the kind-specific payload a matcher is built from
type Spec struct {
	Pattern       string
	CaseSensitive bool
	Scope         string
	Engine        string
	SourceRoot    string
	Boundaries    map[string][]string
	// ProjectRoot anchors SourceRoot; empty means the working directory.
	ProjectRoot string
}

// Factory builds a matcher from its payload
type Factory func(spec Spec) (Matcher, error)

// Kind describes a registered matcher kind
type Kind struct {
	Version string
	New     Factory
}

var kinds = registry.New[Kind]()

func init() {
	registry.MustRegister(kinds, KindLiteral, Kind{Version: "1", New: newLiteralFromSpec})
	registry.MustRegister(kinds, KindStructural, Kind{Version: "1", New: newStructuralFromSpec})
	registry.MustRegister(kinds, KindSemantic, Kind{Version: "1", New: newBoundaryFromSpec})
}

// Build compiles a matcher of the named kind
func Build(kind string, spec Spec) (Matcher, error) {
	k, err := kinds.Get(kind)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPatternCompile, "unknown matcher kind %q", kind)
	}
	return k.New(spec)
}

// Version returns the implementation version of a matcher kind, or ""
func Version(kind string) string {
	k, err := kinds.Get(kind)
	if err != nil {
		return ""
	}
	return k.Version
}

// Kinds returns the registered kind names
func Kinds() []string {
	return kinds.Names()
}
