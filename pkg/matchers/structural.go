package matchers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/arthur-debert/codeguard/pkg/structure"
	"github.com/arthur-debert/codeguard/pkg/unit"
)

// Structural shape names
const (
	ShapeCall              = "call"
	ShapeSuccessOnlyReturn = "success_only_return"
	ShapeEmptyFunctionBody = "empty_function_body"
	ShapeFunctionArgsGT    = "function_args_gt"
	ShapeFunctionLinesGT   = "function_lines_gt"
)

// DefaultSuccessValue is the value success_only_return looks for when none is given
const DefaultSuccessValue = "nil"

// predicate tests one node and its direct children. It returns the match
// text and attributes when the node has the shape.
type predicate func(n *structure.Node) (string, map[string]string, bool)

// Structural matches a declarative shape against the structural tree
type Structural struct {
	shape  string
	kind   structure.Kind
	test   predicate
	source string
}

// NewStructural parses a shape expression such as "call:panic~todo" or
// "function_lines_gt:80".
func NewStructural(expr string) (*Structural, error) {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(expr), ":")
	s := &Structural{shape: name, source: expr}

	switch name {
	case ShapeCall:
		if !hasArg || arg == "" {
			return nil, errors.Newf(errors.ErrPatternCompile, "shape %q needs callee names, e.g. call:panic", expr)
		}
		test, err := callPredicate(arg)
		if err != nil {
			return nil, err
		}
		s.kind, s.test = structure.KindCall, test

	case ShapeSuccessOnlyReturn:
		value := DefaultSuccessValue
		if hasArg && arg != "" {
			value = arg
		}
		s.kind, s.test = structure.KindFunc, successOnlyReturn(value)

	case ShapeEmptyFunctionBody:
		s.kind, s.test = structure.KindFunc, emptyFunctionBody

	case ShapeFunctionArgsGT, ShapeFunctionLinesGT:
		limit, err := strconv.Atoi(arg)
		if !hasArg || err != nil || limit < 0 {
			return nil, errors.Newf(errors.ErrPatternCompile, "shape %q needs a non-negative threshold, e.g. %s:5", expr, name)
		}
		if name == ShapeFunctionArgsGT {
			s.kind, s.test = structure.KindFunc, thresholdPredicate("params", "count", limit)
		} else {
			s.kind, s.test = structure.KindFunc, thresholdPredicate("lines", "lines", limit)
		}

	default:
		return nil, errors.Newf(errors.ErrPatternCompile, "unknown structural shape %q", name).
			WithDetail("shape", expr)
	}
	return s, nil
}

func newStructuralFromSpec(spec Spec) (Matcher, error) {
	return NewStructural(spec.Pattern)
}

// NeedsStructure is true
func (s *Structural) NeedsStructure() bool { return true }

// Match walks the tree once, testing each node of the shape's kind
func (s *Structural) Match(u *unit.FileUnit) ([]Match, error) {
	if !u.HasStructure() {
		return nil, nil
	}
	tree, err := u.Structure()
	if err != nil {
		return nil, err
	}

	var out []Match
	structure.Walk(tree.Root, func(n *structure.Node) bool {
		if n.Kind != s.kind {
			return true
		}
		if text, attrs, ok := s.test(n); ok {
			out = append(out, Match{
				Line:        n.Span.Line,
				Column:      n.Span.Column,
				Text:        text,
				Attrs:       attrs,
				TestOnly:    n.TestOnly,
				Annotations: n.Annotations,
			})
		}
		return true
	})
	return out, nil
}

func callPredicate(arg string) (predicate, error) {
	namesPart, argPattern, hasPattern := strings.Cut(arg, "~")
	names := make(map[string]struct{})
	for _, name := range strings.Split(namesPart, "|") {
		if name = strings.TrimSpace(name); name != "" {
			names[name] = struct{}{}
		}
	}
	if len(names) == 0 {
		return nil, errors.Newf(errors.ErrPatternCompile, "call shape %q names no callee", arg)
	}

	var argRe *regexp.Regexp
	if hasPattern {
		re, err := regexp.Compile(argPattern)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrPatternCompile, "invalid argument pattern %q", argPattern)
		}
		argRe = re
	}

	return func(n *structure.Node) (string, map[string]string, bool) {
		callee := n.Attr("callee")
		if _, ok := names[callee]; !ok {
			return "", nil, false
		}
		if argRe != nil && (n.Attr("args") == "0" || !argRe.MatchString(n.Attr("arg"))) {
			return "", nil, false
		}
		return callee, map[string]string{
			"callee": callee,
			"name":   callee,
			"arg":    n.Attr("arg"),
		}, true
	}, nil
}

// statements returns the body statements of a function node
func statements(n *structure.Node) []*structure.Node {
	out := make([]*structure.Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Kind != structure.KindAnnotation {
			out = append(out, c)
		}
	}
	return out
}

func declared(n *structure.Node) bool {
	return n.Attr("literal") != "true" && n.Attr("body") == "true"
}

func successOnlyReturn(value string) predicate {
	return func(n *structure.Node) (string, map[string]string, bool) {
		if !declared(n) {
			return "", nil, false
		}
		body := statements(n)
		if len(body) != 1 || body[0].Kind != structure.KindReturn {
			return "", nil, false
		}
		ret := body[0]
		if ret.Attr("value") != value || ret.Attr("zero_prefix") == "false" {
			return "", nil, false
		}
		name := n.Attr("name")
		return name, map[string]string{"name": name, "value": value}, true
	}
}

func emptyFunctionBody(n *structure.Node) (string, map[string]string, bool) {
	if !declared(n) || len(statements(n)) != 0 {
		return "", nil, false
	}
	name := n.Attr("name")
	return name, map[string]string{"name": name}, true
}

func thresholdPredicate(attr, exposeAs string, limit int) predicate {
	return func(n *structure.Node) (string, map[string]string, bool) {
		if n.Attr("literal") == "true" {
			return "", nil, false
		}
		value := n.IntAttr(attr)
		if value <= limit {
			return "", nil, false
		}
		name := n.Attr("name")
		return name, map[string]string{
			"name":   name,
			exposeAs: strconv.Itoa(value),
			"limit":  strconv.Itoa(limit),
		}, true
	}
}

func (s *Structural) String() string {
	return s.source
}
