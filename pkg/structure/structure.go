package structure

import (
	"strconv"
)

// Kind is the closed set of node variants
type Kind int

const (
	KindFile Kind = iota
	KindImport
	KindFunc
	KindReturn
	KindCall
	KindStatement
	KindAnnotation
)

var kindNames = map[Kind]string{
	KindFile:       "file",
	KindImport:     "import",
	KindFunc:       "func",
	KindReturn:     "return",
	KindCall:       "call",
	KindStatement:  "statement",
	KindAnnotation: "annotation",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Span is a 1-based source range
type Span struct {
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// Node is one element of the structural tree
type Node struct {
	Kind        Kind
	Span        Span
	Attrs       map[string]string
	Children    []*Node
	TestOnly    bool
	Annotations []string
}

// Attr returns the named attribute or ""
func (n *Node) Attr(key string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

// IntAttr returns the named attribute parsed as an int, or 0
func (n *Node) IntAttr(key string) int {
	v, err := strconv.Atoi(n.Attr(key))
	if err != nil {
		return 0
	}
	return v
}

// Tree is the structural representation of one file
type Tree struct {
	Root      *Node
	Package   string
	Generated bool
}

// Walk visits nodes depth-first in source order. Returning false from visit
// skips the node's children.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, child := range n.Children {
		Walk(child, visit)
	}
}

// Imports returns the import nodes of the tree in source order
func (t *Tree) Imports() []*Node {
	if t == nil || t.Root == nil {
		return nil
	}
	var out []*Node
	for _, child := range t.Root.Children {
		if child.Kind == KindImport {
			out = append(out, child)
		}
	}
	return out
}
