package structure

import (
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/arthur-debert/codeguard/pkg/logging"
)

// DirectivePrefix marks comments that are recorded as annotations
const DirectivePrefix = "codeguard:"

var testFuncPrefixes = []string{"Test", "Benchmark", "Fuzz", "Example"}

// Supported reports whether a structural representation can be built for path
func Supported(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".go")
}

// IsTestFile reports whether path is a Go test file
func IsTestFile(path string) bool {
	return strings.HasSuffix(filepath.Base(path), "_test.go")
}

// Build parses src and converts it into a Tree
func Build(path string, src []byte) (*Tree, error) {
	logger := logging.GetLogger("structure")

	if !Supported(path) {
		return nil, errors.Newf(errors.ErrStructuralParse, "no structural representation for %s", path)
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Structural parse failed")
		parseErr := errors.Wrapf(err, errors.ErrStructuralParse, "failed to parse %s", path)
		if list, ok := err.(scanner.ErrorList); ok && len(list) > 0 {
			parseErr = parseErr.WithDetail("line", list[0].Pos.Line)
		}
		return nil, parseErr
	}

	b := &builder{fset: fset, src: src}
	testFile := IsTestFile(path)

	root := &Node{
		Kind:     KindFile,
		Span:     b.span(file),
		Attrs:    map[string]string{"package": file.Name.Name},
		TestOnly: testFile,
	}

	for _, spec := range file.Imports {
		root.Children = append(root.Children, b.importNode(spec, testFile))
	}

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		root.Children = append(root.Children, b.funcDecl(fn, testFile))
	}

	return &Tree{
		Root:      root,
		Package:   file.Name.Name,
		Generated: ast.IsGenerated(file),
	}, nil
}

type builder struct {
	fset *token.FileSet
	src  []byte
}

func (b *builder) span(n ast.Node) Span {
	start := b.fset.Position(n.Pos())
	end := b.fset.Position(n.End())
	return Span{Line: start.Line, Column: start.Column, EndLine: end.Line, EndColumn: end.Column}
}

func (b *builder) text(n ast.Node) string {
	start := b.fset.Position(n.Pos()).Offset
	end := b.fset.Position(n.End()).Offset
	if start < 0 || end > len(b.src) || start > end {
		return ""
	}
	return string(b.src[start:end])
}

func (b *builder) importNode(spec *ast.ImportSpec, testOnly bool) *Node {
	path, err := strconv.Unquote(spec.Path.Value)
	if err != nil {
		path = spec.Path.Value
	}
	attrs := map[string]string{"path": path}
	if spec.Name != nil {
		attrs["alias"] = spec.Name.Name
	}
	return &Node{Kind: KindImport, Span: b.span(spec), Attrs: attrs, TestOnly: testOnly}
}

func (b *builder) funcDecl(fn *ast.FuncDecl, testFile bool) *Node {
	name := fn.Name.Name
	attrs := map[string]string{
		"name":   name,
		"params": strconv.Itoa(fieldCount(fn.Type.Params)),
	}
	if fn.Recv != nil && len(fn.Recv.List) > 0 {
		attrs["receiver"] = receiverName(fn.Recv.List[0].Type)
	}

	span := b.span(fn)
	attrs["lines"] = strconv.Itoa(span.EndLine - span.Line + 1)

	node := &Node{
		Kind:     KindFunc,
		Span:     span,
		Attrs:    attrs,
		TestOnly: testFile || (fn.Recv == nil && isTestFuncName(name)),
	}

	if fn.Doc != nil {
		var comments []*ast.Comment
		for _, c := range fn.Doc.List {
			if directive, ok := directiveText(c.Text); ok {
				node.Annotations = append(node.Annotations, directive)
				comments = append(comments, c)
			}
		}
		for i, c := range comments {
			node.Children = append(node.Children, &Node{
				Kind:        KindAnnotation,
				Span:        b.span(c),
				Attrs:       map[string]string{"text": node.Annotations[i]},
				TestOnly:    node.TestOnly,
				Annotations: node.Annotations,
			})
		}
	}

	if fn.Body != nil {
		attrs["body"] = "true"
		for _, stmt := range fn.Body.List {
			node.Children = append(node.Children, b.stmt(stmt, node))
		}
	}
	return node
}

func (b *builder) funcLit(fn *ast.FuncLit, parent *Node) *Node {
	span := b.span(fn)
	node := &Node{
		Kind: KindFunc,
		Span: span,
		Attrs: map[string]string{
			"literal": "true",
			"params":  strconv.Itoa(fieldCount(fn.Type.Params)),
			"lines":   strconv.Itoa(span.EndLine - span.Line + 1),
			"body":    "true",
		},
		TestOnly:    parent.TestOnly,
		Annotations: parent.Annotations,
	}
	for _, stmt := range fn.Body.List {
		node.Children = append(node.Children, b.stmt(stmt, node))
	}
	return node
}

func (b *builder) stmt(s ast.Stmt, parent *Node) *Node {
	switch x := s.(type) {
	case *ast.ReturnStmt:
		return b.returnNode(x, parent)
	case *ast.ExprStmt:
		if call, ok := x.X.(*ast.CallExpr); ok {
			return b.call(call, parent)
		}
	}

	node := &Node{
		Kind:        KindStatement,
		Span:        b.span(s),
		Attrs:       map[string]string{"type": stmtType(s)},
		TestOnly:    parent.TestOnly,
		Annotations: parent.Annotations,
	}
	node.Children = b.nested(s, node)
	return node
}

func (b *builder) returnNode(r *ast.ReturnStmt, parent *Node) *Node {
	attrs := map[string]string{"count": strconv.Itoa(len(r.Results))}
	if n := len(r.Results); n > 0 {
		attrs["value"] = b.text(r.Results[n-1])
		zero := true
		for _, res := range r.Results[:n-1] {
			if !isZeroLiteral(res) {
				zero = false
				break
			}
		}
		attrs["zero_prefix"] = strconv.FormatBool(zero)
	}
	node := &Node{
		Kind:        KindReturn,
		Span:        b.span(r),
		Attrs:       attrs,
		TestOnly:    parent.TestOnly,
		Annotations: parent.Annotations,
	}
	node.Children = b.nested(r, node)
	return node
}

func (b *builder) call(c *ast.CallExpr, parent *Node) *Node {
	callee := b.text(c.Fun)
	attrs := map[string]string{
		"callee": callee,
		"name":   calleeName(c.Fun),
		"args":   strconv.Itoa(len(c.Args)),
	}
	if len(c.Args) > 0 {
		arg := b.text(c.Args[0])
		if lit, ok := c.Args[0].(*ast.BasicLit); ok && lit.Kind == token.STRING {
			if unquoted, err := strconv.Unquote(lit.Value); err == nil {
				arg = unquoted
			}
		}
		attrs["arg"] = arg
	}
	node := &Node{
		Kind:        KindCall,
		Span:        b.span(c),
		Attrs:       attrs,
		TestOnly:    parent.TestOnly,
		Annotations: parent.Annotations,
	}
	node.Children = b.nested(c, node)
	return node
}

// nested collects the nodes directly below root: statements of inner blocks,
// calls and function literals. Blocks themselves are flattened.
func (b *builder) nested(root ast.Node, parent *Node) []*Node {
	var out []*Node
	ast.Inspect(root, func(n ast.Node) bool {
		if n == nil || n == root {
			return true
		}
		switch x := n.(type) {
		case *ast.BlockStmt:
			return true
		case *ast.FuncLit:
			out = append(out, b.funcLit(x, parent))
			return false
		case *ast.CallExpr:
			out = append(out, b.call(x, parent))
			return false
		case ast.Stmt:
			out = append(out, b.stmt(x, parent))
			return false
		}
		return true
	})
	return out
}

func fieldCount(fields *ast.FieldList) int {
	if fields == nil {
		return 0
	}
	count := 0
	for _, f := range fields.List {
		if len(f.Names) == 0 {
			count++
			continue
		}
		count += len(f.Names)
	}
	return count
}

func receiverName(expr ast.Expr) string {
	switch x := expr.(type) {
	case *ast.StarExpr:
		return receiverName(x.X)
	case *ast.Ident:
		return x.Name
	case *ast.IndexExpr:
		return receiverName(x.X)
	case *ast.IndexListExpr:
		return receiverName(x.X)
	}
	return ""
}

func calleeName(expr ast.Expr) string {
	switch x := expr.(type) {
	case *ast.Ident:
		return x.Name
	case *ast.SelectorExpr:
		return x.Sel.Name
	case *ast.IndexExpr:
		return calleeName(x.X)
	case *ast.ParenExpr:
		return calleeName(x.X)
	}
	return ""
}

func isTestFuncName(name string) bool {
	for _, prefix := range testFuncPrefixes {
		if name == prefix || strings.HasPrefix(name, prefix) && len(name) > len(prefix) && !isLower(name[len(prefix)]) {
			return true
		}
	}
	return false
}

func isLower(c byte) bool {
	return c >= 'a' && c <= 'z'
}

func directiveText(comment string) (string, bool) {
	if !strings.HasPrefix(comment, "//"+DirectivePrefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(comment, "//")), true
}

func isZeroLiteral(expr ast.Expr) bool {
	switch x := expr.(type) {
	case *ast.Ident:
		return x.Name == "nil" || x.Name == "false"
	case *ast.BasicLit:
		switch x.Kind {
		case token.INT, token.FLOAT:
			v, err := strconv.ParseFloat(strings.ReplaceAll(x.Value, "_", ""), 64)
			return err == nil && v == 0
		case token.STRING:
			return x.Value == `""` || x.Value == "``"
		}
	case *ast.CompositeLit:
		return len(x.Elts) == 0
	case *ast.ParenExpr:
		return isZeroLiteral(x.X)
	}
	return false
}

func stmtType(s ast.Stmt) string {
	switch s.(type) {
	case *ast.AssignStmt:
		return "assign"
	case *ast.IfStmt:
		return "if"
	case *ast.ForStmt, *ast.RangeStmt:
		return "for"
	case *ast.SwitchStmt, *ast.TypeSwitchStmt:
		return "switch"
	case *ast.SelectStmt:
		return "select"
	case *ast.DeclStmt:
		return "decl"
	case *ast.DeferStmt:
		return "defer"
	case *ast.GoStmt:
		return "go"
	case *ast.ExprStmt:
		return "expr"
	case *ast.BlockStmt:
		return "block"
	case *ast.CaseClause, *ast.CommClause:
		return "case"
	}
	return "stmt"
}
