package mapping

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"

	"github.com/matzehuels/ptplot/pkg/dataset"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
)

// quoteRe matches Q("name") and Q('name') column quoting.
var quoteRe = regexp.MustCompile(`\bQ\(\s*(?:"((?:[^"\\]|\\.)*)"|'((?:[^'\\]|\\.)*)')\s*\)`)

// compiled is an expression ready to evaluate against a dataset.
type compiled struct {
	program *vm.Program
	// bind maps expression identifiers to dataset column names.
	bind map[string]string
}

// compile rewrites quoted column references, checks every referenced
// identifier against the dataset and compiles the expression.
func compile(text string, ds dataset.Dataset) (*compiled, error) {
	// Quoted references become identifiers under a prefix the text never
	// contains, so they cannot shadow a column named in the text.
	prefix := "_q"
	for strings.Contains(text, prefix) {
		prefix = "_" + prefix
	}

	bind := make(map[string]string)
	var rewriteErr error
	src := quoteRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := quoteRe.FindStringSubmatch(m)
		body := sub[1]
		if body == "" {
			body = sub[2]
		}
		name, err := unquoteColumn(body)
		if err != nil {
			rewriteErr = err
			return m
		}
		ident := fmt.Sprintf("%s%d", prefix, len(bind))
		bind[ident] = name
		return ident
	})
	if rewriteErr != nil {
		return nil, perrors.Wrap(perrors.ErrCodeMapping, rewriteErr, "invalid quoted column in %q", text)
	}

	tree, err := parser.Parse(src)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeMapping, err, "cannot parse %q", text)
	}

	idents, callees := identifiers(&tree.Node)
	if len(callees) > 0 {
		return nil, perrors.New(perrors.ErrCodeMapping, "unknown function %q in %q", callees[0], text)
	}
	for _, ident := range idents {
		col, ok := bind[ident]
		if !ok {
			col = ident
			bind[ident] = ident
		}
		if _, ok := ds.Column(col); !ok {
			return nil, perrors.New(perrors.ErrCodeMapping, "unknown column %q in %q", col, text)
		}
	}

	program, err := expr.Compile(src)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeMapping, err, "cannot compile %q", text)
	}
	return &compiled{program: program, bind: bind}, nil
}

// unquoteColumn decodes the body of a Q() string. Escapes follow Go
// string literals, plus \' for a single quote.
func unquoteColumn(body string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		switch c := body[i]; {
		case c == '\\' && i+1 < len(body):
			i++
			if body[i] == '\'' {
				b.WriteByte('\'')
			} else {
				b.WriteByte('\\')
				b.WriteByte(body[i])
			}
		case c == '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	return strconv.Unquote(`"` + b.String() + `"`)
}

// identifiers collects the variable identifiers and the names of called
// identifiers in an expression tree. Builtins parse to their own node type
// and are not reported.
func identifiers(root *ast.Node) (idents, callees []string) {
	c := &identCollector{}
	ast.Walk(root, c)

	seen := make(map[string]bool)
	for _, n := range c.idents {
		if c.callees[n] {
			callees = append(callees, n.Value)
			continue
		}
		if !seen[n.Value] {
			seen[n.Value] = true
			idents = append(idents, n.Value)
		}
	}
	return idents, callees
}

type identCollector struct {
	idents  []*ast.IdentifierNode
	callees map[*ast.IdentifierNode]bool
}

func (c *identCollector) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		c.idents = append(c.idents, n)
	case *ast.CallNode:
		if id, ok := n.Callee.(*ast.IdentifierNode); ok {
			if c.callees == nil {
				c.callees = make(map[*ast.IdentifierNode]bool)
			}
			c.callees[id] = true
		}
	}
}

// eval evaluates the expression for every row of ds.
func (c *compiled) eval(ds dataset.Dataset) ([]dataset.Value, error) {
	cols := make(map[string]dataset.Column, len(c.bind))
	for ident, name := range c.bind {
		col, _ := ds.Column(name)
		cols[ident] = col
	}

	n := ds.Len()
	out := make([]dataset.Value, n)
	env := make(map[string]any, len(cols))
	var machine vm.VM
	for i := 0; i < n; i++ {
		for ident, col := range cols {
			v := col.Values[i]
			if v == nil && col.Kind == dataset.KindFloat {
				v = math.NaN()
			}
			env[ident] = v
		}
		res, err := machine.Run(c.program, env)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeMapping, err, "evaluate row %d", i)
		}
		out[i] = res
	}
	return out, nil
}
