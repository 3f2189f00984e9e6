package detailed

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"
)

// Expr is a compiled cost expression over named objectives, such as
// "(hpwl)" or "hpwl + 0.5*disp". Every identifier is a float64 objective;
// builtins like abs and max may be called on them.
type Expr struct {
	src  string
	vars []string
	prog *vm.Program
}

// ParseCost compiles a cost expression. The result must be numeric.
func ParseCost(s string) (*Expr, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty cost expression")
	}
	tree, err := parser.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("cost %q: %w", s, err)
	}
	c := &identCollector{calls: make(map[string]bool)}
	ast.Walk(&tree.Node, c)
	var vars []string
	for _, v := range c.idents {
		if !c.calls[v] {
			vars = append(vars, v)
		}
	}
	slices.Sort(vars)
	vars = slices.Compact(vars)

	prog, err := expr.Compile(s, expr.Env(zeroEnv(vars)), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("cost %q: %w", s, err)
	}
	return &Expr{src: s, vars: vars, prog: prog}, nil
}

// identCollector gathers identifier names and the names used as callees.
type identCollector struct {
	idents []string
	calls  map[string]bool
}

func (c *identCollector) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		c.idents = append(c.idents, n.Value)
	case *ast.CallNode:
		if id, ok := n.Callee.(*ast.IdentifierNode); ok {
			c.calls[id.Value] = true
		}
	}
}

func zeroEnv(vars []string) map[string]float64 {
	env := make(map[string]float64, len(vars))
	for _, v := range vars {
		env[v] = 0
	}
	return env
}

// String returns the source text of e.
func (e *Expr) String() string { return e.src }

// Vars returns the sorted distinct identifiers used by e.
func (e *Expr) Vars() []string { return slices.Clone(e.vars) }

// Eval evaluates e. Identifiers missing from vars are zero. A run-time
// failure yields NaN.
func (e *Expr) Eval(vars map[string]float64) float64 {
	env := zeroEnv(e.vars)
	for _, v := range e.vars {
		env[v] = vars[v]
	}
	out, err := expr.Run(e.prog, env)
	if err != nil {
		return math.NaN()
	}
	f, ok := out.(float64)
	if !ok {
		return math.NaN()
	}
	return f
}
