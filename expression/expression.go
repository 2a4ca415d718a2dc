// Package expression builds engine graphs from arithmetic text such as
// "let c = a + b; tanh(c * c) / 2".
package expression

import "sort"

import "github.com/expr-lang/expr/ast"
import "github.com/expr-lang/expr/parser"
import "github.com/pkg/errors"

import "github.com/neurlang/micrograd/value"

var (
	// ErrUnsupported is returned for syntax which has no engine counterpart.
	ErrUnsupported = errors.New("expression: unsupported construct")

	// ErrUnknownVariable is returned when a name has no value.
	ErrUnknownVariable = errors.New("expression: unknown variable")
)

// Expression is parsed source text
type Expression struct {
	src  string
	tree *parser.Tree
}

// Graph is an expression built into engine nodes
type Graph struct {
	Root *value.Value
	// Vars holds one leaf per variable name used by the expression
	Vars map[string]*value.Value
}

// Names returns the variable names in sorted order
func (g *Graph) Names() (o []string) {
	for name := range g.Vars {
		o = append(o, name)
	}
	sort.Strings(o)
	return
}

// Parse parses src
func Parse(src string) (*Expression, error) {
	tree, err := parser.Parse(src)
	if err != nil {
		return nil, errors.Wrap(err, "expression: parse")
	}
	return &Expression{src: src, tree: tree}, nil
}

// MustParse parses src, panics on error
func MustParse(src string) *Expression {
	e, err := Parse(src)
	if err != nil {
		panic(err.Error())
	}
	return e
}

func (e *Expression) String() string {
	return e.src
}

// Build creates a fresh graph for the expression. Every occurrence of a
// variable refers to the same leaf, initialized from vars.
func (e *Expression) Build(vars map[string]float32) (*Graph, error) {
	b := &builder{vars: vars, g: &Graph{Vars: make(map[string]*value.Value)}}
	root, err := b.build(e.tree.Node, nil)
	if err != nil {
		return nil, err
	}
	b.g.Root = root
	return b.g, nil
}

// scope is a chain of let bindings
type scope struct {
	name   string
	node   *value.Value
	parent *scope
}

func (s *scope) lookup(name string) *value.Value {
	for ; s != nil; s = s.parent {
		if s.name == name {
			return s.node
		}
	}
	return nil
}

type builder struct {
	vars map[string]float32
	g    *Graph
}

func (b *builder) variable(name string) (*value.Value, error) {
	if v, ok := b.g.Vars[name]; ok {
		return v, nil
	}
	data, ok := b.vars[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownVariable, "%q", name)
	}
	v := value.New(data)
	b.g.Vars[name] = v
	return v, nil
}

func (b *builder) build(node ast.Node, sc *scope) (*value.Value, error) {
	switch n := node.(type) {
	case *ast.IntegerNode:
		return value.New(float32(n.Value)), nil
	case *ast.FloatNode:
		return value.New(float32(n.Value)), nil
	case *ast.IdentifierNode:
		if v := sc.lookup(n.Value); v != nil {
			return v, nil
		}
		return b.variable(n.Value)
	case *ast.VariableDeclaratorNode:
		v, err := b.build(n.Value, sc)
		if err != nil {
			return nil, err
		}
		return b.build(n.Expr, &scope{name: n.Name, node: v, parent: sc})
	case *ast.UnaryNode:
		v, err := b.build(n.Node, sc)
		if err != nil {
			return nil, err
		}
		switch n.Operator {
		case "-":
			return v.Neg(), nil
		case "+":
			return v, nil
		}
		return nil, errors.Wrapf(ErrUnsupported, "unary %q", n.Operator)
	case *ast.BinaryNode:
		return b.binary(n, sc)
	case *ast.CallNode:
		return b.call(n, sc)
	}
	return nil, errors.Wrapf(ErrUnsupported, "%T", node)
}

func (b *builder) binary(n *ast.BinaryNode, sc *scope) (*value.Value, error) {
	left, err := b.build(n.Left, sc)
	if err != nil {
		return nil, err
	}
	if n.Operator == "**" || n.Operator == "^" {
		k, ok := constant(n.Right)
		if !ok {
			return nil, errors.Wrap(ErrUnsupported, "exponent must be a number")
		}
		return left.Pow(k), nil
	}
	right, err := b.build(n.Right, sc)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case "+":
		return left.Add(right), nil
	case "-":
		return left.Sub(right), nil
	case "*":
		return left.Mul(right), nil
	case "/":
		return left.Div(right), nil
	}
	return nil, errors.Wrapf(ErrUnsupported, "operator %q", n.Operator)
}

func (b *builder) call(n *ast.CallNode, sc *scope) (*value.Value, error) {
	callee, ok := n.Callee.(*ast.IdentifierNode)
	if !ok {
		return nil, errors.Wrap(ErrUnsupported, "method call")
	}
	if len(n.Arguments) != 1 {
		return nil, errors.Wrapf(ErrUnsupported, "%s takes one argument, got %d", callee.Value, len(n.Arguments))
	}
	arg, err := b.build(n.Arguments[0], sc)
	if err != nil {
		return nil, err
	}
	switch callee.Value {
	case "tanh":
		return arg.Tanh(), nil
	case "exp":
		return arg.Exp(), nil
	case "sqrt":
		return arg.Pow(0.5), nil
	}
	return nil, errors.Wrapf(ErrUnsupported, "function %q", callee.Value)
}

// constant folds a literal exponent such as 2, 0.5 or -1
func constant(node ast.Node) (float32, bool) {
	switch n := node.(type) {
	case *ast.IntegerNode:
		return float32(n.Value), true
	case *ast.FloatNode:
		return float32(n.Value), true
	case *ast.UnaryNode:
		k, ok := constant(n.Node)
		switch {
		case !ok:
		case n.Operator == "-":
			return -k, true
		case n.Operator == "+":
			return k, true
		}
	}
	return 0, false
}
