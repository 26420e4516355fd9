package guard

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/monitors/internal/domain"
	"github.com/eliteGoblin/focusd/monitors/internal/spec"
	"github.com/eliteGoblin/focusd/monitors/internal/trigger"
)

const (
	ExprValueClass = "expr-value-guard"
	ExprValueAlias = "expr-value"
)

// ExprValue passes when the sampled value of an expression moves the way
// its predicate asks for (changed, increased, became non-nil...).
type ExprValue struct {
	trigger.CanEnable

	owner  any
	eval   domain.Evaluator
	expr   any
	pred   Predicate
	logger *zap.Logger

	value any
	bound bool // value is only readable while enabled
}

// NewExprValue creates a disabled expression-value guard.
func NewExprValue(owner any, eval domain.Evaluator, expr any, pred Predicate, logger *zap.Logger) (*ExprValue, error) {
	if eval == nil {
		return nil, fmt.Errorf("%s: %w", ExprValueClass, domain.ErrNoEvaluator)
	}
	if pred == nil {
		pred = Changed
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExprValue{
		owner:  owner,
		eval:   eval,
		expr:   expr,
		pred:   pred,
		logger: logger,
	}, nil
}

type exprValueOptions struct {
	Expr any `spec:"expr"`
	Pred any `spec:"pred"`
}

// newExprValueFromSpec accepts (expr-value EXPR [PRED]) as well as the
// keyword form (expr-value :expr EXPR :pred PRED).
func newExprValueFromSpec(owner any, env Env, args spec.Parsed) (domain.Guard, error) {
	opts := args.OptionMap()
	if err := spec.Promote(ExprValueClass, opts, args.Positional, "expr", "pred"); err != nil {
		return nil, err
	}

	var o exprValueOptions
	if err := spec.Decode(ExprValueClass, opts, &o, "expr"); err != nil {
		return nil, err
	}

	pred, err := ToPredicate(o.Pred)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ExprValueClass, err)
	}

	return NewExprValue(owner, env.Host.Eval, o.Expr, pred, env.Logger)
}

// Enable samples the expression once and remembers the value.
func (g *ExprValue) Enable() error {
	return g.Transition(true, func() error {
		v, err := g.eval.Sample(g.expr)
		if err != nil {
			return fmt.Errorf("sample %v: %w", g.expr, err)
		}
		g.value, g.bound = v, true
		return nil
	}, nil)
}

// Disable forgets the remembered value.
func (g *ExprValue) Disable() error {
	return g.Transition(false, func() error {
		g.value, g.bound = nil, false
		return nil
	}, nil)
}

// Test samples the expression, stores the new value whatever the outcome,
// and returns pred(old, new).
func (g *ExprValue) Test() (bool, error) {
	if !g.bound {
		return false, fmt.Errorf("%s %v: %w", ExprValueClass, g.expr, domain.ErrUnbound)
	}

	next, err := g.eval.Sample(g.expr)
	if err != nil {
		return false, fmt.Errorf("sample %v: %w", g.expr, err)
	}

	prev := g.value
	g.value = next
	pass := g.pred(prev, next)

	g.logger.Debug("guard tested",
		zap.Any("expr", g.expr),
		zap.Any("old", prev),
		zap.Any("new", next),
		zap.Bool("pass", pass))

	return pass, nil
}

// Value returns the last sample and whether one is bound.
func (g *ExprValue) Value() (any, bool) {
	return g.value, g.bound
}

// Expr returns the sampled expression.
func (g *ExprValue) Expr() any {
	return g.expr
}

// Owner returns the object this guard gates.
func (g *ExprValue) Owner() any {
	return g.owner
}

// Ensure ExprValue implements domain.Guard.
var _ domain.Guard = (*ExprValue)(nil)
