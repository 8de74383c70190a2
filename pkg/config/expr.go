package config

import (
	"math"

	"github.com/Knetic/govaluate"

	"github.com/matzehuels/sprout/pkg/errors"
)

// constants are the names bound in every expression.
var constants = map[string]any{
	"pi":  math.Pi,
	"tau": 2 * math.Pi,
	"e":   math.E,
}

// functions are callable from expressions. Each takes one numeric argument.
var functions = map[string]govaluate.ExpressionFunction{
	"sqrt": unary(math.Sqrt),
	"sin":  unary(math.Sin),
	"cos":  unary(math.Cos),
	"rad":  unary(func(deg float64) float64 { return deg * math.Pi / 180 }),
}

func unary(fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "expected 1 argument, got %d", len(args))
		}
		x, ok := args[0].(float64)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "argument %v is not a number", args[0])
		}
		return fn(x), nil
	}
}

// Eval evaluates an arithmetic expression such as "pi / 3" or "rad(60)".
func Eval(text string) (float64, error) {
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(text, functions)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse expression %q", text)
	}
	res, err := expr.Evaluate(constants)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "evaluate expression %q", text)
	}
	v, ok := res.(float64)
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidInput, "expression %q is not numeric", text)
	}
	return v, nil
}

// Expr is a TOML number that may also be written as an expression string.
// Text holds the original expression, or is empty for plain numbers. Set
// reports whether the key was present at all.
type Expr struct {
	Text  string
	Value float64
	Set   bool
}

// UnmarshalTOML implements toml.Unmarshaler.
func (x *Expr) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case float64:
		*x = Expr{Value: v, Set: true}
	case int64:
		*x = Expr{Value: float64(v), Set: true}
	case string:
		f, err := Eval(v)
		if err != nil {
			return err
		}
		*x = Expr{Text: v, Value: f, Set: true}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "expected number or expression, got %T", v)
	}
	return nil
}
