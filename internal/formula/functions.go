package formula

import "math"

type function struct {
	name  string
	arity int
	fn    func(args []float64) (float64, error)
}

func unary(name string, f func(float64) float64) function {
	return function{name: name, arity: 1, fn: func(a []float64) (float64, error) { return f(a[0]), nil }}
}

// positive wraps f so that it fails for arguments outside (0, inf) or, with
// orZero, [0, inf).
func positive(name string, orZero bool, f func(float64) float64) function {
	return function{name: name, arity: 1, fn: func(a []float64) (float64, error) {
		if a[0] < 0 || (!orZero && a[0] == 0) {
			return 0, ErrDomain
		}
		return f(a[0]), nil
	}}
}

// functions is indexed by the operand of opCall.
var functions = []function{
	unary("abs", math.Abs),
	positive("sqrt", true, math.Sqrt),
	unary("exp", math.Exp),
	positive("ln", false, math.Log),
	positive("log", false, math.Log10),
	unary("ceil", math.Ceil),
	unary("floor", math.Floor),
	unary("round", math.Round),
	unary("sin", math.Sin),
	unary("cos", math.Cos),
	unary("tan", math.Tan),
	{name: "pow", arity: 2, fn: func(a []float64) (float64, error) { return math.Pow(a[0], a[1]), nil }},
	{name: "min", arity: 2, fn: func(a []float64) (float64, error) { return math.Min(a[0], a[1]), nil }},
	{name: "max", arity: 2, fn: func(a []float64) (float64, error) { return math.Max(a[0], a[1]), nil }},
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

func lookupFunction(name string) (int, bool) {
	for i, f := range functions {
		if f.name == name {
			return i, true
		}
	}
	return 0, false
}
