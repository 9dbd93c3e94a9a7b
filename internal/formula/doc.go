// Package formula compiles and evaluates the value conversion formulas that
// Glow parameters carry.
//
// # Overview
//
// A formula is an arithmetic expression over a single input, written "$".
// A parameter stores two of them separated by a newline: the first converts
// a provider value into the value shown to a consumer, the second converts
// a consumer value back.
//
//	$*2+1
//	($-1)/2
//
// # Syntax
//
// Expressions support:
//
//   - Numeric literals: 1, 2.5, .5, 1e-3
//   - The input: $
//   - Binary operators: + - * / % with the usual precedence
//   - Unary minus and plus
//   - Parentheses
//   - Constants: pi, e
//   - Functions: abs sqrt exp ln log ceil floor round sin cos tan pow min max
//
// Names are case-insensitive.
//
// # Evaluation
//
// Compile performs a single pass over the source and emits a linear
// program for a small stack machine:
//
//	prog, err := formula.Compile("$*2+1")
//	if err != nil {
//	    return err
//	}
//	v, err := prog.Eval(3) // 7
//
// A compiled Program is immutable and may be evaluated from multiple
// goroutines.
package formula
