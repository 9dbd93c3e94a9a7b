package formula

import (
	"fmt"
	"math"
	"strings"
)

type opcode uint8

const (
	opConst opcode = iota
	opInput
	opAdd
	opSub
	opMul
	opDiv
	opMod
	opNeg
	opCall
)

var opNames = [...]string{"const", "input", "add", "sub", "mul", "div", "mod", "neg", "call"}

type instr struct {
	op  opcode
	arg int
}

// Program is a compiled formula.
type Program struct {
	source   string
	code     []instr
	consts   []float64
	maxStack int
}

// String returns the source the program was compiled from.
func (p *Program) String() string { return p.source }

// Eval runs the program with x bound to "$".
func (p *Program) Eval(x float64) (float64, error) {
	var small [16]float64
	stack := small[:0]
	if p.maxStack > len(small) {
		stack = make([]float64, 0, p.maxStack)
	}

	for _, in := range p.code {
		switch in.op {
		case opConst:
			stack = append(stack, p.consts[in.arg])
		case opInput:
			stack = append(stack, x)
		case opNeg:
			if len(stack) < 1 {
				return 0, ErrInvalidFormula
			}
			stack[len(stack)-1] = -stack[len(stack)-1]
		case opCall:
			f := functions[in.arg]
			if len(stack) < f.arity {
				return 0, ErrInvalidFormula
			}
			args := stack[len(stack)-f.arity:]
			v, err := f.fn(args)
			if err != nil {
				return 0, fmt.Errorf("%s: %w", f.name, err)
			}
			stack = append(stack[:len(stack)-f.arity], v)
		default:
			if len(stack) < 2 {
				return 0, ErrInvalidFormula
			}
			a, b := stack[len(stack)-2], stack[len(stack)-1]
			stack = stack[:len(stack)-2]
			v, err := binary(in.op, a, b)
			if err != nil {
				return 0, err
			}
			stack = append(stack, v)
		}
	}

	if len(stack) != 1 {
		return 0, ErrInvalidFormula
	}
	return stack[0], nil
}

func binary(op opcode, a, b float64) (float64, error) {
	switch op {
	case opAdd:
		return a + b, nil
	case opSub:
		return a - b, nil
	case opMul:
		return a * b, nil
	case opDiv:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	case opMod:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return math.Mod(a, b), nil
	}
	return 0, ErrInvalidFormula
}

// Disassemble returns one line per instruction.
func (p *Program) Disassemble() string {
	var sb strings.Builder
	for i, in := range p.code {
		fmt.Fprintf(&sb, "%04d %-5s", i, opNames[in.op])
		switch in.op {
		case opConst:
			fmt.Fprintf(&sb, " %g", p.consts[in.arg])
		case opCall:
			fmt.Fprintf(&sb, " %s/%d", functions[in.arg].name, functions[in.arg].arity)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
