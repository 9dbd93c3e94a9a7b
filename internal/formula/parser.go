package formula

import (
	"strconv"
	"strings"
)

// Compile parses a formula and emits its program in a single pass.
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/" | "%") unary }
//	unary   = ("-" | "+") unary | primary
//	primary = number | "$" | name [ "(" expr { "," expr } ")" ] | "(" expr ")"
func Compile(src string) (*Program, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmptyFormula
	}

	p := &parser{sc: scanner{src: src}, prog: &Program{source: src}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expr(); err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, newSyntaxError(p.tok.pos, "unexpected %s", p.tok.kind)
	}
	return p.prog, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) *Program {
	prog, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return prog
}

type parser struct {
	sc    scanner
	tok   token
	prog  *Program
	depth int // current stack depth of the emitted code
}

func (p *parser) advance() error {
	tok, err := p.sc.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(kind tokenKind) error {
	if p.tok.kind != kind {
		return newSyntaxError(p.tok.pos, "expected %s, found %s", kind, p.tok.kind)
	}
	return p.advance()
}

// emit appends an instruction and tracks the stack depth it leaves.
func (p *parser) emit(op opcode, arg int, delta int) {
	p.prog.code = append(p.prog.code, instr{op: op, arg: arg})
	p.depth += delta
	p.prog.maxStack = max(p.prog.maxStack, p.depth)
}

func (p *parser) expr() error {
	if err := p.term(); err != nil {
		return err
	}
	for p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		op := opAdd
		if p.tok.kind == tokMinus {
			op = opSub
		}
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.term(); err != nil {
			return err
		}
		p.emit(op, 0, -1)
	}
	return nil
}

func (p *parser) term() error {
	if err := p.unary(); err != nil {
		return err
	}
	for {
		var op opcode
		switch p.tok.kind {
		case tokStar:
			op = opMul
		case tokSlash:
			op = opDiv
		case tokPercent:
			op = opMod
		default:
			return nil
		}
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.unary(); err != nil {
			return err
		}
		p.emit(op, 0, -1)
	}
}

func (p *parser) unary() error {
	switch p.tok.kind {
	case tokMinus:
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.unary(); err != nil {
			return err
		}
		p.emit(opNeg, 0, 0)
		return nil
	case tokPlus:
		if err := p.advance(); err != nil {
			return err
		}
		return p.unary()
	}
	return p.primary()
}

func (p *parser) primary() error {
	tok := p.tok
	switch tok.kind {
	case tokNumber:
		p.emitConst(tok.num)
		return p.advance()

	case tokInput:
		p.emit(opInput, 0, 1)
		return p.advance()

	case tokLParen:
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.expr(); err != nil {
			return err
		}
		return p.expect(tokRParen)

	case tokIdent:
		if err := p.advance(); err != nil {
			return err
		}
		if p.tok.kind == tokLParen {
			return p.call(tok)
		}
		v, ok := constants[tok.text]
		if !ok {
			return &SyntaxError{Pos: tok.pos, Msg: "unknown constant " + tok.text, Err: ErrUnknownName}
		}
		p.emitConst(v)
		return nil
	}
	return newSyntaxError(tok.pos, "unexpected %s", tok.kind)
}

func (p *parser) call(name token) error {
	idx, ok := lookupFunction(name.text)
	if !ok {
		return &SyntaxError{Pos: name.pos, Msg: "unknown function " + name.text, Err: ErrUnknownName}
	}
	if err := p.advance(); err != nil {
		return err
	}

	argc := 0
	if p.tok.kind != tokRParen {
		for {
			if err := p.expr(); err != nil {
				return err
			}
			argc++
			if p.tok.kind != tokComma {
				break
			}
			if err := p.advance(); err != nil {
				return err
			}
		}
	}
	if err := p.expect(tokRParen); err != nil {
		return err
	}
	if argc != functions[idx].arity {
		return &SyntaxError{Pos: name.pos, Msg: name.text + " takes " + plural(functions[idx].arity), Err: ErrArity}
	}
	p.emit(opCall, idx, 1-argc)
	return nil
}

func (p *parser) emitConst(v float64) {
	p.prog.consts = append(p.prog.consts, v)
	p.emit(opConst, len(p.prog.consts)-1, 1)
}

func plural(n int) string {
	if n == 1 {
		return "1 argument"
	}
	return strconv.Itoa(n) + " arguments"
}
