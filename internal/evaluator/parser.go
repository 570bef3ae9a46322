package evaluator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// The expression grammar is deliberately restricted: arithmetic operators,
// parenthesised sub-expressions, named variables and a fixed allow-list of
// functions and constants. There is no general evaluation path, so authored
// content can never escape into code execution.
//
//	expr    := term  (("+" | "-") term)*
//	term    := unary (("*" | "/" | "%") unary)*
//	unary   := "-" unary | power
//	power   := primary ("^" unary)?
//	primary := number | ident | ident "(" expr ("," expr)* ")" | "(" expr ")"

type mathFunc struct {
	arity int
	apply func(args []float64) (float64, error)
}

var functions = map[string]mathFunc{
	"abs": {1, func(a []float64) (float64, error) { return math.Abs(a[0]), nil }},
	"sqrt": {1, func(a []float64) (float64, error) {
		if a[0] < 0 {
			return 0, fmt.Errorf("sqrt of negative value %v", a[0])
		}
		return math.Sqrt(a[0]), nil
	}},
	"exp": {1, func(a []float64) (float64, error) { return math.Exp(a[0]), nil }},
	"ln": {1, func(a []float64) (float64, error) {
		if a[0] <= 0 {
			return 0, fmt.Errorf("ln of non-positive value %v", a[0])
		}
		return math.Log(a[0]), nil
	}},
	"log10": {1, func(a []float64) (float64, error) {
		if a[0] <= 0 {
			return 0, fmt.Errorf("log10 of non-positive value %v", a[0])
		}
		return math.Log10(a[0]), nil
	}},
	"sin":   {1, func(a []float64) (float64, error) { return math.Sin(a[0]), nil }},
	"cos":   {1, func(a []float64) (float64, error) { return math.Cos(a[0]), nil }},
	"tan":   {1, func(a []float64) (float64, error) { return math.Tan(a[0]), nil }},
	"round": {1, func(a []float64) (float64, error) { return math.Round(a[0]), nil }},
	"pow":   {2, func(a []float64) (float64, error) { return math.Pow(a[0], a[1]), nil }},
	"min":   {2, func(a []float64) (float64, error) { return math.Min(a[0], a[1]), nil }},
	"max":   {2, func(a []float64) (float64, error) { return math.Max(a[0], a[1]), nil }},
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

type exprParser struct {
	input string
	pos   int
	env   map[string]float64
}

// evalExpression evaluates a right-hand-side expression against the given
// environment of previously defined names.
func evalExpression(expr string, env map[string]float64) (float64, error) {
	p := &exprParser{input: expr, env: env}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("expression does not evaluate to a finite number")
	}
	return v, nil
}

func (p *exprParser) parseExpr() (float64, error) {
	v, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		switch {
		case p.accept('+'):
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			v += rhs
		case p.accept('-'):
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			v -= rhs
		default:
			return v, nil
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	v, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		switch {
		case p.accept('*'):
			rhs, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			v *= rhs
		case p.accept('/'):
			rhs, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			v /= rhs
		case p.accept('%'):
			rhs, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, fmt.Errorf("modulo by zero")
			}
			v = math.Mod(v, rhs)
		default:
			return v, nil
		}
	}
}

func (p *exprParser) parseUnary() (float64, error) {
	p.skipSpace()
	if p.accept('-') {
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -v, nil
	}
	return p.parsePower()
}

func (p *exprParser) parsePower() (float64, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.accept('^') {
		// Right-associative exponent.
		exp, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exp), nil
	}
	return base, nil
}

func (p *exprParser) parsePrimary() (float64, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0, fmt.Errorf("unexpected end of expression")
	}

	if p.accept('(') {
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if !p.expect(')') {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		return v, nil
	}

	c := p.input[p.pos]
	if c >= '0' && c <= '9' || c == '.' {
		return p.parseNumber()
	}
	if isIdentStart(c) {
		return p.parseIdent()
	}
	return 0, fmt.Errorf("unexpected character %q at position %d", c, p.pos)
}

func (p *exprParser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' || c == '.' {
			p.pos++
			continue
		}
		// Scientific notation: 1.5e-3
		if (c == 'e' || c == 'E') && p.pos > start {
			next := p.pos + 1
			if next < len(p.input) && (p.input[next] == '+' || p.input[next] == '-') {
				next++
			}
			if next < len(p.input) && p.input[next] >= '0' && p.input[next] <= '9' {
				p.pos = next + 1
				continue
			}
		}
		break
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed number %q", p.input[start:p.pos])
	}
	return v, nil
}

func (p *exprParser) parseIdent() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && isIdentPart(p.input[p.pos]) {
		p.pos++
	}
	name := p.input[start:p.pos]

	p.skipSpace()
	if p.accept('(') {
		fn, ok := functions[strings.ToLower(name)]
		if !ok {
			return 0, fmt.Errorf("unknown function %q", name)
		}
		args := make([]float64, 0, fn.arity)
		for {
			v, err := p.parseExpr()
			if err != nil {
				return 0, err
			}
			args = append(args, v)
			p.skipSpace()
			if p.accept(',') {
				continue
			}
			break
		}
		if !p.expect(')') {
			return 0, fmt.Errorf("missing closing parenthesis in call to %q", name)
		}
		if len(args) != fn.arity {
			return 0, fmt.Errorf("function %q expects %d argument(s), got %d", name, fn.arity, len(args))
		}
		return fn.apply(args)
	}

	if v, ok := p.env[name]; ok {
		return v, nil
	}
	if v, ok := constants[strings.ToLower(name)]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("undefined identifier %q", name)
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) accept(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *exprParser) expect(c byte) bool {
	return p.accept(c)
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}
