package linecalc

import (
	"math"
	"unicode/utf8"

	"fortio.org/log"
)

// resultKind is the kind of value produced by evaluating a subexpression.
type resultKind int8

const (
	resultNumber resultKind = iota
	resultVariable
	resultFunction
)

// value is the result of evaluating a subexpression. Only numeric values may
// be operands of arithmetic.
type value struct {
	kind    resultKind
	numeric bool
	x       float64
	// name is the variable or function name.
	name string
	fn   Func
}

func number(x float64) value {
	return value{kind: resultNumber, numeric: true, x: x}
}

// cursor is a position in a token sequence. It is passed and returned by
// value; evaluation never shares a cursor.
type cursor struct {
	toks []Token
	i    int
}

// peek returns the current token. The result is false at the end of input.
func (c cursor) peek() (Token, bool) {
	if c.i >= len(c.toks) {
		return Token{}, false
	}
	return c.toks[c.i], true
}

// next returns the cursor advanced by one token.
func (c cursor) next() cursor {
	c.i++
	return c
}

// end returns the column just past the last token.
func (c cursor) end() int {
	if len(c.toks) == 0 {
		return 1
	}
	t := c.toks[len(c.toks)-1]
	return t.Col + utf8.RuneCountInString(t.Text)
}

// expect consumes a token of kind k, or else returns a *MissingTokenError.
func (c cursor) expect(k TokenKind, want string) (cursor, error) {
	tok, ok := c.peek()
	if !ok {
		return c, &MissingTokenError{Col: c.end(), Want: want}
	}
	if tok.Kind != k {
		return c, &MissingTokenError{Col: tok.Col, Want: want}
	}
	return c.next(), nil
}

// frame is the binding context of a recursive call: the precedence of the
// operator that requested the operand and whether it groups right to left.
type frame struct {
	prec  int8
	right bool
}

// evaluator evaluates token sequences against an environment. The
// environment is the only state shared across recursive calls.
type evaluator struct {
	env *Env
}

type prefixAction func(e evaluator, tok Token, c cursor) (value, cursor, error)

type infixAction func(e evaluator, left value, tok Token, c cursor) (value, cursor, error)

type infix struct {
	prec  int8
	right bool
	act   infixAction
}

// entryKind distinguishes meanings in the prefix registry.
type entryKind int8

const (
	entryOperator entryKind = iota
	entryConstant
	entryFunction
	entryVariable
)

// prefixEntry is a meaning of a token in prefix position.
type prefixEntry struct {
	kind entryKind
	x    float64
	fn   Func
	act  prefixAction
}

// Precedences. Only their order is significant.
const (
	precAssign int8 = 3
	precOr     int8 = 7
	precXor    int8 = 8
	precAnd    int8 = 9
	precAdd    int8 = 13
	precMul    int8 = 14
	precPow    int8 = 15
	precUnary  int8 = 16
	precCall   int8 = 20
)

var (
	// prefixes maps canonical token text to built-in prefix meanings.
	// Identifiers not in the table are variables.
	prefixes map[string]prefixEntry
	// infixes maps token kinds to binary operators. TokenOpen is absent
	// because its meaning depends on the left operand.
	infixes map[TokenKind]infix

	callInfix        infix
	implicitMulInfix infix
)

func init() {
	prefixes = map[string]prefixEntry{
		"#": {kind: entryOperator, act: prefixLast},
		"+": {kind: entryOperator, act: unary(func(x float64) float64 { return x })},
		"-": {kind: entryOperator, act: unary(func(x float64) float64 { return -x })},
		"(": {kind: entryOperator, act: prefixGroup},
	}
	for name, x := range constants {
		prefixes[name] = prefixEntry{kind: entryConstant, x: x}
	}
	for name, fn := range functions {
		prefixes[name] = prefixEntry{kind: entryFunction, fn: fn}
	}

	infixes = map[TokenKind]infix{
		TokenAssign: {precAssign, true, infixAssign},
		TokenOr:     binary(precOr, false, func(a, b float64) float64 { return float64(toInt32(a) | toInt32(b)) }),
		TokenXor:    binary(precXor, false, func(a, b float64) float64 { return float64(toInt32(a) ^ toInt32(b)) }),
		TokenAnd:    binary(precAnd, false, func(a, b float64) float64 { return float64(toInt32(a) & toInt32(b)) }),
		TokenPlus:   binary(precAdd, false, func(a, b float64) float64 { return a + b }),
		TokenMinus:  binary(precAdd, false, func(a, b float64) float64 { return a - b }),
		TokenTimes:  binary(precMul, false, func(a, b float64) float64 { return a * b }),
		TokenDiv:    binary(precMul, false, func(a, b float64) float64 { return a / b }),
		TokenMod:    binary(precMul, false, math.Mod),
		TokenPow:    binary(precPow, true, pow),
	}
	implicitMulInfix = binary(precMul, false, func(a, b float64) float64 { return a * b })
	implicitMulInfix.act = implicit(implicitMulInfix.act)
	callInfix = infix{precCall, false, infixCall}
}

// Evaluate evaluates a token sequence, such as one produced by Tokenize. The
// second result is false with a nil error if toks is empty, meaning there is
// no output. On success, the result becomes the environment's last result.
// Assignments made before an error remain in effect.
func (calc *Calculator) Evaluate(toks []Token) (float64, bool, error) {
	if len(toks) == 0 {
		return 0, false, nil
	}
	e := evaluator{env: calc.env()}
	c := cursor{toks: toks}
	v, c, err := e.expr(c, frame{})
	if err != nil {
		return 0, false, err
	}
	if tok, ok := c.peek(); ok {
		return 0, false, &UnexpectedTokenError{Col: tok.Col, Text: tok.Text}
	}
	if !v.numeric {
		return 0, false, nonNumeric(v)
	}
	if calc.RejectNaN && math.IsNaN(v.x) {
		return 0, false, ErrNaN
	}
	e.env.SetLast(v.x)
	return v.x, true, nil
}

// expr evaluates one prefix term followed by every infix operation that
// binds more tightly than f.
func (e evaluator) expr(c cursor, f frame) (value, cursor, error) {
	tok, ok := c.peek()
	if !ok {
		return value{}, c, &IncompleteError{Col: c.end()}
	}
	c = c.next()
	left, c, err := e.prefix(tok, c)
	if err != nil {
		return value{}, c, err
	}
	for {
		tok, ok := c.peek()
		if !ok {
			return left, c, nil
		}
		op, consume, err := e.infix(left, tok)
		if err != nil {
			return value{}, c, err
		}
		if op.act == nil {
			return left, c, nil
		}
		if f.prec > op.prec || f.prec == op.prec && !f.right {
			return left, c, nil
		}
		if consume {
			c = c.next()
		}
		log.LogVf("linecalc: infix %v at col %d over %v", tok.Kind, tok.Col, left.x)
		left, c, err = op.act(e, left, tok, c)
		if err != nil {
			return value{}, c, err
		}
	}
}

// prefix resolves and applies the prefix meaning of tok, which has already
// been consumed from c.
func (e evaluator) prefix(tok Token, c cursor) (value, cursor, error) {
	switch tok.Kind {
	case TokenNum:
		return number(tok.Value), c, nil
	case TokenIdent:
		p, ok := prefixes[tok.Text]
		if !ok {
			e.env.declare(tok.Text)
			p = prefixEntry{kind: entryVariable}
		}
		return p.resolve(e, tok, c)
	}
	if p, ok := prefixes[tok.Text]; ok && p.kind == entryOperator {
		return p.resolve(e, tok, c)
	}
	return value{}, c, &UnexpectedTokenError{Col: tok.Col, Text: tok.Text}
}

func (p prefixEntry) resolve(e evaluator, tok Token, c cursor) (value, cursor, error) {
	switch p.kind {
	case entryConstant:
		return number(p.x), c, nil
	case entryFunction:
		return value{kind: resultFunction, name: tok.Text, fn: p.fn}, c, nil
	case entryVariable:
		x, set := e.env.Lookup(tok.Text)
		return value{kind: resultVariable, numeric: set, x: x, name: tok.Text}, c, nil
	case entryOperator:
		return p.act(e, tok, c)
	default:
		panic("linecalc: unexpected prefix entry for " + tok.Text)
	}
}

// infix finds the infix meaning of tok following left. The second result is
// whether tok is consumed by the operation. A zero infix means tok ends the
// expression.
func (e evaluator) infix(left value, tok Token) (infix, bool, error) {
	if op, ok := infixes[tok.Kind]; ok {
		return op, true, nil
	}
	switch tok.Kind {
	case TokenOpen:
		switch {
		case left.kind == resultFunction:
			return callInfix, true, nil
		case left.numeric:
			return implicitMulInfix, false, nil
		default:
			return infix{}, false, &CallError{Col: tok.Col, Name: left.name}
		}
	case TokenNum, TokenIdent, TokenLast:
		return implicitMulInfix, false, nil
	}
	return infix{}, false, nil
}

func prefixLast(e evaluator, tok Token, c cursor) (value, cursor, error) {
	x, ok := e.env.Last()
	if !ok {
		return value{}, c, ErrNoLast
	}
	return number(x), c, nil
}

func prefixGroup(e evaluator, tok Token, c cursor) (value, cursor, error) {
	v, c, err := e.expr(c, frame{})
	if err != nil {
		return value{}, c, err
	}
	c, err = c.expect(TokenClose, ")")
	if err != nil {
		return value{}, c, err
	}
	return v, c, nil
}

func unary(f func(float64) float64) prefixAction {
	return func(e evaluator, tok Token, c cursor) (value, cursor, error) {
		v, c, err := e.expr(c, frame{prec: precUnary})
		if err != nil {
			return value{}, c, err
		}
		if !v.numeric {
			return value{}, c, nonNumeric(v)
		}
		return number(f(v.x)), c, nil
	}
}

func binary(prec int8, right bool, f func(a, b float64) float64) infix {
	act := func(e evaluator, left value, tok Token, c cursor) (value, cursor, error) {
		if !left.numeric {
			return value{}, c, nonNumeric(left)
		}
		v, c, err := e.expr(c, frame{prec: prec, right: right})
		if err != nil {
			return value{}, c, err
		}
		if !v.numeric {
			return value{}, c, nonNumeric(v)
		}
		return number(f(left.x, v.x)), c, nil
	}
	return infix{prec: prec, right: right, act: act}
}

// implicit wraps a multiplication to trace that no operator was written.
func implicit(act infixAction) infixAction {
	return func(e evaluator, left value, tok Token, c cursor) (value, cursor, error) {
		log.LogVf("linecalc: implicit multiplication before %q at col %d", tok.Text, tok.Col)
		return act(e, left, Token{Kind: TokenImplicitMul, Col: tok.Col}, c)
	}
}

func infixAssign(e evaluator, left value, tok Token, c cursor) (value, cursor, error) {
	if left.kind != resultVariable {
		return value{}, c, &AssignError{Col: tok.Col}
	}
	v, c, err := e.expr(c, frame{prec: precAssign, right: true})
	if err != nil {
		return value{}, c, err
	}
	if !v.numeric {
		return value{}, c, nonNumeric(v)
	}
	if err := e.env.Set(left.name, v.x); err != nil {
		return value{}, c, err
	}
	log.LogVf("linecalc: assigned %s = %v", left.name, v.x)
	return value{kind: resultVariable, numeric: true, x: v.x, name: left.name}, c, nil
}

func infixCall(e evaluator, left value, tok Token, c cursor) (value, cursor, error) {
	arg, c, err := e.expr(c, frame{})
	if err != nil {
		return value{}, c, err
	}
	if !arg.numeric {
		return value{}, c, nonNumeric(arg)
	}
	c, err = c.expect(TokenClose, ")")
	if err != nil {
		return value{}, c, err
	}
	return number(left.fn(arg.x)), c, nil
}
