package linecalc

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token is a lexed token.
type Token struct {
	// Kind is the kind of token.
	Kind TokenKind
	// Text is exactly the input the token was lexed from.
	Text string
	// Value is the value of a number or base directive. Input mode directives
	// hold 1 for ! and 0 for ?.
	Value float64
	// Size is the columns and rows of a size directive.
	Size [2]int
	// Ident is whether the token is a name.
	Ident bool
	// Col is the 1-based position of the token's first rune in the line.
	Col int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Col)
}

// TokenKind is a kind of token.
type TokenKind int8

const (
	TokenNone TokenKind = iota
	// TokenNum is a number literal.
	TokenNum
	// TokenIdent is a variable, function, or constant name.
	TokenIdent

	TokenPlus   // +
	TokenMinus  // -
	TokenTimes  // *
	TokenDiv    // /
	TokenMod    // %
	TokenAssign // =
	TokenLast   // #
	TokenOr     // |
	TokenAnd    // &
	TokenXor    // ^
	TokenOpen   // (
	TokenClose  // )
	TokenPow    // **

	// TokenInputMode is the ! or ? directive.
	TokenInputMode
	// TokenSize is a single-quoted size directive.
	TokenSize
	// TokenBase is a double-quoted base directive.
	TokenBase

	// TokenImplicitMul is the operator between two adjacent operands. The
	// lexer never produces it.
	TokenImplicitMul
)

var tokenNames = [...]string{
	TokenNone:        "None",
	TokenNum:         "Num",
	TokenIdent:       "Ident",
	TokenPlus:        "Plus",
	TokenMinus:       "Minus",
	TokenTimes:       "Times",
	TokenDiv:         "Div",
	TokenMod:         "Mod",
	TokenAssign:      "Assign",
	TokenLast:        "Last",
	TokenOr:          "Or",
	TokenAnd:         "And",
	TokenXor:         "Xor",
	TokenOpen:        "Open",
	TokenClose:       "Close",
	TokenPow:         "Pow",
	TokenInputMode:   "InputMode",
	TokenSize:        "Size",
	TokenBase:        "Base",
	TokenImplicitMul: "ImplicitMul",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenNames) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenNames[k]
}

// IsDirective returns whether k is one of the inline directive kinds.
func (k TokenKind) IsDirective() bool {
	return k == TokenInputMode || k == TokenSize || k == TokenBase
}

// Directive is an inline request to the host, lexed from ! ? '...' or "...".
type Directive struct {
	// Kind is TokenInputMode, TokenSize, or TokenBase.
	Kind TokenKind
	// Text is the directive as written.
	Text string
	// InputMode is the requested input mode of a TokenInputMode directive.
	InputMode bool
	// Size is the requested columns and rows of a TokenSize directive. Zero
	// means the host's default.
	Size [2]int
	// Base is the requested output radix of a TokenBase directive. Values
	// for which IsBase is false request decimal output.
	Base int
}

// Directive converts a directive token to a Directive. Panics if t is not a
// directive.
func (t Token) Directive() Directive {
	d := Directive{Kind: t.Kind, Text: t.Text}
	switch t.Kind {
	case TokenInputMode:
		d.InputMode = t.Value != 0
	case TokenSize:
		d.Size = t.Size
	case TokenBase:
		d.Base = int(t.Value)
	default:
		panic("linecalc: not a directive: " + t.String())
	}
	return d
}

// Operators contains the runes which lex as single-rune operators. ** is
// lexed as a single power operator.
const Operators = "+-*/%=#|&^()"

var opkinds = [...]TokenKind{
	TokenPlus, TokenMinus, TokenTimes, TokenDiv, TokenMod, TokenAssign,
	TokenLast, TokenOr, TokenAnd, TokenXor, TokenOpen, TokenClose,
}

var (
	numberRE = regexp.MustCompile(`^\d*\.?\d+(?:[eE][+-]?\d+)?`)
	hexRE    = regexp.MustCompile(`^0[xX][0-9a-fA-F]+`)
	octalRE  = regexp.MustCompile(`^0[0-7]+`)
	identRE  = regexp.MustCompile(`^\w+`)

	sizeQuoteRE = regexp.MustCompile(`^'([\s\d]*[^\s\d]?[\s\d]*)'`)
	baseQuoteRE = regexp.MustCompile(`^"([\s\d]*)"`)
	sizeRE      = regexp.MustCompile(`^\s*(\d*)(?:\s*\D\s*(\d*))?`)
)

// Tokenize lexes a line of input. Separators (whitespace and ;) between
// tokens are skipped. Each directive is passed to apply as soon as it is
// lexed and is not part of the result; apply may be nil. On error, the
// directives preceding the invalid input have already been applied.
func Tokenize(input string, apply func(Directive)) ([]Token, error) {
	var toks []Token
	col := 1
	for {
		for input != "" {
			r, sz := utf8.DecodeRuneInString(input)
			if r != ';' && !unicode.IsSpace(r) {
				break
			}
			input = input[sz:]
			col++
		}
		if input == "" {
			return toks, nil
		}
		tok, err := lexToken(input, col)
		if err != nil {
			return nil, err
		}
		if tok.Kind.IsDirective() {
			if apply != nil {
				apply(tok.Directive())
			}
		} else {
			toks = append(toks, tok)
		}
		input = input[len(tok.Text):]
		col += utf8.RuneCountInString(tok.Text)
	}
}

// lexToken lexes the token at the start of src, which must be non-empty and
// must not start with a separator.
func lexToken(src string, col int) (Token, error) {
	tok := Token{Col: col}
	r, _ := utf8.DecodeRuneInString(src)
	switch r {
	case '!', '?':
		tok.Kind = TokenInputMode
		tok.Text = src[:1]
		if r == '!' {
			tok.Value = 1
		}
		return tok, nil
	case '\'':
		m := sizeQuoteRE.FindStringSubmatch(src)
		if m == nil {
			return tok, &QuoteError{Col: col, Quote: r}
		}
		size, ok := parseSize(m[1])
		if !ok {
			return tok, &QuoteError{Col: col, Quote: r}
		}
		tok.Kind = TokenSize
		tok.Text = m[0]
		tok.Size = size
		return tok, nil
	case '"':
		m := baseQuoteRE.FindStringSubmatch(src)
		if m == nil {
			return tok, &QuoteError{Col: col, Quote: r}
		}
		base, ok := parseBase(m[1])
		if !ok {
			return tok, &QuoteError{Col: col, Quote: r}
		}
		tok.Kind = TokenBase
		tok.Text = m[0]
		tok.Value = float64(base)
		return tok, nil
	case '*':
		if strings.HasPrefix(src, "**") {
			tok.Kind = TokenPow
			tok.Text = "**"
			return tok, nil
		}
	}
	if k := strings.IndexRune(Operators, r); k >= 0 {
		tok.Kind = opkinds[k]
		tok.Text = src[:1]
		return tok, nil
	}
	if m := numberRE.FindString(src); m != "" {
		return lexNum(src, m, tok), nil
	}
	if m := identRE.FindString(src); m != "" {
		tok.Kind = TokenIdent
		tok.Text = m
		tok.Ident = true
		return tok, nil
	}
	return tok, &IllegalCharError{Col: col, Char: r}
}

// lexNum finishes a number token given the decimal match m at the start of
// src. Literals starting with 0 may instead be hexadecimal, or octal if the
// octal match is at least as long as the decimal one.
func lexNum(src, m string, tok Token) Token {
	tok.Kind = TokenNum
	if m[0] == '0' {
		if h := hexRE.FindString(src); h != "" {
			tok.Text = h
			tok.Value = radixValue(h[2:], 16)
			return tok
		}
		if o := octalRE.FindString(src); o != "" && len(o) >= len(m) {
			tok.Text = o
			tok.Value = radixValue(o[1:], 8)
			return tok
		}
	}
	tok.Text = m
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		// Out of range literals are ±Inf or 0 already.
		if ne, _ := err.(*strconv.NumError); ne == nil || ne.Err != strconv.ErrRange {
			panic("linecalc: invalid number " + strconv.Quote(m) + ": " + err.Error())
		}
	}
	tok.Value = v
	return tok
}

// radixValue converts digits in the given base to the nearest float64.
func radixValue(digits string, base int) float64 {
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		panic("linecalc: invalid base " + strconv.Itoa(base) + " digits " + strconv.Quote(digits))
	}
	r, _ := new(big.Float).SetInt(n).Float64()
	return r
}

// parseSize parses the contents of a size directive, e.g. "60:3". Missing
// numbers are 0.
func parseSize(text string) ([2]int, bool) {
	var size [2]int
	m := sizeRE.FindStringSubmatch(text)
	if m == nil {
		return size, true
	}
	for i, s := range m[1:] {
		n, ok := atoiOrZero(s)
		if !ok {
			return size, false
		}
		size[i] = n
	}
	return size, true
}

// parseBase parses the contents of a base directive. The base is the first
// run of digits after leading whitespace, or 0 if there is none.
func parseBase(text string) (int, bool) {
	text = strings.TrimLeftFunc(text, unicode.IsSpace)
	k := strings.IndexFunc(text, func(r rune) bool { return r < '0' || r > '9' })
	if k >= 0 {
		text = text[:k]
	}
	return atoiOrZero(text)
}

// atoiOrZero parses a decimal digit string, with the empty string being 0.
// It is false only if the number does not fit in an int.
func atoiOrZero(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
