package linecalc

import (
	"fortio.org/log"
	"golang.org/x/text/language"
)

// Host receives inline directives and decides the output base. Typically it
// is the line editor or sheet holding the calculator.
type Host interface {
	// Directive applies an inline directive. It is called during lexing, so
	// it happens even when the rest of the line is invalid.
	Directive(d Directive)
	// Base returns the current output radix. Values for which IsBase is
	// false mean decimal.
	Base() int
}

// Calculator evaluates lines of input. The zero value is usable and
// evaluates in decimal with a fresh Env. A Calculator is not safe for
// concurrent use.
type Calculator struct {
	// Env holds variables and the last result. If nil, it is created on the
	// first evaluation.
	Env *Env
	// Host receives directives and provides the output base. It may be nil.
	Host Host
	// RejectNaN makes a NaN result an error. By default, NaN is a result
	// like any other and displays as NaN.
	RejectNaN bool
	// Lang is the language of display text and error messages. The zero
	// value is English.
	Lang language.Tag
}

// Status is the kind of outcome of calculating a line.
type Status int8

const (
	// StatusOK is a successful evaluation.
	StatusOK Status = iota
	// StatusEmpty means the line had no expression. Hosts should remove the
	// line.
	StatusEmpty
	// StatusError means the line was invalid.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusError:
		return "error"
	default:
		return "Status(?)"
	}
}

// Output is the outcome of calculating a line.
type Output struct {
	Status Status
	// Display is the result or error message text. It is empty for
	// StatusEmpty.
	Display string
	// Copy is the bare result for the clipboard when Status is StatusOK.
	Copy string
	// Value is the numeric result when Status is StatusOK.
	Value float64
	// Err is the error when Status is StatusError.
	Err error
}

func (calc *Calculator) env() *Env {
	if calc.Env == nil {
		calc.Env = NewEnv()
	}
	return calc.Env
}

func (calc *Calculator) base() int {
	if calc.Host == nil {
		return 0
	}
	return calc.Host.Base()
}

func (calc *Calculator) directive(d Directive) {
	log.LogVf("linecalc: directive %v %q", d.Kind, d.Text)
	if calc.Host != nil {
		calc.Host.Directive(d)
	}
}

// Calculate tokenizes and evaluates a line of input and formats the result
// in the host's base.
func (calc *Calculator) Calculate(input string) Output {
	toks, err := Tokenize(input, calc.directive)
	if err != nil {
		return calc.fail(input, err)
	}
	x, ok, err := calc.Evaluate(toks)
	if err != nil {
		return calc.fail(input, err)
	}
	if !ok {
		return Output{Status: StatusEmpty}
	}
	f := FormatIn(calc.Lang, x, calc.base())
	return Output{Status: StatusOK, Display: f.Display, Copy: f.Copy, Value: x}
}

func (calc *Calculator) fail(input string, err error) Output {
	log.LogVf("linecalc: %q: %v", input, err)
	return Output{Status: StatusError, Display: Localize(err, calc.Lang), Err: err}
}

// Eval evaluates a line in env with no host and returns the numeric result.
// An input with no expression is an *IncompleteError. If env is nil, a
// temporary environment is used.
func Eval(input string, env *Env) (float64, error) {
	calc := Calculator{Env: env}
	toks, err := Tokenize(input, nil)
	if err != nil {
		return 0, err
	}
	x, ok, err := calc.Evaluate(toks)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &IncompleteError{Col: 1}
	}
	return x, nil
}
