package linecalc

import (
	"errors"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// IllegalCharError is an error indicating a rune that cannot start any
// token. It implements InputError.
type IllegalCharError struct {
	// Col is the position of the rune.
	Col int
	// Char is the rune that was not understood.
	Char rune
}

func (err *IllegalCharError) Error() string {
	return englishText(err)
}

func (err *IllegalCharError) Pos() int {
	return err.Col
}

func (err *IllegalCharError) localize(p *message.Printer) string {
	return p.Sprintf(KeyIllegalCharacter, string(err.Char))
}

// QuoteError is an error indicating a quoted directive with no closing
// quote or with contents that are not a size or base. It implements
// InputError.
type QuoteError struct {
	// Col is the position of the opening quote.
	Col int
	// Quote is the quote rune, either ' or ".
	Quote rune
}

func (err *QuoteError) Error() string {
	return englishText(err)
}

func (err *QuoteError) Pos() int {
	return err.Col
}

func (err *QuoteError) localize(p *message.Printer) string {
	if err.Quote == '"' {
		return p.Sprintf(KeyBadDoubleQuote)
	}
	return p.Sprintf(KeyBadSingleQuote)
}

// UnexpectedTokenError is an error indicating a token that cannot appear
// where it was found, including a token left over after a complete
// expression. It implements InputError.
type UnexpectedTokenError struct {
	// Col is the position of the token.
	Col int
	// Text is the token as written.
	Text string
}

func (err *UnexpectedTokenError) Error() string {
	return englishText(err)
}

func (err *UnexpectedTokenError) Pos() int {
	return err.Col
}

func (err *UnexpectedTokenError) localize(p *message.Printer) string {
	return p.Sprintf(KeyUnexpectedToken, err.Text)
}

// MissingTokenError is an error indicating that a required token, e.g. a
// closing parenthesis, was not found. It implements InputError.
type MissingTokenError struct {
	// Col is the position where the token was required.
	Col int
	// Want is the required token.
	Want string
}

func (err *MissingTokenError) Error() string {
	return englishText(err)
}

func (err *MissingTokenError) Pos() int {
	return err.Col
}

func (err *MissingTokenError) localize(p *message.Printer) string {
	return p.Sprintf(KeyMissingToken, err.Want)
}

// IncompleteError is an error indicating that the input ended where an
// operand was required, as in "2 +". It implements InputError.
type IncompleteError struct {
	// Col is the position just past the end of the input.
	Col int
}

func (err *IncompleteError) Error() string {
	return englishText(err)
}

func (err *IncompleteError) Pos() int {
	return err.Col
}

func (err *IncompleteError) localize(p *message.Printer) string {
	return p.Sprintf(KeyIncomplete)
}

// AssignError is an error indicating an assignment to something other than a
// variable. It implements InputError.
type AssignError struct {
	// Col is the position of the assignment operator.
	Col int
}

func (err *AssignError) Error() string {
	return englishText(err)
}

func (err *AssignError) Pos() int {
	return err.Col
}

func (err *AssignError) localize(p *message.Printer) string {
	return p.Sprintf(KeyAssignNonVariable)
}

// CallError is an error indicating a parenthesized argument following a name
// which is neither a function nor a number. It implements InputError.
type CallError struct {
	// Col is the position of the open parenthesis.
	Col int
	// Name is the name that was called.
	Name string
}

func (err *CallError) Error() string {
	return englishText(err)
}

func (err *CallError) Pos() int {
	return err.Col
}

func (err *CallError) localize(p *message.Printer) string {
	return p.Sprintf(KeyCallNonFunction, err.Name)
}

// NameError is an error from using the value of a variable that has never
// been assigned.
type NameError struct {
	// Name is the variable.
	Name string
}

func (err *NameError) Error() string {
	return englishText(err)
}

func (err *NameError) localize(p *message.Printer) string {
	return p.Sprintf(KeyUninitializedVariable, err.Name)
}

// FuncValueError is an error from using a function as a number, e.g. "sin"
// without an argument.
type FuncValueError struct {
	// Name is the function.
	Name string
}

func (err *FuncValueError) Error() string {
	return englishText(err)
}

func (err *FuncValueError) localize(p *message.Printer) string {
	return p.Sprintf(KeyUnresolvableFunction, err.Name)
}

// BuiltinError is an error from binding a value to the name of a built-in
// function or constant.
type BuiltinError struct {
	// Name is the built-in name.
	Name string
}

func (err *BuiltinError) Error() string {
	return englishText(err)
}

func (err *BuiltinError) localize(p *message.Printer) string {
	return p.Sprintf(KeyBuiltin, err.Name)
}

type keyError struct {
	key string
}

func (err *keyError) Error() string {
	return englishText(err)
}

func (err *keyError) localize(p *message.Printer) string {
	return p.Sprintf(err.key)
}

var (
	// ErrNoLast is returned when # is used before any line has been
	// evaluated successfully.
	ErrNoLast error = &keyError{KeyNoLast}
	// ErrNaN is returned by a Calculator with RejectNaN set when a line
	// evaluates to NaN.
	ErrNaN error = &keyError{KeyNaN}
)

// InputError is an error with position information. Every error resulting
// from a malformed line implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based position, in runes, of the token or rune that
	// caused the error.
	Pos() int
}

var (
	_ InputError = (*IllegalCharError)(nil)
	_ InputError = (*QuoteError)(nil)
	_ InputError = (*UnexpectedTokenError)(nil)
	_ InputError = (*MissingTokenError)(nil)
	_ InputError = (*IncompleteError)(nil)
	_ InputError = (*AssignError)(nil)
	_ InputError = (*CallError)(nil)
)

// localizer is implemented by every error of this package.
type localizer interface {
	localize(p *message.Printer) string
}

func englishText(err localizer) string {
	return err.localize(printer(language.English))
}

// Localize renders an error in the catalog language closest to tag. Errors
// not created by this package use their own Error text.
func Localize(err error, tag language.Tag) string {
	var l localizer
	if errors.As(err, &l) {
		return l.localize(printer(tag))
	}
	return err.Error()
}

// nonNumeric creates the error for using a non-numeric result as a number.
func nonNumeric(v value) error {
	switch v.kind {
	case resultVariable:
		return &NameError{Name: v.name}
	case resultFunction:
		return &FuncValueError{Name: v.name}
	default:
		panic("linecalc: numeric result reported as non-numeric: kind " + strconv.Itoa(int(v.kind)))
	}
}
