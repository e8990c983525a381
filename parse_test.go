package linecalc_test

import (
	"errors"
	"math"
	"testing"

	calc "github.com/zephyrtronium/linecalc"
)

func TestEvalValues(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    float64
	}{
		{"num", "1", 1},
		{"precedence", "2 + 3 * 4", 14},
		{"group", "(2 + 3) * 4", 20},
		{"nested-group", "((2))", 2},
		{"sub-left", "10 - 4 - 3", 3},
		{"div-left", "100 / 10 / 5", 2},
		{"mod", "7 % 3", 1},
		{"mod-neg", "-7 % 3", -1},
		{"mod-frac", "5.5 % 2", 1.5},
		{"pow", "2 ** 10", 1024},
		{"pow-right", "2 ** 3 ** 2", 512},
		{"pow-neg-exp", "2 ** -1", 0.5},
		{"unary-over-pow", "-2 ** 2", 4},
		{"unary-plus", "+-+3", -3},
		{"double-neg", "--3", 3},
		{"implicit-group", "2(3)", 6},
		{"implicit-space", "2 3", 6},
		{"implicit-chain", "2 3 4", 24},
		{"implicit-under-pow", "2 3 ** 2", 18},
		{"implicit-after-pow", "2 ** 3(2)", 16},
		{"implicit-groups", "(1 + 1)(2 + 1)", 6},
		{"implicit-const", "2PI", 2 * math.Pi},
		{"implicit-call", "2 sqrt(16)", 8},
		{"call-then-implicit", "sqrt(16) 2", 8},
		{"implicit-over-add", "1 + 2 3", 7},
		{"or", "5 | 2", 7},
		{"and", "6 & 3", 2},
		{"xor", "6 ^ 3", 5},
		{"bitwise-precedence", "1 | 2 ^ 3 & 1", 3},
		{"add-over-or", "2 + 3 | 8", 13},
		{"or-neg", "-1 | 0", -1},
		{"or-wrap", "4294967296 | 0", 0},
		{"or-sign", "2147483648 | 0", -2147483648},
		{"or-trunc", "1.9 | 0", 1},
		{"or-trunc-neg", "-1.9 | 0", -1},
		{"or-inf", "1/0 | 0", 0},
		{"hex-octal", "0x10 + 010", 24},
		{"decimal-not-octal", "09 + 1", 10},
		{"div-zero", "1/0", math.Inf(1)},
		{"div-zero-neg", "-1/0", math.Inf(-1)},
		{"overflow", "1e308 * 10", math.Inf(1)},
		{"pi", "PI", math.Pi},
		{"e", "E", math.E},
		{"sqrt2", "SQRT2", math.Sqrt2},
		{"sqrt1_2", "SQRT1_2", math.Sqrt2 / 2},
		{"ln2", "LN2", math.Ln2},
		{"ln10", "LN10", math.Ln10},
		{"log2e", "LOG2E", math.Log2E},
		{"log10e", "LOG10E", math.Log10E},
		{"epsilon", "EPSILON", 0x1p-52},
		{"call", "sqrt(16)", 4},
		{"call-expr", "sqrt(9 + 16)", 5},
		{"call-nested", "abs(sqrt(4) - 3)", 1},
		{"call-neg", "-abs(3)", -3},
		{"group-func-call", "(sqrt)(4)", 2},
		{"func-pow", "sqrt(4) ** 2", 4},
		{"semicolons", "1;+;2", 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.Eval(c.src, nil)
			if err != nil {
				t.Fatalf("%q: unexpected error %v", c.src, err)
			}
			if r != c.r {
				t.Errorf("%q: want %v, got %v", c.src, c.r, r)
			}
		})
	}
}

func TestEvalNaN(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"zero-over-zero", "0/0"},
		{"inf-minus-inf", "1/0 - 1/0"},
		{"sqrt-neg", "sqrt(-1)"},
		{"log-neg", "log(-1)"},
		{"mod-zero", "1 % 0"},
		{"one-pow-inf", "1 ** (1/0)"},
		{"minus-one-pow-inf", "(-1) ** (-1/0)"},
		{"neg-pow-frac", "(-8) ** (1/3)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.Eval(c.src, nil)
			if err != nil {
				t.Fatalf("%q: unexpected error %v", c.src, err)
			}
			if !math.IsNaN(r) {
				t.Errorf("%q: want NaN, got %v", c.src, r)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		// col is the expected position for InputErrors, or 0 if the error is
		// not positional.
		col   int
		check func(error) bool
	}{
		{"incomplete", "2 +", 4, is[*calc.IncompleteError]()},
		{"incomplete-pow", "2 **", 5, is[*calc.IncompleteError]()},
		{"incomplete-unary", "-", 2, is[*calc.IncompleteError]()},
		{"incomplete-assign", "x =", 4, is[*calc.IncompleteError]()},
		{"illegal", "2 @ 3", 3, is[*calc.IllegalCharError]()},
		{"uninitialized", "b + 1", 0, isName("b")},
		{"uninitialized-rhs", "1 + b", 0, isName("b")},
		{"uninitialized-alone", "b", 0, isName("b")},
		{"uninitialized-unary", "-b", 0, isName("b")},
		{"uninitialized-implicit", "2 b", 0, isName("b")},
		{"uninitialized-call-arg", "sqrt(b)", 0, isName("b")},
		{"uninitialized-assign", "a = b", 0, isName("b")},
		{"func-value", "sin", 0, isFunc("sin")},
		{"func-operand", "sin + 1", 0, isFunc("sin")},
		{"func-no-parens", "sin 2", 0, isFunc("sin")},
		{"func-rhs", "2 * cos", 0, isFunc("cos")},
		{"assign-number", "3 = 4", 3, is[*calc.AssignError]()},
		{"assign-const", "PI = 3", 4, is[*calc.AssignError]()},
		{"assign-func", "sin = 3", 5, is[*calc.AssignError]()},
		{"assign-group-number", "(2) = 3", 5, is[*calc.AssignError]()},
		{"assign-sum", "x + 1 = 3", 0, isName("x")},
		{"call-variable", "x(3)", 2, isCall("x")},
		{"missing-close", "(1", 3, isMissing(")")},
		{"missing-close-implicit", "(1 2", 5, isMissing(")")},
		{"missing-close-call", "sqrt(4", 7, isMissing(")")},
		{"assign-in-group", "(1 =", 4, is[*calc.AssignError]()},
		{"extra-close", "1)", 2, isUnexpected(")")},
		{"leading-op", "*2", 1, isUnexpected("*")},
		{"leading-pow", "**2", 1, isUnexpected("**")},
		{"empty-group", "()", 2, isUnexpected(")")},
		{"empty-call", "sqrt()", 6, isUnexpected(")")},
		{"double-op", "2 * / 3", 5, isUnexpected("/")},
		{"no-last", "#", 0, isErr(calc.ErrNoLast)},
		{"no-last-expr", "# * 2", 0, isErr(calc.ErrNoLast)},
		{"quote", "'1", 1, is[*calc.QuoteError]()},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.Eval(c.src, nil)
			if err == nil {
				t.Fatalf("%q: no error, got %v", c.src, r)
			}
			if !c.check(err) {
				t.Errorf("%q: wrong error %#v", c.src, err)
			}
			var ie calc.InputError
			switch {
			case errors.As(err, &ie):
				if ie.Pos() != c.col {
					t.Errorf("%q: want col %d, got %d", c.src, c.col, ie.Pos())
				}
			case c.col != 0:
				t.Errorf("%q: %T is not an InputError", c.src, err)
			}
			if err.Error() == "" {
				t.Errorf("%q: empty error message", c.src)
			}
		})
	}
}

func is[E error]() func(error) bool {
	return func(err error) bool {
		var e E
		return errors.As(err, &e)
	}
}

func isErr(target error) func(error) bool {
	return func(err error) bool {
		return errors.Is(err, target)
	}
}

func isName(name string) func(error) bool {
	return func(err error) bool {
		var e *calc.NameError
		return errors.As(err, &e) && e.Name == name
	}
}

func isFunc(name string) func(error) bool {
	return func(err error) bool {
		var e *calc.FuncValueError
		return errors.As(err, &e) && e.Name == name
	}
}

func isCall(name string) func(error) bool {
	return func(err error) bool {
		var e *calc.CallError
		return errors.As(err, &e) && e.Name == name
	}
}

func isMissing(want string) func(error) bool {
	return func(err error) bool {
		var e *calc.MissingTokenError
		return errors.As(err, &e) && e.Want == want
	}
}

func isUnexpected(text string) func(error) bool {
	return func(err error) bool {
		var e *calc.UnexpectedTokenError
		return errors.As(err, &e) && e.Text == text
	}
}

func TestEvalVariables(t *testing.T) {
	cases := []struct {
		name string
		// src is evaluated in order in one environment.
		src  []string
		want map[string]float64
		r    float64
	}{
		{"assign", []string{"a = 7"}, map[string]float64{"a": 7}, 7},
		{"reference", []string{"a = 7", "a + 1"}, map[string]float64{"a": 7}, 8},
		{"chain", []string{"x = y = 5"}, map[string]float64{"x": 5, "y": 5}, 5},
		{"assign-group", []string{"(x) = 3"}, map[string]float64{"x": 3}, 3},
		{"assign-in-expr", []string{"(x = 3) * 2"}, map[string]float64{"x": 3}, 6},
		{"assign-lowest", []string{"x = 1 + 2 * 3"}, map[string]float64{"x": 7}, 7},
		{"reassign", []string{"x = 1", "x = x + 1", "x = x * 10"}, map[string]float64{"x": 20}, 20},
		{"implicit", []string{"x = 3", "2x"}, map[string]float64{"x": 3}, 6},
		{"implicit-paren", []string{"x = 3", "x(2)"}, map[string]float64{"x": 3}, 6},
		{"pow-assign", []string{"x = 2 ** y = 3"}, nil, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			env := calc.NewEnv()
			var r float64
			var err error
			for _, src := range c.src {
				r, err = calc.Eval(src, env)
			}
			if c.want == nil {
				if err == nil {
					t.Errorf("%q: no error, got %v", c.src, r)
				}
				return
			}
			if err != nil {
				t.Fatalf("%q: unexpected error %v", c.src, err)
			}
			if r != c.r {
				t.Errorf("%q: want %v, got %v", c.src, c.r, r)
			}
			for name, want := range c.want {
				got, ok := env.Lookup(name)
				if !ok || got != want {
					t.Errorf("%q: want %s = %v, got %v (set: %t)", c.src, name, want, got, ok)
				}
			}
		})
	}
}

func TestAssignmentSurvivesError(t *testing.T) {
	env := calc.NewEnv()
	_, err := calc.Eval("(a = 7) + b", env)
	if !isName("b")(err) {
		t.Fatalf("want uninitialized b, got %v", err)
	}
	if a, ok := env.Lookup("a"); !ok || a != 7 {
		t.Errorf("want a = 7 after error, got %v (set: %t)", a, ok)
	}
	if _, ok := env.Last(); ok {
		t.Error("failed evaluation set the last result")
	}
	if !env.Declared("b") {
		t.Error("b was not declared by the failed reference")
	}
}

func TestLazyDeclaration(t *testing.T) {
	env := calc.NewEnv()
	if _, err := calc.Eval("z", env); !isName("z")(err) {
		t.Fatalf("want uninitialized z, got %v", err)
	}
	if _, err := calc.Eval("q = 1", env); err != nil {
		t.Fatal(err)
	}
	if _, err := calc.Eval("z = 2", env); err != nil {
		t.Fatal(err)
	}
	want := []string{"z", "q"}
	got := env.Names()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("want declaration order %q, got %q", want, got)
	}
}
