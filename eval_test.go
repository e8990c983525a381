package linecalc_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"golang.org/x/text/language"

	calc "github.com/zephyrtronium/linecalc"
)

type testHost struct {
	base int
	ds   []calc.Directive
}

func (h *testHost) Directive(d calc.Directive) {
	h.ds = append(h.ds, d)
	if d.Kind == calc.TokenBase {
		h.base = d.Base
	}
}

func (h *testHost) Base() int {
	return h.base
}

func TestCalculate(t *testing.T) {
	type line struct {
		src     string
		status  calc.Status
		display string
		copy    string
	}
	cases := []struct {
		name  string
		lines []line
	}{
		{"empty", []line{
			{"", calc.StatusEmpty, "", ""},
			{"   ", calc.StatusEmpty, "", ""},
			{" ; ;", calc.StatusEmpty, "", ""},
		}},
		{"precedence", []line{
			{"2 + 3 * 4", calc.StatusOK, "14", "14"},
			{"(2 + 3) * 4", calc.StatusOK, "20", "20"},
		}},
		{"implicit", []line{
			{"2(3)", calc.StatusOK, "6", "6"},
			{"2 3", calc.StatusOK, "6", "6"},
		}},
		{"plain-digits", []line{
			{"2 ** 20", calc.StatusOK, "1048576", "1048576"},
			{"1000000", calc.StatusOK, "1000000", "1000000"},
			{"123456789", calc.StatusOK, "123456789", "123456789"},
			{"0.000001", calc.StatusOK, "0.000001", "0.000001"},
			{"10 ** 21", calc.StatusOK, "1e+21", "1e+21"},
		}},
		{"right-assoc", []line{
			{"2 ** 3 ** 2", calc.StatusOK, "512", "512"},
			{"x = y = 5", calc.StatusOK, "5", "5"},
			{"x + y", calc.StatusOK, "10", "10"},
		}},
		{"assign-reference", []line{
			{"a = 7", calc.StatusOK, "7", "7"},
			{"a + 1", calc.StatusOK, "8", "8"},
		}},
		{"uninitialized", []line{
			{"b + 1", calc.StatusError, "uninitialized variable: b", ""},
		}},
		{"last", []line{
			{"#", calc.StatusError, "no last result", ""},
			{"3+4", calc.StatusOK, "7", "7"},
			{"# * 2", calc.StatusOK, "14", "14"},
			{"x", calc.StatusError, "uninitialized variable: x", ""},
			{"#", calc.StatusOK, "14", "14"},
		}},
		{"base", []line{
			{`"16"`, calc.StatusEmpty, "", ""},
			{"255", calc.StatusOK, "ff (base 16)", "ff"},
			{`"" 255`, calc.StatusOK, "255", "255"},
			{`"2" 5`, calc.StatusOK, "101 (base 2)", "101"},
		}},
		{"directive-before-error", []line{
			{`"8" 2 +`, calc.StatusError, "incomplete expression", ""},
			{"8", calc.StatusOK, "10 (base 8)", "10"},
		}},
		{"malformed", []line{
			{"2 +", calc.StatusError, "incomplete expression", ""},
			{"2 @ 3", calc.StatusError, "illegal character: @", ""},
		}},
		{"messages", []line{
			{"1)", calc.StatusError, "unexpected token: )", ""},
			{"(1", calc.StatusError, "missing token: )", ""},
			{"'1", calc.StatusError, "malformed size in single quotes", ""},
			{`"1`, calc.StatusError, "malformed base in double quotes", ""},
			{"sin", calc.StatusError, "function sin needs an argument", ""},
			{"1 = 2", calc.StatusError, "can only assign to a variable", ""},
			{"q(1)", calc.StatusError, "q is not a function", ""},
		}},
		{"nan", []line{
			{"0/0", calc.StatusOK, "NaN", "NaN"},
			{"#", calc.StatusOK, "NaN", "NaN"},
		}},
		{"inf", []line{
			{"1/0", calc.StatusOK, "+Inf", "+Inf"},
			{"-1/0", calc.StatusOK, "-Inf", "-Inf"},
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := testHost{}
			cl := calc.Calculator{Host: &h}
			for _, l := range c.lines {
				out := cl.Calculate(l.src)
				if out.Status != l.status {
					t.Errorf("%q: want status %v, got %v (%q)", l.src, l.status, out.Status, out.Display)
				}
				if out.Display != l.display {
					t.Errorf("%q: want display %q, got %q", l.src, l.display, out.Display)
				}
				if out.Copy != l.copy {
					t.Errorf("%q: want copy %q, got %q", l.src, l.copy, out.Copy)
				}
				if (out.Status == calc.StatusError) != (out.Err != nil) {
					t.Errorf("%q: status %v with error %v", l.src, out.Status, out.Err)
				}
			}
		})
	}
}

func TestCalculateDirectives(t *testing.T) {
	h := testHost{}
	cl := calc.Calculator{Host: &h}
	out := cl.Calculate(`! '40:2' 1 + ? @`)
	if out.Status != calc.StatusError {
		t.Fatalf("want error, got %v %q", out.Status, out.Display)
	}
	want := []calc.Directive{
		{Kind: calc.TokenInputMode, Text: "!", InputMode: true},
		{Kind: calc.TokenSize, Text: "'40:2'", Size: [2]int{40, 2}},
		{Kind: calc.TokenInputMode, Text: "?"},
	}
	if len(h.ds) != len(want) {
		t.Fatalf("want directives %+v, got %+v", want, h.ds)
	}
	for i := range want {
		if h.ds[i] != want[i] {
			t.Errorf("directive %d: want %+v, got %+v", i, want[i], h.ds[i])
		}
	}
}

func TestCalculateRejectNaN(t *testing.T) {
	cl := calc.Calculator{RejectNaN: true}
	if out := cl.Calculate("1 + 1"); out.Status != calc.StatusOK || out.Value != 2 {
		t.Fatalf("want 2, got %+v", out)
	}
	out := cl.Calculate("0/0")
	if out.Status != calc.StatusError {
		t.Fatalf("want error, got %+v", out)
	}
	if !errors.Is(out.Err, calc.ErrNaN) {
		t.Errorf("want ErrNaN, got %v", out.Err)
	}
	if out.Display != "result is not a number" {
		t.Errorf("wrong display %q", out.Display)
	}
	if last, ok := cl.Env.Last(); !ok || last != 2 {
		t.Errorf("NaN replaced the last result: %v (set: %t)", last, ok)
	}
	// Intermediate NaNs are fine if the result is not NaN.
	if out := cl.Calculate("(0/0) & 3"); out.Status != calc.StatusOK || out.Value != 0 {
		t.Errorf("want 0, got %+v", out)
	}
	// Assignments inside a rejected line stay.
	cl.Calculate("n = 0/0")
	if n, ok := cl.Env.Lookup("n"); !ok || !math.IsNaN(n) {
		t.Errorf("want n = NaN, got %v (set: %t)", n, ok)
	}
}

func TestCalculateLanguage(t *testing.T) {
	h := testHost{base: 16}
	cl := calc.Calculator{Host: &h, Lang: language.German}
	if out := cl.Calculate("255"); out.Display != "ff (Basis 16)" || out.Copy != "ff" {
		t.Errorf("wrong German result %+v", out)
	}
	if out := cl.Calculate("b"); out.Display != "nicht initialisierte Variable: b" {
		t.Errorf("wrong German error %q", out.Display)
	}
	cl.Lang = language.MustParse("de-AT")
	if out := cl.Calculate("#"); !strings.HasSuffix(out.Display, "(Basis 16)") {
		t.Errorf("regional German fell back: %q", out.Display)
	}
	cl.Lang = language.Japanese
	if out := cl.Calculate("#"); out.Display != "ff (base 16)" {
		t.Errorf("unsupported language did not fall back to English: %q", out.Display)
	}
}

func TestEvaluateSharedEnv(t *testing.T) {
	env := calc.NewEnv()
	a := calc.Calculator{Env: env}
	b := calc.Calculator{Env: env, Host: &testHost{base: 2}}
	if out := a.Calculate("x = 5"); out.Status != calc.StatusOK {
		t.Fatal(out.Err)
	}
	out := b.Calculate("x + #")
	if out.Display != "1010 (base 2)" {
		t.Errorf("want 1010 (base 2), got %q", out.Display)
	}
	// The host may change the environment between calls.
	env.Set("x", 1)
	if out := a.Calculate("x"); out.Value != 1 {
		t.Errorf("want 1 after host change, got %v", out.Value)
	}
}

func TestEvaluateEmpty(t *testing.T) {
	var cl calc.Calculator
	x, ok, err := cl.Evaluate(nil)
	if x != 0 || ok || err != nil {
		t.Errorf("want no output, got %v %t %v", x, ok, err)
	}
	if _, err := calc.Eval("  ", nil); !errors.As(err, new(*calc.IncompleteError)) {
		t.Errorf("want IncompleteError for empty Eval, got %v", err)
	}
}
