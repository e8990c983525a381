package linecalc

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func FuzzTokenize(f *testing.F) {
	f.Add("x")
	f.Add("0x1f 017 019 .5e3")
	f.Add(`'60:3' "16" ! ?`)
	f.Fuzz(func(t *testing.T, s string) {
		if !utf8.ValidString(s) {
			t.Skip()
		}
		toks, err := Tokenize(s, nil)
		if err != nil {
			return
		}
		for _, tok := range toks {
			if !strings.Contains(s, tok.Text) {
				t.Errorf("%q: token %v is not from the input", s, tok)
			}
			if tok.Kind.IsDirective() {
				t.Errorf("%q: directive token %v in result", s, tok)
			}
		}
	})
}
