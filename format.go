package linecalc

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// Formatted is a result rendered for display.
type Formatted struct {
	// Display is the text to show as the line's output.
	Display string
	// Copy is the bare result, for the clipboard.
	Copy string
}

// IsBase returns whether base is a valid output radix.
func IsBase(base int) bool {
	return 2 <= base && base <= 36
}

// Format renders x in English. See FormatIn.
func Format(x float64, base int) Formatted {
	return FormatIn(language.English, x, base)
}

// FormatIn renders x for display in the catalog language closest to tag.
//
// If IsBase(base), the integer part of x, truncated toward zero, is written
// in that base with lowercase digits, and the display text names the base.
// Otherwise x is written in decimal in the shortest form which parses back
// to x, using plain digits when 1e-6 <= |x| < 1e21 and exponent form outside
// that range. NaN and infinities are NaN, +Inf, and -Inf in every base.
func FormatIn(tag language.Tag, x float64, base int) Formatted {
	if !IsBase(base) {
		s := decimal(x)
		return Formatted{Display: s, Copy: s}
	}
	s := radix(x, base)
	return Formatted{
		Display: Sprint(tag, KeyResult, s, strconv.Itoa(base)),
		Copy:    s,
	}
}

// decimal formats x like JavaScript's Number.prototype.toString.
func decimal(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "+Inf"
	case math.IsInf(x, -1):
		return "-Inf"
	case x == 0:
		// includes -0
		return "0"
	}
	if a := math.Abs(x); 1e-6 <= a && a < 1e21 {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	// The exponent is at least 7 in magnitude here, so trimming its zero
	// padding never empties it.
	s := strconv.FormatFloat(x, 'e', -1, 64)
	k := strings.LastIndexByte(s, 'e')
	return s[:k+2] + strings.TrimLeft(s[k+2:], "0")
}

// radix formats the integer part of x in base.
func radix(x float64, base int) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "+Inf"
	case math.IsInf(x, -1):
		return "-Inf"
	}
	t := math.Trunc(x)
	if -(1<<63) <= t && t < 1<<63 {
		return strconv.FormatInt(int64(t), base)
	}
	n, _ := big.NewFloat(t).Int(nil)
	return n.Text(base)
}
