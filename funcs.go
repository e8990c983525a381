package linecalc

import (
	"math"
	"math/big"
	"math/bits"
	"sort"

	"github.com/zephyrtronium/bigfloat"
)

// constprec is the precision to which built-in constants are derived before
// rounding to float64.
const constprec = 128

var constants = map[string]float64{
	"PI":      float64At(bigfloat.Pi),
	"E":       float64At(func(out *big.Float) *big.Float { return bigfloat.Exp(out, one()) }),
	"SQRT2":   float64At(func(out *big.Float) *big.Float { return out.Sqrt(two()) }),
	"SQRT1_2": float64At(func(out *big.Float) *big.Float { return out.Quo(one(), out.Sqrt(two())) }),
	"LN2":     float64At(func(out *big.Float) *big.Float { return bigfloat.Log(out, two()) }),
	"LN10":    float64At(func(out *big.Float) *big.Float { return bigfloat.Log(out, ten()) }),
	"LOG2E":   float64At(func(out *big.Float) *big.Float { return out.Quo(one(), bigfloat.Log(out, two())) }),
	"LOG10E":  float64At(func(out *big.Float) *big.Float { return out.Quo(one(), bigfloat.Log(out, ten())) }),
	"EPSILON": 0x1p-52,
}

// float64At computes a constant at constprec bits and rounds it to the
// nearest float64.
func float64At(f func(out *big.Float) *big.Float) float64 {
	r, _ := f(new(big.Float).SetPrec(constprec)).Float64()
	return r
}

func one() *big.Float { return new(big.Float).SetPrec(constprec).SetInt64(1) }
func two() *big.Float { return new(big.Float).SetPrec(constprec).SetInt64(2) }
func ten() *big.Float { return new(big.Float).SetPrec(constprec).SetInt64(10) }

// Func is a built-in function of one real argument.
type Func func(x float64) float64

var functions = map[string]Func{
	"log10": math.Log10,
	"log2":  math.Log2,
	"log1p": math.Log1p,
	"log":   math.Log,
	"exp":   math.Exp,
	"expm1": math.Expm1,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"asinh": math.Asinh,
	"acosh": math.Acosh,
	"atanh": math.Atanh,
	"sqrt":  math.Sqrt,
	"cbrt":  math.Cbrt,
	"abs":   math.Abs,
	"sign":  sign,
	"floor": math.Floor,
	"ceil":  math.Ceil,
	"round": round,
	"trunc": math.Trunc,
	"fround": func(x float64) float64 {
		return float64(float32(x))
	},
	"clz32": func(x float64) float64 {
		return float64(bits.LeadingZeros32(toUint32(x)))
	},
}

// sign returns -1, +1, or x itself if x is a zero or NaN.
func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return x
	}
}

// round rounds half-way cases toward +Inf. Results in [-0.5, 0) are -0.
func round(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	if r == 0 && math.Signbit(x) {
		return math.Copysign(0, -1)
	}
	return r
}

// toInt32 converts x to an integer modulo 2**32 in [-2**31, 2**31).
// Non-finite values are 0.
func toInt32(x float64) int32 {
	return int32(toUint32(x))
}

// toUint32 converts x to an integer modulo 2**32. Non-finite values are 0.
func toUint32(x float64) uint32 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	t := math.Mod(math.Trunc(x), 1<<32)
	if t < 0 {
		t += 1 << 32
	}
	return uint32(t)
}

// pow is x**y with the exception that 1**±Inf and (-1)**±Inf are NaN.
func pow(x, y float64) float64 {
	if math.IsInf(y, 0) && (x == 1 || x == -1) {
		return math.NaN()
	}
	return math.Pow(x, y)
}

// Builtin returns whether name is a built-in function or constant and thus
// cannot be bound as a variable.
func Builtin(name string) bool {
	if _, ok := constants[name]; ok {
		return true
	}
	_, ok := functions[name]
	return ok
}

// Builtins returns the names of all built-in functions and constants in
// lexical order.
func Builtins() []string {
	r := make([]string, 0, len(constants)+len(functions))
	for k := range constants {
		r = append(r, k)
	}
	for k := range functions {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}
