// Package dual implements forward-mode automatic differentiation on
// dual numbers. A Number carries a value and the derivative of that
// value with respect to a single seed variable; arithmetic propagates
// both parts exactly, so derivatives come out to machine precision
// rather than finite-difference accuracy.
package dual

import "math"

// Number is a dual number v + d*eps with eps^2 = 0.
type Number struct {
	Re float64 // value part
	Du float64 // derivative part
}

// Const lifts a plain value; its derivative part is zero.
func Const(v float64) Number { return Number{Re: v} }

// Var lifts the seed variable; its derivative part is one.
func Var(v float64) Number { return Number{Re: v, Du: 1} }

func (a Number) Add(b Number) Number { return Number{a.Re + b.Re, a.Du + b.Du} }
func (a Number) Sub(b Number) Number { return Number{a.Re - b.Re, a.Du - b.Du} }

func (a Number) Mul(b Number) Number {
	return Number{a.Re * b.Re, a.Re*b.Du + a.Du*b.Re}
}

func (a Number) Div(b Number) Number {
	inv := 1.0 / b.Re
	return Number{a.Re * inv, (a.Du - a.Re*inv*b.Du) * inv}
}

func (a Number) Neg() Number { return Number{-a.Re, -a.Du} }

// Scale multiplies by a plain constant.
func (a Number) Scale(c float64) Number { return Number{c * a.Re, c * a.Du} }

// Shift adds a plain constant.
func (a Number) Shift(c float64) Number { return Number{a.Re + c, a.Du} }

func Sin(a Number) Number { return Number{math.Sin(a.Re), math.Cos(a.Re) * a.Du} }
func Cos(a Number) Number { return Number{math.Cos(a.Re), -math.Sin(a.Re) * a.Du} }
func Exp(a Number) Number {
	e := math.Exp(a.Re)
	return Number{e, e * a.Du}
}

func Log(a Number) Number { return Number{math.Log(a.Re), a.Du / a.Re} }

func Sqrt(a Number) Number {
	r := math.Sqrt(a.Re)
	return Number{r, 0.5 * a.Du / r}
}

// Pow raises a to a constant power.
func Pow(a Number, p float64) Number {
	r := math.Pow(a.Re, p)
	return Number{r, p * math.Pow(a.Re, p-1) * a.Du}
}

// Lift copies a float64 vector into constant dual numbers, seeding
// component j with derivative one. Pass j < 0 for no seed.
func Lift(y []float64, j int, dst []Number) {
	for i, v := range y {
		dst[i] = Number{Re: v}
	}
	if j >= 0 && j < len(dst) {
		dst[j].Du = 1
	}
}
