package dual

import (
	"math"
	"testing"
)

func TestArithmetic(t *testing.T) {
	x := Var(3.0)
	c := Const(2.0)

	tests := []struct {
		name     string
		got      Number
		val, der float64
	}{
		{"add", x.Add(c), 5, 1},
		{"sub", x.Sub(c), 1, 1},
		{"mul", x.Mul(x), 9, 6},
		{"div", c.Div(x), 2.0 / 3.0, -2.0 / 9.0},
		{"neg", x.Neg(), -3, -1},
		{"scale", x.Scale(4), 12, 4},
		{"shift", x.Shift(1), 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got.Re-tt.val) > 1e-12 {
				t.Errorf("value = %v, want %v", tt.got.Re, tt.val)
			}
			if math.Abs(tt.got.Du-tt.der) > 1e-12 {
				t.Errorf("derivative = %v, want %v", tt.got.Du, tt.der)
			}
		})
	}
}

func TestFunctions(t *testing.T) {
	x := Var(0.7)

	tests := []struct {
		name     string
		got      Number
		val, der float64
	}{
		{"sin", Sin(x), math.Sin(0.7), math.Cos(0.7)},
		{"cos", Cos(x), math.Cos(0.7), -math.Sin(0.7)},
		{"exp", Exp(x), math.Exp(0.7), math.Exp(0.7)},
		{"log", Log(x), math.Log(0.7), 1 / 0.7},
		{"sqrt", Sqrt(x), math.Sqrt(0.7), 0.5 / math.Sqrt(0.7)},
		{"pow", Pow(x, 3), math.Pow(0.7, 3), 3 * 0.7 * 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got.Re-tt.val) > 1e-12 {
				t.Errorf("value = %v, want %v", tt.got.Re, tt.val)
			}
			if math.Abs(tt.got.Du-tt.der) > 1e-12 {
				t.Errorf("derivative = %v, want %v", tt.got.Du, tt.der)
			}
		})
	}
}

func TestChainRule(t *testing.T) {
	// f(x) = exp(sin(x^2)), f'(x) = exp(sin(x^2)) * cos(x^2) * 2x
	x := Var(1.3)
	f := Exp(Sin(x.Mul(x)))

	want := math.Exp(math.Sin(1.69)) * math.Cos(1.69) * 2.6
	if math.Abs(f.Du-want) > 1e-12 {
		t.Errorf("chain rule derivative = %v, want %v", f.Du, want)
	}
}

func TestLift(t *testing.T) {
	y := []float64{1, 2, 3}
	dst := make([]Number, 3)

	Lift(y, 1, dst)

	for i := range y {
		if dst[i].Re != y[i] {
			t.Errorf("value %d = %v, want %v", i, dst[i].Re, y[i])
		}
	}
	if dst[0].Du != 0 || dst[1].Du != 1 || dst[2].Du != 0 {
		t.Errorf("seed wrong: %v", dst)
	}

	Lift(y, -1, dst)
	for i := range dst {
		if dst[i].Du != 0 {
			t.Errorf("unseeded lift has derivative at %d", i)
		}
	}
}
