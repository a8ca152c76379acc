package value

import (
	"math/big"
)

// decimalScale fixes the number of fractional digits carried by every
// Decimal value. Rhai's Decimal is a 96-bit fixed-point (its
// rust_decimal dependency); Go has no 96-bit integer, so DecimalVal
// emulates the same fixed-point behaviour with an arbitrary-precision
// big.Int numerator over a constant scale, which is wide enough that
// overflow in the emulated 96-bit range never happens in script-sized
// arithmetic.
const decimalScale = 18

var decimalScaleFactor = new(big.Int).Exp(big.NewInt(10), big.NewInt(decimalScale), nil)

// DecimalVal is the Decimal variant: fixed-point arithmetic with no
// binary-floating-point rounding surprises.
type DecimalVal struct {
	meta
	// Unscaled holds the value multiplied by 10^decimalScale.
	Unscaled *big.Int
}

func NewDecimal(unscaled *big.Int) *DecimalVal {
	return &DecimalVal{Unscaled: unscaled}
}

// NewDecimalFromFloat builds a DecimalVal from a float64, for literals
// like `1.5d`.
func NewDecimalFromFloat(f float64) *DecimalVal {
	bf := new(big.Float).SetFloat64(f)
	bf.Mul(bf, new(big.Float).SetInt(decimalScaleFactor))
	unscaled, _ := bf.Int(nil)
	return &DecimalVal{Unscaled: unscaled}
}

func (d *DecimalVal) Kind() Kind { return KindDecimal }

func (d *DecimalVal) Clone() DynVal {
	c := &DecimalVal{Unscaled: new(big.Int).Set(d.Unscaled)}
	c.mode = d.mode
	return c
}

func (d *DecimalVal) Flatten() DynVal {
	return &DecimalVal{Unscaled: new(big.Int).Set(d.Unscaled)}
}

func (d *DecimalVal) Float64() float64 {
	bf := new(big.Float).SetInt(d.Unscaled)
	bf.Quo(bf, new(big.Float).SetInt(decimalScaleFactor))
	f, _ := bf.Float64()
	return f
}

func (d *DecimalVal) Add(o *DecimalVal) *DecimalVal {
	return NewDecimal(new(big.Int).Add(d.Unscaled, o.Unscaled))
}

func (d *DecimalVal) Sub(o *DecimalVal) *DecimalVal {
	return NewDecimal(new(big.Int).Sub(d.Unscaled, o.Unscaled))
}

func (d *DecimalVal) Mul(o *DecimalVal) *DecimalVal {
	prod := new(big.Int).Mul(d.Unscaled, o.Unscaled)
	return NewDecimal(prod.Div(prod, decimalScaleFactor))
}

func (d *DecimalVal) Div(o *DecimalVal) (*DecimalVal, bool) {
	if o.Unscaled.Sign() == 0 {
		return nil, false
	}
	num := new(big.Int).Mul(d.Unscaled, decimalScaleFactor)
	return NewDecimal(num.Div(num, o.Unscaled)), true
}

func (d *DecimalVal) Cmp(o *DecimalVal) int {
	return d.Unscaled.Cmp(o.Unscaled)
}

func (d *DecimalVal) Inspect() string {
	s := d.Unscaled.String()
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	for len(s) <= decimalScale {
		s = "0" + s
	}
	intPart := s[:len(s)-decimalScale]
	fracPart := s[len(s)-decimalScale:]
	// Trim trailing zeros in the fractional part but keep at least one digit.
	end := len(fracPart)
	for end > 1 && fracPart[end-1] == '0' {
		end--
	}
	out := intPart + "." + fracPart[:end]
	if neg {
		out = "-" + out
	}
	return out
}
