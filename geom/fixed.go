// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package geom

import "math"

// fixedLimit is the raw value representing 1.0.
const fixedLimit int32 = 1000000000

// A Fixed is a fixed-point number clamped to [-1.0, 1.0], used for analog
// wire samples. The zero value is 0.0.
//
type Fixed struct {
	raw int32
}

// FixedZero and FixedOne are the two distinguished analog levels.
var (
	FixedZero = Fixed{}
	FixedOne  = Fixed{raw: fixedLimit}
)

func clampFixed(raw int64) Fixed {
	if raw >= int64(fixedLimit) {
		return Fixed{raw: fixedLimit}
	}
	if raw <= int64(-fixedLimit) {
		return Fixed{raw: -fixedLimit}
	}
	return Fixed{raw: int32(raw)}
}

// FixedFromF64 converts a float to the nearest representable Fixed.
func FixedFromF64(v float64) Fixed {
	v = math.Max(-1, math.Min(1, v))
	return clampFixed(int64(math.Round(v * float64(fixedLimit))))
}

// FixedFromRatio returns num/den rounded to the nearest Fixed.
func FixedFromRatio(num, den int32) Fixed {
	sign := int64(1)
	n, d := int64(num), int64(den)
	if n < 0 {
		sign, n = -sign, -n
	}
	if d < 0 {
		sign, d = -sign, -d
	}
	q := (2*n*int64(fixedLimit) + d) / (2 * d)
	return clampFixed(sign * q)
}

// FixedFromEncoded reinterprets a raw wire value as an analog sample.
func FixedFromEncoded(encoded uint32) Fixed {
	return clampFixed(int64(int32(encoded)))
}

// Encoded returns the sample's raw wire representation.
func (f Fixed) Encoded() uint32 { return uint32(f.raw) }

// F64 converts the sample to a float in [-1, 1].
func (f Fixed) F64() float64 { return float64(f.raw) / float64(fixedLimit) }

// Abs returns the sample's magnitude.
func (f Fixed) Abs() Fixed {
	if f.raw < 0 {
		return Fixed{raw: -f.raw}
	}
	return f
}

// Neg returns the negated sample.
func (f Fixed) Neg() Fixed { return Fixed{raw: -f.raw} }

// Add returns the saturating sum of two samples.
func (f Fixed) Add(o Fixed) Fixed {
	return clampFixed(int64(f.raw) + int64(o.raw))
}

// Sub returns the saturating difference of two samples.
func (f Fixed) Sub(o Fixed) Fixed {
	return clampFixed(int64(f.raw) - int64(o.raw))
}

// Mul returns the product of two samples.
func (f Fixed) Mul(o Fixed) Fixed {
	p := int64(f.raw) * int64(o.raw)
	return clampFixed(p / int64(fixedLimit))
}

// Cmp compares two samples, returning -1, 0 or +1.
func (f Fixed) Cmp(o Fixed) int {
	switch {
	case f.raw < o.raw:
		return -1
	case f.raw > o.raw:
		return 1
	default:
		return 0
	}
}

// IsNegative reports whether the sample is below zero.
func (f Fixed) IsNegative() bool { return f.raw < 0 }
