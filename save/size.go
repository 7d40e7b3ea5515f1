// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package save defines the serialized data model of the circuit core:
// wire sizes and shapes, chip and puzzle identifiers, circuit and
// solution files, profiles, preferences and score curves.
//
package save

// A WireSize is the bit width carried by a digital wire, or Analog for a
// wire carrying a fixed-point voltage sample.
//
type WireSize uint8

// Wire sizes, in increasing order. Analog sorts above every digital size
// so that it can participate in interval constraints, but Half and Double
// never produce it.
const (
	SizeZero WireSize = iota
	SizeOne
	SizeTwo
	SizeFour
	SizeEight
	SizeAnalog
)

// maxDigital is the widest digital wire; wider widths are rejected.
const maxDigital = SizeEight

// MinSizeForValue returns the narrowest wire size able to carry value.
func MinSizeForValue(value uint32) WireSize {
	switch {
	case value > 0xf:
		return SizeEight
	case value > 3:
		return SizeFour
	case value > 1:
		return SizeTwo
	case value > 0:
		return SizeOne
	default:
		return SizeZero
	}
}

// NumBits returns the number of bits carried by the size.
func (s WireSize) NumBits() uint {
	switch s {
	case SizeOne:
		return 1
	case SizeTwo:
		return 2
	case SizeFour:
		return 4
	case SizeEight:
		return 8
	default:
		return 0
	}
}

// Mask returns a bit mask covering the size's payload bits.
func (s WireSize) Mask() uint32 {
	return (uint32(1) << s.NumBits()) - 1
}

// IsAnalog reports whether the size denotes an analog wire.
func (s WireSize) IsAnalog() bool { return s == SizeAnalog }

// Half returns the next size down, used by Double constraints.
func (s WireSize) Half() WireSize {
	switch s {
	case SizeTwo:
		return SizeOne
	case SizeFour:
		return SizeTwo
	case SizeEight:
		return SizeFour
	default:
		return SizeZero
	}
}

// Double returns the next size up and whether it exists.
func (s WireSize) Double() (WireSize, bool) {
	switch s {
	case SizeZero:
		return SizeZero, true
	case SizeOne:
		return SizeTwo, true
	case SizeTwo:
		return SizeFour, true
	case SizeFour:
		return SizeEight, true
	default:
		return 0, false
	}
}

func (s WireSize) String() string {
	switch s {
	case SizeZero:
		return "Zero"
	case SizeOne:
		return "One"
	case SizeTwo:
		return "Two"
	case SizeFour:
		return "Four"
	case SizeEight:
		return "Eight"
	default:
		return "Analog"
	}
}

//---------------------------------------------------------------------------

// A SizeInterval is a closed interval of wire sizes used by the analyzer's
// constraint solver. An interval with lo > hi is empty.
//
type SizeInterval struct {
	Lo WireSize
	Hi WireSize
}

// EmptyInterval returns the canonical empty interval.
func EmptyInterval() SizeInterval {
	return SizeInterval{Lo: SizeAnalog, Hi: SizeZero}
}

// FullInterval returns the interval covering every size.
func FullInterval() SizeInterval {
	return SizeInterval{Lo: SizeZero, Hi: SizeAnalog}
}

// Exactly returns the point interval at size.
func Exactly(size WireSize) SizeInterval {
	return SizeInterval{Lo: size, Hi: size}
}

// AtLeastInterval returns the interval of sizes no smaller than size.
func AtLeastInterval(size WireSize) SizeInterval {
	return SizeInterval{Lo: size, Hi: maxDigital}
}

// IsEmpty reports whether the interval contains no size.
func (v SizeInterval) IsEmpty() bool { return v.Lo > v.Hi }

// IsAmbiguous reports whether the interval contains more than one size.
func (v SizeInterval) IsAmbiguous() bool { return v.Lo < v.Hi }

// LowerBound returns the smallest size in the interval, if any.
func (v SizeInterval) LowerBound() (WireSize, bool) {
	if v.IsEmpty() {
		return 0, false
	}
	return v.Lo, true
}

// MakeAtLeast raises the lower bound to size, reporting whether the
// interval changed.
func (v *SizeInterval) MakeAtLeast(size WireSize) bool {
	if !v.IsEmpty() && v.Lo < size {
		v.Lo = size
		return true
	}
	return false
}

// MakeAtMost lowers the upper bound to size, reporting whether the
// interval changed.
func (v *SizeInterval) MakeAtMost(size WireSize) bool {
	if !v.IsEmpty() && v.Hi > size {
		v.Hi = size
		return true
	}
	return false
}

// Intersection returns the overlap of two intervals.
func (v SizeInterval) Intersection(o SizeInterval) SizeInterval {
	r := v
	if o.Lo > r.Lo {
		r.Lo = o.Lo
	}
	if o.Hi < r.Hi {
		r.Hi = o.Hi
	}
	return r
}

// Half returns the interval of sizes whose double lies in v.
func (v SizeInterval) Half() SizeInterval {
	if v.IsEmpty() || v.Lo > maxDigital {
		return EmptyInterval()
	}
	lo := v.Lo
	if lo < SizeTwo {
		lo = SizeTwo
	}
	hi := v.Hi
	if hi > maxDigital {
		hi = maxDigital
	}
	return SizeInterval{Lo: lo.Half(), Hi: hi.Half()}
}

// Double returns the interval of doubled sizes.
func (v SizeInterval) Double() SizeInterval {
	if v.IsEmpty() {
		return EmptyInterval()
	}
	lo, ok := v.Lo.Double()
	if !ok {
		return EmptyInterval()
	}
	hi, ok := v.Hi.Double()
	if !ok {
		hi = maxDigital
	}
	return SizeInterval{Lo: lo, Hi: hi}
}

// Equal compares intervals, treating all empty intervals as equal.
func (v SizeInterval) Equal(o SizeInterval) bool {
	if v.IsEmpty() {
		return o.IsEmpty()
	}
	return !o.IsEmpty() && v.Lo == o.Lo && v.Hi == o.Hi
}
