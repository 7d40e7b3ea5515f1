// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package save

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allDigitalSizes = []WireSize{
	SizeZero, SizeOne, SizeTwo, SizeFour, SizeEight,
}

func TestMinSizeForValue(t *testing.T) {
	for _, size := range allDigitalSizes {
		assert.Equal(t, size, MinSizeForValue(size.Mask()), size.String())
	}
}

func TestSizeHalfDouble(t *testing.T) {
	for _, size := range []WireSize{SizeZero, SizeOne, SizeTwo, SizeFour} {
		d, ok := size.Double()
		assert.True(t, ok)
		assert.Equal(t, size, d.Half())
	}
	_, ok := SizeEight.Double()
	assert.False(t, ok)
	_, ok = SizeAnalog.Double()
	assert.False(t, ok)
}

func TestIntervalIsEmpty(t *testing.T) {
	assert.True(t, EmptyInterval().IsEmpty())
	assert.False(t, FullInterval().IsEmpty())
	assert.False(t, Exactly(SizeZero).IsEmpty())
	assert.False(t, Exactly(SizeAnalog).IsEmpty())
}

func TestIntervalHalf(t *testing.T) {
	assert.True(t, EmptyInterval().Half().Equal(EmptyInterval()))
	assert.True(t, Exactly(SizeOne).Half().Equal(EmptyInterval()))
	assert.True(t, FullInterval().Half().
		Equal(SizeInterval{Lo: SizeOne, Hi: SizeFour}))
	assert.True(t, SizeInterval{Lo: SizeFour, Hi: SizeEight}.Half().
		Equal(SizeInterval{Lo: SizeTwo, Hi: SizeFour}))
}

func TestIntervalDouble(t *testing.T) {
	assert.True(t, EmptyInterval().Double().Equal(EmptyInterval()))
	assert.True(t, Exactly(SizeEight).Double().Equal(EmptyInterval()))
	assert.True(t, SizeInterval{Lo: SizeTwo, Hi: SizeFour}.Double().
		Equal(SizeInterval{Lo: SizeFour, Hi: SizeEight}))
	assert.True(t, SizeInterval{Lo: SizeOne, Hi: SizeEight}.Double().
		Equal(SizeInterval{Lo: SizeTwo, Hi: SizeEight}))
}

func TestIntervalNarrowing(t *testing.T) {
	v := FullInterval()
	assert.True(t, v.MakeAtLeast(SizeTwo))
	assert.False(t, v.MakeAtLeast(SizeOne))
	assert.True(t, v.MakeAtMost(SizeFour))
	assert.False(t, v.MakeAtMost(SizeEight))
	assert.True(t, v.Equal(SizeInterval{Lo: SizeTwo, Hi: SizeFour}))
	assert.True(t, v.IsAmbiguous())

	v = v.Intersection(Exactly(SizeFour))
	lo, ok := v.LowerBound()
	assert.True(t, ok)
	assert.Equal(t, SizeFour, lo)
	assert.False(t, v.IsAmbiguous())

	v = v.Intersection(Exactly(SizeTwo))
	assert.True(t, v.IsEmpty())
	_, ok = v.LowerBound()
	assert.False(t, ok)
}
