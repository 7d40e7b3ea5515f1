// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectionDelta(t *testing.T) {
	deltas := map[Direction]Delta{
		East:  {X: 1},
		South: {Y: 1},
		West:  {X: -1},
		North: {Y: -1},
	}
	for dir, want := range deltas {
		assert.Equal(t, want, dir.Delta(), dir.String())
		assert.Equal(t, want.Neg(), dir.Opp().Delta(), dir.String())
	}
}

func TestDirectionRotation(t *testing.T) {
	for _, dir := range AllDirections {
		assert.Equal(t, dir, dir.RotateCW().RotateCCW())
		assert.Equal(t, dir, dir.RotateCW().RotateCW().RotateCW().RotateCW())
		assert.Equal(t, dir.Opp(), dir.RotateCW().RotateCW())
		assert.Equal(t, dir, dir.FlipVert().FlipVert())
	}
}

func TestOrientationString(t *testing.T) {
	tests := []struct {
		orient Orientation
		str    string
	}{
		{OrientNormal, "f0"},
		{OrientNormal.RotateCCW(), "f3"},
		{OrientNormal.FlipHorz(), "t2"},
		{OrientNormal.FlipVert(), "t0"},
		{OrientNormal.RotateCW().RotateCW(), "f2"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.str, tc.orient.String())
		parsed, err := ParseOrientation(tc.str)
		assert.NoError(t, err)
		assert.Equal(t, tc.orient, parsed)
	}
	_, err := ParseOrientation("x9")
	assert.Error(t, err)
}

func TestOrientationApply(t *testing.T) {
	for _, dir := range AllDirections {
		assert.Equal(t, dir, OrientNormal.Apply(dir))
		assert.Equal(t, dir.RotateCW(), OrientNormal.RotateCW().Apply(dir))
		assert.Equal(t, dir.RotateCCW(), OrientNormal.RotateCCW().Apply(dir))
		assert.Equal(t, dir.FlipVert(), OrientNormal.FlipVert().Apply(dir))
	}
}

// Apply commutes with negation and four quarter turns compose to identity.
func TestOrientationAlgebra(t *testing.T) {
	orients := []Orientation{
		OrientNormal,
		OrientNormal.RotateCW(),
		OrientNormal.RotateCW().RotateCW(),
		OrientNormal.RotateCCW(),
		OrientNormal.FlipVert(),
		OrientNormal.FlipVert().RotateCW(),
		OrientNormal.FlipHorz(),
		OrientNormal.FlipHorz().RotateCCW(),
	}
	for _, o := range orients {
		for _, dir := range AllDirections {
			assert.Equal(t, o.Apply(dir).Opp(), o.Apply(dir.Opp()))
		}
		assert.Equal(t, o,
			o.RotateCW().RotateCW().RotateCW().RotateCW())
	}
}

func TestOrientationCompose(t *testing.T) {
	o := OrientNormal.FlipVert().RotateCW()
	assert.Equal(t, OrientNormal, o.Compose(o))

	o = OrientNormal.RotateCW().FlipVert()
	assert.Equal(t, OrientNormal.FlipHorz(), o.RotateCCW())
}

func TestOrientationTransformInSize(t *testing.T) {
	size := Size{Width: 2, Height: 1}
	orient := OrientNormal.RotateCW()
	assert.Equal(t, Delta{X: 0, Y: 0},
		orient.TransformInSize(Delta{X: 0, Y: 0}, size))
	assert.Equal(t, Delta{X: 0, Y: 1},
		orient.TransformInSize(Delta{X: 1, Y: 0}, size))
	assert.Equal(t, Size{Width: 1, Height: 2}, orient.ApplySize(size))
}

func TestRectContains(t *testing.T) {
	r := Rect{X: -2, Y: -1, Width: 8, Height: 5}
	assert.True(t, r.Contains(Coords{X: -2, Y: -1}))
	assert.True(t, r.Contains(Coords{X: 5, Y: 3}))
	assert.False(t, r.Contains(Coords{X: 6, Y: 3}))
	assert.False(t, r.Contains(Coords{X: -3, Y: 0}))
	assert.True(t, r.ContainsRect(Rect{X: 0, Y: 0, Width: 2, Height: 2}))
	assert.False(t, r.ContainsRect(Rect{X: 5, Y: 3, Width: 2, Height: 2}))
	assert.True(t, r.Intersects(Rect{X: 5, Y: 3, Width: 2, Height: 2}))
	assert.False(t, r.Intersects(Rect{X: 6, Y: 0, Width: 2, Height: 2}))
}

func TestFixedArithmetic(t *testing.T) {
	half := FixedFromRatio(1, 2)
	assert.Equal(t, FixedOne, half.Add(half))
	assert.Equal(t, FixedZero, half.Sub(half))
	assert.Equal(t, FixedFromRatio(1, 4), half.Mul(half))
	assert.Equal(t, FixedOne, FixedOne.Add(FixedOne)) // saturates
	assert.Equal(t, FixedOne.Neg(), FixedZero.Sub(FixedOne))
	assert.Equal(t, 1, FixedOne.Cmp(FixedZero))
	assert.Equal(t, -1, FixedOne.Neg().Cmp(FixedZero))
	assert.True(t, FixedOne.Neg().IsNegative())
}

func TestFixedEncoding(t *testing.T) {
	for _, f := range []Fixed{FixedZero, FixedOne, FixedFromRatio(-3, 7)} {
		assert.Equal(t, f, FixedFromEncoded(f.Encoded()))
	}
	assert.InDelta(t, 0.5, FixedFromF64(0.5).F64(), 1e-9)
	assert.Equal(t, FixedOne, FixedFromF64(2.5))
}
