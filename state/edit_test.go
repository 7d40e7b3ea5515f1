// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package state

import (
	"testing"

	"github.com/db47h/tachy/geom"
	"github.com/db47h/tachy/save"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wireMap(pairs ...interface{}) map[PortLoc]save.WireShape {
	m := make(map[PortLoc]save.WireShape)
	for i := 0; i < len(pairs); i += 2 {
		m[pairs[i].(PortLoc)] = pairs[i+1].(save.WireShape)
	}
	return m
}

func TestNewEditGridIsEmpty(t *testing.T) {
	g := NewEditGrid(save.TutorialOr)
	assert.Equal(t, geom.Rect{X: 0, Y: 0, Width: 5, Height: 5}, g.Bounds())
	assert.False(t, g.HasErrors())
	assert.Len(t, g.Interfaces(), 3)
	assert.False(t, g.IsModified())
}

func TestAddChipUndoRedo(t *testing.T) {
	g := NewEditGrid(save.TutorialOr)
	coords := geom.Coords{X: 1, Y: 1}
	and := save.ChipType{Kind: save.ChipAnd}

	require.True(t, g.TryMutate([]GridChange{
		AddChip(coords, and, geom.OrientNormal),
	}))
	assert.True(t, g.HasChipAt(coords))
	assert.True(t, g.IsModified())

	require.True(t, g.Undo())
	assert.False(t, g.HasChipAt(coords))
	require.True(t, g.Redo())
	assert.True(t, g.HasChipAt(coords))
}

func TestEventChipsNeedEventTask(t *testing.T) {
	g := NewEditGrid(save.TutorialOr)
	button := save.ChipType{Kind: save.ChipButton}
	assert.False(t, g.AllowedChip(button))
	assert.False(t, g.TryMutate([]GridChange{
		AddChip(geom.Coords{X: 1, Y: 1}, button, geom.OrientNormal),
	}))

	g = NewEditGrid(save.SandboxEvent)
	assert.True(t, g.AllowedChip(button))
}

func TestChipsCannotOverlap(t *testing.T) {
	g := NewEditGrid(save.TutorialOr)
	and := save.ChipType{Kind: save.ChipAnd}
	require.True(t, g.TryMutate([]GridChange{
		AddChip(geom.Coords{X: 1, Y: 1}, and, geom.OrientNormal),
	}))
	assert.False(t, g.TryMutate([]GridChange{
		AddChip(geom.Coords{X: 1, Y: 1}, and, geom.OrientNormal),
	}))
	// A failed group must leave the grid untouched.
	assert.True(t, g.HasChipAt(geom.Coords{X: 1, Y: 1}))
}

func TestReplaceWires(t *testing.T) {
	g := NewEditGrid(save.TutorialOr)
	a := portAt(0, 0, geom.East)
	b := portAt(1, 0, geom.West)

	require.True(t, g.TryMutate([]GridChange{
		ReplaceWires(wireMap(), wireMap(a, save.Stub, b, save.Stub)),
	}))
	shape, ok := g.WireShapeAt(a)
	require.True(t, ok)
	assert.Equal(t, save.Stub, shape)

	// Removing one side of a stub pair leaves a dangling mate.
	assert.False(t, g.TryMutate([]GridChange{
		ReplaceWires(wireMap(a, save.Stub), wireMap()),
	}))
	// Removing both sides is fine.
	require.True(t, g.TryMutate([]GridChange{
		ReplaceWires(wireMap(a, save.Stub, b, save.Stub), wireMap()),
	}))
	_, ok = g.WireShapeAt(a)
	assert.False(t, ok)
}

func TestProvisionalChangesRollBack(t *testing.T) {
	g := NewEditGrid(save.TutorialOr)
	a := portAt(0, 0, geom.East)
	b := portAt(1, 0, geom.West)

	require.True(t, g.TryMutateProvisionally([]GridChange{
		ReplaceWires(wireMap(), wireMap(a, save.Stub, b, save.Stub)),
	}))
	assert.True(t, g.HasProvisionalChanges())
	require.True(t, g.RollBackProvisionalChanges())
	_, ok := g.WireShapeAt(a)
	assert.False(t, ok)
	// Rolled-back changes never reach the undo stack.
	assert.False(t, g.Undo())
}

func TestSetBounds(t *testing.T) {
	g := NewEditGrid(save.TutorialOr)
	cur := g.Bounds()
	require.True(t, g.TryMutate([]GridChange{
		SetBounds(cur, geom.Rect{X: -1, Y: 0, Width: 6, Height: 5}),
	}))
	assert.Equal(t, geom.Rect{X: -1, Y: 0, Width: 6, Height: 5}, g.Bounds())

	// Bounds cannot shrink past a placed chip.
	g = NewEditGrid(save.TutorialOr)
	require.True(t, g.TryMutate([]GridChange{
		AddChip(geom.Coords{X: 3, Y: 3}, save.ChipType{Kind: save.ChipAnd},
			geom.OrientNormal),
	}))
	assert.False(t, g.TryMutate([]GridChange{
		SetBounds(g.Bounds(), geom.Rect{X: 0, Y: 0, Width: 3, Height: 3}),
	}))
}

func TestCircuitDataRoundTrip(t *testing.T) {
	g := EditGridFromCircuitData(save.TutorialOr, tutorialOrCircuit())
	require.False(t, g.HasErrors())

	data := g.ToCircuitData()
	g2 := EditGridFromCircuitData(save.TutorialOr, data)
	assert.Equal(t, g.fragments, g2.fragments)
	assert.Equal(t, data.SerializeToString(),
		g2.ToCircuitData().SerializeToString())
}
