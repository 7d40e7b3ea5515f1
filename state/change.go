// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package state

import (
	"github.com/db47h/tachy/geom"
	"github.com/db47h/tachy/save"
)

// A GridChange is one atomic edit to a grid. Changes are invertible so
// the undo stack can replay them backwards.
//
type GridChange struct {
	Kind GridChangeKind

	// ReplaceWires: fragments removed and fragments added.
	OldWires map[PortLoc]save.WireShape
	NewWires map[PortLoc]save.WireShape

	// AddChip / RemoveChip.
	Coords geom.Coords
	Chip   save.ChipType
	Orient geom.Orientation

	// SetBounds.
	OldBounds geom.Rect
	NewBounds geom.Rect
}

// GridChangeKind discriminates GridChange.
type GridChangeKind uint8

const (
	// ChangeReplaceWires swaps one set of wire fragments for another.
	ChangeReplaceWires GridChangeKind = iota
	// ChangeAddChip places a chip onto the board.
	ChangeAddChip
	// ChangeRemoveChip removes a chip from the board.
	ChangeRemoveChip
	// ChangeSetBounds resizes the board.
	ChangeSetBounds
)

// ReplaceWires builds a wire replacement change.
func ReplaceWires(oldWires, newWires map[PortLoc]save.WireShape) GridChange {
	return GridChange{Kind: ChangeReplaceWires, OldWires: oldWires, NewWires: newWires}
}

// AddChip builds a chip placement change.
func AddChip(coords geom.Coords, chip save.ChipType, orient geom.Orientation) GridChange {
	return GridChange{Kind: ChangeAddChip, Coords: coords, Chip: chip, Orient: orient}
}

// RemoveChip builds a chip removal change.
func RemoveChip(coords geom.Coords, chip save.ChipType, orient geom.Orientation) GridChange {
	return GridChange{Kind: ChangeRemoveChip, Coords: coords, Chip: chip, Orient: orient}
}

// SetBounds builds a board resize change.
func SetBounds(oldBounds, newBounds geom.Rect) GridChange {
	return GridChange{Kind: ChangeSetBounds, OldBounds: oldBounds, NewBounds: newBounds}
}

func (c GridChange) invert() GridChange {
	switch c.Kind {
	case ChangeReplaceWires:
		return ReplaceWires(c.NewWires, c.OldWires)
	case ChangeAddChip:
		return RemoveChip(c.Coords, c.Chip, c.Orient)
	case ChangeRemoveChip:
		return AddChip(c.Coords, c.Chip, c.Orient)
	default:
		return SetBounds(c.NewBounds, c.OldBounds)
	}
}

func invertGroup(changes []GridChange) []GridChange {
	inverted := make([]GridChange, 0, len(changes))
	for i := len(changes) - 1; i >= 0; i-- {
		inverted = append(inverted, changes[i].invert())
	}
	return inverted
}

// invertAndCollapseGroup inverts a change group and merges adjacent
// changes that cancel or combine, so undo entries stay minimal.
func invertAndCollapseGroup(changes []GridChange) []GridChange {
	var collapsed []GridChange
	for i := len(changes) - 1; i >= 0; i-- {
		change := changes[i].invert()
		if len(collapsed) > 0 {
			last := &collapsed[len(collapsed)-1]
			if merged, ok := mergeChanges(last, change); ok {
				if merged == nil {
					collapsed = collapsed[:len(collapsed)-1]
				} else {
					*last = *merged
				}
				continue
			}
		}
		if simplified, keep := simplifyChange(change); keep {
			collapsed = append(collapsed, simplified)
		}
	}
	return collapsed
}

// mergeChanges tries to fold change into last; a nil result with ok=true
// means the two cancel entirely.
func mergeChanges(last *GridChange, change GridChange) (*GridChange, bool) {
	switch {
	case last.Kind == ChangeReplaceWires && change.Kind == ChangeReplaceWires:
		oldW := copyWireMap(last.OldWires)
		newW := copyWireMap(last.NewWires)
		for loc, shape := range change.OldWires {
			if s, ok := newW[loc]; ok && s == shape {
				delete(newW, loc)
			} else {
				oldW[loc] = shape
			}
		}
		for loc, shape := range change.NewWires {
			if s, ok := oldW[loc]; ok && s == shape {
				delete(oldW, loc)
			} else {
				newW[loc] = shape
			}
		}
		if len(oldW) == 0 && len(newW) == 0 {
			return nil, true
		}
		merged := ReplaceWires(oldW, newW)
		return &merged, true
	case last.Kind == ChangeAddChip && change.Kind == ChangeRemoveChip,
		last.Kind == ChangeRemoveChip && change.Kind == ChangeAddChip:
		if last.Coords == change.Coords && last.Chip == change.Chip &&
			last.Orient == change.Orient {
			return nil, true
		}
	case last.Kind == ChangeSetBounds && change.Kind == ChangeSetBounds:
		if last.OldBounds == change.NewBounds {
			return nil, true
		}
		merged := SetBounds(last.OldBounds, change.NewBounds)
		return &merged, true
	}
	return nil, false
}

// simplifyChange strips no-op parts of a standalone change; keep=false
// drops it outright.
func simplifyChange(change GridChange) (GridChange, bool) {
	switch change.Kind {
	case ChangeReplaceWires:
		oldW := copyWireMap(change.OldWires)
		newW := make(map[PortLoc]save.WireShape, len(change.NewWires))
		for loc, shape := range change.NewWires {
			if s, ok := oldW[loc]; ok && s == shape {
				delete(oldW, loc)
			} else {
				newW[loc] = shape
			}
		}
		if len(oldW) == 0 && len(newW) == 0 {
			return GridChange{}, false
		}
		return ReplaceWires(oldW, newW), true
	case ChangeSetBounds:
		if change.OldBounds == change.NewBounds {
			return GridChange{}, false
		}
	}
	return change, true
}

func copyWireMap(m map[PortLoc]save.WireShape) map[PortLoc]save.WireShape {
	c := make(map[PortLoc]save.WireShape, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
