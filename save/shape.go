// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package save

import "github.com/pkg/errors"

// A WireShape is the wire fragment occupying one side of one cell. The
// four fragments of a cell must together form one legal local pattern.
//
type WireShape uint8

const (
	// Stub is a wire endpoint, capping the fragment at the cell edge.
	Stub WireShape = iota
	// Straight passes through to the opposite side of the cell.
	Straight
	// TurnLeft connects to the side counterclockwise of this one.
	TurnLeft
	// TurnRight connects to the side clockwise of this one.
	TurnRight
	// SplitLeft forks between straight-through and the left turn.
	SplitLeft
	// SplitRight forks between straight-through and the right turn.
	SplitRight
	// SplitTee forks between the two adjacent sides.
	SplitTee
	// Cross connects all four sides of the cell.
	Cross
)

func (s WireShape) String() string {
	switch s {
	case Stub:
		return "Stub"
	case Straight:
		return "Straight"
	case TurnLeft:
		return "TurnLeft"
	case TurnRight:
		return "TurnRight"
	case SplitLeft:
		return "SplitLeft"
	case SplitRight:
		return "SplitRight"
	case SplitTee:
		return "SplitTee"
	default:
		return "Cross"
	}
}

// ParseWireShape parses the serialized name of a wire shape.
func ParseWireShape(s string) (WireShape, error) {
	switch s {
	case "Stub":
		return Stub, nil
	case "Straight":
		return Straight, nil
	case "TurnLeft":
		return TurnLeft, nil
	case "TurnRight":
		return TurnRight, nil
	case "SplitLeft":
		return SplitLeft, nil
	case "SplitRight":
		return SplitRight, nil
	case "SplitTee":
		return SplitTee, nil
	case "Cross":
		return Cross, nil
	}
	return 0, errors.Errorf("save: invalid wire shape %q", s)
}
