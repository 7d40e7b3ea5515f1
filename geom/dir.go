// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package geom

// A Direction is one of the four sides of a grid cell.
//
type Direction uint8

// The four directions, in clockwise order starting from East.
const (
	East Direction = iota
	South
	West
	North
)

// AllDirections lists the four directions in clockwise order.
var AllDirections = [4]Direction{East, South, West, North}

// Delta returns the unit offset pointing in direction d.
func (d Direction) Delta() Delta {
	switch d {
	case East:
		return Delta{X: 1}
	case South:
		return Delta{Y: 1}
	case West:
		return Delta{X: -1}
	default:
		return Delta{Y: -1}
	}
}

// Opp returns the opposite direction.
func (d Direction) Opp() Direction {
	return (d + 2) % 4
}

// RotateCW returns the direction a quarter turn clockwise from d.
func (d Direction) RotateCW() Direction {
	return (d + 1) % 4
}

// RotateCCW returns the direction a quarter turn counterclockwise from d.
func (d Direction) RotateCCW() Direction {
	return (d + 3) % 4
}

// FlipVert mirrors the direction across the horizontal axis.
func (d Direction) FlipVert() Direction {
	switch d {
	case South:
		return North
	case North:
		return South
	default:
		return d
	}
}

// IsVertical reports whether d points North or South.
func (d Direction) IsVertical() bool {
	return d == South || d == North
}

func (d Direction) String() string {
	switch d {
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return "North"
	}
}
