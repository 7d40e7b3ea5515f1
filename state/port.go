// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package state implements the live half of the circuit core: the editable
// grid, the static analyzer that turns wire fragments into a typed netlist,
// the chip catalog with its evaluation semantics, and the deterministic
// evaluator that runs a netlist against a puzzle task.
//
package state

import (
	"github.com/db47h/tachy/geom"
	"github.com/db47h/tachy/save"
)

// PortFlow tells whether a port drives its wire or reads from it.
//
type PortFlow uint8

const (
	// Source ports drive a value onto their wire.
	Source PortFlow = iota
	// Sink ports read the value from their wire.
	Sink
)

func (f PortFlow) String() string {
	if f == Source {
		return "source"
	}
	return "sink"
}

// PortColor is the signal kind a port carries.
//
type PortColor uint8

const (
	// Behavior ports carry a latched multi-bit level.
	Behavior PortColor = iota
	// Event ports carry at most one discrete event per cycle.
	Event
	// Analog ports carry one fixed-point voltage sample per step.
	Analog
)

func (c PortColor) String() string {
	switch c {
	case Behavior:
		return "behavior"
	case Event:
		return "event"
	default:
		return "analog"
	}
}

// A PortLoc addresses a port on the board: the cell it sits in and the
// side of that cell it faces.
//
type PortLoc struct {
	Coords geom.Coords
	Dir    geom.Direction
}

// A PortSpec fully describes one placed port.
//
type PortSpec struct {
	Flow    PortFlow
	Color   PortColor
	Coords  geom.Coords
	Dir     geom.Direction
	MaxSize save.WireSize
}

// Loc returns the port's board location.
func (p *PortSpec) Loc() PortLoc { return PortLoc{Coords: p.Coords, Dir: p.Dir} }

// A PortConstraint narrows the wire size at one or two port locations.
// The analyzer solves the full constraint set to a fixpoint.
//
type PortConstraint struct {
	Kind  ConstraintKind
	Loc   PortLoc
	Other PortLoc       // Equal, Double
	Size  save.WireSize // Exact, AtMost, AtLeast
}

// ConstraintKind discriminates PortConstraint.
type ConstraintKind uint8

const (
	// ConstraintExact pins the port's wire to exactly Size.
	ConstraintExact ConstraintKind = iota
	// ConstraintAtMost caps the port's wire at Size.
	ConstraintAtMost
	// ConstraintAtLeast floors the port's wire at Size.
	ConstraintAtLeast
	// ConstraintEqual forces two ports' wires to the same size.
	ConstraintEqual
	// ConstraintDouble forces Loc's wire to twice Other's size.
	ConstraintDouble
)

// Constraint constructors, named after what they enforce.

func ExactConstraint(loc PortLoc, size save.WireSize) PortConstraint {
	return PortConstraint{Kind: ConstraintExact, Loc: loc, Size: size}
}

func AtMostConstraint(loc PortLoc, size save.WireSize) PortConstraint {
	return PortConstraint{Kind: ConstraintAtMost, Loc: loc, Size: size}
}

func AtLeastConstraint(loc PortLoc, size save.WireSize) PortConstraint {
	return PortConstraint{Kind: ConstraintAtLeast, Loc: loc, Size: size}
}

func EqualConstraint(a, b PortLoc) PortConstraint {
	return PortConstraint{Kind: ConstraintEqual, Loc: a, Other: b}
}

func DoubleConstraint(double, half PortLoc) PortConstraint {
	return PortConstraint{Kind: ConstraintDouble, Loc: double, Other: half}
}

// A PortDependency records that the value of a chip's source port depends
// combinationally on one of its sink ports. The analyzer uses these edges
// for loop detection and subcycle ordering.
//
type PortDependency struct {
	Sink   PortLoc
	Source PortLoc
}
