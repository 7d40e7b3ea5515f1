// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package state

import (
	"github.com/db47h/tachy/geom"
	"github.com/db47h/tachy/save"
)

// ifacePos places an interface along its board edge.
type ifacePos struct {
	kind   ifacePosKind
	offset int32
}

type ifacePosKind uint8

const (
	posLeft ifacePosKind = iota
	posCenter
	posRight
)

func ifaceLeft(offset int32) ifacePos  { return ifacePos{kind: posLeft, offset: offset} }
func ifaceRight(offset int32) ifacePos { return ifacePos{kind: posRight, offset: offset} }

var ifaceCenter = ifacePos{kind: posCenter}

// An InterfacePort is one typed connector of a puzzle interface.
//
type InterfacePort struct {
	Name        string
	Description string
	Flow        PortFlow
	Color       PortColor
	Size        save.WireSize
}

// An Interface is a block of fixed ports that a puzzle exposes on the
// board boundary. Its ports line up along one edge cell per port, just
// outside the bounds rectangle.
//
type Interface struct {
	Name        string
	Description string
	Side        geom.Direction
	pos         ifacePos
	Ports       []InterfacePort
}

// MinBoundsSize returns the smallest board able to fit all interfaces
// along their edges.
func MinBoundsSize(interfaces []Interface) geom.Size {
	minWidth := int32(1)
	minHeight := int32(1)
	for _, dir := range geom.AllDirections {
		var left, center, right int32
		for i := range interfaces {
			iface := &interfaces[i]
			if iface.Side != dir {
				continue
			}
			n := int32(len(iface.Ports))
			switch iface.pos.kind {
			case posLeft:
				left = max32(left, n+iface.pos.offset)
			case posCenter:
				center = max32(center, n)
			case posRight:
				right = max32(right, n+iface.pos.offset)
			}
			minSize := left + right
			if center > 0 {
				minSize = 2*max32(left, right) + center
			}
			if dir.IsVertical() {
				minWidth = max32(minWidth, minSize)
			} else {
				minHeight = max32(minHeight, minSize)
			}
		}
	}
	return geom.Size{Width: minWidth, Height: minHeight}
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// TopLeft returns the interface's top-left cell for the given board
// bounds. Interfaces sit one cell outside the bounds on their side.
func (f *Interface) TopLeft(bounds geom.Rect) geom.Coords {
	span := bounds.Width
	if f.Side == geom.East || f.Side == geom.West {
		span = bounds.Height
	}
	n := int32(len(f.Ports))
	var dist int32
	switch f.pos.kind {
	case posLeft:
		dist = f.pos.offset
	case posCenter:
		dist = (span - n) / 2
	case posRight:
		dist = span - n - f.pos.offset
	}
	var delta geom.Delta
	switch f.Side {
	case geom.East:
		delta = geom.Delta{X: bounds.Width, Y: span - n - dist}
	case geom.South:
		delta = geom.Delta{X: dist, Y: bounds.Height}
	case geom.West:
		delta = geom.Delta{X: -1, Y: dist}
	default: // North
		delta = geom.Delta{X: span - n - dist, Y: -1}
	}
	return bounds.TopLeft().Add(delta)
}

// Size returns the interface's footprint: one cell per port, laid out
// along the board edge.
func (f *Interface) Size() geom.Size {
	n := int32(len(f.Ports))
	if f.Side == geom.East || f.Side == geom.West {
		return geom.Size{Width: 1, Height: n}
	}
	return geom.Size{Width: n, Height: 1}
}

// PortSpecs returns placed specs for the interface's ports within the
// given board bounds, in declaration order.
func (f *Interface) PortSpecs(bounds geom.Rect) []PortSpec {
	return f.portSpecsWithTopLeft(f.TopLeft(bounds))
}

func (f *Interface) portSpecsWithTopLeft(topLeft geom.Coords) []PortSpec {
	var step geom.Delta
	switch f.Side {
	case geom.South, geom.West:
		step = f.Side.RotateCCW().Delta()
	default: // East, North
		step = f.Side.RotateCW().Delta()
	}
	portDir := f.Side.Opp()
	specs := make([]PortSpec, len(f.Ports))
	pos := topLeft
	for i := range f.Ports {
		port := &f.Ports[i]
		specs[i] = PortSpec{
			Flow:    port.Flow,
			Color:   port.Color,
			Coords:  pos,
			Dir:     portDir,
			MaxSize: port.Size,
		}
		pos = pos.Add(step)
	}
	return specs
}

// Constraints returns an Exact size constraint for each interface port.
func (f *Interface) Constraints(bounds geom.Rect) []PortConstraint {
	specs := f.PortSpecs(bounds)
	constraints := make([]PortConstraint, len(specs))
	for i, spec := range specs {
		constraints[i] = ExactConstraint(spec.Loc(), f.Ports[i].Size)
	}
	return constraints
}
