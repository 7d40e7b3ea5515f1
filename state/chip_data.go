// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package state

import (
	"github.com/db47h/tachy/geom"
	"github.com/db47h/tachy/save"
)

// An abstractPort describes one port of a chip in the chip's own frame of
// reference, before the chip's position and orientation are applied.
type abstractPort struct {
	flow  PortFlow
	color PortColor
	delta geom.Delta
	dir   geom.Direction
}

// An abstractConstraint is a size constraint between chip port indices.
// Reification against a placed chip turns it into a PortConstraint on
// concrete grid locations.
type abstractConstraint struct {
	kind ConstraintKind
	a, b int
	size save.WireSize
}

func cExact(port int, size save.WireSize) abstractConstraint {
	return abstractConstraint{kind: ConstraintExact, a: port, size: size}
}
func cAtMost(port int, size save.WireSize) abstractConstraint {
	return abstractConstraint{kind: ConstraintAtMost, a: port, size: size}
}
func cAtLeast(port int, size save.WireSize) abstractConstraint {
	return abstractConstraint{kind: ConstraintAtLeast, a: port, size: size}
}
func cEqual(a, b int) abstractConstraint {
	return abstractConstraint{kind: ConstraintEqual, a: a, b: b}
}

// cDouble constrains port a to be double the size of port b.
func cDouble(a, b int) abstractConstraint {
	return abstractConstraint{kind: ConstraintDouble, a: a, b: b}
}

// chipData is the static description of a chip kind: its ports, the size
// constraints among them, and the (sink, source) dependency pairs that
// order evaluation.
type chipData struct {
	ports        []abstractPort
	constraints  []abstractConstraint
	dependencies [][2]int
}

func sinkB(x, y int32, dir geom.Direction) abstractPort {
	return abstractPort{flow: Sink, color: Behavior, delta: geom.Delta{X: x, Y: y}, dir: dir}
}
func sourceB(x, y int32, dir geom.Direction) abstractPort {
	return abstractPort{flow: Source, color: Behavior, delta: geom.Delta{X: x, Y: y}, dir: dir}
}
func sinkE(x, y int32, dir geom.Direction) abstractPort {
	return abstractPort{flow: Sink, color: Event, delta: geom.Delta{X: x, Y: y}, dir: dir}
}
func sourceE(x, y int32, dir geom.Direction) abstractPort {
	return abstractPort{flow: Source, color: Event, delta: geom.Delta{X: x, Y: y}, dir: dir}
}

// binaryOpData is shared by the two-input behavior chips whose ports are
// all the same size (And, Or, Xor, Add, Sub, Mul).
var binaryOpData = &chipData{
	ports: []abstractPort{
		sinkB(0, 0, geom.West),
		sinkB(0, 0, geom.South),
		sourceB(0, 0, geom.East),
	},
	constraints: []abstractConstraint{
		cEqual(0, 1), cEqual(0, 2), cEqual(1, 2),
	},
	dependencies: [][2]int{{0, 2}, {1, 2}},
}

// carryOpData describes the two-cell-output arithmetic chips that emit a
// low word East and a carry word North at a fixed size.
func carryOpData(size save.WireSize) *chipData {
	return &chipData{
		ports: []abstractPort{
			sinkB(0, 0, geom.West),
			sinkB(0, 0, geom.South),
			sourceB(0, 0, geom.East),
			sourceB(0, 0, geom.North),
		},
		constraints: []abstractConstraint{
			cExact(0, size), cExact(1, size), cExact(2, size), cExact(3, size),
		},
		dependencies: [][2]int{{0, 2}, {1, 2}, {0, 3}, {1, 3}},
	}
}

// compareData is shared by Cmp, CmpEq and Eq: two equal behavior inputs
// West and East, a one-bit verdict North.
var compareData = &chipData{
	ports: []abstractPort{
		sinkB(0, 0, geom.West),
		sinkB(0, 0, geom.East),
		sourceB(0, 0, geom.North),
	},
	constraints: []abstractConstraint{
		cEqual(0, 1), cExact(2, save.SizeOne),
	},
	dependencies: [][2]int{{0, 2}, {1, 2}},
}

var unaryOpData = &chipData{
	ports: []abstractPort{
		sinkB(0, 0, geom.West),
		sourceB(0, 0, geom.East),
	},
	constraints:  []abstractConstraint{cEqual(0, 1)},
	dependencies: [][2]int{{0, 1}},
}

var addData = binaryOpData
var subData = binaryOpData
var mulData = binaryOpData
var andData = binaryOpData
var orData = binaryOpData
var xorData = binaryOpData

var add2BitData = carryOpData(save.SizeTwo)
var mul4BitData = carryOpData(save.SizeFour)

var notData = unaryOpData
var halveData = unaryOpData

var muxData = &chipData{
	ports: []abstractPort{
		sinkB(0, 0, geom.West),
		sinkB(0, 0, geom.South),
		sourceB(0, 0, geom.East),
		sinkB(0, 0, geom.North),
	},
	constraints: []abstractConstraint{
		cEqual(0, 1), cEqual(0, 2), cEqual(1, 2),
		cExact(3, save.SizeOne),
	},
	dependencies: [][2]int{{0, 2}, {1, 2}, {3, 2}},
}

var demuxData = &chipData{
	ports: []abstractPort{
		sinkE(0, 0, geom.West),
		sourceE(0, 0, geom.South),
		sourceE(0, 0, geom.East),
		sinkB(0, 0, geom.North),
	},
	constraints: []abstractConstraint{
		cEqual(0, 1), cEqual(0, 2), cEqual(1, 2),
		cExact(3, save.SizeOne),
	},
	dependencies: [][2]int{{0, 1}, {0, 2}, {3, 1}, {3, 2}},
}

var filterData = &chipData{
	ports: []abstractPort{
		sinkE(0, 0, geom.West),
		sourceE(0, 0, geom.East),
		sinkB(0, 0, geom.North),
	},
	constraints: []abstractConstraint{
		cEqual(0, 1), cExact(2, save.SizeOne),
	},
	dependencies: [][2]int{{0, 1}, {2, 1}},
}

var incData = &chipData{
	ports: []abstractPort{
		sinkE(0, 0, geom.West),
		sinkB(0, 0, geom.South),
		sourceE(0, 0, geom.East),
	},
	constraints: []abstractConstraint{
		cEqual(0, 1), cEqual(0, 2), cEqual(1, 2),
	},
	dependencies: [][2]int{{0, 2}, {1, 2}},
}

var discardData = &chipData{
	ports: []abstractPort{
		sinkE(0, 0, geom.West),
		sourceE(0, 0, geom.East),
	},
	constraints: []abstractConstraint{
		cAtLeast(0, save.SizeOne), cExact(1, save.SizeZero),
	},
	dependencies: [][2]int{{0, 1}},
}

var joinData = &chipData{
	ports: []abstractPort{
		sinkE(0, 0, geom.West),
		sinkE(0, 0, geom.South),
		sourceE(0, 0, geom.East),
	},
	constraints: []abstractConstraint{
		cEqual(0, 1), cEqual(0, 2), cEqual(1, 2),
	},
	dependencies: [][2]int{{0, 2}, {1, 2}},
}

var latestData = &chipData{
	ports: []abstractPort{
		sinkE(0, 0, geom.West),
		sourceB(0, 0, geom.East),
	},
	constraints:  []abstractConstraint{cEqual(0, 1)},
	dependencies: [][2]int{{0, 1}},
}

var sampleData = &chipData{
	ports: []abstractPort{
		sinkE(0, 0, geom.West),
		sinkB(0, 0, geom.South),
		sourceE(0, 0, geom.East),
	},
	constraints: []abstractConstraint{
		cExact(0, save.SizeZero), cEqual(1, 2),
	},
	dependencies: [][2]int{{0, 2}, {1, 2}},
}

var packData = &chipData{
	ports: []abstractPort{
		sinkB(0, 0, geom.West),
		sinkB(0, 0, geom.North),
		sourceB(0, 0, geom.East),
	},
	constraints: []abstractConstraint{
		cEqual(0, 1), cDouble(2, 0), cDouble(2, 1),
	},
	dependencies: [][2]int{{0, 2}, {1, 2}},
}

var unpackData = &chipData{
	ports: []abstractPort{
		sinkB(0, 0, geom.West),
		sourceB(0, 0, geom.East),
		sourceB(0, 0, geom.North),
	},
	constraints: []abstractConstraint{
		cEqual(1, 2), cDouble(0, 1), cDouble(0, 2),
	},
	dependencies: [][2]int{{0, 1}, {0, 2}},
}

// The Const chip's minimum output size depends on its parameter, so each
// width gets its own data table.
var constPorts = []abstractPort{sourceB(0, 0, geom.East)}

var constData1 = &chipData{ports: constPorts}
var constData2 = &chipData{
	ports:       constPorts,
	constraints: []abstractConstraint{cAtLeast(0, save.SizeTwo)},
}
var constData4 = &chipData{
	ports:       constPorts,
	constraints: []abstractConstraint{cAtLeast(0, save.SizeFour)},
}
var constData8 = &chipData{
	ports:       constPorts,
	constraints: []abstractConstraint{cAtLeast(0, save.SizeEight)},
}

func constChipData(value uint32) *chipData {
	switch save.MinSizeForValue(value) {
	case save.SizeTwo:
		return constData2
	case save.SizeFour:
		return constData4
	case save.SizeEight:
		return constData8
	default:
		return constData1
	}
}

var clockData = &chipData{
	ports: []abstractPort{
		sinkE(0, 0, geom.West),
		sourceE(0, 0, geom.East),
	},
	constraints: []abstractConstraint{
		cExact(0, save.SizeZero), cExact(1, save.SizeZero),
	},
}

var delayData = &chipData{
	ports: []abstractPort{
		sinkE(0, 0, geom.West),
		sourceE(0, 0, geom.East),
	},
	constraints: []abstractConstraint{cEqual(0, 1)},
}

var ramData = &chipData{
	ports: []abstractPort{
		sinkB(0, 0, geom.West),
		sinkE(0, 0, geom.North),
		sourceB(0, 1, geom.West),
		sinkB(1, 1, geom.East),
		sinkE(1, 1, geom.South),
		sourceB(1, 0, geom.East),
	},
	constraints: []abstractConstraint{
		cAtMost(0, save.SizeEight),
		cAtMost(3, save.SizeEight),
		cAtLeast(1, save.SizeOne),
		cAtLeast(4, save.SizeOne),
		cEqual(0, 3),
		cEqual(1, 2),
		cEqual(1, 4),
		cEqual(1, 5),
		cEqual(2, 4),
		cEqual(2, 5),
		cEqual(4, 5),
	},
	dependencies: [][2]int{
		{0, 2}, {1, 2}, {3, 2}, {4, 2},
		{0, 5}, {1, 5}, {3, 5}, {4, 5},
	},
}

var breakData = &chipData{
	ports: []abstractPort{
		sinkE(0, 0, geom.West),
		sourceE(0, 0, geom.East),
	},
	constraints:  []abstractConstraint{cEqual(0, 1)},
	dependencies: [][2]int{{0, 1}},
}

var buttonData = &chipData{
	ports:       []abstractPort{sourceE(0, 0, geom.East)},
	constraints: []abstractConstraint{cExact(0, save.SizeZero)},
}

var toggleData = &chipData{
	ports:       []abstractPort{sourceB(0, 0, geom.East)},
	constraints: []abstractConstraint{cExact(0, save.SizeOne)},
}

var displayData = &chipData{
	ports: []abstractPort{sinkB(0, 0, geom.West)},
}

// chipDataFor returns the static description for a chip type.
func chipDataFor(ctype save.ChipType) *chipData {
	switch ctype.Kind {
	case save.ChipAdd:
		return addData
	case save.ChipAdd2Bit:
		return add2BitData
	case save.ChipAnd:
		return andData
	case save.ChipBreak:
		return breakData
	case save.ChipButton:
		return buttonData
	case save.ChipClock:
		return clockData
	case save.ChipCmp, save.ChipCmpEq, save.ChipEq:
		return compareData
	case save.ChipConst:
		return constChipData(ctype.Value)
	case save.ChipDelay:
		return delayData
	case save.ChipDemux:
		return demuxData
	case save.ChipDiscard:
		return discardData
	case save.ChipDisplay:
		return displayData
	case save.ChipFilter:
		return filterData
	case save.ChipHalve:
		return halveData
	case save.ChipInc:
		return incData
	case save.ChipJoin:
		return joinData
	case save.ChipLatest:
		return latestData
	case save.ChipMul:
		return mulData
	case save.ChipMul4Bit:
		return mul4BitData
	case save.ChipMux:
		return muxData
	case save.ChipNot:
		return notData
	case save.ChipOr:
		return orData
	case save.ChipPack:
		return packData
	case save.ChipRam:
		return ramData
	case save.ChipSample:
		return sampleData
	case save.ChipSub:
		return subData
	case save.ChipToggle:
		return toggleData
	case save.ChipUnpack:
		return unpackData
	case save.ChipXor:
		return xorData
	default:
		panic("unknown chip kind " + ctype.Kind.String())
	}
}

// localizePort maps an abstract port onto the grid for a chip placed at
// coords with the given orientation.
func localizePort(coords geom.Coords, orient geom.Orientation,
	size geom.Size, port abstractPort) PortLoc {
	return PortLoc{
		Coords: coords.Add(orient.TransformInSize(port.delta, size)),
		Dir:    orient.Apply(port.dir),
	}
}

// chipUsesEvents reports whether any port of the chip type carries events.
func chipUsesEvents(ctype save.ChipType) bool {
	for _, p := range chipDataFor(ctype).ports {
		if p.color == Event {
			return true
		}
	}
	return false
}

// chipPorts returns the concrete port specs of a placed chip. Each port's
// MaxSize is derived from the chip's constraints; it bounds the sizes the
// UI offers when dragging a wire off the port.
func chipPorts(ctype save.ChipType, coords geom.Coords,
	orient geom.Orientation) []PortSpec {
	size := ctype.Size()
	data := chipDataFor(ctype)
	specs := make([]PortSpec, len(data.ports))
	for index, port := range data.ports {
		maxSize := save.SizeEight
	scan:
		for _, c := range data.constraints {
			switch c.kind {
			case ConstraintExact:
				if c.a == index {
					maxSize = c.size
					break scan
				}
			case ConstraintAtMost:
				if c.a == index && c.size < maxSize {
					maxSize = c.size
				}
			case ConstraintDouble:
				if c.b == index && maxSize > save.SizeEight.Half() {
					maxSize = save.SizeEight.Half()
				}
			}
		}
		loc := localizePort(coords, orient, size, port)
		specs[index] = PortSpec{
			Flow:    port.flow,
			Color:   port.color,
			Coords:  loc.Coords,
			Dir:     loc.Dir,
			MaxSize: maxSize,
		}
	}
	return specs
}

// chipConstraints reifies the chip's abstract constraints against its
// placement on the grid.
func chipConstraints(ctype save.ChipType, coords geom.Coords,
	orient geom.Orientation) []PortConstraint {
	size := ctype.Size()
	data := chipDataFor(ctype)
	constraints := make([]PortConstraint, len(data.constraints))
	for i, c := range data.constraints {
		locA := localizePort(coords, orient, size, data.ports[c.a])
		switch c.kind {
		case ConstraintExact:
			constraints[i] = ExactConstraint(locA, c.size)
		case ConstraintAtMost:
			constraints[i] = AtMostConstraint(locA, c.size)
		case ConstraintAtLeast:
			constraints[i] = AtLeastConstraint(locA, c.size)
		case ConstraintEqual:
			locB := localizePort(coords, orient, size, data.ports[c.b])
			constraints[i] = EqualConstraint(locA, locB)
		case ConstraintDouble:
			locB := localizePort(coords, orient, size, data.ports[c.b])
			constraints[i] = DoubleConstraint(locA, locB)
		}
	}
	return constraints
}

// chipDependencies returns the (sink, source) port pairs that must be
// evaluated in order for a placed chip.
func chipDependencies(ctype save.ChipType, coords geom.Coords,
	orient geom.Orientation) []PortDependency {
	size := ctype.Size()
	data := chipDataFor(ctype)
	deps := make([]PortDependency, len(data.dependencies))
	for i, d := range data.dependencies {
		deps[i] = PortDependency{
			Sink:   localizePort(coords, orient, size, data.ports[d[0]]),
			Source: localizePort(coords, orient, size, data.ports[d[1]]),
		}
	}
	return deps
}
