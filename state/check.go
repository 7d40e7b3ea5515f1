// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package state

import (
	"sort"

	"github.com/db47h/tachy/geom"
	"github.com/db47h/tachy/save"
)

// WireColor is the inferred signal kind of an analyzed wire.
//
type WireColor uint8

const (
	// ColorUnknown marks a wire with no colored port.
	ColorUnknown WireColor = iota
	// ColorAmbiguous marks a wire touching ports of conflicting kinds.
	ColorAmbiguous
	// ColorBehavior marks a behavior wire.
	ColorBehavior
	// ColorEvent marks an event wire.
	ColorEvent
	// ColorAnalog marks an analog wire.
	ColorAnalog
)

// A WireID indexes a wire within one analysis result.
type WireID int

// NullWireID marks a fragment not yet assigned to a wire.
const NullWireID WireID = -1

// WireErrorKind discriminates analysis failures.
type WireErrorKind uint8

const (
	// ErrMultipleSenders: more than one source port drives the wire.
	ErrMultipleSenders WireErrorKind = iota
	// ErrPortColorMismatch: the wire touches ports of conflicting kinds.
	ErrPortColorMismatch
	// ErrNoValidSize: the size constraints admit no wire size.
	ErrNoValidSize
	// ErrUnbrokenLoop: a dependency cycle with no time-breaking chip.
	ErrUnbrokenLoop
)

// A WireError is one analysis failure, naming the wires involved.
//
type WireError struct {
	Kind WireErrorKind
	// Wires holds the single offending wire, or the whole cycle for
	// ErrUnbrokenLoop.
	Wires []WireID
	// ContainsEvents is set on ErrUnbrokenLoop when the cycle includes an
	// event wire, hinting that a Delay chip would break it.
	ContainsEvents bool
}

// A WireInfo is one analyzed wire: its fragments, the ports attached to
// it, and the color and size inferred for it.
//
type WireInfo struct {
	Fragments map[PortLoc]save.WireShape
	Ports     map[PortLoc]portInfo
	Color     WireColor
	Size      save.SizeInterval
	HasError  bool
}

type portInfo struct {
	flow  PortFlow
	color PortColor
}

func newWireInfo() *WireInfo {
	return &WireInfo{
		Fragments: make(map[PortLoc]save.WireShape),
		Ports:     make(map[PortLoc]portInfo),
		Size:      save.FullInterval(),
	}
}

//---------------------------------------------------------------------------

// locLess orders board locations (row-major, then by side) so analysis
// output is independent of map iteration order.
func locLess(a, b PortLoc) bool {
	if a.Coords.Y != b.Coords.Y {
		return a.Coords.Y < b.Coords.Y
	}
	if a.Coords.X != b.Coords.X {
		return a.Coords.X < b.Coords.X
	}
	return a.Dir < b.Dir
}

// GroupWires flood-fills the fragment map into connected wires, attaching
// each port to the wire touching its side. Ports with no fragments become
// single-port wires. The returned fragment-to-wire assignment is stored
// into wireIDs.
func GroupWires(allPorts map[PortLoc]PortSpec,
	allFragments map[PortLoc]save.WireShape,
	wireIDs map[PortLoc]WireID) []*WireInfo {

	starts := make([]PortLoc, 0, len(allFragments))
	for loc := range allFragments {
		starts = append(starts, loc)
	}
	sort.Slice(starts, func(i, j int) bool { return locLess(starts[i], starts[j]) })

	var wires []*WireInfo
	for _, start := range starts {
		if _, done := wireIDs[start]; done {
			continue
		}
		wire := newWireInfo()
		id := WireID(len(wires))
		stack := []PortLoc{start}
		wire.Fragments[start] = allFragments[start]
		wireIDs[start] = id
		for len(stack) > 0 {
			loc := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			shape := allFragments[loc]
			next := fragmentNeighbors(loc, shape)
			if shape == save.Stub {
				if port, ok := allPorts[loc]; ok {
					wire.Ports[loc] = portInfo{flow: port.Flow, color: port.Color}
				}
			}
			for _, n := range next {
				if _, ok := allFragments[n]; !ok {
					continue
				}
				if _, seen := wire.Fragments[n]; !seen {
					wire.Fragments[n] = allFragments[n]
					wireIDs[n] = id
					stack = append(stack, n)
				}
			}
		}
		wires = append(wires, wire)
	}

	// Ports with no fragments still need a wire slot each.
	lonePorts := make([]PortLoc, 0)
	for loc := range allPorts {
		if _, ok := allFragments[loc]; !ok {
			lonePorts = append(lonePorts, loc)
		}
	}
	sort.Slice(lonePorts, func(i, j int) bool { return locLess(lonePorts[i], lonePorts[j]) })
	for _, loc := range lonePorts {
		port := allPorts[loc]
		wire := newWireInfo()
		wire.Ports[loc] = portInfo{flow: port.Flow, color: port.Color}
		wires = append(wires, wire)
	}
	return wires
}

// fragmentNeighbors returns the locations a fragment connects to: always
// the facing side of the adjacent cell, plus the other sides of its own
// cell that the shape bridges.
func fragmentNeighbors(loc PortLoc, shape save.WireShape) []PortLoc {
	coords, dir := loc.Coords, loc.Dir
	next := []PortLoc{{Coords: coords.Add(dir.Delta()), Dir: dir.Opp()}}
	same := func(d geom.Direction) PortLoc { return PortLoc{Coords: coords, Dir: d} }
	switch shape {
	case save.Straight:
		next = append(next, same(dir.Opp()))
	case save.TurnLeft:
		next = append(next, same(dir.RotateCW()))
	case save.TurnRight:
		next = append(next, same(dir.RotateCCW()))
	case save.SplitLeft:
		next = append(next, same(dir.Opp()), same(dir.RotateCW()))
	case save.SplitRight:
		next = append(next, same(dir.Opp()), same(dir.RotateCCW()))
	case save.SplitTee:
		next = append(next, same(dir.RotateCW()), same(dir.RotateCCW()))
	case save.Cross:
		next = append(next, same(dir.Opp()), same(dir.RotateCW()),
			same(dir.RotateCCW()))
	}
	return next
}

//---------------------------------------------------------------------------

// RecolorWires infers each wire's color from its ports and seeds its size
// interval, reporting color conflicts and multiple-sender wires.
func RecolorWires(wires []*WireInfo) []WireError {
	var errors []WireError
	for index, wire := range wires {
		numSenders := 0
		var hasBehavior, hasEvent, hasAnalog bool
		for _, port := range wire.Ports {
			if port.flow == Source {
				numSenders++
			}
			switch port.color {
			case Behavior:
				hasBehavior = true
			case Event:
				hasEvent = true
			case Analog:
				hasAnalog = true
			}
		}
		switch {
		case hasBehavior && (hasEvent || hasAnalog), hasEvent && hasAnalog:
			wire.Color = ColorAmbiguous
			wire.Size = save.AtLeastInterval(save.SizeOne)
			wire.HasError = true
			errors = append(errors, WireError{
				Kind: ErrPortColorMismatch, Wires: []WireID{WireID(index)}})
		case hasBehavior:
			wire.Color = ColorBehavior
			wire.Size = save.AtLeastInterval(save.SizeOne)
		case hasEvent:
			wire.Color = ColorEvent
			wire.Size = save.FullInterval()
		case hasAnalog:
			wire.Color = ColorAnalog
			wire.Size = save.Exactly(save.SizeAnalog)
		default:
			wire.Color = ColorUnknown
			wire.Size = save.EmptyInterval()
		}
		if numSenders > 1 {
			wire.HasError = true
			errors = append(errors, WireError{
				Kind: ErrMultipleSenders, Wires: []WireID{WireID(index)}})
		}
	}
	return errors
}

// MapPortsToWires returns the wire id attached to every port location.
func MapPortsToWires(wires []*WireInfo) map[PortLoc]WireID {
	wiresForPorts := make(map[PortLoc]WireID)
	for index, wire := range wires {
		for loc := range wire.Ports {
			wiresForPorts[loc] = WireID(index)
		}
	}
	return wiresForPorts
}

//---------------------------------------------------------------------------

// DetermineWireSizes solves the size constraint set to a fixpoint,
// narrowing each wire's interval, and reports wires left with no valid
// size. Constraints that remain ambiguous are retried on later rounds.
func DetermineWireSizes(wires []*WireInfo,
	wiresForPorts map[PortLoc]WireID,
	constraints []PortConstraint) []WireError {

	changed := true
	for changed {
		changed = false
		retained := constraints[:0]
		for _, c := range constraints {
			retry := false
			switch c.Kind {
			case ConstraintExact:
				wire := wires[wiresForPorts[c.Loc]]
				newSize := wire.Size.Intersection(save.Exactly(c.Size))
				if !newSize.Equal(wire.Size) {
					wire.Size = newSize
					changed = true
				}
			case ConstraintAtLeast:
				wire := wires[wiresForPorts[c.Loc]]
				changed = wire.Size.MakeAtLeast(c.Size) || changed
			case ConstraintAtMost:
				wire := wires[wiresForPorts[c.Loc]]
				changed = wire.Size.MakeAtMost(c.Size) || changed
			case ConstraintEqual:
				id1 := wiresForPorts[c.Loc]
				id2 := wiresForPorts[c.Other]
				if id1 != id2 {
					size1, size2 := wires[id1].Size, wires[id2].Size
					if !size1.IsEmpty() && !size2.IsEmpty() {
						newSize := size1.Intersection(size2)
						changed = changed || !newSize.Equal(size1) ||
							!newSize.Equal(size2)
						wires[id1].Size = newSize
						wires[id2].Size = newSize
						retry = newSize.IsAmbiguous()
					}
				}
			case ConstraintDouble:
				id1 := wiresForPorts[c.Loc]
				id2 := wiresForPorts[c.Other]
				if id1 == id2 {
					// A wire cannot be double its own size.
					wire := wires[id1]
					changed = changed || !wire.Size.IsEmpty()
					wire.Size = save.EmptyInterval()
				} else {
					size1, size2 := wires[id1].Size, wires[id2].Size
					if !size1.IsEmpty() && !size2.IsEmpty() {
						newSize1 := size1.Intersection(size2.Double())
						newSize2 := size2.Intersection(size1.Half())
						changed = changed || !newSize1.Equal(size1) ||
							!newSize2.Equal(size2)
						wires[id1].Size = newSize1
						wires[id2].Size = newSize2
						retry = newSize1.IsAmbiguous() || newSize2.IsAmbiguous()
					}
				}
			}
			if retry {
				retained = append(retained, c)
			}
		}
		constraints = retained
	}

	var errors []WireError
	for index, wire := range wires {
		if wire.Color != ColorUnknown && wire.Size.IsEmpty() {
			wire.HasError = true
			errors = append(errors, WireError{
				Kind: ErrNoValidSize, Wires: []WireID{WireID(index)}})
		}
	}
	return errors
}

//---------------------------------------------------------------------------

// DetectLoops builds the wire dependency graph from chip-internal
// sink-to-source edges and either returns the wires topologically sorted
// into parallel groups, or the unbroken dependency cycles as errors.
func DetectLoops(wires []*WireInfo, wiresForPorts map[PortLoc]WireID,
	dependencies []PortDependency) ([][]WireID, []WireError) {

	successors := make([][]WireID, len(wires))
	for _, dep := range dependencies {
		sink := wiresForPorts[dep.Sink]
		source := wiresForPorts[dep.Source]
		successors[sink] = append(successors[sink], source)
	}

	groups, remaining := topoSortIntoGroups(len(wires), successors)
	if len(remaining) == 0 {
		return groups, nil
	}

	var errors []WireError
	for _, comp := range stronglyConnectedComponents(remaining, successors) {
		if len(comp) == 1 && !containsWire(successors[comp[0]], comp[0]) {
			// Not a self-loop, just a wire stranded behind one.
			continue
		}
		containsEvents := false
		for _, id := range comp {
			containsEvents = containsEvents || wires[id].Color == ColorEvent
			wires[id].HasError = true
		}
		errors = append(errors, WireError{
			Kind: ErrUnbrokenLoop, Wires: comp, ContainsEvents: containsEvents})
	}
	return nil, errors
}

func containsWire(list []WireID, id WireID) bool {
	for _, w := range list {
		if w == id {
			return true
		}
	}
	return false
}

// topoSortIntoGroups layers the graph: group n holds the wires all of
// whose predecessors are in groups < n. Wires caught in cycles are
// returned in remaining.
func topoSortIntoGroups(numWires int, successors [][]WireID) (groups [][]WireID, remaining []WireID) {
	indegree := make([]int, numWires)
	for _, succs := range successors {
		for _, s := range succs {
			indegree[s]++
		}
	}
	var frontier []WireID
	for id := 0; id < numWires; id++ {
		if indegree[id] == 0 {
			frontier = append(frontier, WireID(id))
		}
	}
	placed := 0
	for len(frontier) > 0 {
		groups = append(groups, frontier)
		placed += len(frontier)
		var next []WireID
		for _, id := range frontier {
			for _, s := range successors[id] {
				indegree[s]--
				if indegree[s] == 0 {
					next = append(next, s)
				}
			}
		}
		frontier = next
	}
	if placed < numWires {
		for id := 0; id < numWires; id++ {
			if indegree[id] > 0 {
				remaining = append(remaining, WireID(id))
			}
		}
	}
	return groups, remaining
}

// stronglyConnectedComponents runs Tarjan's algorithm over the given wire
// subset, returning components in a deterministic order.
func stronglyConnectedComponents(subset []WireID, successors [][]WireID) [][]WireID {
	inSubset := make(map[WireID]bool, len(subset))
	for _, id := range subset {
		inSubset[id] = true
	}
	index := make(map[WireID]int)
	lowlink := make(map[WireID]int)
	onStack := make(map[WireID]bool)
	var stack []WireID
	var comps [][]WireID
	counter := 0

	var strongConnect func(v WireID)
	strongConnect = func(v WireID) {
		index[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true
		for _, w := range successors[v] {
			if !inSubset[w] {
				continue
			}
			if _, seen := index[w]; !seen {
				strongConnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] && index[w] < lowlink[v] {
				lowlink[v] = index[w]
			}
		}
		if lowlink[v] == index[v] {
			var comp []WireID
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			sort.Slice(comp, func(i, j int) bool { return comp[i] < comp[j] })
			comps = append(comps, comp)
		}
	}
	for _, id := range subset {
		if _, seen := index[id]; !seen {
			strongConnect(id)
		}
	}
	return comps
}
