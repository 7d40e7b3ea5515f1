// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package state

import (
	"sort"

	"github.com/db47h/tachy/geom"
	"github.com/db47h/tachy/save"
)

// A chipCell is one grid cell covered by a chip. Cells other than the
// top-left corner of a multi-cell chip hold a reference with the delta
// back to the corner.
type chipCell struct {
	ref    bool
	delta  geom.Delta // when ref
	ctype  save.ChipType
	orient geom.Orientation
}

// EditGrid is the mutable circuit board: placed chips, wire fragments,
// the analysis results for the current layout, and the undo history.
// All mutation goes through GridChange values so that every edit can be
// validated, inverted and replayed.
//
type EditGrid struct {
	puzzle     save.Puzzle
	bounds     geom.Rect
	interfaces []Interface
	fragments  map[PortLoc]save.WireShape
	fragWires  map[PortLoc]WireID
	chips      map[geom.Coords]chipCell
	wires      []*WireInfo
	wiresFor   map[PortLoc]WireID
	wireGroups [][]WireID
	errors     []WireError
	eval       *CircuitEval
	undoStack  [][]GridChange
	redoStack  [][]GridChange
	// Provisional changes have been applied to the grid but not yet
	// folded into the undo stack; a drag in progress lives here.
	provisional []GridChange
	modified    bool
}

// NewEditGrid returns an empty board for the puzzle, sized to the
// puzzle's initial bounds.
func NewEditGrid(puzzle save.Puzzle) *EditGrid {
	grid := &EditGrid{
		puzzle: puzzle,
		bounds: geom.RectWithSize(geom.Coords{}, puzzle.InitialBoardSize()),
	}
	grid.interfaces = puzzleInterfaces(puzzle)
	grid.fragments = make(map[PortLoc]save.WireShape)
	grid.chips = make(map[geom.Coords]chipCell)
	grid.typecheckWires()
	return grid
}

// EditGridFromCircuitData restores a board from its serialized form.
// Chips and wires that no longer fit (overlapping chips, fragments under
// chips) are silently dropped, and stubs are regrown where a fragment
// faces a missing mate, so that any stored circuit loads into a valid
// grid.
func EditGridFromCircuitData(puzzle save.Puzzle, data *save.CircuitData) *EditGrid {
	grid := &EditGrid{
		puzzle: puzzle,
		bounds: data.Bounds,
	}
	grid.interfaces = puzzleInterfaces(puzzle)
	grid.fragments = make(map[PortLoc]save.WireShape)
	grid.chips = make(map[geom.Coords]chipCell)

	chipCoords := make([]geom.Coords, 0, len(data.Chips))
	for coords := range data.Chips {
		chipCoords = append(chipCoords, coords)
	}
	sort.Slice(chipCoords, func(i, j int) bool {
		return coordsLess(chipCoords[i], chipCoords[j])
	})
	for _, coords := range chipCoords {
		chip := data.Chips[coords]
		grid.mutateOne(AddChip(coords, chip.Type, chip.Orient))
	}

	wireLocs := make([]save.WireLoc, 0, len(data.Wires))
	for loc := range data.Wires {
		wireLocs = append(wireLocs, loc)
	}
	sort.Slice(wireLocs, func(i, j int) bool {
		a, b := wireLocs[i], wireLocs[j]
		return locLess(PortLoc{Coords: a.Pos, Dir: a.Side},
			PortLoc{Coords: b.Pos, Dir: b.Side})
	})
	for _, wloc := range wireLocs {
		grid.expandFragment(
			PortLoc{Coords: wloc.Pos, Dir: wloc.Side}, data.Wires[wloc])
	}

	// Regrow stubs facing fragments whose mate went missing.
	var missing []PortLoc
	for loc := range grid.fragments {
		mate := facingLoc(loc)
		if _, ok := grid.fragments[mate]; !ok {
			missing = append(missing, mate)
		}
	}
	for _, loc := range missing {
		grid.fragments[loc] = save.Stub
	}

	grid.typecheckWires()
	return grid
}

// expandFragment places the full set of cell-mate fragments implied by one
// serialized fragment, skipping it entirely if any mate slot is taken.
func (g *EditGrid) expandFragment(loc PortLoc, shape save.WireShape) {
	if g.hasFrag(loc) {
		return
	}
	coords, dir := loc.Coords, loc.Dir
	at := func(d geom.Direction) PortLoc { return PortLoc{Coords: coords, Dir: d} }
	switch shape {
	case save.Stub:
		g.fragments[loc] = save.Stub
	case save.Straight:
		if !g.hasFrag(at(dir.Opp())) {
			g.fragments[loc] = save.Straight
			g.fragments[at(dir.Opp())] = save.Straight
		}
	case save.TurnLeft:
		if !g.hasFrag(at(dir.RotateCW())) {
			g.fragments[loc] = save.TurnLeft
			g.fragments[at(dir.RotateCW())] = save.TurnRight
		}
	case save.TurnRight:
		if !g.hasFrag(at(dir.RotateCCW())) {
			g.fragments[loc] = save.TurnRight
			g.fragments[at(dir.RotateCCW())] = save.TurnLeft
		}
	case save.SplitTee:
		if !g.hasFrag(at(dir.RotateCW())) && !g.hasFrag(at(dir.RotateCCW())) {
			g.fragments[loc] = save.SplitTee
			g.fragments[at(dir.RotateCW())] = save.SplitRight
			g.fragments[at(dir.RotateCCW())] = save.SplitLeft
		}
	case save.SplitLeft:
		if !g.hasFrag(at(dir.RotateCW())) && !g.hasFrag(at(dir.Opp())) {
			g.fragments[loc] = save.SplitLeft
			g.fragments[at(dir.RotateCW())] = save.SplitTee
			g.fragments[at(dir.Opp())] = save.SplitRight
		}
	case save.SplitRight:
		if !g.hasFrag(at(dir.RotateCCW())) && !g.hasFrag(at(dir.Opp())) {
			g.fragments[loc] = save.SplitRight
			g.fragments[at(dir.RotateCCW())] = save.SplitTee
			g.fragments[at(dir.Opp())] = save.SplitLeft
		}
	case save.Cross:
		if !g.hasFrag(at(dir.Opp())) && !g.hasFrag(at(dir.RotateCW())) &&
			!g.hasFrag(at(dir.RotateCCW())) {
			for _, d := range geom.AllDirections {
				g.fragments[at(d)] = save.Cross
			}
		}
	}
}

// ToCircuitData serializes the board, keeping only the canonical fragment
// of each wire cell so that loading and saving round-trips byte for byte.
func (g *EditGrid) ToCircuitData() *save.CircuitData {
	data := save.NewCircuitData(g.bounds)
	for coords, cell := range g.chips {
		if !cell.ref {
			data.Chips[coords] = save.PlacedChip{Type: cell.ctype, Orient: cell.orient}
		}
	}
	for loc, shape := range g.fragments {
		if !g.isCanonicalFragment(loc, shape) {
			continue
		}
		data.Wires[save.WireLoc{Pos: loc.Coords, Side: loc.Dir}] = shape
	}
	return data
}

func (g *EditGrid) isCanonicalFragment(loc PortLoc, shape save.WireShape) bool {
	switch shape {
	case save.Stub:
		// A stub survives only when it faces another stub and then only
		// on the east/south side; every other stub is regrown on load.
		mate, ok := g.fragments[facingLoc(loc)]
		if !ok || mate != save.Stub {
			return false
		}
		return loc.Dir == geom.East || loc.Dir == geom.South
	case save.Straight:
		return loc.Dir == geom.East || loc.Dir == geom.South
	case save.TurnLeft, save.SplitTee:
		return true
	case save.Cross:
		return loc.Dir == geom.East
	default:
		// TurnRight, SplitLeft and SplitRight are implied by their
		// cell-mates.
		return false
	}
}

func facingLoc(loc PortLoc) PortLoc {
	return PortLoc{
		Coords: loc.Coords.Add(loc.Dir.Delta()),
		Dir:    loc.Dir.Opp(),
	}
}

func coordsLess(a, b geom.Coords) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

//---------------------------------------------------------------------------

// Puzzle returns the task this board is being designed for.
func (g *EditGrid) Puzzle() save.Puzzle { return g.puzzle }

// Bounds returns the current board bounds.
func (g *EditGrid) Bounds() geom.Rect { return g.bounds }

// Interfaces returns the puzzle's fixed interfaces.
func (g *EditGrid) Interfaces() []Interface { return g.interfaces }

// MinBoundsSize returns the smallest bounds able to seat the puzzle's
// interfaces.
func (g *EditGrid) MinBoundsSize() geom.Size {
	return MinBoundsSize(g.interfaces)
}

// HasErrors reports whether the current layout fails analysis.
func (g *EditGrid) HasErrors() bool { return len(g.errors) > 0 }

// Errors returns the current analysis errors.
func (g *EditGrid) Errors() []WireError { return g.errors }

// Wires returns the analyzed wires of the current layout.
func (g *EditGrid) Wires() []*WireInfo { return g.wires }

// WireIndexAt returns the wire the fragment at loc belongs to.
func (g *EditGrid) WireIndexAt(loc PortLoc) (WireID, bool) {
	id, ok := g.fragWires[loc]
	return id, ok
}

// WireShapeAt returns the fragment shape on the given cell side.
func (g *EditGrid) WireShapeAt(loc PortLoc) (save.WireShape, bool) {
	shape, ok := g.fragments[loc]
	return shape, ok
}

// HasChipAt reports whether any part of a chip covers coords.
func (g *EditGrid) HasChipAt(coords geom.Coords) bool {
	_, ok := g.chips[coords]
	return ok
}

// ChipAt resolves the chip covering coords, returning its top-left cell.
func (g *EditGrid) ChipAt(coords geom.Coords) (geom.Coords, save.ChipType, geom.Orientation, bool) {
	cell, ok := g.chips[coords]
	if !ok {
		return geom.Coords{}, save.ChipType{}, geom.Orientation{}, false
	}
	if cell.ref {
		coords = coords.Add(cell.delta)
		cell = g.chips[coords]
	}
	return coords, cell.ctype, cell.orient, true
}

// InterfaceAt returns the interface whose footprint covers coords.
func (g *EditGrid) InterfaceAt(coords geom.Coords) (int, *Interface, bool) {
	for i := range g.interfaces {
		iface := &g.interfaces[i]
		rect := geom.RectWithSize(iface.TopLeft(g.bounds), iface.Size())
		if rect.Contains(coords) {
			return i, iface, true
		}
	}
	return 0, nil, false
}

// eachChip visits the placed chips in row-major order of their top-left
// cells.
func (g *EditGrid) eachChip(fn func(geom.Coords, save.ChipType, geom.Orientation)) {
	coords := make([]geom.Coords, 0, len(g.chips))
	for c, cell := range g.chips {
		if !cell.ref {
			coords = append(coords, c)
		}
	}
	sort.Slice(coords, func(i, j int) bool { return coordsLess(coords[i], coords[j]) })
	for _, c := range coords {
		cell := g.chips[c]
		fn(c, cell.ctype, cell.orient)
	}
}

// AllowedChip reports whether the chip type may be used in this puzzle.
// Event chips are only available in puzzles that deal in events.
func (g *EditGrid) AllowedChip(ctype save.ChipType) bool {
	return g.puzzle.AllowsEvents() || !chipUsesEvents(ctype)
}

// CanPlaceChip reports whether the rect is in bounds and free of chips.
func (g *EditGrid) CanPlaceChip(rect geom.Rect) bool {
	if !g.bounds.ContainsRect(rect) {
		return false
	}
	ok := true
	rect.Cells(func(coords geom.Coords) {
		if _, taken := g.chips[coords]; taken {
			ok = false
		}
	})
	return ok
}

// CanHaveBounds reports whether the board can shrink or grow to bounds
// without orphaning interfaces, chips or wires. Stubs pointing into the
// new bounds from just outside are fine.
func (g *EditGrid) CanHaveBounds(bounds geom.Rect) bool {
	min := g.MinBoundsSize()
	if bounds.Width < min.Width || bounds.Height < min.Height {
		return false
	}
	for coords := range g.chips {
		if !bounds.Contains(coords) {
			return false
		}
	}
	for loc, shape := range g.fragments {
		if !bounds.Contains(loc.Coords) &&
			(shape != save.Stub || !bounds.Contains(loc.Coords.Add(loc.Dir.Delta()))) {
			return false
		}
	}
	return true
}

//---------------------------------------------------------------------------

// Undo rolls back the most recent committed change group, after first
// discarding any provisional changes. It reports whether the grid changed.
func (g *EditGrid) Undo() bool {
	if g.eval != nil {
		return false
	}
	changed := g.RollBackProvisionalChanges()
	if n := len(g.undoStack); n > 0 {
		changes := g.undoStack[n-1]
		g.undoStack = g.undoStack[:n-1]
		for _, change := range changes {
			g.mutateOne(change)
		}
		g.redoStack = append(g.redoStack, invertGroup(changes))
		g.typecheckWires()
		g.modified = true
		changed = true
	}
	return changed
}

// Redo re-applies the most recently undone change group.
func (g *EditGrid) Redo() bool {
	if g.eval != nil {
		return false
	}
	n := len(g.redoStack)
	if n == 0 {
		return false
	}
	changes := g.redoStack[n-1]
	g.redoStack = g.redoStack[:n-1]
	for _, change := range changes {
		g.mutateOne(change)
	}
	g.undoStack = append(g.undoStack, invertGroup(changes))
	g.typecheckWires()
	g.modified = true
	return true
}

// TryMutate validates and applies a change group atomically: either every
// change applies and the group lands on the undo stack, or none do.
func (g *EditGrid) TryMutate(changes []GridChange) bool {
	g.CommitProvisionalChanges()
	applied, ok := g.tryMutateInternal(changes)
	if !ok {
		return false
	}
	if collapsed := invertAndCollapseGroup(applied); len(collapsed) > 0 {
		g.undoStack = append(g.undoStack, collapsed)
	}
	return true
}

// TryMutateProvisionally applies a change group without committing it to
// the undo stack; an in-progress drag uses this after each increment.
func (g *EditGrid) TryMutateProvisionally(changes []GridChange) bool {
	applied, ok := g.tryMutateInternal(changes)
	if !ok {
		return false
	}
	g.provisional = append(g.provisional, applied...)
	return true
}

// HasProvisionalChanges reports whether uncommitted changes are pending.
func (g *EditGrid) HasProvisionalChanges() bool { return len(g.provisional) > 0 }

// CommitProvisionalChanges folds pending provisional changes into the
// undo stack as a single group.
func (g *EditGrid) CommitProvisionalChanges() {
	if len(g.provisional) == 0 {
		return
	}
	changes := g.provisional
	g.provisional = nil
	if collapsed := invertAndCollapseGroup(changes); len(collapsed) > 0 {
		g.undoStack = append(g.undoStack, collapsed)
	}
}

// RollBackProvisionalChanges reverts pending provisional changes.
func (g *EditGrid) RollBackProvisionalChanges() bool {
	if g.eval != nil || len(g.provisional) == 0 {
		return false
	}
	changes := g.provisional
	g.provisional = nil
	for _, change := range invertGroup(changes) {
		g.mutateOne(change)
	}
	g.typecheckWires()
	return true
}

// tryMutateInternal applies the changes in order; on the first failure it
// rolls back the applied prefix and reports failure. The wire analysis
// reruns either way.
func (g *EditGrid) tryMutateInternal(changes []GridChange) ([]GridChange, bool) {
	if g.eval != nil {
		return nil, false
	}
	applied := 0
	for _, change := range changes {
		if !g.mutateOne(change) {
			break
		}
		applied++
	}
	ok := applied == len(changes)
	if !ok {
		for _, change := range invertGroup(changes[:applied]) {
			g.mutateOne(change)
		}
		changes = nil
	} else {
		g.redoStack = nil
		g.modified = true
	}
	g.typecheckWires()
	return changes, ok
}

// mutateOne validates and applies a single change. A change that would
// leave the fragment graph inconsistent is rejected whole.
func (g *EditGrid) mutateOne(change GridChange) bool {
	switch change.Kind {
	case ChangeReplaceWires:
		return g.replaceWires(change.OldWires, change.NewWires)
	case ChangeAddChip:
		return g.addChip(change.Coords, change.Chip, change.Orient)
	case ChangeRemoveChip:
		return g.removeChip(change.Coords, change.Chip, change.Orient)
	case ChangeSetBounds:
		if g.bounds != change.OldBounds || !g.CanHaveBounds(change.NewBounds) {
			return false
		}
		g.bounds = change.NewBounds
		return true
	default:
		return false
	}
}

func (g *EditGrid) replaceWires(oldWires, newWires map[PortLoc]save.WireShape) bool {
	for loc, shape := range oldWires {
		// The exact fragment being removed must be present.
		if cur, ok := g.fragments[loc]; !ok || cur != shape {
			return false
		}
		// Removal must either take the facing fragment too or put a new
		// fragment in this slot.
		if _, hasNew := newWires[loc]; !hasNew {
			if _, rmMate := oldWires[facingLoc(loc)]; !rmMate {
				return false
			}
		}
		// Unless the same fragment comes right back, its cell-mates must
		// be removed along with it.
		if ns, ok := newWires[loc]; ok && ns == shape {
			continue
		}
		for _, mate := range cellMates(shape, loc.Dir) {
			if _, ok := oldWires[PortLoc{Coords: loc.Coords, Dir: mate}]; !ok {
				return false
			}
		}
	}
	for loc, shape := range newWires {
		coords, dir := loc.Coords, loc.Dir
		// New fragments stay in bounds; a stub may hang just outside as
		// long as it points in.
		if !g.bounds.Contains(coords) &&
			(shape != save.Stub || !g.bounds.Contains(coords.Add(dir.Delta()))) {
			return false
		}
		// No fragments under chips, except stubs feeding a chip port.
		if chipCoords, ctype, orient, ok := g.ChipAt(coords); ok {
			rect := geom.RectWithSize(chipCoords, orient.ApplySize(ctype.Size()))
			if shape != save.Stub || rect.Contains(coords.Add(dir.Delta())) {
				return false
			}
		}
		// An occupied slot must be explicitly vacated first.
		if _, taken := g.fragments[loc]; taken {
			if _, rm := oldWires[loc]; !rm {
				return false
			}
		}
		// The facing slot must gain a fragment too, or already hold one
		// that is not being removed.
		mate := facingLoc(loc)
		if _, added := newWires[mate]; !added {
			_, exists := g.fragments[mate]
			_, removed := oldWires[mate]
			if !exists || removed {
				return false
			}
		}
		// Unless this exact fragment was just removed and re-added, its
		// cell-mates must arrive with it.
		if os, ok := oldWires[loc]; ok && os == shape {
			continue
		}
		for _, want := range cellMateShapes(shape, dir) {
			got, ok := newWires[PortLoc{Coords: coords, Dir: want.dir}]
			if !ok || got != want.shape {
				return false
			}
		}
	}
	for loc := range oldWires {
		delete(g.fragments, loc)
	}
	for loc, shape := range newWires {
		g.fragments[loc] = shape
	}
	return true
}

// cellMates lists the sides of the same cell that must be removed along
// with a fragment of the given shape.
func cellMates(shape save.WireShape, dir geom.Direction) []geom.Direction {
	switch shape {
	case save.Straight, save.SplitRight:
		return []geom.Direction{dir.Opp()}
	case save.TurnLeft, save.SplitLeft, save.SplitTee, save.Cross:
		return []geom.Direction{dir.RotateCW()}
	case save.TurnRight:
		return []geom.Direction{dir.RotateCCW()}
	default:
		return nil
	}
}

type mateShape struct {
	dir   geom.Direction
	shape save.WireShape
}

// cellMateShapes lists the exact fragments that must be added in the same
// cell alongside a fragment of the given shape.
func cellMateShapes(shape save.WireShape, dir geom.Direction) []mateShape {
	switch shape {
	case save.Straight:
		return []mateShape{{dir.Opp(), save.Straight}}
	case save.TurnLeft:
		return []mateShape{{dir.RotateCW(), save.TurnRight}}
	case save.TurnRight:
		return []mateShape{{dir.RotateCCW(), save.TurnLeft}}
	case save.SplitTee:
		return []mateShape{{dir.RotateCW(), save.SplitRight}}
	case save.SplitLeft:
		return []mateShape{{dir.RotateCW(), save.SplitTee}}
	case save.SplitRight:
		return []mateShape{{dir.Opp(), save.SplitLeft}}
	case save.Cross:
		return []mateShape{{dir.RotateCW(), save.Cross}}
	default:
		return nil
	}
}

func (g *EditGrid) addChip(coords geom.Coords, ctype save.ChipType,
	orient geom.Orientation) bool {
	if !g.AllowedChip(ctype) {
		return false
	}
	rect := geom.RectWithSize(coords, orient.ApplySize(ctype.Size()))
	if !g.CanPlaceChip(rect) {
		return false
	}
	// Wires under the chip block placement, except stubs feeding what
	// will become the chip's ports.
	blocked := false
	rect.Cells(func(c geom.Coords) {
		for _, dir := range geom.AllDirections {
			shape, ok := g.fragments[PortLoc{Coords: c, Dir: dir}]
			if !ok {
				continue
			}
			if shape != save.Stub || rect.Contains(c.Add(dir.Delta())) {
				blocked = true
			}
		}
	})
	if blocked {
		return false
	}
	rect.Cells(func(c geom.Coords) {
		g.chips[c] = chipCell{ref: true, delta: coords.Sub(c)}
	})
	g.chips[coords] = chipCell{ctype: ctype, orient: orient}
	return true
}

func (g *EditGrid) removeChip(coords geom.Coords, ctype save.ChipType,
	orient geom.Orientation) bool {
	cell, ok := g.chips[coords]
	if !ok || cell.ref || cell.ctype != ctype || cell.orient != orient {
		return false
	}
	rect := geom.RectWithSize(coords, orient.ApplySize(ctype.Size()))
	rect.Cells(func(c geom.Coords) {
		delete(g.chips, c)
	})
	return true
}

func (g *EditGrid) hasFrag(loc PortLoc) bool {
	_, ok := g.fragments[loc]
	return ok
}

//---------------------------------------------------------------------------

// typecheckWires reruns the whole static analysis: wire grouping,
// coloring, size inference and loop detection. Wire groups are only kept
// when the layout is error free.
func (g *EditGrid) typecheckWires() {
	g.wiresFor = nil
	g.wireGroups = nil
	g.eval = nil

	allPorts := make(map[PortLoc]PortSpec)
	for i := range g.interfaces {
		for _, port := range g.interfaces[i].PortSpecs(g.bounds) {
			allPorts[port.Loc()] = port
		}
	}
	var constraints []PortConstraint
	var dependencies []PortDependency
	for i := range g.interfaces {
		constraints = append(constraints, g.interfaces[i].Constraints(g.bounds)...)
	}
	g.eachChip(func(coords geom.Coords, ctype save.ChipType, orient geom.Orientation) {
		for _, port := range chipPorts(ctype, coords, orient) {
			allPorts[port.Loc()] = port
		}
		constraints = append(constraints, chipConstraints(ctype, coords, orient)...)
		dependencies = append(dependencies, chipDependencies(ctype, coords, orient)...)
	})

	g.fragWires = make(map[PortLoc]WireID, len(g.fragments))
	g.wires = GroupWires(allPorts, g.fragments, g.fragWires)
	g.errors = RecolorWires(g.wires)
	g.wiresFor = MapPortsToWires(g.wires)
	g.errors = append(g.errors,
		DetermineWireSizes(g.wires, g.wiresFor, constraints)...)

	groups, loopErrors := DetectLoops(g.wires, g.wiresFor, dependencies)
	if len(loopErrors) > 0 {
		g.errors = append(g.errors, loopErrors...)
	} else if len(g.errors) == 0 {
		g.wireGroups = groups
	}
}

//---------------------------------------------------------------------------

// Eval returns the running evaluation, if any.
func (g *EditGrid) Eval() *CircuitEval { return g.eval }

// StartEval compiles the current layout into a circuit evaluation. It
// fails if the layout has analysis errors.
func (g *EditGrid) StartEval() bool {
	if len(g.errors) > 0 {
		return false
	}

	wiresFor := make(map[PortLoc]WireID)
	groupsFor := make(map[PortLoc]int)
	nullWires := make(map[int]bool)
	for groupIndex, group := range g.wireGroups {
		for _, wireIndex := range group {
			wire := g.wires[wireIndex]
			if len(wire.Fragments) == 0 {
				nullWires[int(wireIndex)] = true
			}
			for loc, port := range wire.Ports {
				wiresFor[loc] = wireIndex
				if port.flow == Source {
					groupsFor[loc] = groupIndex
				}
			}
		}
	}

	chipGroups := make([][]ChipEval, len(g.wireGroups))
	g.eachChip(func(coords geom.Coords, ctype save.ChipType, orient geom.Orientation) {
		ports := chipPorts(ctype, coords, orient)
		slots := make([]chipSlot, len(ports))
		for i, port := range ports {
			wireIndex := wiresFor[port.Loc()]
			size, _ := g.wires[wireIndex].Size.LowerBound()
			slots[i] = chipSlot{wire: int(wireIndex), size: size}
		}
		for _, pe := range chipEvals(ctype, coords, slots) {
			groupIndex := groupsFor[ports[pe.port].Loc()]
			chipGroups[groupIndex] = append(chipGroups[groupIndex], pe.eval)
		}
	})

	slots := make([][]puzzleSlot, len(g.interfaces))
	for i := range g.interfaces {
		ports := g.interfaces[i].PortSpecs(g.bounds)
		slots[i] = make([]puzzleSlot, len(ports))
		for j, port := range ports {
			loc := port.Loc()
			slots[i][j] = puzzleSlot{loc: loc, wire: int(wiresFor[loc])}
		}
	}

	g.eval = NewCircuitEval(len(g.wires), nullWires, chipGroups,
		newPuzzleEval(g.puzzle, slots))
	return true
}

// StopEval discards the running evaluation and returns the grid to
// editing.
func (g *EditGrid) StopEval() { g.eval = nil }

// IsModified reports whether the grid changed since the last save.
func (g *EditGrid) IsModified() bool { return g.modified }

// MarkUnmodified clears the modified flag, typically after saving.
func (g *EditGrid) MarkUnmodified() { g.modified = false }
