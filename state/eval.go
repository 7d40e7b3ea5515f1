// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package state

import (
	"fmt"

	"github.com/db47h/tachy/geom"
)

// maxCyclesPerTimeStep bounds chip evaluations within one time step so an
// unbroken loop that slipped past analysis cannot livelock the evaluator.
const maxCyclesPerTimeStep = 1000

// An EvalResult is what one evaluator step yields.
//
type EvalResult uint8

const (
	// Continue means the evaluator can take another step.
	Continue EvalResult = iota
	// Breakpoint means a Break chip fired; see CircuitEval.Breakpoints.
	Breakpoint
	// Failure means errors were recorded; see CircuitEval.Errors.
	Failure
	// Victory means the puzzle completed; see CircuitEval.Score.
	Victory
)

// An EvalError is a time-indexed evaluation failure, optionally anchored
// to a port.
//
type EvalError struct {
	TimeStep uint32
	Port     *PortLoc
	Fatal    bool
	Message  string
}

// ScoreKind tells how a victory score is computed.
type ScoreKind uint8

const (
	// ScoreCycles scores by total cycles taken.
	ScoreCycles ScoreKind = iota
	// ScoreValue scores by a puzzle-supplied value.
	ScoreValue
	// ScoreWireLength scores by the number of wire fragments placed.
	ScoreWireLength
)

// An EvalScore is a victory score before unit resolution.
//
type EvalScore struct {
	Kind  ScoreKind
	Value uint32
}

// PuzzleEval drives a puzzle's side of an evaluation: it feeds inputs to
// interface source wires and checks outputs on interface sink wires.
//
type PuzzleEval interface {
	// BeginTimeStep runs before the first subcycle of each time step and
	// drives that step's inputs. A non-nil score ends the run in victory.
	BeginTimeStep(state *CircuitState) *EvalScore

	// BeginAdditionalCycle runs before every cycle after the first,
	// optionally sending more events within the same time step.
	BeginAdditionalCycle(state *CircuitState)

	// EndCycle runs after every cycle; event outputs are checked here.
	EndCycle(state *CircuitState) []EvalError

	// NeedsAnotherCycle reports whether the puzzle wants another cycle in
	// the current time step.
	NeedsAnotherCycle(timeStep uint32) bool

	// EndTimeStep runs after the last cycle of each time step; behavior
	// outputs are checked here.
	EndTimeStep(state *CircuitState) []EvalError
}

// ChipEval is one placed chip's evaluation behavior.
//
type ChipEval interface {
	// Eval runs once per cycle during the chip's subcycle.
	Eval(state *CircuitState)
}

// chipNeedsAnotherCycle is implemented by chips that can demand an extra
// cycle in the same time step (e.g. Button presses, Clock edges).
type chipNeedsAnotherCycle interface {
	NeedsAnotherCycle(state *CircuitState) bool
}

// chipOnTimeStep is implemented by chips with state that advances between
// time steps (Delay, Clock, Ram write latches).
type chipOnTimeStep interface {
	OnTimeStep()
}

// chipOnPress is implemented by interactive chips (Button, Toggle). The
// sublocation distinguishes clickable parts of a multi-part chip; simple
// chips ignore it.
type chipOnPress interface {
	OnPress(sublocation uint32)
	Coords() geom.Coords
}

//---------------------------------------------------------------------------

// CircuitState holds the per-wire values of a running evaluation. A wire
// slot is a (value, changed) pair; event wires treat changed as event
// presence within the current cycle, behavior wires as a level change
// within the current time step.
//
type CircuitState struct {
	timeStep uint32
	// Ports with no attached fragments still get a wire slot for uniform
	// evaluation, but their changes don't count as circuit activity.
	nullWires   map[int]bool
	values      []wireValue
	breakpoints []geom.Coords
	changed     bool
}

type wireValue struct {
	value   uint32
	changed bool
}

func newCircuitState(numWires int, nullWires map[int]bool) *CircuitState {
	return &CircuitState{
		nullWires: nullWires,
		values:    make([]wireValue, numWires),
	}
}

// TimeStep returns the current time step, starting at zero.
func (s *CircuitState) TimeStep() uint32 { return s.timeStep }

// RecvBehavior returns the latched level of a behavior wire.
func (s *CircuitState) RecvBehavior(slot int) uint32 {
	return s.values[slot].value
}

// BehaviorChanged reports whether the behavior wire's level changed this
// time step.
func (s *CircuitState) BehaviorChanged(slot int) bool {
	return s.values[slot].changed
}

// RecvEvent returns the event on the wire this cycle, if any.
func (s *CircuitState) RecvEvent(slot int) (uint32, bool) {
	v := s.values[slot]
	return v.value, v.changed
}

// HasEvent reports whether the wire carries an event this cycle.
func (s *CircuitState) HasEvent(slot int) bool {
	return s.values[slot].changed
}

// SendBehavior drives a level onto a behavior wire; the change flag is
// set only if the level differs from the current one.
func (s *CircuitState) SendBehavior(slot int, value uint32) {
	if s.values[slot].value != value {
		s.values[slot] = wireValue{value: value, changed: true}
		s.changed = !s.nullWires[slot]
	}
}

// SendEvent fires an event onto an event wire.
func (s *CircuitState) SendEvent(slot int, value uint32) {
	s.values[slot] = wireValue{value: value, changed: true}
	s.changed = !s.nullWires[slot]
}

// RecvAnalog returns the voltage currently on an analog wire.
func (s *CircuitState) RecvAnalog(slot int) geom.Fixed {
	return geom.FixedFromEncoded(s.values[slot].value)
}

// SendAnalog drives a voltage onto an analog wire. Like behavior levels,
// the change flag is set only when the sample actually moves.
func (s *CircuitState) SendAnalog(slot int, value geom.Fixed) {
	s.SendBehavior(slot, value.Encoded())
}

// Breakpoint records that the chip at coords wants to pause the run.
func (s *CircuitState) Breakpoint(coords geom.Coords) {
	s.breakpoints = append(s.breakpoints, coords)
}

// FatalError builds a run-terminating error at the current time step.
func (s *CircuitState) FatalError(message string) EvalError {
	return EvalError{TimeStep: s.timeStep, Fatal: true, Message: message}
}

// PortError builds a non-fatal error anchored to a port.
func (s *CircuitState) PortError(port PortLoc, message string) EvalError {
	return EvalError{TimeStep: s.timeStep, Port: &port, Message: message}
}

// FatalPortError builds a run-terminating error anchored to a port.
func (s *CircuitState) FatalPortError(port PortLoc, message string) EvalError {
	return EvalError{TimeStep: s.timeStep, Port: &port, Fatal: true, Message: message}
}

func (s *CircuitState) resetForCycle() {
	for i := range s.values {
		s.values[i].changed = false
	}
}

func (s *CircuitState) resetForSubcycle() {
	s.changed = false
}

//---------------------------------------------------------------------------

// CircuitEval runs a netlist against a puzzle task. It is a plain state
// machine: each Step* call advances the run and returns what happened,
// and the caller owns the outer loop.
//
type CircuitEval struct {
	totalCycles uint32
	cycle       uint32 // cycle within the current time step
	subcycle    int    // next chip group to evaluate
	errors      []EvalError
	score       EvalScore
	breakpoints []geom.Coords
	// Chips in topological order, grouped so that each group only depends
	// on wires driven by earlier groups.
	chips  [][]ChipEval
	puzzle PuzzleEval
	state  *CircuitState
}

// NewCircuitEval builds an evaluator over numWires wire slots, the given
// chip groups in subcycle order, and the puzzle task.
func NewCircuitEval(numWires int, nullWires map[int]bool,
	chipGroups [][]ChipEval, puzzle PuzzleEval) *CircuitEval {

	return &CircuitEval{
		chips:  chipGroups,
		puzzle: puzzle,
		state:  newCircuitState(numWires, nullWires),
	}
}

// TimeStep returns the current time step.
func (e *CircuitEval) TimeStep() uint32 { return e.state.timeStep }

// Cycle returns the cycle index within the current time step.
func (e *CircuitEval) Cycle() uint32 { return e.cycle }

// TotalCycles returns the number of completed cycles across all steps.
func (e *CircuitEval) TotalCycles() uint32 { return e.totalCycles }

// Subcycle returns the index of the next chip group to evaluate.
func (e *CircuitEval) Subcycle() int { return e.subcycle }

// Errors returns the errors recorded so far.
func (e *CircuitEval) Errors() []EvalError { return e.errors }

// Score returns the victory score; valid only after a Victory result.
func (e *CircuitEval) Score() EvalScore { return e.score }

// Breakpoints returns the chips that fired at the last Breakpoint result.
func (e *CircuitEval) Breakpoints() []geom.Coords { return e.breakpoints }

// State exposes the wire state for UI inspection between steps.
func (e *CircuitEval) State() *CircuitState { return e.state }

// PressButton forwards count clicks to the interactive chip at coords,
// if any, aimed at the given sublocation.
func (e *CircuitEval) PressButton(coords geom.Coords, sublocation, count uint32) {
	for _, group := range e.chips {
		for _, chip := range group {
			if p, ok := chip.(chipOnPress); ok && p.Coords() == coords {
				for i := uint32(0); i < count; i++ {
					p.OnPress(sublocation)
				}
			}
		}
	}
}

func (e *CircuitEval) recordErrors(errors []EvalError) bool {
	fatal := false
	for _, err := range errors {
		fatal = fatal || err.Fatal
	}
	e.errors = append(e.errors, errors...)
	return fatal
}

// StepSubcycle advances the evaluation by one chip group (or one cycle or
// step boundary) and reports the outcome.
func (e *CircuitEval) StepSubcycle() EvalResult {
	e.state.resetForSubcycle()
	for !e.state.changed {
		if e.subcycle >= len(e.chips) {
			return e.finishCycle()
		}
		if e.cycle == 0 && e.subcycle == 0 {
			if score := e.puzzle.BeginTimeStep(e.state); score != nil {
				if len(e.errors) > 0 {
					return Failure
				}
				e.score = *score
				return Victory
			}
		}
		for _, chip := range e.chips[e.subcycle] {
			chip.Eval(e.state)
		}
		e.subcycle++
		if len(e.state.breakpoints) > 0 {
			e.breakpoints = e.state.breakpoints
			e.state.breakpoints = nil
			return Breakpoint
		}
	}
	return Continue
}

func (e *CircuitEval) finishCycle() EvalResult {
	needsAnotherCycle := false
	for _, group := range e.chips {
		for _, chip := range group {
			if c, ok := chip.(chipNeedsAnotherCycle); ok {
				needsAnotherCycle = c.NeedsAnotherCycle(e.state) || needsAnotherCycle
			}
		}
	}
	if e.recordErrors(e.puzzle.EndCycle(e.state)) {
		return Failure
	}
	needsAnotherCycle = needsAnotherCycle ||
		e.puzzle.NeedsAnotherCycle(e.TimeStep())
	if e.cycle+1 >= maxCyclesPerTimeStep {
		e.errors = append(e.errors, e.state.FatalError(
			fmt.Sprintf("Exceeded %d cycles.", maxCyclesPerTimeStep)))
		return Failure
	}
	e.subcycle = 0
	e.cycle++
	e.totalCycles++
	if needsAnotherCycle {
		e.state.resetForCycle()
		e.puzzle.BeginAdditionalCycle(e.state)
		return Continue
	}
	if e.recordErrors(e.puzzle.EndTimeStep(e.state)) {
		return Failure
	}
	for _, group := range e.chips {
		for _, chip := range group {
			if c, ok := chip.(chipOnTimeStep); ok {
				c.OnTimeStep()
			}
		}
	}
	e.state.resetForCycle()
	e.cycle = 0
	e.state.timeStep++
	return Continue
}

// StepCycle advances the evaluation until the current cycle completes.
func (e *CircuitEval) StepCycle() EvalResult {
	timeStep, cycle := e.TimeStep(), e.cycle
	for e.TimeStep() == timeStep && e.cycle == cycle {
		if result := e.StepSubcycle(); result != Continue {
			return result
		}
	}
	return Continue
}

// StepTime advances the evaluation until the current time step completes.
func (e *CircuitEval) StepTime() EvalResult {
	timeStep := e.TimeStep()
	for e.TimeStep() == timeStep {
		if result := e.StepSubcycle(); result != Continue {
			return result
		}
	}
	return Continue
}
