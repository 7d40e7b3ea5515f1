// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package state

import (
	"github.com/db47h/tachy/geom"
)

// breakEval forwards events unchanged and pauses the run when one passes
// through.
type breakEval struct {
	input, output int
	coords        geom.Coords
}

func (e *breakEval) Eval(state *CircuitState) {
	if value, ok := state.RecvEvent(e.input); ok {
		state.SendEvent(e.output, value)
		state.Breakpoint(e.coords)
	}
}

// buttonEval emits one zero-sized event per queued press, holding the
// cycle open until the queue drains.
type buttonEval struct {
	output     int
	coords     geom.Coords
	pressCount int
}

func (e *buttonEval) OnPress(uint32)      { e.pressCount++ }
func (e *buttonEval) Coords() geom.Coords { return e.coords }

func (e *buttonEval) Eval(state *CircuitState) {
	if e.pressCount > 0 {
		e.pressCount--
		state.SendEvent(e.output, 0)
	}
}

func (e *buttonEval) NeedsAnotherCycle(state *CircuitState) bool {
	return e.pressCount > 0
}

// toggleEval drives a one-bit level that each press flips.
type toggleEval struct {
	output int
	value  bool
	coords geom.Coords
}

func (e *toggleEval) OnPress(uint32)      { e.value = !e.value }
func (e *toggleEval) Coords() geom.Coords { return e.coords }

func (e *toggleEval) Eval(state *CircuitState) {
	var out uint32
	if e.value {
		out = 1
	}
	state.SendBehavior(e.output, out)
}

// clockEval emits a zero-sized event at the start of the time step after
// one arrived on its input. Its data lists no dependencies, so a wire
// through a Clock may close a loop.
type clockEval struct {
	input, output int
	received      bool
	shouldSend    bool
}

func (e *clockEval) Eval(state *CircuitState) {
	if e.shouldSend {
		state.SendEvent(e.output, 0)
		e.shouldSend = false
	}
}

func (e *clockEval) NeedsAnotherCycle(state *CircuitState) bool {
	if state.HasEvent(e.input) {
		e.received = true
	}
	return false
}

func (e *clockEval) OnTimeStep() {
	e.shouldSend = e.received
	e.received = false
}

// delayEval re-emits each input event during the next cycle, requesting
// that extra cycle itself.
type delayEval struct {
	input, output int
	value         uint32
	hasValue      bool
}

func (e *delayEval) Eval(state *CircuitState) {
	if e.hasValue {
		e.hasValue = false
		state.SendEvent(e.output, e.value)
	}
}

func (e *delayEval) NeedsAnotherCycle(state *CircuitState) bool {
	if value, ok := state.RecvEvent(e.input); ok {
		e.value = value
		e.hasValue = true
		return true
	}
	return false
}

// ramEval is the 2x2 dual-port memory. Writes land before reads within
// the same cycle; both read ports refresh every cycle.
type ramEval struct {
	inputB1, inputE1, output1 int
	inputB2, inputE2, output2 int
	values                    []uint32
}

func newRAMEval(slots []chipSlot) *ramEval {
	numAddrs := 1 << slots[0].size.NumBits()
	return &ramEval{
		inputB1: slots[0].wire,
		inputE1: slots[1].wire,
		output1: slots[2].wire,
		inputB2: slots[3].wire,
		inputE2: slots[4].wire,
		output2: slots[5].wire,
		values:  make([]uint32, numAddrs),
	}
}

func (e *ramEval) Eval(state *CircuitState) {
	addr1 := state.RecvBehavior(e.inputB1)
	addr2 := state.RecvBehavior(e.inputB2)
	if value, ok := state.RecvEvent(e.inputE1); ok {
		e.values[addr1] = value
	}
	if value, ok := state.RecvEvent(e.inputE2); ok {
		e.values[addr2] = value
	}
	state.SendBehavior(e.output1, e.values[addr1])
	state.SendBehavior(e.output2, e.values[addr2])
}
