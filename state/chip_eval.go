// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package state

import (
	"github.com/db47h/tachy/geom"
	"github.com/db47h/tachy/save"
)

// A chipSlot binds one chip port to the wire slot it is connected to,
// together with the solved size of that wire.
type chipSlot struct {
	wire int
	size save.WireSize
}

// chipEvals builds the evaluators for a placed chip, pairing each one with
// the index of the port it drives. The scheduler files the evaluator under
// the topological group of that port's wire. Chips with no evaluator
// (Display) return nil.
func chipEvals(ctype save.ChipType, coords geom.Coords,
	slots []chipSlot) []portedEval {

	switch ctype.Kind {
	case save.ChipAdd:
		return one(2, &addEval{
			size:   slots[2].size,
			input1: slots[0].wire, input2: slots[1].wire, output: slots[2].wire,
		})
	case save.ChipAdd2Bit:
		return one(2, &add2BitEval{
			input1: slots[0].wire, input2: slots[1].wire,
			output: slots[2].wire, carry: slots[3].wire,
		})
	case save.ChipAnd:
		return one(2, &andEval{
			input1: slots[0].wire, input2: slots[1].wire, output: slots[2].wire,
		})
	case save.ChipBreak:
		return one(1, &breakEval{
			input: slots[0].wire, output: slots[1].wire, coords: coords,
		})
	case save.ChipButton:
		return one(0, &buttonEval{output: slots[0].wire, coords: coords})
	case save.ChipClock:
		return one(1, &clockEval{input: slots[0].wire, output: slots[1].wire})
	case save.ChipCmp:
		return one(2, &cmpEval{
			input1: slots[0].wire, input2: slots[1].wire, output: slots[2].wire,
		})
	case save.ChipCmpEq:
		return one(2, &cmpEqEval{
			input1: slots[0].wire, input2: slots[1].wire, output: slots[2].wire,
		})
	case save.ChipConst:
		return one(0, &constEval{value: ctype.Value, output: slots[0].wire})
	case save.ChipDelay:
		return one(1, &delayEval{input: slots[0].wire, output: slots[1].wire})
	case save.ChipDemux:
		return one(2, &demuxEval{
			input: slots[0].wire, output1: slots[1].wire,
			output2: slots[2].wire, control: slots[3].wire,
		})
	case save.ChipDiscard:
		return one(1, &discardEval{input: slots[0].wire, output: slots[1].wire})
	case save.ChipDisplay:
		return nil
	case save.ChipEq:
		return one(2, &eqEval{
			input1: slots[0].wire, input2: slots[1].wire, output: slots[2].wire,
		})
	case save.ChipFilter:
		return one(1, &filterEval{
			input: slots[0].wire, output: slots[1].wire, control: slots[2].wire,
		})
	case save.ChipHalve:
		return one(1, &halveEval{input: slots[0].wire, output: slots[1].wire})
	case save.ChipInc:
		return one(2, &incEval{
			size:   slots[2].size,
			input1: slots[0].wire, input2: slots[1].wire, output: slots[2].wire,
		})
	case save.ChipJoin:
		return one(2, &joinEval{
			input1: slots[0].wire, input2: slots[1].wire, output: slots[2].wire,
		})
	case save.ChipLatest:
		return one(1, &latestEval{input: slots[0].wire, output: slots[1].wire})
	case save.ChipMul:
		return one(2, &mulEval{
			size:   slots[2].size,
			input1: slots[0].wire, input2: slots[1].wire, output: slots[2].wire,
		})
	case save.ChipMul4Bit:
		return one(2, &mul4BitEval{
			input1: slots[0].wire, input2: slots[1].wire,
			output: slots[2].wire, carry: slots[3].wire,
		})
	case save.ChipMux:
		return one(2, &muxEval{
			input1: slots[0].wire, input2: slots[1].wire,
			output: slots[2].wire, control: slots[3].wire,
		})
	case save.ChipNot:
		return one(1, &notEval{
			size:  slots[1].size,
			input: slots[0].wire, output: slots[1].wire,
		})
	case save.ChipOr:
		return one(2, &orEval{
			input1: slots[0].wire, input2: slots[1].wire, output: slots[2].wire,
		})
	case save.ChipPack:
		return one(2, &packEval{
			inputSize: slots[0].size,
			input1:    slots[0].wire, input2: slots[1].wire, output: slots[2].wire,
		})
	case save.ChipRam:
		return one(2, newRAMEval(slots))
	case save.ChipSample:
		return one(2, &sampleEval{
			inputE: slots[0].wire, inputB: slots[1].wire, output: slots[2].wire,
		})
	case save.ChipSub:
		return one(2, &subEval{
			input1: slots[0].wire, input2: slots[1].wire, output: slots[2].wire,
		})
	case save.ChipToggle:
		return one(0, &toggleEval{
			output: slots[0].wire, value: ctype.Value != 0, coords: coords,
		})
	case save.ChipUnpack:
		return one(2, &unpackEval{
			outputSize: slots[2].size,
			input:      slots[0].wire,
			output1:    slots[1].wire, output2: slots[2].wire,
		})
	case save.ChipXor:
		return one(2, &xorEval{
			input1: slots[0].wire, input2: slots[1].wire, output: slots[2].wire,
		})
	default:
		panic("unknown chip kind " + ctype.Kind.String())
	}
}

// A portedEval is a chip evaluator paired with the index of the port whose
// wire group it belongs to.
type portedEval struct {
	port int
	eval ChipEval
}

func one(port int, eval ChipEval) []portedEval {
	return []portedEval{{port: port, eval: eval}}
}

//---------------------------------------------------------------------------
// Logic.

type andEval struct {
	input1, input2, output int
}

func (e *andEval) Eval(state *CircuitState) {
	state.SendBehavior(e.output,
		state.RecvBehavior(e.input1)&state.RecvBehavior(e.input2))
}

type orEval struct {
	input1, input2, output int
}

func (e *orEval) Eval(state *CircuitState) {
	state.SendBehavior(e.output,
		state.RecvBehavior(e.input1)|state.RecvBehavior(e.input2))
}

type xorEval struct {
	input1, input2, output int
}

func (e *xorEval) Eval(state *CircuitState) {
	state.SendBehavior(e.output,
		state.RecvBehavior(e.input1)^state.RecvBehavior(e.input2))
}

type notEval struct {
	size          save.WireSize
	input, output int
}

func (e *notEval) Eval(state *CircuitState) {
	state.SendBehavior(e.output, ^state.RecvBehavior(e.input)&e.size.Mask())
}

type muxEval struct {
	input1, input2, output, control int
}

func (e *muxEval) Eval(state *CircuitState) {
	var out uint32
	if state.RecvBehavior(e.control) == 0 {
		out = state.RecvBehavior(e.input1)
	} else {
		out = state.RecvBehavior(e.input2)
	}
	state.SendBehavior(e.output, out)
}

type demuxEval struct {
	input, output1, output2, control int
}

func (e *demuxEval) Eval(state *CircuitState) {
	if value, ok := state.RecvEvent(e.input); ok {
		if state.RecvBehavior(e.control) != 0 {
			state.SendEvent(e.output1, value)
		} else {
			state.SendEvent(e.output2, value)
		}
	}
}

// filterEval passes events through while its control line is low.
type filterEval struct {
	input, output, control int
}

func (e *filterEval) Eval(state *CircuitState) {
	if value, ok := state.RecvEvent(e.input); ok {
		if state.RecvBehavior(e.control) == 0 {
			state.SendEvent(e.output, value)
		}
	}
}

//---------------------------------------------------------------------------
// Arithmetic. The two-input behavior chips only resend their output when
// an input level actually changed, so that stable feedback loops through
// them can settle.

type addEval struct {
	size                   save.WireSize
	input1, input2, output int
}

func (e *addEval) Eval(state *CircuitState) {
	if state.BehaviorChanged(e.input1) || state.BehaviorChanged(e.input2) {
		sum := state.RecvBehavior(e.input1) + state.RecvBehavior(e.input2)
		state.SendBehavior(e.output, sum&e.size.Mask())
	}
}

type subEval struct {
	input1, input2, output int
}

// Sub emits the absolute difference of its inputs.
func (e *subEval) Eval(state *CircuitState) {
	if state.BehaviorChanged(e.input1) || state.BehaviorChanged(e.input2) {
		diff := int64(state.RecvBehavior(e.input1)) -
			int64(state.RecvBehavior(e.input2))
		if diff < 0 {
			diff = -diff
		}
		state.SendBehavior(e.output, uint32(diff))
	}
}

type mulEval struct {
	size                   save.WireSize
	input1, input2, output int
}

func (e *mulEval) Eval(state *CircuitState) {
	if state.BehaviorChanged(e.input1) || state.BehaviorChanged(e.input2) {
		prod := state.RecvBehavior(e.input1) * state.RecvBehavior(e.input2)
		state.SendBehavior(e.output, prod&e.size.Mask())
	}
}

type add2BitEval struct {
	input1, input2, output, carry int
}

func (e *add2BitEval) Eval(state *CircuitState) {
	if state.BehaviorChanged(e.input1) || state.BehaviorChanged(e.input2) {
		sum := state.RecvBehavior(e.input1) + state.RecvBehavior(e.input2)
		state.SendBehavior(e.output, sum&0b11)
		state.SendBehavior(e.carry, (sum>>2)&0b11)
	}
}

type mul4BitEval struct {
	input1, input2, output, carry int
}

func (e *mul4BitEval) Eval(state *CircuitState) {
	if state.BehaviorChanged(e.input1) || state.BehaviorChanged(e.input2) {
		prod := state.RecvBehavior(e.input1) * state.RecvBehavior(e.input2)
		state.SendBehavior(e.output, prod&0xf)
		state.SendBehavior(e.carry, (prod>>4)&0xf)
	}
}

type halveEval struct {
	input, output int
}

func (e *halveEval) Eval(state *CircuitState) {
	state.SendBehavior(e.output, state.RecvBehavior(e.input)>>1)
}

type incEval struct {
	size                   save.WireSize
	input1, input2, output int
}

func (e *incEval) Eval(state *CircuitState) {
	if value, ok := state.RecvEvent(e.input1); ok {
		out := (value + state.RecvBehavior(e.input2)) & e.size.Mask()
		state.SendEvent(e.output, out)
	}
}

//---------------------------------------------------------------------------
// Comparison.

type cmpEval struct {
	input1, input2, output int
}

func (e *cmpEval) Eval(state *CircuitState) {
	var out uint32
	if state.RecvBehavior(e.input1) < state.RecvBehavior(e.input2) {
		out = 1
	}
	state.SendBehavior(e.output, out)
}

type cmpEqEval struct {
	input1, input2, output int
}

func (e *cmpEqEval) Eval(state *CircuitState) {
	var out uint32
	if state.RecvBehavior(e.input1) <= state.RecvBehavior(e.input2) {
		out = 1
	}
	state.SendBehavior(e.output, out)
}

type eqEval struct {
	input1, input2, output int
}

func (e *eqEval) Eval(state *CircuitState) {
	var out uint32
	if state.RecvBehavior(e.input1) == state.RecvBehavior(e.input2) {
		out = 1
	}
	state.SendBehavior(e.output, out)
}

//---------------------------------------------------------------------------
// Value plumbing.

type constEval struct {
	value  uint32
	output int
}

func (e *constEval) Eval(state *CircuitState) {
	state.SendBehavior(e.output, e.value)
}

type packEval struct {
	inputSize              save.WireSize
	input1, input2, output int
}

func (e *packEval) Eval(state *CircuitState) {
	out := state.RecvBehavior(e.input1) |
		state.RecvBehavior(e.input2)<<e.inputSize.NumBits()
	state.SendBehavior(e.output, out)
}

type unpackEval struct {
	outputSize              save.WireSize
	input, output1, output2 int
}

func (e *unpackEval) Eval(state *CircuitState) {
	in := state.RecvBehavior(e.input)
	state.SendBehavior(e.output1, in&e.outputSize.Mask())
	state.SendBehavior(e.output2, in>>e.outputSize.NumBits())
}

type discardEval struct {
	input, output int
}

func (e *discardEval) Eval(state *CircuitState) {
	if state.HasEvent(e.input) {
		state.SendEvent(e.output, 0)
	}
}

// joinEval forwards whichever input fires; the side input wins ties.
type joinEval struct {
	input1, input2, output int
}

func (e *joinEval) Eval(state *CircuitState) {
	if value, ok := state.RecvEvent(e.input1); ok {
		state.SendEvent(e.output, value)
	} else if value, ok := state.RecvEvent(e.input2); ok {
		state.SendEvent(e.output, value)
	}
}

type sampleEval struct {
	inputE, inputB, output int
}

func (e *sampleEval) Eval(state *CircuitState) {
	if state.HasEvent(e.inputE) {
		state.SendEvent(e.output, state.RecvBehavior(e.inputB))
	}
}

type latestEval struct {
	input, output int
}

func (e *latestEval) Eval(state *CircuitState) {
	if value, ok := state.RecvEvent(e.input); ok {
		state.SendBehavior(e.output, value)
	}
}
