// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package state

import (
	"github.com/db47h/tachy/geom"
	"github.com/db47h/tachy/save"
)

// Sandboxes run forever; there is no victory condition. The timer
// interface just feeds the circuit something to react to.

var sandboxBehaviorInterfaces = []Interface{
	{
		Name:        "Timer Interface",
		Description: "Connects to a digital timer.",
		Side:        geom.West,
		pos:         ifaceRight(0),
		Ports: []InterfacePort{
			{
				Name:        "Time",
				Description: "Outputs the current time step.",
				Flow:        Source,
				Color:       Behavior,
				Size:        save.SizeEight,
			},
		},
	},
}

var sandboxEventInterfaces = []Interface{
	{
		Name:        "Startup Interface",
		Description: "Connects to the power supply.",
		Side:        geom.North,
		pos:         ifaceRight(0),
		Ports: []InterfacePort{
			{
				Name:        "Init",
				Description: "Sends a single event at the start of the first time step.",
				Flow:        Source,
				Color:       Event,
				Size:        save.SizeZero,
			},
		},
	},
	{
		Name:        "Timer Interface",
		Description: "Connects to a digital timer.",
		Side:        geom.West,
		pos:         ifaceRight(0),
		Ports: []InterfacePort{
			{
				Name:        "Time",
				Description: "Outputs the current time step.",
				Flow:        Source,
				Color:       Behavior,
				Size:        save.SizeEight,
			},
			{
				Name:        "Tick",
				Description: "Sends an event at the beginning of each time step.",
				Flow:        Source,
				Color:       Event,
				Size:        save.SizeZero,
			},
		},
	},
}

type sandboxBehaviorEval struct {
	nullPuzzleEval
	timeWire int
}

func newSandboxBehaviorEval(slots [][]puzzleSlot) *sandboxBehaviorEval {
	return &sandboxBehaviorEval{timeWire: slots[0][0].wire}
}

func (e *sandboxBehaviorEval) BeginTimeStep(state *CircuitState) *EvalScore {
	state.SendBehavior(e.timeWire, state.TimeStep()&0xff)
	return nil
}

type sandboxEventEval struct {
	nullPuzzleEval
	initWire int
	timeWire int
	tickWire int
}

func newSandboxEventEval(slots [][]puzzleSlot) *sandboxEventEval {
	return &sandboxEventEval{
		initWire: slots[0][0].wire,
		timeWire: slots[1][0].wire,
		tickWire: slots[1][1].wire,
	}
}

func (e *sandboxEventEval) BeginTimeStep(state *CircuitState) *EvalScore {
	if state.TimeStep() == 0 {
		state.SendEvent(e.initWire, 0)
	}
	state.SendBehavior(e.timeWire, state.TimeStep()&0xff)
	state.SendEvent(e.tickWire, 0)
	return nil
}
