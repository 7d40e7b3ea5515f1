// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package state

import (
	"fmt"

	"github.com/db47h/tachy/geom"
	"github.com/db47h/tachy/save"
)

// noEvent marks a table cell on an event column where no event is
// expected (or sent) during that time step.
const noEvent = ^uint64(0)

// fabricationData is a table-driven task description: a fixed set of
// interfaces and one expected row of port values per time step. Source
// columns are driven into the circuit, sink columns are checked against
// what the circuit produced.
//
type fabricationData struct {
	interfaces []Interface
	table      []uint64
}

func (d *fabricationData) numColumns() int {
	n := 0
	for i := range d.interfaces {
		n += len(d.interfaces[i].Ports)
	}
	return n
}

// fabPort is one flattened interface port, bound to its wire slot.
type fabPort struct {
	name  string
	flow  PortFlow
	color PortColor
	loc   PortLoc
	wire  int
}

// fabricationEval runs a fabricationData table against the circuit, one
// row per time step. The run ends in a wire-length victory once the
// table is exhausted.
//
type fabricationEval struct {
	data     *fabricationData
	ports    []fabPort
	received []bool
}

func newFabricationEval(data *fabricationData, slots [][]puzzleSlot) *fabricationEval {
	e := &fabricationEval{data: data}
	for i := range data.interfaces {
		iface := &data.interfaces[i]
		for j := range iface.Ports {
			port := &iface.Ports[j]
			e.ports = append(e.ports, fabPort{
				name:  port.Name,
				flow:  port.Flow,
				color: port.Color,
				loc:   slots[i][j].loc,
				wire:  slots[i][j].wire,
			})
		}
	}
	e.received = make([]bool, len(e.ports))
	return e
}

func (e *fabricationEval) row(timeStep uint32) []uint64 {
	cols := len(e.ports)
	start := int(timeStep) * cols
	if start+cols > len(e.data.table) {
		return nil
	}
	return e.data.table[start : start+cols]
}

func (e *fabricationEval) BeginTimeStep(state *CircuitState) *EvalScore {
	row := e.row(state.TimeStep())
	if row == nil {
		return &EvalScore{Kind: ScoreWireLength}
	}
	for i := range e.received {
		e.received[i] = false
	}
	for i, port := range e.ports {
		if port.flow != Source {
			continue
		}
		switch port.color {
		case Event:
			if row[i] != noEvent {
				state.SendEvent(port.wire, uint32(row[i]))
			}
		case Analog:
			state.SendAnalog(port.wire, geom.FixedFromEncoded(uint32(row[i])))
		default:
			state.SendBehavior(port.wire, uint32(row[i]))
		}
	}
	return nil
}

func (e *fabricationEval) BeginAdditionalCycle(state *CircuitState) {}

func (e *fabricationEval) EndCycle(state *CircuitState) []EvalError {
	row := e.row(state.TimeStep())
	if row == nil {
		return nil
	}
	var errors []EvalError
	for i, port := range e.ports {
		if port.flow != Sink || port.color != Event {
			continue
		}
		actual, ok := state.RecvEvent(port.wire)
		if !ok {
			continue
		}
		switch {
		case row[i] == noEvent:
			errors = append(errors, state.PortError(port.loc, fmt.Sprintf(
				"No event expected for %s, but got event value of %d.",
				port.name, actual)))
		case e.received[i]:
			errors = append(errors, state.PortError(port.loc, fmt.Sprintf(
				"Expected only one event for %s, but got more than one.",
				port.name)))
		case uint64(actual) != row[i]:
			errors = append(errors, state.PortError(port.loc, fmt.Sprintf(
				"Expected event value of %d for %s, but got event value of %d.",
				row[i], port.name, actual)))
		}
		e.received[i] = true
	}
	return errors
}

func (e *fabricationEval) NeedsAnotherCycle(timeStep uint32) bool { return false }

func (e *fabricationEval) EndTimeStep(state *CircuitState) []EvalError {
	row := e.row(state.TimeStep())
	if row == nil {
		return nil
	}
	var errors []EvalError
	for i, port := range e.ports {
		if port.flow != Sink {
			continue
		}
		switch port.color {
		case Event:
			if row[i] != noEvent && !e.received[i] {
				errors = append(errors, state.PortError(port.loc, fmt.Sprintf(
					"Expected event value of %d for %s, but got no event.",
					row[i], port.name)))
			}
		default:
			actual := state.RecvBehavior(port.wire)
			if uint64(actual) != row[i] {
				errors = append(errors, state.PortError(port.loc, fmt.Sprintf(
					"Expected value of %d for %s, but got value of %d.",
					row[i], port.name, actual)))
			}
		}
	}
	return errors
}

//
// Table-driven task definitions. Each table is row-major with one
// column per interface port, in interface declaration order.
//

var tutorialOrData = &fabricationData{
	interfaces: []Interface{
		{
			Name:        "In1",
			Description: "First input (0 or 1).",
			Side:        geom.West,
			pos:         ifaceCenter,
			Ports: []InterfacePort{
				{Name: "In1", Flow: Source, Color: Behavior, Size: save.SizeOne},
			},
		},
		{
			Name:        "In2",
			Description: "Second input (0 or 1).",
			Side:        geom.South,
			pos:         ifaceCenter,
			Ports: []InterfacePort{
				{Name: "In2", Flow: Source, Color: Behavior, Size: save.SizeOne},
			},
		},
		{
			Name: "Out",
			Description: "Should be 1 if either input is 1.\n" +
				"Should be 0 if both inputs are 0.",
			Side: geom.East,
			pos:  ifaceCenter,
			Ports: []InterfacePort{
				{Name: "Out", Flow: Sink, Color: Behavior, Size: save.SizeOne},
			},
		},
	},
	table: []uint64{
		0, 0, 0,
		1, 0, 1,
		0, 1, 1,
		1, 1, 1,
	},
}

var fabricateXorData = &fabricationData{
	interfaces: []Interface{
		{
			Name:        "In1",
			Description: "First input (0 or 1).",
			Side:        geom.West,
			pos:         ifaceCenter,
			Ports: []InterfacePort{
				{Name: "In1", Flow: Source, Color: Behavior, Size: save.SizeOne},
			},
		},
		{
			Name:        "In2",
			Description: "Second input (0 or 1).",
			Side:        geom.South,
			pos:         ifaceCenter,
			Ports: []InterfacePort{
				{Name: "In2", Flow: Source, Color: Behavior, Size: save.SizeOne},
			},
		},
		{
			Name: "Out",
			Description: "Should be 1 if exactly one input is 1.\n" +
				"Should be 0 if the inputs are both 0 or both 1.",
			Side: geom.East,
			pos:  ifaceCenter,
			Ports: []InterfacePort{
				{Name: "Out", Flow: Sink, Color: Behavior, Size: save.SizeOne},
			},
		},
	},
	table: []uint64{
		0, 0, 0,
		1, 0, 1,
		0, 1, 1,
		1, 1, 0,
	},
}

var tutorialMuxData = &fabricationData{
	interfaces: []Interface{
		{
			Name:        "In0",
			Description: "First input (0 or 1).",
			Side:        geom.West,
			pos:         ifaceCenter,
			Ports: []InterfacePort{
				{Name: "In0", Flow: Source, Color: Behavior, Size: save.SizeOne},
			},
		},
		{
			Name:        "In1",
			Description: "Second input (0 or 1).",
			Side:        geom.South,
			pos:         ifaceCenter,
			Ports: []InterfacePort{
				{Name: "In1", Flow: Source, Color: Behavior, Size: save.SizeOne},
			},
		},
		{
			Name:        "Ctrl",
			Description: "Selects which input should be sent to the output.",
			Side:        geom.North,
			pos:         ifaceCenter,
			Ports: []InterfacePort{
				{Name: "Ctrl", Flow: Source, Color: Behavior, Size: save.SizeOne},
			},
		},
		{
			Name: "Out",
			Description: "Should be the value of In0 when Ctrl is 0.\n" +
				"Should be the value of In1 when Ctrl is 1.",
			Side: geom.East,
			pos:  ifaceCenter,
			Ports: []InterfacePort{
				{Name: "Out", Flow: Sink, Color: Behavior, Size: save.SizeOne},
			},
		},
	},
	table: []uint64{
		0, 0, 0, 0,
		0, 0, 1, 0,
		0, 1, 0, 0,
		0, 1, 1, 1,
		1, 0, 0, 1,
		1, 0, 1, 0,
		1, 1, 0, 1,
		1, 1, 1, 1,
	},
}

var tutorialAddData = &fabricationData{
	interfaces: []Interface{
		{
			Name:        "In1",
			Description: "First input (from 0 to 15).",
			Side:        geom.West,
			pos:         ifaceCenter,
			Ports: []InterfacePort{
				{Name: "In1", Flow: Source, Color: Behavior, Size: save.SizeFour},
			},
		},
		{
			Name:        "In2",
			Description: "Second input (from 0 to 15).",
			Side:        geom.South,
			pos:         ifaceCenter,
			Ports: []InterfacePort{
				{Name: "In2", Flow: Source, Color: Behavior, Size: save.SizeFour},
			},
		},
		{
			Name: "Out",
			Description: "Should be the sum of the two inputs (which will " +
				"never be more than 15 for this task).",
			Side: geom.East,
			pos:  ifaceCenter,
			Ports: []InterfacePort{
				{Name: "Out", Flow: Sink, Color: Behavior, Size: save.SizeFour},
			},
		},
	},
	table: []uint64{
		2, 1, 3,
		5, 7, 12,
		8, 2, 10,
		4, 4, 8,
		7, 7, 14,
		3, 6, 9,
		6, 5, 11,
		1, 3, 4,
		0, 15, 15,
	},
}

var fabricateHalveData = &fabricationData{
	interfaces: []Interface{
		{
			Name:        "In",
			Description: "Input (from 0 to 15).",
			Side:        geom.West,
			pos:         ifaceCenter,
			Ports: []InterfacePort{
				{Name: "In", Flow: Source, Color: Behavior, Size: save.SizeFour},
			},
		},
		{
			Name:        "Out",
			Description: "Should be half the value of the input, rounded down.",
			Side:        geom.East,
			pos:         ifaceCenter,
			Ports: []InterfacePort{
				{Name: "Out", Flow: Sink, Color: Behavior, Size: save.SizeFour},
			},
		},
	},
	table: []uint64{
		0, 0,
		1, 0,
		2, 1,
		3, 1,
		4, 2,
		5, 2,
		6, 3,
		7, 3,
		8, 4,
		9, 4,
		10, 5,
		11, 5,
		12, 6,
		13, 6,
		14, 7,
		15, 7,
	},
}

var fabricateMulData = &fabricationData{
	interfaces: []Interface{
		{
			Name:        "In1",
			Description: "First input (from 0 to 255).",
			Side:        geom.West,
			pos:         ifaceCenter,
			Ports: []InterfacePort{
				{Name: "In1", Flow: Source, Color: Behavior, Size: save.SizeEight},
			},
		},
		{
			Name:        "In2",
			Description: "Second input (from 0 to 255).",
			Side:        geom.South,
			pos:         ifaceCenter,
			Ports: []InterfacePort{
				{Name: "In2", Flow: Source, Color: Behavior, Size: save.SizeEight},
			},
		},
		{
			Name: "Out",
			Description: "Should be the product of the two inputs (which " +
				"will never be more than 255 for this task).",
			Side: geom.East,
			pos:  ifaceCenter,
			Ports: []InterfacePort{
				{Name: "Out", Flow: Sink, Color: Behavior, Size: save.SizeEight},
			},
		},
	},
	table: []uint64{
		4, 3, 12,
		3, 10, 30,
		20, 12, 240,
		1, 197, 197,
		83, 0, 0,
		13, 19, 247,
		12, 1, 12,
		2, 73, 146,
		0, 7, 0,
		7, 13, 91,
	},
}

// voltage encodes an n/d fixed-point sample for an analog table column.
func voltage(num, den int32) uint64 {
	return uint64(geom.FixedFromRatio(num, den).Encoded())
}

var tutorialAdcData = &fabricationData{
	interfaces: []Interface{
		{
			Name: "In",
			Description: "Carries the analog voltage to be converted, " +
				"nominally between 0 and 1 volt.",
			Side: geom.North,
			pos:  ifaceCenter,
			Ports: []InterfacePort{
				{Name: "In", Flow: Source, Color: Analog, Size: save.SizeAnalog},
			},
		},
		{
			Name: "Sample",
			Description: "Signals when the current voltage should be " +
				"sampled and converted.",
			Side: geom.West,
			pos:  ifaceCenter,
			Ports: []InterfacePort{
				{Name: "Sample", Flow: Source, Color: Event, Size: save.SizeZero},
			},
		},
		{
			Name: "Out",
			Description: "Should be the 2-bit reading for each sample: 0 " +
				"for under a quarter volt, up to 3 for three quarters and " +
				"above.  Out-of-range voltages should produce no reading.",
			Side: geom.East,
			pos:  ifaceCenter,
			Ports: []InterfacePort{
				{Name: "Out", Flow: Sink, Color: Event, Size: save.SizeTwo},
			},
		},
	},
	table: []uint64{
		voltage(0, 16), noEvent, noEvent,
		voltage(2, 16), 0, 0,
		voltage(10, 16), 0, 2,
		voltage(6, 16), 0, 1,
		voltage(10, 16), noEvent, noEvent,
		voltage(16, 16), 0, 3,
		voltage(-1, 16), 0, noEvent,
		voltage(9, 16), 0, 2,
		voltage(0, 16), 0, 0,
		voltage(5, 16), 0, 1,
		voltage(-5, 16), 0, noEvent,
		voltage(13, 16), 0, 3,
	},
}
