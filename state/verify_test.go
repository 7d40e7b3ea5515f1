// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package state

import (
	"testing"

	"github.com/db47h/tachy/geom"
	"github.com/db47h/tachy/save"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tutorialOrCircuit wires the task's three interface ports straight
// into an Or chip at the center of the board.
func tutorialOrCircuit() *save.CircuitData {
	d := save.NewCircuitData(geom.Rect{X: 0, Y: 0, Width: 5, Height: 5})
	d.Chips[geom.Coords{X: 2, Y: 2}] = save.PlacedChip{
		Type: save.ChipType{Kind: save.ChipOr},
	}
	wire := func(x, y int32, side geom.Direction, shape save.WireShape) {
		d.Wires[save.WireLoc{Pos: geom.Coords{X: x, Y: y}, Side: side}] = shape
	}
	// In1, west edge to the chip.
	wire(-1, 2, geom.East, save.Stub)
	wire(0, 2, geom.East, save.Straight)
	wire(1, 2, geom.East, save.Straight)
	wire(2, 2, geom.West, save.Stub)
	// In2, south edge up to the chip.
	wire(2, 5, geom.North, save.Stub)
	wire(2, 4, geom.North, save.Straight)
	wire(2, 3, geom.North, save.Straight)
	wire(2, 2, geom.South, save.Stub)
	// Out, chip to the east edge.
	wire(2, 2, geom.East, save.Stub)
	wire(3, 2, geom.East, save.Straight)
	wire(4, 2, geom.East, save.Straight)
	wire(5, 2, geom.West, save.Stub)
	return d
}

func TestEvalTutorialOrVictory(t *testing.T) {
	g := EditGridFromCircuitData(save.TutorialOr, tutorialOrCircuit())
	require.False(t, g.HasErrors())
	require.True(t, g.StartEval())

	eval := g.Eval()
	result := Continue
	for result == Continue {
		result = eval.StepTime()
	}
	require.Equal(t, Victory, result, "errors: %v", eval.Errors())
	assert.Equal(t, uint32(4), eval.TimeStep())
	assert.Equal(t, uint32(18), resolveScore(g, eval))
}

func TestVerifyGoodSolution(t *testing.T) {
	data := &save.SolutionData{
		Puzzle:    save.TutorialOr,
		Score:     18,
		TimeSteps: 4,
		Circuit:   tutorialOrCircuit(),
	}
	assert.Empty(t, VerifySolution(data))
}

func TestVerifyWrongScore(t *testing.T) {
	data := &save.SolutionData{
		Puzzle:    save.TutorialOr,
		Score:     17,
		TimeSteps: 4,
		Circuit:   tutorialOrCircuit(),
	}
	assert.Equal(t, []string{"Actual score was 18, but expected 17"},
		VerifySolution(data))
}

func TestVerifyFailingCircuit(t *testing.T) {
	data := &save.SolutionData{
		Puzzle:    save.TutorialOr,
		Score:     0,
		TimeSteps: 4,
		Circuit: save.NewCircuitData(
			geom.Rect{X: 0, Y: 0, Width: 5, Height: 5}),
	}
	assert.Equal(t, []string{
		"Time step 1: Expected value of 1 for Out, but got value of 0.",
		"Time step 2: Expected value of 1 for Out, but got value of 0.",
		"Time step 3: Expected value of 1 for Out, but got value of 0.",
	}, VerifySolution(data))
}

func TestVerifyMultipleSenders(t *testing.T) {
	// Both input ports joined onto one wire, with no chip in between.
	d := save.NewCircuitData(geom.Rect{X: 0, Y: 0, Width: 5, Height: 5})
	wire := func(x, y int32, side geom.Direction, shape save.WireShape) {
		d.Wires[save.WireLoc{Pos: geom.Coords{X: x, Y: y}, Side: side}] = shape
	}
	wire(-1, 2, geom.East, save.Stub)
	wire(0, 2, geom.East, save.Straight)
	wire(1, 2, geom.East, save.Straight)
	wire(2, 2, geom.West, save.TurnRight)
	wire(2, 3, geom.North, save.Straight)
	wire(2, 4, geom.North, save.Straight)
	wire(2, 5, geom.North, save.Stub)
	data := &save.SolutionData{
		Puzzle:    save.TutorialOr,
		Score:     0,
		TimeSteps: 4,
		Circuit:   d,
	}
	assert.Equal(t, []string{
		"Wire 0 has multiple senders",
		"Circuit had errors",
	}, VerifySolution(data))
}

// toggleOutCircuit drives the task's Out port from a Toggle chip, so
// the run only succeeds when the recorded presses are replayed.
func toggleOutCircuit() *save.CircuitData {
	d := save.NewCircuitData(geom.Rect{X: 0, Y: 0, Width: 5, Height: 5})
	d.Chips[geom.Coords{X: 2, Y: 2}] = save.PlacedChip{
		Type: save.ToggleChip(false),
	}
	wire := func(x, y int32, side geom.Direction, shape save.WireShape) {
		d.Wires[save.WireLoc{Pos: geom.Coords{X: x, Y: y}, Side: side}] = shape
	}
	wire(2, 2, geom.East, save.Stub)
	wire(3, 2, geom.East, save.Straight)
	wire(4, 2, geom.East, save.Straight)
	wire(5, 2, geom.West, save.Stub)
	return d
}

func TestVerifyReplaysInputs(t *testing.T) {
	data := &save.SolutionData{
		Puzzle:    save.TutorialOr,
		Score:     6,
		TimeSteps: 4,
		Inputs: []save.InputRecord{
			{TimeStep: 1, Cycle: 0, Delta: geom.Delta{X: 2, Y: 2}, Count: 1},
		},
		Circuit: toggleOutCircuit(),
	}
	assert.Empty(t, VerifySolution(data))
}

func TestVerifyWithoutInputsFails(t *testing.T) {
	// The same circuit without the recorded press never raises Out.
	data := &save.SolutionData{
		Puzzle:    save.TutorialOr,
		Score:     6,
		TimeSteps: 4,
		Circuit:   toggleOutCircuit(),
	}
	assert.Equal(t, []string{
		"Time step 1: Expected value of 1 for Out, but got value of 0.",
		"Time step 2: Expected value of 1 for Out, but got value of 0.",
		"Time step 3: Expected value of 1 for Out, but got value of 0.",
	}, VerifySolution(data))
}

func TestVerifyDidNotEnd(t *testing.T) {
	data := &save.SolutionData{
		Puzzle:    save.TutorialOr,
		Score:     18,
		TimeSteps: 3,
		Circuit:   tutorialOrCircuit(),
	}
	assert.Equal(t, []string{"Evaluation did not end at time step 3"},
		VerifySolution(data))
}
