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

func buttonOnlyEval(coords geom.Coords) *CircuitEval {
	btn := &buttonEval{output: 0, coords: coords}
	return NewCircuitEval(1, map[int]bool{},
		[][]ChipEval{{btn}}, nullPuzzleEval{})
}

func TestPressButtonQueuesPresses(t *testing.T) {
	coords := geom.Coords{X: 1, Y: 1}
	eval := buttonOnlyEval(coords)
	eval.PressButton(coords, 0, 3)

	// Each queued press holds the time step open for one more cycle.
	require.Equal(t, Continue, eval.StepCycle())
	assert.Equal(t, uint32(0), eval.TimeStep())
	assert.Equal(t, uint32(1), eval.Cycle())
	require.Equal(t, Continue, eval.StepCycle())
	assert.Equal(t, uint32(0), eval.TimeStep())
	assert.Equal(t, uint32(2), eval.Cycle())
	// The last press drains the queue and the time step ends.
	require.Equal(t, Continue, eval.StepCycle())
	assert.Equal(t, uint32(1), eval.TimeStep())
	assert.Equal(t, uint32(0), eval.Cycle())
}

func TestPressButtonIgnoresOtherCoords(t *testing.T) {
	eval := buttonOnlyEval(geom.Coords{X: 1, Y: 1})
	eval.PressButton(geom.Coords{X: 3, Y: 3}, 0, 5)
	require.Equal(t, Continue, eval.StepCycle())
	assert.Equal(t, uint32(1), eval.TimeStep())
}

func TestEvalCycleLimit(t *testing.T) {
	coords := geom.Coords{X: 0, Y: 0}
	eval := buttonOnlyEval(coords)
	eval.PressButton(coords, 0, 2*maxCyclesPerTimeStep)

	result := Continue
	for result == Continue {
		result = eval.StepCycle()
	}
	require.Equal(t, Failure, result)
	errs := eval.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, EvalError{
		TimeStep: 0,
		Fatal:    true,
		Message:  "Exceeded 1000 cycles.",
	}, errs[0])
}

func TestGatherInputs(t *testing.T) {
	origin := geom.Coords{X: -2, Y: -1}
	inputs := gatherInputs([]save.InputRecord{
		{TimeStep: 0, Cycle: 0, Delta: geom.Delta{X: 1, Y: 3}, Count: 1},
		{TimeStep: 0, Cycle: 0, Delta: geom.Delta{X: 2, Y: 2},
			Sublocation: 1, Count: 2},
		{TimeStep: 5, Cycle: 2, Delta: geom.Delta{X: 0, Y: 0}, Count: 1},
	}, origin)
	assert.Equal(t, map[inputCycle][]inputPress{
		{timeStep: 0, cycle: 0}: {
			{coords: geom.Coords{X: -1, Y: 2}, sublocation: 0, count: 1},
			{coords: geom.Coords{X: 0, Y: 1}, sublocation: 1, count: 2},
		},
		{timeStep: 5, cycle: 2}: {
			{coords: geom.Coords{X: -2, Y: -1}, sublocation: 0, count: 1},
		},
	}, inputs)
	assert.Nil(t, gatherInputs(nil, origin))
}
