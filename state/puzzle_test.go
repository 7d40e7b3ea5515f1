// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package state

import (
	"fmt"
	"testing"

	"github.com/db47h/tachy/geom"
	"github.com/db47h/tachy/save"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testState returns a bare circuit state with the given number of wire
// slots, for driving puzzle evals directly.
func testState(numWires int) *CircuitState {
	return newCircuitState(numWires, nil)
}

func onePortSlots(wires ...int) [][]puzzleSlot {
	slots := make([][]puzzleSlot, len(wires))
	for i, w := range wires {
		slots[i] = []puzzleSlot{{wire: w}}
	}
	return slots
}

func TestFabricationTable(t *testing.T) {
	state := testState(3)
	eval := newFabricationEval(tutorialOrData, onePortSlots(0, 1, 2))

	require.Nil(t, eval.BeginTimeStep(state))
	assert.Equal(t, uint32(0), state.RecvBehavior(0))
	assert.Equal(t, uint32(0), state.RecvBehavior(1))
	assert.Empty(t, eval.EndTimeStep(state))

	state.timeStep = 1
	require.Nil(t, eval.BeginTimeStep(state))
	assert.Equal(t, uint32(1), state.RecvBehavior(0))
	assert.Equal(t, uint32(0), state.RecvBehavior(1))
	// The circuit never drove Out, so the expected 1 is missing.
	errs := eval.EndTimeStep(state)
	require.Len(t, errs, 1)
	assert.Equal(t, "Expected value of 1 for Out, but got value of 0.",
		errs[0].Message)

	state.SendBehavior(2, 1)
	assert.Empty(t, eval.EndTimeStep(state))
}

func TestFabricationWrongValueMessage(t *testing.T) {
	state := testState(3)
	eval := newFabricationEval(tutorialOrData, onePortSlots(0, 1, 2))
	require.Nil(t, eval.BeginTimeStep(state))
	state.SendBehavior(2, 1)
	errs := eval.EndTimeStep(state)
	require.Len(t, errs, 1)
	assert.Equal(t, "Expected value of 0 for Out, but got value of 1.",
		errs[0].Message)
}

func TestFabricationVictoryAtTableEnd(t *testing.T) {
	state := testState(3)
	eval := newFabricationEval(tutorialOrData, onePortSlots(0, 1, 2))
	state.timeStep = 4
	score := eval.BeginTimeStep(state)
	require.NotNil(t, score)
	assert.Equal(t, ScoreWireLength, score.Kind)
}

func TestHeliostatTracking(t *testing.T) {
	state := testState(4)
	slots := [][]puzzleSlot{
		{{wire: 0}, {wire: 1}},
		{{wire: 2}, {wire: 3}},
	}
	eval := newHeliostatEval(slots)

	require.Nil(t, eval.BeginTimeStep(state))
	assert.Equal(t, uint32(0), state.RecvBehavior(0), "goal")
	assert.Equal(t, uint32(70), state.RecvBehavior(1), "efficiency")
	assert.Equal(t, uint32(3), state.RecvBehavior(2), "position")

	// Motor command 1 turns the mirror clockwise.
	state.SendBehavior(3, 1)
	assert.Empty(t, eval.EndTimeStep(state))
	assert.Equal(t, uint32(1000+70-30), eval.energy)
	assert.Equal(t, uint32(4), eval.pos)
	assert.Equal(t, int32(5), eval.orbitDegrees)

	// Motor command 2 turns it back.
	state.SendBehavior(3, 2)
	require.Nil(t, eval.BeginTimeStep(state))
	assert.Empty(t, eval.EndTimeStep(state))
	assert.Equal(t, uint32(3), eval.pos)
}

func TestHeliostatVictory(t *testing.T) {
	state := testState(4)
	slots := [][]puzzleSlot{
		{{wire: 0}, {wire: 1}},
		{{wire: 2}, {wire: 3}},
	}
	eval := newHeliostatEval(slots)
	eval.energy = heliostatVictoryEnergy
	score := eval.BeginTimeStep(state)
	require.NotNil(t, score)
	assert.Equal(t, ScoreValue, score.Kind)
}

func TestSensorsSearch(t *testing.T) {
	state := testState(3)
	eval := newSensorsEval(onePortSlots(0, 1, 2))

	require.Nil(t, eval.BeginTimeStep(state))
	assert.Equal(t, uint32(15), state.RecvBehavior(0), "upper")
	assert.Equal(t, uint32(0), state.RecvBehavior(1), "lower")

	respond := func(out uint32) {
		state.SendBehavior(2, out)
		assert.Empty(t, eval.EndTimeStep(state))
	}

	// First hidden value is 5: probing above it narrows the upper
	// bound, hitting it narrows toward the closer bound.
	respond(7)
	assert.Equal(t, uint32(7), eval.upper)
	respond(5)
	assert.Equal(t, uint32(5), eval.lower)
	respond(5)
	assert.Equal(t, uint32(5), eval.upper)
	// Bounds have converged; confirming resets the range.
	respond(5)
	assert.Equal(t, 1, eval.goalsFound)
	assert.Equal(t, uint32(0), eval.lower)
	assert.Equal(t, uint32(15), eval.upper)
	assert.Equal(t, uint32(9), eval.goal)
}

func TestSensorsVictory(t *testing.T) {
	state := testState(3)
	eval := newSensorsEval(onePortSlots(0, 1, 2))
	eval.goalsFound = len(sensorsGoals)
	state.timeStep = 42
	score := eval.BeginTimeStep(state)
	require.NotNil(t, score)
	assert.Equal(t, ScoreValue, score.Kind)
	assert.Equal(t, uint32(42), score.Value)
}

func robotArmSlots() [][]puzzleSlot {
	return [][]puzzleSlot{
		{{wire: 0}, {wire: 1}},
		{{wire: 2}, {wire: 3}, {wire: 4}, {wire: 5}},
	}
}

func TestRobotArmFirstCommand(t *testing.T) {
	state := testState(6)
	eval := newRobotArmEval(robotArmSlots())

	rng := NewSimpleRng(0xd3130a05098a98b5)
	wantCmd := rng.RandInt(2, 6) % armPositions

	require.Nil(t, eval.BeginTimeStep(state))
	cmd, ok := state.RecvEvent(1)
	require.True(t, ok, "command event")
	assert.Equal(t, wantCmd, cmd)
	assert.Equal(t, uint32(0), state.RecvBehavior(2), "arm position")

	// Manipulating at position 0 before moving is an error: the first
	// command is always for a position between 2 and 6.
	state.SendEvent(4, 0)
	errs := eval.EndCycle(state)
	require.Len(t, errs, 1)
	assert.Equal(t, fmt.Sprintf(
		"Manipulated position 0, but last command was for position %d.",
		wantCmd), errs[0].Message)
}

func TestRobotArmRadioReplyErrors(t *testing.T) {
	state := testState(6)
	eval := newRobotArmEval(robotArmSlots())
	require.Nil(t, eval.BeginTimeStep(state))
	state.resetForCycle()

	state.SendEvent(0, 0)
	errs := eval.EndCycle(state)
	require.Len(t, errs, 1)
	assert.Equal(t,
		"Sent radio reply without first completing the instructed manipulation.",
		errs[0].Message)

	// A completed command takes exactly one reply.
	eval.commandCompleted = true
	state.resetForCycle()
	state.SendEvent(0, 0)
	assert.Empty(t, eval.EndCycle(state))
	state.resetForCycle()
	state.SendEvent(0, 0)
	errs = eval.EndCycle(state)
	require.Len(t, errs, 1)
	assert.Equal(t, "Sent more than one radio reply for the same command.",
		errs[0].Message)
}

func TestRobotArmTurning(t *testing.T) {
	state := testState(6)
	eval := newRobotArmEval(robotArmSlots())
	require.Nil(t, eval.BeginTimeStep(state))
	state.resetForCycle()

	state.SendEvent(3, 1)
	assert.Empty(t, eval.EndCycle(state))
	for i := 0; i < armTimePerTurn; i++ {
		assert.Empty(t, eval.EndTimeStep(state))
	}
	assert.Equal(t, uint32(1), eval.position)

	// The done event fires at the start of the next time step.
	state.resetForCycle()
	require.Nil(t, eval.BeginTimeStep(state))
	assert.True(t, state.HasEvent(5), "done event")
	assert.Equal(t, uint32(1), state.RecvBehavior(2))
}

func TestAdcTable(t *testing.T) {
	state := testState(3)
	eval := newFabricationEval(tutorialAdcData, onePortSlots(0, 1, 2))

	// The first row carries zero volts and no sample request.
	require.Nil(t, eval.BeginTimeStep(state))
	assert.Equal(t, geom.FixedZero, state.RecvAnalog(0))
	assert.False(t, state.HasEvent(1), "sample event")
	assert.Empty(t, eval.EndTimeStep(state))

	state.resetForCycle()
	state.timeStep = 1
	require.Nil(t, eval.BeginTimeStep(state))
	assert.Equal(t, geom.FixedFromRatio(2, 16), state.RecvAnalog(0))
	assert.True(t, state.HasEvent(1), "sample event")
	state.SendEvent(2, 0)
	assert.Empty(t, eval.EndCycle(state))
	assert.Empty(t, eval.EndTimeStep(state))

	// Row 2 expects a reading of 2.
	state.resetForCycle()
	state.timeStep = 2
	require.Nil(t, eval.BeginTimeStep(state))
	state.SendEvent(2, 1)
	errs := eval.EndCycle(state)
	require.Len(t, errs, 1)
	assert.Equal(t, "Expected event value of 2 for Out, but got event value of 1.",
		errs[0].Message)

	// Dropping a sample's reading is caught at the end of the step.
	state.resetForCycle()
	state.timeStep = 3
	require.Nil(t, eval.BeginTimeStep(state))
	errs = eval.EndTimeStep(state)
	require.Len(t, errs, 1)
	assert.Equal(t, "Expected event value of 1 for Out, but got no event.",
		errs[0].Message)
}

func TestAdcOutOfRangeVoltage(t *testing.T) {
	state := testState(3)
	eval := newFabricationEval(tutorialAdcData, onePortSlots(0, 1, 2))

	// Row 6 samples a negative voltage; no reading is expected.
	state.timeStep = 6
	require.Nil(t, eval.BeginTimeStep(state))
	assert.True(t, state.RecvAnalog(0).IsNegative())
	assert.True(t, state.HasEvent(1), "sample event")
	state.SendEvent(2, 0)
	errs := eval.EndCycle(state)
	require.Len(t, errs, 1)
	assert.Equal(t, "No event expected for Out, but got event value of 0.",
		errs[0].Message)
}

func reactorSlots() [][]puzzleSlot {
	return [][]puzzleSlot{
		{{wire: 0}, {wire: 1}},
		{{wire: 2}, {wire: 3}, {wire: 4}},
	}
}

func TestReactorDrift(t *testing.T) {
	state := testState(5)
	eval := newReactorEval(reactorSlots())

	require.Nil(t, eval.BeginTimeStep(state))
	assert.Equal(t, uint32(0), state.RecvBehavior(0), "power")
	assert.Equal(t, uint32(7), state.RecvBehavior(1), "target")

	// Balanced rods drift the power at the full rate.
	for _, w := range []int{2, 3, 4} {
		state.SendBehavior(w, 3)
	}
	assert.Empty(t, eval.EndTimeStep(state))
	assert.InDelta(t, 1.8, eval.power, 1e-9)

	// Uneven rods with the same total drift more slowly.
	uneven := newReactorEval(reactorSlots())
	other := testState(5)
	require.Nil(t, uneven.BeginTimeStep(other))
	other.SendBehavior(2, 5)
	other.SendBehavior(3, 4)
	other.SendBehavior(4, 0)
	assert.Empty(t, uneven.EndTimeStep(other))
	assert.True(t, uneven.power > 0.0)
	assert.True(t, eval.power > uneven.power)
}

func TestReactorHoldsTarget(t *testing.T) {
	state := testState(5)
	eval := newReactorEval(reactorSlots())
	eval.power = 7.0

	// Rods totalling the current power keep it steady; after five held
	// steps the thermostat moves on to the next target.
	state.SendBehavior(2, 3)
	state.SendBehavior(3, 2)
	state.SendBehavior(4, 2)
	for i := 0; i < reactorTargetHoldTime; i++ {
		require.Nil(t, eval.BeginTimeStep(state))
		assert.Empty(t, eval.EndTimeStep(state))
	}
	assert.Equal(t, 1, eval.targetsHeld)
	assert.Equal(t, uint32(9), state.RecvBehavior(1), "next target")
}

func TestReactorVictory(t *testing.T) {
	state := testState(5)
	eval := newReactorEval(reactorSlots())
	eval.targetsHeld = len(reactorTargets)
	state.timeStep = 99
	score := eval.BeginTimeStep(state)
	require.NotNil(t, score)
	assert.Equal(t, ScoreValue, score.Kind)
	assert.Equal(t, uint32(99), score.Value)
}

func grappleSlots() [][]puzzleSlot {
	return [][]puzzleSlot{
		{{wire: 0}, {wire: 1}},
		{{wire: 2}, {wire: 3}},
	}
}

func TestGrappleChargeControl(t *testing.T) {
	state := testState(4)
	eval := newGrappleEval(grappleSlots())

	require.Nil(t, eval.BeginTimeStep(state))
	assert.Equal(t, uint32(50), state.RecvBehavior(1), "port charge")
	assert.Equal(t, uint32(55), state.RecvBehavior(3), "starboard charge")

	state.SendBehavior(0, 2)
	state.SendBehavior(2, 1)
	assert.Empty(t, eval.EndTimeStep(state))
	assert.Equal(t, uint32(55), eval.portCharge)
	assert.Equal(t, uint32(50), eval.stbdCharge)

	// Charges saturate at both ends.
	eval.portCharge = 98
	eval.stbdCharge = 3
	assert.Empty(t, eval.EndTimeStep(state))
	assert.Equal(t, uint32(grappleMaxCharge), eval.portCharge)
	assert.Equal(t, uint32(0), eval.stbdCharge)
}

func TestGrappleFiring(t *testing.T) {
	state := testState(4)
	eval := newGrappleEval(grappleSlots())
	require.Nil(t, eval.BeginTimeStep(state))

	// Both coils start inside the firing window, so neither may fire.
	state.SendBehavior(0, 3)
	errs := eval.EndTimeStep(state)
	require.Len(t, errs, 1)
	assert.Equal(t,
		"Can't fire coil: other coil's charge (55) is not outside 40-60 range.",
		errs[0].Message)
	assert.Equal(t, 0, eval.coilsFired)

	// Draining the starboard coil clears the way.
	eval.stbdCharge = 30
	assert.Empty(t, eval.EndTimeStep(state))
	assert.Equal(t, 1, eval.coilsFired)
	assert.Equal(t, uint32(90), eval.portCharge)
	assert.Equal(t, uint32(15), eval.stbdCharge)

	// The reloaded port coil is now overcharged.
	errs = eval.EndTimeStep(state)
	require.Len(t, errs, 1)
	assert.Equal(t, "Can't fire coil: charge (90) is not in 40-60 range.",
		errs[0].Message)
	assert.Equal(t, 1, eval.coilsFired)
}

func TestGrappleVictory(t *testing.T) {
	state := testState(4)
	eval := newGrappleEval(grappleSlots())
	eval.coilsFired = len(grappleStartingCharges)
	state.timeStep = 77
	score := eval.BeginTimeStep(state)
	require.NotNil(t, score)
	assert.Equal(t, ScoreValue, score.Kind)
	assert.Equal(t, uint32(77), score.Value)
}

func TestSandboxEvals(t *testing.T) {
	state := testState(1)
	b := newSandboxBehaviorEval(onePortSlots(0))
	require.Nil(t, b.BeginTimeStep(state))
	assert.Equal(t, uint32(0), state.RecvBehavior(0))
	state.timeStep = 300
	require.Nil(t, b.BeginTimeStep(state))
	assert.Equal(t, uint32(300&0xff), state.RecvBehavior(0))

	state = testState(3)
	e := newSandboxEventEval([][]puzzleSlot{
		{{wire: 0}},
		{{wire: 1}, {wire: 2}},
	})
	require.Nil(t, e.BeginTimeStep(state))
	assert.True(t, state.HasEvent(0), "init event on the first step")
	assert.True(t, state.HasEvent(2), "tick event")
	state.resetForCycle()
	state.timeStep = 1
	require.Nil(t, e.BeginTimeStep(state))
	assert.False(t, state.HasEvent(0), "init fires only once")
	assert.True(t, state.HasEvent(2))
}

func TestPuzzleDispatcherIsTotal(t *testing.T) {
	for _, p := range save.AllPuzzles() {
		interfaces := puzzleInterfaces(p)
		slots := make([][]puzzleSlot, len(interfaces))
		for i := range interfaces {
			slots[i] = make([]puzzleSlot, len(interfaces[i].Ports))
		}
		assert.NotNil(t, newPuzzleEval(p, slots), p.String())
	}
}
