// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package state

import "github.com/db47h/tachy/save"

// puzzleSlot binds one interface port to the wire it landed on when an
// evaluation was started.
type puzzleSlot struct {
	loc  PortLoc
	wire int
}

// nullPuzzleEval never drives nor checks anything and never declares
// victory. It doubles as an embeddable base for evals that only need a
// subset of the PuzzleEval methods.
//
type nullPuzzleEval struct{}

func (nullPuzzleEval) BeginTimeStep(state *CircuitState) *EvalScore { return nil }
func (nullPuzzleEval) BeginAdditionalCycle(state *CircuitState)     {}
func (nullPuzzleEval) EndCycle(state *CircuitState) []EvalError     { return nil }
func (nullPuzzleEval) NeedsAnotherCycle(timeStep uint32) bool       { return false }
func (nullPuzzleEval) EndTimeStep(state *CircuitState) []EvalError  { return nil }

// puzzleInterfaces returns the fixed board interfaces for a puzzle.
// Tasks without a scripted evaluation have no interfaces yet and yield
// an empty board.
func puzzleInterfaces(puzzle save.Puzzle) []Interface {
	switch puzzle {
	case save.TutorialOr:
		return tutorialOrData.interfaces
	case save.FabricateXor:
		return fabricateXorData.interfaces
	case save.TutorialMux:
		return tutorialMuxData.interfaces
	case save.TutorialAdd:
		return tutorialAddData.interfaces
	case save.FabricateHalve:
		return fabricateHalveData.interfaces
	case save.FabricateMul:
		return fabricateMulData.interfaces
	case save.TutorialAdc:
		return tutorialAdcData.interfaces
	case save.AutomateHeliostat:
		return heliostatInterfaces
	case save.AutomateGrapple:
		return grappleInterfaces
	case save.AutomateReactor:
		return reactorInterfaces
	case save.AutomateSensors:
		return sensorsInterfaces
	case save.AutomateRobotArm:
		return robotArmInterfaces
	case save.SandboxBehavior:
		return sandboxBehaviorInterfaces
	case save.SandboxEvent:
		return sandboxEventInterfaces
	default:
		return nil
	}
}

// newPuzzleEval returns the scripted evaluation for a puzzle. slots
// holds one entry per interface port, in declaration order, carrying
// the port location and the wire it connects to.
func newPuzzleEval(puzzle save.Puzzle, slots [][]puzzleSlot) PuzzleEval {
	switch puzzle {
	case save.TutorialOr:
		return newFabricationEval(tutorialOrData, slots)
	case save.FabricateXor:
		return newFabricationEval(fabricateXorData, slots)
	case save.TutorialMux:
		return newFabricationEval(tutorialMuxData, slots)
	case save.TutorialAdd:
		return newFabricationEval(tutorialAddData, slots)
	case save.FabricateHalve:
		return newFabricationEval(fabricateHalveData, slots)
	case save.FabricateMul:
		return newFabricationEval(fabricateMulData, slots)
	case save.TutorialAdc:
		return newFabricationEval(tutorialAdcData, slots)
	case save.AutomateHeliostat:
		return newHeliostatEval(slots)
	case save.AutomateGrapple:
		return newGrappleEval(slots)
	case save.AutomateReactor:
		return newReactorEval(slots)
	case save.AutomateSensors:
		return newSensorsEval(slots)
	case save.AutomateRobotArm:
		return newRobotArmEval(slots)
	case save.SandboxBehavior:
		return newSandboxBehaviorEval(slots)
	case save.SandboxEvent:
		return newSandboxEventEval(slots)
	default:
		return nullPuzzleEval{}
	}
}
