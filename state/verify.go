// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package state

import (
	"fmt"

	"github.com/db47h/tachy/geom"
	"github.com/db47h/tachy/save"
)

type inputPress struct {
	coords      geom.Coords
	sublocation uint32
	count       uint32
}

type inputCycle struct {
	timeStep uint32
	cycle    uint32
}

// gatherInputs indexes recorded button presses by the cycle they must be
// replayed at, resolving each delta against the circuit origin.
func gatherInputs(records []save.InputRecord, origin geom.Coords) map[inputCycle][]inputPress {
	if len(records) == 0 {
		return nil
	}
	inputs := make(map[inputCycle][]inputPress, len(records))
	for _, rec := range records {
		key := inputCycle{timeStep: rec.TimeStep, cycle: rec.Cycle}
		inputs[key] = append(inputs[key], inputPress{
			coords:      origin.Add(rec.Delta),
			sublocation: rec.Sublocation,
			count:       rec.Count,
		})
	}
	return inputs
}

// VerifySolution replays a solution from scratch and reports every
// problem found, as human-readable strings. An empty result means the
// solution is valid: the circuit is error-free, the run ends in victory
// at the claimed time step, and the score matches.
//
func VerifySolution(data *save.SolutionData) []string {
	grid := EditGridFromCircuitData(data.Puzzle, data.Circuit)
	var problems []string
	if !grid.StartEval() {
		for _, err := range grid.Errors() {
			switch err.Kind {
			case ErrMultipleSenders:
				problems = append(problems, fmt.Sprintf(
					"Wire %d has multiple senders", err.Wires[0]))
			case ErrPortColorMismatch:
				problems = append(problems, fmt.Sprintf(
					"Wire %d has a color mismatch", err.Wires[0]))
			case ErrNoValidSize:
				problems = append(problems, fmt.Sprintf(
					"Wire %d has a size mismatch", err.Wires[0]))
			case ErrUnbrokenLoop:
				problems = append(problems, fmt.Sprintf(
					"Wires %v form a loop", err.Wires))
			}
		}
		problems = append(problems, "Circuit had errors")
		return problems
	}

	eval := grid.Eval()
	inputs := gatherInputs(data.Inputs, grid.Bounds().TopLeft())
	for {
		timeStep := eval.TimeStep()
		for _, press := range inputs[inputCycle{timeStep: timeStep, cycle: eval.Cycle()}] {
			eval.PressButton(press.coords, press.sublocation, press.count)
		}
		switch result := eval.StepCycle(); result {
		case Breakpoint:
			// Breakpoints only pause interactive runs.
		case Continue:
			if timeStep >= data.TimeSteps {
				problems = append(problems, fmt.Sprintf(
					"Evaluation did not end at time step %d", data.TimeSteps))
				return problems
			}
		case Failure:
			for _, err := range eval.Errors() {
				problems = append(problems, fmt.Sprintf(
					"Time step %d: %s", err.TimeStep, err.Message))
			}
			return problems
		case Victory:
			score := resolveScore(grid, eval)
			if timeStep < data.TimeSteps {
				problems = append(problems, fmt.Sprintf(
					"Unexpected victory at time step %d with score of %d",
					timeStep, score))
			} else if score != data.Score {
				problems = append(problems, fmt.Sprintf(
					"Actual score was %d, but expected %d", score, data.Score))
			}
			return problems
		}
	}
}

// resolveScore turns a victory's EvalScore into the final number for
// the puzzle's score units.
func resolveScore(grid *EditGrid, eval *CircuitEval) uint32 {
	switch score := eval.Score(); score.Kind {
	case ScoreCycles:
		return eval.TotalCycles()
	case ScoreWireLength:
		return uint32(len(grid.fragments))
	default:
		return score.Value
	}
}
