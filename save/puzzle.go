// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package save

import (
	"github.com/db47h/tachy/geom"
	"github.com/pkg/errors"
)

// A PuzzleKind classifies how a puzzle is played and scored.
//
type PuzzleKind uint8

const (
	KindTutorial PuzzleKind = iota
	KindFabricate
	KindAutomate
	KindCommand
	KindSandbox
)

// ScoreUnits names the quantity a puzzle's score measures.
//
type ScoreUnits uint8

const (
	UnitsCycles ScoreUnits = iota
	UnitsManualInputs
	UnitsTime
	UnitsWireLength
)

// Label returns the score unit's display name.
func (u ScoreUnits) Label() string {
	switch u {
	case UnitsCycles:
		return "Cycles"
	case UnitsManualInputs:
		return "Manual Inputs"
	case UnitsTime:
		return "Time"
	default:
		return "Wire Length"
	}
}

// A Puzzle identifies one task in the campaign.
//
type Puzzle uint8

const (
	TutorialOr Puzzle = iota
	FabricateXor
	TutorialMux
	TutorialAdd
	FabricateHalve
	FabricateMul
	AutomateHeliostat
	AutomateGrapple
	AutomateReactor
	AutomateSensors
	CommandLander
	TutorialDemux
	TutorialAmp
	TutorialSum
	FabricateInc
	FabricateCounter
	AutomateMiningRobot
	AutomateFuelSynthesis
	AutomateBeacon
	AutomateRobotArm
	CommandTurret
	TutorialRam
	FabricateStack
	FabricateQueue
	AutomateCryocycler
	AutomateInjector
	AutomateCollector
	AutomateTranslator
	CommandSapper
	TutorialClock
	FabricateEggTimer
	FabricateStopwatch
	AutomateDrillingRig
	AutomateIncubator
	AutomateSonar
	AutomateResonator
	CommandShields
	AutomateGeigerCounter
	AutomateStorageDepot
	AutomateXUnit
	TutorialAdc
	SandboxBehavior
	SandboxEvent

	numPuzzles
)

// FirstPuzzle is the opening task of the campaign.
const FirstPuzzle = TutorialOr

// AllPuzzles returns every puzzle in campaign order.
func AllPuzzles() []Puzzle {
	all := make([]Puzzle, numPuzzles)
	for i := range all {
		all[i] = Puzzle(i)
	}
	return all
}

type puzzleData struct {
	name       string
	title      string
	kind       PuzzleKind
	allowEvt   bool
	initW      int32
	initH      int32
	scoreUnits ScoreUnits
}

var puzzleTable = [numPuzzles]puzzleData{
	TutorialOr:            {"TutorialOr", "OR Gate", KindTutorial, false, 5, 5, UnitsWireLength},
	FabricateXor:          {"FabricateXor", "XOR Gate", KindFabricate, false, 5, 5, UnitsWireLength},
	TutorialMux:           {"TutorialMux", "Two-Way Mux", KindTutorial, false, 5, 5, UnitsWireLength},
	TutorialAdd:           {"TutorialAdd", "Adder", KindTutorial, false, 5, 5, UnitsWireLength},
	FabricateHalve:        {"FabricateHalve", "Halver", KindFabricate, false, 7, 5, UnitsWireLength},
	FabricateMul:          {"FabricateMul", "Multiplier", KindFabricate, false, 7, 7, UnitsWireLength},
	AutomateHeliostat:     {"AutomateHeliostat", "Heliostat", KindAutomate, false, 6, 5, UnitsTime},
	AutomateGrapple:       {"AutomateGrapple", "Grapple Launcher", KindAutomate, false, 6, 8, UnitsTime},
	AutomateReactor:       {"AutomateReactor", "Backup Reactor", KindAutomate, false, 6, 8, UnitsTime},
	AutomateSensors:       {"AutomateSensors", "Main Sensors", KindAutomate, false, 6, 7, UnitsTime},
	CommandLander:         {"CommandLander", "Orbital Lander", KindCommand, false, 6, 8, UnitsManualInputs},
	TutorialDemux:         {"TutorialDemux", "Four-Way Demux", KindTutorial, true, 6, 4, UnitsWireLength},
	TutorialAmp:           {"TutorialAmp", "Signal Amplifier", KindTutorial, true, 6, 5, UnitsWireLength},
	TutorialSum:           {"TutorialSum", "Running Total", KindTutorial, true, 7, 7, UnitsWireLength},
	FabricateInc:          {"FabricateInc", "Incrementor", KindFabricate, true, 5, 5, UnitsWireLength},
	FabricateCounter:      {"FabricateCounter", "Counter", KindFabricate, true, 7, 5, UnitsWireLength},
	AutomateMiningRobot:   {"AutomateMiningRobot", "Mining Robot", KindAutomate, true, 8, 6, UnitsTime},
	AutomateFuelSynthesis: {"AutomateFuelSynthesis", "Fuel Synthesis", KindAutomate, true, 8, 6, UnitsTime},
	AutomateBeacon:        {"AutomateBeacon", "Subspace Beacon", KindAutomate, false, 8, 6, UnitsTime},
	AutomateRobotArm:      {"AutomateRobotArm", "Manipulator Arm", KindAutomate, true, 8, 6, UnitsTime},
	CommandTurret:         {"CommandTurret", "Defense Turret", KindCommand, true, 9, 7, UnitsManualInputs},
	TutorialRam:           {"TutorialRam", "Repeat Filter", KindTutorial, true, 6, 5, UnitsWireLength},
	FabricateStack:        {"FabricateStack", "Stack Memory", KindFabricate, true, 7, 6, UnitsWireLength},
	FabricateQueue:        {"FabricateQueue", "Queue Memory", KindFabricate, true, 7, 6, UnitsWireLength},
	AutomateCryocycler:    {"AutomateCryocycler", "Cryocycler", KindAutomate, true, 9, 5, UnitsTime},
	AutomateInjector:      {"AutomateInjector", "Plasma Injector", KindAutomate, true, 9, 5, UnitsTime},
	AutomateCollector:     {"AutomateCollector", "Collector", KindAutomate, true, 8, 6, UnitsTime},
	AutomateTranslator:    {"AutomateTranslator", "Translator", KindAutomate, true, 8, 5, UnitsTime},
	CommandSapper:         {"CommandSapper", "Sapper Drone", KindCommand, true, 9, 7, UnitsManualInputs},
	TutorialClock:         {"TutorialClock", "Noise Filter", KindTutorial, true, 6, 5, UnitsWireLength},
	FabricateEggTimer:     {"FabricateEggTimer", "Egg Timer", KindFabricate, true, 7, 7, UnitsWireLength},
	FabricateStopwatch:    {"FabricateStopwatch", "Stopwatch", KindFabricate, true, 7, 7, UnitsWireLength},
	AutomateDrillingRig:   {"AutomateDrillingRig", "Drilling Rig", KindAutomate, true, 5, 7, UnitsTime},
	AutomateIncubator:     {"AutomateIncubator", "Incubator", KindAutomate, true, 9, 6, UnitsTime},
	AutomateSonar:         {"AutomateSonar", "Sonar Navigation", KindAutomate, true, 9, 7, UnitsTime},
	AutomateResonator:     {"AutomateResonator", "Strike Resonator", KindAutomate, true, 9, 7, UnitsTime},
	CommandShields:        {"CommandShields", "Deflector Shields", KindCommand, true, 9, 7, UnitsManualInputs},
	AutomateGeigerCounter: {"AutomateGeigerCounter", "Geiger Counter", KindAutomate, true, 10, 9, UnitsCycles},
	AutomateStorageDepot:  {"AutomateStorageDepot", "Storage Depot", KindAutomate, true, 8, 6, UnitsTime},
	AutomateXUnit:         {"AutomateXUnit", "X-Unit", KindAutomate, true, 12, 9, UnitsTime},
	TutorialAdc:           {"TutorialAdc", "A/D Converter", KindTutorial, true, 6, 5, UnitsWireLength},
	SandboxBehavior:       {"SandboxBehavior", "Behavior Lab", KindSandbox, false, 8, 6, UnitsTime},
	SandboxEvent:          {"SandboxEvent", "Event Lab", KindSandbox, true, 8, 6, UnitsTime},
}

var puzzlesByName = func() map[string]Puzzle {
	m := make(map[string]Puzzle, numPuzzles)
	for i, d := range puzzleTable {
		m[d.name] = Puzzle(i)
	}
	return m
}()

func (p Puzzle) data() *puzzleData {
	if p >= numPuzzles {
		p = FirstPuzzle
	}
	return &puzzleTable[p]
}

func (p Puzzle) String() string { return p.data().name }

// Title returns the puzzle's display title.
func (p Puzzle) Title() string { return p.data().title }

// Kind returns the puzzle's play mode.
func (p Puzzle) Kind() PuzzleKind { return p.data().kind }

// ScoreUnits returns the quantity the puzzle's score measures.
func (p Puzzle) ScoreUnits() ScoreUnits { return p.data().scoreUnits }

// AllowsEvents reports whether event chips may be used in the puzzle.
func (p Puzzle) AllowsEvents() bool { return p.data().allowEvt }

// InitialBoardSize returns the starting board size for the puzzle.
func (p Puzzle) InitialBoardSize() geom.Size {
	d := p.data()
	return geom.Size{Width: d.initW, Height: d.initH}
}

// ParsePuzzle parses a puzzle's serialized name.
func ParsePuzzle(s string) (Puzzle, error) {
	if p, ok := puzzlesByName[s]; ok {
		return p, nil
	}
	return 0, errors.Errorf("save: invalid puzzle %q", s)
}
