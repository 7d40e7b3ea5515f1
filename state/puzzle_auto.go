// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package state

import (
	"fmt"
	"math"

	"github.com/db47h/tachy/geom"
	"github.com/db47h/tachy/save"
)

//
// Heliostat: keep a mirror tracking the sun through an orbit while it
// drains and generates energy.
//

const (
	heliostatInitialEnergy = 1000
	heliostatVictoryEnergy = 5000
	heliostatEnergyDrain   = 30
	heliostatMaxGeneration = 100
	heliostatOrbitStep     = 5
)

var heliostatInterfaces = []Interface{
	{
		Name: "Sensor Interface",
		Description: "Connects to a subspace sensor array that determines " +
			"the ideal position for the heliostat mirror.  Use the motor " +
			"interface to move the mirror to this position.",
		Side: geom.West,
		pos:  ifaceLeft(0),
		Ports: []InterfacePort{
			{
				Name:        "Goal",
				Description: "Outputs the ideal mirror position.",
				Flow:        Source,
				Color:       Behavior,
				Size:        save.SizeFour,
			},
			{
				Name: "Power",
				Description: "Outputs the current power generation " +
					"efficiency, from 0 to 100 percent.",
				Flow:  Source,
				Color: Behavior,
				Size:  save.SizeEight,
			},
		},
	},
	{
		Name: "Motor Interface",
		Description: "Connects to a stepper motor that controls the " +
			"position of the heliostat mirror.",
		Side: geom.East,
		pos:  ifaceRight(0),
		Ports: []InterfacePort{
			{
				Name:        "Pos",
				Description: "Outputs the current mirror position.",
				Flow:        Source,
				Color:       Behavior,
				Size:        save.SizeFour,
			},
			{
				Name: "Motor",
				Description: "Receives motor commands.\n" +
					"    Send 1 to move clockwise.\n" +
					"    Send 2 to move counterclockwise.\n" +
					"  Send any other value to not move.",
				Flow:  Sink,
				Color: Behavior,
				Size:  save.SizeTwo,
			},
		},
	},
}

type heliostatEval struct {
	nullPuzzleEval
	goalWire       int
	efficiencyWire int
	posWire        int
	motorWire      int
	goal           uint32
	pos            uint32
	efficiency     uint32
	orbitDegrees   int32
	energy         uint32
}

func newHeliostatEval(slots [][]puzzleSlot) *heliostatEval {
	return &heliostatEval{
		goalWire:       slots[0][0].wire,
		efficiencyWire: slots[0][1].wire,
		posWire:        slots[1][0].wire,
		motorWire:      slots[1][1].wire,
		pos:            3,
		energy:         heliostatInitialEnergy,
	}
}

func (e *heliostatEval) BeginTimeStep(state *CircuitState) *EvalScore {
	if e.energy >= heliostatVictoryEnergy {
		return &EvalScore{Kind: ScoreValue, Value: state.TimeStep()}
	}
	inShadow := e.orbitDegrees >= 135 && e.orbitDegrees <= 225
	if inShadow {
		e.goal = e.pos
		e.efficiency = 0
	} else {
		turns := float64(-e.orbitDegrees) / 360.0
		signedPos := int32(math.Round(16.0 * turns))
		e.goal = uint32(((signedPos % 16) + 16) % 16)
		delta := int32(e.pos) - int32(e.goal)
		if delta < 0 {
			delta = -delta
		}
		theta := float64(delta) * (math.Pi / 8)
		e.efficiency = uint32(math.Round(4.0 + 96.0*0.5*(math.Cos(theta)+1.0)))
	}
	state.SendBehavior(e.goalWire, e.goal)
	state.SendBehavior(e.efficiencyWire, e.efficiency)
	state.SendBehavior(e.posWire, e.pos)
	return nil
}

func (e *heliostatEval) EndTimeStep(state *CircuitState) []EvalError {
	e.energy += (heliostatMaxGeneration * e.efficiency) / 100
	if e.energy >= heliostatEnergyDrain {
		e.energy -= heliostatEnergyDrain
	} else {
		e.energy = 0
	}
	switch state.RecvBehavior(e.motorWire) {
	case 1:
		e.pos = (e.pos + 1) % 16
	case 2:
		e.pos = (e.pos + 15) % 16
	}
	e.orbitDegrees = (e.orbitDegrees + heliostatOrbitStep) % 360
	return nil
}

//
// Reactor: move three control rods to hold a drifting power output on a
// sequence of target levels.
//

const (
	reactorDriftFactor    = 0.2
	reactorImbalanceBase  = 1.1
	reactorNumRods        = 3
	reactorTargetHoldTime = 5
)

var reactorTargets = []uint32{
	7, 9, 1, 3, 6, 4, 0, 8, 5, 2, 1, 7, 4, 2, 8, 0, 9, 6, 3, 5,
}

var reactorInterfaces = []Interface{
	{
		Name: "Thermostat Interface",
		Description: "Connects to sensors in the ship's power grid that " +
			"determine the current and desired power outputs of the backup " +
			"reactor (from 0 to 9).",
		Side: geom.West,
		pos:  ifaceLeft(1),
		Ports: []InterfacePort{
			{
				Name:        "Power",
				Description: "Indicates the current power output.",
				Flow:        Source,
				Color:       Behavior,
				Size:        save.SizeFour,
			},
			{
				Name:        "Target",
				Description: "Indicates the desired power output.",
				Flow:        Source,
				Color:       Behavior,
				Size:        save.SizeFour,
			},
		},
	},
	{
		Name: "Control Rod Interface",
		Description: "Connects to an array of actuators that move the " +
			"reactor's three control rods.  Send higher values to retract " +
			"a rod (increasing the total power output), or lower values to " +
			"extend a rod (decreasing the total power).",
		Side: geom.East,
		pos:  ifaceLeft(0),
		Ports: []InterfacePort{
			{Name: "Rod1", Flow: Sink, Color: Behavior, Size: save.SizeTwo},
			{Name: "Rod2", Flow: Sink, Color: Behavior, Size: save.SizeTwo},
			{Name: "Rod3", Flow: Sink, Color: Behavior, Size: save.SizeTwo},
		},
	},
}

type reactorEval struct {
	nullPuzzleEval
	powerWire   int
	targetWire  int
	rodWires    [reactorNumRods]int
	power       float64
	target      uint32
	heldFor     int32
	targetsHeld int
}

func newReactorEval(slots [][]puzzleSlot) *reactorEval {
	e := &reactorEval{
		powerWire:  slots[0][0].wire,
		targetWire: slots[0][1].wire,
		target:     reactorTargets[0],
	}
	for i := range e.rodWires {
		e.rodWires[i] = slots[1][i].wire
	}
	return e
}

func (e *reactorEval) currentPower() uint32 {
	return uint32(math.Round(e.power))
}

func (e *reactorEval) BeginTimeStep(state *CircuitState) *EvalScore {
	if e.targetsHeld >= len(reactorTargets) {
		return &EvalScore{Kind: ScoreValue, Value: state.TimeStep()}
	}
	power := e.currentPower()
	if power == e.target {
		e.heldFor++
		if e.heldFor >= reactorTargetHoldTime {
			e.heldFor = 0
			e.targetsHeld++
			if e.targetsHeld < len(reactorTargets) {
				e.target = reactorTargets[e.targetsHeld]
			}
		}
	} else {
		e.heldFor = 0
	}
	state.SendBehavior(e.powerWire, power)
	state.SendBehavior(e.targetWire, e.target)
	return nil
}

func (e *reactorEval) EndTimeStep(state *CircuitState) []EvalError {
	var rodTotal uint32
	for _, wire := range e.rodWires {
		rodTotal += state.RecvBehavior(wire)
	}
	rodAverage := float64(rodTotal) / float64(len(e.rodWires))
	imbalance := 0.0
	for _, wire := range e.rodWires {
		d := rodAverage - float64(state.RecvBehavior(wire))
		imbalance += d * d
	}
	// The more uneven the rods, the slower the power output drifts
	// towards their total.
	factor := math.Pow(reactorImbalanceBase, -imbalance)
	e.power += reactorDriftFactor * factor * (float64(rodTotal) - e.power)
	return nil
}

//
// Grapple: charge a pair of magnetic coils and fire them one at a time
// within a narrow charge window.
//

const (
	grappleChargeDelta = 5
	grappleMinToFire   = 40
	grappleMaxToFire   = 60
	grappleMaxCharge   = 100
)

var grappleStartingCharges = [][2]uint32{
	{50, 55},
	{90, 15},
	{30, 95},
	{5, 25},
	{80, 5},
	{75, 85},
	{15, 10},
	{5, 75},
	{45, 50},
	{95, 80},
}

func grappleCoilInterface(name, side string, dir geom.Direction,
	pos ifacePos) Interface {

	return Interface{
		Name: name,
		Description: "Controls the " + side + "-side magnetic coil for " +
			"the grapple launcher.",
		Side: dir,
		pos:  pos,
		Ports: []InterfacePort{
			{
				Name: "Ctrl",
				Description: "Controls the " + side + " coil charge.\n" +
					"    Send 0 to do nothing.\n" +
					"    Send 1 to decrease the charge.\n" +
					"    Send 2 to increase the charge.\n" +
					"    Send 3 to fire the coil.",
				Flow:  Sink,
				Color: Behavior,
				Size:  save.SizeTwo,
			},
			{
				Name: "Chrg",
				Description: "Outputs the current charge for the " + side +
					" coil (0-100).",
				Flow:  Source,
				Color: Behavior,
				Size:  save.SizeEight,
			},
		},
	}
}

var grappleInterfaces = []Interface{
	grappleCoilInterface("Port Coil Interface", "port",
		geom.West, ifaceRight(1)),
	grappleCoilInterface("Starboard Coil Interface", "starboard",
		geom.East, ifaceLeft(1)),
}

type grappleEval struct {
	nullPuzzleEval
	portCtrlPort   PortLoc
	portCtrlWire   int
	portChargeWire int
	stbdCtrlPort   PortLoc
	stbdCtrlWire   int
	stbdChargeWire int
	portCharge     uint32
	stbdCharge     uint32
	coilsFired     int
}

func newGrappleEval(slots [][]puzzleSlot) *grappleEval {
	return &grappleEval{
		portCtrlPort:   slots[0][0].loc,
		portCtrlWire:   slots[0][0].wire,
		portChargeWire: slots[0][1].wire,
		stbdCtrlPort:   slots[1][0].loc,
		stbdCtrlWire:   slots[1][0].wire,
		stbdChargeWire: slots[1][1].wire,
		portCharge:     grappleStartingCharges[0][0],
		stbdCharge:     grappleStartingCharges[0][1],
	}
}

func (e *grappleEval) BeginTimeStep(state *CircuitState) *EvalScore {
	state.SendBehavior(e.portChargeWire, e.portCharge)
	state.SendBehavior(e.stbdChargeWire, e.stbdCharge)
	if e.coilsFired >= len(grappleStartingCharges) {
		return &EvalScore{Kind: ScoreValue, Value: state.TimeStep()}
	}
	return nil
}

func (e *grappleEval) EndTimeStep(state *CircuitState) []EvalError {
	var errors []EvalError
	oldPortCharge := e.portCharge
	oldStbdCharge := e.stbdCharge
	fired := e.coilControl(state, e.portCtrlPort, e.portCtrlWire,
		&e.portCharge, oldStbdCharge, &errors)
	fired = e.coilControl(state, e.stbdCtrlPort, e.stbdCtrlWire,
		&e.stbdCharge, oldPortCharge, &errors) || fired
	if fired {
		e.coilsFired++
		if e.coilsFired < len(grappleStartingCharges) {
			e.portCharge = grappleStartingCharges[e.coilsFired][0]
			e.stbdCharge = grappleStartingCharges[e.coilsFired][1]
		}
	}
	return errors
}

func (e *grappleEval) coilControl(state *CircuitState, port PortLoc,
	ctrlWire int, charge *uint32, otherCharge uint32,
	errors *[]EvalError) bool {

	switch state.RecvBehavior(ctrlWire) {
	case 1:
		if *charge >= grappleChargeDelta {
			*charge -= grappleChargeDelta
		} else {
			*charge = 0
		}
	case 2:
		*charge += grappleChargeDelta
		if *charge > grappleMaxCharge {
			*charge = grappleMaxCharge
		}
	case 3:
		if *charge < grappleMinToFire || *charge > grappleMaxToFire {
			*errors = append(*errors, state.PortError(port, fmt.Sprintf(
				"Can't fire coil: charge (%d) is not in %d-%d range.",
				*charge, grappleMinToFire, grappleMaxToFire)))
			return false
		}
		if otherCharge >= grappleMinToFire && otherCharge <= grappleMaxToFire {
			*errors = append(*errors, state.PortError(port, fmt.Sprintf(
				"Can't fire coil: other coil's charge (%d) is not outside "+
					"%d-%d range.",
				otherCharge, grappleMinToFire, grappleMaxToFire)))
			return false
		}
		return true
	}
	return false
}

//
// Sensors: binary-search a scan range for a sequence of hidden values.
//

var sensorsGoals = []uint32{5, 9, 15, 7, 11, 1, 3, 13}

var sensorsInterfaces = []Interface{
	{
		Name: "Upper",
		Description: "Indicates the current upper bound of the scan range " +
			"(inclusive).",
		Side: geom.West,
		pos:  ifaceLeft(0),
		Ports: []InterfacePort{
			{Name: "Upper", Flow: Source, Color: Behavior, Size: save.SizeFour},
		},
	},
	{
		Name: "Lower",
		Description: "Indicates the current lower bound of the scan range " +
			"(inclusive).",
		Side: geom.West,
		pos:  ifaceRight(0),
		Ports: []InterfacePort{
			{Name: "Lower", Flow: Source, Color: Behavior, Size: save.SizeFour},
		},
	},
	{
		Name:        "Out",
		Description: "Controls where the scan range will be subdivided.",
		Side:        geom.East,
		pos:         ifaceCenter,
		Ports: []InterfacePort{
			{Name: "Out", Flow: Sink, Color: Behavior, Size: save.SizeFour},
		},
	},
}

type sensorsEval struct {
	nullPuzzleEval
	upperWire  int
	lowerWire  int
	outWire    int
	upper      uint32
	lower      uint32
	goal       uint32
	goalsFound int
}

func newSensorsEval(slots [][]puzzleSlot) *sensorsEval {
	return &sensorsEval{
		upperWire: slots[0][0].wire,
		lowerWire: slots[1][0].wire,
		outWire:   slots[2][0].wire,
		upper:     15,
		goal:      sensorsGoals[0],
	}
}

func (e *sensorsEval) BeginTimeStep(state *CircuitState) *EvalScore {
	if e.goalsFound >= len(sensorsGoals) {
		return &EvalScore{Kind: ScoreValue, Value: state.TimeStep()}
	}
	state.SendBehavior(e.upperWire, e.upper)
	state.SendBehavior(e.lowerWire, e.lower)
	return nil
}

func (e *sensorsEval) EndTimeStep(state *CircuitState) []EvalError {
	out := state.RecvBehavior(e.outWire)
	switch {
	case e.lower == e.upper:
		if out == e.lower {
			e.goalsFound++
			e.lower = 0
			e.upper = 15
			if e.goalsFound < len(sensorsGoals) {
				e.goal = sensorsGoals[e.goalsFound]
			}
		}
	case out >= e.lower && out <= e.upper:
		switch {
		case out == e.goal:
			if out-e.lower <= e.upper-out {
				e.upper = out
			} else {
				e.lower = out
			}
		case out > e.goal:
			e.upper = out
		default:
			e.lower = out
		}
	}
	return nil
}

//
// Robot arm: receive radio commands, swing the arm to the commanded
// position, manipulate, and reply.
//

const (
	armPositions          = 8
	armDegreesPerPosition = 360 / armPositions
	armTimePerTurn        = 3
	armDegreesPerTime     = 360 / (armPositions * armTimePerTurn)
	armTimePerManipulate  = 4
	armCommandsForVictory = 15
	armMinTimeToCommand   = 8
	armMaxTimeToCommand   = 15
)

var robotArmInterfaces = []Interface{
	{
		Name:        "Radio Interface",
		Description: "Connects to a radio antenna.",
		Side:        geom.West,
		pos:         ifaceRight(1),
		Ports: []InterfacePort{
			{
				Name: "Xmit",
				Description: "Connects to the radio transmitter.  Signal " +
					"here when the command is completed.",
				Flow:  Sink,
				Color: Event,
				Size:  save.SizeZero,
			},
			{
				Name: "Recv",
				Description: "Connects to the radio receiver.  Sends an " +
					"event when a radio command arrives.",
				Flow:  Source,
				Color: Event,
				Size:  save.SizeFour,
			},
		},
	},
	{
		Name: "Arm Interface",
		Description: "Connects to the sensors and servo motors of the " +
			"robot arm.",
		Side: geom.East,
		pos:  ifaceRight(0),
		Ports: []InterfacePort{
			{
				Name:        "Pos",
				Description: "Indicates the current position of the arm (0-7).",
				Flow:        Source,
				Color:       Behavior,
				Size:        save.SizeFour,
			},
			{
				Name: "Rotate",
				Description: "Send 1 to rotate clockwise, 0 to rotate " +
					"counterclockwise.",
				Flow:  Sink,
				Color: Event,
				Size:  save.SizeOne,
			},
			{
				Name:        "Manip",
				Description: "Signal here to manipulate at the current position.",
				Flow:        Sink,
				Color:       Event,
				Size:        save.SizeZero,
			},
			{
				Name: "Done",
				Description: "Signals when the robot arm has finished " +
					"moving/manipulating.",
				Flow:  Source,
				Color: Event,
				Size:  save.SizeZero,
			},
		},
	},
}

type armMotion uint8

const (
	armStationary armMotion = iota
	armTurningCW
	armTurningCCW
	armManipulating
)

type robotArmEval struct {
	nullPuzzleEval
	rng       *SimpleRng
	xmitPort  PortLoc
	xmitWire  int
	recvWire  int
	posWire   int
	turnWire  int
	manipPort PortLoc
	manipWire int
	doneWire  int

	motion            armMotion
	motionTimeLeft    uint32
	motionDone        bool
	position          uint32
	positionDegrees   uint32
	timeToNextCommand int32
	lastCommand       uint32
	completedCommands uint32
	commandCompleted  bool
	radioReplySent    bool
}

func newRobotArmEval(slots [][]puzzleSlot) *robotArmEval {
	return &robotArmEval{
		rng:               NewSimpleRng(0xd3130a05098a98b5),
		xmitPort:          slots[0][0].loc,
		xmitWire:          slots[0][0].wire,
		recvWire:          slots[0][1].wire,
		posWire:           slots[1][0].wire,
		turnWire:          slots[1][1].wire,
		manipPort:         slots[1][2].loc,
		manipWire:         slots[1][2].wire,
		doneWire:          slots[1][3].wire,
		timeToNextCommand: 0,
	}
}

func (e *robotArmEval) BeginTimeStep(state *CircuitState) *EvalScore {
	if e.timeToNextCommand == 0 {
		e.timeToNextCommand = -1
		e.completedCommands++
		if e.completedCommands >= armCommandsForVictory {
			return &EvalScore{Kind: ScoreValue, Value: state.TimeStep()}
		}
		quarter := uint32(armPositions / 4)
		e.lastCommand = (e.lastCommand + e.rng.RandInt(quarter, 3*quarter)) % armPositions
		e.commandCompleted = false
		e.radioReplySent = false
		state.SendEvent(e.recvWire, e.lastCommand)
	}
	state.SendBehavior(e.posWire, e.position)
	if e.motionDone {
		state.SendEvent(e.doneWire, 0)
		e.motionDone = false
	}
	return nil
}

func (e *robotArmEval) EndCycle(state *CircuitState) []EvalError {
	var errors []EvalError
	if state.HasEvent(e.xmitWire) {
		switch {
		case !e.commandCompleted:
			errors = append(errors, state.PortError(e.xmitPort,
				"Sent radio reply without first completing the instructed manipulation."))
		case e.radioReplySent:
			errors = append(errors, state.PortError(e.xmitPort,
				"Sent more than one radio reply for the same command."))
		default:
			e.radioReplySent = true
		}
	}
	if e.motion == armStationary {
		if dir, ok := state.RecvEvent(e.turnWire); ok {
			if dir == 0 {
				e.motion = armTurningCCW
			} else {
				e.motion = armTurningCW
			}
			e.motionTimeLeft = armTimePerTurn
		} else if state.HasEvent(e.manipWire) {
			if e.position != e.lastCommand {
				errors = append(errors, state.PortError(e.manipPort, fmt.Sprintf(
					"Manipulated position %d, but last command was for position %d.",
					e.position, e.lastCommand)))
			} else if e.commandCompleted {
				errors = append(errors, state.PortError(e.manipPort,
					"Already performed manipulation."))
			}
			e.motion = armManipulating
			e.motionTimeLeft = armTimePerManipulate
		}
	}
	return errors
}

func (e *robotArmEval) EndTimeStep(state *CircuitState) []EvalError {
	if e.radioReplySent && e.timeToNextCommand < 0 {
		e.timeToNextCommand = int32(e.rng.RandInt(armMinTimeToCommand, armMaxTimeToCommand))
	}
	switch e.motion {
	case armTurningCW:
		e.positionDegrees = (e.positionDegrees + armDegreesPerTime) % 360
		e.stepMotion()
	case armTurningCCW:
		e.positionDegrees = (e.positionDegrees + (360 - armDegreesPerTime)) % 360
		e.stepMotion()
	case armManipulating:
		if e.motionTimeLeft <= 1 && e.position == e.lastCommand {
			e.commandCompleted = true
		}
		e.stepMotion()
	}
	e.position = divRound(e.positionDegrees, armDegreesPerPosition) % armPositions
	if e.timeToNextCommand > 0 {
		e.timeToNextCommand--
	}
	return nil
}

func (e *robotArmEval) stepMotion() {
	if e.motionTimeLeft > 1 {
		e.motionTimeLeft--
	} else {
		e.motion = armStationary
		e.motionTimeLeft = 0
		e.motionDone = true
	}
}

func divRound(a, b uint32) uint32 {
	return (a + b/2) / b
}
