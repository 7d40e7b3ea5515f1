// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package save

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"math"

	"github.com/BurntSushi/toml"
	"github.com/db47h/tachy/geom"
	"github.com/pkg/errors"
)

// InputRecord is one recorded button press: when it happened during
// evaluation and which chip received it. The chip is identified by its
// offset from the top-left corner of the circuit bounds, so the record
// stays valid when the board is recentered.
type InputRecord struct {
	TimeStep    uint32
	Cycle       uint32
	Delta       geom.Delta
	Sublocation uint32
	Count       uint32
}

// SolutionData is a complete, replayable solution to one puzzle: the
// circuit plus the score, step count, and button presses claimed for it.
//
type SolutionData struct {
	InstallID *uint64
	Puzzle    Puzzle
	Score     uint32
	TimeSteps uint32
	Inputs    []InputRecord
	Circuit   *CircuitData
}

// SerializeToString renders the solution deterministically: scalar fields
// in fixed order, then the circuit's canonical form under [circuit].
func (s *SolutionData) SerializeToString() string {
	var buf bytes.Buffer
	if s.InstallID != nil {
		fmt.Fprintf(&buf, "install_id = %d\n", *s.InstallID)
	}
	fmt.Fprintf(&buf, "puzzle = %q\n", s.Puzzle.String())
	fmt.Fprintf(&buf, "score = %d\n", s.Score)
	fmt.Fprintf(&buf, "time_steps = %d\n", s.TimeSteps)
	if len(s.Inputs) > 0 {
		buf.WriteString("inputs = [")
		for i, in := range s.Inputs {
			if i > 0 {
				buf.WriteString(", ")
			}
			fmt.Fprintf(&buf, "[%d, %d, %d, %d, %d, %d]",
				in.TimeStep, in.Cycle, in.Delta.X, in.Delta.Y,
				in.Sublocation, in.Count)
		}
		buf.WriteString("]\n")
	}
	circuit := s.Circuit.SerializeToString()
	buf.WriteString("\n[circuit]\n")
	buf.WriteString(prefixTables(circuit, "circuit"))
	return buf.String()
}

// prefixTables rewrites a circuit's table headers as sub-tables of parent.
func prefixTables(data, parent string) string {
	out := bytes.NewBuffer(make([]byte, 0, len(data)))
	for _, line := range bytes.Split([]byte(data), []byte("\n")) {
		if len(line) > 1 && line[0] == '[' {
			fmt.Fprintf(out, "[%s.%s\n", parent, line[1:])
		} else {
			out.Write(line)
			out.WriteByte('\n')
		}
	}
	b := out.Bytes()
	return string(b[:len(b)-1])
}

type solutionFile struct {
	InstallID *uint64     `toml:"install_id"`
	Puzzle    string      `toml:"puzzle"`
	Score     uint32      `toml:"score"`
	TimeSteps uint32      `toml:"time_steps"`
	Inputs    [][]int64   `toml:"inputs"`
	Circuit   circuitFile `toml:"circuit"`
}

// inputsFromFile converts raw input rows, checking that each is a
// [time_step, cycle, dx, dy, sublocation, count] sextuple in range.
func inputsFromFile(rows [][]int64) ([]InputRecord, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	inputs := make([]InputRecord, 0, len(rows))
	for _, row := range rows {
		if len(row) != 6 {
			return nil, errors.Errorf("save: invalid input record %v", row)
		}
		for _, v := range []int64{row[0], row[1], row[4], row[5]} {
			if v < 0 || v > math.MaxUint32 {
				return nil, errors.Errorf("save: invalid input record %v", row)
			}
		}
		for _, v := range []int64{row[2], row[3]} {
			if v < math.MinInt32 || v > math.MaxInt32 {
				return nil, errors.Errorf("save: invalid input record %v", row)
			}
		}
		inputs = append(inputs, InputRecord{
			TimeStep:    uint32(row[0]),
			Cycle:       uint32(row[1]),
			Delta:       geom.Delta{X: int32(row[2]), Y: int32(row[3])},
			Sublocation: uint32(row[4]),
			Count:       uint32(row[5]),
		})
	}
	return inputs, nil
}

// DeserializeSolution parses a serialized solution.
func DeserializeSolution(data string) (*SolutionData, error) {
	var file solutionFile
	if err := toml.Unmarshal([]byte(data), &file); err != nil {
		return nil, errors.Wrap(err, "save: could not parse solution")
	}
	puzzle, err := ParsePuzzle(file.Puzzle)
	if err != nil {
		return nil, err
	}
	inputs, err := inputsFromFile(file.Inputs)
	if err != nil {
		return nil, err
	}
	cd, err := circuitFromFile(&file.Circuit)
	if err != nil {
		return nil, err
	}
	return &SolutionData{
		InstallID: file.InstallID,
		Puzzle:    puzzle,
		Score:     file.Score,
		TimeSteps: file.TimeSteps,
		Inputs:    inputs,
		Circuit:   cd,
	}, nil
}

// LoadSolution reads and parses a solution file.
func LoadSolution(path string) (*SolutionData, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "save: could not read %s", path)
	}
	return DeserializeSolution(string(data))
}
