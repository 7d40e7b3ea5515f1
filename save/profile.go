// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package save

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// A Profile records one player's campaign progress: the puzzle currently
// open, which puzzles have been solved, and the saved circuits per puzzle.
//
type Profile struct {
	Name          string
	CurrentPuzzle Puzzle
	solved        map[Puzzle]bool
	circuits      map[Puzzle][]string
	dir           string
}

// NewProfile returns a fresh profile rooted at dir (the profile's own
// directory under save_dir/profiles).
func NewProfile(name, dir string) *Profile {
	return &Profile{
		Name:          name,
		CurrentPuzzle: FirstPuzzle,
		solved:        make(map[Puzzle]bool),
		circuits:      make(map[Puzzle][]string),
		dir:           dir,
	}
}

// IsSolved reports whether the puzzle has been solved.
func (p *Profile) IsSolved(puzzle Puzzle) bool { return p.solved[puzzle] }

// SetSolved marks the puzzle as solved.
func (p *Profile) SetSolved(puzzle Puzzle) { p.solved[puzzle] = true }

// CircuitNames lists the saved circuit names for a puzzle, sorted.
func (p *Profile) CircuitNames(puzzle Puzzle) []string {
	names := append([]string(nil), p.circuits[puzzle]...)
	sort.Strings(names)
	return names
}

// AddCircuitName records a circuit name for a puzzle if not present.
func (p *Profile) AddCircuitName(puzzle Puzzle, name string) {
	for _, n := range p.circuits[puzzle] {
		if n == name {
			return
		}
	}
	p.circuits[puzzle] = append(p.circuits[puzzle], name)
}

// CircuitPath returns where a named circuit for a puzzle is stored.
func (p *Profile) CircuitPath(puzzle Puzzle, name string) string {
	return filepath.Join(p.dir, "circuits", puzzle.String(), name+".toml")
}

type profileFile struct {
	CurrentPuzzle string              `toml:"current_puzzle"`
	Solved        []string            `toml:"solved"`
	Circuits      map[string][]string `toml:"circuits"`
}

// Save writes the profile to <dir>/profile.toml.
func (p *Profile) Save() error {
	file := profileFile{
		CurrentPuzzle: p.CurrentPuzzle.String(),
		Circuits:      make(map[string][]string),
	}
	for puzzle, ok := range p.solved {
		if ok {
			file.Solved = append(file.Solved, puzzle.String())
		}
	}
	sort.Strings(file.Solved)
	for puzzle, names := range p.circuits {
		file.Circuits[puzzle.String()] = names
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(&file); err != nil {
		return errors.Wrap(err, "save: could not serialize profile")
	}
	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return errors.Wrapf(err, "save: could not create %s", p.dir)
	}
	path := filepath.Join(p.dir, "profile.toml")
	err := ioutil.WriteFile(path, buf.Bytes(), 0644)
	return errors.Wrapf(err, "save: could not write %s", path)
}

// LoadProfile reads the profile stored in dir; the profile name is the
// directory's base name.
func LoadProfile(dir string) (*Profile, error) {
	path := filepath.Join(dir, "profile.toml")
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "save: could not read %s", path)
	}
	var file profileFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "save: could not parse %s", path)
	}
	p := NewProfile(filepath.Base(dir), dir)
	if file.CurrentPuzzle != "" {
		puzzle, err := ParsePuzzle(file.CurrentPuzzle)
		if err != nil {
			return nil, err
		}
		p.CurrentPuzzle = puzzle
	}
	for _, name := range file.Solved {
		puzzle, err := ParsePuzzle(name)
		if err != nil {
			return nil, err
		}
		p.solved[puzzle] = true
	}
	for name, circuits := range file.Circuits {
		puzzle, err := ParsePuzzle(name)
		if err != nil {
			return nil, err
		}
		p.circuits[puzzle] = circuits
	}
	return p, nil
}

// ProfileNames lists the profiles present under saveDir.
func ProfileNames(saveDir string) ([]string, error) {
	root := filepath.Join(saveDir, "profiles")
	infos, err := ioutil.ReadDir(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "save: could not list %s", root)
	}
	var names []string
	for _, info := range infos {
		if info.IsDir() && !strings.HasPrefix(info.Name(), ".") {
			names = append(names, info.Name())
		}
	}
	return names, nil
}
