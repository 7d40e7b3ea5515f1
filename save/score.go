// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package save

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// A ScoreEntry is one solved-circuit point: the circuit's area in chip
// cells and the score achieved with it.
//
type ScoreEntry struct {
	Area  int32
	Score uint32
}

// A ScoreCurve is the Pareto frontier of score entries for one puzzle:
// sorted by area, with every dominated entry removed. Lower is better on
// both axes.
//
type ScoreCurve struct {
	entries []ScoreEntry
}

// NewScoreCurve returns a curve holding the Pareto frontier of entries.
func NewScoreCurve(entries []ScoreEntry) *ScoreCurve {
	c := &ScoreCurve{entries: append([]ScoreEntry(nil), entries...)}
	c.fix()
	return c
}

// IsEmpty reports whether the curve has no entries.
func (c *ScoreCurve) IsEmpty() bool { return len(c.entries) == 0 }

// Entries returns the frontier, sorted by area.
func (c *ScoreCurve) Entries() []ScoreEntry { return c.entries }

// Insert adds an entry and re-fixes the frontier.
func (c *ScoreCurve) Insert(e ScoreEntry) {
	c.entries = append(c.entries, e)
	c.fix()
}

// fix sorts by (area, score) and drops entries that do not strictly
// improve the best score seen so far.
func (c *ScoreCurve) fix() {
	sort.Slice(c.entries, func(i, j int) bool {
		a, b := c.entries[i], c.entries[j]
		if a.Area != b.Area {
			return a.Area < b.Area
		}
		return a.Score < b.Score
	})
	best := int64(1) << 62
	kept := c.entries[:0]
	for _, e := range c.entries {
		if int64(e.Score) < best {
			best = int64(e.Score)
			kept = append(kept, e)
		}
	}
	c.entries = kept
}

// A ScoreCurveMap holds the score frontier for every solved puzzle.
//
type ScoreCurveMap struct {
	curves map[Puzzle]*ScoreCurve
}

// NewScoreCurveMap returns an empty map.
func NewScoreCurveMap() *ScoreCurveMap {
	return &ScoreCurveMap{curves: make(map[Puzzle]*ScoreCurve)}
}

var emptyCurve = &ScoreCurve{}

// Get returns the curve for puzzle, which is empty if nothing was solved.
func (m *ScoreCurveMap) Get(puzzle Puzzle) *ScoreCurve {
	if c, ok := m.curves[puzzle]; ok {
		return c
	}
	return emptyCurve
}

// Set replaces the curve for puzzle; an empty curve removes the entry.
func (m *ScoreCurveMap) Set(puzzle Puzzle, curve *ScoreCurve) {
	if curve.IsEmpty() {
		delete(m.curves, puzzle)
	} else {
		m.curves[puzzle] = curve
	}
}

// Insert adds one entry to the puzzle's curve.
func (m *ScoreCurveMap) Insert(puzzle Puzzle, area int32, score uint32) {
	c, ok := m.curves[puzzle]
	if !ok {
		c = NewScoreCurve(nil)
		m.curves[puzzle] = c
	}
	c.Insert(ScoreEntry{Area: area, Score: score})
}

// SerializeToString renders the map as TOML, one line per puzzle, sorted
// by puzzle name.
func (m *ScoreCurveMap) SerializeToString() string {
	names := make([]string, 0, len(m.curves))
	byName := make(map[string]*ScoreCurve, len(m.curves))
	for puzzle, curve := range m.curves {
		name := puzzle.String()
		names = append(names, name)
		byName[name] = curve
	}
	sort.Strings(names)
	var buf bytes.Buffer
	for _, name := range names {
		fmt.Fprintf(&buf, "%s = [", name)
		for i, e := range byName[name].Entries() {
			if i > 0 {
				buf.WriteString(", ")
			}
			fmt.Fprintf(&buf, "[%d, %d]", e.Area, e.Score)
		}
		buf.WriteString("]\n")
	}
	return buf.String()
}

// DeserializeScoreCurveMap parses the TOML form produced by
// SerializeToString, re-fixing each curve's frontier.
func DeserializeScoreCurveMap(data string) (*ScoreCurveMap, error) {
	var raw map[string][][]int64
	if err := toml.Unmarshal([]byte(data), &raw); err != nil {
		return nil, errors.Wrap(err, "save: could not parse scores")
	}
	m := NewScoreCurveMap()
	for name, pairs := range raw {
		puzzle, err := ParsePuzzle(name)
		if err != nil {
			return nil, err
		}
		entries := make([]ScoreEntry, 0, len(pairs))
		for _, p := range pairs {
			if len(p) != 2 {
				return nil, errors.Errorf("save: invalid score entry %v", p)
			}
			entries = append(entries,
				ScoreEntry{Area: int32(p[0]), Score: uint32(p[1])})
		}
		m.Set(puzzle, NewScoreCurve(entries))
	}
	return m, nil
}

func scoreCachePath(saveDir string) string {
	return filepath.Join(saveDir, "scores", "cache.toml")
}

// LoadScoreCache reads the cached global score curves from saveDir,
// returning an empty map if no cache exists yet.
func LoadScoreCache(saveDir string) (*ScoreCurveMap, error) {
	data, err := ioutil.ReadFile(scoreCachePath(saveDir))
	if os.IsNotExist(err) {
		return NewScoreCurveMap(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "save: could not read score cache")
	}
	return DeserializeScoreCurveMap(string(data))
}

// SaveCache writes the map to saveDir's score cache.
func (m *ScoreCurveMap) SaveCache(saveDir string) error {
	dir := filepath.Join(saveDir, "scores")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "save: could not create %s", dir)
	}
	path := scoreCachePath(saveDir)
	err := ioutil.WriteFile(path, []byte(m.SerializeToString()), 0644)
	return errors.Wrapf(err, "save: could not write %s", path)
}
