// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package save

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io/ioutil"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/db47h/tachy/geom"
	"github.com/pkg/errors"
)

// A WireLoc addresses one wire fragment: a cell and one of its sides.
//
type WireLoc struct {
	Pos  geom.Coords
	Side geom.Direction
}

// A PlacedChip records a chip's type and orientation at some cell.
//
type PlacedChip struct {
	Type   ChipType
	Orient geom.Orientation
}

// CircuitData is the serialized form of a circuit board: its bounds, its
// chips and its wire fragments. Serialization is canonical: equal circuits
// produce byte-identical output.
//
type CircuitData struct {
	Bounds geom.Rect
	Chips  map[geom.Coords]PlacedChip
	Wires  map[WireLoc]WireShape
}

// NewCircuitData returns an empty circuit with the given bounds.
func NewCircuitData(bounds geom.Rect) *CircuitData {
	return &CircuitData{
		Bounds: bounds,
		Chips:  make(map[geom.Coords]PlacedChip),
		Wires:  make(map[WireLoc]WireShape),
	}
}

func coordKey(c geom.Coords) string {
	var b strings.Builder
	writeSigned(&b, c.X)
	writeSigned(&b, c.Y)
	return b.String()
}

func writeSigned(b *strings.Builder, v int32) {
	if v < 0 {
		b.WriteByte('m')
		b.WriteString(strconv.FormatInt(-int64(v), 10))
	} else {
		b.WriteByte('p')
		b.WriteString(strconv.FormatInt(int64(v), 10))
	}
}

func sideChar(d geom.Direction) byte {
	switch d {
	case geom.East:
		return 'e'
	case geom.South:
		return 's'
	case geom.West:
		return 'w'
	default:
		return 'n'
	}
}

func parseCoordKey(key string) (geom.Coords, error) {
	// A key is two sign-prefixed decimal runs, e.g. "m1p2" = (-1, 2).
	if len(key) < 4 || (key[0] != 'm' && key[0] != 'p') {
		return geom.Coords{}, errors.Errorf("save: invalid cell key %q", key)
	}
	split := strings.LastIndexAny(key, "mp")
	if split <= 0 {
		return geom.Coords{}, errors.Errorf("save: invalid cell key %q", key)
	}
	x, err := parseSigned(key[:split])
	if err != nil {
		return geom.Coords{}, errors.Wrapf(err, "save: invalid cell key %q", key)
	}
	y, err := parseSigned(key[split:])
	if err != nil {
		return geom.Coords{}, errors.Wrapf(err, "save: invalid cell key %q", key)
	}
	return geom.Coords{X: x, Y: y}, nil
}

func parseSigned(s string) (int32, error) {
	v, err := strconv.ParseInt(s[1:], 10, 32)
	if err != nil {
		return 0, err
	}
	if s[0] == 'm' {
		v = -v
	}
	return int32(v), nil
}

func parseWireKey(key string) (WireLoc, error) {
	if len(key) < 5 {
		return WireLoc{}, errors.Errorf("save: invalid wire key %q", key)
	}
	var side geom.Direction
	switch key[len(key)-1] {
	case 'e':
		side = geom.East
	case 's':
		side = geom.South
	case 'w':
		side = geom.West
	case 'n':
		side = geom.North
	default:
		return WireLoc{}, errors.Errorf("save: invalid wire key %q", key)
	}
	pos, err := parseCoordKey(key[:len(key)-1])
	if err != nil {
		return WireLoc{}, err
	}
	return WireLoc{Pos: pos, Side: side}, nil
}

// SerializeToString renders the circuit in its canonical form: bounds
// first, then the chip and wire tables with lexicographically sorted keys.
func (d *CircuitData) SerializeToString() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "bounds = [%d,%d,%d,%d]\n",
		d.Bounds.X, d.Bounds.Y, d.Bounds.Width, d.Bounds.Height)

	buf.WriteString("\n[chips]\n")
	chipKeys := make([]string, 0, len(d.Chips))
	chips := make(map[string]PlacedChip, len(d.Chips))
	for pos, chip := range d.Chips {
		key := coordKey(pos)
		chipKeys = append(chipKeys, key)
		chips[key] = chip
	}
	sort.Strings(chipKeys)
	for _, key := range chipKeys {
		chip := chips[key]
		fmt.Fprintf(&buf, "%s = %q\n", key,
			chip.Orient.String()+"-"+chip.Type.String())
	}

	buf.WriteString("\n[wires]\n")
	wireKeys := make([]string, 0, len(d.Wires))
	wires := make(map[string]WireShape, len(d.Wires))
	for loc, shape := range d.Wires {
		key := coordKey(loc.Pos) + string(sideChar(loc.Side))
		wireKeys = append(wireKeys, key)
		wires[key] = shape
	}
	sort.Strings(wireKeys)
	for _, key := range wireKeys {
		fmt.Fprintf(&buf, "%s = %q\n", key, wires[key].String())
	}
	return buf.String()
}

// Hash returns the SHA-256 digest of the canonical serialization, used to
// deduplicate submitted solutions.
func (d *CircuitData) Hash() [sha256.Size]byte {
	return sha256.Sum256([]byte(d.SerializeToString()))
}

// circuitFile is the TOML shape of a serialized circuit.
type circuitFile struct {
	Bounds []int32           `toml:"bounds"`
	Chips  map[string]string `toml:"chips"`
	Wires  map[string]string `toml:"wires"`
}

// DeserializeCircuit parses a serialized circuit.
func DeserializeCircuit(data string) (*CircuitData, error) {
	var file circuitFile
	if err := toml.Unmarshal([]byte(data), &file); err != nil {
		return nil, errors.Wrap(err, "save: could not parse circuit")
	}
	return circuitFromFile(&file)
}

func circuitFromFile(file *circuitFile) (*CircuitData, error) {
	if len(file.Bounds) != 4 {
		return nil, errors.Errorf("save: invalid circuit bounds %v", file.Bounds)
	}
	circuit := NewCircuitData(geom.Rect{
		X:      file.Bounds[0],
		Y:      file.Bounds[1],
		Width:  file.Bounds[2],
		Height: file.Bounds[3],
	})
	for key, value := range file.Chips {
		pos, err := parseCoordKey(key)
		if err != nil {
			return nil, err
		}
		dash := strings.IndexByte(value, '-')
		if dash < 0 {
			return nil, errors.Errorf("save: invalid chip value %q", value)
		}
		orient, err := geom.ParseOrientation(value[:dash])
		if err != nil {
			return nil, err
		}
		ctype, err := ParseChipType(value[dash+1:])
		if err != nil {
			return nil, err
		}
		circuit.Chips[pos] = PlacedChip{Type: ctype, Orient: orient}
	}
	for key, value := range file.Wires {
		loc, err := parseWireKey(key)
		if err != nil {
			return nil, err
		}
		shape, err := ParseWireShape(value)
		if err != nil {
			return nil, err
		}
		circuit.Wires[loc] = shape
	}
	return circuit, nil
}

// LoadCircuit reads and parses a circuit file.
func LoadCircuit(path string) (*CircuitData, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "save: could not read %s", path)
	}
	return DeserializeCircuit(string(data))
}

// SaveCircuit writes the circuit's canonical serialization to path.
func (d *CircuitData) SaveCircuit(path string) error {
	err := ioutil.WriteFile(path, []byte(d.SerializeToString()), 0644)
	return errors.Wrapf(err, "save: could not write %s", path)
}
