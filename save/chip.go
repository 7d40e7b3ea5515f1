// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package save

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/db47h/tachy/geom"
	"github.com/pkg/errors"
)

// A ChipKind names one entry in the static chip catalog.
//
type ChipKind uint8

const (
	ChipAdd ChipKind = iota
	ChipAdd2Bit
	ChipAnd
	ChipBreak
	ChipButton
	ChipClock
	ChipCmp
	ChipCmpEq
	ChipConst
	ChipDelay
	ChipDemux
	ChipDiscard
	ChipDisplay
	ChipEq
	ChipFilter
	ChipHalve
	ChipInc
	ChipJoin
	ChipLatest
	ChipMul
	ChipMul4Bit
	ChipMux
	ChipNot
	ChipOr
	ChipPack
	ChipRam
	ChipSample
	ChipSub
	ChipToggle
	ChipUnpack
	ChipXor
)

var chipKindNames = map[ChipKind]string{
	ChipAdd:     "Add",
	ChipAdd2Bit: "Add2Bit",
	ChipAnd:     "And",
	ChipBreak:   "Break",
	ChipButton:  "Button",
	ChipClock:   "Clock",
	ChipCmp:     "Cmp",
	ChipCmpEq:   "CmpEq",
	ChipConst:   "Const",
	ChipDelay:   "Delay",
	ChipDemux:   "Demux",
	ChipDiscard: "Discard",
	ChipDisplay: "Display",
	ChipEq:      "Eq",
	ChipFilter:  "Filter",
	ChipHalve:   "Halve",
	ChipInc:     "Inc",
	ChipJoin:    "Join",
	ChipLatest:  "Latest",
	ChipMul:     "Mul",
	ChipMul4Bit: "Mul4Bit",
	ChipMux:     "Mux",
	ChipNot:     "Not",
	ChipOr:      "Or",
	ChipPack:    "Pack",
	ChipRam:     "Ram",
	ChipSample:  "Sample",
	ChipSub:     "Sub",
	ChipToggle:  "Toggle",
	ChipUnpack:  "Unpack",
	ChipXor:     "Xor",
}

var chipKindsByName = func() map[string]ChipKind {
	m := make(map[string]ChipKind, len(chipKindNames))
	for k, n := range chipKindNames {
		m[n] = k
	}
	return m
}()

func (k ChipKind) String() string { return chipKindNames[k] }

// A ChipType is a chip kind together with its parameter: the output value
// for Const chips and the initial switch state for Toggle chips.
//
type ChipType struct {
	Kind  ChipKind
	Value uint32 // Const output value, or 1 for Toggle(true)
}

// Convenience constructors for parameterized chip types.
func ConstChip(value uint32) ChipType {
	return ChipType{Kind: ChipConst, Value: value}
}
func ToggleChip(on bool) ChipType {
	v := uint32(0)
	if on {
		v = 1
	}
	return ChipType{Kind: ChipToggle, Value: v}
}

// Size returns the chip's footprint in its default orientation.
func (t ChipType) Size() geom.Size {
	switch t.Kind {
	case ChipRam:
		return geom.Size{Width: 2, Height: 2}
	case ChipDisplay:
		return geom.Size{Width: 2, Height: 1}
	default:
		return geom.Size{Width: 1, Height: 1}
	}
}

func (t ChipType) String() string {
	switch t.Kind {
	case ChipConst:
		return fmt.Sprintf("Const(%d)", t.Value)
	case ChipToggle:
		if t.Value != 0 {
			return "Toggle(true)"
		}
		return "Toggle(false)"
	default:
		return t.Kind.String()
	}
}

// ParseChipType parses the serialized form produced by String.
func ParseChipType(s string) (ChipType, error) {
	if kind, ok := chipKindsByName[s]; ok {
		if kind == ChipConst || kind == ChipToggle {
			return ChipType{}, errors.Errorf("save: chip %q needs a parameter", s)
		}
		return ChipType{Kind: kind}, nil
	}
	if strings.HasPrefix(s, "Const(") && strings.HasSuffix(s, ")") {
		v, err := strconv.ParseUint(s[6:len(s)-1], 10, 16)
		if err != nil {
			return ChipType{}, errors.Wrapf(err, "save: invalid chip %q", s)
		}
		return ConstChip(uint32(v)), nil
	}
	switch s {
	case "Toggle(false)":
		return ToggleChip(false), nil
	case "Toggle(true)":
		return ToggleChip(true), nil
	}
	return ChipType{}, errors.Errorf("save: invalid chip %q", s)
}

// ChipCategories groups the catalog for presentation, in menu order.
var ChipCategories = []struct {
	Name  string
	Chips []ChipType
}{
	{"Value", []ChipType{
		ConstChip(1), {Kind: ChipPack}, {Kind: ChipUnpack},
		{Kind: ChipDiscard}, {Kind: ChipSample}, {Kind: ChipJoin},
	}},
	{"Arithmetic", []ChipType{
		{Kind: ChipAdd}, {Kind: ChipAdd2Bit}, {Kind: ChipInc},
		{Kind: ChipSub}, {Kind: ChipMul}, {Kind: ChipMul4Bit},
		{Kind: ChipHalve},
	}},
	{"Comparison", []ChipType{
		{Kind: ChipCmp}, {Kind: ChipCmpEq}, {Kind: ChipEq},
	}},
	{"Logic", []ChipType{
		{Kind: ChipNot}, {Kind: ChipAnd}, {Kind: ChipOr}, {Kind: ChipXor},
		{Kind: ChipMux}, {Kind: ChipFilter}, {Kind: ChipDemux},
	}},
	{"Timing", []ChipType{
		{Kind: ChipDelay}, {Kind: ChipClock},
	}},
	{"Memory", []ChipType{
		{Kind: ChipLatest}, {Kind: ChipRam},
	}},
	{"Debug", []ChipType{
		{Kind: ChipDisplay}, ToggleChip(false), {Kind: ChipBreak},
		{Kind: ChipButton},
	}},
}

// A ChipSet tracks which chip types a profile has unlocked. Parameterized
// chips are tracked by kind, ignoring the parameter.
//
type ChipSet struct {
	kinds map[ChipKind]bool
}

// NewChipSet returns an empty set.
func NewChipSet() *ChipSet {
	return &ChipSet{kinds: make(map[ChipKind]bool)}
}

// Contains reports whether the set holds the chip's kind.
func (s *ChipSet) Contains(t ChipType) bool { return s.kinds[t.Kind] }

// Insert adds the chip's kind to the set.
func (s *ChipSet) Insert(t ChipType) { s.kinds[t.Kind] = true }
