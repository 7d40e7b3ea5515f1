// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package save

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChipTypeRoundTrip(t *testing.T) {
	types := []ChipType{
		{Kind: ChipAnd}, {Kind: ChipRam}, {Kind: ChipBreak},
		ConstChip(0), ConstChip(13), ConstChip(65535),
		ToggleChip(false), ToggleChip(true),
	}
	for _, ct := range types {
		back, err := ParseChipType(ct.String())
		if assert.NoError(t, err, ct.String()) {
			assert.Equal(t, ct, back)
		}
	}
}

func TestParseChipTypeErrors(t *testing.T) {
	for _, s := range []string{
		"", "Bogus", "Const", "Toggle", "Const()", "Const(x)",
		"Const(65536)", "Const(-1)", "Toggle(maybe)", "and",
	} {
		_, err := ParseChipType(s)
		assert.Error(t, err, s)
	}
}

func TestChipCategoriesCoverCatalog(t *testing.T) {
	seen := NewChipSet()
	for _, cat := range ChipCategories {
		for _, ct := range cat.Chips {
			assert.False(t, seen.Contains(ct), ct.String())
			seen.Insert(ct)
		}
	}
	// Every catalog kind appears in exactly one category.
	for kind := range chipKindNames {
		assert.True(t, seen.Contains(ChipType{Kind: kind}), kind.String())
	}
}

func TestPuzzleRoundTrip(t *testing.T) {
	for _, p := range AllPuzzles() {
		back, err := ParsePuzzle(p.String())
		if assert.NoError(t, err, p.String()) {
			assert.Equal(t, p, back)
		}
	}
	_, err := ParsePuzzle("AutomateNothing")
	assert.Error(t, err)
}

func TestPuzzleKindPrefixes(t *testing.T) {
	prefixes := map[PuzzleKind]string{
		KindTutorial:  "Tutorial",
		KindFabricate: "Fabricate",
		KindAutomate:  "Automate",
		KindCommand:   "Command",
		KindSandbox:   "Sandbox",
	}
	for _, p := range AllPuzzles() {
		assert.True(t, strings.HasPrefix(p.String(), prefixes[p.Kind()]),
			p.String())
		size := p.InitialBoardSize()
		assert.False(t, size.IsEmpty(), p.String())
	}
}
