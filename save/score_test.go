// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package save

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreCurveFix(t *testing.T) {
	tests := []struct {
		name string
		in   []ScoreEntry
		out  []ScoreEntry
	}{
		{
			"unsorted",
			[]ScoreEntry{{20, 10}, {10, 20}},
			[]ScoreEntry{{10, 20}, {20, 10}},
		},
		{
			"repeated",
			[]ScoreEntry{{10, 20}, {10, 20}},
			[]ScoreEntry{{10, 20}},
		},
		{
			"dominated",
			[]ScoreEntry{{10, 20}, {20, 20}, {30, 10}},
			[]ScoreEntry{{10, 20}, {30, 10}},
		},
		{
			"same area",
			[]ScoreEntry{{10, 20}, {10, 10}},
			[]ScoreEntry{{10, 10}},
		},
	}
	for _, test := range tests {
		c := NewScoreCurve(test.in)
		assert.Equal(t, test.out, c.Entries(), test.name)
	}
}

func TestScoreCurveInsert(t *testing.T) {
	c := NewScoreCurve(nil)
	assert.True(t, c.IsEmpty())
	c.Insert(ScoreEntry{Area: 20, Score: 20})
	c.Insert(ScoreEntry{Area: 10, Score: 30})
	c.Insert(ScoreEntry{Area: 30, Score: 25}) // dominated
	assert.Equal(t, []ScoreEntry{{10, 30}, {20, 20}}, c.Entries())
}

func TestScoreCurveMap(t *testing.T) {
	m := NewScoreCurveMap()
	assert.True(t, m.Get(TutorialOr).IsEmpty())
	m.Insert(TutorialOr, 8, 16)
	m.Insert(TutorialOr, 9, 12)
	m.Insert(TutorialMux, 12, 30)
	want := "TutorialMux = [[12, 30]]\n" +
		"TutorialOr = [[8, 16], [9, 12]]\n"
	assert.Equal(t, want, m.SerializeToString())

	back, err := DeserializeScoreCurveMap(want)
	require.NoError(t, err)
	assert.Equal(t, want, back.SerializeToString())

	m.Set(TutorialMux, NewScoreCurve(nil))
	assert.True(t, m.Get(TutorialMux).IsEmpty())
}

func TestScoreCacheRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "tachy-scores")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	m, err := LoadScoreCache(dir)
	require.NoError(t, err)
	assert.True(t, m.Get(TutorialOr).IsEmpty())

	m.Insert(TutorialOr, 8, 16)
	require.NoError(t, m.SaveCache(dir))

	back, err := LoadScoreCache(dir)
	require.NoError(t, err)
	assert.Equal(t, m.SerializeToString(), back.SerializeToString())
}
