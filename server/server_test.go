// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package server

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/db47h/tachy/geom"
	"github.com/db47h/tachy/save"
	"github.com/db47h/tachy/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir, err := ioutil.TempDir("", "tachy-server")
	require.NoError(t, err)
	db, err := storage.Open(filepath.Join(dir, "scores.db"))
	require.NoError(t, err)
	srv := httptest.NewServer(New(DefaultConfig(), db, nil).Handler())
	t.Cleanup(func() {
		srv.Close()
		db.Close()
		os.RemoveAll(dir)
	})
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func submit(t *testing.T, srv *httptest.Server, body string) (int, string) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/submit_solution", "text/plain",
		strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(out)
}

// orSolution wires the OR task's three ports straight into an Or chip,
// the same circuit the evaluator tests replay to victory.
func orSolution() *save.SolutionData {
	d := save.NewCircuitData(geom.Rect{X: 0, Y: 0, Width: 5, Height: 5})
	d.Chips[geom.Coords{X: 2, Y: 2}] = save.PlacedChip{
		Type: save.ChipType{Kind: save.ChipOr},
	}
	wire := func(x, y int32, side geom.Direction, shape save.WireShape) {
		d.Wires[save.WireLoc{Pos: geom.Coords{X: x, Y: y}, Side: side}] = shape
	}
	wire(-1, 2, geom.East, save.Stub)
	wire(0, 2, geom.East, save.Straight)
	wire(1, 2, geom.East, save.Straight)
	wire(2, 2, geom.West, save.Stub)
	wire(2, 5, geom.North, save.Stub)
	wire(2, 4, geom.North, save.Straight)
	wire(2, 3, geom.North, save.Straight)
	wire(2, 2, geom.South, save.Stub)
	wire(2, 2, geom.East, save.Stub)
	wire(3, 2, geom.East, save.Straight)
	wire(4, 2, geom.East, save.Straight)
	wire(5, 2, geom.West, save.Stub)
	return &save.SolutionData{
		Puzzle:    save.TutorialOr,
		Score:     18,
		TimeSteps: 4,
		Circuit:   d,
	}
}

func TestReadinessCheck(t *testing.T) {
	srv := newTestServer(t)
	code, body := get(t, srv, "/readiness_check")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready\n", body)
}

func TestIndexCountsVerifiedSolutions(t *testing.T) {
	srv := newTestServer(t)

	code, body := get(t, srv, "/")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "There are 0 verified solutions.\n", body)

	code, body = submit(t, srv, orSolution().SerializeToString())
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok\n", body)

	_, body = get(t, srv, "/")
	assert.Equal(t, "There are 1 verified solutions.\n", body)
}

func TestIndexUnknownPath(t *testing.T) {
	srv := newTestServer(t)
	code, _ := get(t, srv, "/no_such_page")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSubmitSolutionAndScores(t *testing.T) {
	srv := newTestServer(t)

	sol := orSolution()
	code, body := submit(t, srv, sol.SerializeToString())
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok\n", body)

	// Resubmitting the identical circuit skips the replay.
	code, body = submit(t, srv, sol.SerializeToString())
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok\n", body)

	_, body = get(t, srv, "/scores")
	scores, err := save.DeserializeScoreCurveMap(body)
	require.NoError(t, err)
	assert.Equal(t, []save.ScoreEntry{{Area: 25, Score: 18}},
		scores.Get(save.TutorialOr).Entries())
}

func TestSubmitFailingSolution(t *testing.T) {
	srv := newTestServer(t)

	sol := &save.SolutionData{
		Puzzle:    save.TutorialOr,
		Score:     18,
		TimeSteps: 4,
		Circuit:   save.NewCircuitData(geom.Rect{Width: 5, Height: 5}),
	}
	code, body := submit(t, srv, sol.SerializeToString())
	require.Equal(t, http.StatusOK, code)
	assert.True(t, strings.HasPrefix(body, "Circuit had errors:\n- "), body)

	_, body = get(t, srv, "/")
	assert.Equal(t, "There are 0 verified solutions.\n", body)
}

func TestSubmitRejectsGarbage(t *testing.T) {
	srv := newTestServer(t)

	code, _ := submit(t, srv, "not a solution")
	assert.Equal(t, http.StatusBadRequest, code)

	sol := orSolution()
	sol.Circuit.Bounds = geom.Rect{}
	code, _ = submit(t, srv, sol.SerializeToString())
	assert.Equal(t, http.StatusBadRequest, code)

	resp, err := http.Get(srv.URL + "/submit_solution")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	os.Setenv("TACHYOSCOPE_HOST", "0.0.0.0")
	os.Setenv("TACHYOSCOPE_PORT", "9090")
	os.Setenv("TACHYOSCOPE_DB", "/tmp/test.db")
	defer func() {
		os.Unsetenv("TACHYOSCOPE_HOST")
		os.Unsetenv("TACHYOSCOPE_PORT")
		os.Unsetenv("TACHYOSCOPE_DB")
	}()

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Config{Host: "0.0.0.0", Port: 9090, DBPath: "/tmp/test.db"}, cfg)

	os.Setenv("TACHYOSCOPE_PORT", "nope")
	_, err = LoadConfig()
	assert.Error(t, err)
}
