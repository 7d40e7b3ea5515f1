// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package storage persists submitted solutions and verified score curves
// in a SQLite database.
package storage

import (
	"database/sql"
	"encoding/hex"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/db47h/tachy/save"
)

// A SolutionKey identifies one submitted circuit: the puzzle it solves
// and the hex digest of the circuit's canonical serialization.
//
type SolutionKey struct {
	Puzzle save.Puzzle
	Hash   string
}

// HashCircuit returns the key hash for a circuit.
func HashCircuit(circuit *save.CircuitData) string {
	h := circuit.Hash()
	return hex.EncodeToString(h[:])
}

// ScoreDatabase stores submitted solutions and, once a solution has been
// replayed successfully, the resulting score curve entries.
//
// A solution moves through two states: stored (a row in solutions) and
// verified (additionally a row in scores for the same puzzle and hash).
//
type ScoreDatabase struct {
	db *sql.DB
}

// Open creates or opens the database at path and ensures the schema.
func Open(path string) (*ScoreDatabase, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.WithStack(err)
	}
	d := &ScoreDatabase{db: db}
	if err := d.initSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init schema")
	}
	return d, nil
}

// Close closes the underlying database.
func (d *ScoreDatabase) Close() error {
	return d.db.Close()
}

func (d *ScoreDatabase) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS solutions (
			puzzle      TEXT NOT NULL,
			hash        TEXT NOT NULL,
			solution    TEXT NOT NULL,
			install_id  INTEGER,
			received_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (puzzle, hash)
		);`,
		`CREATE TABLE IF NOT EXISTS scores (
			puzzle TEXT NOT NULL,
			hash   TEXT NOT NULL,
			area   INTEGER NOT NULL,
			score  INTEGER NOT NULL,
			PRIMARY KEY (puzzle, hash)
		);`,
	}
	for _, q := range queries {
		if _, err := d.db.Exec(q); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// LoadNumVerifiedSolutions returns the number of verified solutions.
func (d *ScoreDatabase) LoadNumVerifiedSolutions() (int64, error) {
	var n int64
	err := d.db.QueryRow(`SELECT COUNT(*) FROM scores`).Scan(&n)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return n, nil
}

// LoadScores returns the score curves built from all verified solutions.
func (d *ScoreDatabase) LoadScores() (*save.ScoreCurveMap, error) {
	rows, err := d.db.Query(`SELECT puzzle, area, score FROM scores`)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()
	m := save.NewScoreCurveMap()
	for rows.Next() {
		var name string
		var area int32
		var score uint32
		if err := rows.Scan(&name, &area, &score); err != nil {
			return nil, errors.WithStack(err)
		}
		puzzle, err := save.ParsePuzzle(name)
		if err != nil {
			return nil, errors.Wrapf(err, "scores row for %q", name)
		}
		m.Insert(puzzle, area, score)
	}
	return m, errors.WithStack(rows.Err())
}

// StoreNewSolution records a submitted solution. It returns the key the
// caller should verify, or nil if an identical circuit has already been
// verified for the same puzzle.
func (d *ScoreDatabase) StoreNewSolution(sol *save.SolutionData) (*SolutionKey, error) {
	key := SolutionKey{Puzzle: sol.Puzzle, Hash: HashCircuit(sol.Circuit)}
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM scores WHERE puzzle = ? AND hash = ?`,
		key.Puzzle.String(), key.Hash).Scan(&n)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var installID interface{}
	if sol.InstallID != nil {
		installID = int64(*sol.InstallID)
	}
	_, err = d.db.Exec(`INSERT INTO solutions (puzzle, hash, solution, install_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (puzzle, hash) DO NOTHING`,
		key.Puzzle.String(), key.Hash, sol.SerializeToString(), installID)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if n > 0 {
		return nil, nil
	}
	return &key, nil
}

// StoreVerifiedSolution records the score obtained by replaying the
// solution identified by key.
func (d *ScoreDatabase) StoreVerifiedSolution(key SolutionKey, area int32, score uint32) error {
	_, err := d.db.Exec(`INSERT INTO scores (puzzle, hash, area, score)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (puzzle, hash) DO NOTHING`,
		key.Puzzle.String(), key.Hash, area, score)
	return errors.WithStack(err)
}

// LoadUnverifiedSolutions returns all stored solutions that have not been
// verified yet, oldest first.
func (d *ScoreDatabase) LoadUnverifiedSolutions() ([]*save.SolutionData, error) {
	rows, err := d.db.Query(`SELECT s.solution FROM solutions s
		LEFT JOIN scores v ON v.puzzle = s.puzzle AND v.hash = s.hash
		WHERE v.hash IS NULL
		ORDER BY s.received_at, s.puzzle, s.hash`)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()
	var sols []*save.SolutionData
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.WithStack(err)
		}
		sol, err := save.DeserializeSolution(data)
		if err != nil {
			return nil, errors.Wrap(err, "stored solution")
		}
		sols = append(sols, sol)
	}
	return sols, errors.WithStack(rows.Err())
}
