// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package server exposes the score database over HTTP: clients submit
// solutions, the server replays them and publishes the verified score
// curves.
package server

import (
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/db47h/tachy/save"
	"github.com/db47h/tachy/state"
	"github.com/db47h/tachy/storage"
)

// maxSolutionSize bounds the request body of a solution submission.
const maxSolutionSize = 256 << 10

// A Server verifies submitted solutions against its score database and
// serves the resulting score curves.
//
type Server struct {
	db     *storage.ScoreDatabase
	logger *log.Logger
	srv    *http.Server
}

// New returns a server bound to host:port, backed by db. If logger is
// nil the server logs to the standard logger.
func New(cfg Config, db *storage.ScoreDatabase, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(os.Stderr, "tachyoscope: ", log.LstdFlags)
	}
	s := &Server{db: db, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/readiness_check", s.handleReadinessCheck)
	mux.HandleFunc("/scores", s.handleScores)
	mux.HandleFunc("/submit_solution", s.handleSubmitSolution)
	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Run verifies any solutions left unverified by a previous run, then
// serves HTTP until the listener fails.
func (s *Server) Run() error {
	go s.drainBacklog()
	s.logger.Printf("listening on %s", s.srv.Addr)
	return s.srv.ListenAndServe()
}

// drainBacklog replays stored solutions that were never verified, for
// instance because the server stopped between storing and verifying.
func (s *Server) drainBacklog() {
	sols, err := s.db.LoadUnverifiedSolutions()
	if err != nil {
		s.logger.Printf("loading unverified solutions: %v", err)
		return
	}
	for _, sol := range sols {
		key := storage.SolutionKey{
			Puzzle: sol.Puzzle,
			Hash:   storage.HashCircuit(sol.Circuit),
		}
		errs, err := s.verify(key, sol)
		switch {
		case err != nil:
			s.logger.Printf("verifying backlog %v/%s: %v", key.Puzzle, key.Hash, err)
		case len(errs) > 0:
			s.logger.Printf("backlog %v/%s failed verification", key.Puzzle, key.Hash)
		}
	}
}

// verify replays sol and, when the replay succeeds, records its score.
// It returns the replay's failure messages, if any.
func (s *Server) verify(key storage.SolutionKey, sol *save.SolutionData) ([]string, error) {
	if errs := state.VerifySolution(sol); len(errs) > 0 {
		return errs, nil
	}
	area := sol.Circuit.Bounds.Size().Area()
	return nil, s.db.StoreVerifiedSolution(key, area, sol.Score)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	n, err := s.db.LoadNumVerifiedSolutions()
	if err != nil {
		s.internalError(w, err)
		return
	}
	fmt.Fprintf(w, "There are %d verified solutions.\n", n)
}

func (s *Server) handleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "ready\n")
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	scores, err := s.db.LoadScores()
	if err != nil {
		s.internalError(w, err)
		return
	}
	fmt.Fprint(w, scores.SerializeToString())
}

func (s *Server) handleSubmitSolution(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxSolutionSize))
	if err != nil {
		http.Error(w, "could not read request body", http.StatusBadRequest)
		return
	}
	sol, err := save.DeserializeSolution(string(body))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid solution: %v", err), http.StatusBadRequest)
		return
	}
	size := sol.Circuit.Bounds.Size()
	if size.Width <= 0 || size.Height <= 0 {
		http.Error(w, "invalid solution: empty board", http.StatusBadRequest)
		return
	}

	key, err := s.db.StoreNewSolution(sol)
	if err != nil {
		s.internalError(w, err)
		return
	}
	if key == nil {
		// Already verified; nothing to replay.
		fmt.Fprint(w, "ok\n")
		return
	}
	errs, err := s.verify(*key, sol)
	if err != nil {
		s.internalError(w, err)
		return
	}
	if len(errs) > 0 {
		fmt.Fprint(w, "Circuit had errors:\n")
		for _, e := range errs {
			fmt.Fprintf(w, "- %s\n", e)
		}
		return
	}
	s.logger.Printf("verified new solution for %v", sol.Puzzle)
	fmt.Fprint(w, "ok\n")
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.logger.Printf("internal error: %v", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
