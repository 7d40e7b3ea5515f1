// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command tachy is the player-side command line tool: it manages the
// save directory and replays circuit solutions.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/db47h/tachy/save"
	"github.com/db47h/tachy/state"
)

// StartupOptions are the flag overrides applied on top of the player's
// saved preferences.
//
type StartupOptions struct {
	Fullscreen  *bool
	ResolutionW uint32
	ResolutionH uint32
	SaveDir     string
}

var (
	flagFullscreen bool
	flagResolution string
	flagSaveDir    string
)

var rootCmd = &cobra.Command{
	Use:           "tachy",
	Short:         "Tachyomancer circuit toolkit",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := startupOptions(cmd)
		if err != nil {
			return err
		}
		return showStatus(opts)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify FILE",
	Short: "Replay a solution file and report the outcome",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sol, err := save.LoadSolution(args[0])
		if err != nil {
			return err
		}
		if errs := state.VerifySolution(sol); len(errs) > 0 {
			for _, e := range errs {
				fmt.Println(e)
			}
			return errors.New("verification failed")
		}
		fmt.Printf("verified: %s scores %d\n", sol.Puzzle, sol.Score)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSaveDir, "save_dir", "",
		"Save directory (default $HOME/.tachy)")
	rootCmd.Flags().BoolVar(&flagFullscreen, "fullscreen", false,
		"Override the fullscreen preference")
	rootCmd.Flags().StringVar(&flagResolution, "resolution", "",
		"Override the window resolution, as WxH")
	rootCmd.AddCommand(verifyCmd)
}

// startupOptions validates the root flags.
func startupOptions(cmd *cobra.Command) (*StartupOptions, error) {
	opts := &StartupOptions{SaveDir: flagSaveDir}
	if opts.SaveDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "locating save directory")
		}
		opts.SaveDir = filepath.Join(home, ".tachy")
	}
	if cmd.Flags().Changed("fullscreen") {
		opts.Fullscreen = &flagFullscreen
	}
	if flagResolution != "" {
		w, h, err := parseResolution(flagResolution)
		if err != nil {
			return nil, err
		}
		opts.ResolutionW, opts.ResolutionH = w, h
	}
	return opts, nil
}

func parseResolution(s string) (uint32, uint32, error) {
	i := strings.IndexByte(s, 'x')
	if i < 0 {
		return 0, 0, errors.Errorf("invalid resolution %q, expected WxH", s)
	}
	w, err1 := strconv.ParseUint(s[:i], 10, 32)
	h, err2 := strconv.ParseUint(s[i+1:], 10, 32)
	if err1 != nil || err2 != nil || w == 0 || h == 0 {
		return 0, 0, errors.Errorf("invalid resolution %q, expected WxH", s)
	}
	return uint32(w), uint32(h), nil
}

// showStatus prepares the save directory and prints the campaign state.
func showStatus(opts *StartupOptions) error {
	prefs, err := save.LoadPrefs(opts.SaveDir)
	if err != nil {
		return err
	}
	if opts.Fullscreen != nil {
		prefs.Fullscreen = *opts.Fullscreen
	}
	if opts.ResolutionW != 0 {
		prefs.ResolutionW = opts.ResolutionW
		prefs.ResolutionH = opts.ResolutionH
	}
	if err := prefs.Save(opts.SaveDir); err != nil {
		return err
	}

	fmt.Printf("save directory: %s\n", opts.SaveDir)
	names, err := save.ProfileNames(opts.SaveDir)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("no profiles")
		return nil
	}
	for _, name := range names {
		profile, err := save.LoadProfile(
			filepath.Join(opts.SaveDir, "profiles", name))
		if err != nil {
			return err
		}
		solved := 0
		for _, p := range save.AllPuzzles() {
			if profile.IsSolved(p) {
				solved++
			}
		}
		fmt.Printf("profile %s: %d puzzles solved, current %s\n",
			profile.Name, solved, profile.CurrentPuzzle)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tachy:", err)
		os.Exit(1)
	}
}
