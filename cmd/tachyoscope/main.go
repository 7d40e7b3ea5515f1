// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command tachyoscope runs the score server: it accepts solution
// submissions, replays them, and publishes the verified score curves.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/db47h/tachy/server"
	"github.com/db47h/tachy/storage"
)

var (
	flagHost string
	flagPort int
	flagDB   string
)

var rootCmd = &cobra.Command{
	Use:           "tachyoscope",
	Short:         "Tachyomancer score server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := server.LoadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("host") {
			cfg.Host = flagHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = flagPort
		}
		if cmd.Flags().Changed("db") {
			cfg.DBPath = flagDB
		}

		db, err := storage.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		logger := log.New(os.Stderr, "tachyoscope: ", log.LstdFlags)
		return server.New(cfg, db, logger).Run()
	},
}

func init() {
	defaults := server.DefaultConfig()
	rootCmd.Flags().StringVar(&flagHost, "host", defaults.Host,
		"Address to listen on")
	rootCmd.Flags().IntVar(&flagPort, "port", defaults.Port,
		"Port to listen on")
	rootCmd.Flags().StringVar(&flagDB, "db", defaults.DBPath,
		"Path to the score database")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tachyoscope:", err)
		os.Exit(1)
	}
}
