// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package server

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config is the score server's runtime configuration.
//
type Config struct {
	Host   string
	Port   int
	DBPath string
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	return Config{
		Host:   "127.0.0.1",
		Port:   8080,
		DBPath: "tachyoscope.db",
	}
}

// LoadConfig loads a .env file if one exists, then applies the
// TACHYOSCOPE_HOST, TACHYOSCOPE_PORT and TACHYOSCOPE_DB environment
// variables over the defaults.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if host := os.Getenv("TACHYOSCOPE_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("TACHYOSCOPE_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil || p <= 0 || p > 0xffff {
			return cfg, errors.Errorf("server: invalid TACHYOSCOPE_PORT %q", port)
		}
		cfg.Port = p
	}
	if db := os.Getenv("TACHYOSCOPE_DB"); db != "" {
		cfg.DBPath = db
	}
	return cfg, nil
}
