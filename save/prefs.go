// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package save

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Prefs holds the player preferences persisted at save_dir/prefs.toml.
//
type Prefs struct {
	Fullscreen     bool   `toml:"fullscreen"`
	ResolutionW    uint32 `toml:"resolution_w,omitempty"`
	ResolutionH    uint32 `toml:"resolution_h,omitempty"`
	SoundVolume    int    `toml:"sound_volume"`
	CurrentProfile string `toml:"current_profile,omitempty"`
}

// DefaultPrefs returns the preferences used for a fresh save directory.
func DefaultPrefs() *Prefs {
	return &Prefs{Fullscreen: true, SoundVolume: 80}
}

func prefsPath(saveDir string) string {
	return filepath.Join(saveDir, "prefs.toml")
}

// LoadPrefs reads prefs.toml from saveDir, returning defaults if the file
// does not exist yet.
func LoadPrefs(saveDir string) (*Prefs, error) {
	data, err := ioutil.ReadFile(prefsPath(saveDir))
	if os.IsNotExist(err) {
		return DefaultPrefs(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "save: could not read prefs")
	}
	prefs := DefaultPrefs()
	if err := toml.Unmarshal(data, prefs); err != nil {
		return nil, errors.Wrap(err, "save: could not parse prefs")
	}
	return prefs, nil
}

// Save writes the preferences to saveDir.
func (p *Prefs) Save(saveDir string) error {
	if err := os.MkdirAll(saveDir, 0755); err != nil {
		return errors.Wrapf(err, "save: could not create %s", saveDir)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(p); err != nil {
		return errors.Wrap(err, "save: could not serialize prefs")
	}
	err := ioutil.WriteFile(prefsPath(saveDir), buf.Bytes(), 0644)
	return errors.Wrap(err, "save: could not write prefs")
}
