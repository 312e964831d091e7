// Tinkerlaunch
// Copyright (c) 2026 The Tinkerlaunch Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Tinkerlaunch.
//
// Tinkerlaunch is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Tinkerlaunch is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Tinkerlaunch.  If not, see <http://www.gnu.org/licenses/>.

package helpers

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/config"
)

// Paths is the set of per-user directories the launcher reads and writes.
// All fields are absolute.
type Paths struct {
	ConfigDir string
	DataDir   string
	StateDir  string
	CacheDir  string
}

// DefaultPaths resolves the XDG base directories for the current user,
// honouring the config directory override from the environment.
func DefaultPaths() Paths {
	p := Paths{
		ConfigDir: filepath.Join(xdg.ConfigHome, config.AppName),
		DataDir:   filepath.Join(xdg.DataHome, config.AppName),
		StateDir:  filepath.Join(xdg.StateHome, config.AppName),
		CacheDir:  filepath.Join(xdg.CacheHome, config.AppName),
	}
	if v := os.Getenv(config.EnvConfigDir); v != "" {
		if abs, err := filepath.Abs(v); err == nil {
			p.ConfigDir = abs
		}
	}
	return p
}

// ScratchDir is the per-game working directory for generated files.
func (p Paths) ScratchDir(appID uint32) string {
	return filepath.Join(p.CacheDir, "games", strconv.FormatUint(uint64(appID), 10))
}

// PrefixDir is the compatibility prefix (STEAM_COMPAT_DATA_PATH) of a game.
func (p Paths) PrefixDir(appID uint32) string {
	return filepath.Join(p.DataDir, "prefixes", strconv.FormatUint(uint64(appID), 10))
}

// GameConfigDir holds the per-game JSON settings.
func (p Paths) GameConfigDir() string {
	return filepath.Join(p.ConfigDir, "games")
}
