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

package steam

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ProtonScript is the entry point of every Proton build.
const ProtonScript = "proton"

var ErrCompatLayerNotFound = errors.New("compat layer not found")

// officialToolDirs maps Valve's internal compat tool names to their install
// directory under steamapps/common.
var officialToolDirs = map[string]string{
	"proton_experimental": "Proton - Experimental",
	"proton_hotfix":       "Proton Hotfix",
	"proton_9":            "Proton 9.0",
	"proton_8":            "Proton 8.0",
	"proton_7":            "Proton 7.0",
	"proton_63":           "Proton 6.3",
	"proton_513":          "Proton 5.13",
}

// CompatToolMapping returns the compat tool Steam is configured to use for
// appID, read from <root>/config/config.vdf. When the app has no explicit
// mapping and fallbackDefault is set, the global default (key "0") is
// returned. An empty result means no tool is assigned.
func (l *Library) CompatToolMapping(appID uint32, fallbackDefault bool) string {
	m, err := l.parseVDF(filepath.Join(l.root, "config", "config.vdf"))
	if err != nil {
		log.Debug().Err(err).Msg("failed to read Steam config.vdf")
		return ""
	}

	mapping, ok := lookupPath(m, "installconfigstore", "software", "valve", "steam", "compattoolmapping")
	if !ok {
		return ""
	}

	name := func(key string) string {
		entry, ok := mapping[key].(map[string]any)
		if !ok {
			return ""
		}
		n, _ := entry["name"].(string)
		return n
	}

	if n := name(strconv.FormatUint(uint64(appID), 10)); n != "" {
		return n
	}
	if fallbackDefault {
		return name("0")
	}
	return ""
}

// ResolveCompatLayer returns the directory of the named compat tool. The
// user-level compatibilitytools.d is searched first, then steamapps/common
// of every library root. The first directory containing a proton script
// wins.
func (l *Library) ResolveCompatLayer(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrCompatLayerNotFound)
	}

	for _, dir := range l.userToolCandidates(name) {
		if l.hasProton(dir) {
			return dir, nil
		}
	}

	dirName := name
	if official, ok := officialToolDirs[name]; ok {
		dirName = official
	}
	for _, root := range l.LibraryRoots() {
		dir := filepath.Join(FindSteamAppsDir(l.fs, root), "common", dirName)
		if l.hasProton(dir) {
			return dir, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrCompatLayerNotFound, name)
}

// userToolCandidates returns <tools>/<name> and every tool directory whose
// compatibilitytool.vdf declares name.
func (l *Library) userToolCandidates(name string) []string {
	toolsDir := l.CompatToolsDir()
	out := []string{filepath.Join(toolsDir, name)}

	entries, err := afero.ReadDir(l.fs, toolsDir)
	if err != nil {
		return out
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(toolsDir, e.Name())
		m, err := l.parseVDF(filepath.Join(dir, "compatibilitytool.vdf"))
		if err != nil {
			continue
		}
		tools, ok := lookupPath(m, "compatibilitytools", "compat_tools")
		if !ok {
			continue
		}
		if _, ok := tools[strings.ToLower(name)]; ok {
			out = append(out, dir)
		}
	}
	return out
}

func (l *Library) hasProton(dir string) bool {
	info, err := l.fs.Stat(filepath.Join(dir, ProtonScript))
	return err == nil && !info.IsDir()
}
