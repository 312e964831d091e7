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

// Package steam reads the local Steam installation: library folders, app
// manifests, launch configurations from the appinfo cache, and the compat
// tool assigned to each game.
package steam

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/andygrunwald/vdf"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// FlatpakSteamID is the Flatpak app ID for Steam.
const FlatpakSteamID = "com.valvesoftware.Steam"

var ErrSteamNotFound = errors.New("steam installation not found")

// DefaultRoots returns the usual Steam root directories on Linux, in the
// order they are tried.
func DefaultRoots() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Warn().Err(err).Msg("failed to get user home directory")
		return nil
	}
	return []string{
		filepath.Join(home, ".steam", "steam"),
		filepath.Join(home, ".local", "share", "Steam"),
		filepath.Join(home, ".steam", "root"),
		filepath.Join(home, ".var", "app", FlatpakSteamID, ".steam", "steam"),
		filepath.Join(home, ".var", "app", FlatpakSteamID, ".local", "share", "Steam"),
	}
}

// FindRoot returns the first candidate that looks like a Steam root, i.e.
// contains a steamapps directory. A non-empty configured dir is tried first.
func FindRoot(fs afero.Fs, configured string, candidates []string) (string, error) {
	if configured != "" {
		if isDir(fs, FindSteamAppsDir(fs, configured)) {
			return configured, nil
		}
		log.Warn().Str("dir", configured).Msg("configured Steam directory not found")
	}
	for _, c := range candidates {
		if isDir(fs, FindSteamAppsDir(fs, c)) {
			log.Debug().Str("dir", c).Msg("found Steam root")
			return c, nil
		}
	}
	return "", ErrSteamNotFound
}

// FindSteamAppsDir finds the steamapps directory under a Steam root. It
// checks both the lowercase and mixed-case spellings.
func FindSteamAppsDir(fs afero.Fs, root string) string {
	for _, candidate := range []string{"steamapps", "SteamApps"} {
		path := filepath.Join(root, candidate)
		if isDir(fs, path) {
			return path
		}
	}
	return filepath.Join(root, "steamapps")
}

func isDir(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && info.IsDir()
}

// Library is a view of one Steam installation and its library folders.
type Library struct {
	fs             afero.Fs
	root           string
	compatToolsDir string
	extra          []string
}

// LibraryOptions configures NewLibrary.
type LibraryOptions struct {
	// CompatToolsDir overrides <root>/compatibilitytools.d.
	CompatToolsDir string
	// ExtraLibraries are library roots searched in addition to the ones
	// listed in libraryfolders.vdf.
	ExtraLibraries []string
}

func NewLibrary(fs afero.Fs, root string, opts LibraryOptions) *Library {
	return &Library{
		fs:             fs,
		root:           root,
		compatToolsDir: opts.CompatToolsDir,
		extra:          opts.ExtraLibraries,
	}
}

func (l *Library) Root() string {
	return l.root
}

// CompatToolsDir is the user-level directory for custom compat tools such
// as GE-Proton.
func (l *Library) CompatToolsDir() string {
	if l.compatToolsDir != "" {
		return l.compatToolsDir
	}
	return filepath.Join(l.root, "compatibilitytools.d")
}

// LibraryRoots returns the Steam root followed by every library folder from
// libraryfolders.vdf and the configured extra libraries, without duplicates.
func (l *Library) LibraryRoots() []string {
	roots := []string{l.root}
	add := func(p string) {
		if p == "" {
			return
		}
		p = filepath.Clean(p)
		if !slices.Contains(roots, p) {
			roots = append(roots, p)
		}
	}

	for _, p := range l.libraryFolders() {
		add(p)
	}
	for _, p := range l.extra {
		add(p)
	}
	return roots
}

// libraryFolders parses steamapps/libraryfolders.vdf.
func (l *Library) libraryFolders() []string {
	path := filepath.Join(FindSteamAppsDir(l.fs, l.root), "libraryfolders.vdf")
	m, err := l.parseVDF(path)
	if err != nil {
		log.Debug().Err(err).Msg("failed to read libraryfolders.vdf")
		return nil
	}

	lfs, ok := m["libraryfolders"].(map[string]any)
	if !ok {
		return nil
	}

	// Keys are "0", "1", ... ; sort for a stable search order.
	keys := make([]string, 0, len(lfs))
	for k := range lfs {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareNumeric)

	var out []string
	for _, k := range keys {
		switch v := lfs[k].(type) {
		case map[string]any:
			if p, ok := v["path"].(string); ok {
				out = append(out, p)
			}
		case string:
			// Old format: "1" "/path/to/library"
			out = append(out, v)
		}
	}
	return out
}

// parseVDF reads a text VDF file with keys normalized to lowercase.
func (l *Library) parseVDF(path string) (map[string]any, error) {
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("path", path).Msg("error closing vdf file")
		}
	}()

	m, err := vdf.NewParser(f).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return normalizeVDFKeys(m), nil
}

func compareNumeric(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
