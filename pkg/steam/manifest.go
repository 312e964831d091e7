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
)

var ErrAppNotInstalled = errors.New("app not installed")

// AppManifest is the subset of appmanifest_<id>.acf used for launching.
type AppManifest struct {
	Name string
	// InstallDir is the absolute game directory under steamapps/common.
	InstallDir string
	// LibraryRoot is the library folder that holds the game.
	LibraryRoot string
	AppID       uint32
}

// Manifest searches every library folder for the app's manifest.
func (l *Library) Manifest(appID uint32) (AppManifest, error) {
	for _, root := range l.LibraryRoots() {
		m, err := l.readManifest(root, appID)
		if errors.Is(err, errNoManifest) {
			continue
		}
		if err != nil {
			return AppManifest{}, err
		}
		return m, nil
	}
	return AppManifest{}, fmt.Errorf("%w: %d", ErrAppNotInstalled, appID)
}

var errNoManifest = errors.New("no manifest")

func (l *Library) readManifest(libraryRoot string, appID uint32) (AppManifest, error) {
	steamApps := FindSteamAppsDir(l.fs, libraryRoot)
	path := filepath.Join(steamApps, "appmanifest_"+strconv.FormatUint(uint64(appID), 10)+".acf")
	if _, err := l.fs.Stat(path); err != nil {
		return AppManifest{}, errNoManifest
	}

	m, err := l.parseVDF(path)
	if err != nil {
		return AppManifest{}, fmt.Errorf("failed to read app manifest: %w", err)
	}

	appState, ok := m["appstate"].(map[string]any)
	if !ok {
		return AppManifest{}, fmt.Errorf("AppState not found in %s", path)
	}

	name, _ := appState["name"].(string)
	installDir, _ := appState["installdir"].(string)
	if installDir == "" {
		return AppManifest{}, fmt.Errorf("installdir not found in %s", path)
	}

	return AppManifest{
		AppID:       appID,
		Name:        FormatGameName(appID, name),
		InstallDir:  filepath.Join(steamApps, "common", installDir),
		LibraryRoot: libraryRoot,
	}, nil
}

// FormatGameName returns name, or "Steam Game <id>" when it is empty.
func FormatGameName(appID uint32, name string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("Steam Game %d", appID)
}
