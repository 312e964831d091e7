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
	"github.com/tinkerlaunch/tinkerlaunch/pkg/config"
)

// Shortcut is a non-Steam game added to a user's library.
type Shortcut struct {
	Name          string
	Exe           string
	StartDir      string
	LaunchOptions string
	AppID         uint32
	Hidden        bool
}

// Shortcuts reads the shortcuts.vdf of every Steam user. Unreadable files
// are logged and skipped.
func (l *Library) Shortcuts() []Shortcut {
	userdata := filepath.Join(l.root, "userdata")
	users, err := afero.ReadDir(l.fs, userdata)
	if err != nil {
		log.Debug().Err(err).Str("path", userdata).Msg("no Steam userdata directory")
		return nil
	}

	var all []Shortcut
	for _, u := range users {
		if !u.IsDir() {
			continue
		}
		path := filepath.Join(userdata, u.Name(), "config", "shortcuts.vdf")
		data, err := afero.ReadFile(l.fs, path)
		if err != nil {
			continue
		}
		scs, err := parseShortcuts(data)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to parse shortcuts")
			continue
		}
		all = append(all, scs...)
	}
	return all
}

// Shortcut finds a non-Steam game by its shortcut app id.
func (l *Library) Shortcut(appID uint32) (Shortcut, error) {
	for _, sc := range l.Shortcuts() {
		if sc.AppID == appID {
			return sc, nil
		}
	}
	return Shortcut{}, fmt.Errorf("%w: %d", ErrAppNotInstalled, appID)
}

// parseShortcuts decodes a shortcuts.vdf image. It uses the same binary
// key/value encoding as appinfo.vdf with inline keys.
func parseShortcuts(data []byte) ([]Shortcut, error) {
	r := &binaryKV{data: data}
	root, err := r.object()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	list, ok := root["shortcuts"].(map[string]any)
	if !ok {
		return nil, errors.New("shortcuts section not found")
	}

	out := make([]Shortcut, 0, len(list))
	for i := range len(list) {
		entry, ok := list[strconv.Itoa(i)].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: shortcut %d missing", ErrInvalidFormat, i)
		}
		id, ok := entry["appid"].(int32)
		if !ok {
			return nil, fmt.Errorf("%w: shortcut %d has no appid", ErrInvalidFormat, i)
		}
		name, _ := entry["appname"].(string)
		exe, _ := entry["exe"].(string)
		startDir, _ := entry["startdir"].(string)
		opts, _ := entry["launchoptions"].(string)
		hidden, _ := entry["ishidden"].(int32)

		out = append(out, Shortcut{
			AppID:         uint32(id), //nolint:gosec // shortcut ids use the full unsigned range
			Name:          name,
			Exe:           unquote(exe),
			StartDir:      unquote(startDir),
			LaunchOptions: opts,
			Hidden:        hidden != 0,
		})
	}
	return out, nil
}

// Steam stores shortcut paths wrapped in double quotes.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// shortcutInfo builds GameInfo for a non-Steam game. Shortcuts have no
// launch configs; a compat tool applies only when one is mapped or forced.
func (l *Library) shortcutInfo(appID uint32, compatOverride string) (GameInfo, error) {
	sc, err := l.Shortcut(appID)
	if err != nil {
		return GameInfo{}, err
	}
	if sc.Exe == "" || !filepath.IsAbs(sc.Exe) {
		return GameInfo{}, fmt.Errorf("%w: %q", ErrMissingExecutable, sc.Exe)
	}
	if _, err := l.fs.Stat(sc.Exe); err != nil {
		return GameInfo{}, fmt.Errorf("%w: %s", ErrMissingExecutable, sc.Exe)
	}

	tool := compatOverride
	switch tool {
	case config.CompatToolNative:
		tool = ""
	case "":
		tool = l.CompatToolMapping(appID, false)
	}

	workDir := sc.StartDir
	if workDir == "" || !filepath.IsAbs(workDir) {
		workDir = filepath.Dir(sc.Exe)
	}

	return GameInfo{
		AppID:           appID,
		Name:            FormatGameName(appID, sc.Name),
		InstallDir:      workDir,
		Executable:      sc.Exe,
		WorkingDir:      workDir,
		CompatTool:      tool,
		LaunchArguments: sc.LaunchOptions,
	}, nil
}
