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
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/config"
)

var ErrMissingExecutable = errors.New("game executable not found")

// GameInfo is what the launcher needs to know about an installed game.
type GameInfo struct {
	Name       string
	InstallDir string
	// Executable is the absolute path of the program to run.
	Executable string
	// WorkingDir defaults to the executable's directory.
	WorkingDir string
	// CompatTool is the Steam compat tool name, empty for native games.
	CompatTool string
	// LaunchArguments are the default arguments from the launch entry.
	LaunchArguments string
	AppID           uint32
}

// GameInfo resolves an installed game, falling back to the users'
// non-Steam shortcuts. compatOverride replaces Steam's compat tool mapping:
// "native" forces the Linux build, any other non-empty value names a compat
// tool.
func (l *Library) GameInfo(_ context.Context, appID uint32, compatOverride string) (GameInfo, error) {
	manifest, err := l.Manifest(appID)
	if errors.Is(err, ErrAppNotInstalled) {
		if info, scErr := l.shortcutInfo(appID, compatOverride); !errors.Is(scErr, ErrAppNotInstalled) {
			return info, scErr
		}
	}
	if err != nil {
		return GameInfo{}, err
	}

	configs, err := l.LaunchConfigs(appID)
	if err != nil {
		log.Debug().Err(err).Uint32("appID", appID).Msg("failed to read launch configs")
	}

	_, linuxErr := SelectLaunchConfig(configs, "linux")
	hasLinux := linuxErr == nil

	tool := compatOverride
	switch {
	case tool == config.CompatToolNative:
		tool = ""
	case tool == "":
		tool = l.CompatToolMapping(appID, !hasLinux)
	}

	targetOS := "linux"
	if tool != "" {
		targetOS = "windows"
	}
	lc, err := SelectLaunchConfig(configs, targetOS)
	if err != nil {
		return GameInfo{}, fmt.Errorf("%w: %w", ErrMissingExecutable, err)
	}

	exe := filepath.Join(manifest.InstallDir, filepath.FromSlash(strings.ReplaceAll(lc.Executable, `\`, "/")))
	if _, err := l.fs.Stat(exe); err != nil {
		return GameInfo{}, fmt.Errorf("%w: %s", ErrMissingExecutable, exe)
	}

	workDir := filepath.Dir(exe)
	if lc.WorkingDir != "" {
		workDir = filepath.Join(manifest.InstallDir, filepath.FromSlash(strings.ReplaceAll(lc.WorkingDir, `\`, "/")))
	}

	return GameInfo{
		AppID:           appID,
		Name:            manifest.Name,
		InstallDir:      manifest.InstallDir,
		Executable:      exe,
		WorkingDir:      workDir,
		CompatTool:      tool,
		LaunchArguments: lc.Arguments,
	}, nil
}
