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

package builtin

import (
	"context"
	"os/exec"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/tinker"
)

const (
	GameModeRunBinary = "gamemoderun"
	gameModeDaemon    = "gamemoded"
)

// GameMode wraps the game with gamemoderun so Feral GameMode applies its
// CPU governor and scheduling tweaks.
type GameMode struct {
	lookPath      func(string) (string, error)
	daemonRunning func(ctx context.Context) bool
	base
}

func NewGameMode() *GameMode {
	return &GameMode{
		base:          base{id: IDGameMode, name: "GameMode", priority: tinker.PriorityWrapperLate},
		lookPath:      exec.LookPath,
		daemonRunning: gameModeDaemonRunning,
	}
}

func (*GameMode) IsEnabled(tctx *tinker.Context) bool {
	return tctx.Config().GameMode.Enabled
}

// Prepare only warns; gamemoderun starts the daemon over D-Bus activation
// when it is installed but idle.
func (g *GameMode) Prepare(ctx context.Context, _ *tinker.Context) error {
	if !g.daemonRunning(ctx) {
		log.Warn().Msg("gamemoded is not running, relying on dbus activation")
	}
	return nil
}

// ModifyArgs prepends gamemoderun. A missing binary disables the wrapper
// rather than failing the launch.
func (g *GameMode) ModifyArgs(_ context.Context, _ *tinker.Context, args *tinker.Args) error {
	if _, err := g.lookPath(GameModeRunBinary); err != nil {
		log.Warn().Err(err).Msg("gamemoderun not found, launching without gamemode")
		return nil
	}
	args.Prepend(GameModeRunBinary)
	return nil
}

func gameModeDaemonRunning(ctx context.Context) bool {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("failed to list processes")
		return false
	}
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if name == gameModeDaemon {
			return true
		}
	}
	return false
}
