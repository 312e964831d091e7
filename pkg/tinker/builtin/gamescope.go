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
	"strconv"

	"github.com/tinkerlaunch/tinkerlaunch/pkg/tinker"
)

// GamescopeBinary is looked up on PATH by the spawn.
const GamescopeBinary = "gamescope"

// Gamescope wraps the game in the gamescope micro-compositor.
type Gamescope struct {
	base
}

func NewGamescope() *Gamescope {
	return &Gamescope{base: base{id: IDGamescope, name: "Gamescope", priority: tinker.PriorityWrapper}}
}

func (*Gamescope) IsEnabled(tctx *tinker.Context) bool {
	return tctx.Config().Gamescope.Enabled
}

// ModifyArgs prepends "gamescope <flags> --" to the existing command.
func (*Gamescope) ModifyArgs(_ context.Context, tctx *tinker.Context, args *tinker.Args) error {
	args.Prepend(GamescopeArgs(tctx)...)
	return nil
}

// GamescopeArgs returns the wrapper prefix including the trailing separator.
func GamescopeArgs(tctx *tinker.Context) []string {
	cfg := tctx.Config().Gamescope
	out := []string{GamescopeBinary}
	if cfg.Width > 0 {
		out = append(out, "-W", strconv.Itoa(cfg.Width))
	}
	if cfg.Height > 0 {
		out = append(out, "-H", strconv.Itoa(cfg.Height))
	}
	if cfg.InternalWidth > 0 {
		out = append(out, "-w", strconv.Itoa(cfg.InternalWidth))
	}
	if cfg.InternalHeight > 0 {
		out = append(out, "-h", strconv.Itoa(cfg.InternalHeight))
	}
	if cfg.FPSLimit > 0 {
		out = append(out, "-r", strconv.Itoa(cfg.FPSLimit))
	}
	if cfg.Fullscreen {
		out = append(out, "-f")
	}
	if cfg.HDR {
		out = append(out, "--hdr-enabled")
	}
	// MangoHud inside gamescope has to go through mangoapp.
	if tctx.Config().MangoHud.Enabled {
		out = append(out, "--mangoapp")
	}
	out = append(out, cfg.ExtraArgs...)
	return append(out, "--")
}
