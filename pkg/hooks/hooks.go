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

// Package hooks runs best-effort desktop integration around a game launch.
// Hook failures are logged and never affect the launch.
package hooks

import (
	"context"

	"github.com/tinkerlaunch/tinkerlaunch/pkg/tinker"
)

// Hooks is called by the launcher around the spawn of the game.
type Hooks interface {
	BeforeSpawn(ctx context.Context, tctx *tinker.Context)
	AfterSpawn(ctx context.Context, tctx *tinker.Context, pid int)
	AfterExit(ctx context.Context, tctx *tinker.Context)
}

// Noop does nothing.
type Noop struct{}

func (Noop) BeforeSpawn(context.Context, *tinker.Context)     {}
func (Noop) AfterSpawn(context.Context, *tinker.Context, int) {}
func (Noop) AfterExit(context.Context, *tinker.Context)       {}
