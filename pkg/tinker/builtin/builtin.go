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

// Package builtin contains the tinkers shipped with tinkerlaunch.
package builtin

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/helpers/command"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/tinker"
)

// Tinker ids. The wait client toggles features by these names.
const (
	IDCommands  = "commands"
	IDProton    = "proton"
	IDRenice    = "renice"
	IDMangoHud  = "mangohud"
	IDGameMode  = "gamemode"
	IDGamescope = "gamescope"
)

// Deps are the collaborators shared by the builtin tinkers.
type Deps struct {
	Exec command.Executor
	Fs   afero.Fs
}

// All returns one instance of every builtin tinker.
func All(deps Deps) []tinker.Tinker {
	if deps.Exec == nil {
		deps.Exec = &command.RealExecutor{}
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	return []tinker.Tinker{
		NewCommands(deps.Exec),
		NewProtonKnobs(),
		NewRenice(),
		NewMangoHud(deps.Fs),
		NewGamescope(),
		NewGameMode(),
	}
}

// Register adds every builtin tinker to reg.
func Register(reg *tinker.Registry, deps Deps) error {
	for _, t := range All(deps) {
		if err := reg.Register(t); err != nil {
			return fmt.Errorf("failed to register %s: %w", t.ID(), err)
		}
	}
	return nil
}

// base implements the identity part of tinker.Tinker.
type base struct {
	id       string
	name     string
	priority uint8
}

func (b base) ID() string      { return b.id }
func (b base) Name() string    { return b.name }
func (b base) Priority() uint8 { return b.priority }
