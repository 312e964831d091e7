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

//go:build linux

package launcher

import (
	"github.com/rs/zerolog/log"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/helpers/proctracker"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/tinker"
)

type stopper interface {
	Stop()
}

// watchBackground logs when background processes started by tinkers exit
// while the game is running. They are never killed.
func watchBackground(s *tinker.Session) stopper {
	t := proctracker.New()
	for _, bp := range s.Background() {
		err := t.Track(bp.PID, func(pid int) {
			log.Debug().Int("pid", pid).Str("tinker", bp.TinkerID).Msg("background process exited")
		})
		if err != nil {
			log.Debug().Err(err).Int("pid", bp.PID).Msg("background process not tracked")
		}
	}
	return t
}
