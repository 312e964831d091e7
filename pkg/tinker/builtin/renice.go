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

	"github.com/rs/zerolog/log"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/tinker"
)

// Renice changes the scheduling priority of the game once it is running.
type Renice struct {
	setPriority func(pid, nice int) error
	base
}

func NewRenice() *Renice {
	return &Renice{
		base:        base{id: IDRenice, name: "Renice", priority: tinker.PrioritySetupLate},
		setPriority: setProcessPriority,
	}
}

func (*Renice) IsEnabled(tctx *tinker.Context) bool {
	return tctx.Config().Renice.Enabled
}

// AfterSpawn applies the configured nice value. Negative values need
// CAP_SYS_NICE; failures are logged.
func (r *Renice) AfterSpawn(_ context.Context, tctx *tinker.Context, pid int) {
	nice := tctx.Config().Renice.Nice
	if err := r.setPriority(pid, nice); err != nil {
		log.Warn().Err(err).Int("pid", pid).Int("nice", nice).Msg("failed to renice game")
		return
	}
	log.Info().Int("pid", pid).Int("nice", nice).Msg("reniced game")
}
