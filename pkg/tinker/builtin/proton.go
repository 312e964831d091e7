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

	"github.com/tinkerlaunch/tinkerlaunch/pkg/tinker"
)

// ProtonKnobs maps the per-game Proton toggles onto their environment
// variables. It only applies to games run through a compatibility layer.
type ProtonKnobs struct {
	base
}

func NewProtonKnobs() *ProtonKnobs {
	return &ProtonKnobs{base: base{id: IDProton, name: "Proton options", priority: tinker.PrioritySetup}}
}

func (*ProtonKnobs) IsEnabled(tctx *tinker.Context) bool {
	if tctx.Native() {
		return false
	}
	p := tctx.Config().Proton
	return p.EnableNVAPI || p.DXVKAsync || p.Log || p.DXVKHUD
}

func (*ProtonKnobs) ModifyEnv(_ context.Context, tctx *tinker.Context, env *tinker.Env) error {
	p := tctx.Config().Proton
	if p.EnableNVAPI {
		env.Set("PROTON_ENABLE_NVAPI", "1")
		env.Set("DXVK_ENABLE_NVAPI", "1")
	}
	if p.DXVKAsync {
		env.Set("DXVK_ASYNC", "1")
	}
	if p.Log {
		env.Set("PROTON_LOG", "1")
		if tctx.ScratchDir() != "" {
			env.Set("PROTON_LOG_DIR", tctx.ScratchDir())
		}
	}
	if p.DXVKHUD {
		env.SetDefault("DXVK_HUD", "fps,frametimes")
	}
	return nil
}
