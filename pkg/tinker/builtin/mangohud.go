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
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/tinker"
)

// MangoHudConfigFile is written into the launch scratch directory.
const MangoHudConfigFile = "MangoHud.conf"

// MangoHud enables the MangoHud overlay with a generated per-game config.
type MangoHud struct {
	fs afero.Fs
	base
}

func NewMangoHud(fs afero.Fs) *MangoHud {
	return &MangoHud{
		base: base{id: IDMangoHud, name: "MangoHud", priority: tinker.PriorityOverlay},
		fs:   fs,
	}
}

func (*MangoHud) IsEnabled(tctx *tinker.Context) bool {
	return tctx.Config().MangoHud.Enabled
}

func (m *MangoHud) configPath(tctx *tinker.Context) string {
	return filepath.Join(tctx.ScratchDir(), MangoHudConfigFile)
}

// Prepare writes the MangoHud config file.
func (m *MangoHud) Prepare(_ context.Context, tctx *tinker.Context) error {
	if tctx.ScratchDir() == "" {
		return nil
	}
	if err := m.fs.MkdirAll(tctx.ScratchDir(), 0o750); err != nil {
		return fmt.Errorf("failed to create scratch dir: %w", err)
	}
	data := []byte(renderMangoHudConfig(tctx))
	if err := afero.WriteFile(m.fs, m.configPath(tctx), data, 0o600); err != nil {
		return fmt.Errorf("failed to write mangohud config: %w", err)
	}
	return nil
}

func renderMangoHudConfig(tctx *tinker.Context) string {
	cfg := tctx.Config().MangoHud
	var b strings.Builder
	b.WriteString("# generated by tinkerlaunch\n")
	if cfg.Position != "" {
		b.WriteString("position=" + cfg.Position + "\n")
	}
	if cfg.FPSLimit > 0 {
		b.WriteString("fps_limit=" + strconv.Itoa(cfg.FPSLimit) + "\n")
	}
	keys := make([]string, 0, len(cfg.Extra))
	for k := range cfg.Extra {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if v := cfg.Extra[k]; v != "" {
			b.WriteString(k + "=" + v + "\n")
		} else {
			b.WriteString(k + "\n")
		}
	}
	return b.String()
}

// ModifyEnv points MangoHud at the generated config. Under gamescope the
// overlay is drawn by --mangoapp, so the layer itself is not enabled.
func (m *MangoHud) ModifyEnv(_ context.Context, tctx *tinker.Context, env *tinker.Env) error {
	if !tctx.Config().Gamescope.Enabled {
		env.Set("MANGOHUD", "1")
	}
	if tctx.ScratchDir() != "" {
		env.Set("MANGOHUD_CONFIGFILE", m.configPath(tctx))
	}
	return nil
}
