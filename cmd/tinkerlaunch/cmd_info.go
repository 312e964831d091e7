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

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/tinker"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <appid>",
		Short: "Show what tinkerlaunch knows about a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := parseAppID(args[0])
			if err != nil {
				return err
			}
			env, err := a.load()
			if err != nil {
				return err
			}

			cfg, err := env.Games.Load(appID)
			if err != nil {
				log.Warn().Err(err).Msg("failed to load game config, using defaults")
			}
			info, err := env.Steam.GameInfo(cmd.Context(), appID, cfg.CompatTool)
			if err != nil {
				return fmt.Errorf("could not read metadata for app %d: %w", appID, err)
			}

			compat := "native"
			var layer string
			if info.CompatTool != "" {
				compat = info.CompatTool
				if layer, err = env.Steam.ResolveCompatLayer(info.CompatTool); err == nil {
					compat += " (" + layer + ")"
				} else {
					layer = ""
					compat += " (not installed)"
				}
			}

			tctx, err := tinker.NewContext(tinker.ContextArgs{
				AppID:       appID,
				GameName:    info.Name,
				InstallDir:  info.InstallDir,
				Executable:  info.Executable,
				CompatLayer: layer,
				ConfigDir:   env.Paths.ConfigDir,
				ScratchDir:  env.Paths.ScratchDir(appID),
				Config:      &cfg,
			})
			if err != nil {
				return fmt.Errorf("invalid game metadata: %w", err)
			}
			var enabled []string
			for _, t := range env.Registry.Enabled(tctx) {
				enabled = append(enabled, t.ID())
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintf(w, "Name:\t%s\n", info.Name)
			_, _ = fmt.Fprintf(w, "App ID:\t%d\n", appID)
			_, _ = fmt.Fprintf(w, "Install dir:\t%s\n", info.InstallDir)
			_, _ = fmt.Fprintf(w, "Executable:\t%s\n", info.Executable)
			_, _ = fmt.Fprintf(w, "Working dir:\t%s\n", info.WorkingDir)
			_, _ = fmt.Fprintf(w, "Compat tool:\t%s\n", compat)
			_, _ = fmt.Fprintf(w, "Launch args:\t%s\n", info.LaunchArguments)
			_, _ = fmt.Fprintf(w, "Config:\t%s\n", env.Games.Path(appID))
			_, _ = fmt.Fprintf(w, "Tinkers:\t%s\n", joinOrNone(enabled))
			return w.Flush() //nolint:wrapcheck // stdout
		},
	}
}
