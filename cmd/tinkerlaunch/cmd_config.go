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
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var errBadSetting = errors.New("expected key=value")

func newConfigCmd(a *app) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "config <appid>",
		Short: "Show or edit a game's settings",
		Example: "  tinkerlaunch config 413150\n" +
			"  tinkerlaunch config 413150 --set mangohud=true --set gamescope.width=2560",
		Args: cobra.ExactArgs(1),
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

			if len(sets) > 0 {
				for _, s := range sets {
					key, value, ok := strings.Cut(s, "=")
					if !ok || key == "" {
						return fmt.Errorf("%w: %q", errBadSetting, s)
					}
					if err := cfg.Set(strings.TrimSpace(key), value); err != nil {
						return err //nolint:wrapcheck // names the key
					}
				}
				if err := env.Games.Save(cfg); err != nil {
					return fmt.Errorf("failed to save settings: %w", err)
				}
				log.Info().Uint32("appID", appID).Strs("set", sets).Msg("game config updated")
			}

			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode settings: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "change a setting, e.g. mangohud=true or env.DXVK_HUD=fps")

	return cmd
}
