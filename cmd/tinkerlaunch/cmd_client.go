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
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/helpers/fuzzy"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/ipc/client"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/ipc/models"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/ui/tui"
)

var errUnknownTheme = errors.New("unknown theme")

func newClientCmd(a *app) *cobra.Command {
	var theme string

	cmd := &cobra.Command{
		Use:   "client <appid>",
		Short: "Watch and control a running countdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := parseAppID(args[0])
			if err != nil {
				return err
			}
			if theme != "" && !tui.SetCurrentTheme(theme) {
				return fmt.Errorf("%w: %q%s (choose from %s)", errUnknownTheme, theme,
					fuzzy.Hint(theme, tui.ThemeNames()), strings.Join(tui.ThemeNames(), ", "))
			}
			// Logging must be pointed away from the terminal first.
			if _, err := a.load(); err != nil {
				return err
			}

			msg, err := tui.Run(cmd.Context(), tui.Options{
				Client:       a.newClient(appID),
				Screen:       a.screen,
				PollInterval: a.pollInterval,
				AppID:        appID,
			})
			out := cmd.OutOrStdout()
			if err != nil {
				if errors.Is(err, tui.ErrDaemonGone) {
					//nolint:err113 // user-facing guidance
					return errors.New(client.Guidance(client.ClassifyError(err), appID))
				}
				return err
			}

			switch msg.State {
			case models.StateLaunching, models.StateRunning:
				_, _ = fmt.Fprintf(out, "Launching %s.\n", msg.GameName)
			case models.StateFinished:
				_, _ = fmt.Fprintln(out, "Launch aborted.")
			case models.StateInitializing, models.StateCountdown, models.StateWaiting, models.StateError:
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "color theme: "+strings.Join(tui.ThemeNames(), ", "))

	return cmd
}
