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

	"github.com/spf13/cobra"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/waiter"
)

func newWaitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "wait <appid>",
		Short: "Run only the countdown daemon and print its decision",
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

			decision, err := env.Waiter.Wait(cmd.Context(), appID)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "decision: %s\n", decision)
			switch decision {
			case waiter.DecisionLaunch:
				return nil
			case waiter.DecisionAbort:
				return &exitError{err: errAborted, code: exitAborted}
			case waiter.DecisionError, waiter.DecisionNone:
			}
			if err == nil {
				err = fmt.Errorf("wait ended with decision %s", decision)
			}
			return err
		},
	}
}
