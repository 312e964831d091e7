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
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTinkersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tinkers",
		Short: "List registered tinkers in the order they run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := a.load()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "PRIORITY\tID\tNAME")
			for _, t := range env.Registry.Tinkers() {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", t.Priority(), t.ID(), t.Name())
			}
			return w.Flush() //nolint:wrapcheck // stdout
		},
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
