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
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/launcher"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/waiter"
)

var errAborted = errors.New("launch aborted")

func newLaunchCmd(a *app) *cobra.Command {
	var dryRun, noWait bool

	cmd := &cobra.Command{
		Use:   "launch <appid> [-- extra args...]",
		Short: "Run the countdown, then launch a game through its tinkers",
		Long: "Run the pre-launch countdown for a Steam app, then start it with every\n" +
			"enabled tinker applied. Arguments after -- are passed to the game.\n" +
			"The command returns when the game exits.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := parseAppID(args[0])
			if err != nil {
				return err
			}
			env, err := a.load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			extra := args[1:]

			var res launcher.Result
			if noWait {
				res = env.Launcher.Launch(ctx, appID, extra, dryRun)
			} else {
				var decision waiter.Decision
				res, decision, _ = env.Waiter.Run(ctx, appID, extra, dryRun)
				if decision == waiter.DecisionAbort {
					_, _ = fmt.Fprintln(out, "Launch aborted.")
					return &exitError{err: errAborted, code: exitAborted}
				}
			}

			if !res.OK() {
				return &exitError{err: errors.New(res.Message), code: res.ExitCode()}
			}
			if res.DryRun {
				printDryRun(out, &res)
				return nil
			}

			_, _ = fmt.Fprintln(out, res.Message)
			return waitForGame(ctx, out, &res)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the final command instead of starting the game")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "skip the countdown")

	return cmd
}

// waitForGame blocks until the game and its cleanup are done, passing the
// game's exit status through.
func waitForGame(ctx context.Context, out io.Writer, res *launcher.Result) error {
	err := res.Wait(ctx)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		_, _ = fmt.Fprintf(out, "Stopped waiting for %s; it keeps running.\n", res.GameName)
		return nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		log.Info().Int("code", ee.ExitCode()).Msg("game exited with an error")
		return &exitError{err: fmt.Errorf("%s exited: %w", res.GameName, err), code: ee.ExitCode()}
	}
	return fmt.Errorf("%s: %w", res.GameName, err)
}

func printDryRun(out io.Writer, res *launcher.Result) {
	quoted := make([]string, len(res.Command))
	for i, arg := range res.Command {
		quoted[i] = shellQuote(arg)
	}
	_, _ = fmt.Fprintf(out, "Game:        %s (%d)\n", res.GameName, res.AppID)
	_, _ = fmt.Fprintf(out, "Command:     %s\n", strings.Join(quoted, " "))
	_, _ = fmt.Fprintf(out, "Working dir: %s\n", res.WorkingDir)
	_, _ = fmt.Fprintf(out, "Environment: %d variables\n", res.EnvCount)
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`!*?[](){}<>|&;#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
