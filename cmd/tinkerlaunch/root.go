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
	"io"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/cli"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/config"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/helpers"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/ipc/client"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/ui/tui"
)

// exitAborted is returned when the countdown was aborted by a client.
const exitAborted = 5

var errInvalidAppID = errors.New("invalid app id")

// app holds the collaborators shared by the subcommands. The Env is built
// on first use so --help and --version work without touching the disk.
type app struct {
	env       *cli.Env
	setup     func(opts cli.SetupOptions) (*cli.Env, error)
	newClient func(appID uint32) tui.DaemonClient
	// screen replaces the terminal, for tests.
	screen       tcell.Screen
	pollInterval time.Duration
	debug        bool
}

func newApp() *app {
	return &app{
		setup: cli.Setup,
		newClient: func(appID uint32) tui.DaemonClient {
			return client.ForApp(appID)
		},
	}
}

func (a *app) load() (*cli.Env, error) {
	if a.env != nil {
		return a.env, nil
	}
	var writers []io.Writer
	if a.debug {
		writers = append(writers, helpers.ConsoleWriter())
	}
	env, err := a.setup(cli.SetupOptions{Writers: writers, Debug: a.debug})
	if err != nil {
		return nil, err
	}
	a.env = env
	return env, nil
}

func (a *app) close() {
	if a.env != nil {
		a.env.Close()
	}
}

// newRootCmd creates the root tinkerlaunch command with all subcommands
// attached.
func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           config.AppName,
		Short:         "Launch Steam games with tinkers and a pre-launch countdown",
		Long:          "tinkerlaunch prepares a game's environment and command line through\na pipeline of tinkers, optionally behind a countdown that a terminal\nclient can pause, resume, skip or abort.",
		Version:       fmt.Sprintf("%s %s", config.AppName, config.AppVersion),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "log at debug level to stderr")

	cmd.AddCommand(
		newLaunchCmd(a),
		newWaitCmd(a),
		newClientCmd(a),
		newInfoCmd(a),
		newTinkersCmd(a),
		newConfigCmd(a),
	)

	return cmd
}

func parseAppID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidAppID, s)
	}
	return uint32(id), nil
}
