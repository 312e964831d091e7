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
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/config"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/helpers/command"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/tinker"
)

// Commands runs the user's pre-launch and post-exit commands.
type Commands struct {
	exec command.Executor
	base
}

func NewCommands(exec command.Executor) *Commands {
	return &Commands{
		base: base{id: IDCommands, name: "Custom commands", priority: tinker.PrioritySetupEarly},
		exec: exec,
	}
}

func (*Commands) IsEnabled(tctx *tinker.Context) bool {
	cmds := tctx.Config().Commands
	return len(cmds.PreLaunch) > 0 || len(cmds.PostExit) > 0
}

// Prepare runs the pre-launch commands in order. Foreground commands block
// until they exit. Background commands are detached and recorded in the
// session. A failure aborts the launch unless continue_on_error is set.
func (c *Commands) Prepare(ctx context.Context, tctx *tinker.Context) error {
	cfg := tctx.Config().Commands
	for i, cmd := range cfg.PreLaunch {
		err := c.run(ctx, tctx, cmd)
		if err == nil {
			continue
		}
		if cfg.ContinueOnError {
			log.Warn().Err(err).
				Int("index", i).
				Str("command", strings.Join(cmd.Args, " ")).
				Msg("pre-launch command failed, continuing")
			continue
		}
		return fmt.Errorf("pre-launch command %d (%s): %w", i, cmd.Args[0], err)
	}
	return nil
}

// Cleanup runs the post-exit commands. Errors are logged only.
func (c *Commands) Cleanup(ctx context.Context, tctx *tinker.Context) {
	for i, cmd := range tctx.Config().Commands.PostExit {
		if err := c.run(ctx, tctx, cmd); err != nil {
			log.Error().Err(err).
				Int("index", i).
				Str("command", strings.Join(cmd.Args, " ")).
				Msg("post-exit command failed")
		}
	}
}

func (c *Commands) run(ctx context.Context, tctx *tinker.Context, cmd config.Command) error {
	spec := command.Spec{
		Args: cmd.Args,
		Dir:  tctx.InstallDir(),
		Env: append(os.Environ(),
			"TINKERLAUNCH_APP_ID="+strconv.FormatUint(uint64(tctx.AppID()), 10),
			"TINKERLAUNCH_GAME_NAME="+tctx.GameName(),
		),
	}

	if !cmd.Background {
		log.Info().Strs("args", cmd.Args).Msg("running command")
		if err := c.exec.Run(ctx, spec); err != nil {
			return fmt.Errorf("command failed: %w", err)
		}
		return nil
	}

	spec.Detach = true
	// Background commands must not die with the launch context.
	proc, err := c.exec.Start(context.WithoutCancel(ctx), spec)
	if err != nil {
		return fmt.Errorf("failed to start background command: %w", err)
	}
	tctx.Session().AddBackground(c.ID(), proc.Pid())
	log.Info().Strs("args", cmd.Args).Int("pid", proc.Pid()).Msg("started background command")
	return nil
}
