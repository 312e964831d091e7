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

// Package launcher turns a Steam app id into a running game: it resolves
// metadata and settings, runs the tinker pipeline and spawns the process.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/config"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/helpers"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/helpers/command"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/hooks"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/steam"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/tinker"
)

// GameInfoProvider looks up installed games.
type GameInfoProvider interface {
	GameInfo(ctx context.Context, appID uint32, compatOverride string) (steam.GameInfo, error)
	ResolveCompatLayer(name string) (string, error)
}

// GameConfigStore loads per-game settings. Load returns usable defaults
// alongside any error.
type GameConfigStore interface {
	Load(appID uint32) (config.GameConfig, error)
}

// Options are the collaborators of a Launcher. Games, Configs and Registry
// are required.
type Options struct {
	Games    GameInfoProvider
	Configs  GameConfigStore
	Registry *tinker.Registry
	Exec     command.Executor
	Hooks    hooks.Hooks
	Fs       afero.Fs
	// Environ seeds the game environment; defaults to os.Environ.
	Environ   func() []string
	Paths     helpers.Paths
	SteamRoot string
}

type Launcher struct {
	games     GameInfoProvider
	configs   GameConfigStore
	registry  *tinker.Registry
	exec      command.Executor
	hooks     hooks.Hooks
	fs        afero.Fs
	environ   func() []string
	paths     helpers.Paths
	steamRoot string
}

func New(opts Options) *Launcher {
	l := &Launcher{
		games:     opts.Games,
		configs:   opts.Configs,
		registry:  opts.Registry,
		exec:      opts.Exec,
		hooks:     opts.Hooks,
		fs:        opts.Fs,
		environ:   opts.Environ,
		paths:     opts.Paths,
		steamRoot: opts.SteamRoot,
	}
	if l.registry == nil {
		l.registry = tinker.NewRegistry()
	}
	if l.exec == nil {
		l.exec = &command.RealExecutor{}
	}
	if l.hooks == nil {
		l.hooks = hooks.Noop{}
	}
	if l.fs == nil {
		l.fs = afero.NewOsFs()
	}
	if l.environ == nil {
		l.environ = os.Environ
	}
	return l
}

func (l *Launcher) Registry() *tinker.Registry {
	return l.registry
}

// Launch prepares and spawns appID. It returns as soon as the game has been
// started; Result.Wait blocks until it exits and cleanup has run. With
// dryRun the pipeline still runs, including prepare side effects, but no
// process is spawned.
func (l *Launcher) Launch(ctx context.Context, appID uint32, extraArgs []string, dryRun bool) Result {
	cfg, err := l.configs.Load(appID)
	if err != nil {
		log.Warn().Err(err).Uint32("appID", appID).Msg("failed to load game config, using defaults")
	}
	return l.LaunchWith(ctx, &cfg, extraArgs, dryRun)
}

// LaunchWith is Launch with settings the caller already holds, such as a
// config edited during the wait. cfg.AppID selects the game.
func (l *Launcher) LaunchWith(
	ctx context.Context,
	cfg *config.GameConfig,
	extraArgs []string,
	dryRun bool,
) Result {
	appID := cfg.AppID
	logger := log.With().Uint32("appID", appID).Logger()

	info, err := l.games.GameInfo(ctx, appID, cfg.CompatTool)
	if err != nil {
		if errors.Is(err, steam.ErrMissingExecutable) {
			return failed(appID, fmt.Errorf("%w: %w", ErrMissingExecutable, err),
				fmt.Sprintf("no executable found for app %d", appID))
		}
		return failed(appID, fmt.Errorf("%w: %w", ErrMetadata, err),
			fmt.Sprintf("could not read metadata for app %d: %v", appID, err))
	}

	var compatLayer string
	if info.CompatTool != "" {
		compatLayer, err = l.games.ResolveCompatLayer(info.CompatTool)
		if err != nil {
			return failed(appID, fmt.Errorf("%w: %w", ErrCompatLayerNotFound, err),
				fmt.Sprintf("compatibility tool %q is not installed", info.CompatTool))
		}
	}

	scratchDir := l.paths.ScratchDir(appID)
	var prefixDir string
	if compatLayer != "" {
		prefixDir = l.paths.PrefixDir(appID)
	}
	for _, dir := range []string{scratchDir, prefixDir} {
		if dir == "" {
			continue
		}
		if err := l.fs.MkdirAll(dir, 0o750); err != nil {
			return failed(appID, fmt.Errorf("%w: %w", ErrMetadata, err),
				fmt.Sprintf("could not create %s: %v", dir, err))
		}
	}

	session := tinker.NewSession()
	logger = logger.With().Str("session", session.ID).Logger()

	tctx, err := tinker.NewContext(tinker.ContextArgs{
		AppID:       appID,
		GameName:    info.Name,
		InstallDir:  info.InstallDir,
		Executable:  info.Executable,
		CompatLayer: compatLayer,
		PrefixDir:   prefixDir,
		ConfigDir:   l.paths.ConfigDir,
		ScratchDir:  scratchDir,
		Config:      cfg,
		Session:     session,
	})
	if err != nil {
		return failed(appID, fmt.Errorf("%w: %w", ErrMetadata, err), err.Error())
	}

	env := l.seedEnv(tctx)
	args := initialArgs(tctx)
	for _, a := range helpers.SplitArgs(info.LaunchArguments) {
		args.Append(a)
	}
	for _, a := range extraArgs {
		if a != "" {
			args.Append(a)
		}
	}
	args.Append(helpers.SplitArgs(cfg.LaunchOptions)...)

	if err := l.registry.RunAll(ctx, tctx, env, args); err != nil {
		logger.Error().Err(err).Msg("tinker pipeline failed")
		return failed(appID, fmt.Errorf("%w: %w", ErrPipeline, err), err.Error())
	}

	res := Result{
		AppID:      appID,
		GameName:   info.Name,
		Command:    args.Items(),
		Env:        env.Environ(),
		EnvCount:   env.Len(),
		WorkingDir: info.WorkingDir,
		DryRun:     dryRun,
	}
	if dryRun {
		res.Message = "dry run: " + args.Program()
		logger.Info().Strs("command", res.Command).Msg("dry run, not spawning")
		return res
	}

	l.hooks.BeforeSpawn(ctx, tctx)

	// The game must outlive cancellation of the launch request.
	proc, err := l.exec.Start(context.WithoutCancel(ctx), command.Spec{
		Args: res.Command,
		Env:  res.Env,
		Dir:  res.WorkingDir,
	})
	if err != nil {
		l.hooks.AfterExit(ctx, tctx)
		res.Error = fmt.Errorf("%w: %w", ErrSpawn, err)
		res.Message = fmt.Sprintf("failed to start %s: %v", args.Program(), err)
		return res
	}

	res.PID = proc.Pid()
	res.Message = fmt.Sprintf("started %s (pid %d)", info.Name, res.PID)
	logger.Info().Int("pid", res.PID).Strs("command", res.Command).Msg("game started")

	l.hooks.AfterSpawn(ctx, tctx, res.PID)
	l.registry.AfterSpawn(ctx, tctx, res.PID)

	res.exit = &processExit{done: make(chan struct{})}
	go l.watch(context.WithoutCancel(ctx), tctx, proc, res.exit)

	return res
}

// watch waits for the game to exit, then runs cleanup and the exit hooks.
func (l *Launcher) watch(ctx context.Context, tctx *tinker.Context, proc command.Process, exit *processExit) {
	defer close(exit.done)

	bg := watchBackground(tctx.Session())
	defer bg.Stop()

	exit.err = proc.Wait()
	evt := log.Info().Uint32("appID", tctx.AppID()).Int("pid", proc.Pid())
	if exit.err != nil {
		evt = evt.AnErr("exit", exit.err)
	}
	evt.Msg("game exited")

	l.registry.Cleanup(ctx, tctx)
	l.hooks.AfterExit(ctx, tctx)
}

// seedEnv copies the inherited environment and adds the game identity,
// compatibility layer variables and the per-game pass-through variables.
func (l *Launcher) seedEnv(tctx *tinker.Context) *tinker.Env {
	env := tinker.EnvFrom(l.environ())
	id := strconv.FormatUint(uint64(tctx.AppID()), 10)

	env.Set("SteamAppId", id)
	env.Set("SteamGameId", id)
	env.Set("STEAM_COMPAT_APP_ID", id)
	env.Set("TINKERLAUNCH_APP_ID", id)
	env.Set("TINKERLAUNCH_GAME_NAME", tctx.GameName())

	if !tctx.Native() {
		env.Set("STEAM_COMPAT_DATA_PATH", tctx.PrefixDir())
		env.Set("WINEPREFIX", filepath.Join(tctx.PrefixDir(), "pfx"))
		if l.steamRoot != "" {
			env.Set("STEAM_COMPAT_CLIENT_INSTALL_PATH", l.steamRoot)
		}
	}

	extra := tctx.Config().Env
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		env.Set(k, extra[k])
	}
	return env
}

// initialArgs is [exe] for native games and [<layer>/proton, run, exe]
// otherwise.
func initialArgs(tctx *tinker.Context) *tinker.Args {
	if tctx.Native() {
		return tinker.NewArgs(tctx.Executable())
	}
	return tinker.NewArgs(filepath.Join(tctx.CompatLayer(), steam.ProtonScript), "run", tctx.Executable())
}
