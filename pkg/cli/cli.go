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

// Package cli builds the collaborators shared by the command line entry
// points: settings, logging, the Steam library, the tinker registry, the
// launcher and the wait daemon.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/tinkerlaunch/tinkerlaunch/internal/telemetry"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/config"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/helpers"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/hooks"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/launcher"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/steam"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/tinker"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/tinker/builtin"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/waiter"
)

// Env is everything a command needs. Fields may be replaced in tests.
type Env struct {
	Config   *config.Instance
	Games    *config.GameStore
	Steam    launcher.GameInfoProvider
	Registry *tinker.Registry
	Launcher *launcher.Launcher
	Waiter   *waiter.Waiter
	// SteamRoot is empty when no Steam installation was found.
	SteamRoot string
	Paths     helpers.Paths
}

type SetupOptions struct {
	Fs afero.Fs
	// Paths defaults to the XDG directories.
	Paths   *helpers.Paths
	Writers []io.Writer
	Debug   bool
}

// Setup initializes logging and settings and wires the launcher. A missing
// Steam installation is not an error here; commands that need game
// metadata report it when they ask.
func Setup(opts SetupOptions) (*Env, error) {
	paths := helpers.DefaultPaths()
	if opts.Paths != nil {
		paths = *opts.Paths
	}
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	level := helpers.ParseLogLevel(config.LogLevel(), zerolog.InfoLevel)
	if opts.Debug {
		level = zerolog.DebugLevel
	}
	if err := helpers.InitLogging(paths.StateDir, level, opts.Writers); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	cfg, err := config.NewConfig(paths.ConfigDir, config.BaseDefaults)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.DebugLogging() && config.LogLevel() == "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := telemetry.Init(telemetry.Options{
		Enabled:    cfg.ErrorReporting(),
		DSN:        cfg.TelemetryDSN(),
		SessionID:  uuid.NewString(),
		AppVersion: config.AppVersion,
	}); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	env := &Env{
		Config:   cfg,
		Paths:    paths,
		Games:    config.NewGameStore(fs, paths.GameConfigDir()),
		Registry: tinker.NewRegistry(),
	}

	root, err := steam.FindRoot(fs, cfg.SteamInstallDir(), steam.DefaultRoots())
	if err != nil {
		log.Warn().Err(err).Msg("steam installation not found")
		env.Steam = missingSteam{err: err}
	} else {
		env.SteamRoot = root
		env.Steam = steam.NewLibrary(fs, root, steam.LibraryOptions{
			CompatToolsDir: cfg.CompatToolsDir(),
			ExtraLibraries: cfg.SteamExtraLibraries(),
		})
	}

	if err := builtin.Register(env.Registry, builtin.Deps{Fs: fs}); err != nil {
		return nil, err
	}

	env.Launcher = launcher.New(launcher.Options{
		Games:     env.Steam,
		Configs:   env.Games,
		Registry:  env.Registry,
		Hooks:     hooks.NewDBusHooks(cfg.LaunchHooks()),
		Fs:        fs,
		Paths:     paths,
		SteamRoot: env.SteamRoot,
	})
	env.Waiter = waiter.New(waiter.Options{
		Launcher: env.Launcher,
		Games:    env.Steam,
		Configs:  env.Games,
		App:      cfg,
	})
	return env, nil
}

// Close flushes error reports.
func (*Env) Close() {
	telemetry.Close()
}

// missingSteam answers every lookup with the error from FindRoot.
type missingSteam struct {
	err error
}

func (m missingSteam) GameInfo(context.Context, uint32, string) (steam.GameInfo, error) {
	return steam.GameInfo{}, m.err
}

func (m missingSteam) ResolveCompatLayer(string) (string, error) {
	return "", m.err
}
