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
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/cli"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/config"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/helpers"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/hooks"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/ipc/client"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/ipc/models"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/launcher"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/steam"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/testing/mocks"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/tinker"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/tinker/builtin"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/ui/tui"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/waiter"
)

const stardew = 413150

var stardewInfo = steam.GameInfo{
	AppID:      stardew,
	Name:       "Stardew Valley",
	InstallDir: "/games/Stardew Valley",
	Executable: "/games/Stardew Valley/StardewValley",
	WorkingDir: "/games/Stardew Valley",
}

type fixture struct {
	app   *app
	env   *cli.Env
	games *mocks.MockGameInfoProvider
	exec  *mocks.MockCommandExecutor
}

func newFixture(t *testing.T, skipWait bool) *fixture {
	t.Helper()

	fs := afero.NewMemMapFs()
	paths := helpers.Paths{
		ConfigDir: "/cfg/tinkerlaunch",
		DataDir:   "/data/tinkerlaunch",
		CacheDir:  "/cache/tinkerlaunch",
	}
	games := &mocks.MockGameInfoProvider{}
	games.On("GameInfo", mock.Anything, uint32(stardew), mock.Anything).Return(stardewInfo, nil)
	games.On("GameInfo", mock.Anything, mock.Anything, mock.Anything).
		Return(steam.GameInfo{}, steam.ErrAppNotInstalled)
	exec := &mocks.MockCommandExecutor{}

	reg := tinker.NewRegistry()
	require.NoError(t, builtin.Register(reg, builtin.Deps{Exec: exec, Fs: fs}))
	store := config.NewGameStore(fs, paths.GameConfigDir())

	l := launcher.New(launcher.Options{
		Games:    games,
		Configs:  store,
		Registry: reg,
		Exec:     exec,
		Hooks:    hooks.Noop{},
		Fs:       fs,
		Environ:  func() []string { return []string{"HOME=/home/deck"} },
		Paths:    paths,
	})
	sock := filepath.Join(t.TempDir(), "wait.sock")
	w := waiter.New(waiter.Options{
		Launcher:   l,
		Games:      games,
		Configs:    store,
		SkipWait:   func() bool { return skipWait },
		SocketPath: func(uint32) string { return sock },
	})

	env := &cli.Env{
		Games:    store,
		Steam:    games,
		Registry: reg,
		Launcher: l,
		Waiter:   w,
		Paths:    paths,
	}
	a := &app{
		setup: func(cli.SetupOptions) (*cli.Env, error) { return env, nil },
	}
	return &fixture{app: a, env: env, games: games, exec: exec}
}

func (f *fixture) run(ctx context.Context, args ...string) (string, error) {
	root := newRootCmd(f.app)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return buf.String(), err
}

func TestVersion(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	out, err := f.run(context.Background(), "--version")
	require.NoError(t, err)
	assert.Equal(t, "tinkerlaunch "+config.AppVersion+"\n", out)
}

func TestInvalidAppID(t *testing.T) {
	t.Parallel()

	for _, arg := range []string{"abc", "0", "99999999999"} {
		f := newFixture(t, true)
		_, err := f.run(context.Background(), "info", arg)
		require.ErrorIs(t, err, errInvalidAppID, arg)
	}
}

func TestLaunchDryRun(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	out, err := f.run(context.Background(), "launch", "413150", "--dry-run", "--", "-windowed")
	require.NoError(t, err)
	assert.Contains(t, out, "Game:        Stardew Valley (413150)")
	assert.Contains(t, out, "Command:     '/games/Stardew Valley/StardewValley' -windowed")
	assert.Contains(t, out, "Working dir: /games/Stardew Valley")
	f.exec.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
}

func TestLaunchWaitsForGameExit(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)
	f.exec.On("Start", mock.Anything, mock.Anything).Return(mocks.Exited(4242, nil), nil)

	out, err := f.run(context.Background(), "launch", "413150")
	require.NoError(t, err)
	assert.Contains(t, out, "started Stardew Valley (pid 4242)")
}

func TestLaunchReportsGameFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)
	f.exec.On("Start", mock.Anything, mock.Anything).
		Return(mocks.Exited(4242, errors.New("signal: killed")), nil)

	_, err := f.run(context.Background(), "launch", "413150", "--no-wait")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signal: killed")
	assert.Equal(t, 1, exitCode(err))
}

func TestLaunchMetadataFailureExitCode(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	_, err := f.run(context.Background(), "launch", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not read metadata for app 10")
	assert.Equal(t, 2, exitCode(err))
	f.exec.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
}

func TestLaunchAbortedByCancellation(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := f.run(ctx, "launch", "413150")
	require.ErrorIs(t, err, errAborted)
	assert.Equal(t, exitAborted, exitCode(err))
	assert.Contains(t, out, "Launch aborted.")
	f.exec.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
}

func TestWaitPrintsDecision(t *testing.T) {
	t.Parallel()

	t.Run("launch", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, true)
		out, err := f.run(context.Background(), "wait", "413150")
		require.NoError(t, err)
		assert.Equal(t, "decision: launch\n", out)
	})

	t.Run("abort", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, false)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		out, err := f.run(ctx, "wait", "413150")
		assert.Equal(t, exitAborted, exitCode(err))
		assert.Equal(t, "decision: abort\n", out)
	})
}

func TestTinkersListsInPriorityOrder(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	out, err := f.run(context.Background(), "tinkers")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, f.env.Registry.Len()+1)
	assert.Equal(t, []string{"PRIORITY", "ID", "NAME"}, strings.Fields(lines[0]))
	for i, tk := range f.env.Registry.Tinkers() {
		fields := strings.Fields(lines[i+1])
		assert.Equal(t, fmt.Sprint(tk.Priority()), fields[0])
		assert.Equal(t, tk.ID(), fields[1])
	}
}

func TestInfoShowsEnabledTinkers(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	cfg := config.DefaultGameConfig(stardew)
	cfg.MangoHud.Enabled = true
	cfg.GameMode.Enabled = true
	require.NoError(t, f.env.Games.Save(cfg))

	out, err := f.run(context.Background(), "info", "413150")
	require.NoError(t, err)
	assert.Contains(t, out, "Stardew Valley")
	assert.Contains(t, out, "native")
	assert.Contains(t, out, "/cfg/tinkerlaunch/games/413150.json")
	assert.Regexp(t, `Tinkers:\s+mangohud, gamemode|Tinkers:\s+gamemode, mangohud`, out)
}

func TestInfoUnknownGame(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	_, err := f.run(context.Background(), "info", "10")
	require.ErrorIs(t, err, steam.ErrAppNotInstalled)
}

func TestConfigSetPersists(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	out, err := f.run(context.Background(), "config", "413150",
		"--set", "mangohud=true", "--set", "env.DXVK_HUD=fps", "--set", "gamescope.width=2560")
	require.NoError(t, err)
	assert.Contains(t, out, `"DXVK_HUD": "fps"`)

	cfg, err := f.env.Games.Load(stardew)
	require.NoError(t, err)
	assert.True(t, cfg.MangoHud.Enabled)
	assert.Equal(t, 2560, cfg.Gamescope.Width)
	assert.Equal(t, "fps", cfg.Env["DXVK_HUD"])
}

func TestConfigRejectsBadSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wantErr error
		name    string
		set     string
	}{
		{name: "missing_equals", set: "mangohud", wantErr: errBadSetting},
		{name: "unknown_key", set: "bogus=1", wantErr: config.ErrUnknownSetting},
		{name: "out_of_range", set: "renice.nice=40", wantErr: config.ErrInvalidGameConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, true)
			_, err := f.run(context.Background(), "config", "413150", "--set", tt.set)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

type launchingClient struct{}

func (launchingClient) Send(context.Context, models.Request) (models.Message, error) {
	return models.Message{AppID: stardew, GameName: "Stardew Valley", State: models.StateLaunching}, nil
}

func (c launchingClient) Status(ctx context.Context) (models.Message, error) {
	return c.Send(ctx, models.Request{Action: models.ActionGetStatus})
}

type missingClient struct{}

func (missingClient) Send(context.Context, models.Request) (models.Message, error) {
	return models.Message{}, fmt.Errorf("%w: no socket", client.ErrDaemonNotRunning)
}

func (c missingClient) Status(ctx context.Context) (models.Message, error) {
	return c.Send(ctx, models.Request{})
}

func simScreen(t *testing.T) tcell.Screen {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, sim.Init())
	sim.SetSize(80, 24)
	return sim
}

func TestClientExitsWhenLaunching(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)
	f.app.screen = simScreen(t)
	f.app.pollInterval = 10 * time.Millisecond
	f.app.newClient = func(uint32) tui.DaemonClient { return launchingClient{} }

	out, err := f.run(context.Background(), "client", "413150")
	require.NoError(t, err)
	assert.Equal(t, "Launching Stardew Valley.\n", out)
}

func TestClientGuidanceWhenNoDaemon(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)
	f.app.screen = simScreen(t)
	f.app.pollInterval = time.Millisecond
	f.app.newClient = func(uint32) tui.DaemonClient { return missingClient{} }

	_, err := f.run(context.Background(), "client", "413150")
	require.Error(t, err)
	assert.Equal(t, client.Guidance(client.KindNotRunning, stardew), err.Error())
}

func TestClientRejectsUnknownTheme(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	_, err := f.run(context.Background(), "client", "413150", "--theme", "nrod")
	require.ErrorIs(t, err, errUnknownTheme)
	assert.Contains(t, err.Error(), "did you mean nord?")
	assert.Contains(t, err.Error(), "default, high_contrast, nord")
}
