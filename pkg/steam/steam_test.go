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

package steam

import (
	"context"
	"strconv"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRoot(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/home/deck/.local/share/Steam/steamapps", 0o755))

	root, err := FindRoot(fs, "", []string{"/home/deck/.steam/steam", "/home/deck/.local/share/Steam"})
	require.NoError(t, err)
	assert.Equal(t, "/home/deck/.local/share/Steam", root)

	root, err = FindRoot(fs, "/missing", []string{"/home/deck/.local/share/Steam"})
	require.NoError(t, err)
	assert.Equal(t, "/home/deck/.local/share/Steam", root)

	_, err = FindRoot(fs, "", []string{"/nope"})
	require.ErrorIs(t, err, ErrSteamNotFound)
}

func TestLibraryRoots(t *testing.T) {
	t.Parallel()

	lib := NewLibrary(newFixture(t, magic28), "/steam", LibraryOptions{
		ExtraLibraries: []string{"/media/sd", "/mnt/games/"},
	})
	assert.Equal(t, []string{"/steam", "/mnt/games", "/media/sd"}, lib.LibraryRoots())
}

func TestManifest(t *testing.T) {
	t.Parallel()

	lib := NewLibrary(newFixture(t, magic28), "/steam", LibraryOptions{})

	m, err := lib.Manifest(413150)
	require.NoError(t, err)
	assert.Equal(t, "Stardew Valley", m.Name)
	assert.Equal(t, "/mnt/games/steamapps/common/Stardew Valley", m.InstallDir)
	assert.Equal(t, "/mnt/games", m.LibraryRoot)

	_, err = lib.Manifest(42)
	require.ErrorIs(t, err, ErrAppNotInstalled)
}

func TestLaunchConfigs(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name  string
		magic uint32
	}{
		{"v27", magic27},
		{"v28", magic28},
		{"v29_string_pool", magic29},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			lib := NewLibrary(newFixture(t, tc.magic), "/steam", LibraryOptions{})
			configs, err := lib.LaunchConfigs(413150)
			require.NoError(t, err)
			require.Len(t, configs, 2)
			assert.Equal(t, "Stardew Valley.exe", configs[0].Executable)
			assert.Equal(t, "windows", configs[0].OSList)
			assert.Equal(t, "StardewValley", configs[1].Executable)

			_, err = lib.LaunchConfigs(7)
			require.ErrorIs(t, err, ErrAppNotFound)
		})
	}
}

func TestParseAppInfoErrors(t *testing.T) {
	t.Parallel()

	_, err := parseAppInfo([]byte{1, 2, 3, 4, 0, 0, 0, 0}, 1)
	require.ErrorIs(t, err, ErrInvalidMagic)

	_, err = parseAppInfo([]byte{0x28, 0x44}, 1)
	require.Error(t, err)

	data := buildAppInfo(t, magic28, map[uint32][]launchEntry{1: {{exe: "a"}}})
	_, err = parseAppInfo(data[:len(data)-10], 1)
	require.Error(t, err)
}

func TestSelectLaunchConfig(t *testing.T) {
	t.Parallel()

	configs := []LaunchConfig{
		{Key: "0", Executable: "setup.exe", Type: "option1", OSList: "windows"},
		{Key: "1", Executable: "game.exe", Type: "default", OSList: "windows"},
		{Key: "2", Executable: "tool", Type: "option2"},
		{Key: "3", Executable: "game.sh", Type: "option1", OSList: "linux"},
	}

	tests := []struct {
		name    string
		os      string
		wantKey string
		wantErr bool
	}{
		{name: "prefers_default_type", os: "windows", wantKey: "1"},
		{name: "falls_back_to_os_match", os: "linux", wantKey: "3"},
		{name: "falls_back_to_unlisted_os", os: "macos", wantKey: "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := SelectLaunchConfig(configs, tt.os)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, got.Key)
		})
	}

	_, err := SelectLaunchConfig(configs[:2], "linux")
	require.ErrorIs(t, err, ErrNoLaunchConfig)
}

func TestCompatToolMapping(t *testing.T) {
	t.Parallel()

	lib := NewLibrary(newFixture(t, magic28), "/steam", LibraryOptions{})

	assert.Equal(t, "GE-Proton9-20", lib.CompatToolMapping(1091500, false))
	assert.Empty(t, lib.CompatToolMapping(413150, false))
	assert.Equal(t, "proton_experimental", lib.CompatToolMapping(413150, true))
}

func TestResolveCompatLayer(t *testing.T) {
	t.Parallel()

	lib := NewLibrary(newFixture(t, magic28), "/steam", LibraryOptions{})

	tests := []struct {
		name string
		tool string
		want string
	}{
		{name: "user_dir", tool: "GE-Proton9-20", want: "/steam/compatibilitytools.d/GE-Proton9-20"},
		{name: "declared_name", tool: "Custom-Proton", want: "/steam/compatibilitytools.d/renamed"},
		{name: "official", tool: "proton_experimental", want: "/steam/steamapps/common/Proton - Experimental"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := lib.ResolveCompatLayer(tt.tool)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := lib.ResolveCompatLayer("proton_9")
	require.ErrorIs(t, err, ErrCompatLayerNotFound)
	_, err = lib.ResolveCompatLayer("")
	require.ErrorIs(t, err, ErrCompatLayerNotFound)
}

func TestResolveCompatLayerPrefersUserDir(t *testing.T) {
	t.Parallel()

	fs := newFixture(t, magic28)
	require.NoError(t, afero.WriteFile(fs, "/mnt/games/steamapps/common/GE-Proton9-20/proton", []byte("x"), 0o755))
	lib := NewLibrary(fs, "/steam", LibraryOptions{})

	got, err := lib.ResolveCompatLayer("GE-Proton9-20")
	require.NoError(t, err)
	assert.Equal(t, "/steam/compatibilitytools.d/GE-Proton9-20", got)
}

func TestGameInfo(t *testing.T) {
	t.Parallel()

	lib := NewLibrary(newFixture(t, magic29), "/steam", LibraryOptions{})
	ctx := context.Background()

	t.Run("native", func(t *testing.T) {
		t.Parallel()
		info, err := lib.GameInfo(ctx, 413150, "")
		require.NoError(t, err)
		assert.Equal(t, "Stardew Valley", info.Name)
		assert.Equal(t, "/mnt/games/steamapps/common/Stardew Valley/StardewValley", info.Executable)
		assert.Empty(t, info.CompatTool)
	})

	t.Run("override_to_proton", func(t *testing.T) {
		t.Parallel()
		info, err := lib.GameInfo(ctx, 413150, "proton_experimental")
		require.NoError(t, err)
		assert.Equal(t, "/mnt/games/steamapps/common/Stardew Valley/Stardew Valley.exe", info.Executable)
		assert.Equal(t, "proton_experimental", info.CompatTool)
	})

	t.Run("windows_only_mapped", func(t *testing.T) {
		t.Parallel()
		info, err := lib.GameInfo(ctx, 1091500, "")
		require.NoError(t, err)
		assert.Equal(t, "GE-Proton9-20", info.CompatTool)
		assert.Equal(t, "/mnt/games/steamapps/common/Cyberpunk 2077/bin/x64/Cyberpunk2077.exe", info.Executable)
		assert.Equal(t, "--launcher-skip", info.LaunchArguments)
		assert.Equal(t, "/mnt/games/steamapps/common/Cyberpunk 2077/bin/x64", info.WorkingDir)
	})

	t.Run("forced_native_without_build", func(t *testing.T) {
		t.Parallel()
		_, err := lib.GameInfo(ctx, 1091500, "native")
		require.ErrorIs(t, err, ErrMissingExecutable)
	})

	t.Run("not_installed", func(t *testing.T) {
		t.Parallel()
		_, err := lib.GameInfo(ctx, 1, "")
		require.ErrorIs(t, err, ErrAppNotInstalled)
	})
}

func buildShortcuts(entries ...Shortcut) []byte {
	w := &kvWriter{}
	w.begin("shortcuts")
	for i, sc := range entries {
		w.begin(strconv.Itoa(i))
		w.int32("appid", int32(sc.AppID)) //nolint:gosec // test data
		w.str("AppName", sc.Name)
		w.str("Exe", `"`+sc.Exe+`"`)
		w.str("StartDir", `"`+sc.StartDir+`"`)
		w.str("LaunchOptions", sc.LaunchOptions)
		w.begin("tags")
		w.end()
		w.end()
	}
	w.end()
	w.end()
	return w.buf.Bytes()
}

func TestShortcuts(t *testing.T) {
	t.Parallel()

	fs := newFixture(t, magic29)
	heroic := Shortcut{
		AppID:         3228582470,
		Name:          "Heroic Games",
		Exe:           "/opt/heroic/heroic",
		StartDir:      "/opt/heroic",
		LaunchOptions: "--no-sandbox",
	}
	dos := Shortcut{AppID: 2800000001, Name: "DOS Classic", Exe: "/games/dos/run.exe", StartDir: ""}
	ghost := Shortcut{AppID: 2800000002, Name: "Uninstalled", Exe: "/games/ghost/ghost"}
	require.NoError(t, afero.WriteFile(fs, "/steam/userdata/1234/config/shortcuts.vdf",
		buildShortcuts(heroic, dos, ghost), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/opt/heroic/heroic", []byte("elf"), 0o755))
	require.NoError(t, afero.WriteFile(fs, "/games/dos/run.exe", []byte("pe"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/steam/userdata/99/config/shortcuts.vdf", []byte("junk"), 0o644))

	lib := NewLibrary(fs, "/steam", LibraryOptions{})

	t.Run("parsed", func(t *testing.T) {
		t.Parallel()
		scs := lib.Shortcuts()
		require.Len(t, scs, 3)
		assert.Equal(t, heroic, scs[0])
		assert.Equal(t, "/games/dos/run.exe", scs[1].Exe)
	})

	t.Run("game_info_native", func(t *testing.T) {
		t.Parallel()
		info, err := lib.GameInfo(context.Background(), heroic.AppID, "")
		require.NoError(t, err)
		assert.Equal(t, "Heroic Games", info.Name)
		assert.Equal(t, "/opt/heroic/heroic", info.Executable)
		assert.Equal(t, "/opt/heroic", info.WorkingDir)
		assert.Equal(t, "--no-sandbox", info.LaunchArguments)
		assert.Empty(t, info.CompatTool)
	})

	t.Run("game_info_forced_proton", func(t *testing.T) {
		t.Parallel()
		info, err := lib.GameInfo(context.Background(), dos.AppID, "GE-Proton9-20")
		require.NoError(t, err)
		assert.Equal(t, "GE-Proton9-20", info.CompatTool)
		assert.Equal(t, "/games/dos", info.WorkingDir)
	})

	t.Run("missing_executable", func(t *testing.T) {
		t.Parallel()
		_, err := lib.GameInfo(context.Background(), ghost.AppID, "")
		require.ErrorIs(t, err, ErrMissingExecutable)
	})
}

func TestParseShortcutsErrors(t *testing.T) {
	t.Parallel()

	_, err := parseShortcuts([]byte{kvNested, 'x', 0})
	require.ErrorIs(t, err, ErrInvalidFormat)

	w := &kvWriter{}
	w.begin("other")
	w.end()
	w.end()
	_, err = parseShortcuts(w.buf.Bytes())
	require.Error(t, err)
}
