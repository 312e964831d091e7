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
	"bytes"
	"encoding/binary"
	"slices"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// kvWriter emits binary key/value data in the appinfo.vdf encoding.
type kvWriter struct {
	pool *[]string
	buf  bytes.Buffer
}

func (w *kvWriter) key(k string) {
	if w.pool == nil {
		w.buf.WriteString(k)
		w.buf.WriteByte(0)
		return
	}
	idx := slices.Index(*w.pool, k)
	if idx < 0 {
		idx = len(*w.pool)
		*w.pool = append(*w.pool, k)
	}
	_ = binary.Write(&w.buf, binary.LittleEndian, uint32(idx)) //nolint:gosec // test data
}

func (w *kvWriter) begin(k string) {
	w.buf.WriteByte(kvNested)
	w.key(k)
}

func (w *kvWriter) str(k, v string) {
	w.buf.WriteByte(kvString)
	w.key(k)
	w.buf.WriteString(v)
	w.buf.WriteByte(0)
}

func (w *kvWriter) int32(k string, v int32) {
	w.buf.WriteByte(kvInt32)
	w.key(k)
	_ = binary.Write(&w.buf, binary.LittleEndian, v)
}

func (w *kvWriter) end() {
	w.buf.WriteByte(kvEnd)
}

type launchEntry struct {
	exe, typ, oslist, args string
}

// buildAppInfo returns an appinfo.vdf image with one entry per app.
func buildAppInfo(t *testing.T, magic uint32, apps map[uint32][]launchEntry) []byte {
	t.Helper()

	var pool *[]string
	if magic == magic29 {
		pool = &[]string{}
	}

	var out bytes.Buffer
	le := func(v any) { require.NoError(t, binary.Write(&out, binary.LittleEndian, v)) }
	le(magic)
	le(uint32(1))
	if magic == magic29 {
		le(uint64(0)) // patched below
	}

	ids := make([]uint32, 0, len(apps))
	for id := range apps {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		w := &kvWriter{pool: pool}
		w.begin("appinfo")
		w.int32("appid", int32(id)) //nolint:gosec // test data
		w.begin("config")
		w.begin("launch")
		for i, e := range apps[id] {
			w.begin(string(rune('0' + i)))
			w.str("executable", e.exe)
			if e.args != "" {
				w.str("arguments", e.args)
			}
			if e.typ != "" {
				w.str("type", e.typ)
			}
			if e.oslist != "" {
				w.begin("config")
				w.str("oslist", e.oslist)
				w.end()
			}
			w.end()
		}
		w.end() // launch
		w.end() // config
		w.end() // appinfo
		w.end() // root

		header := 4 + 4 + 8 + 20 + 4
		if magic != magic27 {
			header += 20
		}
		body := append(make([]byte, header), w.buf.Bytes()...)

		le(id)
		le(uint32(len(body))) //nolint:gosec // test data
		out.Write(body)
	}
	le(uint32(0))

	data := out.Bytes()
	if magic == magic29 {
		offset := uint64(len(data))
		var tbl bytes.Buffer
		require.NoError(t, binary.Write(&tbl, binary.LittleEndian, uint32(len(*pool)))) //nolint:gosec // test data
		for _, s := range *pool {
			tbl.WriteString(s)
			tbl.WriteByte(0)
		}
		data = append(data, tbl.Bytes()...)
		binary.LittleEndian.PutUint64(data[8:], offset)
	}
	return data
}

const libraryFoldersVDF = `"libraryfolders"
{
	"0"
	{
		"path"		"/steam"
		"apps"
		{
			"228980"		"100"
		}
	}
	"1"
	{
		"path"		"/mnt/games"
		"apps"
		{
			"413150"		"500"
			"1091500"		"900"
		}
	}
}
`

const configVDF = `"InstallConfigStore"
{
	"Software"
	{
		"Valve"
		{
			"Steam"
			{
				"CompatToolMapping"
				{
					"0"
					{
						"name"		"proton_experimental"
						"config"		""
						"priority"		"75"
					}
					"1091500"
					{
						"name"		"GE-Proton9-20"
						"config"		""
						"priority"		"250"
					}
				}
			}
		}
	}
}
`

func manifestVDF(id, name, dir string) string {
	return `"AppState"
{
	"appid"		"` + id + `"
	"name"		"` + name + `"
	"installdir"		"` + dir + `"
}
`
}

func compatToolVDF(name string) string {
	return `"compatibilitytools"
{
	"compat_tools"
	{
		"` + name + `"
		{
			"install_path"		"."
			"display_name"		"` + name + `"
		}
	}
}
`
}

// newFixture lays out a Steam root at /steam with a second library at
// /mnt/games holding Stardew Valley (native + windows builds) and
// Cyberpunk 2077 (windows only).
func newFixture(t *testing.T, magic uint32) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	write := func(path, content string) {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}

	require.NoError(t, fs.MkdirAll("/steam/steamapps/common", 0o755))
	write("/steam/steamapps/libraryfolders.vdf", libraryFoldersVDF)
	write("/steam/config/config.vdf", configVDF)

	write("/mnt/games/steamapps/appmanifest_413150.acf", manifestVDF("413150", "Stardew Valley", "Stardew Valley"))
	write("/mnt/games/steamapps/common/Stardew Valley/StardewValley", "elf")
	write("/mnt/games/steamapps/common/Stardew Valley/Stardew Valley.exe", "pe")

	write("/mnt/games/steamapps/appmanifest_1091500.acf", manifestVDF("1091500", "Cyberpunk 2077", "Cyberpunk 2077"))
	write("/mnt/games/steamapps/common/Cyberpunk 2077/bin/x64/Cyberpunk2077.exe", "pe")

	write("/steam/steamapps/common/Proton - Experimental/proton", "#!/usr/bin/env python3")
	write("/steam/compatibilitytools.d/GE-Proton9-20/proton", "#!/usr/bin/env python3")
	write("/steam/compatibilitytools.d/GE-Proton9-20/compatibilitytool.vdf", compatToolVDF("GE-Proton9-20"))
	write("/steam/compatibilitytools.d/renamed/proton", "#!/usr/bin/env python3")
	write("/steam/compatibilitytools.d/renamed/compatibilitytool.vdf", compatToolVDF("Custom-Proton"))

	write("/steam/appcache/appinfo.vdf", string(buildAppInfo(t, magic, map[uint32][]launchEntry{
		413150: {
			{exe: "Stardew Valley.exe", typ: "default", oslist: "windows"},
			{exe: "StardewValley", typ: "default", oslist: "linux"},
		},
		1091500: {
			{exe: `bin\x64\Cyberpunk2077.exe`, typ: "default", oslist: "windows", args: "--launcher-skip"},
		},
	})))
	return fs
}
