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

package models

import (
	"bufio"
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestActionRoundTrip(t *testing.T) {
	t.Parallel()

	for _, a := range Actions {
		assert.Equal(t, a, ActionFromString(a.String()), a.String())
	}
	assert.Equal(t, ActionNone, ActionFromString("SELF_DESTRUCT"))
	assert.Equal(t, ActionNone, ActionFromString(""))
	assert.Equal(t, ActionAbort, ActionFromString(" abort "))
}

// TestPropertyActionFromStringNeverPanics verifies arbitrary input parses to
// a known action.
func TestPropertyActionFromStringNeverPanics(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		a := ActionFromString(s)
		if a != ActionNone && ActionFromString(a.String()) != a {
			t.Fatalf("action %v does not round trip", a)
		}
	})
}

func TestStateStrings(t *testing.T) {
	t.Parallel()

	for s := StateInitializing; s <= StateError; s++ {
		assert.Equal(t, s, StateFromString(s.String()))
	}
	assert.Equal(t, StateInitializing, StateFromString("EXPLODED"))
	assert.True(t, StateLaunching.Terminal())
	assert.True(t, StateError.Terminal())
	assert.False(t, StateRunning.Terminal())
	assert.True(t, StateRunning.ClientDone())
	assert.False(t, StateError.ClientDone())
}

func TestParseMessageLenient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Message
	}{
		{name: "empty_object", input: `{}`, want: Message{}},
		{
			name:  "state_only",
			input: `{"state":"COUNTDOWN"}`,
			want:  Message{State: StateCountdown},
		},
		{
			name:  "unknown_state_and_fields",
			input: `{"state":"HYPERDRIVE","colour":"red","countdown_seconds":4}`,
			want:  Message{State: StateInitializing, CountdownSeconds: 4},
		},
		{
			name:  "out_of_range_countdown",
			input: `{"countdown_seconds":900,"app_id":-3}`,
			want:  Message{CountdownSeconds: 255},
		},
		{
			name:  "wrong_types_ignored",
			input: `{"state":7,"game_name":false,"mangohud_enabled":"yes"}`,
			want:  Message{},
		},
		{
			name: "full",
			input: `{"state":"WAITING","countdown_seconds":7,"game_name":"Stardew Valley",` +
				`"app_id":413150,"mangohud_enabled":true,"gamescope_enabled":false,"gamemode_enabled":true}`,
			want: Message{
				State: StateWaiting, CountdownSeconds: 7, GameName: "Stardew Valley",
				AppID: 413150, MangoHudEnabled: true, GameModeEnabled: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMessage([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMessageMalformed(t *testing.T) {
	t.Parallel()

	for _, in := range []string{``, `nope`, `[1,2]`, `null`, `{"state":`} {
		_, err := ParseMessage([]byte(in))
		require.ErrorIs(t, err, ErrMalformed, in)
	}
}

func TestMessageEncoding(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Message{State: StateCountdown, CountdownSeconds: 3, AppID: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"COUNTDOWN","countdown_seconds":3,"game_name":"","app_id":1,`+
		`"mangohud_enabled":false,"gamescope_enabled":false,"gamemode_enabled":false}`, string(data))
}

func TestParseRequest(t *testing.T) {
	t.Parallel()

	r, err := ParseRequest([]byte(`{"action":"TOGGLE_TINKER","tinker_id":"mangohud"}`))
	require.NoError(t, err)
	assert.Equal(t, Request{Action: ActionToggleTinker, TinkerID: "mangohud"}, r)

	r, err = ParseRequest([]byte(`{"action":"WARP"}`))
	require.NoError(t, err)
	assert.Equal(t, ActionNone, r.Action)

	data, err := json.Marshal(Request{Action: ActionPauseLaunch})
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"PAUSE_LAUNCH"}`, string(data))
}

func TestSocketPath(t *testing.T) {
	t.Parallel()

	for _, id := range []uint32{0, 1, 4294967295} {
		p, err := SocketPath("/run/user/1000", id)
		require.NoError(t, err)
		assert.Less(t, len(p), MaxSocketPath)
	}

	p, err := SocketPath("/run/user/1000", 413150)
	require.NoError(t, err)
	assert.Equal(t, "/run/user/1000/tinkerlaunch-413150.sock", p)

	_, err = SocketPath("/"+strings.Repeat("x", 90), 1)
	require.ErrorIs(t, err, ErrSocketPathTooLong)
}

// TestPropertySocketPathBound verifies accepted runtime dirs fit every id.
func TestPropertySocketPathBound(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		dir := "/" + rapid.StringMatching(`[a-z0-9/]{0,120}`).Draw(t, "dir")
		id := rapid.Uint32().Draw(t, "id")

		p, err := SocketPath(dir, id)
		if err != nil {
			return
		}
		if len(p) >= MaxSocketPath {
			t.Fatalf("path %q is %d bytes", p, len(p))
		}
		if d := runtimeDirFrom(dir); len(filepath.Join(d, socketName(id))) >= MaxSocketPath {
			t.Fatalf("runtime dir %q overflows", d)
		}
	})
}

func TestRuntimeDirFallback(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/run/user/1000", runtimeDirFrom("/run/user/1000"))
	assert.Equal(t, FallbackRuntimeDir, runtimeDirFrom(""))
	assert.Equal(t, FallbackRuntimeDir, runtimeDirFrom("relative/dir"))
	assert.Equal(t, FallbackRuntimeDir, runtimeDirFrom("/"+strings.Repeat("d", 100)))
}

func TestFrames(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, Request{Action: ActionGetStatus}))
	require.NoError(t, WriteFrame(&buf, Request{Action: ActionAbort}))
	buf.WriteString(`{"action":"PROCEED"}`)

	r := bufio.NewReader(&buf)
	for _, want := range []Action{ActionGetStatus, ActionAbort, ActionProceed} {
		line, err := ReadFrame(r)
		require.NoError(t, err)
		req, err := ParseRequest(line)
		require.NoError(t, err)
		assert.Equal(t, want, req.Action)
	}
	_, err := ReadFrame(r)
	require.Error(t, err)
}

func TestReadFrameTooLarge(t *testing.T) {
	t.Parallel()

	r := bufio.NewReader(strings.NewReader(strings.Repeat("a", MaxFrameSize+10) + "\n"))
	_, err := ReadFrame(r)
	require.ErrorIs(t, err, ErrFrameTooLarge)
}
