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
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var ErrMalformed = errors.New("malformed message")

// ParseMessage decodes a reply leniently. Missing fields take their zero
// value, unknown states decode to StateInitializing, out of range numbers
// are clamped and fields of the wrong type are ignored. Only input that is
// not a JSON object is an error.
func ParseMessage(data []byte) (Message, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Message{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if raw == nil {
		return Message{}, fmt.Errorf("%w: not an object", ErrMalformed)
	}

	var m Message
	var s string
	if decodeField(raw, "state", &s) {
		m.State = StateFromString(s)
	}
	var n float64
	if decodeField(raw, "countdown_seconds", &n) {
		m.CountdownSeconds = uint8(clamp(n, 0, math.MaxUint8))
	}
	if decodeField(raw, "app_id", &n) {
		m.AppID = uint32(clamp(n, 0, math.MaxUint32))
	}
	decodeField(raw, "game_name", &m.GameName)
	decodeField(raw, "error", &m.Error)
	decodeField(raw, "mangohud_enabled", &m.MangoHudEnabled)
	decodeField(raw, "gamescope_enabled", &m.GamescopeEnabled)
	decodeField(raw, "gamemode_enabled", &m.GameModeEnabled)
	decodeField(raw, "tinkers", &m.Tinkers)
	return m, nil
}

// ParseRequest decodes a request. Unknown actions decode to ActionNone.
func ParseRequest(data []byte) (Request, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Request{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if raw == nil {
		return Request{}, fmt.Errorf("%w: not an object", ErrMalformed)
	}

	var r Request
	var s string
	if decodeField(raw, "action", &s) {
		r.Action = ActionFromString(s)
	}
	decodeField(raw, "tinker_id", &r.TinkerID)
	return r, nil
}

func decodeField(raw map[string]json.RawMessage, key string, dst any) bool {
	v, ok := raw[key]
	if !ok {
		return false
	}
	return json.Unmarshal(v, dst) == nil
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v), v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
