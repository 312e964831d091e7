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

// Package models defines the wire format spoken between the wait daemon and
// its clients: newline-delimited JSON objects over a Unix socket, one request
// followed by one reply.
package models

import "strings"

// Action is a client request verb.
type Action uint8

const (
	ActionNone Action = iota
	ActionPauseLaunch
	ActionResumeLaunch
	ActionProceed
	ActionAbort
	ActionGetStatus
	ActionGetGameInfo
	ActionGetTinkers
	ActionToggleTinker
)

var actionNames = map[Action]string{
	ActionPauseLaunch:  "PAUSE_LAUNCH",
	ActionResumeLaunch: "RESUME_LAUNCH",
	ActionProceed:      "PROCEED",
	ActionAbort:        "ABORT",
	ActionGetStatus:    "GET_STATUS",
	ActionGetGameInfo:  "GET_GAME_INFO",
	ActionGetTinkers:   "GET_TINKERS",
	ActionToggleTinker: "TOGGLE_TINKER",
}

// Actions lists every valid action.
var Actions = []Action{
	ActionPauseLaunch,
	ActionResumeLaunch,
	ActionProceed,
	ActionAbort,
	ActionGetStatus,
	ActionGetGameInfo,
	ActionGetTinkers,
	ActionToggleTinker,
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "NONE"
}

// ActionFromString parses a wire action name. Unknown names yield
// ActionNone.
func ActionFromString(s string) Action {
	s = strings.ToUpper(strings.TrimSpace(s))
	for a, name := range actionNames {
		if name == s {
			return a
		}
	}
	return ActionNone
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText never fails; unknown names decode to ActionNone.
func (a *Action) UnmarshalText(b []byte) error {
	*a = ActionFromString(string(b))
	return nil
}

// State is the daemon's countdown state.
type State uint8

const (
	StateInitializing State = iota
	StateCountdown
	StateWaiting
	StateLaunching
	StateRunning
	StateFinished
	StateError
)

var stateNames = [...]string{
	StateInitializing: "INITIALIZING",
	StateCountdown:    "COUNTDOWN",
	StateWaiting:      "WAITING",
	StateLaunching:    "LAUNCHING",
	StateRunning:      "RUNNING",
	StateFinished:     "FINISHED",
	StateError:        "ERROR",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return stateNames[StateInitializing]
}

// StateFromString parses a wire state name. Unknown names yield
// StateInitializing.
func StateFromString(v string) State {
	v = strings.ToUpper(strings.TrimSpace(v))
	for i, name := range stateNames {
		if name == v {
			return State(i) //nolint:gosec // bounded by the table
		}
	}
	return StateInitializing
}

// Terminal reports whether the daemon stops serving in this state.
func (s State) Terminal() bool {
	return s == StateLaunching || s == StateFinished || s == StateError
}

// ClientDone reports whether a client should stop polling.
func (s State) ClientDone() bool {
	return s == StateLaunching || s == StateFinished || s == StateRunning
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	*s = StateFromString(string(b))
	return nil
}

// Request is sent by a client.
type Request struct {
	TinkerID string `json:"tinker_id,omitempty"`
	Action   Action `json:"action"`
}

// TinkerInfo describes one registered tinker in GET_TINKERS replies.
type TinkerInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Priority uint8  `json:"priority"`
	Enabled  bool   `json:"enabled"`
}

// Message is the daemon's reply to every request. It is rebuilt from the
// current state for each reply.
type Message struct {
	GameName         string       `json:"game_name"`
	Error            string       `json:"error,omitempty"`
	Tinkers          []TinkerInfo `json:"tinkers,omitempty"`
	AppID            uint32       `json:"app_id"`
	State            State        `json:"state"`
	CountdownSeconds uint8        `json:"countdown_seconds"`
	MangoHudEnabled  bool         `json:"mangohud_enabled"`
	GamescopeEnabled bool         `json:"gamescope_enabled"`
	GameModeEnabled  bool         `json:"gamemode_enabled"`
}
