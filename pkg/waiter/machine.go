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

// Package waiter holds a game back behind a pausable countdown. A daemon
// serves the countdown over a Unix socket so clients can pause, resume,
// skip or abort it and toggle features before the launch.
package waiter

import (
	"maps"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/ipc/models"
)

// Decision is the outcome of a wait.
type Decision uint8

const (
	DecisionNone Decision = iota
	DecisionLaunch
	DecisionAbort
	DecisionError
)

func (d Decision) String() string {
	switch d {
	case DecisionLaunch:
		return "launch"
	case DecisionAbort:
		return "abort"
	case DecisionError:
		return "error"
	default:
		return "none"
	}
}

// Toggleable feature ids, matching the builtin tinker ids.
const (
	FeatureMangoHud  = "mangohud"
	FeatureGamescope = "gamescope"
	FeatureGameMode  = "gamemode"
	FeatureRenice    = "renice"
)

// Features lists the ids ToggleTinker accepts.
var Features = []string{FeatureMangoHud, FeatureGamescope, FeatureGameMode, FeatureRenice}

type MachineOptions struct {
	// Features holds the initial value of each toggle. Ids missing from
	// the map start disabled.
	Features map[string]bool
	GameName string
	// Tinkers is reported by GET_TINKERS. Enabled is overridden by the
	// matching feature toggle.
	Tinkers   []models.TinkerInfo
	AppID     uint32
	Countdown uint8
}

// Machine is the countdown state machine. It is not safe for concurrent
// use; the daemon drives it from a single loop.
type Machine struct {
	lastTick  time.Time
	features  map[string]bool
	gameName  string
	errMsg    string
	tinkers   []models.TinkerInfo
	appID     uint32
	state     models.State
	remaining uint8
	decision  Decision
}

func NewMachine(opts MachineOptions) *Machine {
	features := make(map[string]bool, len(Features))
	for _, id := range Features {
		features[id] = opts.Features[id]
	}
	return &Machine{
		appID:     opts.AppID,
		gameName:  opts.GameName,
		remaining: opts.Countdown,
		features:  features,
		tinkers:   slices.Clone(opts.Tinkers),
		state:     models.StateInitializing,
	}
}

// Start begins the countdown. A zero countdown launches immediately.
func (m *Machine) Start(now time.Time) {
	if m.state != models.StateInitializing {
		return
	}
	m.lastTick = now
	m.state = models.StateCountdown
	if m.remaining == 0 {
		m.finish(models.StateLaunching, DecisionLaunch)
	}
}

// Tick decrements the countdown once for every whole second elapsed since
// the previous decrement.
func (m *Machine) Tick(now time.Time) {
	if m.state != models.StateCountdown {
		return
	}
	for m.remaining > 0 && now.Sub(m.lastTick) >= time.Second {
		m.remaining--
		m.lastTick = m.lastTick.Add(time.Second)
	}
	if m.remaining == 0 {
		m.finish(models.StateLaunching, DecisionLaunch)
	}
}

// Apply performs a client action and returns the reply for it.
func (m *Machine) Apply(req models.Request, now time.Time) models.Message {
	switch req.Action {
	case models.ActionPauseLaunch:
		if m.state == models.StateCountdown {
			m.state = models.StateWaiting
		}
	case models.ActionResumeLaunch:
		if m.state == models.StateWaiting {
			m.state = models.StateCountdown
			m.lastTick = now
		}
	case models.ActionProceed:
		m.finish(models.StateLaunching, DecisionLaunch)
	case models.ActionAbort:
		m.finish(models.StateFinished, DecisionAbort)
	case models.ActionToggleTinker:
		if m.state.Terminal() {
			break
		}
		if _, ok := m.features[req.TinkerID]; ok {
			m.features[req.TinkerID] = !m.features[req.TinkerID]
		} else {
			log.Warn().Str("tinker", req.TinkerID).Msg("ignoring toggle of unknown feature")
		}
	case models.ActionGetTinkers:
		msg := m.Snapshot()
		msg.Tinkers = m.tinkerInfo()
		return msg
	case models.ActionNone, models.ActionGetStatus, models.ActionGetGameInfo:
	}
	return m.Snapshot()
}

func (m *Machine) finish(state models.State, d Decision) {
	if m.state.Terminal() {
		return
	}
	m.state = state
	m.decision = d
}

// Fail moves the machine to the error state.
func (m *Machine) Fail(err error) {
	if m.state.Terminal() {
		return
	}
	m.state = models.StateError
	m.decision = DecisionError
	if err != nil {
		m.errMsg = err.Error()
	}
}

func (m *Machine) tinkerInfo() []models.TinkerInfo {
	out := slices.Clone(m.tinkers)
	for i := range out {
		if v, ok := m.features[out[i].ID]; ok {
			out[i].Enabled = v
		}
	}
	return out
}

// Snapshot is the status reply for the current state.
func (m *Machine) Snapshot() models.Message {
	return models.Message{
		AppID:            m.appID,
		GameName:         m.gameName,
		State:            m.state,
		CountdownSeconds: m.remaining,
		Error:            m.errMsg,
		MangoHudEnabled:  m.features[FeatureMangoHud],
		GamescopeEnabled: m.features[FeatureGamescope],
		GameModeEnabled:  m.features[FeatureGameMode],
	}
}

func (m *Machine) Decision() Decision {
	return m.decision
}

func (m *Machine) State() models.State {
	return m.state
}

func (m *Machine) Remaining() uint8 {
	return m.remaining
}

// FeatureStates returns a copy of the toggles.
func (m *Machine) FeatureStates() map[string]bool {
	return maps.Clone(m.features)
}
