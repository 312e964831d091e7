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

package waiter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/ipc/models"
	"pgregory.net/rapid"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newMachine(countdown uint8) *Machine {
	m := NewMachine(MachineOptions{
		AppID:     413150,
		GameName:  "Stardew Valley",
		Countdown: countdown,
		Features:  map[string]bool{FeatureMangoHud: true},
		Tinkers: []models.TinkerInfo{
			{ID: "commands", Name: "Commands", Priority: 10},
			{ID: FeatureMangoHud, Name: "MangoHud", Priority: 50},
			{ID: FeatureGamescope, Name: "Gamescope", Priority: 80},
		},
	})
	m.Start(t0)
	return m
}

func req(a models.Action) models.Request {
	return models.Request{Action: a}
}

func TestMachineStartsCounting(t *testing.T) {
	t.Parallel()

	m := NewMachine(MachineOptions{Countdown: 5})
	assert.Equal(t, models.StateInitializing, m.State())
	m.Start(t0)
	assert.Equal(t, models.StateCountdown, m.State())
	assert.Equal(t, uint8(5), m.Remaining())
	assert.Equal(t, DecisionNone, m.Decision())
}

func TestMachineZeroCountdownLaunchesImmediately(t *testing.T) {
	t.Parallel()

	m := newMachine(0)
	assert.Equal(t, models.StateLaunching, m.State())
	assert.Equal(t, DecisionLaunch, m.Decision())
}

func TestMachineTicksPerWallClockSecond(t *testing.T) {
	t.Parallel()

	m := newMachine(10)
	for i := range 20 {
		m.Tick(t0.Add(time.Duration(i) * 50 * time.Millisecond))
	}
	assert.Equal(t, uint8(10), m.Remaining(), "sub-second polls must not tick")

	m.Tick(t0.Add(time.Second))
	assert.Equal(t, uint8(9), m.Remaining())

	m.Tick(t0.Add(3*time.Second + 500*time.Millisecond))
	assert.Equal(t, uint8(7), m.Remaining(), "a stalled loop catches up")
}

func TestPropertyCountdownLaunchesExactlyOnce(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.Uint8Range(1, 255).Draw(t, "countdown")
		extra := rapid.IntRange(0, 10).Draw(t, "extra")
		m := newMachine(n)

		launches := 0
		prev := m.State()
		for i := 1; i <= int(n)+extra; i++ {
			m.Tick(t0.Add(time.Duration(i) * time.Second))
			if m.State() == models.StateLaunching && prev != models.StateLaunching {
				launches++
				if i != int(n) {
					t.Fatalf("launched after %d ticks, want %d", i, n)
				}
			}
			prev = m.State()
		}
		if launches != 1 {
			t.Fatalf("launched %d times", launches)
		}
		if m.Decision() != DecisionLaunch {
			t.Fatalf("decision %s", m.Decision())
		}
	})
}

func TestPropertyPauseResumePreservesRemaining(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.Uint8Range(2, 255).Draw(t, "countdown")
		before := rapid.IntRange(0, int(n)-1).Draw(t, "before")
		paused := rapid.IntRange(0, 1000).Draw(t, "paused")
		m := newMachine(n)

		now := t0.Add(time.Duration(before) * time.Second)
		m.Tick(now)
		r := m.Remaining()

		msg := m.Apply(req(models.ActionPauseLaunch), now)
		if msg.State != models.StateWaiting || msg.CountdownSeconds != r {
			t.Fatalf("pause: %v %d", msg.State, msg.CountdownSeconds)
		}

		now = now.Add(time.Duration(paused) * time.Second)
		m.Tick(now)
		msg = m.Apply(req(models.ActionResumeLaunch), now)
		if msg.State != models.StateCountdown || msg.CountdownSeconds != r {
			t.Fatalf("resume: %v %d want %d", msg.State, msg.CountdownSeconds, r)
		}

		m.Tick(now.Add(time.Second))
		if m.Remaining() != r-1 {
			t.Fatalf("after resume tick: %d want %d", m.Remaining(), r-1)
		}
	})
}

func TestMachineResumeWaitsAFullSecond(t *testing.T) {
	t.Parallel()

	m := newMachine(10)
	m.Tick(t0.Add(2 * time.Second))
	m.Apply(req(models.ActionPauseLaunch), t0.Add(2900*time.Millisecond))
	m.Apply(req(models.ActionResumeLaunch), t0.Add(10*time.Second))

	m.Tick(t0.Add(10*time.Second + 900*time.Millisecond))
	assert.Equal(t, uint8(8), m.Remaining())
	m.Tick(t0.Add(11 * time.Second))
	assert.Equal(t, uint8(7), m.Remaining())
}

func TestMachineIgnoresOutOfStateActions(t *testing.T) {
	t.Parallel()

	m := newMachine(10)
	msg := m.Apply(req(models.ActionResumeLaunch), t0)
	assert.Equal(t, models.StateCountdown, msg.State)

	m.Apply(req(models.ActionPauseLaunch), t0)
	msg = m.Apply(req(models.ActionPauseLaunch), t0)
	assert.Equal(t, models.StateWaiting, msg.State)
}

func TestMachineTerminalActions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setup    []models.Action
		action   models.Action
		state    models.State
		decision Decision
	}{
		{
			name:     "proceed_from_countdown",
			action:   models.ActionProceed,
			state:    models.StateLaunching,
			decision: DecisionLaunch,
		},
		{
			name:     "proceed_from_waiting",
			setup:    []models.Action{models.ActionPauseLaunch},
			action:   models.ActionProceed,
			state:    models.StateLaunching,
			decision: DecisionLaunch,
		},
		{
			name:     "abort_from_countdown",
			action:   models.ActionAbort,
			state:    models.StateFinished,
			decision: DecisionAbort,
		},
		{
			name:     "abort_from_waiting",
			setup:    []models.Action{models.ActionPauseLaunch},
			action:   models.ActionAbort,
			state:    models.StateFinished,
			decision: DecisionAbort,
		},
		{
			name:     "abort_after_proceed_keeps_launch",
			setup:    []models.Action{models.ActionProceed},
			action:   models.ActionAbort,
			state:    models.StateLaunching,
			decision: DecisionLaunch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newMachine(10)
			for _, a := range tt.setup {
				m.Apply(req(a), t0)
			}
			msg := m.Apply(req(tt.action), t0)
			assert.Equal(t, tt.state, msg.State)
			assert.Equal(t, tt.decision, m.Decision())
			assert.Equal(t, uint8(10), msg.CountdownSeconds)
		})
	}
}

func TestMachineToggleKeepsState(t *testing.T) {
	t.Parallel()

	m := newMachine(10)
	m.Apply(req(models.ActionPauseLaunch), t0)

	msg := m.Apply(models.Request{Action: models.ActionToggleTinker, TinkerID: FeatureMangoHud}, t0)
	assert.Equal(t, models.StateWaiting, msg.State)
	assert.False(t, msg.MangoHudEnabled)

	msg = m.Apply(models.Request{Action: models.ActionToggleTinker, TinkerID: FeatureGamescope}, t0)
	assert.True(t, msg.GamescopeEnabled)

	msg = m.Apply(models.Request{Action: models.ActionToggleTinker, TinkerID: "nope"}, t0)
	assert.Equal(t, models.StateWaiting, msg.State)

	assert.Equal(t, map[string]bool{
		FeatureMangoHud:  false,
		FeatureGamescope: true,
		FeatureGameMode:  false,
		FeatureRenice:    false,
	}, m.FeatureStates())
}

func TestMachineToggleIgnoredOnceDecided(t *testing.T) {
	t.Parallel()

	m := newMachine(1)
	m.Tick(t0.Add(time.Second))
	require.Equal(t, models.StateLaunching, m.State())

	msg := m.Apply(models.Request{Action: models.ActionToggleTinker, TinkerID: FeatureMangoHud}, t0)
	assert.Equal(t, models.StateLaunching, msg.State)
	assert.True(t, msg.MangoHudEnabled)
	assert.True(t, m.FeatureStates()[FeatureMangoHud])
}

func TestMachineGetTinkersReflectsToggles(t *testing.T) {
	t.Parallel()

	m := newMachine(10)
	m.Apply(models.Request{Action: models.ActionToggleTinker, TinkerID: FeatureGamescope}, t0)

	msg := m.Apply(req(models.ActionGetTinkers), t0)
	require.Len(t, msg.Tinkers, 3)
	assert.Equal(t, "commands", msg.Tinkers[0].ID)
	assert.False(t, msg.Tinkers[0].Enabled)
	assert.True(t, msg.Tinkers[1].Enabled)
	assert.True(t, msg.Tinkers[2].Enabled)

	assert.Empty(t, m.Apply(req(models.ActionGetStatus), t0).Tinkers)
}

func TestMachineGameInfo(t *testing.T) {
	t.Parallel()

	msg := newMachine(10).Apply(req(models.ActionGetGameInfo), t0)
	assert.Equal(t, uint32(413150), msg.AppID)
	assert.Equal(t, "Stardew Valley", msg.GameName)
	assert.True(t, msg.MangoHudEnabled)
}

func TestMachineFail(t *testing.T) {
	t.Parallel()

	m := newMachine(10)
	m.Fail(errors.New("socket gone"))
	msg := m.Snapshot()
	assert.Equal(t, models.StateError, msg.State)
	assert.Equal(t, "socket gone", msg.Error)
	assert.Equal(t, DecisionError, m.Decision())

	m.Apply(req(models.ActionProceed), t0)
	assert.Equal(t, DecisionError, m.Decision())

	m.Tick(t0.Add(time.Minute))
	assert.Equal(t, uint8(10), m.Remaining())
}

func TestDecisionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "launch", DecisionLaunch.String())
	assert.Equal(t, "abort", DecisionAbort.String())
	assert.Equal(t, "error", DecisionError.String())
	assert.Equal(t, "none", DecisionNone.String())
}
