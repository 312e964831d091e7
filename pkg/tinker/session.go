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

package tinker

import (
	"github.com/google/uuid"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/helpers/syncutil"
)

// BackgroundProcess is a process a tinker started and left running.
type BackgroundProcess struct {
	TinkerID string
	PID      int
}

// Session holds the mutable bookkeeping of a single launch. One is created
// per launch and shared by every tinker call of that launch.
type Session struct {
	ID         string
	background []BackgroundProcess
	mu         syncutil.Mutex
}

func NewSession() *Session {
	return &Session{ID: uuid.New().String()}
}

// AddBackground records a fire-and-forget process. The launcher never kills
// these; detached processes may outlive it.
func (s *Session) AddBackground(tinkerID string, pid int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = append(s.background, BackgroundProcess{TinkerID: tinkerID, PID: pid})
}

// Background returns the recorded processes in the order they were started.
func (s *Session) Background() []BackgroundProcess {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]BackgroundProcess, len(s.background))
	copy(out, s.background)
	return out
}
