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

// Args is the ordered argv of the process that will be spawned. Item 0 after
// every tinker has run is the program actually executed.
type Args struct {
	items []string
}

func NewArgs(items ...string) *Args {
	a := &Args{}
	a.Append(items...)
	return a
}

// Append adds items to the end.
func (a *Args) Append(items ...string) {
	a.items = append(a.items, items...)
}

// Prepend inserts items before the existing ones, keeping the order in which
// they were given: Prepend("gamescope", "--") on [game] yields
// [gamescope -- game].
func (a *Args) Prepend(items ...string) {
	if len(items) == 0 {
		return
	}
	out := make([]string, 0, len(items)+len(a.items))
	out = append(out, items...)
	out = append(out, a.items...)
	a.items = out
}

// Items returns a copy of the current argv.
func (a *Args) Items() []string {
	out := make([]string, len(a.items))
	copy(out, a.items)
	return out
}

func (a *Args) Len() int {
	return len(a.items)
}

// Program returns argv[0], or an empty string for an empty list.
func (a *Args) Program() string {
	if len(a.items) == 0 {
		return ""
	}
	return a.items[0]
}
