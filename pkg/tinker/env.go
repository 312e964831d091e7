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
	"os"
	"strings"
)

// Env is an ordered environment map. Keys are unique and keep the position
// of their first insertion; setting an existing key overwrites its value in
// place.
type Env struct {
	index map[string]int
	keys  []string
	vals  []string
}

func NewEnv() *Env {
	return &Env{index: make(map[string]int)}
}

// EnvFrom builds an Env from KEY=VALUE entries as returned by os.Environ.
// Malformed entries without '=' are skipped, later duplicates win.
func EnvFrom(environ []string) *Env {
	e := NewEnv()
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		e.Set(k, v)
	}
	return e
}

// EnvFromOS seeds an Env with the current process environment.
func EnvFromOS() *Env {
	return EnvFrom(os.Environ())
}

func (e *Env) Get(key string) (string, bool) {
	i, ok := e.index[key]
	if !ok {
		return "", false
	}
	return e.vals[i], true
}

// Value returns the value for key or an empty string.
func (e *Env) Value(key string) string {
	v, _ := e.Get(key)
	return v
}

func (e *Env) Has(key string) bool {
	_, ok := e.index[key]
	return ok
}

func (e *Env) Set(key, value string) {
	if i, ok := e.index[key]; ok {
		e.vals[i] = value
		return
	}
	e.index[key] = len(e.keys)
	e.keys = append(e.keys, key)
	e.vals = append(e.vals, value)
}

// SetDefault sets key only when it is not already present.
func (e *Env) SetDefault(key, value string) {
	if !e.Has(key) {
		e.Set(key, value)
	}
}

func (e *Env) Unset(key string) {
	i, ok := e.index[key]
	if !ok {
		return
	}
	e.keys = append(e.keys[:i], e.keys[i+1:]...)
	e.vals = append(e.vals[:i], e.vals[i+1:]...)
	delete(e.index, key)
	for j := i; j < len(e.keys); j++ {
		e.index[e.keys[j]] = j
	}
}

func (e *Env) Len() int {
	return len(e.keys)
}

// Keys returns the keys in insertion order.
func (e *Env) Keys() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Environ renders the map as KEY=VALUE entries suitable for exec.
func (e *Env) Environ() []string {
	out := make([]string, len(e.keys))
	for i, k := range e.keys {
		out[i] = k + "=" + e.vals[i]
	}
	return out
}
