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
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
)

const (
	// SocketPrefix names the socket file: <prefix>-<appid>.sock.
	SocketPrefix = "tinkerlaunch"

	// MaxSocketPath is sun_path on Linux including the terminating NUL.
	MaxSocketPath = 108

	// FallbackRuntimeDir is used when the XDG runtime dir is unset or too
	// long to hold a socket name.
	FallbackRuntimeDir = "/tmp"

	maxAppID = 4294967295
)

var ErrSocketPathTooLong = errors.New("socket path too long")

func socketName(appID uint32) string {
	return SocketPrefix + "-" + strconv.FormatUint(uint64(appID), 10) + ".sock"
}

// fits reports whether every app id yields a socket path under the limit
// in dir.
func fits(dir string) bool {
	return len(filepath.Join(dir, socketName(maxAppID))) < MaxSocketPath
}

// SocketPath returns the daemon socket for appID in runtimeDir. It fails
// when the longest possible app id would not fit, so the check does not
// depend on the id at hand.
func SocketPath(runtimeDir string, appID uint32) (string, error) {
	if !fits(runtimeDir) {
		return "", fmt.Errorf("%w: %s", ErrSocketPathTooLong, runtimeDir)
	}
	return filepath.Join(runtimeDir, socketName(appID)), nil
}

// RuntimeDir returns the directory sockets are created in.
func RuntimeDir() string {
	return runtimeDirFrom(xdg.RuntimeDir)
}

func runtimeDirFrom(dir string) string {
	if dir == "" || !filepath.IsAbs(dir) || !fits(dir) {
		return FallbackRuntimeDir
	}
	return dir
}

// DefaultSocketPath is SocketPath in RuntimeDir. It cannot fail because
// RuntimeDir always fits.
func DefaultSocketPath(appID uint32) string {
	return filepath.Join(RuntimeDir(), socketName(appID))
}
