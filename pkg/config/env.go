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

package config

import (
	"os"
	"strconv"
	"strings"
)

// CountdownOverride returns the countdown requested through the environment.
// The second value is false when the variable is unset or not a number.
func CountdownOverride() (uint8, bool) {
	v := strings.TrimSpace(os.Getenv(EnvCountdown))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return clampSeconds(n), true
}

// SkipWait reports whether the environment asks to bypass the countdown.
func SkipWait() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvSkipWait))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// LogLevel returns the raw log level selector from the environment.
func LogLevel() string {
	return os.Getenv(EnvLogLevel)
}
