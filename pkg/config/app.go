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

import "time"

var AppVersion = "DEVELOPMENT"

const (
	AppName  = "tinkerlaunch"
	CfgFile  = "config.toml"
	GamesDir = "games"

	// DefaultCountdownSeconds is used when neither the environment, the game
	// nor the app config choose a countdown.
	DefaultCountdownSeconds = 10

	IPCRequestTimeout = 2 * time.Second
)

// Environment variables read at startup.
const (
	EnvCountdown = "TINKERLAUNCH_COUNTDOWN"
	EnvSkipWait  = "TINKERLAUNCH_SKIP_WAIT"
	EnvConfigDir = "TINKERLAUNCH_CONFIG_DIR"
	EnvLogLevel  = "TINKERLAUNCH_LOG_LEVEL"
)
