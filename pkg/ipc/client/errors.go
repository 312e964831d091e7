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

package client

import (
	"errors"
	"fmt"
)

// ErrorKind groups client errors by the advice shown to the user.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNotRunning
	KindRefused
	KindTimeout
	KindMalformed
	KindDisconnected
	KindOther
)

func ClassifyError(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrDaemonNotRunning):
		return KindNotRunning
	case errors.Is(err, ErrConnectionRefused):
		return KindRefused
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrMalformedReply):
		return KindMalformed
	case errors.Is(err, ErrNoReply):
		return KindDisconnected
	default:
		return KindOther
	}
}

// Guidance is a one-line hint for the user.
func Guidance(kind ErrorKind, appID uint32) string {
	switch kind {
	case KindNone:
		return ""
	case KindNotRunning:
		return fmt.Sprintf("No wait daemon is running for app %d. Start one with: tinkerlaunch launch %d", appID, appID)
	case KindRefused:
		return fmt.Sprintf("The daemon for app %d has exited and left a stale socket. Relaunch with: tinkerlaunch launch %d",
			appID, appID)
	case KindTimeout:
		return "The daemon did not answer in time. Retrying..."
	case KindMalformed:
		return "The daemon sent a reply this client cannot read. Check that both are the same version."
	case KindDisconnected:
		return "The daemon closed the connection. It may be shutting down."
	default:
		return "Unexpected error talking to the daemon. See the log for details."
	}
}
