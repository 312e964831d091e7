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

package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/config"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/ipc/client"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/ipc/models"
)

// SecondsPerCell is how many countdown seconds one progress cell stands for.
const SecondsPerCell = 1

// MaxProgressCells caps the progress bar width.
const MaxProgressCells = 40

const (
	cellFull  = "█"
	cellEmpty = "░"
)

const helpLine = "[::b]p[::-] pause  [::b]r[::-] resume  [::b]space/enter[::-] launch now  " +
	"[::b]q/esc[::-] abort"

// View is the rendered text of every line on the wait screen.
type View struct {
	Title    string
	Game     string
	State    string
	Progress string
	Features string
	Help     string
	Error    string
}

// Render builds the wait screen for msg. total is the countdown length the
// progress bar is scaled to.
func Render(msg models.Message, total uint8) View {
	theme := CurrentTheme()
	v := View{
		Title:    "Tinkerlaunch v" + config.AppVersion,
		Game:     fmt.Sprintf("[::b]%s[::-] [%s](%d)[-]", tview.Escape(msg.GameName), theme.Muted, msg.AppID),
		State:    stateLabel(msg),
		Progress: progressBar(msg.CountdownSeconds, total),
		Features: featureLine(msg),
		Help:     helpLine,
	}
	if msg.State == models.StateError {
		v.Error = fmt.Sprintf("[%s]Error:[-] %s", theme.Failed, tview.Escape(msg.Error))
	}
	return v
}

// RenderError shows guidance for a failed poll on top of the last known
// state.
func RenderError(last models.Message, total uint8, err error) View {
	v := Render(last, total)
	kind := client.ClassifyError(err)
	v.Error = fmt.Sprintf("[%s]%s[-]", CurrentTheme().Attention, client.Guidance(kind, last.AppID))
	return v
}

func stateLabel(msg models.Message) string {
	theme := CurrentTheme()
	switch msg.State {
	case models.StateInitializing:
		return "Starting..."
	case models.StateCountdown:
		return fmt.Sprintf("Launching in [%s::b]%ds[-::-]", theme.Countdown, msg.CountdownSeconds)
	case models.StateWaiting:
		return fmt.Sprintf("[%s]Paused[-] with %ds left", theme.Attention, msg.CountdownSeconds)
	case models.StateLaunching:
		return fmt.Sprintf("[%s]Launching[-]", theme.Ready)
	case models.StateRunning:
		return fmt.Sprintf("[%s]Running[-]", theme.Ready)
	case models.StateFinished:
		return "Aborted"
	case models.StateError:
		return fmt.Sprintf("[%s]Error[-]", theme.Failed)
	default:
		return msg.State.String()
	}
}

func cells(seconds uint8) int {
	return min((int(seconds)+SecondsPerCell-1)/SecondsPerCell, MaxProgressCells)
}

func progressBar(remaining, total uint8) string {
	total = max(total, remaining)
	if total == 0 {
		return ""
	}
	full := cells(remaining)
	width := cells(total)
	return strings.Repeat(cellFull, full) + strings.Repeat(cellEmpty, width-full)
}

func onOff(b bool) string {
	if b {
		return "[" + CurrentTheme().Ready + "]on[-]"
	}
	return "[" + CurrentTheme().Muted + "]off[-]"
}

func featureLine(msg models.Message) string {
	return fmt.Sprintf("[::b]m[::-] MangoHud: %s  [::b]g[::-] Gamescope: %s  [::b]o[::-] GameMode: %s",
		onOff(msg.MangoHudEnabled), onOff(msg.GamescopeEnabled), onOff(msg.GameModeEnabled))
}

// KeyAction maps a key press to the request it sends.
func KeyAction(ev *tcell.EventKey) (models.Request, bool) {
	switch ev.Key() { //nolint:exhaustive // only a few keys are bound
	case tcell.KeyEnter:
		return models.Request{Action: models.ActionProceed}, true
	case tcell.KeyEscape:
		return models.Request{Action: models.ActionAbort}, true
	case tcell.KeyRune:
	default:
		return models.Request{}, false
	}

	switch ev.Rune() {
	case 'p', 'P':
		return models.Request{Action: models.ActionPauseLaunch}, true
	case 'r', 'R':
		return models.Request{Action: models.ActionResumeLaunch}, true
	case ' ':
		return models.Request{Action: models.ActionProceed}, true
	case 'q', 'Q':
		return models.Request{Action: models.ActionAbort}, true
	case 'm', 'M':
		return models.Request{Action: models.ActionToggleTinker, TinkerID: "mangohud"}, true
	case 'g', 'G':
		return models.Request{Action: models.ActionToggleTinker, TinkerID: "gamescope"}, true
	case 'o', 'O':
		return models.Request{Action: models.ActionToggleTinker, TinkerID: "gamemode"}, true
	default:
		return models.Request{}, false
	}
}
