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
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/helpers/syncutil"
)

// Theme holds the wait screen colors. The string fields are tview color
// tag names.
type Theme struct {
	Name       string
	Countdown  string
	Attention  string
	Ready      string
	Failed     string
	Muted      string
	Background tcell.Color
	Border     tcell.Color
	Text       tcell.Color
}

var themes = []Theme{
	{
		Name:       "default",
		Countdown:  "yellow",
		Attention:  "orange",
		Ready:      "green",
		Failed:     "red",
		Muted:      "gray",
		Background: tcell.ColorDefault,
		Border:     tcell.ColorLightYellow,
		Text:       tcell.ColorWhite,
	},
	{
		Name:       "high_contrast",
		Countdown:  "yellow",
		Attention:  "yellow",
		Ready:      "lime",
		Failed:     "red",
		Muted:      "white",
		Background: tcell.NewHexColor(0x000000),
		Border:     tcell.ColorYellow,
		Text:       tcell.ColorWhite,
	},
	{
		Name:       "nord",
		Countdown:  "#88c0d0",
		Attention:  "#ebcb8b",
		Ready:      "#a3be8c",
		Failed:     "#bf616a",
		Muted:      "#4c566a",
		Background: tcell.NewHexColor(0x2E3440),
		Border:     tcell.NewHexColor(0x88C0D0),
		Text:       tcell.NewHexColor(0xECEFF4),
	},
}

var (
	currentTheme = &themes[0]
	themeMu      syncutil.RWMutex
)

// ThemeNames lists the selectable themes, default first.
func ThemeNames() []string {
	names := make([]string, len(themes))
	for i := range themes {
		names[i] = themes[i].Name
	}
	return names
}

func CurrentTheme() *Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// SetCurrentTheme selects a theme by name, case-insensitively, and applies
// it to tview's global styles. Unknown names leave the theme unchanged.
func SetCurrentTheme(name string) bool {
	i := slices.IndexFunc(themes, func(t Theme) bool {
		return strings.EqualFold(t.Name, name)
	})
	if i < 0 {
		return false
	}
	themeMu.Lock()
	currentTheme = &themes[i]
	themeMu.Unlock()

	tview.Styles.PrimitiveBackgroundColor = themes[i].Background
	tview.Styles.BorderColor = themes[i].Border
	tview.Styles.PrimaryTextColor = themes[i].Text
	return true
}
