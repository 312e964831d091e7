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
	"errors"
	"fmt"
	"path/filepath"

	"github.com/tinkerlaunch/tinkerlaunch/pkg/config"
)

var ErrRelativePath = errors.New("path must be absolute")

// ContextArgs are the inputs to NewContext.
type ContextArgs struct {
	Config      *config.GameConfig
	Session     *Session
	GameName    string
	InstallDir  string
	Executable  string
	CompatLayer string
	PrefixDir   string
	ConfigDir   string
	ScratchDir  string
	AppID       uint32
}

// Context is the per-launch bundle passed to every tinker call. It is built
// once by the launcher and must not be modified afterwards.
type Context struct {
	config      *config.GameConfig
	session     *Session
	gameName    string
	installDir  string
	executable  string
	compatLayer string
	prefixDir   string
	configDir   string
	scratchDir  string
	appID       uint32
}

// NewContext validates args and returns an immutable Context. All non-empty
// paths must be absolute. A nil Config is replaced by the game defaults and a
// nil Session by a fresh one.
func NewContext(args ContextArgs) (*Context, error) {
	paths := []struct {
		name  string
		value string
	}{
		{"install dir", args.InstallDir},
		{"executable", args.Executable},
		{"compat layer", args.CompatLayer},
		{"prefix dir", args.PrefixDir},
		{"config dir", args.ConfigDir},
		{"scratch dir", args.ScratchDir},
	}
	for _, p := range paths {
		if p.value != "" && !filepath.IsAbs(p.value) {
			return nil, fmt.Errorf("%s %q: %w", p.name, p.value, ErrRelativePath)
		}
	}

	cfg := args.Config
	if cfg == nil {
		defaults := config.DefaultGameConfig(args.AppID)
		cfg = &defaults
	}
	session := args.Session
	if session == nil {
		session = NewSession()
	}

	return &Context{
		config:      cfg,
		session:     session,
		gameName:    args.GameName,
		installDir:  args.InstallDir,
		executable:  args.Executable,
		compatLayer: args.CompatLayer,
		prefixDir:   args.PrefixDir,
		configDir:   args.ConfigDir,
		scratchDir:  args.ScratchDir,
		appID:       args.AppID,
	}, nil
}

func (c *Context) AppID() uint32       { return c.appID }
func (c *Context) GameName() string    { return c.gameName }
func (c *Context) InstallDir() string  { return c.installDir }
func (c *Context) Executable() string  { return c.executable }
func (c *Context) CompatLayer() string { return c.compatLayer }
func (c *Context) PrefixDir() string   { return c.prefixDir }
func (c *Context) ConfigDir() string   { return c.configDir }
func (c *Context) ScratchDir() string  { return c.scratchDir }
func (c *Context) Session() *Session   { return c.session }
func (c *Context) Native() bool        { return c.compatLayer == "" }

// Config returns the resolved game settings. Tinkers must treat it as
// read-only.
func (c *Context) Config() *config.GameConfig { return c.config }
