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

package hooks

import (
	"context"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

// Bus is the subset of a D-Bus connection the hooks use.
type Bus interface {
	Call(ctx context.Context, dest, path, method string, args ...any) ([]any, error)
	GetProperty(ctx context.Context, dest, path, prop string) (any, error)
	SetProperty(ctx context.Context, dest, path, prop string, value any) error
}

type connBus struct {
	conn *dbus.Conn
}

// SessionBus connects to the user's session bus.
func SessionBus() (Bus, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session D-Bus: %w", err)
	}
	return &connBus{conn: conn}, nil
}

// SystemBus connects to the system bus.
func SystemBus() (Bus, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system D-Bus: %w", err)
	}
	return &connBus{conn: conn}, nil
}

func (b *connBus) Call(ctx context.Context, dest, path, method string, args ...any) ([]any, error) {
	call := b.conn.Object(dest, dbus.ObjectPath(path)).CallWithContext(ctx, method, 0, args...)
	if call.Err != nil {
		return nil, fmt.Errorf("%s: %w", method, call.Err)
	}
	return call.Body, nil
}

func (b *connBus) GetProperty(ctx context.Context, dest, path, prop string) (any, error) {
	iface, member := splitProp(prop)
	var v dbus.Variant
	err := b.conn.Object(dest, dbus.ObjectPath(path)).
		CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0, iface, member).
		Store(&v)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", prop, err)
	}
	return v.Value(), nil
}

func (b *connBus) SetProperty(ctx context.Context, dest, path, prop string, value any) error {
	iface, member := splitProp(prop)
	call := b.conn.Object(dest, dbus.ObjectPath(path)).
		CallWithContext(ctx, "org.freedesktop.DBus.Properties.Set", 0, iface, member, dbus.MakeVariant(value))
	if call.Err != nil {
		return fmt.Errorf("set %s: %w", prop, call.Err)
	}
	return nil
}

// splitProp splits "a.b.C.Prop" into "a.b.C" and "Prop".
func splitProp(prop string) (iface, member string) {
	i := strings.LastIndexByte(prop, '.')
	if i < 0 {
		return "", prop
	}
	return prop[:i], prop[i+1:]
}
