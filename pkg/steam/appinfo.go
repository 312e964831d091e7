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

package steam

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// appinfo.vdf header magics.
const (
	magic27 uint32 = 0x07564427
	magic28 uint32 = 0x07564428 // adds binary data hash per entry
	magic29 uint32 = 0x07564429 // keys move to a trailing string table
)

// Binary key/value type markers.
const (
	kvNested  uint8 = 0x00
	kvString  uint8 = 0x01
	kvInt32   uint8 = 0x02
	kvFloat32 uint8 = 0x03
	kvUint64  uint8 = 0x07
	kvEnd     uint8 = 0x08
	kvInt64   uint8 = 0x0a
)

var (
	ErrInvalidMagic    = errors.New("invalid appinfo.vdf magic header")
	ErrAppNotFound     = errors.New("app not found in appinfo.vdf")
	ErrInvalidFormat   = errors.New("invalid binary VDF format")
	ErrNoLaunchConfig  = errors.New("no launch config found")
	errUnexpectedEntry = errors.New("appinfo entry extends past end of file")
)

// LaunchConfig is one entry of an app's config/launch section.
type LaunchConfig struct {
	Key        string
	Executable string
	Arguments  string
	Type       string
	OSList     string
	WorkingDir string
}

// binaryKV reads little-endian binary key/value data.
type binaryKV struct {
	data  []byte
	pool  []string
	pos   int
	magic uint32
}

func (r *binaryKV) need(n int) error {
	if n < 0 || r.pos+n > len(r.data) {
		return io.ErrUnexpectedEOF
	}
	return nil
}

func (r *binaryKV) u8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *binaryKV) u32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *binaryKV) u64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *binaryKV) skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

func (r *binaryKV) cstring() (string, error) {
	end := slices.Index(r.data[r.pos:], 0)
	if end < 0 {
		return "", io.ErrUnexpectedEOF
	}
	s := string(r.data[r.pos : r.pos+end])
	r.pos += end + 1
	return s, nil
}

// key reads an inline key, or a string pool index for v29 files.
func (r *binaryKV) key() (string, error) {
	if r.magic != magic29 {
		return r.cstring()
	}
	idx, err := r.u32()
	if err != nil {
		return "", err
	}
	if int(idx) >= len(r.pool) {
		return "", fmt.Errorf("%w: string index %d out of range", ErrInvalidFormat, idx)
	}
	return r.pool[idx], nil
}

// object reads key/value pairs until the end marker. Keys are lowercased.
func (r *binaryKV) object() (map[string]any, error) {
	out := make(map[string]any)
	for {
		t, err := r.u8()
		if err != nil {
			return nil, err
		}
		if t == kvEnd {
			return out, nil
		}

		k, err := r.key()
		if err != nil {
			return nil, err
		}
		k = strings.ToLower(k)

		switch t {
		case kvNested:
			v, err := r.object()
			if err != nil {
				return nil, err
			}
			out[k] = v
		case kvString:
			v, err := r.cstring()
			if err != nil {
				return nil, err
			}
			out[k] = v
		case kvInt32:
			v, err := r.u32()
			if err != nil {
				return nil, err
			}
			out[k] = int32(v) //nolint:gosec // reinterpreting the wire bits
		case kvFloat32:
			v, err := r.u32()
			if err != nil {
				return nil, err
			}
			out[k] = math.Float32frombits(v)
		case kvUint64:
			v, err := r.u64()
			if err != nil {
				return nil, err
			}
			out[k] = v
		case kvInt64:
			v, err := r.u64()
			if err != nil {
				return nil, err
			}
			out[k] = int64(v) //nolint:gosec // reinterpreting the wire bits
		default:
			return nil, fmt.Errorf("%w: type 0x%02x", ErrInvalidFormat, t)
		}
	}
}

func (r *binaryKV) readStringPool(offset uint64) error {
	if offset > uint64(len(r.data)) {
		return fmt.Errorf("%w: string table offset %d", ErrInvalidFormat, offset)
	}
	saved := r.pos
	r.pos = int(offset) //nolint:gosec // bounded above
	defer func() { r.pos = saved }()

	count, err := r.u32()
	if err != nil {
		return err
	}
	if int(count) > len(r.data)-r.pos {
		return fmt.Errorf("%w: string table count %d", ErrInvalidFormat, count)
	}
	r.pool = make([]string, count)
	for i := range r.pool {
		if r.pool[i], err = r.cstring(); err != nil {
			return err
		}
	}
	return nil
}

// parseAppInfo finds appID in appinfo.vdf data and returns its key/value
// tree.
func parseAppInfo(data []byte, appID uint32) (map[string]any, error) {
	r := &binaryKV{data: data}

	magic, err := r.u32()
	if err != nil {
		return nil, err
	}
	if magic != magic27 && magic != magic28 && magic != magic29 {
		return nil, ErrInvalidMagic
	}
	r.magic = magic

	// universe
	if err := r.skip(4); err != nil {
		return nil, err
	}

	if magic == magic29 {
		offset, err := r.u64()
		if err != nil {
			return nil, err
		}
		if err := r.readStringPool(offset); err != nil {
			return nil, err
		}
	}

	for {
		entryID, err := r.u32()
		if err != nil {
			return nil, err
		}
		if entryID == 0 {
			return nil, ErrAppNotFound
		}

		size, err := r.u32()
		if err != nil {
			return nil, err
		}
		end := r.pos + int(size)
		if end > len(r.data) {
			return nil, errUnexpectedEntry
		}

		if entryID != appID {
			r.pos = end
			continue
		}

		// infoState, lastUpdated, token, sha1, changeNumber
		header := 4 + 4 + 8 + 20 + 4
		if magic != magic27 {
			header += 20 // binary data sha1
		}
		if err := r.skip(header); err != nil {
			return nil, err
		}

		obj, err := r.object()
		if err != nil {
			return nil, err
		}
		// Entries wrap their data in an "appinfo" object.
		if inner, ok := obj["appinfo"].(map[string]any); ok {
			return inner, nil
		}
		return obj, nil
	}
}

// LaunchConfigs reads the launch entries for appID from
// <root>/appcache/appinfo.vdf, ordered by their numeric key.
func (l *Library) LaunchConfigs(appID uint32) ([]LaunchConfig, error) {
	path := filepath.Join(l.root, "appcache", "appinfo.vdf")
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read appinfo.vdf: %w", err)
	}

	obj, err := parseAppInfo(data, appID)
	if err != nil {
		return nil, err
	}
	return extractLaunchConfigs(obj), nil
}

func extractLaunchConfigs(obj map[string]any) []LaunchConfig {
	launch, ok := lookupPath(obj, "config", "launch")
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(launch))
	for k := range launch {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareNumeric)

	var configs []LaunchConfig
	for _, k := range keys {
		entry, ok := launch[k].(map[string]any)
		if !ok {
			continue
		}
		lc := LaunchConfig{Key: k}
		lc.Executable, _ = entry["executable"].(string)
		lc.Arguments, _ = entry["arguments"].(string)
		lc.Type, _ = entry["type"].(string)
		lc.WorkingDir, _ = entry["workingdir"].(string)
		if sub, ok := entry["config"].(map[string]any); ok {
			lc.OSList, _ = sub["oslist"].(string)
		}
		if lc.Executable != "" {
			configs = append(configs, lc)
		}
	}
	return configs
}

// SelectLaunchConfig picks the launch entry for targetOS ("linux" or
// "windows"). Entries of type "default" or without a type are preferred,
// then any entry for the OS, then entries with no OS list.
func SelectLaunchConfig(configs []LaunchConfig, targetOS string) (LaunchConfig, error) {
	var forOS, anyOS *LaunchConfig
	for i := range configs {
		c := &configs[i]
		matches := c.OSList != "" && strings.Contains(c.OSList, targetOS)
		if matches && (c.Type == "" || c.Type == "default") {
			return *c, nil
		}
		if matches && forOS == nil {
			forOS = c
		}
		if c.OSList == "" && anyOS == nil {
			anyOS = c
		}
	}
	switch {
	case forOS != nil:
		return *forOS, nil
	case anyOS != nil:
		return *anyOS, nil
	default:
		return LaunchConfig{}, ErrNoLaunchConfig
	}
}
