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


// Package fuzzy suggests the closest known name for a mistyped one.
package fuzzy

import (
	"strings"

	"github.com/hbollon/go-edlib"
)

// MinSimilarity is the Jaro-Winkler score a candidate needs to be offered
// as a suggestion.
const MinSimilarity float32 = 0.8

// Closest returns the candidate most similar to query, compared
// case-insensitively. Exact matches are not suggestions.
func Closest(query string, candidates []string) (string, bool) {
	q := strings.ToLower(query)
	var best string
	var bestScore float32
	for _, c := range candidates {
		lc := strings.ToLower(c)
		if lc == q {
			continue
		}
		if s := edlib.JaroWinklerSimilarity(q, lc); s > bestScore {
			best, bestScore = c, s
		}
	}
	if bestScore < MinSimilarity {
		return "", false
	}
	return best, true
}

// Hint formats a "did you mean" suffix, or returns "" without a match.
func Hint(query string, candidates []string) string {
	if c, ok := Closest(query, candidates); ok {
		return " (did you mean " + c + "?)"
	}
	return ""
}
