// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "strconv"

// FormatCount renders n with thousands separators. Counts that are not final
// get a trailing "+".
func FormatCount(n int, final bool) string {
	s := strconv.Itoa(n)
	neg := false
	if n < 0 {
		neg = true
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3+2)
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		out = append([]byte{'-'}, out...)
	}
	if !final {
		out = append(out, '+')
	}
	return string(out)
}

// Percent returns part/total as a whole percentage clamped to [0, 100].
func Percent(part, total int) int {
	if total <= 0 {
		return 100
	}
	p := part * 100 / total
	return max(0, min(100, p))
}
