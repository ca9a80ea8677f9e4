// SPDX-License-Identifier: Apache-2.0

package kernel

import (
	"strconv"
	"strings"
	"unicode"
)

// ParsePackageName extracts (patch, micro) from a kernel image package name.
//
// The name must start with prefix (e.g. "linux-image-6.1") and contain suffix (e.g. "-cloud-amd64").
// Between the two there must be ".<patch>-<micro>", where the patch part may itself be dotted.
// So "linux-image-5.15.0-1015-aws" with prefix "linux-image-5.15" and suffix "-aws" yields (0, 1015).
func ParsePackageName(name, prefix, suffix string) (int, int, bool) {
	if !strings.HasPrefix(name, prefix) || !strings.Contains(name, suffix) {
		return 0, 0, false
	}

	rest := name[len(prefix):]

	// "linux-image-6.1" must not match "linux-image-6.10.3-1-aws"
	if endsWithDigit(prefix) && !strings.HasPrefix(rest, ".") {
		return 0, 0, false
	}
	rest = strings.TrimPrefix(rest, ".")

	if suffix != "" {
		if strings.HasSuffix(rest, suffix) {
			rest = strings.TrimSuffix(rest, suffix)
		} else if idx := strings.Index(rest, suffix); idx >= 0 {
			rest = rest[:idx]
		} else {
			return 0, 0, false
		}
	}

	parts := strings.Split(rest, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}

	var patch int
	for _, field := range strings.Split(parts[0], ".") {
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return 0, 0, false
		}
		patch = n
	}

	micro, err := strconv.Atoi(parts[1])
	if err != nil || micro < 0 {
		return 0, 0, false
	}

	return patch, micro, true
}

func endsWithDigit(s string) bool {
	if s == "" {
		return false
	}
	return unicode.IsDigit(rune(s[len(s)-1]))
}
