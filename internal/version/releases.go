// SPDX-License-Identifier: Apache-2.0

package version

import "strings"

// Set at build time via ldflags, e.g.
// -ldflags="-X 'github.com/spyral-ai/ignite/internal/version.number=v0.3.0' -X 'github.com/spyral-ai/ignite/internal/version.commit=abc123'"
var (
	number    = "dev"
	commit    = "unknown"
	buildMode string
)

func Commit() string {
	return strings.TrimSpace(commit)
}

func Number() string {
	return strings.TrimSpace(number)
}

// IsReleaseBuild returns true if this binary was built by the release pipeline with buildMode="release"
func IsReleaseBuild() bool {
	return strings.TrimSpace(buildMode) == "release"
}

// BuildMode returns the current build mode ("release" or "dev")
func BuildMode() string {
	if IsReleaseBuild() {
		return "release"
	}
	return "dev"
}
