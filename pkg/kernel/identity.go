// SPDX-License-Identifier: Apache-2.0

package kernel

import (
	"fmt"
	"strconv"
	"strings"
)

// Identity is a Debian kernel version: major.minor.patch-micro followed by the flavour suffix.
type Identity struct {
	Major  int    `yaml:"major" json:"major"`
	Minor  int    `yaml:"minor" json:"minor"`
	Patch  int    `yaml:"patch" json:"patch"`
	Micro  int    `yaml:"micro" json:"micro"`
	Suffix string `yaml:"suffix" json:"suffix"`
}

// Base returns the version without the flavour suffix, e.g. "6.1.0-18"
func (i Identity) Base() string {
	return fmt.Sprintf("%d.%d.%d-%d", i.Major, i.Minor, i.Patch, i.Micro)
}

// String returns the full version, e.g. "6.1.0-18-cloud-amd64"
func (i Identity) String() string {
	return i.Base() + i.Suffix
}

// ImagePackage returns the name of the kernel image package for this version
func (i Identity) ImagePackage() string {
	return "linux-image-" + i.String()
}

// HeadersPackage returns the name of the kernel headers package for this version
func (i Identity) HeadersPackage() string {
	return "linux-headers-" + i.String()
}

// ParseRelease extracts major and minor from a running kernel release such as "6.1.0-18-cloud-amd64".
func ParseRelease(release string) (int, int, error) {
	release = strings.TrimSpace(release)

	fields := strings.SplitN(release, ".", 3)
	if len(fields) < 2 {
		return 0, 0, NewMalformedReleaseError(nil, release)
	}

	major, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, NewMalformedReleaseError(err, release)
	}

	minor, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, NewMalformedReleaseError(err, release)
	}

	return major, minor, nil
}
