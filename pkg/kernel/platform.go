// SPDX-License-Identifier: Apache-2.0

package kernel

import (
	"strings"

	"github.com/joomcode/errorx"
)

// Platform is the cloud provider a host runs on. It selects the flavour of kernel packages.
type Platform string

const (
	PlatformGCP   Platform = "gcp"
	PlatformAWS   Platform = "aws"
	PlatformAzure Platform = "azure"

	DefaultPlatform = PlatformGCP
)

var suffixes = map[Platform]string{
	PlatformGCP:   "-cloud-amd64",
	PlatformAWS:   "-aws",
	PlatformAzure: "-azure",
}

// Platforms returns the supported platforms in a stable order
func Platforms() []Platform {
	return []Platform{PlatformGCP, PlatformAWS, PlatformAzure}
}

// ParsePlatform returns the platform for the given name. An empty name selects the default platform.
func ParsePlatform(name string) (Platform, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultPlatform, nil
	}

	p := Platform(name)
	if _, ok := suffixes[p]; !ok {
		return "", errorx.IllegalArgument.New("unsupported cloud provider '%s', expected one of %v", name, Platforms())
	}

	return p, nil
}

// Suffix returns the kernel flavour suffix, e.g. "-cloud-amd64"
func (p Platform) Suffix() string {
	if s, ok := suffixes[p]; ok {
		return s
	}
	return suffixes[DefaultPlatform]
}

func (p Platform) String() string {
	return string(p)
}
