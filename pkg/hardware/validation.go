// SPDX-License-Identifier: Apache-2.0

package hardware

import (
	"strconv"
	"strings"

	"github.com/joomcode/errorx"
)

var (
	ErrorsNamespace   = errorx.NewNamespace("hardware")
	UnsupportedOS     = ErrorsNamespace.NewType("unsupported_os")
	GPUNotFoundError  = ErrorsNamespace.NewType("gpu_not_found", errorx.NotFound())
	osVendorProperty  = errorx.RegisterPrintableProperty("os_vendor")
	osVersionProperty = errorx.RegisterPrintableProperty("os_version")
)

// ValidateOS checks that the host runs one of the supported Debian-family releases
func ValidateOS(profile HostProfile) error {
	for _, s := range supportedOS {
		if isOSSupported(s, profile) {
			return nil
		}
	}

	return UnsupportedOS.New("unsupported OS '%s %s', expected one of %v",
		profile.GetOSVendor(), profile.GetOSVersion(), supportedOS).
		WithProperty(osVendorProperty, profile.GetOSVendor()).
		WithProperty(osVersionProperty, profile.GetOSVersion())
}

// NvidiaGPUs returns the NVIDIA cards of the host or a NotFound error when there are none
func NvidiaGPUs(profile HostProfile) ([]GPU, error) {
	var found []GPU
	for _, g := range profile.GetGPUs() {
		if g.IsNvidia() {
			found = append(found, g)
		}
	}

	if len(found) == 0 {
		return nil, GPUNotFoundError.New("no NVIDIA GPU found on the PCI bus")
	}

	return found, nil
}

// isOSSupported checks an entry like "Debian 11": same vendor and a major version at least as high
func isOSSupported(supported string, profile HostProfile) bool {
	parts := strings.Fields(strings.ToLower(supported))
	if len(parts) < 2 {
		return false
	}

	if !strings.EqualFold(parts[0], profile.GetOSVendor()) {
		return false
	}

	minVersion, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}

	major, err := strconv.Atoi(strings.Split(profile.GetOSVersion(), ".")[0])
	if err != nil {
		return false
	}

	return major >= minVersion
}
