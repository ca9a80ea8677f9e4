// SPDX-License-Identifier: Apache-2.0

package hardware

// Supported OS constants
const (
	OSDebian11 = "Debian 11"
	OSUbuntu20 = "Ubuntu 20"
)

var supportedOS = []string{OSDebian11, OSUbuntu20}

// SupportedOS returns the minimum supported OS releases, e.g. "Debian 11"
func SupportedOS() []string {
	return append([]string(nil), supportedOS...)
}
