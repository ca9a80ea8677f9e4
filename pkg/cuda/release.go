// SPDX-License-Identifier: Apache-2.0

package cuda

import (
	"fmt"
	"path"

	"github.com/Masterminds/semver/v3"
	"github.com/joomcode/errorx"
)

// DefaultVersion is the toolkit release installed when none is requested.
// It is the newest release whose checksum is known to match the published installer.
const DefaultVersion = "12.5"

const downloadBaseURL = "https://developer.download.nvidia.com/compute/cuda"

// Release describes one downloadable CUDA toolkit release and the driver it bundles.
type Release struct {
	Version       string `yaml:"version" json:"version"`
	URL           string `yaml:"url" json:"url"`
	Checksum      string `yaml:"checksum" json:"checksum"`
	BinDir        string `yaml:"binDir" json:"binDir"`
	LibDir        string `yaml:"libDir" json:"libDir"`
	DriverVersion string `yaml:"driverVersion" json:"driverVersion"`

	// ChecksumVerified is false while Checksum is a placeholder; fetching such a release fails its integrity check
	ChecksumVerified bool `yaml:"checksumVerified" json:"checksumVerified"`
}

// InstallerName returns the file name of the runfile installer
func (r Release) InstallerName() string {
	return path.Base(r.URL)
}

// DriverInstallerName returns the name of the driver runfile found inside the extracted toolkit installer
func (r Release) DriverInstallerName() string {
	return fmt.Sprintf("NVIDIA-Linux-x86_64-%s.run", r.DriverVersion)
}

func newRelease(version string, driver string, checksum string, verified bool) Release {
	return Release{
		Version:       version,
		URL:           fmt.Sprintf("%s/%s.0/local_installers/cuda_%s.0_%s_linux.run", downloadBaseURL, version, version, driver),
		Checksum:      checksum,
		BinDir:        fmt.Sprintf("/usr/local/cuda-%s/bin", version),
		LibDir:        fmt.Sprintf("/usr/local/cuda-%s/lib64", version),
		DriverVersion: driver,

		ChecksumVerified: verified,
	}
}

var registry = []Release{
	newRelease("12.5", "555.42.02", "0bf587ce20c8e74b90701be56ae2c907", true),
	// TODO: replace the placeholder checksums of 12.6 to 12.8 with the md5 sums published by NVIDIA
	newRelease("12.6", "535.161.07", "a4d6d4f1e9b3e9c1a7c9b9c9e9b9e9c9", false),
	newRelease("12.7", "545.23.08", "b4d6d4f1e9b3e9c1a7c9b9c9e9b9e9c9", false),
	newRelease("12.8", "550.54.14", "c4d6d4f1e9b3e9c1a7c9b9c9e9b9e9c9", false),
}

// Releases returns the supported releases, oldest first
func Releases() []Release {
	return append([]Release(nil), registry...)
}

// SupportedVersions returns the version identifiers of all supported releases
func SupportedVersions() []string {
	versions := make([]string, 0, len(registry))
	for _, r := range registry {
		versions = append(versions, r.Version)
	}
	return versions
}

// Lookup returns the release for a version such as "12.8", "12.8.0" or "v12.8".
// An empty version selects DefaultVersion.
func Lookup(version string) (Release, error) {
	if version == "" {
		version = DefaultVersion
	}

	wanted, err := semver.NewVersion(version)
	if err != nil {
		return Release{}, errorx.IllegalArgument.Wrap(err, "invalid CUDA version '%s'", version)
	}

	if wanted.Patch() == 0 && wanted.Prerelease() == "" {
		for _, r := range registry {
			v := semver.MustParse(r.Version)
			if v.Major() == wanted.Major() && v.Minor() == wanted.Minor() {
				return r, nil
			}
		}
	}

	return Release{}, errorx.IllegalArgument.New("unsupported CUDA version '%s', supported versions are %v",
		version, SupportedVersions())
}
