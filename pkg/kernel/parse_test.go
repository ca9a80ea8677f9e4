// SPDX-License-Identifier: Apache-2.0

package kernel

import (
	"testing"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePackageName(t *testing.T) {
	tests := []struct {
		name   string
		pkg    string
		prefix string
		suffix string
		patch  int
		micro  int
		ok     bool
	}{
		{name: "aws image", pkg: "linux-image-5.15.0-1015-aws", prefix: "linux-image-5.15", suffix: "-aws", patch: 0, micro: 1015, ok: true},
		{name: "debian cloud image", pkg: "linux-image-6.1.0-18-cloud-amd64", prefix: "linux-image-6.1", suffix: "-cloud-amd64", patch: 0, micro: 18, ok: true},
		{name: "aws image with patch", pkg: "linux-image-5.15.12-2031-aws", prefix: "linux-image-5.15", suffix: "-aws", patch: 12, micro: 2031, ok: true},
		{name: "dotted patch", pkg: "linux-image-6.1.0.3-21-azure", prefix: "linux-image-6.1", suffix: "-azure", patch: 3, micro: 21, ok: true},
		{name: "suffix followed by more text", pkg: "linux-image-6.1.0-18-cloud-amd64-dbg", prefix: "linux-image-6.1", suffix: "-cloud-amd64", patch: 0, micro: 18, ok: true},
		{name: "wrong prefix", pkg: "linux-image-5.10.0-28-cloud-amd64", prefix: "linux-image-6.1", suffix: "-cloud-amd64"},
		{name: "wrong flavour", pkg: "linux-image-6.1.0-18-amd64", prefix: "linux-image-6.1", suffix: "-cloud-amd64"},
		{name: "longer minor", pkg: "linux-image-6.10.0-1-cloud-amd64", prefix: "linux-image-6.1", suffix: "-cloud-amd64"},
		{name: "unsigned variant", pkg: "linux-image-6.1.0-18-cloud-amd64-unsigned", prefix: "linux-image-6.1", suffix: "-cloud-amd64", patch: 0, micro: 18, ok: true},
		{name: "rt flavour", pkg: "linux-image-6.1.0-18-rt-cloud-amd64", prefix: "linux-image-6.1", suffix: "-cloud-amd64"},
		{name: "non numeric micro", pkg: "linux-image-6.1.0-rc1-cloud-amd64", prefix: "linux-image-6.1", suffix: "-cloud-amd64"},
		{name: "missing micro", pkg: "linux-image-6.1.0-cloud-amd64", prefix: "linux-image-6.1", suffix: "-cloud-amd64"},
		{name: "meta package", pkg: "linux-image-cloud-amd64", prefix: "linux-image-6.1", suffix: "-cloud-amd64"},
		{name: "empty", pkg: "", prefix: "linux-image-6.1", suffix: "-cloud-amd64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch, micro, ok := ParsePackageName(tt.pkg, tt.prefix, tt.suffix)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.patch, patch)
				assert.Equal(t, tt.micro, micro)
			}
		})
	}
}

func TestParseRelease(t *testing.T) {
	major, minor, err := ParseRelease("6.1.0-18-cloud-amd64\n")
	require.NoError(t, err)
	assert.Equal(t, 6, major)
	assert.Equal(t, 1, minor)

	major, minor, err = ParseRelease("5.15")
	require.NoError(t, err)
	assert.Equal(t, 5, major)
	assert.Equal(t, 15, minor)

	for _, bad := range []string{"", "6", "six.one.0", "6.x.0", "6.1-rc2"} {
		_, _, err = ParseRelease(bad)
		require.Error(t, err, bad)
		assert.True(t, errorx.IsOfType(err, errorx.IllegalFormat), bad)
	}
}

func TestIdentity(t *testing.T) {
	id := Identity{Major: 6, Minor: 1, Patch: 0, Micro: 18, Suffix: "-cloud-amd64"}

	assert.Equal(t, "6.1.0-18", id.Base())
	assert.Equal(t, "6.1.0-18-cloud-amd64", id.String())
	assert.Equal(t, "linux-image-6.1.0-18-cloud-amd64", id.ImagePackage())
	assert.Equal(t, "linux-headers-6.1.0-18-cloud-amd64", id.HeadersPackage())
}

func TestParsePlatform(t *testing.T) {
	p, err := ParsePlatform("")
	require.NoError(t, err)
	assert.Equal(t, PlatformGCP, p)
	assert.Equal(t, "-cloud-amd64", p.Suffix())

	p, err = ParsePlatform(" AWS ")
	require.NoError(t, err)
	assert.Equal(t, "-aws", p.Suffix())

	p, err = ParsePlatform("azure")
	require.NoError(t, err)
	assert.Equal(t, "-azure", p.Suffix())

	_, err = ParsePlatform("oracle")
	require.Error(t, err)
	assert.True(t, errorx.IsOfType(err, errorx.IllegalArgument))
}
