// SPDX-License-Identifier: Apache-2.0

package kernel

import "context"

//go:generate mockgen -source=interface.go -destination=mock_interface.go -package=kernel

// CandidateSource lists the kernel image packages available in the package index.
// Implementations hide how the index is queried and how its output is parsed.
type CandidateSource interface {
	// ListImageCandidates returns the names of all available packages starting with prefix
	ListImageCandidates(ctx context.Context, prefix string) ([]string, error)
}

// PackageDB answers whether a package is installed on the host
type PackageDB interface {
	IsInstalled(ctx context.Context, name string) (bool, error)
}
