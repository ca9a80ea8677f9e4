// SPDX-License-Identifier: Apache-2.0

package cuda

import (
	"context"

	"github.com/spyral-ai/ignite/pkg/kernel"
)

//go:generate mockgen -source=interface.go -destination=mock_interface.go -package=cuda

// ArtifactFetcher makes a remote installer available locally
type ArtifactFetcher interface {
	Fetch(ctx context.Context, url string, checksum string) (string, error)
}

// DependencyGate prepares the kernel a driver build needs.
// It returns a RebootRequired error when a new kernel was installed.
type DependencyGate interface {
	Ensure(ctx context.Context, platform kernel.Platform) error
}

// KernelLocker pins the running kernel
type KernelLocker interface {
	Hold(ctx context.Context) error
	Unhold(ctx context.Context) error
}

// ServiceManager controls systemd units
type ServiceManager interface {
	DaemonReload(ctx context.Context) error
	EnableService(ctx context.Context, name string) error
	StartService(ctx context.Context, name string) error
}

// PackageIndex refreshes the list of available packages
type PackageIndex interface {
	Refresh(ctx context.Context) error
}

// TargetResolver computes the kernel a driver should be built against
type TargetResolver interface {
	Resolve(ctx context.Context, platform kernel.Platform) (*kernel.Target, error)
}
