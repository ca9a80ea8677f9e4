// SPDX-License-Identifier: Apache-2.0

package cuda

import (
	"context"
	"fmt"

	"github.com/automa-saga/logx"
	"github.com/bluet/syspkg/manager"
	"github.com/spyral-ai/ignite/pkg/execx"
	"github.com/spyral-ai/ignite/pkg/kernel"
	"github.com/spyral-ai/ignite/pkg/software"
)

const (
	aptUpdateCmd = "apt-get update"

	// make and gcc are listed twice on purpose; the line is compared verbatim in tests
	dependencyInstallCmd = "apt-get install -y make gcc %s %s software-properties-common pciutils gcc make dkms"
)

// AptIndex refreshes the package index with apt-get
type AptIndex struct {
	runner execx.Runner
}

func NewAptIndex(runner execx.Runner) *AptIndex {
	return &AptIndex{runner: runner}
}

func (a *AptIndex) Refresh(ctx context.Context) error {
	_, err := a.runner.Run(ctx, execx.Command{Line: aptUpdateCmd, Check: true})
	return err
}

type refresher interface {
	Refresh(opts *manager.Options) error
}

// SyspkgIndex refreshes the package index through the detected system package manager
type SyspkgIndex struct {
	pm refresher
}

func NewSyspkgIndex() (*SyspkgIndex, error) {
	pm, err := software.GetPackageManager()
	if err != nil {
		return nil, err
	}
	return &SyspkgIndex{pm: pm}, nil
}

func (s *SyspkgIndex) Refresh(ctx context.Context) error {
	if err := s.pm.Refresh(software.NonInteractiveOptions()); err != nil {
		return software.NewPackageManagerError(err, "refresh")
	}
	return nil
}

// Gate installs the kernel and toolchain packages a driver build needs and decides whether the host
// must reboot into a new kernel before the driver can be installed.
type Gate struct {
	runner   execx.Runner
	resolver TargetResolver
	index    PackageIndex
}

func NewGate(runner execx.Runner, resolver TargetResolver, index PackageIndex) *Gate {
	if resolver == nil {
		resolver = kernel.NewResolver(runner)
	}
	if index == nil {
		index = NewAptIndex(runner)
	}

	return &Gate{runner: runner, resolver: resolver, index: index}
}

// Ensure returns nil when the driver can be built against the running kernel, or a RebootRequired error
// when a newer kernel was installed and the host has to boot into it first.
func (g *Gate) Ensure(ctx context.Context, platform kernel.Platform) error {
	if err := g.index.Refresh(ctx); err != nil {
		return err
	}

	target, err := g.resolver.Resolve(ctx, platform)
	if err != nil {
		return err
	}

	if target.MatchesInstalled {
		logx.As().Info().Str("kernel", target.Identity.String()).Msg("Required kernel and headers are already installed")
		return nil
	}

	line := fmt.Sprintf(dependencyInstallCmd, target.ImagePackage, target.HeadersPackage)
	if _, err := g.runner.Run(ctx, execx.Command{Line: line, Check: true}); err != nil {
		return err
	}

	if !target.RunningKernel() {
		logx.As().Warn().
			Str("running", target.Running).
			Str("target", target.Identity.String()).
			Msg("New kernel installed, the system needs to reboot")
		return NewRebootRequiredError(fmt.Sprintf("kernel %s installed while running %s", target.Identity, target.Running))
	}

	logx.As().Info().Str("kernel", target.Running).Msg("Kernel already matches the required version, no reboot needed")
	return nil
}
