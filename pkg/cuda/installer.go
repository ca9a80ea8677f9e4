// SPDX-License-Identifier: Apache-2.0

package cuda

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/automa-saga/logx"
	"github.com/joomcode/errorx"
	"github.com/spyral-ai/ignite/pkg/execx"
	"github.com/spyral-ai/ignite/pkg/kernel"
	"github.com/spyral-ai/ignite/pkg/systemd"
)

const (
	whichNvidiaSmiCmd = "which nvidia-smi"
	nvidiaSmiListCmd  = "nvidia-smi -L"
)

// Installer installs, verifies and removes the NVIDIA driver and the CUDA toolkit of one release.
//
// It keeps no state of its own: every operation inspects the host (nvidia-smi, nvcc, package status)
// so that it can be re-run after a reboot or an interruption.
type Installer struct {
	release  Release
	platform kernel.Platform
	runner   execx.Runner
	fetcher  ArtifactFetcher
	gate     DependencyGate
	locker   KernelLocker
	services ServiceManager

	profileFile         string
	tempDir             string
	persistencedBinary  string
	persistencedArchive string

	env Environment
}

type Option func(*Installer)

func WithPlatform(p kernel.Platform) Option {
	return func(i *Installer) {
		if p != "" {
			i.platform = p
		}
	}
}

func WithGate(g DependencyGate) Option {
	return func(i *Installer) {
		if g != nil {
			i.gate = g
		}
	}
}

func WithKernelLocker(l KernelLocker) Option {
	return func(i *Installer) {
		if l != nil {
			i.locker = l
		}
	}
}

func WithServiceManager(s ServiceManager) Option {
	return func(i *Installer) {
		if s != nil {
			i.services = s
		}
	}
}

// WithProfileFile sets where the shell profile fragment is written
func WithProfileFile(path string) Option {
	return func(i *Installer) {
		if path != "" {
			i.profileFile = path
		}
	}
}

// WithTempDir sets the parent of the scratch directories; empty means os.TempDir()
func WithTempDir(dir string) Option {
	return func(i *Installer) {
		i.tempDir = dir
	}
}

// WithPersistencedPaths overrides where the persistence daemon binary and its init archive are looked up
func WithPersistencedPaths(binary string, archive string) Option {
	return func(i *Installer) {
		if binary != "" {
			i.persistencedBinary = binary
		}
		if archive != "" {
			i.persistencedArchive = archive
		}
	}
}

// WithEnvironment sets the environment PostInstall starts from
func WithEnvironment(env Environment) Option {
	return func(i *Installer) {
		i.env = env
	}
}

func NewInstaller(release Release, runner execx.Runner, fetcher ArtifactFetcher, opts ...Option) (*Installer, error) {
	if runner == nil || fetcher == nil {
		return nil, errorx.IllegalArgument.New("installer requires a runner and a fetcher")
	}

	i := &Installer{
		release:             release,
		platform:            kernel.DefaultPlatform,
		runner:              runner,
		fetcher:             fetcher,
		profileFile:         DefaultProfileFile,
		persistencedBinary:  DefaultPersistencedBinary,
		persistencedArchive: DefaultPersistencedArchive,
		env:                 CurrentEnvironment(),
	}

	for _, opt := range opts {
		opt(i)
	}

	if i.gate == nil {
		i.gate = NewGate(runner, kernel.NewResolver(runner), NewAptIndex(runner))
	}
	if i.locker == nil {
		i.locker = kernel.NewLocker(runner)
	}
	if i.services == nil {
		i.services = systemd.NewManager()
	}

	return i, nil
}

func (i *Installer) Release() Release {
	return i.release
}

// Environment returns the environment after the last PostInstall
func (i *Installer) Environment() Environment {
	return i.env
}

// InstallDriver installs the GPU driver bundled with the release.
//
// A RebootRequired error means a new kernel was installed and the call must be repeated after rebooting.
// A driver that installs but cannot be verified is logged and does not fail the call.
func (i *Installer) InstallDriver(ctx context.Context) error {
	if err := i.gate.Ensure(ctx, i.platform); err != nil {
		return err
	}

	logx.As().Info().Str("version", i.release.Version).Msg("Installing GPU driver")

	installer, err := i.fetchInstaller(ctx)
	if err != nil {
		return err
	}

	if _, err := i.runner.Run(ctx, execx.Command{Line: fmt.Sprintf("sh %s --silent --driver", installer), Check: true}); err != nil {
		return err
	}

	verified, err := i.VerifyDriver(ctx, true)
	if err != nil {
		return err
	}

	if !verified {
		logx.As().Warn().Err(NewVerificationFailedError(i.release.Version)).
			Msg("Driver installation finished but the driver could not be verified, kernel updates are not locked")
		return nil
	}

	if err := i.locker.Hold(ctx); err != nil {
		return err
	}

	logx.As().Info().Str("driver", i.release.DriverVersion).Msg("GPU driver installed successfully")
	return nil
}

// VerifyDriver reports whether nvidia-smi is installed and lists at least one GPU
func (i *Installer) VerifyDriver(ctx context.Context, verbose bool) (bool, error) {
	res, err := i.runner.Run(ctx, execx.Command{Line: whichNvidiaSmiCmd, Silent: true})
	if err != nil {
		return false, err
	}

	if !res.Success() {
		if verbose {
			logx.As().Warn().Msg("Couldn't find nvidia-smi, the driver is not installed")
		}
		return false, nil
	}

	res, err = i.runner.Run(ctx, execx.Command{Line: nvidiaSmiListCmd, Silent: true})
	if err != nil {
		return false, err
	}

	ok := res.Success() && strings.Contains(res.Stdout, "UUID")
	if verbose {
		logx.As().Info().
			Bool("verified", ok).
			Str("stdout", strings.TrimSpace(res.Stdout)).
			Str("stderr", strings.TrimSpace(res.Stderr)).
			Msg("nvidia-smi -L output")
	}

	return ok, nil
}

// UninstallDriver removes the driver with the uninstaller shipped inside the toolkit installer,
// then releases the kernel hold. Nothing happens when no driver is found.
func (i *Installer) UninstallDriver(ctx context.Context) error {
	verified, err := i.VerifyDriver(ctx, false)
	if err != nil {
		return err
	}
	if !verified {
		logx.As().Info().Msg("GPU driver not found, nothing to uninstall")
		return nil
	}

	installer, err := i.fetchInstaller(ctx)
	if err != nil {
		return err
	}

	tmp, err := i.scratchDir("ignite-driver-")
	if err != nil {
		return errorx.IllegalState.Wrap(err, "failed to create temporary directory")
	}
	defer func() {
		if err := os.RemoveAll(tmp); err != nil {
			logx.As().Warn().Err(err).Str("path", tmp).Msg("Failed to remove temporary directory")
		}
	}()

	logx.As().Info().Str("path", tmp).Msg("Extracting NVIDIA driver installer")
	if _, err := i.runner.Run(ctx, execx.Command{Line: fmt.Sprintf("sh %s --extract=%s", installer, tmp), Check: true}); err != nil {
		return err
	}

	driverInstaller := filepath.Join(tmp, i.release.DriverInstallerName())
	if _, err := i.runner.Run(ctx, execx.Command{Line: fmt.Sprintf("sh %s -s --uninstall", driverInstaller), Check: true}); err != nil {
		return err
	}

	if err := i.locker.Unhold(ctx); err != nil {
		return err
	}

	logx.As().Info().Str("driver", i.release.DriverVersion).Msg("GPU driver uninstalled")
	return nil
}

// InstallToolkit installs the CUDA toolkit, installing the driver first when needed.
//
// On success it returns RebootRequired so that the new driver and environment are picked up by a fresh boot.
// A toolkit that is already present (nvcc exists) is left alone and nil is returned.
func (i *Installer) InstallToolkit(ctx context.Context) error {
	verified, err := i.VerifyDriver(ctx, false)
	if err != nil {
		return err
	}

	if !verified {
		logx.As().Info().Msg("CUDA installation requires the GPU driver, installing it first")
		if err := i.InstallDriver(ctx); err != nil {
			return err
		}
	}

	nvcc := filepath.Join(i.release.BinDir, "nvcc")
	if _, err := os.Stat(nvcc); err == nil {
		logx.As().Info().Str("nvcc", nvcc).Str("version", i.release.Version).Msg("CUDA toolkit already installed")
		return nil
	}

	installer, err := i.fetchInstaller(ctx)
	if err != nil {
		return err
	}

	logx.As().Info().Str("version", i.release.Version).Msg("Installing CUDA toolkit")
	if _, err := i.runner.Run(ctx, execx.Command{Line: fmt.Sprintf("sh %s --silent --toolkit", installer), Check: true}); err != nil {
		return err
	}

	env, err := i.PostInstall(ctx, i.env)
	if err != nil {
		return err
	}
	i.env = env

	return NewRebootRequiredError(fmt.Sprintf("CUDA %s toolkit installed", i.release.Version))
}

// scratchDir creates a fresh directory under tempDir, creating tempDir itself when needed
func (i *Installer) scratchDir(pattern string) (string, error) {
	if i.tempDir != "" {
		if err := os.MkdirAll(i.tempDir, 0755); err != nil {
			return "", err
		}
	}
	return os.MkdirTemp(i.tempDir, pattern)
}

func (i *Installer) fetchInstaller(ctx context.Context) (string, error) {
	if !i.release.ChecksumVerified {
		logx.As().Warn().
			Str("version", i.release.Version).
			Str("checksum", i.release.Checksum).
			Msg("The checksum of this CUDA release is a placeholder, a fresh download will fail its integrity check")
	}
	return i.fetcher.Fetch(ctx, i.release.URL, i.release.Checksum)
}
