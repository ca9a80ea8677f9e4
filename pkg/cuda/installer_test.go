// SPDX-License-Identifier: Apache-2.0

package cuda

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/joomcode/errorx"
	"github.com/spyral-ai/ignite/pkg/execx"
	"github.com/spyral-ai/ignite/pkg/kernel"
	"github.com/spyral-ai/ignite/pkg/software"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cachedInstaller = "/var/cache/ignite/downloads/cuda_12.8.0_550.54.14_linux.run"

type fixture struct {
	runner    *execx.MockRunner
	fetcher   *MockArtifactFetcher
	gate      *MockDependencyGate
	locker    *MockKernelLocker
	services  *MockServiceManager
	installer *Installer
	release   Release
	dir       string
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	t.Setenv("PATH", os.Getenv("PATH"))
	t.Setenv("LD_LIBRARY_PATH", os.Getenv("LD_LIBRARY_PATH"))

	ctrl := gomock.NewController(t)
	dir := t.TempDir()

	release, err := Lookup("12.8")
	require.NoError(t, err)
	release.BinDir = filepath.Join(dir, "cuda-12.8", "bin")
	release.LibDir = filepath.Join(dir, "cuda-12.8", "lib64")

	f := &fixture{
		runner:   execx.NewMockRunner(ctrl),
		fetcher:  NewMockArtifactFetcher(ctrl),
		gate:     NewMockDependencyGate(ctrl),
		locker:   NewMockKernelLocker(ctrl),
		services: NewMockServiceManager(ctrl),
		release:  release,
		dir:      dir,
	}

	all := append([]Option{
		WithPlatform(kernel.PlatformAWS),
		WithGate(f.gate),
		WithKernelLocker(f.locker),
		WithServiceManager(f.services),
		WithTempDir(dir),
		WithProfileFile(filepath.Join(dir, "profile.d", "spyral_cuda_install.sh")),
		WithPersistencedPaths(filepath.Join(dir, "missing", "nvidia-persistenced"), filepath.Join(dir, "missing", "init.tar.bz2")),
		WithEnvironment(Environment{Path: "/usr/bin"}),
	}, opts...)

	f.installer, err = NewInstaller(release, f.runner, f.fetcher, all...)
	require.NoError(t, err)

	return f
}

// expectVerify registers the two nvidia-smi probes; only "which" is expected when the binary is missing
func (f *fixture) expectVerify(present bool, listed bool) *gomock.Call {
	which := f.runner.EXPECT().Run(gomock.Any(), execx.HasLine("which nvidia-smi"))
	if !present {
		return which.Return(execx.Failed("which nvidia-smi", 1, ""), nil)
	}
	which.Return(execx.Succeeded("which nvidia-smi", "/usr/bin/nvidia-smi\n"), nil)

	out := "No devices were found"
	if listed {
		out = "GPU 0: Tesla T4 (UUID: GPU-4b1e4d47-0d55-7d42-1f3e-8a4c2b5f9e11)"
	}
	return f.runner.EXPECT().Run(gomock.Any(), execx.HasLine("nvidia-smi -L")).After(which).
		Return(execx.Succeeded("nvidia-smi -L", out), nil)
}

func (f *fixture) expectFetch() *gomock.Call {
	return f.fetcher.EXPECT().Fetch(gomock.Any(), f.release.URL, f.release.Checksum).Return(cachedInstaller, nil)
}

func TestNewInstaller_Validation(t *testing.T) {
	release, err := Lookup("")
	require.NoError(t, err)

	_, err = NewInstaller(release, nil, nil)
	require.Error(t, err)
	assert.True(t, errorx.IsOfType(err, errorx.IllegalArgument))
}

func TestInstaller_VerifyDriver(t *testing.T) {
	ctx := context.Background()

	t.Run("missing nvidia-smi", func(t *testing.T) {
		f := newFixture(t)
		f.expectVerify(false, false)

		ok, err := f.installer.VerifyDriver(ctx, true)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing nvidia-smi without logging", func(t *testing.T) {
		f := newFixture(t)
		f.runner.EXPECT().Run(gomock.Any(), execx.HasLine("which nvidia-smi")).
			DoAndReturn(func(ctx context.Context, cmd execx.Command) (*execx.Result, error) {
				assert.True(t, cmd.Silent)
				return execx.Failed(cmd.Line, 1, ""), nil
			})
		f.runner.EXPECT().Run(gomock.Any(), execx.HasLine("nvidia-smi -L")).Times(0)

		ok, err := f.installer.VerifyDriver(ctx, false)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("no GPU listed", func(t *testing.T) {
		f := newFixture(t)
		f.expectVerify(true, false)

		ok, err := f.installer.VerifyDriver(ctx, true)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("GPU listed", func(t *testing.T) {
		f := newFixture(t)
		f.expectVerify(true, true)

		ok, err := f.installer.VerifyDriver(ctx, false)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("nvidia-smi fails", func(t *testing.T) {
		f := newFixture(t)
		which := f.runner.EXPECT().Run(gomock.Any(), execx.HasLine("which nvidia-smi")).
			Return(execx.Succeeded("which nvidia-smi", "/usr/bin/nvidia-smi"), nil)
		f.runner.EXPECT().Run(gomock.Any(), execx.HasLine("nvidia-smi -L")).After(which).
			DoAndReturn(func(ctx context.Context, cmd execx.Command) (*execx.Result, error) {
				assert.True(t, cmd.Silent)
				assert.False(t, cmd.Check)
				// a failing nvidia-smi may still print a UUID for a partially working driver
				return execx.Failed(cmd.Line, 9, "NVIDIA-SMI has failed (UUID unknown)"), nil
			})

		ok, err := f.installer.VerifyDriver(ctx, true)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestInstaller_InstallDriver(t *testing.T) {
	ctx := context.Background()
	driverLine := "sh " + cachedInstaller + " --silent --driver"

	t.Run("should install, verify and lock the kernel", func(t *testing.T) {
		f := newFixture(t)
		gomock.InOrder(
			f.gate.EXPECT().Ensure(ctx, kernel.PlatformAWS).Return(nil),
			f.expectFetch(),
			f.runner.EXPECT().Run(ctx, execx.HasLine(driverLine)).Return(execx.Succeeded(driverLine, ""), nil),
		)
		f.expectVerify(true, true)
		f.locker.EXPECT().Hold(ctx).Return(nil)

		require.NoError(t, f.installer.InstallDriver(ctx))
	})

	t.Run("should stop and ask for a reboot when the kernel changed", func(t *testing.T) {
		f := newFixture(t)
		f.gate.EXPECT().Ensure(ctx, kernel.PlatformAWS).Return(NewRebootRequiredError("new kernel"))

		err := f.installer.InstallDriver(ctx)
		require.Error(t, err)
		assert.True(t, IsRebootRequired(err))
	})

	t.Run("should not fail nor lock when verification fails", func(t *testing.T) {
		f := newFixture(t)
		gomock.InOrder(
			f.gate.EXPECT().Ensure(ctx, kernel.PlatformAWS).Return(nil),
			f.expectFetch(),
			f.runner.EXPECT().Run(ctx, execx.HasLine(driverLine)).Return(execx.Succeeded(driverLine, ""), nil),
		)
		f.expectVerify(true, false)
		f.locker.EXPECT().Hold(gomock.Any()).Times(0)

		require.NoError(t, f.installer.InstallDriver(ctx))
	})

	t.Run("should not fail nor lock when nvidia-smi is missing after install", func(t *testing.T) {
		f := newFixture(t)
		gomock.InOrder(
			f.gate.EXPECT().Ensure(ctx, kernel.PlatformAWS).Return(nil),
			f.expectFetch(),
			f.runner.EXPECT().Run(ctx, execx.HasLine(driverLine)).Return(execx.Succeeded(driverLine, ""), nil),
		)
		f.expectVerify(false, false)
		f.locker.EXPECT().Hold(gomock.Any()).Times(0)

		require.NoError(t, f.installer.InstallDriver(ctx))
	})

	t.Run("should fail on a checksum mismatch", func(t *testing.T) {
		f := newFixture(t)
		gomock.InOrder(
			f.gate.EXPECT().Ensure(ctx, kernel.PlatformAWS).Return(nil),
			f.fetcher.EXPECT().Fetch(ctx, f.release.URL, f.release.Checksum).
				Return("", software.NewChecksumError(cachedInstaller, software.AlgorithmMD5, f.release.Checksum, "0000")),
		)

		err := f.installer.InstallDriver(ctx)
		require.Error(t, err)
		assert.True(t, errorx.IsOfType(err, software.ChecksumError))
	})

	t.Run("should fail when the installer fails", func(t *testing.T) {
		f := newFixture(t)
		res := execx.Failed(driverLine, 1, "ERROR: An NVIDIA kernel module 'nvidia' appears to already be loaded")
		gomock.InOrder(
			f.gate.EXPECT().Ensure(ctx, kernel.PlatformAWS).Return(nil),
			f.expectFetch(),
			f.runner.EXPECT().Run(ctx, execx.HasLine(driverLine)).Return(res, execx.NewCommandFailedError(res, nil)),
		)

		err := f.installer.InstallDriver(ctx)
		require.Error(t, err)
		code, ok := execx.ExitCodeOf(err)
		require.True(t, ok)
		assert.Equal(t, 1, code)
	})
}

func TestInstaller_UninstallDriver(t *testing.T) {
	ctx := context.Background()

	t.Run("should do nothing without a driver", func(t *testing.T) {
		f := newFixture(t)
		f.expectVerify(false, false)

		require.NoError(t, f.installer.UninstallDriver(ctx))
	})

	t.Run("should extract, uninstall and unhold in order", func(t *testing.T) {
		f := newFixture(t)
		var extracted string

		verify := f.expectVerify(true, true)
		gomock.InOrder(
			verify,
			f.expectFetch(),
			f.runner.EXPECT().Run(ctx, gomock.Any()).
				DoAndReturn(func(ctx context.Context, cmd execx.Command) (*execx.Result, error) {
					prefix := "sh " + cachedInstaller + " --extract="
					require.True(t, strings.HasPrefix(cmd.Line, prefix), cmd.Line)
					assert.True(t, cmd.Check)
					extracted = strings.TrimPrefix(cmd.Line, prefix)
					assert.DirExists(t, extracted)
					assert.Equal(t, f.dir, filepath.Dir(extracted))
					return execx.Succeeded(cmd.Line, ""), nil
				}),
			f.runner.EXPECT().Run(ctx, gomock.Any()).
				DoAndReturn(func(ctx context.Context, cmd execx.Command) (*execx.Result, error) {
					assert.Equal(t, "sh "+filepath.Join(extracted, "NVIDIA-Linux-x86_64-550.54.14.run")+" -s --uninstall", cmd.Line)
					assert.True(t, cmd.Check)
					return execx.Succeeded(cmd.Line, ""), nil
				}),
			f.locker.EXPECT().Unhold(ctx).Return(nil),
		)

		require.NoError(t, f.installer.UninstallDriver(ctx))
		assert.NoDirExists(t, extracted)
	})

	t.Run("should keep the kernel hold when uninstall fails", func(t *testing.T) {
		f := newFixture(t)
		res := execx.Failed("sh uninstall", 1, "")

		verify := f.expectVerify(true, true)
		gomock.InOrder(
			verify,
			f.expectFetch(),
			f.runner.EXPECT().Run(ctx, gomock.Any()).Return(execx.Succeeded("extract", ""), nil),
			f.runner.EXPECT().Run(ctx, gomock.Any()).Return(res, execx.NewCommandFailedError(res, nil)),
		)
		f.locker.EXPECT().Unhold(gomock.Any()).Times(0)

		err := f.installer.UninstallDriver(ctx)
		require.Error(t, err)
		assert.True(t, errorx.IsOfType(err, execx.CommandFailed))
	})
}

func TestInstaller_InstallToolkit(t *testing.T) {
	ctx := context.Background()
	toolkitLine := "sh " + cachedInstaller + " --silent --toolkit"

	t.Run("should skip when nvcc exists", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, os.MkdirAll(f.release.BinDir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(f.release.BinDir, "nvcc"), []byte("#!/bin/sh\n"), 0755))

		f.expectVerify(true, true)
		f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		require.NoError(t, f.installer.InstallToolkit(ctx))
	})

	t.Run("should install, configure and always ask for a reboot", func(t *testing.T) {
		f := newFixture(t)

		verify := f.expectVerify(true, true)
		gomock.InOrder(
			verify,
			f.expectFetch(),
			f.runner.EXPECT().Run(ctx, execx.HasLine(toolkitLine)).Return(execx.Succeeded(toolkitLine, ""), nil),
		)

		err := f.installer.InstallToolkit(ctx)
		require.Error(t, err)
		assert.True(t, IsRebootRequired(err))

		profile, err := os.ReadFile(filepath.Join(f.dir, "profile.d", "spyral_cuda_install.sh"))
		require.NoError(t, err)
		assert.Equal(t, Profile(f.release), string(profile))

		env := f.installer.Environment()
		assert.Equal(t, f.release.BinDir+":/usr/bin", env.Path)
		assert.Equal(t, f.release.LibDir, env.LDLibraryPath)
	})

	t.Run("should install the driver first and propagate its reboot", func(t *testing.T) {
		f := newFixture(t)
		f.expectVerify(false, false)
		f.gate.EXPECT().Ensure(ctx, kernel.PlatformAWS).Return(NewRebootRequiredError("new kernel"))
		f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		err := f.installer.InstallToolkit(ctx)
		require.Error(t, err)
		assert.True(t, IsRebootRequired(err))
		assert.Equal(t, "new kernel", RebootReasonOf(err))
	})

	t.Run("should resume after reboot with driver and toolkit", func(t *testing.T) {
		f := newFixture(t)
		driverLine := "sh " + cachedInstaller + " --silent --driver"

		// driver missing on the first probe, present after its installation
		f.expectVerify(false, false)
		gomock.InOrder(
			f.gate.EXPECT().Ensure(ctx, kernel.PlatformAWS).Return(nil),
			f.fetcher.EXPECT().Fetch(ctx, f.release.URL, f.release.Checksum).Return(cachedInstaller, nil),
			f.runner.EXPECT().Run(ctx, execx.HasLine(driverLine)).Return(execx.Succeeded(driverLine, ""), nil),
		)
		f.expectVerify(true, true)
		f.locker.EXPECT().Hold(ctx).Return(nil)
		f.fetcher.EXPECT().Fetch(ctx, f.release.URL, f.release.Checksum).Return(cachedInstaller, nil)
		f.runner.EXPECT().Run(ctx, execx.HasLine(toolkitLine)).Return(execx.Succeeded(toolkitLine, ""), nil)

		err := f.installer.InstallToolkit(ctx)
		require.Error(t, err)
		assert.True(t, IsRebootRequired(err))
	})
}
