// SPDX-License-Identifier: Apache-2.0

package cuda

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/automa-saga/logx"
	"github.com/joomcode/errorx"
	"github.com/spyral-ai/ignite/pkg/execx"
	"github.com/spyral-ai/ignite/pkg/software"
)

const (
	DefaultProfileFile         = "/etc/profile.d/spyral_cuda_install.sh"
	DefaultPersistencedBinary  = "/usr/bin/nvidia-persistenced"
	DefaultPersistencedArchive = "/usr/share/doc/NVIDIA_GLX-1.0/samples/nvidia-persistenced-init.tar.bz2"

	PersistencedService = "nvidia-persistenced"

	profileFilePerm = 0644
)

// Profile renders the shell profile fragment that puts the toolkit on the search paths of login shells
func Profile(release Release) string {
	var b strings.Builder
	b.WriteString("# Configuring CUDA toolkit. File created by Spyral CUDA installation manager.\n")
	b.WriteString(fmt.Sprintf("export PATH=%s${PATH:+:${PATH}}\n", release.BinDir))
	b.WriteString(fmt.Sprintf("export LD_LIBRARY_PATH=%s${LD_LIBRARY_PATH:+:${LD_LIBRARY_PATH}}\n", release.LibDir))
	return b.String()
}

// PostInstall configures the host after a toolkit installation and returns env with the toolkit prepended.
//
// The profile fragment is rewritten on every call. The persistence daemon is only configured when the
// driver shipped both its binary and its init scripts.
func (i *Installer) PostInstall(ctx context.Context, env Environment) (Environment, error) {
	env = env.Prepend(i.release.BinDir, i.release.LibDir)
	if err := env.Apply(); err != nil {
		logx.As().Warn().Err(err).Msg("Failed to update the environment of the running process")
	}

	if err := os.MkdirAll(filepath.Dir(i.profileFile), 0755); err != nil {
		return env, NewPostInstallError(err, "profile")
	}
	if err := os.WriteFile(i.profileFile, []byte(Profile(i.release)), profileFilePerm); err != nil {
		return env, NewPostInstallError(err, "profile")
	}
	logx.As().Info().Str("path", i.profileFile).Msg("Wrote CUDA profile fragment")

	err := i.configurePersistenced(ctx, env)
	switch {
	case err == nil:
		i.enablePersistenced(ctx)
	case errorx.HasTrait(err, errorx.NotFound()):
		logx.As().Debug().Err(err).Msg("Skipping nvidia-persistenced configuration")
	default:
		return env, err
	}

	return env, nil
}

func (i *Installer) configurePersistenced(ctx context.Context, env Environment) error {
	for _, p := range []string{i.persistencedBinary, i.persistencedArchive} {
		if _, err := os.Stat(p); err != nil {
			return software.NewFileNotFoundError(p)
		}
	}

	tmp, err := i.scratchDir("ignite-persistenced-")
	if err != nil {
		return NewPostInstallError(err, "persistenced")
	}
	defer func() {
		_ = os.RemoveAll(tmp)
	}()

	if err := copyFile(i.persistencedArchive, filepath.Join(tmp, "installer.tar.bz2")); err != nil {
		return NewPostInstallError(err, "persistenced")
	}

	vars := env.Vars(os.Environ())
	if _, err := i.runner.Run(ctx, execx.Command{Line: "tar -xf installer.tar.bz2", Check: true, Silent: true, Dir: tmp, Env: vars}); err != nil {
		return err
	}

	logx.As().Info().Msg("Executing nvidia-persistenced installer")
	if _, err := i.runner.Run(ctx, execx.Command{Line: "sh nvidia-persistenced-init/install.sh", Check: true, Dir: tmp, Env: vars}); err != nil {
		return err
	}

	return nil
}

// enablePersistenced makes sure the daemon runs now and after boot; failures are not fatal
func (i *Installer) enablePersistenced(ctx context.Context) {
	if err := i.services.DaemonReload(ctx); err != nil {
		logx.As().Warn().Err(err).Msg("Failed to reload systemd")
		return
	}

	if err := i.services.EnableService(ctx, PersistencedService); err != nil {
		logx.As().Warn().Err(err).Str("service", PersistencedService).Msg("Failed to enable service")
	}

	if err := i.services.StartService(ctx, PersistencedService); err != nil {
		logx.As().Warn().Err(err).Str("service", PersistencedService).Msg("Failed to start service")
	}
}

func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}
