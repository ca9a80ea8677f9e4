// SPDX-License-Identifier: Apache-2.0

package workflows

import (
	"github.com/spyral-ai/ignite/internal/config"
	"github.com/spyral-ai/ignite/pkg/cuda"
	"github.com/spyral-ai/ignite/pkg/execx"
	"github.com/spyral-ai/ignite/pkg/kernel"
	"github.com/spyral-ai/ignite/pkg/software"
)

// NewRunner returns the process runner configured by cfg
func NewRunner(cfg config.Config) execx.Runner {
	return execx.NewProcessRunner(execx.WithRetryDelay(cfg.Runner.RetryDelay))
}

// NewFetcher returns the artifact fetcher configured by cfg
func NewFetcher(cfg config.Config, runner execx.Runner) (*software.Fetcher, error) {
	var transport software.Transport
	switch cfg.Fetch.Transport {
	case software.TransportHTTP:
		var downloader *software.Downloader
		if cfg.Fetch.Timeout > 0 {
			downloader = software.NewDownloaderWithTimeout(cfg.Fetch.Timeout)
		}
		transport = software.NewHTTPTransport(downloader)
	default:
		transport = software.NewCommandTransport(runner).WithRetries(cfg.Fetch.Retries)
	}

	return software.NewFetcher(
		software.WithCacheDir(cfg.AppPaths().CacheDir),
		software.WithTransport(transport),
	)
}

// NewGate returns the dependency gate configured by cfg
func NewGate(cfg config.Config, runner execx.Runner) (*cuda.Gate, error) {
	if cfg.Kernel.CandidateSource != config.CandidateSourceSyspkg {
		return cuda.NewGate(runner, kernel.NewResolver(runner), cuda.NewAptIndex(runner)), nil
	}

	source, err := kernel.NewSyspkgSource()
	if err != nil {
		return nil, err
	}
	db, err := kernel.NewSyspkgDatabase()
	if err != nil {
		return nil, err
	}
	index, err := cuda.NewSyspkgIndex()
	if err != nil {
		return nil, err
	}

	resolver := kernel.NewResolver(runner, kernel.WithCandidateSource(source), kernel.WithPackageDB(db))
	return cuda.NewGate(runner, resolver, index), nil
}

// NewCudaInstaller wires a cuda.Installer for the release, cloud provider and host paths in cfg
func NewCudaInstaller(cfg config.Config) (*cuda.Installer, error) {
	release, err := cuda.Lookup(cfg.Cuda.Version)
	if err != nil {
		return nil, err
	}

	platform, err := kernel.ParsePlatform(cfg.CloudProvider)
	if err != nil {
		return nil, err
	}

	runner := NewRunner(cfg)

	fetcher, err := NewFetcher(cfg, runner)
	if err != nil {
		return nil, err
	}

	gate, err := NewGate(cfg, runner)
	if err != nil {
		return nil, err
	}

	return cuda.NewInstaller(release, runner, fetcher,
		cuda.WithPlatform(platform),
		cuda.WithGate(gate),
		cuda.WithProfileFile(cfg.Cuda.ProfileFile),
		cuda.WithTempDir(cfg.AppPaths().TempDir),
	)
}
