// SPDX-License-Identifier: Apache-2.0

package software

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/automa-saga/logx"
	"github.com/gofrs/flock"
	"github.com/joomcode/errorx"
)

const (
	DefaultCacheDir    = "/var/cache/ignite/downloads"
	DefaultLockTimeout = 30 * time.Second
	cacheDirPerm       = 0755
)

// Fetcher downloads artifacts into a cache directory and checks their integrity.
//
// A file that already exists in the cache is trusted as-is and is neither downloaded nor re-verified.
// A file that fails verification is left on disk; it must be deleted manually before retrying.
type Fetcher struct {
	cacheDir    string
	transport   Transport
	algorithm   string
	lockTimeout time.Duration
}

type FetcherOption func(*Fetcher)

func WithCacheDir(dir string) FetcherOption {
	return func(f *Fetcher) {
		if dir != "" {
			f.cacheDir = dir
		}
	}
}

func WithTransport(t Transport) FetcherOption {
	return func(f *Fetcher) {
		f.transport = t
	}
}

func WithAlgorithm(algorithm string) FetcherOption {
	return func(f *Fetcher) {
		if algorithm != "" {
			f.algorithm = algorithm
		}
	}
}

func WithLockTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.lockTimeout = d
		}
	}
}

func NewFetcher(opts ...FetcherOption) (*Fetcher, error) {
	f := &Fetcher{
		cacheDir:    DefaultCacheDir,
		algorithm:   AlgorithmMD5,
		lockTimeout: DefaultLockTimeout,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.transport == nil {
		return nil, errorx.IllegalArgument.New("fetcher requires a transport")
	}

	if _, ok := newHash(f.algorithm); !ok {
		return nil, errorx.IllegalArgument.New("unsupported checksum algorithm: %s", f.algorithm)
	}

	return f, nil
}

// CacheDir returns the directory artifacts are downloaded into
func (f *Fetcher) CacheDir() string {
	return f.cacheDir
}

// Destination returns the local path for the URL: its last path segment inside the cache directory.
func (f *Fetcher) Destination(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", NewInvalidURLError(err, rawURL)
	}

	name := path.Base(u.Path)
	if u.Scheme == "" || name == "" || name == "." || name == "/" {
		return "", NewInvalidURLError(nil, rawURL)
	}

	return filepath.Join(f.cacheDir, name), nil
}

// Fetch makes sure the artifact behind rawURL is present in the cache and returns its local path.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, expectedChecksum string) (string, error) {
	dest, err := f.Destination(rawURL)
	if err != nil {
		return "", err
	}

	if exists(dest) {
		logx.As().Info().Str("path", dest).Msg("Artifact already downloaded, skipping download")
		return dest, nil
	}

	if err := os.MkdirAll(f.cacheDir, cacheDirPerm); err != nil {
		return "", errorx.IllegalState.Wrap(err, "failed to create cache directory %s", f.cacheDir)
	}

	unlock, err := f.lock(ctx, dest)
	if err != nil {
		return "", err
	}
	defer unlock()

	// another process may have completed the download while we were waiting for the lock
	if exists(dest) {
		logx.As().Info().Str("path", dest).Msg("Artifact downloaded by another process, skipping download")
		return dest, nil
	}

	logx.As().Info().Str("url", rawURL).Str("path", dest).Msg("Downloading artifact")
	if err := f.transport.Download(ctx, rawURL, dest); err != nil {
		return "", err
	}

	if err := VerifyChecksum(dest, expectedChecksum, f.algorithm); err != nil {
		logx.As().Error().Err(err).Str("path", dest).Msg("Downloaded artifact failed integrity check")
		return "", err
	}

	logx.As().Info().Str("path", dest).Str("algorithm", f.algorithm).Msg("Artifact downloaded and verified")
	return dest, nil
}

func (f *Fetcher) lock(ctx context.Context, dest string) (func(), error) {
	fileLock := flock.New(dest + ".lock")

	lockCtx, cancel := context.WithTimeout(ctx, f.lockTimeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(lockCtx, time.Second)
	if err != nil {
		return nil, NewLockError(err, dest)
	}
	if !locked {
		return nil, NewLockError(nil, dest)
	}

	return func() {
		if err := fileLock.Unlock(); err != nil {
			logx.As().Warn().Err(err).Str("path", dest).Msg("Failed to release download lock")
		}
	}, nil
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
