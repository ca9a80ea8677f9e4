// SPDX-License-Identifier: Apache-2.0

package core

import (
	"path"
	"sync"
)

const (
	AppName = "ignite"

	DefaultDirOrExecPerm = 0755
	DefaultFilePerm      = 0644
)

var (
	IgniteCacheDir = "/var/cache/ignite"
	IgniteTempDir  = "/tmp/ignite"
	IgniteLogsDir  = "/var/log/ignite"
)

// AppPaths groups the directories ignite writes to.
// CacheDir must survive reboots because installs resume from the cached artifacts.
type AppPaths struct {
	CacheDir       string
	LogsDir        string
	TempDir        string
	DiagnosticsDir string
}

var (
	pathsMu  sync.RWMutex
	appPaths = defaultPaths()
)

func defaultPaths() AppPaths {
	return AppPaths{
		CacheDir:       path.Join(IgniteCacheDir, "downloads"),
		LogsDir:        IgniteLogsDir,
		TempDir:        IgniteTempDir,
		DiagnosticsDir: path.Join(IgniteTempDir, "diagnostics"),
	}
}

// Paths returns the directories currently in effect.
func Paths() AppPaths {
	pathsMu.RLock()
	defer pathsMu.RUnlock()
	return appPaths
}

// SetPaths overrides the directories; empty fields keep their current value.
func SetPaths(p AppPaths) {
	pathsMu.Lock()
	defer pathsMu.Unlock()

	if p.CacheDir != "" {
		appPaths.CacheDir = p.CacheDir
	}
	if p.LogsDir != "" {
		appPaths.LogsDir = p.LogsDir
	}
	if p.TempDir != "" {
		appPaths.TempDir = p.TempDir
		if p.DiagnosticsDir == "" {
			appPaths.DiagnosticsDir = path.Join(p.TempDir, "diagnostics")
		}
	}
	if p.DiagnosticsDir != "" {
		appPaths.DiagnosticsDir = p.DiagnosticsDir
	}
}

// ResetPaths restores the default directories.
func ResetPaths() {
	pathsMu.Lock()
	defer pathsMu.Unlock()
	appPaths = defaultPaths()
}
