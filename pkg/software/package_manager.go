// SPDX-License-Identifier: Apache-2.0

package software

import (
	"sync"

	"github.com/bluet/syspkg"
	"github.com/bluet/syspkg/manager"
)

var (
	pkgManager syspkg.PackageManager
	pmInitErr  error
	once       sync.Once
)

// GetPackageManager returns the system package manager detected by syspkg.
// Detection runs once per process.
func GetPackageManager() (syspkg.PackageManager, error) {
	once.Do(func() {
		includeOptions := syspkg.IncludeOptions{AllAvailable: true}
		sysPackageManager, err := syspkg.New(includeOptions)
		if err != nil {
			pmInitErr = NewPackageManagerError(err, "detect")
			return
		}

		// Empty string returns the first available package manager
		pm, err := sysPackageManager.GetPackageManager("")
		if err != nil {
			pmInitErr = NewPackageManagerError(err, "detect")
			return
		}

		pkgManager = pm
	})

	return pkgManager, pmInitErr
}

// NonInteractiveOptions are the options used for every package manager call
func NonInteractiveOptions() *manager.Options {
	return &manager.Options{DryRun: false, Interactive: false, AssumeYes: true}
}
