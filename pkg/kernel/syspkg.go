// SPDX-License-Identifier: Apache-2.0

package kernel

import (
	"context"
	"strings"

	"github.com/bluet/syspkg/manager"
	"github.com/spyral-ai/ignite/pkg/software"
)

// packageFinder is the part of syspkg.PackageManager the kernel package needs
type packageFinder interface {
	Find(keywords []string, opts *manager.Options) ([]manager.PackageInfo, error)
}

// SyspkgSource lists kernel images through the detected system package manager
type SyspkgSource struct {
	pm packageFinder
}

func NewSyspkgSource() (*SyspkgSource, error) {
	pm, err := software.GetPackageManager()
	if err != nil {
		return nil, err
	}
	return &SyspkgSource{pm: pm}, nil
}

func (s *SyspkgSource) ListImageCandidates(ctx context.Context, prefix string) ([]string, error) {
	pkgs, err := s.pm.Find([]string{prefix}, software.NonInteractiveOptions())
	if err != nil {
		return nil, NewCandidateSourceError(err, prefix)
	}

	seen := map[string]bool{}
	var names []string
	for _, p := range pkgs {
		if strings.HasPrefix(p.Name, prefix) && !seen[p.Name] {
			seen[p.Name] = true
			names = append(names, p.Name)
		}
	}

	return names, nil
}

// SyspkgDatabase reads package status through the detected system package manager
type SyspkgDatabase struct {
	pm packageFinder
}

func NewSyspkgDatabase() (*SyspkgDatabase, error) {
	pm, err := software.GetPackageManager()
	if err != nil {
		return nil, err
	}
	return &SyspkgDatabase{pm: pm}, nil
}

func (d *SyspkgDatabase) IsInstalled(ctx context.Context, name string) (bool, error) {
	pkgs, err := d.pm.Find([]string{name}, software.NonInteractiveOptions())
	if err != nil {
		return false, NewPackageQueryError(err, name)
	}

	// Find returns every package matching the keyword, so look for an exact match
	for _, p := range pkgs {
		if p.Name == name {
			return p.Status == manager.PackageStatusInstalled, nil
		}
	}

	return false, nil
}
