// SPDX-License-Identifier: Apache-2.0

package kernel

import (
	"context"
	"fmt"
	"strings"

	"github.com/spyral-ai/ignite/pkg/execx"
)

const (
	aptCacheSearchCmd = "apt-cache search linux-image"
	dpkgStatusCmd     = "dpkg-query -W -f=${Status} %s"
	dpkgInstalled     = "install ok installed"
)

// AptCacheSource lists kernel images from the output of "apt-cache search".
type AptCacheSource struct {
	runner execx.Runner
}

func NewAptCacheSource(runner execx.Runner) *AptCacheSource {
	return &AptCacheSource{runner: runner}
}

func (s *AptCacheSource) ListImageCandidates(ctx context.Context, prefix string) ([]string, error) {
	res, err := s.runner.Run(ctx, execx.Command{Line: aptCacheSearchCmd, Check: true, Silent: true})
	if err != nil {
		return nil, NewCandidateSourceError(err, prefix)
	}

	return filterByPrefix(res.Stdout, prefix), nil
}

// filterByPrefix takes the first token of every line and keeps those starting with prefix
func filterByPrefix(output string, prefix string) []string {
	var names []string
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if strings.HasPrefix(fields[0], prefix) {
			names = append(names, fields[0])
		}
	}
	return names
}

// DpkgDatabase reads package status with dpkg-query. A package is installed only when its status
// is "install ok installed"; packages with only their configuration left do not count.
type DpkgDatabase struct {
	runner execx.Runner
}

func NewDpkgDatabase(runner execx.Runner) *DpkgDatabase {
	return &DpkgDatabase{runner: runner}
}

func (d *DpkgDatabase) IsInstalled(ctx context.Context, name string) (bool, error) {
	res, err := d.runner.Run(ctx, execx.Command{
		Line:   fmt.Sprintf(dpkgStatusCmd, name),
		Silent: true,
	})
	if err != nil {
		return false, NewPackageQueryError(err, name)
	}

	return res.Success() && strings.Contains(res.Stdout, dpkgInstalled), nil
}
