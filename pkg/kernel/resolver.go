// SPDX-License-Identifier: Apache-2.0

package kernel

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/automa-saga/logx"
	"github.com/spyral-ai/ignite/pkg/execx"
)

const unameCmd = "uname -r"

// Target is the kernel a driver build needs, derived from the running kernel and the package index.
type Target struct {
	Running        string   `yaml:"running" json:"running"`
	Identity       Identity `yaml:"identity" json:"identity"`
	ImagePackage   string   `yaml:"imagePackage" json:"imagePackage"`
	HeadersPackage string   `yaml:"headersPackage" json:"headersPackage"`

	// MatchesInstalled is true when the host already runs the target kernel and has its headers
	MatchesInstalled bool `yaml:"matchesInstalled" json:"matchesInstalled"`

	// CandidatesFound is false when no package in the index could be parsed and patch/micro fell back to zero
	CandidatesFound bool `yaml:"candidatesFound" json:"candidatesFound"`
}

// RunningKernel reports whether the running kernel is the target version.
// The version must end on a field boundary, so "5.15.0-1015" does not match "5.15.0-10150-aws".
func (t *Target) RunningKernel() bool {
	running := strings.TrimSpace(t.Running)
	base := t.Identity.Base()
	if !strings.HasPrefix(running, base) {
		return false
	}

	rest := running[len(base):]
	return rest == "" || !unicode.IsDigit(rune(rest[0]))
}

// Resolver picks the newest kernel available for the running major.minor line.
type Resolver struct {
	runner execx.Runner
	source CandidateSource
	db     PackageDB
}

type ResolverOption func(*Resolver)

func WithCandidateSource(source CandidateSource) ResolverOption {
	return func(r *Resolver) {
		if source != nil {
			r.source = source
		}
	}
}

func WithPackageDB(db PackageDB) ResolverOption {
	return func(r *Resolver) {
		if db != nil {
			r.db = db
		}
	}
}

// NewResolver returns a resolver backed by apt-cache and dpkg-query unless other sources are given.
func NewResolver(runner execx.Runner, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		runner: runner,
		source: NewAptCacheSource(runner),
		db:     NewDpkgDatabase(runner),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RunningRelease returns the output of "uname -r"
func RunningRelease(ctx context.Context, runner execx.Runner) (string, error) {
	res, err := runner.Run(ctx, execx.Command{Line: unameCmd, Check: true, Silent: true})
	if err != nil {
		return "", err
	}

	release := strings.TrimSpace(res.Stdout)
	if release == "" {
		return "", NewMalformedReleaseError(nil, release)
	}

	return release, nil
}

// Resolve computes the target kernel for the platform.
func (r *Resolver) Resolve(ctx context.Context, platform Platform) (*Target, error) {
	running, err := RunningRelease(ctx, r.runner)
	if err != nil {
		return nil, err
	}

	major, minor, err := ParseRelease(running)
	if err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf("linux-image-%d.%d", major, minor)
	candidates, err := r.source.ListImageCandidates(ctx, prefix)
	if err != nil {
		return nil, err
	}

	id := Identity{Major: major, Minor: minor, Suffix: platform.Suffix()}
	found := false
	for _, name := range candidates {
		patch, micro, ok := ParsePackageName(name, prefix, id.Suffix)
		if !ok {
			continue
		}

		found = true
		if patch > id.Patch || (patch == id.Patch && micro > id.Micro) {
			id.Patch, id.Micro = patch, micro
		}
	}

	if !found {
		logx.As().Warn().
			Str("prefix", prefix).
			Str("suffix", id.Suffix).
			Int("candidates", len(candidates)).
			Msg("No kernel image candidate could be parsed, falling back to patch 0 and micro 0")
	}

	t := &Target{
		Running:         running,
		Identity:        id,
		ImagePackage:    id.ImagePackage(),
		HeadersPackage:  id.HeadersPackage(),
		CandidatesFound: found,
	}

	if t.RunningKernel() {
		installed, err := r.db.IsInstalled(ctx, t.HeadersPackage)
		if err != nil {
			return nil, err
		}
		t.MatchesInstalled = installed
	}

	logx.As().Info().
		Str("running", running).
		Str("target", id.String()).
		Bool("matchesInstalled", t.MatchesInstalled).
		Msg("Resolved target kernel")

	return t, nil
}
