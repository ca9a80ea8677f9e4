// SPDX-License-Identifier: Apache-2.0

package kernel

import (
	"context"
	"fmt"

	"github.com/automa-saga/logx"
	"github.com/spyral-ai/ignite/pkg/execx"
)

const (
	actionHold   = "hold"
	actionUnhold = "unhold"
)

// Locker pins the running kernel with apt-mark so that upgrades do not break the installed driver.
type Locker struct {
	runner execx.Runner
}

func NewLocker(runner execx.Runner) *Locker {
	return &Locker{runner: runner}
}

// Hold prevents the running kernel image and headers from being upgraded
func (l *Locker) Hold(ctx context.Context) error {
	return l.mark(ctx, actionHold)
}

// Unhold releases a previous Hold
func (l *Locker) Unhold(ctx context.Context) error {
	return l.mark(ctx, actionUnhold)
}

func (l *Locker) mark(ctx context.Context, action string) error {
	release, err := RunningRelease(ctx, l.runner)
	if err != nil {
		return NewLockError(err, action, "")
	}

	// only the exact packages of the running kernel; apt-mark fails on any name it cannot locate
	line := fmt.Sprintf("apt-mark %s linux-image-%s linux-headers-%s", action, release, release)

	if _, err := l.runner.Run(ctx, execx.Command{Line: line, Check: true}); err != nil {
		return NewLockError(err, action, release)
	}

	logx.As().Info().Str("action", action).Str("release", release).Msg("Updated kernel package holds")
	return nil
}
