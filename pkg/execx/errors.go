// SPDX-License-Identifier: Apache-2.0

package execx

import (
	"strings"
	"unicode/utf8"

	"github.com/joomcode/errorx"
)

var (
	ErrorsNamespace = errorx.NewNamespace("execx")
	CommandFailed   = ErrorsNamespace.NewType("command_failed")

	commandProperty  = errorx.RegisterPrintableProperty("command")
	exitCodeProperty = errorx.RegisterPrintableProperty("exit_code")
	attemptsProperty = errorx.RegisterPrintableProperty("attempts")
	stderrProperty   = errorx.RegisterPrintableProperty("stderr")
)

const (
	commandFailedErrorMsg = "command '%s' exited with code %d after %d attempt(s)"

	// maxStderrProperty bounds how much of stderr is attached to an error
	maxStderrProperty = 2048
)

// NewCommandFailedError returns a CommandFailed error describing the last attempt of the command.
func NewCommandFailedError(res *Result, cause error) *errorx.Error {
	if res == nil {
		res = &Result{ExitCode: -1}
	}

	err := CommandFailed.New(commandFailedErrorMsg, res.Command, res.ExitCode, res.Attempts).
		WithProperty(commandProperty, res.Command).
		WithProperty(exitCodeProperty, res.ExitCode).
		WithProperty(attemptsProperty, res.Attempts)

	if stderr := tail(strings.TrimSpace(res.Stderr), maxStderrProperty); stderr != "" {
		err = err.WithProperty(stderrProperty, stderr)
	}

	if cause != nil {
		err = err.WithUnderlyingErrors(cause)
	}

	return err
}

// ExitCodeOf returns the exit code carried by a CommandFailed error.
func ExitCodeOf(err error) (int, bool) {
	v, ok := errorx.ExtractProperty(err, exitCodeProperty)
	if !ok {
		return 0, false
	}

	code, ok := v.(int)
	return code, ok
}

// CommandOf returns the command line carried by a CommandFailed error.
func CommandOf(err error) (string, bool) {
	v, ok := errorx.ExtractProperty(err, commandProperty)
	if !ok {
		return "", false
	}

	cmd, ok := v.(string)
	return cmd, ok
}

// tail returns at most the last n bytes of s, starting on a rune boundary
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}

	start := len(s) - n
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}
