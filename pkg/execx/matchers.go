// SPDX-License-Identifier: Apache-2.0

package execx

import (
	"fmt"

	"github.com/golang/mock/gomock"
)

// HasLine matches a Command by its exact command line. It is meant to be used with MockRunner.
func HasLine(line string) gomock.Matcher {
	return lineMatcher{line: line}
}

type lineMatcher struct {
	line string
}

func (m lineMatcher) Matches(x interface{}) bool {
	cmd, ok := x.(Command)
	return ok && cmd.Line == m.line
}

func (m lineMatcher) String() string {
	return fmt.Sprintf("command line is %q", m.line)
}

// Succeeded builds a successful Result for the given command line
func Succeeded(line string, stdout string) *Result {
	return &Result{Command: line, Stdout: stdout, Attempts: 1}
}

// Failed builds a failed Result for the given command line
func Failed(line string, exitCode int, stderr string) *Result {
	return &Result{Command: line, ExitCode: exitCode, Stderr: stderr, Attempts: 1}
}
