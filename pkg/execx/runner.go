// SPDX-License-Identifier: Apache-2.0

package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/automa-saga/logx"
	"github.com/joomcode/errorx"
)

//go:generate mockgen -source=runner.go -destination=mock_runner.go -package=execx

// Command describes a single invocation of an external program.
//
// Line is split on whitespace into the program and its arguments; there is no shell quoting.
// Callers that need pipes or quoting must invoke a shell explicitly, e.g. "sh script.sh".
type Command struct {
	Line string

	// Check turns a failed final attempt into a CommandFailed error
	Check bool

	// Input is written to the child's stdin when non-nil
	Input []byte

	// Silent suppresses echoing of the command and its output
	Silent bool

	// Retries is the number of additional attempts after a failure
	Retries int

	// Dir is the working directory; empty means the current directory
	Dir string

	// Env replaces the inherited environment when non-nil
	Env []string
}

func (c Command) String() string {
	return c.Line
}

// Result holds the outcome of the last attempt of a Command.
type Result struct {
	Command  string `yaml:"command" json:"command"`
	ExitCode int    `yaml:"exitCode" json:"exitCode"`
	Stdout   string `yaml:"stdout" json:"stdout"`
	Stderr   string `yaml:"stderr" json:"stderr"`
	Attempts int    `yaml:"attempts" json:"attempts"`
}

// Success returns true if the last attempt exited with status zero
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// ProcessRunner is the default Runner that spawns real OS processes.
type ProcessRunner struct {
	stdout     io.Writer
	stderr     io.Writer
	retryDelay time.Duration
}

type Option func(*ProcessRunner)

// WithOutput sets the writers used to echo commands and their captured streams
func WithOutput(stdout io.Writer, stderr io.Writer) Option {
	return func(p *ProcessRunner) {
		if stdout != nil {
			p.stdout = stdout
		}
		if stderr != nil {
			p.stderr = stderr
		}
	}
}

// WithRetryDelay sets the pause between two attempts of the same command
func WithRetryDelay(d time.Duration) Option {
	return func(p *ProcessRunner) {
		if d >= 0 {
			p.retryDelay = d
		}
	}
}

func NewProcessRunner(opts ...Option) *ProcessRunner {
	p := &ProcessRunner{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run executes the command, retrying up to cmd.Retries times until an attempt succeeds.
//
// The returned Result always describes the last attempt. When cmd.Check is set and the last attempt
// failed, the Result is returned together with a CommandFailed error.
func (p *ProcessRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	fields := strings.Fields(cmd.Line)
	if len(fields) == 0 {
		return nil, errorx.IllegalArgument.New("command must not be empty")
	}

	if cmd.Retries < 0 {
		return nil, errorx.IllegalArgument.New("retries must not be negative, got %d for '%s'", cmd.Retries, cmd.Line)
	}

	if !cmd.Silent {
		_, _ = fmt.Fprintf(p.stdout, "Executing %s\n", cmd.Line)
	}

	logx.As().Debug().
		Str("command", cmd.Line).
		Bool("check", cmd.Check).
		Int("retries", cmd.Retries).
		Str("dir", cmd.Dir).
		Msg("Executing command")

	var res *Result
	for attempt := 1; attempt <= cmd.Retries+1; attempt++ {
		if attempt > 1 {
			if err := p.pause(ctx); err != nil {
				return res, errorx.IllegalState.Wrap(err, "interrupted while retrying '%s'", cmd.Line)
			}
		}

		res = p.attempt(ctx, fields, cmd)
		res.Attempts = attempt

		if !cmd.Silent {
			p.echo(res)
		}

		if res.Success() {
			break
		}

		logx.As().Debug().
			Str("command", cmd.Line).
			Int("attempt", attempt).
			Int("exit_code", res.ExitCode).
			Msg("Command attempt failed")
	}

	if cmd.Check && !res.Success() {
		return res, NewCommandFailedError(res, nil)
	}

	return res, nil
}

func (p *ProcessRunner) attempt(ctx context.Context, fields []string, cmd Command) *Result {
	var stdout, stderr bytes.Buffer

	c := exec.CommandContext(ctx, fields[0], fields[1:]...)
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	c.Stdout = &stdout
	c.Stderr = &stderr
	if cmd.Input != nil {
		c.Stdin = bytes.NewReader(cmd.Input)
	}

	err := c.Run()

	res := &Result{
		Command: cmd.Line,
		Stdout:  toText(stdout.Bytes()),
		Stderr:  toText(stderr.Bytes()),
	}

	if err == nil {
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode == 0 {
			res.ExitCode = -1
		}
		return res
	}

	// the process could not be spawned at all
	res.ExitCode = -1
	if res.Stderr != "" {
		res.Stderr += "\n"
	}
	res.Stderr += err.Error()

	return res
}

func (p *ProcessRunner) echo(res *Result) {
	if out := strings.TrimRight(res.Stdout, "\n"); out != "" {
		_, _ = fmt.Fprintln(p.stdout, out)
	}
	if errOut := strings.TrimRight(res.Stderr, "\n"); errOut != "" {
		_, _ = fmt.Fprintln(p.stderr, errOut)
	}
}

func (p *ProcessRunner) pause(ctx context.Context) error {
	if p.retryDelay == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.retryDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func toText(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
