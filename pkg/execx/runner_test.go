// SPDX-License-Identifier: Apache-2.0

package execx

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner() (*ProcessRunner, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return NewProcessRunner(WithOutput(&stdout, &stderr)), &stdout, &stderr
}

func TestProcessRunner_Run_Success(t *testing.T) {
	r, stdout, _ := newTestRunner()

	res, err := r.Run(context.Background(), Command{Line: "echo hello", Check: true})
	require.NoError(t, err)
	require.True(t, res.Success())
	require.Equal(t, "hello\n", res.Stdout)
	require.Equal(t, 1, res.Attempts)
	require.Equal(t, "echo hello", res.Command)

	require.Contains(t, stdout.String(), "Executing echo hello")
	require.Contains(t, stdout.String(), "hello")
}

func TestProcessRunner_Run_Silent(t *testing.T) {
	r, stdout, stderr := newTestRunner()

	res, err := r.Run(context.Background(), Command{Line: "echo hello", Silent: true})
	require.NoError(t, err)
	require.Equal(t, "hello\n", res.Stdout)
	require.Empty(t, stdout.String())
	require.Empty(t, stderr.String())
}

func TestProcessRunner_Run_Input(t *testing.T) {
	r, _, _ := newTestRunner()

	res, err := r.Run(context.Background(), Command{Line: "cat", Input: []byte("piped input"), Silent: true})
	require.NoError(t, err)
	require.Equal(t, "piped input", res.Stdout)
}

func TestProcessRunner_Run_FailureWithoutCheck(t *testing.T) {
	r, _, _ := newTestRunner()

	res, err := r.Run(context.Background(), Command{Line: "false", Silent: true})
	require.NoError(t, err)
	require.False(t, res.Success())
	require.Equal(t, 1, res.ExitCode)
}

func TestProcessRunner_Run_FailureWithCheck(t *testing.T) {
	r, _, _ := newTestRunner()

	res, err := r.Run(context.Background(), Command{Line: "false", Check: true, Silent: true})
	require.Error(t, err)
	require.True(t, errorx.IsOfType(err, CommandFailed))
	require.NotNil(t, res)
	require.Equal(t, 1, res.ExitCode)

	code, ok := ExitCodeOf(err)
	require.True(t, ok)
	require.Equal(t, 1, code)

	line, ok := CommandOf(err)
	require.True(t, ok)
	require.Equal(t, "false", line)
}

func TestProcessRunner_Run_Retries(t *testing.T) {
	t.Run("should make retries+1 attempts when every attempt fails", func(t *testing.T) {
		r, _, _ := newTestRunner()

		res, err := r.Run(context.Background(), Command{Line: "false", Retries: 2, Silent: true})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Attempts)
	})

	t.Run("should stop after the first success", func(t *testing.T) {
		r, _, _ := newTestRunner()

		res, err := r.Run(context.Background(), Command{Line: "true", Retries: 3, Silent: true})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Attempts)
	})

	t.Run("should stop once a flaky command succeeds", func(t *testing.T) {
		r, _, _ := newTestRunner()
		dir := t.TempDir()
		script := "n=$(cat counter 2>/dev/null || echo 0)\nn=$((n+1))\necho $n > counter\n[ $n -ge 2 ]\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "flaky.sh"), []byte(script), 0644))

		res, err := r.Run(context.Background(), Command{Line: "sh flaky.sh", Dir: dir, Retries: 5, Check: true, Silent: true})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Attempts)

		counter, err := os.ReadFile(filepath.Join(dir, "counter"))
		require.NoError(t, err)
		assert.Equal(t, "2", strings.TrimSpace(string(counter)))
	})

	t.Run("should report the attempts in the error", func(t *testing.T) {
		r, _, _ := newTestRunner()

		res, err := r.Run(context.Background(), Command{Line: "false", Retries: 1, Check: true, Silent: true})
		require.Error(t, err)
		assert.Equal(t, 2, res.Attempts)
		assert.Contains(t, err.Error(), "after 2 attempt(s)")
	})

	t.Run("should stop retrying when the context is cancelled", func(t *testing.T) {
		r := NewProcessRunner(WithOutput(&bytes.Buffer{}, &bytes.Buffer{}), WithRetryDelay(time.Hour))
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		res, err := r.Run(ctx, Command{Line: "false", Retries: 3, Silent: true})
		require.Error(t, err)
		require.NotNil(t, res)
		assert.Equal(t, 1, res.Attempts)
	})
}

func TestProcessRunner_Run_InvalidCommand(t *testing.T) {
	r, _, _ := newTestRunner()

	_, err := r.Run(context.Background(), Command{Line: "   "})
	require.Error(t, err)
	require.True(t, errorx.IsOfType(err, errorx.IllegalArgument))

	_, err = r.Run(context.Background(), Command{Line: "true", Retries: -1})
	require.Error(t, err)
	require.True(t, errorx.IsOfType(err, errorx.IllegalArgument))
}

func TestProcessRunner_Run_MissingProgram(t *testing.T) {
	r, _, _ := newTestRunner()

	res, err := r.Run(context.Background(), Command{Line: "ignite-no-such-binary --flag", Silent: true})
	require.NoError(t, err)
	require.Equal(t, -1, res.ExitCode)
	require.NotEmpty(t, res.Stderr)

	_, err = r.Run(context.Background(), Command{Line: "ignite-no-such-binary --flag", Check: true, Silent: true})
	require.Error(t, err)
	require.True(t, errorx.IsOfType(err, CommandFailed))
}

func TestProcessRunner_Run_DirAndEnv(t *testing.T) {
	r, _, _ := newTestRunner()
	dir := t.TempDir()

	res, err := r.Run(context.Background(), Command{Line: "pwd", Dir: dir, Silent: true})
	require.NoError(t, err)
	require.Equal(t, dir, strings.TrimSpace(res.Stdout))

	res, err = r.Run(context.Background(), Command{Line: "env", Env: []string{"IGNITE_TEST=value"}, Silent: true})
	require.NoError(t, err)
	require.Contains(t, res.Stdout, "IGNITE_TEST=value")
}

func TestProcessRunner_Run_EchoesStderr(t *testing.T) {
	r, _, stderr := newTestRunner()

	_, err := r.Run(context.Background(), Command{Line: "ls /ignite-does-not-exist"})
	require.NoError(t, err)
	require.NotEmpty(t, stderr.String())
}
