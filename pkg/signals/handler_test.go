// SPDX-License-Identifier: Apache-2.0

package signals

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Register(t *testing.T) {
	h := NewHandler()
	defer h.Shutdown()

	received := make(chan os.Signal, 1)
	require.NoError(t, h.Register(syscall.SIGUSR1, func(s os.Signal) { received <- s }))
	assert.True(t, h.HasCallback(syscall.SIGUSR1))

	err := h.Register(syscall.SIGUSR1, func(os.Signal) {})
	require.Error(t, err)
	assert.True(t, errorx.IsOfType(err, HandlerError))

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))

	select {
	case s := <-received:
		assert.Equal(t, syscall.SIGUSR1, s)
	case <-time.After(5 * time.Second):
		t.Fatal("callback was not invoked")
	}
}

func TestHandler_Unregister(t *testing.T) {
	h := NewHandler()
	defer h.Shutdown()

	require.NoError(t, h.Register(syscall.SIGUSR2, func(os.Signal) {}))
	h.Unregister(syscall.SIGUSR2)
	assert.False(t, h.HasCallback(syscall.SIGUSR2))

	// a second registration is allowed once the first is gone
	require.NoError(t, h.Register(syscall.SIGUSR2, func(os.Signal) {}))
}

func TestHandler_Shutdown(t *testing.T) {
	h := NewHandler()
	assert.True(t, h.IsActive())

	h.Shutdown()
	h.Shutdown()
	assert.False(t, h.IsActive())

	err := h.Register(syscall.SIGUSR1, func(os.Signal) {})
	require.Error(t, err)
	assert.True(t, errorx.IsOfType(err, HandlerError))

	err = NewHandler().Register(nil, nil)
	assert.True(t, errorx.IsOfType(err, errorx.IllegalArgument))
}

func TestCancelOnInterrupt(t *testing.T) {
	ctx, release := CancelOnInterrupt(context.Background())
	require.NoError(t, ctx.Err())

	release()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
