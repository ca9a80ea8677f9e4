// SPDX-License-Identifier: Apache-2.0

// Package signals dispatches OS signals to callbacks and turns interrupts into context cancellation.
package signals

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/automa-saga/logx"
	"github.com/joomcode/errorx"
)

var (
	ErrorsNamespace = errorx.NewNamespace("signals")
	HandlerError    = ErrorsNamespace.NewType("handler_error")
)

// how long Shutdown waits for the dispatch loop to exit
const stopTimeout = 10 * time.Second

type Callback func(os.Signal)

// Handler dispatches OS signals to at most one callback per signal
type Handler struct {
	mu        sync.Mutex
	receiver  chan os.Signal
	callbacks map[os.Signal]Callback
	stop      chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
}

// NewHandler starts the dispatch loop. Callers must call Shutdown to stop it.
func NewHandler() *Handler {
	h := &Handler{
		receiver:  make(chan os.Signal, 1),
		callbacks: map[os.Signal]Callback{},
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	go h.loop()

	return h
}

func (h *Handler) loop() {
	defer close(h.done)
	for {
		select {
		case sig := <-h.receiver:
			h.dispatch(sig)
		case <-h.stop:
			signal.Stop(h.receiver)
			return
		}
	}
}

func (h *Handler) dispatch(sig os.Signal) {
	h.mu.Lock()
	cb, ok := h.callbacks[sig]
	h.mu.Unlock()

	if ok {
		cb(sig)
	}
}

// Register installs cb for sig. A signal can only have one callback.
func (h *Handler) Register(sig os.Signal, cb Callback) error {
	if sig == nil || cb == nil {
		return errorx.IllegalArgument.New("signal and callback are required")
	}

	if !h.IsActive() {
		return HandlerError.New("cannot register a callback for %s after shutdown", sig)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.callbacks[sig]; ok {
		return HandlerError.New("callback already exists for %s", sig)
	}

	h.callbacks[sig] = cb
	signal.Notify(h.receiver, sig)

	return nil
}

func (h *Handler) Unregister(sig os.Signal) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.callbacks, sig)
}

func (h *Handler) HasCallback(sig os.Signal) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, ok := h.callbacks[sig]
	return ok
}

func (h *Handler) IsActive() bool {
	select {
	case <-h.stop:
		return false
	default:
		return true
	}
}

// Shutdown stops listening for signals. It is safe to call more than once.
func (h *Handler) Shutdown() {
	h.stopOnce.Do(func() {
		close(h.stop)
		select {
		case <-h.done:
		case <-time.After(stopTimeout):
			logx.As().Warn().Msg("Signal handler did not stop in time, continuing")
		}
	})
}

// CancelOnInterrupt returns a context that is cancelled on SIGINT or SIGTERM, and the function releasing the handler.
// An interrupted command may leave the host half provisioned; running the same command again resumes it.
func CancelOnInterrupt(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	h := NewHandler()

	onSignal := func(sig os.Signal) {
		logx.As().Warn().
			Str("signal", sig.String()).
			Msg("Interrupted; re-run the same command to finish provisioning")
		cancel()
	}

	for _, sig := range []os.Signal{syscall.SIGINT, syscall.SIGTERM} {
		// registration on a fresh handler cannot collide
		_ = h.Register(sig, onSignal)
	}

	return ctx, func() {
		h.Shutdown()
		cancel()
	}
}
