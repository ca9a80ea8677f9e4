// SPDX-License-Identifier: Apache-2.0

package systemd

import (
	"context"
	"strings"
	"time"

	"github.com/automa-saga/logx"
	"github.com/coreos/go-systemd/v22/dbus"
	"github.com/joomcode/errorx"
)

const (
	DefaultTimeout = 10 * time.Second

	rebootTarget = "reboot.target"
)

var (
	ErrorsNamespace = errorx.NewNamespace("systemd")
	UnitError       = ErrorsNamespace.NewType("unit_error")

	unitProperty = errorx.RegisterPrintableProperty("unit")
)

// Manager talks to the systemd manager over dbus. Every call opens its own connection.
type Manager struct {
	timeout time.Duration
}

func NewManager() *Manager {
	return &Manager{timeout: DefaultTimeout}
}

func (m *Manager) connect(parent context.Context) (*dbus.Conn, context.Context, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(parent, m.timeout)

	conn, err := dbus.NewSystemConnectionContext(ctx)
	if err != nil {
		cancel()
		return nil, nil, nil, UnitError.Wrap(err, "failed to connect to systemd")
	}

	return conn, ctx, cancel, nil
}

// DaemonReload is the equivalent of "systemctl daemon-reload".
func (m *Manager) DaemonReload(parent context.Context) error {
	conn, ctx, cancel, err := m.connect(parent)
	if err != nil {
		return err
	}
	defer cancel()
	defer conn.Close()

	if err := conn.ReloadContext(ctx); err != nil {
		return UnitError.Wrap(err, "daemon-reload failed")
	}
	return nil
}

// EnableService is the equivalent of "systemctl enable <service>".
// The name can be given with or without the .service suffix.
func (m *Manager) EnableService(parent context.Context, name string) error {
	conn, ctx, cancel, err := m.connect(parent)
	if err != nil {
		return err
	}
	defer cancel()
	defer conn.Close()

	unit := unitName(name)

	// persistent, and overwrite existing symlinks
	if _, _, err = conn.EnableUnitFilesContext(ctx, []string{unit}, false, true); err != nil {
		return UnitError.Wrap(err, "failed to enable %s", unit).WithProperty(unitProperty, unit)
	}

	return nil
}

// StartService is the equivalent of "systemctl start <service>" and waits for the job to finish.
func (m *Manager) StartService(parent context.Context, name string) error {
	return m.start(parent, unitName(name), "replace")
}

// Reboot starts reboot.target. On success the host goes down and the call may never return.
func (m *Manager) Reboot(parent context.Context) error {
	logx.As().Warn().Msg("Rebooting through systemd")
	return m.start(parent, rebootTarget, "replace-irreversibly")
}

func (m *Manager) start(parent context.Context, unit string, mode string) error {
	conn, ctx, cancel, err := m.connect(parent)
	if err != nil {
		return err
	}
	defer cancel()
	defer conn.Close()

	jobChan := make(chan string, 1)
	if _, err = conn.StartUnitContext(ctx, unit, mode, jobChan); err != nil {
		return UnitError.Wrap(err, "failed to start %s", unit).WithProperty(unitProperty, unit)
	}

	select {
	case result := <-jobChan:
		if result != "done" {
			return UnitError.New("start job for %s finished with result '%s'", unit, result).
				WithProperty(unitProperty, unit)
		}
		return nil

	case <-ctx.Done():
		return UnitError.Wrap(ctx.Err(), "timeout waiting for %s to start", unit).WithProperty(unitProperty, unit)
	}
}

// unitName appends the .service suffix to bare service names
func unitName(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return name + ".service"
}
