//go:build integration

// SPDX-License-Identifier: Apache-2.0

package systemd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManager_DaemonReload_Integration(t *testing.T) {
	err := NewManager().DaemonReload(context.Background())
	require.NoError(t, err)
}

func TestManager_EnableService_UnknownUnit_Integration(t *testing.T) {
	err := NewManager().EnableService(context.Background(), "ignite-does-not-exist")
	require.Error(t, err)
}
