// SPDX-License-Identifier: Apache-2.0

package workflows

import (
	"testing"

	"github.com/automa-saga/automa"
	"github.com/golang/mock/gomock"
	"github.com/spyral-ai/ignite/internal/workflows/steps"
	"github.com/spyral-ai/ignite/pkg/cuda"
	"github.com/spyral-ai/ignite/pkg/hardware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInstaller(t *testing.T) *steps.MockCudaInstaller {
	t.Helper()
	inst := steps.NewMockCudaInstaller(gomock.NewController(t))
	release, err := cuda.Lookup("")
	require.NoError(t, err)
	inst.EXPECT().Release().Return(release).AnyTimes()
	return inst
}

func TestInstallDriverWorkflow_RebootRequested(t *testing.T) {
	withHost(t, fakeProfile{vendor: "debian", version: "12", gpus: []hardware.GPU{teslaT4}}, "0")

	inst := newInstaller(t)
	inst.EXPECT().InstallDriver(gomock.Any()).Return(cuda.NewRebootRequiredError("kernel upgraded"))

	report := run(t, NewInstallDriverWorkflow(inst, DefaultWorkflowExecutionOptions()))
	require.NoError(t, report.Error)
	assert.Equal(t, automa.StatusSuccess, report.Status)
	require.Len(t, report.StepReports, 2)
	assert.Equal(t, "true", report.StepReports[1].Metadata[steps.MetaRebootRequired])
}

func TestInstallToolkitWorkflow_StopsOnFailedPreflight(t *testing.T) {
	withHost(t, fakeProfile{vendor: "debian", version: "12"}, "1000")

	// no InstallToolkit expectation: the step must not run
	inst := newInstaller(t)

	report := run(t, NewInstallToolkitWorkflow(inst, DefaultWorkflowExecutionOptions()))
	require.Error(t, report.Error)
	assert.Equal(t, automa.StatusFailed, report.Status)
}

func TestUninstallDriverWorkflow_SkipPreflight(t *testing.T) {
	withHost(t, fakeProfile{vendor: "debian", version: "12"}, "1000")

	inst := newInstaller(t)
	inst.EXPECT().UninstallDriver(gomock.Any()).Return(nil)

	opts := DefaultWorkflowExecutionOptions()
	opts.SkipPreflight = true

	report := run(t, NewUninstallDriverWorkflow(inst, opts))
	require.NoError(t, report.Error)
	assert.Len(t, report.StepReports, 1)
}

func TestVerifyDriverWorkflow(t *testing.T) {
	withHost(t, fakeProfile{vendor: "debian", version: "12"}, "1000")

	inst := newInstaller(t)
	inst.EXPECT().VerifyDriver(gomock.Any(), true).Return(false, nil)

	report := run(t, NewVerifyDriverWorkflow(inst, DefaultWorkflowExecutionOptions()))
	require.NoError(t, report.Error)
	require.Len(t, report.StepReports, 2)
	assert.Equal(t, "false", report.StepReports[1].Metadata[steps.MetaDriverVerified])
}
