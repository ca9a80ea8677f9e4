// SPDX-License-Identifier: Apache-2.0

package workflows

import (
	"github.com/automa-saga/automa"
	"github.com/spyral-ai/ignite/internal/workflows/steps"
)

// WorkflowExecutionOptions controls how a cuda workflow reacts to a failed step
type WorkflowExecutionOptions struct {
	ExecutionMode automa.TypeMode
	SkipPreflight bool
}

func DefaultWorkflowExecutionOptions() WorkflowExecutionOptions {
	return WorkflowExecutionOptions{ExecutionMode: automa.StopOnError}
}

func newCudaWorkflow(id string, opts WorkflowExecutionOptions, step automa.Builder) *automa.WorkflowBuilder {
	var builders []automa.Builder
	if !opts.SkipPreflight {
		builders = append(builders, NewPreflightWorkflow())
	}
	builders = append(builders, step)

	return automa.NewWorkflowBuilder().
		WithId(id).
		Steps(builders...).
		WithExecutionMode(opts.ExecutionMode)
}

func NewInstallDriverWorkflow(inst steps.CudaInstaller, opts WorkflowExecutionOptions) *automa.WorkflowBuilder {
	return newCudaWorkflow("cuda-install-driver", opts, steps.InstallDriverStep(inst))
}

func NewInstallToolkitWorkflow(inst steps.CudaInstaller, opts WorkflowExecutionOptions) *automa.WorkflowBuilder {
	return newCudaWorkflow("cuda-install-toolkit", opts, steps.InstallToolkitStep(inst))
}

func NewUninstallDriverWorkflow(inst steps.CudaInstaller, opts WorkflowExecutionOptions) *automa.WorkflowBuilder {
	return newCudaWorkflow("cuda-uninstall-driver", opts, steps.UninstallDriverStep(inst))
}

// NewVerifyDriverWorkflow does not need root, so only the GPU detection runs ahead of the check
func NewVerifyDriverWorkflow(inst steps.CudaInstaller, opts WorkflowExecutionOptions) *automa.WorkflowBuilder {
	return automa.NewWorkflowBuilder().
		WithId("cuda-verify-driver").
		Steps(
			CheckGPUStep(),
			steps.VerifyDriverStep(inst),
		).
		WithExecutionMode(opts.ExecutionMode)
}
