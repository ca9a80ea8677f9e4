// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"strconv"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"
	"github.com/spyral-ai/ignite/internal/workflows/notify"
	"github.com/spyral-ai/ignite/pkg/cuda"
)

//go:generate mockgen -source=step_cuda.go -destination=mock_step_cuda.go -package=steps

const (
	MetaRebootRequired = "rebootRequired"
	MetaRebootReason   = "rebootReason"
	MetaDriverVerified = "driverVerified"
	MetaCudaVersion    = "cudaVersion"
	MetaDriverVersion  = "driverVersion"
)

// CudaInstaller is the part of cuda.Installer the steps drive
type CudaInstaller interface {
	Release() cuda.Release
	InstallDriver(ctx context.Context) error
	InstallToolkit(ctx context.Context) error
	UninstallDriver(ctx context.Context) error
	VerifyDriver(ctx context.Context, verbose bool) (bool, error)
}

// releaseMeta returns the metadata every cuda step report carries
func releaseMeta(inst CudaInstaller) map[string]string {
	r := inst.Release()
	return map[string]string{
		MetaCudaVersion:   r.Version,
		MetaDriverVersion: r.DriverVersion,
	}
}

// operationReport turns the outcome of a host-changing operation into a step report.
// A RebootRequired outcome is a success that asks the caller to reboot the host.
func operationReport(stp automa.Step, meta map[string]string, err error) *automa.Report {
	if err == nil {
		return automa.SuccessReport(stp, automa.WithMetadata(meta))
	}

	if cuda.IsRebootRequired(err) {
		meta[MetaRebootRequired] = "true"
		meta[MetaRebootReason] = cuda.RebootReasonOf(err)
		logx.As().Info().Str("step_id", stp.Id()).Str("reason", meta[MetaRebootReason]).Msg("Reboot required to continue")
		return automa.SuccessReport(stp, automa.WithMetadata(meta))
	}

	return automa.FailureReport(stp, automa.WithError(err), automa.WithMetadata(meta))
}

// InstallDriverStep installs the GPU driver, possibly asking for a reboot first to switch kernels
func InstallDriverStep(inst CudaInstaller) *automa.StepBuilder {
	return automa.NewStepBuilder().WithId("install-gpu-driver").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			return operationReport(stp, releaseMeta(inst), inst.InstallDriver(ctx))
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Installing GPU driver %s", inst.Release().DriverVersion)
			return ctx, nil
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "GPU driver installation failed")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "GPU driver installation step completed")
		})
}

// InstallToolkitStep installs the CUDA toolkit and its driver; a fresh install always asks for a reboot
func InstallToolkitStep(inst CudaInstaller) *automa.StepBuilder {
	return automa.NewStepBuilder().WithId("install-cuda-toolkit").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			return operationReport(stp, releaseMeta(inst), inst.InstallToolkit(ctx))
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Installing CUDA toolkit %s", inst.Release().Version)
			return ctx, nil
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "CUDA toolkit installation failed")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "CUDA toolkit installation step completed")
		})
}

func UninstallDriverStep(inst CudaInstaller) *automa.StepBuilder {
	return automa.NewStepBuilder().WithId("uninstall-gpu-driver").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			return operationReport(stp, releaseMeta(inst), inst.UninstallDriver(ctx))
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Uninstalling GPU driver %s", inst.Release().DriverVersion)
			return ctx, nil
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "GPU driver removal failed")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "GPU driver removal step completed")
		})
}

// VerifyDriverStep records whether nvidia-smi lists a GPU. An unverified driver is not a step failure;
// callers read MetaDriverVerified from the report.
func VerifyDriverStep(inst CudaInstaller) *automa.StepBuilder {
	return automa.NewStepBuilder().WithId("verify-gpu-driver").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			meta := releaseMeta(inst)
			verified, err := inst.VerifyDriver(ctx, true)
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err), automa.WithMetadata(meta))
			}

			meta[MetaDriverVerified] = strconv.FormatBool(verified)
			return automa.SuccessReport(stp, automa.WithMetadata(meta))
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Verifying GPU driver")
			return ctx, nil
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "GPU driver verification could not run")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "GPU driver verification step completed")
		})
}
