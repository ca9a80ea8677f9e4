// SPDX-License-Identifier: Apache-2.0

package workflows

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"strconv"
	"strings"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"
	"github.com/joomcode/errorx"
	"github.com/spyral-ai/ignite/internal/doctor"
	"github.com/spyral-ai/ignite/internal/workflows/notify"
	"github.com/spyral-ai/ignite/pkg/hardware"
)

const (
	MetaGPUCount = "gpuCount"
	MetaGPUs     = "gpus"
)

// overridable in tests
var (
	currentUser = user.Current
	hostProfile = hardware.GetHostProfile
)

// CheckPrivilegesStep validates that the current user has superuser privileges
func CheckPrivilegesStep() *automa.StepBuilder {
	return automa.NewStepBuilder().WithId("validate-privileges").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			current, err := currentUser()
			if err != nil {
				return automa.FailureReport(stp,
					automa.WithError(errorx.IllegalState.Wrap(err, "failed to get current user")))
			}

			if current.Uid != "0" {
				return automa.FailureReport(stp,
					automa.WithError(
						errorx.IllegalState.New("requires superuser privilege").
							WithProperty(doctor.ErrPropertyResolution,
								fmt.Sprintf("Run the command with 'sudo' or as root user: `sudo %s`",
									strings.Join(os.Args, " ")))))
			}

			logx.As().Info().Msg("Superuser privilege validated")
			return automa.SuccessReport(stp)
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Starting privilege validation")
			return ctx, nil
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "Privilege validation failed")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "Privilege validation step completed successfully")
		})
}

// CheckOSStep validates that the host runs a supported Debian-family release
func CheckOSStep() *automa.StepBuilder {
	return automa.NewStepBuilder().WithId("validate-os").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			profile := hostProfile()
			logx.As().Info().Str("host_profile", profile.String()).Msg("Retrieved host profile")

			meta := map[string]string{
				"osVendor":      profile.GetOSVendor(),
				"osVersion":     profile.GetOSVersion(),
				"kernelRelease": profile.GetKernelRelease(),
			}

			if err := hardware.ValidateOS(profile); err != nil {
				return automa.FailureReport(stp,
					automa.WithError(errorx.Decorate(err, "OS validation failed").
						WithProperty(doctor.ErrPropertyResolution,
							fmt.Sprintf("Run ignite on one of %v", hardware.SupportedOS()))),
					automa.WithMetadata(meta))
			}

			return automa.SuccessReport(stp, automa.WithMetadata(meta))
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Starting OS validation")
			return ctx, nil
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "OS validation failed")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "OS validation step completed successfully")
		})
}

// CheckGPUStep looks for NVIDIA cards on the PCI bus. A host without one only gets a warning,
// since some cloud instances expose the GPU late in the boot.
func CheckGPUStep() *automa.StepBuilder {
	return automa.NewStepBuilder().WithId("detect-gpu").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			gpus, err := hardware.NvidiaGPUs(hostProfile())
			if err != nil {
				logx.As().Warn().Err(err).Msg("No NVIDIA GPU detected, the driver will not be able to verify")
				return automa.SuccessReport(stp, automa.WithMetadata(map[string]string{MetaGPUCount: "0"}))
			}

			names := make([]string, 0, len(gpus))
			for _, g := range gpus {
				names = append(names, fmt.Sprintf("%s %s", g.Address, g.Product))
			}

			logx.As().Info().Strs("gpus", names).Msg("NVIDIA GPU detected")
			return automa.SuccessReport(stp, automa.WithMetadata(map[string]string{
				MetaGPUCount: strconv.Itoa(len(gpus)),
				MetaGPUs:     strings.Join(names, ", "),
			}))
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Starting GPU detection")
			return ctx, nil
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "GPU detection step completed")
		})
}

// NewPreflightWorkflow runs the host checks every cuda operation starts with
func NewPreflightWorkflow() *automa.WorkflowBuilder {
	return automa.NewWorkflowBuilder().
		WithId("cuda-preflight").Steps(
		CheckPrivilegesStep(),
		CheckOSStep(),
		CheckGPUStep(),
	)
}
