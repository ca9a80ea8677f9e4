// SPDX-License-Identifier: Apache-2.0

package cuda

import (
	"github.com/automa-saga/logx"
	"github.com/joomcode/errorx"
	"github.com/spf13/cobra"
	"github.com/spyral-ai/ignite/cmd/ignite/commands/common"
	"github.com/spyral-ai/ignite/internal/config"
	"github.com/spyral-ai/ignite/internal/workflows"
	"github.com/spyral-ai/ignite/pkg/cuda"
)

var (
	flagVersion         string
	flagStopOnError     bool
	flagRollbackOnError bool
	flagContinueOnError bool
	flagSkipPreflight   bool

	cudaCmd = &cobra.Command{
		Use:   "cuda",
		Short: "Manage the NVIDIA GPU driver and the CUDA toolkit",
		Long: "Manage the NVIDIA GPU driver and the CUDA toolkit.\n" +
			"Commands that need a new kernel or a fresh boot reboot the host; run the same command again afterwards.",
		RunE: common.DefaultRunE, // ensure we have a default action to make it runnable so that sub-commands would inherit parent flags
	}
)

func init() {
	common.FlagCudaVersion.SetVarP(cudaCmd, &flagVersion, false)
	common.FlagStopOnError.SetVarP(cudaCmd, &flagStopOnError, false)
	common.FlagRollbackOnError.SetVarP(cudaCmd, &flagRollbackOnError, false)
	common.FlagContinueOnError.SetVarP(cudaCmd, &flagContinueOnError, false)
	common.FlagSkipPreflight.SetVarP(cudaCmd, &flagSkipPreflight, false)
	_ = cudaCmd.PersistentFlags().MarkHidden(common.FlagSkipPreflight.Name)

	cudaCmd.AddCommand(installDriverCmd)
	cudaCmd.AddCommand(installToolkitCmd)
	cudaCmd.AddCommand(uninstallDriverCmd)
	cudaCmd.AddCommand(verifyDriverCmd)
	cudaCmd.AddCommand(releasesCmd)
}

func GetCmd() *cobra.Command {
	return cudaCmd
}

// prepare applies the command line overrides and returns the installer and workflow options to run with
func prepare() (*cuda.Installer, workflows.WorkflowExecutionOptions, error) {
	opts := workflows.DefaultWorkflowExecutionOptions()

	if err := config.OverrideCudaVersion(flagVersion); err != nil {
		return nil, opts, err
	}

	execMode, err := common.GetExecutionMode(flagContinueOnError, flagStopOnError, flagRollbackOnError)
	if err != nil {
		return nil, opts, errorx.Decorate(err, "failed to determine execution mode")
	}
	opts.ExecutionMode = execMode
	opts.SkipPreflight = flagSkipPreflight

	cfg := config.Get()
	inst, err := workflows.NewCudaInstaller(cfg)
	if err != nil {
		return nil, opts, err
	}

	logx.As().Debug().
		Str("cuda", inst.Release().Version).
		Str("driver", inst.Release().DriverVersion).
		Str("cloudProvider", cfg.CloudProvider).
		Any("opts", opts).
		Msg("Prepared CUDA installer")

	return inst, opts, nil
}
