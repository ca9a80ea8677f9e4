// SPDX-License-Identifier: Apache-2.0

package cuda

import (
	"github.com/automa-saga/logx"
	"github.com/spf13/cobra"
	"github.com/spyral-ai/ignite/cmd/ignite/commands/common"
	"github.com/spyral-ai/ignite/internal/workflows"
)

var installDriverCmd = &cobra.Command{
	Use:   "install-driver",
	Short: "Install the NVIDIA GPU driver",
	Long: "Install the kernel headers and build tools, then the NVIDIA GPU driver of the selected CUDA release.\n" +
		"When a newer cloud kernel is installed the host reboots first; run the command again afterwards.",
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, opts, err := prepare()
		if err != nil {
			return err
		}

		report := common.RunWorkflow(cmd.Context(), workflows.NewInstallDriverWorkflow(inst, opts))
		common.HandleReboot(cmd.Context(), report)

		logx.As().Info().Msg("GPU driver installation finished")
		return nil
	},
}

var installToolkitCmd = &cobra.Command{
	Use:     "install-toolkit",
	Aliases: []string{"install-cuda"},
	Short:   "Install the CUDA toolkit, and the GPU driver when missing",
	Long: "Install the CUDA toolkit of the selected release, installing the GPU driver first when nvidia-smi cannot list a GPU.\n" +
		"A fresh toolkit install always reboots the host so that the driver and the environment are picked up.",
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, opts, err := prepare()
		if err != nil {
			return err
		}

		report := common.RunWorkflow(cmd.Context(), workflows.NewInstallToolkitWorkflow(inst, opts))
		common.HandleReboot(cmd.Context(), report)

		logx.As().Info().Str("version", inst.Release().Version).Msg("CUDA toolkit is installed")
		return nil
	},
}

var uninstallDriverCmd = &cobra.Command{
	Use:   "uninstall-driver",
	Short: "Uninstall the NVIDIA GPU driver",
	Long:  "Uninstall the NVIDIA GPU driver with the uninstaller bundled in the CUDA installer and release the kernel package hold",
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, opts, err := prepare()
		if err != nil {
			return err
		}

		common.RunWorkflow(cmd.Context(), workflows.NewUninstallDriverWorkflow(inst, opts))

		logx.As().Info().Msg("GPU driver removal finished")
		return nil
	},
}
