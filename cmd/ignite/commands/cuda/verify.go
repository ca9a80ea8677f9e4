// SPDX-License-Identifier: Apache-2.0

package cuda

import (
	"github.com/spf13/cobra"
	"github.com/spyral-ai/ignite/cmd/ignite/commands/common"
	"github.com/spyral-ai/ignite/internal/workflows"
	"github.com/spyral-ai/ignite/internal/workflows/steps"
	"github.com/spyral-ai/ignite/pkg/exit"
)

// overridable in tests
var exitFunc = func(code exit.Code) {
	code.TerminateProcess()
}

var verifyDriverCmd = &cobra.Command{
	Use:   "verify-driver",
	Short: "Check that the NVIDIA GPU driver is installed and sees a GPU",
	Long:  "Check that nvidia-smi is installed and lists at least one GPU. Exits with 0 when verified and 1 otherwise.",
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, opts, err := prepare()
		if err != nil {
			return err
		}

		report := common.RunWorkflow(cmd.Context(), workflows.NewVerifyDriverWorkflow(inst, opts))

		verified, _ := common.MetadataValue(report, steps.MetaDriverVerified)
		if verified != "true" {
			cmd.Println("GPU driver is not installed or does not see a GPU")
			exitFunc(exit.DriverNotVerified)
			return nil
		}

		cmd.Println("GPU driver is installed and verified")
		return nil
	},
}
