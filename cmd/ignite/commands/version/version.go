// SPDX-License-Identifier: Apache-2.0

package version

import (
	"github.com/spf13/cobra"
	"github.com/spyral-ai/ignite/cmd/ignite/commands/common"
	"github.com/spyral-ai/ignite/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Long:  "Show the current version of the application",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := common.FlagOutput.Value(cmd, args)
		if err != nil {
			return err
		}

		output, err := version.Get().Format(format)
		if err != nil {
			return err
		}

		cmd.Println(output)
		return nil
	},
}

func GetCmd() *cobra.Command {
	return versionCmd
}
