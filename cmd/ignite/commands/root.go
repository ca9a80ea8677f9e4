// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"

	"github.com/automa-saga/logx"
	"github.com/joomcode/errorx"
	"github.com/spf13/cobra"
	"github.com/spyral-ai/ignite/cmd/ignite/commands/common"
	"github.com/spyral-ai/ignite/cmd/ignite/commands/cuda"
	"github.com/spyral-ai/ignite/cmd/ignite/commands/version"
	"github.com/spyral-ai/ignite/internal/config"
	"github.com/spyral-ai/ignite/internal/core"
	"github.com/spyral-ai/ignite/internal/doctor"
)

// examples:
// sudo ignite cuda install-driver --cloud-provider=aws
// sudo ignite cuda install-toolkit --config ./ignite.yaml -V 12.5
// ignite cuda verify-driver
// ignite cuda releases -o json

// rootCmd represents the base command when called without any subcommands
var (
	flagConfig        string
	flagOutputFormat  string
	flagCloudProvider string

	rootCmd = &cobra.Command{
		Use:   core.AppName,
		Short: "Provision NVIDIA GPU drivers and the CUDA toolkit on cloud Debian hosts",
		Long: "Ignite - Provision NVIDIA GPU drivers and the CUDA toolkit on cloud Debian hosts.\n" +
			"Every command inspects the host first, so an interrupted or rebooted run is resumed by re-running it.",
		RunE: common.DefaultRunE,
	}
)

func init() {
	common.FlagConfig.SetVarP(rootCmd, &flagConfig, false)
	common.FlagOutput.SetVarP(rootCmd, &flagOutputFormat, false)
	common.FlagCloudProvider.SetVarP(rootCmd, &flagCloudProvider, false)

	// disable command sorting to keep the order of commands as added
	cobra.EnableCommandSorting = false

	rootCmd.AddCommand(cuda.GetCmd())
	rootCmd.AddCommand(version.GetCmd())
}

// Execute executes the root command.
func Execute(ctx context.Context) error {
	if ctx == nil {
		return errorx.IllegalArgument.New("context is required")
	}

	cobra.OnInitialize(func() {
		initConfig(ctx)
	})

	_, err := rootCmd.ExecuteContextC(ctx)
	if err != nil {
		return errorx.IllegalState.Wrap(err, "failed to execute command")
	}

	return nil
}

func initConfig(ctx context.Context) {
	if err := config.Initialize(flagConfig); err != nil {
		doctor.CheckErr(ctx, err)
	}

	if err := config.OverrideCloudProvider(flagCloudProvider); err != nil {
		doctor.CheckErr(ctx, err)
	}

	cfg := config.Get()
	if err := logx.Initialize(cfg.Log); err != nil {
		doctor.CheckErr(ctx, err)
	}

	core.SetPaths(cfg.AppPaths())
}
