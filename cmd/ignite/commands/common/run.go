// SPDX-License-Identifier: Apache-2.0

package common

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"
	"github.com/joomcode/errorx"
	"github.com/spf13/cobra"
	"github.com/spyral-ai/ignite/internal/config"
	"github.com/spyral-ai/ignite/internal/core"
	"github.com/spyral-ai/ignite/internal/doctor"
	"github.com/spyral-ai/ignite/internal/workflows"
	"github.com/spyral-ai/ignite/internal/workflows/steps"
	"github.com/spyral-ai/ignite/pkg/execx"
	"github.com/spyral-ai/ignite/pkg/exit"
	"github.com/spyral-ai/ignite/pkg/systemd"
)

const rebootCmd = "reboot now"

// overridable in tests
var (
	exitFunc = func(code exit.Code) {
		code.TerminateProcess()
	}

	checkReportErr = doctor.CheckReportErr
)

// RunWorkflow executes a workflow, diagnoses a failure and returns the report
func RunWorkflow(ctx context.Context, b automa.Builder) *automa.Report {
	wb, err := b.Build()
	if err != nil {
		doctor.CheckErr(ctx, err)
		return nil
	}

	report := wb.Execute(ctx)
	CheckWorkflowReport(ctx, report)
	return report
}

// CheckWorkflowReport saves the report to the logs directory and runs the doctor on the first failed step
func CheckWorkflowReport(ctx context.Context, report *automa.Report) {
	if report == nil {
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	reportPath := path.Join(core.Paths().LogsDir, fmt.Sprintf("%s_report_%s.yaml", report.Id, timestamp))
	if err := steps.PrintWorkflowReport(report, reportPath); err != nil {
		logx.As().Warn().Err(err).Str("report_path", reportPath).Msg("Failed to save workflow report")
	} else {
		logx.As().Info().Str("report_path", reportPath).Msg("Workflow report is saved")
	}

	if failed := FirstFailedReport(report); failed != nil {
		checkReportErr(ctx, failed)
	}
}

// FirstFailedReport returns the deepest failed report carrying an error, or nil when nothing failed
func FirstFailedReport(report *automa.Report) *automa.Report {
	if report == nil {
		return nil
	}

	for _, stepReport := range report.StepReports {
		if failed := FirstFailedReport(stepReport); failed != nil {
			return failed
		}
	}

	if report.Status == automa.StatusFailed && report.Error != nil {
		return report
	}

	return nil
}

// MetadataValue returns the first value recorded under key anywhere in the report tree
func MetadataValue(report *automa.Report, key string) (string, bool) {
	if report == nil {
		return "", false
	}

	if v, ok := report.Metadata[key]; ok {
		return v, true
	}

	for _, stepReport := range report.StepReports {
		if v, ok := MetadataValue(stepReport, key); ok {
			return v, true
		}
	}

	return "", false
}

// RebootRequested reports whether a step of the report tree asked for a reboot, with its reason
func RebootRequested(report *automa.Report) (bool, string) {
	v, ok := MetadataValue(report, steps.MetaRebootRequired)
	if !ok || v != "true" {
		return false, ""
	}

	reason, _ := MetadataValue(report, steps.MetaRebootReason)
	return true, reason
}

// Reboot restarts the host with the given method (config.RebootMethodCommand or config.RebootMethodSystemd)
var Reboot = func(ctx context.Context, method string) error {
	switch method {
	case config.RebootMethodSystemd:
		return systemd.NewManager().Reboot(ctx)
	case config.RebootMethodCommand, "":
		_, err := workflows.NewRunner(config.Get()).Run(ctx, execx.Command{Line: rebootCmd, Check: true})
		return err
	default:
		return errorx.IllegalArgument.New("unsupported reboot method %q", method)
	}
}

// HandleReboot reboots the host and terminates the process with exit code 0 when the report asks for it.
// It returns without doing anything otherwise.
func HandleReboot(ctx context.Context, report *automa.Report) {
	requested, reason := RebootRequested(report)
	if !requested {
		return
	}

	method := config.Get().Reboot.Method
	logx.As().Info().Str("reason", reason).Str("method", method).
		Msg("Rebooting the host, run the same command again once it is back")

	if err := Reboot(ctx, method); err != nil {
		doctor.CheckErr(ctx, errorx.Decorate(err, "failed to reboot the host").
			WithProperty(doctor.ErrPropertyResolution, "Reboot the host manually, then run the same command again"))
		return
	}

	exitFunc(exit.NormalTermination)
}

// DefaultRunE is a default RunE function that shows help message and provides a placeholder to add common behaviour.
// We always add a run function to commands to ensure cobra marks it as Runnable and allows our commands to invoke
// PersistentPreRunE functions of the root command.
func DefaultRunE(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}
