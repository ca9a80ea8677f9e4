// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/automa-saga/automa"
	"github.com/joomcode/errorx"
	"github.com/spyral-ai/ignite/internal/core"
	"gopkg.in/yaml.v3"
)

var (
	ErrorsNamespace = errorx.NewNamespace("steps")
	ReportError     = ErrorsNamespace.NewType("report_error")

	reportPathProperty = errorx.RegisterPrintableProperty("report_path")
)

// PrintWorkflowReport writes the workflow execution report in YAML format to reportPath.
// An empty reportPath prints the report to stdout.
var PrintWorkflowReport = func(report *automa.Report, reportPath string) error {
	b, err := yaml.Marshal(report)
	if err != nil {
		return ReportError.Wrap(err, "failed to marshal report %s", report.Id)
	}

	if reportPath == "" {
		fmt.Printf("Workflow Execution Report:\n%s\n", b)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(reportPath), core.DefaultDirOrExecPerm); err != nil {
		return ReportError.Wrap(err, "failed to create report directory").
			WithProperty(reportPathProperty, reportPath)
	}

	if err := os.WriteFile(reportPath, b, core.DefaultFilePerm); err != nil {
		return ReportError.Wrap(err, "failed to write report").
			WithProperty(reportPathProperty, reportPath)
	}

	return nil
}
