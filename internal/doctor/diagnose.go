// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"
	"github.com/joomcode/errorx"
	"github.com/spyral-ai/ignite/internal/config"
	"github.com/spyral-ai/ignite/internal/core"
	"github.com/spyral-ai/ignite/internal/version"
	"github.com/spyral-ai/ignite/pkg/execx"
	"github.com/spyral-ai/ignite/pkg/exit"
	"github.com/spyral-ai/ignite/pkg/software"
)

// ErrPropertyResolution lets an error carry its own resolution text
var ErrPropertyResolution = errorx.RegisterPrintableProperty("resolution")

const (
	CodeIllegalArgument = 10400
	CodeNotFound        = 10404
	CodeIntegrity       = 10409
	CodeCommandFailed   = 10422
	CodeInternal        = 10500
)

type ErrorDiagnosis struct {
	Error      error    `yaml:"-" json:"-"`
	Message    string   `yaml:"message" json:"message"`
	Cause      string   `yaml:"cause" json:"cause"`
	ErrorType  string   `yaml:"errorType" json:"errorType"`
	TraceId    string   `yaml:"traceId" json:"traceId"`
	Commit     string   `yaml:"commit" json:"commit"`
	Version    string   `yaml:"version" json:"version"`
	Pid        int      `yaml:"pid" json:"pid"`
	Code       int      `yaml:"code" json:"code"`
	Logfile    string   `yaml:"log" json:"log"`
	StackTrace string   `yaml:"stackTrace" json:"stackTrace"`
	Resolution []string `yaml:"steps" json:"steps"`
}

// exitFunc terminates the process after a diagnosis has been printed
var exitFunc = func(code exit.Code) {
	code.TerminateProcess()
}

// output is where diagnoses are printed
var output io.Writer = os.Stdout

func toErrorCode(err error) int {
	switch {
	case errorx.IsOfType(err, errorx.IllegalArgument):
		return CodeIllegalArgument
	case errorx.IsOfType(err, software.ChecksumError):
		return CodeIntegrity
	case errorx.IsOfType(err, execx.CommandFailed):
		return CodeCommandFailed
	default:
		if errorx.HasTrait(err, errorx.NotFound()) {
			return CodeNotFound
		}
		return CodeInternal
	}
}

func toExitCode(err error) exit.Code {
	switch {
	case errorx.IsOfType(err, errorx.IllegalArgument), errorx.IsOfType(err, errorx.IllegalFormat):
		return exit.UsageError
	case errorx.IsOfType(err, config.NotFoundError):
		return exit.ConfigurationError
	default:
		return exit.GeneralError
	}
}

func toErrorMessage(err error) (string, string) {
	e := errorx.Cast(err)
	if e == nil {
		return err.Error(), ""
	}

	if e.Cause() == nil {
		return e.Message(), ""
	}

	return e.Message(), fmt.Sprintf("%s", e.Cause())
}

func findResolution(err error) []string {
	if r, ok := errorx.ExtractProperty(err, ErrPropertyResolution); ok {
		if s, ok := r.(string); ok && s != "" {
			return []string{s}
		}
	}

	switch {
	case errorx.IsOfType(err, errorx.IllegalArgument):
		if arg, ok := errorx.ExtractProperty(err, errorx.PropertyPayload()); ok {
			return []string{fmt.Sprintf("Ensure %q is provided.", arg)}
		}
		return []string{"Ensure all required arguments are provided."}
	case errorx.IsOfType(err, errorx.IllegalFormat):
		return []string{"Ensure provided data is in correct format."}
	case errorx.IsOfType(err, config.NotFoundError):
		if arg, ok := errorx.ExtractProperty(err, errorx.PropertyPayload()); ok {
			return []string{fmt.Sprintf("Ensure configuration file %q exists, is correctly formatted and accessible", arg)}
		}
		return []string{"Ensure configuration file exists and is accessible."}
	case errorx.IsOfType(err, software.ChecksumError):
		if p, ok := software.FilePathOf(err); ok {
			return []string{
				fmt.Sprintf("Delete %q and re-run the same command to download it again.", p),
				"If the checksum keeps failing, check the network path to the download server.",
			}
		}
		return []string{"Delete the downloaded artifact and re-run the same command."}
	case errorx.IsOfType(err, execx.CommandFailed):
		steps := []string{"Re-run the same command; every step re-derives its state from the host."}
		if cmd, ok := execx.CommandOf(err); ok {
			steps = append(steps, fmt.Sprintf("Run %q manually to inspect its output.", cmd))
		}
		return steps
	case errorx.IsOfType(err, software.DownloadError):
		return []string{"Check network connectivity to the download server and re-run the same command."}
	default:
		return []string{"Check error message for details or contact support"}
	}
}

// writeStackTrace saves the full error trace under the diagnostics directory and returns the file path
func writeStackTrace(ex error) string {
	timestamp := time.Now().Format("20060102-150405")

	dir := path.Join(core.Paths().DiagnosticsDir, timestamp)
	if err := os.MkdirAll(dir, core.DefaultDirOrExecPerm); err != nil {
		logx.As().Warn().Err(err).Str("dir", dir).Msg("failed to create diagnostics directory")
		return ""
	}

	file := filepath.Join(dir, "stacktrace-"+timestamp+".txt")
	if err := os.WriteFile(file, []byte(fmt.Sprintf("%+v\n", ex)), core.DefaultFilePerm); err != nil {
		logx.As().Warn().Err(err).Str("file", file).Msg("failed to write stack trace")
		return ""
	}

	return file
}

// Diagnose attempts to find a resolution and provide a human friendly error response
func Diagnose(ctx context.Context, ex error) *ErrorDiagnosis {
	traceId, _ := ctx.Value("traceId").(string)

	msg, cause := toErrorMessage(ex)
	return &ErrorDiagnosis{
		Error:      ex,
		ErrorType:  errorx.GetTypeName(ex),
		Message:    msg,
		Cause:      cause,
		TraceId:    traceId,
		Code:       toErrorCode(ex),
		Commit:     version.Commit(),
		Version:    version.Number(),
		Pid:        os.Getpid(),
		Logfile:    config.Get().Log.Filename,
		Resolution: findResolution(ex),
	}
}

// Print writes the diagnosis box followed by the resolution steps.
// Optional instructions are printed before the default resolution steps.
func (d *ErrorDiagnosis) Print(w io.Writer, instructions string) {
	p := paletteFor(w)
	field := func(style string, name string, value any) {
		_, _ = fmt.Fprintf(w, "%s*%s\t%s%s:%s %v\n", p.failure, p.reset, style, name, p.reset, value)
	}
	marker := func(text string) {
		if text == "" {
			_, _ = fmt.Fprintf(w, "%s*%s\n", p.resolution, p.reset)
			return
		}
		_, _ = fmt.Fprintf(w, "%s*%s\t%s\n", p.resolution, p.reset, text)
	}

	_, _ = fmt.Fprintf(w, "\n%s%s%s\n", p.failure, banner("Error Diagnostics"), p.reset)
	field(p.label, "Error", d.Message)
	if d.Cause != "" {
		field(p.label, "Cause", d.Cause)
	}
	field(p.label, "Error Type", d.ErrorType)
	field(p.label, "Error Code", d.Code)
	field(p.detail, "Commit", d.Commit)
	field(p.detail, "Pid", d.Pid)
	field(p.detail, "TraceId", d.TraceId)
	field(p.detail, "Version", d.Version)
	if d.Logfile != "" {
		field(p.path, "Logfile", d.Logfile)
	}
	if d.StackTrace != "" {
		field(p.path, "Stack trace", d.StackTrace)
	}
	_, _ = fmt.Fprintf(w, "%s%s%s\n", p.failure, banner(""), p.reset)

	_, _ = fmt.Fprintf(w, "\n%s%s%s\n", p.resolution, banner("Resolution"), p.reset)
	if instructions != "" {
		for _, line := range strings.Split(instructions, "\n") {
			if line == "" {
				marker("")
			} else {
				marker(p.label + line + p.reset)
			}
		}
		if len(d.Resolution) > 0 {
			marker("")
		}
	}

	for _, r := range d.Resolution {
		marker(r)
	}

	_, _ = fmt.Fprintf(w, "%s%s%s\n", p.resolution, banner(""), p.reset)
}

// banner centres title in a line of asterisks
func banner(title string) string {
	const width = 99
	if title == "" {
		return strings.Repeat("*", width)
	}

	title = " " + title + " "
	left := (width - len(title)) / 2
	return strings.Repeat("*", left) + title + strings.Repeat("*", width-left-len(title))
}

// CheckErr prints diagnosis and exits with a non-zero code.
// Optional instructions can be provided to give additional context to the user
func CheckErr(ctx context.Context, err error, instructions ...string) {
	if err == nil {
		return
	}

	logx.As().Error().Err(err).Msg("error occurred")
	resp := Diagnose(ctx, err)
	resp.StackTrace = writeStackTrace(err)

	var extra string
	if len(instructions) > 0 {
		extra = instructions[0]
	}
	resp.Print(output, extra)

	exitFunc(toExitCode(err))
}

// CheckReportErr diagnoses the error of a failed workflow or step report.
// Instructions found in the report metadata are printed ahead of the default resolution.
func CheckReportErr(ctx context.Context, report *automa.Report) {
	if report == nil || report.Error == nil {
		return
	}

	CheckErr(ctx, report.Error, GetInstructionsFromReport(report))
}

// GetInstructionsFromReport recursively searches for instructions in report metadata.
// Returns the first non-empty instructions found in the report tree, or an empty string if none exist.
func GetInstructionsFromReport(report *automa.Report) string {
	if report == nil {
		return ""
	}

	if instructions, ok := report.Metadata["instructions"]; ok && instructions != "" {
		return instructions
	}

	for _, stepReport := range report.StepReports {
		if instructions := GetInstructionsFromReport(stepReport); instructions != "" {
			return instructions
		}
	}

	return ""
}
