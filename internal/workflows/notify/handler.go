// SPDX-License-Identifier: Apache-2.0

package notify

import (
	"context"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"
	"github.com/rs/zerolog"
)

// withMetadata copies the report metadata into the log event
func withMetadata(e *zerolog.Event, report *automa.Report) *zerolog.Event {
	if report == nil || len(report.Metadata) == 0 {
		return e
	}

	d := zerolog.Dict()
	for k, v := range report.Metadata {
		d = d.Str(k, v)
	}

	return e.Dict("metadata", d)
}

// Default notification handler that logs through logx
// Caller may override using SetDefault
var handler = &Handler{
	StepStart: func(ctx context.Context, stp automa.Step, msg string, args ...interface{}) {
		logx.As().Info().
			Str("step_id", stp.Id()).
			Msgf(msg, args...)
	},
	StepCompletion: func(ctx context.Context, stp automa.Step, report *automa.Report, msg string, args ...interface{}) {
		e := logx.As().Info().
			Str("step_id", stp.Id()).
			Str("status", report.Status.String())
		withMetadata(e, report).Msgf(msg, args...)
	},
	StepFailure: func(ctx context.Context, stp automa.Step, report *automa.Report, msg string, args ...interface{}) {
		// find the root cause from steps error by going through step reports
		firstErrReport := report
		for _, stepReport := range report.StepReports {
			if stepReport.HasError() {
				firstErrReport = stepReport
				break
			}
		}

		l := logx.As().Error().Err(report.Error).
			Str("step_id", stp.Id()).
			Str("status", report.Status.String())
		if firstErrReport.Id != report.Id && firstErrReport.Error != nil {
			l.
				Str("first_error", firstErrReport.Error.Error()).
				Str("first_error_step_id", firstErrReport.Id)
		}

		l.Msgf(msg, args...)
	},
}

// Handler defines callbacks for step events
// Caller may pass a custom handler to forward messages to a channel or a different sink.
type Handler struct {
	StepStart      func(ctx context.Context, stp automa.Step, msg string, args ...interface{})
	StepCompletion func(ctx context.Context, stp automa.Step, report *automa.Report, msg string, args ...interface{})
	StepFailure    func(ctx context.Context, stp automa.Step, report *automa.Report, msg string, args ...interface{})
}

// SetDefault sets the default callback handler for step events
// It only updates non-nil handlers to preserve existing defaults
func SetDefault(h *Handler) {
	if h.StepStart != nil {
		handler.StepStart = h.StepStart
	}

	if h.StepCompletion != nil {
		handler.StepCompletion = h.StepCompletion
	}

	if h.StepFailure != nil {
		handler.StepFailure = h.StepFailure
	}
}

// As returns the current notification handler
func As() *Handler {
	return handler
}
