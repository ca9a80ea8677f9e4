// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/spyral-ai/ignite/cmd/ignite/commands"
	"github.com/spyral-ai/ignite/internal/doctor"
	"github.com/spyral-ai/ignite/pkg/signals"
)

func main() {
	traceId := uuid.NewString()
	ctx := context.WithValue(context.Background(), "traceId", traceId)

	ctx, release := signals.CancelOnInterrupt(ctx)
	err := commands.Execute(ctx)
	release()

	if err != nil {
		doctor.CheckErr(ctx, err)
	}
}
