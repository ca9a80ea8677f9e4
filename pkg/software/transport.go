// SPDX-License-Identifier: Apache-2.0

package software

import (
	"context"
	"fmt"

	"github.com/spyral-ai/ignite/pkg/execx"
)

const (
	TransportCommand = "curl"
	TransportHTTP    = "http"
)

// Transport moves the bytes of a URL into a local file.
type Transport interface {
	Download(ctx context.Context, url string, destination string) error
}

// CommandTransport downloads with curl through the process runner
type CommandTransport struct {
	runner  execx.Runner
	retries int
}

func NewCommandTransport(runner execx.Runner) *CommandTransport {
	return &CommandTransport{runner: runner}
}

// WithRetries sets how many times a failed curl is re-attempted
func (t *CommandTransport) WithRetries(n int) *CommandTransport {
	if n >= 0 {
		t.retries = n
	}
	return t
}

func (t *CommandTransport) Download(ctx context.Context, url string, destination string) error {
	_, err := t.runner.Run(ctx, execx.Command{
		Line:    fmt.Sprintf("curl -fSsL -o %s %s", destination, url),
		Check:   true,
		Retries: t.retries,
	})
	if err != nil {
		return NewDownloadError(err, url, 0)
	}

	return nil
}

// HTTPTransport downloads in-process with the HTTP Downloader
type HTTPTransport struct {
	downloader *Downloader
}

func NewHTTPTransport(downloader *Downloader) *HTTPTransport {
	if downloader == nil {
		downloader = NewDownloader()
	}

	return &HTTPTransport{downloader: downloader}
}

func (t *HTTPTransport) Download(ctx context.Context, url string, destination string) error {
	return t.downloader.Download(ctx, url, destination)
}
