// SPDX-License-Identifier: Apache-2.0

package software

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"
)

const DefaultDownloadTimeout = 30 * time.Minute

// Downloader fetches a URL over HTTP into a local file.
type Downloader struct {
	client  *http.Client
	timeout time.Duration
}

// NewDownloader creates a new Downloader with default settings
func NewDownloader() *Downloader {
	return NewDownloaderWithTimeout(DefaultDownloadTimeout)
}

// NewDownloaderWithTimeout creates a new Downloader with custom timeout
func NewDownloaderWithTimeout(timeout time.Duration) *Downloader {
	if timeout <= 0 {
		timeout = DefaultDownloadTimeout
	}

	return &Downloader{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Download downloads a file from the given URL to the specified destination.
// A partially written destination is left in place on failure.
func (fd *Downloader) Download(ctx context.Context, url, destination string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewInvalidURLError(err, url)
	}

	resp, err := fd.client.Do(req)
	if err != nil {
		return NewDownloadError(err, url, 0)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return NewDownloadError(nil, url, resp.StatusCode)
	}

	out, err := os.Create(destination)
	if err != nil {
		return NewDownloadError(err, url, 0)
	}
	defer out.Close()

	if _, err = io.Copy(out, resp.Body); err != nil {
		return NewDownloadError(err, url, 0)
	}

	return nil
}
