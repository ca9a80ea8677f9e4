// SPDX-License-Identifier: Apache-2.0

package software

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/joomcode/errorx"
	"github.com/spyral-ai/ignite/pkg/execx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const installerURL = "https://developer.download.nvidia.com/compute/cuda/12.8.0/local_installers/cuda_12.8.0_550.54.14_linux.run"

// fakeTransport writes fixed content to the destination and counts downloads
type fakeTransport struct {
	content string
	err     error
	calls   int
}

func (f *fakeTransport) Download(ctx context.Context, url string, destination string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(destination, []byte(f.content), 0644)
}

func newTestFetcher(t *testing.T, transport Transport) *Fetcher {
	t.Helper()
	f, err := NewFetcher(WithCacheDir(t.TempDir()), WithTransport(transport))
	require.NoError(t, err)
	return f
}

func TestFetcher_Destination(t *testing.T) {
	f := newTestFetcher(t, &fakeTransport{})

	dest, err := f.Destination(installerURL)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.CacheDir(), "cuda_12.8.0_550.54.14_linux.run"), dest)

	dest, err = f.Destination("https://example.com/files/driver.run?token=abc")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.CacheDir(), "driver.run"), dest)

	for _, bad := range []string{"https://example.com/", "https://example.com", "not a url", "::"} {
		_, err = f.Destination(bad)
		require.Error(t, err, bad)
		assert.True(t, errorx.IsOfType(err, InvalidURLError), bad)
	}
}

func TestFetcher_Fetch(t *testing.T) {
	t.Run("should download and verify a new artifact", func(t *testing.T) {
		transport := &fakeTransport{content: "installer"}
		f := newTestFetcher(t, transport)

		p, err := f.Fetch(context.Background(), installerURL, md5Hex("installer"))
		require.NoError(t, err)
		assert.Equal(t, 1, transport.calls)

		content, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, "installer", string(content))
	})

	t.Run("should not download when the artifact already exists", func(t *testing.T) {
		transport := &fakeTransport{content: "installer"}
		f := newTestFetcher(t, transport)

		dest, err := f.Destination(installerURL)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(dest, []byte("previously downloaded"), 0644))

		// the existing file is trusted even though its checksum differs
		p, err := f.Fetch(context.Background(), installerURL, md5Hex("installer"))
		require.NoError(t, err)
		assert.Equal(t, dest, p)
		assert.Equal(t, 0, transport.calls)
	})

	t.Run("should fail on checksum mismatch and keep the file", func(t *testing.T) {
		transport := &fakeTransport{content: "corrupted"}
		f := newTestFetcher(t, transport)

		_, err := f.Fetch(context.Background(), installerURL, md5Hex("installer"))
		require.Error(t, err)
		assert.True(t, errorx.IsOfType(err, ChecksumError))

		dest, _ := f.Destination(installerURL)
		p, ok := FilePathOf(err)
		require.True(t, ok)
		assert.Equal(t, dest, p)
		assert.FileExists(t, dest)
		assert.Contains(t, err.Error(), "delete the file before retrying")
	})

	t.Run("should propagate transport failures", func(t *testing.T) {
		transport := &fakeTransport{err: NewDownloadError(nil, installerURL, 500)}
		f := newTestFetcher(t, transport)

		_, err := f.Fetch(context.Background(), installerURL, md5Hex("installer"))
		require.Error(t, err)
		assert.True(t, errorx.IsOfType(err, DownloadError))
	})

	t.Run("should create the cache directory", func(t *testing.T) {
		transport := &fakeTransport{content: "installer"}
		cacheDir := filepath.Join(t.TempDir(), "nested", "cache")
		f, err := NewFetcher(WithCacheDir(cacheDir), WithTransport(transport))
		require.NoError(t, err)

		p, err := f.Fetch(context.Background(), installerURL, md5Hex("installer"))
		require.NoError(t, err)
		assert.Equal(t, cacheDir, filepath.Dir(p))
	})
}

func TestNewFetcher_Validation(t *testing.T) {
	_, err := NewFetcher()
	require.Error(t, err)
	assert.True(t, errorx.IsOfType(err, errorx.IllegalArgument))

	_, err = NewFetcher(WithTransport(&fakeTransport{}), WithAlgorithm("crc32"))
	require.Error(t, err)
	assert.True(t, errorx.IsOfType(err, errorx.IllegalArgument))
}

func TestCommandTransport_Download(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := execx.NewMockRunner(ctrl)
	transport := NewCommandTransport(runner)
	f := newTestFetcher(t, transport)
	dest, err := f.Destination(installerURL)
	require.NoError(t, err)

	t.Run("should download with curl as a checked command", func(t *testing.T) {
		line := "curl -fSsL -o " + dest + " " + installerURL
		runner.EXPECT().Run(gomock.Any(), execx.HasLine(line)).
			DoAndReturn(func(ctx context.Context, cmd execx.Command) (*execx.Result, error) {
				assert.True(t, cmd.Check)
				assert.False(t, cmd.Silent)
				return execx.Succeeded(line, ""), os.WriteFile(dest, []byte("installer"), 0644)
			})

		p, err := f.Fetch(context.Background(), installerURL, md5Hex("installer"))
		require.NoError(t, err)
		assert.Equal(t, dest, p)
	})

	t.Run("should wrap a failed curl into a download error", func(t *testing.T) {
		require.NoError(t, os.Remove(dest))

		res := execx.Failed("curl", 22, "404")
		runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(res, execx.NewCommandFailedError(res, nil))

		_, err := f.Fetch(context.Background(), installerURL, md5Hex("installer"))
		require.Error(t, err)
		assert.True(t, errorx.IsOfType(err, DownloadError))
	})
}

func TestHTTPTransport_Download(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("installer"))
	}))
	defer server.Close()

	f := newTestFetcher(t, NewHTTPTransport(nil))

	p, err := f.Fetch(context.Background(), server.URL+"/cuda_12.8.0_550.54.14_linux.run", md5Hex("installer"))
	require.NoError(t, err)
	assert.Equal(t, "cuda_12.8.0_550.54.14_linux.run", filepath.Base(p))
}
