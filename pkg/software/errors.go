// SPDX-License-Identifier: Apache-2.0

package software

import (
	"github.com/joomcode/errorx"
)

var (
	ErrorsNamespace     = errorx.NewNamespace("software")
	DownloadError       = ErrorsNamespace.NewType("download_error")
	ChecksumError       = ErrorsNamespace.NewType("checksum_error")
	FileNotFoundError   = ErrorsNamespace.NewType("file_not_found", errorx.NotFound())
	InvalidURLError     = ErrorsNamespace.NewType("invalid_url_error")
	LockError           = ErrorsNamespace.NewType("lock_error")
	PackageManagerError = ErrorsNamespace.NewType("package_manager_error")

	urlProperty          = errorx.RegisterPrintableProperty("url")
	filePathProperty     = errorx.RegisterPrintableProperty("file_path")
	algorithmProperty    = errorx.RegisterPrintableProperty("algorithm")
	expectedHashProperty = errorx.RegisterPrintableProperty("expected_hash")
	actualHashProperty   = errorx.RegisterPrintableProperty("actual_hash")
	statusCodeProperty   = errorx.RegisterPrintableProperty("status_code")
)

const (
	downloadErrorMsg       = "failed to download from URL '%s'"
	checksumErrorMsg       = "checksum verification failed for file '%s' using algorithm '%s' [ expected = '%s', actual = '%s' ]; delete the file before retrying"
	fileNotFoundErrorMsg   = "file not found: '%s'"
	invalidURLErrorMsg     = "invalid or unsupported URL: '%s'"
	lockErrorMsg           = "failed to acquire download lock for '%s'"
	packageManagerErrorMsg = "package manager operation '%s' failed"
)

func NewDownloadError(cause error, url string, statusCode int) *errorx.Error {
	err := DownloadError.New(downloadErrorMsg, url).
		WithProperty(urlProperty, url)

	if statusCode > 0 {
		err = err.WithProperty(statusCodeProperty, statusCode)
	}

	if cause != nil {
		err = err.WithUnderlyingErrors(cause)
	}

	return err
}

func NewChecksumError(filePath, algorithm, expectedHash, actualHash string) *errorx.Error {
	return ChecksumError.New(checksumErrorMsg, filePath, algorithm, expectedHash, actualHash).
		WithProperty(filePathProperty, filePath).
		WithProperty(algorithmProperty, algorithm).
		WithProperty(expectedHashProperty, expectedHash).
		WithProperty(actualHashProperty, actualHash)
}

func NewFileNotFoundError(filePath string) *errorx.Error {
	return FileNotFoundError.New(fileNotFoundErrorMsg, filePath).
		WithProperty(filePathProperty, filePath)
}

func NewInvalidURLError(cause error, url string) *errorx.Error {
	err := InvalidURLError.New(invalidURLErrorMsg, url).
		WithProperty(urlProperty, url)

	if cause != nil {
		err = err.WithUnderlyingErrors(cause)
	}

	return err
}

func NewLockError(cause error, filePath string) *errorx.Error {
	err := LockError.New(lockErrorMsg, filePath).
		WithProperty(filePathProperty, filePath)

	if cause != nil {
		err = err.WithUnderlyingErrors(cause)
	}

	return err
}

func NewPackageManagerError(cause error, operation string) *errorx.Error {
	err := PackageManagerError.New(packageManagerErrorMsg, operation)

	if cause != nil {
		err = err.WithUnderlyingErrors(cause)
	}

	return err
}

// FilePathOf returns the file path attached to a software error, if any
func FilePathOf(err error) (string, bool) {
	v, ok := errorx.ExtractProperty(err, filePathProperty)
	if !ok {
		return "", false
	}

	p, ok := v.(string)
	return p, ok
}
