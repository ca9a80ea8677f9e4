// SPDX-License-Identifier: Apache-2.0

package kernel

import (
	"github.com/joomcode/errorx"
)

var (
	ErrorsNamespace      = errorx.NewNamespace("kernel")
	CandidateSourceError = ErrorsNamespace.NewType("candidate_source_error")
	PackageQueryError    = ErrorsNamespace.NewType("package_query_error")
	LockError            = ErrorsNamespace.NewType("lock_error")

	releaseProperty = errorx.RegisterPrintableProperty("release")
	prefixProperty  = errorx.RegisterPrintableProperty("prefix")
	packageProperty = errorx.RegisterPrintableProperty("package")
)

const (
	malformedReleaseErrorMsg = "malformed kernel release '%s'"
	candidateSourceErrorMsg  = "failed to list kernel image candidates with prefix '%s'"
	packageQueryErrorMsg     = "failed to query installation status of package '%s'"
	lockErrorMsg             = "failed to %s kernel packages for release '%s'"
)

// NewMalformedReleaseError is returned when a kernel release string cannot be split into major and minor.
func NewMalformedReleaseError(cause error, release string) *errorx.Error {
	err := errorx.IllegalFormat.New(malformedReleaseErrorMsg, release).
		WithProperty(releaseProperty, release)

	if cause != nil {
		err = err.WithUnderlyingErrors(cause)
	}

	return err
}

func NewCandidateSourceError(cause error, prefix string) *errorx.Error {
	return CandidateSourceError.Wrap(cause, candidateSourceErrorMsg, prefix).
		WithProperty(prefixProperty, prefix)
}

func NewPackageQueryError(cause error, pkg string) *errorx.Error {
	return PackageQueryError.Wrap(cause, packageQueryErrorMsg, pkg).
		WithProperty(packageProperty, pkg)
}

func NewLockError(cause error, action string, release string) *errorx.Error {
	return LockError.Wrap(cause, lockErrorMsg, action, release).
		WithProperty(releaseProperty, release)
}
