// SPDX-License-Identifier: Apache-2.0

package cuda

import (
	"github.com/joomcode/errorx"
)

var (
	ErrorsNamespace = errorx.NewNamespace("cuda")

	// RebootRequired is a control flow signal, not a failure: the host must reboot before continuing
	RebootRequired     = ErrorsNamespace.NewType("reboot_required")
	VerificationFailed = ErrorsNamespace.NewType("verification_failed")
	PostInstallError   = ErrorsNamespace.NewType("post_install_error")

	reasonProperty  = errorx.RegisterPrintableProperty("reason")
	versionProperty = errorx.RegisterPrintableProperty("version")
)

func NewRebootRequiredError(reason string) *errorx.Error {
	return RebootRequired.New("reboot required: %s", reason).
		WithProperty(reasonProperty, reason)
}

func NewVerificationFailedError(version string) *errorx.Error {
	return VerificationFailed.New("GPU driver bundled with CUDA %s could not be verified with nvidia-smi", version).
		WithProperty(versionProperty, version)
}

func NewPostInstallError(cause error, step string) *errorx.Error {
	return PostInstallError.Wrap(cause, "post-installation step '%s' failed", step)
}

// IsRebootRequired reports whether err, or an error it wraps, asks for a reboot
func IsRebootRequired(err error) bool {
	return err != nil && errorx.IsOfType(err, RebootRequired)
}

// RebootReasonOf returns the reason attached to a RebootRequired error
func RebootReasonOf(err error) string {
	v, ok := errorx.ExtractProperty(err, reasonProperty)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
