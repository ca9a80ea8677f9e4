// SPDX-License-Identifier: Apache-2.0

package exit

import (
	"fmt"
	"os"
)

type Code int

func (ec Code) String() string {
	return fmt.Sprintf("%d", ec)
}

func (ec Code) Int() int {
	return int(ec)
}

func (ec Code) TerminateProcess() {
	os.Exit(int(ec))
}

func (ec Code) Is(other int) bool {
	return int(ec) == other
}

// POSIX exit codes used by ignite
const (
	NormalTermination  Code = 0
	GeneralError       Code = 1
	UsageError         Code = 64
	ServiceUnavailable Code = 69
	InternalError      Code = 70
	PermissionDenied   Code = 77
	ConfigurationError Code = 78
)

// DriverNotVerified is returned by verify-driver when nvidia-smi does not list a GPU
const DriverNotVerified = GeneralError
