// SPDX-License-Identifier: Apache-2.0

package cuda

import (
	"os"
	"strings"
)

const (
	envPath          = "PATH"
	envLDLibraryPath = "LD_LIBRARY_PATH"
)

// Environment holds the search paths changed by a toolkit installation.
// It is a value: Prepend returns a modified copy.
type Environment struct {
	Path          string `yaml:"path" json:"path"`
	LDLibraryPath string `yaml:"ldLibraryPath" json:"ldLibraryPath"`
}

// CurrentEnvironment reads the search paths of the running process
func CurrentEnvironment() Environment {
	return Environment{
		Path:          os.Getenv(envPath),
		LDLibraryPath: os.Getenv(envLDLibraryPath),
	}
}

// Prepend puts bin in front of PATH and lib in front of LD_LIBRARY_PATH
func (e Environment) Prepend(bin string, lib string) Environment {
	return Environment{
		Path:          prependPath(bin, e.Path),
		LDLibraryPath: prependPath(lib, e.LDLibraryPath),
	}
}

// Vars merges the environment into base, a list in os.Environ format
func (e Environment) Vars(base []string) []string {
	out := make([]string, 0, len(base)+2)
	for _, kv := range base {
		if strings.HasPrefix(kv, envPath+"=") || strings.HasPrefix(kv, envLDLibraryPath+"=") {
			continue
		}
		out = append(out, kv)
	}

	out = append(out, envPath+"="+e.Path)
	if e.LDLibraryPath != "" {
		out = append(out, envLDLibraryPath+"="+e.LDLibraryPath)
	}

	return out
}

// Apply sets the variables on the running process
func (e Environment) Apply() error {
	if err := os.Setenv(envPath, e.Path); err != nil {
		return err
	}
	return os.Setenv(envLDLibraryPath, e.LDLibraryPath)
}

func prependPath(dir string, list string) string {
	if list == "" {
		return dir
	}
	return dir + ":" + list
}
