// SPDX-License-Identifier: Apache-2.0

package version

import (
	"encoding/json"
	"runtime"
	"strings"

	"github.com/joomcode/errorx"
	"gopkg.in/yaml.v3"
)

type Info struct {
	Number    string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	GoVersion string `json:"go" yaml:"go"`
	BuildMode string `json:"buildMode" yaml:"buildMode"`
}

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

func (v Info) Format(format string) (string, error) {
	var output []byte
	var err error
	switch strings.ToLower(format) {
	case FormatJSON:
		output, err = json.Marshal(v)
		if err != nil {
			return "", errorx.IllegalFormat.Wrap(err, "error marshaling version info to JSON")
		}
	case FormatYAML, "":
		output, err = yaml.Marshal(v)
		if err != nil {
			return "", errorx.IllegalFormat.Wrap(err, "error marshaling version info to YAML")
		}
	default:
		return "", errorx.IllegalArgument.New("unsupported format: %s", format)
	}

	return string(output), nil
}

func Get() Info {
	return Info{
		Number:    Number(),
		Commit:    Commit(),
		GoVersion: runtime.Version(),
		BuildMode: BuildMode(),
	}
}
