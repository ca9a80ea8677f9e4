// SPDX-License-Identifier: Apache-2.0

package cuda

import (
	"encoding/json"
	"strings"

	"github.com/joomcode/errorx"
	"github.com/spf13/cobra"
	"github.com/spyral-ai/ignite/cmd/ignite/commands/common"
	"github.com/spyral-ai/ignite/pkg/cuda"
	"gopkg.in/yaml.v3"
)

var releasesCmd = &cobra.Command{
	Use:   "releases",
	Short: "List the supported CUDA releases",
	Long: "List the supported CUDA releases with their installer URL, checksum and bundled driver version.\n" +
		"Releases with checksumVerified: false carry a placeholder checksum and fail the integrity check until it is updated.",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := common.FlagOutput.Value(cmd, args)
		if err != nil {
			return err
		}

		out, err := formatReleases(cuda.Releases(), format)
		if err != nil {
			return err
		}

		cmd.Println(out)
		return nil
	},
}

func formatReleases(releases []cuda.Release, format string) (string, error) {
	var b []byte
	var err error
	switch strings.ToLower(format) {
	case "json":
		b, err = json.MarshalIndent(releases, "", "  ")
	case "yaml", "":
		b, err = yaml.Marshal(releases)
	default:
		return "", errorx.IllegalArgument.New("unsupported format: %s", format)
	}

	if err != nil {
		return "", errorx.IllegalFormat.Wrap(err, "failed to marshal releases")
	}

	return string(b), nil
}
