// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// palette holds the ANSI sequences of the diagnosis box. The zero value prints plain text.
type palette struct {
	failure    string // error box frame and markers
	resolution string // resolution box frame and markers
	label      string
	detail     string
	path       string
	reset      string
}

var ansiPalette = palette{
	failure:    "\033[1;31m",
	resolution: "\033[1;33m",
	label:      "\033[1;37m",
	detail:     "\033[90m",
	path:       "\033[36m",
	reset:      "\033[0m",
}

// paletteFor colours output only for a terminal, and never when NO_COLOR is set
func paletteFor(w io.Writer) palette {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return palette{}
	}

	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return palette{}
	}

	return ansiPalette
}
