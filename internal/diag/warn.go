package diag

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var yellow = color.New(color.FgYellow).SprintFunc()

// Warnf prints a non-fatal warning to stderr, prefixed and colored the
// way cmd/fixcore's banners are (§4.6: cache I/O failures warn but
// never abort).
func Warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", yellow("warning:"), fmt.Sprintf(format, args...))
}
