package diag

import "github.com/kr/pretty"

// Dump pretty-prints v for trace-mode diagnostics. It is never consulted
// by the typing core itself — only by cmd/fixcore when --trace is set.
func Dump(v any) string {
	return pretty.Sprint(v)
}
