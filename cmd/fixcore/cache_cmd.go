package main

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/sunholo/fixcore/internal/cache"
	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/typedexpr"
)

func newCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect a type-check cache directory (§6)",
	}
	cacheCmd.AddCommand(newCacheInspectCmd())
	return cacheCmd
}

func newCacheInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <dir>",
		Short: "Open a small REPL over one cache directory: list keys, load <key>, rm <key>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheInspect(args[0])
		},
	}
}

// runCacheInspect mirrors internal/repl/repl.go's use of liner.NewLiner,
// scoped to listing, loading, and deleting cache entries rather than
// evaluating language expressions.
func runCacheInspect(dir string) error {
	fc := cache.NewFileCache(dir)

	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	historyFile := filepath.Join(os.TempDir(), ".fixcore_cache_inspect_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	line.SetCompleter(func(l string) (c []string) {
		for _, cmd := range []string{"ls", "load ", "rm ", "help", "quit"} {
			if strings.HasPrefix(cmd, l) {
				c = append(c, cmd)
			}
		}
		return
	})

	fmt.Printf("%s %s\n", bold("cache inspect"), dim(dir))
	fmt.Println(dim("Commands: ls, load <key>, rm <key>, help, quit"))

	for {
		input, err := line.Prompt("cache> ")
		if err == io.EOF {
			fmt.Println(green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", red("Error:"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		fields := strings.Fields(input)
		switch fields[0] {
		case "quit", "exit":
			if f, err := os.Create(historyFile); err == nil {
				_, _ = line.WriteHistory(f)
				f.Close()
			}
			return nil
		case "help":
			fmt.Println("  ls          list every cached entry")
			fmt.Println("  load <key>  pretty-print the typed expression stored under key")
			fmt.Println("  rm <key>    delete the cache file for key")
			fmt.Println("  quit        leave the REPL")
		case "ls":
			cacheLs(fc)
		case "load":
			if len(fields) != 2 {
				fmt.Println(red("  usage: load <key>"))
				continue
			}
			cacheLoad(fc, fields[1])
		case "rm":
			if len(fields) != 2 {
				fmt.Println(red("  usage: rm <key>"))
				continue
			}
			cacheRm(fc, fields[1])
		default:
			fmt.Printf("  %s unknown command %q (try 'help')\n", yellow("?"), fields[0])
		}
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
	return nil
}

func cacheLs(fc *cache.FileCache) {
	keys, err := fc.Scan()
	if err != nil {
		fmt.Printf("  %s %v\n", red("error:"), err)
		return
	}
	if len(keys) == 0 {
		fmt.Println(dim("  (empty)"))
		return
	}
	for _, k := range keys {
		fmt.Printf("  %s\n", cyan(k))
	}
}

// cacheLoad reads the raw cache file directly rather than going through
// FileCache.LoadCache, since the REPL only has the scanned filename
// (a sanitized-name + scheme-hash + version-hash composite, §4.6), not
// the original (name.Name, scheme.Scheme, versionHash) triple
// LoadCache's key derivation needs.
func cacheLoad(fc *cache.FileCache, key string) {
	target := filepath.Join(fc.Root, key)
	bs, err := os.ReadFile(target)
	if err != nil {
		fmt.Printf("  %s %v\n", red("error:"), err)
		return
	}
	var expr typedexpr.TypedExpr
	if err := gob.NewDecoder(bytes.NewReader(bs)).Decode(&expr); err != nil {
		fmt.Printf("  %s failed to decode %q: %v\n", red("error:"), key, err)
		return
	}
	fmt.Println(diag.Dump(expr))
}

func cacheRm(fc *cache.FileCache, key string) {
	target := filepath.Join(fc.Root, key)
	if err := os.Remove(target); err != nil {
		fmt.Printf("  %s %v\n", red("error:"), err)
		return
	}
	fmt.Printf("  %s removed %s\n", green("ok"), key)
}
