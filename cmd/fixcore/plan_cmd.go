package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sunholo/fixcore/internal/planner"
)

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Partition the planner's seed scenario: names [a,b,c,d,e] with [b,c] and [d,e] already cached",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlanScenario()
		},
	}
}

// runPlanScenario covers scenario 8: given names [a,b,c,d,e] and a
// cache already holding the compile units [b,c] and [d,e], the planner
// must emit [NotCached[a], Cached[b,c], Cached[d,e]].
func runPlanScenario() error {
	fmt.Println(bold("Compile-unit planner: [a,b,c,d,e] against a cache holding [b,c] and [d,e]"))

	dir, err := os.MkdirTemp("", "fixcore-plan-demo-*")
	if err != nil {
		return fmt.Errorf("creating scratch cache dir: %w", err)
	}
	defer os.RemoveAll(dir)

	modHash := map[string]string{"a": "h", "b": "h", "c": "h", "d": "h", "e": "h"}
	configHash := "demo-config"

	cache, err := planner.NewDirectoryCache(dir, modHash, configHash)
	if err != nil {
		return fmt.Errorf("scanning scratch cache dir: %w", err)
	}
	cache.Record([]string{"b", "c"})
	cache.Record([]string{"d", "e"})

	units := planner.Plan([]string{"a", "b", "c", "d", "e"}, cache)
	traceDump("units", units)

	for _, u := range units {
		label := "NotCached"
		if u.Cached {
			label = "Cached"
		}
		fmt.Printf("  %s%v\n", yellow(label), u.Names)
	}
	return nil
}
