// Package config loads the CompilerContext knobs §9's configuration
// paragraph describes: built-in defaults, overlaid by a YAML file decoded
// the way the teacher's eval_harness decodes models.yaml, overlaid in
// turn by process-environment overrides (loaded from an optional .env
// file).
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every knob the compiler pipeline threads through a
// CompilerContext (internal/compiler).
type Config struct {
	// SolverDepthCap bounds the predicate/equality solver's recursion
	// before it reports CodeSolverDepthExceeded.
	SolverDepthCap int `yaml:"solver_depth_cap"`

	// FuncPtrArgsMax bounds how many single-parameter lambdas uncurrying
	// may merge into one multi-parameter lambda.
	FuncPtrArgsMax int `yaml:"funptr_args_max"`

	// MaxCacheLen bounds a compile unit's name count (internal/planner).
	MaxCacheLen int `yaml:"max_cache_len"`

	// CacheDir is the directory the compile-unit object cache and the
	// type-check file cache are rooted under.
	CacheDir string `yaml:"cache_dir"`

	// EnabledOptimizations lists which of §4.8's passes run, by name
	// ("simplify_names", "remove_type_annotations", "inline_local_lets",
	// "decapture", "eta_expand", "uncurry", "dead_code"). An empty list
	// means all passes run.
	EnabledOptimizations []string `yaml:"enabled_optimizations"`

	// CompilerVersion feeds the version-hash computation (spec §6).
	CompilerVersion string `yaml:"compiler_version"`
}

// Default returns the configuration used when no fixcore.yaml is
// present and no environment overrides apply.
func Default() Config {
	return Config{
		SolverDepthCap:  500,
		FuncPtrArgsMax:  8,
		MaxCacheLen:     32,
		CacheDir:        ".fixcore-cache",
		CompilerVersion: "dev",
	}
}

// Load reads path as YAML into Default()'s baseline, then applies
// FIXCORE_*  environment overrides (after loading envPath as a .env
// file, ignoring a missing file the way the teacher's main() ignores
// godotenv.Load()'s error). path may be empty, in which case only the
// environment and defaults apply.
func Load(path, envPath string) (Config, error) {
	_ = godotenv.Load(envPath)

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return applyEnv(cfg), nil
			}
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if v := os.Getenv("FIXCORE_SOLVER_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SolverDepthCap = n
		}
	}
	if v := os.Getenv("FIXCORE_FUNPTR_ARGS_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FuncPtrArgsMax = n
		}
	}
	if v := os.Getenv("FIXCORE_MAX_CACHE_LEN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxCacheLen = n
		}
	}
	if v := os.Getenv("FIXCORE_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("FIXCORE_COMPILER_VERSION"); v != "" {
		cfg.CompilerVersion = v
	}
	return cfg
}

// OptimizationEnabled reports whether pass is enabled: true when the
// configured list is empty (run everything) or pass is named in it.
func (c Config) OptimizationEnabled(pass string) bool {
	if len(c.EnabledOptimizations) == 0 {
		return true
	}
	for _, p := range c.EnabledOptimizations {
		if p == pass {
			return true
		}
	}
	return false
}
