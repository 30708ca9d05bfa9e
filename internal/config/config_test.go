package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesYamlOverDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "fixcore.yaml")
	content := `
solver_depth_cap: 10
funptr_args_max: 4
cache_dir: /tmp/custom-cache
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(cfgPath, filepath.Join(dir, "nonexistent.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SolverDepthCap != 10 {
		t.Fatalf("expected solver_depth_cap 10, got %d", cfg.SolverDepthCap)
	}
	if cfg.FuncPtrArgsMax != 4 {
		t.Fatalf("expected funptr_args_max 4, got %d", cfg.FuncPtrArgsMax)
	}
	if cfg.CacheDir != "/tmp/custom-cache" {
		t.Fatalf("expected cache_dir override, got %q", cfg.CacheDir)
	}
	// MaxCacheLen was left unset in the YAML, so the default survives.
	if cfg.MaxCacheLen != 32 {
		t.Fatalf("expected default max_cache_len 32 to survive, got %d", cfg.MaxCacheLen)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("expected a missing config file to fall back to defaults, got error: %v", err)
	}
	want := Default()
	if cfg.SolverDepthCap != want.SolverDepthCap || cfg.FuncPtrArgsMax != want.FuncPtrArgsMax ||
		cfg.MaxCacheLen != want.MaxCacheLen || cfg.CacheDir != want.CacheDir ||
		cfg.CompilerVersion != want.CompilerVersion || len(cfg.EnabledOptimizations) != 0 {
		t.Fatalf("expected Default() when no config file exists, got %+v", cfg)
	}
}

func TestEnvironmentOverridesYaml(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "fixcore.yaml")
	if err := os.WriteFile(cfgPath, []byte("solver_depth_cap: 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	os.Setenv("FIXCORE_SOLVER_DEPTH", "99")
	defer os.Unsetenv("FIXCORE_SOLVER_DEPTH")

	cfg, err := Load(cfgPath, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SolverDepthCap != 99 {
		t.Fatalf("expected environment override to win over YAML, got %d", cfg.SolverDepthCap)
	}
}

func TestDotEnvFileIsHonored(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envPath, []byte("FIXCORE_CACHE_DIR=/tmp/from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	defer os.Unsetenv("FIXCORE_CACHE_DIR")

	cfg, err := Load("", envPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CacheDir != "/tmp/from-dotenv" {
		t.Fatalf("expected .env value to apply, got %q", cfg.CacheDir)
	}
}

func TestOptimizationEnabledDefaultsToAllPasses(t *testing.T) {
	cfg := Default()
	if !cfg.OptimizationEnabled("uncurry") {
		t.Fatalf("expected every pass enabled when the list is empty")
	}
}

func TestOptimizationEnabledRespectsExplicitList(t *testing.T) {
	cfg := Default()
	cfg.EnabledOptimizations = []string{"remove_type_annotations", "dead_code"}

	if !cfg.OptimizationEnabled("dead_code") {
		t.Fatalf("expected dead_code to be enabled")
	}
	if cfg.OptimizationEnabled("uncurry") {
		t.Fatalf("expected uncurry to be disabled when not in the explicit list")
	}
}
