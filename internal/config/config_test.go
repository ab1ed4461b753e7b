// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.MaxNestingDepth != 32 {
		t.Errorf("MaxNestingDepth = %d, want 32", cfg.MaxNestingDepth)
	}
	if cfg.Async.MaxPendingPerTick != 128 {
		t.Errorf("MaxPendingPerTick = %d, want 128", cfg.Async.MaxPendingPerTick)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
cheats_enabled = true
max_nesting_depth = 8

[async]
max_pending_per_tick = 16

[console]
color = "never"

[[players]]
name = "Steve"
op = true
permission_level = 2
x = 10.5

[[players]]
name = "Alex"
dimension = "nether"
`)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if !cfg.CheatsEnabled {
		t.Error("cheats_enabled not loaded")
	}
	if cfg.MaxNestingDepth != 8 {
		t.Errorf("MaxNestingDepth = %d, want 8", cfg.MaxNestingDepth)
	}
	if cfg.Async.MaxPendingPerTick != 16 {
		t.Errorf("MaxPendingPerTick = %d, want 16", cfg.Async.MaxPendingPerTick)
	}
	if cfg.Async.TickIntervalMS != 50 {
		t.Errorf("TickIntervalMS = %d, want default 50", cfg.Async.TickIntervalMS)
	}
	if cfg.Console.Color != "never" {
		t.Errorf("Console.Color = %q, want never", cfg.Console.Color)
	}
	if len(cfg.Players) != 2 {
		t.Fatalf("len(Players) = %d, want 2", len(cfg.Players))
	}
	if got := cfg.Players[0].Level(0); got != 2 {
		t.Errorf("Steve level = %d, want 2", got)
	}
	if got := cfg.Players[1].Level(1); got != 1 {
		t.Errorf("Alex level = %d, want fallback 1", got)
	}
	if cfg.Players[0].Dimension != "overworld" {
		t.Errorf("Steve dimension = %q, want overworld", cfg.Players[0].Dimension)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "cheats = true\n")

	_, err := LoadFromPath(path)
	if err == nil || !strings.Contains(err.Error(), "unknown keys: cheats") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SLASHCMD_CHEATS_ENABLED", "true")
	t.Setenv("SLASHCMD_ASYNC_MAX_PENDING", "4")
	t.Setenv("SLASHCMD_ASYNC_TICK_INTERVAL_MS", "20")
	t.Setenv("SLASHCMD_RATE_LIMIT_PER_SECOND", "2.5")
	t.Setenv("SLASHCMD_CONSOLE_COLOR", "always")
	t.Setenv("SLASHCMD_LOG_LEVEL", "debug")

	cfg := Default()
	if err := cfg.ApplyEnvOverrides(); err != nil {
		t.Fatalf("ApplyEnvOverrides: %v", err)
	}

	if !cfg.CheatsEnabled {
		t.Error("SLASHCMD_CHEATS_ENABLED not applied")
	}
	if cfg.Async.MaxPendingPerTick != 4 {
		t.Errorf("MaxPendingPerTick = %d, want 4", cfg.Async.MaxPendingPerTick)
	}
	if cfg.Async.TickIntervalMS != 20 {
		t.Errorf("TickIntervalMS = %d, want 20", cfg.Async.TickIntervalMS)
	}
	if cfg.RateLimit.PerSecond != 2.5 {
		t.Errorf("PerSecond = %g, want 2.5", cfg.RateLimit.PerSecond)
	}
	if cfg.Console.Color != "always" {
		t.Errorf("Color = %q, want always", cfg.Console.Color)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestEnvOverrideInvalidValue(t *testing.T) {
	t.Setenv("SLASHCMD_MAX_NESTING_DEPTH", "deep")

	if err := Default().ApplyEnvOverrides(); err == nil {
		t.Fatal("expected parse error for non-numeric depth")
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing .env should be ignored: %v", err)
	}
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	writeFile(t, path, "SLASHCMD_LOG_LEVEL=error\nSLASHCMD_TEST_DOTENV_ONLY=yes\n")
	t.Setenv("SLASHCMD_LOG_LEVEL", "warn")
	t.Setenv("SLASHCMD_TEST_DOTENV_ONLY", "")
	os.Unsetenv("SLASHCMD_TEST_DOTENV_ONLY")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("SLASHCMD_LOG_LEVEL"); got != "warn" {
		t.Errorf("existing variable overridden: got %q", got)
	}
	if got := os.Getenv("SLASHCMD_TEST_DOTENV_ONLY"); got != "yes" {
		t.Errorf("dotenv variable not loaded: got %q", got)
	}
}

func TestValidate(t *testing.T) {
	level := 7
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"negative default level", func(c *Config) { c.DefaultPermissionLevel = -1 }, "default_permission_level"},
		{"zero depth", func(c *Config) { c.MaxNestingDepth = 0 }, "max_nesting_depth"},
		{"zero capacity", func(c *Config) { c.Async.MaxPendingPerTick = 0 }, "async.max_pending_per_tick"},
		{"negative rate", func(c *Config) { c.RateLimit.PerSecond = -1 }, "rate_limit.per_second"},
		{"bad color", func(c *Config) { c.Console.Color = "rainbow" }, "console.color"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"empty player", func(c *Config) { c.Players = []PlayerConfig{{Dimension: "overworld"}} }, "players[0].name"},
		{"selector player", func(c *Config) { c.Players = []PlayerConfig{{Name: "@a", Dimension: "overworld"}} }, "players[0].name"},
		{"spaced player", func(c *Config) { c.Players = []PlayerConfig{{Name: "Big Steve", Dimension: "overworld"}} }, "players[0].name"},
		{"duplicate player", func(c *Config) {
			c.Players = []PlayerConfig{{Name: "Steve", Dimension: "overworld"}, {Name: "steve", Dimension: "overworld"}}
		}, "players[1].name"},
		{"bad dimension", func(c *Config) { c.Players = []PlayerConfig{{Name: "Steve", Dimension: "moon"}} }, "players[0].dimension"},
		{"bad player level", func(c *Config) {
			c.Players = []PlayerConfig{{Name: "Steve", Dimension: "overworld", PermissionLevel: &level}}
		}, "players[0].permission_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			var verrs ValidateErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidateErrors, got %v", err)
			}
			found := false
			for _, e := range verrs {
				if e.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("no error for field %s in %v", tt.field, verrs)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.CheatsEnabled = true
	cfg.Players = []PlayerConfig{{Name: "Steve", Op: true, Dimension: "the_end", Y: 64}}

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if !loaded.CheatsEnabled || len(loaded.Players) != 1 || loaded.Players[0].Dimension != "the_end" {
		t.Errorf("round trip mismatch:\n%s", loaded)
	}
}

// TestConfig_ConcurrentAccess checks that Global and SetGlobal can be called
// concurrently. Run with: go test -race ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(depth int) {
			defer wg.Done()
			c := Default()
			c.MaxNestingDepth = depth + 1
			SetGlobal(c)
		}(i)
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "max_nesting_depth = 4\n")

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, 20*time.Millisecond, func(cfg *Config, err error) {
		if err == nil {
			reloaded <- cfg
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Unrelated files in the directory are ignored.
	writeFile(t, filepath.Join(dir, "other.toml"), "x = 1\n")
	writeFile(t, path, "max_nesting_depth = 9\n")

	select {
	case cfg := <-reloaded:
		if cfg.MaxNestingDepth != 9 {
			t.Errorf("MaxNestingDepth = %d, want 9", cfg.MaxNestingDepth)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned %v", err)
	}
}
