// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/jeranaias/slashcmd/internal/util"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SLASHCMD_"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete slashcmd configuration.
type Config struct {
	// CheatsEnabled is the initial cheat mode
	CheatsEnabled bool `toml:"cheats_enabled" env:"CHEATS_ENABLED"`

	// DefaultPermissionLevel applies to players that do not set one
	DefaultPermissionLevel int `toml:"default_permission_level" env:"DEFAULT_PERMISSION_LEVEL"`

	// MaxNestingDepth bounds commands running commands
	MaxNestingDepth int `toml:"max_nesting_depth" env:"MAX_NESTING_DEPTH"`

	Async     AsyncConfig     `toml:"async" envPrefix:"ASYNC_"`
	RateLimit RateLimitConfig `toml:"rate_limit" envPrefix:"RATE_LIMIT_"`
	Console   ConsoleConfig   `toml:"console" envPrefix:"CONSOLE_"`
	Log       LogConfig       `toml:"log" envPrefix:"LOG_"`

	// Players are simulated by the console host
	Players []PlayerConfig `toml:"players" envPrefix:"PLAYERS_"`
}

// AsyncConfig configures the deferred command queue.
type AsyncConfig struct {
	// MaxPendingPerTick is how many runs one tick admits
	MaxPendingPerTick int `toml:"max_pending_per_tick" env:"MAX_PENDING"`
	// TickIntervalMS is the scheduler period in milliseconds
	TickIntervalMS int `toml:"tick_interval_ms" env:"TICK_INTERVAL_MS"`
}

// RateLimitConfig configures the per-player command rate limit.
type RateLimitConfig struct {
	// PerSecond is the sustained rate; 0 disables limiting
	PerSecond float64 `toml:"per_second" env:"PER_SECOND"`
	Burst     int     `toml:"burst" env:"BURST"`
}

// ConsoleConfig configures the interactive console.
type ConsoleConfig struct {
	// Color is "auto", "always" or "never"
	Color       string `toml:"color" env:"COLOR"`
	HistoryFile string `toml:"history_file" env:"HISTORY_FILE"`
	Prompt      string `toml:"prompt" env:"PROMPT"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level      string `toml:"level" env:"LEVEL"`
	Timestamps bool   `toml:"timestamps" env:"TIMESTAMPS"`
}

// PlayerConfig is a simulated player.
type PlayerConfig struct {
	Name            string  `toml:"name" env:"NAME"`
	Op              bool    `toml:"op" env:"OP"`
	PermissionLevel *int    `toml:"permission_level,omitempty"`
	Dimension       string  `toml:"dimension" env:"DIMENSION"`
	X               float64 `toml:"x" env:"X"`
	Y               float64 `toml:"y" env:"Y"`
	Z               float64 `toml:"z" env:"Z"`
}

// Level returns the player's permission level, falling back to def.
func (p PlayerConfig) Level(def int) int {
	if p.PermissionLevel != nil {
		return *p.PermissionLevel
	}
	return def
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		CheatsEnabled:          false,
		DefaultPermissionLevel: 0,
		MaxNestingDepth:        32,

		Async: AsyncConfig{
			MaxPendingPerTick: 128,
			TickIntervalMS:    50, // one game tick
		},

		RateLimit: RateLimitConfig{
			PerSecond: 0, // disabled
			Burst:     10,
		},

		Console: ConsoleConfig{
			Color:  "auto",
			Prompt: "> ",
		},

		Log: LogConfig{
			Level: "info",
		},
	}
}

// SetDefaults fills zero values that have no meaning with defaults.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.MaxNestingDepth == 0 {
		c.MaxNestingDepth = defaults.MaxNestingDepth
	}
	if c.Async.MaxPendingPerTick == 0 {
		c.Async.MaxPendingPerTick = defaults.Async.MaxPendingPerTick
	}
	if c.Async.TickIntervalMS == 0 {
		c.Async.TickIntervalMS = defaults.Async.TickIntervalMS
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = defaults.RateLimit.Burst
	}
	if c.Console.Color == "" {
		c.Console.Color = defaults.Console.Color
	}
	if c.Console.Prompt == "" {
		c.Console.Prompt = defaults.Console.Prompt
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	for i := range c.Players {
		if c.Players[i].Dimension == "" {
			c.Players[i].Dimension = "overworld"
		}
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the slashcmd configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".slashcmd"), nil
}

// ConfigPath returns the path to the default TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads the default config file if it exists, then applies .env and
// environment overrides.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		cfg := Default()
		return finish(cfg)
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return finish(cfg)
}

// LoadTOML decodes a TOML file over cfg. Unknown keys are rejected.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func finish(cfg *Config) (*Config, error) {
	if err := LoadDotEnv(""); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads a .env file (default ".env") into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnvOverrides applies SLASHCMD_* environment variables.
func (c *Config) ApplyEnvOverrides() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg as TOML to path, creating the directory if needed.
func Save(cfg *Config, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.WriteFileAtomic(path, buf.Bytes(), 0o644, 0o755); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("error encoding config: %v", err)
	}
	return buf.String()
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var (
	validColors     = map[string]bool{"auto": true, "always": true, "never": true}
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validDimensions = map[string]bool{"overworld": true, "nether": true, "the_end": true}
)

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	checkLevel := func(field string, level int) {
		if level < 0 || level > 4 {
			add(field, "permission level %d out of range 0-4", level)
		}
	}

	checkLevel("default_permission_level", c.DefaultPermissionLevel)

	if c.MaxNestingDepth < 1 {
		add("max_nesting_depth", "must be at least 1, got %d", c.MaxNestingDepth)
	}
	if c.Async.MaxPendingPerTick < 1 {
		add("async.max_pending_per_tick", "must be at least 1, got %d", c.Async.MaxPendingPerTick)
	}
	if c.Async.TickIntervalMS < 1 {
		add("async.tick_interval_ms", "must be at least 1, got %d", c.Async.TickIntervalMS)
	}
	if c.RateLimit.PerSecond < 0 {
		add("rate_limit.per_second", "must not be negative, got %g", c.RateLimit.PerSecond)
	}
	if c.RateLimit.Burst < 0 {
		add("rate_limit.burst", "must not be negative, got %d", c.RateLimit.Burst)
	}
	if !validColors[strings.ToLower(c.Console.Color)] {
		add("console.color", "invalid value '%s', must be one of: auto, always, never", c.Console.Color)
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		add("log.level", "invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level)
	}

	seen := make(map[string]bool, len(c.Players))
	for i, p := range c.Players {
		field := fmt.Sprintf("players[%d]", i)
		switch {
		case p.Name == "":
			add(field+".name", "must not be empty")
		case strings.ContainsFunc(p.Name, unicode.IsSpace):
			add(field+".name", "'%s' must not contain whitespace", p.Name)
		case strings.HasPrefix(p.Name, "@"):
			add(field+".name", "'%s' must not start with @", p.Name)
		case seen[strings.ToLower(p.Name)]:
			add(field+".name", "duplicate player '%s'", p.Name)
		}
		seen[strings.ToLower(p.Name)] = true
		if !validDimensions[p.Dimension] {
			add(field+".dimension", "unknown dimension '%s'", p.Dimension)
		}
		if p.PermissionLevel != nil {
			checkLevel(field+".permission_level", *p.PermissionLevel)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig   *Config
	globalConfigMu sync.RWMutex
)

// Global returns the global configuration instance, or defaults when none
// has been set. Thread-safe.
func Global() *Config {
	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	if globalConfig == nil {
		return Default()
	}
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	SetGlobal(nil)
}
