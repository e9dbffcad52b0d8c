// Package config loads runtime settings from an optional YAML file with
// TC_* environment overrides, mirroring how the rest of the agent reads
// its env (TC_READ_ROOT, TC_OBSERVE_JSON, ...).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Model is the Messages API model id; empty selects the provider default.
	Model string `yaml:"model"`

	// TokenBudget bounds the estimated input tokens per request window.
	TokenBudget int `yaml:"token_budget"`

	// Counter selects the token estimator: "heuristic" or "tiktoken".
	Counter string `yaml:"counter"`

	// MaxOutputTokens is the per-request max_tokens parameter.
	MaxOutputTokens int `yaml:"max_output_tokens"`

	// Turn safeguards.
	MaxIterations      int           `yaml:"max_iterations"`
	RepeatCap          int           `yaml:"repeat_cap"`
	TurnTimeout        time.Duration `yaml:"turn_timeout"`
	OutputTokenCeiling int           `yaml:"output_token_ceiling"`

	// Data locations (relative to the sandbox read root / CWD).
	CEOFile        string `yaml:"ceo_file"`
	TranscriptPath string `yaml:"transcript_path"`
	SystemPrompt   string `yaml:"system_prompt"`
}

// Default returns the settings used when no file or env overrides exist.
// The repeat cap default is 3; the tutorial material this agent grew out
// of used both 3 and 5, so the value stays configurable.
func Default() Config {
	return Config{
		Counter:            "heuristic",
		TokenBudget:        10_000,
		MaxOutputTokens:    1024,
		MaxIterations:      25,
		RepeatCap:          3,
		TurnTimeout:        10 * time.Minute,
		OutputTokenCeiling: 100_000,
		CEOFile:            "data/ceos.txt",
		TranscriptPath:     "conversation.json",
	}
}

// Load reads path (missing file is fine: defaults apply) and then applies
// env overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// defaults
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TC_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("TC_COUNTER"); v != "" {
		c.Counter = v
	}
	for _, f := range []struct {
		env string
		dst *int
	}{
		{"TC_TOKEN_BUDGET", &c.TokenBudget},
		{"TC_MAX_OUTPUT_TOKENS", &c.MaxOutputTokens},
		{"TC_MAX_ITERATIONS", &c.MaxIterations},
		{"TC_REPEAT_CAP", &c.RepeatCap},
		{"TC_OUTPUT_TOKEN_CEILING", &c.OutputTokenCeiling},
	} {
		v := os.Getenv(f.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", f.env, v, err)
		}
		*f.dst = n
	}
	if v := os.Getenv("TC_TURN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TC_TURN_TIMEOUT %q: %w", v, err)
		}
		c.TurnTimeout = d
	}
	return nil
}

func (c *Config) validate() error {
	if c.TokenBudget <= 0 {
		return fmt.Errorf("token_budget must be positive, got %d", c.TokenBudget)
	}
	if c.Counter != "heuristic" && c.Counter != "tiktoken" {
		return fmt.Errorf("counter must be heuristic or tiktoken, got %q", c.Counter)
	}
	if c.MaxIterations <= 0 || c.RepeatCap <= 0 {
		return fmt.Errorf("max_iterations and repeat_cap must be positive")
	}
	return nil
}
