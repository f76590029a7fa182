package config

import (
	"fmt"
	"os"
	"strconv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CODEINTEL_"

// envSetting maps one environment variable onto a setting.
type envSetting struct {
	name string
	set  func(c *Config, value string) error
}

func envString(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, value string) error {
		*field(c) = value
		return nil
	}
}

func envInt(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, value string) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

var envSettings = []envSetting{
	{"LOG_LEVEL", envString(func(c *Config) *string { return &c.Log.Level })},
	{"CACHE_FETCH_SIZE", envInt(func(c *Config) *int { return &c.Cache.FetchSize })},
	{"CACHE_MAX_STEP", envInt(func(c *Config) *int { return &c.Cache.MaxStep })},
	{"CACHE_MAX_WALK", envInt(func(c *Config) *int { return &c.Cache.MaxWalk })},
	{"CACHE_MAX_TEXT", envInt(func(c *Config) *int { return &c.Cache.MaxText })},
	{"VIEW_STYLE_BITS", envInt(func(c *Config) *int { return &c.View.StyleBits })},
	{"LEXER_ENGINE", envString(func(c *Config) *string { return &c.Lexer.Engine })},
	{"LEXER_LANGUAGE", envString(func(c *Config) *string { return &c.Lexer.Language })},
}

// ApplyEnv overrides settings from CODEINTEL_* environment variables.
// Empty values count as set.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for _, s := range envSettings {
		name := EnvPrefix + s.name
		value, ok := lookup(name)
		if !ok {
			continue
		}
		if err := s.set(c, value); err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidEnv, name, value, err)
		}
	}
	return nil
}
