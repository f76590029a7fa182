package config

import (
	"errors"
	"fmt"

	"github.com/dshills/codeintel/internal/accessor/cache"
	"github.com/dshills/codeintel/internal/lexer"
	"github.com/dshills/codeintel/internal/logging"
	"github.com/dshills/codeintel/internal/view"
)

// Config is the complete codeintel configuration.
type Config struct {
	Log   LogConfig   `toml:"log" yaml:"log"`
	Cache CacheConfig `toml:"cache" yaml:"cache"`
	View  ViewConfig  `toml:"view" yaml:"view"`
	Lexer LexerConfig `toml:"lexer" yaml:"lexer"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`
}

// CacheConfig configures accessor caches.
type CacheConfig struct {
	// FetchSize is the window growth step.
	FetchSize int `toml:"fetch_size" yaml:"fetch_size"`
	// MaxStep bounds a single Prev or Next.
	MaxStep int `toml:"max_step" yaml:"max_step"`
	// MaxWalk bounds Preceding and Succeeding.
	MaxWalk int `toml:"max_walk" yaml:"max_walk"`
	// MaxText bounds the text TextBack and TextForward return.
	MaxText int `toml:"max_text" yaml:"max_text"`
}

// ViewConfig configures live views.
type ViewConfig struct {
	// StyleBits is the number of style bits per position.
	StyleBits int `toml:"style_bits" yaml:"style_bits"`
}

// LexerConfig selects lexers.
type LexerConfig struct {
	// Engine is rules, chroma or auto.
	Engine string `toml:"engine" yaml:"engine"`
	// Language forces a language instead of detecting it.
	Language string `toml:"language" yaml:"language"`
}

// Default returns the built-in configuration.
func Default() *Config {
	limits := cache.DefaultLimits()
	return &Config{
		Log: LogConfig{Level: "info"},
		Cache: CacheConfig{
			FetchSize: cache.DefaultFetchSize,
			MaxStep:   limits.Step,
			MaxWalk:   limits.Walk,
			MaxText:   limits.Text,
		},
		View:  ViewConfig{StyleBits: view.DefaultStyleBits},
		Lexer: LexerConfig{Engine: string(lexer.EngineAuto)},
	}
}

// Validate reports every unusable setting.
func (c *Config) Validate() error {
	var errs []error
	if !logging.ValidLevel(c.Log.Level) {
		errs = append(errs, fmt.Errorf("%w: log.level %q", ErrValidationFailed, c.Log.Level))
	}
	for _, f := range []struct {
		name  string
		value int
	}{
		{"cache.fetch_size", c.Cache.FetchSize},
		{"cache.max_step", c.Cache.MaxStep},
		{"cache.max_walk", c.Cache.MaxWalk},
		{"cache.max_text", c.Cache.MaxText},
	} {
		if f.value <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %d", ErrValidationFailed, f.name, f.value))
		}
	}
	if c.View.StyleBits < 1 || c.View.StyleBits > 8 {
		errs = append(errs, fmt.Errorf("%w: view.style_bits %d not in [1, 8]", ErrValidationFailed, c.View.StyleBits))
	}
	if _, err := lexer.ParseEngine(c.Lexer.Engine); err != nil {
		errs = append(errs, fmt.Errorf("%w: lexer.engine: %w", ErrValidationFailed, err))
	}
	return errors.Join(errs...)
}

// Options returns the cache options for c.
func (c CacheConfig) Options() []cache.Option {
	return []cache.Option{
		cache.WithFetchSize(c.FetchSize),
		cache.WithLimits(cache.Limits{Step: c.MaxStep, Walk: c.MaxWalk, Text: c.MaxText}),
	}
}

// Options returns the view options for c.
func (c ViewConfig) Options() []view.Option {
	return []view.Option{view.WithStyleBits(c.StyleBits)}
}

// EngineValue returns the parsed lexer engine.
func (c LexerConfig) EngineValue() (lexer.Engine, error) {
	return lexer.ParseEngine(c.Engine)
}
