package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/codeintel/internal/accessor"
	"github.com/dshills/codeintel/internal/accessor/cache"
	"github.com/dshills/codeintel/internal/lexer"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 20, cfg.Cache.FetchSize)
	assert.Equal(t, 100, cfg.Cache.MaxStep)
	assert.Equal(t, 200, cfg.Cache.MaxWalk)
	assert.Equal(t, 200, cfg.Cache.MaxText)
	assert.Equal(t, 5, cfg.View.StyleBits)

	engine, err := cfg.Lexer.EngineValue()
	require.NoError(t, err)
	assert.Equal(t, lexer.EngineAuto, engine)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "codeintel.toml", `
[log]
level = "debug"

[cache]
fetch_size = 40
max_walk = 50

[lexer]
engine = "chroma"
language = "go"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 40, cfg.Cache.FetchSize)
	assert.Equal(t, 50, cfg.Cache.MaxWalk)
	assert.Equal(t, 100, cfg.Cache.MaxStep, "unset keys keep defaults")
	assert.Equal(t, "chroma", cfg.Lexer.Engine)
	assert.Equal(t, "go", cfg.Lexer.Language)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "codeintel.yml", `
cache:
  max_text: 80
view:
  style_bits: 6
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Cache.MaxText)
	assert.Equal(t, 6, cfg.View.StyleBits)
	assert.Equal(t, "info", cfg.Log.Level)

	cfg, err = Load(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantLine int
	}{
		{"toml syntax", "bad.toml", "[cache]\nfetch_size = = 3\n", 2},
		{"toml unknown key", "bad.toml", "[cache]\nwindow = 3\n", 0},
		{"yaml syntax", "bad.yaml", "cache: [1\n", 0},
		{"yaml unknown key", "bad.yaml", "cache:\n  window: 3\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := Load(path)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, path, pe.Path)
			assert.NotNil(t, pe.Unwrap())
			if tt.wantLine > 0 {
				assert.Equal(t, tt.wantLine, pe.Line)
				assert.Contains(t, pe.Error(), "line 2")
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CODEINTEL_LOG_LEVEL", "warn")
	t.Setenv("CODEINTEL_CACHE_FETCH_SIZE", "7")
	t.Setenv("CODEINTEL_LEXER_LANGUAGE", "python")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 7, cfg.Cache.FetchSize)
	assert.Equal(t, "python", cfg.Lexer.Language)
	assert.Equal(t, 200, cfg.Cache.MaxWalk)
}

func TestApplyEnvInvalid(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(func(name string) (string, bool) {
		if name == "CODEINTEL_VIEW_STYLE_BITS" {
			return "five", true
		}
		return "", false
	})
	assert.ErrorIs(t, err, ErrInvalidEnv)
	assert.Contains(t, err.Error(), "CODEINTEL_VIEW_STYLE_BITS")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	cfg.Cache.FetchSize = 0
	cfg.View.StyleBits = 9
	cfg.Lexer.Engine = "magic"

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrValidationFailed)
	for _, want := range []string{"log.level", "cache.fetch_size", "view.style_bits", "lexer.engine"} {
		assert.Contains(t, err.Error(), want)
	}
	assert.ErrorIs(t, err, lexer.ErrUnknownEngine)
}

func TestCacheOptions(t *testing.T) {
	cfg := Default()
	cfg.Cache.FetchSize = 3
	cfg.Cache.MaxStep = 9

	acc := accessor.NewStatic(nil, "abcdef")
	c := cache.New(acc, 6, cfg.Cache.Options()...)
	assert.Equal(t, 3, c.FetchSize())

	_, _, err := c.Prev()
	require.NoError(t, err)
	first, last := c.Window()
	assert.Equal(t, [2]int{3, 6}, [2]int{first, last})
}
