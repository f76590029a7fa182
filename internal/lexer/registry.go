package lexer

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/dshills/codeintel/internal/accessor"
)

var (
	// ErrUnknownLanguage indicates no lexer exists for a language.
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrUnknownEngine indicates an unsupported lexer engine name.
	ErrUnknownEngine = errors.New("unknown lexer engine")
)

// Engine selects which lexers a Registry hands out.
type Engine string

// Lexer engines.
const (
	EngineRules  Engine = "rules"
	EngineChroma Engine = "chroma"
	// EngineAuto prefers the rule lexers and falls back to chroma.
	EngineAuto Engine = "auto"
)

// ParseEngine returns the engine named name.
func ParseEngine(name string) (Engine, error) {
	switch e := Engine(strings.ToLower(name)); e {
	case EngineRules, EngineChroma, EngineAuto:
		return e, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEngine, name)
}

// Registry manages the rule lexers.
type Registry struct {
	mu sync.RWMutex

	byLanguage  map[string]*Rules
	byExtension map[string]*Rules
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byLanguage:  make(map[string]*Rules),
		byExtension: make(map[string]*Rules),
	}
}

// DefaultRegistry returns a registry with the built-in rule lexers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Go())
	r.Register(Python())
	r.Register(JavaScript())
	r.Register(Rust())
	return r
}

// Register adds a rule lexer.
func (r *Registry) Register(rules *Rules) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byLanguage[rules.Language()] = rules
	for _, ext := range rules.Extensions() {
		r.byExtension[ext] = rules
	}
}

// ByLanguage returns the rule lexer for language.
func (r *Registry) ByLanguage(language string) (*Rules, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rules, ok := r.byLanguage[strings.ToLower(language)]
	return rules, ok
}

// ByExtension returns the rule lexer for a file extension, with or
// without the leading dot.
func (r *Registry) ByExtension(ext string) (*Rules, bool) {
	if ext == "" {
		return nil, false
	}
	if ext[0] != '.' {
		ext = "." + ext
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rules, ok := r.byExtension[strings.ToLower(ext)]
	return rules, ok
}

// Languages returns the registered language names, sorted.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	langs := make([]string, 0, len(r.byLanguage))
	for lang := range r.byLanguage {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// Lexer returns a lexer for language from engine.
//
// LanguageText always yields Plain. With EngineAuto an unknown language
// also yields Plain rather than an error.
func (r *Registry) Lexer(engine Engine, language string) (accessor.Lexer, error) {
	if language == LanguageText || language == "" {
		return Plain, nil
	}
	switch engine {
	case EngineRules:
		if rules, ok := r.ByLanguage(language); ok {
			return rules, nil
		}
		return nil, fmt.Errorf("%w: no rule lexer for %q", ErrUnknownLanguage, language)
	case EngineChroma:
		return NewChroma(language)
	case EngineAuto:
		if rules, ok := r.ByLanguage(language); ok {
			return rules, nil
		}
		if c, err := NewChroma(language); err == nil {
			return c, nil
		}
		return Plain, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
}

// ForFile detects the language of a file and returns a lexer for it with
// the detected language. A non-empty language overrides detection.
func (r *Registry) ForFile(engine Engine, filename, language string, content []byte) (accessor.Lexer, string, error) {
	if language == "" {
		if rules, ok := r.ByExtension(filepath.Ext(filename)); ok && engine != EngineChroma {
			return rules, rules.Language(), nil
		}
		language = Detect(filename, content)
	}
	lx, err := r.Lexer(engine, language)
	if err != nil {
		return nil, language, err
	}
	return lx, language, nil
}
