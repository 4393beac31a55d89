package langs

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/languages.yaml
var configFiles embed.FS

// Language describes one supported authoring language and how its chapter
// versions are identified.
type Language struct {
	Code              string `yaml:"code"`                // "en", "ur"
	Name              string `yaml:"name"`                // Display name
	Direction         string `yaml:"direction"`           // "ltr" or "rtl"
	TokenStrategy     string `yaml:"token_strategy"`      // "store" or "external"
	VersionNamePrefix string `yaml:"version_name_prefix"` // Default display-name prefix
}

type registryFile struct {
	Default   string     `yaml:"default"`
	Languages []Language `yaml:"languages"`
}

// Registry holds the supported languages, loaded once from the embedded
// YAML file.
type Registry struct {
	defaultCode string
	languages   map[string]Language
	mu          sync.RWMutex
}

// NewRegistry loads the embedded language configuration
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/languages.yaml")
	if err != nil {
		return nil, fmt.Errorf("read language config: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal language config: %w", err)
	}

	r := &Registry{
		defaultCode: file.Default,
		languages:   make(map[string]Language, len(file.Languages)),
	}
	for _, lang := range file.Languages {
		r.languages[lang.Code] = lang
	}

	if _, ok := r.languages[r.defaultCode]; !ok {
		return nil, fmt.Errorf("default language %q not defined", r.defaultCode)
	}

	return r, nil
}

// Default returns the default language code
func (r *Registry) Default() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultCode
}

// Get returns the language for a code
func (r *Registry) Get(code string) (Language, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lang, ok := r.languages[code]
	if !ok {
		return Language{}, fmt.Errorf("unsupported language: %s", code)
	}
	return lang, nil
}

// Supported reports whether a language code is known
func (r *Registry) Supported(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.languages[code]
	return ok
}

// List returns all configured languages
func (r *Registry) List() []Language {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Language, 0, len(r.languages))
	for _, lang := range r.languages {
		out = append(out, lang)
	}
	return out
}
