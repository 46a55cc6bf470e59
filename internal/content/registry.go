package content

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
)

type PagesFile struct {
	Pages []PageConfig `json:"pages"`
}

// Registry holds the validated landing-page configs, keyed by slug.
type Registry struct {
	mu    sync.RWMutex
	pages map[string]*PageConfig
}

func NewRegistry() *Registry {
	return &Registry{
		pages: make(map[string]*PageConfig),
	}
}

func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pages config: %w", err)
	}

	var file PagesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse pages config: %w", err)
	}

	v := validator.New()
	registry := NewRegistry()
	for i := range file.Pages {
		page := &file.Pages[i]
		if err := v.Struct(page); err != nil {
			return nil, fmt.Errorf("invalid page config %q: %w", page.Slug, err)
		}
		if registry.Exists(page.Slug) {
			return nil, fmt.Errorf("duplicate page slug %q", page.Slug)
		}
		registry.Register(page)
	}
	return registry, nil
}

func (r *Registry) Register(cfg *PageConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[cfg.Slug] = cfg
}

func (r *Registry) Get(slug string) *PageConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pages[slug]
}

func (r *Registry) Exists(slug string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.pages[slug]
	return ok
}

func (r *Registry) Slugs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]string, 0, len(r.pages))
	for slug := range r.pages {
		result = append(result, slug)
	}
	return result
}
