package render

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/patrickmn/go-cache"
)

// ErrTemplateUnavailable means the template asset could not be read.
var ErrTemplateUnavailable = errors.New("render: template unavailable")

const templateCacheKey = "template"

// TemplateSource reads the template asset from disk, keeping the bytes for
// ttl so a busy admin does not re-read the file on every render. A ttl of
// zero disables caching.
type TemplateSource struct {
	path  string
	ttl   time.Duration
	cache *cache.Cache
}

func NewTemplateSource(path string, ttl time.Duration) *TemplateSource {
	s := &TemplateSource{path: path, ttl: ttl}
	if ttl > 0 {
		s.cache = cache.New(ttl, 2*ttl)
	}
	return s
}

// Path returns the configured template path.
func (s *TemplateSource) Path() string { return s.path }

// Load returns the template bytes. Callers must not modify them.
func (s *TemplateSource) Load() ([]byte, error) {
	if s.cache != nil {
		if b, ok := s.cache.Get(templateCacheKey); ok {
			return b.([]byte), nil
		}
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplateUnavailable, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrTemplateUnavailable, s.path)
	}

	if s.cache != nil {
		s.cache.Set(templateCacheKey, b, cache.DefaultExpiration)
	}
	return b, nil
}

// Invalidate drops the cached copy.
func (s *TemplateSource) Invalidate() {
	if s.cache != nil {
		s.cache.Delete(templateCacheKey)
	}
}
