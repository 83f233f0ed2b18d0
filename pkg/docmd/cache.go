package docmd

import (
	"container/list"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/docx"
)

// CacheConfig contains configuration options for the styles cache
type CacheConfig struct {
	// MaxSize is the maximum number of templates to cache. 0 disables caching.
	MaxSize int
	// TTL is the time-to-live for cached templates. 0 means no expiration.
	TTL time.Duration
}

// StylesCache keeps the styles parts of template files by path, so batch
// conversions read a template once. Entries hold serialized styles; every
// conversion parses its own copy.
type StylesCache struct {
	mu     sync.Mutex
	cache  map[string]*cacheEntry
	lru    *list.List
	config CacheConfig
}

type cacheEntry struct {
	key     string
	styles  []byte
	expiry  time.Time
	element *list.Element
}

// NewStylesCache creates a styles cache with the given configuration
func NewStylesCache(config CacheConfig) *StylesCache {
	return &StylesCache{
		cache:  make(map[string]*cacheEntry),
		lru:    list.New(),
		config: config,
	}
}

// Load returns the styles part of the template at path, reading it on a
// cache miss.
func (sc *StylesCache) Load(path string) ([]byte, error) {
	if data, ok := sc.Get(path); ok {
		return data, nil
	}
	data, err := readStylesTemplate(path)
	if err != nil {
		return nil, err
	}
	sc.Set(path, data)
	return data, nil
}

// readStylesTemplate reads word/styles.xml from a .docx or .dotx, or a
// bare styles part.
func readStylesTemplate(path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx", ".dotx", ".docm":
		pkg, err := docx.OpenFile(path)
		if err != nil {
			return nil, NewDocumentError("open styles template", path, err)
		}
		data, err := pkg.Styles.Bytes()
		if err != nil {
			return nil, NewDocumentError("read styles template", path, err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("read styles template", path, err)
	}
	if _, err := docx.ParseStyles(data); err != nil {
		return nil, NewDocumentError("parse styles template", path, fmt.Errorf("not a styles part: %w", err))
	}
	return data, nil
}

// Get retrieves cached styles without reading the file
func (sc *StylesCache) Get(key string) ([]byte, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	entry, exists := sc.cache[key]
	if !exists {
		return nil, false
	}

	// Check expiry
	if sc.config.TTL > 0 && time.Now().After(entry.expiry) {
		sc.removeLocked(entry)
		return nil, false
	}

	sc.lru.MoveToFront(entry.element)
	return entry.styles, true
}

// Set adds styles to the cache
func (sc *StylesCache) Set(key string, styles []byte) {
	// Check if caching is disabled
	if sc.config.MaxSize == 0 {
		return
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	expiry := time.Time{}
	if sc.config.TTL > 0 {
		expiry = time.Now().Add(sc.config.TTL)
	}

	if existing, exists := sc.cache[key]; exists {
		existing.styles = styles
		existing.expiry = expiry
		sc.lru.MoveToFront(existing.element)
		return
	}

	// Evict least recently used
	if sc.lru.Len() >= sc.config.MaxSize {
		if oldest := sc.lru.Back(); oldest != nil {
			sc.removeLocked(oldest.Value.(*cacheEntry))
		}
	}

	entry := &cacheEntry{
		key:    key,
		styles: styles,
		expiry: expiry,
	}
	entry.element = sc.lru.PushFront(entry)
	sc.cache[key] = entry
}

// Remove removes a template from the cache
func (sc *StylesCache) Remove(key string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if entry, exists := sc.cache[key]; exists {
		sc.removeLocked(entry)
	}
}

func (sc *StylesCache) removeLocked(entry *cacheEntry) {
	delete(sc.cache, entry.key)
	sc.lru.Remove(entry.element)
}

// Clear removes all templates from the cache
func (sc *StylesCache) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.cache = make(map[string]*cacheEntry)
	sc.lru = list.New()
}

// Size returns the current number of cached templates
func (sc *StylesCache) Size() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.cache)
}
