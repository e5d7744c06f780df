// Package assets handles model and text asset loading and caching.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/pkg/formats"
	"github.com/Faultbox/meshforge/pkg/mesh"
)

// ErrNotFound is returned when no search root contains the requested file.
var ErrNotFound = errors.New("asset not found")

// Manager loads assets from an ordered list of directories.
// Roots are searched in reverse order (last added = highest priority).
type Manager struct {
	roots  []string
	files  *Cache[[]byte]
	meshes *Cache[*mesh.Descriptor]
	log    *zap.Logger
	mu     sync.RWMutex
}

// NewManager creates a new asset manager. A nil logger disables logging.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		files:  NewCache[[]byte](),
		meshes: NewCache[*mesh.Descriptor](),
		log:    log,
	}
}

// AddRoot adds a search directory to the manager.
func (m *Manager) AddRoot(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving root %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("adding root %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding root %s: not a directory", dir)
	}

	m.mu.Lock()
	m.roots = append(m.roots, abs)
	m.mu.Unlock()

	m.log.Debug("asset root added", zap.String("root", abs))
	return nil
}

// Roots returns the search directories in the order they were added.
func (m *Manager) Roots() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.roots...)
}

// Resolve returns the path of the highest priority file matching name.
func (m *Manager) Resolve(name string) (string, error) {
	name = filepath.Clean(filepath.FromSlash(name))

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		p := filepath.Join(m.roots[i], name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Load reads a file from the search roots.
func (m *Manager) Load(name string) ([]byte, error) {
	key := cacheKey(name)
	if data, ok := m.files.Get(key); ok {
		return data, nil
	}

	path, err := m.Resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m.files.Set(key, data)
	return data, nil
}

// LoadText reads a text asset such as shader source.
func (m *Manager) LoadText(name string) (string, error) {
	data, err := m.Load(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// LoadMesh parses an OBJ asset. Results are cached per name and options.
func (m *Manager) LoadMesh(name string, opts formats.OBJOptions) (*mesh.Descriptor, error) {
	key := meshKey(name, opts)
	if d, ok := m.meshes.Get(key); ok {
		return d, nil
	}

	data, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	d, err := formats.ParseOBJ(data, opts)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	m.meshes.Set(key, d)

	m.log.Debug("mesh loaded",
		zap.String("name", name),
		zap.Int("vertices", d.VertexCount()),
		zap.Int("indices", d.IndexCount()),
		zap.Bool("flipV", opts.FlipV))
	return d, nil
}

// Invalidate drops every cached entry derived from name.
func (m *Manager) Invalidate(name string) {
	key := cacheKey(name)
	m.files.Delete(key)
	m.meshes.Delete(meshKey(name, formats.OBJOptions{}))
	m.meshes.Delete(meshKey(name, formats.OBJOptions{FlipV: true}))
}

// Stats returns combined cache statistics for files and meshes.
func (m *Manager) Stats() (hits, misses int) {
	fh, fm := m.files.Stats()
	mh, mm := m.meshes.Stats()
	return fh + mh, fm + mm
}

// Close drops all cached assets.
func (m *Manager) Close() {
	m.mu.Lock()
	m.roots = nil
	m.mu.Unlock()

	m.files.Clear()
	m.meshes.Clear()
}

func cacheKey(name string) string {
	return filepath.ToSlash(filepath.Clean(filepath.FromSlash(name)))
}

func meshKey(name string, opts formats.OBJOptions) string {
	if opts.FlipV {
		return cacheKey(name) + "#flipv"
	}
	return cacheKey(name)
}

// Cache is a simple in-memory cache for loaded assets.
type Cache[T any] struct {
	data map[string]T
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{
		data: make(map[string]T),
	}
}

// Get retrieves an item from cache.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Set stores an item in cache.
func (c *Cache[T]) Set(key string, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = v
}

// Delete removes an item from cache.
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Len returns the number of cached items.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]T)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache[T]) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
