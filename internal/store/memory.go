package store

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// Memory is an in-process CacheStorage. Entries are lost when the process
// exits.
type Memory struct {
	mu     sync.RWMutex
	order  []string
	stores map[string]map[string]*CachedResponse
}

var _ CacheStorage = (*Memory)(nil)

// NewMemory creates an empty in-memory storage.
func NewMemory() *Memory {
	return &Memory{stores: make(map[string]map[string]*CachedResponse)}
}

func (m *Memory) Open(_ context.Context, name string) (Cache, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensure(name)
	return &memCache{parent: m, name: name}, nil
}

func (m *Memory) Has(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.stores[name]
	return ok, nil
}

func (m *Memory) Names(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.order), nil
}

func (m *Memory) Delete(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stores[name]; !ok {
		return false, nil
	}
	delete(m.stores, name)
	m.order = slices.DeleteFunc(m.order, func(n string) bool { return n == name })
	return true, nil
}

func (m *Memory) Close() error {
	return nil
}

// ensure creates the named store. Callers hold m.mu.
func (m *Memory) ensure(name string) map[string]*CachedResponse {
	entries, ok := m.stores[name]
	if !ok {
		entries = make(map[string]*CachedResponse)
		m.stores[name] = entries
		m.order = append(m.order, name)
	}
	return entries
}

type memCache struct {
	parent *Memory
	name   string
}

func (c *memCache) Name() string {
	return c.name
}

func (c *memCache) Match(_ context.Context, key string) (*CachedResponse, error) {
	c.parent.mu.RLock()
	defer c.parent.mu.RUnlock()
	resp, ok := c.parent.stores[c.name][key]
	if !ok {
		return nil, nil
	}
	return cloneResponse(resp), nil
}

func (c *memCache) Put(ctx context.Context, key string, resp *CachedResponse) error {
	return c.PutAll(ctx, map[string]*CachedResponse{key: resp})
}

func (c *memCache) PutAll(_ context.Context, entries map[string]*CachedResponse) error {
	c.parent.mu.Lock()
	defer c.parent.mu.Unlock()
	store := c.parent.ensure(c.name)
	for key, resp := range entries {
		store[key] = cloneResponse(resp)
	}
	return nil
}

func (c *memCache) Keys(_ context.Context) ([]string, error) {
	c.parent.mu.RLock()
	defer c.parent.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.parent.stores[c.name])), nil
}

func cloneResponse(r *CachedResponse) *CachedResponse {
	out := *r
	out.Header = r.Header.Clone()
	out.Body = slices.Clone(r.Body)
	return &out
}
