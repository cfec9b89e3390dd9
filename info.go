package htmlrender

import (
	"context"
	"sort"
	"sync"
)

// Info is an application wide, string keyed store shared by every request.
// The zero value is ready to use. A nil *Info reads as empty, but Set on it
// panics; build stores with NewInfo or NewApp.
type Info struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewInfo returns an empty store.
func NewInfo() *Info {
	return &Info{values: make(map[string]any)}
}

// Info returns i, so a bare store can be passed wherever a Host is expected.
func (i *Info) Info() *Info {
	return i
}

// Set stores value under key, replacing any previous value.
func (i *Info) Set(key string, value any) {
	if i == nil {
		panic("htmlrender: Set on a nil Info; use NewInfo or NewApp")
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.values == nil {
		i.values = make(map[string]any)
	}
	i.values[key] = value
}

// Get returns the value stored under key.
func (i *Info) Get(key string) (any, bool) {
	if i == nil {
		return nil, false
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	v, ok := i.values[key]
	return v, ok
}

// Delete removes key.
func (i *Info) Delete(key string) {
	if i == nil {
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	delete(i.values, key)
}

// Keys returns the stored keys in sorted order.
func (i *Info) Keys() []string {
	if i == nil {
		return nil
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	keys := make([]string, 0, len(i.values))
	for k := range i.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Provider returns the Provider stored under key.
func (i *Info) Provider(key string) (*Provider, error) {
	v, ok := i.Get(key)
	if !ok {
		return nil, ErrProviderNotRegistered{Key: key}
	}
	p, ok := v.(*Provider)
	if !ok || p == nil {
		return nil, ErrProviderNotRegistered{Key: key}
	}
	return p, nil
}

type infoContextKey struct{}

// NewContext returns a copy of ctx carrying info.
func NewContext(ctx context.Context, info *Info) context.Context {
	return context.WithValue(ctx, infoContextKey{}, info)
}

// InfoFromContext returns the Info attached by NewContext.
func InfoFromContext(ctx context.Context) (*Info, bool) {
	info, ok := ctx.Value(infoContextKey{}).(*Info)
	return info, ok && info != nil
}

// ProviderFromContext returns the Provider stored under key in the Info
// carried by ctx.
func ProviderFromContext(ctx context.Context, key string) (*Provider, error) {
	info, ok := InfoFromContext(ctx)
	if !ok {
		return nil, ErrProviderNotRegistered{Key: key}
	}
	return info.Provider(key)
}
