// Package cache provides the load-or-compute store used to keep parsed
// injection plans between calls.
//
// Every stored value carries the dependencies it was computed from. An
// entry is served only while each dependency still reports the
// fingerprint recorded when the entry was stored.
package cache

import (
	"fmt"
)

// Dependency is something a cached value was derived from
type Dependency struct {
	// Identity names the dependency, e.g. file:/src/app/home.go
	Identity string

	// Fingerprint returns the dependency's current state. Two equal
	// fingerprints mean the dependency did not change.
	Fingerprint func() (string, error)
}

// ComputeFunc builds a value together with its dependencies
type ComputeFunc func() (any, []Dependency, error)

// Store is a keyed load-or-compute cache
type Store interface {
	// LoadOrCompute returns the fresh value stored under key or computes,
	// stores and returns a new one. Errors returned by compute are passed
	// through and never stored.
	LoadOrCompute(key string, compute ComputeFunc) (any, error)

	// Invalidate drops the value stored under key
	Invalidate(key string)

	// Clear drops every stored value
	Clear()
}

// ComputeCached is the typed form of Store.LoadOrCompute
func ComputeCached[V any](store Store, key string, compute func() (V, []Dependency, error)) (V, error) {
	raw, err := store.LoadOrCompute(key, func() (any, []Dependency, error) {
		return compute()
	})
	if err != nil {
		var zero V
		return zero, err
	}

	value, ok := raw.(V)
	if !ok {
		var zero V
		return zero, fmt.Errorf("cache entry %q holds %T, not %T", key, raw, zero)
	}
	return value, nil
}

// snapshot records the current fingerprint of every dependency
func snapshot(deps []Dependency) ([]string, error) {
	stamps := make([]string, len(deps))
	for i, dep := range deps {
		if dep.Fingerprint == nil {
			continue
		}
		stamp, err := dep.Fingerprint()
		if err != nil {
			return nil, fmt.Errorf("fingerprint %s: %w", dep.Identity, err)
		}
		stamps[i] = stamp
	}
	return stamps, nil
}

// fresh reports whether every dependency still matches its stamp
func fresh(deps []Dependency, stamps []string) bool {
	for i, dep := range deps {
		if dep.Fingerprint == nil {
			continue
		}
		stamp, err := dep.Fingerprint()
		if err != nil || stamp != stamps[i] {
			return false
		}
	}
	return true
}
