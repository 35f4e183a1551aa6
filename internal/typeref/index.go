package typeref

import (
	"reflect"
	"sort"
	"sync"
)

// Index is a Source over a known set of named types. Every type is
// reachable by its qualified name and, when unambiguous, by its short
// name (app.Logger).
type Index struct {
	mu        sync.RWMutex
	full      map[string]reflect.Type
	short     map[string]reflect.Type
	ambiguous map[string]struct{}
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{
		full:      make(map[string]reflect.Type),
		short:     make(map[string]reflect.Type),
		ambiguous: make(map[string]struct{}),
	}
}

// Scope builds an index over the given types
func Scope(types ...reflect.Type) *Index {
	idx := NewIndex()
	idx.Add(types...)
	return idx
}

// Add indexes the given types. Pointers are stripped and unnamed types
// are ignored.
func (x *Index) Add(types ...reflect.Type) {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, t := range types {
		t = Indirect(t)
		if !IsNamed(t) {
			continue
		}

		name := Name(t)
		if _, exists := x.full[name]; exists {
			continue
		}
		x.full[name] = t

		short := ShortName(t)
		if short == name {
			continue
		}
		if _, isAmbiguous := x.ambiguous[short]; isAmbiguous {
			continue
		}
		if existing, exists := x.short[short]; exists && existing != t {
			delete(x.short, short)
			x.ambiguous[short] = struct{}{}
			continue
		}
		x.short[short] = t
	}
}

// ResolveTypeName implements Source
func (x *Index) ResolveTypeName(name string) (reflect.Type, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if t, ok := x.full[name]; ok {
		return t, true
	}
	t, ok := x.short[name]
	return t, ok
}

// Len returns the number of indexed types
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.full)
}

// Names returns the qualified names of all indexed types, sorted
func (x *Index) Names() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()

	names := make([]string, 0, len(x.full))
	for name := range x.full {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
