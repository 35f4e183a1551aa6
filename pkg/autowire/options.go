package autowire

import (
	"log/slog"
	"reflect"

	"github.com/toyz/autowire/internal/cache"
)

// Option configures an Injector
type Option func(*Injector)

// WithStrict toggles strict mode (on by default). In strict mode only
// structs embedding the base type are injected and autowired fields must
// be exported.
func WithStrict(strict bool) Option {
	return func(inj *Injector) {
		inj.strict = strict
	}
}

// WithBaseType replaces Component as the base type. The base type and its
// embedded types are never scanned. An interface base type is satisfied by
// every struct whose pointer implements it.
func WithBaseType(t reflect.Type) Option {
	return func(inj *Injector) {
		inj.base = t
	}
}

// WithIgnoreTypes adds embedded types whose fields are never scanned
func WithIgnoreTypes(types ...reflect.Type) Option {
	return func(inj *Injector) {
		inj.ignore = append(inj.ignore, types...)
	}
}

// WithStore sets the plan cache store. By default every injector owns an
// in-memory store.
func WithStore(store Store) Option {
	return func(inj *Injector) {
		inj.store = store
	}
}

// WithLogger sets the logger receiving debug records about plan builds
// and injections
func WithLogger(logger *slog.Logger) Option {
	return func(inj *Injector) {
		inj.logger = logger
	}
}

// WithTypeResolver sets the resolver for type names written in tags. By
// default the service lookup is used when it implements TypeResolver.
func WithTypeResolver(resolver TypeResolver) Option {
	return func(inj *Injector) {
		inj.resolver = resolver
	}
}

// TypeOf returns the reflect.Type of T, for use with WithBaseType and
// WithIgnoreTypes
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

type (
	// Store caches class plans
	Store = cache.Store

	// Dependency is something a cached plan was built from
	Dependency = cache.Dependency

	// MemoryStore is the default in-process Store
	MemoryStore = cache.MemoryStore

	// StoreStats provides MemoryStore statistics
	StoreStats = cache.Stats
)

// NewMemoryStore creates an in-process Store, shareable between injectors
func NewMemoryStore() *MemoryStore {
	return cache.NewMemoryStore()
}
