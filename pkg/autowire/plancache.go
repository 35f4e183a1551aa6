package autowire

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/google/uuid"

	"github.com/toyz/autowire/internal/cache"
	"github.com/toyz/autowire/internal/typeref"
)

// PlanNamespace prefixes the keys of cached plans
const PlanNamespace = "autowire.plans"

// cacheKey returns the store key of a class. Injectors sharing a store
// share plans only when they run in the same mode with the same base
// against the same service lookup.
func (inj *Injector) cacheKey(class string) string {
	mode := "lax"
	if inj.strict {
		mode = "strict"
	}
	return PlanNamespace + "[" + mode + "," + typeref.Name(inj.base) + "]/" + class + "@" + inj.identity
}

// lookupIdentity names a service lookup in cache keys. Lookups without an
// identity of their own are told apart by address, or get a fresh one
// when they are held by value.
func lookupIdentity(lookup ServiceLookup) string {
	if id, ok := lookup.(Identifier); ok {
		return id.Identity()
	}
	switch reflect.ValueOf(lookup).Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return fmt.Sprintf("%T@%p", lookup, lookup)
	}
	return fmt.Sprintf("%T@%s", lookup, uuid.NewString())
}

// lookupDependency invalidates plans when the service lookup changes.
// Without a fingerprint of its own, the lookup's type and source stand in.
func (inj *Injector) lookupDependency() cache.Dependency {
	if id, ok := inj.lookup.(Identifier); ok {
		return cache.MarkerDependency(id.Identity(), id.Fingerprint)
	}
	return cache.TypeDependency(reflect.TypeOf(inj.lookup))
}

// planFor returns the plan of t from the store, building it on a miss
func (inj *Injector) planFor(t reflect.Type) (*ClassPlan, error) {
	key := inj.cacheKey(typeref.Name(t))

	plan, err := inj.getOrBuild(key, t)
	if err != nil {
		return nil, err
	}

	// distinct types may share a name, e.g. types declared inside functions
	if plan.Type != t {
		inj.logger.Debug("plan cached for another type of the same name", slog.String("key", key))
		inj.store.Invalidate(key)
		return inj.getOrBuild(key, t)
	}
	return plan, nil
}

func (inj *Injector) getOrBuild(key string, t reflect.Type) (*ClassPlan, error) {
	return cache.ComputeCached(inj.store, key, func() (*ClassPlan, []cache.Dependency, error) {
		return inj.build(t)
	})
}
