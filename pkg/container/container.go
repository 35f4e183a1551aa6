// Package container is a small name and type keyed service registry that
// satisfies autowire.ServiceLookup and autowire.TypeResolver.
package container

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/toyz/autowire/internal/errors"
	"github.com/toyz/autowire/internal/typeref"
	"github.com/toyz/autowire/pkg/autowire"
)

var (
	_ autowire.ServiceLookup = (*Container)(nil)
	_ autowire.TypeResolver  = (*Container)(nil)
	_ autowire.Identifier    = (*Container)(nil)
)

// entry represents a registered service
type entry struct {
	name  string
	value any
	typ   reflect.Type
	as    []reflect.Type
}

// RegisterOption configures a registration
type RegisterOption func(*entry) error

// As exposes the service under the interface I as well
func As[I any]() RegisterOption {
	return func(e *entry) error {
		iface := reflect.TypeOf((*I)(nil)).Elem()
		if iface.Kind() != reflect.Interface {
			return fmt.Errorf("%s is not an interface", iface)
		}
		if !e.typ.Implements(iface) {
			return fmt.Errorf("%s does not implement %s", e.typ, iface)
		}
		e.as = append(e.as, iface)
		return nil
	}
}

// Container holds services by name. Every registration changes its
// fingerprint.
type Container struct {
	id       uuid.UUID
	mutex    sync.RWMutex
	services []*entry
	byName   map[string]*entry
	types    *typeref.Index
	revision atomic.Uint64
}

// New creates an empty container
func New() *Container {
	return &Container{
		id:     uuid.New(),
		byName: make(map[string]*entry),
		types:  typeref.NewIndex(),
	}
}

// Register adds service under name
func (c *Container) Register(name string, service any, opts ...RegisterOption) error {
	if name == "" {
		return errors.ConfigurationError("container", "service name must not be empty")
	}
	if service == nil {
		return errors.ConfigurationError("container", fmt.Sprintf("service %q is nil", name))
	}

	e := &entry{name: name, value: service, typ: reflect.TypeOf(service)}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return errors.WrapConfigurationError("container", "register service "+strconv.Quote(name), err)
		}
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.byName[name]; exists {
		cerr := errors.ConfigurationError("container", fmt.Sprintf("service %q is already registered", name))
		cerr.WithSuggestion("use a unique name per service")
		return cerr
	}
	c.services = append(c.services, e)
	c.byName[name] = e
	c.indexTypes(e)
	c.revision.Add(1)
	return nil
}

// MustRegister is like Register but panics on error
func (c *Container) MustRegister(name string, service any, opts ...RegisterOption) {
	if err := c.Register(name, service, opts...); err != nil {
		panic(err)
	}
}

// RegisterType makes T known to type name resolution without a service
func RegisterType[T any](c *Container) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.types.Add(reflect.TypeOf((*T)(nil)).Elem())
	c.revision.Add(1)
}

// indexTypes records the service type, its interfaces and the result
// types of its exported methods, so factories can name what they create
func (c *Container) indexTypes(e *entry) {
	c.types.Add(e.typ)
	c.types.Add(e.as...)
	for i := 0; i < e.typ.NumMethod(); i++ {
		mt := e.typ.Method(i).Type
		for j := 0; j < mt.NumOut(); j++ {
			c.types.Add(mt.Out(j))
		}
	}
}

// FindServiceType returns the service registered for t: the one whose
// type, pointers stripped, is t, else the one exposed as t, else for an
// interface t the only service implementing it.
func (c *Container) FindServiceType(t reflect.Type) (autowire.ServiceHandle, bool) {
	if t == nil {
		return autowire.ServiceHandle{}, false
	}

	c.mutex.RLock()
	defer c.mutex.RUnlock()

	want := typeref.Indirect(t)
	if e, ok := c.unique(func(e *entry) bool { return typeref.Indirect(e.typ) == want }); ok {
		return handleOf(e), true
	}
	if e, ok := c.unique(func(e *entry) bool {
		for _, iface := range e.as {
			if iface == t {
				return true
			}
		}
		return false
	}); ok {
		return handleOf(e), true
	}
	if t.Kind() == reflect.Interface {
		if e, ok := c.unique(func(e *entry) bool { return e.typ.Implements(t) }); ok {
			return handleOf(e), true
		}
	}
	return autowire.ServiceHandle{}, false
}

// unique returns the only service matching fn
func (c *Container) unique(fn func(*entry) bool) (*entry, bool) {
	var found *entry
	for _, e := range c.services {
		if !fn(e) {
			continue
		}
		if found != nil {
			return nil, false
		}
		found = e
	}
	return found, found != nil
}

func handleOf(e *entry) autowire.ServiceHandle {
	return autowire.ServiceHandle{Name: e.name, Type: e.typ}
}

// ServiceInstance returns the service identified by h
func (c *Container) ServiceInstance(h autowire.ServiceHandle) (any, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, ok := c.byName[h.Name]
	if !ok {
		return nil, fmt.Errorf("service %q is not registered", h.Name)
	}
	if h.Type != nil && e.typ != h.Type {
		return nil, fmt.Errorf("service %q is of type %s, not %s", h.Name, e.typ, h.Type)
	}
	return e.value, nil
}

// GetService returns the service registered under name
func (c *Container) GetService(name string) (any, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Get returns the service registered for T
func Get[T any](c *Container) (T, error) {
	var zero T
	t := reflect.TypeOf((*T)(nil)).Elem()

	h, ok := c.FindServiceType(t)
	if !ok {
		return zero, fmt.Errorf("no service of type %s", t)
	}
	instance, err := c.ServiceInstance(h)
	if err != nil {
		return zero, err
	}
	value, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("service %q is a %T, not a %s", h.Name, instance, t)
	}
	return value, nil
}

// ResolveTypeName implements autowire.TypeResolver
func (c *Container) ResolveTypeName(name string) (reflect.Type, bool) {
	return c.types.ResolveTypeName(name)
}

// KnownTypes returns the qualified names of every type the container can
// resolve by name
func (c *Container) KnownTypes() []string {
	return c.types.Names()
}

// Names returns service names in registration order
func (c *Container) Names() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	names := make([]string, len(c.services))
	for i, e := range c.services {
		names[i] = e.name
	}
	return names
}

// Len returns the number of registered services
func (c *Container) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.services)
}

// Identity implements autowire.Identifier
func (c *Container) Identity() string {
	return "container/" + c.id.String()
}

// Fingerprint implements autowire.Identifier
func (c *Container) Fingerprint() string {
	return strconv.FormatUint(c.revision.Load(), 10)
}
