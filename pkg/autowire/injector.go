package autowire

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/toyz/autowire/internal/access"
	"github.com/toyz/autowire/internal/cache"
	"github.com/toyz/autowire/internal/errors"
	"github.com/toyz/autowire/internal/typeref"
)

// Injector fills autowired fields from a ServiceLookup. It is safe for
// concurrent use.
type Injector struct {
	lookup   ServiceLookup
	identity string
	resolver TypeResolver
	strict   bool
	base     reflect.Type
	ignore   []reflect.Type
	ignored  map[reflect.Type]struct{}
	store    cache.Store
	logger   *slog.Logger
}

// New creates an injector reading services from lookup
func New(lookup ServiceLookup, opts ...Option) (*Injector, error) {
	if lookup == nil {
		return nil, errors.ConfigurationError("injector", "a service lookup is required")
	}

	inj := &Injector{
		lookup: lookup,
		strict: true,
		base:   TypeOf[Component](),
	}
	if resolver, ok := lookup.(TypeResolver); ok {
		inj.resolver = resolver
	}
	for _, opt := range opts {
		opt(inj)
	}

	if inj.base == nil {
		return nil, errors.ConfigurationError("injector", "base type must not be nil")
	}
	if inj.base.Kind() != reflect.Interface && structType(inj.base) == nil {
		return nil, errors.ConfigurationError("injector",
			fmt.Sprintf("base type %s must be a struct or an interface", inj.base))
	}
	if inj.store == nil {
		inj.store = cache.NewMemoryStore()
	}
	if inj.logger == nil {
		inj.logger = slog.New(slog.DiscardHandler)
	}
	inj.ignored = buildIgnoreSet(inj.base, inj.ignore)
	inj.identity = lookupIdentity(lookup)
	return inj, nil
}

// Strict reports whether the injector runs in strict mode
func (inj *Injector) Strict() bool {
	return inj.strict
}

// Store returns the plan cache store
func (inj *Injector) Store() Store {
	return inj.store
}

// Inject fills every autowired field of obj, a non-nil pointer to a
// struct. An error aborts the call; fields written before it keep their
// new values.
func (inj *Injector) Inject(obj any) error {
	root, err := inj.target(obj)
	if err != nil {
		return err
	}

	plan, err := inj.planFor(root.Type())
	if err != nil {
		return err
	}

	for _, prop := range plan.Properties {
		value, err := inj.produce(prop)
		if err != nil {
			return err
		}
		if err := access.Set(root, prop.Index, value); err != nil {
			subj := errors.Subject{Type: typeref.Name(prop.DeclaringType), Field: prop.Property}
			aerr := errors.NewAccessError(subj, "cannot write field")
			aerr.WithCause(err)
			return aerr
		}
		inj.logger.Debug("autowired field",
			slog.String("class", plan.Class),
			slog.String("field", prop.Property),
			slog.String("type", prop.Target.Name))
	}
	return nil
}

// MustInject is like Inject but panics on error
func (inj *Injector) MustInject(obj any) {
	if err := inj.Inject(obj); err != nil {
		panic(err)
	}
}

// InjectAll injects every object in turn and stops at the first error
func (inj *Injector) InjectAll(objs ...any) error {
	for _, obj := range objs {
		if err := inj.Inject(obj); err != nil {
			return err
		}
	}
	return nil
}

// Plan returns a copy of the cached plan for the type of obj, building it
// if needed
func (inj *Injector) Plan(obj any) (*ClassPlan, error) {
	root, err := inj.target(obj)
	if err != nil {
		return nil, err
	}
	plan, err := inj.planFor(root.Type())
	if err != nil {
		return nil, err
	}
	return plan.clone(), nil
}

// PlanType returns a copy of the cached plan for the struct type t
func (inj *Injector) PlanType(t reflect.Type) (*ClassPlan, error) {
	st := structType(t)
	if st == nil {
		return nil, errors.NewAccessError(errors.Subject{Type: fmt.Sprint(t)},
			"autowire target must be a struct, got %s", t)
	}
	if err := inj.checkInstance(st); err != nil {
		return nil, err
	}
	plan, err := inj.planFor(st)
	if err != nil {
		return nil, err
	}
	return plan.clone(), nil
}

// target validates obj and returns the struct it points to
func (inj *Injector) target(obj any) (reflect.Value, error) {
	v := reflect.ValueOf(obj)
	if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, errors.NewAccessError(errors.Subject{Type: fmt.Sprintf("%T", obj)},
			"autowire target must be a non-nil pointer to a struct, got %T", obj)
	}

	root := v.Elem()
	if err := inj.checkInstance(root.Type()); err != nil {
		return reflect.Value{}, err
	}
	return root, nil
}

// checkInstance enforces the base type in strict mode
func (inj *Injector) checkInstance(t reflect.Type) error {
	if !inj.strict {
		return nil
	}

	if inj.base.Kind() == reflect.Interface {
		if reflect.PointerTo(t).Implements(inj.base) {
			return nil
		}
	} else if embeds(t, structType(inj.base)) {
		return nil
	}

	aerr := errors.NewAccessError(errors.Subject{Type: typeref.Name(t)},
		"%s is not an instance of %s", typeref.Name(t), typeref.Name(inj.base))
	aerr.WithContext("base", typeref.Name(inj.base))
	aerr.WithSuggestion("embed " + typeref.ShortName(inj.base) + " or disable strict mode")
	return aerr
}

// build runs the extractor and the resolver for t
func (inj *Injector) build(t reflect.Type) (*ClassPlan, []cache.Dependency, error) {
	class := typeref.Name(t)
	inj.logger.Debug("building injection plan", slog.String("class", class))

	props, deps, err := inj.extract(t)
	if err != nil {
		return nil, nil, err
	}

	plan := &ClassPlan{
		Class:        class,
		Type:         t,
		Properties:   make([]InjectionPlan, 0, len(props)),
		Dependencies: make([]string, len(deps)),
	}
	for i, dep := range deps {
		plan.Dependencies[i] = dep.Identity
	}

	for _, prop := range props {
		resolved, err := inj.resolve(prop)
		if err != nil {
			inj.logger.Debug("injection plan rejected",
				slog.String("class", class),
				slog.String("field", prop.Field),
				slog.Any("error", err))
			return nil, nil, err
		}
		plan.Properties = append(plan.Properties, resolved)
	}

	inj.logger.Debug("injection plan built",
		slog.String("class", class),
		slog.Int("properties", len(plan.Properties)),
		slog.Int("dependencies", len(deps)))
	return plan, deps, nil
}

// produce returns the value for one field
func (inj *Injector) produce(prop InjectionPlan) (reflect.Value, error) {
	subj := errors.Subject{Type: typeref.Name(prop.DeclaringType), Field: prop.Property, Annotation: "autowire"}

	if prop.Factory != nil {
		return inj.callFactory(prop.Factory, subj)
	}

	handle, ok := inj.lookup.FindServiceType(prop.Target.Type)
	if !ok {
		return reflect.Value{}, errors.NewMissingServiceError(subj, prop.Target.Name, false)
	}
	instance, err := inj.lookup.ServiceInstance(handle)
	if err != nil {
		merr := errors.NewMissingServiceError(subj, prop.Target.Name, false)
		merr.WithCause(err)
		return reflect.Value{}, merr
	}
	if instance == nil {
		merr := errors.NewMissingServiceError(subj, prop.Target.Name, false)
		merr.WithCause(fmt.Errorf("service %q resolved to nil", handle.Name))
		return reflect.Value{}, merr
	}
	return reflect.ValueOf(instance), nil
}

// callFactory invokes a bound factory method
func (inj *Injector) callFactory(binding *FactoryBinding, subj errors.Subject) (reflect.Value, error) {
	instance, err := inj.lookup.ServiceInstance(binding.Service)
	if err == nil && instance == nil {
		err = fmt.Errorf("service %q resolved to nil", binding.Service.Name)
	}
	if err != nil {
		merr := errors.NewMissingServiceError(subj, binding.Type.Name, true)
		merr.WithCause(err)
		return reflect.Value{}, merr
	}

	method := reflect.ValueOf(instance).MethodByName(binding.Method)
	if !method.IsValid() {
		return reflect.Value{}, errors.WrapFactoryError(subj, binding.Type.Name, binding.Method,
			fmt.Errorf("service %q of type %T has no method %s", binding.Service.Name, instance, binding.Method))
	}

	out := method.Call(binding.Args)
	if binding.returnsError && !out[1].IsNil() {
		return reflect.Value{}, errors.WrapFactoryError(subj, binding.Type.Name, binding.Method, out[1].Interface().(error))
	}
	return out[0], nil
}
