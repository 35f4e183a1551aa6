package autowire

import (
	"reflect"

	"github.com/toyz/autowire/internal/errors"
	"github.com/toyz/autowire/internal/tags"
	"github.com/toyz/autowire/internal/typeref"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// resolve turns a field declaration into an injection plan. Services are
// looked up but never instantiated.
func (inj *Injector) resolve(tag PropertyTag) (InjectionPlan, error) {
	subj := errors.Subject{Type: typeref.Name(tag.DeclaringType), Field: tag.Field, Annotation: tags.Autowire}
	if tag.TypeTagged {
		subj.Annotation = tags.Type
	}

	scope := inj.scope(tag)
	target, err := inj.resolveType(tag.RawType, tag.DeclaringType, scope, subj)
	if err != nil {
		return InjectionPlan{}, err
	}

	plan := InjectionPlan{
		DeclaringType: tag.DeclaringType,
		Property:      tag.Field,
		Index:         tag.Index,
		Exported:      tag.Exported,
		FieldType:     tag.FieldType,
		Target:        target,
	}

	subj.Annotation = tags.Autowire
	if tag.HasFactory {
		binding, err := inj.bindFactory(tag, target, scope, subj)
		if err != nil {
			return InjectionPlan{}, err
		}
		plan.Factory = binding
		return plan, nil
	}

	handle, ok := inj.lookup.FindServiceType(target.Type)
	if !ok {
		return InjectionPlan{}, errors.NewMissingServiceError(subj, target.Name, false)
	}
	if !handle.Type.AssignableTo(tag.FieldType) {
		return InjectionPlan{}, errors.NewTypeMismatchError(subj, typeref.Name(tag.FieldType), typeref.Name(handle.Type),
			"service %q of type %s is not assignable to field of type %s", handle.Name, handle.Type, tag.FieldType)
	}
	return plan, nil
}

// bindFactory resolves the factory of a field and checks what it produces
func (inj *Injector) bindFactory(tag PropertyTag, target TypeRef, scope typeref.Source, subj errors.Subject) (*FactoryBinding, error) {
	factoryRef, method := tags.SplitFactory(tag.RawFactory, DefaultFactoryMethod)

	factory, err := inj.resolveType(factoryRef, tag.DeclaringType, scope, subj)
	if err != nil {
		return nil, err
	}

	handle, ok := inj.lookup.FindServiceType(factory.Type)
	if !ok {
		return nil, errors.NewMissingServiceError(subj, factory.Name, true)
	}

	m, ok := handle.Type.MethodByName(method)
	if !ok {
		verr := errors.NewValidationError(subj, "factory %s has no exported method %s", factory.Name, method)
		verr.WithContext("factory", factory.Name)
		verr.WithSuggestion("factory methods must be exported and declared on the registered service type " + handle.Type.String())
		return nil, verr
	}

	returnSubj := subj
	returnSubj.Annotation = "return"
	mt := m.Type
	returnsError := mt.NumOut() == 2 && mt.Out(1) == errorType
	if mt.NumOut() == 0 || mt.NumOut() > 2 || (mt.NumOut() == 2 && !returnsError) {
		return nil, errors.NewValidationError(returnSubj,
			"factory %s::%s must return (T) or (T, error), it returns %d values", factory.Name, method, mt.NumOut())
	}

	produced := mt.Out(0)
	if !typeref.IsNamed(produced) {
		return nil, errors.NewValidationError(returnSubj,
			"factory %s::%s returns unnamed type %s", factory.Name, method, produced)
	}
	producedName := typeref.Name(produced)
	if producedName != target.Name {
		return nil, errors.NewTypeMismatchError(returnSubj, target.Name, producedName,
			"field %s requires %s, but factory of type %s, that creates %s was provided",
			tag.Field, target.Name, factory.Name, producedName)
	}
	if !produced.AssignableTo(tag.FieldType) {
		return nil, errors.NewTypeMismatchError(returnSubj, typeref.Name(tag.FieldType), producedName,
			"factory %s::%s returns %s, which is not assignable to field of type %s",
			factory.Name, method, produced, tag.FieldType)
	}

	args, err := convertArgs(tag.Args.Without(tags.Factory), mt)
	if err != nil {
		verr := errors.NewValidationError(subj, "invalid arguments for factory %s::%s", factory.Name, method)
		verr.WithCause(err)
		return nil, verr
	}

	return &FactoryBinding{
		Service:      handle,
		Type:         factory,
		Method:       method,
		Args:         args,
		Produces:     TypeRef{Name: producedName, Type: produced},
		returnsError: returnsError,
	}, nil
}

// resolveType applies the two step lookup to ref
func (inj *Injector) resolveType(ref string, owner reflect.Type, scope typeref.Source, subj errors.Subject) (TypeRef, error) {
	result := typeref.Resolve(ref, typeref.PackagePath(owner), scope)
	if !result.Found() {
		merr := errors.NewMissingTypeError(subj, typeref.Normalize(ref), result.Tried)
		if typeref.IsRooted(ref) {
			merr.WithSuggestion("check the import path of the reference")
		} else {
			merr.WithSuggestion("register the type with the container or use its full import path")
		}
		return TypeRef{}, merr
	}
	return TypeRef{Name: result.Name, Type: result.Type}, nil
}

// scope returns the type sources for a field: the types the declaring
// struct mentions in its fields, then the configured resolver
func (inj *Injector) scope(tag PropertyTag) typeref.Source {
	local := typeref.NewIndex()
	local.Add(tag.FieldType)
	if st := structType(tag.DeclaringType); st != nil {
		for i := 0; i < st.NumField(); i++ {
			local.Add(st.Field(i).Type)
		}
	}

	chain := typeref.Chain{local}
	if inj.resolver != nil {
		chain = append(chain, inj.resolver)
	}
	return chain
}

// convertArgs converts tag arguments to the parameter types of a method
// whose type includes the receiver
func convertArgs(args tags.Args, mt reflect.Type) ([]reflect.Value, error) {
	params := mt.NumIn() - 1
	variadic := mt.IsVariadic()

	if (!variadic && len(args) != params) || (variadic && len(args) < params-1) {
		want := params
		if variadic {
			want = params - 1
		}
		return nil, errors.Newf(errors.ValidationErrorCode, "expected %d arguments, got %d", want, len(args))
	}

	values := make([]reflect.Value, len(args))
	for i, arg := range args {
		var pt reflect.Type
		if variadic && i >= params-1 {
			pt = mt.In(params).Elem()
		} else {
			pt = mt.In(i + 1)
		}
		v, err := arg.Convert(pt)
		if err != nil {
			return nil, errors.Wrapf(errors.ValidationErrorCode, err, "argument %d", i+1)
		}
		values[i] = v
	}
	return values, nil
}
