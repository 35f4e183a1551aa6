package autowire

import (
	"reflect"
	"strings"

	"github.com/toyz/autowire/internal/cache"
	"github.com/toyz/autowire/internal/errors"
	"github.com/toyz/autowire/internal/tags"
	"github.com/toyz/autowire/internal/typeref"
)

// ancestor is an embedded struct waiting to be scanned
type ancestor struct {
	typ   reflect.Type
	index []int
}

// extract scans t and its embedded ancestry for autowired fields. Own
// fields come first, then every embedded struct depth first. Each struct
// type is scanned once and types of the ignore set are skipped.
func (inj *Injector) extract(t reflect.Type) ([]PropertyTag, []cache.Dependency, error) {
	var (
		props []PropertyTag
		deps  []cache.Dependency
		seen  = make(map[reflect.Type]bool)
	)

	var scan func(st reflect.Type, prefix []int) error
	scan = func(st reflect.Type, prefix []int) error {
		if seen[st] || inj.isIgnored(st) {
			return nil
		}
		seen[st] = true
		deps = append(deps, cache.TypeDependency(st))

		var ancestors []ancestor
		for i := 0; i < st.NumField(); i++ {
			field := st.Field(i)
			index := append(append(make([]int, 0, len(prefix)+1), prefix...), i)

			prop, ok, err := inj.readField(st, field, index)
			if err != nil {
				return err
			}
			if ok {
				props = append(props, prop)
				continue
			}
			if field.Anonymous {
				if embedded := structType(field.Type); embedded != nil {
					ancestors = append(ancestors, ancestor{typ: embedded, index: index})
				}
			}
		}

		for _, a := range ancestors {
			if err := scan(a.typ, a.index); err != nil {
				return err
			}
		}
		return nil
	}

	if err := scan(t, nil); err != nil {
		return nil, nil, err
	}

	deps = append(deps, inj.lookupDependency())
	return props, deps, nil
}

// readField returns the autowire declaration of field, if it has one
func (inj *Injector) readField(owner reflect.Type, field reflect.StructField, index []int) (PropertyTag, bool, error) {
	subj := errors.Subject{Type: typeref.Name(owner), Field: field.Name}

	list, err := tags.Parse(field.Tag)
	if err != nil {
		// a broken tag is only our problem when it declares our key
		if !tags.Declares(field.Tag) {
			return PropertyTag{}, false, nil
		}
		subj.Annotation = tags.Autowire
		verr := errors.NewValidationError(subj, "malformed struct tag %q", string(field.Tag))
		verr.WithCause(err).WithSuggestion(`write tags as key:"value" pairs separated by spaces`)
		return PropertyTag{}, false, verr
	}

	tag, ok := tags.Find(list)
	if !ok {
		return PropertyTag{}, false, nil
	}
	subj.Annotation = tag.Key

	if _, canonical := tags.Classify(tag.Key); !canonical {
		verr := errors.NewValidationError(subj, "tag %q should be fixed to lowercase %q", tag.Key, tags.Autowire).
			WithExpected(tags.Autowire, tag.Key)
		verr.WithSuggestion(`rename the tag key to autowire`)
		return PropertyTag{}, false, verr
	}

	if inj.strict && !field.IsExported() {
		aerr := errors.NewAccessError(subj, "autowired field %s must be exported", field.Name)
		aerr.WithSuggestion("export the field or disable strict mode")
		return PropertyTag{}, false, aerr
	}

	rawType, typed := tags.Lookup(list, tags.Type)
	if !typed {
		if !typeref.IsNamed(field.Type) {
			verr := errors.NewValidationError(subj, "missing type hint for field of unnamed type %s", field.Type)
			verr.WithSuggestion(`add a type:"..." tag naming the service type`)
			return PropertyTag{}, false, verr
		}
		rawType = typeref.Name(field.Type)
	} else if strings.TrimSpace(rawType) == "" {
		sub := subj
		sub.Annotation = tags.Type
		return PropertyTag{}, false, errors.NewValidationError(sub, "empty type hint")
	}

	args, err := tags.ParseArgs(tag.Value)
	if err != nil {
		verr := errors.NewValidationError(subj, "malformed autowire arguments")
		verr.WithCause(err)
		return PropertyTag{}, false, verr
	}
	rawFactory, hasFactory := args.Get(tags.Factory)
	if hasFactory && strings.TrimSpace(rawFactory) == "" {
		return PropertyTag{}, false, errors.NewValidationError(subj, "empty factory reference")
	}

	return PropertyTag{
		DeclaringType: owner,
		Field:         field.Name,
		Index:         index,
		Exported:      field.IsExported(),
		FieldType:     field.Type,
		RawType:       rawType,
		TypeTagged:    typed,
		RawFactory:    rawFactory,
		HasFactory:    hasFactory,
		Args:          args,
	}, true, nil
}

// isIgnored reports whether t belongs to the ignore set
func (inj *Injector) isIgnored(t reflect.Type) bool {
	_, ok := inj.ignored[t]
	return ok
}

// buildIgnoreSet collects the base type, its embedded ancestry and the
// extra ignored types
func buildIgnoreSet(base reflect.Type, extra []reflect.Type) map[reflect.Type]struct{} {
	set := make(map[reflect.Type]struct{})

	var add func(t reflect.Type)
	add = func(t reflect.Type) {
		st := structType(t)
		if st == nil {
			return
		}
		if _, done := set[st]; done {
			return
		}
		set[st] = struct{}{}
		for i := 0; i < st.NumField(); i++ {
			if f := st.Field(i); f.Anonymous {
				add(f.Type)
			}
		}
	}

	if base != nil {
		add(base)
	}
	for _, t := range extra {
		if st := structType(t); st != nil {
			set[st] = struct{}{}
		}
	}
	return set
}

// embeds reports whether t is base or embeds it somewhere in its ancestry
func embeds(t, base reflect.Type) bool {
	seen := make(map[reflect.Type]bool)

	var walk func(st reflect.Type) bool
	walk = func(st reflect.Type) bool {
		if st == base {
			return true
		}
		if seen[st] {
			return false
		}
		seen[st] = true
		for i := 0; i < st.NumField(); i++ {
			f := st.Field(i)
			if !f.Anonymous {
				continue
			}
			if embedded := structType(f.Type); embedded != nil && walk(embedded) {
				return true
			}
		}
		return false
	}

	if st := structType(t); st != nil {
		return walk(st)
	}
	return false
}

// structType returns t, or the struct t points to, or nil
func structType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return t
}
