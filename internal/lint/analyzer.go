package lint

import (
	"go/token"
	"go/types"
	"path"
	"reflect"
	"strings"

	"github.com/toyz/autowire/internal/errors"
	"github.com/toyz/autowire/internal/tags"
	"github.com/toyz/autowire/internal/typeref"
)

type analyzer struct {
	fset     *token.FileSet
	opts     Options
	loaded   map[string]*types.Package
	ignored  map[string]bool
	reported map[string]bool
	findings []Finding
	plans    []StructPlan
}

func newAnalyzer(fset *token.FileSet, opts Options) *analyzer {
	a := &analyzer{
		fset:     fset,
		opts:     opts,
		loaded:   make(map[string]*types.Package),
		ignored:  make(map[string]bool),
		reported: make(map[string]bool),
	}
	for _, name := range opts.Ignore {
		a.ignored[typeref.Normalize(name)] = true
	}
	return a
}

// isIgnored matches named against the ignore list by full and short name
func (a *analyzer) isIgnored(named *types.Named) bool {
	if len(a.ignored) == 0 {
		return false
	}
	obj := named.Obj()
	if a.ignored[qualifiedName(named)] {
		return true
	}
	return obj.Pkg() != nil && a.ignored[path.Base(obj.Pkg().Path())+"."+obj.Name()]
}

// checkPackage reads every package level struct type of pkg
func (a *analyzer) checkPackage(pkg *types.Package) {
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || obj.IsAlias() {
			continue
		}
		named, ok := obj.Type().(*types.Named)
		if !ok {
			continue
		}
		st, ok := named.Underlying().(*types.Struct)
		if !ok {
			continue
		}

		plan := StructPlan{Type: qualifiedName(named), Position: a.fset.Position(obj.Pos())}
		a.walk(named, st, &plan, make(map[*types.Named]bool))
		if len(plan.Fields) > 0 {
			a.plans = append(a.plans, plan)
		}
	}
}

// walk scans own fields, then embedded structs depth first, each struct
// type once
func (a *analyzer) walk(owner *types.Named, st *types.Struct, plan *StructPlan, seen map[*types.Named]bool) {
	if seen[owner] || a.isIgnored(owner) {
		return
	}
	seen[owner] = true

	var ancestors []*types.Named
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		if fp, ok := a.readField(owner, field, reflect.StructTag(st.Tag(i))); ok {
			plan.Fields = append(plan.Fields, fp)
			continue
		}
		if field.Embedded() {
			if named, ok := deref(field.Type()).(*types.Named); ok {
				ancestors = append(ancestors, named)
			}
		}
	}

	for _, named := range ancestors {
		if embedded, ok := named.Underlying().(*types.Struct); ok {
			a.walk(named, embedded, plan, seen)
		}
	}
}

// readField returns the plan entry of an autowired field and reports the
// problems of its declaration
func (a *analyzer) readField(owner *types.Named, field *types.Var, raw reflect.StructTag) (FieldPlan, bool) {
	subj := errors.Subject{Type: qualifiedName(owner), Field: field.Name()}
	pos := field.Pos()

	list, err := tags.Parse(raw)
	if err != nil {
		if tags.Declares(raw) {
			subj.Annotation = tags.Autowire
			verr := errors.NewValidationError(subj, "malformed struct tag %q", string(raw))
			verr.WithCause(err)
			a.report(pos, verr)
		}
		return FieldPlan{}, false
	}

	tag, ok := tags.Find(list)
	if !ok {
		return FieldPlan{}, false
	}
	subj.Annotation = tag.Key

	if _, canonical := tags.Classify(tag.Key); !canonical {
		verr := errors.NewValidationError(subj, "tag %q should be fixed to lowercase %q", tag.Key, tags.Autowire).
			WithExpected(tags.Autowire, tag.Key)
		a.report(pos, verr)
	}
	if a.opts.Strict && !field.Exported() {
		a.report(pos, errors.NewAccessError(subj, "autowired field %s must be exported", field.Name()))
	}

	fp := FieldPlan{
		Field:    field.Name(),
		Exported: field.Exported(),
		Owner:    subj.Type,
	}

	pkg := owner.Obj().Pkg()
	rawType, typed := tags.Lookup(list, tags.Type)
	switch {
	case !typed && !isNamed(field.Type()):
		a.report(pos, errors.NewValidationError(subj, "missing type hint for field of unnamed type %s", field.Type()))
	case !typed:
		fp.Type = qualifiedName(field.Type())
	case strings.TrimSpace(rawType) == "":
		sub := subj
		sub.Annotation = tags.Type
		a.report(pos, errors.NewValidationError(sub, "empty type hint"))
	default:
		fp.Type = typeref.Normalize(rawType)
		sub := subj
		sub.Annotation = tags.Type
		a.checkReference(pos, sub, fp.Type, pkg)
	}

	args, err := tags.ParseArgs(tag.Value)
	if err != nil {
		verr := errors.NewValidationError(subj, "malformed autowire arguments")
		verr.WithCause(err)
		a.report(pos, verr)
		return fp, true
	}

	if rawFactory, ok := args.Get(tags.Factory); ok {
		if strings.TrimSpace(rawFactory) == "" {
			a.report(pos, errors.NewValidationError(subj, "empty factory reference"))
			return fp, true
		}
		typeRef, method := tags.SplitFactory(rawFactory, a.opts.FactoryMethod)
		fp.Factory = typeRef + "::" + method
		fp.Args = len(args.Without(tags.Factory))
		if obj := a.checkReference(pos, subj, typeRef, pkg); obj != nil {
			a.checkMethod(pos, subj, obj, method)
		}
	}
	return fp, true
}

// checkReference reports references that certainly do not resolve. Only
// bare names and import paths of loaded packages can be decided
// statically, short names may match any registered type.
func (a *analyzer) checkReference(pos token.Pos, subj errors.Subject, ref string, pkg *types.Package) *types.TypeName {
	ref = typeref.Normalize(ref)

	switch {
	case typeref.IsRooted(ref):
		idx := strings.LastIndex(ref, ".")
		if idx < 0 {
			return nil
		}
		target := a.lookupPackage(pkg, ref[:idx])
		if target == nil {
			return nil
		}
		if obj, ok := target.Scope().Lookup(ref[idx+1:]).(*types.TypeName); ok {
			return obj
		}
		a.report(pos, errors.NewMissingTypeError(subj, ref, []string{ref}))
	case !strings.Contains(ref, "."):
		if obj, ok := pkg.Scope().Lookup(ref).(*types.TypeName); ok {
			return obj
		}
		if _, ok := types.Universe.Lookup(ref).(*types.TypeName); ok {
			return nil
		}
		a.report(pos, errors.NewMissingTypeError(subj, ref, []string{ref, typeref.Qualify(ref, pkg.Path())}))
	}
	return nil
}

// checkMethod reports a factory method missing from the method set of
// a pointer to obj
func (a *analyzer) checkMethod(pos token.Pos, subj errors.Subject, obj *types.TypeName, method string) {
	found, _, _ := types.LookupFieldOrMethod(types.NewPointer(obj.Type()), true, obj.Pkg(), method)
	if fn, ok := found.(*types.Func); ok && fn.Exported() {
		sig := fn.Type().(*types.Signature)
		if sig.Results().Len() == 0 {
			a.report(pos, errors.NewValidationError(subj, "factory method %s.%s returns nothing", obj.Name(), method))
		}
		return
	}
	a.report(pos, errors.NewValidationError(subj, "factory type %s has no exported method %s", obj.Name(), method))
}

func (a *analyzer) lookupPackage(from *types.Package, pkgPath string) *types.Package {
	if from.Path() == pkgPath {
		return from
	}
	for _, imp := range from.Imports() {
		if imp.Path() == pkgPath {
			return imp
		}
	}
	return a.loaded[pkgPath]
}

// report records err once, embedded structs are reached from every type
// embedding them
func (a *analyzer) report(pos token.Pos, err errors.AutowireError) {
	position := a.fset.Position(pos)
	key := position.String() + "|" + err.Error()
	if a.reported[key] {
		return
	}
	a.reported[key] = true
	a.findings = append(a.findings, Finding{Position: position, Err: err})
}

func deref(t types.Type) types.Type {
	t = types.Unalias(t)
	if p, ok := t.(*types.Pointer); ok {
		return types.Unalias(p.Elem())
	}
	return t
}

func isNamed(t types.Type) bool {
	switch deref(t).(type) {
	case *types.Named, *types.Basic:
		return true
	}
	return false
}

// qualifiedName names t the way the injector does: import path, a dot,
// then the type name
func qualifiedName(t types.Type) string {
	switch tt := deref(t).(type) {
	case *types.Named:
		obj := tt.Obj()
		if obj.Pkg() == nil {
			return obj.Name()
		}
		return obj.Pkg().Path() + "." + obj.Name()
	case *types.Basic:
		return tt.Name()
	default:
		return types.TypeString(tt, nil)
	}
}
