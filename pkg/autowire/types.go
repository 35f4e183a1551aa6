package autowire

import (
	"reflect"
	"strings"

	"github.com/toyz/autowire/internal/tags"
)

// DefaultFactoryMethod is called when a factory reference names no method
const DefaultFactoryMethod = "Create"

// Component is the default base type of injectable structs. In strict
// mode only structs embedding it can be injected, and its own fields are
// never scanned.
type Component struct{}

// ServiceHandle identifies a registered service
type ServiceHandle struct {
	Name string       // registration name
	Type reflect.Type // dynamic type of the service
}

// IsZero reports whether the handle identifies nothing
func (h ServiceHandle) IsZero() bool {
	return h.Name == "" && h.Type == nil
}

// ServiceLookup is the container the injector reads services from
type ServiceLookup interface {
	// FindServiceType returns the service registered for t
	FindServiceType(t reflect.Type) (ServiceHandle, bool)

	// ServiceInstance returns the service identified by h
	ServiceInstance(h ServiceHandle) (any, error)
}

// TypeResolver maps the type names written in tags to types
type TypeResolver interface {
	ResolveTypeName(name string) (reflect.Type, bool)
}

// Identifier is implemented by service lookups whose content can change.
// Cached plans are rebuilt whenever the fingerprint changes.
type Identifier interface {
	Identity() string
	Fingerprint() string
}

// TypeRef is a resolved type reference
type TypeRef struct {
	Name string       // qualified name, pkgpath.Name
	Type reflect.Type // resolved type
}

// String returns the qualified name
func (r TypeRef) String() string {
	return r.Name
}

// PropertyTag is the raw autowire declaration of one field
type PropertyTag struct {
	DeclaringType reflect.Type // struct declaring the field
	Field         string
	Index         []int // path from the injected struct to the field
	Exported      bool
	FieldType     reflect.Type
	RawType       string // type reference, from the type tag or the field type
	TypeTagged    bool   // RawType came from a type tag
	RawFactory    string
	HasFactory    bool
	Args          tags.Args // autowire tag arguments, factory included
}

// InjectionPlan describes how one field is filled
type InjectionPlan struct {
	DeclaringType reflect.Type
	Property      string
	Index         []int
	Exported      bool
	FieldType     reflect.Type
	Target        TypeRef
	Factory       *FactoryBinding // nil for plans looked up by type
}

// IsFactory reports whether the field is produced by a factory
func (p InjectionPlan) IsFactory() bool {
	return p.Factory != nil
}

// FactoryBinding is a factory service, the method to call on it and the
// converted arguments to call it with
type FactoryBinding struct {
	Service  ServiceHandle
	Type     TypeRef
	Method   string
	Args     []reflect.Value
	Produces TypeRef

	returnsError bool
}

// String returns the binding as written in tags, e.g. app.WidgetFactory::Create
func (b *FactoryBinding) String() string {
	return b.Type.Name + "::" + b.Method
}

// Arguments returns the bound arguments as plain values
func (b *FactoryBinding) Arguments() []any {
	out := make([]any, len(b.Args))
	for i, arg := range b.Args {
		out[i] = arg.Interface()
	}
	return out
}

// ClassPlan is the plan of one struct type. The cached plan is shared by
// every injection of the type; callers only ever see copies of it.
type ClassPlan struct {
	Class        string       // qualified name of the injected struct
	Type         reflect.Type // injected struct type
	Properties   []InjectionPlan
	Dependencies []string // identities of what the plan was built from
}

func (p *ClassPlan) clone() *ClassPlan {
	out := *p
	out.Dependencies = append([]string(nil), p.Dependencies...)
	out.Properties = make([]InjectionPlan, len(p.Properties))
	for i, prop := range p.Properties {
		prop.Index = append([]int(nil), prop.Index...)
		if prop.Factory != nil {
			binding := *prop.Factory
			binding.Args = append([]reflect.Value(nil), binding.Args...)
			prop.Factory = &binding
		}
		out.Properties[i] = prop
	}
	return &out
}

// IsEmpty reports whether the plan injects nothing
func (p *ClassPlan) IsEmpty() bool {
	return len(p.Properties) == 0
}

// Property returns the plan of the named field
func (p *ClassPlan) Property(name string) (InjectionPlan, bool) {
	for _, prop := range p.Properties {
		if prop.Property == name {
			return prop, true
		}
	}
	return InjectionPlan{}, false
}

// String returns a one-line summary of the plan
func (p *ClassPlan) String() string {
	names := make([]string, len(p.Properties))
	for i, prop := range p.Properties {
		names[i] = prop.Property
	}
	return p.Class + "{" + strings.Join(names, ", ") + "}"
}
