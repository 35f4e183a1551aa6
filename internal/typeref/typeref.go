// Package typeref resolves the textual type references found in autowire
// tags to runtime types.
//
// A reference is either rooted (it contains an import path, e.g.
// example.com/app.Logger) or relative (Logger, sub.Logger). Relative
// references are tried as written first and then relative to the package
// of the struct that declares the field.
package typeref

import (
	"path"
	"reflect"
	"strings"
)

// Status tells whether a reference resolved
type Status int

const (
	NotFound Status = iota
	Found
)

// String returns the string representation of the status
func (s Status) String() string {
	if s == Found {
		return "found"
	}
	return "not found"
}

// Result is the outcome of resolving one reference
type Result struct {
	Status Status
	Name   string       // qualified name of the resolved type
	Type   reflect.Type // resolved type, nil when not found
	Tried  []string     // names looked up, in order
}

// Found reports whether the reference resolved
func (r Result) Found() bool {
	return r.Status == Found
}

// Source maps type names to types
type Source interface {
	ResolveTypeName(name string) (reflect.Type, bool)
}

// SourceFunc adapts a function to the Source interface
type SourceFunc func(name string) (reflect.Type, bool)

// ResolveTypeName calls f(name)
func (f SourceFunc) ResolveTypeName(name string) (reflect.Type, bool) {
	return f(name)
}

// Chain searches its sources in order. Nil sources are skipped.
type Chain []Source

// ResolveTypeName returns the first hit of the chain
func (c Chain) ResolveTypeName(name string) (reflect.Type, bool) {
	for _, src := range c {
		if src == nil {
			continue
		}
		if t, ok := src.ResolveTypeName(name); ok {
			return t, true
		}
	}
	return nil, false
}

// Indirect strips every pointer level from t
func Indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// Name returns the qualified name of t (pkgpath.Name), pointers stripped.
// Predeclared types return their bare name and unnamed types their literal.
func Name(t reflect.Type) string {
	t = Indirect(t)
	if t == nil {
		return ""
	}
	if t.Name() == "" {
		return t.String()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// ShortName returns the name of t as written in source, e.g. app.Logger
func ShortName(t reflect.Type) string {
	t = Indirect(t)
	if t == nil {
		return ""
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return Name(t)
	}
	return path.Base(t.PkgPath()) + "." + t.Name()
}

// PackagePath returns the import path of the package declaring t
func PackagePath(t reflect.Type) string {
	t = Indirect(t)
	if t == nil {
		return ""
	}
	return t.PkgPath()
}

// IsNamed reports whether t, pointers stripped, is a named type
func IsNamed(t reflect.Type) bool {
	t = Indirect(t)
	return t != nil && t.Name() != ""
}

// Normalize trims a reference and drops a leading pointer marker
func Normalize(ref string) string {
	ref = strings.TrimSpace(ref)
	return strings.TrimSpace(strings.TrimLeft(ref, "*"))
}

// IsRooted reports whether ref already names its package by import path
func IsRooted(ref string) bool {
	return strings.Contains(ref, "/")
}

// Qualify returns ref relative to the package pkg: Logger becomes
// pkg.Logger and sub.Logger becomes pkg/sub.Logger.
func Qualify(ref, pkg string) string {
	if pkg == "" || IsRooted(ref) {
		return ref
	}
	if idx := strings.LastIndex(ref, "."); idx >= 0 {
		return pkg + "/" + ref[:idx] + "." + ref[idx+1:]
	}
	return pkg + "." + ref
}

// Resolve looks ref up in src: first as written, then, unless the
// reference is rooted, relative to contextPkg.
func Resolve(ref, contextPkg string, src Source) Result {
	ref = Normalize(ref)
	result := Result{Status: NotFound}
	if ref == "" || src == nil {
		return result
	}

	candidates := []string{ref}
	if !IsRooted(ref) {
		if qualified := Qualify(ref, contextPkg); qualified != ref {
			candidates = append(candidates, qualified)
		}
	}

	for _, name := range candidates {
		result.Tried = append(result.Tried, name)
		if t, ok := src.ResolveTypeName(name); ok {
			result.Status = Found
			result.Type = t
			result.Name = Name(t)
			return result
		}
	}
	return result
}
