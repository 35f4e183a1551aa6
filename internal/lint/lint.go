// Package lint checks autowire declarations without running the program.
// Packages are loaded from source and every struct field carrying a tag
// spelled like autowire is read the way the injector reads it.
package lint

import (
	"context"
	"fmt"
	"go/token"
	"sort"

	"golang.org/x/tools/go/packages"

	"github.com/toyz/autowire/internal/errors"
)

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
	packages.NeedTypes | packages.NeedTypesInfo | packages.NeedImports

// Options controls a lint run
type Options struct {
	Dir           string // working directory for package patterns
	Strict        bool   // report unexported autowired fields
	Tests         bool   // include test files
	FactoryMethod string // method used when a factory names none, defaults to Create

	// Ignore names struct types that are never scanned, either by import
	// path (example.com/app.Base) or as written in source (app.Base)
	Ignore []string
}

// Finding is one problem found in a declaration
type Finding struct {
	Position token.Position
	Err      errors.AutowireError
}

// Code returns the error kind of the finding
func (f Finding) Code() errors.ErrorCode {
	return f.Err.ErrorCode()
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s", f.Position, f.Err.Error())
}

// FieldPlan is one autowired field as declared
type FieldPlan struct {
	Field    string
	Type     string // type reference, from the type tag or the field type
	Factory  string // Type::Method, empty for direct lookups
	Args     int    // factory arguments
	Exported bool
	Owner    string // declaring struct, differs from the plan type for inherited fields
}

// StructPlan lists the autowired fields of a struct in injection order:
// own fields first, then embedded structs depth first
type StructPlan struct {
	Type     string
	Position token.Position
	Fields   []FieldPlan
}

// Report is the result of a lint run
type Report struct {
	Packages []string
	Findings []Finding
	Plans    []StructPlan
}

// HasFindings reports whether anything was found
func (r *Report) HasFindings() bool {
	return len(r.Findings) > 0
}

// CountByCode groups findings by error kind name
func (r *Report) CountByCode() map[string]int {
	counts := make(map[string]int)
	for _, f := range r.Findings {
		counts[f.Code().String()]++
	}
	return counts
}

// Run loads the packages matching patterns and checks them
func Run(ctx context.Context, opts Options, patterns ...string) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	if opts.FactoryMethod == "" {
		opts.FactoryMethod = "Create"
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     opts.Dir,
		Tests:   opts.Tests,
		Fset:    token.NewFileSet(),
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.WrapConfigurationError("packages", "load", err)
	}

	var loadErrs *errors.MultipleErrors
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			errors.AddToMultiple(&loadErrs, errors.Newf(errors.ConfigurationErrorCode, "%s", e.Error()))
		}
	})
	if err := loadErrs.ErrorOrNil(); err != nil {
		return nil, err
	}

	a := newAnalyzer(cfg.Fset, opts)
	for _, pkg := range pkgs {
		if pkg.Types != nil {
			a.loaded[pkg.Types.Path()] = pkg.Types
		}
	}

	report := &Report{}
	for _, pkg := range pkgs {
		if pkg.Types == nil {
			continue
		}
		report.Packages = append(report.Packages, pkg.PkgPath)
		a.checkPackage(pkg.Types)
	}

	report.Findings = a.findings
	report.Plans = a.plans
	sort.Strings(report.Packages)
	sort.SliceStable(report.Findings, func(i, j int) bool {
		return positionLess(report.Findings[i].Position, report.Findings[j].Position)
	})
	sort.SliceStable(report.Plans, func(i, j int) bool {
		return report.Plans[i].Type < report.Plans[j].Type
	})
	return report, nil
}

func positionLess(a, b token.Position) bool {
	if a.Filename != b.Filename {
		return a.Filename < b.Filename
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}
