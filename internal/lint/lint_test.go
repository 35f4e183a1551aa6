package lint

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/autowire/internal/errors"
)

const dataPkg = "example.com/lintdata/app"

func runLint(t *testing.T, strict bool, patterns ...string) *Report {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}
	dir, err := filepath.Abs(filepath.Join("testdata", "lintdata"))
	require.NoError(t, err)

	report, err := Run(context.Background(), Options{Dir: dir, Strict: strict}, patterns...)
	require.NoError(t, err)
	return report
}

// codes maps Type.Field to the kinds reported for it
func codes(r *Report) map[string][]errors.ErrorCode {
	out := make(map[string][]errors.ErrorCode)
	for _, f := range r.Findings {
		subj := f.Err.Subject()
		key := subj.Type + "." + subj.Field
		out[key] = append(out[key], f.Code())
	}
	return out
}

func TestRun_Findings(t *testing.T) {
	report := runLint(t, true, "./...")

	assert.Equal(t, []string{"example.com/lintdata/app", "example.com/lintdata/clean"}, report.Packages)
	assert.Equal(t, map[string][]errors.ErrorCode{
		dataPkg + ".Hidden.logger":   {errors.AccessErrorCode},
		dataPkg + ".Miscased.Logger": {errors.ValidationErrorCode},
		dataPkg + ".Unknowns.Thing":  {errors.MissingTypeErrorCode},
		dataPkg + ".Unknowns.Widget": {errors.ValidationErrorCode},
		dataPkg + ".Unknowns.Reset":  {errors.ValidationErrorCode},
		dataPkg + ".Unknowns.Rooted": {errors.MissingTypeErrorCode},
		dataPkg + ".Untyped.Thing":   {errors.ValidationErrorCode},
	}, codes(report))
	assert.NotContains(t, codes(report), dataPkg+".Plain.Enabled", "broken tags that only mention autowire in a value are not ours")
	assert.True(t, report.HasFindings())
	assert.Equal(t, map[string]int{
		"ValidationError":  4,
		"AccessError":      1,
		"MissingTypeError": 2,
	}, report.CountByCode())

	for _, f := range report.Findings {
		assert.Equal(t, "app.go", filepath.Base(f.Position.Filename))
		assert.Positive(t, f.Position.Line)
		assert.Contains(t, f.String(), "app.go:")
	}
}

func TestRun_Messages(t *testing.T) {
	report := runLint(t, true, "./app")

	messages := make(map[string]string)
	for _, f := range report.Findings {
		messages[f.Err.Subject().Field+"@"+f.Err.Subject().Type] = f.Err.Error()
	}

	assert.Contains(t, messages["Thing@"+dataPkg+".Unknowns"], `neither "Nowhere" nor "example.com/lintdata/app.Nowhere" was found`)
	assert.Contains(t, messages["Widget@"+dataPkg+".Unknowns"], "no exported method Assemble")
	assert.Contains(t, messages["Reset@"+dataPkg+".Unknowns"], "returns nothing")
	assert.Contains(t, messages["Logger@"+dataPkg+".Miscased"], `should be fixed to lowercase "autowire"`)
	assert.Contains(t, messages["Thing@"+dataPkg+".Untyped"], "missing type hint")
}

func TestRun_LaxSkipsAccess(t *testing.T) {
	report := runLint(t, false, "./...")

	got := codes(report)
	assert.NotContains(t, got, dataPkg+".Hidden.logger")
	assert.Len(t, got, 6)
}

func TestRun_CleanPackage(t *testing.T) {
	report := runLint(t, true, "./clean")
	assert.False(t, report.HasFindings())

	require.Len(t, report.Plans, 1)
	plan := report.Plans[0]
	assert.Equal(t, "example.com/lintdata/clean.Service", plan.Type)
	require.Len(t, plan.Fields, 3)
	assert.Equal(t, FieldPlan{
		Field:    "Widget",
		Type:     dataPkg + ".Widget",
		Factory:  "example.com/lintdata/app.WidgetFactory::Create",
		Exported: true,
		Owner:    "example.com/lintdata/clean.Service",
	}, plan.Fields[1])
	assert.Equal(t, "app.WidgetFactory::Create", plan.Fields[2].Factory)
}

func TestRun_PlanOrder(t *testing.T) {
	report := runLint(t, true, "./app")

	var home *StructPlan
	for i := range report.Plans {
		if report.Plans[i].Type == dataPkg+".Home" {
			home = &report.Plans[i]
		}
	}
	require.NotNil(t, home)

	var fields, owners []string
	for _, f := range home.Fields {
		fields = append(fields, f.Field)
		owners = append(owners, f.Owner)
	}
	assert.Equal(t, []string{"Widget", "Named", "Logger"}, fields)
	assert.Equal(t, []string{dataPkg + ".Home", dataPkg + ".Home", dataPkg + ".Base"}, owners)
	assert.Equal(t, "Logger", home.Fields[1].Type)

	for _, p := range report.Plans {
		assert.NotEqual(t, dataPkg+".Plain", p.Type)
	}
}

func TestRun_LoadError(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}
	dir, err := filepath.Abs(filepath.Join("testdata", "lintdata"))
	require.NoError(t, err)

	_, err = Run(context.Background(), Options{Dir: dir}, "./missing")
	assert.Error(t, err)
}

func TestRun_Ignore(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}
	dir, err := filepath.Abs(filepath.Join("testdata", "lintdata"))
	require.NoError(t, err)

	report, err := Run(context.Background(), Options{Dir: dir, Ignore: []string{"app.Base", dataPkg + ".Untyped"}}, "./app")
	require.NoError(t, err)

	types := make(map[string][]string)
	for _, p := range report.Plans {
		for _, f := range p.Fields {
			types[p.Type] = append(types[p.Type], f.Field)
		}
	}
	assert.NotContains(t, types, dataPkg+".Base")
	assert.NotContains(t, types, dataPkg+".Untyped")
	assert.Equal(t, []string{"Widget", "Named"}, types[dataPkg+".Home"])
	assert.NotContains(t, codes(report), dataPkg+".Untyped.Thing")
}
