package typeref

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/autowire/internal/fixtures/app"
	legacyapp "github.com/toyz/autowire/internal/fixtures/legacy/app"
)

type sampleLogger struct{}

type sampleStore interface{ Get() string }

const pkg = "github.com/toyz/autowire/internal/typeref"

func TestName(t *testing.T) {
	assert.Equal(t, pkg+".sampleLogger", Name(reflect.TypeOf(sampleLogger{})))
	assert.Equal(t, pkg+".sampleLogger", Name(reflect.TypeOf(&sampleLogger{})))
	assert.Equal(t, pkg+".sampleStore", Name(reflect.TypeOf((*sampleStore)(nil)).Elem()))
	assert.Equal(t, "string", Name(reflect.TypeOf("")))
	assert.Equal(t, "[]int", Name(reflect.TypeOf([]int{})))
	assert.Equal(t, "", Name(nil))

	assert.Equal(t, "typeref.sampleLogger", ShortName(reflect.TypeOf(&sampleLogger{})))
	assert.Equal(t, pkg, PackagePath(reflect.TypeOf(&sampleLogger{})))
	assert.True(t, IsNamed(reflect.TypeOf(&sampleLogger{})))
	assert.False(t, IsNamed(reflect.TypeOf((*interface{})(nil)).Elem()))
}

func TestQualify(t *testing.T) {
	tests := []struct {
		ref      string
		pkg      string
		expected string
	}{
		{"Logger", "example.com/app", "example.com/app.Logger"},
		{"sub.Logger", "example.com/app", "example.com/app/sub.Logger"},
		{"example.com/other.Logger", "example.com/app", "example.com/other.Logger"},
		{"Logger", "", "Logger"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.expected, Qualify(tt.ref, tt.pkg))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "app.Logger", Normalize(" *app.Logger "))
	assert.Equal(t, "Logger", Normalize("**Logger"))
	assert.True(t, IsRooted("example.com/app.Logger"))
	assert.False(t, IsRooted("app.Logger"))
}

func TestResolve(t *testing.T) {
	loggerType := reflect.TypeOf(sampleLogger{})
	idx := Scope(loggerType)

	t.Run("as written", func(t *testing.T) {
		result := Resolve("typeref.sampleLogger", "example.com/elsewhere", idx)
		require.True(t, result.Found())
		assert.Equal(t, loggerType, result.Type)
		assert.Equal(t, pkg+".sampleLogger", result.Name)
		assert.Equal(t, []string{"typeref.sampleLogger"}, result.Tried)
	})

	t.Run("relative to the declaring package", func(t *testing.T) {
		result := Resolve("*sampleLogger", pkg, idx)
		require.True(t, result.Found())
		assert.Equal(t, loggerType, result.Type)
		assert.Equal(t, []string{"sampleLogger", pkg + ".sampleLogger"}, result.Tried)
	})

	t.Run("bare reference not found tries both names", func(t *testing.T) {
		result := Resolve("Missing", pkg, idx)
		assert.Equal(t, NotFound, result.Status)
		assert.Nil(t, result.Type)
		assert.Equal(t, []string{"Missing", pkg + ".Missing"}, result.Tried)
	})

	t.Run("rooted reference is not retried", func(t *testing.T) {
		result := Resolve("example.com/app.Missing", pkg, idx)
		assert.False(t, result.Found())
		assert.Equal(t, []string{"example.com/app.Missing"}, result.Tried)
	})

	t.Run("empty reference", func(t *testing.T) {
		result := Resolve("  ", pkg, idx)
		assert.False(t, result.Found())
		assert.Empty(t, result.Tried)
	})
}

func TestChain(t *testing.T) {
	first := SourceFunc(func(name string) (reflect.Type, bool) {
		if name == "a" {
			return reflect.TypeOf(1), true
		}
		return nil, false
	})
	second := Scope(reflect.TypeOf(sampleLogger{}))

	chain := Chain{nil, first, second}

	got, ok := chain.ResolveTypeName("a")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(1), got)

	got, ok = chain.ResolveTypeName(pkg + ".sampleLogger")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(sampleLogger{}), got)

	_, ok = chain.ResolveTypeName("b")
	assert.False(t, ok)
}

func TestIndex(t *testing.T) {
	idx := NewIndex()
	idx.Add(reflect.TypeOf(struct{}{}), reflect.TypeOf(&sampleLogger{}), reflect.TypeOf(sampleLogger{}))

	assert.Equal(t, 1, idx.Len(), "unnamed and duplicate types are skipped")
	assert.Equal(t, []string{pkg + ".sampleLogger"}, idx.Names())

	got, ok := idx.ResolveTypeName("typeref.sampleLogger")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(sampleLogger{}), got)

	got, ok = idx.ResolveTypeName(pkg + ".sampleLogger")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(sampleLogger{}), got)
}

func TestIndex_AmbiguousShortNames(t *testing.T) {
	idx := Scope(reflect.TypeOf(app.Logger{}), reflect.TypeOf(legacyapp.Logger{}))

	assert.Equal(t, 2, idx.Len())

	_, ok := idx.ResolveTypeName("app.Logger")
	assert.False(t, ok, "short name shared by two packages must not resolve")

	got, ok := idx.ResolveTypeName(Name(reflect.TypeOf(legacyapp.Logger{})))
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(legacyapp.Logger{}), got)

	// re-adding a known type keeps the short name ambiguous
	idx.Add(reflect.TypeOf(app.Logger{}))
	_, ok = idx.ResolveTypeName("app.Logger")
	assert.False(t, ok)
}
