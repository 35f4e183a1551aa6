package cache

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plan struct {
	Fields []string
}

func TestMemoryStore_LoadOrCompute(t *testing.T) {
	store := NewMemoryStore()
	calls := 0
	compute := func() (any, []Dependency, error) {
		calls++
		return &plan{Fields: []string{"Logger"}}, nil, nil
	}

	first, err := store.LoadOrCompute("home", compute)
	require.NoError(t, err)
	second, err := store.LoadOrCompute("home", compute)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)

	stats := store.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Builds)
}

func TestMemoryStore_ErrorsAreNotCached(t *testing.T) {
	store := NewMemoryStore()
	boom := errors.New("boom")
	calls := 0

	for i := 0; i < 2; i++ {
		_, err := store.LoadOrCompute("broken", func() (any, []Dependency, error) {
			calls++
			return nil, nil, boom
		})
		assert.ErrorIs(t, err, boom)
	}

	assert.Equal(t, 2, calls)
	assert.Empty(t, store.Keys())
}

func TestMemoryStore_InvalidatesOnDependencyChange(t *testing.T) {
	store := NewMemoryStore()
	var revision atomic.Int64
	marker := MarkerDependency("container", func() string {
		return strconv.FormatInt(revision.Load(), 10)
	})

	calls := 0
	compute := func() (any, []Dependency, error) {
		calls++
		return calls, []Dependency{marker}, nil
	}

	v, err := ComputeCached[int](store, "home", func() (int, []Dependency, error) {
		value, deps, err := compute()
		return value.(int), deps, err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = store.LoadOrCompute("home", compute)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	revision.Add(1)
	again, err := store.LoadOrCompute("home", compute)
	require.NoError(t, err)
	assert.Equal(t, 2, again)
	assert.Equal(t, int64(1), store.Stats().Stale)
	assert.Equal(t, []string{"marker:container"}, store.Dependencies("home"))
}

func TestMemoryStore_UnstampableValueIsServedButNotStored(t *testing.T) {
	store := NewMemoryStore()
	failing := Dependency{
		Identity:    "broken",
		Fingerprint: func() (string, error) { return "", errors.New("unreadable") },
	}

	value, err := store.LoadOrCompute("k", func() (any, []Dependency, error) {
		return "value", []Dependency{failing}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "value", value)
	assert.Empty(t, store.Keys())
	assert.Equal(t, int64(1), store.Stats().Uncacheable)
}

func TestMemoryStore_InvalidateAndClear(t *testing.T) {
	store := NewMemoryStore()
	compute := func() (any, []Dependency, error) { return 1, nil, nil }

	_, _ = store.LoadOrCompute("a", compute)
	_, _ = store.LoadOrCompute("b", compute)
	assert.Equal(t, []string{"a", "b"}, store.Keys())

	store.Invalidate("a")
	assert.Equal(t, []string{"b"}, store.Keys())

	store.Clear()
	assert.Empty(t, store.Keys())
	assert.Nil(t, store.Dependencies("b"))
}

func TestMemoryStore_ConcurrentMissesBuildOnce(t *testing.T) {
	store := NewMemoryStore()
	var builds atomic.Int64
	release := make(chan struct{})

	compute := func() (any, []Dependency, error) {
		builds.Add(1)
		<-release
		return &plan{}, nil, nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]any, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			value, err := store.LoadOrCompute("shared", compute)
			assert.NoError(t, err)
			results[i] = value
		}(i)
	}

	// give every caller a chance to join the in-flight build
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), builds.Load())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestComputeCached_TypeMismatch(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.LoadOrCompute("k", func() (any, []Dependency, error) { return "text", nil, nil })
	require.NoError(t, err)

	_, err = ComputeCached[int](store, "k", func() (int, []Dependency, error) { return 1, nil, nil })
	assert.Error(t, err)
}

func TestFileDependency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "home.go")
	dep := FileDependency(path)
	assert.Equal(t, "file:"+path, dep.Identity)

	absent, err := dep.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, "absent", absent)

	require.NoError(t, os.WriteFile(path, []byte("package app"), 0o644))
	created, err := dep.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, absent, created)

	require.NoError(t, os.WriteFile(path, []byte("package app\n\ntype Home struct{}"), 0o644))
	modified, err := dep.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, created, modified)
}

type located struct {
	Name string `autowire:""`
}

func (l *located) Describe() string { return l.Name }

type unlocated struct {
	Name string
}

type reshaped struct {
	Name string `autowire:"factory=Other"`
}

func TestTypeDependency(t *testing.T) {
	dep := TypeDependency(reflect.TypeOf(&located{}))
	assert.Equal(t, "type:github.com/toyz/autowire/internal/cache.located", dep.Identity)

	first, err := dep.Fingerprint()
	require.NoError(t, err)
	second, err := dep.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "@", "source file stamp is included")

	file, ok := SourceFile(reflect.TypeOf(located{}))
	require.True(t, ok)
	assert.Equal(t, "cache_test.go", filepath.Base(file))

	_, ok = SourceFile(reflect.TypeOf(unlocated{}))
	assert.False(t, ok)
}

func TestTypeHash(t *testing.T) {
	assert.Equal(t, TypeHash(reflect.TypeOf(located{})), TypeHash(reflect.TypeOf(located{})))
	assert.NotEqual(t, TypeHash(reflect.TypeOf(unlocated{})), TypeHash(reflect.TypeOf(reshaped{})))
}
