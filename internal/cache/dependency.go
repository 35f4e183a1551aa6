package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// FileDependency tracks a file by modification time and size. A missing
// file has a fingerprint of its own, so creating or deleting it also
// invalidates.
func FileDependency(path string) Dependency {
	return Dependency{
		Identity: "file:" + path,
		Fingerprint: func() (string, error) {
			return fileStamp(path)
		},
	}
}

func fileStamp(path string) (string, error) {
	stat, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "absent", nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d:%d", stat.ModTime().UnixNano(), stat.Size()), nil
}

// TypeDependency tracks a struct type: its declared shape and, when it
// can be located through its methods, the source file declaring it.
func TypeDependency(t reflect.Type) Dependency {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	shape := sync.OnceValue(func() uint64 { return TypeHash(t) })
	source, hasSource := SourceFile(t)

	return Dependency{
		Identity: "type:" + t.PkgPath() + "." + t.Name(),
		Fingerprint: func() (string, error) {
			stamp := strconv.FormatUint(shape(), 16)
			if !hasSource {
				return stamp, nil
			}
			file, err := fileStamp(source)
			if err != nil {
				return "", err
			}
			return stamp + "@" + file, nil
		},
	}
}

// MarkerDependency tracks an arbitrary marker, e.g. a container revision
func MarkerDependency(identity string, fingerprint func() string) Dependency {
	return Dependency{
		Identity: "marker:" + identity,
		Fingerprint: func() (string, error) {
			return fingerprint(), nil
		},
	}
}

// TypeHash hashes the declared shape of t: for structs every field name,
// type, tag and embedding, followed by the method set.
func TypeHash(t reflect.Type) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(t.String())
	_, _ = h.WriteString(t.PkgPath())

	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			_, _ = fmt.Fprintf(h, "|%s %s %q %t", f.Name, f.Type, f.Tag, f.Anonymous)
		}
	}

	pt := reflect.PointerTo(t)
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		_, _ = fmt.Fprintf(h, "|%s%s", m.Name, strings.TrimPrefix(m.Type.String(), "func"))
	}
	return h.Sum64()
}

// SourceFile locates the file declaring t through the program counters of
// its methods. Types without methods cannot be located.
func SourceFile(t reflect.Type) (string, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for _, candidate := range []reflect.Type{t, reflect.PointerTo(t)} {
		if candidate.Kind() == reflect.Interface {
			continue
		}
		for i := 0; i < candidate.NumMethod(); i++ {
			fn := runtime.FuncForPC(candidate.Method(i).Func.Pointer())
			if fn == nil {
				continue
			}
			file, _ := fn.FileLine(fn.Entry())
			if file == "" || strings.HasPrefix(file, "<") {
				continue
			}
			return file, true
		}
	}
	return "", false
}
